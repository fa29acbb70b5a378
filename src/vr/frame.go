package vr

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"parallax/src/render"
	"parallax/src/xr"
)

// imageWaitTimeout bounds the per-image wait. The compositor normally
// returns an image well under a display period; a full second means
// the runtime is wedged and blocking forever would hide that.
const imageWaitTimeout = xr.Duration(time.Second)

// ViewRenderer draws one eye into the given attachments.
type ViewRenderer interface {
	RenderView(color, depth vk.ImageView, viewProj mgl32.Mat4) error
}

// FrameCycle runs the per-frame protocol: wait, begin, locate, render
// each eye, end. One instance per session; all methods are called from
// the session's thread.
type FrameCycle struct {
	rt         xr.Runtime
	session    *Session
	space      xr.Space
	swapchains *SwapchainSet
	renderer   ViewRenderer
	blendMode  xr.EnvironmentBlendMode

	// Scratch reused across frames so the steady-state loop does not
	// allocate.
	views     [xr.StereoViewCount]xr.View
	projViews [xr.StereoViewCount]xr.CompositionLayerProjectionView
	layer     xr.CompositionLayerProjection
	layers    []*xr.CompositionLayerProjection
}

func NewFrameCycle(rt xr.Runtime, session *Session, space xr.Space, swapchains *SwapchainSet, renderer ViewRenderer, blendMode xr.EnvironmentBlendMode) *FrameCycle {
	f := &FrameCycle{
		rt:         rt,
		session:    session,
		space:      space,
		swapchains: swapchains,
		renderer:   renderer,
		blendMode:  blendMode,
		layers:     make([]*xr.CompositionLayerProjection, 0, 1),
	}
	f.layer.Space = space
	return f
}

// RenderFrame runs one full frame cycle. Errors before the begin call
// are returned to the caller; once a frame is begun it must be ended,
// so runtime failures past that point panic rather than leave the
// frame protocol desynchronized.
func (f *FrameCycle) RenderFrame() error {
	if !f.session.RunFrameCycle() {
		return nil
	}

	state, err := f.rt.WaitFrame(f.session.Handle())
	if err != nil {
		return err
	}
	render.OrPanic(f.rt.BeginFrame(f.session.Handle()))

	layerCount := 0
	if state.ShouldRender {
		flags, located, err := f.rt.LocateViews(f.session.Handle(), &xr.ViewLocateInfo{
			ViewConfiguration: xr.ViewConfigurationPrimaryStereo,
			DisplayTime:       state.PredictedDisplayTime,
			Space:             f.space,
		}, f.views[:0])
		render.OrPanic(err)

		viewCount := len(located)
		if viewCount > xr.StereoViewCount {
			viewCount = xr.StereoViewCount
		}
		copy(f.views[:], located[:viewCount])

		for i := 0; i < viewCount; i++ {
			f.projViews[i] = f.renderOneView(i, f.views[i])
		}

		// Submit the layer only with a valid stereo pose. A frame
		// with no layers is the normal "nothing to show" submission.
		if flags&xr.ViewStateOrientationValidBit != 0 && viewCount == xr.StereoViewCount {
			f.layer.Views = f.projViews[:]
			layerCount = 1
		}
	}

	f.layers = f.layers[:0]
	if layerCount > 0 {
		f.layers = append(f.layers, &f.layer)
	}
	render.OrPanic(f.rt.EndFrame(f.session.Handle(), &xr.FrameEndInfo{
		DisplayTime:          state.PredictedDisplayTime,
		EnvironmentBlendMode: f.blendMode,
		Layers:               f.layers,
	}))
	return nil
}

// renderOneView acquires this eye's color and depth images, draws into
// them, and releases both. Acquire and release failures panic: losing
// track of the acquire/release pairing poisons every later frame. A
// draw failure only loses this eye's image for this frame, so it is
// logged and the images are still released.
func (f *FrameCycle) renderOneView(index int, view xr.View) xr.CompositionLayerProjectionView {
	pair := &f.swapchains.Pairs[index]

	colorIdx, err := f.rt.AcquireSwapchainImage(pair.Color.Handle)
	render.OrPanic(err)
	depthIdx, err := f.rt.AcquireSwapchainImage(pair.Depth.Handle)
	render.OrPanic(err)

	render.OrPanic(f.rt.WaitSwapchainImage(pair.Color.Handle, imageWaitTimeout))
	render.OrPanic(f.rt.WaitSwapchainImage(pair.Depth.Handle, imageWaitTimeout))

	vp := ViewProjection(view, DefaultNear, DefaultFar)
	if err := f.renderer.RenderView(pair.Color.Views[colorIdx], pair.Depth.Views[depthIdx], vp); err != nil {
		Logger().Error("view render failed", "view", index, "error", err)
	}

	render.OrPanic(f.rt.ReleaseSwapchainImage(pair.Color.Handle))
	render.OrPanic(f.rt.ReleaseSwapchainImage(pair.Depth.Handle))

	return xr.CompositionLayerProjectionView{
		Pose: view.Pose,
		Fov:  view.Fov,
		SubImage: xr.SwapchainSubImage{
			Swapchain: pair.Color.Handle,
			ImageRect: xr.Rect2Di{
				Extent: xr.Extent2Di{
					Width:  int32(pair.Color.Width),
					Height: int32(pair.Color.Height),
				},
			},
		},
	}
}
