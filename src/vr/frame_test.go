package vr

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"

	"parallax/src/xr"
)

type fakeRenderer struct {
	calls int
	fail  bool
	mats  []mgl32.Mat4
}

func (f *fakeRenderer) RenderView(color, depth vk.ImageView, viewProj mgl32.Mat4) error {
	f.calls++
	f.mats = append(f.mats, viewProj)
	if f.fail {
		return assert.AnError
	}
	return nil
}

func newTestFrameCycle(t *testing.T, rt *scriptedRuntime) (*FrameCycle, *Session, *fakeRenderer) {
	t.Helper()
	session := newTestSession(rt)

	set, err := NewSwapchainSet(rt, session.Handle(), rt.viewConfig,
		vk.FormatR8g8b8a8Srgb, vk.FormatD32Sfloat)
	require.NoError(t, err)
	// No graphics device in these tests; stand in for CreateImageViews.
	for i := range set.Pairs {
		set.Pairs[i].Color.Views = make([]vk.ImageView, len(set.Pairs[i].Color.Images))
		set.Pairs[i].Depth.Views = make([]vk.ImageView, len(set.Pairs[i].Depth.Images))
	}

	renderer := &fakeRenderer{}
	return NewFrameCycle(rt, session, xr.Space(3), set, renderer, xr.EnvironmentBlendModeOpaque), session, renderer
}

func TestRenderFrameSkipsWhenNotRunning(t *testing.T) {
	rt := newScriptedRuntime()
	f, _, renderer := newTestFrameCycle(t, rt)

	require.NoError(t, f.RenderFrame())
	assert.Zero(t, rt.waitFrameCalls)
	assert.Zero(t, renderer.calls)
}

func TestRenderFrameFullCycle(t *testing.T) {
	rt := newScriptedRuntime()
	f, session, renderer := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))
	rt.trace = nil

	require.NoError(t, f.RenderFrame())

	assert.Equal(t, 2, renderer.calls)
	assert.Equal(t, 4, rt.acquireCalls)
	assert.Equal(t, 4, rt.waitImageCalls)
	assert.Equal(t, 4, rt.releaseCalls)
	for sc, n := range rt.acquired {
		assert.Zero(t, n, "swapchain %d left acquired", sc)
	}

	require.NotEmpty(t, rt.trace)
	assert.Equal(t, "waitFrame", rt.trace[0])
	assert.Equal(t, "beginFrame", rt.trace[1])
	assert.Equal(t, "locateViews", rt.trace[2])
	assert.Equal(t, "endFrame(layers=1)", rt.trace[len(rt.trace)-1])
}

func TestRenderFrameSubmitsLayer(t *testing.T) {
	rt := newScriptedRuntime()
	f, session, _ := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.NoError(t, f.RenderFrame())

	require.NotNil(t, rt.lastEndInfo)
	assert.Equal(t, rt.frameState.PredictedDisplayTime, rt.lastEndInfo.DisplayTime)
	assert.Equal(t, xr.EnvironmentBlendModeOpaque, rt.lastEndInfo.EnvironmentBlendMode)
	require.Len(t, rt.lastEndInfo.Layers, 1)

	layer := rt.lastEndInfo.Layers[0]
	assert.Equal(t, xr.Space(3), layer.Space)
	require.Len(t, layer.Views, xr.StereoViewCount)
	for i, pv := range layer.Views {
		assert.Equal(t, f.swapchains.Pairs[i].Color.Handle, pv.SubImage.Swapchain)
		assert.Equal(t, int32(1600), pv.SubImage.ImageRect.Extent.Width)
		assert.Equal(t, int32(1440), pv.SubImage.ImageRect.Extent.Height)
		assert.Equal(t, rt.located[i].Fov, pv.Fov)
	}
}

func TestRenderFrameShouldRenderFalse(t *testing.T) {
	rt := newScriptedRuntime()
	rt.frameState.ShouldRender = false
	f, session, renderer := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.NoError(t, f.RenderFrame())

	// Frame still begun and ended, but nothing acquired or drawn.
	assert.Equal(t, 1, rt.beginFrameCalls)
	assert.Equal(t, 1, rt.endFrameCalls)
	assert.Zero(t, rt.acquireCalls)
	assert.Zero(t, renderer.calls)
	require.NotNil(t, rt.lastEndInfo)
	assert.Empty(t, rt.lastEndInfo.Layers)
}

func TestRenderFrameInvalidOrientationDropsLayer(t *testing.T) {
	rt := newScriptedRuntime()
	rt.viewState = 0
	f, session, _ := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.NoError(t, f.RenderFrame())

	require.NotNil(t, rt.lastEndInfo)
	assert.Empty(t, rt.lastEndInfo.Layers)
	// Images were still cycled through the compositor.
	assert.Equal(t, 4, rt.releaseCalls)
}

func TestRenderFrameWaitFailureReturned(t *testing.T) {
	rt := newScriptedRuntime()
	rt.failWaitFrame = true
	f, session, _ := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.Error(t, f.RenderFrame())
	assert.Zero(t, rt.beginFrameCalls)
	assert.Zero(t, rt.endFrameCalls)
}

func TestRenderFrameRendererFailureStillReleases(t *testing.T) {
	rt := newScriptedRuntime()
	f, session, renderer := newTestFrameCycle(t, rt)
	renderer.fail = true
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.NoError(t, f.RenderFrame())

	assert.Equal(t, 4, rt.releaseCalls)
	assert.Equal(t, 1, rt.endFrameCalls)
	require.NotNil(t, rt.lastEndInfo)
	assert.Len(t, rt.lastEndInfo.Layers, 1)
}

func TestRenderFrameReleaseFailurePanics(t *testing.T) {
	rt := newScriptedRuntime()
	rt.failRelease = true
	f, session, _ := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	assert.Panics(t, func() { _ = f.RenderFrame() })
}

func TestRenderFrameReusesScratch(t *testing.T) {
	rt := newScriptedRuntime()
	f, session, _ := newTestFrameCycle(t, rt)
	require.NoError(t, session.HandleStateChange(xr.SessionStateReady))

	require.NoError(t, f.RenderFrame())
	first := rt.lastEndInfo
	require.NoError(t, f.RenderFrame())

	assert.Equal(t, 2, rt.endFrameCalls)
	assert.Len(t, rt.lastEndInfo.Layers, 1)
	assert.Equal(t, first.DisplayTime, rt.lastEndInfo.DisplayTime)
}
