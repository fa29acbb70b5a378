package vr

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"parallax/src/render"
	"parallax/src/xr"
)

// ViewSwapchain is one eye's image chain for one purpose (color or
// depth). The runtime owns the images; the views are ours.
type ViewSwapchain struct {
	Handle      xr.Swapchain
	Format      vk.Format
	Width       uint32
	Height      uint32
	SampleCount uint32

	// Images is runtime-owned backing storage, in swapchain order.
	// The runtime decides the count.
	Images []vk.Image
	Views  []vk.ImageView
}

// SwapchainPair is the color and depth chains for one eye.
type SwapchainPair struct {
	Color ViewSwapchain
	Depth ViewSwapchain
}

// SwapchainSet holds every swapchain of a stereo session. All chains
// are created up front and live until teardown.
type SwapchainSet struct {
	rt      xr.Runtime
	session xr.Session
	device  vk.Device

	ColorFormat vk.Format
	DepthFormat vk.Format

	Pairs [xr.StereoViewCount]SwapchainPair
}

// NewSwapchainSet negotiates image formats against the runtime's
// supported list and creates a color and a depth swapchain per eye,
// sized to the runtime's recommended extents. No graphics device calls
// happen here; CreateImageViews wires the chains to a device.
func NewSwapchainSet(rt xr.Runtime, session xr.Session, views []xr.ViewConfigurationView, preferredColor, preferredDepth vk.Format) (*SwapchainSet, error) {
	if len(views) != xr.StereoViewCount {
		return nil, fmt.Errorf("expected %d view configurations, got %d", xr.StereoViewCount, len(views))
	}

	formats, err := rt.EnumerateSwapchainFormats(session)
	if err != nil {
		return nil, err
	}
	colorFormat, depthFormat, err := selectFormats(formats, preferredColor, preferredDepth)
	if err != nil {
		return nil, err
	}

	set := &SwapchainSet{
		rt:          rt,
		session:     session,
		ColorFormat: colorFormat,
		DepthFormat: depthFormat,
	}
	for i, view := range views {
		color, err := set.create(view, colorFormat,
			xr.SwapchainUsageColorAttachmentBit|xr.SwapchainUsageSampledBit)
		if err != nil {
			set.Destroy()
			return nil, err
		}
		set.Pairs[i].Color = color

		depth, err := set.create(view, depthFormat,
			xr.SwapchainUsageDepthStencilAttachmentBit)
		if err != nil {
			set.Destroy()
			return nil, err
		}
		set.Pairs[i].Depth = depth
	}
	return set, nil
}

// selectFormats requires exact matches for both preferred formats.
// Falling back to an arbitrary supported format would silently change
// color space semantics, so an absent format is an error.
func selectFormats(supported []vk.Format, color, depth vk.Format) (vk.Format, vk.Format, error) {
	haveColor, haveDepth := false, false
	for _, f := range supported {
		if f == color {
			haveColor = true
		}
		if f == depth {
			haveDepth = true
		}
	}
	if !haveColor {
		return 0, 0, fmt.Errorf("runtime does not support color format %d", color)
	}
	if !haveDepth {
		return 0, 0, fmt.Errorf("runtime does not support depth format %d", depth)
	}
	return color, depth, nil
}

func (s *SwapchainSet) create(view xr.ViewConfigurationView, format vk.Format, usage xr.SwapchainUsageFlags) (ViewSwapchain, error) {
	info := &xr.SwapchainCreateInfo{
		UsageFlags:  usage,
		Format:      format,
		SampleCount: view.RecommendedSwapchainSampleCount,
		Width:       view.RecommendedImageRectWidth,
		Height:      view.RecommendedImageRectHeight,
		FaceCount:   1,
		ArraySize:   1,
		MipCount:    1,
	}
	handle, err := s.rt.CreateSwapchain(s.session, info)
	if err != nil {
		return ViewSwapchain{}, err
	}
	images, err := s.rt.EnumerateSwapchainImages(handle)
	if err != nil {
		if derr := s.rt.DestroySwapchain(handle); derr != nil {
			Logger().Warn("destroying half-built swapchain failed", "error", derr)
		}
		return ViewSwapchain{}, err
	}
	Logger().Debug("created swapchain",
		"format", int32(format),
		"width", info.Width, "height", info.Height,
		"images", len(images))
	return ViewSwapchain{
		Handle:      handle,
		Format:      format,
		Width:       info.Width,
		Height:      info.Height,
		SampleCount: info.SampleCount,
		Images:      images,
	}, nil
}

// CreateImageViews creates a Vulkan image view for every backing image
// of every chain in the set.
func (s *SwapchainSet) CreateImageViews(device vk.Device) error {
	s.device = device
	for i := range s.Pairs {
		if err := s.createViews(&s.Pairs[i].Color, false); err != nil {
			return err
		}
		if err := s.createViews(&s.Pairs[i].Depth, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *SwapchainSet) createViews(sc *ViewSwapchain, isDepth bool) error {
	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if isDepth {
		aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	sc.Views = make([]vk.ImageView, len(sc.Images))
	for i, image := range sc.Images {
		var view vk.ImageView
		ret := vk.CreateImageView(s.device, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   sc.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: aspect,
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &view)
		if err := render.NewError(ret); err != nil {
			return err
		}
		sc.Views[i] = view
	}
	return nil
}

// Destroy tears down image views first, then the swapchains
// themselves. Failures are logged and teardown continues; a partial
// teardown must not strand the remaining chains.
func (s *SwapchainSet) Destroy() {
	for i := range s.Pairs {
		s.destroyChain(&s.Pairs[i].Color)
		s.destroyChain(&s.Pairs[i].Depth)
	}
}

func (s *SwapchainSet) destroyChain(sc *ViewSwapchain) {
	for _, view := range sc.Views {
		if view != vk.NullImageView {
			vk.DestroyImageView(s.device, view, nil)
		}
	}
	sc.Views = nil
	if sc.Handle != xr.NullSwapchain {
		if err := s.rt.DestroySwapchain(sc.Handle); err != nil {
			Logger().Warn("destroying swapchain failed", "error", err)
		}
		sc.Handle = xr.NullSwapchain
	}
}
