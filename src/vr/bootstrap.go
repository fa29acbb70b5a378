package vr

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"parallax/src/render"
	"parallax/src/xr"
)

// BootstrapError tags a startup failure with the stage that produced
// it. Bootstrap is strictly sequential; the stage name is the fastest
// way to locate a dead-on-arrival headset problem.
type BootstrapError struct {
	Stage string
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap failed at %s: %v", e.Stage, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

func fatal(stage string, err error) error {
	return &BootstrapError{Stage: stage, Err: err}
}

// Shaders is the compiled SPIR-V pair for the view pipeline.
type Shaders struct {
	Vertex   []byte
	Fragment []byte
}

// App is a fully bootstrapped stereo application: XR instance, Vulkan
// device, session, swapchains and frame engine, ready for Run.
type App struct {
	cfg *Config

	rt       xr.Runtime
	instance xr.Instance
	system   xr.SystemID
	sysProps xr.SystemProperties
	views    []xr.ViewConfigurationView

	gfx      *render.Instance
	device   *render.Device
	renderer *render.Renderer

	session    *Session
	space      xr.Space
	swapchains *SwapchainSet
	frame      *FrameCycle
}

// Bootstrap brings up the whole stack in dependency order. On any
// failure it tears down what exists so far and returns a
// BootstrapError naming the stage.
func Bootstrap(rt xr.Runtime, cfg *Config, shaders Shaders) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	app := &App{cfg: cfg, rt: rt}

	if err := app.bootstrap(shaders); err != nil {
		app.Destroy()
		return nil, err
	}
	return app, nil
}

func (a *App) bootstrap(shaders Shaders) error {
	cfg := a.cfg
	log := Logger()

	available, err := a.rt.EnumerateInstanceExtensions()
	if err != nil {
		return fatal("extension enumeration", err)
	}
	enabled, err := render.RequireExtensions(cfg.RequiredExtensions, available)
	if err != nil {
		return fatal("extension negotiation", err)
	}

	a.instance, err = a.rt.CreateInstance(&xr.InstanceCreateInfo{
		ApplicationName:      cfg.AppName,
		ApplicationVersion:   cfg.AppVersion,
		EngineName:           "parallax",
		EngineVersion:        1,
		EnabledExtensions:    enabled,
		EnableDebugMessenger: cfg.Debug,
	})
	if err != nil {
		return fatal("instance creation", err)
	}

	a.system, err = a.rt.GetSystem(a.instance, cfg.FormFactor)
	if err != nil {
		return fatal("system query", err)
	}
	a.sysProps, err = a.rt.GetSystemProperties(a.instance, a.system)
	if err != nil {
		return fatal("system properties", err)
	}
	log.Info("xr system",
		"name", a.sysProps.SystemName,
		"vendor", a.sysProps.VendorID,
		"orientationTracking", a.sysProps.OrientationTracking,
		"positionTracking", a.sysProps.PositionTracking)

	a.views, err = a.rt.EnumerateViewConfigurationViews(a.instance, a.system, cfg.ViewConfig)
	if err != nil {
		return fatal("view configuration", err)
	}
	if len(a.views) != xr.StereoViewCount {
		return fatal("view configuration",
			fmt.Errorf("expected %d views, runtime reports %d", xr.StereoViewCount, len(a.views)))
	}

	reqs, err := a.rt.GraphicsRequirements(a.instance, a.system)
	if err != nil {
		return fatal("graphics requirements", err)
	}
	if err := checkGraphicsVersion(cfg.GraphicsAPIVersion, reqs); err != nil {
		return fatal("graphics requirements", err)
	}

	if err := render.InitLoader(); err != nil {
		return fatal("vulkan loader", err)
	}

	// Instance extensions the runtime asks for, trimmed to what the
	// loader actually exposes. Runtimes are known to over-report here.
	wanted, err := a.rt.VulkanInstanceExtensions(a.instance, a.system)
	if err != nil {
		return fatal("vulkan instance extensions", err)
	}
	loaderExts, err := render.InstanceExtensions()
	if err != nil {
		return fatal("vulkan instance extensions", err)
	}
	a.gfx, err = render.NewInstance(&render.InstanceOptions{
		AppName:    cfg.AppName,
		AppVersion: cfg.AppVersion,
		APIVersion: vkVersion(cfg.GraphicsAPIVersion),
		Extensions: render.FilterExtensions(wanted, loaderExts),
		Debug:      cfg.Debug,
		Logger:     log,
	})
	if err != nil {
		return fatal("vulkan instance", err)
	}

	gpu, err := a.rt.VulkanGraphicsDevice(a.instance, a.system, a.gfx.Instance)
	if err != nil {
		return fatal("vulkan device selection", err)
	}

	a.device = &render.Device{}
	if err := a.device.FindQueue(gpu, vk.QueueGraphicsBit); err != nil {
		return fatal("queue selection", err)
	}

	wantedDev, err := a.rt.VulkanDeviceExtensions(a.instance, a.system)
	if err != nil {
		return fatal("vulkan device extensions", err)
	}
	deviceExts, err := render.DeviceExtensions(gpu)
	if err != nil {
		return fatal("vulkan device extensions", err)
	}
	exts := render.MergeExtensions(
		render.FilterExtensions([]string{render.DynamicRenderingExtension}, deviceExts),
		render.FilterExtensions(wantedDev, deviceExts),
	)
	if err := a.device.MakeDevice(exts); err != nil {
		return fatal("vulkan device creation", err)
	}

	handle, err := a.rt.CreateSession(a.instance, &xr.SessionCreateInfo{
		System: a.system,
		Binding: xr.GraphicsBindingVulkan{
			Instance:         a.gfx.Instance,
			PhysicalDevice:   a.device.GPU,
			Device:           a.device.Device,
			QueueFamilyIndex: a.device.QueueIndex,
			QueueIndex:       0,
		},
	})
	if err != nil {
		return fatal("session creation", err)
	}
	a.session = NewSession(a.rt, a.instance, handle, cfg.ViewConfig)

	a.space, err = a.rt.CreateReferenceSpace(handle, &xr.ReferenceSpaceCreateInfo{
		Type:                 xr.ReferenceSpaceStage,
		PoseInReferenceSpace: xr.IdentityPose(),
	})
	if err != nil {
		return fatal("reference space", err)
	}

	a.swapchains, err = NewSwapchainSet(a.rt, handle, a.views, cfg.ColorFormat, cfg.DepthFormat)
	if err != nil {
		return fatal("swapchain creation", err)
	}
	if err := a.swapchains.CreateImageViews(a.device.Device); err != nil {
		return fatal("swapchain image views", err)
	}

	ref := a.views[0]
	a.renderer, err = render.NewRenderer(a.device, &render.PipelineConfig{
		VertexShader:   shaders.Vertex,
		FragmentShader: shaders.Fragment,
		ColorFormat:    a.swapchains.ColorFormat,
		DepthFormat:    a.swapchains.DepthFormat,
		SampleCount:    sampleCountFlag(ref.RecommendedSwapchainSampleCount),
		Width:          ref.RecommendedImageRectWidth,
		Height:         ref.RecommendedImageRectHeight,
	})
	if err != nil {
		return fatal("renderer", err)
	}

	a.frame = NewFrameCycle(a.rt, a.session, a.space, a.swapchains, a.renderer, cfg.BlendMode)
	return nil
}

// checkGraphicsVersion rejects a target Vulkan version above the
// runtime's stated maximum. A target below the minimum is allowed; the
// runtime only promises compositor compatibility up to the maximum.
func checkGraphicsVersion(target xr.Version, reqs xr.GraphicsRequirements) error {
	if target > reqs.MaxAPIVersionSupported {
		return fmt.Errorf("graphics API version %s exceeds runtime maximum %s",
			target, reqs.MaxAPIVersionSupported)
	}
	return nil
}

func vkVersion(v xr.Version) uint32 {
	return uint32(vk.MakeVersion(int(v.Major()), int(v.Minor()), int(v.Patch())))
}

func sampleCountFlag(samples uint32) vk.SampleCountFlagBits {
	switch samples {
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	default:
		return vk.SampleCount1Bit
	}
}
