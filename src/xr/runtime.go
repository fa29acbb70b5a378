package xr

import (
	vk "github.com/vulkan-go/vulkan"
)

// InstanceCreateInfo configures runtime instance creation.
type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32

	// EnabledExtensions must have passed negotiation against the
	// runtime's advertised set; an absent entry fails creation.
	EnabledExtensions []string

	EnableDebugMessenger bool
}

// GraphicsBindingVulkan ties a session to the graphics device context
// that will render its frames.
type GraphicsBindingVulkan struct {
	Instance         vk.Instance
	PhysicalDevice   vk.PhysicalDevice
	Device           vk.Device
	QueueFamilyIndex uint32
	QueueIndex       uint32
}

type SessionCreateInfo struct {
	System  SystemID
	Binding GraphicsBindingVulkan
}

type ReferenceSpaceCreateInfo struct {
	Type                 ReferenceSpaceType
	PoseInReferenceSpace Posef
}

// SwapchainCreateInfo sizes one swapchain. The runtime decides the
// backing image count, not the application.
type SwapchainCreateInfo struct {
	UsageFlags  SwapchainUsageFlags
	Format      vk.Format
	SampleCount uint32
	Width       uint32
	Height      uint32
	FaceCount   uint32
	ArraySize   uint32
	MipCount    uint32
}

type ViewLocateInfo struct {
	ViewConfiguration ViewConfigurationType
	DisplayTime       Time
	Space             Space
}

// FrameEndInfo closes a frame. Layers may be empty: that is the normal
// "nothing to show" submission.
type FrameEndInfo struct {
	DisplayTime          Time
	EnvironmentBlendMode EnvironmentBlendMode
	Layers               []*CompositionLayerProjection
}

// Runtime is the XR platform service: device discovery, session
// lifecycle, swapchain images and frame timing. Everything behind it
// is a black box; only this contract matters to the core. All methods
// are called from a single thread.
type Runtime interface {
	// EnumerateInstanceExtensions reports the extensions the runtime
	// claims to support. Advertised entries are not guaranteed to
	// actually work at the device level (see render.FilterExtensions).
	EnumerateInstanceExtensions() ([]string, error)
	CreateInstance(info *InstanceCreateInfo) (Instance, error)
	DestroyInstance(inst Instance) error

	// PollEvent drains one queued event without blocking. ok is false
	// when the queue is empty, which is the normal end of a drain
	// loop, not an error.
	PollEvent(inst Instance) (ev Event, ok bool, err error)

	GetSystem(inst Instance, form FormFactor) (SystemID, error)
	GetSystemProperties(inst Instance, system SystemID) (SystemProperties, error)
	EnumerateViewConfigurationViews(inst Instance, system SystemID, cfg ViewConfigurationType) ([]ViewConfigurationView, error)

	// GraphicsRequirements must be queried before session creation;
	// the application's target graphics API version must not exceed
	// the reported maximum.
	GraphicsRequirements(inst Instance, system SystemID) (GraphicsRequirements, error)
	// VulkanInstanceExtensions and VulkanDeviceExtensions are the
	// extension sets the runtime says the device context needs. The
	// lists may name extensions the device does not expose.
	VulkanInstanceExtensions(inst Instance, system SystemID) ([]string, error)
	VulkanDeviceExtensions(inst Instance, system SystemID) ([]string, error)
	// VulkanGraphicsDevice returns the physical device that must back
	// the session. The runtime dictates it; the application has no
	// choice.
	VulkanGraphicsDevice(inst Instance, system SystemID, vkInstance vk.Instance) (vk.PhysicalDevice, error)

	CreateSession(inst Instance, info *SessionCreateInfo) (Session, error)
	DestroySession(session Session) error
	BeginSession(session Session, cfg ViewConfigurationType) error
	EndSession(session Session) error

	CreateReferenceSpace(session Session, info *ReferenceSpaceCreateInfo) (Space, error)
	DestroySpace(space Space) error

	EnumerateSwapchainFormats(session Session) ([]vk.Format, error)
	CreateSwapchain(session Session, info *SwapchainCreateInfo) (Swapchain, error)
	DestroySwapchain(sc Swapchain) error
	// EnumerateSwapchainImages returns the backing images in swapchain
	// order. The returned count is authoritative and may exceed
	// whatever minimum the application expected.
	EnumerateSwapchainImages(sc Swapchain) ([]vk.Image, error)

	// AcquireSwapchainImage hands out the index of the next image.
	// The index is chosen by the runtime. Every acquire must be
	// matched by exactly one release.
	AcquireSwapchainImage(sc Swapchain) (uint32, error)
	WaitSwapchainImage(sc Swapchain, timeout Duration) error
	ReleaseSwapchainImage(sc Swapchain) error

	// WaitFrame blocks until the runtime paces the caller into the
	// next frame.
	WaitFrame(session Session) (FrameState, error)
	BeginFrame(session Session) error
	// LocateViews appends the per-eye views at the given display time
	// to views and returns the extended slice. The runtime decides
	// the returned count.
	LocateViews(session Session, info *ViewLocateInfo, views []View) (ViewStateFlags, []View, error)
	EndFrame(session Session, info *FrameEndInfo) error
}
