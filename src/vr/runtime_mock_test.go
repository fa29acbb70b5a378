package vr

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"parallax/src/xr"
)

// scriptedRuntime is a deterministic in-memory runtime. Tests queue
// events and inspect call counters and the ordered trace of frame
// protocol calls.
type scriptedRuntime struct {
	events []xr.Event
	// eventBatches are appended to the queue one batch per WaitFrame,
	// letting loop tests script state changes over several frames.
	eventBatches [][]xr.Event

	extensions []string
	formats    []vk.Format
	imageCount int
	viewConfig []xr.ViewConfigurationView

	frameState xr.FrameState
	viewState  xr.ViewStateFlags
	located    []xr.View

	acquired map[xr.Swapchain]int
	nextSC   xr.Swapchain

	beginSessionCalls   int
	endSessionCalls     int
	destroySessionCalls int
	waitFrameCalls      int
	beginFrameCalls     int
	endFrameCalls       int
	acquireCalls        int
	waitImageCalls      int
	releaseCalls        int

	lastEndInfo *xr.FrameEndInfo

	failBeginSession bool
	failWaitFrame    bool
	failRelease      bool

	trace []string
}

func newScriptedRuntime() *scriptedRuntime {
	views := []xr.View{
		{Pose: xr.IdentityPose(), Fov: xr.Fovf{AngleLeft: -0.8, AngleRight: 0.7, AngleUp: 0.75, AngleDown: -0.75}},
		{Pose: xr.IdentityPose(), Fov: xr.Fovf{AngleLeft: -0.7, AngleRight: 0.8, AngleUp: 0.75, AngleDown: -0.75}},
	}
	return &scriptedRuntime{
		extensions: []string{VulkanEnableExtension, "XR_EXT_debug_utils"},
		formats:    []vk.Format{vk.FormatR8g8b8a8Srgb, vk.FormatB8g8r8a8Srgb, vk.FormatD32Sfloat},
		imageCount: 3,
		viewConfig: []xr.ViewConfigurationView{
			{RecommendedImageRectWidth: 1600, RecommendedImageRectHeight: 1440, RecommendedSwapchainSampleCount: 1},
			{RecommendedImageRectWidth: 1600, RecommendedImageRectHeight: 1440, RecommendedSwapchainSampleCount: 1},
		},
		frameState: xr.FrameState{PredictedDisplayTime: 1000, PredictedDisplayPeriod: 11, ShouldRender: true},
		viewState:  xr.ViewStateOrientationValidBit | xr.ViewStatePositionValidBit,
		located:    views,
		acquired:   make(map[xr.Swapchain]int),
		nextSC:     100,
	}
}

func (r *scriptedRuntime) pushEvents(evs ...xr.Event) {
	r.events = append(r.events, evs...)
}

func stateEvent(state xr.SessionState) xr.Event {
	return xr.Event{Type: xr.EventTypeSessionStateChanged, State: state}
}

func (r *scriptedRuntime) EnumerateInstanceExtensions() ([]string, error) {
	return r.extensions, nil
}

func (r *scriptedRuntime) CreateInstance(info *xr.InstanceCreateInfo) (xr.Instance, error) {
	return xr.Instance(1), nil
}

func (r *scriptedRuntime) DestroyInstance(inst xr.Instance) error {
	r.trace = append(r.trace, "destroyInstance")
	return nil
}

func (r *scriptedRuntime) PollEvent(inst xr.Instance) (xr.Event, bool, error) {
	if len(r.events) == 0 {
		return xr.Event{}, false, nil
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev, true, nil
}

func (r *scriptedRuntime) GetSystem(inst xr.Instance, form xr.FormFactor) (xr.SystemID, error) {
	return xr.SystemID(7), nil
}

func (r *scriptedRuntime) GetSystemProperties(inst xr.Instance, system xr.SystemID) (xr.SystemProperties, error) {
	return xr.SystemProperties{
		SystemID:            system,
		SystemName:          "scripted hmd",
		OrientationTracking: true,
		PositionTracking:    true,
	}, nil
}

func (r *scriptedRuntime) EnumerateViewConfigurationViews(inst xr.Instance, system xr.SystemID, cfg xr.ViewConfigurationType) ([]xr.ViewConfigurationView, error) {
	return r.viewConfig, nil
}

func (r *scriptedRuntime) GraphicsRequirements(inst xr.Instance, system xr.SystemID) (xr.GraphicsRequirements, error) {
	return xr.GraphicsRequirements{
		MinAPIVersionSupported: xr.MakeVersion(1, 0, 0),
		MaxAPIVersionSupported: xr.MakeVersion(1, 2, 0),
	}, nil
}

func (r *scriptedRuntime) VulkanInstanceExtensions(inst xr.Instance, system xr.SystemID) ([]string, error) {
	return nil, nil
}

func (r *scriptedRuntime) VulkanDeviceExtensions(inst xr.Instance, system xr.SystemID) ([]string, error) {
	return nil, nil
}

func (r *scriptedRuntime) VulkanGraphicsDevice(inst xr.Instance, system xr.SystemID, vkInstance vk.Instance) (vk.PhysicalDevice, error) {
	return nil, errors.New("no graphics device in tests")
}

func (r *scriptedRuntime) CreateSession(inst xr.Instance, info *xr.SessionCreateInfo) (xr.Session, error) {
	return xr.Session(2), nil
}

func (r *scriptedRuntime) DestroySession(session xr.Session) error {
	r.destroySessionCalls++
	r.trace = append(r.trace, "destroySession")
	return nil
}

func (r *scriptedRuntime) BeginSession(session xr.Session, cfg xr.ViewConfigurationType) error {
	if r.failBeginSession {
		return errors.New("begin session refused")
	}
	r.beginSessionCalls++
	r.trace = append(r.trace, "beginSession")
	return nil
}

func (r *scriptedRuntime) EndSession(session xr.Session) error {
	r.endSessionCalls++
	r.trace = append(r.trace, "endSession")
	return nil
}

func (r *scriptedRuntime) CreateReferenceSpace(session xr.Session, info *xr.ReferenceSpaceCreateInfo) (xr.Space, error) {
	return xr.Space(3), nil
}

func (r *scriptedRuntime) DestroySpace(space xr.Space) error {
	r.trace = append(r.trace, "destroySpace")
	return nil
}

func (r *scriptedRuntime) EnumerateSwapchainFormats(session xr.Session) ([]vk.Format, error) {
	return r.formats, nil
}

func (r *scriptedRuntime) CreateSwapchain(session xr.Session, info *xr.SwapchainCreateInfo) (xr.Swapchain, error) {
	sc := r.nextSC
	r.nextSC++
	r.trace = append(r.trace, fmt.Sprintf("createSwapchain(%d)", sc))
	return sc, nil
}

func (r *scriptedRuntime) DestroySwapchain(sc xr.Swapchain) error {
	r.trace = append(r.trace, fmt.Sprintf("destroySwapchain(%d)", sc))
	return nil
}

func (r *scriptedRuntime) EnumerateSwapchainImages(sc xr.Swapchain) ([]vk.Image, error) {
	return make([]vk.Image, r.imageCount), nil
}

func (r *scriptedRuntime) AcquireSwapchainImage(sc xr.Swapchain) (uint32, error) {
	if r.acquired[sc] > 0 {
		return 0, fmt.Errorf("swapchain %d already acquired", sc)
	}
	r.acquired[sc]++
	r.acquireCalls++
	r.trace = append(r.trace, fmt.Sprintf("acquire(%d)", sc))
	return 0, nil
}

func (r *scriptedRuntime) WaitSwapchainImage(sc xr.Swapchain, timeout xr.Duration) error {
	if r.acquired[sc] == 0 {
		return fmt.Errorf("wait on unacquired swapchain %d", sc)
	}
	r.waitImageCalls++
	r.trace = append(r.trace, fmt.Sprintf("waitImage(%d)", sc))
	return nil
}

func (r *scriptedRuntime) ReleaseSwapchainImage(sc xr.Swapchain) error {
	if r.failRelease {
		return errors.New("release refused")
	}
	if r.acquired[sc] == 0 {
		return fmt.Errorf("release without acquire on swapchain %d", sc)
	}
	r.acquired[sc]--
	r.releaseCalls++
	r.trace = append(r.trace, fmt.Sprintf("release(%d)", sc))
	return nil
}

func (r *scriptedRuntime) WaitFrame(session xr.Session) (xr.FrameState, error) {
	if r.failWaitFrame {
		return xr.FrameState{}, errors.New("wait frame failed")
	}
	r.waitFrameCalls++
	r.trace = append(r.trace, "waitFrame")
	if len(r.eventBatches) > 0 {
		r.pushEvents(r.eventBatches[0]...)
		r.eventBatches = r.eventBatches[1:]
	}
	return r.frameState, nil
}

func (r *scriptedRuntime) BeginFrame(session xr.Session) error {
	r.beginFrameCalls++
	r.trace = append(r.trace, "beginFrame")
	return nil
}

func (r *scriptedRuntime) LocateViews(session xr.Session, info *xr.ViewLocateInfo, views []xr.View) (xr.ViewStateFlags, []xr.View, error) {
	r.trace = append(r.trace, "locateViews")
	return r.viewState, append(views, r.located...), nil
}

func (r *scriptedRuntime) EndFrame(session xr.Session, info *xr.FrameEndInfo) error {
	r.endFrameCalls++
	r.trace = append(r.trace, fmt.Sprintf("endFrame(layers=%d)", len(info.Layers)))
	r.lastEndInfo = &xr.FrameEndInfo{
		DisplayTime:          info.DisplayTime,
		EnvironmentBlendMode: info.EnvironmentBlendMode,
		Layers:               append([]*xr.CompositionLayerProjection(nil), info.Layers...),
	}
	return nil
}
