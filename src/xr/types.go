package xr

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Opaque runtime handles. The runtime owns the objects behind them;
// destroying a parent invalidates all of its descendants.
type (
	Instance  uint64
	SystemID  uint64
	Session   uint64
	Space     uint64
	Swapchain uint64
)

const (
	NullInstance  Instance  = 0
	NullSystemID  SystemID  = 0
	NullSession   Session   = 0
	NullSpace     Space     = 0
	NullSwapchain Swapchain = 0
)

// Time is a runtime timestamp in nanoseconds on the runtime's clock.
type Time int64

// Duration is a span of runtime time in nanoseconds.
type Duration int64

const (
	NoDuration       Duration = 0
	InfiniteDuration Duration = 0x7fffffffffffffff
)

type FormFactor int32

const (
	FormFactorHeadMountedDisplay FormFactor = 1
	FormFactorHandheldDisplay    FormFactor = 2
)

type ViewConfigurationType int32

const (
	ViewConfigurationPrimaryMono   ViewConfigurationType = 1
	ViewConfigurationPrimaryStereo ViewConfigurationType = 2
)

// StereoViewCount is fixed for the primary stereo configuration and
// never changes for the lifetime of a session.
const StereoViewCount = 2

type ReferenceSpaceType int32

const (
	ReferenceSpaceView  ReferenceSpaceType = 1
	ReferenceSpaceLocal ReferenceSpaceType = 2
	ReferenceSpaceStage ReferenceSpaceType = 3
)

type EnvironmentBlendMode int32

const (
	EnvironmentBlendModeOpaque     EnvironmentBlendMode = 1
	EnvironmentBlendModeAdditive   EnvironmentBlendMode = 2
	EnvironmentBlendModeAlphaBlend EnvironmentBlendMode = 3
)

// SessionState is the runtime-driven lifecycle state of a session.
// The application never sets it; it only reacts to state-change
// events.
type SessionState int32

const (
	SessionStateUnknown SessionState = iota
	SessionStateIdle
	SessionStateReady
	SessionStateSynchronized
	SessionStateVisible
	SessionStateFocused
	SessionStateStopping
	SessionStateLossPending
	SessionStateExiting
)

func (s SessionState) String() string {
	switch s {
	case SessionStateIdle:
		return "idle"
	case SessionStateReady:
		return "ready"
	case SessionStateSynchronized:
		return "synchronized"
	case SessionStateVisible:
		return "visible"
	case SessionStateFocused:
		return "focused"
	case SessionStateStopping:
		return "stopping"
	case SessionStateLossPending:
		return "loss-pending"
	case SessionStateExiting:
		return "exiting"
	}
	return "unknown"
}

type ViewStateFlags uint64

const (
	ViewStateOrientationValidBit   ViewStateFlags = 1 << 0
	ViewStatePositionValidBit      ViewStateFlags = 1 << 1
	ViewStateOrientationTrackedBit ViewStateFlags = 1 << 2
	ViewStatePositionTrackedBit    ViewStateFlags = 1 << 3
)

type SwapchainUsageFlags uint64

const (
	SwapchainUsageColorAttachmentBit        SwapchainUsageFlags = 1 << 0
	SwapchainUsageDepthStencilAttachmentBit SwapchainUsageFlags = 1 << 1
	SwapchainUsageTransferSrcBit            SwapchainUsageFlags = 1 << 2
	SwapchainUsageSampledBit                SwapchainUsageFlags = 1 << 5
)

// SystemProperties are the immutable properties of the physical
// display system, queried once at startup and read-only thereafter.
type SystemProperties struct {
	SystemID   SystemID
	VendorID   uint32
	SystemName string

	MaxSwapchainImageWidth  uint32
	MaxSwapchainImageHeight uint32
	MaxLayerCount           uint32

	OrientationTracking bool
	PositionTracking    bool
}

// ViewConfigurationView describes one eye of a view configuration.
type ViewConfigurationView struct {
	RecommendedImageRectWidth  uint32
	MaxImageRectWidth          uint32
	RecommendedImageRectHeight uint32
	MaxImageRectHeight         uint32

	RecommendedSwapchainSampleCount uint32
	MaxSwapchainSampleCount         uint32
}

// Posef is a rigid transform: an orientation quaternion and a position
// expressed in some reference space.
type Posef struct {
	Orientation mgl32.Quat
	Position    mgl32.Vec3
}

// IdentityPose returns the pose with identity orientation at the
// origin.
func IdentityPose() Posef {
	return Posef{Orientation: mgl32.QuatIdent()}
}

// Fovf holds the four signed half-angles of an asymmetric frustum, in
// radians. Left and down are negative for a typical eye.
type Fovf struct {
	AngleLeft  float32
	AngleRight float32
	AngleUp    float32
	AngleDown  float32
}

// View is one eye's pose and field of view at a given display time.
type View struct {
	Pose Posef
	Fov  Fovf
}

// FrameState is produced once per frame cycle by the wait call.
type FrameState struct {
	PredictedDisplayTime   Time
	PredictedDisplayPeriod Duration
	ShouldRender           bool
}

// GraphicsRequirements is the range of graphics API versions the
// runtime can bind a session against.
type GraphicsRequirements struct {
	MinAPIVersionSupported Version
	MaxAPIVersionSupported Version
}

type EventType int32

const (
	EventTypeSessionStateChanged EventType = iota + 1
	EventTypeInstanceLossPending
	EventTypeEventsLost
	EventTypeReferenceSpaceChangePending
)

// Event is one entry drained from the runtime event queue. Only the
// fields relevant to the event's Type are populated.
type Event struct {
	Type    EventType
	Session Session
	// State carries the new session state for
	// EventTypeSessionStateChanged.
	State SessionState
	Time  Time
	// LostEventCount is set for EventTypeEventsLost.
	LostEventCount uint32
}

type Offset2Di struct {
	X, Y int32
}

type Extent2Di struct {
	Width, Height int32
}

type Rect2Di struct {
	Offset Offset2Di
	Extent Extent2Di
}

// SwapchainSubImage points a composition layer at a region of one
// swapchain.
type SwapchainSubImage struct {
	Swapchain       Swapchain
	ImageRect       Rect2Di
	ImageArrayIndex uint32
}

// CompositionLayerProjectionView is one eye's contribution to a
// projection layer.
type CompositionLayerProjectionView struct {
	Pose     Posef
	Fov      Fovf
	SubImage SwapchainSubImage
}

// CompositionLayerProjection is a stereo projection layer composited
// by the runtime at frame end.
type CompositionLayerProjection struct {
	Space Space
	Views []CompositionLayerProjectionView
}
