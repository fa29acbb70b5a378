package xr

import "fmt"

// Result is the status code attached to every runtime operation.
// Non-negative values are qualified successes; negative values are
// errors.
type Result int32

const (
	Success            Result = 0
	TimeoutExpired     Result = 1
	SessionLossPending Result = 3
	EventUnavailable   Result = 4
	SessionNotFocused  Result = 8
	FrameDiscarded     Result = 9

	ErrorValidationFailure     Result = -1
	ErrorRuntimeFailure        Result = -2
	ErrorOutOfMemory           Result = -3
	ErrorAPIVersionUnsupported Result = -4
	ErrorInitializationFailed  Result = -6
	ErrorFeatureUnsupported    Result = -8
	ErrorExtensionNotPresent   Result = -9
	ErrorLimitReached          Result = -10
	ErrorHandleInvalid         Result = -12
	ErrorInstanceLost          Result = -13
	ErrorSessionRunning        Result = -14
	ErrorSessionNotRunning     Result = -16
	ErrorSessionLost           Result = -17
	ErrorSystemInvalid         Result = -18
	ErrorCallOrderInvalid      Result = -37
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case TimeoutExpired:
		return "timeout expired"
	case SessionLossPending:
		return "session loss pending"
	case EventUnavailable:
		return "event unavailable"
	case SessionNotFocused:
		return "session not focused"
	case FrameDiscarded:
		return "frame discarded"
	case ErrorValidationFailure:
		return "validation failure"
	case ErrorRuntimeFailure:
		return "runtime failure"
	case ErrorOutOfMemory:
		return "out of memory"
	case ErrorAPIVersionUnsupported:
		return "api version unsupported"
	case ErrorInitializationFailed:
		return "initialization failed"
	case ErrorFeatureUnsupported:
		return "feature unsupported"
	case ErrorExtensionNotPresent:
		return "extension not present"
	case ErrorLimitReached:
		return "limit reached"
	case ErrorHandleInvalid:
		return "handle invalid"
	case ErrorInstanceLost:
		return "instance lost"
	case ErrorSessionRunning:
		return "session running"
	case ErrorSessionNotRunning:
		return "session not running"
	case ErrorSessionLost:
		return "session lost"
	case ErrorSystemInvalid:
		return "system invalid"
	case ErrorCallOrderInvalid:
		return "call order invalid"
	}
	return fmt.Sprintf("result(%d)", int32(r))
}

// ResultError wraps a failing Result as an error.
type ResultError struct {
	Result Result
}

func (e ResultError) Error() string {
	return fmt.Sprintf("xr error: %s (%d)", e.Result, int32(e.Result))
}

// Err converts a runtime status into an error. Qualified successes
// such as TimeoutExpired or EventUnavailable map to nil.
func Err(ret Result) error {
	if ret >= Success {
		return nil
	}
	return ResultError{Result: ret}
}
