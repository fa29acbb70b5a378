package render

import (
	"fmt"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

// NewError wraps a non-success Vulkan result, annotated with the
// caller's stack frame so fatal reports name the failing call site.
func NewError(retVal vk.Result) error {
	if retVal != vk.Success {
		pc, _, _, ok := runtime.Caller(1)
		if !ok {
			return fmt.Errorf("vulkan error: %w (%d)", vk.Error(retVal), retVal)
		}
		frame := newStackFrame(pc)
		return fmt.Errorf("vulkan error: %w (%d) on %s",
			vk.Error(retVal), retVal, frame.String())
	}
	return nil
}

func IsError(retVal vk.Result) bool {
	return retVal != vk.Success
}

// OrPanic runs the finalizers and panics if err is set. Used on the
// paths where a failure is unrecoverable by contract.
func OrPanic(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

// CheckError recovers a panic into err; for use with defer.
func CheckError(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}
