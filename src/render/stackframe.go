package render

import (
	"fmt"
	"runtime"
)

type stackFrame struct {
	pc   uintptr
	fn   string
	file string
	line int
}

func newStackFrame(pc uintptr) stackFrame {
	f := stackFrame{pc: pc}
	if fn := runtime.FuncForPC(pc); fn != nil {
		f.fn = fn.Name()
		f.file, f.line = fn.FileLine(pc)
	}
	return f
}

func (f stackFrame) String() string {
	if f.fn == "" {
		return fmt.Sprintf("pc=0x%x", f.pc)
	}
	return fmt.Sprintf("%s (%s:%d)", f.fn, f.file, f.line)
}
