package script

import "github.com/dop251/goja"

// LoopScheduler adapts the runtime's event loop to the device's
// deferred-callback scheduler interface. Event handlers scheduled through
// it run on the loop goroutine, which is the only place where a handler
// wrapping a JavaScript callable may invoke the VM.
type LoopScheduler struct {
	rt *Runtime
}

// NewLoopScheduler wires the runtime in as a callback scheduler.
func NewLoopScheduler(rt *Runtime) *LoopScheduler {
	return &LoopScheduler{rt: rt}
}

// Schedule submits fn to the event loop. False means the loop has
// stopped and fn will not run.
func (s *LoopScheduler) Schedule(fn func()) bool {
	return s.rt.Run(func(*goja.Runtime) { fn() })
}
