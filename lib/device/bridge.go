package device

import (
	"sync/atomic"

	"github.com/go-mesh/meshdev/lib/errors"
	"github.com/go-mesh/meshdev/lib/mesh"
	"github.com/go-mesh/meshdev/lib/metrics"
)

// Scheduler is the host environment's deferred-callback scheduler. It
// accepts work for later invocation on a safe context and guarantees
// best-effort eventual execution, typically in FIFO order.
//
// Schedule must be safe to call from any goroutine and must not block. A
// false return means the scheduler refused the submission (for example,
// because it has shut down); the bridge does not retry.
type Scheduler interface {
	Schedule(fn func()) bool
}

// Handler receives translated mesh events. It is invoked on whatever safe
// context the Scheduler provides, never on the native dispatch goroutine.
type Handler func(Event)

// Event is a mesh event translated for delivery to user code.
type Event struct {
	// ID is the raw native event code.
	ID mesh.EventID
	// Name is the symbolic name, or empty when the code is outside the
	// known table.
	Name string
}

// Translated reports whether the event code has a symbolic name.
func (e Event) Translated() bool {
	return e.Name != ""
}

// Value returns the event as handed to user callbacks: the symbolic name
// when known, otherwise the raw integer code.
func (e Event) Value() any {
	if e.Name != "" {
		return e.Name
	}
	return int(e.ID)
}

func (e Event) String() string {
	return e.ID.String()
}

// handlerSlot holds the registered event handler. The slot is written from
// the control flow and read from the native dispatch goroutine, so it is
// the one piece of device state accessed atomically.
type handlerSlot struct {
	p atomic.Pointer[Handler]
}

func (s *handlerSlot) store(h Handler) {
	if h == nil {
		s.p.Store(nil)
		return
	}
	s.p.Store(&h)
}

func (s *handlerSlot) load() Handler {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return nil
}

// RegisterEventHandler replaces the stored event handler wholesale. A nil
// handler disables delivery; subsequent events are silently dropped.
func (d *Device) RegisterEventHandler(h Handler) {
	d.handler.store(h)
}

// CheckHandlerValue rejects event-handler registrations that are neither
// the none sentinel nor invocable. Host runtime bindings call this before
// wrapping a foreign callable into a Handler.
func CheckHandlerValue(isNone, isCallable bool) error {
	if !isNone && !isCallable {
		return errors.InvalidInput("invalid handler")
	}
	return nil
}

// handleEvent is the event bridge's entry point. It runs on the native
// stack's dispatch goroutine: it must not block and must not invoke user
// code directly, so it only translates the event and hands it to the
// scheduler. The event payload is currently dropped.
func (d *Device) handleEvent(id mesh.EventID, data []byte) {
	ev := Event{ID: id}
	if name, ok := mesh.EventName(id); ok {
		ev.Name = name
	} else {
		// Unknown codes degrade to their integer form rather than erroring;
		// raising from this context would be meaningless.
		metrics.EventsUntranslated.Inc()
	}

	h := d.handler.load()
	if h == nil {
		metrics.EventsDropped.Inc()
		return
	}

	if d.sched.Schedule(func() { h(ev) }) {
		metrics.EventsForwarded.Inc()
	} else {
		// A refusal is the host runtime's concern; fire and forget.
		metrics.EventsRejected.Inc()
	}
}
