package mesh

import (
	"sync"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// SimStack is an in-memory simulated mesh stack for tests and local runs.
// It records the order of control calls, supports per-operation fault
// injection, and raises events from its own dispatch goroutine the way the
// real stack's event task does.
type SimStack struct {
	mu sync.Mutex

	calls    []Op
	failures map[Op]Status

	netifReady   bool
	radioReady   bool
	radioRunning bool
	meshReady    bool
	meshRunning  bool

	subscriber EventFunc

	ifaces []*simIface

	events chan simEvent
	done   chan struct{}
	closed bool
}

var _ Stack = (*SimStack)(nil)

// simIface is a simulated network interface handle.
type simIface struct {
	role      IfaceRole
	destroyed bool
}

func (i *simIface) Role() IfaceRole {
	return i.role
}

type simEvent struct {
	id   EventID
	data []byte
}

// simEventBuffer bounds the dispatch queue; events beyond it are dropped,
// matching the lossy best-effort delivery of the real event task.
const simEventBuffer = 64

// NewSimStack creates a simulated stack with a running event dispatcher.
// Call Close when done to stop the dispatcher.
func NewSimStack() *SimStack {
	s := &SimStack{
		failures: make(map[Op]Status),
		events:   make(chan simEvent, simEventBuffer),
		done:     make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// dispatch delivers raised events to the subscriber on a dedicated
// goroutine, mirroring the native stack's event task context.
func (s *SimStack) dispatch() {
	for {
		select {
		case ev := <-s.events:
			s.mu.Lock()
			fn := s.subscriber
			s.mu.Unlock()
			if fn != nil {
				fn(ev.id, ev.data)
			}
		case <-s.done:
			return
		}
	}
}

// Close stops the event dispatcher. The stack must not be used afterwards.
func (s *SimStack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Raise enqueues an event for asynchronous delivery to the subscriber.
// Non-blocking; the event is dropped if the dispatch queue is full.
func (s *SimStack) Raise(id EventID, data []byte) {
	select {
	case s.events <- simEvent{id: id, data: data}:
	default:
		log.WithField("event", id.String()).Warn("sim dispatch queue full, dropping event")
	}
}

// FailOn makes the given operation return the given status until cleared.
func (s *SimStack) FailOn(op Op, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = st
}

// ClearFailures removes all injected failures.
func (s *SimStack) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[Op]Status)
}

// Calls returns a snapshot of the operations invoked so far, in order.
func (s *SimStack) Calls() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls clears the recorded call history.
func (s *SimStack) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Subscribed reports whether an event subscriber is registered.
func (s *SimStack) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriber != nil
}

// LiveIfaces returns the number of created, not yet destroyed interfaces.
func (s *SimStack) LiveIfaces() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, i := range s.ifaces {
		if !i.destroyed {
			n++
		}
	}
	return n
}

// record notes the call and returns the injected status, or StatusOK.
func (s *SimStack) record(op Op) Status {
	s.calls = append(s.calls, op)
	if st, ok := s.failures[op]; ok {
		return st
	}
	return StatusOK
}

// NetifInit implements Stack.
func (s *SimStack) NetifInit() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpNetifInit); !st.OK() {
		return st
	}
	s.netifReady = true
	return StatusOK
}

// CreateMeshIfaces implements Stack.
func (s *SimStack) CreateMeshIfaces() (Iface, Iface, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpCreateIfaces); !st.OK() {
		return nil, nil, st
	}
	sta := &simIface{role: RoleStation}
	ap := &simIface{role: RoleSoftAP}
	s.ifaces = append(s.ifaces, sta, ap)
	return sta, ap, StatusOK
}

// DestroyIface implements Stack. Destroying a nil or already-destroyed
// handle succeeds, so teardown stays safe after a partial bring-up.
func (s *SimStack) DestroyIface(iface Iface) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpDestroyIface); !st.OK() {
		return st
	}
	if si, ok := iface.(*simIface); ok {
		si.destroyed = true
	}
	return StatusOK
}

// RadioInit implements Stack.
func (s *SimStack) RadioInit(storage CredentialStorage) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpRadioInit); !st.OK() {
		return st
	}
	s.radioReady = true
	return StatusOK
}

// RadioStart implements Stack.
func (s *SimStack) RadioStart() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpRadioStart); !st.OK() {
		return st
	}
	if !s.radioReady {
		return StatusRadioNotInit
	}
	s.radioRunning = true
	return StatusOK
}

// RadioStop implements Stack. Stopping an idle radio succeeds.
func (s *SimStack) RadioStop() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpRadioStop); !st.OK() {
		return st
	}
	s.radioRunning = false
	return StatusOK
}

// RadioDeinit implements Stack.
func (s *SimStack) RadioDeinit() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpRadioDeinit); !st.OK() {
		return st
	}
	s.radioReady = false
	return StatusOK
}

// MeshInit implements Stack.
func (s *SimStack) MeshInit() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpMeshInit); !st.OK() {
		return st
	}
	s.meshReady = true
	return StatusOK
}

// MeshDeinit implements Stack.
func (s *SimStack) MeshDeinit() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpMeshDeinit); !st.OK() {
		return st
	}
	s.meshReady = false
	return StatusOK
}

// SubscribeEvents implements Stack.
func (s *SimStack) SubscribeEvents(fn EventFunc) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpSubscribeEvents); !st.OK() {
		return st
	}
	s.subscriber = fn
	return StatusOK
}

// UnsubscribeEvents implements Stack.
func (s *SimStack) UnsubscribeEvents() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpUnsubscribeEvents); !st.OK() {
		return st
	}
	s.subscriber = nil
	return StatusOK
}

// SetTopology implements Stack.
func (s *SimStack) SetTopology(t Topology) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetTopology)
}

// SetMaxLayer implements Stack.
func (s *SimStack) SetMaxLayer(layer int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetMaxLayer)
}

// SetVotePercentage implements Stack.
func (s *SimStack) SetVotePercentage(pct float64) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetVotePercentage)
}

// SetXonQueueSize implements Stack.
func (s *SimStack) SetXonQueueSize(size int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetXonQueueSize)
}

// EnablePowerSave implements Stack.
func (s *SimStack) EnablePowerSave() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpEnablePowerSave)
}

// DisablePowerSave implements Stack.
func (s *SimStack) DisablePowerSave() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpDisablePowerSave)
}

// SetAssocExpire implements Stack.
func (s *SimStack) SetAssocExpire(seconds int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetAssocExpire)
}

// SetAnnounceInterval implements Stack.
func (s *SimStack) SetAnnounceInterval(shortMS, longMS int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetAnnounceInterval)
}

// SetAPAuthMode implements Stack.
func (s *SimStack) SetAPAuthMode(mode AuthMode) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetAPAuthMode)
}

// ApplyConfig implements Stack.
func (s *SimStack) ApplyConfig(cfg *NetworkConfig) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.record(OpApplyConfig); !st.OK() {
		return st
	}
	if cfg == nil {
		return StatusInvalidArg
	}
	return StatusOK
}

// MeshStart implements Stack. On success the simulated stack raises
// EventStarted asynchronously, like the real one.
func (s *SimStack) MeshStart() Status {
	s.mu.Lock()
	if st := s.record(OpMeshStart); !st.OK() {
		s.mu.Unlock()
		return st
	}
	if !s.meshReady {
		s.mu.Unlock()
		return StatusMeshNotInit
	}
	s.meshRunning = true
	s.mu.Unlock()

	s.Raise(EventStarted, nil)
	return StatusOK
}

// MeshStop implements Stack. Stopping an idle mesh succeeds; a running
// mesh raises EventStopped asynchronously.
func (s *SimStack) MeshStop() Status {
	s.mu.Lock()
	if st := s.record(OpMeshStop); !st.OK() {
		s.mu.Unlock()
		return st
	}
	wasRunning := s.meshRunning
	s.meshRunning = false
	s.mu.Unlock()

	if wasRunning {
		s.Raise(EventStopped, nil)
	}
	return StatusOK
}

// SetDeviceDutyCycle implements Stack.
func (s *SimStack) SetDeviceDutyCycle(dutyPct int, mode DutyMode) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetDeviceDutyCycle)
}

// SetNetworkDutyCycle implements Stack.
func (s *SimStack) SetNetworkDutyCycle(dutyPct, durationSec int, scope DutyScope) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpSetNetworkDutyCycle)
}
