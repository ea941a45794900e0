package device

import (
	"testing"

	"github.com/go-mesh/meshdev/lib/mesh"
)

// immediateScheduler runs scheduled callbacks synchronously. Tests use it
// where deferred delivery would only add timing noise.
type immediateScheduler struct{}

func (immediateScheduler) Schedule(fn func()) bool {
	fn()
	return true
}

// recordingScheduler collects scheduled callbacks without running them,
// so tests can observe exactly what the bridge submitted.
type recordingScheduler struct {
	fns    []func()
	refuse bool
}

func (s *recordingScheduler) Schedule(fn func()) bool {
	if s.refuse {
		return false
	}
	s.fns = append(s.fns, fn)
	return true
}

// runAll invokes the collected callbacks in submission order.
func (s *recordingScheduler) runAll() {
	for _, fn := range s.fns {
		fn()
	}
	s.fns = nil
}

// newTestDevice creates a fresh non-singleton device on a simulated stack.
// It resets the process-wide netif guard so every test observes the full
// bring-up sequence, and closes the stack on cleanup.
func newTestDevice(t *testing.T, sched Scheduler) (*Device, *mesh.SimStack) {
	t.Helper()

	stack := mesh.NewSimStack()
	t.Cleanup(stack.Close)

	netifReady = false
	t.Cleanup(func() { netifReady = false })

	if sched == nil {
		sched = immediateScheduler{}
	}
	return newDevice(stack, sched), stack
}

// configureValid fills in the three required activation fields.
func configureValid(t *testing.T, d *Device) {
	t.Helper()

	ssid := "TestNet"
	password := "longenough"
	channel := 6
	if err := d.Set(SetOptions{SSID: &ssid, Password: &password, Channel: &channel}); err != nil {
		t.Fatalf("configuring device: %v", err)
	}
}
