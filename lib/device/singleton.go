package device

import (
	"sync"

	"github.com/go-mesh/meshdev/lib/mesh"
)

// The process-wide device instance. Holding it in a package variable keeps
// it rooted for the life of the process: it can never be collected while
// the mesh subsystem might still be active.
var (
	singletonMu sync.Mutex
	singleton   *Device
)

// GetOrCreate returns the process-wide mesh device, creating it with the
// documented defaults on first call. The stack and scheduler arguments are
// bound on that first call; later calls return the existing instance and
// ignore them. Safe to call before any mesh configuration has occurred.
func GetOrCreate(stack mesh.Stack, sched Scheduler) *Device {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		singleton = newDevice(stack, sched)
	}
	return singleton
}

// Instance returns the current device, or nil if none has been created.
func Instance() *Device {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return singleton
}

// ResetForRestart deactivates and discards the singleton. A soft restart
// of the embedding runtime must call this before it could otherwise
// construct a second instance; the next GetOrCreate starts from defaults.
// The one-time global network-stack initialization is deliberately not
// repeated after a soft restart.
func ResetForRestart() {
	singletonMu.Lock()
	d := singleton
	singleton = nil
	singletonMu.Unlock()

	if d != nil {
		d.Deactivate()
	}
}
