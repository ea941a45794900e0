// Package script embeds a JavaScript runtime and exposes the mesh device
// to scripts as a native module. All goja access is serialized through a
// goja_nodejs event loop; the same loop doubles as the deferred-callback
// scheduler for mesh event delivery, so user callbacks always run on the
// loop goroutine where touching the VM is safe.
package script

import (
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
	"github.com/go-i2p/logger"

	"github.com/go-mesh/meshdev/lib/errors"
)

var log = logger.GetGoI2PLogger()

// syncTimeout bounds how long RunSync waits for the loop to pick up and
// finish a job.
const syncTimeout = 5 * time.Second

// Runtime owns the event loop and the module registry. goja.Runtime is
// not goroutine-safe; every VM operation must go through Run or RunSync.
type Runtime struct {
	loop     *eventloop.EventLoop
	registry *require.Registry

	mu      sync.RWMutex
	stopped bool
}

// NewRuntime creates and starts an event loop with a fresh module
// registry. Call Close when done.
func NewRuntime() *Runtime {
	registry := require.NewRegistry()
	loop := eventloop.NewEventLoop(
		eventloop.WithRegistry(registry),
		eventloop.EnableConsole(true),
	)
	loop.Start()
	return &Runtime{loop: loop, registry: registry}
}

// Registry returns the require registry. Native modules must be
// registered before any script that requires them runs.
func (rt *Runtime) Registry() *require.Registry {
	return rt.registry
}

// Run schedules fn on the loop goroutine. False means the loop has
// stopped and fn will not run.
func (rt *Runtime) Run(fn func(*goja.Runtime)) bool {
	rt.mu.RLock()
	if rt.stopped {
		rt.mu.RUnlock()
		return false
	}
	rt.mu.RUnlock()
	return rt.loop.RunOnLoop(fn)
}

// RunSync schedules fn on the loop goroutine and waits for it to finish.
func (rt *Runtime) RunSync(fn func(*goja.Runtime) error) error {
	rt.mu.RLock()
	if rt.stopped {
		rt.mu.RUnlock()
		return errors.ErrClosed
	}
	rt.mu.RUnlock()

	errCh := make(chan error, 1)
	if !rt.loop.RunOnLoop(func(vm *goja.Runtime) {
		errCh <- fn(vm)
	}) {
		return errors.ErrClosed
	}

	timer := time.NewTimer(syncTimeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		return fmt.Errorf("script job timed out after %v", syncTimeout)
	}
}

// RunScript compiles and executes code synchronously and returns the
// exported result of the final expression.
func (rt *Runtime) RunScript(name, code string) (any, error) {
	var result any
	err := rt.RunSync(func(vm *goja.Runtime) error {
		prg, err := goja.Compile(name, code, true)
		if err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
		v, err := vm.RunProgram(prg)
		if err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}
		if v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
			result = v.Export()
		}
		return nil
	})
	return result, err
}

// Close stops the event loop after the jobs already queued have run.
// Safe to call more than once.
func (rt *Runtime) Close() {
	rt.mu.Lock()
	if rt.stopped {
		rt.mu.Unlock()
		return
	}
	rt.stopped = true
	rt.mu.Unlock()

	rt.loop.Stop()
	log.Debug("script runtime stopped")
}
