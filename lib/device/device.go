// Package device implements the control plane for a single wireless mesh
// network device: a configuration store, a two-state lifecycle controller
// that brings the native stack up and down in order, and an event bridge
// that relays asynchronous native events into a deferred-callback
// scheduler.
//
// Exactly one device exists per process; see GetOrCreate. The lifecycle
// operations execute synchronously on the caller's flow of control and are
// not serialized internally: the package relies on the embedding
// environment's single control thread, the same way the native stack's own
// control API does. Only the event handler slot is safe to touch
// concurrently.
package device

import (
	"github.com/go-i2p/logger"

	"github.com/go-mesh/meshdev/lib/errors"
	"github.com/go-mesh/meshdev/lib/mesh"
	"github.com/go-mesh/meshdev/lib/metrics"
)

var log = logger.GetGoI2PLogger()

// Fixed bring-up tuning. These mirror the native defaults for a
// self-organized network and are not user-configurable.
const (
	votePercentage = 1.0
	xonQueueSize   = 128

	// Association expiry is raised and announce traffic slowed when small
	// power-save duty cycles are in effect.
	assocExpirePowerSave   = 60
	assocExpireNoPowerSave = 10
	announceShortMS        = 600
	announceLongMS         = 3300
)

// netifReady guards the one-time global network-stack initialization. It
// is process-wide: the native call must run at most once per process, even
// across soft restarts of the embedding runtime, and even if another
// subsystem brought the network stack up first.
var netifReady bool

// Device is the singleton mesh network device. It owns the configuration
// store, the two interface handles, and the event bridge registration.
type Device struct {
	stack mesh.Stack
	sched Scheduler

	cfg Config

	initialized bool
	sta         mesh.Iface
	ap          mesh.Iface

	handler handlerSlot
}

func newDevice(stack mesh.Stack, sched Scheduler) *Device {
	return &Device{
		stack: stack,
		sched: sched,
		cfg:   DefaultConfig(),
	}
}

// Active reports whether the device is currently activated.
func (d *Device) Active() bool {
	return d.initialized
}

// SetActive drives the lifecycle towards the requested state and returns
// the resulting state. SetActive(true) activates, SetActive(false)
// deactivates; both are no-ops when already in the requested state.
func (d *Device) SetActive(on bool) (bool, error) {
	if on {
		if err := d.Activate(); err != nil {
			return d.initialized, err
		}
	} else {
		d.Deactivate()
	}
	return d.initialized, nil
}

// check converts a native status into an error, or nil on success.
func check(op mesh.Op, st mesh.Status) error {
	if st.OK() {
		return nil
	}
	return errors.Native(string(op), int32(st))
}

// Activate validates the configuration and brings up the network
// interfaces and the mesh stack. It is a no-op when the device is already
// active.
//
// The first failing bring-up step aborts the sequence and is surfaced to
// the caller; steps already completed are not rolled back. The device
// stays inactive in that case, and Deactivate's teardown tolerates the
// partially-initialized native state left behind.
func (d *Device) Activate() error {
	if d.initialized {
		return nil
	}

	if d.cfg.SSID == "" {
		return errors.Configuration("SSID not set")
	}
	if d.cfg.Password == "" {
		return errors.Configuration("password not set")
	}
	if d.cfg.Channel == 0 {
		// Channel 0 would mean "find the network via a full scan", but
		// activation requires the caller to pick one explicitly.
		return errors.Configuration("channel not set")
	}

	log.WithField("ssid", d.cfg.SSID).WithField("channel", d.cfg.Channel).Info("activating mesh device")

	if err := d.bringUp(); err != nil {
		metrics.ActivationFailures.Inc()
		log.WithError(err).Error("mesh bring-up failed")
		return err
	}

	d.initialized = true
	metrics.Activations.Inc()
	metrics.DeviceActive.Set(1)
	log.Info("mesh device active")
	return nil
}

// bringUp performs the ordered bring-up sequence against the native stack.
func (d *Device) bringUp() error {
	// Global network-stack init happens at most once per process. It may
	// already have been done by another subsystem; that cannot be detected
	// here, the native call itself is idempotent.
	if !netifReady {
		if err := check(mesh.OpNetifInit, d.stack.NetifInit()); err != nil {
			return err
		}
		netifReady = true
	}

	sta, ap, st := d.stack.CreateMeshIfaces()
	if err := check(mesh.OpCreateIfaces, st); err != nil {
		return err
	}
	d.sta = sta
	d.ap = ap

	// Credentials stay in RAM; nothing survives a process restart.
	if err := check(mesh.OpRadioInit, d.stack.RadioInit(mesh.StorageRAM)); err != nil {
		return err
	}
	if err := check(mesh.OpRadioStart, d.stack.RadioStart()); err != nil {
		return err
	}

	if err := check(mesh.OpMeshInit, d.stack.MeshInit()); err != nil {
		return err
	}
	if err := check(mesh.OpSubscribeEvents, d.stack.SubscribeEvents(d.handleEvent)); err != nil {
		return err
	}

	if err := check(mesh.OpSetTopology, d.stack.SetTopology(d.cfg.Topology)); err != nil {
		return err
	}
	if err := check(mesh.OpSetMaxLayer, d.stack.SetMaxLayer(d.cfg.MaxLayer)); err != nil {
		return err
	}
	if err := check(mesh.OpSetVotePercentage, d.stack.SetVotePercentage(votePercentage)); err != nil {
		return err
	}
	if err := check(mesh.OpSetXonQueueSize, d.stack.SetXonQueueSize(xonQueueSize)); err != nil {
		return err
	}

	if d.cfg.PowerSave.Enabled {
		if err := check(mesh.OpEnablePowerSave, d.stack.EnablePowerSave()); err != nil {
			return err
		}
		if err := check(mesh.OpSetAssocExpire, d.stack.SetAssocExpire(assocExpirePowerSave)); err != nil {
			return err
		}
		if err := check(mesh.OpSetAnnounceInterval, d.stack.SetAnnounceInterval(announceShortMS, announceLongMS)); err != nil {
			return err
		}
	} else {
		if err := check(mesh.OpDisablePowerSave, d.stack.DisablePowerSave()); err != nil {
			return err
		}
		if err := check(mesh.OpSetAssocExpire, d.stack.SetAssocExpire(assocExpireNoPowerSave)); err != nil {
			return err
		}
	}

	if err := check(mesh.OpSetAPAuthMode, d.stack.SetAPAuthMode(d.cfg.APAuthMode)); err != nil {
		return err
	}
	if err := check(mesh.OpApplyConfig, d.stack.ApplyConfig(d.cfg.networkConfig())); err != nil {
		return err
	}

	if err := check(mesh.OpMeshStart, d.stack.MeshStart()); err != nil {
		return err
	}

	if d.cfg.PowerSave.Enabled {
		ps := d.cfg.PowerSave
		if err := check(mesh.OpSetDeviceDutyCycle, d.stack.SetDeviceDutyCycle(ps.DeviceDuty, ps.DeviceDutyMode)); err != nil {
			return err
		}
		if err := check(mesh.OpSetNetworkDutyCycle, d.stack.SetNetworkDutyCycle(ps.NetworkDuty, ps.NetworkDutyDuration, ps.NetworkDutyScope)); err != nil {
			return err
		}
	}

	return nil
}

// Deactivate unconditionally tears down the mesh stack and both network
// interfaces, in reverse dependency order. It is a no-op when the device
// is already inactive, safe to call repeatedly, and safe during abnormal
// shutdown. Individual teardown failures are logged and ignored so that
// every remaining step still runs.
func (d *Device) Deactivate() {
	if !d.initialized {
		return
	}

	log.Info("deactivating mesh device")

	d.teardownStep(mesh.OpUnsubscribeEvents, d.stack.UnsubscribeEvents)
	d.teardownStep(mesh.OpMeshStop, d.stack.MeshStop)
	d.teardownStep(mesh.OpMeshDeinit, d.stack.MeshDeinit)
	d.teardownStep(mesh.OpRadioStop, d.stack.RadioStop)
	d.teardownStep(mesh.OpRadioDeinit, d.stack.RadioDeinit)
	d.teardownStep(mesh.OpDestroyIface, func() mesh.Status { return d.stack.DestroyIface(d.sta) })
	d.teardownStep(mesh.OpDestroyIface, func() mesh.Status { return d.stack.DestroyIface(d.ap) })

	d.sta = nil
	d.ap = nil
	d.initialized = false
	metrics.Deactivations.Inc()
	metrics.DeviceActive.Set(0)
	log.Info("mesh device inactive")
}

func (d *Device) teardownStep(op mesh.Op, fn func() mesh.Status) {
	if st := fn(); !st.OK() {
		log.WithField("op", string(op)).WithField("status", st.String()).Warn("teardown step failed, continuing")
	}
}
