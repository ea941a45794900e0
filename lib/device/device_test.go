package device

import (
	"reflect"
	"testing"

	"github.com/go-mesh/meshdev/lib/errors"
	"github.com/go-mesh/meshdev/lib/mesh"
)

// bringUpOps is the full first-activation sequence with power save on.
var bringUpOps = []mesh.Op{
	mesh.OpNetifInit,
	mesh.OpCreateIfaces,
	mesh.OpRadioInit,
	mesh.OpRadioStart,
	mesh.OpMeshInit,
	mesh.OpSubscribeEvents,
	mesh.OpSetTopology,
	mesh.OpSetMaxLayer,
	mesh.OpSetVotePercentage,
	mesh.OpSetXonQueueSize,
	mesh.OpEnablePowerSave,
	mesh.OpSetAssocExpire,
	mesh.OpSetAnnounceInterval,
	mesh.OpSetAPAuthMode,
	mesh.OpApplyConfig,
	mesh.OpMeshStart,
	mesh.OpSetDeviceDutyCycle,
	mesh.OpSetNetworkDutyCycle,
}

var tearDownOps = []mesh.Op{
	mesh.OpUnsubscribeEvents,
	mesh.OpMeshStop,
	mesh.OpMeshDeinit,
	mesh.OpRadioStop,
	mesh.OpRadioDeinit,
	mesh.OpDestroyIface,
	mesh.OpDestroyIface,
}

func TestActivate_CallOrder(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)

	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !d.Active() {
		t.Fatal("device should report active")
	}
	if got := stack.Calls(); !reflect.DeepEqual(got, bringUpOps) {
		t.Errorf("bring-up order:\n got %v\nwant %v", got, bringUpOps)
	}
	if !stack.Subscribed() {
		t.Error("event subscription missing after activation")
	}
	if n := stack.LiveIfaces(); n != 2 {
		t.Errorf("live ifaces = %d, want 2", n)
	}
}

func TestActivate_CallOrderPowerSaveOff(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)
	if err := d.Set(SetOptions{PowerSave: flag(false)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	want := []mesh.Op{
		mesh.OpNetifInit,
		mesh.OpCreateIfaces,
		mesh.OpRadioInit,
		mesh.OpRadioStart,
		mesh.OpMeshInit,
		mesh.OpSubscribeEvents,
		mesh.OpSetTopology,
		mesh.OpSetMaxLayer,
		mesh.OpSetVotePercentage,
		mesh.OpSetXonQueueSize,
		mesh.OpDisablePowerSave,
		mesh.OpSetAssocExpire,
		mesh.OpSetAPAuthMode,
		mesh.OpApplyConfig,
		mesh.OpMeshStart,
	}
	if got := stack.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("bring-up order:\n got %v\nwant %v", got, want)
	}
}

func TestActivate_Idempotent(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)

	if err := d.Activate(); err != nil {
		t.Fatalf("first Activate: %v", err)
	}
	stack.ResetCalls()

	if err := d.Activate(); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	if calls := stack.Calls(); len(calls) != 0 {
		t.Errorf("second Activate touched the stack: %v", calls)
	}
}

func TestActivate_MissingConfig(t *testing.T) {
	tests := []struct {
		name string
		opts SetOptions
	}{
		{"nothing set", SetOptions{}},
		{"ssid only", SetOptions{SSID: str("Net")}},
		{"ssid and password", SetOptions{SSID: str("Net"), Password: str("secretpw")}},
		{"password and channel", SetOptions{Password: str("secretpw"), Channel: num(3)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, stack := newTestDevice(t, nil)
			if err := d.Set(tc.opts); err != nil {
				t.Fatalf("Set: %v", err)
			}

			err := d.Activate()
			if !errors.IsConfiguration(err) {
				t.Errorf("Activate error = %v, want configuration error", err)
			}
			if d.Active() {
				t.Error("device should stay inactive")
			}
			if calls := stack.Calls(); len(calls) != 0 {
				t.Errorf("native stack touched before config check: %v", calls)
			}
		})
	}
}

func TestActivate_NativeFailureAborts(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)

	stack.FailOn(mesh.OpMeshStart, mesh.StatusNoMem)

	err := d.Activate()
	if !errors.IsNative(err) {
		t.Fatalf("Activate error = %v, want native error", err)
	}
	var ne *errors.NativeError
	if !errors.As(err, &ne) {
		t.Fatal("expected *NativeError in chain")
	}
	if ne.Op != string(mesh.OpMeshStart) || ne.Status != int32(mesh.StatusNoMem) {
		t.Errorf("native error = %s/%#x", ne.Op, ne.Status)
	}
	if d.Active() {
		t.Error("device should stay inactive after failed bring-up")
	}

	// No operation past the failing step.
	calls := stack.Calls()
	if calls[len(calls)-1] != mesh.OpMeshStart {
		t.Errorf("last call = %v, want mesh_start", calls[len(calls)-1])
	}

	// The failure clears and the same device activates cleanly.
	stack.ClearFailures()
	stack.ResetCalls()
	if err := d.Activate(); err != nil {
		t.Fatalf("Activate after clearing failure: %v", err)
	}
	if !d.Active() {
		t.Error("device should be active")
	}
}

func TestActivate_NetifInitOncePerProcess(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)

	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	d.Deactivate()
	stack.ResetCalls()

	if err := d.Activate(); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	for _, op := range stack.Calls() {
		if op == mesh.OpNetifInit {
			t.Error("netif_init must run at most once per process")
		}
	}
}

func TestDeactivate_CallOrder(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)
	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	stack.ResetCalls()

	d.Deactivate()

	if d.Active() {
		t.Fatal("device should report inactive")
	}
	if got := stack.Calls(); !reflect.DeepEqual(got, tearDownOps) {
		t.Errorf("teardown order:\n got %v\nwant %v", got, tearDownOps)
	}
	if stack.Subscribed() {
		t.Error("event subscription should be released")
	}
	if n := stack.LiveIfaces(); n != 0 {
		t.Errorf("live ifaces = %d, want 0", n)
	}
}

func TestDeactivate_InactiveIsNoop(t *testing.T) {
	d, stack := newTestDevice(t, nil)

	d.Deactivate()
	d.Deactivate()

	if calls := stack.Calls(); len(calls) != 0 {
		t.Errorf("deactivating an inactive device touched the stack: %v", calls)
	}
}

func TestDeactivate_ContinuesPastFailures(t *testing.T) {
	d, stack := newTestDevice(t, nil)
	configureValid(t, d)
	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	stack.FailOn(mesh.OpMeshStop, mesh.StatusFail)
	stack.FailOn(mesh.OpRadioStop, mesh.StatusFail)
	stack.ResetCalls()

	d.Deactivate()

	if d.Active() {
		t.Error("device should be inactive despite teardown failures")
	}
	if got := stack.Calls(); !reflect.DeepEqual(got, tearDownOps) {
		t.Errorf("teardown skipped steps after a failure:\n got %v\nwant %v", got, tearDownOps)
	}
}

func TestSetActive(t *testing.T) {
	d, _ := newTestDevice(t, nil)
	configureValid(t, d)

	active, err := d.SetActive(true)
	if err != nil {
		t.Fatalf("SetActive(true): %v", err)
	}
	if !active || !d.Active() {
		t.Error("device should be active")
	}

	active, err = d.SetActive(false)
	if err != nil {
		t.Fatalf("SetActive(false): %v", err)
	}
	if active || d.Active() {
		t.Error("device should be inactive")
	}
}
