package device

import (
	"testing"

	"github.com/go-mesh/meshdev/lib/mesh"
)

func resetSingleton(t *testing.T) {
	t.Helper()
	ResetForRestart()
	t.Cleanup(ResetForRestart)
}

func TestGetOrCreate_ReturnsSameInstance(t *testing.T) {
	resetSingleton(t)
	stack := mesh.NewSimStack()
	t.Cleanup(stack.Close)

	d1 := GetOrCreate(stack, immediateScheduler{})
	d2 := GetOrCreate(nil, nil)

	if d1 != d2 {
		t.Error("GetOrCreate returned distinct instances")
	}
	if Instance() != d1 {
		t.Error("Instance disagrees with GetOrCreate")
	}
}

func TestInstance_NilBeforeFirstUse(t *testing.T) {
	resetSingleton(t)

	if Instance() != nil {
		t.Error("Instance should be nil before GetOrCreate")
	}
}

func TestResetForRestart_DeactivatesAndDiscards(t *testing.T) {
	resetSingleton(t)
	stack := mesh.NewSimStack()
	t.Cleanup(stack.Close)
	netifReady = false
	t.Cleanup(func() { netifReady = false })

	d := GetOrCreate(stack, immediateScheduler{})
	configureValid(t, d)
	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	ResetForRestart()

	if d.Active() {
		t.Error("restart should deactivate the device")
	}
	if Instance() != nil {
		t.Error("restart should discard the singleton")
	}

	// The next instance starts from defaults, not the old configuration.
	d2 := GetOrCreate(stack, immediateScheduler{})
	if d2 == d {
		t.Error("restart should yield a fresh instance")
	}
	if ssid, _ := d2.Get("ssid"); ssid != "" {
		t.Errorf("fresh instance carries old SSID %q", ssid)
	}
}

func TestEndToEnd_ActiveToggle(t *testing.T) {
	resetSingleton(t)
	stack := mesh.NewSimStack()
	t.Cleanup(stack.Close)
	netifReady = false
	t.Cleanup(func() { netifReady = false })

	d := GetOrCreate(stack, immediateScheduler{})
	configureValid(t, d)

	if d.Active() {
		t.Fatal("fresh device should be inactive")
	}
	if on, err := d.SetActive(true); err != nil || !on {
		t.Fatalf("SetActive(true) = %v, %v", on, err)
	}
	if !d.Active() {
		t.Fatal("device should report active")
	}
	if on, err := d.SetActive(false); err != nil || on {
		t.Fatalf("SetActive(false) = %v, %v", on, err)
	}
	if d.Active() {
		t.Fatal("device should report inactive")
	}
}
