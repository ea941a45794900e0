package mesh

import "fmt"

// Status is a native stack status code. Zero means success; every native
// call returns one and callers are expected to check it uniformly.
type Status int32

// Native status codes. The non-zero values mirror the numbering scheme of
// the underlying stack so diagnostics stay comparable across ports.
const (
	StatusOK           Status = 0
	StatusFail         Status = -1
	StatusNoMem        Status = 0x0101
	StatusInvalidArg   Status = 0x0102
	StatusInvalidState Status = 0x0103
	StatusRadioNotInit Status = 0x3001
	StatusMeshNotInit  Status = 0x4001
	StatusMeshNotStart Status = 0x4002
)

// OK reports whether the status indicates success.
func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFail:
		return "fail"
	case StatusNoMem:
		return "no memory"
	case StatusInvalidArg:
		return "invalid argument"
	case StatusInvalidState:
		return "invalid state"
	case StatusRadioNotInit:
		return "radio not initialized"
	case StatusMeshNotInit:
		return "mesh not initialized"
	case StatusMeshNotStart:
		return "mesh not started"
	default:
		return fmt.Sprintf("status %d", int32(s))
	}
}

// Op names a native stack operation. Ops identify failed calls in errors
// and key fault injection in the simulated stack.
type Op string

// Native stack operations, in bring-up order.
const (
	OpNetifInit           Op = "netif_init"
	OpCreateIfaces        Op = "netif_create_mesh_ifaces"
	OpDestroyIface        Op = "netif_destroy_iface"
	OpRadioInit           Op = "radio_init"
	OpRadioStart          Op = "radio_start"
	OpRadioStop           Op = "radio_stop"
	OpRadioDeinit         Op = "radio_deinit"
	OpMeshInit            Op = "mesh_init"
	OpMeshDeinit          Op = "mesh_deinit"
	OpSubscribeEvents     Op = "event_subscribe"
	OpUnsubscribeEvents   Op = "event_unsubscribe"
	OpSetTopology         Op = "mesh_set_topology"
	OpSetMaxLayer         Op = "mesh_set_max_layer"
	OpSetVotePercentage   Op = "mesh_set_vote_percentage"
	OpSetXonQueueSize     Op = "mesh_set_xon_qsize"
	OpEnablePowerSave     Op = "mesh_enable_ps"
	OpDisablePowerSave    Op = "mesh_disable_ps"
	OpSetAssocExpire      Op = "mesh_set_ap_assoc_expire"
	OpSetAnnounceInterval Op = "mesh_set_announce_interval"
	OpSetAPAuthMode       Op = "mesh_set_ap_authmode"
	OpApplyConfig         Op = "mesh_set_config"
	OpMeshStart           Op = "mesh_start"
	OpMeshStop            Op = "mesh_stop"
	OpSetDeviceDutyCycle  Op = "mesh_set_active_duty_cycle"
	OpSetNetworkDutyCycle Op = "mesh_set_network_duty_cycle"
)
