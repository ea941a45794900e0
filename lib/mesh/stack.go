// Package mesh defines the collaborator interface to the native wireless
// mesh stack: the fallible control calls used to bring the stack up and
// down, the asynchronous event source, and a simulated in-memory stack for
// tests and local runs.
//
// The control plane in lib/device treats everything here as a synchronous
// black box: calls either return StatusOK or a non-success Status that the
// caller surfaces as an error. Topology formation, routing and radio
// management live below this interface and are out of scope.
package mesh

// Topology is the routing shape constraint of the mesh network.
type Topology int

const (
	// TopologyTree arranges nodes in a tree rooted at the router-connected
	// node. Maximum depth is validation.MaxTreeLayer.
	TopologyTree Topology = iota
	// TopologyChain arranges nodes in a chain. Maximum depth is
	// validation.MaxChainLayer.
	TopologyChain
)

func (t Topology) String() string {
	switch t {
	case TopologyTree:
		return "tree"
	case TopologyChain:
		return "chain"
	default:
		return "unknown"
	}
}

// AuthMode is the soft-AP authentication mode.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWPAPSK
	AuthWPA2PSK
	AuthWPA3PSK
)

func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "open"
	case AuthWPAPSK:
		return "wpa-psk"
	case AuthWPA2PSK:
		return "wpa2-psk"
	case AuthWPA3PSK:
		return "wpa3-psk"
	default:
		return "unknown"
	}
}

// CredentialStorage selects where the radio subsystem keeps credentials.
type CredentialStorage int

const (
	// StorageFlash persists credentials across restarts.
	StorageFlash CredentialStorage = iota
	// StorageRAM keeps credentials in memory only. The control plane always
	// configures RAM storage; nothing survives a process restart.
	StorageRAM
)

// DutyMode selects how a device applies its power-save duty cycle.
type DutyMode int

const (
	// DutyRequest asks the parent for the duty cycle.
	DutyRequest DutyMode = iota
	// DutyDemand demands the duty cycle from the parent.
	DutyDemand
)

// DutyScope selects which part of the network a duty cycle applies to.
type DutyScope int

const (
	// DutyScopeEntire applies the network duty cycle to the whole network.
	DutyScopeEntire DutyScope = iota
	// DutyScopePartial applies it to the upstream path only.
	DutyScopePartial
)

// IfaceRole distinguishes the two network interfaces of a mesh node.
type IfaceRole int

const (
	// RoleStation is the upstream-facing interface.
	RoleStation IfaceRole = iota
	// RoleSoftAP is the downstream-facing soft access point interface.
	RoleSoftAP
)

func (r IfaceRole) String() string {
	switch r {
	case RoleStation:
		return "station"
	case RoleSoftAP:
		return "softap"
	default:
		return "unknown"
	}
}

// Iface is an opaque handle to a network interface created by the stack.
// Handles are owned by the lifecycle controller and never escape it.
type Iface interface {
	Role() IfaceRole
}

// NetworkConfig is the full mesh configuration struct pushed to the stack
// in one call during bring-up.
type NetworkConfig struct {
	// MeshID distinguishes this mesh network from others on the same
	// channel. Must be unique network-wide.
	MeshID [6]byte

	// Channel is the Wi-Fi channel the router operates on.
	Channel int

	// RouterSSID and RouterPassword are the credentials the root node uses
	// to reach the router.
	RouterSSID     string
	RouterPassword string

	// APPassword protects the mesh's own soft access point.
	APPassword string

	// MaxConnections bounds stations associated with the soft AP.
	MaxConnections int

	// MaxNonMeshConnections bounds non-mesh stations associated with the
	// soft AP.
	MaxNonMeshConnections int
}

// EventFunc receives asynchronous mesh events. It is invoked on the stack's
// own dispatch goroutine: implementations must not block and must not call
// back into the stack.
type EventFunc func(id EventID, data []byte)

// Stack is the native mesh/radio control interface. Every call is
// synchronous and returns a Status checked uniformly by the caller; any
// waiting-for-hardware semantics happen below this interface.
//
// Calls are not safe for concurrent use; the control plane issues them from
// a single control flow.
type Stack interface {
	// NetifInit performs one-time global network-stack initialization.
	NetifInit() Status

	// CreateMeshIfaces creates the station and soft-AP interfaces bound to
	// the mesh role.
	CreateMeshIfaces() (sta, ap Iface, st Status)

	// DestroyIface destroys an interface created by CreateMeshIfaces.
	// Destroying a nil handle is a no-op returning StatusOK.
	DestroyIface(iface Iface) Status

	// RadioInit initializes the radio subsystem with the given credential
	// storage policy.
	RadioInit(storage CredentialStorage) Status
	RadioStart() Status
	RadioStop() Status
	RadioDeinit() Status

	// MeshInit initializes the mesh subsystem.
	MeshInit() Status
	MeshDeinit() Status

	// SubscribeEvents registers fn for the wildcard event identifier within
	// the mesh event category. At most one subscriber is supported;
	// subscribing again replaces the previous subscriber.
	SubscribeEvents(fn EventFunc) Status
	UnsubscribeEvents() Status

	SetTopology(t Topology) Status
	SetMaxLayer(layer int) Status
	SetVotePercentage(pct float64) Status
	SetXonQueueSize(size int) Status

	EnablePowerSave() Status
	DisablePowerSave() Status
	SetAssocExpire(seconds int) Status
	SetAnnounceInterval(shortMS, longMS int) Status

	SetAPAuthMode(mode AuthMode) Status

	// ApplyConfig pushes the full mesh configuration struct.
	ApplyConfig(cfg *NetworkConfig) Status

	MeshStart() Status
	MeshStop() Status

	SetDeviceDutyCycle(dutyPct int, mode DutyMode) Status
	SetNetworkDutyCycle(dutyPct, durationSec int, scope DutyScope) Status
}
