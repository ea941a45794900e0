package device

import (
	"github.com/go-mesh/meshdev/lib/errors"
	"github.com/go-mesh/meshdev/lib/mesh"
	"github.com/go-mesh/meshdev/lib/validation"
)

// Default configuration values for a mesh device.
const (
	DefaultMaxLayer              = 6
	DefaultMaxConnections        = 6
	DefaultMaxNonMeshConnections = 0
	DefaultDeviceDuty            = 10
	DefaultNetworkDuty           = 10
	// DefaultNetworkDutyDuration of -1 applies the network duty cycle
	// indefinitely.
	DefaultNetworkDutyDuration = -1
)

// DefaultMeshID is the default network identity. Real deployments must
// override it: the mesh ID has to be unique network-wide.
var DefaultMeshID = [6]byte{0x77, 0x77, 0x77, 0x77, 0x77, 0x77}

// ChannelUnchanged is the channel sentinel in SetOptions meaning "leave the
// stored channel as it is".
const ChannelUnchanged = -1

// PowerSave holds the power-save duty cycling policy.
type PowerSave struct {
	// Enabled turns mesh power save on or off.
	Enabled bool
	// DeviceDuty is the device active duty cycle percentage.
	DeviceDuty int
	// DeviceDutyMode selects how the duty cycle is negotiated with the
	// parent.
	DeviceDutyMode mesh.DutyMode
	// NetworkDuty is the network active duty cycle percentage.
	NetworkDuty int
	// NetworkDutyDuration is how long the network duty cycle applies, in
	// seconds; -1 means indefinitely.
	NetworkDutyDuration int
	// NetworkDutyScope selects how much of the network the duty cycle
	// applies to.
	NetworkDutyScope mesh.DutyScope
}

// Config holds the mutable mesh parameters applied at the next activation.
// Mutations while the device is active take effect only after a
// deactivate/activate cycle; the running native stack is never
// re-configured live.
type Config struct {
	// MeshID distinguishes this mesh network from others. Must be unique
	// network-wide.
	MeshID [6]byte

	// Topology is the routing shape; it bounds MaxLayer.
	Topology mesh.Topology

	// MaxLayer bounds the depth from the root node.
	MaxLayer int

	// SSID and Password are the router credentials used by the root node.
	// Both must be non-empty before activation.
	SSID     string
	Password string

	// Channel is the router Wi-Fi channel. 0 means "auto-discover via full
	// scan", but activation requires an explicitly set non-zero channel.
	Channel int

	// APPassword protects the mesh's own soft access point.
	APPassword string

	// APAuthMode is the soft-AP authentication mode.
	APAuthMode mesh.AuthMode

	// MaxConnections and MaxNonMeshConnections bound stations associated
	// with the soft AP.
	MaxConnections        int
	MaxNonMeshConnections int

	// PowerSave is the duty cycling policy.
	PowerSave PowerSave
}

// DefaultConfig returns the documented default configuration: tree
// topology, six layers, power save on with 10% duty cycles, WPA2-PSK soft
// AP, and no router credentials.
func DefaultConfig() Config {
	return Config{
		MeshID:                DefaultMeshID,
		Topology:              mesh.TopologyTree,
		MaxLayer:              DefaultMaxLayer,
		APAuthMode:            mesh.AuthWPA2PSK,
		MaxConnections:        DefaultMaxConnections,
		MaxNonMeshConnections: DefaultMaxNonMeshConnections,
		PowerSave: PowerSave{
			Enabled:             true,
			DeviceDuty:          DefaultDeviceDuty,
			DeviceDutyMode:      mesh.DutyRequest,
			NetworkDuty:         DefaultNetworkDuty,
			NetworkDutyDuration: DefaultNetworkDutyDuration,
			NetworkDutyScope:    mesh.DutyScopeEntire,
		},
	}
}

// SetOptions carries the fields of a single Set call. Nil pointer fields
// (and a nil or ChannelUnchanged channel) are left untouched: Set calls
// are cumulative, not replace-whole-object.
type SetOptions struct {
	SSID       *string
	Password   *string
	Channel    *int
	APPassword *string
	PowerSave  *bool
}

// Set validates and applies the supplied fields. All supplied values are
// validated before any of them is stored, so a failing call leaves the
// configuration exactly as it was.
func (d *Device) Set(opts SetOptions) error {
	if opts.SSID != nil {
		if err := validation.MaxBytes("ssid", *opts.SSID, validation.MaxSSIDLen); err != nil {
			return errors.InvalidInput("SSID too long")
		}
	}
	if opts.Password != nil {
		if err := validation.MaxBytes("password", *opts.Password, validation.MaxPasswordLen); err != nil {
			return errors.InvalidInput("password too long")
		}
	}
	if opts.Channel != nil && *opts.Channel != ChannelUnchanged {
		if err := validation.Channel("channel", *opts.Channel); err != nil {
			return errors.InvalidInput("invalid channel")
		}
	}
	if opts.APPassword != nil {
		if err := validation.MaxBytes("ap_password", *opts.APPassword, validation.MaxAPPasswordLen); err != nil {
			return errors.InvalidInput("AP password too long")
		}
	}

	if opts.SSID != nil {
		d.cfg.SSID = *opts.SSID
	}
	if opts.Password != nil {
		d.cfg.Password = *opts.Password
	}
	if opts.Channel != nil && *opts.Channel != ChannelUnchanged {
		d.cfg.Channel = *opts.Channel
	}
	if opts.APPassword != nil {
		d.cfg.APPassword = *opts.APPassword
	}
	if opts.PowerSave != nil {
		d.cfg.PowerSave.Enabled = *opts.PowerSave
	}
	return nil
}

// Get returns the value of a single configuration parameter. Recognized
// keys are ssid, password, channel, ap_password and power_save; anything
// else fails with an invalid-input error and performs no mutation.
func (d *Device) Get(key string) (any, error) {
	switch key {
	case "ssid":
		return d.cfg.SSID, nil
	case "password":
		return d.cfg.Password, nil
	case "channel":
		return d.cfg.Channel, nil
	case "ap_password":
		return d.cfg.APPassword, nil
	case "power_save":
		return d.cfg.PowerSave.Enabled, nil
	default:
		return nil, errors.InvalidInput("unknown config param")
	}
}

// SetTopology sets the routing shape and the depth bound together, since
// the valid range of maxLayer depends on the topology.
func (d *Device) SetTopology(t mesh.Topology, maxLayer int) error {
	bound := validation.MaxTreeLayer
	if t == mesh.TopologyChain {
		bound = validation.MaxChainLayer
	}
	if err := validation.MaxLayer("max_layer", maxLayer, bound); err != nil {
		return errors.InvalidInput(err.Error())
	}
	d.cfg.Topology = t
	d.cfg.MaxLayer = maxLayer
	return nil
}

// Config returns a copy of the current configuration.
func (d *Device) Config() Config {
	return d.cfg
}

// networkConfig builds the full mesh configuration struct pushed to the
// native stack during bring-up.
func (c *Config) networkConfig() *mesh.NetworkConfig {
	return &mesh.NetworkConfig{
		MeshID:                c.MeshID,
		Channel:               c.Channel,
		RouterSSID:            c.SSID,
		RouterPassword:        c.Password,
		APPassword:            c.APPassword,
		MaxConnections:        c.MaxConnections,
		MaxNonMeshConnections: c.MaxNonMeshConnections,
	}
}
