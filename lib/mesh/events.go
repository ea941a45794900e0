package mesh

import "strconv"

// EventID is a small non-negative integer identifying a mesh event raised
// by the native stack.
type EventID int32

// Mesh event identifiers, in native dispatch order.
const (
	EventStarted            EventID = iota // mesh is started
	EventStopped                           // mesh is stopped
	EventChannelSwitch                     // channel switch
	EventChildConnected                    // a child connected on the soft-AP interface
	EventChildDisconnected                 // a child disconnected on the soft-AP interface
	EventRoutingTableAdd                   // routing table grew by newly joined children
	EventRoutingTableRemove                // routing table shrank by leaving children
	EventParentConnected                   // parent connected on the station interface
	EventParentDisconnected                // parent disconnected on the station interface
	EventNoParentFound                     // no parent found
	EventLayerChange                       // this node's layer changed
	EventTODSState                         // whether the root can reach the external IP network
	EventVoteStarted                       // root election voting started
	EventVoteStopped                       // root election voting stopped
	EventRootAddress                       // the root address was obtained
	EventRootSwitchReq                     // root switch requested by a newly voted candidate
	EventRootSwitchAck                     // root switch acknowledged by the current root
	EventRootAskedYield                    // root asked to yield by a more powerful root
	EventRootFixed                         // fixed-root setting synchronized with parent
	EventScanDone                          // channel scan finished
	EventNetworkState                      // network state, e.g. whether a root exists
	EventStopReconnection                  // reconnection to router/parent stopped
	EventFindNetwork                       // channel found after a full scan (channel was 0)
	EventRouterSwitch                      // root connected to another router with the same SSID
	EventPSParentDuty                      // parent duty cycle changed
	EventPSChildDuty                       // child duty cycle changed
	EventPSDeviceDuty                      // device duty cycle changed

	eventCount // not a real event
)

// eventNames maps event identifiers to stable symbolic names. Lookup is
// plain array indexing; codes outside the table have no symbolic form.
var eventNames = [eventCount]string{
	EventStarted:            "MESH_EVENT_STARTED",
	EventStopped:            "MESH_EVENT_STOPPED",
	EventChannelSwitch:      "MESH_EVENT_CHANNEL_SWITCH",
	EventChildConnected:     "MESH_EVENT_CHILD_CONNECTED",
	EventChildDisconnected:  "MESH_EVENT_CHILD_DISCONNECTED",
	EventRoutingTableAdd:    "MESH_EVENT_ROUTING_TABLE_ADD",
	EventRoutingTableRemove: "MESH_EVENT_ROUTING_TABLE_REMOVE",
	EventParentConnected:    "MESH_EVENT_PARENT_CONNECTED",
	EventParentDisconnected: "MESH_EVENT_PARENT_DISCONNECTED",
	EventNoParentFound:      "MESH_EVENT_NO_PARENT_FOUND",
	EventLayerChange:        "MESH_EVENT_LAYER_CHANGE",
	EventTODSState:          "MESH_EVENT_TODS_STATE",
	EventVoteStarted:        "MESH_EVENT_VOTE_STARTED",
	EventVoteStopped:        "MESH_EVENT_VOTE_STOPPED",
	EventRootAddress:        "MESH_EVENT_ROOT_ADDRESS",
	EventRootSwitchReq:      "MESH_EVENT_ROOT_SWITCH_REQ",
	EventRootSwitchAck:      "MESH_EVENT_ROOT_SWITCH_ACK",
	EventRootAskedYield:     "MESH_EVENT_ROOT_ASKED_YIELD",
	EventRootFixed:          "MESH_EVENT_ROOT_FIXED",
	EventScanDone:           "MESH_EVENT_SCAN_DONE",
	EventNetworkState:       "MESH_EVENT_NETWORK_STATE",
	EventStopReconnection:   "MESH_EVENT_STOP_RECONNECTION",
	EventFindNetwork:        "MESH_EVENT_FIND_NETWORK",
	EventRouterSwitch:       "MESH_EVENT_ROUTER_SWITCH",
	EventPSParentDuty:       "MESH_EVENT_PS_PARENT_DUTY",
	EventPSChildDuty:        "MESH_EVENT_PS_CHILD_DUTY",
	EventPSDeviceDuty:       "MESH_EVENT_PS_DEVICE_DUTY",
}

// EventName returns the symbolic name for an event identifier. Codes
// outside the known table return ("", false); they are never an error.
func EventName(id EventID) (string, bool) {
	if id < 0 || id >= eventCount {
		return "", false
	}
	return eventNames[id], true
}

// String returns the symbolic name, or the decimal code for identifiers
// outside the known table.
func (id EventID) String() string {
	if name, ok := EventName(id); ok {
		return name
	}
	return strconv.Itoa(int(id))
}
