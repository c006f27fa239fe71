package compute

// InstanceState is the lifecycle state of a provisioned instance.
type InstanceState int

const (
	// StateRequested means the create call returned but no endpoint is known yet.
	StateRequested InstanceState = iota
	// StateReady means an endpoint is assigned and reachable.
	StateReady
	// StateStopped is terminal.
	StateStopped
)

func (s InstanceState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Instance is the runtime view of the single instance a job owns.
type Instance struct {
	Handle   Handle
	Endpoint Endpoint
	State    InstanceState
}
