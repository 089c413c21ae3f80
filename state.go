package blesim

// AdapterState is the power state of a BLE adapter.
type AdapterState int

const (
	// StateUnknown means the adapter state has not been determined.
	StateUnknown AdapterState = iota
	// StatePoweredOn means the adapter is on and ready.
	StatePoweredOn
	// StatePoweredOff means the adapter radio is turned off.
	StatePoweredOff
)

var stateName = map[AdapterState]string{
	StateUnknown:    "unknown",
	StatePoweredOn:  "poweredOn",
	StatePoweredOff: "poweredOff",
}

func (s AdapterState) String() string {
	if n, ok := stateName[s]; ok {
		return n
	}
	return "unknown"
}

// ParseState converts a state string back to an AdapterState.
func ParseState(s string) (AdapterState, error) {
	for st, n := range stateName {
		if n == s {
			return st, nil
		}
	}
	return StateUnknown, NewError(CodeInvalidParameter, "unknown adapter state: "+s)
}

// StateDirective is an optional probe passed to Adapter.State. Directives
// drive simulated behavior: a forced failure or a power transition applied
// before the state is read.
type StateDirective string

const (
	// DirectiveError makes the state query fail with a simulated error.
	DirectiveError StateDirective = "error"
	// DirectivePowerOn transitions the adapter to StatePoweredOn.
	DirectivePowerOn StateDirective = "powerOn"
	// DirectivePowerOff transitions the adapter to StatePoweredOff,
	// stopping any advertising or scanning in progress.
	DirectivePowerOff StateDirective = "powerOff"
)
