package driver

// State is the lifecycle stage of the simulation a driver is running.
type State int

// Lifecycle stages. A fault moves the run directly to StateEnded.
const (
	StateUnopened State = iota
	StateOpened
	StateStarted
	StateStepping
	StateEnded
	StateReported
	StateClosed
)

var stateNames = [...]string{
	"Unopened",
	"Opened",
	"Started",
	"Stepping",
	"Ended",
	"Reported",
	"Closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}

	return stateNames[s]
}

// Stage identifies the lifecycle call at which a run faulted.
type Stage int

// Fault stages.
const (
	StageNone Stage = iota
	StageOpen
	StageStart
	StageStep
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageOpen:
		return "open"
	case StageStart:
		return "start"
	case StageStep:
		return "step"
	default:
		return "unknown"
	}
}
