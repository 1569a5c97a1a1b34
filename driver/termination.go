package driver

import "github.com/sarchlab/swmmdriver/engine"

// Outcome tells the step loop what to do after a step.
type Outcome int

// Possible outcomes of a step.
const (
	Continue Outcome = iota
	StopNormal
	StopError
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "Continue"
	case StopNormal:
		return "StopNormal"
	case StopError:
		return "StopError"
	default:
		return "Unknown"
	}
}

// Terminate decides whether the step loop goes on. A fault stops the loop
// even when the elapsed time also signals completion.
func Terminate(elapsedDays float64, code engine.ErrorCode) Outcome {
	if !code.OK() {
		return StopError
	}

	if elapsedDays <= 0 {
		return StopNormal
	}

	return Continue
}
