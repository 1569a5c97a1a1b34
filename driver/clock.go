package driver

import (
	"fmt"
	"math"
)

// Progress is the simulated time reported at an hour boundary.
type Progress struct {
	Day         int
	Hour        int
	ElapsedDays float64
}

func (p Progress) String() string {
	return fmt.Sprintf("Hour %d Day %d", p.Hour, p.Day)
}

// ClockAt converts an elapsed time in days into a day and an hour of day.
// Negative elapsed times map to the start of the simulation.
func ClockAt(elapsedDays float64) Progress {
	if elapsedDays <= 0 || math.IsNaN(elapsedDays) {
		return Progress{}
	}

	day := math.Floor(elapsedDays)
	hour := int(math.Floor((elapsedDays - day) * 24))
	if hour > 23 {
		hour = 23
	}

	return Progress{
		Day:         int(day),
		Hour:        hour,
		ElapsedDays: elapsedDays,
	}
}

// SimClock tracks the simulated time of one run and detects when a step
// crosses into a later hour.
type SimClock struct {
	Day  int
	Hour int

	// NewHour is the elapsed time of the latest step in hours, unfloored.
	NewHour float64

	// OldHour is the value of NewHour at the last reported boundary.
	OldHour float64
}

// Advance records the elapsed time of a step. It returns the clock reading
// and true if the step moved past the last reported hour value.
func (c *SimClock) Advance(elapsedDays float64) (Progress, bool) {
	c.NewHour = elapsedDays * 24

	if !(c.NewHour > c.OldHour) {
		return Progress{}, false
	}

	p := ClockAt(elapsedDays)
	c.Day = p.Day
	c.Hour = p.Hour
	c.OldHour = c.NewHour

	return p, true
}

// Reset puts the clock back to the start of a simulation.
func (c *SimClock) Reset() {
	*c = SimClock{}
}
