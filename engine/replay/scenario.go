package replay

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/swmmdriver/engine"
)

const msecPerDay = 86400000.0

// A Scenario scripts the behavior of a simulation.
type Scenario struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`

	// Duration is the simulated period in days.
	Duration float64 `yaml:"duration"`

	// RoutingStep is the routing time step in seconds.
	RoutingStep float64 `yaml:"routing_step"`

	// Steps lists the elapsed times returned by successive steps. When set,
	// Duration and RoutingStep are ignored.
	Steps []float64 `yaml:"steps"`

	StartError int `yaml:"start_error"`

	// FailAtStep is the 1-based step at which FailCode is raised.
	FailAtStep int `yaml:"fail_at_step"`
	FailCode   int `yaml:"fail_code"`

	MassBalance engine.MassBalance `yaml:"mass_balance"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}

	return s, nil
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks that the scenario can be stepped.
func (s *Scenario) Validate() error {
	if len(s.Steps) > 0 {
		return nil
	}

	if s.Duration <= 0 || math.IsNaN(s.Duration) {
		return errors.New("duration must be positive when no steps are listed")
	}

	if s.RoutingStep <= 0 || math.IsNaN(s.RoutingStep) {
		return errors.New("routing_step must be positive when no steps are listed")
	}

	return nil
}

// ElapsedAt returns the elapsed time in days after the n-th step. Zero
// means the simulation has ended.
func (s *Scenario) ElapsedAt(n int) float64 {
	if len(s.Steps) > 0 {
		if n < 1 || n > len(s.Steps) {
			return 0
		}

		return s.Steps[n-1]
	}

	routingTime := float64(n) * s.RoutingStep * 1000
	if routingTime >= s.Duration*msecPerDay {
		return 0
	}

	return routingTime / msecPerDay
}
