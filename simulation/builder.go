package simulation

import (
	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/datarecording"
	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/logging"
	"github.com/sarchlab/swmmdriver/monitoring"
)

// Builder can be used to build a simulation.
type Builder struct {
	engine       engine.Engine
	logger       *zap.Logger
	saveResults  bool
	recordOn     bool
	recordPath   string
	recordSteps  bool
	monitorOn    bool
	monitorPort  int
	openBrowser  bool
	expectedDays float64
}

// MakeBuilder creates a new builder. Results are saved and nothing is
// recorded or monitored by default.
func MakeBuilder() Builder {
	return Builder{
		saveResults: true,
	}
}

// WithEngine sets the engine that performs the simulation.
func (b Builder) WithEngine(e engine.Engine) Builder {
	b.engine = e
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.logger = l
	return b
}

// WithSaveResults sets whether the engine writes the binary output file.
func (b Builder) WithSaveResults(save bool) Builder {
	b.saveResults = save
	return b
}

// WithRecordPath records runs into the given SQLite database. An empty path
// picks a random file name.
func (b Builder) WithRecordPath(path string) Builder {
	b.recordOn = true
	b.recordPath = path
	return b
}

// WithRecordSteps records every step in addition to progress reports.
func (b Builder) WithRecordSteps() Builder {
	b.recordSteps = true
	return b
}

// WithMonitor serves the run state over HTTP.
func (b Builder) WithMonitor() Builder {
	b.monitorOn = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	b.monitorPort = 0
	b.openBrowser = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOpenBrowser opens the monitoring page once the server is up.
func (b Builder) WithOpenBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithExpectedDuration sets the simulated duration in days shown by the
// monitor's progress bar.
func (b Builder) WithExpectedDuration(days float64) Builder {
	b.expectedDays = days
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("cannot open a browser when monitoring is disabled")
	}

	if !b.recordOn && b.recordSteps {
		panic("steps cannot be recorded without a record path")
	}
}

// Build builds the simulation. The monitoring server, if requested, is
// started before Build returns.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		logger: b.logger,
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	db := driver.MakeBuilder().
		WithEngine(b.engine).
		WithLogger(s.logger).
		WithSaveResults(b.saveResults).
		WithHook(logging.NewLogHook(s.logger))

	if b.recordOn {
		s.recorder = datarecording.New(b.recordPath)
		db = db.WithHook(
			datarecording.NewRecordingHook(s.recorder, b.recordSteps))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithExpectedDuration(b.expectedDays)
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		db = db.WithHook(s.monitor)
	}

	s.driver = db.Build()

	if s.monitor != nil {
		s.startMonitor(b.openBrowser)
	}

	return s
}
