package driver

import (
	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/hooking"
)

// Builder can build drivers.
type Builder struct {
	engine      engine.Engine
	logger      *zap.Logger
	saveResults bool
	hooks       []hooking.Hook
}

// MakeBuilder creates a builder with default parameters. Results are saved
// by default.
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

// WithLogger sets the logger used by the driver.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.logger = l
	return b
}

// WithSaveResults sets whether the engine writes results to the output file.
func (b Builder) WithSaveResults(save bool) Builder {
	b.saveResults = save
	return b
}

// WithoutSavingResults asks the engine not to write the output file.
func (b Builder) WithoutSavingResults() Builder {
	b.saveResults = false
	return b
}

// WithHook registers a hook with the driver to build.
func (b Builder) WithHook(h hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), h)
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}
}

// Build creates a driver.
func (b Builder) Build() *Driver {
	b.parametersMustBeValid()

	d := &Driver{
		HookableBase: hooking.NewHookableBase(),
		engine:       b.engine,
		logger:       b.logger,
		saveResults:  b.saveResults,
	}

	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	for _, h := range b.hooks {
		d.AcceptHook(h)
	}

	return d
}
