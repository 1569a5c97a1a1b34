// Package engine defines the capabilities the driver needs from a
// stormwater simulation engine.
package engine

// A Handle refers to one open simulation inside an engine. A nil Handle means
// the engine could not allocate a simulation at all.
type Handle interface{}

// An Engine performs the hydrologic and hydraulic computation of a
// simulation. All calls are blocking and are issued from one goroutine per
// handle.
type Engine interface {
	// Open reads the input file and prepares the report and output files.
	Open(inputPath, reportPath, outputPath string) (Handle, ErrorCode)

	// ErrorCode returns the error state of the simulation.
	ErrorCode(h Handle) ErrorCode

	// Start initializes the simulation. If saveResults is set, the results
	// of each reporting period are written to the output file.
	Start(h Handle, saveResults bool) ErrorCode

	// Step advances the simulation by one routing step and returns the
	// elapsed time in days. An elapsed time of zero or less means the
	// simulation has finished.
	Step(h Handle) (elapsedDays float64, code ErrorCode)

	// End terminates the simulation run.
	End(h Handle) ErrorCode

	// Report writes the simulation report.
	Report(h Handle) ErrorCode

	// Close releases the handle. The handle must not be used afterwards.
	Close(h Handle) ErrorCode
}

// MassBalance holds the continuity errors of a finished run, in percent.
type MassBalance struct {
	Runoff  float64 `json:"runoff"`
	Flow    float64 `json:"flow"`
	Quality float64 `json:"quality"`
}

// A MassBalanceReporter can report the continuity errors of a run. The
// values are only available after End and before Close.
type MassBalanceReporter interface {
	MassBalance(h Handle) (MassBalance, ErrorCode)
}

// A Versioner reports the engine version as an integer of the form xyzzz,
// where x is the major version, y the minor version and zzz the build.
type Versioner interface {
	Version() int
}
