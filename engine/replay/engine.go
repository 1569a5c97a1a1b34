// Package replay provides an engine that plays back a scripted scenario
// instead of computing hydrology. The input file is a YAML scenario, the
// report file receives a text summary and the output file receives one CSV
// row per step.
package replay

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sarchlab/swmmdriver/engine"
)

// DefaultVersion is the engine version reported when none is configured.
const DefaultVersion = 50022

type project struct {
	scenario  *Scenario
	errorCode engine.ErrorCode

	started bool
	ended   bool

	stepCount   int
	lastElapsed float64

	reportFile *os.File
	outputPath string
	outputFile *os.File
	output     *csv.Writer
	save       bool
}

// Engine replays scenarios. It is safe to use from multiple goroutines as
// long as each handle is used by one of them.
type Engine struct {
	mu       sync.Mutex
	version  int
	projects map[*project]bool
}

// NewEngine creates a replay engine.
func NewEngine() *Engine {
	return &Engine{
		version:  DefaultVersion,
		projects: make(map[*project]bool),
	}
}

// WithVersion sets the version the engine reports.
func (e *Engine) WithVersion(v int) *Engine {
	e.version = v
	return e
}

// Version returns the engine version.
func (e *Engine) Version() int {
	return e.version
}

// NumOpen returns the number of handles not yet closed.
func (e *Engine) NumOpen() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.projects)
}

func (e *Engine) lookup(h engine.Handle) *project {
	p, ok := h.(*project)
	if !ok || p == nil {
		return nil
	}

	if !e.projects[p] {
		return nil
	}

	return p
}

// Open allocates a handle and loads the scenario. A handle is returned even
// if loading fails so that the caller can still close it.
func (e *Engine) Open(
	inputPath, reportPath, outputPath string,
) (engine.Handle, engine.ErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := &project{outputPath: outputPath}
	e.projects[p] = true

	p.errorCode = e.openFiles(p, inputPath, reportPath, outputPath)

	return p, p.errorCode
}

func (e *Engine) openFiles(
	p *project,
	inputPath, reportPath, outputPath string,
) engine.ErrorCode {
	if samePath(inputPath, reportPath) || samePath(inputPath, outputPath) ||
		samePath(reportPath, outputPath) {
		return engine.ErrFileNames
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return engine.ErrInputFile
	}

	p.reportFile, err = os.Create(reportPath)
	if err != nil {
		return engine.ErrReportFile
	}

	p.scenario, err = ParseScenario(data)
	if err != nil {
		fmt.Fprintf(p.reportFile, "%s\n  %v\n", engine.ErrInput, err)
		return engine.ErrInput
	}

	return engine.NoError
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	return filepath.Clean(a) == filepath.Clean(b)
}

// ErrorCode returns the error state of the simulation.
func (e *Engine) ErrorCode(h engine.Handle) engine.ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.ErrNotOpen
	}

	return p.errorCode
}

// Start begins the simulation.
func (e *Engine) Start(h engine.Handle, saveResults bool) engine.ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.ErrNotOpen
	}

	if !p.errorCode.OK() {
		return p.errorCode
	}

	if p.started || p.ended {
		p.errorCode = engine.ErrNotOpen
		return p.errorCode
	}

	if p.scenario.StartError != 0 {
		p.errorCode = engine.ErrorCode(p.scenario.StartError)
		return p.errorCode
	}

	p.save = saveResults
	if p.save {
		f, err := os.Create(p.outputPath)
		if err != nil {
			p.errorCode = engine.ErrOutputFile
			return p.errorCode
		}

		p.outputFile = f
		p.output = csv.NewWriter(f)
		if err := p.output.Write([]string{"step", "elapsed_days"}); err != nil {
			p.errorCode = engine.ErrOutputWrite
			return p.errorCode
		}
	}

	p.started = true

	return engine.NoError
}

// Step advances the simulation by one step. A faulted simulation does not
// advance and keeps returning its fault.
func (e *Engine) Step(h engine.Handle) (float64, engine.ErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return 0, engine.ErrNotOpen
	}

	if !p.errorCode.OK() {
		return p.lastElapsed, p.errorCode
	}

	if !p.started {
		p.errorCode = engine.ErrNotOpen
		return 0, p.errorCode
	}

	p.stepCount++
	elapsed := p.scenario.ElapsedAt(p.stepCount)
	p.lastElapsed = elapsed

	if p.save {
		err := p.output.Write([]string{
			strconv.Itoa(p.stepCount),
			strconv.FormatFloat(elapsed, 'f', -1, 64),
		})
		if err != nil {
			p.errorCode = engine.ErrOutputWrite
			return elapsed, p.errorCode
		}
	}

	if p.scenario.FailAtStep == p.stepCount && p.scenario.FailCode != 0 {
		p.errorCode = engine.ErrorCode(p.scenario.FailCode)
	}

	return elapsed, p.errorCode
}

// End finishes the run and flushes the results file.
func (e *Engine) End(h engine.Handle) engine.ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.ErrNotOpen
	}

	p.started = false
	p.ended = true

	return p.closeOutput()
}

func (p *project) closeOutput() engine.ErrorCode {
	if p.outputFile == nil {
		return engine.NoError
	}

	code := engine.NoError

	p.output.Flush()
	if err := p.output.Error(); err != nil {
		code = engine.ErrOutputWrite
	}

	if err := p.outputFile.Close(); err != nil {
		code = engine.ErrOutputWrite
	}

	p.outputFile = nil
	p.output = nil

	return code
}

// MassBalance returns the continuity errors of an ended run. Before the run
// ends, all values are zero.
func (e *Engine) MassBalance(
	h engine.Handle,
) (engine.MassBalance, engine.ErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.MassBalance{}, engine.ErrNotOpen
	}

	if !p.ended || p.scenario == nil {
		return engine.MassBalance{}, engine.NoError
	}

	return p.scenario.MassBalance, engine.NoError
}

// Report writes a summary of the run to the report file.
func (e *Engine) Report(h engine.Handle) engine.ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.ErrNotOpen
	}

	if p.reportFile == nil {
		return engine.NoError
	}

	if _, err := p.reportFile.WriteString(e.summary(p)); err != nil {
		return engine.ErrReportFile
	}

	return engine.NoError
}

func (e *Engine) summary(p *project) string {
	name := ""
	balance := engine.MassBalance{}
	if p.scenario != nil {
		name = p.scenario.Name
		balance = p.scenario.MassBalance
	}

	return fmt.Sprintf(
		"Replay engine %s\n"+
			"Scenario: %s\n"+
			"Steps taken: %d\n"+
			"Final elapsed time: %.6f days\n"+
			"Status: %s\n"+
			"Continuity error (%%): runoff %.3f flow %.3f quality %.3f\n",
		engine.FormatVersion(e.version),
		name,
		p.stepCount,
		p.lastElapsed,
		p.errorCode,
		balance.Runoff, balance.Flow, balance.Quality,
	)
}

// Close releases the handle.
func (e *Engine) Close(h engine.Handle) engine.ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.lookup(h)
	if p == nil {
		return engine.ErrNotOpen
	}

	delete(e.projects, p)

	code := p.closeOutput()
	if p.reportFile != nil {
		if err := p.reportFile.Close(); err != nil {
			code = engine.FirstFault(code, engine.ErrReportFile)
		}

		p.reportFile = nil
	}

	return code
}

var (
	_ engine.Engine              = (*Engine)(nil)
	_ engine.MassBalanceReporter = (*Engine)(nil)
	_ engine.Versioner           = (*Engine)(nil)
)
