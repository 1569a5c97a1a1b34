// Package driver runs a simulation engine through its open, start, step,
// end, report and close lifecycle and keeps track of simulated time.
package driver

import (
	"sync"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/hooking"
)

// HookPosRunStart fires before the engine is opened. The item is a RunInfo.
var HookPosRunStart = &hooking.HookPos{Name: "RunStart"}

// HookPosAfterStep fires after every step. The item is a StepRecord.
var HookPosAfterStep = &hooking.HookPos{Name: "AfterStep"}

// HookPosProgress fires whenever progress is reported. The item is a
// Progress.
var HookPosProgress = &hooking.HookPos{Name: "Progress"}

// HookPosRunEnd fires after the handle is released. The item is a RunResult.
var HookPosRunEnd = &hooking.HookPos{Name: "RunEnd"}

// RunInfo describes a run that is about to begin.
type RunInfo struct {
	RunID       string
	InputPath   string
	ReportPath  string
	OutputPath  string
	SaveResults bool
}

// StepRecord describes one completed step.
type StepRecord struct {
	RunID       string
	Step        int
	ElapsedDays float64
	ErrorCode   engine.ErrorCode
}

// RunResult summarizes a run.
type RunResult struct {
	RunID string

	// ErrorCode is the fault that stopped forward progress, or zero.
	ErrorCode engine.ErrorCode

	// Completed is true if the engine reported the end of the simulation
	// without a fault.
	Completed bool

	// Stage is the lifecycle call at which the fault was observed.
	Stage Stage

	// ProgressEvents counts the reports sent to the progress sink, including
	// the initial one.
	ProgressEvents int

	Steps        int
	FinalElapsed float64

	// CleanupErrorCode is the first fault returned by end, report or close.
	CleanupErrorCode engine.ErrorCode

	MassBalance    engine.MassBalance
	HasMassBalance bool
}

// Driver runs simulations on an engine. A driver runs one simulation at a
// time.
type Driver struct {
	*hooking.HookableBase

	engine      engine.Engine
	logger      *zap.Logger
	saveResults bool

	runLock sync.Mutex

	stateLock sync.RWMutex
	state     State
	clock     SimClock
}

// State returns the lifecycle stage of the current or last run.
func (d *Driver) State() State {
	d.stateLock.RLock()
	defer d.stateLock.RUnlock()

	return d.state
}

// Clock returns the simulated time of the current or last run.
func (d *Driver) Clock() SimClock {
	d.stateLock.RLock()
	defer d.stateLock.RUnlock()

	return d.clock
}

func (d *Driver) setState(s State) {
	d.stateLock.Lock()
	d.state = s
	d.stateLock.Unlock()
}

func (d *Driver) advanceClock(elapsedDays float64) (Progress, bool) {
	d.stateLock.Lock()
	defer d.stateLock.Unlock()

	return d.clock.Advance(elapsedDays)
}

func (d *Driver) resetClock() {
	d.stateLock.Lock()
	d.clock.Reset()
	d.stateLock.Unlock()
}

// Run opens the simulation described by the input file and steps it until
// the engine reports completion or a fault. The three paths are passed to
// the engine untouched. Progress is reported to sink, which may be nil.
//
// If the engine returns no handle, no other engine call is made. Otherwise
// end, report and close are each called exactly once, in that order, no
// matter where stepping stopped.
func (d *Driver) Run(
	inputPath, reportPath, outputPath string,
	sink ProgressSink,
) RunResult {
	d.runLock.Lock()
	defer d.runLock.Unlock()

	if sink == nil {
		sink = Discard
	}

	result := RunResult{RunID: xid.New().String()}
	logger := d.logger.With(zap.String("run_id", result.RunID))

	d.resetClock()
	d.setState(StateUnopened)
	d.invoke(HookPosRunStart, RunInfo{
		RunID:       result.RunID,
		InputPath:   inputPath,
		ReportPath:  reportPath,
		OutputPath:  outputPath,
		SaveResults: d.saveResults,
	})

	h, code := d.engine.Open(inputPath, reportPath, outputPath)
	if h == nil {
		logger.Error("engine did not return a simulation handle",
			zap.Int("code", int(code)),
			zap.String("input", inputPath))

		result.ErrorCode = code
		result.Stage = StageOpen
		d.finish(&result, logger)

		return result
	}

	d.setState(StateOpened)
	logger.Debug("simulation opened", zap.String("input", inputPath))

	d.runOpened(h, code, sink, &result, logger)
	d.finish(&result, logger)

	return result
}

func (d *Driver) runOpened(
	h engine.Handle,
	openCode engine.ErrorCode,
	sink ProgressSink,
	result *RunResult,
	logger *zap.Logger,
) {
	defer d.close(h, result, logger)

	d.simulate(h, openCode, sink, result, logger)
	d.endAndReport(h, result, logger)
}

func (d *Driver) simulate(
	h engine.Handle,
	openCode engine.ErrorCode,
	sink ProgressSink,
	result *RunResult,
	logger *zap.Logger,
) {
	code := openCode
	if code.OK() {
		code = d.engine.ErrorCode(h)
	}

	if !code.OK() {
		d.fault(result, StageOpen, code, logger)
		return
	}

	code = d.engine.Start(h, d.saveResults)
	if code.OK() {
		code = d.engine.ErrorCode(h)
	}

	if !code.OK() {
		d.fault(result, StageStart, code, logger)
		return
	}

	d.setState(StateStarted)
	logger.Debug("simulation started", zap.Bool("save_results", d.saveResults))

	d.report(sink, Progress{}, result)
	d.setState(StateStepping)

	for {
		elapsed, code := d.engine.Step(h)
		if code.OK() {
			code = d.engine.ErrorCode(h)
		}

		result.Steps++
		result.FinalElapsed = elapsed

		d.invoke(HookPosAfterStep, StepRecord{
			RunID:       result.RunID,
			Step:        result.Steps,
			ElapsedDays: elapsed,
			ErrorCode:   code,
		})

		if p, crossed := d.advanceClock(elapsed); crossed {
			d.report(sink, p, result)
		}

		switch Terminate(elapsed, code) {
		case StopNormal:
			result.Completed = true
			return
		case StopError:
			d.fault(result, StageStep, code, logger)
			return
		case Continue:
		}
	}
}

func (d *Driver) endAndReport(
	h engine.Handle,
	result *RunResult,
	logger *zap.Logger,
) {
	endCode := d.engine.End(h)
	d.setState(StateEnded)
	d.recordCleanup(result, "end", endCode, logger)

	if mb, ok := d.engine.(engine.MassBalanceReporter); ok {
		balance, code := mb.MassBalance(h)
		if code.OK() {
			result.MassBalance = balance
			result.HasMassBalance = true
		}
	}

	reportCode := d.engine.Report(h)
	d.setState(StateReported)
	d.recordCleanup(result, "report", reportCode, logger)
}

func (d *Driver) close(
	h engine.Handle,
	result *RunResult,
	logger *zap.Logger,
) {
	code := d.engine.Close(h)
	d.setState(StateClosed)
	d.recordCleanup(result, "close", code, logger)
}

func (d *Driver) recordCleanup(
	result *RunResult,
	call string,
	code engine.ErrorCode,
	logger *zap.Logger,
) {
	if code.OK() {
		return
	}

	logger.Warn("cleanup call failed",
		zap.String("call", call),
		zap.Int("code", int(code)),
		zap.Stringer("message", code))

	result.CleanupErrorCode = engine.FirstFault(result.CleanupErrorCode, code)
}

func (d *Driver) fault(
	result *RunResult,
	stage Stage,
	code engine.ErrorCode,
	logger *zap.Logger,
) {
	result.ErrorCode = code
	result.Stage = stage

	logger.Error("simulation faulted",
		zap.Stringer("stage", stage),
		zap.Int("code", int(code)),
		zap.Stringer("message", code),
		zap.Int("steps", result.Steps),
		zap.Float64("elapsed_days", result.FinalElapsed))
}

func (d *Driver) report(sink ProgressSink, p Progress, result *RunResult) {
	result.ProgressEvents++
	sink.Progress(p)
	d.invoke(HookPosProgress, p)
}

func (d *Driver) finish(result *RunResult, logger *zap.Logger) {
	logger.Info("simulation finished",
		zap.Bool("completed", result.Completed),
		zap.Int("code", int(result.ErrorCode)),
		zap.Int("steps", result.Steps),
		zap.Int("progress_events", result.ProgressEvents))

	d.invoke(HookPosRunEnd, *result)
}

func (d *Driver) invoke(pos *hooking.HookPos, item any) {
	if d.NumHooks() == 0 {
		return
	}

	d.InvokeHook(hooking.HookCtx{
		Domain: d,
		Pos:    pos,
		Item:   item,
	})
}
