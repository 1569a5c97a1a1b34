package datarecording

import (
	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/hooking"
)

// Table names used by the RecordingHook.
const (
	StepTable     = "swmm_steps"
	ProgressTable = "swmm_progress"
	RunTable      = "swmm_runs"
)

// StepEntry is one row of the step table.
type StepEntry struct {
	RunID       string
	Step        int
	ElapsedDays float64
	ErrorCode   int
}

// ProgressEntry is one row of the progress table.
type ProgressEntry struct {
	RunID       string
	Day         int
	Hour        int
	ElapsedDays float64
}

// RunEntry is one row of the run table.
type RunEntry struct {
	RunID            string
	InputPath        string
	ErrorCode        int
	Completed        bool
	Stage            string
	ProgressEvents   int
	Steps            int
	FinalElapsed     float64
	CleanupErrorCode int
}

// MapTables registers the tables written by a RecordingHook with a reader.
func MapTables(r DataReader) {
	r.MapTable(StepTable, StepEntry{})
	r.MapTable(ProgressTable, ProgressEntry{})
	r.MapTable(RunTable, RunEntry{})
}

// A RecordingHook writes the steps, progress reports and results of driver
// runs into a DataRecorder.
type RecordingHook struct {
	recorder    DataRecorder
	recordSteps bool

	tablesCreated bool
	runID         string
	inputPath     string
}

// NewRecordingHook creates a hook that records into recorder. Individual
// steps are only recorded if recordSteps is set; progress reports and run
// results are always recorded.
func NewRecordingHook(recorder DataRecorder, recordSteps bool) *RecordingHook {
	return &RecordingHook{
		recorder:    recorder,
		recordSteps: recordSteps,
	}
}

// Func records the item carried by the hook context.
func (h *RecordingHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case driver.HookPosRunStart:
		info := ctx.Item.(driver.RunInfo)
		h.createTables()
		h.runID = info.RunID
		h.inputPath = info.InputPath
	case driver.HookPosAfterStep:
		if !h.recordSteps {
			return
		}

		rec := ctx.Item.(driver.StepRecord)
		h.recorder.InsertData(StepTable, StepEntry{
			RunID:       rec.RunID,
			Step:        rec.Step,
			ElapsedDays: rec.ElapsedDays,
			ErrorCode:   int(rec.ErrorCode),
		})
	case driver.HookPosProgress:
		p := ctx.Item.(driver.Progress)
		h.recorder.InsertData(ProgressTable, ProgressEntry{
			RunID:       h.runID,
			Day:         p.Day,
			Hour:        p.Hour,
			ElapsedDays: p.ElapsedDays,
		})
	case driver.HookPosRunEnd:
		res := ctx.Item.(driver.RunResult)
		h.recorder.InsertData(RunTable, RunEntry{
			RunID:            res.RunID,
			InputPath:        h.inputPath,
			ErrorCode:        int(res.ErrorCode),
			Completed:        res.Completed,
			Stage:            res.Stage.String(),
			ProgressEvents:   res.ProgressEvents,
			Steps:            res.Steps,
			FinalElapsed:     res.FinalElapsed,
			CleanupErrorCode: int(res.CleanupErrorCode),
		})
		h.recorder.Flush()
	}
}

func (h *RecordingHook) createTables() {
	if h.tablesCreated {
		return
	}

	h.recorder.CreateTable(StepTable, StepEntry{})
	h.recorder.CreateTable(ProgressTable, ProgressEntry{})
	h.recorder.CreateTable(RunTable, RunEntry{})
	h.tablesCreated = true
}
