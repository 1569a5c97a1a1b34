package logging

import (
	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/hooking"
)

// A LogHook writes driver activity to a logger. Steps are logged at debug
// level and progress reports at info level.
type LogHook struct {
	logger *zap.Logger
}

// NewLogHook creates a LogHook.
func NewLogHook(logger *zap.Logger) *LogHook {
	return &LogHook{logger: logger}
}

// Func logs the hook item.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case driver.HookPosRunStart:
		info := ctx.Item.(driver.RunInfo)
		h.logger.Info("run starting",
			zap.String("run_id", info.RunID),
			zap.String("input", info.InputPath),
			zap.String("report", info.ReportPath),
			zap.String("output", info.OutputPath),
			zap.Bool("save_results", info.SaveResults))
	case driver.HookPosAfterStep:
		rec := ctx.Item.(driver.StepRecord)
		if ce := h.logger.Check(zap.DebugLevel, "step"); ce != nil {
			ce.Write(
				zap.String("run_id", rec.RunID),
				zap.Int("step", rec.Step),
				zap.Float64("elapsed_days", rec.ElapsedDays),
				zap.Int("code", int(rec.ErrorCode)))
		}
	case driver.HookPosProgress:
		p := ctx.Item.(driver.Progress)
		h.logger.Info("progress",
			zap.Int("day", p.Day),
			zap.Int("hour", p.Hour))
	case driver.HookPosRunEnd:
		res := ctx.Item.(driver.RunResult)
		fields := []zap.Field{
			zap.String("run_id", res.RunID),
			zap.Bool("completed", res.Completed),
			zap.Int("steps", res.Steps),
		}

		if res.HasMassBalance {
			fields = append(fields,
				zap.Float64("runoff_error_pct", res.MassBalance.Runoff),
				zap.Float64("flow_error_pct", res.MassBalance.Flow),
				zap.Float64("quality_error_pct", res.MassBalance.Quality))
		}

		if res.Completed {
			h.logger.Info("run ended", fields...)
			return
		}

		fields = append(fields,
			zap.Int("code", int(res.ErrorCode)),
			zap.Stringer("stage", res.Stage))
		h.logger.Warn("run aborted", fields...)
	}
}
