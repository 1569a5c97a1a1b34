package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/config"
	"github.com/sarchlab/swmmdriver/datarecording"
	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/engine/replay"
	"github.com/sarchlab/swmmdriver/logging"
	"github.com/sarchlab/swmmdriver/simulation"
)

var errIncomplete = errors.New("simulation did not complete")

var runCmd = &cobra.Command{
	Use:   "run [input] [report] [output]",
	Short: "Run a project from start to end.",
	Long: "`run model.inp model.rpt model.out` runs a project. Paths left " +
		"out are taken from SWMMDRIVER_INPUT, SWMMDRIVER_REPORT and " +
		"SWMMDRIVER_OUTPUT.",
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")

		res, err := runSimulation(cfg, cmd.OutOrStdout(), quiet)
		if err != nil {
			return err
		}

		if !res.Completed {
			return errIncomplete
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.Bool("no-save", false, "Do not write the binary results file.")
	fs.String("record", "", "Record the run into this SQLite database.")
	fs.Bool("record-steps", false,
		"Record every step, not only progress reports.")
	fs.Bool("monitor", false, "Serve the run state over HTTP.")
	fs.Int("monitor-port", 0,
		"Port of the monitoring server. A random port is used if 0.")
	fs.Bool("open-browser", false, "Open the monitoring page in a browser.")
	fs.BoolP("quiet", "q", false, "Do not print progress.")
}

// loadConfig reads the configuration files and environment, then applies
// positional arguments and the flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return cfg, err
	}

	paths := []*string{&cfg.InputPath, &cfg.ReportPath, &cfg.OutputPath}
	for i, a := range args {
		*paths[i] = a
	}

	flags := cmd.Flags()

	if flags.Changed("no-save") {
		noSave, _ := flags.GetBool("no-save")
		cfg.SaveResults = !noSave
	}

	if flags.Changed("record") {
		cfg.RecordPath, _ = flags.GetString("record")
	}

	if flags.Changed("record-steps") {
		cfg.RecordSteps, _ = flags.GetBool("record-steps")
	}

	if flags.Changed("monitor") {
		cfg.Monitor, _ = flags.GetBool("monitor")
	}

	if flags.Changed("monitor-port") {
		cfg.MonitorPort, _ = flags.GetInt("monitor-port")
	}

	if flags.Changed("open-browser") {
		cfg.OpenBrowser, _ = flags.GetBool("open-browser")
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("log-dev") {
		cfg.LogDev, _ = flags.GetBool("log-dev")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func buildSimulation(cfg config.Config, logger *zap.Logger) *simulation.Simulation {
	b := simulation.MakeBuilder().
		WithEngine(replay.NewEngine()).
		WithLogger(logger).
		WithSaveResults(cfg.SaveResults)

	if cfg.RecordPath != "" {
		b = b.WithRecordPath(cfg.RecordPath)
		if cfg.RecordSteps {
			b = b.WithRecordSteps()
		}
	}

	if cfg.Monitor {
		b = b.WithMonitor().WithMonitorPort(cfg.MonitorPort)
		if cfg.OpenBrowser {
			b = b.WithOpenBrowser()
		}

		if sc, err := replay.LoadScenario(cfg.InputPath); err == nil {
			b = b.WithExpectedDuration(sc.Duration)
		}
	}

	return b.Build()
}

// runSimulation runs the configured project, writing progress and the
// summary to out.
func runSimulation(
	cfg config.Config,
	out io.Writer,
	quiet bool,
) (driver.RunResult, error) {
	if cfg.RecordPath != "" {
		filename := datarecording.Filename(cfg.RecordPath)
		if _, err := os.Stat(filename); err == nil {
			return driver.RunResult{},
				fmt.Errorf("recording %s already exists", filename)
		}
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.LogDev,
	})
	if err != nil {
		return driver.RunResult{}, err
	}
	defer func() { _ = logger.Sync() }()

	s := buildSimulation(cfg, logger)
	defer s.Terminate()

	var sink driver.ProgressSink = driver.Discard

	console := driver.NewOverwritingConsoleSink(out)
	if !quiet {
		sink = console
	}

	res := s.Run(cfg.InputPath, cfg.ReportPath, cfg.OutputPath, sink)

	if !quiet {
		console.Done()
	}

	fmt.Fprintln(out, summary(res))

	return res, nil
}

func summary(res driver.RunResult) string {
	s := fmt.Sprintf("Simulation complete after %d steps.", res.Steps)
	if !res.Completed {
		s = fmt.Sprintf("Simulation stopped at %s after %d steps: %s.",
			res.Stage, res.Steps, res.ErrorCode)
	}

	if !res.CleanupErrorCode.OK() {
		s += fmt.Sprintf(" Cleanup failed: %s.", res.CleanupErrorCode)
	}

	if res.HasMassBalance {
		s += fmt.Sprintf(
			" Continuity errors: runoff %.3f%%, flow %.3f%%, quality %.3f%%.",
			res.MassBalance.Runoff,
			res.MassBalance.Flow,
			res.MassBalance.Quality)
	}

	return s
}
