// Package simulation assembles a driver with its recording, logging and
// monitoring services.
package simulation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/swmmdriver/datarecording"
	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/monitoring"
)

const shutdownTimeout = 5 * time.Second

// A Simulation runs SWMM projects through a driver and owns the services
// attached to it.
type Simulation struct {
	driver   *driver.Driver
	logger   *zap.Logger
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
}

func (s *Simulation) startMonitor(openBrowser bool) {
	s.monitor.RegisterDriver(s.driver)

	if err := s.monitor.StartServer(); err != nil {
		s.logger.Warn("monitoring disabled", zap.Error(err))
		s.monitor = nil

		return
	}

	if !openBrowser {
		return
	}

	if err := s.monitor.OpenInBrowser(); err != nil {
		s.logger.Warn("cannot open browser",
			zap.String("url", s.monitor.URL()),
			zap.Error(err))
	}
}

// Run drives one project from open to close.
func (s *Simulation) Run(
	inputPath, reportPath, outputPath string,
	sink driver.ProgressSink,
) driver.RunResult {
	return s.driver.Run(inputPath, reportPath, outputPath, sink)
}

// Driver returns the driver used in the simulation.
func (s *Simulation) Driver() *driver.Driver {
	return s.driver
}

// Recorder returns the data recorder, or nil if runs are not recorded.
func (s *Simulation) Recorder() datarecording.DataRecorder {
	return s.recorder
}

// Monitor returns the monitor, or nil if the simulation is not monitored.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Terminate closes the recorder and stops the monitoring server.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
	}

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(
			context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.monitor.Shutdown(ctx); err != nil {
			s.logger.Warn("monitor shutdown", zap.Error(err))
		}
	}
}
