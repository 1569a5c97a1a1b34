package simulation

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/swmmdriver/datarecording"
	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/engine/replay"
)

var _ = Describe("Simulation", func() {
	var (
		dir         string
		input       string
		report      string
		output      string
		replayEng   *replay.Engine
		progression []driver.Progress
		sink        driver.ProgressSink
	)

	writeInput := func(content string) {
		Expect(os.WriteFile(input, []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		input = filepath.Join(dir, "model.inp")
		report = filepath.Join(dir, "model.rpt")
		output = filepath.Join(dir, "model.out")
		replayEng = replay.NewEngine()

		progression = nil
		sink = driver.SinkFunc(func(p driver.Progress) {
			progression = append(progression, p)
		})
	})

	It("should refuse to build without an engine", func() {
		Expect(func() { MakeBuilder().Build() }).
			To(PanicWith("engine is not set"))
	})

	It("should refuse a monitor port without monitoring", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(replayEng).
				WithMonitorPort(8080).
				Build()
		}).To(Panic())
	})

	It("should refuse to record steps without a record path", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(replayEng).
				WithRecordSteps().
				Build()
		}).To(Panic())
	})

	It("should run a project without extra services", func() {
		writeInput("steps: [0.01, 0.05, 0.042]\n")

		s := MakeBuilder().WithEngine(replayEng).Build()
		defer s.Terminate()

		Expect(s.Recorder()).To(BeNil())
		Expect(s.Monitor()).To(BeNil())

		res := s.Run(input, report, output, sink)

		Expect(res.Completed).To(BeTrue())
		Expect(res.Steps).To(Equal(4))
		Expect(progression).To(HaveLen(3))
		Expect(s.Driver().State()).To(Equal(driver.StateClosed))
		Expect(replayEng.NumOpen()).To(Equal(0))
		Expect(output).To(BeAnExistingFile())
	})

	It("should not write the output file when results are not saved", func() {
		writeInput("steps: [0.5]\n")

		s := MakeBuilder().
			WithEngine(replayEng).
			WithSaveResults(false).
			Build()
		defer s.Terminate()

		res := s.Run(input, report, output, nil)

		Expect(res.Completed).To(BeTrue())
		Expect(output).ToNot(BeAnExistingFile())
	})

	It("should record runs", func() {
		writeInput("steps: [0.5, 1.0]\nfail_at_step: 2\nfail_code: 309\n")
		recordPath := filepath.Join(dir, "history")

		s := MakeBuilder().
			WithEngine(replayEng).
			WithRecordPath(recordPath).
			WithRecordSteps().
			Build()

		res := s.Run(input, report, output, nil)
		s.Terminate()

		Expect(res.ErrorCode).To(Equal(engine.ErrOutputWrite))

		reader, err := datarecording.NewReader(
			datarecording.Filename(recordPath))
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()
		datarecording.MapTables(reader)

		runs, total, err := reader.Query(context.Background(),
			datarecording.RunTable, datarecording.QueryParams{})
		Expect(err).ToNot(HaveOccurred())
		Expect(total).To(Equal(1))

		row := runs[0].(*datarecording.RunEntry)
		Expect(row.RunID).To(Equal(res.RunID))
		Expect(row.ErrorCode).To(Equal(309))
		Expect(row.Stage).To(Equal("step"))

		_, steps, err := reader.Query(context.Background(),
			datarecording.StepTable, datarecording.QueryParams{})
		Expect(err).ToNot(HaveOccurred())
		Expect(steps).To(Equal(2))
	})

	It("should expose the run through the monitor", func() {
		writeInput("duration: 0.25\nrouting_step: 900\n")

		s := MakeBuilder().
			WithEngine(replayEng).
			WithMonitor().
			WithExpectedDuration(0.25).
			Build()
		defer s.Terminate()

		Expect(s.Monitor()).ToNot(BeNil())
		Expect(s.Monitor().URL()).ToNot(BeEmpty())

		res := s.Run(input, report, output, sink)
		Expect(res.Completed).To(BeTrue())

		status := s.Monitor().Status()
		Expect(status.RunID).To(Equal(res.RunID))
		Expect(status.Finished).To(BeTrue())
		Expect(status.Completed).To(BeTrue())
		Expect(status.State).To(Equal("Closed"))
		Expect(status.Hour).To(Equal(progression[len(progression)-1].Hour))
	})
})
