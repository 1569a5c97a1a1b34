package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/hooking"
)

func get(h http.Handler, url string, v any) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if v != nil && rec.Code == http.StatusOK {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	return rec
}

func fire(m *Monitor, pos *hooking.HookPos, item any) {
	m.Func(hooking.HookCtx{Pos: pos, Item: item})
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
	)

	BeforeEach(func() {
		m = NewMonitor().WithExpectedDuration(1)
		m.profileDuration = 10 * time.Millisecond
	})

	It("should fall back to a random port for reserved ports", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(8080)
		Expect(m.portNumber).To(Equal(8080))
	})

	It("should track a run through its hooks", func() {
		fire(m, driver.HookPosRunStart, driver.RunInfo{
			RunID:     "r1",
			InputPath: "in.inp",
		})
		Expect(m.progressBars).To(HaveLen(1))
		Expect(m.progressBars[0].Total).To(Equal(uint64(24)))

		fire(m, driver.HookPosAfterStep, driver.StepRecord{
			RunID: "r1", Step: 3, ElapsedDays: 0.1,
		})
		fire(m, driver.HookPosProgress, driver.Progress{Hour: 2})

		Expect(m.progressBars[0].Finished).To(Equal(uint64(2)))

		status := m.Status()
		Expect(status.RunID).To(Equal("r1"))
		Expect(status.State).To(Equal("Stepping"))
		Expect(status.Steps).To(Equal(3))
		Expect(status.Hour).To(Equal(2))
		Expect(status.Finished).To(BeFalse())

		fire(m, driver.HookPosRunEnd, driver.RunResult{
			RunID:     "r1",
			ErrorCode: engine.ErrOutputWrite,
		})

		status = m.Status()
		Expect(status.Finished).To(BeTrue())
		Expect(status.Completed).To(BeFalse())
		Expect(status.ErrorCode).To(Equal(309))
		Expect(status.Message).To(ContainSubstring("ERROR 309"))
		Expect(m.progressBars).To(BeEmpty())
	})

	It("should only count progress forward", func() {
		fire(m, driver.HookPosRunStart, driver.RunInfo{RunID: "r"})
		bar := m.progressBars[0]

		fire(m, driver.HookPosProgress, driver.Progress{Day: 1, Hour: 1})
		fire(m, driver.HookPosProgress, driver.Progress{Day: 1, Hour: 1})

		Expect(bar.Finished).To(Equal(uint64(25)))
	})

	It("should serve the run status", func() {
		fire(m, driver.HookPosRunStart, driver.RunInfo{RunID: "r2"})

		var status RunStatus
		rec := get(m.router(), "/api/run", &status)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(status.RunID).To(Equal("r2"))
	})

	It("should serialize the run state", func() {
		fire(m, driver.HookPosRunStart, driver.RunInfo{RunID: "r3"})

		rec := get(m.router(), "/api/state", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("r3"))
	})

	It("should list progress bars", func() {
		m.CreateProgressBar("bar", 10).IncrementFinished(4)

		var bars []progressBarView
		get(m.router(), "/api/progress", &bars)

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("bar"))
		Expect(bars[0].Finished).To(Equal(uint64(4)))
	})

	It("should report resource usage", func() {
		var rsp resourceRsp
		rec := get(m.router(), "/api/resource", &rsp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a cpu profile", func() {
		rec := get(m.router(), "/api/profile", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).
			To(Equal("application/json"))
	})

	It("should serve the dashboard", func() {
		rec := get(m.router(), "/", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should start and shut down the server without leaks", func() {
		ignore := goleak.IgnoreCurrent()

		Expect(m.StartServer()).To(Succeed())
		Expect(m.StartServer()).To(HaveOccurred())
		Expect(m.URL()).To(HavePrefix("http://localhost:"))

		client := &http.Client{
			Transport: &http.Transport{DisableKeepAlives: true},
		}
		rsp, err := client.Get(m.URL() + "/api/run")
		Expect(err).ToNot(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(m.Shutdown(ctx)).To(Succeed())
		Expect(m.URL()).To(BeEmpty())

		Expect(goleak.Find(ignore)).To(Succeed())
	})

	It("should refuse to open a browser before the server starts", func() {
		Expect(m.OpenInBrowser()).To(HaveOccurred())
	})
})
