// Package monitoring serves the state of a running simulation over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	// Enable profiling
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/swmmdriver/driver"
	"github.com/sarchlab/swmmdriver/hooking"
	"github.com/sarchlab/swmmdriver/monitoring/web"
)

// RunStatus is the latest known state of a run.
type RunStatus struct {
	RunID       string  `json:"run_id"`
	InputPath   string  `json:"input"`
	State       string  `json:"state"`
	Day         int     `json:"day"`
	Hour        int     `json:"hour"`
	Steps       int     `json:"steps"`
	ElapsedDays float64 `json:"elapsed_days"`
	ErrorCode   int     `json:"error_code"`
	Message     string  `json:"message"`
	Completed   bool    `json:"completed"`
	Finished    bool    `json:"finished"`
}

// Monitor turns a simulation into a server that can be watched from a
// browser. It receives updates as a driver hook.
type Monitor struct {
	driver          *driver.Driver
	portNumber      int
	expectedHours   uint64
	profileDuration time.Duration

	serverLock sync.Mutex
	server     *http.Server
	listener   net.Listener
	serveDone  chan struct{}

	statusLock sync.Mutex
	status     RunStatus
	reported   uint64
	currentBar *ProgressBar

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithExpectedDuration sets the simulated duration in days, used as the
// total of the run progress bars.
func (m *Monitor) WithExpectedDuration(days float64) *Monitor {
	if days > 0 {
		m.expectedHours = uint64(days * 24)
	}

	return m
}

// RegisterDriver registers the driver whose lifecycle state is reported.
func (m *Monitor) RegisterDriver(d *driver.Driver) {
	m.driver = d
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Status returns the latest run status.
func (m *Monitor) Status() RunStatus {
	m.statusLock.Lock()
	defer m.statusLock.Unlock()

	s := m.status
	if m.driver != nil {
		s.State = m.driver.State().String()
	}

	return s
}

// Func updates the monitor from a driver hook.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	m.statusLock.Lock()
	defer m.statusLock.Unlock()

	switch ctx.Pos {
	case driver.HookPosRunStart:
		info := ctx.Item.(driver.RunInfo)
		m.status = RunStatus{
			RunID:     info.RunID,
			InputPath: info.InputPath,
			State:     driver.StateUnopened.String(),
		}
		m.reported = 0
		m.currentBar = m.CreateProgressBar(
			"Run "+info.RunID, m.expectedHours)
	case driver.HookPosAfterStep:
		rec := ctx.Item.(driver.StepRecord)
		m.status.State = driver.StateStepping.String()
		m.status.Steps = rec.Step
		m.status.ElapsedDays = rec.ElapsedDays
		m.status.ErrorCode = int(rec.ErrorCode)
	case driver.HookPosProgress:
		p := ctx.Item.(driver.Progress)
		m.status.Day = p.Day
		m.status.Hour = p.Hour

		hours := uint64(p.Day*24 + p.Hour)
		if m.currentBar != nil && hours > m.reported {
			m.currentBar.IncrementFinished(hours - m.reported)
			m.reported = hours
		}
	case driver.HookPosRunEnd:
		res := ctx.Item.(driver.RunResult)
		m.status.State = driver.StateClosed.String()
		m.status.ErrorCode = int(res.ErrorCode)
		m.status.Message = res.ErrorCode.String()
		m.status.Completed = res.Completed
		m.status.Finished = true

		if m.currentBar != nil {
			m.CompleteProgressBar(m.currentBar)
			m.currentBar = nil
		}
	}
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() error {
	m.serverLock.Lock()
	defer m.serverLock.Unlock()

	if m.server != nil {
		return errors.New("monitoring server already started")
	}

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return fmt.Errorf("starting monitoring server: %w", err)
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.serveDone = make(chan struct{})

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.urlLocked())

	server := m.server
	done := m.serveDone

	go func() {
		defer close(done)

		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "monitoring server stopped: %v\n", err)
		}
	}()

	return nil
}

// URL returns the address of the running server, or an empty string.
func (m *Monitor) URL() string {
	m.serverLock.Lock()
	defer m.serverLock.Unlock()

	return m.urlLocked()
}

func (m *Monitor) urlLocked() string {
	if m.listener == nil {
		return ""
	}

	return fmt.Sprintf("http://localhost:%d",
		m.listener.Addr().(*net.TCPAddr).Port)
}

// OpenInBrowser opens the monitoring page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	url := m.URL()
	if url == "" {
		return errors.New("monitoring server not started")
	}

	return browser.OpenURL(url)
}

// Shutdown stops the server and waits for it to exit.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.serverLock.Lock()
	server := m.server
	done := m.serveDone
	m.server = nil
	m.listener = nil
	m.serverLock.Unlock()

	if server == nil {
		return nil
	}

	err := server.Shutdown(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.Status())
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	status := m.Status()

	buf := new(bytes.Buffer)
	serializer := goseth.NewSerializer()
	serializer.SetRoot(&status)
	serializer.SetMaxDepth(1)

	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	views := make([]progressBarView, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		views = append(views, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, views)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}
