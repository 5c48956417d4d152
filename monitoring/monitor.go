// Package monitoring turns a simulation into a web server that can report
// and control the simulation. It also serves the simulation API.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/metrics"
	"github.com/sarchlab/schedsim/monitoring/web"
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/workload"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A StateReporter can report a snapshot of a dispatcher.
type StateReporter interface {
	State() cpu.State
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	dispatcher StateReporter
	portNumber int

	reader     workload.Reader
	accounting metrics.Accounting

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		reader:     workload.NewReader(),
		accounting: metrics.DefaultAccounting(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithWorkloadReader sets the reader that parses the workloads posted to
// the simulation API.
func (m *Monitor) WithWorkloadReader(r workload.Reader) *Monitor {
	m.reader = r
	return m
}

// WithAccounting sets how the simulation API charges context switches.
func (m *Monitor) WithAccounting(acct metrics.Accounting) *Monitor {
	m.accounting = acct
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterDispatcher registers the dispatcher to report.
func (m *Monitor) RegisterDispatcher(d StateReporter) {
	m.dispatcher = d
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
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

// Router returns the routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/simulate", m.simulate).Methods(http.MethodPost)
	r.HandleFunc("/api/simulate", methodNotAllowed(http.MethodPost))
	r.HandleFunc("/api/generate", m.generate).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", methodNotAllowed(http.MethodGet))
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/dispatcher", m.dispatcherState)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server in the background. It
// returns the port that the server listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation with http://localhost:%d\n",
		port)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return port
}

func (m *Monitor) engineOr404(w http.ResponseWriter) sim.Engine {
	if m.engine == nil {
		http.Error(w, "no simulation is running", http.StatusNotFound)
	}

	return m.engine
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	engine := m.engineOr404(w)
	if engine == nil {
		return
	}

	engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	engine := m.engineOr404(w)
	if engine == nil {
		return
	}

	engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	engine := m.engineOr404(w)
	if engine == nil {
		return
	}

	fmt.Fprintf(w, "{\"now\":%d}", engine.CurrentTime())
}

func (m *Monitor) dispatcherState(w http.ResponseWriter, _ *http.Request) {
	if m.dispatcher == nil {
		http.Error(w, "no dispatcher is registered", http.StatusNotFound)
		return
	}

	state := m.dispatcher.State()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&state)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	views := make([]progressView, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		views = append(views, b.view())
	}
	m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(views)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
