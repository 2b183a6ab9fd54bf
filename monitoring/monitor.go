// Package monitoring turns a running match into an HTTP server, so that the
// state, the clocks, and the dispatched actions can be inspected from
// outside.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// Controller is the part of the dispatcher the monitor talks to.
type Controller interface {
	hooking.Hookable

	Apply(a game.Action) error
	Tick(dt time.Duration)
	Now() time.Duration
	Snapshot() *game.Game
	Params() game.Params
	LegalActions() []game.Action
}

// Engine is the replay engine, if one drives the controller.
type Engine interface {
	Pause()
	Continue()
	IsPaused() bool
	CurrentTime() time.Duration
}

// Monitor can turn a match into a server and allows external monitoring and
// controlling of the match.
type Monitor struct {
	controller Controller
	engine     Engine
	portNumber int
	stream     *stream

	profileDuration time.Duration

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		stream:          newStream(),
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Privileged ports are
// replaced by a random one.
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

// RegisterController registers the controller of the match. It must be called
// before the controller dispatches anything, as the action stream hooks into
// it.
func (m *Monitor) RegisterController(c Controller) {
	m.controller = c
	c.AcceptHook(m.stream)
}

// RegisterEngine registers the engine that replays the match.
func (m *Monitor) RegisterEngine(e Engine) {
	m.engine = e
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total time.Duration) *ProgressBar {
	bar := newProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar.
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

	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/field/{path}", m.field).Methods(http.MethodGet)
	r.HandleFunc("/api/params", m.params).Methods(http.MethodGet)
	r.HandleFunc("/api/legal", m.legal).Methods(http.MethodGet)
	r.HandleFunc("/api/action", m.action).Methods(http.MethodPost)
	r.HandleFunc("/api/tick", m.tick).Methods(http.MethodPost)
	r.HandleFunc("/api/now", m.now).Methods(http.MethodGet)
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/stream", m.stream.serveWS)

	return r
}

// StartServer starts serving in the background and returns the address it
// listens on.
func (m *Monitor) StartServer() (string, error) {
	if m.controller == nil {
		log.Panic("monitoring: no controller registered")
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitoring: %w", err)
	}

	addr := fmt.Sprintf("localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring match with http://%s\n", addr)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panic(err)
		}
	}()

	return addr, nil
}

// OpenInBrowser shows the state of the match served at addr in the default
// browser.
func (m *Monitor) OpenInBrowser(addr string) error {
	return browser.OpenURL("http://" + addr + "/api/state")
}

// Shutdown stops the server and disconnects the stream clients.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.stream.closeAll()

	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.controller.Snapshot())
}

// field serializes a part of the state selected by a dot-separated path of
// Go field names, such as "Teams.0.Score".
func (m *Monitor) field(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.controller.Snapshot())
	serializer.SetMaxDepth(2)

	err := serializer.SetEntryPoint(strings.Split(path, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer

	err = serializer.Serialize(&buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = buf.WriteTo(w)
	dieOnErr(err)
}

func (m *Monitor) params(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.controller.Params())
}

func (m *Monitor) legal(w http.ResponseWriter, _ *http.Request) {
	legal := m.controller.LegalActions()

	tagged := make([]game.VAction, 0, len(legal))
	for _, a := range legal {
		tagged = append(tagged, game.VAction{Action: a})
	}

	writeJSON(w, http.StatusOK, tagged)
}

func (m *Monitor) action(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := game.ParseAction(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = m.controller.Apply(a)

	switch {
	case errors.Is(err, controller.ErrIllegalAction):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, m.controller.Snapshot())
	}
}

func (m *Monitor) tick(w http.ResponseWriter, r *http.Request) {
	dt, err := time.ParseDuration(r.URL.Query().Get("dt"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if dt < 0 {
		http.Error(w, "negative tick", http.StatusBadRequest)
		return
	}

	m.controller.Tick(dt)

	writeJSON(w, http.StatusOK, m.controller.Snapshot())
}

type nowRsp struct {
	Now    float64  `json:"now"`
	Engine *float64 `json:"engine,omitempty"`
	Paused bool     `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	rsp := nowRsp{Now: m.controller.Now().Seconds()}

	if m.engine != nil {
		t := m.engine.CurrentTime().Seconds()
		rsp.Engine = &t
		rsp.Paused = m.engine.IsPaused()
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	if m.engine == nil {
		http.Error(w, "no engine", http.StatusServiceUnavailable)
		return
	}

	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	if m.engine == nil {
		http.Error(w, "no engine", http.StatusServiceUnavailable)
		return
	}

	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, http.StatusOK, m.progressBars)
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

	writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, http.StatusOK, prof)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
