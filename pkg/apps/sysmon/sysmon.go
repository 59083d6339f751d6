// Package sysmon implements the desktop system monitor. Its readings are a
// bounded random walk refreshed on a timer; no real host metrics are read.
package sysmon

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"webdesk/pkg/timer"
	"webdesk/pkg/wm"
)

// DefaultInterval is how often readings change.
const DefaultInterval = 2 * time.Second

// Usage levels used to colour a percentage.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Level classifies a usage percentage.
func Level(percent float64) string {
	switch {
	case percent < 30:
		return LevelLow
	case percent < 70:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Bound describes how one reading moves: each step adds a uniform value in
// [-Step/2, Step/2) and clamps the result to [Min, Max].
type Bound struct {
	Min, Max, Step float64
}

// Walk applies one step to v.
func (b Bound) Walk(v, r float64) float64 {
	return min(b.Max, max(b.Min, v+(r-0.5)*b.Step))
}

var (
	CPUBound     = Bound{Min: 10, Max: 90, Step: 10}
	MemoryBound  = Bound{Min: 20, Max: 85, Step: 5}
	DiskBound    = Bound{Min: 10, Max: 70, Step: 2}
	NetworkBound = Bound{Min: 0.1, Max: 5.0, Step: 0.5}
)

// Readings is one snapshot of the simulated host.
type Readings struct {
	CPU     float64 `json:"cpu"`
	Memory  float64 `json:"memory"`
	Disk    float64 `json:"disk"`
	Network float64 `json:"network"`
}

// Initial is the first snapshot shown by a new monitor.
var Initial = Readings{CPU: 45, Memory: 67, Disk: 34, Network: 1.2}

// Process is a row in the process table.
type Process struct {
	Name   string  `json:"name"`
	CPU    float64 `json:"cpu"`
	Memory int     `json:"memory"`
	PID    int     `json:"pid"`
}

// Processes is the fixed process table.
var Processes = []Process{
	{Name: "Web Browser", CPU: 15.2, Memory: 1200, PID: 1234},
	{Name: "File Manager", CPU: 2.1, Memory: 350, PID: 1567},
	{Name: "Terminal", CPU: 0.8, Memory: 120, PID: 2890},
	{Name: "Text Editor", CPU: 1.5, Memory: 280, PID: 3421},
	{Name: "System Monitor", CPU: 3.2, Memory: 180, PID: 4567},
	{Name: "Desktop Environment", CPU: 8.1, Memory: 850, PID: 1001},
	{Name: "Network Manager", CPU: 0.3, Memory: 95, PID: 2341},
	{Name: "Audio System", CPU: 1.2, Memory: 150, PID: 5678},
}

// Config holds the settings of a monitor.
type Config struct {
	// Scheduler drives refreshes. Nil uses the wall clock.
	Scheduler timer.Scheduler
	// Interval between refreshes. Zero uses DefaultInterval.
	Interval time.Duration
	// Rand drives the random walk. Nil uses the global source.
	Rand *rand.Rand
}

// Monitor holds the current readings and refreshes them until closed.
type Monitor struct {
	mu       sync.Mutex
	rand     *rand.Rand
	readings Readings
	timers   *timer.Group
}

// New creates a monitor and starts its refresh timer.
func New(cfg Config) *Monitor {
	if cfg.Scheduler == nil {
		cfg.Scheduler = timer.NewReal()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	m := &Monitor{
		rand:     cfg.Rand,
		readings: Initial,
		timers:   timer.NewGroup(cfg.Scheduler),
	}
	m.timers.Every(cfg.Interval, m.Step)
	return m
}

func (m *Monitor) float() float64 {
	if m.rand != nil {
		return m.rand.Float64()
	}
	return rand.Float64()
}

// Step moves every reading one step.
func (m *Monitor) Step() {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.readings
	r.CPU = CPUBound.Walk(r.CPU, m.float())
	r.Memory = MemoryBound.Walk(r.Memory, m.float())
	r.Disk = DiskBound.Walk(r.Disk, m.float())
	r.Network = NetworkBound.Walk(r.Network, m.float())
	m.readings = r
}

// Readings returns the current snapshot.
func (m *Monitor) Readings() Readings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readings
}

// Close stops refreshing.
func (m *Monitor) Close() error {
	return m.timers.Close()
}

// Summary is the human-readable form of a snapshot.
type Summary struct {
	CPU         string `json:"cpu"`
	CPULevel    string `json:"cpuLevel"`
	Memory      string `json:"memory"`
	MemoryLevel string `json:"memoryLevel"`
	MemoryUsed  string `json:"memoryUsed"`
	Disk        string `json:"disk"`
	DiskLevel   string `json:"diskLevel"`
	DiskUsed    string `json:"diskUsed"`
	Download    string `json:"download"`
	Upload      string `json:"upload"`
}

// Summarize formats a snapshot the way the monitor displays it.
func Summarize(r Readings) Summary {
	return Summary{
		CPU:         fmt.Sprintf("%.1f%%", r.CPU),
		CPULevel:    Level(r.CPU),
		Memory:      fmt.Sprintf("%.1f%%", r.Memory),
		MemoryLevel: Level(r.Memory),
		MemoryUsed:  fmt.Sprintf("%.1f GB / 16.0 GB used", r.Memory*0.16),
		Disk:        fmt.Sprintf("%.1f%%", r.Disk),
		DiskLevel:   Level(r.Disk),
		DiskUsed:    fmt.Sprintf("%.0f GB / 512 GB used", r.Disk*5.12),
		Download:    fmt.Sprintf("%.1f MB/s", r.Network),
		Upload:      fmt.Sprintf("%.1f MB/s", r.Network*0.3),
	}
}

// State is the rendered state of the monitor.
type State struct {
	Readings  Readings  `json:"readings"`
	Summary   Summary   `json:"summary"`
	Processes []Process `json:"processes"`
}

// Render implements wm.App.
func (m *Monitor) Render() wm.View {
	r := m.Readings()
	return wm.View{Kind: "system-monitor", State: State{Readings: r, Summary: Summarize(r), Processes: Processes}}
}
