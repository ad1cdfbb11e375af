package scheduler

import (
	"fmt"
	"sync"
	"time"
)

// State is the lifecycle phase of the automation pipeline
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StatePlanning   State = "planning"
	StateGenerating State = "generating"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// LogEntry is one line of the in-memory run log
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// StatusResponse is a snapshot of the current run state
type StatusResponse struct {
	State          State      `json:"state"`
	Logs           []LogEntry `json:"logs"`
	NewsCount      int        `json:"news_count"`
	TaskCount      int        `json:"task_count"`
	CompletedCount int        `json:"completed_count"`
	FailedCount    int        `json:"failed_count"`
	LastRunStarted *time.Time `json:"last_run_started,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// Manager holds the run state with thread-safe access. Exactly one run may
// be active at a time; TryStart enforces that for both cron and manual
// triggers.
type Manager struct {
	mu sync.RWMutex

	currentState State

	newsCount      int
	taskCount      int
	completedCount int
	failedCount    int
	lastRunStarted *time.Time

	logs    []LogEntry
	maxLogs int
	lastErr error
}

// NewManager creates an idle state manager
func NewManager() *Manager {
	return &Manager{
		currentState: StateIdle,
		logs:         make([]LogEntry, 0),
		maxLogs:      50, // Keep last 50 log entries
	}
}

// TryStart transitions into a new run if none is active. Returns false when
// a run is already in progress.
func (m *Manager) TryStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.currentState {
	case StateIdle, StateComplete, StateError:
		now := time.Now()
		m.currentState = StateFetching
		m.lastRunStarted = &now
		m.newsCount = 0
		m.taskCount = 0
		m.completedCount = 0
		m.failedCount = 0
		m.lastErr = nil
		return true
	}
	return false
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(message)
}

// SetState sets the current state (thread-safe)
func (m *Manager) SetState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = state
}

// GetState gets the current state (thread-safe)
func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// SetError records a failed run
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = StateError
	m.lastErr = err
	m.appendLog(fmt.Sprintf("Error: %v", err))
}

// SetNewsCount records how many news items the fetch stage yielded
func (m *Manager) SetNewsCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newsCount = count
}

// SetTaskCount records how many tasks the plan stage produced
func (m *Manager) SetTaskCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskCount = count
}

// RecordOutcome tallies one per-task generation outcome
func (m *Manager) RecordOutcome(failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if failed {
		m.failedCount++
	} else {
		m.completedCount++
	}
}

// GetStatus returns a snapshot of the current state (thread-safe)
func (m *Manager) GetStatus() StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := StatusResponse{
		State:          m.currentState,
		Logs:           append([]LogEntry{}, m.logs...), // Copy slice
		NewsCount:      m.newsCount,
		TaskCount:      m.taskCount,
		CompletedCount: m.completedCount,
		FailedCount:    m.failedCount,
		LastRunStarted: m.lastRunStarted,
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}

// appendLog must be called with the lock held
func (m *Manager) appendLog(message string) {
	m.logs = append(m.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}
