package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// OperationStats represents statistics for a single operation
type OperationStats struct {
	Name                 string        `json:"name"`
	CallCount            int           `json:"call_count"`
	ErrorCount           int           `json:"error_count"`
	TotalExecutionTime   time.Duration `json:"total_execution_time"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	LastUsed             time.Time     `json:"last_used"`
}

// SessionStats represents statistics since the server started
type SessionStats struct {
	StartTime  time.Time                  `json:"start_time"`
	Operations map[string]*OperationStats `json:"operations"`
}

// PersistentStats represents statistics persisted across restarts
type PersistentStats struct {
	FirstRecorded time.Time                  `json:"first_recorded"`
	LastUpdated   time.Time                  `json:"last_updated"`
	Operations    map[string]*OperationStats `json:"operations"`
}

// StatsManager manages operation usage statistics
type StatsManager struct {
	sessionStats    *SessionStats
	persistentStats *PersistentStats
	statsFilePath   string
	mutex           sync.RWMutex
}

// NewStatsManager creates a new StatsManager backed by statsFilePath
func NewStatsManager(statsFilePath string) (*StatsManager, error) {
	now := time.Now()
	manager := &StatsManager{
		sessionStats: &SessionStats{
			StartTime:  now,
			Operations: make(map[string]*OperationStats),
		},
		persistentStats: &PersistentStats{
			FirstRecorded: now,
			LastUpdated:   now,
			Operations:    make(map[string]*OperationStats),
		},
		statsFilePath: statsFilePath,
	}

	// Create the directory if it doesn't exist
	dir := filepath.Dir(statsFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for stats file: %w", err)
	}

	// Load persistent stats if they exist
	if _, err := os.Stat(statsFilePath); err == nil {
		data, err := os.ReadFile(statsFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read stats file: %w", err)
		}

		if err := json.Unmarshal(data, &manager.persistentStats); err != nil {
			return nil, fmt.Errorf("failed to parse stats file: %w", err)
		}
		if manager.persistentStats.Operations == nil {
			manager.persistentStats.Operations = make(map[string]*OperationStats)
		}
	}

	return manager, nil
}

// RecordUsage records one call of an operation
func (m *StatsManager) RecordUsage(name string, executionTime time.Duration, failed bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	record(m.sessionStats.Operations, name, executionTime, failed, now)
	record(m.persistentStats.Operations, name, executionTime, failed, now)
	m.persistentStats.LastUpdated = now

	return m.savePersistentStats()
}

func record(operations map[string]*OperationStats, name string, executionTime time.Duration, failed bool, now time.Time) {
	op, ok := operations[name]
	if !ok {
		op = &OperationStats{Name: name}
		operations[name] = op
	}

	op.CallCount++
	if failed {
		op.ErrorCount++
	}
	op.TotalExecutionTime += executionTime
	op.AverageExecutionTime = op.TotalExecutionTime / time.Duration(op.CallCount)
	op.LastUsed = now
}

// GetSessionStats returns a copy of the session statistics
func (m *StatsManager) GetSessionStats() *SessionStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &SessionStats{
		StartTime:  m.sessionStats.StartTime,
		Operations: copyOperations(m.sessionStats.Operations),
	}
}

// GetPersistentStats returns a copy of the persisted statistics
func (m *StatsManager) GetPersistentStats() *PersistentStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &PersistentStats{
		FirstRecorded: m.persistentStats.FirstRecorded,
		LastUpdated:   m.persistentStats.LastUpdated,
		Operations:    copyOperations(m.persistentStats.Operations),
	}
}

// ResetSessionStats resets the session statistics
func (m *StatsManager) ResetSessionStats() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessionStats = &SessionStats{
		StartTime:  time.Now(),
		Operations: make(map[string]*OperationStats),
	}
}

func copyOperations(in map[string]*OperationStats) map[string]*OperationStats {
	out := make(map[string]*OperationStats, len(in))
	for name, op := range in {
		opCopy := *op
		out[name] = &opCopy
	}
	return out
}

// savePersistentStats saves persistent stats to file. Callers hold the lock.
func (m *StatsManager) savePersistentStats() error {
	data, err := json.MarshalIndent(m.persistentStats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(m.statsFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	return nil
}

// FormatStats formats statistics as a table
func FormatStats(sessionStats *SessionStats, persistentStats *PersistentStats) string {
	result := "Operation Usage Statistics\n\n"

	result += "Current Session Statistics:\n"
	result += fmt.Sprintf("Session started: %s\n", sessionStats.StartTime.Format(time.RFC3339))
	result += fmt.Sprintf("Session duration: %s\n\n", time.Since(sessionStats.StartTime).Round(time.Second))
	result += formatTable(sessionStats.Operations, "No operations used in this session.\n")

	result += "\nAll-Time Statistics:\n"
	result += fmt.Sprintf("First recorded: %s\n", persistentStats.FirstRecorded.Format(time.RFC3339))
	result += fmt.Sprintf("Last updated: %s\n\n", persistentStats.LastUpdated.Format(time.RFC3339))
	result += formatTable(persistentStats.Operations, "No operations used across all sessions.\n")

	return result
}

func formatTable(operations map[string]*OperationStats, empty string) string {
	if len(operations) == 0 {
		return empty
	}

	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)

	table := "Operation             | Calls | Errors | Avg Time  | Total Time\n"
	table += "----------------------|-------|--------|-----------|-----------\n"
	for _, name := range names {
		op := operations[name]
		table += fmt.Sprintf("%-22s| %5d | %6d | %9s | %10s\n",
			op.Name,
			op.CallCount,
			op.ErrorCount,
			op.AverageExecutionTime.Round(time.Millisecond).String(),
			op.TotalExecutionTime.Round(time.Millisecond).String())
	}
	return table
}
