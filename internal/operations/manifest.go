package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Run statuses recorded in the manifest
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunManifest is the record of one pipeline run, written to run_manifest.json
type RunManifest struct {
	mu sync.RWMutex

	RunID     string           `json:"run_id"`
	StartTime time.Time        `json:"start_time"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	Stages    []StageExecution `json:"stages"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
}

// StageExecution tracks the execution of a single stage
type StageExecution struct {
	StageID    string         `json:"stage_id"`
	StageName  string         `json:"stage_name"`
	Status     StepStatus     `json:"status"`
	StartTime  *time.Time     `json:"start_time,omitempty"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Result     *StepResult    `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// NewRunManifest creates a manifest for a run that starts now
func NewRunManifest(runID string) *RunManifest {
	return &RunManifest{
		RunID:     runID,
		StartTime: time.Now(),
		Stages:    []StageExecution{},
		Status:    RunStatusRunning,
	}
}

// RecordStage appends the final state of a stage
func (m *RunManifest) RecordStage(state *StepState, result *StepResult) {
	status := state.GetStatus()

	state.mu.RLock()
	exec := StageExecution{
		StageID:   state.ID,
		StageName: state.Name,
		Status:    status,
		StartTime: state.StartTime,
		EndTime:   state.EndTime,
	}
	switch status {
	case StepStatusFailed:
		exec.Error = state.Message
	case StepStatusSkipped:
		exec.Reason = state.Message
	}
	state.mu.RUnlock()

	exec.DurationMs = state.Duration().Milliseconds()
	exec.Result = result

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stages = append(m.Stages, exec)
}

// Complete marks the run as completed
func (m *RunManifest) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.EndTime = &now
	m.Status = RunStatusCompleted
}

// Fail marks the run as failed at the given stage
func (m *RunManifest) Fail(stageID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.EndTime = &now
	m.Status = RunStatusFailed
	m.Error = fmt.Sprintf("stage %s failed: %v", stageID, err)
}

// Stage returns the recorded execution of a stage
func (m *RunManifest) Stage(stageID string) (StageExecution, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.Stages {
		if s.StageID == stageID {
			return s, true
		}
	}
	return StageExecution{}, false
}

// SaveToFile writes the manifest as indented JSON, replacing the file atomically
func (m *RunManifest) SaveToFile(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace manifest file: %w", err)
	}

	return nil
}
