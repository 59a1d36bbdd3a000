// Copyright 2026 The eliza-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trajectory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elizaos/eliza-go/pkg/types"
)

// StartOptions carries the optional episode identifiers for a trajectory.
type StartOptions struct {
	EpisodeID  string
	ScenarioID string
	BatchID    string
	GroupIndex *int
	Metadata   map[string]any
}

// Logger accumulates trajectories in memory and flushes completed ones as
// JSONL. Start and complete operations are synchronous; EndTrajectory hands
// the flush to a background goroutine.
type Logger struct {
	mu     sync.Mutex
	active map[uuid.UUID]*Trajectory

	dir    string
	fileMu sync.Mutex
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewLogger creates a trajectory logger. dir may be empty to disable
// persistence; trajectories are still recorded in memory.
func NewLogger(dir string) *Logger {
	return &Logger{
		active: make(map[uuid.UUID]*Trajectory),
		dir:    dir,
		logger: slog.Default(),
	}
}

// StartTrajectory opens a new episode for an agent.
func (l *Logger) StartTrajectory(agentID uuid.UUID, opts *StartOptions) uuid.UUID {
	t := &Trajectory{
		TrajectoryID: types.NewUUID(),
		AgentID:      agentID,
		StartTime:    time.Now().UTC(),
	}
	if opts != nil {
		t.EpisodeID = opts.EpisodeID
		t.ScenarioID = opts.ScenarioID
		t.BatchID = opts.BatchID
		t.GroupIndex = opts.GroupIndex
		t.Metadata = opts.Metadata
	}

	l.mu.Lock()
	l.active[t.TrajectoryID] = t
	l.mu.Unlock()
	return t.TrajectoryID
}

// StartStep opens a new step on an active trajectory.
func (l *Logger) StartStep(trajectoryID uuid.UUID, environmentState map[string]any, observation string) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.active[trajectoryID]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown trajectory '%s'", trajectoryID)
	}
	step := &Step{
		StepID:           types.NewUUID(),
		StepNumber:       len(t.Steps) + 1,
		Timestamp:        time.Now().UTC(),
		EnvironmentState: environmentState,
		Observation:      observation,
		LLMCalls:         []LLMCall{},
		ProviderAccesses: []ProviderAccess{},
	}
	t.Steps = append(t.Steps, step)
	return step.StepID, nil
}

// currentStep returns the newest open step. Callers hold l.mu.
func (l *Logger) currentStep(trajectoryID uuid.UUID) (*Step, error) {
	t, ok := l.active[trajectoryID]
	if !ok {
		return nil, fmt.Errorf("unknown trajectory '%s'", trajectoryID)
	}
	for i := len(t.Steps) - 1; i >= 0; i-- {
		if !t.Steps[i].completed {
			return t.Steps[i], nil
		}
	}
	return nil, fmt.Errorf("trajectory '%s' has no open step", trajectoryID)
}

// RecordLLMCall appends a model invocation to the current step. Missing
// token counts are estimated.
func (l *Logger) RecordLLMCall(trajectoryID uuid.UUID, call LLMCall) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	step, err := l.currentStep(trajectoryID)
	if err != nil {
		return err
	}
	if call.CallID == "" {
		call.CallID = types.NewUUID().String()
	}
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now().UTC()
	}
	if call.Purpose == "" {
		call.Purpose = PurposeOther
	}
	fillTokenCounts(&call)
	step.LLMCalls = append(step.LLMCalls, call)
	return nil
}

// RecordProviderAccess appends a provider fetch to the current step.
func (l *Logger) RecordProviderAccess(trajectoryID uuid.UUID, access ProviderAccess) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	step, err := l.currentStep(trajectoryID)
	if err != nil {
		return err
	}
	if access.Purpose == "" {
		access.Purpose = PurposeOther
	}
	step.ProviderAccesses = append(step.ProviderAccesses, access)
	return nil
}

// RecordAction sets the current step's action attempt.
func (l *Logger) RecordAction(trajectoryID uuid.UUID, attempt ActionAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	step, err := l.currentStep(trajectoryID)
	if err != nil {
		return err
	}
	step.Action = &attempt
	return nil
}

// CompleteStep closes the current step with its reward.
func (l *Logger) CompleteStep(trajectoryID uuid.UUID, stepID uuid.UUID, reward float64, done bool, metadata map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.active[trajectoryID]
	if !ok {
		return fmt.Errorf("unknown trajectory '%s'", trajectoryID)
	}
	for _, step := range t.Steps {
		if step.StepID == stepID {
			step.Reward = reward
			step.Done = done
			step.Metadata = metadata
			step.completed = true
			t.TotalReward += reward
			return nil
		}
	}
	return fmt.Errorf("unknown step '%s' in trajectory '%s'", stepID, trajectoryID)
}

// EndTrajectory closes the episode and flushes it in the background. The
// returned trajectory is the finalized record.
func (l *Logger) EndTrajectory(trajectoryID uuid.UUID, status Status, finalMetrics map[string]any) (*Trajectory, error) {
	l.mu.Lock()
	t, ok := l.active[trajectoryID]
	if !ok {
		l.mu.Unlock()
		return nil, fmt.Errorf("unknown trajectory '%s'", trajectoryID)
	}
	delete(l.active, trajectoryID)

	t.EndTime = time.Now().UTC()
	t.DurationMS = t.EndTime.Sub(t.StartTime).Milliseconds()
	if t.Metrics == nil {
		t.Metrics = make(map[string]any)
	}
	for k, v := range finalMetrics {
		t.Metrics[k] = v
	}
	t.Metrics["episode_length"] = len(t.Steps)
	t.Metrics["final_status"] = string(status)
	t.RewardComponents.EnvironmentReward = t.TotalReward
	l.mu.Unlock()

	if l.dir != "" {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			if err := l.flush(t); err != nil {
				l.logger.Warn("trajectory flush failed", "trajectory_id", t.TrajectoryID, "error", err)
			}
		}()
	}
	return t, nil
}

// Flush waits for pending background writes.
func (l *Logger) Flush() {
	l.wg.Wait()
}

// flush appends the trajectory as one JSON line to trajectories.jsonl.
func (l *Logger) flush(t *Trajectory) error {
	l.fileMu.Lock()
	defer l.fileMu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create trajectory dir: %w", err)
	}
	path := filepath.Join(l.dir, "trajectories.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open trajectory file: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trajectory: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write trajectory: %w", err)
	}
	return nil
}
