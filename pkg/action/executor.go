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

package action

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elizaos/eliza-go/pkg/types"
)

// OnError selects what the executor does when a step exhausts its retries.
type OnError string

const (
	// OnErrorAbort stops the whole plan. This is the default.
	OnErrorAbort OnError = "abort"
	// OnErrorContinue proceeds to the next independent step.
	OnErrorContinue OnError = "continue"
	// OnErrorSkip drops the remainder of the failed step's dependency branch.
	OnErrorSkip OnError = "skip"
)

// RetryPolicy controls per-step retries.
type RetryPolicy struct {
	MaxRetries        int
	Backoff           time.Duration
	BackoffMultiplier float64
	OnError           OnError
}

// DefaultRetryPolicy: no retries, abort the plan on error.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{OnError: OnErrorAbort}
}

// StepStatus is the terminal state of one plan step.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// Skip reasons recorded on StepResult.
const (
	SkipUnknownAction   = "unknown_action"
	SkipNotValid        = "not_valid"
	SkipParameterErrors = "parameter_errors"
	SkipDependency      = "dependency_not_met"
	SkipPlanAborted     = "plan_aborted"
	SkipDeadline        = "deadline_exceeded"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Step            *Step
	Status          StepStatus
	Result          *Result
	ParameterErrors []string
	SkipReason      string
}

// ExecutionResult is the outcome of running a plan.
type ExecutionResult struct {
	Steps           []*StepResult
	State           *types.State
	ExecutedActions []string
}

// StepObserver is notified as steps start and finish, used by the runtime
// for event emission and trajectory recording.
type StepObserver func(step *Step, result *StepResult)

// Executor runs plans strictly sequentially against the action catalog.
type Executor struct {
	catalog  *Catalog
	policy   *RetryPolicy
	logger   *slog.Logger
	onStart  StepObserver
	onFinish StepObserver
}

func NewExecutor(catalog *Catalog, policy *RetryPolicy) *Executor {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return &Executor{
		catalog: catalog,
		policy:  policy,
		logger:  slog.Default(),
	}
}

// Observe installs start/finish observers. Either may be nil.
func (e *Executor) Observe(onStart, onFinish StepObserver) {
	e.onStart = onStart
	e.onFinish = onFinish
}

// Execute runs the plan in order. A step whose dependencies did not
// complete is skipped, and its dependents cascade-skip. Each successful
// step's values and data are merged into a working copy of the state that
// subsequent steps observe. If the context deadline is breached the current
// step completes but the rest of the plan is skipped.
func (e *Executor) Execute(ctx context.Context, plan *Plan, msg *types.Memory, state *types.State, callback Callback, responses []*types.Memory) (*ExecutionResult, error) {
	working := state.Clone()
	out := &ExecutionResult{State: working}

	completed := make(map[string]bool, len(plan.Steps))
	aborted := false

	for _, step := range plan.Steps {
		result := &StepResult{Step: step}
		out.Steps = append(out.Steps, result)

		switch {
		case aborted:
			result.Status = StepSkipped
			result.SkipReason = SkipPlanAborted
			continue
		case ctx.Err() != nil:
			result.Status = StepSkipped
			result.SkipReason = SkipDeadline
			continue
		}

		if unmet := unmetDependency(step, completed); unmet != "" {
			result.Status = StepSkipped
			result.SkipReason = SkipDependency
			e.logger.Debug("skipping step with unmet dependency",
				"step", step.ID, "action", step.Action, "dependency", unmet)
			continue
		}

		a, ok := e.catalog.Get(step.Action)
		if !ok {
			result.Status = StepSkipped
			result.SkipReason = SkipUnknownAction
			e.logger.Warn("plan references unknown action", "action", step.Action)
			continue
		}

		if a.Validate != nil {
			valid, err := a.Validate(ctx, msg, working)
			if err != nil || !valid {
				result.Status = StepSkipped
				result.SkipReason = SkipNotValid
				if err != nil {
					e.logger.Warn("action validate failed", "action", a.Name, "error", err)
				}
				continue
			}
		}

		params, paramErrs := ValidateParams(a, step.Params)
		if len(paramErrs) > 0 {
			result.Status = StepSkipped
			result.SkipReason = SkipParameterErrors
			result.ParameterErrors = paramErrs
			e.logger.Warn("action parameters rejected",
				"action", a.Name, "errors", paramErrs)
			continue
		}

		if e.onStart != nil {
			e.onStart(step, result)
		}

		actionResult := e.runWithRetries(ctx, a, msg, working, params, callback, responses)
		result.Result = actionResult

		if actionResult.Success {
			result.Status = StepCompleted
			completed[step.ID] = true
			out.ExecutedActions = append(out.ExecutedActions, a.Name)
			working.Merge(&types.State{Values: actionResult.Values, Data: actionResult.Data})
		} else {
			result.Status = StepFailed
			switch e.policy.OnError {
			case OnErrorAbort:
				aborted = true
			case OnErrorContinue, OnErrorSkip:
				// Failed step is not marked complete, so dependents
				// cascade-skip via the dependency check.
			}
		}

		if e.onFinish != nil {
			e.onFinish(step, result)
		}
	}

	return out, nil
}

func unmetDependency(step *Step, completed map[string]bool) string {
	for _, dep := range step.Dependencies {
		if !completed[dep] {
			return dep
		}
	}
	return ""
}

// runWithRetries invokes the handler, converting panics and errors into a
// failed Result, retrying per policy with exponential backoff.
func (e *Executor) runWithRetries(ctx context.Context, a *Action, msg *types.Memory, state *types.State, params map[string]any, callback Callback, responses []*types.Memory) *Result {
	backoff := e.policy.Backoff
	attempts := e.policy.MaxRetries + 1

	var result *Result
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &Result{Success: false, Error: ctx.Err().Error()}
			case <-time.After(backoff):
			}
			if e.policy.BackoffMultiplier > 0 {
				backoff = time.Duration(float64(backoff) * e.policy.BackoffMultiplier)
			}
		}

		result = e.invoke(ctx, a, msg, state, params, callback, responses)
		if result.Success {
			return result
		}
		e.logger.Warn("action handler failed",
			"action", a.Name, "attempt", attempt+1, "error", result.Error)
	}
	return result
}

func (e *Executor) invoke(ctx context.Context, a *Action, msg *types.Memory, state *types.State, params map[string]any, callback Callback, responses []*types.Memory) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{Success: false, Error: fmt.Sprintf("action panicked: %v", r)}
		}
	}()

	opts := &HandlerOptions{Parameters: params}
	res, err := a.Handler(ctx, msg, state, opts, callback, responses)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}
	if res == nil {
		return &Result{Success: true}
	}
	return res
}
