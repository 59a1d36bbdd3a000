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

package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/elizaos/eliza-go/pkg/action"
	"github.com/elizaos/eliza-go/pkg/model"
	"github.com/elizaos/eliza-go/pkg/provider"
	"github.com/elizaos/eliza-go/pkg/trajectory"
	"github.com/elizaos/eliza-go/pkg/types"
)

// MessageResult is the payload handed back to the connector after a turn.
type MessageResult struct {
	Text        string        `json:"text,omitempty"`
	Thought     string        `json:"thought,omitempty"`
	Actions     []string      `json:"actions,omitempty"`
	Attachments []types.Media `json:"attachments,omitempty"`
	Error       string        `json:"error,omitempty"`
	ResponseID  uuid.UUID     `json:"responseId,omitempty"`
}

// Callback lets the connector echo the response to the external platform.
type Callback func(content types.Content) error

// roomQueue serializes message turns for one room in FIFO order.
type roomQueue struct {
	jobs chan func()
}

func (q *roomQueue) loop() {
	for job := range q.jobs {
		job()
	}
}

// enqueue submits a job to the room's queue, creating the queue on first
// use. The send happens under roomMu so Stop cannot close the channel
// between the lookup and the send.
func (rt *AgentRuntime) enqueue(roomID uuid.UUID, job func()) error {
	rt.roomMu.Lock()
	defer rt.roomMu.Unlock()

	if rt.stopped {
		return fmt.Errorf("runtime stopped")
	}
	q, ok := rt.rooms[roomID]
	if !ok {
		q = &roomQueue{jobs: make(chan func(), 64)}
		rt.rooms[roomID] = q
		go q.loop()
	}
	q.jobs <- job
	return nil
}

// HandleMessage runs one full message turn: persist inbound, compose state,
// plan, execute, write the response memory, invoke the callback, then kick
// off evaluators in the background. Turns for the same room are serialized;
// different rooms proceed in parallel. A deadline on ctx stops the plan
// after the in-flight step.
func (rt *AgentRuntime) HandleMessage(ctx context.Context, msg *types.Memory, callback Callback) (*MessageResult, error) {
	if !rt.initialized {
		return nil, fmt.Errorf("runtime not initialized")
	}
	if msg == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if msg.RoomID == uuid.Nil {
		return nil, fmt.Errorf("message has no room")
	}

	var (
		result *MessageResult
		err    error
		done   = make(chan struct{})
	)
	if qErr := rt.enqueue(msg.RoomID, func() {
		defer close(done)
		result, err = rt.processMessage(ctx, msg, callback)
	}); qErr != nil {
		return nil, qErr
	}
	<-done
	return result, err
}

func (rt *AgentRuntime) processMessage(ctx context.Context, msg *types.Memory, callback Callback) (*MessageResult, error) {
	start := time.Now()

	ctx, span := rt.obs.GetTracer("runtime").Start(ctx, "message.turn",
		trace.WithAttributes(
			attribute.String("agent.name", rt.character.Name),
			attribute.String("room.id", msg.RoomID.String()),
		))
	defer span.End()

	if msg.AgentID == uuid.Nil {
		msg.AgentID = rt.agentID
	}
	if msg.Metadata == nil {
		msg.Metadata = &types.MemoryMetadata{Type: types.MemoryTypeMessage}
	}
	if err := rt.memories.Create(ctx, msg, ""); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, fmt.Errorf("failed to persist inbound message: %w", err)
	}
	rt.emit(EventMessageReceived, msg)

	stepID, stepErr := rt.trajectories.StartStep(rt.trajectoryID, nil, msg.Content.Text)
	if stepErr != nil {
		rt.logger.Debug("trajectory step not recorded", "error", stepErr)
	}
	defer func() {
		if stepErr == nil {
			if err := rt.trajectories.CompleteStep(rt.trajectoryID, stepID, 0, false, nil); err != nil {
				rt.logger.Debug("trajectory step not closed", "error", err)
			}
		}
		rt.composer.Invalidate(msg.ID)
	}()

	// Providers named on the message pull in private providers for this
	// turn only.
	state, err := rt.ComposeState(ctx, msg, msg.Content.Providers, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		rt.obs.GetMetrics().RecordMessage(ctx, time.Since(start), err)
		return nil, fmt.Errorf("failed to compose state: %w", err)
	}
	rt.recordProviderAccesses(state)

	execution, err := rt.executePlan(ctx, msg, state, callback, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan execution failed")
		rt.obs.GetMetrics().RecordMessage(ctx, time.Since(start), err)
		return nil, err
	}

	response := rt.buildResponse(ctx, msg, state, execution)
	responseMem := &types.Memory{
		EntityID: rt.agentID,
		AgentID:  rt.agentID,
		RoomID:   msg.RoomID,
		WorldID:  msg.WorldID,
		Content:  response,
		Metadata: &types.MemoryMetadata{Type: types.MemoryTypeMessage},
	}
	if err := rt.memories.Create(ctx, responseMem, ""); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		rt.obs.GetMetrics().RecordMessage(ctx, time.Since(start), err)
		return nil, fmt.Errorf("failed to persist response: %w", err)
	}
	rt.emit(EventResponseEmitted, responseMem)

	result := &MessageResult{
		Text:        response.Text,
		Thought:     response.Thought,
		Actions:     response.Actions,
		Attachments: response.Attachments,
		ResponseID:  responseMem.ID,
	}
	if callback != nil {
		if err := callback(response); err != nil {
			rt.logger.Warn("connector callback failed", "error", err)
			result.Error = err.Error()
		}
	}

	// Evaluators run after all memory writes for the turn, off the room
	// queue so they never block the next message.
	responses := []*types.Memory{responseMem}
	evalCtx := context.WithoutCancel(ctx)
	go func() {
		names := rt.evaluators.Run(evalCtx, msg, state, responses)
		rt.emit(EventEvaluatorsCompleted, names)
	}()

	rt.obs.GetMetrics().RecordMessage(ctx, time.Since(start), nil)
	return result, nil
}

// executePlan builds the plan (bypass or model planning) and runs it.
func (rt *AgentRuntime) executePlan(ctx context.Context, msg *types.Memory, state *types.State, callback Callback, responses []*types.Memory) (*action.ExecutionResult, error) {
	plan, err := rt.buildPlan(ctx, msg, state)
	if err != nil {
		return nil, err
	}
	if plan == nil || len(plan.Steps) == 0 {
		return &action.ExecutionResult{State: state.Clone()}, nil
	}

	var cb action.Callback
	if callback != nil {
		cb = func(content types.Content) error { return callback(content) }
	}
	return rt.executor.Execute(ctx, plan, msg, state, cb, responses)
}

// buildPlan prefers the bypass path: explicit actions on the message skip
// the planning model entirely.
func (rt *AgentRuntime) buildPlan(ctx context.Context, msg *types.Memory, state *types.State) (*action.Plan, error) {
	if len(msg.Content.Actions) > 0 {
		return action.PlanFromContent(&msg.Content), nil
	}
	if !rt.character.AdvancedPlanning {
		return nil, nil
	}
	if len(rt.actions.List()) == 0 || !rt.models.Has(model.TextLarge) {
		return nil, nil
	}

	plan, err := rt.planner.Plan(ctx, msg, state)
	if err != nil {
		// A planning failure degrades to a plain response turn.
		rt.logger.Warn("action planning failed", "error", err)
		return nil, nil
	}
	return plan, nil
}

// ProcessActions runs the message's plan against the registered actions,
// then appends a response memory recording the executed action names.
func (rt *AgentRuntime) ProcessActions(ctx context.Context, msg *types.Memory, responses []*types.Memory, state *types.State, callback Callback) (*action.ExecutionResult, error) {
	if state == nil {
		var err error
		state, err = rt.ComposeState(ctx, msg, msg.Content.Providers, nil)
		if err != nil {
			return nil, err
		}
	}

	execution, err := rt.executePlan(ctx, msg, state, callback, responses)
	if err != nil {
		return nil, err
	}

	if len(execution.ExecutedActions) > 0 {
		mem := &types.Memory{
			EntityID: rt.agentID,
			AgentID:  rt.agentID,
			RoomID:   msg.RoomID,
			Content: types.Content{
				Actions:   execution.ExecutedActions,
				InReplyTo: &msg.ID,
			},
			Metadata: &types.MemoryMetadata{Type: types.MemoryTypeAction},
		}
		if err := rt.memories.Create(ctx, mem, ""); err != nil {
			return nil, fmt.Errorf("failed to persist action result: %w", err)
		}
	}
	return execution, nil
}

// buildResponse assembles the response content from the execution result,
// falling back to a direct model call when no action produced text.
func (rt *AgentRuntime) buildResponse(ctx context.Context, msg *types.Memory, state *types.State, execution *action.ExecutionResult) types.Content {
	var texts []string
	for _, step := range execution.Steps {
		if step.Status == action.StepCompleted && step.Result != nil && step.Result.Text != "" {
			texts = append(texts, step.Result.Text)
		}
	}

	response := types.Content{
		Text:      strings.Join(texts, "\n"),
		Actions:   execution.ExecutedActions,
		InReplyTo: &msg.ID,
	}

	if response.Text == "" && len(execution.ExecutedActions) == 0 && rt.models.Has(model.TextLarge) {
		prompt := rt.responsePrompt(state, msg)
		callStart := time.Now()
		out, err := rt.UseModel(ctx, model.TextLarge, map[string]any{"prompt": prompt})
		if err != nil {
			rt.logger.Warn("response generation failed", "error", err)
		} else if text, ok := out.(string); ok {
			response.Text = text
			latency := time.Since(callStart).Milliseconds()
			if err := rt.trajectories.RecordLLMCall(rt.trajectoryID, trajectory.LLMCall{
				Model:      string(model.TextLarge),
				UserPrompt: prompt,
				Response:   text,
				LatencyMS:  &latency,
				Purpose:    trajectory.PurposeResponse,
			}); err != nil {
				rt.logger.Debug("llm call not recorded", "error", err)
			}
		}
	}
	return response
}

func (rt *AgentRuntime) responsePrompt(state *types.State, msg *types.Memory) string {
	var b strings.Builder
	if rt.character.System != "" {
		b.WriteString(rt.character.System)
		b.WriteString("\n\n")
	}
	if state.Text != "" {
		b.WriteString(state.Text)
		b.WriteString("\n\n")
	}
	b.WriteString(msg.Content.Text)
	return b.String()
}

// recordProviderAccesses mirrors the composed providers into the open
// trajectory step.
func (rt *AgentRuntime) recordProviderAccesses(state *types.State) {
	byProvider, ok := state.Data["providers"].(map[string]*provider.Result)
	if !ok {
		return
	}
	for name, result := range byProvider {
		if err := rt.trajectories.RecordProviderAccess(rt.trajectoryID, trajectory.ProviderAccess{
			ProviderID:   name,
			ProviderName: name,
			Data:         result.Values,
			Purpose:      trajectory.PurposeReasoning,
		}); err != nil {
			rt.logger.Debug("provider access not recorded", "provider", name, "error", err)
		}
	}
}

// onStepStart is the executor observer emitting ACTION_STARTED.
func (rt *AgentRuntime) onStepStart(step *action.Step, result *action.StepResult) {
	rt.stepStarts.Store(step.ID, time.Now())
	rt.emit(EventActionStarted, step)
}

// onStepFinish emits ACTION_COMPLETED and records metrics and the
// trajectory action attempt.
func (rt *AgentRuntime) onStepFinish(step *action.Step, result *action.StepResult) {
	var duration time.Duration
	if v, ok := rt.stepStarts.LoadAndDelete(step.ID); ok {
		duration = time.Since(v.(time.Time))
	}

	var execErr error
	success := result.Status == action.StepCompleted
	attempt := trajectory.ActionAttempt{
		ActionType: "action",
		ActionName: step.Action,
		Parameters: step.Params,
		Success:    success,
	}
	if result.Result != nil {
		attempt.Result = result.Result.Values
		attempt.Error = result.Result.Error
		attempt.ImmediateReward = result.Result.Reward
		if result.Result.Error != "" {
			execErr = fmt.Errorf("%s", result.Result.Error)
		}
	}
	if err := rt.trajectories.RecordAction(rt.trajectoryID, attempt); err != nil {
		rt.logger.Debug("action attempt not recorded", "error", err)
	}

	rt.obs.GetMetrics().RecordAction(context.Background(), step.Action, duration, execErr)
	rt.emit(EventActionCompleted, result)
}
