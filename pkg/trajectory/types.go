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

// Package trajectory records what the agent did during an episode: model
// calls, provider accesses, and action attempts, grouped into ordered steps.
// Completed trajectories are flushed as JSONL and can be rendered as ART
// records for downstream trainers.
package trajectory

import (
	"time"

	"github.com/google/uuid"
)

// Purpose classifies why an LLM call was made within a step.
type Purpose string

const (
	PurposeAction     Purpose = "action"
	PurposeReasoning  Purpose = "reasoning"
	PurposeEvaluation Purpose = "evaluation"
	PurposeResponse   Purpose = "response"
	PurposeOther      Purpose = "other"
)

// Status marks how a trajectory ended.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusAbandoned Status = "abandoned"
)

// ChatMessage is one turn of a rendered conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMCall records a single model invocation.
type LLMCall struct {
	CallID           string        `json:"call_id"`
	Timestamp        time.Time     `json:"timestamp"`
	Model            string        `json:"model"`
	SystemPrompt     string        `json:"system_prompt,omitempty"`
	UserPrompt       string        `json:"user_prompt,omitempty"`
	Messages         []ChatMessage `json:"messages,omitempty"`
	Response         string        `json:"response"`
	Temperature      float64       `json:"temperature,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	PromptTokens     *int          `json:"prompt_tokens,omitempty"`
	CompletionTokens *int          `json:"completion_tokens,omitempty"`
	LatencyMS        *int64        `json:"latency_ms,omitempty"`
	Purpose          Purpose       `json:"purpose"`
	ActionType       string        `json:"action_type,omitempty"`
}

// ProviderAccess records one provider fetch made while composing state.
type ProviderAccess struct {
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	Query        string  `json:"query,omitempty"`
	Data         any     `json:"data"`
	Purpose      Purpose `json:"purpose"`
}

// ActionAttempt records the single action taken in a step.
type ActionAttempt struct {
	ActionType      string         `json:"action_type"`
	ActionName      string         `json:"action_name"`
	Parameters      map[string]any `json:"parameters,omitempty"`
	Reasoning       string         `json:"reasoning,omitempty"`
	LLMCallID       string         `json:"llm_call_id,omitempty"`
	Success         bool           `json:"success"`
	Result          any            `json:"result,omitempty"`
	Error           string         `json:"error,omitempty"`
	ImmediateReward *float64       `json:"immediate_reward,omitempty"`
}

// Step is one decision point inside a trajectory.
type Step struct {
	StepID            uuid.UUID        `json:"step_id"`
	StepNumber        int              `json:"step_number"`
	Timestamp         time.Time        `json:"timestamp"`
	EnvironmentState  map[string]any   `json:"environment_state,omitempty"`
	Observation       string           `json:"observation,omitempty"`
	LLMCalls          []LLMCall        `json:"llm_calls"`
	ProviderAccesses  []ProviderAccess `json:"provider_accesses"`
	Reasoning         string           `json:"reasoning,omitempty"`
	Action            *ActionAttempt   `json:"action,omitempty"`
	Reward            float64          `json:"reward"`
	Done              bool             `json:"done"`
	Metadata          map[string]any   `json:"metadata,omitempty"`
	completed         bool
}

// RewardComponents breaks the total reward down by source.
type RewardComponents struct {
	EnvironmentReward float64            `json:"environment_reward"`
	AIJudgeReward     *float64           `json:"ai_judge_reward,omitempty"`
	Components        map[string]float64 `json:"components,omitempty"`
	JudgeReasoning    string             `json:"judge_reasoning,omitempty"`
	JudgeModel        string             `json:"judge_model,omitempty"`
}

// Trajectory is one recorded episode.
type Trajectory struct {
	TrajectoryID     uuid.UUID        `json:"trajectory_id"`
	AgentID          uuid.UUID        `json:"agent_id"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time,omitempty"`
	DurationMS       int64            `json:"duration_ms"`
	EpisodeID        string           `json:"episode_id,omitempty"`
	ScenarioID       string           `json:"scenario_id,omitempty"`
	BatchID          string           `json:"batch_id,omitempty"`
	GroupIndex       *int             `json:"group_index,omitempty"`
	Steps            []*Step          `json:"steps"`
	TotalReward      float64          `json:"total_reward"`
	RewardComponents RewardComponents `json:"reward_components"`
	Metrics          map[string]any   `json:"metrics,omitempty"`
	Metadata         map[string]any   `json:"metadata,omitempty"`
}
