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

// Package action defines the named, parameterized operations an agent can
// execute, the planner that turns an LLM response into an ordered plan, and
// the executor that runs the plan honoring dependencies and retries.
package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elizaos/eliza-go/pkg/registry"
	"github.com/elizaos/eliza-go/pkg/types"
)

// ValidateFunc decides whether an action applies to the current message.
type ValidateFunc func(ctx context.Context, msg *types.Memory, state *types.State) (bool, error)

// Callback lets the action echo content back to the connector mid-plan.
type Callback func(content types.Content) error

// HandlerOptions carries the validated parameters for one invocation.
type HandlerOptions struct {
	Parameters map[string]any
}

// HandlerFunc executes the action. responses holds the response memories
// accumulated so far in this turn.
type HandlerFunc func(ctx context.Context, msg *types.Memory, state *types.State, opts *HandlerOptions, callback Callback, responses []*types.Memory) (*Result, error)

// Result is the outcome of a single action invocation. Values and Data are
// threaded into the working state that subsequent steps observe.
type Result struct {
	Success bool           `json:"success"`
	Text    string         `json:"text,omitempty"`
	Values  map[string]any `json:"values,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Reward  *float64       `json:"reward,omitempty"`
}

// Parameter declares one named action parameter with its schema.
type Parameter struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Action is a named operation the agent can choose to execute.
type Action struct {
	Name        string
	Description string
	Similes     []string
	Parameters  []Parameter
	Validate    ValidateFunc
	Handler     HandlerFunc
	Examples    [][]types.MessageExample
}

// Catalog is the runtime's action table. Duplicate registration replaces
// the earlier action with a warning.
type Catalog struct {
	*registry.BaseRegistry[*Action]
	logger *slog.Logger
}

func NewCatalog() *Catalog {
	return &Catalog{
		BaseRegistry: registry.NewBaseRegistry[*Action](),
		logger:       slog.Default(),
	}
}

func (c *Catalog) RegisterAction(a *Action) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("action name cannot be empty")
	}
	if a.Handler == nil {
		return fmt.Errorf("action '%s' has no handler", a.Name)
	}
	if replaced := c.Replace(a.Name, a); replaced {
		c.logger.Warn("action already registered, replacing", "action", a.Name)
	}
	return nil
}
