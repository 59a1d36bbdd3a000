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

// Package evaluator runs post-response hooks that examine a completed turn
// and may write reflections or extracted facts.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/elizaos/eliza-go/pkg/registry"
	"github.com/elizaos/eliza-go/pkg/types"
)

// ValidateFunc decides whether the evaluator applies to the completed turn.
type ValidateFunc func(ctx context.Context, msg *types.Memory, state *types.State) (bool, error)

// HandlerFunc runs the evaluator. responses holds the turn's response
// memories; evaluators must not modify them.
type HandlerFunc func(ctx context.Context, msg *types.Memory, state *types.State, responses []*types.Memory) error

// Evaluator is a post-response hook.
type Evaluator struct {
	Name        string
	Description string
	Similes     []string
	Examples    []string
	Validate    ValidateFunc
	Handler     HandlerFunc
	AlwaysRun   bool
}

// maxConcurrent bounds the evaluator fan-out per turn.
const maxConcurrent = 4

// Runner fans evaluators out after the response is emitted. Evaluator
// failures never affect the response; they are logged and dropped.
type Runner struct {
	evaluators *registry.BaseRegistry[*Evaluator]
	logger     *slog.Logger
}

func NewRunner() *Runner {
	return &Runner{
		evaluators: registry.NewBaseRegistry[*Evaluator](),
		logger:     slog.Default(),
	}
}

// Register adds an evaluator. A duplicate name replaces the earlier
// registration with a warning.
func (r *Runner) Register(e *Evaluator) error {
	if e == nil || e.Name == "" {
		return fmt.Errorf("evaluator name cannot be empty")
	}
	if e.Handler == nil {
		return fmt.Errorf("evaluator '%s' has no handler", e.Name)
	}
	if replaced := r.evaluators.Replace(e.Name, e); replaced {
		r.logger.Warn("evaluator already registered, replacing", "evaluator", e.Name)
	}
	return nil
}

// Get returns a registered evaluator by name.
func (r *Runner) Get(name string) (*Evaluator, bool) {
	return r.evaluators.Get(name)
}

// List returns evaluators in registration order.
func (r *Runner) List() []*Evaluator {
	return r.evaluators.List()
}

// Run executes all applicable evaluators over the completed turn and
// returns the names of those that ran. An evaluator runs when its Validate
// returns true or when AlwaysRun is set.
func (r *Runner) Run(ctx context.Context, msg *types.Memory, state *types.State, responses []*types.Memory) []string {
	var selected []*Evaluator
	for _, e := range r.evaluators.List() {
		if e.AlwaysRun {
			selected = append(selected, e)
			continue
		}
		if e.Validate == nil {
			continue
		}
		ok, err := e.Validate(ctx, msg, state)
		if err != nil {
			r.logger.Warn("evaluator validate failed", "evaluator", e.Name, "error", err)
			continue
		}
		if ok {
			selected = append(selected, e)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, e := range selected {
		g.Go(func() error {
			if err := e.Handler(gctx, msg, state, responses); err != nil {
				r.logger.Warn("evaluator failed", "evaluator", e.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, len(selected))
	for i, e := range selected {
		names[i] = e.Name
	}
	return names
}
