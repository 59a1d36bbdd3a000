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

package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrNoModelHandler is returned when no handler is registered for the
// requested model type.
var ErrNoModelHandler = errors.New("no model handler registered")

// Dispatcher routes UseModel calls to the highest-priority handler for a
// model type, falling through to the next handler on error. Handlers are
// registered during plugin init and fixed for the life of the runtime.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[ModelType][]Handler
	logger   *slog.Logger
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[ModelType][]Handler),
		logger:   slog.Default(),
	}
}

// Register adds a handler for the model type. Registration order is the
// tie-break for equal priorities.
func (d *Dispatcher) Register(modelType ModelType, fn HandlerFunc, provider string, priority int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[modelType] = append(d.handlers[modelType], Handler{
		ModelType: modelType,
		Provider:  provider,
		Priority:  priority,
		Fn:        fn,
	})
	// Stable sort keeps registration order for equal priorities.
	sort.SliceStable(d.handlers[modelType], func(i, j int) bool {
		return d.handlers[modelType][i].Priority > d.handlers[modelType][j].Priority
	})
}

// Handlers returns the registered handlers for a model type in dispatch
// order.
func (d *Dispatcher) Handlers(modelType ModelType) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Handler, len(d.handlers[modelType]))
	copy(out, d.handlers[modelType])
	return out
}

// Has reports whether any handler is registered for the model type.
func (d *Dispatcher) Has(modelType ModelType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[modelType]) > 0
}

// UseModel dispatches the call. Parameters pass through unchanged. On
// handler error the dispatcher falls through to the next-highest priority
// handler; it never retries the same handler. When every handler fails the
// last error is surfaced.
func (d *Dispatcher) UseModel(ctx context.Context, modelType ModelType, params map[string]any) (any, error) {
	handlers := d.Handlers(modelType)
	if len(handlers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoModelHandler, modelType)
	}

	var lastErr error
	for _, h := range handlers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result, err := h.Fn(ctx, params)
		if err == nil {
			return result, nil
		}
		lastErr = err
		d.logger.Warn("model handler failed, falling back",
			"model_type", modelType,
			"provider", h.Provider,
			"priority", h.Priority,
			"error", err)
	}

	return nil, fmt.Errorf("all handlers failed for %s: %w", modelType, lastErr)
}
