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

// Package plugin defines the unit of extension for the agent runtime. A
// plugin bundles actions, providers, evaluators, services, and model
// handlers, plus an init hook that receives the runtime.
package plugin

import (
	"context"
	"fmt"

	"github.com/elizaos/eliza-go/pkg/action"
	"github.com/elizaos/eliza-go/pkg/evaluator"
	"github.com/elizaos/eliza-go/pkg/model"
	"github.com/elizaos/eliza-go/pkg/provider"
	"github.com/elizaos/eliza-go/pkg/service"
)

// ErrCircularDependency is returned when the plugin graph has a cycle.
var ErrCircularDependency = fmt.Errorf("circular dependency")

// Runtime is the slice of the agent runtime handed to plugin init hooks.
// Plugins may keep a back reference but must not own the runtime lifecycle.
type Runtime interface {
	AgentName() string
	GetSetting(key string) any
	SetSetting(key string, value any, secret bool)
	UseModel(ctx context.Context, modelType model.ModelType, params map[string]any) (any, error)
	GetService(serviceType string) service.Service
}

// InitFunc runs once during runtime initialization, after the plugin's
// capabilities are registered.
type InitFunc func(ctx context.Context, rt Runtime) error

// ModelRegistration binds a handler to a model type with routing metadata.
type ModelRegistration struct {
	Type     model.ModelType
	Provider string
	Priority int
	Handler  model.HandlerFunc
}

// Plugin is a named bundle of capabilities. Dependencies name other plugins
// that must initialize first.
type Plugin struct {
	Name         string
	Description  string
	Config       map[string]any
	Dependencies []string

	Actions    []*action.Action
	Providers  []*provider.Provider
	Evaluators []*evaluator.Evaluator
	Services   []service.Service
	Models     []ModelRegistration

	Init InitFunc

	// CoreDocs and AllDocs are embedded JSON blobs of canonical action and
	// evaluator documentation, keyed by entity name. See docs.go.
	CoreDocs []byte
	AllDocs  []byte
}

func (p *Plugin) Validate() error {
	if p == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	if p.Name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	for _, dep := range p.Dependencies {
		if dep == p.Name {
			return fmt.Errorf("plugin '%s' cannot depend on itself", p.Name)
		}
	}
	return nil
}

// ResolveDependencies orders plugins so every plugin appears after the
// dependencies present in the input set. Dependencies naming plugins outside
// the set are assumed satisfied out-of-band and ignored. Ties are broken by
// input order.
func ResolveDependencies(plugins []*Plugin) ([]*Plugin, error) {
	byName := make(map[string]*Plugin, len(plugins))
	for _, p := range plugins {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byName[p.Name]; exists {
			return nil, fmt.Errorf("duplicate plugin name '%s'", p.Name)
		}
		byName[p.Name] = p
	}

	const (
		white = iota // unvisited
		grey         // on the current DFS path
		black        // done
	)
	marks := make(map[string]int, len(plugins))
	ordered := make([]*Plugin, 0, len(plugins))

	var visit func(p *Plugin, path []string) error
	visit = func(p *Plugin, path []string) error {
		switch marks[p.Name] {
		case black:
			return nil
		case grey:
			return fmt.Errorf("%w: %s", ErrCircularDependency, joinPath(append(path, p.Name)))
		}
		marks[p.Name] = grey
		for _, dep := range p.Dependencies {
			target, present := byName[dep]
			if !present {
				continue
			}
			if err := visit(target, append(path, p.Name)); err != nil {
				return err
			}
		}
		marks[p.Name] = black
		ordered = append(ordered, p)
		return nil
	}

	for _, p := range plugins {
		if err := visit(p, nil); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

func joinPath(path []string) string {
	out := ""
	for i, name := range path {
		if i > 0 {
			out += " -> "
		}
		out += name
	}
	return out
}
