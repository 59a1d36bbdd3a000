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

// Package runtime assembles the agent: capability registries, plugin
// loading, the message pipeline, and the per-room serialization queue.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elizaos/eliza-go/pkg/action"
	"github.com/elizaos/eliza-go/pkg/evaluator"
	"github.com/elizaos/eliza-go/pkg/memory"
	"github.com/elizaos/eliza-go/pkg/model"
	"github.com/elizaos/eliza-go/pkg/observability"
	"github.com/elizaos/eliza-go/pkg/plugin"
	"github.com/elizaos/eliza-go/pkg/provider"
	"github.com/elizaos/eliza-go/pkg/service"
	"github.com/elizaos/eliza-go/pkg/settings"
	"github.com/elizaos/eliza-go/pkg/trajectory"
	"github.com/elizaos/eliza-go/pkg/types"
)

// templateActionPlanning is the character template key overriding the
// planning prompt.
const templateActionPlanning = "action_planning"

// Options configures a new runtime. Character is required; everything else
// has a working default.
type Options struct {
	Character     *types.Character
	Plugins       []*plugin.Plugin
	Settings      *settings.Store
	MemoryStore   memory.Store
	TrajectoryDir string
	Observability *observability.Manager
	RetryPolicy   *action.RetryPolicy
}

// AgentRuntime is the core of one agent. Registries are mutated only during
// Initialize; afterwards they are read-mostly and safe for concurrent use.
type AgentRuntime struct {
	agentID   uuid.UUID
	character *types.Character

	settings     *settings.Store
	actions      *action.Catalog
	composer     *provider.Composer
	evaluators   *evaluator.Runner
	services     *service.Manager
	models       *model.Dispatcher
	memories     memory.Store
	trajectories *trajectory.Logger
	obs          *observability.Manager

	planner  *action.Planner
	executor *action.Executor

	pluginMu sync.Mutex
	plugins  []*plugin.Plugin

	eventMu  sync.RWMutex
	handlers map[EventName][]EventHandler

	roomMu  sync.Mutex
	rooms   map[uuid.UUID]*roomQueue
	stopped bool

	stepStarts sync.Map

	trajectoryID uuid.UUID
	initialized  bool
	logger       *slog.Logger
}

// NewAgentRuntime creates a runtime from options. Call Initialize before
// handling messages.
func NewAgentRuntime(opts Options) (*AgentRuntime, error) {
	if opts.Character == nil {
		return nil, fmt.Errorf("character is required")
	}
	if err := opts.Character.Validate(); err != nil {
		return nil, err
	}

	store := opts.Settings
	if store == nil {
		var err error
		store, err = settings.NewStoreFromEnv()
		if err != nil {
			return nil, err
		}
	}
	store.Load(opts.Character.Settings)
	store.Load(opts.Character.Secrets)

	memStore := opts.MemoryStore
	if memStore == nil {
		memStore = memory.NewInMemoryStore()
	}

	obs := opts.Observability
	if obs == nil {
		obs = observability.NoopManager()
	}

	agentID := types.NewUUID()
	if opts.Character.ID != nil {
		agentID = *opts.Character.ID
	}

	rt := &AgentRuntime{
		agentID:      agentID,
		character:    opts.Character,
		settings:     store,
		actions:      action.NewCatalog(),
		composer:     provider.NewComposer(),
		evaluators:   evaluator.NewRunner(),
		services:     service.NewManager(),
		models:       model.NewDispatcher(),
		memories:     memStore,
		trajectories: trajectory.NewLogger(opts.TrajectoryDir),
		obs:          obs,
		handlers:     make(map[EventName][]EventHandler),
		rooms:        make(map[uuid.UUID]*roomQueue),
		logger:       slog.Default().With("agent", opts.Character.Name),
	}

	rt.composer.Observe(func(ctx context.Context, name string, duration time.Duration, err error) {
		rt.obs.GetMetrics().RecordProviderFetch(ctx, name, duration, err)
	})
	rt.executor = action.NewExecutor(rt.actions, opts.RetryPolicy)
	rt.executor.Observe(rt.onStepStart, rt.onStepFinish)
	rt.planner = action.NewPlanner(rt.actions, func(ctx context.Context, params map[string]any) (any, error) {
		return rt.UseModel(ctx, model.TextLarge, params)
	}, opts.Character.Templates[templateActionPlanning])

	for _, p := range opts.Plugins {
		if err := rt.RegisterPlugin(p); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// AgentID returns the runtime's agent identifier.
func (rt *AgentRuntime) AgentID() uuid.UUID { return rt.agentID }

// AgentName returns the character name.
func (rt *AgentRuntime) AgentName() string { return rt.character.Name }

// Character returns the agent's character definition.
func (rt *AgentRuntime) Character() *types.Character { return rt.character }

// RegisterPlugin adds a plugin before initialization.
func (rt *AgentRuntime) RegisterPlugin(p *plugin.Plugin) error {
	if err := p.Validate(); err != nil {
		return err
	}

	rt.pluginMu.Lock()
	defer rt.pluginMu.Unlock()

	if rt.initialized {
		return fmt.Errorf("cannot register plugin '%s' after initialization", p.Name)
	}
	for _, existing := range rt.plugins {
		if existing.Name == p.Name {
			return fmt.Errorf("plugin '%s' already registered", p.Name)
		}
	}
	rt.plugins = append(rt.plugins, p)
	return nil
}

// Initialize resolves plugin dependencies, registers every capability in
// dependency order, starts services, and runs plugin init hooks.
func (rt *AgentRuntime) Initialize(ctx context.Context) error {
	rt.pluginMu.Lock()
	defer rt.pluginMu.Unlock()

	if rt.initialized {
		return fmt.Errorf("runtime already initialized")
	}

	ordered, err := plugin.ResolveDependencies(rt.plugins)
	if err != nil {
		return err
	}

	for _, p := range ordered {
		if err := plugin.MergeDocs(p); err != nil {
			return fmt.Errorf("plugin '%s': %w", p.Name, err)
		}
		for _, a := range p.Actions {
			if err := rt.actions.RegisterAction(a); err != nil {
				return fmt.Errorf("plugin '%s': %w", p.Name, err)
			}
		}
		for _, pr := range p.Providers {
			if err := rt.composer.Register(pr); err != nil {
				return fmt.Errorf("plugin '%s': %w", p.Name, err)
			}
		}
		for _, e := range p.Evaluators {
			if err := rt.evaluators.Register(e); err != nil {
				return fmt.Errorf("plugin '%s': %w", p.Name, err)
			}
		}
		for _, reg := range p.Models {
			rt.models.Register(reg.Type, reg.Handler, reg.Provider, reg.Priority)
		}
		for _, s := range p.Services {
			if err := rt.services.Register(s); err != nil {
				return fmt.Errorf("plugin '%s': %w", p.Name, err)
			}
		}
		rt.logger.Debug("plugin loaded", "plugin", p.Name,
			"actions", len(p.Actions), "providers", len(p.Providers))
	}

	if err := rt.services.Start(ctx, rt); err != nil {
		return err
	}

	for _, p := range ordered {
		if p.Init == nil {
			continue
		}
		if err := p.Init(ctx, rt); err != nil {
			rt.services.Stop(ctx)
			return fmt.Errorf("plugin '%s' init failed: %w", p.Name, err)
		}
	}

	rt.trajectoryID = rt.trajectories.StartTrajectory(rt.agentID, nil)
	rt.plugins = ordered
	rt.initialized = true
	rt.logger.Info("runtime initialized", "plugins", len(ordered))
	return nil
}

// Stop tears the runtime down: room queues close and their workers drain,
// services stop in reverse order, and the open trajectory is flushed.
func (rt *AgentRuntime) Stop(ctx context.Context) {
	rt.roomMu.Lock()
	rt.stopped = true
	for id, q := range rt.rooms {
		close(q.jobs)
		delete(rt.rooms, id)
	}
	rt.roomMu.Unlock()

	rt.services.Stop(ctx)
	if rt.trajectoryID != uuid.Nil {
		if _, err := rt.trajectories.EndTrajectory(rt.trajectoryID, trajectory.StatusCompleted, nil); err != nil {
			rt.logger.Warn("failed to end trajectory", "error", err)
		}
		rt.trajectoryID = uuid.Nil
	}
	rt.trajectories.Flush()
}

// RegisterModel adds a model handler outside of plugin loading.
func (rt *AgentRuntime) RegisterModel(modelType model.ModelType, fn model.HandlerFunc, providerName string, priority int) {
	rt.models.Register(modelType, fn, providerName, priority)
}

// UseModel routes the call through the dispatcher and records metrics.
func (rt *AgentRuntime) UseModel(ctx context.Context, modelType model.ModelType, params map[string]any) (any, error) {
	start := time.Now()
	result, err := rt.models.UseModel(ctx, modelType, params)
	rt.obs.GetMetrics().RecordModelCall(ctx, string(modelType), time.Since(start), 0, 0, err)
	return result, err
}

// GetService returns the singleton for a service type, or nil.
func (rt *AgentRuntime) GetService(serviceType string) service.Service {
	return rt.services.Get(serviceType)
}

// GetSetting returns the decrypted setting value, or nil.
func (rt *AgentRuntime) GetSetting(key string) any {
	return rt.settings.Get(key)
}

// SetSetting stores a setting; secret values are encrypted at rest.
func (rt *AgentRuntime) SetSetting(key string, value any, secret bool) {
	if secret {
		if str, ok := value.(string); ok {
			if err := rt.settings.SetSecret(key, str); err != nil {
				rt.logger.Warn("failed to encrypt setting, storing plain", "key", key, "error", err)
				rt.settings.Set(key, value)
			}
			return
		}
	}
	rt.settings.Set(key, value)
}

// ComposeState assembles the per-turn state from the registered providers.
func (rt *AgentRuntime) ComposeState(ctx context.Context, msg *types.Memory, include, exclude []string) (*types.State, error) {
	return rt.composer.Compose(ctx, msg, include, exclude)
}

// CreateMemory persists a memory into a table, stamping the agent ID.
func (rt *AgentRuntime) CreateMemory(ctx context.Context, mem *types.Memory, table string) error {
	if mem.AgentID == uuid.Nil {
		mem.AgentID = rt.agentID
	}
	return rt.memories.Create(ctx, mem, table)
}

// Memories exposes the memory store.
func (rt *AgentRuntime) Memories() memory.Store { return rt.memories }

// Actions exposes the action catalog.
func (rt *AgentRuntime) Actions() *action.Catalog { return rt.actions }

// Evaluators exposes the evaluator runner.
func (rt *AgentRuntime) Evaluators() *evaluator.Runner { return rt.evaluators }

// Providers exposes the state composer.
func (rt *AgentRuntime) Providers() *provider.Composer { return rt.composer }

// Trajectories exposes the trajectory logger.
func (rt *AgentRuntime) Trajectories() *trajectory.Logger { return rt.trajectories }
