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

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/elizaos/eliza-go/pkg/registry"
	"github.com/elizaos/eliza-go/pkg/types"
)

// Composer selects providers, dispatches their Get calls concurrently and
// merges the results into a State in deterministic position order.
type Composer struct {
	providers *registry.BaseRegistry[*Provider]
	logger    *slog.Logger
	observe   ObserveFunc

	mu    sync.Mutex
	cache map[uuid.UUID]*types.State
}

// ObserveFunc is called after every provider Get with its duration and
// outcome.
type ObserveFunc func(ctx context.Context, provider string, duration time.Duration, err error)

func NewComposer() *Composer {
	return &Composer{
		providers: registry.NewBaseRegistry[*Provider](),
		logger:    slog.Default(),
		cache:     make(map[uuid.UUID]*types.State),
	}
}

// Observe installs a hook invoked after each provider fetch.
func (c *Composer) Observe(fn ObserveFunc) {
	c.observe = fn
}

// Register adds a provider. A duplicate name replaces the earlier
// registration with a warning.
func (c *Composer) Register(p *Provider) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if p.Get == nil {
		return fmt.Errorf("provider '%s' has no get function", p.Name)
	}
	if replaced := c.providers.Replace(p.Name, p); replaced {
		c.logger.Warn("provider already registered, replacing", "provider", p.Name)
	}
	return nil
}

// Get returns a registered provider by name.
func (c *Composer) Get(name string) (*Provider, bool) {
	return c.providers.Get(name)
}

// List returns providers in registration order.
func (c *Composer) List() []*Provider {
	return c.providers.List()
}

// select picks and orders the providers for one turn:
//   - by default all non-private providers
//   - include adds private providers by name
//   - exclude removes providers by name
//   - dynamic providers are always selected unless explicitly excluded
//
// The result is sorted by ascending position, stable on registration order.
func (c *Composer) selectProviders(include, exclude []string) []*Provider {
	included := make(map[string]bool, len(include))
	for _, name := range include {
		included[name] = true
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var selected []*Provider
	for _, p := range c.providers.List() {
		if excluded[p.Name] {
			continue
		}
		if p.Private && !included[p.Name] && !p.Dynamic {
			continue
		}
		selected = append(selected, p)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Position < selected[j].Position
	})
	return selected
}

// Compose assembles the state for one message turn. Provider Get calls run
// concurrently; results merge in position-sorted order with later providers
// winning on key conflicts, so the merge is deterministic regardless of
// completion order. Providers that fail are elided and logged.
//
// The composed state is cached per message for the duration of the turn.
// Calls with explicit include or exclude lists bypass the cache.
func (c *Composer) Compose(ctx context.Context, msg *types.Memory, include, exclude []string) (*types.State, error) {
	cacheable := len(include) == 0 && len(exclude) == 0 && msg.ID != uuid.Nil
	if cacheable {
		c.mu.Lock()
		cached, ok := c.cache[msg.ID]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	selected := c.selectProviders(include, exclude)
	results := make([]*Result, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	base := types.NewState()
	for i, p := range selected {
		g.Go(func() error {
			fetchStart := time.Now()
			result, err := p.Get(gctx, msg, base)
			if c.observe != nil {
				c.observe(gctx, p.Name, time.Since(fetchStart), err)
			}
			if err != nil {
				c.logger.Warn("provider failed, eliding from state",
					"provider", p.Name, "error", err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state := types.NewState()
	byProvider := make(map[string]*Result)
	var texts []string
	for i, result := range results {
		if result == nil {
			continue
		}
		if result.Text != "" {
			texts = append(texts, result.Text)
		}
		for k, v := range result.Values {
			state.Values[k] = v
		}
		for k, v := range result.Data {
			state.Data[k] = v
		}
		byProvider[selected[i].Name] = result
	}
	state.Text = strings.Join(texts, "\n\n")
	state.Data["providers"] = byProvider

	if cacheable {
		c.mu.Lock()
		c.cache[msg.ID] = state
		c.mu.Unlock()
	}
	return state, nil
}

// Invalidate drops the cached state for a message, called when its turn
// ends.
func (c *Composer) Invalidate(msgID uuid.UUID) {
	c.mu.Lock()
	delete(c.cache, msgID)
	c.mu.Unlock()
}
