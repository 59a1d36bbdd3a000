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

// Package service manages long-lived singletons keyed by service type,
// started at runtime initialization and stopped at teardown.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Runtime is the slice of the agent runtime visible to services at start.
type Runtime interface {
	GetSetting(key string) any
	AgentName() string
}

// Service is a long-lived singleton. One instance per service type exists
// per runtime.
type Service interface {
	Type() string
	Start(ctx context.Context, rt Runtime) error
	Stop(ctx context.Context) error
}

// stopTimeout bounds how long teardown waits for a single service.
const stopTimeout = 10 * time.Second

// Manager starts services in registration order and stops them in reverse.
type Manager struct {
	mu       sync.RWMutex
	services map[string]Service
	order    []string
	started  []string
	logger   *slog.Logger
}

func NewManager() *Manager {
	return &Manager{
		services: make(map[string]Service),
		logger:   slog.Default(),
	}
}

// Register adds a service class. Only one instance per service type is
// allowed.
func (m *Manager) Register(s Service) error {
	if s == nil || s.Type() == "" {
		return fmt.Errorf("service type cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.services[s.Type()]; exists {
		return fmt.Errorf("service '%s' already registered", s.Type())
	}
	m.services[s.Type()] = s
	m.order = append(m.order, s.Type())
	return nil
}

// Get returns the singleton for a service type, or nil.
func (m *Manager) Get(serviceType string) Service {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.services[serviceType]
}

// Types returns registered service types in registration order.
func (m *Manager) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Start starts every registered service in registration order. The first
// failure aborts initialization; already started services are stopped.
func (m *Manager) Start(ctx context.Context, rt Runtime) error {
	m.mu.RLock()
	order := make([]string, len(m.order))
	copy(order, m.order)
	m.mu.RUnlock()

	for _, serviceType := range order {
		s := m.Get(serviceType)
		if err := s.Start(ctx, rt); err != nil {
			m.Stop(ctx)
			return fmt.Errorf("failed to start service '%s': %w", serviceType, err)
		}
		m.mu.Lock()
		m.started = append(m.started, serviceType)
		m.mu.Unlock()
		m.logger.Debug("service started", "service_type", serviceType)
	}
	return nil
}

// Stop stops started services in reverse start order. Each stop gets a
// bounded wait; failures are logged and do not block other teardowns.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	started := m.started
	m.started = nil
	m.mu.Unlock()

	for i := len(started) - 1; i >= 0; i-- {
		s := m.Get(started[i])
		if s == nil {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		if err := s.Stop(stopCtx); err != nil {
			m.logger.Warn("service stop failed", "service_type", started[i], "error", err)
		}
		cancel()
	}
}
