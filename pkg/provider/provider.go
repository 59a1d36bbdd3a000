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

// Package provider defines context providers and the state composer that
// gathers them into the per-turn State.
package provider

import (
	"context"

	"github.com/elizaos/eliza-go/pkg/types"
)

// Result is what a provider contributes to the composed state.
type Result struct {
	Text   string         `json:"text,omitempty"`
	Values map[string]any `json:"values,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// GetFunc computes a provider's contribution for one message. Providers
// scheduled later observe the state merged so far.
type GetFunc func(ctx context.Context, msg *types.Memory, state *types.State) (*Result, error)

// Provider is a pluggable context source.
//
// Private providers are excluded from automatic selection and run only when
// explicitly included by name. Dynamic providers are recomputed every turn
// and are always selected unless explicitly excluded.
type Provider struct {
	Name        string
	Description string
	Position    int
	Private     bool
	Dynamic     bool
	Get         GetFunc
}
