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

package types

import (
	"time"

	"github.com/google/uuid"
)

// Common memory metadata types.
const (
	MemoryTypeMessage    = "message"
	MemoryTypeFact       = "fact"
	MemoryTypeReflection = "reflection"
	MemoryTypeAction     = "action_result"
)

// MemoryMetadata describes the provenance of a memory. Known fields are
// typed; plugin-specific values go into Extras.
type MemoryMetadata struct {
	Type      string         `json:"type"`
	Source    string         `json:"source,omitempty"`
	SourceID  string         `json:"sourceId,omitempty"`
	Scope     string         `json:"scope,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Extras    map[string]any `json:"extras,omitempty"`
}

// Memory is a single row in the agent's memory. A memory is immutable once
// written; Similarity is populated only on search retrieval.
type Memory struct {
	ID         uuid.UUID       `json:"id,omitempty"`
	EntityID   uuid.UUID       `json:"entityId"`
	AgentID    uuid.UUID       `json:"agentId,omitempty"`
	RoomID     uuid.UUID       `json:"roomId"`
	WorldID    uuid.UUID       `json:"worldId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt,omitempty"`
	Content    Content         `json:"content"`
	Embedding  []float32       `json:"embedding,omitempty"`
	Metadata   *MemoryMetadata `json:"metadata,omitempty"`
	Unique     bool            `json:"unique,omitempty"`
	Similarity float64         `json:"similarity,omitempty"`
}
