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

// Package types defines the primitive data model shared by the runtime and
// its plugins: identifiers, message content, memories, agent identity and
// per-turn state.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidUUID is returned when a string is not a valid UUID.
var ErrInvalidUUID = errors.New("invalid uuid")

// NewUUID returns a fresh random (v4) identifier.
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a UUID from its canonical lowercase hyphenated form.
// Uppercase input is accepted and normalized.
func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, s)
	}
	return id, nil
}

// FormatUUID renders an identifier as a lowercase hyphenated string, the
// canonical wire form used across the runtime.
func FormatUUID(id uuid.UUID) string {
	return strings.ToLower(id.String())
}
