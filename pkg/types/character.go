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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCharacter is returned when a character definition fails
// validation.
var ErrInvalidCharacter = errors.New("invalid character")

// StringOrList accepts either a single string or a list of strings in JSON
// and YAML, normalizing to a list.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = list
	return nil
}

func (s *StringOrList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = list
	return nil
}

// KnowledgeItem is either a bare string, a file path entry or a directory
// entry. Exactly one of Text, Path or Directory is set.
type KnowledgeItem struct {
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`
	Shared    bool   `json:"shared,omitempty" yaml:"shared,omitempty"`
}

func (k *KnowledgeItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*k = KnowledgeItem{Text: text}
		return nil
	}
	type raw KnowledgeItem
	var item raw
	if err := json.Unmarshal(data, &item); err != nil {
		return fmt.Errorf("expected string or knowledge object: %w", err)
	}
	*k = KnowledgeItem(item)
	return nil
}

func (k *KnowledgeItem) UnmarshalYAML(unmarshal func(any) error) error {
	var text string
	if err := unmarshal(&text); err == nil {
		*k = KnowledgeItem{Text: text}
		return nil
	}
	type raw KnowledgeItem
	var item raw
	if err := unmarshal(&item); err != nil {
		return fmt.Errorf("expected string or knowledge object: %w", err)
	}
	*k = KnowledgeItem(item)
	return nil
}

// MessageExample is one turn of an example conversation used for prompting.
type MessageExample struct {
	Name    string  `json:"name" yaml:"name"`
	Content Content `json:"content" yaml:"content"`
}

// Style holds writing-style directions per channel kind.
type Style struct {
	All  []string `json:"all,omitempty" yaml:"all,omitempty"`
	Chat []string `json:"chat,omitempty" yaml:"chat,omitempty"`
	Post []string `json:"post,omitempty" yaml:"post,omitempty"`
}

// Character defines an agent's identity and configuration. Unknown top-level
// keys are rejected at decode time by the config loader.
type Character struct {
	ID               *uuid.UUID          `json:"id,omitempty" yaml:"id,omitempty"`
	Name             string              `json:"name" yaml:"name"`
	Bio              StringOrList        `json:"bio,omitempty" yaml:"bio,omitempty"`
	System           string              `json:"system,omitempty" yaml:"system,omitempty"`
	Templates        map[string]string   `json:"templates,omitempty" yaml:"templates,omitempty"`
	MessageExamples  [][]MessageExample  `json:"messageExamples,omitempty" yaml:"message_examples,omitempty"`
	PostExamples     []string            `json:"postExamples,omitempty" yaml:"post_examples,omitempty"`
	Topics           []string            `json:"topics,omitempty" yaml:"topics,omitempty"`
	Adjectives       []string            `json:"adjectives,omitempty" yaml:"adjectives,omitempty"`
	Knowledge        []KnowledgeItem     `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Plugins          []string            `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Settings         map[string]any      `json:"settings,omitempty" yaml:"settings,omitempty"`
	Secrets          map[string]any      `json:"secrets,omitempty" yaml:"secrets,omitempty"`
	Style            *Style              `json:"style,omitempty" yaml:"style,omitempty"`
	AdvancedPlanning bool                `json:"advancedPlanning,omitempty" yaml:"advanced_planning,omitempty"`
	AdvancedMemory   bool                `json:"advancedMemory,omitempty" yaml:"advanced_memory,omitempty"`
}

// Validate checks the character definition for structural problems.
func (c *Character) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: character is nil", ErrInvalidCharacter)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCharacter)
	}
	for i, item := range c.Knowledge {
		set := 0
		if item.Text != "" {
			set++
		}
		if item.Path != "" {
			set++
		}
		if item.Directory != "" {
			set++
		}
		if set != 1 {
			return fmt.Errorf("%w: knowledge[%d] must set exactly one of text, path or directory", ErrInvalidCharacter, i)
		}
	}
	for name, tmpl := range c.Templates {
		if tmpl == "" {
			return fmt.Errorf("%w: template %q is empty", ErrInvalidCharacter, name)
		}
	}
	return nil
}

// AgentStatus is the lifecycle state of an agent.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
)

// Agent extends Character with runtime bookkeeping.
type Agent struct {
	Character `yaml:",inline"`

	Enabled   bool        `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Status    AgentStatus `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt time.Time   `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" yaml:"updated_at"`
}
