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

package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/elizaos/eliza-go/pkg/action"
)

// docEntry is one canonical documentation record, keyed by entity name in
// the plugin's doc blobs.
type docEntry struct {
	Description string             `mapstructure:"description"`
	Similes     []string           `mapstructure:"similes"`
	Parameters  []action.Parameter `mapstructure:"parameters"`
	Examples    []string           `mapstructure:"examples"`
}

// docSet holds the decoded doc blobs. Core docs take precedence over the
// broader catalog when both define the same entity.
type docSet struct {
	core map[string]docEntry
	all  map[string]docEntry
}

func decodeDocs(blob []byte) (map[string]docEntry, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var raw map[string]map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse doc blob: %w", err)
	}
	out := make(map[string]docEntry, len(raw))
	for name, fields := range raw {
		var entry docEntry
		if err := mapstructure.Decode(fields, &entry); err != nil {
			return nil, fmt.Errorf("bad doc entry '%s': %w", name, err)
		}
		out[name] = entry
	}
	return out, nil
}

func newDocSet(p *Plugin) (*docSet, error) {
	core, err := decodeDocs(p.CoreDocs)
	if err != nil {
		return nil, err
	}
	all, err := decodeDocs(p.AllDocs)
	if err != nil {
		return nil, err
	}
	if core == nil && all == nil {
		return nil, nil
	}
	return &docSet{core: core, all: all}, nil
}

func (d *docSet) lookup(name string) (docEntry, bool) {
	if entry, ok := d.core[name]; ok {
		return entry, true
	}
	entry, ok := d.all[name]
	return entry, ok
}

// MergeDocs fills missing documentation fields on the plugin's actions and
// evaluators from its doc blobs. Fields already set by the author are never
// overwritten.
func MergeDocs(p *Plugin) error {
	docs, err := newDocSet(p)
	if err != nil {
		return err
	}
	if docs == nil {
		return nil
	}

	for _, a := range p.Actions {
		entry, ok := docs.lookup(a.Name)
		if !ok {
			continue
		}
		if a.Description == "" {
			a.Description = entry.Description
		}
		if len(a.Similes) == 0 {
			a.Similes = entry.Similes
		}
		if len(a.Parameters) == 0 {
			a.Parameters = entry.Parameters
		}
	}

	for _, e := range p.Evaluators {
		entry, ok := docs.lookup(e.Name)
		if !ok {
			continue
		}
		if e.Description == "" {
			e.Description = entry.Description
		}
		if len(e.Similes) == 0 {
			e.Similes = entry.Similes
		}
		if len(e.Examples) == 0 {
			e.Examples = entry.Examples
		}
	}
	return nil
}
