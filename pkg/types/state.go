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

// State is the read-mostly per-turn context bundle produced by the state
// composer. Actions may extend it through the values and data they return;
// the executor threads those into a working copy between steps.
type State struct {
	Values map[string]any `json:"values"`
	Data   map[string]any `json:"data"`
	Text   string         `json:"text"`
}

// NewState returns an empty state with initialized maps.
func NewState() *State {
	return &State{
		Values: make(map[string]any),
		Data:   make(map[string]any),
	}
}

// Clone returns a copy with freshly allocated top-level maps so a caller can
// extend the state without mutating the original. Nested values are shared.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	clone := &State{
		Values: make(map[string]any, len(s.Values)),
		Data:   make(map[string]any, len(s.Data)),
		Text:   s.Text,
	}
	for k, v := range s.Values {
		clone.Values[k] = v
	}
	for k, v := range s.Data {
		clone.Data[k] = v
	}
	return clone
}

// Merge shallow-merges the other state's values and data into s, with the
// other state winning on key conflicts.
func (s *State) Merge(other *State) {
	if other == nil {
		return
	}
	for k, v := range other.Values {
		s.Values[k] = v
	}
	for k, v := range other.Data {
		s.Data[k] = v
	}
}
