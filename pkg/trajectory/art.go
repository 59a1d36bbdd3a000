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

package trajectory

import "sort"

// ARTRecord is the message-list + reward shape handed to external trainers.
type ARTRecord struct {
	Messages []ChatMessage  `json:"messages"`
	Reward   float64        `json:"reward"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Metrics  map[string]any `json:"metrics,omitempty"`
}

// Group collapses trajectories that share a scenario.
type Group struct {
	ScenarioID   string        `json:"scenario_id"`
	Trajectories []*Trajectory `json:"trajectories"`
	SharedPrefix []ChatMessage `json:"shared_prefix"`
}

// ToARTMessages renders a trajectory as a flat chat transcript. The first
// system prompt seen opens the conversation; each LLM call contributes its
// explicit message list when present, otherwise its user prompt and
// response.
func ToARTMessages(t *Trajectory) []ChatMessage {
	var out []ChatMessage
	systemEmitted := false
	for _, step := range t.Steps {
		for _, call := range step.LLMCalls {
			if !systemEmitted && call.SystemPrompt != "" {
				out = append(out, ChatMessage{Role: "system", Content: call.SystemPrompt})
				systemEmitted = true
			}
			if len(call.Messages) > 0 {
				out = append(out, call.Messages...)
			} else if call.UserPrompt != "" {
				out = append(out, ChatMessage{Role: "user", Content: call.UserPrompt})
			}
			if call.Response != "" {
				out = append(out, ChatMessage{Role: "assistant", Content: call.Response})
			}
		}
	}
	return out
}

// ToART renders a trajectory as an ART record.
func ToART(t *Trajectory) *ARTRecord {
	return &ARTRecord{
		Messages: ToARTMessages(t),
		Reward:   t.TotalReward,
		Metadata: t.Metadata,
		Metrics:  t.Metrics,
	}
}

// GroupTrajectories collapses trajectories by scenario_id. Trajectories
// without a scenario each form their own group. Each group's SharedPrefix
// is the longest common prefix of its members' rendered message lists.
func GroupTrajectories(trajectories []*Trajectory) []*Group {
	byScenario := make(map[string][]*Trajectory)
	var order []string
	for _, t := range trajectories {
		key := t.ScenarioID
		if key == "" {
			key = t.TrajectoryID.String()
		}
		if _, seen := byScenario[key]; !seen {
			order = append(order, key)
		}
		byScenario[key] = append(byScenario[key], t)
	}

	groups := make([]*Group, 0, len(order))
	for _, key := range order {
		members := byScenario[key]
		scenarioID := members[0].ScenarioID
		g := &Group{ScenarioID: scenarioID, Trajectories: members}

		messageLists := make([][]ChatMessage, len(members))
		for i, t := range members {
			messageLists[i] = ToARTMessages(t)
		}
		g.SharedPrefix = longestCommonPrefix(messageLists)

		// Stable group indexes for trainers that shard by position.
		for i, t := range members {
			idx := i
			t.GroupIndex = &idx
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Trajectories) > len(groups[j].Trajectories)
	})
	return groups
}

func longestCommonPrefix(lists [][]ChatMessage) []ChatMessage {
	if len(lists) == 0 {
		return nil
	}
	prefix := lists[0]
	for _, list := range lists[1:] {
		max := len(prefix)
		if len(list) < max {
			max = len(list)
		}
		i := 0
		for i < max && prefix[i] == list[i] {
			i++
		}
		prefix = prefix[:i]
		if len(prefix) == 0 {
			return nil
		}
	}
	return prefix
}
