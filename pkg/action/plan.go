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

package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/elizaos/eliza-go/pkg/types"
)

// ErrEmptyPlan is returned when a planner response contains no actions.
var ErrEmptyPlan = errors.New("plan contains no actions")

// Step is one action call inside a plan. Dependencies name the IDs of steps
// that must complete successfully before this one runs.
type Step struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	Params       map[string]any `json:"params,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
}

// Plan is an ordered list of action calls. Steps execute in the order
// given; dependencies are honored within that order.
type Plan struct {
	Steps []*Step `json:"steps"`
}

var (
	actionsBlockRe      = regexp.MustCompile(`(?s)<actions>(.*?)</actions>`)
	paramsBlockRe       = regexp.MustCompile(`(?s)<params>(.*?)</params>`)
	dependenciesBlockRe = regexp.MustCompile(`(?s)<dependencies>(.*?)</dependencies>`)
)

// ParsePlan extracts an ordered plan from an LLM planning response. The
// response must contain an <actions>[...]</actions> block; <params> and
// <dependencies> blocks are optional. Action names inside <actions> may be
// a JSON array or a bare comma-separated list.
func ParsePlan(text string) (*Plan, error) {
	match := actionsBlockRe.FindStringSubmatch(text)
	if match == nil {
		return nil, fmt.Errorf("no <actions> block in planning response")
	}

	names, err := parseActionNames(strings.TrimSpace(match[1]))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmptyPlan
	}

	params := map[string]map[string]any{}
	if m := paramsBlockRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &params); err != nil {
			return nil, fmt.Errorf("malformed <params> block: %w", err)
		}
	}

	deps := map[string][]string{}
	if m := dependenciesBlockRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &deps); err != nil {
			return nil, fmt.Errorf("malformed <dependencies> block: %w", err)
		}
	}

	return buildPlan(names, params, deps), nil
}

func parseActionNames(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err == nil {
		return names, nil
	}

	// Tolerate a bare comma-separated list, with or without brackets.
	raw = strings.Trim(raw, "[]")
	for _, part := range strings.Split(raw, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 && raw != "" {
		return nil, fmt.Errorf("unparseable <actions> block: %q", raw)
	}
	return names, nil
}

// PlanFromContent builds a bypass plan directly from a response memory's
// declared actions and params, used when LLM planning is disabled.
func PlanFromContent(content *types.Content) *Plan {
	if content == nil || len(content.Actions) == 0 {
		return &Plan{}
	}

	names := content.Actions
	params := map[string]map[string]any{}
	for name, p := range content.Params {
		params[name] = p
	}
	return buildPlan(names, params, nil)
}

func buildPlan(names []string, params map[string]map[string]any, deps map[string][]string) *Plan {
	idByAction := make(map[string]string, len(names))
	steps := make([]*Step, 0, len(names))
	for i, name := range names {
		id := fmt.Sprintf("step-%d", i+1)
		// First occurrence wins for dependency resolution by action name.
		if _, seen := idByAction[name]; !seen {
			idByAction[name] = id
		}
		steps = append(steps, &Step{
			ID:     id,
			Action: name,
			Params: params[name],
		})
	}

	for _, step := range steps {
		for _, dep := range deps[step.Action] {
			// Dependencies may reference step IDs or action names.
			if id, ok := idByAction[dep]; ok && id != step.ID {
				step.Dependencies = append(step.Dependencies, id)
				continue
			}
			step.Dependencies = append(step.Dependencies, dep)
		}
	}
	return &Plan{Steps: steps}
}
