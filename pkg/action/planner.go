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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elizaos/eliza-go/pkg/types"
)

// ModelCaller dispatches a prompt to the runtime's planning model.
type ModelCaller func(ctx context.Context, params map[string]any) (any, error)

// Planner asks the planning model for an ordered set of action calls.
type Planner struct {
	catalog  *Catalog
	caller   ModelCaller
	template string
}

// NewPlanner creates a planner over the action catalog. template overrides
// the default planning prompt when non-empty; it is formatted with the
// action listing, the composed state text and the message text, in that
// order.
func NewPlanner(catalog *Catalog, caller ModelCaller, template string) *Planner {
	if template == "" {
		template = defaultPlanningTemplate
	}
	return &Planner{catalog: catalog, caller: caller, template: template}
}

const defaultPlanningTemplate = `You are planning which actions an agent should take in response to a message.

# Available actions
%s

# Context
%s

# Message
%s

Reply with the actions to execute, in order, as:
<actions>["ACTION_NAME", ...]</actions>
<params>{"ACTION_NAME": {"param": "value"}}</params>

Only use actions from the list above. Omit <params> when no action needs parameters.`

// Plan builds the planning prompt, dispatches it and parses the response.
func (p *Planner) Plan(ctx context.Context, msg *types.Memory, state *types.State) (*Plan, error) {
	prompt := fmt.Sprintf(p.template, p.describeActions(), state.Text, msg.Content.Text)

	response, err := p.caller(ctx, map[string]any{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("planning model call failed: %w", err)
	}

	text, ok := response.(string)
	if !ok {
		return nil, fmt.Errorf("planning model returned %T, expected string", response)
	}
	return ParsePlan(text)
}

// describeActions renders the catalog as a prompt section: name,
// description and parameter schemas.
func (p *Planner) describeActions() string {
	var b strings.Builder
	for _, a := range p.catalog.List() {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Description)
		for _, param := range a.Parameters {
			required := "optional"
			if param.Required {
				required = "required"
			}
			fmt.Fprintf(&b, "  - %s (%s): %s", param.Name, required, param.Description)
			if param.Schema != nil {
				if schema, err := json.Marshal(param.Schema); err == nil {
					fmt.Fprintf(&b, " %s", schema)
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
