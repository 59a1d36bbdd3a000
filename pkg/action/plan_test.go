package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/eliza-go/pkg/types"
)

func TestParsePlan(t *testing.T) {
	text := `Thinking about it...
<actions>["SEARCH", "REPLY"]</actions>
<params>{"SEARCH": {"query": "weather"}}</params>
Done.`

	plan, err := ParsePlan(text)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)

	assert.Equal(t, "step-1", plan.Steps[0].ID)
	assert.Equal(t, "SEARCH", plan.Steps[0].Action)
	assert.Equal(t, map[string]any{"query": "weather"}, plan.Steps[0].Params)

	assert.Equal(t, "step-2", plan.Steps[1].ID)
	assert.Equal(t, "REPLY", plan.Steps[1].Action)
	assert.Nil(t, plan.Steps[1].Params)
}

func TestParsePlanBareList(t *testing.T) {
	plan, err := ParsePlan(`<actions>SEARCH, REPLY</actions>`)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "SEARCH", plan.Steps[0].Action)
	assert.Equal(t, "REPLY", plan.Steps[1].Action)
}

func TestParsePlanDependencies(t *testing.T) {
	text := `<actions>["FETCH", "SUMMARIZE"]</actions>
<dependencies>{"SUMMARIZE": ["FETCH"]}</dependencies>`

	plan, err := ParsePlan(text)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Empty(t, plan.Steps[0].Dependencies)
	assert.Equal(t, []string{"step-1"}, plan.Steps[1].Dependencies)
}

func TestParsePlanErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no actions block", text: "I would do nothing."},
		{name: "empty actions", text: "<actions>[]</actions>"},
		{name: "malformed params", text: `<actions>["A"]</actions><params>{broken</params>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestPlanFromContent(t *testing.T) {
	content := &types.Content{
		Actions: []string{"MOVE"},
		Params: map[string]map[string]any{
			"MOVE": {"direction": "south"},
		},
	}

	plan := PlanFromContent(content)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "MOVE", plan.Steps[0].Action)
	assert.Equal(t, "south", plan.Steps[0].Params["direction"])
}

func TestPlanFromContentEmpty(t *testing.T) {
	assert.Empty(t, PlanFromContent(nil).Steps)
	assert.Empty(t, PlanFromContent(&types.Content{}).Steps)
}
