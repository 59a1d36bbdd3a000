package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestValidateParams(t *testing.T) {
	a := &Action{
		Name: "MOVE",
		Parameters: []Parameter{
			{Name: "direction", Required: true, Schema: &Schema{Type: "string", Enum: []any{"north", "south"}}},
			{Name: "speed", Schema: &Schema{Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(10), Default: 1.0}},
		},
	}

	tests := []struct {
		name       string
		params     map[string]any
		wantErrs   int
		wantErrSub string
	}{
		{
			name:   "valid params",
			params: map[string]any{"direction": "south", "speed": 2.5},
		},
		{
			name:       "missing required",
			params:     map[string]any{},
			wantErrs:   1,
			wantErrSub: "direction",
		},
		{
			name:       "enum violation",
			params:     map[string]any{"direction": "up"},
			wantErrs:   1,
			wantErrSub: "one of",
		},
		{
			name:       "type violation",
			params:     map[string]any{"direction": "north", "speed": "fast"},
			wantErrs:   1,
			wantErrSub: "number",
		},
		{
			name:       "range violation",
			params:     map[string]any{"direction": "north", "speed": 99.0},
			wantErrs:   1,
			wantErrSub: "maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ValidateParams(a, tt.params)
			assert.Len(t, errs, tt.wantErrs)
			if tt.wantErrSub != "" {
				assert.Contains(t, errs[0], tt.wantErrSub)
			}
		})
	}
}

func TestValidateParamsAppliesDefaults(t *testing.T) {
	a := &Action{
		Name: "MOVE",
		Parameters: []Parameter{
			{Name: "direction", Required: true, Schema: &Schema{Type: "string"}},
			{Name: "speed", Schema: &Schema{Type: "number", Default: 1.0}},
		},
	}

	normalized, errs := ValidateParams(a, map[string]any{"direction": "north"})
	assert.Empty(t, errs)
	assert.Equal(t, 1.0, normalized["speed"])
	assert.Equal(t, "north", normalized["direction"])
}

func TestValidateParamsString(t *testing.T) {
	a := &Action{
		Name: "SAY",
		Parameters: []Parameter{
			{Name: "text", Required: true, Schema: &Schema{
				Type:      "string",
				MinLength: intPtr(2),
				MaxLength: intPtr(5),
				Pattern:   "^[a-z]+$",
			}},
		},
	}

	_, errs := ValidateParams(a, map[string]any{"text": "abc"})
	assert.Empty(t, errs)

	_, errs = ValidateParams(a, map[string]any{"text": "a"})
	assert.Len(t, errs, 1)

	_, errs = ValidateParams(a, map[string]any{"text": "toolong"})
	assert.Len(t, errs, 1)

	_, errs = ValidateParams(a, map[string]any{"text": "ABC"})
	assert.Len(t, errs, 1)
}

func TestValidateParamsNested(t *testing.T) {
	a := &Action{
		Name: "TRANSFER",
		Parameters: []Parameter{
			{Name: "target", Required: true, Schema: &Schema{
				Type:     "object",
				Required: []string{"address"},
				Properties: map[string]*Schema{
					"address": {Type: "string"},
					"amount":  {Type: "integer", Minimum: floatPtr(1)},
				},
			}},
			{Name: "tags", Schema: &Schema{
				Type:  "array",
				Items: &Schema{Type: "string"},
			}},
		},
	}

	_, errs := ValidateParams(a, map[string]any{
		"target": map[string]any{"address": "0xabc", "amount": 5},
		"tags":   []any{"urgent"},
	})
	assert.Empty(t, errs)

	_, errs = ValidateParams(a, map[string]any{
		"target": map[string]any{"amount": 0.5},
	})
	assert.Len(t, errs, 2)

	_, errs = ValidateParams(a, map[string]any{
		"target": map[string]any{"address": "0xabc"},
		"tags":   []any{"ok", 7},
	})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "tags[1]")
}

func TestValidateParamsIntegerEnum(t *testing.T) {
	a := &Action{
		Name: "SET_LEVEL",
		Parameters: []Parameter{
			{Name: "level", Required: true, Schema: &Schema{Type: "integer", Enum: []any{1, 2, 3}}},
		},
	}

	// JSON decoding produces float64 for numbers; enum matching must not
	// depend on the concrete numeric type.
	_, errs := ValidateParams(a, map[string]any{"level": float64(2)})
	assert.Empty(t, errs)

	_, errs = ValidateParams(a, map[string]any{"level": float64(9)})
	assert.Len(t, errs, 1)
}

func TestValidateParamsUncomparableEnum(t *testing.T) {
	a := &Action{
		Name: "PICK_ROUTE",
		Parameters: []Parameter{
			{Name: "route", Required: true, Schema: &Schema{Enum: []any{
				[]any{"a", "b"},
				[]any{"b", "c"},
			}}},
		},
	}

	// Enum members may be lists; matching must not panic on them.
	_, errs := ValidateParams(a, map[string]any{"route": []any{"b", "c"}})
	assert.Empty(t, errs)

	_, errs = ValidateParams(a, map[string]any{"route": []any{"z"}})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "route")
}
