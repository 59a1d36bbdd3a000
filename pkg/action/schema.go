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
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Schema is the JSON-Schema subset accepted for action parameters. It is
// declared as data by plugin authors rather than generated from Go types,
// so validation walks the structure directly: defaults must be applied and
// violations reported as human-readable parameter errors.
type Schema struct {
	Type       string             `json:"type,omitempty" mapstructure:"type"`
	Enum       []any              `json:"enum,omitempty" mapstructure:"enum"`
	Default    any                `json:"default,omitempty" mapstructure:"default"`
	Minimum    *float64           `json:"minimum,omitempty" mapstructure:"minimum"`
	Maximum    *float64           `json:"maximum,omitempty" mapstructure:"maximum"`
	MinLength  *int               `json:"minLength,omitempty" mapstructure:"minLength"`
	MaxLength  *int               `json:"maxLength,omitempty" mapstructure:"maxLength"`
	Pattern    string             `json:"pattern,omitempty" mapstructure:"pattern"`
	Properties map[string]*Schema `json:"properties,omitempty" mapstructure:"properties"`
	Items      *Schema            `json:"items,omitempty" mapstructure:"items"`
	Required   []string           `json:"required,omitempty" mapstructure:"required"`
}

// ValidateParams checks the supplied parameters against the action's
// declared parameters. It returns the normalized parameter map (defaults
// applied for optional missing parameters) and the list of parameter
// errors; an empty error list means the parameters are acceptable.
func ValidateParams(a *Action, params map[string]any) (map[string]any, []string) {
	normalized := make(map[string]any, len(params))
	for k, v := range params {
		normalized[k] = v
	}

	var errs []string
	for _, p := range a.Parameters {
		value, present := normalized[p.Name]
		if !present {
			if p.Required {
				errs = append(errs, fmt.Sprintf("missing required parameter '%s'", p.Name))
				continue
			}
			if p.Schema != nil && p.Schema.Default != nil {
				normalized[p.Name] = p.Schema.Default
			}
			continue
		}
		if p.Schema == nil {
			continue
		}
		for _, problem := range validateValue(p.Schema, value, p.Name) {
			errs = append(errs, problem)
		}
	}
	return normalized, errs
}

func validateValue(s *Schema, value any, path string) []string {
	var errs []string

	switch s.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("parameter '%s' must be a string", path)}
		}
		if s.MinLength != nil && len(str) < *s.MinLength {
			errs = append(errs, fmt.Sprintf("parameter '%s' is shorter than %d characters", path, *s.MinLength))
		}
		if s.MaxLength != nil && len(str) > *s.MaxLength {
			errs = append(errs, fmt.Sprintf("parameter '%s' is longer than %d characters", path, *s.MaxLength))
		}
		if s.Pattern != "" {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				errs = append(errs, fmt.Sprintf("parameter '%s' has an invalid pattern: %v", path, err))
			} else if !re.MatchString(str) {
				errs = append(errs, fmt.Sprintf("parameter '%s' does not match pattern %s", path, s.Pattern))
			}
		}
	case "number", "integer":
		num, ok := toFloat(value)
		if !ok {
			return []string{fmt.Sprintf("parameter '%s' must be a %s", path, s.Type)}
		}
		if s.Type == "integer" && num != float64(int64(num)) {
			return []string{fmt.Sprintf("parameter '%s' must be an integer", path)}
		}
		if s.Minimum != nil && num < *s.Minimum {
			errs = append(errs, fmt.Sprintf("parameter '%s' is below minimum %v", path, *s.Minimum))
		}
		if s.Maximum != nil && num > *s.Maximum {
			errs = append(errs, fmt.Sprintf("parameter '%s' is above maximum %v", path, *s.Maximum))
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("parameter '%s' must be a boolean", path)}
		}
	case "array":
		items, ok := value.([]any)
		if !ok {
			return []string{fmt.Sprintf("parameter '%s' must be an array", path)}
		}
		if s.Items != nil {
			for i, item := range items {
				errs = append(errs, validateValue(s.Items, item, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}
	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("parameter '%s' must be an object", path)}
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				errs = append(errs, fmt.Sprintf("parameter '%s' is missing required property '%s'", path, name))
			}
		}
		for name, prop := range s.Properties {
			if nested, present := obj[name]; present {
				errs = append(errs, validateValue(prop, nested, path+"."+name)...)
			}
		}
	case "":
		// Untyped schema: only enum applies.
	default:
		errs = append(errs, fmt.Sprintf("parameter '%s' has unsupported schema type %q", path, s.Type))
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		errs = append(errs, fmt.Sprintf("parameter '%s' must be one of %s", path, formatEnum(s.Enum)))
	}
	return errs
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func enumContains(enum []any, value any) bool {
	for _, candidate := range enum {
		// DeepEqual rather than ==: authors may declare uncomparable enum
		// members such as lists, and == would panic on them.
		if reflect.DeepEqual(candidate, value) {
			return true
		}
		// JSON numbers arrive as float64 while enums may be declared as ints.
		cf, cok := toFloat(candidate)
		vf, vok := toFloat(value)
		if cok && vok && cf == vf {
			return true
		}
	}
	return false
}

func formatEnum(enum []any) string {
	parts := make([]string, len(enum))
	for i, v := range enum {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, ", ")
}
