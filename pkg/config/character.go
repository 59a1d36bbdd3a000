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

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/elizaos/eliza-go/pkg/types"
)

// LoadCharacter reads a character definition from a YAML or JSON file.
// Environment variable references are expanded before decoding; unknown
// top-level keys are rejected.
func LoadCharacter(path string) (*types.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseCharacterJSON(data)
	case ".yaml", ".yml":
		return ParseCharacterYAML(data)
	default:
		return nil, fmt.Errorf("unsupported character file extension '%s'", filepath.Ext(path))
	}
}

// ParseCharacterYAML decodes a YAML character with strict unknown-key
// rejection.
func ParseCharacterYAML(data []byte) (*types.Character, error) {
	expanded := ExpandEnvVars(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var c types.Character
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse character yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseCharacterJSON decodes a JSON character with strict unknown-key
// rejection.
func ParseCharacterJSON(data []byte) (*types.Character, error) {
	expanded := ExpandEnvVars(string(data))

	dec := json.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.DisallowUnknownFields()

	var c types.Character
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse character json: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
