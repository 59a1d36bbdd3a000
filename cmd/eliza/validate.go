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

package main

import (
	"fmt"

	"github.com/elizaos/eliza-go/pkg/config"
)

// ValidateCmd checks a character file without starting the agent.
type ValidateCmd struct {
	Character string `short:"c" required:"" help:"Path to the character file." type:"path"`
}

func (c *ValidateCmd) Run(cli *CLI) error {
	character, err := config.LoadCharacter(c.Character)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ %s is valid\n", c.Character)
	fmt.Printf("  name:     %s\n", character.Name)
	fmt.Printf("  bio:      %d entries\n", len(character.Bio))
	fmt.Printf("  plugins:  %d\n", len(character.Plugins))
	fmt.Printf("  settings: %d\n", len(character.Settings))
	if len(character.Secrets) > 0 {
		fmt.Printf("  secrets:  %d (values not shown)\n", len(character.Secrets))
	}
	return nil
}
