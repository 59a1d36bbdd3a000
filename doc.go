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

// Package eliza is a character-driven agent runtime.
//
// An agent is configured by a Character definition (YAML or JSON) and
// extended through plugins. A plugin bundles actions the agent can execute,
// providers that assemble per-turn context, evaluators that run after each
// response, long-lived services, and model handlers routed by model type.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/elizaos/eliza-go/cmd/eliza@latest
//
// Create a character:
//
//	name: Eliza
//	bio: A helpful assistant.
//	system: You are Eliza.
//
// Run it:
//
//	eliza run --character eliza.yaml
//
// # Using as a Go Library
//
//	import (
//	    "github.com/elizaos/eliza-go/pkg/plugin"
//	    "github.com/elizaos/eliza-go/pkg/runtime"
//	)
//
// Build a runtime from a character and plugins, Initialize it, then feed it
// messages with HandleMessage. Messages in the same room are processed in
// order; different rooms proceed in parallel.
package eliza
