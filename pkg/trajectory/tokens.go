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

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// estimateTokens counts tokens with the cl100k_base encoding, falling back
// to a rough 4-chars-per-token estimate when the encoding is unavailable.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(text) / 4
	}
	return len(encoding.Encode(text, nil, nil))
}

// fillTokenCounts estimates prompt and completion tokens for a call when
// the model handler did not report usage.
func fillTokenCounts(call *LLMCall) {
	if call.PromptTokens == nil {
		prompt := call.SystemPrompt + call.UserPrompt
		for _, m := range call.Messages {
			prompt += m.Content
		}
		n := estimateTokens(prompt)
		call.PromptTokens = &n
	}
	if call.CompletionTokens == nil {
		n := estimateTokens(call.Response)
		call.CompletionTokens = &n
	}
}
