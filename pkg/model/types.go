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

// Package model routes named model types to provider-registered handlers.
// The runtime core recognizes the standard types below but implements none
// of them; concrete providers register handlers during plugin init.
package model

import "context"

// ModelType names a class of model capability.
type ModelType string

const (
	TextSmall          ModelType = "TEXT_SMALL"
	TextLarge          ModelType = "TEXT_LARGE"
	TextEmbedding      ModelType = "TEXT_EMBEDDING"
	TextReasoningSmall ModelType = "TEXT_REASONING_SMALL"
	TextReasoningLarge ModelType = "TEXT_REASONING_LARGE"
	ObjectSmall        ModelType = "OBJECT_SMALL"
	ObjectLarge        ModelType = "OBJECT_LARGE"
	Image              ModelType = "IMAGE"
	ImageDescription   ModelType = "IMAGE_DESCRIPTION"
	Transcription      ModelType = "TRANSCRIPTION"
	TextToSpeech       ModelType = "TEXT_TO_SPEECH"
	TokenizeText       ModelType = "TOKENIZE_TEXT"
	DetokenizeText     ModelType = "DETOKENIZE_TEXT"
)

// HandlerFunc executes one model call. Providers that need the runtime
// capture it in a closure at registration time.
type HandlerFunc func(ctx context.Context, params map[string]any) (any, error)

// Handler is a routable model handler tagged with its provider and priority.
// Higher priority wins; ties break by registration order.
type Handler struct {
	ModelType ModelType
	Provider  string
	Priority  int
	Fn        HandlerFunc
}
