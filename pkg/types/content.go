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

package types

import "github.com/google/uuid"

// MediaType classifies an attachment.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeDocument MediaType = "document"
	MediaTypeLink     MediaType = "link"
)

// Media is an attachment carried inside message content.
type Media struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source,omitempty"`
	Description string    `json:"description,omitempty"`
	Text        string    `json:"text,omitempty"`
	ContentType MediaType `json:"contentType,omitempty"`
}

// MentionContext carries platform-reported mention flags so providers and
// actions can reason about why the agent was addressed.
type MentionContext struct {
	IsMention   bool   `json:"isMention"`
	IsReply     bool   `json:"isReply"`
	IsThread    bool   `json:"isThread"`
	MentionType string `json:"mentionType,omitempty"`
}

// Content is the payload of a memory. All fields are optional; Text is the
// externally visible part, Thought is internal reasoning.
type Content struct {
	Thought           string                    `json:"thought,omitempty"`
	Text              string                    `json:"text,omitempty"`
	Actions           []string                  `json:"actions,omitempty"`
	Params            map[string]map[string]any `json:"params,omitempty"`
	Providers         []string                  `json:"providers,omitempty"`
	Source            string                    `json:"source,omitempty"`
	Target            string                    `json:"target,omitempty"`
	URL               string                    `json:"url,omitempty"`
	InReplyTo         *uuid.UUID                `json:"inReplyTo,omitempty"`
	Attachments       []Media                   `json:"attachments,omitempty"`
	ChannelType       string                    `json:"channelType,omitempty"`
	MentionContext    *MentionContext           `json:"mentionContext,omitempty"`
	ResponseMessageID *uuid.UUID                `json:"responseMessageId,omitempty"`
}
