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

package runtime

// EventName identifies a lifecycle transition in the message pipeline.
type EventName string

const (
	EventMessageReceived     EventName = "MESSAGE_RECEIVED"
	EventActionStarted       EventName = "ACTION_STARTED"
	EventActionCompleted     EventName = "ACTION_COMPLETED"
	EventResponseEmitted     EventName = "RESPONSE_EMITTED"
	EventEvaluatorsCompleted EventName = "EVALUATORS_COMPLETED"
)

// EventHandler receives the event payload. Handlers run synchronously on
// the emitting goroutine and should return quickly.
type EventHandler func(payload any)

// Subscribe registers a handler for an event.
func (rt *AgentRuntime) Subscribe(event EventName, fn EventHandler) {
	if fn == nil {
		return
	}
	rt.eventMu.Lock()
	defer rt.eventMu.Unlock()
	rt.handlers[event] = append(rt.handlers[event], fn)
}

func (rt *AgentRuntime) emit(event EventName, payload any) {
	rt.eventMu.RLock()
	handlers := make([]EventHandler, len(rt.handlers[event]))
	copy(handlers, rt.handlers[event])
	rt.eventMu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
