/*
 * MIT License
 *
 * Copyright (c) 2026 AgentMesh Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package message defines the conversational payload exchanged with
// agents. The runtime treats a Msg as opaque: it only requires that it
// round-trips through the wire format without loss.
package message

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/address"
)

// Role identifies the sender role of a message.
type Role string

const (
	// SystemRole marks messages issued by the application itself.
	SystemRole Role = "system"
	// UserRole marks messages issued by an end user.
	UserRole Role = "user"
	// AssistantRole marks messages produced by an agent.
	AssistantRole Role = "assistant"
)

// Msg is one unit of conversation. Content holds any JSON value: plain
// text, a structured object, or a list of content blocks. Metadata
// carries structured side information. A reference to another agent is
// stored as its identity string via Ref, never as the agent itself.
type Msg struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Content   any            `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// New creates a message with a fresh ID and the current timestamp.
func New(name string, role Role, content any) *Msg {
	return &Msg{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// WithMetadata sets a metadata entry and returns the message for chaining.
func (m *Msg) WithMetadata(key string, value any) *Msg {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
	return m
}

// WithRef stores a reference to another agent under the given metadata
// key as its canonical identity string.
func (m *Msg) WithRef(key string, identity address.Identity) *Msg {
	return m.WithMetadata(key, identity.String())
}

// Ref resolves a metadata entry written by WithRef back into an identity.
func (m *Msg) Ref(key string) (address.Identity, bool) {
	raw, ok := m.Metadata[key]
	if !ok {
		return address.Identity{}, false
	}
	s, ok := raw.(string)
	if !ok {
		return address.Identity{}, false
	}
	identity, err := address.From(s)
	if err != nil {
		return address.Identity{}, false
	}
	return identity, true
}

// Text returns the content as a string when it is one, otherwise "".
func (m *Msg) Text() string {
	s, _ := m.Content.(string)
	return s
}

// ContentMap returns the content as a string-keyed map when it is one.
// Content decoded from the wire arrives as map[string]any for JSON
// objects.
func (m *Msg) ContentMap() (map[string]any, bool) {
	mp, ok := m.Content.(map[string]any)
	return mp, ok
}

// Encode marshals the message for transmission.
func (m *Msg) Encode() (json.RawMessage, error) {
	return json.Marshal(m)
}

// Decode unmarshals a wire payload into a message.
func Decode(raw json.RawMessage) (*Msg, error) {
	var msg Msg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
