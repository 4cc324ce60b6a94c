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

package agent

import (
	"context"
	"fmt"

	"github.com/agentmesh/agentmesh/message"
)

// EchoAgent answers every message with its own content and remembers the
// last message it observed. It is the built-in smoke-test kind registered
// by the standalone server: registering it remotely and hearing your own
// words back proves the whole dispatch path end to end.
type EchoAgent struct {
	Name string

	lastObserved *message.Msg
}

var (
	_ Agent        = (*EchoAgent)(nil)
	_ Observer     = (*EchoAgent)(nil)
	_ Configurable = (*EchoAgent)(nil)
)

// NewEchoAgent creates a named echo agent.
func NewEchoAgent(name string) *EchoAgent {
	return &EchoAgent{Name: name}
}

// Configure accepts an optional "name" argument.
func (e *EchoAgent) Configure(args map[string]any) error {
	if name, ok := args["name"].(string); ok {
		e.Name = name
	}
	if e.Name == "" {
		e.Name = "echo"
	}
	return nil
}

// Reply answers with the incoming content, attributed to the agent.
func (e *EchoAgent) Reply(_ context.Context, msg *message.Msg) (*message.Msg, error) {
	content := fmt.Sprintf("%s echoes: %s", e.Name, msg.Text())
	return message.New(e.Name, message.AssistantRole, content), nil
}

// Observe records the message without answering.
func (e *EchoAgent) Observe(_ context.Context, msg *message.Msg) error {
	e.lastObserved = msg
	return nil
}

// LastObserved returns the most recently observed message, if any.
func (e *EchoAgent) LastObserved() *message.Msg {
	return e.lastObserved
}
