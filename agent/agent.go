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

// Package agent defines the capability surface a conversational agent
// exposes to the AgentMesh runtime, and the type registry a host uses as
// its allow-list of constructible agent kinds.
//
// The runtime never inspects an agent's internal behavior. Model calls,
// retrieval, hook chaining and transcript persistence all live behind the
// interfaces below; the runtime only requires that every remotely
// invokable method is declared here, either as one of the built-in
// interfaces or through the Extended method table. There is no
// open-ended reflection dispatch: a method name that is not part of the
// declared surface fails with ErrMethodNotFound.
package agent

import (
	"context"
	"encoding/json"

	"github.com/agentmesh/agentmesh/message"
)

// Built-in capability method names.
const (
	// MethodReply is the primary interaction method. When remoted it is
	// invoked asynchronously by convention.
	MethodReply = "Reply"
	// MethodObserve feeds a message to the agent without soliciting an
	// answer. It is invoked synchronously.
	MethodObserve = "Observe"
)

// Agent is the minimal capability surface of a conversational agent.
type Agent interface {
	// Reply consumes an incoming message and produces the agent's answer.
	Reply(ctx context.Context, msg *message.Msg) (*message.Msg, error)
}

// Observer is implemented by agents that can absorb a message without
// producing an answer.
type Observer interface {
	// Observe feeds a message into the agent's state.
	Observe(ctx context.Context, msg *message.Msg) error
}

// Method is one remotely invokable operation of an agent. The argument
// payload is the raw envelope argument; the returned value must be
// JSON-serializable.
type Method func(ctx context.Context, args json.RawMessage) (any, error)

// Extended is implemented by agents exposing methods beyond the built-in
// surface. The returned table is the fixed, explicitly declared
// capability set; it is read once at registration time.
type Extended interface {
	// Methods returns the extra remotely invokable methods keyed by name.
	Methods() map[string]Method
}

// Configurable is implemented by agents that accept constructor
// arguments. The host calls Configure right after constructing an
// instance from its registered kind, before the instance becomes
// reachable.
type Configurable interface {
	// Configure applies the registration arguments to a fresh instance.
	Configure(args map[string]any) error
}
