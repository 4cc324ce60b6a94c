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

package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/message"
)

func TestEnvelope(t *testing.T) {
	target := address.New("agent.webagent", "127.0.0.1", 8080)

	t.Run("With valid sync envelope", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "Reply", message.New("tester", message.UserRole, "hi"), SyncCall)
		require.NoError(t, err)
		require.NoError(t, envelope.Validate())
		assert.Exactly(t, SyncCall, envelope.Kind)
		assert.NotEmpty(t, envelope.Args)
	})
	t.Run("With valid async envelope", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "Reply", nil, AsyncCall)
		require.NoError(t, err)
		require.NoError(t, envelope.Validate())
	})
	t.Run("With unserializable args", func(t *testing.T) {
		_, err := NewEnvelope(target, "Reply", make(chan int), SyncCall)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidMessage)
	})
	t.Run("With missing method", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "", nil, SyncCall)
		require.NoError(t, err)
		require.Error(t, envelope.Validate())
	})
	t.Run("With bogus kind", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "Reply", nil, CallKind("later"))
		require.NoError(t, err)
		require.Error(t, envelope.Validate())
	})
	t.Run("With invalid target", func(t *testing.T) {
		envelope, err := NewEnvelope(address.Identity{}, "Reply", nil, SyncCall)
		require.NoError(t, err)
		require.Error(t, envelope.Validate())
	})
	t.Run("With single use enforced", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "Reply", nil, SyncCall)
		require.NoError(t, err)
		require.NoError(t, envelope.Consume())
		err = envelope.Consume()
		require.ErrorIs(t, err, errors.ErrEnvelopeConsumed)
	})
	t.Run("With wire round trip", func(t *testing.T) {
		envelope, err := NewEnvelope(target, "Reply", map[string]any{"k": "v"}, AsyncCall)
		require.NoError(t, err)
		payload, err := json.Marshal(envelope)
		require.NoError(t, err)

		var decoded Envelope
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.True(t, envelope.Target.Equals(decoded.Target))
		assert.Exactly(t, envelope.Method, decoded.Method)
		assert.Exactly(t, envelope.Kind, decoded.Kind)
		assert.JSONEq(t, string(envelope.Args), string(decoded.Args))
	})
}

func TestErrorDetail(t *testing.T) {
	t.Run("With sentinel kind surviving the wire", func(t *testing.T) {
		detail := DetailOf(errors.ErrMethodNotFound)
		back := detail.AsError()
		assert.ErrorIs(t, back, errors.ErrMethodNotFound)
	})
	t.Run("With unknown kind", func(t *testing.T) {
		detail := &ErrorDetail{Kind: "mystery", Message: "what happened"}
		back := detail.AsError()
		require.Error(t, back)
		assert.Contains(t, back.Error(), "what happened")
	})
}
