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

package address

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/agentmesh/errors"
)

func TestIdentity(t *testing.T) {
	t.Run("With new identity", func(t *testing.T) {
		identity := New("agent.webagent", "127.0.0.1", 8080)
		require.NoError(t, identity.Validate())
		assert.NotEmpty(t, identity.ID)
		assert.Exactly(t, "agent.webagent", identity.Kind)
		assert.Exactly(t, "127.0.0.1:8080", identity.HostPort())
		assert.False(t, identity.IsZero())
	})
	t.Run("With canonical form round trip", func(t *testing.T) {
		identity := New("agent.webagent", "127.0.0.1", 8080)
		parsed, err := From(identity.String())
		require.NoError(t, err)
		assert.True(t, identity.Equals(parsed))
	})
	t.Run("With missing scheme", func(t *testing.T) {
		_, err := From("http://agent.webagent@127.0.0.1:8080/abc")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidIdentity)
	})
	t.Run("With missing kind separator", func(t *testing.T) {
		_, err := From("agentmesh://127.0.0.1:8080/abc")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidIdentity)
	})
	t.Run("With missing id", func(t *testing.T) {
		_, err := From("agentmesh://agent.webagent@127.0.0.1:8080")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidIdentity)
	})
	t.Run("With invalid kind", func(t *testing.T) {
		identity := New("-bogus", "127.0.0.1", 8080)
		require.Error(t, identity.Validate())
	})
	t.Run("With invalid port", func(t *testing.T) {
		identity := New("agent.webagent", "127.0.0.1", -1)
		require.Error(t, identity.Validate())
	})
	t.Run("With empty id", func(t *testing.T) {
		identity := Identity{Kind: "agent.webagent", Host: "127.0.0.1", Port: 8080}
		require.Error(t, identity.Validate())
	})
	t.Run("With zero value", func(t *testing.T) {
		var identity Identity
		assert.True(t, identity.IsZero())
	})
	t.Run("With equality on host case", func(t *testing.T) {
		one := New("agent.webagent", "LOCALHOST", 9000)
		two := one
		two.Host = "localhost"
		assert.True(t, one.Equals(two))
	})
}

func TestIdentityJSON(t *testing.T) {
	t.Run("With identity embedded as canonical string", func(t *testing.T) {
		identity := New("agent.webagent", "127.0.0.1", 8080)
		payload, err := json.Marshal(identity)
		require.NoError(t, err)
		assert.JSONEq(t, `"`+identity.String()+`"`, string(payload))

		var decoded Identity
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.True(t, identity.Equals(decoded))
	})
	t.Run("With invalid payload", func(t *testing.T) {
		var decoded Identity
		err := json.Unmarshal([]byte(`"not an identity"`), &decoded)
		require.Error(t, err)
	})
}
