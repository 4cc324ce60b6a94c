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
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/agentmesh/message"
)

type replyOnlyAgent struct{}

func (replyOnlyAgent) Reply(_ context.Context, msg *message.Msg) (*message.Msg, error) {
	return message.New("reply-only", message.AssistantRole, "pong: "+msg.Text()), nil
}

type extendedAgent struct {
	replyOnlyAgent
}

func (extendedAgent) Methods() map[string]Method {
	return map[string]Method{
		"Summarize": func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return map[string]any{"summary": in.Text}, nil
		},
	}
}

type clashingAgent struct {
	replyOnlyAgent
}

func (clashingAgent) Methods() map[string]Method {
	return map[string]Method{
		MethodReply: func(context.Context, json.RawMessage) (any, error) { return nil, nil },
	}
}

func TestRegistry(t *testing.T) {
	t.Run("With register and resolve", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(new(EchoAgent))
		require.True(t, registry.Exists(EchoAgent{}))

		rtype, ok := registry.TypeOf(Kind(new(EchoAgent)))
		require.True(t, ok)
		assert.Exactly(t, reflect.TypeOf(EchoAgent{}), rtype)
	})
	t.Run("With value and pointer sharing one kind", func(t *testing.T) {
		assert.Exactly(t, Kind(EchoAgent{}), Kind(new(EchoAgent)))
	})
	t.Run("With deregister", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(new(EchoAgent))
		registry.Deregister(new(EchoAgent))
		assert.False(t, registry.Exists(new(EchoAgent)))
	})
	t.Run("With unknown kind", func(t *testing.T) {
		registry := NewRegistry()
		_, ok := registry.TypeOf("agent.unknown")
		assert.False(t, ok)
	})
	t.Run("With kind name case folding", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(new(EchoAgent))
		_, ok := registry.TypeOf("Agent.EchoAgent")
		assert.True(t, ok)
	})
}

func TestSurfaceOf(t *testing.T) {
	ctx := context.Background()

	t.Run("With reply only", func(t *testing.T) {
		surface, err := SurfaceOf(replyOnlyAgent{})
		require.NoError(t, err)

		_, ok := surface.Method(MethodObserve)
		assert.False(t, ok)

		method, ok := surface.Method(MethodReply)
		require.True(t, ok)
		raw, err := message.New("tester", message.UserRole, "ping").Encode()
		require.NoError(t, err)
		out, err := method(ctx, raw)
		require.NoError(t, err)
		reply, ok := out.(*message.Msg)
		require.True(t, ok)
		assert.Exactly(t, "pong: ping", reply.Text())
	})
	t.Run("With observer", func(t *testing.T) {
		echo := NewEchoAgent("E0")
		surface, err := SurfaceOf(echo)
		require.NoError(t, err)

		method, ok := surface.Method(MethodObserve)
		require.True(t, ok)
		raw, err := message.New("tester", message.UserRole, "observed").Encode()
		require.NoError(t, err)
		out, err := method(ctx, raw)
		require.NoError(t, err)
		assert.Nil(t, out)
		require.NotNil(t, echo.LastObserved())
		assert.Exactly(t, "observed", echo.LastObserved().Text())
	})
	t.Run("With extended methods", func(t *testing.T) {
		surface, err := SurfaceOf(extendedAgent{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{MethodReply, "Summarize"}, surface.Names())

		method, ok := surface.Method("Summarize")
		require.True(t, ok)
		out, err := method(ctx, []byte(`{"text":"short"}`))
		require.NoError(t, err)
		assert.Exactly(t, map[string]any{"summary": "short"}, out)
	})
	t.Run("With reserved name redeclared", func(t *testing.T) {
		_, err := SurfaceOf(clashingAgent{})
		require.Error(t, err)
	})
	t.Run("With malformed message payload", func(t *testing.T) {
		surface, err := SurfaceOf(replyOnlyAgent{})
		require.NoError(t, err)
		method, _ := surface.Method(MethodReply)
		_, err = method(ctx, []byte("{"))
		require.Error(t, err)
	})
}

func TestEchoAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("With reply", func(t *testing.T) {
		echo := NewEchoAgent("E0")
		reply, err := echo.Reply(ctx, message.New("tester", message.UserRole, "hello"))
		require.NoError(t, err)
		assert.Exactly(t, "E0 echoes: hello", reply.Text())
		assert.Exactly(t, message.AssistantRole, reply.Role)
	})
	t.Run("With configure", func(t *testing.T) {
		echo := new(EchoAgent)
		require.NoError(t, echo.Configure(map[string]any{"name": "E7"}))
		assert.Exactly(t, "E7", echo.Name)
	})
	t.Run("With configure defaults", func(t *testing.T) {
		echo := new(EchoAgent)
		require.NoError(t, echo.Configure(nil))
		assert.Exactly(t, "echo", echo.Name)
	})
}
