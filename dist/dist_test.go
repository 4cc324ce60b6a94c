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

package dist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/future"
	"github.com/agentmesh/agentmesh/host"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/message"
	"github.com/agentmesh/agentmesh/remote"
)

// webAgent answers lookup requests after simulating work.
type webAgent struct {
	Name  string
	Delay time.Duration
}

var (
	_ agent.Agent        = (*webAgent)(nil)
	_ agent.Configurable = (*webAgent)(nil)
)

func (w *webAgent) Configure(args map[string]any) error {
	if name, ok := args["name"].(string); ok {
		w.Name = name
	}
	if ms, ok := args["delay_ms"].(float64); ok {
		w.Delay = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func (w *webAgent) Reply(ctx context.Context, _ *message.Msg) (*message.Msg, error) {
	if w.Delay > 0 {
		select {
		case <-time.After(w.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return message.New(w.Name, message.AssistantRole, "Answer from "+w.Name), nil
}

func startServer(t *testing.T) *host.Host {
	t.Helper()
	server, err := host.New(remote.NewConfig("127.0.0.1", 0),
		host.WithLogger(log.DiscardLogger),
		host.WithKinds(new(webAgent), new(agent.EchoAgent)),
	)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() {
		_ = server.Stop(context.Background())
	})
	return server
}

func testOptions(server *host.Host) []Option {
	return []Option{
		WithLogger(log.DiscardLogger),
		WithAttach(server.Host(), server.Port()),
		WithConfig(remote.NewConfig("127.0.0.1", 0,
			remote.WithHandshakeTimeout(500*time.Millisecond),
			remote.WithPollInterval(5*time.Millisecond),
		)),
	}
}

func TestToDist(t *testing.T) {
	ctx := context.Background()

	t.Run("With remote reply", func(t *testing.T) {
		server := startServer(t)
		proxy, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{"name": "W0"}, testOptions(server)...)
		require.NoError(t, err)
		defer func() { require.NoError(t, proxy.Shutdown(ctx)) }()

		question := message.New("tester", message.UserRole, map[string]any{"url": "page_1", "query": "example query"})
		placeholder, err := proxy.Reply(ctx, question)
		require.NoError(t, err)
		assert.Exactly(t, future.Pending, placeholder.State())

		reply, err := placeholder.AwaitMsg(ctx)
		require.NoError(t, err)
		assert.Exactly(t, "Answer from W0", reply.Text())
	})
	t.Run("With parallel replies overlapping", func(t *testing.T) {
		server := startServer(t)
		const workers = 5
		delay := 200 * time.Millisecond

		session := (*AgentProxy)(nil)
		proxies := make([]*AgentProxy, 0, workers)
		for i := 0; i < workers; i++ {
			opts := testOptions(server)
			if session != nil {
				opts = append(opts, WithSession(session.Session()))
			}
			proxy, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{
				"name":     "W" + string(rune('0'+i)),
				"delay_ms": float64(delay / time.Millisecond),
			}, opts...)
			require.NoError(t, err)
			proxies = append(proxies, proxy)
			if session == nil {
				session = proxy
			}
		}
		defer func() {
			for _, proxy := range proxies {
				_ = proxy.Stop(ctx)
			}
			require.NoError(t, session.Shutdown(ctx))
		}()

		started := time.Now()
		placeholders := make([]*future.Placeholder, 0, workers)
		for _, proxy := range proxies {
			placeholder, err := proxy.Reply(ctx, message.New("tester", message.UserRole, "work"))
			require.NoError(t, err)
			placeholders = append(placeholders, placeholder)
		}

		for i, placeholder := range placeholders {
			reply, err := placeholder.AwaitMsg(ctx)
			require.NoError(t, err)
			assert.Exactly(t, "Answer from W"+string(rune('0'+i)), reply.Text())
		}

		// the five calls overlap on the host, so the wall clock is far
		// below five sequential delays
		assert.Less(t, time.Since(started), time.Duration(workers)*delay)
	})
	t.Run("With observe", func(t *testing.T) {
		server := startServer(t)
		proxy, err := ToDist(ctx, agent.Kind(new(agent.EchoAgent)), map[string]any{"name": "E0"}, testOptions(server)...)
		require.NoError(t, err)
		defer func() { require.NoError(t, proxy.Shutdown(ctx)) }()

		require.NoError(t, proxy.Observe(ctx, message.New("tester", message.UserRole, "heads up")))
	})
	t.Run("With unknown kind", func(t *testing.T) {
		server := startServer(t)
		_, err := ToDist(ctx, "agent.unknownkind", nil, testOptions(server)...)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRegistrationClosed)
	})
	t.Run("With unreachable host", func(t *testing.T) {
		port := dynaport.Get(1)[0]
		_, err := ToDist(ctx, agent.Kind(new(webAgent)), nil,
			WithLogger(log.DiscardLogger),
			WithAttach("127.0.0.1", port),
			WithConfig(remote.NewConfig("127.0.0.1", 0, remote.WithHandshakeTimeout(300*time.Millisecond))),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnreachableHost)
	})
	t.Run("With explicit session reuse", func(t *testing.T) {
		server := startServer(t)
		first, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{"name": "W0"}, testOptions(server)...)
		require.NoError(t, err)
		defer func() { require.NoError(t, first.Shutdown(ctx)) }()

		second, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{"name": "W1"},
			WithLogger(log.DiscardLogger),
			WithSession(first.Session()),
		)
		require.NoError(t, err)
		assert.Same(t, first.Session(), second.Session())

		// stopping the borrowed-session proxy leaves the session alive
		require.NoError(t, second.Shutdown(ctx))
		placeholder, err := first.Reply(ctx, message.New("tester", message.UserRole, "still there"))
		require.NoError(t, err)
		reply, err := placeholder.AwaitMsg(ctx)
		require.NoError(t, err)
		assert.Exactly(t, "Answer from W0", reply.Text())
	})
	t.Run("With calls to a stopped instance", func(t *testing.T) {
		server := startServer(t)
		proxy, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{"name": "W0"}, testOptions(server)...)
		require.NoError(t, err)
		require.NoError(t, proxy.Stop(ctx))

		placeholder, err := proxy.Reply(ctx, message.New("tester", message.UserRole, "anyone"))
		if err == nil {
			_, err = placeholder.Await(ctx)
		}
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownAgent)
		require.NoError(t, proxy.Session().Shutdown(ctx))
	})
}

func TestProxy(t *testing.T) {
	ctx := context.Background()

	t.Run("With identity obtained out of band", func(t *testing.T) {
		server := startServer(t)
		origin, err := ToDist(ctx, agent.Kind(new(webAgent)), map[string]any{"name": "W0"}, testOptions(server)...)
		require.NoError(t, err)
		defer func() { require.NoError(t, origin.Shutdown(ctx)) }()

		// the identity travels inside a message, the instance does not
		note := message.New("orchestrator", message.SystemRole, "ask this one").
			WithRef("worker", origin.Identity())
		identity, ok := note.Ref("worker")
		require.True(t, ok)

		proxy, err := Proxy(origin.Session(), identity, WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		placeholder, err := proxy.Reply(ctx, message.New("tester", message.UserRole, "hi"))
		require.NoError(t, err)
		reply, err := placeholder.AwaitMsg(ctx)
		require.NoError(t, err)
		assert.Exactly(t, "Answer from W0", reply.Text())
	})
	t.Run("With invalid identity", func(t *testing.T) {
		_, err := Proxy(nil, address.Identity{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidIdentity)
	})
}
