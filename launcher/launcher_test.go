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

package launcher

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/host"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/message"
	"github.com/agentmesh/agentmesh/remote"
)

const helperEnv = "AGENTMESH_LAUNCH_HELPER"

// TestHelperServe is not a test: it is the child host process body used
// by the child-topology tests, re-executing this test binary the same
// way exec helper processes do.
func TestHelperServe(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process body, spawned by the launch tests")
	}

	bindHost := "127.0.0.1"
	bindPort := 0
	args := flagArgs()
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "--host":
			bindHost = args[i+1]
		case "--port":
			bindPort, _ = strconv.Atoi(args[i+1])
		}
	}

	server, err := host.New(remote.NewConfig(bindHost, bindPort),
		host.WithLogger(log.DiscardLogger),
		host.WithKinds(new(agent.EchoAgent)),
	)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	<-ctx.Done()
	_ = server.Stop(context.Background())
}

// flagArgs returns the arguments after the test binary's "--" separator.
func flagArgs() []string {
	for i, arg := range os.Args {
		if arg == "--" {
			return os.Args[i+1:]
		}
	}
	return nil
}

func testConfig() *remote.Config {
	return remote.NewConfig("127.0.0.1", 0,
		remote.WithHandshakeTimeout(500*time.Millisecond),
		remote.WithCallTimeout(5*time.Second),
	)
}

func startServer(t *testing.T) *host.Host {
	t.Helper()
	server, err := host.New(remote.NewConfig("127.0.0.1", 0),
		host.WithLogger(log.DiscardLogger),
		host.WithKinds(new(agent.EchoAgent)),
	)
	require.NoError(t, err)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() {
		_ = server.Stop(context.Background())
	})
	return server
}

func TestAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("With independent host", func(t *testing.T) {
		server := startServer(t)
		launch := New(testConfig(), WithLogger(log.DiscardLogger))

		session, err := launch.Attach(ctx, server.Host(), server.Port())
		require.NoError(t, err)
		assert.Exactly(t, IndependentTopology, session.Topology())
		assert.False(t, session.Owned())
		assert.Exactly(t, server.Port(), session.Port())

		// nothing to wait on for an unowned host
		require.NoError(t, session.WaitUntilTerminate())

		require.NoError(t, session.Shutdown(ctx))

		// the external host keeps serving after the session is gone
		probe := remote.NewRemoting(testConfig())
		defer probe.Close()
		_, err = probe.Handshake(ctx, server.Host(), server.Port())
		require.NoError(t, err)
	})
	t.Run("With unreachable host", func(t *testing.T) {
		launch := New(testConfig(), WithLogger(log.DiscardLogger))
		port := dynaport.Get(1)[0]

		_, err := launch.Attach(ctx, "127.0.0.1", port)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnreachableHost)
	})
	t.Run("With double shutdown", func(t *testing.T) {
		server := startServer(t)
		launch := New(testConfig(), WithLogger(log.DiscardLogger))

		session, err := launch.Attach(ctx, server.Host(), server.Port())
		require.NoError(t, err)
		require.NoError(t, session.Shutdown(ctx))
		require.NoError(t, session.Shutdown(ctx))
	})
}

func TestLaunch(t *testing.T) {
	ctx := context.Background()

	t.Run("With child host", func(t *testing.T) {
		t.Setenv(helperEnv, "1")
		launch := New(testConfig(),
			WithLogger(log.DiscardLogger),
			WithCommand(os.Args[0], "-test.run=TestHelperServe", "--"),
		)

		session, err := launch.Launch(ctx)
		require.NoError(t, err)
		assert.Exactly(t, ChildTopology, session.Topology())
		assert.True(t, session.Owned())
		assert.Positive(t, session.Port())

		// the child host serves real registrations and invocations
		remoting := session.Remoting()
		identity, err := remoting.Register(ctx, session.Host(), session.Port(), agent.Kind(new(agent.EchoAgent)), map[string]any{"name": "E0"})
		require.NoError(t, err)

		envelope, err := remote.NewEnvelope(identity, agent.MethodReply, message.New("tester", message.UserRole, "ping"), remote.SyncCall)
		require.NoError(t, err)
		response, err := remoting.Invoke(ctx, envelope)
		require.NoError(t, err)
		require.Exactly(t, remote.StatusOK, response.Status)

		reply, err := message.Decode(response.Value)
		require.NoError(t, err)
		assert.Exactly(t, "E0 echoes: ping", reply.Text())

		require.NoError(t, session.Shutdown(ctx))

		// the child process is gone after shutdown
		probe := remote.NewRemoting(testConfig())
		defer probe.Close()
		_, err = probe.Handshake(ctx, session.Host(), session.Port())
		require.Error(t, err)
	})
	t.Run("With wait until terminate", func(t *testing.T) {
		t.Setenv(helperEnv, "1")
		launch := New(testConfig(),
			WithLogger(log.DiscardLogger),
			WithCommand(os.Args[0], "-test.run=TestHelperServe", "--"),
		)

		session, err := launch.Launch(ctx)
		require.NoError(t, err)

		waited := make(chan error, 1)
		go func() {
			waited <- session.WaitUntilTerminate()
		}()

		require.NoError(t, session.Shutdown(ctx))
		select {
		case <-waited:
		case <-time.After(5 * time.Second):
			t.Fatal("WaitUntilTerminate did not return after shutdown")
		}
	})
	t.Run("With command that never becomes ready", func(t *testing.T) {
		launch := New(testConfig(),
			WithLogger(log.DiscardLogger),
			WithCommand("sleep", "30"),
		)

		_, err := launch.Launch(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrProcessLaunch)
	})
	t.Run("With command that cannot be spawned", func(t *testing.T) {
		launch := New(testConfig(),
			WithLogger(log.DiscardLogger),
			WithCommand("/no/such/binary"),
		)

		_, err := launch.Launch(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrProcessLaunch)
	})
}
