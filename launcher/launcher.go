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
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/travisjeffery/go-dynaport"
	"go.uber.org/atomic"

	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

const (
	// readinessRetries bounds the handshake attempts while a child host
	// boots.
	readinessRetries = 20
	// gracePeriod is how long Shutdown waits after the graceful signal
	// before killing the child outright.
	gracePeriod = 3 * time.Second
)

// gracefulSignal asks the child host to shut down cleanly.
var gracefulSignal = syscall.SIGTERM

// Launcher establishes host sessions. One launcher can launch or attach
// any number of sessions; each session is torn down individually.
type Launcher struct {
	config  *remote.Config
	logger  log.Logger
	command string
	args    []string
}

// New creates a launcher driven by the given remoting config. Without
// WithCommand the launcher spawns the current executable with the
// standalone `serve` arguments, which is the right default when the
// caller binary embeds the host the way agentmeshd does.
func New(config *remote.Config, opts ...Option) *Launcher {
	if config == nil {
		config = remote.DefaultConfig()
	}
	l := &Launcher{
		config: config,
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch spawns a child host process and waits for it to become ready.
// The configured bind port is used when non-zero, otherwise an ephemeral
// port is picked. On readiness failure the partially started process is
// killed before the error propagates: a failed launch never leaves an
// orphan behind.
func (l *Launcher) Launch(ctx context.Context) (*HostSession, error) {
	host := l.config.BindAddr()
	port := l.config.BindPort()
	if port == 0 {
		port = dynaport.Get(1)[0]
	}

	command, args, err := l.spawnArgs(host, port)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrProcessLaunch, err)
	}

	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrProcessLaunch, err)
	}

	session := &HostSession{
		host:     host,
		port:     port,
		topology: ChildTopology,
		remoting: remote.NewRemoting(l.config),
		logger:   l.logger,
		cmd:      cmd,
		waitDone: make(chan error, 1),
		stopped:  atomic.NewBool(false),
	}
	go session.reap()

	l.logger.Infof("spawned child host %s:%d (pid=%d), waiting for readiness", host, port, cmd.Process.Pid)
	if err := l.awaitReadiness(ctx, session); err != nil {
		// kill the partial process before surfacing the failure
		killErr := session.terminate(ctx)
		session.stopped.Store(true)
		session.remoting.Close()
		_ = killErr
		return nil, fmt.Errorf("%w: %w", errors.ErrProcessLaunch, err)
	}
	return session, nil
}

// Attach verifies reachability of an independently managed host at
// host:port and returns a session that owns nothing. The handshake is
// bounded by the configured handshake timeout; on failure the caller
// gets ErrUnreachableHost and decides whether to retry or fall back.
func (l *Launcher) Attach(ctx context.Context, host string, port int) (*HostSession, error) {
	remoting := remote.NewRemoting(l.config)
	banner, err := remoting.Handshake(ctx, host, port)
	if err != nil {
		remoting.Close()
		return nil, err
	}

	l.logger.Infof("attached to %s %s at %s:%d", banner.Server, banner.Version, host, port)
	return &HostSession{
		host:     host,
		port:     port,
		topology: IndependentTopology,
		remoting: remoting,
		logger:   l.logger,
		stopped:  atomic.NewBool(false),
	}, nil
}

// awaitReadiness retries the handshake until the child host answers or
// the attempts are exhausted.
func (l *Launcher) awaitReadiness(ctx context.Context, session *HostSession) error {
	retrier := retry.NewRetrier(readinessRetries, 50*time.Millisecond, l.config.HandshakeTimeout())
	return retrier.RunContext(ctx, func(ctx context.Context) error {
		_, err := session.remoting.Handshake(ctx, session.host, session.port)
		return err
	})
}

// spawnArgs resolves the command line of the child host.
func (l *Launcher) spawnArgs(host string, port int) (string, []string, error) {
	command := l.command
	args := l.args
	if command == "" {
		executable, err := os.Executable()
		if err != nil {
			return "", nil, err
		}
		command = executable
		args = []string{"serve"}
	}
	args = append(append([]string{}, args...),
		"--host", host,
		"--port", strconv.Itoa(port),
	)
	return command, args, nil
}
