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

// Package launcher brings an agent host into existence before any remote
// proxy can be created. It supports two topologies:
//
//   - child: the host is spawned as a subprocess of the caller and owned
//     by the resulting session, which is the only party allowed to
//     terminate it;
//   - independent: the host was started separately; the launcher only
//     verifies reachability and the session never touches the remote
//     process lifecycle.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

// Topology tells whether a session owns its host process.
type Topology string

const (
	// ChildTopology marks a host spawned and owned by the caller's process.
	ChildTopology Topology = "child"
	// IndependentTopology marks a pre-existing, independently managed host.
	IndependentTopology Topology = "independent"
)

// HostSession is a live connection to one agent host. A child-topology
// session owns the host subprocess and must Shutdown it; an
// independent-topology session owns nothing beyond its client
// connections.
type HostSession struct {
	host     string
	port     int
	topology Topology
	remoting remote.Remoting
	logger   log.Logger

	// child topology only
	cmd      *exec.Cmd
	waitDone chan error
	stopped  *atomic.Bool
}

// Host returns the host address of the session target.
func (s *HostSession) Host() string { return s.host }

// Port returns the port of the session target.
func (s *HostSession) Port() int { return s.port }

// Topology returns the session topology.
func (s *HostSession) Topology() Topology { return s.topology }

// Remoting returns the remoting client bound to this session.
func (s *HostSession) Remoting() remote.Remoting { return s.remoting }

// Owned reports whether the session owns a child host process.
func (s *HostSession) Owned() bool { return s.cmd != nil }

// WaitUntilTerminate blocks until the owned host process exits. It is
// the standalone-server idiom for child topologies; an independent
// session returns immediately because it owns no process to wait on.
func (s *HostSession) WaitUntilTerminate() error {
	if !s.Owned() {
		return nil
	}
	return <-s.waitDone
}

// Shutdown tears the session down. For a child topology the owned host
// process is terminated and reaped; for an independent topology only the
// client connections are released and the external host keeps serving.
func (s *HostSession) Shutdown(ctx context.Context) error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	defer s.remoting.Close()

	if !s.Owned() {
		return nil
	}

	s.logger.Infof("terminating child host %s:%d (pid=%d)", s.host, s.port, s.cmd.Process.Pid)
	return s.terminate(ctx)
}

// terminate asks the child politely first, then kills it. The process is
// always reaped so no zombie is left behind.
func (s *HostSession) terminate(ctx context.Context) error {
	var errs error
	if err := s.cmd.Process.Signal(gracefulSignal); err != nil {
		errs = multierr.Append(errs, err)
	}

	select {
	case <-s.waitDone:
		return nil
	case <-ctx.Done():
	case <-time.After(gracePeriod):
	}

	if err := s.cmd.Process.Kill(); err != nil {
		errs = multierr.Append(errs, err)
	}
	<-s.waitDone
	return errs
}

// reap waits for the child process exactly once and fans the exit status
// out to WaitUntilTerminate and Shutdown.
func (s *HostSession) reap() {
	err := s.cmd.Wait()
	if err != nil && !s.stopped.Load() {
		s.logger.Warnf("child host %s:%d exited: %v", s.host, s.port, err)
	}
	s.waitDone <- err
	close(s.waitDone)
}

func (s *HostSession) String() string {
	return fmt.Sprintf("%s host session %s:%d", s.topology, s.host, s.port)
}
