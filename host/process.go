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

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

// outcome is the terminal result of one invocation.
type outcome struct {
	value json.RawMessage
	err   error
}

// invocation is one unit of work queued on an instance inbox. A sync
// invocation carries a done channel; an async one carries the call token
// its result is filed under.
type invocation struct {
	name   string
	method agent.Method
	args   json.RawMessage
	token  string
	done   chan *outcome
}

// process owns one registered agent instance: its identity, its fixed
// capability surface and its inbox. The inbox loop is the instance's
// single worker stream, so invocations against the same instance execute
// strictly sequentially in arrival order, while distinct instances
// progress concurrently up to the host's semaphore cap.
type process struct {
	identity   address.Identity
	instance   agent.Agent
	surface    *agent.Surface
	inbox      chan *invocation
	stopped    chan struct{}
	sem        *semaphore.Weighted
	serializer remote.Serializer
	results    *results
	logger     log.Logger

	// mu fences enqueue against drain: the inbox is only ever closed
	// under the write lock, and every send holds the read lock, so a
	// send can never race the close.
	mu     sync.RWMutex
	closed bool
}

func newProcess(
	identity address.Identity,
	instance agent.Agent,
	surface *agent.Surface,
	capacity int,
	sem *semaphore.Weighted,
	serializer remote.Serializer,
	results *results,
	logger log.Logger,
) *process {
	return &process{
		identity:   identity,
		instance:   instance,
		surface:    surface,
		inbox:      make(chan *invocation, capacity),
		stopped:    make(chan struct{}),
		sem:        sem,
		serializer: serializer,
		results:    results,
		logger:     logger,
	}
}

// run consumes the inbox until it is closed, then signals full drain.
func (p *process) run() {
	for inv := range p.inbox {
		p.execute(inv)
	}
	close(p.stopped)
}

// enqueue files one invocation on the instance inbox. It fails with
// ErrUnknownAgent once the process is draining, and with
// ErrRequestTimeout when ctx expires while the inbox is full.
func (p *process) enqueue(ctx context.Context, inv *invocation) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("%w: %s", errors.ErrUnknownAgent, p.identity)
	}
	select {
	case p.inbox <- inv:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errors.ErrRequestTimeout, ctx.Err())
	}
}

// drain closes the inbox and waits for the already queued invocations to
// finish, bounded by ctx. Safe to call more than once.
func (p *process) drain(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// execute runs one invocation under the host's concurrency cap. A panic
// or error inside the agent method never crashes the host: it is captured
// and delivered as the invocation outcome.
func (p *process) execute(inv *invocation) {
	_ = p.sem.Acquire(context.Background(), 1)
	defer p.sem.Release(1)

	started := time.Now()
	result := p.invoke(inv)
	if result.err != nil {
		p.logger.Warnf("agent=(%s) method=(%s) failed after %v: %v", p.identity, inv.name, time.Since(started), result.err)
	} else {
		p.logger.Debugf("agent=(%s) method=(%s) completed in %v", p.identity, inv.name, time.Since(started))
	}

	if inv.done != nil {
		inv.done <- result
		return
	}
	p.results.complete(inv.token, result)
}

func (p *process) invoke(inv *invocation) (result *outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.logger.Errorf("agent=(%s) panicked: %v\n%s", p.identity, recovered, debug.Stack())
			result = &outcome{err: fmt.Errorf("agent method panicked: %v", recovered)}
		}
	}()

	value, err := inv.method(context.Background(), inv.args)
	if err != nil {
		return &outcome{err: err}
	}

	encoded, err := p.serializer.Serialize(value)
	if err != nil {
		return &outcome{err: fmt.Errorf("result serialization failed: %w", err)}
	}
	return &outcome{value: encoded}
}
