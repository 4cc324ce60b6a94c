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

// Package future provides the result placeholder a remote proxy hands
// back in place of a not-yet-available remote result.
//
// A Placeholder is created the instant an invocation envelope is
// dispatched and transitions exactly once, from Pending to either Ready
// or Failed. Resolution is idempotent: once resolved, every subsequent
// Await returns the cached outcome without touching the host again, so
// the remote method executes at most once per envelope no matter how many
// times or from how many goroutines the placeholder is consumed.
package future

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/breaker"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/internal/ticker"
	"github.com/agentmesh/agentmesh/message"
	"github.com/agentmesh/agentmesh/remote"
)

// State is the resolution state of a placeholder.
type State int32

const (
	// Pending means the remote call has not completed yet.
	Pending State = iota
	// Ready means the value is cached locally.
	Ready
	// Failed means the remote call failed; the error is cached locally.
	Failed
)

// String returns the text representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Placeholder stands in for the result of one remote invocation. Copies
// of the same placeholder share resolution state: pass it around freely
// before resolving it.
type Placeholder struct {
	identity address.Identity
	token    string
	remoting remote.Remoting
	interval time.Duration

	mu    sync.Mutex
	state *atomic.Int32
	value json.RawMessage
	err   error
}

// New creates a pending placeholder for an async call identified by its
// call token on the owning host.
func New(identity address.Identity, token string, remoting remote.Remoting, pollInterval time.Duration) *Placeholder {
	return &Placeholder{
		identity: identity,
		token:    token,
		remoting: remoting,
		interval: pollInterval,
		state:    atomic.NewInt32(int32(Pending)),
	}
}

// Resolved creates a placeholder already carrying its value. Sync calls
// ship the value directly, so their placeholders never touch the host.
func Resolved(identity address.Identity, value json.RawMessage) *Placeholder {
	return &Placeholder{
		identity: identity,
		state:    atomic.NewInt32(int32(Ready)),
		value:    value,
	}
}

// Rejected creates a placeholder already carrying a failure.
func Rejected(identity address.Identity, err error) *Placeholder {
	return &Placeholder{
		identity: identity,
		state:    atomic.NewInt32(int32(Failed)),
		err:      err,
	}
}

// Identity returns the identity of the agent that owns the result.
func (p *Placeholder) Identity() address.Identity {
	return p.identity
}

// Token returns the call token, empty for sync-call placeholders.
func (p *Placeholder) Token() string {
	return p.token
}

// State returns the current resolution state.
func (p *Placeholder) State() State {
	return State(p.state.Load())
}

// Await blocks until the placeholder resolves, polling the owning host at
// the configured interval. It returns the raw result value, or re-raises
// the remote failure locally with its original error kind preserved.
//
// When the context deadline elapses first the placeholder resolves to
// Failed with ErrRequestTimeout: the underlying call may still complete
// on the host but its result is discarded here. A bare cancellation
// returns the context error and leaves the placeholder pending, so a
// later Await may still resolve it.
func (p *Placeholder) Await(ctx context.Context) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch State(p.state.Load()) {
	case Ready:
		return p.value, nil
	case Failed:
		return nil, p.err
	}

	// poll once right away so a completed call resolves without waiting
	// out a full interval
	if done, value, err := p.poll(ctx); done {
		return value, err
	}

	poller := ticker.New(p.interval)
	poller.Start()
	defer poller.Stop()

	for {
		select {
		case <-poller.Ticks:
			if done, value, err := p.poll(ctx); done {
				return value, err
			}
		case <-ctx.Done():
			if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, p.fail(fmt.Errorf("%w: %w", errors.ErrRequestTimeout, ctx.Err()))
			}
			return nil, ctx.Err()
		}
	}
}

// AwaitMsg resolves the placeholder and decodes the value as a
// conversational message.
func (p *Placeholder) AwaitMsg(ctx context.Context) (*message.Msg, error) {
	value, err := p.Await(ctx)
	if err != nil {
		return nil, err
	}
	return message.Decode(value)
}

// AwaitInto resolves the placeholder and decodes the value into out.
func (p *Placeholder) AwaitInto(ctx context.Context, out any) error {
	value, err := p.Await(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(value, out)
}

// poll performs one poll round-trip. Callers must hold the mutex.
func (p *Placeholder) poll(ctx context.Context) (bool, json.RawMessage, error) {
	response, err := p.remoting.Poll(ctx, p.identity, p.token)
	if err != nil {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, errors.ErrRequestTimeout):
			return true, nil, p.fail(fmt.Errorf("%w: %w", errors.ErrRequestTimeout, err))
		case stderrors.Is(err, breaker.ErrOpen):
			// the endpoint breaker gave up on the host
			return true, nil, p.fail(fmt.Errorf("%w: %w", errors.ErrUnreachableHost, err))
		default:
			// transient transport failure: the call itself has not
			// failed, keep pending and let the next tick retry
			return false, nil, nil
		}
	}

	switch response.Status {
	case remote.StatusOK:
		p.value = response.Value
		p.state.Store(int32(Ready))
		return true, p.value, nil
	case remote.StatusError:
		return true, nil, p.fail(response.Error.AsError())
	default:
		return false, nil, nil
	}
}

// fail transitions to Failed and caches the error. Callers must hold the
// mutex.
func (p *Placeholder) fail(err error) error {
	p.err = err
	p.state.Store(int32(Failed))
	return err
}
