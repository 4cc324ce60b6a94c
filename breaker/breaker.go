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

// Package breaker implements a small circuit breaker used to guard the
// remoting client against a repeatedly failing or unreachable host.
// Instead of stacking dial timeouts on a dead endpoint, calls fail fast
// with ErrOpen until the cooldown elapses and a half-open probe succeeds.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrOpen is returned when the breaker is open and rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the breaker state.
type State int32

const (
	// Closed lets every call through.
	Closed State = iota
	// Open rejects every call until the cooldown elapses.
	Open
	// HalfOpen lets a bounded number of probe calls through.
	HalfOpen
)

// String returns the text representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker is a thread-safe consecutive-failure circuit breaker.
type CircuitBreaker struct {
	opts *options

	mu           sync.Mutex
	state        State
	failures     int
	openUntil    time.Time
	probesInUse  int
	lastFailure  atomic.Time
	lastSuccess  atomic.Time
}

// New constructs a circuit breaker. Invalid option values are replaced
// with sensible defaults.
func New(opts ...Option) *CircuitBreaker {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	o.sanitize()
	return &CircuitBreaker{
		opts:  o,
		state: Closed,
	}
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Execute runs fn when the breaker allows it. An open breaker rejects the
// call immediately with ErrOpen. Context cancellation counts as the
// caller's failure, not the endpoint's.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err == nil:
		b.recordSuccess()
	case errors.Is(err, context.Canceled):
		b.release()
	default:
		b.recordFailure()
	}
	return err
}

// LastFailure returns the time of the most recent recorded failure.
func (b *CircuitBreaker) LastFailure() time.Time {
	return b.lastFailure.Load()
}

// LastSuccess returns the time of the most recent recorded success.
func (b *CircuitBreaker) LastSuccess() time.Time {
	return b.lastSuccess.Load()
}

// stateLocked evaluates cooldown expiry. Callers must hold the mutex.
func (b *CircuitBreaker) stateLocked() State {
	if b.state == Open && b.opts.clock().After(b.openUntil) {
		b.state = HalfOpen
		b.probesInUse = 0
	}
	return b.state
}

func (b *CircuitBreaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.stateLocked() {
	case Open:
		return ErrOpen
	case HalfOpen:
		if b.probesInUse >= b.opts.halfOpenMaxCalls {
			return ErrOpen
		}
		b.probesInUse++
	}
	return nil
}

func (b *CircuitBreaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == HalfOpen && b.probesInUse > 0 {
		b.probesInUse--
	}
}

func (b *CircuitBreaker) recordSuccess() {
	b.lastSuccess.Store(b.opts.clock())
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != Closed {
		b.state = Closed
		b.probesInUse = 0
	}
}

func (b *CircuitBreaker) recordFailure() {
	b.lastFailure.Store(b.opts.clock())
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.state == HalfOpen || b.failures >= b.opts.failureThreshold {
		b.state = Open
		b.openUntil = b.opts.clock().Add(b.opts.openTimeout)
		b.failures = 0
		b.probesInUse = 0
	}
}
