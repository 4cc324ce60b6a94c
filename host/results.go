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
	"time"

	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/internal/syncmap"
	"github.com/agentmesh/agentmesh/remote"
)

// pendingResult tracks the resolution of one async call token.
type pendingResult struct {
	token       string
	completed   bool
	outcome     *outcome
	completedAt time.Time
}

// results is the host-side table of async call outcomes. Entries are
// created pending at dispatch time, completed exactly once by the
// instance worker, and evicted by the janitor once their retention
// window elapses. Completed entries outlive the first poll so that
// placeholder copies resolving late still find the outcome.
type results struct {
	entries   *syncmap.SyncMap[string, *pendingResult]
	retention time.Duration
}

func newResults(retention time.Duration) *results {
	return &results{
		entries:   syncmap.New[string, *pendingResult](),
		retention: retention,
	}
}

// open files a new pending entry for the token.
func (r *results) open(token string) {
	r.entries.Set(token, &pendingResult{token: token})
}

// complete files the outcome of the token. The entry is swapped, never
// mutated in place, so concurrent polls observe either the pending or
// the completed entry. An evicted or unknown token is dropped.
func (r *results) complete(token string, out *outcome) {
	if _, ok := r.entries.Get(token); ok {
		r.entries.Set(token, &pendingResult{
			token:       token,
			completed:   true,
			outcome:     out,
			completedAt: time.Now(),
		})
	}
}

// discard drops a token whose invocation never made it onto an inbox.
func (r *results) discard(token string) {
	r.entries.Delete(token)
}

// poll reports the resolution state of the token.
func (r *results) poll(token string) *remote.PollResponse {
	entry, ok := r.entries.Get(token)
	if !ok {
		return &remote.PollResponse{
			Status: remote.StatusError,
			Error:  remote.DetailOf(errors.ErrUnknownToken),
		}
	}
	if !entry.completed {
		return &remote.PollResponse{Status: remote.StatusPending}
	}
	if entry.outcome.err != nil {
		return &remote.PollResponse{
			Status: remote.StatusError,
			Error:  remote.DetailOf(entry.outcome.err),
		}
	}
	return &remote.PollResponse{
		Status: remote.StatusOK,
		Value:  entry.outcome.value,
	}
}

// evictExpired drops completed entries older than the retention window.
func (r *results) evictExpired() {
	deadline := time.Now().Add(-r.retention)
	expired := make([]string, 0)
	r.entries.Range(func(token string, entry *pendingResult) {
		if entry.completed && entry.completedAt.Before(deadline) {
			expired = append(expired, token)
		}
	})
	for _, token := range expired {
		r.entries.Delete(token)
	}
}

// reset drops every entry.
func (r *results) reset() {
	r.entries.Reset()
}
