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

// Package remote defines the wire contract between a remote proxy and an
// agent host: the invocation envelope, the request/response shapes of the
// remoting endpoints, and the client that speaks them over HTTP/2
// cleartext with JSON payloads.
package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/internal/validation"
)

// Remoting endpoint paths.
const (
	RegisterPath  = "/v1/register"
	InvokePath    = "/v1/invoke"
	PollPath      = "/v1/poll"
	HandshakePath = "/v1/handshake"
	StopPath      = "/v1/stop"
)

// CallKind selects how the host executes an envelope.
type CallKind string

const (
	// SyncCall blocks the dispatch until the method returns and ships the
	// result directly.
	SyncCall CallKind = "sync"
	// AsyncCall enqueues the work and returns a call token immediately.
	AsyncCall CallKind = "async"
)

// Envelope is the serialized representation of one remote method call.
// It is created per call and consumed exactly once by the host.
type Envelope struct {
	Target address.Identity           `json:"target"`
	Method string                     `json:"method"`
	Args   json.RawMessage            `json:"args,omitempty"`
	Kwargs map[string]json.RawMessage `json:"kwargs,omitempty"`
	Kind   CallKind                   `json:"kind"`

	consumed atomic.Bool
}

// NewEnvelope builds an envelope for the given target and method,
// marshaling args into the wire payload.
func NewEnvelope(target address.Identity, method string, args any, kind CallKind) (*Envelope, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidMessage, err)
	}
	return &Envelope{
		Target: target,
		Method: method,
		Args:   payload,
		Kind:   kind,
	}, nil
}

// Consume marks the envelope as dispatched. The first call succeeds;
// every subsequent call fails, so a single envelope can never carry more
// than one invocation.
func (e *Envelope) Consume() error {
	if !e.consumed.CompareAndSwap(false, true) {
		return errors.ErrEnvelopeConsumed
	}
	return nil
}

var _ validation.Validator = (*Envelope)(nil)

// Validate verifies the envelope invariants.
func (e *Envelope) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddValidator(e.Target).
		AddAssertion(e.Method != "", "envelope method is required").
		AddAssertion(e.Kind == SyncCall || e.Kind == AsyncCall, "envelope kind must be sync or async").
		Validate()
}

// Status is the outcome class of a remoting response.
type Status string

const (
	// StatusOK carries a resolved value.
	StatusOK Status = "ok"
	// StatusPending signals that an async call has not completed yet.
	StatusPending Status = "pending"
	// StatusError carries an error detail.
	StatusError Status = "error"
)

// ErrorDetail is the wire form of a host-side error.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AsError converts the detail back into a local error preserving the
// original kind.
func (d *ErrorDetail) AsError() error {
	return errors.NewRemoteError(d.Kind, d.Message)
}

// DetailOf converts a host-side error into its wire form.
func DetailOf(err error) *ErrorDetail {
	return &ErrorDetail{
		Kind:    errors.KindOf(err),
		Message: err.Error(),
	}
}

// RegisterRequest asks a host to construct and register an instance of an
// allow-listed kind with the given constructor arguments.
type RegisterRequest struct {
	Kind string         `json:"kind"`
	Args map[string]any `json:"args,omitempty"`
}

// RegisterResponse carries the identity of the registered instance.
type RegisterResponse struct {
	Identity address.Identity `json:"identity"`
	Error    *ErrorDetail     `json:"error,omitempty"`
}

// InvokeResponse answers an envelope dispatch. A sync call resolves with
// Status ok|error; an async call answers pending with the call token to
// poll.
type InvokeResponse struct {
	Status Status          `json:"status"`
	Value  json.RawMessage `json:"value,omitempty"`
	Token  string          `json:"token,omitempty"`
	Error  *ErrorDetail    `json:"error,omitempty"`
}

// PollRequest checks completion of an async call.
type PollRequest struct {
	Token string `json:"token"`
}

// PollResponse reports the current resolution state of an async call.
type PollResponse struct {
	Status Status          `json:"status"`
	Value  json.RawMessage `json:"value,omitempty"`
	Error  *ErrorDetail    `json:"error,omitempty"`
}

// StopRequest deregisters one instance from its owning host.
type StopRequest struct {
	Identity address.Identity `json:"identity"`
}

// Banner is the identity a host presents during the handshake. It doubles
// as the readiness probe response for child-mode launches and the
// liveness check for independent-mode attaches.
type Banner struct {
	Server    string    `json:"server"`
	Version   string    `json:"version"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
}
