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

// Package errors defines the error taxonomy of the AgentMesh runtime.
//
// Routing failures (unknown agent, unknown method) are envelope-level
// errors reported back to the caller and never crash a host. Launcher and
// handshake failures are fatal to the attempt that triggered them and are
// surfaced to the caller to decide. Agent execution failures travel back
// through the result placeholder as a RemoteError preserving the original
// error kind so calling code can branch on it identically to a local
// failure.
package errors

import (
	"errors"
)

var (
	// ErrProcessLaunch is returned when spawning a child host process or
	// waiting for its readiness fails. The partially-started process is
	// killed before this error propagates.
	ErrProcessLaunch = errors.New("host process launch failed")

	// ErrUnreachableHost is returned when the handshake with an
	// independently managed host does not complete within the timeout.
	ErrUnreachableHost = errors.New("host is not reachable")

	// ErrRegistrationClosed is returned when registering an agent on a
	// host whose registry has been shut down.
	ErrRegistrationClosed = errors.New("host registry is closed")

	// ErrRegistrationFailed is returned when an instance cannot be
	// registered: its capability surface is rejected or its constructor
	// arguments are refused.
	ErrRegistrationFailed = errors.New("agent registration failed")

	// ErrTypeNotRegistered is returned when attempting to construct an
	// agent kind that is not in the host's allow-list.
	ErrTypeNotRegistered = errors.New("agent type is not registered")

	// ErrInstanceNotAnAgent is returned when a registered type does not
	// implement the Agent interface.
	ErrInstanceNotAnAgent = errors.New("failed to create instance. Reason: instance does not implement the Agent interface")

	// ErrUnknownAgent is returned when an envelope targets an identity
	// absent from the host registry.
	ErrUnknownAgent = errors.New("agent is not found")

	// ErrMethodNotFound is returned when an envelope names a method that
	// is not part of the target agent's capability surface.
	ErrMethodNotFound = errors.New("method is not found")

	// ErrRemoteExecution indicates that the agent method raised during
	// remote execution. The concrete error arrives as a RemoteError.
	ErrRemoteExecution = errors.New("remote execution failed")

	// ErrRequestTimeout indicates that a bounded wait elapsed before the
	// remote call completed. The underlying call may still finish later
	// but its result is discarded by the caller.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrUnknownToken is returned when polling a call token the host does
	// not know about.
	ErrUnknownToken = errors.New("call token is not found")

	// ErrHostNotStarted is returned when dispatching against a host that
	// has not been started.
	ErrHostNotStarted = errors.New("host is not running")

	// ErrHostAlreadyStarted is returned when starting an already running host.
	ErrHostAlreadyStarted = errors.New("host has already started")

	// ErrInvalidIdentity is returned when an agent identity is malformed.
	ErrInvalidIdentity = errors.New("invalid agent identity")

	// ErrInvalidHost is returned when a remoting call targets a host
	// address that can never be reached, such as an empty host or a port
	// outside the valid range.
	ErrInvalidHost = errors.New("invalid host")

	// ErrInvalidMessage indicates that a wire message is structurally invalid.
	ErrInvalidMessage = errors.New("invalid remote message")

	// ErrEnvelopeConsumed is returned when an invocation envelope is
	// dispatched more than once.
	ErrEnvelopeConsumed = errors.New("envelope has already been consumed")
)

// Is reports whether any error in err's tree matches target.
// It is a convenience re-export so callers branch on runtime errors
// without importing both packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
