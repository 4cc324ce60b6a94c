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

package errors

import (
	"errors"
	"fmt"
)

// Error kinds carried on the wire. The host maps a dispatch or execution
// error to its symbolic kind; the caller side maps the kind back to the
// matching sentinel so errors.Is keeps working across the process
// boundary.
const (
	KindUnknownAgent   = "UnknownAgent"
	KindMethodNotFound = "MethodNotFound"
	KindRegistration   = "Registration"
	KindTimeout        = "Timeout"
	KindUnknownToken   = "UnknownToken"
	KindExecution      = "RemoteExecution"
	KindInternal       = "Internal"
)

// RemoteError is the local re-raise of an error that happened inside a
// remote host. It preserves the original error kind and message and
// unwraps to the matching sentinel.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewRemoteError creates a RemoteError from a wire error detail.
func NewRemoteError(kind, message string) *RemoteError {
	return &RemoteError{Kind: kind, Message: message}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap maps the wire kind back to the runtime sentinel.
func (e *RemoteError) Unwrap() error {
	switch e.Kind {
	case KindUnknownAgent:
		return ErrUnknownAgent
	case KindMethodNotFound:
		return ErrMethodNotFound
	case KindRegistration:
		return ErrRegistrationClosed
	case KindTimeout:
		return ErrRequestTimeout
	case KindUnknownToken:
		return ErrUnknownToken
	default:
		return ErrRemoteExecution
	}
}

// KindOf maps a host-side error to its symbolic wire kind. Errors outside
// the routing taxonomy are execution failures raised by the agent method
// itself.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUnknownAgent):
		return KindUnknownAgent
	case errors.Is(err, ErrMethodNotFound):
		return KindMethodNotFound
	case errors.Is(err, ErrRegistrationClosed), errors.Is(err, ErrRegistrationFailed), errors.Is(err, ErrTypeNotRegistered), errors.Is(err, ErrInstanceNotAnAgent):
		return KindRegistration
	case errors.Is(err, ErrRequestTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnknownToken):
		return KindUnknownToken
	default:
		return KindExecution
	}
}
