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

// Package address provides the canonical representation of an agent
// identity in an AgentMesh deployment.
//
// An Identity designates exactly one live agent instance inside the
// registry of the host that owns it. It is made of the following parts:
//
//   - Kind: registered type name of the agent
//   - Host: network host or IP where the owning host process is reachable
//   - Port: TCP port where the owning host process is reachable
//   - ID: unique, opaque identifier of the agent instance (UUIDv4)
//
// The canonical textual representation of an Identity is:
//
//	agentmesh://<kind>@<host>:<port>/<id>
//
// Identities are immutable after creation and are the only thing that
// ever crosses a process boundary when agents reference each other: the
// real instance lives solely in its owning host's registry.
package address

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/internal/validation"
)

// scheme defines the AgentMesh addressing scheme.
const scheme = "agentmesh"

// kindPattern matches valid agent kind names: dotted segments of word
// characters, with optional non-leading '-' as produced by the type
// registry.
const kindPattern = "^[a-zA-Z0-9][a-zA-Z0-9-_]*(\\.[a-zA-Z0-9][a-zA-Z0-9-_]*)*$"

// Identity is the address of a single agent instance.
// Identity marshals to and from its canonical textual form in JSON, so a
// nested agent reference inside a message or an envelope is always the
// identity string, never a copied object graph.
type Identity struct {
	ID   string
	Kind string
	Host string
	Port int
}

var _ validation.Validator = (*Identity)(nil)

// New creates an Identity for the given kind owned by host:port.
// A fresh unique ID is generated. New does not validate its inputs;
// call Validate to verify the resulting identity.
func New(kind, host string, port int) Identity {
	return Identity{
		ID:   uuid.NewString(),
		Kind: kind,
		Host: host,
		Port: port,
	}
}

// From parses the canonical textual form back into an Identity.
func From(s string) (Identity, error) {
	rest, ok := strings.CutPrefix(s, scheme+"://")
	if !ok {
		return Identity{}, fmt.Errorf("%w: %s", errors.ErrInvalidIdentity, s)
	}
	kind, rest, ok := strings.Cut(rest, "@")
	if !ok {
		return Identity{}, fmt.Errorf("%w: %s", errors.ErrInvalidIdentity, s)
	}
	hostport, id, ok := strings.Cut(rest, "/")
	if !ok {
		return Identity{}, fmt.Errorf("%w: %s", errors.ErrInvalidIdentity, s)
	}
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", errors.ErrInvalidIdentity, s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", errors.ErrInvalidIdentity, s)
	}
	identity := Identity{ID: id, Kind: kind, Host: host, Port: port}
	if err := identity.Validate(); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// String returns the canonical textual form of the identity.
func (x Identity) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", scheme, x.Kind, x.HostPort(), x.ID)
}

// HostPort returns the owning host's network address as host:port.
func (x Identity) HostPort() string {
	return net.JoinHostPort(x.Host, strconv.Itoa(x.Port))
}

// Equals reports whether the two identities designate the same agent
// instance.
func (x Identity) Equals(other Identity) bool {
	return x.ID == other.ID &&
		x.Kind == other.Kind &&
		strings.EqualFold(x.Host, other.Host) &&
		x.Port == other.Port
}

// IsZero reports whether the identity is the zero value.
func (x Identity) IsZero() bool {
	return x == Identity{}
}

// Validate verifies the identity invariants: a non-empty ID, a
// pattern-valid kind and a valid TCP host:port.
func (x Identity) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddAssertion(x.ID != "", "identity id is required").
		AddValidator(validation.NewPatternValidator(kindPattern, x.Kind, fmt.Errorf("%w: invalid kind=(%s)", errors.ErrInvalidIdentity, x.Kind))).
		AddValidator(validation.NewTCPAddressValidator(x.HostPort())).
		Validate()
}

// MarshalText implements encoding.TextMarshaler so that nested agent
// references embed as their canonical string.
func (x Identity) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Identity) UnmarshalText(text []byte) error {
	parsed, err := From(string(text))
	if err != nil {
		return err
	}
	*x = parsed
	return nil
}
