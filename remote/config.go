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

package remote

import (
	"time"

	"github.com/agentmesh/agentmesh/internal/validation"
)

// Config bounds every remoting interaction: where a host binds, how long
// transmissions and handshakes may take, and how many instance worker
// streams a host runs concurrently.
//
// BindAddr should be a concrete IP so the host binds to a deterministic
// interface; 127.0.0.1 is the default for single-machine child
// topologies. A BindPort of zero lets the launcher pick an ephemeral
// port.
type Config struct {
	bindAddr               string
	bindPort               int
	callTimeout            time.Duration
	handshakeTimeout       time.Duration
	pollInterval           time.Duration
	resultRetention        time.Duration
	maxConcurrentInstances int
	inboxCapacity          int
	serializer             Serializer
}

var _ validation.Validator = (*Config)(nil)

// NewConfig returns a Config bound to addr:port with the supplied
// options applied over the defaults.
func NewConfig(addr string, port int, opts ...Option) *Config {
	cfg := DefaultConfig()
	cfg.bindAddr = addr
	cfg.bindPort = port
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DefaultConfig returns the default remoting config.
func DefaultConfig() *Config {
	return &Config{
		bindAddr:               "127.0.0.1",
		bindPort:               0,
		callTimeout:            60 * time.Second,
		handshakeTimeout:       5 * time.Second,
		pollInterval:           50 * time.Millisecond,
		resultRetention:        5 * time.Minute,
		maxConcurrentInstances: 128,
		inboxCapacity:          64,
		serializer:             NewJSONSerializer(),
	}
}

// BindAddr returns the bind or target address.
func (x *Config) BindAddr() string { return x.bindAddr }

// BindPort returns the bind or target port.
func (x *Config) BindPort() int { return x.bindPort }

// CallTimeout bounds one envelope transmission, including the blocking
// execution of a sync call.
func (x *Config) CallTimeout() time.Duration { return x.callTimeout }

// HandshakeTimeout bounds the liveness handshake and each readiness
// probe during a child launch.
func (x *Config) HandshakeTimeout() time.Duration { return x.handshakeTimeout }

// PollInterval is the delay between two placeholder resolution polls.
func (x *Config) PollInterval() time.Duration { return x.pollInterval }

// ResultRetention is how long a host keeps a completed async result
// before the janitor evicts it.
func (x *Config) ResultRetention() time.Duration { return x.resultRetention }

// MaxConcurrentInstances bounds the instance worker streams a host
// executes concurrently.
func (x *Config) MaxConcurrentInstances() int { return x.maxConcurrentInstances }

// InboxCapacity is the buffered capacity of one instance's envelope
// inbox.
func (x *Config) InboxCapacity() int { return x.inboxCapacity }

// Serializer returns the wire serializer.
func (x *Config) Serializer() Serializer { return x.serializer }

// Validate verifies the config invariants.
func (x *Config) Validate() error {
	return validation.
		New(validation.AllErrors()).
		AddAssertion(x.bindAddr != "", "bind address is required").
		AddAssertion(x.bindPort >= 0, "bind port must not be negative").
		AddAssertion(x.callTimeout > 0, "call timeout must be positive").
		AddAssertion(x.handshakeTimeout > 0, "handshake timeout must be positive").
		AddAssertion(x.pollInterval > 0, "poll interval must be positive").
		AddAssertion(x.resultRetention > 0, "result retention must be positive").
		AddAssertion(x.maxConcurrentInstances > 0, "max concurrent instances must be positive").
		AddAssertion(x.inboxCapacity > 0, "inbox capacity must be positive").
		AddAssertion(x.serializer != nil, "serializer is required").
		Validate()
}
