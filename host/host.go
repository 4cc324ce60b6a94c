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

// Package host implements the agent host: a long-lived server process
// that owns a registry of live agent instances and executes invocation
// envelopes against them.
//
// Every registered instance gets its own worker stream, so invocations
// against one instance run strictly sequentially in arrival order and
// never interleave mutation of agent-local state, while distinct
// instances execute concurrently up to the configured cap. Agent
// execution errors are captured per invocation and reported back as
// structured envelope-level errors; they never crash the host process.
package host

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/errors"
	ihttp "github.com/agentmesh/agentmesh/internal/http"
	"github.com/agentmesh/agentmesh/internal/syncmap"
	"github.com/agentmesh/agentmesh/internal/ticker"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

// Version is the runtime version presented in the handshake banner.
const Version = "0.3.0"

// serverName identifies the host implementation in the banner.
const serverName = "agentmesh-host"

// Host serves remote invocations against its registry of agent
// instances. Create one with New, register the allow-listed kinds, then
// Start it. The zero value is not usable.
type Host struct {
	config    *remote.Config
	logger    log.Logger
	kinds     agent.Registry
	instances *syncmap.SyncMap[string, *process]
	results   *results
	sem       *semaphore.Weighted
	janitor   *ticker.Ticker

	server      *nethttp.Server
	listener    net.Listener
	janitorDone chan struct{}
	started     *atomic.Bool
	accepting   *atomic.Bool
	startedAt   time.Time
	port        int
}

// New creates a host driven by the given remoting config.
// A nil config falls back to remote.DefaultConfig.
func New(config *remote.Config, opts ...Option) (*Host, error) {
	if config == nil {
		config = remote.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	janitorInterval := config.ResultRetention() / 2
	if janitorInterval < 10*time.Millisecond {
		janitorInterval = 10 * time.Millisecond
	}

	h := &Host{
		config:    config,
		logger:    log.DefaultLogger,
		kinds:     agent.NewRegistry(),
		instances: syncmap.New[string, *process](),
		results:   newResults(config.ResultRetention()),
		sem:       semaphore.NewWeighted(int64(config.MaxConcurrentInstances())),
		janitor:   ticker.New(janitorInterval),
		started:   atomic.NewBool(false),
		accepting: atomic.NewBool(false),
		port:      config.BindPort(),
	}

	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Kinds returns the host's allow-list of constructible agent kinds.
func (h *Host) Kinds() agent.Registry {
	return h.kinds
}

// Host returns the bind address.
func (h *Host) Host() string {
	return h.config.BindAddr()
}

// Port returns the effective bind port. Before Start it is the
// configured port, which may be zero; after Start it is the actual
// listening port.
func (h *Host) Port() int {
	return h.port
}

// Banner returns the identity banner served to handshake probes.
func (h *Host) Banner() *remote.Banner {
	return &remote.Banner{
		Server:    serverName,
		Version:   Version,
		Host:      h.Host(),
		Port:      h.Port(),
		StartedAt: h.startedAt,
	}
}

// Start binds the listener and serves the remoting endpoints until Stop.
// It returns once the host is accepting connections.
func (h *Host) Start(ctx context.Context) error {
	if !h.started.CompareAndSwap(false, true) {
		return errors.ErrHostAlreadyStarted
	}

	server := ihttp.NewServer(h.config.BindAddr(), h.config.BindPort(), h.newRouter())
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		h.started.Store(false)
		return fmt.Errorf("host failed to bind %s: %w", server.Addr, err)
	}

	h.server = server
	h.listener = listener
	h.port = listener.Addr().(*net.TCPAddr).Port
	h.startedAt = time.Now()
	h.accepting.Store(true)
	h.janitorLoop()

	go func() {
		if err := server.Serve(listener); err != nil && err != nethttp.ErrServerClosed {
			h.logger.Errorf("host server stopped unexpectedly: %v", err)
		}
	}()

	h.logger.Infof("agent host listening on %s:%d", h.Host(), h.Port())
	return nil
}

// Stop stops accepting new envelopes, drains the in-flight work of every
// instance, releases the registry and shuts the server down gracefully.
func (h *Host) Stop(ctx context.Context) error {
	if !h.started.CompareAndSwap(true, false) {
		return errors.ErrHostNotStarted
	}
	h.accepting.Store(false)
	h.janitor.Stop()
	close(h.janitorDone)

	var errs error
	h.instances.Range(func(_ string, proc *process) {
		errs = multierr.Append(errs, proc.drain(ctx))
	})
	h.instances.Reset()
	h.results.reset()

	if h.server != nil {
		errs = multierr.Append(errs, h.server.Shutdown(ctx))
	}

	h.logger.Infof("agent host on %s:%d stopped", h.Host(), h.Port())
	return errs
}

// Register stores an already constructed instance under a fresh identity
// and starts its worker stream.
func (h *Host) Register(instance agent.Agent) (address.Identity, error) {
	if !h.accepting.Load() {
		return address.Identity{}, errors.ErrRegistrationClosed
	}

	surface, err := agent.SurfaceOf(instance)
	if err != nil {
		return address.Identity{}, fmt.Errorf("%w: %w", errors.ErrRegistrationFailed, err)
	}

	identity := address.New(agent.Kind(instance), h.Host(), h.Port())
	proc := newProcess(identity, instance, surface, h.config.InboxCapacity(), h.sem, h.config.Serializer(), h.results, h.logger)
	h.instances.Set(identity.ID, proc)
	go proc.run()

	h.logger.Infof("registered agent=(%s)", identity)
	return identity, nil
}

// RegisterKind constructs an instance of an allow-listed kind with the
// given constructor arguments, then registers it. This is the wire-facing
// registration path: the caller ships kind+args instead of the instance,
// avoiding a duplicate initialization on the caller side.
func (h *Host) RegisterKind(kind string, args map[string]any) (address.Identity, error) {
	if !h.accepting.Load() {
		return address.Identity{}, errors.ErrRegistrationClosed
	}

	rtype, ok := h.kinds.TypeOf(kind)
	if !ok {
		return address.Identity{}, fmt.Errorf("%w: %s", errors.ErrTypeNotRegistered, kind)
	}

	instance, ok := reflect.New(rtype).Interface().(agent.Agent)
	if !ok {
		return address.Identity{}, errors.ErrInstanceNotAnAgent
	}

	if configurable, ok := instance.(agent.Configurable); ok {
		if err := configurable.Configure(args); err != nil {
			return address.Identity{}, fmt.Errorf("%w: %w", errors.ErrRegistrationFailed, err)
		}
	}
	return h.Register(instance)
}

// Deregister removes one instance from the registry after draining its
// queued invocations.
func (h *Host) Deregister(ctx context.Context, identity address.Identity) error {
	proc, ok := h.instances.Get(identity.ID)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownAgent, identity)
	}
	h.instances.Delete(identity.ID)
	if err := proc.drain(ctx); err != nil {
		return err
	}
	h.logger.Infof("deregistered agent=(%s)", identity)
	return nil
}

// Dispatch routes one envelope to its target instance. A sync envelope
// blocks until the method returns; an async one answers immediately with
// the call token to poll.
func (h *Host) Dispatch(ctx context.Context, envelope *remote.Envelope) *remote.InvokeResponse {
	if !h.accepting.Load() {
		return errorResponse(errors.ErrHostNotStarted)
	}
	if err := envelope.Consume(); err != nil {
		return errorResponse(err)
	}
	if err := envelope.Validate(); err != nil {
		return errorResponse(err)
	}

	proc, ok := h.instances.Get(envelope.Target.ID)
	if !ok {
		return errorResponse(fmt.Errorf("%w: %s", errors.ErrUnknownAgent, envelope.Target))
	}

	method, ok := proc.surface.Method(envelope.Method)
	if !ok {
		return errorResponse(fmt.Errorf("%w: %s has no method %q", errors.ErrMethodNotFound, envelope.Target.Kind, envelope.Method))
	}

	inv := &invocation{
		name:   envelope.Method,
		method: method,
		args:   envelope.Args,
	}

	if envelope.Kind == remote.AsyncCall {
		inv.token = uuid.NewString()
		h.results.open(inv.token)
		if err := proc.enqueue(ctx, inv); err != nil {
			h.results.discard(inv.token)
			return errorResponse(err)
		}
		return &remote.InvokeResponse{Status: remote.StatusPending, Token: inv.token}
	}

	inv.done = make(chan *outcome, 1)
	if err := proc.enqueue(ctx, inv); err != nil {
		return errorResponse(err)
	}
	select {
	case result := <-inv.done:
		if result.err != nil {
			return errorResponse(result.err)
		}
		return &remote.InvokeResponse{Status: remote.StatusOK, Value: result.value}
	case <-ctx.Done():
		return errorResponse(fmt.Errorf("%w: %w", errors.ErrRequestTimeout, ctx.Err()))
	}
}

// Poll reports the resolution state of an async call token.
func (h *Host) Poll(token string) *remote.PollResponse {
	if !h.started.Load() {
		return &remote.PollResponse{Status: remote.StatusError, Error: remote.DetailOf(errors.ErrHostNotStarted)}
	}
	return h.results.poll(token)
}

// janitorLoop evicts expired async results in the background until Stop.
func (h *Host) janitorLoop() {
	h.janitorDone = make(chan struct{})
	h.janitor.Start()
	go func() {
		for {
			select {
			case <-h.janitor.Ticks:
				h.results.evictExpired()
			case <-h.janitorDone:
				return
			}
		}
	}()
}

func errorResponse(err error) *remote.InvokeResponse {
	return &remote.InvokeResponse{
		Status: remote.StatusError,
		Error:  remote.DetailOf(err),
	}
}
