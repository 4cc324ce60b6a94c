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
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/breaker"
	"github.com/agentmesh/agentmesh/errors"
	ihttp "github.com/agentmesh/agentmesh/internal/http"
	"github.com/agentmesh/agentmesh/internal/syncmap"
)

// Remoting is the caller-side client of the agent host endpoints. One
// instance multiplexes calls to any number of hosts over pooled HTTP/2
// connections; calls to an endpoint that keeps failing are short-circuited
// by a per-endpoint breaker.
//
// Make sure to call Close to release pooled connections.
type Remoting interface {
	// Register asks the host at host:port to construct and register an
	// instance of the allow-listed kind with the given constructor args.
	Register(ctx context.Context, host string, port int, kind string, args map[string]any) (address.Identity, error)
	// Invoke ships an envelope to the target's owning host. A sync
	// envelope blocks until the value is in hand; an async envelope
	// answers pending with a call token.
	Invoke(ctx context.Context, envelope *Envelope) (*InvokeResponse, error)
	// Poll checks the completion of an async call on the owning host.
	Poll(ctx context.Context, identity address.Identity, token string) (*PollResponse, error)
	// Handshake probes the host at host:port for liveness and returns its
	// identity banner.
	Handshake(ctx context.Context, host string, port int) (*Banner, error)
	// Stop deregisters one instance from its owning host.
	Stop(ctx context.Context, identity address.Identity) error
	// HTTPClient exposes the underlying pooled client.
	HTTPClient() *nethttp.Client
	// Close releases the pooled connections.
	Close()
}

type remoting struct {
	config   *Config
	client   *nethttp.Client
	breakers *syncmap.SyncMap[string, *breaker.CircuitBreaker]
}

var _ Remoting = (*remoting)(nil)

// NewRemoting creates a remoting client driven by the given config.
// A nil config falls back to DefaultConfig.
func NewRemoting(config *Config) Remoting {
	if config == nil {
		config = DefaultConfig()
	}
	return &remoting{
		config:   config,
		client:   ihttp.NewClient(),
		breakers: syncmap.New[string, *breaker.CircuitBreaker](),
	}
}

// Register implements Remoting.
func (r *remoting) Register(ctx context.Context, host string, port int, kind string, args map[string]any) (address.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.CallTimeout())
	defer cancel()

	request := &RegisterRequest{Kind: kind, Args: args}
	response := new(RegisterResponse)
	if err := r.roundTrip(ctx, host, port, RegisterPath, request, response); err != nil {
		return address.Identity{}, err
	}
	if response.Error != nil {
		return address.Identity{}, response.Error.AsError()
	}
	return response.Identity, nil
}

// Invoke implements Remoting.
func (r *remoting) Invoke(ctx context.Context, envelope *Envelope) (*InvokeResponse, error) {
	if err := envelope.Consume(); err != nil {
		return nil, err
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.CallTimeout())
	defer cancel()

	response := new(InvokeResponse)
	if err := r.roundTrip(ctx, envelope.Target.Host, envelope.Target.Port, InvokePath, envelope, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Poll implements Remoting.
func (r *remoting) Poll(ctx context.Context, identity address.Identity, token string) (*PollResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.CallTimeout())
	defer cancel()

	request := &PollRequest{Token: token}
	response := new(PollResponse)
	if err := r.roundTrip(ctx, identity.Host, identity.Port, PollPath, request, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Handshake implements Remoting.
func (r *remoting) Handshake(ctx context.Context, host string, port int) (*Banner, error) {
	if err := validTarget(host, port); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.HandshakeTimeout())
	defer cancel()

	url := ihttp.URL(host, port, HandshakePath)
	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnreachableHost, err)
	}

	response, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnreachableHost, err)
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("%w: unexpected handshake status %s", errors.ErrUnreachableHost, response.Status)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnreachableHost, err)
	}

	banner := new(Banner)
	if err := r.config.Serializer().Deserialize(data, banner); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnreachableHost, err)
	}
	return banner, nil
}

// Stop implements Remoting.
func (r *remoting) Stop(ctx context.Context, identity address.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.CallTimeout())
	defer cancel()

	request := &StopRequest{Identity: identity}
	response := new(InvokeResponse)
	if err := r.roundTrip(ctx, identity.Host, identity.Port, StopPath, request, response); err != nil {
		return err
	}
	if response.Error != nil {
		return response.Error.AsError()
	}
	return nil
}

// HTTPClient implements Remoting.
func (r *remoting) HTTPClient() *nethttp.Client {
	return r.client
}

// Close implements Remoting.
func (r *remoting) Close() {
	r.client.CloseIdleConnections()
}

// roundTrip posts a JSON payload to the endpoint and decodes the reply,
// routed through the endpoint's breaker.
func (r *remoting) roundTrip(ctx context.Context, host string, port int, path string, in, out any) error {
	if err := validTarget(host, port); err != nil {
		return err
	}

	endpointBreaker := r.breakerFor(fmt.Sprintf("%s:%d", host, port))
	err := endpointBreaker.Execute(ctx, func(ctx context.Context) error {
		return r.post(ctx, host, port, path, in, out)
	})
	if stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errors.ErrRequestTimeout, err)
	}
	return err
}

func (r *remoting) post(ctx context.Context, host string, port int, path string, in, out any) error {
	payload, err := r.config.Serializer().Serialize(in)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidMessage, err)
	}

	url := ihttp.URL(host, port, path)
	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		return fmt.Errorf("remoting request %s failed with status %s", path, response.Status)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	return r.config.Serializer().Deserialize(data, out)
}

// validTarget rejects host addresses no dial can ever reach.
func validTarget(host string, port int) error {
	if host == "" || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %q:%d", errors.ErrInvalidHost, host, port)
	}
	return nil
}

func (r *remoting) breakerFor(endpoint string) *breaker.CircuitBreaker {
	if existing, ok := r.breakers.Get(endpoint); ok {
		return existing
	}
	created, _ := r.breakers.GetOrSet(endpoint, breaker.New())
	return created
}
