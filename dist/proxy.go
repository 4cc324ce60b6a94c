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

package dist

import (
	"context"
	"time"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/future"
	"github.com/agentmesh/agentmesh/launcher"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/message"
	"github.com/agentmesh/agentmesh/remote"
)

// AgentProxy stands in for one remote agent instance. It satisfies the
// same call shape as the local instance: Reply ships a message and hands
// back a placeholder immediately, Observe delivers fire-and-forget input,
// and Call reaches any extended method by name.
//
// A proxy is safe for concurrent use. Calls to the same instance are
// executed in arrival order by the owning host; calls to different
// instances run concurrently.
type AgentProxy struct {
	identity     address.Identity
	session      *launcher.HostSession
	ownsSession  bool
	pollInterval time.Duration
	logger       log.Logger
}

// Identity returns the remote instance identity the proxy points at.
func (p *AgentProxy) Identity() address.Identity {
	return p.identity
}

// Session returns the host session the proxy rides on.
func (p *AgentProxy) Session() *launcher.HostSession {
	return p.session
}

// Reply ships the message to the remote instance and returns without
// waiting for the computation. The placeholder resolves to the reply
// message once the remote instance has produced it; callers that do not
// Await simply never pay for the result.
func (p *AgentProxy) Reply(ctx context.Context, msg *message.Msg) (*future.Placeholder, error) {
	return p.Call(ctx, agent.MethodReply, msg, remote.AsyncCall)
}

// Observe delivers the message to the remote instance and waits for the
// delivery acknowledgement. No value comes back.
func (p *AgentProxy) Observe(ctx context.Context, msg *message.Msg) error {
	placeholder, err := p.Call(ctx, agent.MethodObserve, msg, remote.SyncCall)
	if err != nil {
		return err
	}
	_, err = placeholder.Await(ctx)
	return err
}

// Call invokes an arbitrary method on the remote instance. A sync call
// returns an already resolved placeholder; an async call returns a
// pending one backed by the call token.
func (p *AgentProxy) Call(ctx context.Context, method string, args any, kind remote.CallKind) (*future.Placeholder, error) {
	envelope, err := remote.NewEnvelope(p.identity, method, args, kind)
	if err != nil {
		return nil, err
	}

	response, err := p.session.Remoting().Invoke(ctx, envelope)
	if err != nil {
		return nil, err
	}

	switch response.Status {
	case remote.StatusOK:
		return future.Resolved(p.identity, response.Value), nil
	case remote.StatusPending:
		return future.New(p.identity, response.Token, p.session.Remoting(), p.pollInterval), nil
	case remote.StatusError:
		return nil, response.Error.AsError()
	default:
		return nil, errors.New("unexpected invoke status " + string(response.Status))
	}
}

// Stop deregisters the remote instance from its owning host. The proxy
// must not be used afterwards.
func (p *AgentProxy) Stop(ctx context.Context) error {
	return p.session.Remoting().Stop(ctx, p.identity)
}

// Shutdown stops the remote instance and, when the proxy owns its host
// session, tears the session down as well.
func (p *AgentProxy) Shutdown(ctx context.Context) error {
	stopErr := p.Stop(ctx)
	if errors.Is(stopErr, errors.ErrUnknownAgent) {
		stopErr = nil
	}
	if p.ownsSession {
		if err := p.session.Shutdown(ctx); err != nil {
			return err
		}
	}
	return stopErr
}

func (p *AgentProxy) String() string {
	return "proxy->" + p.identity.String()
}
