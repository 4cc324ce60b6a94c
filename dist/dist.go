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

// Package dist turns a local agent kind into a remote instance behind a
// lightweight proxy. ToDist is the single entry point: it brings a host
// session into existence (spawning a child host, attaching to an
// independent one, or reusing a session the caller already holds),
// registers one instance of the requested kind there, and hands back a
// proxy whose calls travel over the wire.
package dist

import (
	"context"
	"fmt"

	"github.com/agentmesh/agentmesh/address"
	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/launcher"
)

// ToDist registers a remote instance of the given agent kind and returns
// a proxy to it. The kind must be allow-listed on the target host; args
// are handed to the instance's Configure hook after construction.
//
// Session ownership follows the topology: a session created here is owned
// by the proxy and torn down by its Shutdown; a session passed in with
// WithSession stays under the caller's control.
func ToDist(ctx context.Context, kind string, args map[string]any, opts ...Option) (*AgentProxy, error) {
	cfg := newDistConfig(opts...)

	session := cfg.session
	ownsSession := false
	if session == nil {
		launch := launcher.New(cfg.remoteConfig, launcher.WithLogger(cfg.logger))
		var err error
		if cfg.attachHost != "" {
			session, err = launch.Attach(ctx, cfg.attachHost, cfg.attachPort)
		} else {
			session, err = launch.Launch(ctx)
		}
		if err != nil {
			return nil, err
		}
		ownsSession = true
	}

	identity, err := session.Remoting().Register(ctx, session.Host(), session.Port(), kind, args)
	if err != nil {
		if ownsSession {
			_ = session.Shutdown(ctx)
		}
		return nil, fmt.Errorf("registering kind %s on %s:%d: %w", kind, session.Host(), session.Port(), err)
	}

	cfg.logger.Infof("registered remote instance %s", identity.String())
	return &AgentProxy{
		identity:     identity,
		session:      session,
		ownsSession:  ownsSession,
		pollInterval: cfg.remoteConfig.PollInterval(),
		logger:       cfg.logger,
	}, nil
}

// Proxy wraps an already registered remote instance without touching the
// host lifecycle. It is the counterpart of ToDist for identities obtained
// out of band, e.g. from a message reference. The session stays under the
// caller's control.
func Proxy(session *launcher.HostSession, identity address.Identity, opts ...Option) (*AgentProxy, error) {
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidIdentity, err)
	}
	cfg := newDistConfig(opts...)
	return &AgentProxy{
		identity:     identity,
		session:      session,
		pollInterval: cfg.remoteConfig.PollInterval(),
		logger:       cfg.logger,
	}, nil
}
