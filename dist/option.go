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
	"github.com/agentmesh/agentmesh/launcher"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

type distConfig struct {
	session      *launcher.HostSession
	remoteConfig *remote.Config
	logger       log.Logger
	attachHost   string
	attachPort   int
}

func newDistConfig(opts ...Option) *distConfig {
	cfg := &distConfig{
		remoteConfig: remote.DefaultConfig(),
		logger:       log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a ToDist call.
type Option func(*distConfig)

// WithSession places the new instance on a host session the caller
// already holds instead of creating a fresh one. Session reuse is always
// explicit; ToDist never shares sessions behind the caller's back.
func WithSession(session *launcher.HostSession) Option {
	return func(cfg *distConfig) {
		cfg.session = session
	}
}

// WithConfig overrides the remoting config used for launching and for
// the proxy's calls.
func WithConfig(config *remote.Config) Option {
	return func(cfg *distConfig) {
		cfg.remoteConfig = config
	}
}

// WithLogger sets the logger used by the launcher and the proxy.
func WithLogger(logger log.Logger) Option {
	return func(cfg *distConfig) {
		cfg.logger = logger
	}
}

// WithAttach targets an independently managed host at host:port instead
// of spawning a child host.
func WithAttach(host string, port int) Option {
	return func(cfg *distConfig) {
		cfg.attachHost = host
		cfg.attachPort = port
	}
}
