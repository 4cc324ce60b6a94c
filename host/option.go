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

package host

import (
	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/log"
)

// Option configures a Host at construction time.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(logger log.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithKinds adds agent types to the host's allow-list. Only allow-listed
// kinds can be constructed through the wire registration path.
func WithKinds(kinds ...any) Option {
	return func(h *Host) {
		for _, kind := range kinds {
			h.kinds.Register(kind)
		}
	}
}

// WithRegistry replaces the allow-list with a pre-built registry.
func WithRegistry(registry agent.Registry) Option {
	return func(h *Host) { h.kinds = registry }
}
