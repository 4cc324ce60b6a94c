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

import "time"

// Option configures a remoting Config.
type Option func(*Config)

// WithCallTimeout bounds one envelope transmission, sync execution
// included.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Config) { c.callTimeout = d }
}

// WithHandshakeTimeout bounds the handshake and readiness probes.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Config) { c.handshakeTimeout = d }
}

// WithPollInterval sets the delay between placeholder resolution polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.pollInterval = d }
}

// WithResultRetention sets how long completed async results are kept
// before eviction.
func WithResultRetention(d time.Duration) Option {
	return func(c *Config) { c.resultRetention = d }
}

// WithMaxConcurrentInstances bounds the concurrently executing instance
// worker streams on a host.
func WithMaxConcurrentInstances(n int) Option {
	return func(c *Config) { c.maxConcurrentInstances = n }
}

// WithInboxCapacity sets the buffered capacity of each instance inbox.
func WithInboxCapacity(n int) Option {
	return func(c *Config) { c.inboxCapacity = n }
}

// WithSerializer swaps the wire serializer.
func WithSerializer(s Serializer) Option {
	return func(c *Config) { c.serializer = s }
}
