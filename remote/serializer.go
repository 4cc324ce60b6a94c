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

import "encoding/json"

// Serializer is the extension point for plugging a custom wire format
// into the remoting layer. The default JSON serializer keeps payloads
// language-agnostic and debuggable; swap it out when a deployment needs a
// denser encoding.
//
// Implementations must be safe for concurrent use and must round-trip a
// value without losing the information the agent needs to reconstruct its
// behavior: text content, structured metadata, and nested agent
// references by identity.
type Serializer interface {
	// Serialize encodes a value into a byte slice suitable for transmission.
	Serialize(v any) ([]byte, error)
	// Deserialize decodes a byte slice produced by Serialize into out.
	Deserialize(data []byte, out any) error
}

// jsonSerializer is the built-in Serializer.
type jsonSerializer struct{}

var _ Serializer = jsonSerializer{}

// NewJSONSerializer returns the built-in JSON serializer.
func NewJSONSerializer() Serializer {
	return jsonSerializer{}
}

// Serialize encodes v as JSON.
func (jsonSerializer) Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Deserialize decodes JSON data into out.
func (jsonSerializer) Deserialize(data []byte, out any) error {
	return json.Unmarshal(data, out)
}
