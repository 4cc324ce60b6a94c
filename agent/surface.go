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

package agent

import (
	"context"
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/agentmesh/agentmesh/errors"
	"github.com/agentmesh/agentmesh/message"
)

// reservedMethods are the built-in capability names. An Extended method
// table may not redeclare them.
var reservedMethods = mapset.NewSet(MethodReply, MethodObserve)

// Surface is the complete, fixed capability set of one agent instance.
// It is built once at registration time and never mutated afterwards.
type Surface struct {
	methods map[string]Method
}

// SurfaceOf builds the capability surface of an agent instance: the
// built-in Reply (and Observe when implemented) plus any Extended
// methods. It fails when an Extended table redeclares a reserved name.
func SurfaceOf(instance Agent) (*Surface, error) {
	methods := map[string]Method{
		MethodReply: func(ctx context.Context, args json.RawMessage) (any, error) {
			msg, err := message.Decode(args)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errors.ErrInvalidMessage, err)
			}
			return instance.Reply(ctx, msg)
		},
	}

	if observer, ok := instance.(Observer); ok {
		methods[MethodObserve] = func(ctx context.Context, args json.RawMessage) (any, error) {
			msg, err := message.Decode(args)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errors.ErrInvalidMessage, err)
			}
			return nil, observer.Observe(ctx, msg)
		}
	}

	if extended, ok := instance.(Extended); ok {
		for name, method := range extended.Methods() {
			if reservedMethods.Contains(name) {
				return nil, fmt.Errorf("method name %q is reserved", name)
			}
			if method == nil {
				return nil, fmt.Errorf("method %q has no handler", name)
			}
			methods[name] = method
		}
	}

	return &Surface{methods: methods}, nil
}

// Method returns the named method of the surface.
func (s *Surface) Method(name string) (Method, bool) {
	method, ok := s.methods[name]
	return method, ok
}

// Names returns the declared method names.
func (s *Surface) Names() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	return names
}
