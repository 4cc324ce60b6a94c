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
	"reflect"
	"strings"

	"github.com/agentmesh/agentmesh/internal/syncmap"
)

// Registry is the allow-list of agent kinds a host can construct.
// Kinds are registered by value or by reflect.Type and resolved by their
// lower-trimmed type name.
type Registry interface {
	// Register adds an agent type to the allow-list.
	Register(v any)
	// Deregister removes a registered agent type.
	Deregister(v any)
	// Exists returns true when the given agent type is registered.
	Exists(v any) bool
	// TypesMap returns the registered kinds at this point in time.
	TypesMap() map[string]reflect.Type
	// TypeOf returns the type registered under the given kind name.
	TypeOf(name string) (reflect.Type, bool)
}

type registry struct {
	m *syncmap.SyncMap[string, reflect.Type]
}

var _ Registry = (*registry)(nil)

// NewRegistry creates an empty agent type registry.
func NewRegistry() Registry {
	return &registry{
		m: syncmap.New[string, reflect.Type](),
	}
}

// Register adds an agent type to the allow-list.
func (x *registry) Register(v any) {
	x.m.Set(Kind(v), reflectType(v))
}

// Deregister removes a registered agent type.
func (x *registry) Deregister(v any) {
	x.m.Delete(Kind(v))
}

// Exists returns true when the given agent type is registered.
func (x *registry) Exists(v any) bool {
	_, ok := x.m.Get(Kind(v))
	return ok
}

// TypesMap returns the registered kinds at this point in time.
func (x *registry) TypesMap() map[string]reflect.Type {
	out := make(map[string]reflect.Type, x.m.Len())
	x.m.Range(func(name string, rtype reflect.Type) {
		out[name] = rtype
	})
	return out
}

// TypeOf returns the type registered under the given kind name.
func (x *registry) TypeOf(name string) (reflect.Type, bool) {
	return x.m.Get(lowTrim(name))
}

// Kind returns the kind name of a given agent value or reflect.Type.
func Kind(v any) string {
	return lowTrim(reflectType(v).String())
}

// reflectType returns the runtime type of the given value, dereferencing
// pointers so that both MyAgent{} and &MyAgent{} register the same kind.
func reflectType(v any) reflect.Type {
	var rtype reflect.Type
	switch typed := v.(type) {
	case reflect.Type:
		rtype = typed
	default:
		rtype = reflect.TypeOf(v)
		if rtype.Kind() == reflect.Ptr {
			rtype = rtype.Elem()
		}
	}
	return rtype
}

func lowTrim(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
