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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("With passing chain", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(true, "never raised").
			AddValidator(NewBooleanValidator(true, "never raised")).
			Validate()
		require.NoError(t, err)
	})
	t.Run("With fail fast", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(false, "first violation").
			AddAssertion(false, "second violation").
			Validate()
		require.Error(t, err)
		assert.EqualError(t, err, "first violation")
	})
	t.Run("With all errors", func(t *testing.T) {
		err := New(AllErrors()).
			AddAssertion(false, "first violation").
			AddAssertion(false, "second violation").
			Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first violation")
		assert.Contains(t, err.Error(), "second violation")
	})
}

func TestPatternValidator(t *testing.T) {
	t.Run("With matching expression", func(t *testing.T) {
		require.NoError(t, NewPatternValidator("^[a-z]+$", "abc", nil).Validate())
	})
	t.Run("With generic violation", func(t *testing.T) {
		err := NewPatternValidator("^[a-z]+$", "ABC", nil).Validate()
		require.Error(t, err)
	})
	t.Run("With custom error", func(t *testing.T) {
		custom := errors.New("bad kind")
		err := NewPatternValidator("^[a-z]+$", "ABC", custom).Validate()
		require.ErrorIs(t, err, custom)
	})
}

func TestTCPAddressValidator(t *testing.T) {
	t.Run("With valid address", func(t *testing.T) {
		require.NoError(t, NewTCPAddressValidator("127.0.0.1:8080").Validate())
	})
	t.Run("With missing port", func(t *testing.T) {
		require.Error(t, NewTCPAddressValidator("127.0.0.1").Validate())
	})
	t.Run("With empty host", func(t *testing.T) {
		require.Error(t, NewTCPAddressValidator(":8080").Validate())
	})
	t.Run("With out of range port", func(t *testing.T) {
		require.Error(t, NewTCPAddressValidator("127.0.0.1:70000").Validate())
	})
	t.Run("With garbage port", func(t *testing.T) {
		require.Error(t, NewTCPAddressValidator("127.0.0.1:http").Validate())
	})
}
