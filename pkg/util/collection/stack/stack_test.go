// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedStack_ReverseOrder(t *testing.T) {
	s := NewBoundedStack[int](256)
	//
	for i := range 256 {
		require.NoError(t, s.Push(i))
	}
	// Capacity reached
	assert.ErrorIs(t, s.Push(256), ErrOverflow)
	assert.Equal(t, uint(256), s.Len())
	//
	for i := 255; i >= 0; i-- {
		v, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	//
	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.True(t, s.IsEmpty())
}

func TestStack_Unbounded(t *testing.T) {
	s := NewStack[string]()
	//
	for range 1000 {
		require.NoError(t, s.Push("x"))
	}
	//
	assert.Equal(t, uint(1000), s.Len())
	assert.Equal(t, uint(0), s.Capacity())
}

func TestStack_TopAndPeek(t *testing.T) {
	s := NewStack[int]()
	assert.Nil(t, s.Top())
	//
	_, ok := s.Peek(0)
	assert.False(t, ok)
	//
	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	*s.Top() = 3
	//
	v, ok := s.Peek(0)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = s.Peek(1)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{1, 3}, s.Items())
}
