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
package vm

import (
	"testing"

	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocals(t *testing.T) {
	locals := NewLocals[F](2)
	//
	_, err := locals.Copy(0)
	assertStatus(t, COPY_LOCAL_ERROR, err)
	//
	require.NoError(t, locals.Store(0, value.U8Value[F](3)))
	v, err := locals.Copy(0)
	require.NoError(t, err)
	assertValue(t, 3, v)
	// Copy leaves the slot valid
	v, err = locals.Move(0)
	require.NoError(t, err)
	assertValue(t, 3, v)
	// Move does not
	_, err = locals.Move(0)
	assertStatus(t, MOVE_LOCAL_ERROR, err)
	// Store overwrites
	require.NoError(t, locals.Store(1, value.U8Value[F](1)))
	require.NoError(t, locals.Store(1, value.U8Value[F](2)))
	v, _ = locals.Copy(1)
	assertValue(t, 2, v)
	//
	assertStatus(t, OUT_OF_BOUNDS, locals.Store(2, value.U8Value[F](0)))
}

func TestLocalsTable(t *testing.T) {
	table := NewLocalsTable[F]()
	//
	a := table.Alloc(1)
	b := table.Alloc(2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, uint(2), table.Live())
	assert.Equal(t, uint(2), table.Get(b).Len())
	//
	table.Release(a)
	assert.Equal(t, uint(1), table.Live())
	// Identifiers are reused
	c := table.Alloc(3)
	assert.Equal(t, a, c)
	assert.Equal(t, uint(3), table.Get(c).Len())
}

func TestConditionalBlock(t *testing.T) {
	assert.Panics(t, func() { NewConditionalBlock(nil, nil) })
	//
	cond := NewConditionalBlock(nil, &Branch{4, true})
	running, ok := cond.CurrentRunning()
	assert.True(t, ok)
	assert.Equal(t, uint(4), running)
	//
	cond.False.Running = false
	_, ok = cond.CurrentRunning()
	assert.False(t, ok)
	//
	block := SimpleBlock(0)
	assert.False(t, block.IsConditional())
	assert.Nil(t, block.Conditional())
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, "Return", ExitReturn[F]().String())
	assert.Equal(t, "Call(2)", ExitCall[F](2).String())
	assert.Equal(t, "BranchEnd(7)", ExitBranchEnd[F](7).String())
	assert.Equal(t, "ConditionalBranch(3)", ExitConditionalBranch(3, value.Bool[F](true)).String())
}
