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

// Branch is one arm of a conditional block, identified by the index of its
// block within the enclosing frame.
type Branch struct {
	Block   uint
	Running bool
}

// ConditionalBlock holds the arms of a conditional branch whose condition was
// unknown, such that both arms are executed one after the other.  At most one
// arm is running at any time.
type ConditionalBlock struct {
	True  *Branch
	False *Branch
}

// NewConditionalBlock constructs a conditional block from its arms, at least
// one of which must be present.
func NewConditionalBlock(trueBranch, falseBranch *Branch) ConditionalBlock {
	if trueBranch == nil && falseBranch == nil {
		panic("conditional block requires at least one branch")
	}
	//
	return ConditionalBlock{trueBranch, falseBranch}
}

// CurrentRunning returns the block of whichever arm is running, or false if
// neither is.
func (p *ConditionalBlock) CurrentRunning() (uint, bool) {
	if p.True != nil && p.True.Running {
		return p.True.Block, true
	} else if p.False != nil && p.False.Running {
		return p.False.Block, true
	}
	//
	return 0, false
}

// Lowest block index used by either arm.
func (p *ConditionalBlock) first() uint {
	if p.True == nil {
		return p.False.Block
	} else if p.False == nil || p.True.Block < p.False.Block {
		return p.True.Block
	}
	//
	return p.False.Block
}

// ProgramBlock is the unit of execution within a frame: either a simple block
// or a conditional block.
type ProgramBlock struct {
	conditional bool
	block       uint
	cond        ConditionalBlock
}

// SimpleBlock constructs a program block from a single block.
func SimpleBlock(block uint) ProgramBlock {
	return ProgramBlock{false, block, ConditionalBlock{}}
}

// ConditionalProgramBlock constructs a program block from a conditional block.
func ConditionalProgramBlock(cond ConditionalBlock) ProgramBlock {
	return ProgramBlock{true, 0, cond}
}

// IsConditional checks whether this is a conditional block.
func (p *ProgramBlock) IsConditional() bool {
	return p.conditional
}

// Conditional returns the underlying conditional block, or nil if this is a
// simple block.
func (p *ProgramBlock) Conditional() *ConditionalBlock {
	if p.conditional {
		return &p.cond
	}
	//
	return nil
}

// Running returns the block currently executing within this program block.
func (p *ProgramBlock) Running() (uint, bool) {
	if p.conditional {
		return p.cond.CurrentRunning()
	}
	//
	return p.block, true
}
