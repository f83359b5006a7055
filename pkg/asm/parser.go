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
package asm

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/consensys/go-zkmove/pkg/bytecode"
	"github.com/consensys/go-zkmove/pkg/util/source"
	"github.com/consensys/go-zkmove/pkg/util/source/lex"
	"github.com/consensys/go-zkmove/pkg/value"
	"github.com/holiman/uint256"
)

// Parse accepts a given source file containing zero or more guest functions,
// and assembles them into a module.  Functions are indexed in the order they
// are declared, and may call each other by name (or by index).
func Parse(srcfile *source.File) (*bytecode.Module, []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	return parser.Parse()
}

// ============================================================================
// Assembler
// ============================================================================

// Parser is a parser for the guest assembly language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
	// Functions assembled so far
	functions []function
}

// Function awaiting resolution of its calls.
type function struct {
	name    string
	params  []value.Type
	locals  uint
	returns uint
	code    []bytecode.Instruction
	calls   []Fixup
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0, nil}
}

// Parse the given source file into a module, or some number of syntax errors.
func (p *Parser) Parse() (*bytecode.Module, []source.SyntaxError) {
	var errors []source.SyntaxError
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		var fn function
		//
		if p.lookahead().Kind != KEYWORD_FN {
			return nil, p.syntaxErrors(p.lookahead(), "unknown declaration")
		} else if fn, errors = p.parseFunction(); len(errors) > 0 {
			return nil, errors
		}
		//
		p.functions = append(p.functions, fn)
	}
	//
	return p.link()
}

// Resolve calls by name, and construct the final module.
func (p *Parser) link() (*bytecode.Module, []source.SyntaxError) {
	var functions = make([]*bytecode.Function, len(p.functions))
	//
	for i, fn := range p.functions {
		for _, call := range fn.calls {
			index, ok := p.find(call.name)
			if !ok {
				return nil, p.syntaxErrors(call.token, "unknown function")
			}
			//
			fn.code[call.pc].Operand.SetUint64(uint64(index))
		}
		//
		functions[i] = bytecode.NewFunction(fn.name, fn.params, fn.locals, fn.returns, fn.code)
	}
	//
	return bytecode.NewModule(functions...), nil
}

func (p *Parser) parseFunction() (function, []source.SyntaxError) {
	var (
		fn   function
		env  Environment
		errs []source.SyntaxError
		tok  lex.Token
	)
	// Parse function declaration
	if _, errs = p.expect(KEYWORD_FN); len(errs) > 0 {
		return fn, errs
	} else if tok, errs = p.expect(IDENTIFIER); len(errs) > 0 {
		return fn, errs
	}
	//
	fn.name = p.string(tok)
	//
	if _, ok := p.find(fn.name); ok {
		return fn, p.syntaxErrors(tok, "duplicate function")
	} else if fn.params, errs = p.parseParameters(); len(errs) > 0 {
		return fn, errs
	}
	// Parse optional '->'
	if p.match(RIGHTARROW) {
		if fn.returns, errs = p.parseCount(); len(errs) > 0 {
			return fn, errs
		}
	}
	//
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return fn, errs
	}
	// Parse optional locals declaration
	fn.locals = uint(len(fn.params))
	//
	if p.lookahead().Kind == KEYWORD_LOCALS {
		tok := p.lookahead()
		p.index++
		//
		if fn.locals, errs = p.parseCount(); len(errs) > 0 {
			return fn, errs
		} else if fn.locals < uint(len(fn.params)) {
			return fn, p.syntaxErrors(tok, "fewer locals than parameters")
		}
	}
	// Parse instructions until end of block
	for !p.match(RCURLY) {
		if p.lookahead().Kind == END_OF {
			return fn, p.syntaxErrors(p.lookahead(), "missing \"}\"")
		} else if errs = p.parseInstruction(&fn, &env); len(errs) > 0 {
			return fn, errs
		}
	}
	// Finalise labels
	if fixup, ok := env.BindLabels(fn.code); !ok {
		return fn, p.syntaxErrors(fixup.token, "unknown label")
	}
	//
	return fn, nil
}

func (p *Parser) parseParameters() ([]value.Type, []source.SyntaxError) {
	var (
		params []value.Type
		errs   []source.SyntaxError
		tok    lex.Token
	)
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RBRACE) {
		if len(params) != 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if tok, errs = p.expect(IDENTIFIER); len(errs) > 0 {
			return nil, errs
		}
		//
		ty, err := value.ParseType(p.string(tok))
		if err != nil {
			return nil, p.syntaxErrors(tok, "unknown type")
		}
		//
		params = append(params, ty)
	}
	//
	return params, nil
}

// Parse a label declaration, or an instruction with its operand (if any).
func (p *Parser) parseInstruction(fn *function, env *Environment) []source.SyntaxError {
	var (
		pc        = uint(len(fn.code))
		tok, errs = p.expect(IDENTIFIER)
	)
	//
	if len(errs) > 0 {
		return errs
	} else if p.match(COLON) {
		if !env.DeclareLabel(p.string(tok), pc) {
			return p.syntaxErrors(tok, "duplicate label")
		}
		//
		return nil
	}
	//
	opcode, ok := bytecode.ParseOpcode(p.string(tok))
	//
	if !ok {
		return p.syntaxErrors(tok, "unknown instruction")
	} else if pc > math.MaxUint16 {
		return p.syntaxErrors(tok, "function too large")
	}
	//
	insn := bytecode.Instruction{Opcode: opcode}
	operand := p.lookahead()
	//
	switch {
	case !opcode.HasOperand():
		// Nothing to parse
	case operand.Kind == IDENTIFIER && opcode == bytecode.CALL:
		p.index++
		fn.calls = append(fn.calls, Fixup{pc, p.string(operand), operand})
	case operand.Kind == IDENTIFIER && isBranch(opcode):
		p.index++
		env.BindLabel(pc, p.string(operand), operand)
	default:
		val, errs := p.parseLiteral(opcode.OperandWidth())
		if len(errs) > 0 {
			return errs
		}
		//
		insn.Operand = *val
	}
	//
	fn.code = append(fn.code, insn)
	//
	return nil
}

func isBranch(opcode bytecode.Opcode) bool {
	return opcode == bytecode.BR_TRUE || opcode == bytecode.BR_FALSE || opcode == bytecode.BRANCH
}

func (p *Parser) parseCount() (uint, []source.SyntaxError) {
	val, errs := p.parseLiteral(16)
	if len(errs) > 0 {
		return 0, errs
	}
	//
	return uint(val.Uint64()), nil
}

// Parse an unsigned literal which must fit within a given bitwidth.
func (p *Parser) parseLiteral(bitwidth uint) (*uint256.Int, []source.SyntaxError) {
	var (
		val       big.Int
		ok        bool
		tok, errs = p.expect(NUMBER)
	)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	text := strings.ReplaceAll(p.string(tok), "_", "")
	//
	if strings.HasPrefix(text, "0x") {
		_, ok = val.SetString(text[2:], 16)
	} else {
		_, ok = val.SetString(text, 10)
	}
	//
	if !ok {
		return nil, p.syntaxErrors(tok, "invalid number")
	} else if uint(val.BitLen()) > bitwidth {
		return nil, p.syntaxErrors(tok, fmt.Sprintf("literal exceeds %d bits", bitwidth))
	}
	//
	n, _ := uint256.FromBig(&val)
	//
	return n, nil
}

func (p *Parser) find(name string) (uint16, bool) {
	for i, fn := range p.functions {
		if fn.name == name {
			return uint16(i), true
		}
	}
	//
	return 0, false
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
