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
	"github.com/consensys/go-zkmove/pkg/util/source"
	"github.com/consensys/go-zkmove/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals ";; ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// LCURLY signals "{"
const LCURLY uint = 5

// RCURLY signals "}"
const RCURLY uint = 6

// COMMA signals ","
const COMMA uint = 7

// COLON signals ":"
const COLON uint = 8

// RIGHTARROW signals "->"
const RIGHTARROW uint = 9

// NUMBER signals an unsigned integer literal
const NUMBER uint = 10

// IDENTIFIER signals an instruction, label, function or type name
const IDENTIFIER uint = 20

// KEYWORD_FN signals a function declaration
const KEYWORD_FN uint = 21

// KEYWORD_LOCALS signals a locals declaration
const KEYWORD_LOCALS uint = 22

var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Numbers are either hexadecimal or decimal, with '_' permitted after the
// first digit for readability.
var (
	decimalDigit = lex.Within('0', '9')
	hexDigit     = lex.Or(decimalDigit, lex.Within('A', 'F'), lex.Within('a', 'f'))
	number       = lex.Or(
		lex.Sequence(lex.Unit('0', 'x'), hexDigit, lex.Many(lex.Or(hexDigit, lex.Unit('_')))),
		lex.Sequence(decimalDigit, lex.Many(lex.Or(decimalDigit, lex.Unit('_')))),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifier lex.Scanner[rune] = lex.Sequence(identifierStart, lex.Many(identifierRest))

// Comments run from ';;' until the end of the line.
var comment lex.Scanner[rune] = lex.Sequence(lex.Unit(';', ';'), lex.Until('\n'))

var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('-', '>'), RIGHTARROW),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(lex.Keyword("fn", identifierRest), KEYWORD_FN),
	lex.Rule(lex.Keyword("locals", identifierRest), KEYWORD_LOCALS),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of tokens, excluding whitespace and
// comments, or produce a syntax error.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer  = lex.NewLexer(srcfile.Contents(), rules...)
		tokens = lexer.Collect(WHITESPACE, COMMENT)
	)
	// Anything left over could not be lexed
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		//
		return nil, []source.SyntaxError{*err}
	}
	//
	return tokens, nil
}
