// This file is part of bdelisp - https://github.com/dgoffredo/bdelisp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexer

import "fmt"

// Kind identifies a lexical token category (spec section 4.2).
type Kind uint8

const (
	WHITESPACE Kind = iota
	EOF
	TRUE
	FALSE
	STRING
	BYTES
	DOUBLE
	DECIMAL64
	INT32
	INT64
	SYMBOL
	OPEN_PAREN
	CLOSE_PAREN
	OPEN_SQUARE
	CLOSE_SQUARE
	OPEN_CURLY
	CLOSE_CURLY
	OPEN_SET_BRACE
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICING
	SYNTAX
	QUASISYNTAX
	UNSYNTAX
	UNSYNTAX_SPLICING
	COMMENT_LINE
	COMMENT_DATUM
	COMMENT_SHEBANG
	DATE
	TIME
	DATETIME
	DATETIME_INTERVAL
	ERROR_TAG
	USER_DEFINED_TYPE_TAG
	PAIR_SEPARATOR
)

var kindNames = [...]string{
	WHITESPACE: "WHITESPACE", EOF: "EOF", TRUE: "TRUE", FALSE: "FALSE",
	STRING: "STRING", BYTES: "BYTES", DOUBLE: "DOUBLE", DECIMAL64: "DECIMAL64",
	INT32: "INT32", INT64: "INT64", SYMBOL: "SYMBOL",
	OPEN_PAREN: "OPEN_PAREN", CLOSE_PAREN: "CLOSE_PAREN",
	OPEN_SQUARE: "OPEN_SQUARE", CLOSE_SQUARE: "CLOSE_SQUARE",
	OPEN_CURLY: "OPEN_CURLY", CLOSE_CURLY: "CLOSE_CURLY",
	OPEN_SET_BRACE: "OPEN_SET_BRACE", QUOTE: "QUOTE",
	QUASIQUOTE: "QUASIQUOTE", UNQUOTE: "UNQUOTE",
	UNQUOTE_SPLICING: "UNQUOTE_SPLICING", SYNTAX: "SYNTAX",
	QUASISYNTAX: "QUASISYNTAX", UNSYNTAX: "UNSYNTAX",
	UNSYNTAX_SPLICING: "UNSYNTAX_SPLICING", COMMENT_LINE: "COMMENT_LINE",
	COMMENT_DATUM: "COMMENT_DATUM", COMMENT_SHEBANG: "COMMENT_SHEBANG",
	DATE: "DATE", TIME: "TIME", DATETIME: "DATETIME",
	DATETIME_INTERVAL: "DATETIME_INTERVAL", ERROR_TAG: "ERROR_TAG",
	USER_DEFINED_TYPE_TAG: "USER_DEFINED_TYPE_TAG",
	PAIR_SEPARATOR: "PAIR_SEPARATOR",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one lexical token (spec section 3.5): its kind, the exact
// source text it spans, its byte offset, and its begin/end line/column.
type Token struct {
	Kind                         Kind
	Text                         string
	Offset                       int
	BeginLine, BeginCol          int
	EndLine, EndCol              int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.BeginLine, t.BeginCol)
}
