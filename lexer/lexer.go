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

import (
	"regexp"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

// ErrBadToken reports invalid input between matches that is not a legal
// symbol either (spec section 4.2).
var ErrBadToken = errors.New("bad token")

// ErrUnterminated is not returned by Next: a string or bytes literal that
// runs off the end of input without its closing quote is reported as
// ErrBadToken.
var ErrUnterminated = errors.New("unterminated token")

// matcher is one entry in the lexer's priority-ordered concrete-token
// table: a compiled pattern (always anchored at the start of the
// remaining input; matchConcrete uses FindStringIndex and accepts only a
// non-empty match at index 0) and the Kind it produces.
// Patterns are tried in table order; the first to match at the current
// offset wins, so more specific forms (DATETIME) must precede less
// specific prefixes of themselves (DATE).
type matcher struct {
	kind Kind
	re   *regexp.Regexp
}

// followingDelim is the character class a concrete (non-punctuation) token must
// be followed by, per the delimiting rule (spec section 4.2): end of
// input or one of `[\s[\](){}";]`.
var followingDelim = regexp.MustCompile(`^[\s\[\]\(\)\{\}";]`)

// symbolFallback matches a maximal run usable as a SYMBOL: starts with a
// character not in [#\s"()[\]{}'`,], continues with characters not in
// [\s"()[\]{}'`,].
var symbolFallback = regexp.MustCompile("^[^#\\s\"()\\[\\]{}'`,][^\\s\"()\\[\\]{}'`,]*")

var matchers = []matcher{
	{DATETIME, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?`)},
	{DATE, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)},
	{TIME, regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?`)},
	{DATETIME_INTERVAL, regexp.MustCompile(`^-?#P(\d+D)?(T(\d+(\.\d+)?H)?(\d+(\.\d+)?M)?(\d+(\.\d+)?S)?)?`)},
	{COMMENT_SHEBANG, regexp.MustCompile(`^#![^\n]*`)},
	{COMMENT_DATUM, regexp.MustCompile(`^#;`)},
	{COMMENT_LINE, regexp.MustCompile(`^;[^\n]*`)},
	{BYTES, regexp.MustCompile(`^#base64"[A-Za-z0-9+/=]*"`)},
	{STRING, regexp.MustCompile(`^"(?:[^"\\]|\\.)*"`)},
	{ERROR_TAG, regexp.MustCompile("^#error\\b")},
	{USER_DEFINED_TYPE_TAG, regexp.MustCompile(`^#udt\b`)},
	{FALSE, regexp.MustCompile(`^#false\b|^#f\b`)},
	{TRUE, regexp.MustCompile(`^#true\b|^#t\b`)},
	{OPEN_SET_BRACE, regexp.MustCompile(`^#\{`)},
	{UNSYNTAX_SPLICING, regexp.MustCompile(`^#,@`)},
	{UNSYNTAX, regexp.MustCompile(`^#,`)},
	{QUASISYNTAX, regexp.MustCompile("^#`")},
	{SYNTAX, regexp.MustCompile(`^#'`)},
	{UNQUOTE_SPLICING, regexp.MustCompile(`^,@`)},
	{UNQUOTE, regexp.MustCompile(`^,`)},
	{QUASIQUOTE, regexp.MustCompile("^`")},
	{QUOTE, regexp.MustCompile(`^'`)},
	{OPEN_PAREN, regexp.MustCompile(`^\(`)},
	{CLOSE_PAREN, regexp.MustCompile(`^\)`)},
	{OPEN_SQUARE, regexp.MustCompile(`^\[`)},
	{CLOSE_SQUARE, regexp.MustCompile(`^\]`)},
	{OPEN_CURLY, regexp.MustCompile(`^\{`)},
	{CLOSE_CURLY, regexp.MustCompile(`^\}`)},
	{INT64, regexp.MustCompile(`^[+-]?\d+L\b`)},
	{DOUBLE, regexp.MustCompile(`^[+-]?\d+([.,]\d+)?([eE][+-]?\d+)?B\b`)},
	{DECIMAL64, regexp.MustCompile(`^[+-]?\d+(([.,]\d+)([eE][+-]?\d+)?|[eE][+-]?\d+)`)},
	{INT32, regexp.MustCompile(`^[+-]?\d+\b`)},
	{PAIR_SEPARATOR, regexp.MustCompile(`^\.(?:[\s\[\]\(\)\{\}";]|$)`)},
	{WHITESPACE, regexp.MustCompile(`^[ \t\r\n]+`)},
}

// Lexer scans a subject string into Tokens following the delimited-token,
// symbol-fallback algorithm of spec section 4.2.
type Lexer struct {
	s       string
	lc      LineCounter
	lastTok Token
	haveLast bool
}

// New constructs a Lexer over subject.
func New(subject string) *Lexer {
	l := &Lexer{}
	l.Reset(subject)
	return l
}

// Reset rebinds the lexer to a new subject string, as though freshly
// constructed.
func (l *Lexer) Reset(subject string) {
	l.s = subject
	l.lc.Reset(subject)
	l.haveLast = false
}

// Next returns the next token, or an error. At end of input it returns an
// EOF token repeatedly (not an error).
func (l *Lexer) Next() (Token, error) {
	offset := l.lc.Offset
	if offset >= len(l.s) {
		tok := l.emit(EOF, offset, offset)
		return tok, nil
	}
	rest := l.s[offset:]

	if kind, length, ok := matchConcrete(rest); ok {
		tok := l.emit(kind, offset, offset+length)
		return tok, nil
	}

	// No concrete token matches exactly at offset: scan forward for the
	// next position where one does, treating the intervening gap as a
	// symbol candidate (spec section 4.2's algorithm).
	gapEnd := findNextConcreteStart(rest)
	if gapEnd <= 0 {
		return Token{}, l.badToken(offset)
	}
	gap := rest[:gapEnd]
	if loc := symbolFallback.FindStringIndex(gap); loc != nil && loc[0] == 0 && loc[1] == len(gap) && scanGapSymbol(gap) {
		tok := l.emit(SYMBOL, offset, offset+gapEnd)
		return tok, nil
	}
	return Token{}, l.badToken(offset)
}

// matchConcrete tries every concrete-token pattern, in priority order,
// against rest (which begins at the lexer's current offset). It returns
// the winning kind and match length, honoring the following-delimiter
// rule for non-punctuation kinds.
func matchConcrete(rest string) (Kind, int, bool) {
	for _, m := range matchers {
		loc := m.re.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			continue
		}
		length := loc[1]
		if requiresFollowingDelim(m.kind) {
			after := rest[length:]
			if after != "" && !followingDelim.MatchString(after) {
				continue
			}
		}
		return m.kind, length, true
	}
	return 0, 0, false
}

func requiresFollowingDelim(k Kind) bool {
	switch k {
	case TRUE, FALSE, INT32, INT64, DOUBLE, DECIMAL64, DATE, TIME, DATETIME,
		DATETIME_INTERVAL, ERROR_TAG, USER_DEFINED_TYPE_TAG, STRING, BYTES:
		return true
	}
	return false
}

// findNextConcreteStart scans rest (excluding position 0, already known not
// to match) for the first offset >= 1 at which some concrete token
// matches, returning that offset as the gap length. If none is found
// before end of input it returns len(rest): the whole remainder is the
// gap, which Next accepts only if it is entirely a symbol. It returns -1
// only for an empty rest.
func findNextConcreteStart(rest string) int {
	for i := 1; i <= len(rest); i++ {
		if i == len(rest) {
			return i // gap runs to end of input
		}
		if _, _, ok := matchConcrete(rest[i:]); ok {
			return i
		}
	}
	return -1
}

func (l *Lexer) emit(kind Kind, start, end int) Token {
	beginLine, beginCol := l.lc.Line, l.lc.Column
	l.lc.AdvanceTo(l.s, end)
	tok := Token{
		Kind:      kind,
		Text:      l.s[start:end],
		Offset:    start,
		BeginLine: beginLine,
		BeginCol:  beginCol,
		EndLine:   l.lc.Line,
		EndCol:    l.lc.Column,
	}
	l.lastTok = tok
	l.haveLast = true
	return tok
}

func (l *Lexer) badToken(offset int) error {
	ctx := ""
	if l.haveLast {
		ctx = l.lastTok.String()
	}
	end := offset + 1
	if end > len(l.s) {
		end = len(l.s)
	}
	return errors.Wrapf(ErrBadToken, "at offset %d (%q), after %s", offset, l.s[offset:end], ctx)
}

// scanGapSymbol is a thin wrapper around text/scanner used only to
// validate that a gap run contains no embedded whitespace/control
// structure that the simple regexp-based symbolFallback check might miss
// for multi-rune UTF-8 identifiers; grounded on asm/parser.go's use of
// text/scanner for tokenizing assembler identifiers.
func scanGapSymbol(gap string) bool {
	var sc scanner.Scanner
	sc.Init(strings.NewReader(gap))
	sc.Mode = scanner.ScanIdents
	sc.IsIdentRune = func(ch rune, i int) bool {
		return !strings.ContainsRune(" \t\r\n\"()[]{}'`,", ch)
	}
	tok := sc.Scan()
	return tok != scanner.EOF && sc.TokenText() == gap
}
