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

import "testing"

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error on %q: %v", src, err)
		}
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == WHITESPACE {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestLineCounterReset(t *testing.T) {
	var lc LineCounter
	lc.Reset("abc")
	if lc.Line != 1 || lc.Column != 1 {
		t.Errorf("Reset(abc) = (%d,%d), want (1,1)", lc.Line, lc.Column)
	}
	lc.Reset("\nabc")
	if lc.Line != 2 || lc.Column != 0 {
		t.Errorf("Reset(\\nabc) = (%d,%d), want (2,0)", lc.Line, lc.Column)
	}
}

func TestLineCounterAdvance(t *testing.T) {
	var lc LineCounter
	s := "ab\ncd"
	lc.Reset(s)
	lc.AdvanceTo(s, 4) // consumes "ab\nc"
	if lc.Line != 2 || lc.Column != 1 {
		t.Errorf("after advance = (%d,%d), want (2,1)", lc.Line, lc.Column)
	}
}

func TestSimpleAtoms(t *testing.T) {
	toks := allTokens(t, `#t #f 42 42L 3.14B 3.14 "hi" foo`)
	want := []Kind{TRUE, FALSE, INT32, INT64, DOUBLE, DECIMAL64, STRING, SYMBOL}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v (%q)", i, toks[i].Kind, k, toks[i].Text)
		}
	}
}

func TestStructuralTokens(t *testing.T) {
	toks := allTokens(t, `( ) [ ] { } #{`)
	want := []Kind{OPEN_PAREN, CLOSE_PAREN, OPEN_SQUARE, CLOSE_SQUARE, OPEN_CURLY, CLOSE_CURLY, OPEN_SET_BRACE}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestQuoteLikePrefixes(t *testing.T) {
	toks := allTokens(t, "' ` , ,@ #' #` #, #,@")
	want := []Kind{QUOTE, QUASIQUOTE, UNQUOTE, UNQUOTE_SPLICING, SYNTAX, QUASISYNTAX, UNSYNTAX, UNSYNTAX_SPLICING}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestComments(t *testing.T) {
	src := "; a line comment\n#!shebang line\n#;(ignored) 1"
	l := New(src)
	var kinds []Kind
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == WHITESPACE {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{COMMENT_LINE, COMMENT_SHEBANG, COMMENT_DATUM, OPEN_PAREN, SYMBOL, CLOSE_PAREN, INT32}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("kind %d = %v, want %v", i, kinds[i], k)
		}
	}
}

func TestDateTimeTokens(t *testing.T) {
	toks := allTokens(t, "2020-11-29 12:30:00 2020-11-29T12:30:00Z")
	want := []Kind{DATE, TIME, DATETIME}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v (%q)", i, toks[i].Kind, k, toks[i].Text)
		}
	}
}

func TestBytesLiteral(t *testing.T) {
	toks := allTokens(t, `#base64"aGVsbG8="`)
	if len(toks) != 1 || toks[0].Kind != BYTES {
		t.Fatalf("got %v, want one BYTES token", toks)
	}
}

func TestErrorAndUdtTags(t *testing.T) {
	toks := allTokens(t, "#error #udt")
	want := []Kind{ERROR_TAG, USER_DEFINED_TYPE_TAG}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestPairSeparator(t *testing.T) {
	toks := allTokens(t, "(a . b)")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{OPEN_PAREN, SYMBOL, PAIR_SEPARATOR, SYMBOL, CLOSE_PAREN}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("kind %d = %v, want %v", i, kinds[i], k)
		}
	}
}

func TestSymbolFallback(t *testing.T) {
	toks := allTokens(t, "foo-bar? list->vector +")
	want := []string{"foo-bar?", "list->vector", "+"}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, w := range want {
		if toks[i].Kind != SYMBOL || toks[i].Text != w {
			t.Errorf("token %d = %q/%v, want %q/SYMBOL", i, toks[i].Text, toks[i].Kind, w)
		}
	}
}

func TestBadToken(t *testing.T) {
	l := New(`"unterminated`)
	if _, err := l.Next(); err == nil {
		t.Errorf("expected error for unterminated string-like input")
	}
}
