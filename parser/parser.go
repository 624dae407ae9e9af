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

// Package parser implements the recursive-descent parser (spec section
// 4.3): it assembles the lexer's Tokens into Datum trees, desugaring
// reader-macro prefixes, parsing typed literals, and immediately building
// PersistentSet literals.
package parser

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/lexer"
	"github.com/dgoffredo/bdelisp/pset"
)

// Sentinel parse errors (spec section 4.3's error list); each is wrapped
// with positional context via errors.Wrapf at the call site.
var (
	ErrEOF                  = errors.New("eof")
	ErrNotAValue            = errors.New("not_a_value")
	ErrInvalidString        = errors.New("invalid_string")
	ErrInvalidNumber        = errors.New("invalid_number")
	ErrInvalidBase64        = errors.New("invalid_base64")
	ErrInvalidTemporal      = errors.New("invalid_temporal")
	ErrIncompleteComment    = errors.New("incomplete_comment")
	ErrIncompleteArray      = errors.New("incomplete_array")
	ErrIncompleteList       = errors.New("incomplete_list")
	ErrIncompletePair       = errors.New("incomplete_pair")
	ErrPairSuffix           = errors.New("pair_suffix")
	ErrBadMapKeys           = errors.New("bad_map_keys")
	ErrError                = errors.New("error_literal")
	ErrUDT                  = errors.New("udt_literal")
	ErrUnterminatedQuoteLike = errors.New("unterminated_quote_like")
)

// Parser assembles Datum trees from a token stream. Offset is the
// interpreter's user-defined type offset (spec section 3.1), used to tag
// every Pair/Symbol/Set literal this parser constructs.
type Parser struct {
	lex    *lexer.Lexer
	Offset int32
	peeked *lexer.Token
}

// New constructs a Parser reading subject, tagging constructed Pair,
// Symbol and Set literals with offset.
func New(subject string, offset int32) *Parser {
	return &Parser{lex: lexer.New(subject), Offset: offset}
}

// Reset rebinds the parser to a new subject string.
func (p *Parser) Reset(subject string) {
	p.lex.Reset(subject)
	p.peeked = nil
}

func (p *Parser) nextRaw() (lexer.Token, error) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, nil
	}
	return p.lex.Next()
}

func (p *Parser) peekRaw() (lexer.Token, error) {
	if p.peeked == nil {
		t, err := p.lex.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		p.peeked = &t
	}
	return *p.peeked, nil
}

// next returns the next significant token, skipping WHITESPACE,
// COMMENT_LINE and COMMENT_SHEBANG per spec section 4.3.
func (p *Parser) next() (lexer.Token, error) {
	for {
		t, err := p.nextRaw()
		if err != nil {
			return lexer.Token{}, err
		}
		switch t.Kind {
		case lexer.WHITESPACE, lexer.COMMENT_LINE, lexer.COMMENT_SHEBANG:
			continue
		default:
			return t, nil
		}
	}
}

// ParseOne parses and returns a single top-level datum. It returns
// ErrEOF (wrapped) if there is nothing left to parse.
func (p *Parser) ParseOne() (datum.Datum, error) {
	return p.parseDatum()
}

// ParseAll parses every remaining top-level datum in the subject.
func (p *Parser) ParseAll() ([]datum.Datum, error) {
	var out []datum.Datum
	for {
		d, err := p.parseDatum()
		if err != nil {
			if errors.Is(err, ErrEOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, d)
	}
}

func (p *Parser) parseDatum() (datum.Datum, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFromToken(t)
}

func (p *Parser) parseFromToken(t lexer.Token) (datum.Datum, error) {
	switch t.Kind {
	case lexer.EOF:
		return nil, errors.Wrapf(ErrEOF, "at offset %d", t.Offset)
	case lexer.TRUE:
		return datum.Boolean(true), nil
	case lexer.FALSE:
		return datum.Boolean(false), nil
	case lexer.STRING:
		s, err := decodeString(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidString, "%v (token %s)", err, t)
		}
		return datum.String(s), nil
	case lexer.BYTES:
		b, err := decodeBytes(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidBase64, "%v (token %s)", err, t)
		}
		return datum.Binary(b), nil
	case lexer.INT32:
		n, err := strconv.ParseInt(t.Text, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidNumber, "%v (token %s)", err, t)
		}
		return datum.Integer(int32(n)), nil
	case lexer.INT64:
		n, err := strconv.ParseInt(strings.TrimSuffix(t.Text, "L"), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidNumber, "%v (token %s)", err, t)
		}
		return datum.Integer64(n), nil
	case lexer.DOUBLE:
		text := normalizeDecimalSeparator(strings.TrimSuffix(t.Text, "B"))
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidNumber, "%v (token %s)", err, t)
		}
		return datum.Double(f), nil
	case lexer.DECIMAL64:
		text := normalizeDecimalSeparator(t.Text)
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidNumber, "%v (token %s)", err, t)
		}
		return datum.Decimal64{D: d}, nil
	case lexer.SYMBOL:
		sym, err := datum.NewSymbol(p.Offset, t.Text)
		if err != nil {
			return nil, errors.Wrapf(err, "token %s", t)
		}
		return sym, nil
	case lexer.DATE:
		d, err := parseDate(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTemporal, "%v (token %s)", err, t)
		}
		return d, nil
	case lexer.TIME:
		tm, err := parseTime(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTemporal, "%v (token %s)", err, t)
		}
		return tm, nil
	case lexer.DATETIME:
		dt, err := parseDateTime(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTemporal, "%v (token %s)", err, t)
		}
		return dt, nil
	case lexer.DATETIME_INTERVAL:
		iv, err := parseInterval(t.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTemporal, "%v (token %s)", err, t)
		}
		return iv, nil
	case lexer.OPEN_PAREN:
		return p.parseList()
	case lexer.OPEN_SQUARE:
		return p.parseArray()
	case lexer.OPEN_CURLY:
		return p.parseMap()
	case lexer.OPEN_SET_BRACE:
		return p.parseSet()
	case lexer.QUOTE:
		return p.parseQuoteLike("quote", t)
	case lexer.QUASIQUOTE:
		return p.parseQuoteLike("quasiquote", t)
	case lexer.UNQUOTE:
		return p.parseQuoteLike("unquote", t)
	case lexer.UNQUOTE_SPLICING:
		return p.parseQuoteLike("unquote-splicing", t)
	case lexer.SYNTAX:
		return p.parseQuoteLike("syntax", t)
	case lexer.QUASISYNTAX:
		return p.parseQuoteLike("quasisyntax", t)
	case lexer.UNSYNTAX:
		return p.parseQuoteLike("unsyntax", t)
	case lexer.UNSYNTAX_SPLICING:
		return p.parseQuoteLike("unsyntax-splicing", t)
	case lexer.COMMENT_DATUM:
		if _, err := p.parseDatum(); err != nil {
			return nil, errors.Wrapf(ErrIncompleteComment, "%v", err)
		}
		return p.parseDatum()
	case lexer.ERROR_TAG:
		return p.parseErrorLiteral(t)
	case lexer.USER_DEFINED_TYPE_TAG:
		return p.parseUDTLiteral(t)
	case lexer.CLOSE_PAREN, lexer.CLOSE_SQUARE, lexer.CLOSE_CURLY, lexer.PAIR_SEPARATOR:
		return nil, errors.Wrapf(ErrNotAValue, "token %s", t)
	default:
		return nil, errors.Wrapf(ErrNotAValue, "token %s", t)
	}
}

func (p *Parser) parseQuoteLike(head string, prefix lexer.Token) (datum.Datum, error) {
	inner, err := p.parseDatum()
	if err != nil {
		if errors.Is(err, ErrEOF) {
			return nil, errors.Wrapf(ErrUnterminatedQuoteLike, "after %s", prefix)
		}
		return nil, err
	}
	sym, err := datum.NewSymbol(p.Offset, head)
	if err != nil {
		return nil, err
	}
	return datum.SliceToList(p.Offset, []datum.Datum{sym, inner}), nil
}

// parseList parses the contents of '(' ... ')', producing a proper list,
// an improper (dotted) list, or erroring on an unterminated list.
func (p *Parser) parseList() (datum.Datum, error) {
	var items []datum.Datum
	for {
		t, err := p.peekRaw()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.WHITESPACE || t.Kind == lexer.COMMENT_LINE || t.Kind == lexer.COMMENT_SHEBANG {
			p.peeked = nil
			continue
		}
		if t.Kind == lexer.EOF {
			return nil, errors.Wrapf(ErrIncompleteList, "at offset %d", t.Offset)
		}
		if t.Kind == lexer.CLOSE_PAREN {
			p.peeked = nil
			return datum.SliceToList(p.Offset, items), nil
		}
		if t.Kind == lexer.PAIR_SEPARATOR {
			p.peeked = nil
			tail, err := p.parseDatum()
			if err != nil {
				return nil, errors.Wrapf(ErrIncompletePair, "%v", err)
			}
			closeTok, err := p.next()
			if err != nil {
				return nil, err
			}
			if closeTok.Kind != lexer.CLOSE_PAREN {
				return nil, errors.Wrapf(ErrPairSuffix, "expected ) after dotted tail, got %s", closeTok)
			}
			result := tail
			for i := len(items) - 1; i >= 0; i-- {
				result = datum.Cons(p.Offset, items[i], result)
			}
			return result, nil
		}
		d, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
}

func (p *Parser) parseArray() (datum.Datum, error) {
	var items []datum.Datum
	for {
		t, err := p.peekRaw()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.WHITESPACE || t.Kind == lexer.COMMENT_LINE || t.Kind == lexer.COMMENT_SHEBANG {
			p.peeked = nil
			continue
		}
		if t.Kind == lexer.EOF {
			return nil, errors.Wrapf(ErrIncompleteArray, "at offset %d", t.Offset)
		}
		if t.Kind == lexer.CLOSE_SQUARE {
			p.peeked = nil
			return datum.Array(items), nil
		}
		d, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
}

func (p *Parser) parseMap() (datum.Datum, error) {
	var items []datum.Datum
	for {
		t, err := p.peekRaw()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.WHITESPACE || t.Kind == lexer.COMMENT_LINE || t.Kind == lexer.COMMENT_SHEBANG {
			p.peeked = nil
			continue
		}
		if t.Kind == lexer.EOF {
			return nil, errors.Wrapf(ErrIncompleteList, "unterminated map at offset %d", t.Offset)
		}
		if t.Kind == lexer.CLOSE_CURLY {
			p.peeked = nil
			break
		}
		d, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if len(items)%2 != 0 {
		return nil, errors.Wrapf(ErrBadMapKeys, "map literal has an odd number of elements")
	}
	if len(items) == 0 {
		return datum.MapString(nil), nil
	}
	allString, allInt := true, true
	for i := 0; i < len(items); i += 2 {
		if _, ok := items[i].(datum.String); !ok {
			allString = false
		}
		if _, ok := items[i].(datum.Integer); !ok {
			allInt = false
		}
	}
	switch {
	case allString:
		m := make(datum.MapString, 0, len(items)/2)
		for i := 0; i < len(items); i += 2 {
			m = append(m, datum.MapStringEntry{Key: string(items[i].(datum.String)), Value: items[i+1]})
		}
		return m, nil
	case allInt:
		m := make(datum.MapInt, 0, len(items)/2)
		for i := 0; i < len(items); i += 2 {
			m = append(m, datum.MapIntEntry{Key: int32(items[i].(datum.Integer)), Value: items[i+1]})
		}
		return m, nil
	default:
		return nil, errors.Wrapf(ErrBadMapKeys, "map keys must be all strings or all int32")
	}
}

func (p *Parser) parseSet() (datum.Datum, error) {
	var items []datum.Datum
	for {
		t, err := p.peekRaw()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.WHITESPACE || t.Kind == lexer.COMMENT_LINE || t.Kind == lexer.COMMENT_SHEBANG {
			p.peeked = nil
			continue
		}
		if t.Kind == lexer.EOF {
			return nil, errors.Wrapf(ErrIncompleteList, "unterminated set literal at offset %d", t.Offset)
		}
		if t.Kind == lexer.CLOSE_CURLY {
			p.peeked = nil
			break
		}
		d, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	cmp := func(a, b datum.Datum) int { return datum.Compare(p.Offset, a, b) }
	var root *pset.Node[datum.Datum]
	for _, item := range items {
		root = pset.Insert(root, cmp, item)
	}
	return datum.NewSet(p.Offset, root), nil
}

// parseErrorLiteral parses `#error [<int32>]` or `#error [<int32>
// <string>]` into an Error Datum.
func (p *Parser) parseErrorLiteral(tag lexer.Token) (datum.Datum, error) {
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	if open.Kind != lexer.OPEN_SQUARE {
		return nil, errors.Wrapf(ErrError, "expected [ after #error, got %s", open)
	}
	codeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if codeTok.Kind != lexer.INT32 {
		return nil, errors.Wrapf(ErrError, "expected int32 error code, got %s", codeTok)
	}
	code, err := strconv.ParseInt(codeTok.Text, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(ErrError, "%v", err)
	}
	message := ""
	next, err := p.next()
	if err != nil {
		return nil, err
	}
	if next.Kind == lexer.STRING {
		message, err = decodeString(next.Text)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidString, "%v", err)
		}
		next, err = p.next()
		if err != nil {
			return nil, err
		}
	}
	if next.Kind != lexer.CLOSE_SQUARE {
		return nil, errors.Wrapf(ErrError, "expected ] to close #error literal, got %s", next)
	}
	return datum.Error{Code: int32(code), Message: message}, nil
}

// parseUDTLiteral parses `#udt [<int32> <any>]` into a UserDefined Datum
// with a null/opaque payload, rejecting type codes in the reserved range.
func (p *Parser) parseUDTLiteral(tag lexer.Token) (datum.Datum, error) {
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	if open.Kind != lexer.OPEN_SQUARE {
		return nil, errors.Wrapf(ErrUDT, "expected [ after #udt, got %s", open)
	}
	codeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if codeTok.Kind != lexer.INT32 {
		return nil, errors.Wrapf(ErrUDT, "expected int32 type code, got %s", codeTok)
	}
	code, err := strconv.ParseInt(codeTok.Text, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(ErrUDT, "%v", err)
	}
	if err := datum.CheckUserTypeCode(p.Offset, int32(code)); err != nil {
		return nil, errors.Wrapf(ErrUDT, "%v", err)
	}
	if _, err := p.parseDatum(); err != nil { // payload datum consumed, stored as nil per spec
		return nil, errors.Wrapf(ErrUDT, "%v", err)
	}
	closeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if closeTok.Kind != lexer.CLOSE_SQUARE {
		return nil, errors.Wrapf(ErrUDT, "expected ] to close #udt literal, got %s", closeTok)
	}
	return datum.UserDefined{TypeCode: int32(code), Payload: nil}, nil
}

func normalizeDecimalSeparator(s string) string {
	return strings.Replace(s, ",", ".", 1)
}
