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

package parser

import (
	"testing"

	"github.com/dgoffredo/bdelisp/datum"
)

const testOffset int32 = 1000

func mustParse(t *testing.T, src string) datum.Datum {
	t.Helper()
	p := New(src, testOffset)
	d, err := p.ParseOne()
	if err != nil {
		t.Fatalf("ParseOne(%q) error: %v", src, err)
	}
	return d
}

func TestParseAtoms(t *testing.T) {
	if d := mustParse(t, "42"); d != datum.Integer(42) {
		t.Errorf("42 -> %v", d)
	}
	if d := mustParse(t, "42L"); d != datum.Integer64(42) {
		t.Errorf("42L -> %v", d)
	}
	if d := mustParse(t, `"hi"`); d != datum.String("hi") {
		t.Errorf(`"hi" -> %v`, d)
	}
	if d := mustParse(t, "#t"); d != datum.Boolean(true) {
		t.Errorf("#t -> %v", d)
	}
}

func TestParseList(t *testing.T) {
	d := mustParse(t, "(1 2 3)")
	items, err := datum.ListToSlice(testOffset, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[1] != datum.Integer(2) {
		t.Errorf("(1 2 3) -> %v", items)
	}
}

func TestParseDottedPair(t *testing.T) {
	d := mustParse(t, "(1 . 2)")
	p, ok := datum.AsPair(testOffset, d)
	if !ok {
		t.Fatalf("expected a pair, got %v", d)
	}
	if p.First != datum.Integer(1) || p.Second != datum.Integer(2) {
		t.Errorf("(1 . 2) -> %+v", p)
	}
}

func TestParseArray(t *testing.T) {
	d := mustParse(t, "[1 2 3]")
	arr, ok := d.(datum.Array)
	if !ok || len(arr) != 3 {
		t.Fatalf("[1 2 3] -> %v", d)
	}
}

func TestParseStringMap(t *testing.T) {
	d := mustParse(t, `{"a" 1 "b" 2}`)
	m, ok := d.(datum.MapString)
	if !ok || len(m) != 2 || m[0].Key != "a" {
		t.Fatalf(`{"a" 1 "b" 2} -> %v`, d)
	}
}

func TestParseIntMap(t *testing.T) {
	d := mustParse(t, `{1 "x" 2 "y"}`)
	m, ok := d.(datum.MapInt)
	if !ok || len(m) != 2 || m[0].Key != 1 {
		t.Fatalf(`{1 "x" 2 "y"} -> %v`, d)
	}
}

func TestParseMixedMapKeysError(t *testing.T) {
	p := New(`{1 "x" "y" 2}`, testOffset)
	if _, err := p.ParseOne(); err == nil {
		t.Errorf("expected error for mixed map key kinds")
	}
}

func TestParseSet(t *testing.T) {
	d := mustParse(t, "#{3 1 2 1}")
	sd, ok := datum.AsSet(testOffset, d)
	if !ok {
		t.Fatalf("expected a set, got %v", d)
	}
	if sd.Root == nil {
		t.Fatalf("expected a non-empty set root")
	}
}

func TestParseQuoteLikePrefixes(t *testing.T) {
	cases := map[string]string{
		"'x":   "quote",
		"`x":   "quasiquote",
		",x":   "unquote",
		",@x":  "unquote-splicing",
		"#'x":  "syntax",
		"#`x":  "quasisyntax",
		"#,x":  "unsyntax",
		"#,@x": "unsyntax-splicing",
	}
	for src, head := range cases {
		d := mustParse(t, src)
		p, ok := datum.AsPair(testOffset, d)
		if !ok {
			t.Fatalf("%q -> %v, expected a pair", src, d)
		}
		name, ok := datum.SymbolName(testOffset, p.First)
		if !ok || name != head {
			t.Errorf("%q head = %v, want %q", src, p.First, head)
		}
	}
}

func TestParseErrorLiteral(t *testing.T) {
	d := mustParse(t, `#error [-3 "bad arity"]`)
	e, ok := d.(datum.Error)
	if !ok || e.Code != -3 || e.Message != "bad arity" {
		t.Errorf("#error literal -> %+v", d)
	}
}

func TestParseUDTLiteral(t *testing.T) {
	d := mustParse(t, `#udt [2000 1]`)
	u, ok := d.(datum.UserDefined)
	if !ok || u.TypeCode != 2000 {
		t.Errorf("#udt literal -> %+v", d)
	}
}

func TestParseUDTReservedCodeRejected(t *testing.T) {
	p := New("#udt [1000 1]", testOffset) // testOffset+TypePair is reserved
	if _, err := p.ParseOne(); err == nil {
		t.Errorf("expected error for reserved UDT type code")
	}
}

func TestParseCommentDatum(t *testing.T) {
	d := mustParse(t, "#;(ignored) 42")
	if d != datum.Integer(42) {
		t.Errorf("comment-datum skip -> %v, want 42", d)
	}
}

func TestParseDecimalAndDouble(t *testing.T) {
	d := mustParse(t, "3.14")
	dec, ok := d.(datum.Decimal64)
	if !ok || dec.D.String() != "3.14" {
		t.Fatalf("3.14 -> %v", d)
	}
	d2 := mustParse(t, "3.14B")
	if _, ok := d2.(datum.Double); !ok {
		t.Errorf("3.14B -> %v, want Double", d2)
	}
}

func TestParseDate(t *testing.T) {
	d := mustParse(t, "2020-11-29")
	dt, ok := d.(datum.Date)
	if !ok || dt.Year != 2020 || dt.Month != 11 || dt.Day != 29 {
		t.Errorf("2020-11-29 -> %+v", d)
	}
}

func TestParseDateTime(t *testing.T) {
	d := mustParse(t, "2020-11-29T12:30:00Z")
	dt, ok := d.(datum.DateTime)
	if !ok || dt.Date.Year != 2020 || dt.Time.Hour != 12 || dt.Time.Minute != 30 {
		t.Errorf("datetime -> %+v", d)
	}
}

func TestParseIncompleteListError(t *testing.T) {
	p := New("(1 2", testOffset)
	if _, err := p.ParseOne(); err == nil {
		t.Errorf("expected incomplete_list error")
	}
}

func TestParseAllMultipleForms(t *testing.T) {
	p := New("1 2 3", testOffset)
	ds, err := p.ParseAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 3 {
		t.Fatalf("ParseAll = %v", ds)
	}
}
