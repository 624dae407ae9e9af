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

// Package printer implements the Datum -> text serializer (spec section
// 6.2/C10): its output, for the closed subset of atoms, pairs, arrays,
// maps, binary, errors, and temporal kinds, round-trips back to an equal
// Datum through package lexer + package parser. Procedures, native
// procedures and unknown user-defined types print in a non-parseable
// diagnostic notation, exactly as spec.md prescribes; sets print as a
// `#{...}` literal in ascending order.
package printer

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/pset"
)

// Print renders d as text, using offset to recognize this interpreter's
// reserved user-defined types (pair, symbol, procedure, native procedure,
// set, builtin).
func Print(offset int32, d datum.Datum) string {
	var b strings.Builder
	write(&b, offset, d)
	return b.String()
}

func write(b *strings.Builder, offset int32, d datum.Datum) {
	switch v := d.(type) {
	case datum.Nil:
		b.WriteString("()")
	case datum.Integer:
		fmt.Fprintf(b, "%d", int32(v))
	case datum.Integer64:
		fmt.Fprintf(b, "%dL", int64(v))
	case datum.Double:
		writeDouble(b, float64(v))
	case datum.Decimal64:
		b.WriteString(v.D.String())
	case datum.Boolean:
		if v {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case datum.String:
		writeString(b, string(v))
	case datum.Binary:
		writeBinary(b, v)
	case datum.Error:
		writeError(b, v)
	case datum.Date:
		writeDate(b, v)
	case datum.Time:
		writeTime(b, v)
	case datum.DateTime:
		writeDate(b, v.Date)
		b.WriteByte('T')
		writeTime(b, v.Time)
		b.WriteByte('Z')
	case datum.DateTimeInterval:
		writeInterval(b, v)
	case datum.Array:
		writeArray(b, offset, v)
	case datum.MapString:
		writeMapString(b, offset, v)
	case datum.MapInt:
		writeMapInt(b, offset, v)
	case datum.UserDefined:
		writeUserDefined(b, offset, v)
	default:
		fmt.Fprintf(b, "#unknown[%v]", d)
	}
}

// writeDouble writes f's shortest formatting, appends ".0" when that has
// neither a decimal point nor an exponent, and ends with the "B" suffix
// (spec section 4.2/6.2: "12.34B" for double).
func writeDouble(b *strings.Builder, f float64) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	b.WriteString(s)
	b.WriteByte('B')
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func writeBinary(b *strings.Builder, bin datum.Binary) {
	b.WriteString(`#base64"`)
	b.WriteString(base64.StdEncoding.EncodeToString(bin))
	b.WriteByte('"')
}

func writeError(b *strings.Builder, e datum.Error) {
	fmt.Fprintf(b, "#error[%d", e.Code)
	if e.Message != "" {
		b.WriteByte(' ')
		writeString(b, e.Message)
	}
	b.WriteByte(']')
}

func writeDate(b *strings.Builder, d datum.Date) {
	fmt.Fprintf(b, "%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func writeTime(b *strings.Builder, t datum.Time) {
	fmt.Fprintf(b, "%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		fmt.Fprintf(b, ".%09d", t.Nanosecond)
	}
}

func writeInterval(b *strings.Builder, iv datum.DateTimeInterval) {
	if iv.Negative {
		b.WriteByte('-')
	}
	b.WriteString("#P")
	if iv.Days != 0 {
		fmt.Fprintf(b, "%dD", iv.Days)
	}
	if iv.Hours != 0 || iv.Minutes != 0 || iv.Secs != 0 || iv.Nanosecond != 0 {
		b.WriteByte('T')
		if iv.Hours != 0 {
			fmt.Fprintf(b, "%dH", iv.Hours)
		}
		if iv.Minutes != 0 {
			fmt.Fprintf(b, "%dM", iv.Minutes)
		}
		if iv.Secs != 0 || iv.Nanosecond != 0 {
			if iv.Nanosecond != 0 {
				frac := strings.TrimRight(fmt.Sprintf("%09d", iv.Nanosecond), "0")
				fmt.Fprintf(b, "%d.%sS", iv.Secs, frac)
			} else {
				fmt.Fprintf(b, "%dS", iv.Secs)
			}
		}
	}
}

func writeArray(b *strings.Builder, offset int32, a datum.Array) {
	b.WriteByte('[')
	for i, el := range a {
		if i > 0 {
			b.WriteByte(' ')
		}
		write(b, offset, el)
	}
	b.WriteByte(']')
}

func writeMapString(b *strings.Builder, offset int32, m datum.MapString) {
	b.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeString(b, entry.Key)
		b.WriteByte(' ')
		write(b, offset, entry.Value)
	}
	b.WriteByte('}')
}

func writeMapInt(b *strings.Builder, offset int32, m datum.MapInt) {
	b.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%d", entry.Key)
		b.WriteByte(' ')
		write(b, offset, entry.Value)
	}
	b.WriteByte('}')
}

func writeUserDefined(b *strings.Builder, offset int32, ud datum.UserDefined) {
	switch ud.TypeCode - offset {
	case datum.TypePair:
		writePairChain(b, offset, ud)
	case datum.TypeSymbol:
		sym := ud.Payload.(*datum.SymbolData)
		b.WriteString(sym.Name)
	case datum.TypeProcedure:
		writeProcedure(b, offset, ud.Payload.(*datum.ProcedureData))
	case datum.TypeNativeProcedure:
		nat := ud.Payload.(*datum.NativeProcedureData)
		fmt.Fprintf(b, "#procedure[native %s]", hexPointer(nat))
	case datum.TypeSet:
		writeSet(b, offset, ud.Payload.(*datum.SetData))
	case datum.TypeBuiltin:
		b.WriteString(ud.Payload.(datum.BuiltinTag).String())
	default:
		fmt.Fprintf(b, "#udt[%d %q]", ud.TypeCode, hexPointer(ud.Payload))
	}
}

// writePairChain prints a Pair datum as a parenthesized list, using the
// improper-list "." notation when the chain's terminal Second is neither
// Nil nor another Pair.
func writePairChain(b *strings.Builder, offset int32, head datum.UserDefined) {
	b.WriteByte('(')
	cur := datum.Datum(head)
	first := true
	for {
		p, ok := datum.AsPair(offset, cur)
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		write(b, offset, p.First)
		cur = p.Second
	}
	if !datum.IsNil(cur) {
		b.WriteString(" . ")
		write(b, offset, cur)
	}
	b.WriteByte(')')
}

// writeProcedure renders a closure in the non-parseable diagnostic
// notation spec section 6.2 prescribes: "#procedure[(λ <params> <body>)]".
func writeProcedure(b *strings.Builder, offset int32, p *datum.ProcedureData) {
	b.WriteString("#procedure[(λ (")
	for i, name := range p.Positional {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
	}
	if p.HasRest {
		if len(p.Positional) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(". ")
		b.WriteString(p.Rest)
	}
	b.WriteString(")")
	for cur := p.Body; ; {
		form, ok := datum.AsPair(offset, cur)
		if !ok {
			break
		}
		b.WriteByte(' ')
		write(b, offset, form.First)
		cur = form.Second
	}
	b.WriteString(")]")
}

// writeSet renders a Set in ascending comparator order (spec section
// 6.2): "#{elem elem ...}".
func writeSet(b *strings.Builder, offset int32, s *datum.SetData) {
	root, _ := s.Root.(*pset.Node[datum.Datum])
	items := pset.ToList(root)
	b.WriteString("#{")
	for i, el := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		write(b, offset, el)
	}
	b.WriteByte('}')
}

// hexPointer produces a stable-within-run textual address for a UDT
// payload, for the unknown-UDT and native-procedure print notations (spec
// section 6.2; spec section 9 notes this ordering/identity is "not
// portable across runs", which applies equally to its printed form).
func hexPointer(payload interface{}) string {
	if payload == nil {
		return "0x0"
	}
	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Ptr {
		return fmt.Sprintf("0x%x", rv.Pointer())
	}
	return fmt.Sprintf("%v", payload)
}
