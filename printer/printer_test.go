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

package printer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/parser"
)

const testOffset int32 = 9000

// roundTrip checks the universal invariant of spec section 8.1:
// parse(print(d)) == d, structurally, for the closed subset of Datums the
// printer promises to round-trip.
func roundTrip(t *testing.T, src string) {
	t.Helper()
	p := parser.New(src, testOffset)
	d, err := p.ParseOne()
	require.NoError(t, err)

	printed := Print(testOffset, d)
	p2 := parser.New(printed, testOffset)
	d2, err := p2.ParseOne()
	require.NoError(t, err, "re-parsing printed form %q", printed)
	require.True(t, datum.Equal(testOffset, d, d2), "print(%q) = %q did not round-trip", src, printed)
}

func TestRoundTripAtoms(t *testing.T) {
	roundTrip(t, "42")
	roundTrip(t, "42L")
	roundTrip(t, "3.5B")
	roundTrip(t, "3.5")
	roundTrip(t, "#t")
	roundTrip(t, "#f")
	roundTrip(t, `"hello\nworld"`)
	roundTrip(t, `#base64"aGVsbG8="`)
	roundTrip(t, "#error[-1 \"oops\"]")
	roundTrip(t, "#error[0]")
	roundTrip(t, "2024-01-02")
	roundTrip(t, "10:20:30")
	roundTrip(t, "2024-01-02T10:20:30Z")
}

func TestRoundTripCompound(t *testing.T) {
	roundTrip(t, "(1 2 3)")
	roundTrip(t, "(1 . 2)")
	roundTrip(t, "()")
	roundTrip(t, "[1 2 3]")
	roundTrip(t, `{"a" 1 "b" 2}`)
	roundTrip(t, "'x")
}

func TestPrintNonParseableNotations(t *testing.T) {
	sym, err := datum.NewSymbol(testOffset, "x")
	require.NoError(t, err)
	proc := datum.NewProcedure(testOffset, &datum.ProcedureData{
		Positional: []string{"x"},
		Body:       datum.SliceToList(testOffset, []datum.Datum{sym}),
		Env:        nil,
	})
	require.Regexp(t, `^#procedure\[\(λ \(x\) x\)\]$`, Print(testOffset, proc))

	nat := datum.NewNativeProcedure(testOffset, "dummy", func(*[]datum.Datum, interface{}, int32, interface{}) error { return nil })
	require.Regexp(t, `^#procedure\[native 0x[0-9a-f]+\]$`, Print(testOffset, nat))

	builtin := datum.NewBuiltin(testOffset, datum.BuiltinDefine)
	require.Equal(t, "define", Print(testOffset, builtin))
}

func TestPrintSetAscending(t *testing.T) {
	p := parser.New("#{3 1 2}", testOffset)
	d, err := p.ParseOne()
	require.NoError(t, err)
	require.Equal(t, "#{1 2 3}", Print(testOffset, d))
}
