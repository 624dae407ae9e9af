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

package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/parser"
	"github.com/dgoffredo/bdelisp/printer"
)

const testOffset int32 = 11000

func evalSrc(t *testing.T, i *Interpreter, src string) datum.Datum {
	t.Helper()
	p := parser.New(src, testOffset)
	form, err := p.ParseOne()
	require.NoError(t, err)
	return i.Evaluate(form)
}

func TestEndToEndArithmeticAndPrint(t *testing.T) {
	i := New(testOffset)
	result := evalSrc(t, i, "(+ 1 2 3)")
	require.Equal(t, "6", printer.Print(testOffset, result))
}

func TestDefineNativeRejectsDuplicate(t *testing.T) {
	i := New(testOffset)
	err := i.DefineNative("double", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		n := (*args)[0].(datum.Integer)
		*args = []datum.Datum{n * 2}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, datum.Integer(10), evalSrc(t, i, "(double 5)"))

	err = i.DefineNative("+", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error { return nil })
	require.ErrorIs(t, err, ErrAlreadyDefined)
}

func TestEvaluateNeverPanics(t *testing.T) {
	i := New(testOffset)
	result := evalSrc(t, i, "(unbound-name)")
	e, ok := result.(datum.Error)
	require.True(t, ok)
	require.Equal(t, int32(-2), e.Code)
}

func TestUserRaisePropagatesVerbatim(t *testing.T) {
	i := New(testOffset)
	result := evalSrc(t, i, `(raise "boom")`)
	require.Equal(t, datum.String("boom"), result)
}
