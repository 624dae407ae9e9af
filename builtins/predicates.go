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

package builtins

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
)

// registerPredicates binds the reflective type predicates and string
// helpers pulled from original_source/lspcore_builtinprocedures.cpp
// (SPEC_FULL section 4.7), useful for scripts that branch on a Datum's
// tagged-union shape.
func registerPredicates(ev *eval.Evaluator) {
	bindNative(ev, "symbol?", unary(func(offset int32, a datum.Datum) (datum.Datum, error) {
		return datum.Boolean(datum.IsSymbol(offset, a)), nil
	}))
	bindNative(ev, "string?", unary(func(_ int32, a datum.Datum) (datum.Datum, error) {
		_, ok := a.(datum.String)
		return datum.Boolean(ok), nil
	}))
	bindNative(ev, "number?", unary(func(_ int32, a datum.Datum) (datum.Datum, error) {
		return datum.Boolean(datum.IsNumeric(a)), nil
	}))
	bindNative(ev, "procedure?", unary(func(offset int32, a datum.Datum) (datum.Datum, error) {
		if _, ok := datum.AsProcedure(offset, a); ok {
			return datum.Boolean(true), nil
		}
		_, ok := datum.AsNativeProcedure(offset, a)
		return datum.Boolean(ok), nil
	}))
	bindNative(ev, "string-length", unary(func(_ int32, a datum.Datum) (datum.Datum, error) {
		s, ok := a.(datum.String)
		if !ok {
			return nil, errors.New("string-length: not a string")
		}
		return datum.Integer(len(s)), nil
	}))
	bindNative(ev, "string-append", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		var b strings.Builder
		for _, a := range *args {
			s, ok := a.(datum.String)
			if !ok {
				return errors.New("string-append: not a string")
			}
			b.WriteString(string(s))
		}
		*args = []datum.Datum{datum.String(b.String())}
		return nil
	})
}
