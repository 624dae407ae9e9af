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
	"github.com/pkg/errors"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
)

// registerPairs binds spec section 4.5's pair/list procedures plus
// SPEC_FULL section 4.1/4.2's supplemented list helpers and traditional
// Lisp aliases (cons/car/cdr/cadr/cddr for pair/pair-first/pair-second).
func registerPairs(ev *eval.Evaluator) {
	bindNative(ev, "pair?", unary(func(offset int32, a datum.Datum) (datum.Datum, error) {
		return datum.Boolean(datum.IsPair(offset, a)), nil
	}))
	bindNative(ev, "null?", unary(func(_ int32, a datum.Datum) (datum.Datum, error) {
		return datum.Boolean(datum.IsNil(a)), nil
	}))

	cons := func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 2 {
			return errors.New("pair: requires exactly 2 arguments")
		}
		*args = []datum.Datum{datum.NewPair(offset, (*args)[0], (*args)[1])}
		return nil
	}
	bindNative(ev, "pair", cons)
	bindNative(ev, "cons", cons)

	car := unary(func(offset int32, a datum.Datum) (datum.Datum, error) { return datum.Car(offset, a) })
	bindNative(ev, "pair-first", car)
	bindNative(ev, "car", car)

	cdr := unary(func(offset int32, a datum.Datum) (datum.Datum, error) { return datum.Cdr(offset, a) })
	bindNative(ev, "pair-second", cdr)
	bindNative(ev, "cdr", cdr)

	bindNative(ev, "cadr", unary(func(offset int32, a datum.Datum) (datum.Datum, error) { return datum.Cadr(offset, a) }))
	bindNative(ev, "cddr", unary(func(offset int32, a datum.Datum) (datum.Datum, error) { return datum.Cddr(offset, a) }))

	bindNative(ev, "list", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		*args = []datum.Datum{datum.SliceToList(offset, *args)}
		return nil
	})
	bindNative(ev, "length", unary(func(offset int32, a datum.Datum) (datum.Datum, error) {
		n, err := datum.ListLength(offset, a)
		if err != nil {
			return nil, err
		}
		return datum.Integer(n), nil
	}))
	bindNative(ev, "reverse", unary(func(offset int32, a datum.Datum) (datum.Datum, error) {
		return datum.ListReverse(offset, a)
	}))
	bindNative(ev, "append", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		out, err := datum.ListAppend(offset, *args...)
		if err != nil {
			return err
		}
		*args = []datum.Datum{out}
		return nil
	})
	bindNative(ev, "list-ref", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 2 {
			return errors.New("list-ref: requires exactly 2 arguments")
		}
		idx, ok := (*args)[1].(datum.Integer)
		if !ok {
			return errors.New("list-ref: index must be an integer")
		}
		out, err := datum.ListRef(offset, (*args)[0], int(idx))
		if err != nil {
			return err
		}
		*args = []datum.Datum{out}
		return nil
	})
}

// unary adapts a (offset, arg) -> (Datum, error) function into a NativeFn
// that validates it receives exactly one argument.
func unary(fn func(offset int32, a datum.Datum) (datum.Datum, error)) datum.NativeFn {
	return func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 1 {
			return errors.New("expects exactly 1 argument")
		}
		out, err := fn(offset, (*args)[0])
		if err != nil {
			return err
		}
		*args = []datum.Datum{out}
		return nil
	}
}
