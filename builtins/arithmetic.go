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
	"github.com/shopspring/decimal"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
)

// registerArithmetic binds `+`, `-`, `*`, `/` and `=` (spec section 4.4):
// a homogeneous-vector classify-then-promote-then-fold scheme shared by
// all four ops, plus the n-ary adjacent-pair equality check.
func registerArithmetic(ev *eval.Evaluator) {
	bindNative(ev, "+", arithNative(foldAdd, datum.Integer(0)))
	bindNative(ev, "*", arithNative(foldMul, datum.Integer(1)))
	bindNative(ev, "-", subNative)
	bindNative(ev, "/", divNative)
	bindNative(ev, "=", eqNative)
}

type foldFn func(kind datum.Kind, acc, x datum.Datum) (datum.Datum, error)

// arithNative builds a NativeFn for a fully-foldable op (+, *) that has an
// identity element usable when no arguments are given.
func arithNative(fold foldFn, identity datum.Datum) datum.NativeFn {
	return func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		if len(*args) == 0 {
			*args = []datum.Datum{identity}
			return nil
		}
		kind, err := datum.ClassifyNumeric(*args)
		if err != nil {
			return err
		}
		acc, err := datum.Promote(identity, kind)
		if err != nil {
			return err
		}
		for _, x := range *args {
			px, err := datum.Promote(x, kind)
			if err != nil {
				return err
			}
			acc, err = fold(kind, acc, px)
			if err != nil {
				return err
			}
		}
		*args = []datum.Datum{acc}
		return nil
	}
}

func subNative(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
	if len(*args) == 0 {
		return errors.New("-: requires at least one argument")
	}
	kind, err := datum.ClassifyNumeric(*args)
	if err != nil {
		return err
	}
	promoted := make([]datum.Datum, len(*args))
	for i, x := range *args {
		if promoted[i], err = datum.Promote(x, kind); err != nil {
			return err
		}
	}
	if len(promoted) == 1 {
		neg, err := negate(kind, promoted[0])
		if err != nil {
			return err
		}
		*args = []datum.Datum{neg}
		return nil
	}
	acc := promoted[0]
	for _, x := range promoted[1:] {
		if acc, err = foldSub(kind, acc, x); err != nil {
			return err
		}
	}
	*args = []datum.Datum{acc}
	return nil
}

// divNative implements `/` with unary-is-identity semantics (spec section
// 4.4's open question, resolved as identity per the spec text's own
// preference for later source revisions).
func divNative(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
	if len(*args) == 0 {
		return errors.New("/: requires at least one argument")
	}
	kind, err := datum.ClassifyNumeric(*args)
	if err != nil {
		return err
	}
	promoted := make([]datum.Datum, len(*args))
	for i, x := range *args {
		if promoted[i], err = datum.Promote(x, kind); err != nil {
			return err
		}
	}
	if len(promoted) == 1 {
		*args = []datum.Datum{promoted[0]}
		return nil
	}
	acc := promoted[0]
	for _, x := range promoted[1:] {
		if acc, err = foldDiv(kind, acc, x); err != nil {
			return err
		}
	}
	*args = []datum.Datum{acc}
	return nil
}

// eqNative implements n-ary `=`: true iff every adjacent pair compares
// numerically equal (spec section 4.4; the cross-kind double/decimal64
// helper lives in datum.Equal).
func eqNative(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
	for i := 0; i+1 < len(*args); i++ {
		if !datum.IsNumeric((*args)[i]) || !datum.IsNumeric((*args)[i+1]) {
			return errors.Errorf("=: non-numeric operand")
		}
		if !datum.Equal(offset, (*args)[i], (*args)[i+1]) {
			*args = []datum.Datum{datum.Boolean(false)}
			return nil
		}
	}
	*args = []datum.Datum{datum.Boolean(true)}
	return nil
}

func foldAdd(kind datum.Kind, acc, x datum.Datum) (datum.Datum, error) {
	switch kind {
	case datum.KindInteger:
		return acc.(datum.Integer) + x.(datum.Integer), nil
	case datum.KindInteger64:
		return acc.(datum.Integer64) + x.(datum.Integer64), nil
	case datum.KindDouble:
		return acc.(datum.Double) + x.(datum.Double), nil
	case datum.KindDecimal64:
		return datum.Decimal64{D: acc.(datum.Decimal64).D.Add(x.(datum.Decimal64).D)}, nil
	default:
		return nil, errors.Errorf("+: unsupported kind %s", kind)
	}
}

func foldMul(kind datum.Kind, acc, x datum.Datum) (datum.Datum, error) {
	switch kind {
	case datum.KindInteger:
		return acc.(datum.Integer) * x.(datum.Integer), nil
	case datum.KindInteger64:
		return acc.(datum.Integer64) * x.(datum.Integer64), nil
	case datum.KindDouble:
		return acc.(datum.Double) * x.(datum.Double), nil
	case datum.KindDecimal64:
		return datum.Decimal64{D: acc.(datum.Decimal64).D.Mul(x.(datum.Decimal64).D)}, nil
	default:
		return nil, errors.Errorf("*: unsupported kind %s", kind)
	}
}

func foldSub(kind datum.Kind, acc, x datum.Datum) (datum.Datum, error) {
	switch kind {
	case datum.KindInteger:
		return acc.(datum.Integer) - x.(datum.Integer), nil
	case datum.KindInteger64:
		return acc.(datum.Integer64) - x.(datum.Integer64), nil
	case datum.KindDouble:
		return acc.(datum.Double) - x.(datum.Double), nil
	case datum.KindDecimal64:
		return datum.Decimal64{D: acc.(datum.Decimal64).D.Sub(x.(datum.Decimal64).D)}, nil
	default:
		return nil, errors.Errorf("-: unsupported kind %s", kind)
	}
}

func foldDiv(kind datum.Kind, acc, x datum.Datum) (datum.Datum, error) {
	switch kind {
	case datum.KindInteger:
		xv := x.(datum.Integer)
		if xv == 0 {
			return nil, errors.New("/: division by zero")
		}
		return acc.(datum.Integer) / xv, nil
	case datum.KindInteger64:
		xv := x.(datum.Integer64)
		if xv == 0 {
			return nil, errors.New("/: division by zero")
		}
		return acc.(datum.Integer64) / xv, nil
	case datum.KindDouble:
		return acc.(datum.Double) / x.(datum.Double), nil
	case datum.KindDecimal64:
		xv := x.(datum.Decimal64).D
		if xv.IsZero() {
			return nil, errors.New("/: division by zero")
		}
		return datum.Decimal64{D: acc.(datum.Decimal64).D.DivRound(xv, decimal.DivisionPrecision)}, nil
	default:
		return nil, errors.Errorf("/: unsupported kind %s", kind)
	}
}

func negate(kind datum.Kind, x datum.Datum) (datum.Datum, error) {
	switch kind {
	case datum.KindInteger:
		return -x.(datum.Integer), nil
	case datum.KindInteger64:
		return -x.(datum.Integer64), nil
	case datum.KindDouble:
		return -x.(datum.Double), nil
	case datum.KindDecimal64:
		return datum.Decimal64{D: x.(datum.Decimal64).D.Neg()}, nil
	default:
		return nil, errors.Errorf("-: unsupported kind %s", kind)
	}
}
