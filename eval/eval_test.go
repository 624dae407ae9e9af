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

package eval

import (
	"testing"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/parser"
)

const testOffset int32 = 5000

func newTestEvaluator() *Evaluator {
	ev := New(testOffset)
	g := ev.Globals
	bind := func(name string, tag datum.BuiltinTag) {
		g.DefineOrRedefine(name, datum.NewBuiltin(testOffset, tag))
	}
	bind("lambda", datum.BuiltinLambda)
	bind("λ", datum.BuiltinLambda)
	bind("define", datum.BuiltinDefine)
	bind("set!", datum.BuiltinSetBang)
	bind("if", datum.BuiltinIf)
	bind("quote", datum.BuiltinQuote)
	bind("begin", datum.BuiltinBegin)
	bind("and", datum.BuiltinAnd)
	bind("or", datum.BuiltinOr)
	bind("let", datum.BuiltinLet)

	native := func(name string, fn datum.NativeFn) {
		g.DefineOrRedefine(name, datum.NewNativeProcedure(testOffset, name, fn))
	}
	native("+", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		sum := int32(0)
		for _, a := range *args {
			sum += int32(a.(datum.Integer))
		}
		*args = []datum.Datum{datum.Integer(sum)}
		return nil
	})
	native("-", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		a := (*args)[0].(datum.Integer)
		b := (*args)[1].(datum.Integer)
		*args = []datum.Datum{datum.Integer(a - b)}
		return nil
	})
	native("*", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		prod := int32(1)
		for _, a := range *args {
			prod *= int32(a.(datum.Integer))
		}
		*args = []datum.Datum{datum.Integer(prod)}
		return nil
	})
	native("=", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		a := (*args)[0].(datum.Integer)
		b := (*args)[1].(datum.Integer)
		*args = []datum.Datum{datum.Boolean(a == b)}
		return nil
	})
	native("cons", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		*args = []datum.Datum{datum.NewPair(offset, (*args)[0], (*args)[1])}
		return nil
	})
	native("pair-first", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		p, ok := datum.AsPair(offset, (*args)[0])
		if !ok {
			return errNotAPair
		}
		*args = []datum.Datum{p.First}
		return nil
	})
	return ev
}

var errNotAPair = &testError{"not a pair"}

type testError struct{ s string }

func (e *testError) Error() string { return e.s }

func mustEval(t *testing.T, ev *Evaluator, src string) datum.Datum {
	t.Helper()
	p := parser.New(src, testOffset)
	form, err := p.ParseOne()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	result := ev.Evaluate(form)
	if e, ok := result.(datum.Error); ok {
		t.Fatalf("eval(%q) raised: code=%d message=%s", src, e.Code, e.Message)
	}
	return result
}

func mustError(t *testing.T, ev *Evaluator, src string) datum.Error {
	t.Helper()
	p := parser.New(src, testOffset)
	form, err := p.ParseOne()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	result := ev.Evaluate(form)
	e, ok := result.(datum.Error)
	if !ok {
		t.Fatalf("eval(%q) = %v, want an error", src, result)
	}
	return e
}

func TestSelfEvaluatingAtoms(t *testing.T) {
	ev := newTestEvaluator()
	if d := mustEval(t, ev, "42"); d != datum.Integer(42) {
		t.Errorf("42 -> %v", d)
	}
	if d := mustEval(t, ev, `"hi"`); d != datum.String("hi") {
		t.Errorf(`"hi" -> %v`, d)
	}
}

func TestArithmeticApplication(t *testing.T) {
	ev := newTestEvaluator()
	if d := mustEval(t, ev, "(+ 1 2 3)"); d != datum.Integer(6) {
		t.Errorf("(+ 1 2 3) -> %v", d)
	}
}

func TestIfBranches(t *testing.T) {
	ev := newTestEvaluator()
	if d := mustEval(t, ev, "(if #t 1 2)"); d != datum.Integer(1) {
		t.Errorf("if true branch -> %v", d)
	}
	if d := mustEval(t, ev, "(if #f 1 2)"); d != datum.Integer(2) {
		t.Errorf("if false branch -> %v", d)
	}
	// Any non-#f value, including 0, takes the then branch.
	if d := mustEval(t, ev, "(if 0 1 2)"); d != datum.Integer(1) {
		t.Errorf("if truthy-zero branch -> %v", d)
	}
}

func TestQuoteIsUnevaluated(t *testing.T) {
	ev := newTestEvaluator()
	d := mustEval(t, ev, "'(1 x)")
	items, err := datum.ListToSlice(testOffset, d)
	if err != nil || len(items) != 2 || items[0] != datum.Integer(1) {
		t.Fatalf("quote -> %v", d)
	}
	if _, ok := datum.AsSymbol(testOffset, items[1]); !ok {
		t.Errorf("quote should leave the symbol unevaluated, got %v", items[1])
	}
}

func TestDefineAndLookup(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define x 10)")
	if d := mustEval(t, ev, "(+ x 5)"); d != datum.Integer(15) {
		t.Errorf("define then reference -> %v", d)
	}
}

func TestSetBangMutatesExistingBinding(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define x 1)")
	mustEval(t, ev, "(set! x 99)")
	if d := mustEval(t, ev, "x"); d != datum.Integer(99) {
		t.Errorf("set! -> %v", d)
	}
}

func TestSetBangUnboundIsError(t *testing.T) {
	ev := newTestEvaluator()
	e := mustError(t, ev, "(set! never-defined 1)")
	if e.Code != CodeUnboundVariable {
		t.Errorf("set! on unbound var code = %d, want %d", e.Code, CodeUnboundVariable)
	}
}

func TestUnboundVariableError(t *testing.T) {
	ev := newTestEvaluator()
	e := mustError(t, ev, "nonexistent")
	if e.Code != CodeUnboundVariable {
		t.Errorf("unbound variable code = %d, want %d", e.Code, CodeUnboundVariable)
	}
}

func TestNotApplicableError(t *testing.T) {
	ev := newTestEvaluator()
	e := mustError(t, ev, "(1 2 3)")
	if e.Code != CodeNotApplicable {
		t.Errorf("not-applicable code = %d, want %d", e.Code, CodeNotApplicable)
	}
}

func TestLambdaApplicationAndClosure(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define add (λ (a b) (+ a b)))")
	if d := mustEval(t, ev, "(add 3 4)"); d != datum.Integer(7) {
		t.Errorf("(add 3 4) -> %v", d)
	}
	mustEval(t, ev, "(define make-adder (λ (n) (λ (x) (+ x n))))")
	mustEval(t, ev, "(define add5 (make-adder 5))")
	if d := mustEval(t, ev, "(add5 10)"); d != datum.Integer(15) {
		t.Errorf("closure over n -> %v", d)
	}
}

func TestBeginAndAndOr(t *testing.T) {
	ev := newTestEvaluator()
	if d := mustEval(t, ev, "(begin 1 2 3)"); d != datum.Integer(3) {
		t.Errorf("begin -> %v", d)
	}
	if d := mustEval(t, ev, "(and #t 1 2)"); d != datum.Integer(2) {
		t.Errorf("and all-truthy -> %v", d)
	}
	if d := mustEval(t, ev, "(and #t #f 2)"); d != datum.Boolean(false) {
		t.Errorf("and short-circuit -> %v", d)
	}
	if d := mustEval(t, ev, "(or #f #f 3)"); d != datum.Integer(3) {
		t.Errorf("or -> %v", d)
	}
}

func TestLetBindsLocalNames(t *testing.T) {
	ev := newTestEvaluator()
	d := mustEval(t, ev, "(let ((a 1) (b 2)) (+ a b))")
	if d != datum.Integer(3) {
		t.Errorf("let -> %v", d)
	}
}

func TestRecursiveTailCallDoesNotOverflowStack(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, `
		(define count-down
		  (λ (n acc)
		    (if (= n 0)
		        acc
		        (count-down (- n 1) (+ acc 1)))))
	`)
	d := mustEval(t, ev, "(count-down 200000 0)")
	if d != datum.Integer(200000) {
		t.Errorf("tail-recursive count-down -> %v", d)
	}
}

func TestNonTailRecursionStillWorksForSmallDepth(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, `
		(define fact
		  (λ (n)
		    (if (= n 0)
		        1
		        (* n (fact (- n 1))))))
	`)
	d := mustEval(t, ev, "(fact 10)")
	if d != datum.Integer(3628800) {
		t.Errorf("fact(10) -> %v", d)
	}
}

func TestConsAndPairFirst(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define p (cons 1 2))")
	if d := mustEval(t, ev, "(pair-first p)"); d != datum.Integer(1) {
		t.Errorf("pair-first -> %v", d)
	}
}

func TestWrongArityError(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define one-arg (λ (a) a))")
	e := mustError(t, ev, "(one-arg 1 2)")
	if e.Code != CodeWrongArity {
		t.Errorf("wrong arity code = %d, want %d", e.Code, CodeWrongArity)
	}
}

func TestVariadicRest(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, "(define first-of (λ (first . rest) first))")
	if d := mustEval(t, ev, "(first-of 1 2 3)"); d != datum.Integer(1) {
		t.Errorf("rest-arg lambda -> %v", d)
	}
}
