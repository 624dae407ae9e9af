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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
	"github.com/dgoffredo/bdelisp/parser"
)

const testOffset int32 = 7000

func newTestEvaluator(t *testing.T) *eval.Evaluator {
	t.Helper()
	ev := eval.New(testOffset)
	ev.Handle = ev
	Register(ev)
	return ev
}

func mustEval(t *testing.T, ev *eval.Evaluator, src string) datum.Datum {
	t.Helper()
	p := parser.New(src, testOffset)
	form, err := p.ParseOne()
	require.NoError(t, err)
	result := ev.Evaluate(form)
	if e, ok := result.(datum.Error); ok {
		t.Fatalf("eval(%q) raised: code=%d message=%s", src, e.Code, e.Message)
	}
	return result
}

func TestArithmetic(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Integer(6), mustEval(t, ev, "(+ 1 2 3)"))
	require.Equal(t, datum.Integer(1), mustEval(t, ev, "(*)"))
	require.Equal(t, datum.Integer(0), mustEval(t, ev, "(+)"))
	require.Equal(t, datum.Integer(-5), mustEval(t, ev, "(- 5)"))
	require.Equal(t, datum.Integer(1), mustEval(t, ev, "(- 5 4)"))
	require.Equal(t, datum.Integer(2), mustEval(t, ev, "(/ 10 5)"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(= 1 1 1)"))
	require.Equal(t, datum.Boolean(false), mustEval(t, ev, "(= 1 1 2)"))
}

func TestLambdaApplication(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Integer(30), mustEval(t, ev, "((λ (x y) (+ x y)) 10 20)"))
}

func TestTailCallDoesNotOverflow(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, `(define loop (λ (n) (if (= n 0) 'done (loop (- n 1)))))`)
	result := mustEval(t, ev, "(loop 100000)")
	name, ok := datum.SymbolName(testOffset, result)
	require.True(t, ok)
	require.Equal(t, "done", name)
}

func TestClosureSurvivesTailCallReuse(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, `(define make-counter
	  (λ ()
	    (define n 0)
	    (λ () (set! n (+ n 1)) n)))`)
	mustEval(t, ev, "(define c (make-counter))")
	require.Equal(t, datum.Integer(1), mustEval(t, ev, "(c)"))
	require.Equal(t, datum.Integer(2), mustEval(t, ev, "(c)"))
	require.Equal(t, datum.Integer(3), mustEval(t, ev, "(c)"))
}

func TestPersistentSet(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, "(define s (set 3 1 4 1 5 9 2 6))")
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(set-contains? s 5)"))
	require.Equal(t, datum.Boolean(false), mustEval(t, ev, "(set-contains? (set-remove s 5) 5)"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(set-contains? s 5)"))
}

func TestQuoteAndEquality(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(equal? '(1 2 3) (list 1 2 3))"))
}

// TestEqualityCrossKindNumeric documents the chosen resolution of
// equal?'s cross-kind numeric behavior: it follows the arithmetic =
// rule, the same promotion datum.Equal already uses, rather than
// requiring identical numeric kinds.
func TestEqualityCrossKindNumeric(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(equal? '(1 2.0B 3) (list 1 2 3))"))
}

func TestPairAliases(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Integer(1), mustEval(t, ev, "(car (cons 1 2))"))
	require.Equal(t, datum.Integer(2), mustEval(t, ev, "(cdr (cons 1 2))"))
	require.Equal(t, datum.Integer(2), mustEval(t, ev, "(cadr (list 1 2 3))"))
}

func TestListHelpers(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Integer(3), mustEval(t, ev, "(length (list 1 2 3))"))
	require.Equal(t, datum.Integer(1), mustEval(t, ev, "(list-ref (list 3 2 1) 2)"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(equal? (reverse (list 1 2 3)) (list 3 2 1))"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(equal? (append (list 1 2) (list 3 4)) (list 1 2 3 4))"))
}

func TestApply(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Integer(6), mustEval(t, ev, "(apply + (list 1 2 3))"))
}

func TestRaisePropagatesDatumVerbatim(t *testing.T) {
	ev := newTestEvaluator(t)
	p := parser.New(`(raise (pair 42 "boom"))`, testOffset)
	form, err := p.ParseOne()
	require.NoError(t, err)
	result := ev.Evaluate(form)
	pd, ok := datum.AsPair(testOffset, result)
	require.True(t, ok)
	require.Equal(t, datum.Integer(42), pd.First)
	require.Equal(t, datum.String("boom"), pd.Second)
}

func TestPredicates(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(symbol? 'x)"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, `(string? "x")`))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(number? 1)"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(procedure? (λ (x) x))"))
	require.Equal(t, datum.Boolean(true), mustEval(t, ev, "(not #f)"))
	require.Equal(t, datum.String("ab"), mustEval(t, ev, `(string-append "a" "b")`))
}

func TestAndOrLet(t *testing.T) {
	ev := newTestEvaluator(t)
	require.Equal(t, datum.Boolean(false), mustEval(t, ev, "(and #t #f #t)"))
	require.Equal(t, datum.Integer(3), mustEval(t, ev, "(or #f 3 4)"))
	require.Equal(t, datum.Integer(5), mustEval(t, ev, "(let ((x 2) (y 3)) (+ x y))"))
}

// TestLetShadowsParameter guards against a let binding inside a λ body
// being resolved against the enclosing λ's own scope: the body's reference
// to n must see the let's local binding, not the λ's parameter.
func TestLetShadowsParameter(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, `(define f (λ (n) (let ((n (+ n 1))) n)))`)
	require.Equal(t, datum.Integer(6), mustEval(t, ev, "(f 5)"))
}

// TestLetShadowsGlobal guards against a let binding being resolved as a
// direct entry-pointer to a same-named global: the body must see the
// let's local binding, not the outer x.
func TestLetShadowsGlobal(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, "(define x 1)")
	mustEval(t, ev, "(define f (λ () (let ((x 2)) x)))")
	require.Equal(t, datum.Integer(2), mustEval(t, ev, "(f)"))
}

// TestTailCallThroughLetDoesNotOverflow exercises a tail-recursive loop
// whose recursive call is the last form of a let body, rather than
// directly in an if/begin tail position.
func TestTailCallThroughLetDoesNotOverflow(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, `(define loop (λ (n) (if (= n 0) 'done (let ((m (- n 1))) (loop m)))))`)
	result := mustEval(t, ev, "(loop 100000)")
	name, ok := datum.SymbolName(testOffset, result)
	require.True(t, ok)
	require.Equal(t, "done", name)
}

// TestTailCallThroughAndOrDoesNotOverflow exercises tail-recursive loops
// whose recursive call is the final sub-form of and/or.
func TestTailCallThroughAndOrDoesNotOverflow(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, `(define loopAnd (λ (n) (if (= n 0) 'done (and #t (loopAnd (- n 1))))))`)
	result := mustEval(t, ev, "(loopAnd 100000)")
	name, ok := datum.SymbolName(testOffset, result)
	require.True(t, ok)
	require.Equal(t, "done", name)

	mustEval(t, ev, `(define loopOr (λ (n) (if (= n 0) 'done (or #f (loopOr (- n 1))))))`)
	result = mustEval(t, ev, "(loopOr 100000)")
	name, ok = datum.SymbolName(testOffset, result)
	require.True(t, ok)
	require.Equal(t, "done", name)
}
