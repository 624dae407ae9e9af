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
	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/env"
)

// evaluateDefine implements (define name value-expr) (spec section 4.8.9):
// the name is bound to the undefined sentinel before value-expr is
// evaluated, so that a λ capturing its own name (direct recursion) sees a
// live entry to close over; the entry is then overwritten with the real
// value.
func (ev *Evaluator) evaluateDefine(tail datum.Datum, e *env.Env) datum.Datum {
	items, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil || len(items) != 2 {
		raise(CodeGeneric, "define requires exactly a name and a value expression")
	}
	sym, ok := datum.AsSymbol(ev.Offset, items[0])
	if !ok {
		raise(CodeGeneric, "define's first argument must be a symbol")
	}
	undefined := datum.NewBuiltin(ev.Offset, datum.BuiltinUndefined)
	entry, inserted := e.Define(sym.Name, undefined)
	if !inserted {
		entry.Value = undefined
	}
	value := ev.EvaluateExpr(items[1], e)
	entry.Value = value
	return value
}

// evaluateSetBang implements (set! name value-expr): name must already be
// bound somewhere in the environment chain; its entry is mutated in place,
// which is exactly what distinguishes set! from define.
func (ev *Evaluator) evaluateSetBang(tail datum.Datum, e *env.Env) datum.Datum {
	items, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil || len(items) != 2 {
		raise(CodeGeneric, "set! requires exactly a name and a value expression")
	}
	sym, ok := datum.AsSymbol(ev.Offset, items[0])
	if !ok {
		raise(CodeGeneric, "set!'s first argument must be a symbol")
	}
	entry := e.Lookup(sym.Name)
	if entry == nil {
		raise(CodeUnboundVariable, "unbound variable: %s", sym.Name)
	}
	value := ev.EvaluateExpr(items[1], e)
	entry.Value = value
	return value
}

// evaluateQuote implements (quote datum): the single argument is returned
// verbatim, never evaluated.
func (ev *Evaluator) evaluateQuote(tail datum.Datum) datum.Datum {
	items, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil || len(items) != 1 {
		raise(CodeGeneric, "quote takes exactly one argument")
	}
	return items[0]
}

// partiallyEvaluateIf implements (if pred then else) (spec section 4.8.7):
// the predicate is evaluated eagerly; only the chosen branch form is
// returned, unevaluated, so that the caller (either evaluate_pair in the
// non-tail case, or invoke_procedure's tail loop) decides how to proceed
// with it.
func (ev *Evaluator) partiallyEvaluateIf(tail datum.Datum, e *env.Env) datum.Datum {
	items, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil || len(items) != 3 {
		raise(CodeGeneric, "if requires exactly a predicate, a then-branch, and an else-branch")
	}
	pred := ev.EvaluateExpr(items[0], e)
	if b, ok := pred.(datum.Boolean); ok && !bool(b) {
		return items[2]
	}
	return items[1]
}

// evaluateBegin implements the supplemented begin form: every form but the
// last is evaluated for effect, and the last form's value is returned.
// invoke_procedure's tail loop special-cases begin in tail position so
// that a tail call inside a begin body still avoids growing the Go stack;
// this non-tail copy exists for begin appearing anywhere else.
func (ev *Evaluator) evaluateBegin(tail datum.Datum, e *env.Env) datum.Datum {
	forms, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil || len(forms) == 0 {
		raise(CodeGeneric, "begin requires at least one form")
	}
	for _, f := range forms[:len(forms)-1] {
		ev.EvaluateExpr(f, e)
	}
	return ev.EvaluateExpr(forms[len(forms)-1], e)
}

// evaluateAnd implements the supplemented and form: forms are evaluated
// left to right; the first to evaluate to boolean false short-circuits the
// rest and becomes the result, otherwise the last form's value is
// returned. (and) with no forms is true.
func (ev *Evaluator) evaluateAnd(tail datum.Datum, e *env.Env) datum.Datum {
	forms, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil {
		raise(CodeGeneric, "and must be a proper list of forms")
	}
	var result datum.Datum = datum.Boolean(true)
	for _, f := range forms {
		result = ev.EvaluateExpr(f, e)
		if b, ok := result.(datum.Boolean); ok && !bool(b) {
			return result
		}
	}
	return result
}

// evaluateOr implements the supplemented or form: forms are evaluated left
// to right; the first to evaluate to anything other than boolean false
// short-circuits the rest and becomes the result. (or) with no forms is
// false.
func (ev *Evaluator) evaluateOr(tail datum.Datum, e *env.Env) datum.Datum {
	forms, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil {
		raise(CodeGeneric, "or must be a proper list of forms")
	}
	var result datum.Datum = datum.Boolean(false)
	for _, f := range forms {
		result = ev.EvaluateExpr(f, e)
		if b, ok := result.(datum.Boolean); !ok || bool(b) {
			return result
		}
	}
	return result
}

// desugarLet rewrites a let form's tail -- a binding list followed by one
// or more body forms -- into the equivalent immediately-applied λ
// application: ((λ (name ...) body...) expr ...). Every other part of the
// evaluator (partial resolution in resolve.go, invoke_procedure's tail
// loop) therefore only ever has to understand λ application; neither has
// its own notion of a let-introduced scope to get wrong.
func desugarLet(offset int32, tail datum.Datum) datum.Datum {
	items, err := datum.ListToSlice(offset, tail)
	if err != nil || len(items) < 2 {
		raise(CodeGeneric, "let requires a binding list and at least one body form")
	}
	bindings, err := datum.ListToSlice(offset, items[0])
	if err != nil {
		raise(CodeGeneric, "let's binding list must be a proper list")
	}
	names := make([]datum.Datum, len(bindings))
	exprs := make([]datum.Datum, len(bindings))
	for i, b := range bindings {
		pair, err := datum.ListToSlice(offset, b)
		if err != nil || len(pair) != 2 {
			raise(CodeGeneric, "each let binding must be a (name expr) pair")
		}
		if _, ok := datum.AsSymbol(offset, pair[0]); !ok {
			raise(CodeGeneric, "let binding name must be a symbol")
		}
		names[i] = pair[0]
		exprs[i] = pair[1]
	}
	lambdaTag := datum.NewBuiltin(offset, datum.BuiltinLambda)
	params := datum.SliceToList(offset, names)
	lambdaBody := datum.SliceToList(offset, items[1:])
	lambdaForm := datum.NewPair(offset, lambdaTag, datum.NewPair(offset, params, lambdaBody))
	return datum.NewPair(offset, lambdaForm, datum.SliceToList(offset, exprs))
}

// evaluateLet implements the supplemented let form by desugaring it (see
// desugarLet) and evaluating the resulting application ordinarily; this is
// the non-tail path used when let appears anywhere but the tail position
// of a λ body (invoke_procedure's tail loop desugars it directly instead,
// so that a tail call inside a let body still trampolines).
func (ev *Evaluator) evaluateLet(tail datum.Datum, e *env.Env) datum.Datum {
	return ev.EvaluateExpr(desugarLet(ev.Offset, tail), e)
}
