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

// Package builtins implements the native procedures and special-form
// bindings of spec section 4.5, as expanded by SPEC_FULL section 4:
// pair/list operations, equality, apply, raise, the four arithmetic ops,
// persistent-set operations, and the supplemented list/predicate/string
// helpers drawn from original_source/'s lspcore_listutil and
// lspcore_builtinprocedures. Register installs all of it into an
// Evaluator's global environment; callers that want a bare evaluator
// (e.g. the eval package's own tests) are free to skip this package
// entirely and bind a smaller set by hand.
package builtins

import (
	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/env"
	"github.com/dgoffredo/bdelisp/eval"
)

// Register binds every special-form tag and native procedure this package
// implements into ev.Globals. It is idempotent: calling it twice simply
// redefines the same names.
func Register(ev *eval.Evaluator) {
	registerForms(ev)
	registerArithmetic(ev)
	registerPairs(ev)
	registerPredicates(ev)
	registerEquality(ev)
	registerSets(ev)
	registerControl(ev)
}

func bindForm(ev *eval.Evaluator, name string, tag datum.BuiltinTag) {
	ev.Globals.DefineOrRedefine(name, datum.NewBuiltin(ev.Offset, tag))
}

func bindNative(ev *eval.Evaluator, name string, fn datum.NativeFn) {
	ev.Globals.DefineOrRedefine(name, datum.NewNativeProcedure(ev.Offset, name, fn))
}

// registerForms binds the special-form tags (spec section 3.1 plus
// SPEC_FULL section 4's begin/and/or/let) to their canonical names. These
// are not procedures -- evaluate_pair's dispatch (eval package) recognizes
// them directly as Builtin Datums.
func registerForms(ev *eval.Evaluator) {
	bindForm(ev, "lambda", datum.BuiltinLambda)
	bindForm(ev, "λ", datum.BuiltinLambda)
	bindForm(ev, "define", datum.BuiltinDefine)
	bindForm(ev, "set!", datum.BuiltinSetBang)
	bindForm(ev, "if", datum.BuiltinIf)
	bindForm(ev, "quote", datum.BuiltinQuote)
	bindForm(ev, "begin", datum.BuiltinBegin)
	bindForm(ev, "and", datum.BuiltinAnd)
	bindForm(ev, "or", datum.BuiltinOr)
	bindForm(ev, "let", datum.BuiltinLet)
}

// asEnv recovers the concrete *env.Env from a NativeFn's opaque envRef
// argument (spec section 6.3: the native-callable signature carries env
// as interface{} so that package datum need not import package env).
func asEnv(x interface{}) *env.Env {
	return x.(*env.Env)
}

// asEvaluator recovers the concrete *eval.Evaluator from a NativeFn's
// opaque interp argument. interp.New wires Evaluator.Handle to the
// Evaluator itself for exactly this purpose (see package interp).
func asEvaluator(x interface{}) *eval.Evaluator {
	return x.(*eval.Evaluator)
}
