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

// evaluateLambda builds a Procedure Datum from a λ form's tail (spec
// section 4.8.5): a parameter spec followed by one or more body forms. The
// body is passed through partial resolution before being stashed, and the
// defining environment is marked referenced since the new Procedure
// captures it.
func (ev *Evaluator) evaluateLambda(tail datum.Datum, e *env.Env) datum.Datum {
	items, err := datum.ListToSlice(ev.Offset, tail)
	if err != nil {
		raise(CodeGeneric, "λ must be a proper list")
	}
	if len(items) < 2 {
		raise(CodeGeneric, "λ requires a parameter spec and at least one body form")
	}
	positional, rest, hasRest := parseParamSpec(ev.Offset, items[0])
	checkDuplicateParams(positional, rest, hasRest)

	bodyForms := items[1:]
	resolved := make([]datum.Datum, len(bodyForms))
	for i, f := range bodyForms {
		resolved[i] = ev.rewritePartial(f, positional, rest, hasRest, e)
	}
	body := datum.SliceToList(ev.Offset, resolved)
	e.MarkAsReferenced()
	return datum.NewProcedure(ev.Offset, &datum.ProcedureData{
		Positional: positional,
		HasRest:    hasRest,
		Rest:       rest,
		Body:       body,
		Env:        e,
	})
}

// parseParamSpec interprets a λ parameter spec in its three surface forms
// (spec section 3.1): nil (no parameters), a bare symbol (all arguments
// collected as a rest list), or a (possibly improper) list of symbols,
// whose improper tail symbol names the rest parameter.
func parseParamSpec(offset int32, spec datum.Datum) (positional []string, rest string, hasRest bool) {
	cur := spec
	for {
		if datum.IsNil(cur) {
			return positional, "", false
		}
		if sym, ok := datum.AsSymbol(offset, cur); ok {
			return positional, sym.Name, true
		}
		p, ok := datum.AsPair(offset, cur)
		if !ok {
			raise(CodeGeneric, "malformed λ parameter spec")
		}
		psym, ok := datum.AsSymbol(offset, p.First)
		if !ok {
			raise(CodeGeneric, "λ parameter must be a symbol")
		}
		positional = append(positional, psym.Name)
		cur = p.Second
	}
}

func checkDuplicateParams(positional []string, rest string, hasRest bool) {
	seen := make(map[string]bool, len(positional)+1)
	for _, name := range positional {
		if seen[name] {
			raise(CodeGeneric, "duplicate parameter name: %s", name)
		}
		seen[name] = true
	}
	if hasRest && seen[rest] {
		raise(CodeGeneric, "duplicate parameter name: %s", rest)
	}
}

// invokeProcedure is the trampoline (spec section 4.8.8): it evaluates
// arguments and binds them into an invocation environment, evaluates every
// body form but the last for effect, then walks the last form's tail
// position in a loop so that a self (or mutual) tail call into another
// procedure -- whether direct, or reached through an if branch, a begin's
// last form, a let body (desugared to an application first), or the final
// sub-form of and/or -- never grows the Go call stack. The invocation
// environment fn_env is reused across a tail call
// only when the call is into the same procedure and fn_env was never
// captured by a closure (was_referenced); otherwise a fresh one, parented
// at the callee's captured environment, is allocated, preserving closure
// integrity.
func (ev *Evaluator) invokeProcedure(proc *datum.ProcedureData, tail datum.Datum, callerEnv *env.Env) datum.Datum {
	curProc := proc
	rest := tail
	argsEnv := callerEnv
	fnEnv := asEnv(proc.Env).NewChild()
	var argStack []datum.Datum

tailCall:
	for {
		argStack = argStack[:0]
		for range curProc.Positional {
			if datum.IsNil(rest) {
				raise(CodeWrongArity, "not enough arguments: expected %d", len(curProc.Positional))
			}
			p, ok := datum.AsPair(ev.Offset, rest)
			if !ok {
				raise(CodeWrongType, "procedure invocation must be a proper list")
			}
			argStack = append(argStack, ev.EvaluateExpr(p.First, argsEnv))
			rest = p.Second
		}
		if curProc.HasRest {
			for !datum.IsNil(rest) {
				p, ok := datum.AsPair(ev.Offset, rest)
				if !ok {
					raise(CodeWrongType, "procedure invocation must be a proper list")
				}
				argStack = append(argStack, ev.EvaluateExpr(p.First, argsEnv))
				rest = p.Second
			}
		} else if !datum.IsNil(rest) {
			raise(CodeWrongArity, "too many arguments: expected %d", len(curProc.Positional))
		}

		fnEnv.ClearLocals()
		fnEnv.BindPositional(ev.Offset, curProc.Positional, curProc.Rest, curProc.HasRest, argStack)

		bodyForms, err := datum.ListToSlice(ev.Offset, curProc.Body)
		if err != nil || len(bodyForms) == 0 {
			raise(CodeGeneric, "λ body must be a non-empty proper list")
		}
		for _, f := range bodyForms[:len(bodyForms)-1] {
			ev.EvaluateExpr(f, fnEnv)
		}
		form := bodyForms[len(bodyForms)-1]

		for {
			p, isPair := datum.AsPair(ev.Offset, form)
			if !isPair {
				return ev.EvaluateExpr(form, fnEnv)
			}
			head := ev.EvaluateExpr(p.First, fnEnv)
			if tag, ok := datum.AsBuiltin(ev.Offset, head); ok {
				switch tag {
				case datum.BuiltinIf:
					form = ev.partiallyEvaluateIf(p.Second, fnEnv)
					continue
				case datum.BuiltinBegin:
					forms, err := datum.ListToSlice(ev.Offset, p.Second)
					if err != nil || len(forms) == 0 {
						raise(CodeGeneric, "begin requires at least one form")
					}
					for _, f := range forms[:len(forms)-1] {
						ev.EvaluateExpr(f, fnEnv)
					}
					form = forms[len(forms)-1]
					continue
				case datum.BuiltinLet:
					form = desugarLet(ev.Offset, p.Second)
					continue
				case datum.BuiltinAnd:
					forms, err := datum.ListToSlice(ev.Offset, p.Second)
					if err != nil {
						raise(CodeGeneric, "and must be a proper list of forms")
					}
					if len(forms) == 0 {
						return datum.Boolean(true)
					}
					for _, f := range forms[:len(forms)-1] {
						v := ev.EvaluateExpr(f, fnEnv)
						if b, ok := v.(datum.Boolean); ok && !bool(b) {
							return v
						}
					}
					form = forms[len(forms)-1]
					continue
				case datum.BuiltinOr:
					forms, err := datum.ListToSlice(ev.Offset, p.Second)
					if err != nil {
						raise(CodeGeneric, "or must be a proper list of forms")
					}
					if len(forms) == 0 {
						return datum.Boolean(false)
					}
					for _, f := range forms[:len(forms)-1] {
						v := ev.EvaluateExpr(f, fnEnv)
						if b, ok := v.(datum.Boolean); !ok || bool(b) {
							return v
						}
					}
					form = forms[len(forms)-1]
					continue
				}
			}
			if nextProc, ok := datum.AsProcedure(ev.Offset, head); ok {
				argsEnv = fnEnv
				if fnEnv.WasReferenced() || nextProc != curProc {
					fnEnv = asEnv(nextProc.Env).NewChild()
				}
				curProc = nextProc
				rest = p.Second
				continue tailCall
			}
			return ev.applyHead(head, p.Second, fnEnv)
		}
	}
}
