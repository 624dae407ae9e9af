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

// rewritePartial is the ahead-of-time partial-resolution pass (spec
// section 4.8.6): every symbol appearing in a λ body is rewritten, once,
// to the encoding evaluate_symbol can resolve without a name lookup --
// argument-offset for the new procedure's own parameters, entry-pointer
// for anything already bound in an enclosing scope at λ-construction time,
// or left as a name-carrying symbol when unresolved (a forward reference
// to a not-yet-defined global, resolved the slow way at call time).
//
// Two recursion exceptions apply: a nested lambda/λ or quote form is left
// entirely alone (its tail is not a sequence of ordinary expressions), and
// a nested define/set! does not resolve its own name slot (the symbol
// being bound, not referenced).
func (ev *Evaluator) rewritePartial(form datum.Datum, positional []string, rest string, hasRest bool, definingEnv *env.Env) datum.Datum {
	if sym, ok := datum.AsSymbol(ev.Offset, form); ok {
		for i, p := range positional {
			if p == sym.Name {
				return datum.NewArgumentOffsetSymbol(ev.Offset, sym.Name, i)
			}
		}
		if hasRest && sym.Name == rest {
			return datum.NewArgumentOffsetSymbol(ev.Offset, sym.Name, len(positional))
		}
		if entry := definingEnv.Lookup(sym.Name); entry != nil {
			return datum.NewEntryPointerSymbol(ev.Offset, sym.Name, entry)
		}
		return form
	}
	if pair, ok := datum.AsPair(ev.Offset, form); ok {
		headName, _ := datum.SymbolName(ev.Offset, pair.First)
		if tag, ok := datum.AsBuiltin(ev.Offset, pair.First); ok {
			// desugarLet's λ form has a Builtin head, not a symbol.
			headName = tag.String()
		}
		switch headName {
		case "lambda", "λ", "quote":
			newHead := ev.rewritePartial(pair.First, positional, rest, hasRest, definingEnv)
			return datum.NewPair(ev.Offset, newHead, pair.Second)
		case "let":
			// A let introduces its own binding scope, so it must not be
			// resolved as if its names and body were part of the
			// enclosing λ: desugar to an application first (see
			// desugarLet) and resolve that instead. The nested λ the
			// desugaring produces then gets its own resolution frame via
			// the "lambda"/"λ" case above, exactly like a λ literal
			// written directly in the body.
			return ev.rewritePartial(desugarLet(ev.Offset, pair.Second), positional, rest, hasRest, definingEnv)
		case "define", "set!":
			newHead := ev.rewritePartial(pair.First, positional, rest, hasRest, definingEnv)
			items, err := datum.ListToSlice(ev.Offset, pair.Second)
			if err != nil || len(items) == 0 {
				return datum.NewPair(ev.Offset, newHead, pair.Second)
			}
			rewritten := make([]datum.Datum, len(items))
			rewritten[0] = items[0]
			for i := 1; i < len(items); i++ {
				rewritten[i] = ev.rewritePartial(items[i], positional, rest, hasRest, definingEnv)
			}
			return datum.NewPair(ev.Offset, newHead, datum.SliceToList(ev.Offset, rewritten))
		default:
			newHead := ev.rewritePartial(pair.First, positional, rest, hasRest, definingEnv)
			newTail := ev.rewriteTail(pair.Second, positional, rest, hasRest, definingEnv)
			return datum.NewPair(ev.Offset, newHead, newTail)
		}
	}
	switch v := form.(type) {
	case datum.Array:
		out := make(datum.Array, len(v))
		for i, el := range v {
			out[i] = ev.rewritePartial(el, positional, rest, hasRest, definingEnv)
		}
		return out
	case datum.MapString:
		out := make(datum.MapString, len(v))
		for i, entry := range v {
			out[i] = datum.MapStringEntry{Key: entry.Key, Value: ev.rewritePartial(entry.Value, positional, rest, hasRest, definingEnv)}
		}
		return out
	case datum.MapInt:
		out := make(datum.MapInt, len(v))
		for i, entry := range v {
			out[i] = datum.MapIntEntry{Key: entry.Key, Value: ev.rewritePartial(entry.Value, positional, rest, hasRest, definingEnv)}
		}
		return out
	default:
		return form
	}
}

// rewriteTail walks a (possibly improper) Pair chain element-wise, used
// for the tail of an application form: every sibling sub-form is itself
// partially resolved.
func (ev *Evaluator) rewriteTail(form datum.Datum, positional []string, rest string, hasRest bool, definingEnv *env.Env) datum.Datum {
	if datum.IsNil(form) {
		return form
	}
	if pair, ok := datum.AsPair(ev.Offset, form); ok {
		newFirst := ev.rewritePartial(pair.First, positional, rest, hasRest, definingEnv)
		newSecond := ev.rewriteTail(pair.Second, positional, rest, hasRest, definingEnv)
		return datum.NewPair(ev.Offset, newFirst, newSecond)
	}
	return ev.rewritePartial(form, positional, rest, hasRest, definingEnv)
}
