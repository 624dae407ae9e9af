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

// Package env implements the lexically-scoped Environment (spec section
// 3.2/4.6): a chain of local-name maps, a sticky was-referenced flag that
// gates whether a procedure-invocation environment is safe to reuse across
// a tail call, and an indexed Arguments view supporting the
// argument-offset symbol encoding (section 3.3).
package env

import "github.com/dgoffredo/bdelisp/datum"

// Entry is one binding: a mutable cell holding a Datum. Symbols encoded as
// entry-pointer (section 3.3) hold a *Entry directly, so that mutating
// Value via set! is visible through every such symbol without a further
// lookup.
type Entry struct {
	Name  string
	Value datum.Datum
}

// Env is one environment frame. The zero value is not usable; construct
// with New or NewChild.
type Env struct {
	locals     map[string]*Entry
	parent     *Env
	arguments  []*Entry
	referenced bool
}

// New creates an empty, parentless environment (used for the globals
// frame, spec section 3.2 lifecycle case (a)).
func New() *Env {
	return &Env{locals: make(map[string]*Entry)}
}

// NewChild creates an environment whose parent is e (lifecycle case (b):
// one per procedure invocation, parented at the procedure's captured
// environment). Creating a child does not itself mark e as referenced;
// that happens only when e is captured by a λ (see MarkAsReferenced).
func (e *Env) NewChild() *Env {
	return &Env{locals: make(map[string]*Entry), parent: e}
}

// Lookup walks the parent chain starting at e and returns the entry bound
// to name, or nil if unbound anywhere in the chain.
func (e *Env) Lookup(name string) *Entry {
	for cur := e; cur != nil; cur = cur.parent {
		if entry, ok := cur.locals[name]; ok {
			return entry
		}
	}
	return nil
}

// Define inserts name=value into e's locals if not already present,
// returning the (possibly pre-existing) entry and whether an insertion
// happened. It never touches the parent chain.
func (e *Env) Define(name string, value datum.Datum) (entry *Entry, inserted bool) {
	if existing, ok := e.locals[name]; ok {
		return existing, false
	}
	entry = &Entry{Name: name, Value: value}
	e.locals[name] = entry
	return entry, true
}

// DefineOrRedefine unconditionally sets name=value in e's locals,
// returning the entry (a fresh one, even if name was already bound --
// existing entry-pointer symbols referring to the old binding continue to
// see the old entry). The evaluator's define form uses Define instead and
// overwrites an existing entry in place.
func (e *Env) DefineOrRedefine(name string, value datum.Datum) *Entry {
	entry := &Entry{Name: name, Value: value}
	e.locals[name] = entry
	return entry
}

// ClearLocals empties e's local map, used when reusing an invocation
// environment across a tail call into the same procedure (spec section 5).
// It must never be called on an environment whose WasReferenced flag is
// set, since that would invalidate closures that captured it.
func (e *Env) ClearLocals() {
	for k := range e.locals {
		delete(e.locals, k)
	}
	e.arguments = e.arguments[:0]
}

// MarkAsReferenced sets e's sticky was_referenced flag. The evaluator calls
// it whenever a λ captures e as its defining environment; NewChild does not
// call it.
func (e *Env) MarkAsReferenced() {
	e.referenced = true
}

// WasReferenced reports whether MarkAsReferenced has ever been called on e,
// i.e. whether a closure has captured it. Once true, always true (spec
// section 3.2).
func (e *Env) WasReferenced() bool {
	return e.referenced
}

// BindPositional defines the procedure's positional and (if present) rest
// parameters in e's locals, and populates e's Arguments view so that the
// argument-offset symbol encoding can resolve them without a hash lookup.
// offset is the interpreter's user-defined type offset, needed to build the
// rest parameter's Pair-chain list with the caller's reserved type codes.
func (e *Env) BindPositional(offset int32, positional []string, rest string, hasRest bool, args []datum.Datum) {
	e.arguments = e.arguments[:0]
	for i, name := range positional {
		var v datum.Datum = datum.Nil{}
		if i < len(args) {
			v = args[i]
		}
		entry, inserted := e.Define(name, v)
		if !inserted {
			entry.Value = v
		}
		e.arguments = append(e.arguments, entry)
	}
	if hasRest {
		var restArgs []datum.Datum
		if len(args) > len(positional) {
			restArgs = args[len(positional):]
		}
		restList := datum.SliceToList(offset, restArgs)
		entry, inserted := e.Define(rest, restList)
		if !inserted {
			entry.Value = restList
		}
		e.arguments = append(e.arguments, entry)
	}
}

// Argument returns the entry at position i in e's Arguments view, used by
// the argument-offset symbol encoding (spec section 3.3) to resolve
// without a hash lookup. It returns nil if i is out of range.
func (e *Env) Argument(i int) *Entry {
	if i < 0 || i >= len(e.arguments) {
		return nil
	}
	return e.arguments[i]
}

// Parent returns e's parent environment, or nil for a root/globals frame.
func (e *Env) Parent() *Env {
	return e.parent
}
