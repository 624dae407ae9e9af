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

// Package interp is the public façade spec section 6.3 describes: it
// wires package eval's Evaluator together with package builtins' native
// procedures and exposes the four boundary operations a host embedding
// this interpreter needs. It is the thin seam at which the otherwise
// import-cycle-free datum/env/eval packages get handed a concrete
// *Evaluator to carry as their opaque interp.Handle (see
// eval.Evaluator.Handle's doc comment).
//
// Allocation (spec section 5/9): this implementation lets the Go runtime's
// garbage collector play the role the spec calls "the allocator" --
// Datums, Environments and PersistentSet nodes are ordinary heap values
// with no explicit arena or reference count, which satisfies the spec's
// only hard requirement ("never observe a use-after-free") without
// introducing an allocator abstraction package has no use for.
package interp

import (
	"github.com/pkg/errors"

	"github.com/dgoffredo/bdelisp/builtins"
	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/env"
	"github.com/dgoffredo/bdelisp/eval"
)

// ErrAlreadyDefined is returned by DefineNative when name is already bound
// in the global environment (spec section 6.3: "ok | already_defined").
var ErrAlreadyDefined = errors.New("already defined")

// Interpreter is the public entry point: construct one with New, feed it
// parsed Datum forms via Evaluate.
type Interpreter struct {
	ev *eval.Evaluator
}

// New constructs an Interpreter with the library's full native/special-form
// vocabulary (package builtins) pre-registered in a fresh global
// environment, under the given user-defined type offset (spec section
// 3.1: reserved codes are offset+0..offset+5).
func New(offset int32) *Interpreter {
	ev := eval.New(offset)
	ev.Handle = ev
	builtins.Register(ev)
	return &Interpreter{ev: ev}
}

// Offset returns the interpreter's reserved user-defined type offset.
func (i *Interpreter) Offset() int32 {
	return i.ev.Offset
}

// Globals returns the interpreter's global Environment, letting a host
// application inspect or extend top-level bindings directly.
func (i *Interpreter) Globals() *env.Env {
	return i.ev.Globals
}

// DefineNative binds a native procedure under name in the global
// environment (spec section 6.3). It fails with ErrAlreadyDefined if name
// is already bound, rather than silently shadowing a library builtin.
func (i *Interpreter) DefineNative(name string, fn datum.NativeFn) error {
	if i.ev.Globals.Lookup(name) != nil {
		return errors.Wrapf(ErrAlreadyDefined, "%q", name)
	}
	i.ev.Globals.DefineOrRedefine(name, datum.NewNativeProcedure(i.ev.Offset, name, fn))
	return nil
}

// Evaluate is the top-level, never-throws boundary operation (spec
// section 6.3): internal error signals are caught and returned as an
// Error Datum rather than propagated.
func (i *Interpreter) Evaluate(expr datum.Datum) datum.Datum {
	return i.ev.Evaluate(expr)
}

// EvaluateExpression evaluates expr against an explicit Environment (spec
// section 6.3's second boundary operation). Unlike Evaluate, it may panic
// with the evaluator's internal unwinding signal; callers invoking this
// from within a native procedure are expected to let that propagate (it
// will be caught by the enclosing top-level Evaluate) or to install their
// own recover, exactly as a native procedure written in the host language
// would per spec section 5's native-procedure contract.
func (i *Interpreter) EvaluateExpression(expr datum.Datum, e *env.Env) datum.Datum {
	return i.ev.EvaluateExpr(expr, e)
}
