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

// Package eval implements the tree-walking evaluator (spec section 4.8):
// evaluate_expr/evaluate_symbol/evaluate_pair, the ahead-of-time partial
// resolution pass over λ bodies, and invoke_procedure's trampoline for
// tail-call elimination. Errors unwind via a typed panic caught by a
// single recover() at the Evaluate top level, mirroring the teacher's
// vm/core.go Run() convention of a single recover-to-error boundary.
package eval

import (
	"github.com/pkg/errors"

	"github.com/dgoffredo/bdelisp/datum"
)

// Error codes (spec-supplemented, SPEC_FULL section 4 item 9): -1 is the
// generic code used by spec.md itself; the rest give script-inspectable,
// stable codes to the evaluator's own error categories.
const (
	CodeGeneric         int32 = -1
	CodeUnboundVariable int32 = -2
	CodeWrongArity      int32 = -3
	CodeNotApplicable   int32 = -4
	CodeRaised          int32 = -5
	CodeWrongType       int32 = -6
)

// signal is the internal panic payload carrying a Datum up through every
// active evaluation frame to the outermost recover() in Evaluate. It
// exists purely as an unwinding channel (spec section 7); it is never
// constructed by anything outside this package. Most signals carry an
// Error Datum, but the user-level `raise` native procedure (spec section
// 4.5) propagates an arbitrary Datum verbatim, so the payload is
// not narrowed to Error.
type signal struct {
	payload datum.Datum
}

// raise panics with a freshly-built Error Datum -- the evaluator's
// unwinding channel.
func raise(code int32, format string, args ...interface{}) {
	panic(signal{payload: datum.Error{Code: code, Message: errors.Errorf(format, args...).Error()}})
}

// raiseDatum re-signals an already-constructed Datum, used by `raise`
// (spec section 4.5) to propagate a user-supplied value verbatim, whether
// or not it is itself an Error.
func raiseDatum(d datum.Datum) {
	panic(signal{payload: d})
}

// Raise panics with d as the unwinding payload, exported so that native
// procedures outside this package -- notably `raise` itself (spec section
// 4.5) -- can signal through the same channel evaluate_pair and
// invoke_procedure use internally.
func Raise(d datum.Datum) {
	raiseDatum(d)
}

// RaiseError panics with a freshly-built Error Datum, exported for native
// procedures that want a stable, documented error code (SPEC_FULL section
// 4.9's named codes) without constructing the Error Datum by hand.
func RaiseError(code int32, format string, args ...interface{}) {
	raise(code, format, args...)
}

// recoverSignal converts a recovered signal into its payload Datum, or
// re-panics if r is not one of ours (a genuine programming-error panic
// should not be swallowed as a script-level error).
func recoverSignal(r interface{}) (datum.Datum, bool) {
	if s, ok := r.(signal); ok {
		return s.payload, true
	}
	return nil, false
}
