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

	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
)

// registerControl binds `apply`, `raise` (spec section 4.5) and `not`
// (SPEC_FULL section 4). apply and raise are the two native procedures
// that must reach back into the evaluator itself rather than operating
// purely on their argument vector: apply re-enters dispatch with an
// already-evaluated argument list, and raise signals through the same
// unwinding channel evaluate_pair uses internally.
func registerControl(ev *eval.Evaluator) {
	bindNative(ev, "apply", func(args *[]datum.Datum, envRef interface{}, offset int32, interp interface{}) error {
		if len(*args) != 2 {
			return errors.New("apply: requires exactly 2 arguments")
		}
		proc := (*args)[0]
		argList, err := datum.ListToSlice(offset, (*args)[1])
		if err != nil {
			return errors.Wrap(err, "apply: second argument must be a proper list")
		}
		e := asEnv(envRef)
		evaluator := asEvaluator(interp)
		*args = []datum.Datum{evaluator.Apply(proc, argList, e)}
		return nil
	})
	bindNative(ev, "raise", func(args *[]datum.Datum, _ interface{}, _ int32, _ interface{}) error {
		if len(*args) != 1 {
			return errors.New("raise: requires exactly 1 argument")
		}
		// Raise panics through the evaluator's unwinding channel (spec
		// section 7); it never returns, so the NativeFn never resizes
		// args or returns nil/err -- callNative's own error handling is
		// simply bypassed.
		eval.Raise((*args)[0])
		return nil
	})
	bindNative(ev, "not", unary(func(_ int32, a datum.Datum) (datum.Datum, error) {
		if b, ok := a.(datum.Boolean); ok {
			return datum.Boolean(!bool(b)), nil
		}
		return datum.Boolean(false), nil
	}))
}
