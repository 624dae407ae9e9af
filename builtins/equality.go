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
	"github.com/dgoffredo/bdelisp/datum"
	"github.com/dgoffredo/bdelisp/eval"
)

// registerEquality binds `equal?` (spec section 4.5): 0 or 1 args are
// vacuously true; otherwise every adjacent pair must compare structurally
// equal via datum.Equal, which already implements the cross-kind numeric
// rule for leaf comparisons.
func registerEquality(ev *eval.Evaluator) {
	bindNative(ev, "equal?", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		ok := true
		for i := 0; i+1 < len(*args); i++ {
			if !datum.Equal(offset, (*args)[i], (*args)[i+1]) {
				ok = false
				break
			}
		}
		*args = []datum.Datum{datum.Boolean(ok)}
		return nil
	})
}
