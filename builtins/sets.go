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
	"github.com/dgoffredo/bdelisp/pset"
)

// comparatorFor builds the standard comparator (spec section 4.5) for a
// given interpreter offset, matching the one package parser uses to build
// `#{...}` set literals (parser/parser.go's parseSet).
func comparatorFor(offset int32) pset.Comparator[datum.Datum] {
	return func(a, b datum.Datum) int { return datum.Compare(offset, a, b) }
}

// registerSets binds `set`, `set-contains?`, `set-insert` and `set-remove`
// (spec section 4.5) over package pset's persistent AVL tree.
func registerSets(ev *eval.Evaluator) {
	bindNative(ev, "set", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		cmp := comparatorFor(offset)
		var root *pset.Node[datum.Datum]
		for _, a := range *args {
			root = pset.Insert(root, cmp, a)
		}
		*args = []datum.Datum{datum.NewSet(offset, root)}
		return nil
	})
	bindNative(ev, "set-contains?", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 2 {
			return errors.New("set-contains?: requires exactly 2 arguments")
		}
		s, ok := datum.AsSet(offset, (*args)[0])
		if !ok {
			return errors.New("set-contains?: first argument must be a set")
		}
		root, _ := s.Root.(*pset.Node[datum.Datum])
		*args = []datum.Datum{datum.Boolean(pset.Contains(root, comparatorFor(offset), (*args)[1]))}
		return nil
	})
	bindNative(ev, "set-insert", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 2 {
			return errors.New("set-insert: requires exactly 2 arguments")
		}
		s, ok := datum.AsSet(offset, (*args)[0])
		if !ok {
			return errors.New("set-insert: first argument must be a set")
		}
		root, _ := s.Root.(*pset.Node[datum.Datum])
		newRoot := pset.Insert(root, comparatorFor(offset), (*args)[1])
		*args = []datum.Datum{datum.NewSet(offset, newRoot)}
		return nil
	})
	bindNative(ev, "set-remove", func(args *[]datum.Datum, _ interface{}, offset int32, _ interface{}) error {
		if len(*args) != 2 {
			return errors.New("set-remove: requires exactly 2 arguments")
		}
		s, ok := datum.AsSet(offset, (*args)[0])
		if !ok {
			return errors.New("set-remove: first argument must be a set")
		}
		root, _ := s.Root.(*pset.Node[datum.Datum])
		newRoot := pset.Remove(root, comparatorFor(offset), (*args)[1])
		*args = []datum.Datum{datum.NewSet(offset, newRoot)}
		return nil
	})
}
