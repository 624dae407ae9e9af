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

package datum

import "github.com/pkg/errors"

// ErrImproperList is returned by ListToSlice when walking a chain of Pairs
// whose terminal Second is not Nil.
var ErrImproperList = errors.New("improper list")

// Cons constructs a new Pair, the fundamental list-building operation
// (spec's `pair`, aliased as `cons` per SPEC_FULL section 4.2).
func Cons(offset int32, first, second Datum) Datum {
	return NewPair(offset, first, second)
}

// IsProperList reports whether d is Nil or a chain of Pairs terminating in
// Nil, with no cycle.
func IsProperList(offset int32, d Datum) bool {
	slow, fast := d, d
	for {
		if IsNil(fast) {
			return true
		}
		fp, ok := AsPair(offset, fast)
		if !ok {
			return false
		}
		fast = fp.Second
		if IsNil(fast) {
			return true
		}
		fp2, ok := AsPair(offset, fast)
		if !ok {
			return false
		}
		fast = fp2.Second

		sp, _ := AsPair(offset, slow)
		slow = sp.Second
		if fast == slow {
			return false // cycle
		}
	}
}

// ListToSlice flattens a proper list into a Go slice, in order. It returns
// ErrImproperList if d is not a proper list.
func ListToSlice(offset int32, d Datum) ([]Datum, error) {
	var out []Datum
	for !IsNil(d) {
		p, ok := AsPair(offset, d)
		if !ok {
			return nil, errors.Wrapf(ErrImproperList, "tail %v is not a pair or nil", d)
		}
		out = append(out, p.First)
		d = p.Second
	}
	return out, nil
}

// SliceToList builds a proper list (right fold with Cons, terminated by
// Nil) from a Go slice, in order.
func SliceToList(offset int32, items []Datum) Datum {
	var tail Datum = Nil{}
	for i := len(items) - 1; i >= 0; i-- {
		tail = Cons(offset, items[i], tail)
	}
	return tail
}

// ListLength returns the number of elements in a proper list.
func ListLength(offset int32, d Datum) (int, error) {
	items, err := ListToSlice(offset, d)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ListReverse reverses a proper list, returning a new proper list.
func ListReverse(offset int32, d Datum) (Datum, error) {
	items, err := ListToSlice(offset, d)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return SliceToList(offset, items), nil
}

// ListAppend concatenates zero or more proper lists into one new proper
// list (spec-supplemented `append`, SPEC_FULL section 4.1).
func ListAppend(offset int32, lists ...Datum) (Datum, error) {
	var all []Datum
	for _, l := range lists {
		items, err := ListToSlice(offset, l)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return SliceToList(offset, all), nil
}

// ListRef returns the element at the given zero-based index of a proper
// list (spec-supplemented `list-ref`, SPEC_FULL section 4.1).
func ListRef(offset int32, d Datum, index int) (Datum, error) {
	if index < 0 {
		return nil, errors.Errorf("list-ref: negative index %d", index)
	}
	cur := d
	for i := 0; i < index; i++ {
		p, ok := AsPair(offset, cur)
		if !ok {
			return nil, errors.Errorf("list-ref: index %d out of range", index)
		}
		cur = p.Second
	}
	p, ok := AsPair(offset, cur)
	if !ok {
		return nil, errors.Errorf("list-ref: index %d out of range", index)
	}
	return p.First, nil
}

// Car returns the first element of a pair (spec's `pair-first`, aliased
// `car`).
func Car(offset int32, d Datum) (Datum, error) {
	p, ok := AsPair(offset, d)
	if !ok {
		return nil, errors.Errorf("car: not a pair")
	}
	return p.First, nil
}

// Cdr returns the second element of a pair (spec's `pair-second`, aliased
// `cdr`).
func Cdr(offset int32, d Datum) (Datum, error) {
	p, ok := AsPair(offset, d)
	if !ok {
		return nil, errors.Errorf("cdr: not a pair")
	}
	return p.Second, nil
}

// Cadr returns (car (cdr d)), i.e. the second list element.
func Cadr(offset int32, d Datum) (Datum, error) {
	d, err := Cdr(offset, d)
	if err != nil {
		return nil, err
	}
	return Car(offset, d)
}

// Cddr returns (cdr (cdr d)).
func Cddr(offset int32, d Datum) (Datum, error) {
	d, err := Cdr(offset, d)
	if err != nil {
		return nil, err
	}
	return Cdr(offset, d)
}
