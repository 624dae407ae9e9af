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

package env

import (
	"testing"

	"github.com/dgoffredo/bdelisp/datum"
)

func TestDefineAndLookup(t *testing.T) {
	e := New()
	entry, inserted := e.Define("x", datum.Integer(1))
	if !inserted {
		t.Fatalf("expected first define to insert")
	}
	if entry.Value != datum.Integer(1) {
		t.Fatalf("unexpected value: %v", entry.Value)
	}
	if got := e.Lookup("x"); got != entry {
		t.Errorf("Lookup did not return the same entry")
	}
	if got := e.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
}

func TestDefineDoesNotOverwrite(t *testing.T) {
	e := New()
	first, _ := e.Define("x", datum.Integer(1))
	second, inserted := e.Define("x", datum.Integer(2))
	if inserted {
		t.Errorf("second Define on existing name reported inserted=true")
	}
	if second != first {
		t.Errorf("second Define returned a different entry")
	}
	if second.Value != datum.Integer(1) {
		t.Errorf("Define overwrote existing value: %v", second.Value)
	}
}

func TestDefineOrRedefine(t *testing.T) {
	e := New()
	e.Define("x", datum.Integer(1))
	entry := e.DefineOrRedefine("x", datum.Integer(99))
	if entry.Value != datum.Integer(99) {
		t.Errorf("DefineOrRedefine did not set the new value")
	}
	if got := e.Lookup("x"); got.Value != datum.Integer(99) {
		t.Errorf("Lookup after redefine = %v, want 99", got.Value)
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	parent := New()
	parent.Define("x", datum.Integer(7))
	child := parent.NewChild()
	entry := child.Lookup("x")
	if entry == nil || entry.Value != datum.Integer(7) {
		t.Fatalf("child did not see parent's binding: %v", entry)
	}
	// locals-only operations never touch the parent.
	child.DefineOrRedefine("x", datum.Integer(8))
	if parent.Lookup("x").Value != datum.Integer(7) {
		t.Errorf("child's define leaked into parent")
	}
}

func TestWasReferencedSticky(t *testing.T) {
	e := New()
	if e.WasReferenced() {
		t.Fatalf("fresh environment should not be referenced")
	}
	e.MarkAsReferenced()
	if !e.WasReferenced() {
		t.Errorf("MarkAsReferenced did not stick")
	}
}

func TestClearLocals(t *testing.T) {
	e := New()
	e.Define("x", datum.Integer(1))
	e.ClearLocals()
	if e.Lookup("x") != nil {
		t.Errorf("ClearLocals did not remove binding")
	}
}

func TestBindPositionalAndArguments(t *testing.T) {
	e := New()
	e.BindPositional(1000, []string{"a", "b"}, "rest", true,
		[]datum.Datum{datum.Integer(1), datum.Integer(2), datum.Integer(3), datum.Integer(4)})

	if e.Argument(0).Value != datum.Integer(1) {
		t.Errorf("Argument(0) = %v, want 1", e.Argument(0).Value)
	}
	if e.Argument(1).Value != datum.Integer(2) {
		t.Errorf("Argument(1) = %v, want 2", e.Argument(1).Value)
	}
	restEntry := e.Argument(2)
	if restEntry == nil {
		t.Fatalf("expected a rest-parameter argument entry")
	}
	rest, err := datum.ListToSlice(1000, restEntry.Value)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 2 || rest[0] != datum.Integer(3) || rest[1] != datum.Integer(4) {
		t.Errorf("rest = %v, want [3 4]", rest)
	}
	if e.Argument(3) != nil {
		t.Errorf("Argument(3) out of range, want nil")
	}
}

func TestBindPositionalMissingArgsDefaultNil(t *testing.T) {
	e := New()
	e.BindPositional(1000, []string{"a", "b"}, "", false, []datum.Datum{datum.Integer(1)})
	if e.Argument(0).Value != datum.Integer(1) {
		t.Errorf("Argument(0) = %v, want 1", e.Argument(0).Value)
	}
	if _, ok := e.Argument(1).Value.(datum.Nil); !ok {
		t.Errorf("Argument(1) = %v, want Nil", e.Argument(1).Value)
	}
}
