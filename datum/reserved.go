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

// Reserved user_defined type codes, relative to an interpreter's Offset
// (spec section 3.1). Every interpreter instance picks an Offset; codes
// Offset+Pair .. Offset+Builtin are reserved for this library.
const (
	TypePair = iota
	TypeSymbol
	TypeProcedure
	TypeNativeProcedure
	TypeSet
	TypeBuiltin
	ReservedTypeCount
)

// ErrReservedTypeCode is returned by UDT-literal construction when the
// requested type code collides with the library's reserved range.
var ErrReservedTypeCode = errors.New("user-defined type code collides with reserved range")

// CheckUserTypeCode reports an error if code falls inside
// [offset, offset+ReservedTypeCount).
func CheckUserTypeCode(offset, code int32) error {
	if code >= offset && code < offset+ReservedTypeCount {
		return errors.Wrapf(ErrReservedTypeCode, "code %d (offset %d)", code, offset)
	}
	return nil
}

// PairData is the payload of a Pair: an ordered (First, Second) of Datums.
// A proper list is a chain of Pairs whose terminal Second is Nil; an
// improper list's terminal Second is anything else. The evaluator never
// constructs cyclic Pair structure.
type PairData struct {
	First, Second Datum
}

// NewPair constructs a Pair Datum.
func NewPair(offset int32, first, second Datum) Datum {
	return UserDefined{TypeCode: offset + TypePair, Payload: &PairData{First: first, Second: second}}
}

// AsPair type-asserts d as a Pair under the given offset.
func AsPair(offset int32, d Datum) (*PairData, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypePair {
		return nil, false
	}
	p, ok := ud.Payload.(*PairData)
	return p, ok
}

// IsPair reports whether d is a Pair under the given offset.
func IsPair(offset int32, d Datum) bool {
	_, ok := AsPair(offset, d)
	return ok
}

// IsNil reports whether d is the Nil Datum.
func IsNil(d Datum) bool {
	_, ok := d.(Nil)
	return ok
}

// SymbolEncoding distinguishes the four ways a Symbol's identity may be
// represented (spec section 3.3). Real bit-packing into a machine word is
// an optimization the spec explicitly does not require; here each variant
// is a plain field of a tagged struct.
type SymbolEncoding uint8

const (
	// SymbolOutOfPlace holds the name out-of-line (conceptually a pointer
	// to a String Datum). Resolution is a name lookup in the env chain.
	SymbolOutOfPlace SymbolEncoding = iota
	// SymbolInPlace packs a short name (<= maxInPlaceSymbolLen bytes)
	// directly into the symbol. Resolution is still a name lookup.
	SymbolInPlace
	// SymbolEntryPointer refers directly to a resolved environment entry,
	// found once by the partial-resolution pass (section 4.8.6).
	SymbolEntryPointer
	// SymbolArgumentOffset indexes directly into the current invocation
	// environment's Arguments view (section 3.3), avoiding any lookup.
	SymbolArgumentOffset
)

// wordSize is the notional machine word width used to size the in-place
// symbol representation, per spec section 3.3 ("up to word_size-1 bytes").
const wordSize = 8

// MaxInPlaceSymbolLen is the longest name storable in the in-place
// representation.
const MaxInPlaceSymbolLen = wordSize - 1

// MaxSymbolNameLen is the hard ceiling on symbol name length (spec 3.3).
const MaxSymbolNameLen = 65535

// SymbolData is the payload of a Symbol. Name is always populated (even for
// the Entry/ArgumentOffset encodings) so that the name(symbol[, env])
// accessor never needs an environment lookup merely to print or compare a
// symbol; only *resolution* (evaluate_symbol) is encoding-dependent.
type SymbolData struct {
	Enc   SymbolEncoding
	Name  string
	Entry interface{} // *env.Entry when Enc == SymbolEntryPointer
	Index int         // positional index when Enc == SymbolArgumentOffset
}

// ErrSymbolNameTooLong is returned by NewSymbol when name exceeds
// MaxSymbolNameLen.
var ErrSymbolNameTooLong = errors.New("symbol name too long")

// NewSymbol constructs a Symbol Datum holding name, choosing the in-place
// encoding when name is short enough and the out-of-place encoding
// otherwise. Later, the evaluator's partial-resolution pass (section 4.8.6)
// may rewrite a symbol in a lambda body to the entry-pointer or
// argument-offset encodings; this constructor only ever produces the two
// name-carrying encodings, matching how the parser creates symbols.
func NewSymbol(offset int32, name string) (Datum, error) {
	if len(name) > MaxSymbolNameLen {
		return nil, errors.Wrapf(ErrSymbolNameTooLong, "%q (%d bytes)", name, len(name))
	}
	enc := SymbolOutOfPlace
	if len(name) <= MaxInPlaceSymbolLen {
		enc = SymbolInPlace
	}
	return UserDefined{TypeCode: offset + TypeSymbol, Payload: &SymbolData{Enc: enc, Name: name}}, nil
}

// NewEntryPointerSymbol constructs a Symbol in the entry-pointer encoding,
// used exclusively by the partial-resolution pass.
func NewEntryPointerSymbol(offset int32, name string, entry interface{}) Datum {
	return UserDefined{TypeCode: offset + TypeSymbol, Payload: &SymbolData{Enc: SymbolEntryPointer, Name: name, Entry: entry}}
}

// NewArgumentOffsetSymbol constructs a Symbol in the argument-offset
// encoding, used exclusively by the partial-resolution pass.
func NewArgumentOffsetSymbol(offset int32, name string, index int) Datum {
	return UserDefined{TypeCode: offset + TypeSymbol, Payload: &SymbolData{Enc: SymbolArgumentOffset, Name: name, Index: index}}
}

// AsSymbol type-asserts d as a Symbol under the given offset.
func AsSymbol(offset int32, d Datum) (*SymbolData, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypeSymbol {
		return nil, false
	}
	s, ok := ud.Payload.(*SymbolData)
	return s, ok
}

// IsSymbol reports whether d is a Symbol under the given offset.
func IsSymbol(offset int32, d Datum) bool {
	_, ok := AsSymbol(offset, d)
	return ok
}

// SymbolName returns the observable name of a symbol, regardless of its
// internal encoding (spec section 3.3 invariant).
func SymbolName(offset int32, d Datum) (string, bool) {
	s, ok := AsSymbol(offset, d)
	if !ok {
		return "", false
	}
	return s.Name, true
}

// ProcedureData is the payload of a Procedure: a user-defined lambda with
// lexical scope.
type ProcedureData struct {
	Positional []string
	HasRest    bool
	Rest       string
	// Body is a non-empty proper list of forms, already passed through
	// partial resolution (section 4.8.6).
	Body Datum
	// Env is the defining (captured) environment; stored as interface{} to
	// avoid an import cycle between datum and env (env.Entry.Value is a
	// Datum, so env cannot be imported here). Concrete type: *env.Env.
	Env interface{}
}

// NewProcedure constructs a Procedure Datum.
func NewProcedure(offset int32, p *ProcedureData) Datum {
	return UserDefined{TypeCode: offset + TypeProcedure, Payload: p}
}

// AsProcedure type-asserts d as a Procedure under the given offset.
func AsProcedure(offset int32, d Datum) (*ProcedureData, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypeProcedure {
		return nil, false
	}
	p, ok := ud.Payload.(*ProcedureData)
	return p, ok
}

// NativeFn is the signature a native procedure's Go implementation
// satisfies (spec section 6.3). args is resized to length 1 and its sole
// element overwritten with the result before returning. envRef and interp
// are passed through opaquely by this package (concrete types *env.Env and
// *eval.Evaluator, the latter via Evaluator.Handle) so that callers outside of datum can invoke natives
// without datum depending on env/eval/interp.
type NativeFn func(args *[]Datum, envRef interface{}, typeOffset int32, interp interface{}) error

// NativeProcedureData is the payload of a NativeProcedure.
type NativeProcedureData struct {
	Name string
	Call NativeFn
}

// NewNativeProcedure constructs a NativeProcedure Datum.
func NewNativeProcedure(offset int32, name string, fn NativeFn) Datum {
	return UserDefined{TypeCode: offset + TypeNativeProcedure, Payload: &NativeProcedureData{Name: name, Call: fn}}
}

// AsNativeProcedure type-asserts d as a NativeProcedure under the given
// offset.
func AsNativeProcedure(offset int32, d Datum) (*NativeProcedureData, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypeNativeProcedure {
		return nil, false
	}
	p, ok := ud.Payload.(*NativeProcedureData)
	return p, ok
}

// SetData is the payload of a Set: a reference to a PersistentSet root (see
// package pset). Root is typed as interface{} holding *pset.Node[Datum];
// pset is generic and does not import datum, so no cycle results from
// giving it a concrete type here; datum itself imports pset only to
// compare two sets' elements (see compareUserDefined).
type SetData struct {
	Root interface{}
}

// NewSet constructs a Set Datum wrapping root (a *pset.Node[Datum], or nil
// for the empty set).
func NewSet(offset int32, root interface{}) Datum {
	return UserDefined{TypeCode: offset + TypeSet, Payload: &SetData{Root: root}}
}

// AsSet type-asserts d as a Set under the given offset.
func AsSet(offset int32, d Datum) (*SetData, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypeSet {
		return nil, false
	}
	s, ok := ud.Payload.(*SetData)
	return s, ok
}

// BuiltinTag names a special form recognized directly by the evaluator
// during pair dispatch (spec section 3.1, expanded per SPEC_FULL section 4
// with begin/and/or/let).
type BuiltinTag uint8

const (
	BuiltinLambda BuiltinTag = iota
	BuiltinDefine
	BuiltinSetBang
	BuiltinIf
	BuiltinQuote
	// BuiltinUndefined is a sentinel never observable as a value; it marks
	// an environment slot created but not yet bound (section 3.1).
	BuiltinUndefined
	BuiltinBegin
	BuiltinAnd
	BuiltinOr
	BuiltinLet
)

func (b BuiltinTag) String() string {
	switch b {
	case BuiltinLambda:
		return "λ"
	case BuiltinDefine:
		return "define"
	case BuiltinSetBang:
		return "set!"
	case BuiltinIf:
		return "if"
	case BuiltinQuote:
		return "quote"
	case BuiltinUndefined:
		return "#undefined"
	case BuiltinBegin:
		return "begin"
	case BuiltinAnd:
		return "and"
	case BuiltinOr:
		return "or"
	case BuiltinLet:
		return "let"
	default:
		return "#builtin?"
	}
}

// NewBuiltin constructs a Builtin Datum.
func NewBuiltin(offset int32, tag BuiltinTag) Datum {
	return UserDefined{TypeCode: offset + TypeBuiltin, Payload: tag}
}

// AsBuiltin type-asserts d as a Builtin under the given offset.
func AsBuiltin(offset int32, d Datum) (BuiltinTag, bool) {
	ud, ok := d.(UserDefined)
	if !ok || ud.TypeCode != offset+TypeBuiltin {
		return 0, false
	}
	tag, ok := ud.Payload.(BuiltinTag)
	return tag, ok
}
