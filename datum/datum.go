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

// Package datum implements the universal tagged value on which every other
// package in this module operates: the lexer produces tokens, the parser
// assembles tokens into Datum trees, and the evaluator walks them.
//
// A Datum is a small closed interface implemented by sixteen concrete Go
// types, one per primitive variant, plus UserDefined: a type-tag (int32)
// plus an opaque payload. Reserved type codes {0..5}, offset by an
// interpreter-wide Offset, denote Pair, Symbol, Procedure, NativeProcedure,
// Set and Builtin -- the six polymorphic shapes the evaluator itself needs.
// Everything above that offset is opaque to this package and to the
// evaluator; host applications may carve out their own UDT code space.
package datum

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies which of the seventeen Datum variants a value holds.
type Kind uint8

// The seventeen Datum variants (spec section 3.1).
const (
	KindNil Kind = iota
	KindInteger
	KindInteger64
	KindDouble
	KindDecimal64
	KindBoolean
	KindString
	KindBinary
	KindError
	KindDate
	KindTime
	KindDateTime
	KindDateTimeInterval
	KindArray
	KindMapString
	KindMapInt
	KindUserDefined
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInteger:
		return "integer"
	case KindInteger64:
		return "integer64"
	case KindDouble:
		return "double"
	case KindDecimal64:
		return "decimal64"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindError:
		return "error"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindDateTimeInterval:
		return "datetime_interval"
	case KindArray:
		return "array"
	case KindMapString:
		return "map_string"
	case KindMapInt:
		return "map_int"
	case KindUserDefined:
		return "user_defined"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Datum is the universal tagged value. It is implemented by Nil, Integer,
// Integer64, Double, Decimal64, Boolean, String, Binary, Error, Date, Time,
// DateTime, DateTimeInterval, Array, MapString, MapInt and UserDefined.
type Datum interface {
	Kind() Kind
}

// Nil is the empty list / unit value.
type Nil struct{}

// Kind implements Datum.
func (Nil) Kind() Kind { return KindNil }

// Integer is a 32-bit signed integer Datum.
type Integer int32

// Kind implements Datum.
func (Integer) Kind() Kind { return KindInteger }

// Integer64 is a 64-bit signed integer Datum.
type Integer64 int64

// Kind implements Datum.
func (Integer64) Kind() Kind { return KindInteger64 }

// Double is an IEEE-754 64-bit binary float Datum.
type Double float64

// Kind implements Datum.
func (Double) Kind() Kind { return KindDouble }

// Decimal64 is an IEEE-754-2008-style 64-bit decimal Datum, backed by
// shopspring/decimal so that arithmetic and the sign/mantissa/exponent
// decompose required by section 4.4 come from a well-tested library rather
// than a hand-rolled bignum.
type Decimal64 struct {
	D decimal.Decimal
}

// Kind implements Datum.
func (Decimal64) Kind() Kind { return KindDecimal64 }

// Boolean is a true/false Datum.
type Boolean bool

// Kind implements Datum.
func (Boolean) Kind() Kind { return KindBoolean }

// String is an immutable UTF-8-by-convention byte sequence Datum.
type String string

// Kind implements Datum.
func (String) Kind() Kind { return KindString }

// Binary is an opaque byte sequence Datum.
type Binary []byte

// Kind implements Datum.
func (Binary) Kind() Kind { return KindBinary }

// Error is a first-class error value: an integer code plus a message.
type Error struct {
	Code    int32
	Message string
}

// Kind implements Datum.
func (Error) Kind() Kind { return KindError }

// Date is a proleptic Gregorian date.
type Date struct {
	Year  int32
	Month int8 // 1-12
	Day   int8 // 1-31
}

// Kind implements Datum.
func (Date) Kind() Kind { return KindDate }

// Time is a time-of-day with nanosecond resolution.
type Time struct {
	Hour, Minute, Second int8
	Nanosecond           int32
}

// Kind implements Datum.
func (Time) Kind() Kind { return KindTime }

// DateTime is a date plus a time-of-day.
type DateTime struct {
	Date Date
	Time Time
}

// Kind implements Datum.
func (DateTime) Kind() Kind { return KindDateTime }

// DateTimeInterval is a signed duration with day and time components.
type DateTimeInterval struct {
	Negative             bool
	Days                 int32
	Hours, Minutes, Secs int32
	Nanosecond           int32
}

// Kind implements Datum.
func (DateTimeInterval) Kind() Kind { return KindDateTimeInterval }

// Array is a dense ordered sequence of Datums.
type Array []Datum

// Kind implements Datum.
func (Array) Kind() Kind { return KindArray }

// MapStringEntry is one (string, Datum) pair of a MapString, in insertion
// order.
type MapStringEntry struct {
	Key   string
	Value Datum
}

// MapString is an ordered sequence of (string, Datum) pairs.
type MapString []MapStringEntry

// Kind implements Datum.
func (MapString) Kind() Kind { return KindMapString }

// MapIntEntry is one (int32, Datum) pair of a MapInt, in insertion order.
type MapIntEntry struct {
	Key   int32
	Value Datum
}

// MapInt is an ordered sequence of (int32, Datum) pairs.
type MapInt []MapIntEntry

// Kind implements Datum.
func (MapInt) Kind() Kind { return KindMapInt }

// UserDefined carries a type code plus an opaque payload. Reserved codes
// {Offset+0 .. Offset+5} are interpreted by this library (see reserved.go);
// any other code is opaque to the evaluator and left to the host
// application.
type UserDefined struct {
	TypeCode int32
	Payload  interface{}
}

// Kind implements Datum.
func (UserDefined) Kind() Kind { return KindUserDefined }
