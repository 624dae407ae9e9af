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

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dgoffredo/bdelisp/pset"
)

// ErrNotNumeric is returned by arithmetic classification when an operand is
// not one of integer, integer64, double or decimal64.
var ErrNotNumeric = errors.New("not a numeric datum")

// ErrIncompatibleNumeric is returned when two numeric operands belong to
// disallowed kinds for a single homogeneous arithmetic vector (spec 4.4):
// {integer64,double}, {integer64,decimal64}, {double,decimal64}.
var ErrIncompatibleNumeric = errors.New("incompatible numeric types")

// IsNumeric reports whether d is one of the four numeric kinds.
func IsNumeric(d Datum) bool {
	switch d.Kind() {
	case KindInteger, KindInteger64, KindDouble, KindDecimal64:
		return true
	}
	return false
}

// ClassifyNumeric scans ds and returns the common kind every element should
// be promoted to, per spec section 4.4: integer combines with any other
// numeric kind by promoting to that kind; integer64/double/decimal64 never
// mix with one another. A single numeric operand classifies to its own
// kind. An empty or all-non-numeric input is an error.
func ClassifyNumeric(ds []Datum) (Kind, error) {
	target := KindInteger
	seenNonInteger := false
	for i, d := range ds {
		if !IsNumeric(d) {
			return 0, errors.Wrapf(ErrNotNumeric, "operand %d has kind %s", i, d.Kind())
		}
		k := d.Kind()
		if k == KindInteger {
			continue
		}
		if !seenNonInteger {
			target = k
			seenNonInteger = true
			continue
		}
		if k != target {
			return 0, errors.Wrapf(ErrIncompatibleNumeric, "%s and %s", target, k)
		}
	}
	return target, nil
}

// Promote converts d (a numeric Datum) to the given target numeric Kind.
// Promoting to a Datum's own kind returns it unchanged. Only promotion of
// integer into another numeric kind is meaningful per classification rules
// above; promoting, say, a double to decimal64 directly is never requested
// by ClassifyNumeric's contract but is implemented here for completeness.
func Promote(d Datum, target Kind) (Datum, error) {
	if d.Kind() == target {
		return d, nil
	}
	switch target {
	case KindInteger64:
		i, ok := d.(Integer)
		if !ok {
			return nil, errors.Errorf("cannot promote %s to integer64", d.Kind())
		}
		return Integer64(int64(i)), nil
	case KindDouble:
		i, ok := d.(Integer)
		if !ok {
			return nil, errors.Errorf("cannot promote %s to double", d.Kind())
		}
		return Double(float64(i)), nil
	case KindDecimal64:
		i, ok := d.(Integer)
		if !ok {
			return nil, errors.Errorf("cannot promote %s to decimal64", d.Kind())
		}
		return Decimal64{D: decimal.New(int64(i), 0)}, nil
	case KindInteger:
		return d, nil
	default:
		return nil, errors.Errorf("%s is not a numeric kind", target)
	}
}

// decompose reduces a finite value to a zero flag, a sign and an exact,
// fully reduced magnitude; it stands in for spec section 4.4's cross-kind
// `=` helper (sign * mantissa * 2^e2 * 5^e5, mantissa odd). It is expressed
// here using math/big's exact rational arithmetic rather than literal
// bit-twiddling: two values are equal exactly when their signs and reduced
// big.Rat magnitudes are equal, so no 2- or 5-adic valuations are computed.
// See DESIGN.md for why this was chosen over factoring the double's IEEE
// mantissa/exponent by hand.
type decomposed struct {
	zero bool
	neg  bool
	rat  *big.Rat // |value|, reduced; comparison key once sign is pulled out
}

func decomposeDouble(f float64) decomposed {
	if f == 0 {
		return decomposed{zero: true}
	}
	r := new(big.Rat).SetFloat64(f)
	neg := r.Sign() < 0
	if neg {
		r.Neg(r)
	}
	return decomposed{neg: neg, rat: r}
}

func decomposeDecimal(d decimal.Decimal) decomposed {
	if d.IsZero() {
		return decomposed{zero: true}
	}
	neg := d.Sign() < 0
	coeff := new(big.Int).Set(d.Coefficient())
	if neg {
		coeff.Neg(coeff)
	}
	exp := d.Exponent()
	num := new(big.Int).Set(coeff)
	den := big.NewInt(1)
	if exp >= 0 {
		num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	} else {
		den.Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
	}
	r := new(big.Rat).SetFrac(num, den)
	return decomposed{neg: neg, rat: r}
}

// numericEqual implements the arithmetic `=` rule for two numeric Datums,
// including the cross-kind double/decimal64 comparison of spec 4.4. Callers
// are expected to have already classified/promoted same-kind operands
// (integer vs integer64, etc.); this function additionally tolerates a
// direct double/decimal64 pair without requiring a shared promoted kind,
// since that pair is explicitly disallowed from ClassifyNumeric's uniform
// vector but permitted pairwise by `equal?` (spec 4.5).
func numericEqual(a, b Datum) (bool, error) {
	if a.Kind() == KindInteger {
		a = Integer64(int64(a.(Integer)))
	}
	if b.Kind() == KindInteger {
		b = Integer64(int64(b.(Integer)))
	}
	switch av := a.(type) {
	case Integer64:
		switch bv := b.(type) {
		case Integer64:
			return av == bv, nil
		case Double:
			return float64(av) == float64(bv), nil
		case Decimal64:
			return decimal.NewFromInt(int64(av)).Equal(bv.D), nil
		}
	case Double:
		switch bv := b.(type) {
		case Integer64:
			return float64(av) == float64(bv), nil
		case Double:
			return av == bv, nil
		case Decimal64:
			da, db := decomposeDouble(float64(av)), decomposeDecimal(bv.D)
			return decomposedEqual(da, db), nil
		}
	case Decimal64:
		switch bv := b.(type) {
		case Integer64:
			return av.D.Equal(decimal.NewFromInt(int64(bv))), nil
		case Double:
			da, db := decomposeDouble(float64(bv)), decomposeDecimal(av.D)
			return decomposedEqual(da, db), nil
		case Decimal64:
			return av.D.Equal(bv.D), nil
		}
	}
	return false, errors.Errorf("cannot compare %s and %s numerically", a.Kind(), b.Kind())
}

func decomposedEqual(a, b decomposed) bool {
	if a.zero || b.zero {
		return a.zero == b.zero
	}
	return a.neg == b.neg && a.rat.Cmp(b.rat) == 0
}

// kindOrder fixes the "datum variant tag" ordering used by the standard
// comparator (spec 4.5). UserDefined sorts last among the seventeen variants;
// within UserDefined, Compare further orders by type code.
var kindOrder = map[Kind]int{
	KindNil: 0, KindInteger: 1, KindInteger64: 2, KindDouble: 3,
	KindDecimal64: 4, KindBoolean: 5, KindString: 6, KindBinary: 7,
	KindError: 8, KindDate: 9, KindTime: 10, KindDateTime: 11,
	KindDateTimeInterval: 12, KindArray: 13, KindMapString: 14,
	KindMapInt: 15, KindUserDefined: 16,
}

// Compare implements the standard comparator ("before", spec section 3.4 /
// 4.5): a total order over all Datums, by variant tag first (with the
// cross-kind-integer exception), then by value within a variant. It
// returns -1, 0 or 1. offset is the interpreter's user-defined type offset,
// needed to special-case Pair/Symbol/Set/Builtin ordering among
// UserDefined values.
func Compare(offset int32, a, b Datum) int {
	if IsNumeric(a) && IsNumeric(b) {
		if c, ok := compareNumeric(a, b); ok {
			return c
		}
	}
	ka, kb := kindOrder[a.Kind()], kindOrder[b.Kind()]
	if ka != kb {
		return sign(ka - kb)
	}
	switch av := a.(type) {
	case Nil:
		return 0
	case Boolean:
		bv := b.(Boolean)
		return sign(boolToInt(bool(av)) - boolToInt(bool(bv)))
	case String:
		return sign(int(bytes.Compare([]byte(av), []byte(b.(String)))))
	case Binary:
		return sign(bytes.Compare(av, b.(Binary)))
	case Error:
		bv := b.(Error)
		if av.Code != bv.Code {
			return sign(int(av.Code) - int(bv.Code))
		}
		return sign(int(bytes.Compare([]byte(av.Message), []byte(bv.Message))))
	case Date:
		bv := b.(Date)
		return compareDate(av, bv)
	case Time:
		bv := b.(Time)
		return compareTime(av, bv)
	case DateTime:
		bv := b.(DateTime)
		if c := compareDate(av.Date, bv.Date); c != 0 {
			return c
		}
		return compareTime(av.Time, bv.Time)
	case DateTimeInterval:
		bv := b.(DateTimeInterval)
		return compareInterval(av, bv)
	case Array:
		return compareSlice(offset, av, b.(Array))
	case MapString:
		return compareMapString(offset, av, b.(MapString))
	case MapInt:
		return compareMapInt(offset, av, b.(MapInt))
	case UserDefined:
		return compareUserDefined(offset, av, b.(UserDefined))
	}
	return 0
}

func compareNumeric(a, b Datum) (int, bool) {
	target, err := ClassifyNumeric([]Datum{a, b})
	if err != nil {
		return 0, false
	}
	pa, err := Promote(a, target)
	if err != nil {
		return 0, false
	}
	pb, err := Promote(b, target)
	if err != nil {
		return 0, false
	}
	switch av := pa.(type) {
	case Integer:
		return sign(int(av) - int(pb.(Integer))), true
	case Integer64:
		bv := pb.(Integer64)
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case Double:
		bv := pb.(Double)
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case Decimal64:
		return av.D.Cmp(pb.(Decimal64).D), true
	}
	return 0, false
}

func compareDate(a, b Date) int {
	if a.Year != b.Year {
		return sign(int(a.Year - b.Year))
	}
	if a.Month != b.Month {
		return sign(int(a.Month - b.Month))
	}
	return sign(int(a.Day - b.Day))
}

func compareTime(a, b Time) int {
	if a.Hour != b.Hour {
		return sign(int(a.Hour - b.Hour))
	}
	if a.Minute != b.Minute {
		return sign(int(a.Minute - b.Minute))
	}
	if a.Second != b.Second {
		return sign(int(a.Second - b.Second))
	}
	return sign(int(a.Nanosecond - b.Nanosecond))
}

func compareInterval(a, b DateTimeInterval) int {
	signOf := func(i DateTimeInterval) int {
		if i.Negative {
			return -1
		}
		return 1
	}
	if sa, sb := signOf(a), signOf(b); sa != sb {
		return sign(sa - sb)
	}
	mag := func(i DateTimeInterval) []int32 {
		return []int32{i.Days, i.Hours, i.Minutes, i.Secs, i.Nanosecond}
	}
	ma, mb := mag(a), mag(b)
	for i := range ma {
		if ma[i] != mb[i] {
			c := sign(int(ma[i] - mb[i]))
			if a.Negative {
				return -c
			}
			return c
		}
	}
	return 0
}

func compareSlice(offset int32, a, b Array) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(offset, a[i], b[i]); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

func compareMapString(offset int32, a, b MapString) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := sign(bytes.Compare([]byte(a[i].Key), []byte(b[i].Key))); c != 0 {
			return c
		}
		if c := Compare(offset, a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

func compareMapInt(offset int32, a, b MapInt) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].Key != b[i].Key {
			return sign(int(a[i].Key) - int(b[i].Key))
		}
		if c := Compare(offset, a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

// compareUserDefined orders UserDefined values first by type code, then --
// for Pair, Symbol, Set (its elements in ascending order, compared like an
// Array) and Builtin -- by a known structural ordering. Procedures, native
// procedures and unknown UDTs of equal type code compare equal (the
// payload's address is unavailable without unsafe; a host embedding its
// own UDTs that need a total order should give them a Compare-aware
// payload).
func compareUserDefined(offset int32, a, b UserDefined) int {
	if a.TypeCode != b.TypeCode {
		return sign(int(a.TypeCode) - int(b.TypeCode))
	}
	switch a.TypeCode - offset {
	case TypePair:
		pa, pb := a.Payload.(*PairData), b.Payload.(*PairData)
		if c := Compare(offset, pa.First, pb.First); c != 0 {
			return c
		}
		return Compare(offset, pa.Second, pb.Second)
	case TypeSymbol:
		sa, sb := a.Payload.(*SymbolData), b.Payload.(*SymbolData)
		return sign(bytes.Compare([]byte(sa.Name), []byte(sb.Name)))
	case TypeBuiltin:
		ta, tb := a.Payload.(BuiltinTag), b.Payload.(BuiltinTag)
		return sign(int(ta) - int(tb))
	case TypeSet:
		ra, _ := a.Payload.(*SetData).Root.(*pset.Node[Datum])
		rb, _ := b.Payload.(*SetData).Root.(*pset.Node[Datum])
		return compareSlice(offset, pset.ToList(ra), pset.ToList(rb))
	default:
		return 0
	}
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Equal implements `equal?` for exactly two Datums: structural equality
// that recurses into pairs/arrays/maps/sets/UDTs, using numericEqual's
// cross-kind rule for numeric leaves (spec section 4.5). The n-ary folding
// across an argument vector (0/1 args → true, adjacent pairs) lives in the
// builtins package, which calls this pairwise.
func Equal(offset int32, a, b Datum) bool {
	if IsNumeric(a) && IsNumeric(b) {
		eq, err := numericEqual(a, b)
		return err == nil && eq
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Boolean:
		return av == b.(Boolean)
	case String:
		return av == b.(String)
	case Binary:
		return bytes.Equal(av, b.(Binary))
	case Error:
		bv := b.(Error)
		return av.Code == bv.Code && av.Message == bv.Message
	case Date:
		return av == b.(Date)
	case Time:
		return av == b.(Time)
	case DateTime:
		return av == b.(DateTime)
	case DateTimeInterval:
		return av == b.(DateTimeInterval)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(offset, av[i], bv[i]) {
				return false
			}
		}
		return true
	case MapString:
		bv := b.(MapString)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(offset, av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case MapInt:
		bv := b.(MapInt)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(offset, av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case UserDefined:
		return equalUserDefined(offset, av, b.(UserDefined))
	}
	return false
}

func equalUserDefined(offset int32, a, b UserDefined) bool {
	if a.TypeCode != b.TypeCode {
		return false
	}
	switch a.TypeCode - offset {
	case TypePair:
		pa, pb := a.Payload.(*PairData), b.Payload.(*PairData)
		return Equal(offset, pa.First, pb.First) && Equal(offset, pa.Second, pb.Second)
	case TypeSymbol:
		sa, sb := a.Payload.(*SymbolData), b.Payload.(*SymbolData)
		return sa.Name == sb.Name
	case TypeBuiltin:
		return a.Payload.(BuiltinTag) == b.Payload.(BuiltinTag)
	case TypeSet:
		return compareUserDefined(offset, a, b) == 0
	default:
		return a.Payload == b.Payload
	}
}
