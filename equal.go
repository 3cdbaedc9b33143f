package memoize

import (
	"reflect"
	"regexp"
	"time"
)

// DefaultMaxDepth bounds recursion in Equal. Structures nesting deeper than
// this compare unequal rather than recursing forever.
const DefaultMaxDepth = 100

// Equaler lets a value take over its own comparison. When either operand
// implements it, the result is authoritative and no structural check runs;
// the left operand takes precedence when both do.
type Equaler interface {
	Equal(other any) bool
}

// Set is an unordered collection compared by existential match: every element
// of one set must equal some element of the other. Matches are not consumed,
// so the comparison assumes no two elements within one set are equal to each
// other — always true for well-formed sets, a known caveat otherwise.
type Set []any

// NewSet builds a Set from its elements.
// @group Equality
//
// Example: sets compare regardless of order
//
//	a := memoize.NewSet(1, 2, 3)
//	b := memoize.NewSet(3, 1, 2)
//	fmt.Println(memoize.Equal(a, b)) // true
func NewSet(elems ...any) Set {
	return Set(elems)
}

// Equal reports deep structural equality between a and b using DefaultMaxDepth.
// @group Equality
//
// Example: structurally identical values are equal
//
//	a := map[string]any{"a": 1, "b": []int{1, 2, 3}}
//	b := map[string]any{"a": 1, "b": []int{1, 2, 3}}
//	fmt.Println(memoize.Equal(a, b)) // true
func Equal(a, b any) bool {
	return EqualDepth(a, b, DefaultMaxDepth)
}

// EqualDepth is Equal with an explicit recursion budget. It is total: it never
// panics and never mutates its operands. Depth exhaustion and unrecognized
// shapes report unequal, trading a spurious recompute for a wrong reuse.
// @group Equality
func EqualDepth(a, b any, maxDepth int) (eq bool) {
	// Uncomparable values hidden behind interface fields can make == panic at
	// runtime even when the static type says comparable. Degrade to false.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return equalDepth(a, b, maxDepth)
}

func equalDepth(a, b any, depth int) bool {
	if depth <= 0 {
		return false
	}
	if identical(a, b) {
		return true
	}

	aNil, bNil := isNilValue(a), isNilValue(b)
	if aNil || bNil {
		return aNil && bNil
	}

	// Special types dispatch on either operand: a timestamp, pattern or set
	// on one side only is a category mismatch, never a fall-through to the
	// generic paths.
	aTime, aIsTime := a.(time.Time)
	bTime, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		return aIsTime && bIsTime && aTime.Equal(bTime)
	}
	aRe, aIsRe := a.(*regexp.Regexp)
	bRe, bIsRe := b.(*regexp.Regexp)
	if aIsRe || bIsRe {
		return aIsRe && bIsRe && aRe.String() == bRe.String()
	}
	aSet, aIsSet := a.(Set)
	bSet, bIsSet := b.(Set)
	if aIsSet || bIsSet {
		return aIsSet && bIsSet && equalSets(aSet, bSet, depth)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)

	// Custom equality is checked before pointer unwrapping so that
	// pointer-receiver implementations are honored.
	if va.Kind() == reflect.Pointer || vb.Kind() == reflect.Pointer {
		if eq, ok := customEqual(a, b); ok {
			return eq
		}
		if va.Kind() == reflect.Pointer {
			return equalDepth(va.Elem().Interface(), b, depth-1)
		}
		return equalDepth(a, vb.Elem().Interface(), depth-1)
	}

	ca, cb := categoryOf(va.Kind()), categoryOf(vb.Kind())
	if ca != cb {
		return false
	}

	switch ca {
	case catScalar:
		// Identity already failed above.
		return false
	case catSequence:
		return equalSequences(va, vb, depth)
	case catMap:
		return equalMaps(va, vb, depth)
	case catStruct:
		if eq, ok := customEqual(a, b); ok {
			return eq
		}
		return equalStructs(va, vb, depth)
	default:
		if eq, ok := customEqual(a, b); ok {
			return eq
		}
		// Funcs, channels and other exotic shapes are never assumed equal.
		return false
	}
}

// customEqual delegates to an Equaler implementation on either operand. The
// left operand takes precedence; the answer is authoritative either way.
func customEqual(a, b any) (bool, bool) {
	if ea, ok := a.(Equaler); ok {
		return ea.Equal(b), true
	}
	if eb, ok := b.(Equaler); ok {
		return eb.Equal(a), true
	}
	return false, false
}

type category int

const (
	catScalar category = iota
	catSequence
	catMap
	catStruct
	catOther
)

func categoryOf(k reflect.Kind) category {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return catScalar
	case reflect.Slice, reflect.Array:
		return catSequence
	case reflect.Map:
		return catMap
	case reflect.Struct:
		return catStruct
	default:
		return catOther
	}
}

// identical reports value-or-reference identity: equal comparable values, or
// the same underlying slice/map/func.
func identical(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || tb == nil {
		return ta == nil && tb == nil
	}
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// comparableEqual runs == behind a recover: a statically comparable struct
// still panics when an interface field holds an uncomparable value, and that
// must read as "not identical", not abort the structural comparison.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func equalSequences(va, vb reflect.Value, depth int) bool {
	if va.Len() != vb.Len() {
		return false
	}
	if scalarElements(va) && scalarElements(vb) {
		for i := 0; i < va.Len(); i++ {
			ea, eb := va.Index(i).Interface(), vb.Index(i).Interface()
			if isNilValue(ea) || isNilValue(eb) {
				if isNilValue(ea) != isNilValue(eb) {
					return false
				}
				continue
			}
			if !identical(ea, eb) {
				return false
			}
		}
		return true
	}
	for i := 0; i < va.Len(); i++ {
		if !equalDepth(va.Index(i).Interface(), vb.Index(i).Interface(), depth-1) {
			return false
		}
	}
	return true
}

// scalarElements reports whether every element is a scalar or nil, enabling
// the non-recursive sequence fast path.
func scalarElements(v reflect.Value) bool {
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		if e.Kind() == reflect.Interface {
			if e.IsNil() {
				continue
			}
			e = e.Elem()
		}
		if categoryOf(e.Kind()) != catScalar {
			return false
		}
	}
	return true
}

func equalMaps(va, vb reflect.Value, depth int) bool {
	if va.Len() != vb.Len() {
		return false
	}
	bKey := vb.Type().Key()
	iter := va.MapRange()
	for iter.Next() {
		k := iter.Key()
		if !k.Type().AssignableTo(bKey) {
			return false
		}
		bv := vb.MapIndex(k)
		if !bv.IsValid() {
			return false
		}
		if !equalDepth(iter.Value().Interface(), bv.Interface(), depth-1) {
			return false
		}
	}
	return true
}

func equalSets(a, b Set, depth int) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ea := range a {
		found := false
		for _, eb := range b {
			if equalDepth(ea, eb, depth-1) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalStructs(va, vb reflect.Value, depth int) bool {
	fa, fb := exportedFields(va.Type()), exportedFields(vb.Type())
	if len(fa) != len(fb) {
		return false
	}
	for name, ia := range fa {
		ib, ok := fb[name]
		if !ok {
			return false
		}
		if !equalDepth(va.Field(ia).Interface(), vb.Field(ib).Interface(), depth-1) {
			return false
		}
	}
	return true
}

// exportedFields maps exported field names to their index. Unexported fields
// are invisible to the comparison; types that need them implement Equaler.
func exportedFields(t reflect.Type) map[string]int {
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() {
			fields[f.Name] = i
		}
	}
	return fields
}
