// Package value defines the immutable in-memory representation of serializable data.
//
// A Value is one of Null, Bool, Int, Float, String, Sequence or Mapping. Containers are
// assembled bottom-up from values built before them, so every Value is a tree.
package value

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind is the variant tag of a Value.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindMapping:
		return "Mapping"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a closed set of variants. It can't be implemented outside the package.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

type Null struct{}

func (Null) Kind() Kind { return KindNull }

func (Null) String() string { return "null" }

func (Null) sealed() {}

type Bool bool

func (Bool) Kind() Kind { return KindBool }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (Bool) sealed() {}

type Int int64

func (Int) Kind() Kind { return KindInt }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (Int) sealed() {}

type Float float64

func (Float) Kind() Kind { return KindFloat }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (Float) sealed() {}

// String holds UTF-8 text. Validity is checked by the codecs, not on construction.
type String string

func (String) Kind() Kind { return KindString }

func (s String) String() string { return strconv.Quote(string(s)) }

func (String) sealed() {}

// Sequence is an ordered list of values.
type Sequence struct {
	items []Value
}

// NewSequence creates a sequence of the given items. The slice is copied, nil items become Null.
func NewSequence(items ...Value) Sequence {
	if len(items) == 0 {
		return Sequence{}
	}
	cp := make([]Value, len(items))
	for i, v := range items {
		cp[i] = orNull(v)
	}
	return Sequence{items: cp}
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

func (Sequence) Kind() Kind { return KindSequence }

func (Sequence) sealed() {}

func (s Sequence) Len() int { return len(s.items) }

// At returns the i-th item. It panics if i is out of range.
func (s Sequence) At(i int) Value { return s.items[i] }

// All iterates over the items in order.
func (s Sequence) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (s Sequence) String() string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	for i, v := range s.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Pair is a key-value entry of a Mapping.
type Pair struct {
	Key   string
	Value Value
}

// Mapping is an ordered list of pairs with unique keys. Use MappingBuilder to create one.
type Mapping struct {
	pairs []Pair
}

func (Mapping) Kind() Kind { return KindMapping }

func (Mapping) sealed() {}

func (m Mapping) Len() int { return len(m.pairs) }

// At returns the i-th pair in insertion order. It panics if i is out of range.
func (m Mapping) At(i int) Pair { return m.pairs[i] }

// Get looks the key up with a linear scan.
func (m Mapping) Get(key string) (Value, bool) {
	for _, p := range m.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// All iterates over the pairs in insertion order.
func (m Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, p := range m.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (m Mapping) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

func (m Mapping) String() string {
	sb := strings.Builder{}
	sb.WriteByte('{')
	for i, p := range m.pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(p.Key))
		sb.WriteString(": ")
		sb.WriteString(p.Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether a and b are structurally equal.
// Mappings are compared pair by pair in insertion order. Floats are compared by bits.
// A nil Value equals Null, as it is encoded the same way.
func Equal(a, b Value) bool {
	a, b = orNull(a), orNull(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Float)))
	case String:
		return av == b.(String)
	case Sequence:
		bv := b.(Sequence)
		if len(av.items) != len(bv.items) {
			return false
		}
		for i, item := range av.items {
			if !Equal(item, bv.items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		bv := b.(Mapping)
		if len(av.pairs) != len(bv.pairs) {
			return false
		}
		for i, p := range av.pairs {
			q := bv.pairs[i]
			if p.Key != q.Key || !Equal(p.Value, q.Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
