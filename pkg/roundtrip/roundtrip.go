// Package roundtrip checks that values survive binary encoding unchanged.
package roundtrip

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
)

// Roundtrip encodes v and decodes the result. Codec errors are returned unchanged.
func Roundtrip(v value.Value, opts ...serialization.Option) (value.Value, error) {
	b, err := serialization.Encode(v, opts...)
	if err != nil {
		return nil, err
	}
	return serialization.Decode(b, opts...)
}

// MismatchError reports the first node where a decoded value differs from its source.
type MismatchError struct {
	Path     string
	Expected value.Value
	Actual   value.Value
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("round-trip mismatch at %s: expected %s, got %s",
		e.Path, describe(e.Expected), describe(e.Actual))
}

func describe(v value.Value) string {
	if v == nil {
		return "nothing"
	}
	switch v.(type) {
	case value.Sequence, value.Mapping:
		return v.Kind().String()
	default:
		return v.String()
	}
}

// Verify round-trips v and reports a *MismatchError if the result is not equal to v.
func Verify(v value.Value, opts ...serialization.Option) error {
	_, err := verify(v, opts...)
	return err
}

func verify(v value.Value, opts ...serialization.Option) (int, error) {
	b, err := serialization.Encode(v, opts...)
	if err != nil {
		return 0, errors.Wrap(err, "encode")
	}
	r, err := serialization.Decode(b, opts...)
	if err != nil {
		return len(b), errors.Wrap(err, "decode")
	}
	return len(b), Compare(v, r)
}

// Compare returns a *MismatchError describing the first difference between expected and actual,
// or nil if they are equal.
func Compare(expected, actual value.Value) error {
	p, ok := Diff(expected, actual)
	if ok {
		return nil
	}
	return &MismatchError{Path: p.String(), Expected: nodeAt(expected, p), Actual: nodeAt(actual, p)}
}

// Diff compares a and b and returns the path of the first difference. The boolean result is true
// when the values are equal, the path is empty then.
func Diff(a, b value.Value) (value.Path, bool) {
	var p value.Path
	if diff(a, b, &p) {
		return nil, true
	}
	return p, false
}

func diff(a, b value.Value, p *value.Path) bool {
	if a == nil {
		a = value.Null{}
	}
	if b == nil {
		b = value.Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case value.Sequence:
		bv := b.(value.Sequence)
		n := min(av.Len(), bv.Len())
		for i := 0; i < n; i++ {
			*p = append(*p, value.IndexElem(i))
			if !diff(av.At(i), bv.At(i), p) {
				return false
			}
			*p = (*p)[:len(*p)-1]
		}
		if av.Len() != bv.Len() {
			*p = append(*p, value.IndexElem(n))
			return false
		}
		return true
	case value.Mapping:
		bv := b.(value.Mapping)
		n := min(av.Len(), bv.Len())
		for i := 0; i < n; i++ {
			pa, pb := av.At(i), bv.At(i)
			*p = append(*p, value.KeyElem(pa.Key))
			if pa.Key != pb.Key || !diff(pa.Value, pb.Value, p) {
				return false
			}
			*p = (*p)[:len(*p)-1]
		}
		if av.Len() != bv.Len() {
			if av.Len() > n {
				*p = append(*p, value.KeyElem(av.At(n).Key))
			} else {
				*p = append(*p, value.KeyElem(bv.At(n).Key))
			}
			return false
		}
		return true
	case value.Float:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(value.Float)))
	default:
		return value.Equal(a, b)
	}
}

// nodeAt follows p from the root. It returns nil where the path leaves the tree.
func nodeAt(v value.Value, p value.Path) value.Value {
	for _, e := range p {
		switch tv := v.(type) {
		case value.Sequence:
			if e.IsKey || e.Index >= tv.Len() {
				return nil
			}
			v = tv.At(e.Index)
		case value.Mapping:
			if !e.IsKey {
				return nil
			}
			var ok bool
			if v, ok = tv.Get(e.Key); !ok {
				return nil
			}
		default:
			return nil
		}
	}
	return v
}
