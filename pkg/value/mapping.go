package value

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/pkg/errors"
)

var ErrDuplicateKey = errors.New("duplicate mapping key")

// MappingBuilder accumulates pairs of a Mapping in insertion order.
// A zero MappingBuilder is not usable, create one with NewMappingBuilder.
type MappingBuilder struct {
	m *orderedmap.OrderedMap[string, Value]
}

func NewMappingBuilder() *MappingBuilder {
	return &MappingBuilder{m: orderedmap.NewOrderedMap[string, Value]()}
}

// Add appends the pair. Nil values are stored as Null.
func (b *MappingBuilder) Add(key string, v Value) error {
	if _, ok := b.m.Get(key); ok {
		return errors.Wrapf(ErrDuplicateKey, "key %q", key)
	}
	b.m.Set(key, orNull(v))
	return nil
}

// MustAdd is like Add but panics on a duplicate key. It returns the builder for chaining.
func (b *MappingBuilder) MustAdd(key string, v Value) *MappingBuilder {
	if err := b.Add(key, v); err != nil {
		panic(err)
	}
	return b
}

func (b *MappingBuilder) Len() int {
	return b.m.Len()
}

// Build returns the Mapping of the pairs added so far. Later additions don't affect it.
func (b *MappingBuilder) Build() Mapping {
	if b.m.Len() == 0 {
		return Mapping{}
	}
	pairs := make([]Pair, 0, b.m.Len())
	for el := b.m.Front(); el != nil; el = el.Next() {
		pairs = append(pairs, Pair{Key: el.Key, Value: el.Value})
	}
	return Mapping{pairs: pairs}
}

// NewMapping creates a Mapping from the pairs, failing on the first repeated key.
func NewMapping(pairs ...Pair) (Mapping, error) {
	b := NewMappingBuilder()
	for _, p := range pairs {
		if err := b.Add(p.Key, p.Value); err != nil {
			return Mapping{}, err
		}
	}
	return b.Build(), nil
}

// Variant encodes a tagged enum case as a single-pair mapping {name: payload}.
func Variant(name string, payload Value) Mapping {
	return Mapping{pairs: []Pair{{Key: name, Value: orNull(payload)}}}
}

// UnitVariant encodes a payload-less enum case as its bare name.
func UnitVariant(name string) String {
	return String(name)
}
