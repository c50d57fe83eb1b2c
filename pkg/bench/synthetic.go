package bench

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/value"
)

type fourPayload struct {
	A int64
	B bool
	S string
}

type record struct {
	Value        []int64
	AnotherField *string
	AString      string `serde:"a_string"`
	Enumerate    []value.Value
}

var syntheticRecord = sync.OnceValue(func() value.Value {
	return value.MustFromGo(record{
		Value:   []int64{1, 2, 3},
		AString: "test",
		Enumerate: []value.Value{
			value.Variant("One", value.Int(1)),
			value.Variant("Two", value.String("three")),
			value.Variant("Three", value.MustFromGo(map[string]string{"7": "test"})),
			value.Variant("Four", value.MustFromGo(fourPayload{A: 1, B: true, S: "ok?"})),
		},
	})
})

// Synthetic returns a sequence of n copies of the synthetic record.
func Synthetic(n int) (value.Value, error) {
	if n < 0 {
		return nil, errors.Errorf("invalid number of records %d", n)
	}
	r := syntheticRecord()
	items := make([]value.Value, n)
	for i := range items {
		items[i] = r
	}
	return value.NewSequence(items...), nil
}
