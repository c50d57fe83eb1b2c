package value

import (
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/stoewer/go-strcase"
	"golang.org/x/exp/constraints"
)

const tagName = "serde"

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// FromGo converts a native Go value into a Value.
//
// Struct fields become mapping pairs in declaration order, keyed by the `serde` tag or the
// snake_case field name. Tag option "omitempty" skips zero fields, tag "-" skips the field.
// Maps must have string keys and are emitted in sorted key order. Nil pointers, interfaces,
// slices and maps become Null.
func FromGo(v any) (Value, error) {
	if v == nil {
		return Null{}, nil
	}
	switch tv := v.(type) {
	case Value:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case int:
		return fromSigned(tv), nil
	case int8:
		return fromSigned(tv), nil
	case int16:
		return fromSigned(tv), nil
	case int32:
		return fromSigned(tv), nil
	case int64:
		return fromSigned(tv), nil
	case uint:
		return fromUnsigned(tv)
	case uint8:
		return fromUnsigned(tv)
	case uint16:
		return fromUnsigned(tv)
	case uint32:
		return fromUnsigned(tv)
	case uint64:
		return fromUnsigned(tv)
	case float32:
		return fromFloat(tv), nil
	case float64:
		return fromFloat(tv), nil
	default:
		return fromReflect(reflect.ValueOf(v), 0)
	}
}

// MustFromGo is like FromGo but panics on error.
func MustFromGo(v any) Value {
	r, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return r
}

const maxConvertDepth = 1024

func fromReflect(rv reflect.Value, depth int) (Value, error) {
	if depth > maxConvertDepth {
		return nil, errors.Errorf("nesting is deeper than %d levels", maxConvertDepth)
	}
	if !rv.IsValid() {
		return Null{}, nil
	}
	if rv.Kind() != reflect.Pointer && rv.Type().Implements(valueType) {
		if rv.Kind() == reflect.Interface && rv.IsNil() {
			return Null{}, nil
		}
		return rv.Interface().(Value), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromSigned(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromReflect(rv.Elem(), depth+1)
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromList(rv, depth)
	case reflect.Array:
		return fromList(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		return fromMap(rv, depth)
	case reflect.Struct:
		return fromStruct(rv, depth)
	default:
		return nil, errors.Errorf("unsupported type %s", rv.Type())
	}
}

func fromSigned[T constraints.Signed](v T) Value {
	return Int(int64(v))
}

func fromUnsigned[T constraints.Unsigned](v T) (Value, error) {
	if uint64(v) > math.MaxInt64 {
		return nil, errors.Errorf("unsigned value %d overflows int64", uint64(v))
	}
	return Int(int64(v)), nil
}

func fromFloat[T constraints.Float](v T) Value {
	return Float(float64(v))
}

func fromList(rv reflect.Value, depth int) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range items {
		item, err := fromReflect(rv.Index(i), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		items[i] = item
	}
	return Sequence{items: items}, nil
}

func fromMap(rv reflect.Value, depth int) (Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, errors.Errorf("unsupported map key type %s", rv.Type().Key())
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		item, err := fromReflect(rv.MapIndex(k), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", k.String())
		}
		pairs[i] = Pair{Key: k.String(), Value: item}
	}
	return Mapping{pairs: pairs}, nil
}

func fromStruct(rv reflect.Value, depth int) (Value, error) {
	t := rv.Type()
	b := NewMappingBuilder()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := fieldName(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		item, err := fromReflect(fv, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", t.Name(), f.Name)
		}
		if err := b.Add(name, item); err != nil {
			return nil, errors.Wrapf(err, "struct %s", t.Name())
		}
	}
	return b.Build(), nil
}

func fieldName(f reflect.StructField) (string, bool, bool) {
	tag, ok := f.Tag.Lookup(tagName)
	if !ok {
		return strcase.SnakeCase(f.Name), false, false
	}
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strcase.SnakeCase(f.Name)
	}
	return name, opts == "omitempty", false
}

// KeyValue is the Go projection of a mapping pair.
type KeyValue struct {
	Key   string
	Value any
}

// ToGo projects a Value onto plain Go types: nil, bool, int64, float64, string, []any and
// []KeyValue for mappings, which keeps the pair order.
func ToGo(v Value) any {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(tv)
	case Int:
		return int64(tv)
	case Float:
		return float64(tv)
	case String:
		return string(tv)
	case Sequence:
		r := make([]any, len(tv.items))
		for i, item := range tv.items {
			r[i] = ToGo(item)
		}
		return r
	case Mapping:
		r := make([]KeyValue, len(tv.pairs))
		for i, p := range tv.pairs {
			r[i] = KeyValue{Key: p.Key, Value: ToGo(p.Value)}
		}
		return r
	default:
		panic(errors.Errorf("unexpected value type %T", v))
	}
}

// ToGoMap is like ToGo but projects mappings onto map[string]any, dropping the pair order.
func ToGoMap(v Value) any {
	switch tv := v.(type) {
	case Sequence:
		r := make([]any, len(tv.items))
		for i, item := range tv.items {
			r[i] = ToGoMap(item)
		}
		return r
	case Mapping:
		r := make(map[string]any, len(tv.pairs))
		for _, p := range tv.pairs {
			r[p.Key] = ToGoMap(p.Value)
		}
		return r
	default:
		return ToGo(v)
	}
}
