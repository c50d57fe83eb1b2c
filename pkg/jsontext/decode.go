package jsontext

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/wavesplatform/goserde/pkg/value"
)

var (
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrDuplicateKey = errors.New("duplicate object key")
)

// Decode parses JSON text into a value.
//
// Numbers without fraction or exponent that fit into int64 become Int, other numbers become
// Float. Objects keep the key order of the text; a repeated key is an error.
func Decode(b []byte) (value.Value, error) {
	if !gjson.ValidBytes(b) {
		return nil, ErrInvalidJSON
	}
	d := decoder{}
	return d.convert(gjson.ParseBytes(b), 0)
}

// DecodeString is like Decode but takes a string.
func DecodeString(s string) (value.Value, error) {
	if !gjson.Valid(s) {
		return nil, ErrInvalidJSON
	}
	d := decoder{}
	return d.convert(gjson.Parse(s), 0)
}

type decoder struct {
	path value.Path
}

func (d *decoder) convert(r gjson.Result, depth int) (value.Value, error) {
	switch r.Type {
	case gjson.Null:
		return value.Null{}, nil
	case gjson.False:
		return value.Bool(false), nil
	case gjson.True:
		return value.Bool(true), nil
	case gjson.Number:
		return d.number(r.Raw)
	case gjson.String:
		if !utf8.ValidString(r.Str) {
			return nil, errors.Wrapf(ErrInvalidUTF8, "at %s", d.path)
		}
		return value.String(r.Str), nil
	case gjson.JSON:
		if depth >= MaxDepth {
			return nil, errors.Wrapf(ErrDepthExceeded, "at %s", d.path)
		}
		if r.IsArray() {
			return d.array(r, depth)
		}
		return d.object(r, depth)
	default:
		return nil, errors.Wrapf(ErrInvalidJSON, "unexpected token at %s", d.path)
	}
}

func (d *decoder) number(raw string) (value.Value, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return value.Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidJSON, "number %q at %s: %v", raw, d.path, err)
	}
	return value.Float(f), nil
}

func (d *decoder) array(r gjson.Result, depth int) (value.Value, error) {
	var (
		items []value.Value
		err   error
	)
	r.ForEach(func(_, v gjson.Result) bool {
		d.path = append(d.path, value.IndexElem(len(items)))
		var item value.Value
		item, err = d.convert(v, depth+1)
		if err != nil {
			return false
		}
		d.path = d.path[:len(d.path)-1]
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return value.NewSequence(items...), nil
}

func (d *decoder) object(r gjson.Result, depth int) (value.Value, error) {
	b := value.NewMappingBuilder()
	var err error
	r.ForEach(func(k, v gjson.Result) bool {
		if !utf8.ValidString(k.Str) {
			err = errors.Wrapf(ErrInvalidUTF8, "key at %s", d.path)
			return false
		}
		d.path = append(d.path, value.KeyElem(k.Str))
		var item value.Value
		item, err = d.convert(v, depth+1)
		if err != nil {
			return false
		}
		d.path = d.path[:len(d.path)-1]
		if aerr := b.Add(k.Str, item); aerr != nil {
			err = errors.Wrapf(ErrDuplicateKey, "key %q at %s", k.Str, d.path)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}
