// Package jsontext converts values to and from JSON text.
package jsontext

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/wavesplatform/goserde/pkg/value"
)

var (
	ErrUnsupportedFloat = errors.New("NaN and infinite floats have no JSON representation")
	ErrInvalidUTF8      = errors.New("string is not valid UTF-8")
	ErrDepthExceeded    = errors.New("too many nested containers")
)

// MaxDepth limits the number of nested containers in both directions.
const MaxDepth = 1024

const hex = "0123456789abcdef"

// Encode returns compact JSON text of v. Mapping pairs keep their insertion order.
func Encode(v value.Value) ([]byte, error) {
	return encode(v, "")
}

// EncodeString is like Encode but returns a string.
func EncodeString(v value.Value) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeIndent is like Encode but puts every container item on its own line,
// indented with the given string per nesting level.
func EncodeIndent(v value.Value, indent string) ([]byte, error) {
	if indent == "" {
		return Encode(v)
	}
	return encode(v, indent)
}

func encode(v value.Value, indent string) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	e := encoder{b: buf.B[:0], indent: indent}
	if err := e.walk(v, 0); err != nil {
		return nil, err
	}
	buf.B = e.b
	out := make([]byte, len(e.b))
	copy(out, e.b)
	return out, nil
}

type encoder struct {
	b      []byte
	indent string
	path   value.Path
}

func (e *encoder) walk(v value.Value, depth int) error {
	switch tv := v.(type) {
	case nil, value.Null:
		e.b = append(e.b, "null"...)
	case value.Bool:
		e.b = strconv.AppendBool(e.b, bool(tv))
	case value.Int:
		e.b = strconv.AppendInt(e.b, int64(tv), 10)
	case value.Float:
		return e.writeFloat(float64(tv))
	case value.String:
		return e.writeString(string(tv))
	case value.Sequence:
		if depth >= MaxDepth {
			return errors.Wrapf(ErrDepthExceeded, "at %s", e.path)
		}
		e.b = append(e.b, '[')
		for i, item := range tv.All() {
			e.separate(i, depth+1)
			e.path = append(e.path, value.IndexElem(i))
			if err := e.walk(item, depth+1); err != nil {
				return err
			}
			e.path = e.path[:len(e.path)-1]
		}
		e.close(tv.Len(), depth, ']')
	case value.Mapping:
		if depth >= MaxDepth {
			return errors.Wrapf(ErrDepthExceeded, "at %s", e.path)
		}
		e.b = append(e.b, '{')
		i := 0
		for k, item := range tv.All() {
			e.separate(i, depth+1)
			i++
			e.path = append(e.path, value.KeyElem(k))
			if err := e.writeString(k); err != nil {
				return err
			}
			e.b = append(e.b, ':')
			if e.indent != "" {
				e.b = append(e.b, ' ')
			}
			if err := e.walk(item, depth+1); err != nil {
				return err
			}
			e.path = e.path[:len(e.path)-1]
		}
		e.close(tv.Len(), depth, '}')
	default:
		return errors.Errorf("unexpected value type '%T'", v)
	}
	return nil
}

func (e *encoder) separate(i, depth int) {
	if i > 0 {
		e.b = append(e.b, ',')
	}
	e.newline(depth)
}

func (e *encoder) close(n, depth int, c byte) {
	if n > 0 {
		e.newline(depth)
	}
	e.b = append(e.b, c)
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.b = append(e.b, '\n')
	for i := 0; i < depth; i++ {
		e.b = append(e.b, e.indent...)
	}
}

// writeFloat emits the shortest representation that parses back to the same float.
// Integral values get a ".0" suffix to stay distinguishable from integers.
func (e *encoder) writeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Wrapf(ErrUnsupportedFloat, "value %v at %s", f, e.path)
	}
	start := len(e.b)
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	e.b = strconv.AppendFloat(e.b, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(e.b)
		if n-start >= 4 && e.b[n-4] == 'e' && e.b[n-3] == '-' && e.b[n-2] == '0' {
			e.b[n-2] = e.b[n-1]
			e.b = e.b[:n-1]
		}
		return nil
	}
	for _, c := range e.b[start:] {
		if c == '.' {
			return nil
		}
	}
	e.b = append(e.b, ".0"...)
	return nil
}

func (e *encoder) writeString(s string) error {
	if !utf8.ValidString(s) {
		return errors.Wrapf(ErrInvalidUTF8, "at %s", e.path)
	}
	e.b = append(e.b, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			i++
			continue
		}
		e.b = append(e.b, s[start:i]...)
		switch c {
		case '"', '\\':
			e.b = append(e.b, '\\', c)
		case '\n':
			e.b = append(e.b, '\\', 'n')
		case '\r':
			e.b = append(e.b, '\\', 'r')
		case '\t':
			e.b = append(e.b, '\\', 't')
		case '\b':
			e.b = append(e.b, '\\', 'b')
		case '\f':
			e.b = append(e.b, '\\', 'f')
		default:
			e.b = append(e.b, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
		}
		i++
		start = i
	}
	e.b = append(e.b, s[start:]...)
	e.b = append(e.b, '"')
	return nil
}
