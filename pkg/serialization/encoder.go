package serialization

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/wavesplatform/goserde/pkg/libs/serializer"
	"github.com/wavesplatform/goserde/pkg/value"
)

// Encode serializes v. The returned slice is owned by the caller.
func Encode(v value.Value, opts ...Option) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := EncodeTo(buf, v, opts...); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// EncodeTo writes serialized v to w and returns the number of bytes written.
// On error, w may hold a partial encoding.
func EncodeTo(w io.Writer, v value.Value, opts ...Option) (int64, error) {
	o := applyOptions(opts)
	e := &encoder{
		s:        serializer.New(w),
		maxDepth: o.maxDepth,
	}
	err := e.walk(v, 0)
	return e.s.N(), err
}

type encoder struct {
	s        *serializer.Serializer
	maxDepth int
	path     value.Path
}

func (e *encoder) walk(v value.Value, depth int) error {
	switch tv := v.(type) {
	case nil, value.Null:
		return e.writeTag(tagNull)
	case value.Bool:
		if err := e.writeTag(tagBool); err != nil {
			return err
		}
		return e.io(e.s.Bool(bool(tv)))
	case value.Int:
		if err := e.writeTag(tagInt); err != nil {
			return err
		}
		return e.io(e.s.Int64(int64(tv)))
	case value.Float:
		if err := e.writeTag(tagFloat); err != nil {
			return err
		}
		return e.io(e.s.Float64(float64(tv)))
	case value.String:
		if err := e.writeTag(tagString); err != nil {
			return err
		}
		return e.writeString(string(tv))
	case value.Sequence:
		return e.writeSequence(tv, depth)
	case value.Mapping:
		return e.writeMapping(tv, depth)
	default:
		return errors.Errorf("unexpected value type '%T'", v)
	}
}

func (e *encoder) writeSequence(s value.Sequence, depth int) error {
	if err := e.enter(depth); err != nil {
		return err
	}
	if err := e.writeTag(tagSequence); err != nil {
		return err
	}
	if err := e.writeLength(s.Len(), "sequence"); err != nil {
		return err
	}
	for i, item := range s.All() {
		e.path = append(e.path, value.IndexElem(i))
		if err := e.walk(item, depth+1); err != nil {
			return err
		}
		e.path = e.path[:len(e.path)-1]
	}
	return nil
}

func (e *encoder) writeMapping(m value.Mapping, depth int) error {
	if err := e.enter(depth); err != nil {
		return err
	}
	if err := e.writeTag(tagMapping); err != nil {
		return err
	}
	if err := e.writeLength(m.Len(), "mapping"); err != nil {
		return err
	}
	for k, item := range m.All() {
		e.path = append(e.path, value.KeyElem(k))
		if err := e.writeString(k); err != nil {
			return err
		}
		if err := e.walk(item, depth+1); err != nil {
			return err
		}
		e.path = e.path[:len(e.path)-1]
	}
	return nil
}

func (e *encoder) enter(depth int) error {
	if depth >= e.maxDepth {
		return EncodeDepthExceeded.Errorf(e.path.String(), "more than %d nested containers", e.maxDepth)
	}
	return nil
}

func (e *encoder) writeTag(tag byte) error {
	return e.io(e.s.Byte(tag))
}

func (e *encoder) writeLength(n int, what string) error {
	return e.sized(e.s.Length(n), what)
}

func (e *encoder) writeString(s string) error {
	if !utf8.ValidString(s) {
		return InvalidUTF8.Errorf(e.path.String(), "string is not valid UTF-8")
	}
	return e.sized(e.s.StringWithUInt32Len(s), "string")
}

// sized classifies an error of a length-prefixed write.
func (e *encoder) sized(err error, what string) error {
	if errors.Is(err, serializer.ErrTooLong) {
		return SizeOverflow.Wrap(err, e.path.String(), what+" is too long")
	}
	return e.io(err)
}

func (e *encoder) io(err error) error {
	if err != nil {
		return errors.Wrapf(err, "failed to write at %s", e.path)
	}
	return nil
}
