package serialization

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/libs/deserializer"
	"github.com/wavesplatform/goserde/pkg/value"
)

// Decode parses a single value occupying the whole of b.
// It returns either a complete value or an error, never a partial result.
// The returned value doesn't reference b.
func Decode(b []byte, opts ...Option) (value.Value, error) {
	o := applyOptions(opts)
	d := &decoder{
		d:        deserializer.NewDeserializer(b),
		maxDepth: o.maxDepth,
	}
	v, err := d.parseNext(0)
	if err != nil {
		return nil, err
	}
	if rest := d.d.Len(); rest > 0 {
		return nil, TrailingBytes.Errorf(d.d.Offset(), "%d unexpected bytes after the value", rest)
	}
	return v, nil
}

type decoder struct {
	d        *deserializer.Deserializer
	maxDepth int
}

func (d *decoder) parseNext(depth int) (value.Value, error) {
	offset := d.d.Offset()
	t, err := d.d.Byte()
	if err != nil {
		return nil, d.truncated(err, offset, "tag")
	}
	switch t {
	case tagNull:
		return value.Null{}, nil

	case tagBool:
		offset = d.d.Offset()
		b, err := d.d.Byte()
		if err != nil {
			return nil, d.truncated(err, offset, "bool")
		}
		switch b {
		case 0:
			return value.Bool(false), nil
		case 1:
			return value.Bool(true), nil
		default:
			return nil, InvalidBool.Errorf(offset, "unexpected bool byte %#x", b)
		}

	case tagInt:
		v, err := d.d.Int64()
		if err != nil {
			return nil, d.truncated(err, offset, "int")
		}
		return value.Int(v), nil

	case tagFloat:
		v, err := d.d.Float64()
		if err != nil {
			return nil, d.truncated(err, offset, "float")
		}
		return value.Float(v), nil

	case tagString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil

	case tagSequence:
		return d.parseSequence(offset, depth)

	case tagMapping:
		return d.parseMapping(offset, depth)

	default:
		return nil, UnknownTag.Errorf(offset, "unsupported tag %#x", t)
	}
}

func (d *decoder) parseSequence(offset, depth int) (value.Value, error) {
	if depth >= d.maxDepth {
		return nil, DecodeDepthExceeded.Errorf(offset, "more than %d nested containers", d.maxDepth)
	}
	n, err := d.readCount(1)
	if err != nil {
		return nil, err
	}
	items := make([]value.Value, n)
	for i := range items {
		item, err := d.parseNext(depth + 1)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return value.NewSequence(items...), nil
}

func (d *decoder) parseMapping(offset, depth int) (value.Value, error) {
	if depth >= d.maxDepth {
		return nil, DecodeDepthExceeded.Errorf(offset, "more than %d nested containers", d.maxDepth)
	}
	n, err := d.readCount(lengthSize + 1)
	if err != nil {
		return nil, err
	}
	b := value.NewMappingBuilder()
	for i := 0; i < n; i++ {
		keyOffset := d.d.Offset()
		k, err := d.readString()
		if err != nil {
			return nil, err
		}
		item, err := d.parseNext(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := b.Add(k, item); err != nil {
			return nil, DuplicateKey.Wrap(err, keyOffset, "failed to decode mapping")
		}
	}
	return b.Build(), nil
}

// readCount reads a container size and checks that the remaining input can hold that many
// entries of at least minEntrySize bytes, so a corrupted count never causes a huge allocation.
func (d *decoder) readCount(minEntrySize int) (int, error) {
	offset := d.d.Offset()
	n, err := d.d.Uint32()
	if err != nil {
		return 0, d.truncated(err, offset, "count")
	}
	if uint64(n)*uint64(minEntrySize) > uint64(d.d.Len()) {
		return 0, Truncated.Errorf(offset, "count %d exceeds remaining %d bytes", n, d.d.Len())
	}
	return int(n), nil
}

func (d *decoder) readString() (string, error) {
	offset := d.d.Offset()
	b, err := d.d.ByteStringWithUint32Len()
	if err != nil {
		return "", d.truncated(err, offset, "string")
	}
	if !utf8.Valid(b) {
		return "", InvalidUtf8.Errorf(offset, "string is not valid UTF-8")
	}
	return string(b), nil
}

func (d *decoder) truncated(err error, offset int, what string) error {
	if errors.Is(err, deserializer.ErrNotEnoughBytes) {
		return Truncated.Wrap(err, offset, "failed to read "+what)
	}
	return errors.Wrapf(err, "failed to read %s", what)
}
