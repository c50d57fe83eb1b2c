// Package serialization implements the compact binary format of values.
//
// Every node starts with a one-byte tag followed by its payload:
//
//	0x00 Null
//	0x01 Bool      1 byte, 0 or 1
//	0x02 Int       8 bytes, two's complement
//	0x03 Float     8 bytes, IEEE-754 bits
//	0x04 String    u32 length, UTF-8 bytes
//	0x05 Sequence  u32 count, items
//	0x06 Mapping   u32 count, (u32 key length, key bytes, value) pairs
//
// All multi-byte numbers are little-endian.
package serialization

const (
	tagNull byte = iota
	tagBool
	tagInt
	tagFloat
	tagString
	tagSequence
	tagMapping
)

const (
	// DefaultMaxDepth is the default limit of nested containers.
	DefaultMaxDepth = 1024

	lengthSize = 4
)

type options struct {
	maxDepth int
}

func defaultOptions() options {
	return options{maxDepth: DefaultMaxDepth}
}

type Option func(*options)

// WithMaxDepth limits the number of nested containers accepted by the encoder and the decoder.
// Non-positive values keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
