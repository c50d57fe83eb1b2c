package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// EncodeErrorKind classifies failures of Encode.
type EncodeErrorKind uint

const (
	UndefinedEncodeError EncodeErrorKind = iota
	SizeOverflow
	InvalidUTF8
	EncodeDepthExceeded
)

func (k EncodeErrorKind) String() string {
	switch k {
	case SizeOverflow:
		return "SizeOverflow"
	case InvalidUTF8:
		return "InvalidUTF8"
	case EncodeDepthExceeded:
		return "DepthExceeded"
	default:
		return "Undefined"
	}
}

// EncodeError is returned by the encoder. Path points to the offending node.
type EncodeError struct {
	Kind EncodeErrorKind
	Path string
	err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s at %s: %s", e.Kind, e.Path, e.err.Error())
}

func (e *EncodeError) Unwrap() error {
	return e.err
}

func (e *EncodeError) StackTrace() errors.StackTrace {
	return stackTrace(e.err)
}

func (k EncodeErrorKind) Errorf(path string, msg string, args ...any) error {
	return &EncodeError{Kind: k, Path: path, err: errors.Errorf(msg, args...)}
}

func (k EncodeErrorKind) Wrap(err error, path string, msg string) error {
	return &EncodeError{Kind: k, Path: path, err: errors.Wrap(err, msg)}
}

// GetEncodeErrorKind extracts the kind from err or any error it wraps.
func GetEncodeErrorKind(err error) EncodeErrorKind {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return UndefinedEncodeError
}

// DecodeErrorKind classifies failures of Decode.
type DecodeErrorKind uint

const (
	UndefinedDecodeError DecodeErrorKind = iota
	Truncated
	UnknownTag
	InvalidUtf8
	InvalidBool
	DuplicateKey
	TrailingBytes
	DecodeDepthExceeded
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Truncated:
		return "Truncated"
	case UnknownTag:
		return "UnknownTag"
	case InvalidUtf8:
		return "InvalidUtf8"
	case InvalidBool:
		return "InvalidBool"
	case DuplicateKey:
		return "DuplicateKey"
	case TrailingBytes:
		return "TrailingBytes"
	case DecodeDepthExceeded:
		return "DepthExceeded"
	default:
		return "Undefined"
	}
}

// DecodeError is returned by the decoder. Offset is the position of the failed read.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
	err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %s", e.Kind, e.Offset, e.err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func (e *DecodeError) StackTrace() errors.StackTrace {
	return stackTrace(e.err)
}

func (k DecodeErrorKind) Errorf(offset int, msg string, args ...any) error {
	return &DecodeError{Kind: k, Offset: offset, err: errors.Errorf(msg, args...)}
}

func (k DecodeErrorKind) Wrap(err error, offset int, msg string) error {
	return &DecodeError{Kind: k, Offset: offset, err: errors.Wrap(err, msg)}
}

// GetDecodeErrorKind extracts the kind from err or any error it wraps.
func GetDecodeErrorKind(err error) DecodeErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return UndefinedDecodeError
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackTrace(err error) errors.StackTrace {
	if st, ok := err.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
