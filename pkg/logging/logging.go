// Package logging builds slog handlers for the command line tools and renders errors with their
// stack traces.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dpotapov/slogpfx"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const NamespaceKey = "namespace"

// DefaultHandler creates a new slog handler writing to stderr with the specified parameters.
func DefaultHandler(params Parameters) slog.Handler {
	return NewHandler(params.Type, params.Level, os.Stderr)
}

// NewHandler creates a new slog handler based on the specified logger type and level.
// Errors logged with Error get their stack traces printed.
func NewHandler(loggerType LoggerType, level slog.Level, w io.Writer) slog.Handler {
	return newTraceHandler(newHandler(loggerType, level, w), true)
}

func newHandler(loggerType LoggerType, level slog.Level, w io.Writer) slog.Handler {
	switch loggerType {
	case LoggerText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerPretty:
		type fd interface{ Fd() uintptr }
		colorize := false
		if f, ok := w.(fd); ok {
			colorize = isatty.IsTerminal(f.Fd())
		}
		return buildPrettyHandler(w, level, colorize)
	case LoggerPrettyNoColor:
		return buildPrettyHandler(w, level, false)
	default:
		panic(fmt.Sprintf("unsupported logger type %d", loggerType))
	}
}

func buildPrettyHandler(w io.Writer, level slog.Level, colorize bool) slog.Handler {
	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colorize,
	})
	formatter := slogpfx.DefaultPrefixFormatter
	if colorize {
		formatter = slogpfx.ColorizePrefix(formatter)
	}
	return slogpfx.NewHandler(tintHandler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{NamespaceKey},
		PrefixFormatter: formatter,
	})
}

// Namespace returns a logger that prefixes its messages with the given component name.
func Namespace(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String(NamespaceKey, name))
}

type attrVisitorHandler struct {
	slog.Handler
	attrVisitor func(a slog.Attr) bool
}

func (h *attrVisitorHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	if h.attrVisitor != nil {
		r.Attrs(h.attrVisitor)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *attrVisitorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attrVisitorHandler{Handler: h.Handler.WithAttrs(attrs), attrVisitor: h.attrVisitor}
}

func (h *attrVisitorHandler) WithGroup(name string) slog.Handler {
	return &attrVisitorHandler{Handler: h.Handler.WithGroup(name), attrVisitor: h.attrVisitor}
}

// newTraceHandler switches stack trace output of Error attributes on or off.
func newTraceHandler(h slog.Handler, trace bool) slog.Handler {
	return &attrVisitorHandler{
		Handler: h,
		attrVisitor: func(a slog.Attr) bool {
			if a.Key != errorKey || a.Value.Kind() != slog.KindLogValuer {
				return true
			}
			if elv, ok := a.Value.Any().(errorLogValuer); ok && elv.opts != nil {
				elv.opts.trace = trace
			}
			return true
		},
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type errTextMarshaler struct {
	err error
}

func (e errTextMarshaler) MarshalText() ([]byte, error) {
	return []byte(e.err.Error()), nil
}

type errorLogValuerOpts struct {
	trace bool
}

type errorLogValuer struct {
	err  error
	opts *errorLogValuerOpts
}

// LogValue returns the error message and, when enabled, the stack trace of the outermost
// error that carries one.
func (e errorLogValuer) LogValue() slog.Value {
	if e.err == nil {
		return slog.Value{}
	}
	const (
		msgKey   = "message"
		traceKey = "trace"
	)
	attrs := []slog.Attr{slog.Any(msgKey, errTextMarshaler{e.err})}
	if e.opts != nil && e.opts.trace {
		var st stackTracer
		if errors.As(e.err, &st) {
			attrs = append(attrs, slog.String(traceKey, fmt.Sprintf("%+v", st.StackTrace())))
		}
	}
	return slog.GroupValue(attrs...)
}

const errorKey = "error"

// Error returns an attribute for err. A nil error yields an empty attribute that handlers skip.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	var lv slog.LogValuer = errorLogValuer{
		err:  err,
		opts: new(errorLogValuerOpts),
	}
	return slog.Any(errorKey, lv)
}
