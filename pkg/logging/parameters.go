package logging

import (
	"encoding"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// Parameters selects the handler built by DefaultHandler.
type Parameters struct {
	Level slog.Level
	Type  LoggerType
}

// Initialize sets the defaults and binds the parameters to the log-level and log-type flags of fs.
func (p *Parameters) Initialize(fs *pflag.FlagSet) {
	p.Level = slog.LevelInfo
	p.Type = LoggerPretty
	fs.Var(&textFlag[slog.Level]{v: &p.Level, what: "log level"}, "log-level",
		"Set the logging level. Supported values: debug, info, warn, error.")
	fs.Var(&textFlag[LoggerType]{v: &p.Type, what: "logger type"}, "log-type",
		fmt.Sprintf("Set the logger output format. Supported types: %s.",
			strings.Join(LoggerTypeStrings(), ", ")))
}

func (p *Parameters) String() string {
	return fmt.Sprintf("{Level: %s, Type: %s}", p.Level, p.Type)
}

// textFlag adapts a type with text (un)marshaling to pflag.Value.
type textFlag[T encoding.TextMarshaler] struct {
	v    *T
	what string
}

func (f *textFlag[T]) Set(s string) error {
	u, ok := any(f.v).(encoding.TextUnmarshaler)
	if !ok {
		return fmt.Errorf("%s can't be parsed", f.what)
	}
	if err := u.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid %s: %w", f.what, err)
	}
	return nil
}

func (f *textFlag[T]) String() string {
	if f.v == nil {
		return ""
	}
	b, err := (*f.v).MarshalText()
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}

func (f *textFlag[T]) Type() string {
	return strings.ReplaceAll(f.what, " ", "-")
}
