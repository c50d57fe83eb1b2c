package logging

// LoggerType is a type of logger output.
// Possible types:
//   - LoggerText: The standard slog.TextHandler.
//   - LoggerJSON: The standard slog.JSONHandler.
//   - LoggerPretty: Colored messages when writing to a terminal.
//   - LoggerPrettyNoColor: Pretty messages without colors.
//
//go:generate enumer -type LoggerType -trimprefix Logger -transform lower -text -output loggertype_string.go
type LoggerType int

const (
	LoggerText LoggerType = iota
	LoggerJSON
	LoggerPretty
	LoggerPrettyNoColor
)
