// Package sysutil carries process-level helpers used by the server entry
// point: global log level wiring and small string utilities that predate
// any single layer of the app.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// logLevels maps the textual LOG_LEVEL values accepted by the config layer
// to zerolog levels. "warning" is an accepted alias for "warn".
var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel sets zerolog's global level from a textual value
// (case-insensitive, surrounding whitespace ignored). Empty and unknown
// values both resolve to info so a typo in LOG_LEVEL never silences logs.
func SetLogLevel(lvl string) {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(lvl))]; ok {
		zerolog.SetGlobalLevel(l)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// FirstNonEmpty returns the first value that is non-blank after trimming
// whitespace, or "" when every value is blank. Used to let CATALOG_MD
// override CATALOG_PATH without the config layer hard-coding precedence.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
