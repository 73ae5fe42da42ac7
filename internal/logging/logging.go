// Package logging builds the logrus loggers used by the command line tools
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrUnknownFormat is returned for log formats other than text and json
var ErrUnknownFormat = errors.New("unknown log format")

// Format names accepted by New
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to w. level is a logrus level name
// ("debug", "info", "warn", ...); format is FormatText or FormatJSON.
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case FormatText, "":
		log.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableQuote:     true,
		})
	case FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return log, nil
}

// Discard returns a logger that drops every entry
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
