package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/sim"
)

func parseLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return sim.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}

	return level, nil
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// setupLogging installs the default logger. The returned function closes
// the log file.
func setupLogging(p config.Params) (func(), error) {
	level, err := parseLevel(p.LogLevel)
	if err != nil {
		return nil, err
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)

	if p.LogFile != "" {
		f, err := os.Create(p.LogFile)
		if err != nil {
			return nil, err
		}

		w = f
		closeFn = func() { f.Close() }
	}

	h, err := newHandler(w, p.LogFormat, level)
	if err != nil {
		closeFn()
		return nil, err
	}

	slog.SetDefault(slog.New(h))

	return closeFn, nil
}
