package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

// configureLogging installs the process-wide slog handler from the global
// flags. Logs default to stderr at warn so passthrough output stays clean;
// --log-file switches to a size-rotated file.
func configureLogging(cmd *cli.Command) {
	var out io.Writer = os.Stderr
	if path := cmd.String("log-file"); path != "" {
		out = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cmd.String("log-level"))}

	var handler slog.Handler
	if cmd.Bool("json-logs") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
