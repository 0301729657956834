// Package cli implements the stringart command-line interface.
//
// Commands write two streams. Results (written files, statistics, tables,
// hints) go to the command's output writer through a console. Logs go to
// the CLI's logger, stderr in the binary, and carry the same events in a
// machine-readable form when --log-format is json or logfmt. A terminal
// additionally gets a live progress view on stderr while the optimizer runs.
//
// # Commands
//
//   - generate: optimize a pull order for an image and write the outputs
//   - render: re-render a saved plan at another size, strength or format
//   - nails: print the nail layout of a frame
//   - serve: run the HTTP API
//   - cache: inspect and clear the local cache
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stringart/pkg/errors"
)

// LogInfo is the level a CLI starts at; --verbose and --quiet change it.
const LogInfo = log.InfoLevel

// newLogger creates a logger writing to w with short wall-clock timestamps
// ("14:32:01.45"). Messages below level are dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// logFlags are the persistent flags controlling the logger.
type logFlags struct {
	verbose bool
	quiet   bool
	format  string
}

func (f *logFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "log warnings and errors only")
	fs.StringVar(&f.format, "log-format", "text", "log format: text, json, logfmt")
}

// apply configures l. --verbose wins over --quiet.
func (f *logFlags) apply(l *log.Logger) error {
	formatter, ok := logFormatters[f.format]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown log format %q (want text, json or logfmt)", f.format)
	}
	l.SetFormatter(formatter)

	switch {
	case f.verbose:
		l.SetLevel(log.DebugLevel)
	case f.quiet:
		l.SetLevel(log.WarnLevel)
	}
	return nil
}

// logDone logs the end of a step started at start. The elapsed time is
// appended to keyvals, rounded to the millisecond.
func logDone(l *log.Logger, msg string, start time.Time, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))
	l.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when commands run without the root command's setup (tests).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
