package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Options controls how Init builds the logger.
type Options struct {
	Development bool
	Environment string
	SentryDSN   string
	Release     string
}

// Init installs the global logger.
// Development: text on stdout at debug level.
// Otherwise: JSON on stdout at info level.
// With a Sentry DSN, error records are also forwarded to Sentry.
func Init(opts Options) {
	handlers := []slog.Handler{stdoutHandler(os.Stdout, opts.Development)}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			Release:          opts.Release,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler).With("app", "recipebox")
	slog.SetDefault(Log)
}

func stdoutHandler(w io.Writer, development bool) slog.Handler {
	if development {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Flush waits for buffered Sentry events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
