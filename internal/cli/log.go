// Package cli implements the graphweave command-line interface.
//
// The commands cover the whole pipeline: fetching fragments from a graph
// service, merging them into a layout, rendering layouts and serving the
// same pipeline over HTTP. The CLI is built using cobra, reads its defaults
// from a TOML config file and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - fetch: Collect fragments from a graph service into a file
//   - layout: Compute a layout from a fragment or graph file
//   - visualize: Render a computed layout
//   - render: Run the whole pipeline from a file or URL
//   - serve: Start the HTTP API
//   - cache, config: Manage the cache and configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/graphweave/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat renders timestamps as "HH:MM:SS.cs", e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger creates a leveled logger writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Fetched 42 fragments (1.234s)".
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for retrieval by loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
