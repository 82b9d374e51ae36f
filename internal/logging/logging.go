// Package logging builds the *logrus.Logger handle threaded explicitly
// through the CLI dispatcher and the subcommand handlers in main. The
// harvester and repository packages take no logger; failures there come
// back as returned errors that the handlers log. There is no
// package-level logger: every caller receives its handle from main and
// passes it along as a parameter.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options controls the handle New builds, mirroring the --logging,
// --logging-csv, and --explain global flags from §6.1.
type Options struct {
	// Enabled turns on structured text logging to stderr.
	Enabled bool
	// CSV switches the formatter to a CSV-shaped line format: one
	// record per event with timestamp, level, component, message.
	CSV bool
	// Explain raises the level to Debug for this invocation.
	Explain bool
	// Output overrides the writer; nil defaults to os.Stderr.
	Output io.Writer
}

// New builds a *logrus.Logger per opts. Callers thread the result
// explicitly; nothing here is stored in a package-level variable.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	switch {
	case !opts.Enabled:
		logger.SetOutput(io.Discard)
	case opts.CSV:
		logger.SetFormatter(&csvFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetLevel(logrus.InfoLevel)
	if opts.Explain {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// WithComponent returns a logrus.FieldLogger scoped to component so
// every record from one subsystem (harvester, cli, repository) carries
// it without the caller repeating WithField at every call site.
func WithComponent(logger *logrus.Logger, component string) logrus.FieldLogger {
	return logger.WithField("component", component)
}
