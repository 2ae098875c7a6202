package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Options selects the logger output.
type Options struct {
	Level  string // logrus level name; empty means info
	Format string // "text" or "json"
	Out    io.Writer
}

// New builds a logger. Text output is coloured when writing to a terminal.
func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()
	if opts.Out != nil {
		log.Out = opts.Out
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	log.Level = level

	switch opts.Format {
	case "json":
		log.Formatter = &logrus.JSONFormatter{}
	case "", "text":
		log.Formatter = &logrus.TextFormatter{
			ForceColors:   isTerminal(log.Out),
			FullTimestamp: true,
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return log, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
