package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// writerLogger formats log lines onto an io.Writer
type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format, args...)
}

// NewWriterLogger returns a logger that prints to w
func NewWriterLogger(w io.Writer) core.Logger {
	return writerLogger{w: w}
}

// NewDefaultLogger returns a logger that prints to stdout
func NewDefaultLogger() core.Logger {
	return writerLogger{w: os.Stdout}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() core.Logger {
	return nopLogger{}
}
