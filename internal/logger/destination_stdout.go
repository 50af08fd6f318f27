package logger

import (
	"bytes"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

type destinationStdout struct {
	out        io.Writer
	useColor   bool
	structured bool
	buf        bytes.Buffer
}

func newDestinationStdout(out io.Writer, fallback *os.File, structured bool) destination {
	useColor := false
	if out == nil {
		out = fallback
		useColor = !structured && term.IsTerminal(int(fallback.Fd()))
	}

	return &destinationStdout{
		out:        out,
		useColor:   useColor,
		structured: structured,
	}
}

func (d *destinationStdout) log(t time.Time, level Level, format string, args ...any) {
	d.buf.Reset()
	if d.structured {
		writeStructured(&d.buf, t, level, format, args)
	} else {
		writePlain(&d.buf, t, level, d.useColor, format, args)
	}
	d.out.Write(d.buf.Bytes()) //nolint:errcheck
}

func (d *destinationStdout) close() {
}
