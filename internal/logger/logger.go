// Package logger contains a logger implementation.
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Logger is a log handler.
type Logger struct {
	Level        Level
	Destinations []Destination
	Structured   bool
	File         string

	timeNow func() time.Time
	stdout  io.Writer

	destinations []destination
	mutex        sync.Mutex
}

// Initialize initializes Logger.
func (l *Logger) Initialize() error {
	if l.Level == 0 {
		l.Level = Info
	}
	if l.timeNow == nil {
		l.timeNow = time.Now
	}

	for _, dest := range l.Destinations {
		switch dest {
		case DestinationStdout:
			l.destinations = append(l.destinations, newDestinationStdout(l.stdout, os.Stdout, l.Structured))

		case DestinationStderr:
			l.destinations = append(l.destinations, newDestinationStdout(l.stdout, os.Stderr, l.Structured))

		case DestinationFile:
			de, err := newDestinationFile(l.File, l.Structured)
			if err != nil {
				l.Close()
				return err
			}
			l.destinations = append(l.destinations, de)

		default:
			l.Close()
			return fmt.Errorf("unsupported log destination: %v", dest)
		}
	}

	return nil
}

// Close closes a log handler.
func (l *Logger) Close() {
	for _, dest := range l.destinations {
		dest.close()
	}
	l.destinations = nil
}

func writeTime(buf *bytes.Buffer, t time.Time, useColor bool) {
	intbuf := t.Format("2006/01/02 15:04:05 ")

	if useColor {
		buf.WriteString(color.RenderString(color.Gray.Code(), intbuf))
	} else {
		buf.WriteString(intbuf)
	}
}

func writeLevel(buf *bytes.Buffer, level Level, useColor bool) {
	switch level {
	case Debug:
		if useColor {
			buf.WriteString(color.RenderString(color.Debug.Code(), "DEB"))
		} else {
			buf.WriteString("DEB")
		}

	case Info:
		if useColor {
			buf.WriteString(color.RenderString(color.Green.Code(), "INF"))
		} else {
			buf.WriteString("INF")
		}

	case Warn:
		if useColor {
			buf.WriteString(color.RenderString(color.Warn.Code(), "WAR"))
		} else {
			buf.WriteString("WAR")
		}

	case Error:
		if useColor {
			buf.WriteString(color.RenderString(color.Error.Code(), "ERR"))
		} else {
			buf.WriteString("ERR")
		}
	}
	buf.WriteByte(' ')
}

func writePlain(buf *bytes.Buffer, t time.Time, level Level, useColor bool, format string, args []any) {
	writeTime(buf, t, useColor)
	writeLevel(buf, level, useColor)
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')
}

func writeStructured(buf *bytes.Buffer, t time.Time, level Level, format string, args []any) {
	buf.WriteString(`{"timestamp":`)
	ts, _ := json.Marshal(t.Format(time.RFC3339Nano))
	buf.Write(ts)

	buf.WriteString(`,"level":"`)
	buf.WriteString(level.String())

	buf.WriteString(`","message":`)
	msg, _ := json.Marshal(fmt.Sprintf(format, args...))
	buf.Write(msg)

	buf.WriteString("}\n")
}

// Log writes a log entry.
func (l *Logger) Log(level Level, format string, args ...any) {
	if level < l.Level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	t := l.timeNow()

	for _, dest := range l.destinations {
		dest.log(t, level, format, args...)
	}
}
