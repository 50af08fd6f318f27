// Package cueout contains writers of cues.
package cueout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bluenviron/mp4ttml/internal/ttml"
)

func writeTimestamp(buf *bytes.Buffer, d time.Duration, msSeparator byte) {
	if d < 0 {
		d = 0
	}

	ms := d.Milliseconds()
	fmt.Fprintf(buf, "%02d:%02d:%02d%c%03d", ms/3600000, (ms/60000)%60, (ms/1000)%60, msSeparator, ms%1000)
}

func vttSettings(c *ttml.Cue) string {
	var settings []string

	switch c.TextAlign {
	case "left", "right", "center", "start", "end":
		settings = append(settings, "align:"+c.TextAlign)
	}

	switch c.WritingMode {
	case "tbrl", "tb", "tb-rl":
		settings = append(settings, "vertical:rl")

	case "tblr", "tb-lr":
		settings = append(settings, "vertical:lr")
	}

	return strings.Join(settings, " ")
}

type jsonCue struct {
	ID     string  `json:"id,omitempty"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
	Region string  `json:"region,omitempty"`
	Align  string  `json:"align,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Writer writes cues in a given format.
// Cues can be written in multiple batches; header and numbering are handled across batches.
type Writer struct {
	W      io.Writer
	Format Format

	count         int
	headerWritten bool
}

// WriteCues writes cues.
func (w *Writer) WriteCues(cues []*ttml.Cue) error {
	var buf bytes.Buffer

	if w.Format == FormatVTT && !w.headerWritten {
		buf.WriteString("WEBVTT\n\n")
		w.headerWritten = true
	}

	for _, c := range cues {
		w.count++

		switch w.Format {
		case FormatVTT:
			if c.ID != "" {
				buf.WriteString(c.ID + "\n")
			}
			writeTimestamp(&buf, c.StartTime, '.')
			buf.WriteString(" --> ")
			writeTimestamp(&buf, c.EndTime, '.')
			if s := vttSettings(c); s != "" {
				buf.WriteString(" " + s)
			}
			buf.WriteString("\n" + blockText(c.Payload) + "\n\n")

		case FormatSRT:
			fmt.Fprintf(&buf, "%d\n", w.count)
			writeTimestamp(&buf, c.StartTime, ',')
			buf.WriteString(" --> ")
			writeTimestamp(&buf, c.EndTime, ',')
			buf.WriteString("\n" + blockText(c.Payload) + "\n\n")

		case FormatJSON:
			jc := jsonCue{
				ID:    c.ID,
				Start: c.StartTime.Seconds(),
				End:   c.EndTime.Seconds(),
				Text:  c.Payload,
				Align: c.TextAlign,
				Color: c.Color,
			}
			if c.Region != nil {
				jc.Region = c.Region.ID
			}

			enc, err := json.Marshal(jc)
			if err != nil {
				return err
			}
			buf.Write(enc)
			buf.WriteByte('\n')

		default:
			return fmt.Errorf("unsupported output format: %v", w.Format)
		}
	}

	_, err := w.W.Write(buf.Bytes())
	return err
}

// blockText removes blank lines, since a blank line terminates a cue block.
func blockText(payload string) string {
	lines := strings.Split(payload, "\n")
	n := 0
	for _, l := range lines {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines[n] = l
		n++
	}
	return strings.Join(lines[:n], "\n")
}

// Count returns the number of written cues.
func (w *Writer) Count() int {
	return w.count
}
