// Package ttml contains a parser of TTML documents.
package ttml

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/bluenviron/mp4ttml/internal/mediaerr"
)

var styleAttributes = map[string]struct{}{
	"textAlign":       {},
	"displayAlign":    {},
	"color":           {},
	"backgroundColor": {},
	"fontFamily":      {},
	"fontSize":        {},
	"fontStyle":       {},
	"fontWeight":      {},
	"textDecoration":  {},
	"direction":       {},
	"writingMode":     {},
}

func invalidCue(format string, args ...any) error {
	return mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidTextCue,
		fmt.Sprintf(format, args...))
}

// Parser is a TTML parser.
// Times of returned cues are relative to the start of the document.
type Parser struct{}

// Parse parses a TTML document.
func (Parser) Parse(buf []byte) ([]*Cue, error) {
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, nil
	}

	tt, err := decodeDocument(buf)
	if err != nil {
		return nil, mediaerr.Wrap(err, mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidXML)
	}

	if tt.name != "tt" {
		return nil, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidXML,
			fmt.Sprintf("unexpected root element '%s'", tt.name))
	}

	rate, err := parseRateInfo(tt)
	if err != nil {
		return nil, mediaerr.Wrap(err, mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidTextHeader)
	}

	d := &document{
		rate:    rate,
		styles:  make(map[string]*element),
		regions: make(map[string]*element),
	}
	d.readHead(tt.child("head"))

	body := tt.child("body")
	if body == nil {
		return nil, nil
	}

	err = d.readElement(body, interval{}, false)
	if err != nil {
		return nil, err
	}

	return d.cues, nil
}

type interval struct {
	start  time.Duration
	end    time.Duration
	hasEnd bool
	timed  bool
}

type document struct {
	rate    rateInfo
	styles  map[string]*element
	regions map[string]*element
	cues    []*Cue
}

func (d *document) readHead(head *element) {
	if head == nil {
		return
	}

	if styling := head.child("styling"); styling != nil {
		for _, s := range styling.childrenNamed("style") {
			if id, ok := s.attr("id"); ok {
				d.styles[id] = s
			}
		}
	}

	if layout := head.child("layout"); layout != nil {
		for _, r := range layout.childrenNamed("region") {
			if id, ok := r.attr("id"); ok {
				d.regions[id] = r
			}
		}
	}
}

func (d *document) timing(e *element, parent interval) (interval, error) {
	out := interval{
		start:  parent.start,
		end:    parent.end,
		hasEnd: parent.hasEnd,
		timed:  parent.timed,
	}

	if v, ok := e.attr("begin"); ok {
		begin, err := parseTime(v, d.rate)
		if err != nil {
			return interval{}, invalidCue("%v", err)
		}
		out.start, err = addDuration(parent.start, begin)
		if err != nil {
			return interval{}, invalidCue("begin '%s': %v", v, err)
		}
		out.timed = true
	}

	explicitEnd := false

	if v, ok := e.attr("end"); ok {
		end, err := parseTime(v, d.rate)
		if err != nil {
			return interval{}, invalidCue("%v", err)
		}
		out.end, err = addDuration(parent.start, end)
		if err != nil {
			return interval{}, invalidCue("end '%s': %v", v, err)
		}
		out.hasEnd = true
		out.timed = true
		explicitEnd = true
	}

	if v, ok := e.attr("dur"); ok {
		dur, err := parseTime(v, d.rate)
		if err != nil {
			return interval{}, invalidCue("%v", err)
		}
		durEnd, err := addDuration(out.start, dur)
		if err != nil {
			return interval{}, invalidCue("dur '%s': %v", v, err)
		}
		if !explicitEnd || durEnd < out.end {
			out.end = durEnd
		}
		out.hasEnd = true
		out.timed = true
	}

	if parent.hasEnd && out.end > parent.end {
		out.end = parent.end
	}

	return out, nil
}

func (d *document) readElement(e *element, parent interval, preserve bool) error {
	iv, err := d.timing(e, parent)
	if err != nil {
		return err
	}

	if v, ok := e.attr("space"); ok {
		preserve = (v == "preserve")
	}

	for _, c := range e.children {
		if c.el == nil {
			continue
		}

		switch c.el.name {
		case "div":
			err = d.readElement(c.el, iv, preserve)
			if err != nil {
				return err
			}

		case "p":
			err = d.readParagraph(c.el, iv, preserve)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (d *document) readParagraph(p *element, parent interval, preserve bool) error {
	iv, err := d.timing(p, parent)
	if err != nil {
		return err
	}

	if v, ok := p.attr("space"); ok {
		preserve = (v == "preserve")
	}

	payload := paragraphText(p, preserve)

	if !iv.timed && strings.TrimSpace(payload) == "" {
		return nil
	}

	if !iv.hasEnd {
		return invalidCue("paragraph has no end time")
	}

	if iv.end < iv.start {
		// starts after the end of its parent, never active
		if parent.hasEnd && iv.start >= parent.end {
			return nil
		}
		return invalidCue("end time %v is before start time %v", iv.end, iv.start)
	}

	c := &Cue{
		StartTime: iv.start,
		EndTime:   iv.end,
		Payload:   payload,
	}
	c.ID, _ = p.attr("id")

	if regionID, ok := inheritedAttr(p, "region"); ok {
		if r, ok := d.regions[regionID]; ok {
			c.Region = d.region(regionID, r)
			c.applyStyle(d.resolveStyle(r))
		}
	}

	// styles of ancestors first, then of the paragraph itself
	var chain []*element
	for e := p; e != nil; e = e.parent {
		chain = append([]*element{e}, chain...)
	}
	for _, e := range chain {
		c.applyStyle(d.resolveStyle(e))
	}

	d.cues = append(d.cues, c)
	return nil
}

func inheritedAttr(e *element, local string) (string, bool) {
	for ; e != nil; e = e.parent {
		if v, ok := e.attr(local); ok {
			return v, true
		}
	}
	return "", false
}

func (d *document) region(id string, r *element) *Region {
	s := d.resolveStyle(r)

	return &Region{
		ID:           id,
		Origin:       attrOr(r, "origin", ""),
		Extent:       attrOr(r, "extent", ""),
		DisplayAlign: s["displayAlign"],
		WritingMode:  s["writingMode"],
	}
}

func attrOr(e *element, local string, def string) string {
	if v, ok := e.attr(local); ok {
		return v
	}
	return def
}

// resolveStyle returns the style attributes that apply to an element:
// the ones of the referenced styles, overridden by inline ones.
func (d *document) resolveStyle(e *element) map[string]string {
	out := make(map[string]string)
	d.mergeStyle(out, e, make(map[*element]struct{}))
	return out
}

func (d *document) mergeStyle(out map[string]string, e *element, visited map[*element]struct{}) {
	if _, ok := visited[e]; ok {
		return
	}
	visited[e] = struct{}{}

	if refs, ok := e.attr("style"); ok {
		for _, id := range strings.Fields(refs) {
			if s, ok := d.styles[id]; ok {
				d.mergeStyle(out, s, visited)
			}
		}
	}

	for _, a := range e.attrs {
		if _, ok := styleAttributes[a.Name.Local]; ok {
			out[a.Name.Local] = a.Value
		}
	}
}

var collapser = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

func paragraphText(p *element, preserve bool) string {
	var b strings.Builder
	writeText(&b, p, preserve)

	if preserve {
		return b.String()
	}

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func writeText(b *strings.Builder, e *element, preserve bool) {
	for _, c := range e.children {
		if c.el == nil {
			if preserve {
				b.WriteString(c.text)
			} else {
				b.WriteString(collapser.Replace(c.text))
			}
			continue
		}

		switch c.el.name {
		case "br":
			b.WriteByte('\n')

		case "span":
			spanPreserve := preserve
			if v, ok := c.el.attr("space"); ok {
				spanPreserve = (v == "preserve")
			}
			writeText(b, c.el, spanPreserve)
		}
	}
}
