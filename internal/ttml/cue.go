package ttml

import (
	"time"
)

// Region is a rendering area of a document.
type Region struct {
	ID           string
	Origin       string
	Extent       string
	DisplayAlign string
	WritingMode  string
}

// Cue is a timed text unit.
type Cue struct {
	StartTime time.Duration
	EndTime   time.Duration
	Payload   string

	ID     string
	Region *Region

	TextAlign       string
	DisplayAlign    string
	Color           string
	BackgroundColor string
	FontFamily      string
	FontSize        string
	FontStyle       string
	FontWeight      string
	TextDecoration  string
	Direction       string
	WritingMode     string
}

func (c *Cue) applyStyle(s map[string]string) {
	for k, v := range s {
		switch k {
		case "textAlign":
			c.TextAlign = v
		case "displayAlign":
			c.DisplayAlign = v
		case "color":
			c.Color = v
		case "backgroundColor":
			c.BackgroundColor = v
		case "fontFamily":
			c.FontFamily = v
		case "fontSize":
			c.FontSize = v
		case "fontStyle":
			c.FontStyle = v
		case "fontWeight":
			c.FontWeight = v
		case "textDecoration":
			c.TextDecoration = v
		case "direction":
			c.Direction = v
		case "writingMode":
			c.WritingMode = v
		}
	}
}
