package cueout

import (
	"fmt"
)

// Format is an output format.
type Format int

// output formats.
const (
	FormatVTT Format = iota
	FormatSRT
	FormatJSON
)

// ParseFormat parses the name of a format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "vtt":
		return FormatVTT, nil

	case "srt":
		return FormatSRT, nil

	case "json":
		return FormatJSON, nil
	}

	return 0, fmt.Errorf("invalid output format: '%s'", s)
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatSRT:
		return "srt"

	case FormatJSON:
		return "json"
	}
	return "vtt"
}
