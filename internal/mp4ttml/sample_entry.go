package mp4ttml

import (
	gomp4 "github.com/abema/go-mp4"

	"github.com/bluenviron/mp4ttml/internal/boxtree"
)

// SampleEntryKind is the kind of a sample description entry.
type SampleEntryKind int

// sample entry kinds.
const (
	SampleEntryUnknown SampleEntryKind = iota
	SampleEntryTTML
	SampleEntryWebVTT
	SampleEntryTimedText
	SampleEntryTextSubtitle
	SampleEntryVideo
	SampleEntryAudio
)

// String implements fmt.Stringer.
func (k SampleEntryKind) String() string {
	switch k {
	case SampleEntryTTML:
		return "TTML"
	case SampleEntryWebVTT:
		return "WebVTT"
	case SampleEntryTimedText:
		return "3GPP timed text"
	case SampleEntryTextSubtitle:
		return "text subtitle"
	case SampleEntryVideo:
		return "video"
	case SampleEntryAudio:
		return "audio"
	}
	return "unknown"
}

func classifySampleEntry(t gomp4.BoxType) SampleEntryKind {
	switch t {
	case boxtree.TypeStpp:
		return SampleEntryTTML

	case boxtree.TypeWvtt:
		return SampleEntryWebVTT

	case boxtree.TypeTx3g:
		return SampleEntryTimedText

	case boxtree.TypeSbtt:
		return SampleEntryTextSubtitle

	case gomp4.BoxTypeAvc1(), boxtree.TypeAvc3, boxtree.TypeHev1, boxtree.TypeHvc1,
		boxtree.TypeAv01, boxtree.TypeVp09, boxtree.TypeEncv:
		return SampleEntryVideo

	case gomp4.BoxTypeMp4a(), boxtree.TypeOpus, boxtree.TypeAc3, boxtree.TypeEc3, boxtree.TypeEnca:
		return SampleEntryAudio
	}

	return SampleEntryUnknown
}
