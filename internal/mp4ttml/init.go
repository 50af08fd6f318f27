package mp4ttml

import (
	"bytes"

	gomp4 "github.com/abema/go-mp4"

	"github.com/bluenviron/mp4ttml/internal/boxtree"
	"github.com/bluenviron/mp4ttml/internal/mediaerr"
)

const sampleEntryHeaderSize = 8

// TrackConfig describes the TTML track of an initialization segment.
// It doesn't retain the initialization segment.
type TrackConfig struct {
	TrackID     uint32
	TimeScale   uint32
	Language    string
	HandlerType string
	HandlerName string
	SampleEntry SampleEntryKind

	// fields of the XML subtitle sample entry.
	Namespace          string
	SchemaLocation     string
	AuxiliaryMIMETypes string
}

func unmarshalBox(b boxtree.Box, dst gomp4.IBox) error {
	payload := b.Payload()

	_, err := gomp4.Unmarshal(bytes.NewReader(payload), uint64(len(payload)), dst, gomp4.Context{})
	if err != nil {
		return mediaerr.Wrap(err, mediaerr.SeverityCritical, mediaerr.CategoryMedia,
			mediaerr.CodeBufferReadOutOfBounds, boxtree.PathString(b.Path))
	}

	return nil
}

// optionalChild returns the first child of the given type, if present.
func optionalChild(b boxtree.Box, t gomp4.BoxType) (boxtree.Box, bool, error) {
	children, err := b.ChildrenOfType(t)
	if err != nil {
		return boxtree.Box{}, false, err
	}

	if len(children) == 0 {
		return boxtree.Box{}, false, nil
	}

	return children[0], true, nil
}

// ReadInit reads an initialization segment and returns the configuration
// of the first track that carries TTML samples.
// Tracks of other kinds are skipped.
func ReadInit(buf []byte) (*TrackConfig, error) {
	traks, err := boxtree.Path(buf, gomp4.BoxPath{gomp4.BoxTypeMoov(), gomp4.BoxTypeTrak()})
	if err != nil {
		return nil, err
	}

	for _, trak := range traks {
		conf, err := readTrack(trak)
		if err != nil {
			return nil, err
		}

		if conf != nil {
			return conf, nil
		}
	}

	return nil, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidMP4TTML,
		"no TTML sample entry found")
}

func readTrack(trak boxtree.Box) (*TrackConfig, error) {
	mdia, err := trak.Child(gomp4.BoxTypeMdia())
	if err != nil {
		return nil, err
	}

	minf, err := mdia.Child(gomp4.BoxTypeMinf())
	if err != nil {
		return nil, err
	}

	stbl, err := minf.Child(gomp4.BoxTypeStbl())
	if err != nil {
		return nil, err
	}

	stsd, err := stbl.Child(gomp4.BoxTypeStsd())
	if err != nil {
		return nil, err
	}

	var entry boxtree.Box
	found := false

	r := stsd.Children()
	for r.Next() {
		if classifySampleEntry(r.Box().Type) == SampleEntryTTML {
			entry = r.Box()
			found = true
			break
		}
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	if !found {
		return nil, nil
	}

	conf := &TrackConfig{
		SampleEntry: SampleEntryTTML,
	}

	strs, _, err := boxtree.CStrings(entry.Payload(), sampleEntryHeaderSize, 3)
	if err != nil {
		return nil, err
	}
	conf.Namespace = strs[0]
	conf.SchemaLocation = strs[1]
	conf.AuxiliaryMIMETypes = strs[2]

	if b, ok, err := optionalChild(trak, gomp4.BoxTypeTkhd()); err != nil {
		return nil, err
	} else if ok {
		var tkhd gomp4.Tkhd
		err = unmarshalBox(b, &tkhd)
		if err != nil {
			return nil, err
		}
		conf.TrackID = tkhd.TrackID
	}

	if b, ok, err := optionalChild(mdia, gomp4.BoxTypeMdhd()); err != nil {
		return nil, err
	} else if ok {
		var mdhd gomp4.Mdhd
		err = unmarshalBox(b, &mdhd)
		if err != nil {
			return nil, err
		}
		conf.TimeScale = mdhd.Timescale
		conf.Language = decodeLanguage(mdhd.Language)
	}

	if b, ok, err := optionalChild(mdia, gomp4.BoxTypeHdlr()); err != nil {
		return nil, err
	} else if ok {
		var hdlr gomp4.Hdlr
		err = unmarshalBox(b, &hdlr)
		if err != nil {
			return nil, err
		}
		conf.HandlerType = string(hdlr.HandlerType[:])
		conf.HandlerName = hdlr.Name
	}

	return conf, nil
}

// decodeLanguage converts the packed ISO-639-2/T code of mdhd,
// where each letter is stored as its offset from 0x60.
func decodeLanguage(packed [3]byte) string {
	if packed == [3]byte{} {
		return ""
	}

	var lang [3]byte
	for i, c := range packed {
		lang[i] = c + 0x60
	}
	return string(lang[:])
}
