package test

import (
	gomp4 "github.com/abema/go-mp4"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4/seekablebuffer"
	"github.com/bluenviron/mediacommon/v2/pkg/formats/mp4"
)

// SPS of a 1920x1080 baseline H264 stream.
var SPS = []byte{
	0x67, 0x42, 0xc0, 0x28, 0xd9, 0x00, 0x78, 0x02,
	0x27, 0xe5, 0x84, 0x00, 0x00, 0x03, 0x00, 0x04,
	0x00, 0x00, 0x03, 0x00, 0xf0, 0x3c, 0x60, 0xc9, 0x20,
}

// PPS of a H264 stream.
var PPS = []byte{0x08, 0x06, 0x07, 0x08}

// STPPNamespace is the namespace written into generated stpp sample entries.
const STPPNamespace = TTMLNamespace + " http://www.w3.org/ns/ttml#styling"

type mp4Writer struct {
	buf seekablebuffer.Buffer
	w   *gomp4.Writer
}

func newMP4Writer() *mp4Writer {
	w := &mp4Writer{}
	w.w = gomp4.NewWriter(&w.buf)
	return w
}

func (w *mp4Writer) writeBoxStart(box gomp4.IImmutableBox) {
	_, err := w.w.StartBox(&gomp4.BoxInfo{Type: box.GetType()})
	if err != nil {
		panic(err)
	}

	_, err = gomp4.Marshal(w.w, box, gomp4.Context{})
	if err != nil {
		panic(err)
	}
}

func (w *mp4Writer) writeBoxEnd() {
	_, err := w.w.EndBox()
	if err != nil {
		panic(err)
	}
}

func (w *mp4Writer) writeBox(box gomp4.IImmutableBox) {
	w.writeBoxStart(box)
	w.writeBoxEnd()
}

func (w *mp4Writer) writeRawBoxStart(typ string, payload []byte) {
	_, err := w.w.StartBox(&gomp4.BoxInfo{Type: gomp4.StrToBoxType(typ)})
	if err != nil {
		panic(err)
	}

	_, err = w.w.Write(payload)
	if err != nil {
		panic(err)
	}
}

func (w *mp4Writer) writeRawBox(typ string, payload []byte) {
	w.writeRawBoxStart(typ, payload)
	w.writeBoxEnd()
}

func (w *mp4Writer) bytes() []byte {
	return w.buf.Bytes()
}

// packLanguage encodes a language code the way muxers write it into mdhd.
func packLanguage(lang string) [3]byte {
	var packed [3]byte
	if len(lang) != 3 {
		return packed
	}
	for i := range packed {
		packed[i] = lang[i] - 0x60
	}
	return packed
}

// InitTrack is a track of a generated initialization segment.
type InitTrack struct {
	ID        uint32
	TimeScale uint32
	Language  string // ISO-639-2/T code

	// four-character code of the sample entry.
	// "stpp" entries are written with STPPNamespace,
	// other entries with empty fixed fields.
	SampleEntry string
}

func sampleEntryHandler(entry string) ([4]byte, string) {
	switch entry {
	case "stpp", "wvtt", "tx3g", "sbtt":
		return [4]byte{'s', 'u', 'b', 't'}, "SubtitleHandler"

	case "mp4a", "Opus", "ac-3", "ec-3":
		return [4]byte{'s', 'o', 'u', 'n'}, "SoundHandler"

	default:
		return [4]byte{'v', 'i', 'd', 'e'}, "VideoHandler"
	}
}

func sampleEntryFixedFields(entry string) []byte {
	header := []byte{0, 0, 0, 0, 0, 0, 0, 1} // reserved, data reference index

	switch entry {
	case "stpp":
		return append(header, []byte(STPPNamespace+"\x00\x00\x00")...)

	case "mp4a", "Opus", "ac-3", "ec-3":
		return append(header, make([]byte, 20)...)

	case "wvtt", "tx3g", "sbtt":
		return header

	default:
		return append(header, make([]byte, 70)...)
	}
}

func (t InitTrack) marshal(w *mp4Writer) {
	handlerType, handlerName := sampleEntryHandler(t.SampleEntry)

	w.writeBoxStart(&gomp4.Trak{}) // <trak>

	w.writeBox(&gomp4.Tkhd{ // <tkhd/>
		FullBox: gomp4.FullBox{
			Flags: [3]byte{0, 0, 3},
		},
		TrackID: t.ID,
	})

	w.writeBoxStart(&gomp4.Mdia{}) // <mdia>

	w.writeBox(&gomp4.Mdhd{ // <mdhd/>
		Timescale: t.TimeScale,
		Language:  packLanguage(t.Language),
	})

	w.writeBox(&gomp4.Hdlr{ // <hdlr/>
		HandlerType: handlerType,
		Name:        handlerName,
	})

	w.writeBoxStart(&gomp4.Minf{}) // <minf>

	w.writeRawBox("nmhd", []byte{0, 0, 0, 0}) // <nmhd/>

	w.writeBoxStart(&gomp4.Dinf{}) // <dinf>
	w.writeBoxStart(&gomp4.Dref{   // <dref>
		EntryCount: 1,
	})
	w.writeBox(&gomp4.Url{ // <url/>
		FullBox: gomp4.FullBox{
			Flags: [3]byte{0, 0, 1},
		},
	})
	w.writeBoxEnd() // </dref>
	w.writeBoxEnd() // </dinf>

	w.writeBoxStart(&gomp4.Stbl{}) // <stbl>

	w.writeBoxStart(&gomp4.Stsd{ // <stsd>
		EntryCount: 1,
	})
	w.writeRawBox(t.SampleEntry, sampleEntryFixedFields(t.SampleEntry))
	w.writeBoxEnd() // </stsd>

	w.writeBox(&gomp4.Stts{}) // <stts/>
	w.writeBox(&gomp4.Stsc{}) // <stsc/>
	w.writeBox(&gomp4.Stsz{}) // <stsz/>
	w.writeBox(&gomp4.Stco{}) // <stco/>

	w.writeBoxEnd() // </stbl>
	w.writeBoxEnd() // </minf>
	w.writeBoxEnd() // </mdia>
	w.writeBoxEnd() // </trak>
}

// Init generates an initialization segment with the given tracks.
func Init(tracks ...InitTrack) []byte {
	w := newMP4Writer()

	w.writeBox(&gomp4.Ftyp{ // <ftyp/>
		MajorBrand:   [4]byte{'i', 's', 'o', '6'},
		MinorVersion: 1,
		CompatibleBrands: []gomp4.CompatibleBrandElem{
			{CompatibleBrand: [4]byte{'i', 's', 'o', '6'}},
			{CompatibleBrand: [4]byte{'d', 'a', 's', 'h'}},
		},
	})

	w.writeBoxStart(&gomp4.Moov{}) // <moov>

	w.writeBox(&gomp4.Mvhd{ // <mvhd/>
		Timescale:   1000,
		Rate:        65536,
		Volume:      256,
		Matrix:      [9]int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000},
		NextTrackID: 4294967295,
	})

	for _, t := range tracks {
		t.marshal(w)
	}

	w.writeBoxStart(&gomp4.Mvex{}) // <mvex>
	for _, t := range tracks {
		w.writeBox(&gomp4.Trex{ // <trex/>
			TrackID:                       t.ID,
			DefaultSampleDescriptionIndex: 1,
		})
	}
	w.writeBoxEnd() // </mvex>

	w.writeBoxEnd() // </moov>

	return w.bytes()
}

// InitTTML generates an initialization segment with a single TTML track.
func InitTTML() []byte {
	return Init(InitTrack{
		ID:          1,
		TimeScale:   1000,
		Language:    "eng",
		SampleEntry: "stpp",
	})
}

// InitAudio generates an initialization segment with a single AAC track.
func InitAudio() []byte {
	init := fmp4.Init{
		Tracks: []*fmp4.InitTrack{{
			ID:        1,
			TimeScale: 48000,
			Codec: &mp4.CodecMPEG4Audio{
				Config: mpeg4audio.AudioSpecificConfig{
					Type:         mpeg4audio.ObjectTypeAACLC,
					SampleRate:   48000,
					ChannelCount: 2,
				},
			},
		}},
	}

	var buf seekablebuffer.Buffer
	err := init.Marshal(&buf)
	if err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// InitVideo generates an initialization segment with a single H264 track.
func InitVideo() []byte {
	init := fmp4.Init{
		Tracks: []*fmp4.InitTrack{{
			ID:        1,
			TimeScale: 90000,
			Codec: &mp4.CodecH264{
				SPS: SPS,
				PPS: PPS,
			},
		}},
	}

	var buf seekablebuffer.Buffer
	err := init.Marshal(&buf)
	if err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// Fragment is a fragment of a generated media segment.
type Fragment struct {
	TrackID  uint32
	BaseTime uint64

	// payloads of the mdat boxes that follow the moof box.
	Payloads [][]byte
}

// MediaSegment generates a media segment with the given fragments.
func MediaSegment(fragments ...Fragment) []byte {
	w := newMP4Writer()

	w.writeRawBox("styp", []byte{ // <styp/>
		'm', 's', 'd', 'h', 0, 0, 0, 0,
		'm', 's', 'd', 'h', 'm', 's', 'i', 'x',
	})

	for i, f := range fragments {
		w.writeBoxStart(&gomp4.Moof{}) // <moof>

		w.writeBox(&gomp4.Mfhd{ // <mfhd/>
			SequenceNumber: uint32(i + 1),
		})

		w.writeBoxStart(&gomp4.Traf{}) // <traf>

		w.writeBox(&gomp4.Tfhd{ // <tfhd/>
			FullBox: gomp4.FullBox{
				Flags: [3]byte{2, 0, 0},
			},
			TrackID: f.TrackID,
		})

		w.writeBox(&gomp4.Tfdt{ // <tfdt/>
			FullBox: gomp4.FullBox{
				Version: 1,
			},
			BaseMediaDecodeTimeV1: f.BaseTime,
		})

		w.writeBoxEnd() // </traf>
		w.writeBoxEnd() // </moof>

		for _, p := range f.Payloads {
			w.writeRawBox("mdat", p)
		}
	}

	return w.bytes()
}

// TTMLSegment generates a media segment made of a single fragment,
// with one mdat box for each document.
func TTMLSegment(docs ...[]byte) []byte {
	return MediaSegment(Fragment{
		TrackID:  1,
		Payloads: docs,
	})
}
