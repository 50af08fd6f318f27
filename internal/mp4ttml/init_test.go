package mp4ttml

import (
	"testing"

	gomp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/require"

	"github.com/bluenviron/mp4ttml/internal/boxtree"
	"github.com/bluenviron/mp4ttml/internal/mediaerr"
	"github.com/bluenviron/mp4ttml/internal/test"
)

var errInvalidMP4TTML = mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidMP4TTML)

var errBoxNotFound = mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia, mediaerr.CodeMP4BoxNotFound)

var errOutOfBounds = mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia,
	mediaerr.CodeBufferReadOutOfBounds)

func TestReadInit(t *testing.T) {
	for _, ca := range []struct {
		name string
		byts []byte
		conf *TrackConfig
	}{
		{
			"ttml",
			test.InitTTML(),
			&TrackConfig{
				TrackID:     1,
				TimeScale:   1000,
				Language:    "eng",
				HandlerType: "subt",
				HandlerName: "SubtitleHandler",
				SampleEntry: SampleEntryTTML,
				Namespace:   test.STPPNamespace,
			},
		},
		{
			"audio and ttml",
			test.Init(
				test.InitTrack{
					ID:          1,
					TimeScale:   48000,
					Language:    "und",
					SampleEntry: "mp4a",
				},
				test.InitTrack{
					ID:          2,
					TimeScale:   90000,
					Language:    "ita",
					SampleEntry: "stpp",
				},
			),
			&TrackConfig{
				TrackID:     2,
				TimeScale:   90000,
				Language:    "ita",
				HandlerType: "subt",
				HandlerName: "SubtitleHandler",
				SampleEntry: SampleEntryTTML,
				Namespace:   test.STPPNamespace,
			},
		},
		{
			"first ttml track wins",
			test.Init(
				test.InitTrack{
					ID:          3,
					TimeScale:   1000,
					Language:    "fra",
					SampleEntry: "stpp",
				},
				test.InitTrack{
					ID:          4,
					TimeScale:   1000,
					Language:    "deu",
					SampleEntry: "stpp",
				},
			),
			&TrackConfig{
				TrackID:     3,
				TimeScale:   1000,
				Language:    "fra",
				HandlerType: "subt",
				HandlerName: "SubtitleHandler",
				SampleEntry: SampleEntryTTML,
				Namespace:   test.STPPNamespace,
			},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			conf, err := ReadInit(ca.byts)
			require.NoError(t, err)
			require.Equal(t, ca.conf, conf)
		})
	}
}

func TestReadInitErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		byts []byte
		err  error
	}{
		{
			"audio only",
			test.InitAudio(),
			errInvalidMP4TTML,
		},
		{
			"video only",
			test.InitVideo(),
			errInvalidMP4TTML,
		},
		{
			"webvtt only",
			test.Init(test.InitTrack{
				ID:          1,
				TimeScale:   1000,
				SampleEntry: "wvtt",
			}),
			errInvalidMP4TTML,
		},
		{
			"empty",
			nil,
			errInvalidMP4TTML,
		},
		{
			"missing moov",
			mkbox("ftyp", []byte("iso6\x00\x00\x00\x01")),
			errInvalidMP4TTML,
		},
		{
			"missing mdia",
			mkbox("moov", mkbox("trak", mkbox("tkhd", make([]byte, 84)))),
			errBoxNotFound,
		},
		{
			"missing stsd",
			mkbox("moov", mkbox("trak", mkbox("mdia", mkbox("minf", mkbox("stbl"))))),
			errBoxNotFound,
		},
		{
			"truncated",
			test.InitTTML()[:100],
			errOutOfBounds,
		},
		{
			"unterminated namespace",
			mkbox("moov", mkbox("trak", mkbox("mdia", mkbox("minf", mkbox("stbl",
				mkbox("stsd", []byte{0, 0, 0, 0, 0, 0, 0, 1},
					mkbox("stpp", []byte{0, 0, 0, 0, 0, 0, 0, 1}, []byte("http://www.w3.org/ns/ttml"))),
			))))),
			errOutOfBounds,
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			_, err := ReadInit(ca.byts)
			require.ErrorIs(t, err, ca.err)
		})
	}
}

func TestReadInitMinimal(t *testing.T) {
	// stpp entry without strings, no tkhd, mdhd or hdlr.
	byts := mkbox("moov", mkbox("trak", mkbox("mdia", mkbox("minf", mkbox("stbl",
		mkbox("stsd", []byte{0, 0, 0, 0, 0, 0, 0, 1},
			mkbox("stpp", []byte{0, 0, 0, 0, 0, 0, 0, 1})),
	)))))

	conf, err := ReadInit(byts)
	require.NoError(t, err)
	require.Equal(t, &TrackConfig{SampleEntry: SampleEntryTTML}, conf)
}

func TestReadInitPackedLanguage(t *testing.T) {
	mdhd := []byte{
		0, 0, 0, 0, // version, flags
		0, 0, 0, 0, // creation time
		0, 0, 0, 0, // modification time
		0, 0, 0x03, 0xe8, // timescale
		0, 0, 0, 0, // duration
		0x15, 0xc7, // "eng"
		0, 0,
	}

	byts := mkbox("moov", mkbox("trak", mkbox("mdia",
		mkbox("mdhd", mdhd),
		mkbox("minf", mkbox("stbl",
			mkbox("stsd", []byte{0, 0, 0, 0, 0, 0, 0, 1},
				mkbox("stpp", []byte{0, 0, 0, 0, 0, 0, 0, 1})),
		)))))

	conf, err := ReadInit(byts)
	require.NoError(t, err)
	require.Equal(t, uint32(1000), conf.TimeScale)
	require.Equal(t, "eng", conf.Language)
}

func TestDecodeLanguage(t *testing.T) {
	require.Equal(t, "eng", decodeLanguage([3]byte{'e' - 0x60, 'n' - 0x60, 'g' - 0x60}))
	require.Equal(t, "und", decodeLanguage([3]byte{'u' - 0x60, 'n' - 0x60, 'd' - 0x60}))
	require.Equal(t, "", decodeLanguage([3]byte{}))
}

func TestClassifySampleEntry(t *testing.T) {
	for _, ca := range []struct {
		typ  gomp4.BoxType
		kind SampleEntryKind
	}{
		{boxtree.TypeStpp, SampleEntryTTML},
		{boxtree.TypeWvtt, SampleEntryWebVTT},
		{boxtree.TypeTx3g, SampleEntryTimedText},
		{boxtree.TypeSbtt, SampleEntryTextSubtitle},
		{gomp4.BoxTypeAvc1(), SampleEntryVideo},
		{boxtree.TypeHvc1, SampleEntryVideo},
		{boxtree.TypeEncv, SampleEntryVideo},
		{gomp4.BoxTypeMp4a(), SampleEntryAudio},
		{boxtree.TypeOpus, SampleEntryAudio},
		{gomp4.StrToBoxType("abcd"), SampleEntryUnknown},
	} {
		t.Run(ca.typ.String(), func(t *testing.T) {
			require.Equal(t, ca.kind, classifySampleEntry(ca.typ))
		})
	}
}
