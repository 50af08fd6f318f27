package mp4ttml

import (
	gomp4 "github.com/abema/go-mp4"

	"github.com/bluenviron/mp4ttml/internal/boxtree"
)

// ExtractPayloads returns the payloads of all top-level mdat boxes of a media segment,
// in the order in which they appear.
// Payloads point to buf and must not be used after buf is released.
func ExtractPayloads(buf []byte) ([][]byte, error) {
	mdats, err := boxtree.FindAll(buf, gomp4.BoxTypeMdat())
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(mdats))
	for i, mdat := range mdats {
		out[i] = mdat.Payload()
	}

	return out, nil
}

// FragmentTime is the base media decode time of a track fragment.
type FragmentTime struct {
	TrackID  uint32
	BaseTime uint64
}

// ReadFragmentTimes returns the base media decode times of all track fragments of a media segment.
// Fragments without tfdt are skipped.
func ReadFragmentTimes(buf []byte) ([]FragmentTime, error) {
	trafs, err := boxtree.Path(buf, gomp4.BoxPath{gomp4.BoxTypeMoof(), gomp4.BoxTypeTraf()})
	if err != nil {
		return nil, err
	}

	var out []FragmentTime

	for _, traf := range trafs {
		b, err := traf.Child(gomp4.BoxTypeTfhd())
		if err != nil {
			return nil, err
		}

		var tfhd gomp4.Tfhd
		err = unmarshalBox(b, &tfhd)
		if err != nil {
			return nil, err
		}

		b, ok, err := optionalChild(traf, gomp4.BoxTypeTfdt())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var tfdt gomp4.Tfdt
		err = unmarshalBox(b, &tfdt)
		if err != nil {
			return nil, err
		}

		out = append(out, FragmentTime{
			TrackID:  tfhd.TrackID,
			BaseTime: tfdt.GetBaseMediaDecodeTime(),
		})
	}

	return out, nil
}
