package mp4ttml

import (
	"encoding/binary"
)

func mkbox(typ string, payloads ...[]byte) []byte {
	size := 8
	for _, p := range payloads {
		size += len(p)
	}

	out := make([]byte, 8, size)
	binary.BigEndian.PutUint32(out, uint32(size))
	copy(out[4:], typ)

	for _, p := range payloads {
		out = append(out, p...)
	}

	return out
}
