package boxtree

import (
	"encoding/binary"

	gomp4 "github.com/abema/go-mp4"
)

// Reader reads sibling boxes lazily.
//
//	r := boxtree.NewReader(buf)
//	for r.Next() {
//		b := r.Box()
//	}
//	if r.Err() != nil {
//		...
//	}
type Reader struct {
	buf  []byte
	pos  int
	end  int
	path gomp4.BoxPath

	cur Box
	err error
}

// NewReader allocates a Reader of the top-level boxes of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{
		buf: buf,
		end: len(buf),
	}
}

// Next advances to the next box.
// It returns false when there are no more boxes or when an error occurred.
func (r *Reader) Next() bool {
	if r.err != nil || r.pos >= r.end {
		return false
	}

	b, err := r.readHeader()
	if err != nil {
		r.err = err
		return false
	}

	r.cur = b
	r.pos += b.Size
	return true
}

// Box returns the current box.
func (r *Reader) Box() Box {
	return r.cur
}

// Err returns the error that stopped the reader, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readHeader() (Box, error) {
	avail := r.end - r.pos

	if avail < 8 {
		return Box{}, outOfBounds(r.path, r.pos, "truncated box header")
	}

	b := Box{
		Offset:     r.pos,
		HeaderSize: 8,
		buf:        r.buf,
	}

	size := uint64(binary.BigEndian.Uint32(r.buf[r.pos:]))
	copy(b.Type[:], r.buf[r.pos+4:r.pos+8])

	switch size {
	case 0:
		// box extends to the end of the parent
		size = uint64(avail)

	case 1:
		if avail < 16 {
			return Box{}, outOfBounds(r.path, r.pos, "truncated extended size")
		}
		size = binary.BigEndian.Uint64(r.buf[r.pos+8:])
		b.HeaderSize = 16
	}

	if b.Type == TypeUUID {
		if avail < b.HeaderSize+16 {
			return Box{}, outOfBounds(r.path, r.pos, "truncated user type")
		}
		copy(b.UserType[:], r.buf[r.pos+b.HeaderSize:])
		b.HeaderSize += 16
	}

	if size < uint64(b.HeaderSize) {
		return Box{}, outOfBounds(r.path, r.pos, "declared size is smaller than header")
	}

	if size > uint64(avail) {
		return Box{}, outOfBounds(r.path, r.pos, "declared size exceeds available bytes")
	}

	b.Size = int(size)
	b.Path = make(gomp4.BoxPath, len(r.path)+1)
	copy(b.Path, r.path)
	b.Path[len(r.path)] = b.Type

	return b, nil
}
