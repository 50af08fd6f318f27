// Package boxtree contains a bound-checked, non-copying reader of ISO-BMFF box trees.
package boxtree

import (
	"bytes"
	"fmt"
	"strings"

	gomp4 "github.com/abema/go-mp4"

	"github.com/bluenviron/mp4ttml/internal/mediaerr"
)

// Box is a view over a box of a buffer.
// It doesn't copy any byte of the buffer.
type Box struct {
	Type gomp4.BoxType

	// extended type of uuid boxes.
	UserType [16]byte

	// offset of the box header, relative to the start of the root buffer.
	Offset int

	// size of the header, including extended size and type.
	HeaderSize int

	// size of the box, including the header.
	Size int

	// types of the ancestors of the box, followed by the type of the box itself.
	Path gomp4.BoxPath

	buf []byte
}

// Payload returns the payload of the box.
// The returned slice points to the original buffer and can't be used to grow it.
func (b Box) Payload() []byte {
	start := b.Offset + b.HeaderSize
	end := b.Offset + b.Size
	return b.buf[start:end:end]
}

// Bytes returns the entire box, header included.
func (b Box) Bytes() []byte {
	end := b.Offset + b.Size
	return b.buf[b.Offset:end:end]
}

// Children returns a reader of the children of the box.
func (b Box) Children() *Reader {
	skip, err := childrenOffset(b)
	if err != nil {
		return &Reader{err: err}
	}

	return &Reader{
		buf:  b.buf,
		pos:  b.Offset + b.HeaderSize + skip,
		end:  b.Offset + b.Size,
		path: b.Path,
	}
}

// Child returns the first child of the box with the given type.
// A missing child is a structural error.
func (b Box) Child(t gomp4.BoxType) (Box, error) {
	r := b.Children()
	for r.Next() {
		if r.Box().Type == t {
			return r.Box(), nil
		}
	}

	if r.Err() != nil {
		return Box{}, r.Err()
	}

	return Box{}, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia, mediaerr.CodeMP4BoxNotFound,
		PathString(append(b.Path[:len(b.Path):len(b.Path)], t)))
}

// ChildrenOfType returns all the children of the box with the given type, in order.
func (b Box) ChildrenOfType(t gomp4.BoxType) ([]Box, error) {
	var out []Box

	r := b.Children()
	for r.Next() {
		if r.Box().Type == t {
			out = append(out, r.Box())
		}
	}

	if r.Err() != nil {
		return nil, r.Err()
	}

	return out, nil
}

func childrenOffset(b Box) (int, error) {
	var skip int

	switch {
	case b.Type == gomp4.BoxTypeStsd() || b.Type == gomp4.BoxTypeDref():
		// version, flags and entry count
		skip = 8

	case b.Type == TypeMeta:
		// version and flags
		skip = 4

	case isVisualSampleEntry(b.Type):
		skip = visualSampleEntrySize

	case isAudioSampleEntry(b.Type):
		skip = audioSampleEntrySize

	case b.Type == TypeWvtt:
		skip = sampleEntryHeaderSize

	case b.Type == TypeStpp:
		// namespace, schema location and auxiliary MIME types
		_, n, err := CStrings(b.Payload(), sampleEntryHeaderSize, 3)
		if err != nil {
			return 0, err
		}
		skip = n
	}

	if skip > b.Size-b.HeaderSize {
		return 0, outOfBounds(b.Path, b.Offset, "payload is shorter than fixed fields")
	}

	return skip, nil
}

// CStrings reads count null-terminated strings starting at pos.
// It returns the strings and the position after the last terminator.
// Trailing strings that are entirely missing are returned empty,
// while a string without terminator is an error.
func CStrings(buf []byte, pos int, count int) ([]string, int, error) {
	if pos > len(buf) {
		return nil, 0, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia,
			mediaerr.CodeBufferReadOutOfBounds, "string offset exceeds payload")
	}

	out := make([]string, count)

	for i := 0; i < count; i++ {
		if pos == len(buf) {
			break
		}

		n := bytes.IndexByte(buf[pos:], 0)
		if n < 0 {
			return nil, 0, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia,
				mediaerr.CodeBufferReadOutOfBounds, "unterminated string")
		}

		out[i] = string(buf[pos : pos+n])
		pos += n + 1
	}

	return out, pos, nil
}

// PathString returns the slash-separated form of a path.
func PathString(p gomp4.BoxPath) string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.String()
	}
	return strings.Join(parts, "/")
}

func outOfBounds(path gomp4.BoxPath, offset int, msg string) error {
	where := PathString(path)
	if where == "" {
		where = "root"
	}

	return mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryMedia, mediaerr.CodeBufferReadOutOfBounds,
		fmt.Sprintf("%s at offset %d: %s", where, offset, msg))
}
