package boxtree

import (
	gomp4 "github.com/abema/go-mp4"
)

// maximum nesting level visited by Walk.
const maxDepth = 32

// FindAll returns all top-level boxes of buf with the given type, in order.
func FindAll(buf []byte, t gomp4.BoxType) ([]Box, error) {
	return Path(buf, gomp4.BoxPath{t})
}

// Path returns all boxes of buf reachable through the given path, in order.
// Missing boxes are not an error; malformed ones are.
func Path(buf []byte, path gomp4.BoxPath) ([]Box, error) {
	if len(path) == 0 {
		return nil, nil
	}

	return pathIn(NewReader(buf), path)
}

func pathIn(r *Reader, path gomp4.BoxPath) ([]Box, error) {
	var out []Box

	for r.Next() {
		b := r.Box()
		if b.Type != path[0] {
			continue
		}

		if len(path) == 1 {
			out = append(out, b)
			continue
		}

		sub, err := pathIn(b.Children(), path[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	if r.Err() != nil {
		return nil, r.Err()
	}

	return out, nil
}

// WalkFunc is called by Walk for every box.
// Returning false prevents Walk from visiting the children of the box.
type WalkFunc func(b Box) (bool, error)

// Walk visits all boxes of buf depth-first, descending into containers.
func Walk(buf []byte, fn WalkFunc) error {
	return walk(NewReader(buf), fn)
}

func walk(r *Reader, fn WalkFunc) error {
	for r.Next() {
		b := r.Box()

		if len(b.Path) > maxDepth {
			return outOfBounds(b.Path, b.Offset, "maximum nesting depth exceeded")
		}

		descend, err := fn(b)
		if err != nil {
			return err
		}

		if descend && IsContainer(b.Type) {
			err = walk(b.Children(), fn)
			if err != nil {
				return err
			}
		}
	}

	return r.Err()
}
