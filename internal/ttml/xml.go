package ttml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

type node struct {
	el   *element
	text string
}

type element struct {
	name     string
	attrs    []xml.Attr
	children []node
	parent   *element
}

func (e *element) attr(local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.el != nil && c.el.name == name {
			return c.el
		}
	}
	return nil
}

func (e *element) childrenNamed(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.el != nil && c.el.name == name {
			out = append(out, c.el)
		}
	}
	return out
}

func decodeDocument(buf []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(buf))

	var root *element
	var cur *element

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		switch tok := xml.CopyToken(tok).(type) {
		case xml.StartElement:
			el := &element{
				name:   tok.Name.Local,
				attrs:  tok.Attr,
				parent: cur,
			}

			if cur == nil {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				cur.children = append(cur.children, node{el: el})
			}
			cur = el

		case xml.EndElement:
			cur = cur.parent

		case xml.CharData:
			if cur != nil {
				cur.children = append(cur.children, node{text: string(tok)})
			}
		}
	}

	if root == nil {
		return nil, errors.New("root element not found")
	}

	return root, nil
}
