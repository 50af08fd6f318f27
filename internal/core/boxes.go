package core

import (
	"bytes"
	"fmt"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/google/uuid"

	"github.com/bluenviron/mp4ttml/internal/boxtree"
)

type boxesCmd struct {
	File   string `arg:"" help:"MP4 file"`
	Output string `short:"o" help:"output file. The standard output is used when empty"`
}

func (c *boxesCmd) Run(p *Core) (err error) {
	byts, err := readFile(c.File, p.conf.MaxSegmentSize)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	err = boxtree.Walk(byts, func(b boxtree.Box) (bool, error) {
		buf.WriteString(strings.Repeat("  ", len(b.Path)-1))
		buf.WriteString(b.Type.String())

		if b.Type == boxtree.TypeUUID {
			buf.WriteString(" " + uuid.UUID(b.UserType).String())
		}

		fmt.Fprintf(&buf, " offset=%d size=%s\n", b.Offset, bytefmt.ByteSize(uint64(b.Size)))
		return true, nil
	})
	if err != nil {
		return err
	}

	out, err := p.openOutput(c.Output)
	if err != nil {
		return err
	}
	defer closeOutput(out, &err)

	_, err = out.Write(buf.Bytes())
	return err
}
