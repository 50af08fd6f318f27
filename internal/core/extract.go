package core

import (
	"github.com/bluenviron/mp4ttml/internal/logger"
)

type extractCmd struct {
	TimelineFlags `embed:""`

	Init     string   `arg:"" help:"initialization segment"`
	Segments []string `arg:"" help:"media segments, in presentation order"`
}

func (c *extractCmd) Run(p *Core) (err error) {
	cnf := p.conf.Clone()

	err = c.apply(cnf)
	if err != nil {
		return err
	}

	out, err := p.openOutput(cnf.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutput(out, &err)

	e, err := newExtractor(cnf, c.Init, out, p)
	if err != nil {
		return err
	}

	for _, seg := range c.Segments {
		if p.ctx.Err() != nil {
			return p.ctx.Err()
		}

		err = e.process(seg)
		if err != nil {
			return err
		}
	}

	p.Log(logger.Info, "%d cues extracted from %d segments", e.writer.Count(), len(c.Segments))

	return nil
}
