package core

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bluenviron/mp4ttml/internal/logger"
	"github.com/bluenviron/mp4ttml/internal/segwatcher"
)

type segmentSet map[string]struct{}

// add returns false if the segment was already added.
func (s segmentSet) add(fpath string) bool {
	fpath = filepath.Clean(fpath)
	if _, ok := s[fpath]; ok {
		return false
	}
	s[fpath] = struct{}{}
	return true
}

type watchCmd struct {
	TimelineFlags `embed:""`

	Init string `arg:"" help:"initialization segment"`
	Dir  string `arg:"" help:"directory that receives media segments"`
}

func (c *watchCmd) Run(p *Core) (err error) {
	cnf := p.conf.Clone()

	err = c.apply(cnf)
	if err != nil {
		return err
	}

	initInfo, err := os.Stat(c.Init)
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

	w := &segwatcher.SegWatcher{
		Dir:        c.Dir,
		Extensions: cnf.WatchExtensions,
		Parent:     p,
	}
	err = w.Initialize()
	if err != nil {
		return err
	}
	defer w.Close()

	processed := make(segmentSet)

	processLive := func(fpath string) {
		if fi, err2 := os.Stat(fpath); err2 == nil && os.SameFile(fi, initInfo) {
			return
		}

		// a segment created after the watcher started is reported by both
		// the directory listing and the watcher.
		if !processed.add(fpath) {
			return
		}

		err2 := e.process(fpath)
		if err2 != nil {
			p.Log(logger.Error, "%v", err2)
		}
	}

	// segments that already exist, sorted by name
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && segwatcher.HasExtension(entry.Name(), cnf.WatchExtensions) {
			processLive(filepath.Join(c.Dir, entry.Name()))
		}
	}

	p.Log(logger.Info, "watching %s", c.Dir)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	for {
		select {
		case fpath, ok := <-w.Watch():
			if !ok {
				return fmt.Errorf("directory watcher stopped")
			}
			processLive(fpath)

		case <-interrupt:
			p.Log(logger.Info, "shutting down gracefully")
			return nil

		case <-p.ctx.Done():
			return nil
		}
	}
}
