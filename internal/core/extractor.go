package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/bluenviron/mp4ttml/internal/conf"
	"github.com/bluenviron/mp4ttml/internal/cueout"
	"github.com/bluenviron/mp4ttml/internal/logger"
	"github.com/bluenviron/mp4ttml/internal/mp4ttml"
)

func readFile(fpath string, maxSize conf.StringSize) ([]byte, error) {
	fi, err := os.Stat(fpath)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", fpath)
	}

	if uint64(fi.Size()) > uint64(maxSize) {
		return nil, fmt.Errorf("%s: size (%s) exceeds maxSegmentSize (%s)",
			fpath, bytefmt.ByteSize(uint64(fi.Size())), bytefmt.ByteSize(uint64(maxSize)))
	}

	return os.ReadFile(fpath)
}

// extractor feeds segments to a parser and writes cues.
type extractor struct {
	conf   *conf.Conf
	parser *mp4ttml.Parser
	writer *cueout.Writer
	parent logger.Writer

	// number of media segments received so far
	count int
}

func newExtractor(cnf *conf.Conf, initPath string, out io.Writer, parent logger.Writer) (*extractor, error) {
	byts, err := readFile(initPath, cnf.MaxSegmentSize)
	if err != nil {
		return nil, err
	}

	parser := &mp4ttml.Parser{
		WindowPolicy: mp4ttml.WindowPolicy(cnf.WindowPolicy),
		Parent:       parent,
	}

	err = parser.ParseInit(byts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", initPath, err)
	}

	track, _ := parser.Track()
	parent.Log(logger.Info, "TTML track %d found in %s (language '%s')",
		track.TrackID, filepath.Base(initPath), track.Language)

	return &extractor{
		conf:   cnf,
		parser: parser,
		writer: &cueout.Writer{
			W:      out,
			Format: cueout.Format(cnf.OutputFormat),
		},
		parent: parent,
	}, nil
}

// timeContext returns the position of the n-th media segment.
func (e *extractor) timeContext(n int) mp4ttml.TimeContext {
	tc := mp4ttml.TimeContext{
		PeriodStart: time.Duration(e.conf.PeriodStart),
	}

	if segDur := time.Duration(e.conf.SegmentDuration); segDur > 0 {
		tc.SegmentStart = tc.PeriodStart + time.Duration(n)*segDur
		tc.SegmentEnd = tc.SegmentStart + segDur
	}

	return tc
}

func (e *extractor) process(fpath string) error {
	n := e.count
	e.count++

	byts, err := readFile(fpath, e.conf.MaxSegmentSize)
	if err != nil {
		return err
	}

	starts, err := e.parser.FragmentStarts(byts)
	if err == nil && len(starts) != 0 {
		e.parent.Log(logger.Debug, "%s: first fragment starts at %v", filepath.Base(fpath), starts[0])
	}

	cues, err := e.parser.ParseMedia(byts, e.timeContext(n))
	if err != nil {
		return fmt.Errorf("%s: %w", fpath, err)
	}

	e.parent.Log(logger.Debug, "%s: %d cues", filepath.Base(fpath), len(cues))

	return e.writer.WriteCues(cues)
}
