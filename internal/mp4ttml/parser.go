// Package mp4ttml contains a parser of TTML subtitles embedded into fragmented MP4.
package mp4ttml

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluenviron/mp4ttml/internal/logger"
	"github.com/bluenviron/mp4ttml/internal/mediaerr"
	"github.com/bluenviron/mp4ttml/internal/ttml"
)

type parserState int

const (
	parserStateUninitialized parserState = iota
	parserStateInitialized
	parserStateFailed
)

func (s parserState) String() string {
	switch s {
	case parserStateInitialized:
		return "initialized"
	case parserStateFailed:
		return "failed"
	}
	return "uninitialized"
}

// Parser extracts cues from TTML tracks of fragmented MP4 files.
//
// ParseInit must be called once, with the initialization segment.
// If it fails, the parser can't be used anymore.
// Then, ParseMedia can be called any number of times.
//
// A Parser must not be used by multiple goroutines at once.
type Parser struct {
	// parser of documents. It defaults to ttml.Parser.
	CueParser CueParser

	// what to do with cues outside the segment window. It defaults to WindowPolicyKeep.
	WindowPolicy WindowPolicy

	// optional.
	Parent logger.Writer

	id    uuid.UUID
	state parserState
	track *TrackConfig
}

// Log implements logger.Writer.
func (p *Parser) Log(level logger.Level, format string, args ...any) {
	if p.Parent == nil {
		return
	}
	p.Parent.Log(level, "[parser %s] "+format, append([]any{p.id.String()[:8]}, args...)...)
}

func (p *Parser) invalidState(method string) error {
	return mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryPlayer, mediaerr.CodeInvalidParserState,
		fmt.Sprintf("%s called on a %v parser", method, p.state))
}

// ParseInit reads the initialization segment.
func (p *Parser) ParseInit(buf []byte) error {
	if p.state != parserStateUninitialized {
		return p.invalidState("ParseInit")
	}

	p.id = uuid.New()

	if p.CueParser == nil {
		p.CueParser = ttml.Parser{}
	}

	track, err := ReadInit(buf)
	if err != nil {
		p.state = parserStateFailed
		return err
	}

	p.track = track
	p.state = parserStateInitialized

	p.Log(logger.Debug, "TTML track found: ID=%d, timescale=%d, language=%s, namespace=%s",
		track.TrackID, track.TimeScale, track.Language, track.Namespace)

	return nil
}

// Track returns the configuration of the TTML track.
func (p *Parser) Track() (TrackConfig, bool) {
	if p.state != parserStateInitialized {
		return TrackConfig{}, false
	}
	return *p.track, true
}

// ParseMedia reads a media segment and returns its cues, placed on the global timeline.
// The returned cues don't reference buf.
func (p *Parser) ParseMedia(buf []byte, tc TimeContext) ([]*ttml.Cue, error) {
	if p.state != parserStateInitialized {
		return nil, p.invalidState("ParseMedia")
	}

	payloads, err := ExtractPayloads(buf)
	if err != nil {
		return nil, err
	}

	cues, err := Reconcile(p.CueParser, payloads, tc, p.WindowPolicy)
	if err != nil {
		return nil, err
	}

	p.Log(logger.Debug, "%d documents, %d cues", len(payloads), len(cues))

	return cues, nil
}

// FragmentStarts returns the decode times of the TTML track fragments of a media segment.
func (p *Parser) FragmentStarts(buf []byte) ([]time.Duration, error) {
	if p.state != parserStateInitialized {
		return nil, p.invalidState("FragmentStarts")
	}

	times, err := ReadFragmentTimes(buf)
	if err != nil {
		return nil, err
	}

	var out []time.Duration

	for _, t := range times {
		if t.TrackID != p.track.TrackID || p.track.TimeScale == 0 {
			continue
		}

		out = append(out, durationFromTimeScale(t.BaseTime, p.track.TimeScale))
	}

	return out, nil
}

func durationFromTimeScale(v uint64, timeScale uint32) time.Duration {
	ts := uint64(timeScale)
	secs := v / ts
	dec := v % ts
	return time.Duration(secs)*time.Second + time.Duration(dec)*time.Second/time.Duration(ts)
}
