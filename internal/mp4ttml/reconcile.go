package mp4ttml

import (
	"fmt"
	"time"

	"github.com/bluenviron/mp4ttml/internal/ttml"
)

// CueParser converts a markup document into cues
// whose times are relative to the start of the document.
type CueParser interface {
	Parse(buf []byte) ([]*ttml.Cue, error)
}

// TimeContext places a media segment on the global timeline.
type TimeContext struct {
	// position of the document time zero on the global timeline.
	PeriodStart time.Duration

	// valid interval of the segment on the global timeline.
	// It is taken into account only when SegmentEnd > SegmentStart.
	SegmentStart time.Duration
	SegmentEnd   time.Duration
}

func (tc TimeContext) hasWindow() bool {
	return tc.SegmentEnd > tc.SegmentStart
}

// Reconcile parses payloads in order and moves their cues onto the global timeline.
// Cues are never sorted: they are returned in payload order, then in document order.
func Reconcile(parser CueParser, payloads [][]byte, tc TimeContext, policy WindowPolicy) ([]*ttml.Cue, error) {
	out := []*ttml.Cue{}

	for i, payload := range payloads {
		cues, err := parser.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		shifted := make([]*ttml.Cue, len(cues))
		for j, c := range cues {
			nc := *c
			nc.StartTime += tc.PeriodStart
			nc.EndTime += tc.PeriodStart
			shifted[j] = &nc
		}

		out = append(out, policy.apply(shifted, tc)...)
	}

	return out, nil
}
