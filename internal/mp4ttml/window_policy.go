package mp4ttml

import (
	"github.com/bluenviron/mp4ttml/internal/ttml"
)

// WindowPolicy decides what happens to cues that fall outside the
// valid interval of a segment.
type WindowPolicy int

// window policies.
const (
	// cues are left untouched.
	WindowPolicyKeep WindowPolicy = iota

	// cues entirely outside the window are dropped.
	WindowPolicyDrop

	// cues entirely outside the window are dropped,
	// the others are truncated to the window.
	WindowPolicyClip
)

// String implements fmt.Stringer.
func (p WindowPolicy) String() string {
	switch p {
	case WindowPolicyDrop:
		return "drop"
	case WindowPolicyClip:
		return "clip"
	}
	return "keep"
}

func (p WindowPolicy) apply(cues []*ttml.Cue, tc TimeContext) []*ttml.Cue {
	if p == WindowPolicyKeep || !tc.hasWindow() {
		return cues
	}

	out := cues[:0]

	for _, c := range cues {
		if c.EndTime <= tc.SegmentStart || c.StartTime >= tc.SegmentEnd {
			continue
		}

		if p == WindowPolicyClip {
			if c.StartTime < tc.SegmentStart {
				c.StartTime = tc.SegmentStart
			}
			if c.EndTime > tc.SegmentEnd {
				c.EndTime = tc.SegmentEnd
			}
		}

		out = append(out, c)
	}

	return out
}
