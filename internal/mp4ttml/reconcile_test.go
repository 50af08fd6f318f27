package mp4ttml

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/mp4ttml/internal/mediaerr"
	"github.com/bluenviron/mp4ttml/internal/ttml"
)

// fakeCueParser returns two cues per document, carrying the document in their payload.
type fakeCueParser struct {
	calls int
}

func (p *fakeCueParser) Parse(buf []byte) ([]*ttml.Cue, error) {
	p.calls++

	if string(buf) == "bad" {
		return nil, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidXML)
	}

	return []*ttml.Cue{
		{StartTime: 1 * time.Second, EndTime: 2 * time.Second, Payload: string(buf) + "0"},
		{StartTime: 3 * time.Second, EndTime: 4 * time.Second, Payload: string(buf) + "1"},
	}, nil
}

func payloads(cues []*ttml.Cue) []string {
	out := make([]string, len(cues))
	for i, c := range cues {
		out[i] = c.Payload
	}
	return out
}

func TestReconcileOrder(t *testing.T) {
	p := &fakeCueParser{}

	cues, err := Reconcile(p, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, TimeContext{}, WindowPolicyKeep)
	require.NoError(t, err)
	require.Equal(t, 3, p.calls)
	require.Equal(t, []string{"a0", "a1", "b0", "b1", "c0", "c1"}, payloads(cues))
}

func TestReconcileEmpty(t *testing.T) {
	cues, err := Reconcile(&fakeCueParser{}, nil, TimeContext{}, WindowPolicyKeep)
	require.NoError(t, err)
	require.NotNil(t, cues)
	require.Empty(t, cues)
}

func TestReconcileOffset(t *testing.T) {
	for _, offset := range []time.Duration{0, 7 * time.Second, 1500 * time.Millisecond, -1 * time.Second} {
		t.Run(fmt.Sprintf("%v", offset), func(t *testing.T) {
			cues, err := Reconcile(&fakeCueParser{}, [][]byte{[]byte("a")},
				TimeContext{PeriodStart: offset}, WindowPolicyKeep)
			require.NoError(t, err)
			require.Equal(t, 1*time.Second+offset, cues[0].StartTime)
			require.Equal(t, 2*time.Second+offset, cues[0].EndTime)
			require.Equal(t, 3*time.Second+offset, cues[1].StartTime)
			require.Equal(t, 4*time.Second+offset, cues[1].EndTime)
		})
	}
}

func TestReconcileError(t *testing.T) {
	_, err := Reconcile(&fakeCueParser{}, [][]byte{[]byte("a"), []byte("bad")}, TimeContext{}, WindowPolicyKeep)
	require.ErrorIs(t, err, mediaerr.New(mediaerr.SeverityCritical, mediaerr.CategoryText, mediaerr.CodeInvalidXML))
	require.EqualError(t, err, "document 1: TEXT CRITICAL INVALID_XML (2005)")
}

// sharedCueParser always returns the same cue instances.
type sharedCueParser struct {
	cues []*ttml.Cue
}

func (p *sharedCueParser) Parse([]byte) ([]*ttml.Cue, error) {
	return p.cues, nil
}

func TestReconcileDoesNotModifyParserCues(t *testing.T) {
	p := &sharedCueParser{cues: []*ttml.Cue{{StartTime: time.Second, EndTime: 2 * time.Second}}}

	for i := 0; i < 2; i++ {
		cues, err := Reconcile(p, [][]byte{nil}, TimeContext{PeriodStart: 10 * time.Second}, WindowPolicyClip)
		require.NoError(t, err)
		require.Equal(t, 11*time.Second, cues[0].StartTime)
	}

	require.Equal(t, time.Second, p.cues[0].StartTime)
}

func TestWindowPolicy(t *testing.T) {
	tc := TimeContext{
		PeriodStart:  0,
		SegmentStart: 1500 * time.Millisecond,
		SegmentEnd:   3500 * time.Millisecond,
	}

	for _, ca := range []struct {
		policy WindowPolicy
		tc     TimeContext
		times  [][2]time.Duration
	}{
		{
			WindowPolicyKeep,
			tc,
			[][2]time.Duration{{1 * time.Second, 2 * time.Second}, {3 * time.Second, 4 * time.Second}},
		},
		{
			WindowPolicyDrop,
			tc,
			[][2]time.Duration{{1 * time.Second, 2 * time.Second}, {3 * time.Second, 4 * time.Second}},
		},
		{
			WindowPolicyClip,
			tc,
			[][2]time.Duration{{1500 * time.Millisecond, 2 * time.Second}, {3 * time.Second, 3500 * time.Millisecond}},
		},
		{
			WindowPolicyDrop,
			TimeContext{SegmentStart: 2 * time.Second, SegmentEnd: 3 * time.Second},
			[][2]time.Duration{},
		},
		{
			WindowPolicyClip,
			TimeContext{SegmentStart: 5 * time.Second, SegmentEnd: 5 * time.Second},
			[][2]time.Duration{{1 * time.Second, 2 * time.Second}, {3 * time.Second, 4 * time.Second}},
		},
	} {
		t.Run(fmt.Sprintf("%v %v-%v", ca.policy, ca.tc.SegmentStart, ca.tc.SegmentEnd), func(t *testing.T) {
			cues, err := Reconcile(&fakeCueParser{}, [][]byte{[]byte("a")}, ca.tc, ca.policy)
			require.NoError(t, err)

			times := [][2]time.Duration{}
			for _, c := range cues {
				times = append(times, [2]time.Duration{c.StartTime, c.EndTime})
			}
			require.Equal(t, ca.times, times)
		})
	}
}
