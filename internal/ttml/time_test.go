package ttml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	rate := rateInfo{frameRate: 25, subFrameRate: 2, tickRate: 10000000}

	for _, ca := range []struct {
		in  string
		out time.Duration
	}{
		{"00:00:01", 1 * time.Second},
		{"01:02:03.5", 1*time.Hour + 2*time.Minute + 3500*time.Millisecond},
		{"100:00:00", 100 * time.Hour},
		{"00:00:02:05", 2*time.Second + 200*time.Millisecond},
		{"00:00:02:05.1", 2*time.Second + 220*time.Millisecond},
		{"1.5h", 90 * time.Minute},
		{"2m", 2 * time.Minute},
		{"3.25s", 3250 * time.Millisecond},
		{"40ms", 40 * time.Millisecond},
		{"50f", 2 * time.Second},
		{"15000000t", 1500 * time.Millisecond},
		{" 7s ", 7 * time.Second},
	} {
		t.Run(ca.in, func(t *testing.T) {
			d, err := parseTime(ca.in, rate)
			require.NoError(t, err)
			require.Equal(t, ca.out, d)
		})
	}
}

func TestParseTimeErrors(t *testing.T) {
	for _, ca := range []string{
		"",
		"1",
		"1:2:3",
		"00:00:01.",
		"5x",
		"-1s",
		"99999999999999999999:00:00",
		"2562048:00:00",
		"00:00:00:99999999999999999999",
		"99999999999999999999999s",
	} {
		t.Run(ca, func(t *testing.T) {
			_, err := parseTime(ca, defaultRateInfo())
			require.Error(t, err)
		})
	}
}

func TestParseRateInfo(t *testing.T) {
	for _, ca := range []struct {
		name  string
		attrs string
		out   rateInfo
	}{
		{
			"defaults",
			``,
			rateInfo{frameRate: 30, subFrameRate: 1, tickRate: 1},
		},
		{
			"frame rate implies tick rate",
			`ttp:frameRate="25" ttp:subFrameRate="2"`,
			rateInfo{frameRate: 25, subFrameRate: 2, tickRate: 50},
		},
		{
			"multiplier",
			`ttp:frameRate="30" ttp:frameRateMultiplier="1000 1001" ttp:tickRate="90000"`,
			rateInfo{frameRate: 30 * 1000.0 / 1001.0, subFrameRate: 1, tickRate: 90000},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			tt, err := decodeDocument([]byte(`<tt xmlns="http://www.w3.org/ns/ttml" ` +
				`xmlns:ttp="http://www.w3.org/ns/ttml#parameter" ` + ca.attrs + `/>`))
			require.NoError(t, err)

			r, err := parseRateInfo(tt)
			require.NoError(t, err)
			require.InDelta(t, ca.out.frameRate, r.frameRate, 1e-9)
			require.Equal(t, ca.out.subFrameRate, r.subFrameRate)
			require.InDelta(t, ca.out.tickRate, r.tickRate, 1e-9)
		})
	}
}
