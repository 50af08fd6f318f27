package ttml

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reClockTime  = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}(?:\.\d+)?)$`)
	reFramesTime = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}):(\d{2,})(?:\.(\d+))?$`)
	reOffsetTime = regexp.MustCompile(`^(\d+(?:\.\d+)?)(h|ms|m|s|f|t)$`)
)

// rateInfo contains the timing parameters of a document.
type rateInfo struct {
	frameRate    float64
	subFrameRate float64
	tickRate     float64
}

func defaultRateInfo() rateInfo {
	return rateInfo{
		frameRate:    30,
		subFrameRate: 1,
		tickRate:     1,
	}
}

func parseRateInfo(tt *element) (rateInfo, error) {
	r := defaultRateInfo()

	frameRateSet := false
	if v, ok := tt.attr("frameRate"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			return rateInfo{}, fmt.Errorf("invalid frame rate '%s'", v)
		}
		r.frameRate = f
		frameRateSet = true
	}

	if v, ok := tt.attr("frameRateMultiplier"); ok {
		parts := strings.Fields(v)
		if len(parts) != 2 {
			return rateInfo{}, fmt.Errorf("invalid frame rate multiplier '%s'", v)
		}

		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
			return rateInfo{}, fmt.Errorf("invalid frame rate multiplier '%s'", v)
		}

		r.frameRate = r.frameRate * num / den
	}

	if v, ok := tt.attr("subFrameRate"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			return rateInfo{}, fmt.Errorf("invalid sub-frame rate '%s'", v)
		}
		r.subFrameRate = f
	}

	if v, ok := tt.attr("tickRate"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			return rateInfo{}, fmt.Errorf("invalid tick rate '%s'", v)
		}
		r.tickRate = f
	} else if frameRateSet {
		r.tickRate = r.frameRate * r.subFrameRate
	}

	return r, nil
}

var errTimeRange = errors.New("time out of range")

func secondsToDuration(s float64) (time.Duration, error) {
	ns := math.Round(s * float64(time.Second))
	if math.IsNaN(ns) || math.IsInf(ns, 0) || ns < 0 || ns >= math.MaxInt64 {
		return 0, errTimeRange
	}
	return time.Duration(ns), nil
}

func atoi(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// hmsToDuration converts hours, minutes and seconds fields.
func hmsToDuration(h string, m string, sec string) (time.Duration, error) {
	hours, err := atoi(h)
	if err != nil || hours > math.MaxInt64/int64(time.Hour) {
		return 0, errTimeRange
	}

	minutes, err := atoi(m)
	if err != nil {
		return 0, errTimeRange
	}

	var seconds int64
	if sec != "" {
		seconds, err = atoi(sec)
		if err != nil {
			return 0, errTimeRange
		}
	}

	return addDuration(time.Duration(hours)*time.Hour,
		time.Duration(minutes)*time.Minute+time.Duration(seconds)*time.Second)
}

// addDuration sums two non-negative durations.
func addDuration(a time.Duration, b time.Duration) (time.Duration, error) {
	if a > math.MaxInt64-b {
		return 0, errTimeRange
	}
	return a + b, nil
}

// parseTime parses a TTML time expression.
func parseTime(s string, r rateInfo) (time.Duration, error) {
	s = strings.TrimSpace(s)

	d, err := parseTimeExpr(s, r)
	if err != nil {
		if errors.Is(err, errTimeRange) {
			return 0, fmt.Errorf("time expression '%s' is out of range", s)
		}
		return 0, fmt.Errorf("invalid time expression '%s'", s)
	}

	return d, nil
}

func parseTimeExpr(s string, r rateInfo) (time.Duration, error) {
	if m := reClockTime.FindStringSubmatch(s); m != nil {
		sec, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, err
		}

		base, err := hmsToDuration(m[1], m[2], "")
		if err != nil {
			return 0, err
		}

		frac, err := secondsToDuration(sec)
		if err != nil {
			return 0, err
		}

		return addDuration(base, frac)
	}

	if m := reFramesTime.FindStringSubmatch(s); m != nil {
		base, err := hmsToDuration(m[1], m[2], m[3])
		if err != nil {
			return 0, err
		}

		f, err := atoi(m[4])
		if err != nil {
			return 0, errTimeRange
		}
		frames := float64(f)

		if m[5] != "" {
			sub, err := atoi(m[5])
			if err != nil {
				return 0, errTimeRange
			}
			frames += float64(sub) / r.subFrameRate
		}

		frac, err := secondsToDuration(frames / r.frameRate)
		if err != nil {
			return 0, err
		}

		return addDuration(base, frac)
	}

	if m := reOffsetTime.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}

		switch m[2] {
		case "h":
			return secondsToDuration(v * 3600)
		case "m":
			return secondsToDuration(v * 60)
		case "s":
			return secondsToDuration(v)
		case "ms":
			return secondsToDuration(v / 1000)
		case "f":
			return secondsToDuration(v / r.frameRate)
		default: // t
			return secondsToDuration(v / r.tickRate)
		}
	}

	return 0, errors.New("invalid time expression")
}
