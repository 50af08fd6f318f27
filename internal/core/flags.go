package core

import (
	"github.com/bluenviron/mp4ttml/internal/conf"
)

// TimelineFlags are flags that override the configuration.
type TimelineFlags struct {
	PeriodStart     string `help:"position of time zero of documents on the global timeline, for instance 7s"`
	SegmentDuration string `help:"duration of media segments, enables the segment window"`
	WindowPolicy    string `help:"what to do with cues outside the segment window (keep, drop, clip)"`
	Format          string `help:"output format (vtt, srt, json)"`
	Output          string `short:"o" help:"output file. Cues are written to the standard output when empty"`
}

func (f TimelineFlags) apply(cnf *conf.Conf) error {
	if f.PeriodStart != "" {
		err := cnf.PeriodStart.UnmarshalEnv("", f.PeriodStart)
		if err != nil {
			return err
		}
	}

	if f.SegmentDuration != "" {
		err := cnf.SegmentDuration.UnmarshalEnv("", f.SegmentDuration)
		if err != nil {
			return err
		}
	}

	if f.WindowPolicy != "" {
		err := cnf.WindowPolicy.UnmarshalEnv("", f.WindowPolicy)
		if err != nil {
			return err
		}
	}

	if f.Format != "" {
		err := cnf.OutputFormat.UnmarshalEnv("", f.Format)
		if err != nil {
			return err
		}
	}

	if f.Output != "" {
		cnf.OutputFile = f.Output
	}

	return cnf.Validate()
}
