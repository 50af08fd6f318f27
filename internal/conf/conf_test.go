package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/mp4ttml/internal/cueout"
	"github.com/bluenviron/mp4ttml/internal/logger"
	"github.com/bluenviron/mp4ttml/internal/mp4ttml"
	"github.com/bluenviron/mp4ttml/internal/test"
)

func TestConfFromFile(t *testing.T) {
	tmpf, err := test.CreateTempFile([]byte("logLevel: debug\n" +
		"logDestinations: [stdout, file]\n" +
		"logFile: /tmp/out.log\n" +
		"maxSegmentSize: 10M\n" +
		"periodStart: 7s\n" +
		"segmentDuration: 2s\n" +
		"windowPolicy: clip\n" +
		"outputFormat: srt\n"))
	require.NoError(t, err)
	defer os.Remove(tmpf)

	conf, confPath, err := Load(tmpf, nil)
	require.NoError(t, err)
	require.Equal(t, tmpf, confPath)

	require.Equal(t, &Conf{
		LogLevel:        LogLevel(logger.Debug),
		LogDestinations: LogDestinations{logger.DestinationStdout, logger.DestinationFile},
		LogFile:         "/tmp/out.log",
		MaxSegmentSize:  10 * 1024 * 1024,
		WatchExtensions: []string{".m4s", ".mp4", ".cmft"},
		PeriodStart:     StringDuration(7 * time.Second),
		SegmentDuration: StringDuration(2 * time.Second),
		WindowPolicy:    WindowPolicy(mp4ttml.WindowPolicyClip),
		OutputFormat:    OutputFormat(cueout.FormatSRT),
	}, conf)
}

func TestConfDefaults(t *testing.T) {
	conf, confPath, err := Load("", []string{filepath.Join(os.TempDir(), "nonexisting.yml")})
	require.NoError(t, err)
	require.Equal(t, "", confPath)

	require.Equal(t, LogLevel(logger.Info), conf.LogLevel)
	require.Equal(t, LogDestinations{logger.DestinationStderr}, conf.LogDestinations)
	require.Equal(t, StringSize(50*1024*1024), conf.MaxSegmentSize)
	require.Equal(t, WindowPolicy(mp4ttml.WindowPolicyKeep), conf.WindowPolicy)
	require.Equal(t, OutputFormat(cueout.FormatVTT), conf.OutputFormat)
}

func TestConfEmptyFile(t *testing.T) {
	tmpf, err := test.CreateTempFile([]byte(""))
	require.NoError(t, err)
	defer os.Remove(tmpf)

	conf, _, err := Load(tmpf, nil)
	require.NoError(t, err)
	require.Equal(t, OutputFormat(cueout.FormatVTT), conf.OutputFormat)
	require.Equal(t, []string{".m4s", ".mp4", ".cmft"}, conf.WatchExtensions)
}

func TestConfEnvironment(t *testing.T) {
	t.Setenv("MP4TTML_LOGLEVEL", "warn")
	t.Setenv("MP4TTML_LOGSTRUCTURED", "yes")
	t.Setenv("MP4TTML_PERIODSTART", "1m30s")
	t.Setenv("MP4TTML_WINDOWPOLICY", "drop")
	t.Setenv("MP4TTML_OUTPUTFORMAT", "json")
	t.Setenv("MP4TTML_WATCHEXTENSIONS", ".m4s,.cmft")
	t.Setenv("MP4TTML_MAXSEGMENTSIZE", "1K")

	tmpf, err := test.CreateTempFile([]byte("logLevel: debug\n"))
	require.NoError(t, err)
	defer os.Remove(tmpf)

	conf, _, err := Load(tmpf, nil)
	require.NoError(t, err)

	require.Equal(t, LogLevel(logger.Warn), conf.LogLevel)
	require.Equal(t, true, conf.LogStructured)
	require.Equal(t, StringDuration(90*time.Second), conf.PeriodStart)
	require.Equal(t, WindowPolicy(mp4ttml.WindowPolicyDrop), conf.WindowPolicy)
	require.Equal(t, OutputFormat(cueout.FormatJSON), conf.OutputFormat)
	require.Equal(t, []string{".m4s", ".cmft"}, conf.WatchExtensions)
	require.Equal(t, StringSize(1024), conf.MaxSegmentSize)
}

func TestConfErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		conf string
		err  string
	}{
		{
			"unknown field",
			"unknownField: 1\n",
			"json: unknown field \"unknownField\"",
		},
		{
			"invalid log level",
			"logLevel: verbose\n",
			"invalid log level: 'verbose'",
		},
		{
			"duplicate log destination",
			"logDestinations: [stdout, stdout]\n",
			"log destination set twice",
		},
		{
			"no log destinations",
			"logDestinations: []\n",
			"at least one log destination must be set",
		},
		{
			"missing log file",
			"logDestinations: [file]\nlogFile: ''\n",
			"'logFile' must be set when logging to file",
		},
		{
			"invalid window policy",
			"windowPolicy: shrink\n",
			"invalid window policy: 'shrink'",
		},
		{
			"invalid output format",
			"outputFormat: ass\n",
			"invalid output format: 'ass'",
		},
		{
			"invalid watch extension",
			"watchExtensions: [m4s]\n",
			"invalid watch extension 'm4s': it must start with a dot",
		},
		{
			"negative segment duration",
			"segmentDuration: -2s\n",
			"'segmentDuration' can't be negative",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			tmpf, err := test.CreateTempFile([]byte(ca.conf))
			require.NoError(t, err)
			defer os.Remove(tmpf)

			_, _, err = Load(tmpf, nil)
			require.EqualError(t, err, ca.err)
		})
	}
}

func TestConfClone(t *testing.T) {
	conf, _, err := Load("", nil)
	require.NoError(t, err)

	clone := conf.Clone()
	require.Equal(t, conf, clone)

	clone.WatchExtensions[0] = ".mp4"
	require.Equal(t, ".m4s", conf.WatchExtensions[0])
}
