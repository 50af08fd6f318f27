// Package conf contains the configuration of the extractor.
package conf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bluenviron/mp4ttml/internal/conf/env"
	"github.com/bluenviron/mp4ttml/internal/conf/yamlwrapper"
	"github.com/bluenviron/mp4ttml/internal/cueout"
	"github.com/bluenviron/mp4ttml/internal/logger"
	"github.com/bluenviron/mp4ttml/internal/mp4ttml"
)

// EnvPrefix is the prefix of environment variables that override the configuration.
const EnvPrefix = "MP4TTML"

func firstThatExists(paths []string) string {
	for _, pa := range paths {
		_, err := os.Stat(pa)
		if err == nil {
			return pa
		}
	}
	return ""
}

// Conf is the configuration.
type Conf struct {
	// general
	LogLevel        LogLevel        `json:"logLevel"`
	LogDestinations LogDestinations `json:"logDestinations"`
	LogStructured   bool            `json:"logStructured"`
	LogFile         string          `json:"logFile"`

	// input
	MaxSegmentSize  StringSize `json:"maxSegmentSize"`
	WatchExtensions []string   `json:"watchExtensions"`

	// timeline
	PeriodStart     StringDuration `json:"periodStart"`
	SegmentDuration StringDuration `json:"segmentDuration"`
	WindowPolicy    WindowPolicy   `json:"windowPolicy"`

	// output
	OutputFormat OutputFormat `json:"outputFormat"`
	OutputFile   string       `json:"outputFile"`
}

func (conf *Conf) setDefaults() {
	conf.LogLevel = LogLevel(logger.Info)
	conf.LogDestinations = LogDestinations{logger.DestinationStderr}
	conf.LogStructured = false
	conf.LogFile = "mp4ttml.log"

	conf.MaxSegmentSize = 50 * 1024 * 1024
	conf.WatchExtensions = []string{".m4s", ".mp4", ".cmft"}

	conf.PeriodStart = 0
	conf.SegmentDuration = 0
	conf.WindowPolicy = WindowPolicy(mp4ttml.WindowPolicyKeep)

	conf.OutputFormat = OutputFormat(cueout.FormatVTT)
	conf.OutputFile = ""
}

// Load loads a Conf.
// When fpath is empty, the first existing file among defaultConfPaths is used, if any.
// It returns the path of the loaded file.
func Load(fpath string, defaultConfPaths []string) (*Conf, string, error) {
	conf := &Conf{}

	fpath, err := conf.loadFromFile(fpath, defaultConfPaths)
	if err != nil {
		return nil, "", err
	}

	err = env.Load(EnvPrefix, conf)
	if err != nil {
		return nil, "", err
	}

	err = conf.Validate()
	if err != nil {
		return nil, "", err
	}

	return conf, fpath, nil
}

func (conf *Conf) loadFromFile(fpath string, defaultConfPaths []string) (string, error) {
	if fpath == "" {
		fpath = firstThatExists(defaultConfPaths)

		// when the configuration file is not explicitly set,
		// it is optional.
		if fpath == "" {
			conf.setDefaults()
			return "", nil
		}
	}

	byts, err := os.ReadFile(fpath)
	if err != nil {
		return "", err
	}

	err = yamlwrapper.Unmarshal(byts, conf)
	if err != nil {
		return "", err
	}

	return fpath, nil
}

// Clone clones the configuration.
func (conf Conf) Clone() *Conf {
	enc, err := json.Marshal(conf)
	if err != nil {
		panic(err)
	}

	var dest Conf
	err = json.Unmarshal(enc, &dest)
	if err != nil {
		panic(err)
	}

	return &dest
}

// Validate checks the configuration for errors.
func (conf *Conf) Validate() error {
	if len(conf.LogDestinations) == 0 {
		return fmt.Errorf("at least one log destination must be set")
	}

	for _, dest := range conf.LogDestinations {
		if dest == logger.DestinationFile && conf.LogFile == "" {
			return fmt.Errorf("'logFile' must be set when logging to file")
		}
	}

	if conf.MaxSegmentSize == 0 {
		return fmt.Errorf("'maxSegmentSize' must be greater than zero")
	}

	if len(conf.WatchExtensions) == 0 {
		return fmt.Errorf("at least one watch extension must be set")
	}

	for _, ext := range conf.WatchExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid watch extension '%s': it must start with a dot", ext)
		}
	}

	if conf.SegmentDuration < 0 {
		return fmt.Errorf("'segmentDuration' can't be negative")
	}

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (conf *Conf) UnmarshalJSON(b []byte) error {
	conf.setDefaults()

	type alias Conf
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	return d.Decode((*alias)(conf))
}
