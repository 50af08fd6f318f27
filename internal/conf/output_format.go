package conf

import (
	"encoding/json"
	"fmt"

	"github.com/bluenviron/mp4ttml/internal/cueout"
)

// OutputFormat is the outputFormat parameter.
type OutputFormat cueout.Format

// MarshalJSON implements json.Marshaler.
func (d OutputFormat) MarshalJSON() ([]byte, error) {
	switch cueout.Format(d) {
	case cueout.FormatVTT, cueout.FormatSRT, cueout.FormatJSON:
		return json.Marshal(cueout.Format(d).String())
	}

	return nil, fmt.Errorf("invalid output format: %v", int(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *OutputFormat) UnmarshalJSON(b []byte) error {
	var in string
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	f, err := cueout.ParseFormat(in)
	if err != nil {
		return err
	}
	*d = OutputFormat(f)

	return nil
}

// UnmarshalEnv implements env.Unmarshaler.
func (d *OutputFormat) UnmarshalEnv(_ string, v string) error {
	return d.UnmarshalJSON([]byte(`"` + v + `"`))
}
