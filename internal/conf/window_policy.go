package conf

import (
	"encoding/json"
	"fmt"

	"github.com/bluenviron/mp4ttml/internal/mp4ttml"
)

// WindowPolicy is the windowPolicy parameter.
type WindowPolicy mp4ttml.WindowPolicy

// MarshalJSON implements json.Marshaler.
func (d WindowPolicy) MarshalJSON() ([]byte, error) {
	switch mp4ttml.WindowPolicy(d) {
	case mp4ttml.WindowPolicyKeep, mp4ttml.WindowPolicyDrop, mp4ttml.WindowPolicyClip:
		return json.Marshal(mp4ttml.WindowPolicy(d).String())
	}

	return nil, fmt.Errorf("invalid window policy: %v", int(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *WindowPolicy) UnmarshalJSON(b []byte) error {
	var in string
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	switch in {
	case "keep":
		*d = WindowPolicy(mp4ttml.WindowPolicyKeep)

	case "drop":
		*d = WindowPolicy(mp4ttml.WindowPolicyDrop)

	case "clip":
		*d = WindowPolicy(mp4ttml.WindowPolicyClip)

	default:
		return fmt.Errorf("invalid window policy: '%s'", in)
	}

	return nil
}

// UnmarshalEnv implements env.Unmarshaler.
func (d *WindowPolicy) UnmarshalEnv(_ string, v string) error {
	return d.UnmarshalJSON([]byte(`"` + v + `"`))
}
