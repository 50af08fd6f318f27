// Package yamlwrapper contains a YAML unmarshaler.
package yamlwrapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"
)

// differences with respect to the standard package:
// - decoding is delegated to encoding/json, therefore json tags and json.Unmarshaler are honored
// - unknown fields and duplicate keys are rejected

func convertKeys(i any) (any, error) {
	switch x := i.(type) {
	case map[any]any:
		m2 := map[string]any{}
		for k, v := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string keys are not supported (%v)", k)
			}

			var err error
			m2[ks], err = convertKeys(v)
			if err != nil {
				return nil, err
			}
		}
		return m2, nil

	case []any:
		a2 := make([]any, len(x))
		for i, v := range x {
			var err error
			a2[i], err = convertKeys(v)
			if err != nil {
				return nil, err
			}
		}
		return a2, nil
	}

	return i, nil
}

// Unmarshal decodes YAML into dest.
func Unmarshal(buf []byte, dest any) error {
	// load YAML into a generic map
	var temp any
	err := yaml.UnmarshalStrict(buf, &temp)
	if err != nil {
		return err
	}

	// an empty document leaves dest untouched
	if temp == nil {
		temp = map[string]any{}
	}

	temp, err = convertKeys(temp)
	if err != nil {
		return err
	}

	buf, err = json.Marshal(temp)
	if err != nil {
		return err
	}

	d := json.NewDecoder(bytes.NewReader(buf))
	d.DisallowUnknownFields()
	return d.Decode(dest)
}
