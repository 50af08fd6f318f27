// Package env contains a function to load configuration from environment.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Unmarshaler can be implemented to override the unmarshaling process.
type Unmarshaler interface {
	UnmarshalEnv(prefix string, v string) error
}

func loadScalar(ev string, v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(ev)

	case reflect.Int, reflect.Int64:
		iv, err := strconv.ParseInt(ev, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(iv)

	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		iv, err := strconv.ParseUint(ev, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(iv)

	case reflect.Float64:
		fv, err := strconv.ParseFloat(ev, 64)
		if err != nil {
			return err
		}
		v.SetFloat(fv)

	case reflect.Bool:
		switch strings.ToLower(ev) {
		case "yes", "true":
			v.SetBool(true)

		case "no", "false":
			v.SetBool(false)

		default:
			return fmt.Errorf("invalid value '%s'", ev)
		}

	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported type: %v", v.Type())
		}

		if ev == "" {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			return nil
		}

		parts := strings.Split(ev, ",")
		sv := reflect.MakeSlice(v.Type(), len(parts), len(parts))
		for i, p := range parts {
			sv.Index(i).SetString(p)
		}
		v.Set(sv)

	default:
		return fmt.Errorf("unsupported type: %v", v.Type())
	}

	return nil
}

func loadEnvInternal(env map[string]string, prefix string, v reflect.Value) error {
	if u, ok := v.Addr().Interface().(Unmarshaler); ok {
		if ev, ok := env[prefix]; ok {
			err := u.UnmarshalEnv(prefix, ev)
			if err != nil {
				return fmt.Errorf("%s: %w", prefix, err)
			}
		}
		return nil
	}

	if v.Kind() == reflect.Struct {
		rt := v.Type()

		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			jsonTag := strings.Split(f.Tag.Get("json"), ",")[0]

			// load only public fields
			if jsonTag == "" || jsonTag == "-" {
				continue
			}

			err := loadEnvInternal(env, prefix+"_"+strings.ToUpper(jsonTag), v.Field(i))
			if err != nil {
				return err
			}
		}
		return nil
	}

	if ev, ok := env[prefix]; ok {
		err := loadScalar(ev, v)
		if err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
	}

	return nil
}

func loadWithEnv(env map[string]string, prefix string, v any) error {
	return loadEnvInternal(env, prefix, reflect.ValueOf(v).Elem())
}

func envToMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		tmp := strings.SplitN(kv, "=", 2)
		env[tmp[0]] = tmp[1]
	}
	return env
}

// Load loads the configuration from the environment.
// Variables are named after the json tags of v, uppercased and joined with underscores.
func Load(prefix string, v any) error {
	return loadWithEnv(envToMap(), prefix, v)
}
