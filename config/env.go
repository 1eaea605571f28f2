package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix starts the name of every environment variable read by
// ApplyEnv. The rest of the name is the upper-cased YAML key, so
// NOCSIM_ROWS sets rows.
const EnvPrefix = "NOCSIM_"

// LoadDotEnv exports the variables of a .env file that are not already set.
// An empty path means ".env". A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

// EnvName returns the environment variable that sets a YAML key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv overrides the parameters with the environment variables found by
// lookup.
func (p *Params) ApplyEnv(lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(p).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		if key == "" {
			continue
		}

		raw, ok := lookup(EnvName(key))
		if !ok {
			continue
		}

		if err := setField(v.Field(i), raw); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}

	return nil
}

func setField(f reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)

	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		f.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}

		f.SetInt(n)
	case reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}

		f.SetUint(n)
	case reflect.Float64:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}

		f.SetFloat(x)
	default:
		return fmt.Errorf("cannot set %s from the environment", f.Kind())
	}

	return nil
}
