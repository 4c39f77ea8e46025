package config

import (
	"encoding"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/oscwire/go-osc/internal/logger"
	"github.com/oscwire/go-osc/osc"
)

const (
	tagDefault    = "default"
	envConfigPath = "OSC_CONFIG"
)

type Config struct {
	Logger logger.Config `yaml:"logger"`
	Codec  osc.Options   `yaml:"codec"`
	Server ServerConfig  `yaml:"server"`
	Client ClientConfig  `yaml:"client"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr" default:"127.0.0.1:8765"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"0s"`
}

type ClientConfig struct {
	Addr string `yaml:"addr" default:"127.0.0.1:8765"`
}

// New reads the YAML file at path, or at $OSC_CONFIG when set. A missing file
// is not an error: every field then takes its default.
func New(path string) (*Config, error) {
	if p, ok := os.LookupEnv(envConfigPath); ok {
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := &Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config file")
	}

	if err = Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err = cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Logger),
		validation.Field(&c.Codec),
		validation.Field(&c.Server),
		validation.Field(&c.Client),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required, is.DialString),
		validation.Field(&c.ReadTimeout, validation.Min(time.Duration(0))),
	)
}

func (c ClientConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required, is.DialString),
	)
}

// Parse fills zero fields of target from their `default` tags, descending into
// nested structs. A zero field without a default is an error unless it is a
// bool, pointer or slice.
func Parse(target interface{}) error {
	ref := reflect.Indirect(reflect.ValueOf(target))
	for i := 0; i < ref.Type().NumField(); i++ {
		structField := ref.Type().Field(i)
		fieldValue := ref.Field(i)

		if !structField.IsExported() {
			continue
		}

		if structField.Type.Kind() == reflect.Struct {
			if err := Parse(fieldValue.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if isSet(structField, &fieldValue) {
			continue
		}

		defaultTagValue, defaultTagExists := structField.Tag.Lookup(tagDefault)

		if defaultTagExists {
			if err := setValue(structField, &fieldValue, defaultTagValue); err != nil {
				return errors.Wrapf(err, "%s.%s", ref.Type().Name(), structField.Name)
			}
			continue
		}

		if fieldValue.IsZero() && structField.Type.Kind() != reflect.Bool && structField.Type.Kind() != reflect.Ptr && structField.Type.Kind() != reflect.Slice {
			return fmt.Errorf("required configuration parameter is not specified - %s.%s", ref.Type().Name(), structField.Name)
		}
	}

	return nil
}

func isSet(structField reflect.StructField, field *reflect.Value) bool {
	if structField.Type.Kind() != reflect.Ptr && structField.Type.Kind() != reflect.Slice && !field.IsZero() {
		return true
	}
	return false
}

var durationType = reflect.TypeOf(time.Duration(0))

func setValue(structField reflect.StructField, field *reflect.Value, value string) error {
	if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(value))
	}

	if structField.Type == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch structField.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(value, 10, int(structField.Type.Size()*8))
		if err != nil {
			return err
		}
		field.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(value, 10, int(structField.Type.Size()*8))
		if err != nil {
			return err
		}
		field.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, int(structField.Type.Size()*8))
		if err != nil {
			return err
		}
		field.SetFloat(v)
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		field.SetBool(strings.ToLower(value) == "true")
	case reflect.Slice:
		if len(value) > 0 {
			values := strings.Split(value, ",")
			sl := reflect.MakeSlice(field.Type(), len(values), len(values))
			for i, val := range values {
				sl.Index(i).Set(reflect.ValueOf(val))
			}
			field.Set(sl)
		}
	}
	return nil
}
