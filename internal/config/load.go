package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig marks every configuration error: unreadable or
// malformed files, undecodable values and failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// NewViper returns a viper instance carrying the built-in defaults and the
// environment layer.
func NewViper() *viper.Viper {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.key, o.def)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("runpod_api_key", EnvPrefix+"_RUNPOD_API_KEY", "RUNPOD_API_KEY")
	return v
}

// RegisterFlags adds one flag per configuration key.
func RegisterFlags(flags *pflag.FlagSet) {
	for _, o := range options {
		name := FlagName(o.key)
		switch def := o.def.(type) {
		case string:
			flags.String(name, def, o.usage)
		case int:
			flags.Int(name, def, o.usage)
		case float64:
			flags.Float64(name, def, o.usage)
		case bool:
			flags.Bool(name, def, o.usage)
		case time.Duration:
			flags.Duration(name, def, o.usage)
		default:
			panic(fmt.Sprintf("config: unsupported default type %T for %s", o.def, o.key))
		}
	}
}

// BindFlags binds the flags added by RegisterFlags to v. Only flags the user
// actually set override lower layers.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, o := range options {
		flag := flags.Lookup(FlagName(o.key))
		if flag == nil {
			return fmt.Errorf("flag %q is not registered", FlagName(o.key))
		}
		if err := v.BindPFlag(o.key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag.Name, err)
		}
	}
	return nil
}

// Load reads the JSON file at path into v and decodes the merged layers.
// A missing file is tolerated unless required is set. Values are not
// checked; callers that act on the config call Validate or ValidateForRun.
func Load(v *viper.Viper, path string, required bool) (*Config, error) {
	if err := readFile(v, path, required); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string, required bool) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("%w: failed to read config file: %w", ErrInvalidConfig, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// durationDecodeHook decodes Duration fields from duration strings
// ("10s"), time.Duration defaults and plain numbers of seconds.
func durationDecodeHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(Duration(0))

	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}

		switch val := data.(type) {
		case string:
			if val == "" {
				return Duration(0), nil
			}
			d, err := time.ParseDuration(val)
			if err != nil {
				return nil, fmt.Errorf("parse duration %q: %w", val, err)
			}
			return Duration(d), nil
		case time.Duration:
			return Duration(val), nil
		case float64:
			return Duration(time.Duration(val * float64(time.Second))), nil
		case int:
			return Duration(time.Duration(val) * time.Second), nil
		case int64:
			return Duration(time.Duration(val) * time.Second), nil
		default:
			return data, nil
		}
	}
}
