package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/imamik/podtrain/internal/config"
	"github.com/imamik/podtrain/internal/orchestration"
)

// Output formats of the printed configuration.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Options carries what the root command parsed.
type Options struct {
	ConfigPath string

	// ConfigRequired makes a missing config file an error. Set when the
	// path was given explicitly.
	ConfigRequired bool

	Output string

	// Flags holds the configuration flags. Nil skips the flag layer.
	Flags *pflag.FlagSet
}

// loadConfig merges defaults, file, environment and flags.
func loadConfig(opts Options) (*config.Config, error) {
	v := config.NewViper()
	if opts.Flags != nil {
		if err := config.BindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}
	return config.Load(v, opts.ConfigPath, opts.ConfigRequired)
}

// ShowConfig prints the effective configuration with credentials masked.
// No collaborator is contacted.
func ShowConfig(w io.Writer, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return orchestration.NewConfigError(err)
	}
	return printConfig(w, cfg.Redacted(), opts.Output)
}

func printConfig(w io.Writer, cfg config.Config, format string) error {
	switch format {
	case "", OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use %s or %s)", format, OutputJSON, OutputYAML)
	}
}
