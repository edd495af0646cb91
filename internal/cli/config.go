package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Robaina/JupyterNotebooks/internal/kinetics"
)

// Config holds the default parameters of every command. Explicitly set
// flags take precedence over it.
type Config struct {
	Roots    RootsConfig    `yaml:"roots"`
	Kinetics KineticsConfig `yaml:"kinetics"`
	Sweep    SweepConfig    `yaml:"sweep"`
}

// RootsConfig configures the roots command.
type RootsConfig struct {
	N int `yaml:"n"`
}

// KineticsConfig configures the kinetics and sweep commands.
type KineticsConfig struct {
	kinetics.RateConstants `yaml:",inline"`

	S0            float64 `yaml:"s0"`
	TFinal        float64 `yaml:"t_final"`
	DT            float64 `yaml:"dt"`
	QSSAThreshold float64 `yaml:"qssa_threshold"`
}

// SweepConfig configures the sweep command.
type SweepConfig struct {
	Param    string    `yaml:"param"`
	Values   []float64 `yaml:"values"`
	Parallel int       `yaml:"parallel"`
}

// DefaultConfig returns the parameters used when neither a config file nor
// flags set them.
func DefaultConfig() Config {
	return Config{
		Roots: RootsConfig{N: 5},
		Kinetics: KineticsConfig{
			RateConstants: kinetics.RateConstants{K1: 5.5, KMinus1: 0.01, KCat: 30, E0: 0.5},
			S0:            10,
			TFinal:        3,
			DT:            0.01,
			QSSAThreshold: kinetics.DefaultQSSAThreshold,
		},
		Sweep: SweepConfig{
			Param:  kinetics.ParamE0,
			Values: []float64{0.1, 0.25, 0.5, 1, 2},
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ---------- flag overrides ----------

func overrideInt(cmd *cobra.Command, name string, dst *int, v int) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64, v float64) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func overrideString(cmd *cobra.Command, name string, dst *string, v string) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

func overrideFloats(cmd *cobra.Command, name string, dst *[]float64, v []float64) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}
