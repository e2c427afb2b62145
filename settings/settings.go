// Package settings owns the plumbing around econ.ExpertSettings: the
// office-wide defaults file, live reload, and the per-client cookie store.
// The engines themselves never see any of this; they receive settings by
// value on every call.
package settings

import (
	"fmt"

	"github.com/max42watt/pv-calculator/econ"
	"github.com/spf13/viper"
)

// fileSettings is the yaml shape of the office override file. All fields
// are optional; anything absent keeps its shipped default. A named CO2 tax
// preset may be selected instead of spelling out a schedule.
type fileSettings struct {
	econ.ExpertSettings `mapstructure:",squash"`
	Co2TaxPreset        string `mapstructure:"co2_tax_preset"`
}

// Load returns the shipped defaults overlaid with the overrides from the
// given yaml file. An empty path means plain defaults.
func Load(path string) (econ.ExpertSettings, error) {
	s := econ.DefaultSettings()
	if path == "" {
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return econ.ExpertSettings{}, fmt.Errorf("unable to read settings file: %w", err)
	}

	fs := fileSettings{ExpertSettings: s}
	if err := v.Unmarshal(&fs); err != nil {
		return econ.ExpertSettings{}, fmt.Errorf("unable to unmarshal settings file: %w", err)
	}
	s = fs.ExpertSettings

	// An explicit schedule in the file wins over a preset name.
	if fs.Co2TaxPreset != "" && !v.IsSet("co2_tax") {
		preset := econ.Co2TaxPreset(fs.Co2TaxPreset)
		if preset == nil {
			return econ.ExpertSettings{}, fmt.Errorf("unknown co2 tax preset %q", fs.Co2TaxPreset)
		}
		s.Co2Tax = preset
	}

	if err := s.Validate(); err != nil {
		return econ.ExpertSettings{}, fmt.Errorf("settings file %s: %w", path, err)
	}

	return s, nil
}
