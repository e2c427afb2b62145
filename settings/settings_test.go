package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/max42watt/pv-calculator/econ"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expert_settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}

func TestLoadWithoutFile(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !reflect.DeepEqual(s, econ.DefaultSettings()) {
		t.Errorf("empty path should yield the shipped defaults")
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeSettingsFile(t, `
heat_pump_jaz: 4.0
base_autarky: 40
feed_in_tariff: 8.2
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if s.HeatPumpJaz != 4.0 || s.BaseAutarky != 40 || s.FeedInTariff != 8.2 {
		t.Errorf("overrides not applied: %+v", s)
	}

	defaults := econ.DefaultSettings()
	if s.PvYieldPerKwp != defaults.PvYieldPerKwp {
		t.Errorf("got yield %f, wanted untouched default %f", s.PvYieldPerKwp, defaults.PvYieldPerKwp)
	}
	if !reflect.DeepEqual(s.Co2Tax, defaults.Co2Tax) {
		t.Errorf("co2 schedule should keep its default")
	}
}

func TestLoadExplicitCo2Schedule(t *testing.T) {
	path := writeSettingsFile(t, `
co2_tax:
  - year: 2025
    price_per_ton: 50
  - year: 2026
    price_per_ton: 60
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(s.Co2Tax) != 2 || s.Co2Tax[0].Year != 2025 || s.Co2Tax[1].PricePerTon != 60 {
		t.Errorf("got schedule %+v", s.Co2Tax)
	}
}

func TestLoadCo2TaxPreset(t *testing.T) {
	path := writeSettingsFile(t, `co2_tax_preset: "constant"`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !reflect.DeepEqual(s.Co2Tax, econ.Co2TaxPreset(econ.Co2PresetConstant)) {
		t.Errorf("got schedule %+v, wanted the constant preset", s.Co2Tax)
	}
}

func TestLoadExplicitScheduleWinsOverPreset(t *testing.T) {
	path := writeSettingsFile(t, `
co2_tax_preset: "constant"
co2_tax:
  - year: 2030
    price_per_ton: 99
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(s.Co2Tax) != 1 || s.Co2Tax[0].Year != 2030 {
		t.Errorf("got schedule %+v, wanted the explicit one", s.Co2Tax)
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	path := writeSettingsFile(t, `co2_tax_preset: "no-such-scenario"`)
	if _, err := Load(path); err == nil {
		t.Errorf("expected an error for an unknown preset name")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeSettingsFile(t, `base_autarky: 150`)

	_, err := Load(path)
	var vErr *econ.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %v, wanted a validation error", err)
	}
	if vErr.Field != "baseAutarky" {
		t.Errorf("got field %s, wanted baseAutarky", vErr.Field)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestManagerSnapshots(t *testing.T) {
	m := NewManager(econ.DefaultSettings())

	first := m.Current()
	first.Co2Tax[0].PricePerTon = 9999

	second := m.Current()
	if second.Co2Tax[0].PricePerTon == 9999 {
		t.Errorf("mutating a snapshot must not leak into the manager")
	}

	updated := econ.DefaultSettings()
	updated.HeatPumpJaz = 4.5
	m.Set(updated)

	if got := m.Current().HeatPumpJaz; got != 4.5 {
		t.Errorf("got JAZ %f after Set, wanted 4.5", got)
	}
	if second.HeatPumpJaz == 4.5 {
		t.Errorf("existing snapshots must not observe later updates")
	}
}
