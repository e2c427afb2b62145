package econ

import "testing"

func TestDefaultSettingsAreValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("default settings rejected: %v", err)
	}
}

func TestCo2TaxPreset(t *testing.T) {
	tests := []struct {
		name      string
		preset    string
		lastPrice float64
	}{
		{"reference ramps by ten", Co2PresetReference, 145},
		{"constant holds the corridor cap", Co2PresetConstant, 65},
		{"ets2 market scenario ramps from 120", Co2PresetEts2High, 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := Co2TaxPreset(tt.preset)
			if len(schedule) != ProjectionYears {
				t.Fatalf("got %d entries, wanted %d", len(schedule), ProjectionYears)
			}
			if schedule[0].Year != ProjectionBaseYear || schedule[0].PricePerTon != 55 {
				t.Errorf("got first entry %+v, wanted %d at 55", schedule[0], ProjectionBaseYear)
			}
			if schedule[1].PricePerTon != 65 {
				t.Errorf("got second price %f, wanted 65", schedule[1].PricePerTon)
			}
			last := schedule[len(schedule)-1]
			if last.Year != lastScheduleYear || last.PricePerTon != tt.lastPrice {
				t.Errorf("got last entry %+v, wanted %d at %f", last, lastScheduleYear, tt.lastPrice)
			}
		})
	}

	if Co2TaxPreset("no-such-scenario") != nil {
		t.Errorf("unknown preset name should yield nil")
	}
}

func TestCo2TaxPresetsListsAllScenarios(t *testing.T) {
	presets := Co2TaxPresets()
	for _, name := range []string{Co2PresetReference, Co2PresetConstant, Co2PresetEts2High} {
		if len(presets[name]) == 0 {
			t.Errorf("preset %q missing from listing", name)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := DefaultSettings()
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	negativeYield := DefaultSettings()
	negativeYield.PvYieldPerKwp = -100

	negativeTaxPrice := DefaultSettings()
	negativeTaxPrice.Co2Tax = []Co2TaxEntry{{Year: 2025, PricePerTon: -5}}

	usageOutOfRange := DefaultSettings()
	usageOutOfRange.BatteryUsageShare = 101

	tests := []struct {
		name     string
		settings ExpertSettings
		field    string
		reason   string
	}{
		{"negative yield", negativeYield, "pvYieldPerKwp", ReasonNegative},
		{"negative tax price", negativeTaxPrice, "co2Tax", ReasonNegative},
		{"usage share above hundred", usageOutOfRange, "batteryUsageShare", ReasonOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("got %v, wanted a validation error", err)
			}
			if vErr.Field != tt.field || vErr.Reason != tt.reason {
				t.Errorf("got %s/%s, wanted %s/%s", vErr.Field, vErr.Reason, tt.field, tt.reason)
			}
		})
	}
}
