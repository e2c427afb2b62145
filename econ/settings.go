package econ

// ExpertSettings are the tunable model parameters. They ship with defaults
// (see DefaultSettings) and are typically overridden by the office, not by
// the customer. All engine calls receive them by value.
type ExpertSettings struct {
	PvYieldPerKwp            float64       `json:"pvYieldPerKwp" mapstructure:"pv_yield_per_kwp"`                       // Specific annual yield in kWh per installed kWp
	HeatPumpJaz              float64       `json:"heatPumpJaz" mapstructure:"heat_pump_jaz"`                            // Seasonal performance factor of the heat pump
	BaseAutarky              float64       `json:"baseAutarky" mapstructure:"base_autarky"`                             // Autarky in percent for a PV-only system
	BatteryAutarkyBoost      float64       `json:"batteryAutarkyBoost" mapstructure:"battery_autarky_boost"`            // Asymptotic maximum autarky gain from storage in percent
	EmsAutarkyBoost          float64       `json:"emsAutarkyBoost" mapstructure:"ems_autarky_boost"`                    // Flat autarky gain when an EMS is installed, in percent
	FeedInTariff             float64       `json:"feedInTariff" mapstructure:"feed_in_tariff"`                          // Remuneration for exported energy in ct/kWh
	ElectricityPriceIncrease float64       `json:"electricityPriceIncrease" mapstructure:"electricity_price_increase"` // Assumed electricity price increase in percent per year
	GasPriceIncrease         float64       `json:"gasPriceIncrease" mapstructure:"gas_price_increase"`                  // Assumed gas price increase in percent per year
	BatteryStorageLoss       float64       `json:"batteryStorageLoss" mapstructure:"battery_storage_loss"`              // Round-trip loss of the battery in percent
	BatteryUsageShare        float64       `json:"batteryUsageShare" mapstructure:"battery_usage_share"`                // Share of self-consumption routed through the battery in percent
	Co2Tax                   []Co2TaxEntry `json:"co2Tax" mapstructure:"co2_tax"`                                       // Carbon price schedule, one entry per calendar year
	Co2EmissionsGas          float64       `json:"co2EmissionsGas" mapstructure:"co2_emissions_gas"`                    // Emission factor of natural gas in kg CO2 per kWh
}

type Co2TaxEntry struct {
	Year        int     `json:"year" mapstructure:"year"`
	PricePerTon float64 `json:"pricePerTon" mapstructure:"price_per_ton"` // EUR per ton CO2
}

// DefaultSettings returns the shipped parameter set: German BEHG carbon
// price path and current market assumptions.
func DefaultSettings() ExpertSettings {
	return ExpertSettings{
		PvYieldPerKwp:            1000,
		HeatPumpJaz:              3.5,
		BaseAutarky:              35,
		BatteryAutarkyBoost:      25,
		EmsAutarkyBoost:          5,
		FeedInTariff:             7.94,
		ElectricityPriceIncrease: 3,
		GasPriceIncrease:         4,
		BatteryStorageLoss:       10,
		BatteryUsageShare:        60,
		Co2Tax:                   Co2TaxPreset(Co2PresetReference),
		Co2EmissionsGas:          0.201,
	}
}

const (
	Co2PresetReference = "reference"
	Co2PresetConstant  = "constant"
	Co2PresetEts2High  = "ets2-high"
)

// Co2TaxPreset returns one of the named carbon price scenarios, or nil for
// an unknown name. Years not covered by a schedule contribute no tax.
func Co2TaxPreset(name string) []Co2TaxEntry {
	switch name {
	case Co2PresetReference:
		// Fixed BEHG prices through 2026, then a steady ramp.
		return rampSchedule(2025, 55, 65, 10)
	case Co2PresetConstant:
		// Auction corridor cap held flat after 2026.
		return rampSchedule(2025, 55, 65, 0)
	case Co2PresetEts2High:
		// Market-price scenario for the EU ETS2 phase from 2027 on.
		s := rampSchedule(2025, 55, 65, 0)[:2]
		price := 120.0
		for year := 2027; year <= lastScheduleYear; year++ {
			s = append(s, Co2TaxEntry{Year: year, PricePerTon: price})
			price += 15
		}
		return s
	default:
		return nil
	}
}

// Co2TaxPresets lists every named scenario, for hosts that offer a picker.
func Co2TaxPresets() map[string][]Co2TaxEntry {
	return map[string][]Co2TaxEntry{
		Co2PresetReference: Co2TaxPreset(Co2PresetReference),
		Co2PresetConstant:  Co2TaxPreset(Co2PresetConstant),
		Co2PresetEts2High:  Co2TaxPreset(Co2PresetEts2High),
	}
}

const lastScheduleYear = ProjectionBaseYear + ProjectionYears - 1

func rampSchedule(firstYear int, first, second, step float64) []Co2TaxEntry {
	s := []Co2TaxEntry{
		{Year: firstYear, PricePerTon: first},
		{Year: firstYear + 1, PricePerTon: second},
	}
	price := second
	for year := firstYear + 2; year <= lastScheduleYear; year++ {
		price += step
		s = append(s, Co2TaxEntry{Year: year, PricePerTon: price})
	}
	return s
}

func (s ExpertSettings) Validate() error {
	percents := []struct {
		field string
		value float64
	}{
		{"baseAutarky", s.BaseAutarky},
		{"batteryAutarkyBoost", s.BatteryAutarkyBoost},
		{"emsAutarkyBoost", s.EmsAutarkyBoost},
		{"electricityPriceIncrease", s.ElectricityPriceIncrease},
		{"gasPriceIncrease", s.GasPriceIncrease},
		{"batteryStorageLoss", s.BatteryStorageLoss},
		{"batteryUsageShare", s.BatteryUsageShare},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > 100 {
			return &ValidationError{Field: p.field, Reason: ReasonOutOfRange}
		}
	}

	if s.PvYieldPerKwp < 0 {
		return &ValidationError{Field: "pvYieldPerKwp", Reason: ReasonNegative}
	}
	if s.HeatPumpJaz <= 0 {
		return &ValidationError{Field: "heatPumpJaz", Reason: ReasonNotPositive}
	}
	if s.FeedInTariff < 0 {
		return &ValidationError{Field: "feedInTariff", Reason: ReasonNegative}
	}
	if s.Co2EmissionsGas < 0 {
		return &ValidationError{Field: "co2EmissionsGas", Reason: ReasonNegative}
	}

	seen := make(map[int]bool, len(s.Co2Tax))
	for _, e := range s.Co2Tax {
		if seen[e.Year] {
			return &ValidationError{Field: "co2Tax", Reason: ReasonDuplicateYear}
		}
		seen[e.Year] = true
		if e.PricePerTon < 0 {
			return &ValidationError{Field: "co2Tax", Reason: ReasonNegative}
		}
	}

	return nil
}
