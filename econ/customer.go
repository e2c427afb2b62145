package econ

import "fmt"

// CustomerInputs is the household and planned-system profile as entered by
// the consultant. Energy values are annual, prices in ct/kWh.
type CustomerInputs struct {
	HouseholdConsumption float64 `json:"householdConsumption"` // kWh/yr excluding heat pump and EV
	HeatingConsumption   float64 `json:"heatingConsumption"`   // kWh/yr on the current gas/oil basis
	HasECar              bool    `json:"hasECar"`
	ECarKmPerYear        float64 `json:"eCarKmPerYear"`
	PvSize               float64 `json:"pvSize"`           // kWp
	BatterySize          float64 `json:"batterySize"`      // kWh, zero means no storage
	HasEms               bool    `json:"hasEms"`
	TotalInvestment      float64 `json:"totalInvestment"`  // EUR
	ElectricityPrice     float64 `json:"electricityPrice"` // ct/kWh
	GasPrice             float64 `json:"gasPrice"`         // ct/kWh
}

func (c CustomerInputs) Validate() error {
	if c.PvSize <= 0 {
		return &ValidationError{Field: "pvSize", Reason: ReasonNotPositive}
	}
	negatives := []struct {
		field string
		value float64
	}{
		{"householdConsumption", c.HouseholdConsumption},
		{"heatingConsumption", c.HeatingConsumption},
		{"eCarKmPerYear", c.ECarKmPerYear},
		{"batterySize", c.BatterySize},
		{"totalInvestment", c.TotalInvestment},
		{"electricityPrice", c.ElectricityPrice},
		{"gasPrice", c.GasPrice},
	}
	for _, n := range negatives {
		if n.value < 0 {
			return &ValidationError{Field: n.field, Reason: ReasonNegative}
		}
	}
	return nil
}

const (
	ReasonNegative      = "negative"
	ReasonNotPositive   = "not_positive"
	ReasonOutOfRange    = "out_of_range"
	ReasonDuplicateYear = "duplicate_year"
)

// ValidationError reports a single rejected input field. Field and Reason
// are stable identifiers; rendering a localized message is the host's job.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}
