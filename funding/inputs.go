package funding

import "fmt"

type BuildingType string

const (
	BuildingSingleFamily BuildingType = "single_family"
	BuildingMultiFamily  BuildingType = "multi_family"
	BuildingCondominium  BuildingType = "condominium"
)

func (b BuildingType) IsValid() bool {
	switch b {
	case BuildingSingleFamily, BuildingMultiFamily, BuildingCondominium:
		return true
	}
	return false
}

type HeatSource string

const (
	HeatSourceAir    HeatSource = "air"
	HeatSourceGround HeatSource = "ground"
	HeatSourceWater  HeatSource = "water"
)

func (h HeatSource) IsValid() bool {
	switch h {
	case HeatSourceAir, HeatSourceGround, HeatSourceWater:
		return true
	}
	return false
}

type PriorHeating string

const (
	PriorHeatingOil          PriorHeating = "oil"
	PriorHeatingGasFloor     PriorHeating = "gas_floor"
	PriorHeatingCoal         PriorHeating = "coal"
	PriorHeatingNightStorage PriorHeating = "night_storage"
	PriorHeatingGasBoiler    PriorHeating = "gas_boiler"
	PriorHeatingBiomass      PriorHeating = "biomass"
	PriorHeatingOther        PriorHeating = "other"
)

func (p PriorHeating) IsValid() bool {
	switch p {
	case PriorHeatingOil, PriorHeatingGasFloor, PriorHeatingCoal,
		PriorHeatingNightStorage, PriorHeatingGasBoiler, PriorHeatingBiomass,
		PriorHeatingOther:
		return true
	}
	return false
}

// ageDependent reports whether the speed bonus for this heating type hinges
// on the system's age bracket.
func (p PriorHeating) ageDependent() bool {
	return p == PriorHeatingGasBoiler || p == PriorHeatingBiomass
}

type HeatingAge string

const (
	HeatingAgeAtLeast20Years HeatingAge = "at_least_20_years"
	HeatingAgeUnder20Years   HeatingAge = "under_20_years"
)

func (h HeatingAge) IsValid() bool {
	return h == HeatingAgeAtLeast20Years || h == HeatingAgeUnder20Years
}

type IncomeBracket string

const (
	IncomeUpTo40k  IncomeBracket = "up_to_40k"
	IncomeAbove40k IncomeBracket = "above_40k"
)

func (i IncomeBracket) IsValid() bool {
	return i == IncomeUpTo40k || i == IncomeAbove40k
}

// Inputs is the building and heating profile a funding request is judged
// on. Enum fields use their snake_case wire values; the zero value means
// the field was not selected.
type Inputs struct {
	BuildingType       BuildingType  `json:"buildingType"`
	ResidentialUnits   int           `json:"residentialUnits"`
	SelfUse            bool          `json:"selfUse"`            // multi-family: at least one unit owner-occupied
	OwnershipShare     float64       `json:"ownershipShare"`     // percent, condominium only
	TotalCosts         float64       `json:"totalCosts"`         // EUR
	HeatSource         HeatSource    `json:"heatSource"`         // heat source of the new pump
	PriorHeating       PriorHeating  `json:"priorHeating"`       // system being replaced
	PriorHeatingAge    HeatingAge    `json:"priorHeatingAge"`    // required for gas boilers and biomass
	IncomeBracket      IncomeBracket `json:"incomeBracket"`      // taxable household income
	NaturalRefrigerant bool          `json:"naturalRefrigerant"`
}

// isSelfOccupier classifies the applicant. Single-family owners and
// condominium members always occupy themselves; multi-family owners only
// when the self-use flag is set.
func (in Inputs) isSelfOccupier() bool {
	switch in.BuildingType {
	case BuildingSingleFamily, BuildingCondominium:
		return true
	case BuildingMultiFamily:
		return in.SelfUse
	}
	return false
}

const (
	ReasonMissing     = "missing"
	ReasonInvalid     = "invalid"
	ReasonNotPositive = "not_positive"
	ReasonTooLow      = "too_low"
	ReasonOutOfRange  = "out_of_range"
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

func (in Inputs) Validate() error {
	if in.BuildingType == "" {
		return &ValidationError{Field: "buildingType", Reason: ReasonMissing}
	}
	if !in.BuildingType.IsValid() {
		return &ValidationError{Field: "buildingType", Reason: ReasonInvalid}
	}
	if in.TotalCosts <= 0 {
		return &ValidationError{Field: "totalCosts", Reason: ReasonNotPositive}
	}
	if in.BuildingType != BuildingSingleFamily && in.ResidentialUnits < 2 {
		return &ValidationError{Field: "residentialUnits", Reason: ReasonTooLow}
	}
	if in.BuildingType == BuildingCondominium {
		if in.OwnershipShare <= 0 {
			return &ValidationError{Field: "ownershipShare", Reason: ReasonNotPositive}
		}
		if in.OwnershipShare > 100 {
			return &ValidationError{Field: "ownershipShare", Reason: ReasonOutOfRange}
		}
	}

	if in.HeatSource != "" && !in.HeatSource.IsValid() {
		return &ValidationError{Field: "heatSource", Reason: ReasonInvalid}
	}
	if in.PriorHeating != "" && !in.PriorHeating.IsValid() {
		return &ValidationError{Field: "priorHeating", Reason: ReasonInvalid}
	}
	if in.PriorHeatingAge != "" && !in.PriorHeatingAge.IsValid() {
		return &ValidationError{Field: "priorHeatingAge", Reason: ReasonInvalid}
	}
	if in.IncomeBracket != "" && !in.IncomeBracket.IsValid() {
		return &ValidationError{Field: "incomeBracket", Reason: ReasonInvalid}
	}

	// The bonus rules only inspect the replaced system for self-occupiers,
	// so only they must declare it.
	if in.isSelfOccupier() {
		if in.PriorHeating == "" {
			return &ValidationError{Field: "priorHeating", Reason: ReasonMissing}
		}
		if in.PriorHeating.ageDependent() && in.PriorHeatingAge == "" {
			return &ValidationError{Field: "priorHeatingAge", Reason: ReasonMissing}
		}
	}

	return nil
}
