package funding

import "github.com/max42watt/pv-calculator/types/maybe"

// Denial reason codes carried by BonusData. They are identifiers for the
// host to translate, not display text.
const (
	DenialNotSelfOccupier         = "not_self_occupier"
	DenialHeatSourceNotEligible   = "heat_source_not_eligible"
	DenialPriorHeatingNotEligible = "prior_heating_not_eligible"
	DenialPriorHeatingTooNew      = "prior_heating_too_new"
	DenialIncomeAboveLimit        = "income_above_limit"
)

// BonusData describes one bonus of the scheme: the rate that was actually
// granted (zero when denied) and, when denied, the reason code.
type BonusData struct {
	Rate    float64 `json:"rate"` // percent
	Granted bool    `json:"granted"`
	Reason  string  `json:"reason,omitempty"`
}

func granted(rate float64) BonusData {
	return BonusData{Rate: rate, Granted: true}
}

func denied(reason string) BonusData {
	return BonusData{Reason: reason}
}

// Result is the full funding breakdown. CommonFunding and PersonalFunding
// are only set for owner-occupied multi-family and condominium cases;
// CommonShare only for condominiums, where it is the applicant's
// ownership-weighted slice of the common funding.
type Result struct {
	EligibleCosts   float64              `json:"eligibleCosts"` // EUR, after the unit-count cap
	FinalRate       float64              `json:"finalRate"`     // percent of eligible costs, blended over all parts
	EfficiencyBonus BonusData            `json:"efficiencyBonus"`
	SpeedBonus      BonusData            `json:"speedBonus"`
	IncomeBonus     BonusData            `json:"incomeBonus"`
	TotalFunding    float64              `json:"totalFunding"` // EUR
	CommonFunding   maybe.Maybe[float64] `json:"commonFunding"`
	PersonalFunding maybe.Maybe[float64] `json:"personalFunding"`
	CommonShare     maybe.Maybe[float64] `json:"commonShare"`
}
