package econ

import "github.com/max42watt/pv-calculator/types/maybe"

// CalculationResults is the full output record of a single engine run.
// Energy figures are kWh/yr, money is EUR. Everything is non-negative
// except ProfitAfter20Years.
type CalculationResults struct {
	Savings           SavingsBreakdown     `json:"savings"`
	Performance       SystemPerformance    `json:"performance"`
	Consumption       ConsumptionBreakdown `json:"consumption"`
	HeatingComparison []HeatingCostRow     `json:"heatingComparison"`
	// AmortizationYears is None when total yearly savings are not positive,
	// i.e. the investment never pays for itself under the given assumptions.
	AmortizationYears  maybe.Maybe[float64] `json:"amortizationYears"`
	ProfitAfter20Years float64              `json:"profitAfter20Years"`
}

type SavingsBreakdown struct {
	ElectricitySavings float64 `json:"electricitySavings"` // Avoided grid purchases, EUR/yr
	FeedInRevenue      float64 `json:"feedInRevenue"`      // Export remuneration, EUR/yr
	EmsBonus           float64 `json:"emsBonus"`           // Share of the electricity savings attributable to the EMS, EUR/yr
	HeatingSavings     float64 `json:"heatingSavings"`     // Average over the heating projection, EUR/yr
	Total              float64 `json:"total"`              // ElectricitySavings + FeedInRevenue + HeatingSavings
}

type SystemPerformance struct {
	PvProduction        float64 `json:"pvProduction"`
	SelfConsumption     float64 `json:"selfConsumption"`
	FeedIn              float64 `json:"feedIn"`
	AutarkyRate         float64 `json:"autarkyRate"`         // percent
	SelfConsumptionRate float64 `json:"selfConsumptionRate"` // percent, zero when there is no production
}

type ConsumptionBreakdown struct {
	ECar            float64 `json:"eCar"`
	HeatPump        float64 `json:"heatPump"`
	TotalDemand     float64 `json:"totalDemand"`
	GridElectricity float64 `json:"gridElectricity"`
}

// HeatingCostRow compares one projected year of heating with gas against
// heating with the heat pump. Values are rounded to whole EUR.
type HeatingCostRow struct {
	Year          int     `json:"year"`
	GasCosts      float64 `json:"gasCosts"`
	HeatPumpCosts float64 `json:"heatPumpCosts"`
	Savings       float64 `json:"savings"`
}
