package econ

import (
	"math"

	"github.com/max42watt/pv-calculator/convert"
	"github.com/max42watt/pv-calculator/slice"
	"github.com/max42watt/pv-calculator/types/maybe"
)

const (
	// ProjectionBaseYear is the first calendar year of the heating cost
	// comparison; ProjectionYears rows are produced.
	ProjectionBaseYear = 2025
	ProjectionYears    = 10

	// AutarkyCeiling caps the reachable annual autarky. Winter deficits make
	// higher values unattainable regardless of storage size.
	AutarkyCeiling = 85.0

	// Consumption of an electric car per 100 km driven.
	eCarKwhPer100Km = 20.0

	// Battery sizing at which roughly 63 % of the maximum autarky gain is
	// reached; the boost saturates exponentially above it.
	batterySaturationKwh = 5.0

	// One full charge cycle per day bounds the plausible annual throughput.
	batteryCyclesPerYear = 365.0

	profitHorizonYears = 20.0
)

// Compute runs the energy-economics model for one customer profile. It is a
// pure function: no state survives the call and identical arguments always
// produce identical results. Inputs are validated first; a *ValidationError
// is returned before anything is computed.
func Compute(customer CustomerInputs, settings ExpertSettings) (CalculationResults, error) {
	if err := customer.Validate(); err != nil {
		return CalculationResults{}, err
	}
	if err := settings.Validate(); err != nil {
		return CalculationResults{}, err
	}

	bal := computeBalance(customer, settings)
	rows := heatingProjection(customer, settings, bal)

	electricitySavings := bal.selfConsumption * convert.CentsToCurrency(customer.ElectricityPrice)
	feedInRevenue := bal.feedIn * convert.CentsToCurrency(settings.FeedInTariff)
	emsBonus := bal.emsShare * convert.CentsToCurrency(customer.ElectricityPrice)

	averageHeatingSavings := slice.Sum(rows, func(r HeatingCostRow) float64 { return r.Savings }) / float64(len(rows))
	totalYearlySavings := electricitySavings + feedInRevenue + averageHeatingSavings

	amortization := maybe.None[float64]()
	if totalYearlySavings > 0 {
		amortization = maybe.Some(convert.OneDecimal(customer.TotalInvestment / totalYearlySavings))
	}

	return CalculationResults{
		Savings: SavingsBreakdown{
			ElectricitySavings: convert.TwoDecimals(electricitySavings),
			FeedInRevenue:      convert.TwoDecimals(feedInRevenue),
			EmsBonus:           convert.TwoDecimals(emsBonus),
			HeatingSavings:     convert.TwoDecimals(averageHeatingSavings),
			Total:              convert.TwoDecimals(totalYearlySavings),
		},
		Performance: SystemPerformance{
			PvProduction:        convert.TwoDecimals(bal.pvProduction),
			SelfConsumption:     convert.TwoDecimals(bal.selfConsumption),
			FeedIn:              convert.TwoDecimals(bal.feedIn),
			AutarkyRate:         convert.TwoDecimals(bal.autarkyRate),
			SelfConsumptionRate: convert.TwoDecimals(bal.selfConsumptionRate),
		},
		Consumption: ConsumptionBreakdown{
			ECar:            convert.TwoDecimals(bal.eCarConsumption),
			HeatPump:        convert.TwoDecimals(bal.heatPumpConsumption),
			TotalDemand:     convert.TwoDecimals(bal.totalDemand),
			GridElectricity: convert.TwoDecimals(bal.gridElectricity),
		},
		HeatingComparison:  rows,
		AmortizationYears:  amortization,
		ProfitAfter20Years: convert.TwoDecimals(totalYearlySavings*profitHorizonYears - customer.TotalInvestment),
	}, nil
}

// balance holds the base-year energy flows everything else derives from.
type balance struct {
	pvProduction        float64
	eCarConsumption     float64
	heatPumpConsumption float64
	totalDemand         float64
	autarkyRate         float64
	selfConsumption     float64
	selfConsumptionRate float64
	feedIn              float64
	gridElectricity     float64
	emsShare            float64 // self-consumption attributable to the EMS alone, kWh
}

func computeBalance(c CustomerInputs, s ExpertSettings) balance {
	b := balance{
		pvProduction:        c.PvSize * s.PvYieldPerKwp,
		heatPumpConsumption: c.HeatingConsumption / s.HeatPumpJaz,
	}
	if c.HasECar {
		b.eCarConsumption = c.ECarKmPerYear / 100.0 * eCarKwhPer100Km
	}
	b.totalDemand = c.HouseholdConsumption + b.eCarConsumption + b.heatPumpConsumption

	b.autarkyRate = s.BaseAutarky + batteryBoost(c.BatterySize, s.BatteryAutarkyBoost)
	if c.HasEms {
		b.autarkyRate += s.EmsAutarkyBoost
		b.emsShare = math.Min(b.pvProduction, b.totalDemand*s.EmsAutarkyBoost/100.0)
	}
	b.autarkyRate = math.Min(b.autarkyRate, AutarkyCeiling)

	b.selfConsumption = math.Min(b.pvProduction, b.totalDemand*b.autarkyRate/100.0)

	// Energy cycled through the battery pays the round-trip loss. The cycled
	// share is bounded by one full charge per day over the year.
	throughput := math.Min(b.selfConsumption*s.BatteryUsageShare/100.0, c.BatterySize*batteryCyclesPerYear)
	b.selfConsumption -= throughput * s.BatteryStorageLoss / 100.0

	if b.pvProduction > 0 {
		b.selfConsumptionRate = b.selfConsumption / b.pvProduction * 100.0
	}
	b.gridElectricity = b.totalDemand - b.selfConsumption
	b.feedIn = math.Max(0, b.pvProduction-b.selfConsumption)

	return b
}

// batteryBoost maps storage size to an autarky gain with diminishing
// returns: the first kWh move the needle, big packs saturate against the
// configured maximum.
func batteryBoost(batteryKwh, maxBoost float64) float64 {
	if batteryKwh <= 0 {
		return 0
	}
	return maxBoost * (1.0 - math.Exp(-batteryKwh/batterySaturationKwh))
}

func heatingProjection(c CustomerInputs, s ExpertSettings, b balance) []HeatingCostRow {
	// The heat pump's pro-rata share of self-consumption is fixed from the
	// base-year balance and held constant over the horizon.
	heatPumpShare := 0.0
	if b.totalDemand > 0 {
		heatPumpShare = b.heatPumpConsumption / b.totalDemand
	}
	heatPumpGrid := math.Max(0, b.heatPumpConsumption-b.selfConsumption*heatPumpShare)

	gasPrice := convert.CentsToCurrency(c.GasPrice)
	electricityPrice := convert.CentsToCurrency(c.ElectricityPrice)

	rows := make([]HeatingCostRow, 0, ProjectionYears)
	for y := 1; y <= ProjectionYears; y++ {
		year := ProjectionBaseYear + y - 1
		co2TaxPerKwh := s.Co2EmissionsGas * co2PricePerTon(s.Co2Tax, year) / 1000.0
		gasCosts := (gasPrice*math.Pow(1.0+s.GasPriceIncrease/100.0, float64(y-1)) + co2TaxPerKwh) * c.HeatingConsumption
		heatPumpCosts := heatPumpGrid * electricityPrice * math.Pow(1.0+s.ElectricityPriceIncrease/100.0, float64(y-1))

		rows = append(rows, HeatingCostRow{
			Year:          year,
			GasCosts:      math.Round(gasCosts),
			HeatPumpCosts: math.Round(heatPumpCosts),
			Savings:       math.Round(gasCosts - heatPumpCosts),
		})
	}
	return rows
}

// co2PricePerTon looks up the carbon price for a calendar year. Years the
// schedule does not cover carry no tax; there is no extrapolation.
func co2PricePerTon(schedule []Co2TaxEntry, year int) float64 {
	entry, ok := slice.Find(schedule, func(e Co2TaxEntry) bool { return e.Year == year })
	if !ok {
		return 0
	}
	return entry.PricePerTon
}
