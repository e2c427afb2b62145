// Package funding implements the tiered heat-pump subsidy scheme: a base
// rate plus three stackable bonuses, an eligible-cost cap by residential
// unit count and building-type specific allocation of the granted amount.
package funding

import (
	"math"

	"github.com/max42watt/pv-calculator/convert"
	"github.com/max42watt/pv-calculator/types/maybe"
)

const (
	baseRate       = 30.0
	efficiencyRate = 5.0
	speedRate      = 20.0
	incomeRate     = 30.0

	selfOccupierRateCap = 70.0
	landlordRateCap     = 30.0

	costCapFirstUnit    = 30000.0
	costCapUnitTwoToSix = 15000.0
	costCapUnitAboveSix = 8000.0
)

// Compute evaluates one funding request. It is a pure function; invalid
// inputs are rejected with a *ValidationError before any rule runs.
func Compute(in Inputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	units := in.ResidentialUnits
	if units < 1 {
		units = 1
	}
	eligible := math.Min(in.TotalCosts, eligibleCostCap(units))

	selfOccupier := in.isSelfOccupier()
	efficiency := efficiencyBonus(in, selfOccupier)
	speed := speedBonus(in, selfOccupier)
	income := incomeBonus(in, selfOccupier)

	res := Result{
		EligibleCosts:   convert.TwoDecimals(eligible),
		EfficiencyBonus: efficiency,
		SpeedBonus:      speed,
		IncomeBonus:     income,
	}

	var total float64
	switch in.BuildingType {
	case BuildingCondominium:
		common, personal := splitAllocation(eligible, units, efficiency, speed, income)
		share := common * in.OwnershipShare / 100.0
		total = share + personal
		res.CommonFunding = maybe.Some(convert.TwoDecimals(common))
		res.PersonalFunding = maybe.Some(convert.TwoDecimals(personal))
		res.CommonShare = maybe.Some(convert.TwoDecimals(share))
	case BuildingMultiFamily:
		if !in.SelfUse {
			total = eligible * cappedRate(selfOccupier, efficiency, speed, income) / 100.0
			break
		}
		common, personal := splitAllocation(eligible, units, efficiency, speed, income)
		total = common + personal
		res.CommonFunding = maybe.Some(convert.TwoDecimals(common))
		res.PersonalFunding = maybe.Some(convert.TwoDecimals(personal))
	default:
		total = eligible * cappedRate(selfOccupier, efficiency, speed, income) / 100.0
	}

	res.TotalFunding = convert.TwoDecimals(total)
	res.FinalRate = convert.OneDecimal(total / eligible * 100.0)
	return res, nil
}

// eligibleCostCap returns the maximum assessable cost for a building: a
// base amount for the first unit, a fixed increment for each of units two
// through six and a smaller one for every unit beyond the sixth.
func eligibleCostCap(units int) float64 {
	limit := costCapFirstUnit
	if units > 1 {
		limit += float64(min(units-1, 5)) * costCapUnitTwoToSix
	}
	if units > 6 {
		limit += float64(units-6) * costCapUnitAboveSix
	}
	return limit
}

func cappedRate(selfOccupier bool, bonuses ...BonusData) float64 {
	rate := baseRate
	for _, b := range bonuses {
		rate += b.Rate
	}
	limit := landlordRateCap
	if selfOccupier {
		limit = selfOccupierRateCap
	}
	return math.Min(rate, limit)
}

// splitAllocation divides the funding of shared buildings: base and
// efficiency rates apply to the whole building's eligible costs, speed and
// income only to the applicant's own unit, with the personal part capped so
// both together stay within the self-occupier ceiling.
func splitAllocation(eligible float64, units int, efficiency, speed, income BonusData) (common, personal float64) {
	commonRate := baseRate + efficiency.Rate
	personalRate := math.Min(speed.Rate+income.Rate, selfOccupierRateCap-commonRate)
	common = eligible * commonRate / 100.0
	personal = eligible / float64(units) * personalRate / 100.0
	return common, personal
}

func efficiencyBonus(in Inputs, selfOccupier bool) BonusData {
	if !selfOccupier {
		return denied(DenialNotSelfOccupier)
	}
	if in.HeatSource == HeatSourceGround || in.HeatSource == HeatSourceWater || in.NaturalRefrigerant {
		return granted(efficiencyRate)
	}
	return denied(DenialHeatSourceNotEligible)
}

func speedBonus(in Inputs, selfOccupier bool) BonusData {
	if !selfOccupier {
		return denied(DenialNotSelfOccupier)
	}
	switch in.PriorHeating {
	case PriorHeatingOil, PriorHeatingGasFloor, PriorHeatingCoal, PriorHeatingNightStorage:
		return granted(speedRate)
	case PriorHeatingGasBoiler, PriorHeatingBiomass:
		if in.PriorHeatingAge == HeatingAgeAtLeast20Years {
			return granted(speedRate)
		}
		return denied(DenialPriorHeatingTooNew)
	}
	return denied(DenialPriorHeatingNotEligible)
}

func incomeBonus(in Inputs, selfOccupier bool) BonusData {
	if !selfOccupier {
		return denied(DenialNotSelfOccupier)
	}
	if in.IncomeBracket == IncomeUpTo40k {
		return granted(incomeRate)
	}
	return denied(DenialIncomeAboveLimit)
}
