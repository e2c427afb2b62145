// Command funding_report runs the heat-pump funding engine once and prints
// the granted and denied bonuses with the resulting amounts.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/max42watt/pv-calculator/funding"
	"github.com/max42watt/pv-calculator/types/maybe"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.RFC3339,
	})))

	building := flag.String("building", "", "building type: single_family, multi_family or condominium")
	units := flag.Int("units", 0, "residential units in the building")
	selfUse := flag.Bool("self-use", false, "applicant occupies a unit themselves (multi-family only)")
	share := flag.Float64("share", 0, "ownership share in percent (condominium only)")
	costs := flag.Float64("costs", 0, "total heat pump costs in EUR")
	source := flag.String("source", "", "heat source: air, ground or water")
	refrigerant := flag.Bool("natural-refrigerant", false, "heat pump uses a natural refrigerant")
	prior := flag.String("prior", "", "replaced heating: oil, gas_floor, coal, night_storage, gas_boiler, biomass or other")
	age := flag.String("age", "", "age of the replaced heating: under_20_years or at_least_20_years")
	income := flag.String("income", "", "taxable household income: up_to_40k or above_40k")
	flag.Parse()

	res, err := funding.Compute(funding.Inputs{
		BuildingType:       funding.BuildingType(*building),
		ResidentialUnits:   *units,
		SelfUse:            *selfUse,
		OwnershipShare:     *share,
		TotalCosts:         *costs,
		HeatSource:         funding.HeatSource(*source),
		NaturalRefrigerant: *refrigerant,
		PriorHeating:       funding.PriorHeating(*prior),
		PriorHeatingAge:    funding.HeatingAge(*age),
		IncomeBracket:      funding.IncomeBracket(*income),
	})
	if err != nil {
		fail(err)
	}

	printReport(res)
}

func printReport(res funding.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "BONUSES\t\t")
	printBonus(w, "Efficiency", res.EfficiencyBonus)
	printBonus(w, "Speed", res.SpeedBonus)
	printBonus(w, "Income", res.IncomeBonus)
	fmt.Fprintln(w, "\t\t")

	fmt.Fprintf(w, "Eligible costs\t%.2f EUR\t\n", res.EligibleCosts)
	fmt.Fprintf(w, "Funding rate\t%.1f %%\t\n", res.FinalRate)
	printMaybe(w, "Common funding", res.CommonFunding)
	printMaybe(w, "Personal funding", res.PersonalFunding)
	printMaybe(w, "Common share", res.CommonShare)
	fmt.Fprintf(w, "Total funding\t%.2f EUR\t\n", res.TotalFunding)

	w.Flush()
}

func printBonus(w *tabwriter.Writer, name string, b funding.BonusData) {
	if b.Granted {
		fmt.Fprintf(w, "  %s\t%.0f %%\tgranted\n", name, b.Rate)
	} else {
		fmt.Fprintf(w, "  %s\t-\tdenied (%s)\n", name, b.Reason)
	}
}

func printMaybe(w *tabwriter.Writer, name string, m maybe.Maybe[float64]) {
	if m.IsValid() {
		fmt.Fprintf(w, "%s\t%.2f EUR\t\n", name, m.Value())
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
