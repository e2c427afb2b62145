// Command energy_report runs the energy-economics engine once and prints
// the full breakdown as a text report. Useful for checking a quote without
// the API server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/max42watt/pv-calculator/econ"
	"github.com/max42watt/pv-calculator/settings"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.RFC3339,
	})))

	settingsFile := flag.String("settings", "", "expert settings file, built-in defaults when empty")
	household := flag.Float64("household", 0, "household consumption in kWh/yr")
	heating := flag.Float64("heating", 0, "current heating consumption in kWh/yr (gas basis)")
	eCarKm := flag.Float64("ecar-km", 0, "electric car mileage in km/yr, zero for none")
	pvSize := flag.Float64("pv", 0, "planned PV size in kWp")
	battery := flag.Float64("battery", 0, "planned battery size in kWh, zero for none")
	ems := flag.Bool("ems", false, "energy management system planned")
	investment := flag.Float64("investment", 0, "total investment in EUR")
	electricity := flag.Float64("electricity-price", 0, "electricity price in ct/kWh")
	gas := flag.Float64("gas-price", 0, "gas price in ct/kWh")
	flag.Parse()

	expert, err := settings.Load(*settingsFile)
	if err != nil {
		fail(err)
	}

	res, err := econ.Compute(econ.CustomerInputs{
		HouseholdConsumption: *household,
		HeatingConsumption:   *heating,
		HasECar:              *eCarKm > 0,
		ECarKmPerYear:        *eCarKm,
		PvSize:               *pvSize,
		BatterySize:          *battery,
		HasEms:               *ems,
		TotalInvestment:      *investment,
		ElectricityPrice:     *electricity,
		GasPrice:             *gas,
	}, expert)
	if err != nil {
		fail(err)
	}

	printReport(res)
}

func printReport(res econ.CalculationResults) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "SYSTEM\t")
	fmt.Fprintf(w, "  PV production\t%.0f kWh/yr\n", res.Performance.PvProduction)
	fmt.Fprintf(w, "  Self-consumption\t%.0f kWh/yr (%.1f %%)\n", res.Performance.SelfConsumption, res.Performance.SelfConsumptionRate)
	fmt.Fprintf(w, "  Feed-in\t%.0f kWh/yr\n", res.Performance.FeedIn)
	fmt.Fprintf(w, "  Autarky\t%.1f %%\n", res.Performance.AutarkyRate)
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "DEMAND\t")
	fmt.Fprintf(w, "  Heat pump\t%.0f kWh/yr\n", res.Consumption.HeatPump)
	fmt.Fprintf(w, "  Electric car\t%.0f kWh/yr\n", res.Consumption.ECar)
	fmt.Fprintf(w, "  Total\t%.0f kWh/yr\n", res.Consumption.TotalDemand)
	fmt.Fprintf(w, "  From grid\t%.0f kWh/yr\n", res.Consumption.GridElectricity)
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "SAVINGS\t")
	fmt.Fprintf(w, "  Electricity\t%.2f EUR/yr\n", res.Savings.ElectricitySavings)
	fmt.Fprintf(w, "  of which EMS\t%.2f EUR/yr\n", res.Savings.EmsBonus)
	fmt.Fprintf(w, "  Feed-in revenue\t%.2f EUR/yr\n", res.Savings.FeedInRevenue)
	fmt.Fprintf(w, "  Heating\t%.2f EUR/yr\n", res.Savings.HeatingSavings)
	fmt.Fprintf(w, "  Total\t%.2f EUR/yr\n", res.Savings.Total)
	fmt.Fprintln(w, "\t")

	if res.AmortizationYears.IsValid() {
		fmt.Fprintf(w, "Amortization\t%.1f years\n", res.AmortizationYears.Value())
	} else {
		fmt.Fprintln(w, "Amortization\tnever")
	}
	fmt.Fprintf(w, "Profit after 20 years\t%.2f EUR\n", res.ProfitAfter20Years)
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "YEAR\tGAS\tHEAT PUMP\tSAVINGS")
	for _, row := range res.HeatingComparison {
		fmt.Fprintf(w, "%d\t%.0f EUR\t%.0f EUR\t%.0f EUR\n", row.Year, row.GasCosts, row.HeatPumpCosts, row.Savings)
	}

	w.Flush()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
