package npiregress

import (
	"fmt"
	"os"
	"time"

	"github.com/npi-lab/go-npiregress/intervention"
)

func ExampleRun() {
	res, err := Run(ScenarioA())
	if err != nil {
		panic(err)
	}

	daily, _ := res.Fit(SeriesDaily)
	for _, c := range daily.Coefficients {
		fmt.Printf("%s: x%.2f\n", c.Label, c.Multiplier)
	}
	// Output:
	// npi1: x0.50
	// npi2: x0.50
}

func ExampleResults_Divergence() {
	res, err := Run(ScenarioB())
	if err != nil {
		panic(err)
	}

	div, err := res.Divergence()
	if err != nil {
		panic(err)
	}
	fmt.Printf("npi2 cumulative minus daily: %.3f\n", div["npi2"])
	// Output:
	// npi2 cumulative minus daily: 0.524
}

func ExampleResults_TablePrint() {
	origin := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	christmas, err := intervention.LookupHoliday("christmas")
	if err != nil {
		panic(err)
	}
	holidays, err := intervention.Holiday(christmas, origin, 40, 2, 2, 0.7)
	if err != nil {
		panic(err)
	}

	opt := NewDefaultOptions()
	opt.Name = "christmas"
	opt.StartDate = origin
	opt.Interventions = append(holidays, intervention.MustNew("lockdown", 10, 40, 0.5))

	res, err := Run(opt)
	if err != nil {
		panic(err)
	}
	if err := res.TablePrint(os.Stdout, "", "  "); err != nil {
		panic(err)
	}
}
