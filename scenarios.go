package npiregress

import "github.com/npi-lab/go-npiregress/intervention"

// ScenarioA has two interventions each halving the weekly growth, the second starting ten
// days after the first
func ScenarioA() *Options {
	return &Options{
		Name:         "A",
		BaselineRate: DefaultBaselineRate,
		Period:       DefaultPeriod,
		Interventions: []intervention.Intervention{
			intervention.MustNew("npi1", 11, 30, 0.5),
			intervention.MustNew("npi2", 21, 30, 0.5),
		},
	}
}

// ScenarioB has a barely effective first intervention followed by a very strong one
func ScenarioB() *Options {
	return &Options{
		Name:         "B",
		BaselineRate: DefaultBaselineRate,
		Period:       DefaultPeriod,
		Interventions: []intervention.Intervention{
			intervention.MustNew("npi1", 11, 30, 0.99),
			intervention.MustNew("npi2", 21, 30, 0.01),
		},
	}
}

// ScenarioC has a growth increasing first intervention followed by one halting growth
// entirely, which leaves only the cumulative regression
func ScenarioC() *Options {
	return &Options{
		Name:         "C",
		BaselineRate: DefaultBaselineRate,
		Period:       DefaultPeriod,
		Interventions: []intervention.Intervention{
			intervention.MustNew("npi1", 11, 30, 1.05),
			intervention.MustNew("npi2", 21, 30, 0),
		},
	}
}

// DemoScenarios returns scenarios A, B and C in order
func DemoScenarios() []*Options {
	return []*Options{ScenarioA(), ScenarioB(), ScenarioC()}
}
