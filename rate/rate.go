// Package rate converts between growth rates expressed per reporting period and their one-day
// equivalents
package rate

import (
	"fmt"
	"math"
)

// ToDaily converts a multiplicative rate achieved over period days into the equivalent one-day
// step, exp(log(r)/period). A rate of exactly 0 means no growth at all and maps to 0.
func ToDaily(r float64, period int) float64 {
	if r == 0 {
		return 0
	}
	return math.Exp(math.Log(r) / float64(period))
}

// Multiplier converts a coefficient in log-growth per day into the multiplier it implies over
// period days, exp(coef*period).
func Multiplier(coef float64, period int) float64 {
	return math.Exp(coef * float64(period))
}

// Rate pairs a fitted log-rate coefficient with its period-scaled multiplier
type Rate struct {
	Label      string  `json:"label"`
	Coef       float64 `json:"coefficient"`
	Multiplier float64 `json:"multiplier"`
}

// New builds the reported rate of a coefficient for the given period
func New(label string, coef float64, period int) Rate {
	return Rate{
		Label:      label,
		Coef:       coef,
		Multiplier: Multiplier(coef, period),
	}
}

func (r Rate) String() string {
	return fmt.Sprintf("%s: %.5f (x%.4f)", r.Label, r.Coef, r.Multiplier)
}
