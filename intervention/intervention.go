// Package intervention describes non-pharmaceutical interventions as day intervals carrying a
// multiplicative growth-rate factor.
package intervention

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidInterval  = errors.New("intervention start day is after end day")
	ErrNonPositiveStart = errors.New("intervention start day must be at least 1")
	ErrNegativeFactor   = errors.New("intervention factor is negative")
	ErrNonFiniteFactor  = errors.New("intervention factor is not finite")
)

// Intervention is active on every day d with Start <= d <= End and multiplies the growth rate
// of those days by Factor. A factor of 1 has no effect, 0 halts growth and values above 1
// accelerate it. Values are immutable once constructed.
type Intervention struct {
	name   string
	start  int
	end    int
	factor float64
}

// New validates and returns an Intervention. The name may be empty and assigned later with
// Named.
func New(name string, start, end int, factor float64) (Intervention, error) {
	iv := Intervention{
		name:   name,
		start:  start,
		end:    end,
		factor: factor,
	}
	if err := iv.Valid(); err != nil {
		return Intervention{}, err
	}
	return iv, nil
}

// MustNew is like New but panics on invalid input. Intended for fixed scenarios and tests.
func MustNew(name string, start, end int, factor float64) Intervention {
	iv, err := New(name, start, end, factor)
	if err != nil {
		panic(err)
	}
	return iv
}

// Valid reports why the intervention cannot be simulated, if at all
func (iv Intervention) Valid() error {
	if iv.start < 1 {
		return fmt.Errorf("start day %d, %w", iv.start, ErrNonPositiveStart)
	}
	if iv.start > iv.end {
		return fmt.Errorf("start day %d, end day %d, %w", iv.start, iv.end, ErrInvalidInterval)
	}
	if math.IsNaN(iv.factor) || math.IsInf(iv.factor, 0) {
		return fmt.Errorf("factor %v, %w", iv.factor, ErrNonFiniteFactor)
	}
	if iv.factor < 0 {
		return fmt.Errorf("factor %v, %w", iv.factor, ErrNegativeFactor)
	}
	return nil
}

// Named returns a copy of the intervention carrying the given name
func (iv Intervention) Named(name string) Intervention {
	iv.name = name
	return iv
}

func (iv Intervention) Name() string {
	return iv.name
}

func (iv Intervention) Start() int {
	return iv.start
}

func (iv Intervention) End() int {
	return iv.end
}

func (iv Intervention) Factor() float64 {
	return iv.factor
}

// Active reports whether the intervention applies on the given 1-indexed day
func (iv Intervention) Active(day int) bool {
	return iv.start <= day && day <= iv.end
}

func (iv Intervention) String() string {
	return fmt.Sprintf("%s[%d,%d]x%.3f", iv.name, iv.start, iv.end, iv.factor)
}

type interventionJSON struct {
	Name   string  `json:"name"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Factor float64 `json:"factor"`
}

func (iv Intervention) MarshalJSON() ([]byte, error) {
	return json.Marshal(interventionJSON{
		Name:   iv.name,
		Start:  iv.start,
		End:    iv.end,
		Factor: iv.factor,
	})
}

// UnmarshalJSON decodes and validates an intervention
func (iv *Intervention) UnmarshalJSON(data []byte) error {
	var raw interventionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	next, err := New(raw.Name, raw.Start, raw.End, raw.Factor)
	if err != nil {
		return err
	}
	*iv = next
	return nil
}

// Horizon is the last day covered by any of the interventions. Returns 0 when there are none.
func Horizon(ivs []Intervention) int {
	var horizon int
	for _, iv := range ivs {
		if iv.end > horizon {
			horizon = iv.end
		}
	}
	return horizon
}

// HasZeroFactor reports whether any intervention halts growth entirely
func HasZeroFactor(ivs []Intervention) bool {
	for _, iv := range ivs {
		if iv.factor == 0 {
			return true
		}
	}
	return false
}
