package intervention

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var ErrUnknownHoliday = errors.New("unknown holiday")

var holidays = map[string]*cal.Holiday{
	"new_year":         us.NewYear,
	"memorial_day":     us.MemorialDay,
	"independence_day": us.IndependenceDay,
	"labor_day":        us.LaborDay,
	"thanksgiving":     us.ThanksgivingDay,
	"christmas":        us.ChristmasDay,
}

// LookupHoliday resolves a holiday by its snake case name e.g. christmas, thanksgiving
func LookupHoliday(name string) (*cal.Holiday, error) {
	hol, exists := holidays[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("%s, %w", name, ErrUnknownHoliday)
	}
	return hol, nil
}

// DayIndex returns the number of calendar days between origin (day 0) and t
func DayIndex(origin, t time.Time) int {
	o := time.Date(origin.Year(), origin.Month(), origin.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(o).Hours() / 24)
}

// Holiday generates an intervention around every observed occurrence of the holiday falling on
// days 1..horizon counted from origin. Each one spans daysBefore days ahead of the holiday
// through daysAfter days after it. Occurrences whose span would begin before day 1 are
// dropped rather than clamped.
func Holiday(hol *cal.Holiday, origin time.Time, horizon, daysBefore, daysAfter int, factor float64) ([]Intervention, error) {
	if daysBefore < 0 || daysAfter < 0 {
		return nil, fmt.Errorf("days before %d, days after %d, %w", daysBefore, daysAfter, ErrInvalidInterval)
	}

	last := origin.AddDate(0, 0, horizon)
	ivs := []Intervention{}
	for year := origin.Year(); year <= last.Year(); year++ {
		_, observed := hol.Calc(year)
		day := DayIndex(origin, observed)
		if day < 1 || day > horizon {
			continue
		}

		name := strings.ReplaceAll(hol.Name, " ", "_") + "_" + strconv.Itoa(year)
		iv, err := New(name, day-daysBefore, day+daysAfter, factor)
		if err != nil {
			if errors.Is(err, ErrNonPositiveStart) {
				slog.Warn("dropping holiday intervention starting before day 1", "name", name, "day", day)
				continue
			}
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	return ivs, nil
}
