package calendar

import (
	"fmt"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var nationalCalendars = map[string][]*cal.Holiday{
	"US": {
		us.NewYear,
		us.MlkDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	},
}

// SupportsCountry reports whether national holidays can be generated for country.
func SupportsCountry(country string) bool {
	_, ok := nationalCalendars[strings.ToUpper(strings.TrimSpace(country))]
	return ok
}

// NationalHolidays returns the observed national holidays for the year.
func NationalHolidays(country string, year int) ([]Holiday, error) {
	defs, ok := nationalCalendars[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return nil, fmt.Errorf("national holidays not available for country %q", country)
	}
	out := make([]Holiday, 0, len(defs))
	for _, def := range defs {
		_, observed := def.Calc(year)
		if observed.IsZero() {
			continue
		}
		out = append(out, Holiday{Date: FromTime(observed), Name: def.Name, IsNational: true})
	}
	return out, nil
}

// NationalHolidaysBetween collects national holidays falling in [start, end].
// Neighbouring years are included since an observed date can cross Dec 31.
func NationalHolidaysBetween(country string, start, end Date) ([]Holiday, error) {
	if start.After(end) {
		return nil, nil
	}
	var out []Holiday
	for year := start.Year - 1; year <= end.Year+1; year++ {
		holidays, err := NationalHolidays(country, year)
		if err != nil {
			return nil, err
		}
		for _, h := range holidays {
			if h.Date.Before(start) || h.Date.After(end) {
				continue
			}
			out = append(out, h)
		}
	}
	return out, nil
}
