// Package timerange parses HH:MM clock strings and compares half-open time ranges.
package timerange

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

const (
	// DefaultOpen is the default start of working hours.
	DefaultOpen = "08:00"
	// DefaultClose is the default end of working hours.
	DefaultClose = "22:00"

	minutesPerDay = 24 * 60
)

// Range is a half-open [Start, End) interval expressed in minutes after midnight.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ToMinutes converts "HH:MM" to minutes after midnight.
func ToMinutes(raw string) (int, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, invalidClock(raw)
	}
	hours, ok := twoDigits(raw[0:2])
	if !ok || hours > 23 {
		return 0, invalidClock(raw)
	}
	minutes, ok := twoDigits(raw[3:5])
	if !ok || minutes > 59 {
		return 0, invalidClock(raw)
	}
	return hours*60 + minutes, nil
}

// FromMinutes formats minutes after midnight as "HH:MM".
func FromMinutes(total int) string {
	total = ((total % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Normalize accepts "HH:MM" or the "HH:MM:00" shape SQL TIME columns produce.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == 8 && strings.HasSuffix(raw, ":00") {
		raw = raw[:5]
	}
	if _, err := ToMinutes(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// Duration returns end minus start in minutes. start must precede end.
func Duration(start, end string) (int, error) {
	r, err := Parse(start, end)
	if err != nil {
		return 0, err
	}
	return r.Minutes(), nil
}

// Parse validates both clocks and requires start < end.
func Parse(start, end string) (Range, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return Range{}, err
	}
	if s >= e {
		return Range{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("start %s must be before end %s", start, end))
	}
	return Range{Start: s, End: e}, nil
}

// ParseToken parses "HH:MM-HH:MM".
func ParseToken(token string) (Range, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return Range{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time range %q: expected HH:MM-HH:MM", token))
	}
	return Parse(parts[0], parts[1])
}

// Minutes returns the range length.
func (r Range) Minutes() int {
	return r.End - r.Start
}

// StartClock formats the start as HH:MM.
func (r Range) StartClock() string { return FromMinutes(r.Start) }

// EndClock formats the end as HH:MM.
func (r Range) EndClock() string { return FromMinutes(r.End) }

// String formats the range as HH:MM-HH:MM.
func (r Range) String() string {
	return r.StartClock() + "-" + r.EndClock()
}

// Overlaps reports whether two half-open ranges intersect; touching endpoints do not.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// HasTimeConflict is Overlaps under the name validators use.
func HasTimeConflict(a, b Range) bool {
	return Overlaps(a, b)
}

// OverlapMinutes returns the length of the intersection, 0 when disjoint.
func OverlapMinutes(a, b Range) int {
	if !Overlaps(a, b) {
		return 0
	}
	return min(a.End, b.End) - max(a.Start, b.Start)
}

// WithinWorkingHours reports whether r fits inside [open, close].
// Empty open/close fall back to 08:00 and 22:00.
func WithinWorkingHours(r Range, open, close string) bool {
	if open == "" {
		open = DefaultOpen
	}
	if close == "" {
		close = DefaultClose
	}
	o, err := ToMinutes(open)
	if err != nil {
		return false
	}
	c, err := ToMinutes(close)
	if err != nil {
		return false
	}
	return r.Start >= o && r.End <= c
}

func twoDigits(raw string) (int, bool) {
	if len(raw) != 2 || raw[0] < '0' || raw[0] > '9' || raw[1] < '0' || raw[1] > '9' {
		return 0, false
	}
	return int(raw[0]-'0')*10 + int(raw[1]-'0'), true
}

func invalidClock(raw string) error {
	return appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time %q: expected HH:MM", raw))
}
