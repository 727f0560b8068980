package availability

import (
	"errors"
	"fmt"

	"roamstay/internal/domain/shared/dates"
)

var (
	ErrUnknownPatternType = errors.New("availability: unknown recurring pattern type")
	ErrNoSelectors        = errors.New("availability: recurring pattern needs at least one selector")
	ErrBadSelector        = errors.New("availability: selector out of range")
)

// PatternType selects the recurrence rule family.
type PatternType string

const (
	PatternWeekly  PatternType = "weekly"
	PatternMonthly PatternType = "monthly"
)

// ExpandPattern turns a recurring block pattern into the concrete dates it
// covers inside the half-open window. Patterns are expanded once at apply
// time; no standing rule is persisted.
//
// Weekly selectors are weekday indices (0=Sunday..6=Saturday). Monthly
// selectors are days of month (1..31); months without the day skip it.
func ExpandPattern(pt PatternType, selectors []int, window dates.DateRange) ([]dates.Date, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if len(selectors) == 0 {
		return nil, ErrNoSelectors
	}

	match := make(map[int]struct{}, len(selectors))
	switch pt {
	case PatternWeekly:
		for _, s := range selectors {
			if s < 0 || s > 6 {
				return nil, fmt.Errorf("%w: weekday %d", ErrBadSelector, s)
			}
			match[s] = struct{}{}
		}
	case PatternMonthly:
		for _, s := range selectors {
			if s < 1 || s > 31 {
				return nil, fmt.Errorf("%w: day of month %d", ErrBadSelector, s)
			}
			match[s] = struct{}{}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPatternType, pt)
	}

	var out []dates.Date
	for d := window.Start; d < window.End; d++ {
		key := d.DayOfMonth()
		if pt == PatternWeekly {
			key = int(d.Weekday())
		}
		if _, ok := match[key]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}
