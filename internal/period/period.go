package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrIncompleteRange is returned when a custom period is missing either bound.
// The caller must not run the aggregator on a failed resolution.
var ErrIncompleteRange = errors.New("incomplete range")

// ErrUnknownToken is returned for period tokens outside the fixed set.
var ErrUnknownToken = errors.New("unknown period")

// Period tokens. Custom requires both explicit bounds.
const (
	Day         = "day"
	Week        = "week"
	FifteenDays = "15days"
	Month       = "month"
	Year        = "year"
	Custom      = "custom"
)

// Range is an inclusive timestamp range: Start at 00:00:00.000 of its day,
// End at 23:59:59.999.
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve turns a period token into concrete bounds relative to now, in now's
// location. The week starts on Monday; a Sunday counts as the seventh day of
// the week opened the previous Monday. Custom bounds keep only their date
// parts; any time-of-day in the inputs is discarded.
func Resolve(token string, customFrom *time.Time, customTo *time.Time, now time.Time) (Range, error) {
	end := endOfDay(now)

	switch token {
	case Day:
		return Range{Start: startOfDay(now), End: end}, nil
	case Week:
		back := int(now.Weekday()) - 1
		if now.Weekday() == time.Sunday {
			back = 6
		}
		return Range{Start: startOfDay(now.AddDate(0, 0, -back)), End: end}, nil
	case FifteenDays:
		return Range{Start: startOfDay(now.AddDate(0, 0, -14)), End: end}, nil
	case Month:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Start: first, End: end}, nil
	case Year:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Range{Start: first, End: end}, nil
	case Custom:
		if customFrom == nil || customTo == nil {
			return Range{}, ErrIncompleteRange
		}
		return Range{Start: startOfDay(*customFrom), End: endOfDay(*customTo)}, nil
	default:
		return Range{}, fmt.Errorf("%w %q", ErrUnknownToken, token)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
