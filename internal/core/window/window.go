package window

import (
	"errors"
	"fmt"
	"time"
)

// Location is the civil timezone all report windows are anchored to (UTC-3).
// Windows are deliberately never UTC-normalized: "today" and "this month" must
// line up with business-day boundaries, not UTC day boundaries.
var Location = time.FixedZone("-03", -3*60*60)

const (
	// DateLayout is the accepted format for user-supplied date parameters.
	DateLayout = "2006-01-02"

	// TimeLayout is the second-resolution format used for cache keys and
	// the periodo_inicio/periodo_fim response fields.
	TimeLayout = "2006-01-02 15:04:05"
)

var (
	// ErrInvalidDateFormat marks date parameters that do not parse as YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrIncompleteRange marks requests that supply only one of data_inicio/data_fim.
	ErrIncompleteRange = errors.New("incomplete date range")

	// ErrInvalidRange marks ranges where the start date is after the end date.
	ErrInvalidRange = errors.New("invalid date range")
)

// Window is a closed timestamp interval [Start, End] scoping one aggregation query.
// Invariant: Start <= End, both in Location.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolution is the outcome of resolving user-supplied date parameters.
// Reference is only meaningful when SingleDay is true.
type Resolution struct {
	Window    Window
	SingleDay bool
	Reference time.Time
}

// Resolve turns the optional data / data_inicio / data_fim parameters into
// exactly one window. With no parameters the window is today's full day in
// Location. Resolve is pure: "today" is derived from the caller-supplied now.
func Resolve(data, dataInicio, dataFim string, now time.Time) (Resolution, error) {
	switch {
	case data != "":
		day, err := parseDate(data)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Window: DayWindow(day), SingleDay: true, Reference: day}, nil

	case dataInicio == "" && dataFim == "":
		day := midnight(now.In(Location))
		return Resolution{Window: DayWindow(day), SingleDay: true, Reference: day}, nil

	case dataInicio != "" && dataFim != "":
		start, err := parseDate(dataInicio)
		if err != nil {
			return Resolution{}, err
		}
		end, err := parseDate(dataFim)
		if err != nil {
			return Resolution{}, err
		}
		if start.After(end) {
			return Resolution{}, fmt.Errorf("%w: data_inicio %s is after data_fim %s",
				ErrInvalidRange, dataInicio, dataFim)
		}
		// An explicit start==end range is still a range, not a single-day
		// query: it never triggers the month prewarm.
		return Resolution{Window: Window{Start: start, End: endOfDay(end)}}, nil

	default:
		return Resolution{}, fmt.Errorf("%w: data_inicio and data_fim must be supplied together",
			ErrIncompleteRange)
	}
}

// DayWindow returns the full-day window for the calendar date of d in Location.
func DayWindow(d time.Time) Window {
	day := midnight(d.In(Location))
	return Window{Start: day, End: endOfDay(day)}
}

// MonthWindow returns the window spanning the calendar month containing ref,
// first day 00:00:00 through last day 23:59:59.999999. Month length follows
// the calendar, including leap years.
func MonthWindow(ref time.Time) Window {
	ref = ref.In(Location)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, Location)
	last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return Window{Start: first, End: endOfDay(last)}
}

// Key derives the cache key for this window. The key is a pure function of the
// two boundary instants at second resolution, so a single-day query and an
// equivalent explicit start==end range share one cache entry.
func (w Window) Key(prefix string) string {
	return prefix + ":" + w.FormatStart() + ":" + w.FormatEnd()
}

// FormatStart renders the window start at second resolution.
func (w Window) FormatStart() string {
	return w.Start.Format(TimeLayout)
}

// FormatEnd renders the window end at second resolution.
func (w Window) FormatEnd() string {
	return w.End.Format(TimeLayout)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrInvalidDateFormat, s)
	}
	return d, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// endOfDay returns 23:59:59.999999 of the given day, matching the inclusive
// end-of-day bound the aggregation query filters on.
func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999000, Location)
}
