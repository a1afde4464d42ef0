// Package calendar provides the inclusive daily date window shared by all
// synthesizers.
package calendar

import (
	"time"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

// DefaultWindowDays is the default length of generated history.
const DefaultWindowDays = 180

const secondsPerDay = 24 * 60 * 60

// Window is an inclusive range of calendar days stepping one day at a time.
// Start and End are midnight UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the window [end-days, end]. Only the calendar date of end
// is used. The window holds days+1 dates.
func NewWindow(end time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, apperrors.NewValidationError("window_days", days, "must be positive")
	}
	e := Day(end)
	return Window{
		Start: e.AddDate(0, 0, -days),
		End:   e,
	}, nil
}

// Today returns the current local calendar date at midnight UTC.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("end_date", s, "expected YYYY-MM-DD")
	}
	return t, nil
}

// Len returns the number of dates in the window.
func (w Window) Len() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return int((w.End.Unix()-w.Start.Unix())/secondsPerDay) + 1
}

// Days enumerates every date in the window in order.
func (w Window) Days() []time.Time {
	days := make([]time.Time, 0, w.Len())
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether the calendar date of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// String formats the window as "start..end".
func (w Window) String() string {
	return w.Start.Format(models.DateLayout) + ".." + w.End.Format(models.DateLayout)
}
