package calendar

import (
	"testing"
	"time"

	apperrors "finance-synth/internal/errors"
)

func TestNewWindow(t *testing.T) {
	end := time.Date(2024, 6, 30, 15, 4, 5, 0, time.Local)
	w, err := NewWindow(end, 180)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}

	if got := w.Start.Format("2006-01-02"); got != "2024-01-02" {
		t.Errorf("Start = %s, want 2024-01-02", got)
	}
	if got := w.End.Format("2006-01-02"); got != "2024-06-30" {
		t.Errorf("End = %s, want 2024-06-30", got)
	}
	if w.End.Hour() != 0 || w.End.Location() != time.UTC {
		t.Errorf("End not truncated to UTC midnight: %v", w.End)
	}
	if w.Len() != 181 {
		t.Errorf("Len = %d, want 181", w.Len())
	}
}

func TestWindow_LenBeyondDurationRange(t *testing.T) {
	// 400 years is past what time.Duration can hold
	days := 400 * 365
	w, err := NewWindow(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), days)
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != days+1 {
		t.Errorf("Len = %d, want %d", w.Len(), days+1)
	}
}

func TestWindow_DaysInclusive(t *testing.T) {
	w, err := NewWindow(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), 14)
	if err != nil {
		t.Fatal(err)
	}

	days := w.Days()
	if len(days) != w.Len() {
		t.Fatalf("len(Days) = %d, Len = %d", len(days), w.Len())
	}
	if !days[0].Equal(w.Start) || !days[len(days)-1].Equal(w.End) {
		t.Errorf("Days spans %v..%v, want %v..%v", days[0], days[len(days)-1], w.Start, w.End)
	}
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) != 24*time.Hour {
			t.Fatalf("gap between %v and %v", days[i-1], days[i])
		}
	}
}

func TestWindow_Contains(t *testing.T) {
	w, _ := NewWindow(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 10)

	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.day); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestNewWindow_RejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -1, -180} {
		_, err := NewWindow(time.Now(), days)
		if err == nil {
			t.Fatalf("NewWindow(days=%d) succeeded", days)
		}
		if !apperrors.IsConfigError(err) {
			t.Errorf("NewWindow(days=%d) error %v is not a config error", days, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.February || d.Day() != 28 {
		t.Errorf("ParseDate = %v", d)
	}

	if _, err := ParseDate("28/02/2025"); !apperrors.IsConfigError(err) {
		t.Errorf("ParseDate bad input error = %v, want config error", err)
	}
}
