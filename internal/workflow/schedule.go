package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date accepted and stored for appointments.
	DateLayout = "2006-01-02"
	// ClockLayout is the canonical HH:MM:SS form of appointment times.
	ClockLayout = "15:04:05"
)

// ErrInvalidTimeRange is returned when an appointment does not end after it starts.
var ErrInvalidTimeRange = errors.New("end time must be after start time")

// Slot is a parsed appointment date and time window.
type Slot struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

// StartClock formats the start as HH:MM:SS.
func (s Slot) StartClock() string { return s.Start.Format(ClockLayout) }

// EndClock formats the end as HH:MM:SS.
func (s Slot) EndClock() string { return s.End.Format(ClockLayout) }

// ParseSlot parses an ISO date and two clock times (HH:MM or HH:MM:SS).
// With checkRange the end must be strictly after the start.
func ParseSlot(date, start, end string, checkRange bool) (Slot, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Slot{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	s, err := parseClock(start)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid end time %q: %w", end, err)
	}
	if checkRange && !e.After(s) {
		return Slot{}, fmt.Errorf("%w (%s - %s)", ErrInvalidTimeRange, s.Format(ClockLayout), e.Format(ClockLayout))
	}
	return Slot{Date: d, Start: s, End: e}, nil
}

func parseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(ClockLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse("15:04", raw)
}
