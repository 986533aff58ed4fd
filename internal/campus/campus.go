// Package campus holds the fixed teaching timetable of the university:
// the window in which rooms can be booked and the short breaks between units.
package campus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/intelligrit/room-index/internal/model"
)

const (
	// UnitMinutes is the length of one teaching unit.
	UnitMinutes = 45
	// BreakMinutes is the length of the break after every second unit.
	BreakMinutes = 15

	firstUnitStart  = 8*60 + 30
	lastBookable    = 22*60 + 45
	firstBreakStart = 10 * 60
	lastBreakStart  = 20*60 + 30
)

// BookingWindow returns the part of the day in which rooms can be booked, 08:30-22:45.
func BookingWindow() model.Span {
	return model.Span{firstUnitStart, lastBookable}
}

// Breaks returns the well-known breaks of the day in ascending order.
// Breaks start every two units plus one break, beginning at 10:00 and ending with 20:30.
func Breaks() []model.Span {
	var breaks []model.Span
	for start := firstBreakStart; start <= lastBreakStart; start += 2*UnitMinutes + BreakMinutes {
		breaks = append(breaks, model.Span{start, start + BreakMinutes})
	}
	return breaks
}

// IsBreak reports whether s is exactly one of the well-known breaks.
func IsBreak(s model.Span) bool {
	for _, br := range Breaks() {
		if br == s {
			return true
		}
	}
	return false
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	mins, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}
	if hours < 0 || hours > 24 || mins < 0 || mins > 59 || (hours == 24 && mins != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hours*60 + mins, nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
