package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a 24-hour "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("parse clock %q: invalid hour", s)
	}

	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("parse clock %q: invalid minute", s)
	}

	return hours*60 + mins, nil
}

// FormatClock renders minutes from midnight as "h:MM AM/PM".
// Times past midnight roll over to the next day's clock.
func FormatClock(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}

	hours, mins := minutes/60, minutes%60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	display := hours % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, mins, period)
}
