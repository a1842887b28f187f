package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// NoTime stands in for the start and end of a meeting with no scheduled time.
const NoTime = "TBA"

// FormatTime converts a dot-delimited 24-hour clock value such as
// "13.50.00.000000-05:00" into "1:50 PM". Seconds, fractions and the zone
// offset are ignored.
func FormatTime(raw string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ".", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("time %q: expected HH.MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("time %q: invalid hour", raw)
	}
	minute := parts[1]
	if m, err := strconv.Atoi(minute); err != nil || len(minute) != 2 || m < 0 || m > 59 {
		return "", fmt.Errorf("time %q: invalid minute", raw)
	}

	switch {
	case hour == 0:
		return fmt.Sprintf("12:%s AM", minute), nil
	case hour < 12:
		return fmt.Sprintf("%d:%s AM", hour, minute), nil
	case hour == 12:
		return fmt.Sprintf("12:%s PM", minute), nil
	default:
		return fmt.Sprintf("%d:%s PM", hour-12, minute), nil
	}
}
