package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Check verifies the schedule's internal consistency. The original platform
// never enforced open < close, so the default mode accepts anything; strict
// mode is opt-in for hosts that want the gap closed.
func (w Week) Check(strict bool) error {
	if !strict {
		return nil
	}
	for day := Sunday; day <= Saturday; day++ {
		hours, ok := w[day]
		if !ok || !hours.IsOpen {
			continue
		}
		open, err := parseClock(hours.Open)
		if err != nil {
			return fmt.Errorf("schedule: day %d open time: %w", day, err)
		}
		closeAt, err := parseClock(hours.Close)
		if err != nil {
			return fmt.Errorf("schedule: day %d close time: %w", day, err)
		}
		if !open.Before(closeAt) {
			return fmt.Errorf("schedule: day %d closes (%s) before it opens (%s)", day, hours.Close, hours.Open)
		}
	}
	return nil
}

func parseClock(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	parsed, err := time.Parse("15:04", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	return parsed, nil
}
