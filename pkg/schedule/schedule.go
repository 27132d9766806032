package schedule

import "fmt"

// Day identifiers follow the schema documents: 0 is Sunday, 6 is Saturday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Hours holds the opening window for a single day. When IsOpen is false the
// times are not validated and may be empty; they are preserved so re-opening
// a day restores what the user had entered.
type Hours struct {
	Open   string `json:"open_time"`
	Close  string `json:"close_time"`
	IsOpen bool   `json:"is_open"`
}

// Week maps day identifiers (0-6) to their opening hours.
type Week map[int]Hours

// DefaultWeek returns the built-in schedule: weekdays 09:00-18:00, Saturday
// 10:00-16:00, Sunday closed.
func DefaultWeek() Week {
	week := Week{
		Sunday:   {IsOpen: false},
		Saturday: {Open: "10:00", Close: "16:00", IsOpen: true},
	}
	for day := Monday; day <= Friday; day++ {
		week[day] = Hours{Open: "09:00", Close: "18:00", IsOpen: true}
	}
	return week
}

// Clone returns a copy safe to hand to a step interpreter as working state.
func (w Week) Clone() Week {
	out := make(Week, len(w))
	for day, hours := range w {
		out[day] = hours
	}
	return out
}

// Toggle flips a day's IsOpen flag without touching the stored times.
func (w Week) Toggle(day int) error {
	hours, ok := w[day]
	if !ok {
		return fmt.Errorf("schedule: unknown day %d", day)
	}
	hours.IsOpen = !hours.IsOpen
	w[day] = hours
	return nil
}

// SetHours updates a day's opening window, leaving the IsOpen flag alone.
func (w Week) SetHours(day int, open, close string) error {
	hours, ok := w[day]
	if !ok {
		return fmt.Errorf("schedule: unknown day %d", day)
	}
	hours.Open = open
	hours.Close = close
	w[day] = hours
	return nil
}

// FromValue coerces a value-bag entry back into a Week. Hosts persist the bag
// as JSON, so entries may round-trip as map[string]any.
func FromValue(value any) (Week, bool) {
	switch v := value.(type) {
	case Week:
		return v, true
	case map[int]Hours:
		return Week(v), true
	case map[string]any:
		week := make(Week, len(v))
		for key, raw := range v {
			day, hours, ok := coerceDay(key, raw)
			if !ok {
				return nil, false
			}
			week[day] = hours
		}
		return week, true
	default:
		return nil, false
	}
}

func coerceDay(key string, raw any) (int, Hours, bool) {
	var day int
	if _, err := fmt.Sscanf(key, "%d", &day); err != nil || day < Sunday || day > Saturday {
		return 0, Hours{}, false
	}
	entry, ok := raw.(map[string]any)
	if !ok {
		return 0, Hours{}, false
	}
	hours := Hours{}
	if open, ok := entry["open_time"].(string); ok {
		hours.Open = open
	}
	if closeTime, ok := entry["close_time"].(string); ok {
		hours.Close = closeTime
	}
	if isOpen, ok := entry["is_open"].(bool); ok {
		hours.IsOpen = isOpen
	}
	return day, hours, true
}
