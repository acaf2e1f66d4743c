package timeutil

import (
	"time"
)

// Chile is the continental Chile location. All business dates (intakes,
// salidas, bajas) are interpreted in this zone.
var Chile *time.Location

func init() {
	var err error
	Chile, err = time.LoadLocation("America/Santiago")
	if err != nil {
		// Fallback: fixed CLT offset if tzdata is unavailable
		Chile = time.FixedZone("CLT", -4*60*60)
	}
}

// Now returns the current time in Chile
func Now() time.Time {
	return time.Now().In(Chile)
}

// ToChile converts any time to Chile local time
func ToChile(t time.Time) time.Time {
	return t.In(Chile)
}

// ParseInChile parses a time string interpreting it as Chile local time
func ParseInChile(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, Chile)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatChile formats a time in Chile local time using the given layout
func FormatChile(t time.Time, layout string) string {
	return t.In(Chile).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in Chile for the given time
func StartOfDay(t time.Time) time.Time {
	local := t.In(Chile)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Chile)
}

// EndOfDay returns the end of day (23:59:59) in Chile for the given time
func EndOfDay(t time.Time) time.Time {
	local := t.In(Chile)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Chile)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
