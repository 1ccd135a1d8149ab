package services

import (
	"fmt"
	"time"
)

// DefaultEvent is the community's next special event.
var DefaultEvent = time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local)

// ImportantDates is shown to signed in members.
var ImportantDates = []string{
	"3rd of every month: Savings",
	"14 September 2026: Special Event",
}

// Countdown renders the time left until event, rounded down to minutes.
func Countdown(now, event time.Time) string {
	diff := event.Sub(now)
	if diff <= 0 {
		return "Event Passed"
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff % (24 * time.Hour) / time.Hour)
	mins := int(diff % time.Hour / time.Minute)
	return fmt.Sprintf("%dd %dh %dm left", days, hours, mins)
}
