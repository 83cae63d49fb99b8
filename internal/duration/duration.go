// Package duration derives block time between departure and arrival.
package duration

import (
	"fmt"
	"strings"
	"time"

	"flight_logbook/internal/normalize"
)

// Invalid is returned instead of a negative or uncomputable duration
const Invalid = "00:00"

// Minutes returns whole minutes from dep to arr, truncated toward zero
func Minutes(dep, arr time.Time) int {
	return int(arr.Sub(dep) / time.Minute)
}

// Compute formats the elapsed time from dep to arr as H:MM. Hours are not
// capped at 24. Arrival before departure yields Invalid; rollover past
// midnight must already be reflected in arr.
func Compute(dep, arr time.Time) string {
	// Sub-minute negatives truncate to 0 and must not pass as "0:00"
	if arr.Before(dep) {
		return Invalid
	}
	minutes := Minutes(dep, arr)
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// ComputeISO is Compute over ISO-8601 strings. Unparseable input yields Invalid.
func ComputeISO(dep, arr string) string {
	d, ok := normalize.Timestamp(dep)
	if !ok {
		return Invalid
	}
	a, ok := normalize.Timestamp(arr)
	if !ok {
		return Invalid
	}
	return Compute(d, a)
}

// ArrivalFor builds the arrival instant for a new flight from the departure
// instant and an HH:MM arrival clock time in the same zone. When the arrival
// clock time is earlier than the departure's, the flight landed the next day.
func ArrivalFor(departure time.Time, arrivalClock string) (time.Time, error) {
	clock, err := time.Parse("15:04", strings.TrimSpace(arrivalClock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid arrival time %q: %w", arrivalClock, err)
	}

	y, m, d := departure.Date()
	arrival := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, departure.Location())
	if arrival.Before(departure.Truncate(time.Minute)) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	return arrival, nil
}
