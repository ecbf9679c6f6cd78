// Package availability derives remaining seats for an event.  The same
// arithmetic backs the public event listing, the date-scoped slot
// listing and the capacity check inside the payment-verification flow,
// so the three surfaces can never disagree about how many seats remain.
package availability

// Available returns total minus completed.  The result is deliberately
// not clamped at zero: when completed exceeds total (a historical
// oversell) the value goes negative and listings drop the event because
// a negative count is not > 0.
func Available(totalSeats uint32, completed int) int {
	return int(totalSeats) - completed
}

// HasSeats reports whether an event should appear in public listings.
func HasSeats(totalSeats uint32, completed int) bool {
	return Available(totalSeats, completed) > 0
}
