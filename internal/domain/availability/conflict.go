package availability

import "roamstay/internal/domain/shared/dates"

// ConflictReason names why a range may not be booked.
type ConflictReason string

const (
	ConflictBooked  ConflictReason = "booked"
	ConflictBlocked ConflictReason = "blocked"
)

// Decision is the typed outcome of a booking conflict check. It is a value,
// not an error, so callers can distinguish a conflict from a failure.
type Decision struct {
	Allowed   bool
	Reason    ConflictReason
	BookingID string
}

// CanBook decides whether [r.Start, r.End) may become a booking on the
// calendar. A live booking intersecting the range wins over blocked dates
// in the reported reason. The caller is responsible for serializing this
// check with the subsequent insert (see the listing lock middleware).
func CanBook(c *Calendar, r dates.DateRange) Decision {
	for _, b := range c.Bookings {
		if b.Range.Overlaps(r) {
			return Decision{Reason: ConflictBooked, BookingID: b.BookingID}
		}
	}
	for d := r.Start; d < r.End; d++ {
		if _, blocked := c.Blocked[d]; blocked {
			return Decision{Reason: ConflictBlocked}
		}
	}
	return Decision{Allowed: true}
}
