package memory

import (
	"context"
	"sort"
	"sync"

	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
)

// ListingRepository is an in-memory listings store.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.Version++
	copied := *listing
	r.items[listing.ID] = &copied
	return nil
}

// CalendarRepository keeps one availability calendar per listing.
type CalendarRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainavailability.Calendar
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{items: make(map[domainlistings.ListingID]*domainavailability.Calendar)}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.items[id]
	if !ok {
		return nil, domainavailability.ErrCalendarNotFound
	}
	return cloneCalendar(cal), nil
}

// Save applies an optimistic version check: a stale calendar loses to a
// concurrent writer instead of silently clobbering it.
func (r *CalendarRepository) Save(ctx context.Context, cal *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.items[cal.ListingID]; ok && current.Version != cal.Version {
		return domainavailability.ErrVersionConflict
	}
	cal.Version++
	r.items[cal.ListingID] = cloneCalendar(cal)
	return nil
}

func cloneCalendar(cal *domainavailability.Calendar) *domainavailability.Calendar {
	copied := &domainavailability.Calendar{
		ListingID:  cal.ListingID,
		Blocked:    make(map[dates.Date]struct{}, len(cal.Blocked)),
		Bookings:   append([]domainavailability.BookingBlock(nil), cal.Bookings...),
		Variations: append([]domainavailability.PricingVariation(nil), cal.Variations...),
		Version:    cal.Version,
	}
	for d := range cal.Blocked {
		copied.Blocked[d] = struct{}{}
	}
	return copied
}

// BookingRepository is an in-memory booking store.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	copied := *b
	r.items[b.ID] = &copied
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.GuestID == guestID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
