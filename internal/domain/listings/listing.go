package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"roamstay/internal/domain/shared/money"
)

var (
	ErrListingNotFound = errors.New("listings: not found")
	ErrListingInactive = errors.New("listings: listing is not accepting bookings")
	ErrInvalidRate     = errors.New("listings: nightly rate must be positive")
	ErrTitleRequired   = errors.New("listings: title required")
	ErrHostRequired    = errors.New("listings: host required")
	ErrNotHost         = errors.New("listings: acting user is not the listing host")
)

type ListingID string

type HostID string

// Category distinguishes the rentable asset kinds the platform offers.
type Category string

const (
	CategoryStay    Category = "STAY"
	CategoryVehicle Category = "VEHICLE"
	CategoryDhaba   Category = "DHABA"
)

type ListingState string

const (
	ListingDraft    ListingState = "DRAFT"
	ListingActive   ListingState = "ACTIVE"
	ListingArchived ListingState = "ARCHIVED"
)

// Listing is the booking core's view of a rental listing: identity,
// ownership and the pricing inputs the calculator needs. Photos, geo data
// and catalog metadata live outside this subsystem.
type Listing struct {
	ID            ListingID
	Host          HostID
	Title         string
	Category      Category
	NightlyRate   money.Money
	BaseOccupancy int
	GuestsLimit   int
	State         ListingState
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}

type CreateParams struct {
	ID            ListingID
	Host          HostID
	Title         string
	Category      Category
	NightlyRate   money.Money
	BaseOccupancy int
	GuestsLimit   int
	Now           time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !params.NightlyRate.IsPositive() {
		return nil, ErrInvalidRate
	}
	category := params.Category
	if category == "" {
		category = CategoryStay
	}
	occupancy := params.BaseOccupancy
	if occupancy <= 0 {
		occupancy = 2
	}
	now := params.Now.UTC()
	return &Listing{
		ID:            params.ID,
		Host:          params.Host,
		Title:         strings.TrimSpace(params.Title),
		Category:      category,
		NightlyRate:   params.NightlyRate,
		BaseOccupancy: occupancy,
		GuestsLimit:   params.GuestsLimit,
		State:         ListingDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (l *Listing) Activate(now time.Time) {
	l.State = ListingActive
	l.UpdatedAt = now.UTC()
}

// OwnedBy reports whether the acting user may edit this listing's calendar.
func (l *Listing) OwnedBy(host HostID) bool {
	return l.Host == host
}
