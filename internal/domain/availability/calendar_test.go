package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

var (
	basePrice = money.Must(2000, "INR")
	now       = time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
)

func day(dom int) dates.Date { return dates.New(2025, time.June, dom) }

func rng(t *testing.T, from, to int) dates.DateRange {
	t.Helper()
	r, err := dates.NewRange(day(from), day(to))
	require.NoError(t, err)
	return r
}

func TestStatusPrecedence(t *testing.T) {
	cal := NewCalendar("lst-1")
	require.NoError(t, cal.Reserve(rng(t, 10, 12), "bkg-1", now))
	cal.SetBlocked([]dates.Date{day(20)}, now)

	assert.Equal(t, DayBooked, cal.Status(day(10), basePrice).State)
	assert.Equal(t, "bkg-1", cal.Status(day(10), basePrice).BookingID)
	assert.Equal(t, DayBlocked, cal.Status(day(20), basePrice).State)
	assert.Equal(t, DayAvailable, cal.Status(day(12), basePrice).State, "checkout day stays free")
}

func TestStatusBookedWinsOverBlocked(t *testing.T) {
	cal := NewCalendar("lst-1")
	cal.SetBlocked([]dates.Date{day(5)}, now)
	// A booking placed before the host block was cleared keeps precedence.
	cal.Bookings = append(cal.Bookings, BookingBlock{Range: rng(t, 5, 6), BookingID: "bkg-9"})

	assert.Equal(t, DayBooked, cal.Status(day(5), basePrice).State)
}

func TestSetBlockedRejectsBookedDates(t *testing.T) {
	cal := NewCalendar("lst-1")
	require.NoError(t, cal.Reserve(rng(t, 10, 13), "bkg-1", now))

	applied, rejected := cal.SetBlocked([]dates.Date{day(9), day(10), day(11), day(13)}, now)
	assert.Equal(t, []dates.Date{day(9), day(13)}, applied)
	assert.Equal(t, []dates.Date{day(10), day(11)}, rejected)

	// The booked dates kept their state.
	assert.Equal(t, DayBooked, cal.Status(day(10), basePrice).State)
	assert.Equal(t, DayBlocked, cal.Status(day(9), basePrice).State)
}

func TestClearBlockedIsIdempotent(t *testing.T) {
	cal := NewCalendar("lst-1")
	cal.SetBlocked([]dates.Date{day(1), day(2)}, now)

	cleared := cal.ClearBlocked([]dates.Date{day(1), day(7)}, now)
	assert.Equal(t, []dates.Date{day(1)}, cleared)
	assert.Nil(t, cal.ClearBlocked([]dates.Date{day(1)}, now))
	assert.Equal(t, []dates.Date{day(2)}, cal.BlockedDates())
}

func TestPricingVariationOverlapRejected(t *testing.T) {
	cal := NewCalendar("lst-1")
	_, err := cal.AddPricingVariation("var-1", rng(t, 10, 15), money.Must(5000, "INR"), "festival", now)
	require.NoError(t, err)

	_, err = cal.AddPricingVariation("var-2", rng(t, 14, 16), money.Must(3000, "INR"), "", now)
	assert.ErrorIs(t, err, ErrVariationOverlap)

	_, err = cal.AddPricingVariation("var-3", rng(t, 15, 16), money.Must(3000, "INR"), "", now)
	assert.NoError(t, err, "touching ranges do not overlap")
}

func TestPricingVariationValidation(t *testing.T) {
	cal := NewCalendar("lst-1")
	_, err := cal.AddPricingVariation("var-1", dates.DateRange{Start: day(5), End: day(5)}, money.Must(100, "INR"), "", now)
	assert.ErrorIs(t, err, dates.ErrInvalidRange)

	_, err = cal.AddPricingVariation("var-1", rng(t, 5, 6), money.Money{Amount: 0, Currency: "INR"}, "", now)
	assert.ErrorIs(t, err, ErrNonPositivePrice)
}

func TestRemovePricingVariation(t *testing.T) {
	cal := NewCalendar("lst-1")
	_, err := cal.AddPricingVariation("var-1", rng(t, 10, 12), money.Must(5000, "INR"), "", now)
	require.NoError(t, err)

	require.NoError(t, cal.RemovePricingVariation("var-1", now))
	assert.ErrorIs(t, cal.RemovePricingVariation("var-1", now), ErrVariationNotFound)
	assert.False(t, cal.Status(day(10), basePrice).Priced)
}

func TestStatusPricedOverlay(t *testing.T) {
	cal := NewCalendar("lst-1")
	_, err := cal.AddPricingVariation("var-1", rng(t, 10, 12), money.Must(5000, "INR"), "", now)
	require.NoError(t, err)
	require.NoError(t, cal.Reserve(rng(t, 11, 12), "bkg-1", now))

	free := cal.Status(day(10), basePrice)
	assert.Equal(t, DayAvailable, free.State)
	assert.True(t, free.Priced)
	assert.Equal(t, int64(5000), free.Price.Amount)

	// A booked date still reports its historical override price.
	booked := cal.Status(day(11), basePrice)
	assert.Equal(t, DayBooked, booked.State)
	assert.True(t, booked.Priced)
}

func TestReserveAndRelease(t *testing.T) {
	cal := NewCalendar("lst-1")
	require.NoError(t, cal.Reserve(rng(t, 1, 5), "bkg-1", now))

	assert.ErrorIs(t, cal.Reserve(rng(t, 3, 7), "bkg-2", now), ErrRangeBooked)

	cal.SetBlocked([]dates.Date{day(20)}, now)
	assert.ErrorIs(t, cal.Reserve(rng(t, 19, 21), "bkg-3", now), ErrRangeBlocked)

	require.NoError(t, cal.Release("bkg-1", now))
	assert.ErrorIs(t, cal.Release("bkg-1", now), ErrBookingNotFound)
	require.NoError(t, cal.Reserve(rng(t, 3, 5), "bkg-4", now))
}

func TestReserveRecordsOverbookingPrevented(t *testing.T) {
	cal := NewCalendar("lst-1")
	require.NoError(t, cal.Reserve(rng(t, 1, 5), "bkg-1", now))
	cal.ClearEvents()

	require.Error(t, cal.Reserve(rng(t, 2, 6), "bkg-2", now))
	events := cal.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "calendar.overbooking_prevented", events[0].EventName())
}
