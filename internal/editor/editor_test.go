package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/internal/domain/availability"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

func day(dom int) dates.Date { return dates.New(2025, time.June, dom) }

func drag(e *Editor, from, to int) {
	e.PointerDown(day(from))
	for d := from + 1; d <= to; d++ {
		e.PointerEnter(day(d))
	}
	e.PointerUp()
}

func TestSmartPaintBlocksFromAvailableAnchor(t *testing.T) {
	e := New("lst-1", nil, nil, 0)

	e.PointerDown(day(1))
	action, err := e.DragAction()
	require.NoError(t, err)
	assert.Equal(t, ActionBlock, action)

	e.PointerEnter(day(2))
	e.PointerEnter(day(3))
	e.PointerUp()

	assert.Equal(t, []dates.Date{day(1), day(2), day(3)}, e.Blocked())
	assert.Equal(t, PhaseIdle, e.Phase())
}

func TestSmartPaintUnblocksFromBlockedAnchor(t *testing.T) {
	// A drag anchored on a blocked date flips to "make available" for the
	// whole gesture, even across dates that were not blocked.
	e := New("lst-1", []dates.Date{day(5), day(7)}, nil, 0)

	e.PointerDown(day(5))
	action, err := e.DragAction()
	require.NoError(t, err)
	assert.Equal(t, ActionUnblock, action)

	e.PointerEnter(day(6))
	e.PointerEnter(day(7))
	e.PointerUp()

	assert.Empty(t, e.Blocked())
}

func TestBookedDatesAreNotSelectable(t *testing.T) {
	e := New("lst-1", nil, []dates.Date{day(10), day(11)}, 0)

	e.PointerDown(day(10))
	assert.Equal(t, PhaseIdle, e.Phase(), "anchor on a booked date is ignored")

	drag(e, 9, 12)
	assert.Equal(t, []dates.Date{day(9), day(12)}, e.Blocked(), "booked dates skipped mid-drag")
}

func TestPriceModeSelectsWithoutMutating(t *testing.T) {
	e := New("lst-1", []dates.Date{day(3)}, nil, 0)
	e.SetMode(ModePrice)

	e.PointerDown(day(1))
	e.PointerEnter(day(2))
	e.PointerEnter(day(3))
	e.PointerUp()

	assert.Equal(t, PhasePriceModal, e.Phase())
	assert.Equal(t, []dates.Date{day(1), day(2), day(3)}, e.Selected())
	assert.Equal(t, []dates.Date{day(3)}, e.Blocked(), "price drags never touch blocked state")

	require.NoError(t, e.ApplyCustomPrice(money.Must(5000, "INR"), "festival"))
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Empty(t, e.Selected())

	drafts := e.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, []dates.Date{day(1), day(2), day(3)}, drafts[0].Dates)
	assert.Equal(t, int64(5000), drafts[0].Price.Amount)
}

func TestPriceModalValidation(t *testing.T) {
	e := New("lst-1", nil, nil, 0)
	assert.ErrorIs(t, e.ApplyCustomPrice(money.Must(100, "INR"), ""), ErrNoPriceModal)

	e.SetMode(ModePrice)
	e.PointerDown(day(1))
	e.PointerUp()
	require.Equal(t, PhasePriceModal, e.Phase())
	assert.ErrorIs(t, e.ApplyCustomPrice(money.Money{Currency: "INR"}, ""), availability.ErrNonPositivePrice)

	e.CancelPriceModal()
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Empty(t, e.Selected())
	assert.Empty(t, e.Drafts())
}

func TestEmptyPriceSelectionSkipsModal(t *testing.T) {
	e := New("lst-1", nil, []dates.Date{day(1)}, 0)
	e.SetMode(ModePrice)

	e.PointerDown(day(1)) // booked, ignored
	e.PointerUp()
	assert.Equal(t, PhaseIdle, e.Phase())
}

func TestQuickActionsCommitOneSnapshotEach(t *testing.T) {
	e := New("lst-1", nil, []dates.Date{day(3)}, 0)
	r, err := dates.NewRange(day(1), day(6))
	require.NoError(t, err)

	e.QuickBlock(r)
	assert.Equal(t, []dates.Date{day(1), day(2), day(4), day(5)}, e.Blocked())

	e.QuickClear(r)
	assert.Empty(t, e.Blocked())

	// Initial snapshot plus one per quick action.
	assert.Equal(t, 3, e.history.Len())
}

func TestApplyRecurringStagesBlocks(t *testing.T) {
	e := New("lst-1", nil, []dates.Date{day(8)}, 0) // June 8 is a Sunday
	window, err := dates.NewRange(day(1), day(15))
	require.NoError(t, err)

	added, err := e.ApplyRecurring(availability.PatternWeekly, []int{0}, window)
	require.NoError(t, err)
	assert.Equal(t, 1, added, "June 1; June 8 is booked")
	assert.Equal(t, []dates.Date{day(1)}, e.Blocked())

	_, err = e.ApplyRecurring(availability.PatternWeekly, []int{9}, window)
	assert.ErrorIs(t, err, availability.ErrBadSelector)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := New("lst-1", nil, nil, 0)
	drag(e, 1, 3)
	drag(e, 10, 10)

	before := e.Blocked()
	require.True(t, e.Undo())
	assert.Equal(t, []dates.Date{day(1), day(2), day(3)}, e.Blocked())
	require.True(t, e.Redo())
	assert.Equal(t, before, e.Blocked(), "undo then redo restores the exact pre-undo state")

	assert.False(t, e.Redo(), "redo past the top is a no-op")
}

func TestUndoDoesNotCorruptHistory(t *testing.T) {
	e := New("lst-1", nil, nil, 0)
	drag(e, 1, 1)

	require.True(t, e.Undo())
	// Mutating live state after an undo must not leak into stored snapshots.
	drag(e, 20, 20)
	require.True(t, e.Undo())
	assert.Empty(t, e.Blocked())
	require.True(t, e.Redo())
	assert.Equal(t, []dates.Date{day(20)}, e.Blocked())
}

func TestCommitTruncatesRedoBranch(t *testing.T) {
	e := New("lst-1", nil, nil, 0)
	drag(e, 1, 1)
	drag(e, 2, 2)

	require.True(t, e.Undo())
	drag(e, 9, 9) // discards the redo branch holding day 2

	assert.False(t, e.Redo())
	assert.Equal(t, []dates.Date{day(1), day(9)}, e.Blocked())
}
