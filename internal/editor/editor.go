package editor

import (
	"errors"
	"sort"

	"roamstay/internal/domain/availability"
	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

var (
	ErrNotDragging  = errors.New("editor: no drag in progress")
	ErrNoPriceModal = errors.New("editor: price modal is not open")
)

// Mode selects what a drag gesture means.
type Mode string

const (
	// ModePaint toggles blocked state with smart-paint semantics.
	ModePaint Mode = "paint"
	// ModePrice accumulates a selection for a custom price override.
	ModePrice Mode = "price"
)

// Action is fixed once at drag start from the anchor date's state and then
// painted across every date entered during the drag.
type Action string

const (
	ActionBlock   Action = "block"
	ActionUnblock Action = "unblock"
)

// Phase is the editor's interaction state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDragging   Phase = "dragging"
	PhasePriceModal Phase = "price-modal"
)

// VariationDraft is a staged custom-price override awaiting save.
type VariationDraft struct {
	Dates  []dates.Date
	Price  money.Money
	Reason string
}

// Editor is the interactive single-listing calendar. It stages changes
// locally and never talks to the network itself; Saver flushes the staged
// state. All methods must be called from the UI goroutine.
type Editor struct {
	ListingID listings.ListingID

	blocked  map[dates.Date]struct{}
	booked   map[dates.Date]struct{}
	selected map[dates.Date]struct{}

	phase   Phase
	mode    Mode
	action  Action
	dragged map[dates.Date]struct{}

	drafts  []VariationDraft
	history *History
}

// New builds an editor seeded with the server-side calendar state. Booked
// dates are facts, not editable state; they are kept only to make dates
// unselectable. The initial state is committed as the first history entry.
func New(listingID listings.ListingID, blocked, booked []dates.Date, historyCapacity int) *Editor {
	e := &Editor{
		ListingID: listingID,
		blocked:   make(map[dates.Date]struct{}, len(blocked)),
		booked:    make(map[dates.Date]struct{}, len(booked)),
		selected:  make(map[dates.Date]struct{}),
		phase:     PhaseIdle,
		mode:      ModePaint,
		history:   NewHistory(historyCapacity),
	}
	for _, d := range blocked {
		e.blocked[d] = struct{}{}
	}
	for _, d := range booked {
		e.booked[d] = struct{}{}
	}
	e.history.Commit(e.snapshot())
	return e
}

func (e *Editor) Phase() Phase { return e.phase }

func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches between paint and price interaction. Switching cancels
// any in-flight gesture without committing it.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
	e.phase = PhaseIdle
	e.dragged = nil
	clear(e.selected)
}

// PointerDown starts a drag. Booked dates are not selectable; pressing one
// is ignored. In paint mode the action derives once from the anchor: a
// blocked anchor means the whole drag unblocks, anything else blocks.
func (e *Editor) PointerDown(anchor dates.Date) {
	if e.phase != PhaseIdle {
		return
	}
	if _, booked := e.booked[anchor]; booked {
		return
	}
	e.phase = PhaseDragging
	e.dragged = map[dates.Date]struct{}{anchor: {}}
	if e.mode == ModePrice {
		e.selected[anchor] = struct{}{}
		return
	}
	if _, blocked := e.blocked[anchor]; blocked {
		e.action = ActionUnblock
	} else {
		e.action = ActionBlock
	}
}

// PointerEnter extends the current drag across another date. The action
// chosen at drag start is painted; booked dates are skipped.
func (e *Editor) PointerEnter(d dates.Date) {
	if e.phase != PhaseDragging {
		return
	}
	if _, booked := e.booked[d]; booked {
		return
	}
	e.dragged[d] = struct{}{}
	if e.mode == ModePrice {
		e.selected[d] = struct{}{}
	}
}

// PointerUp finishes the gesture. Paint drags apply the fixed action to
// every dragged date and commit one snapshot. Price drags with a non-empty
// selection open the price modal instead of mutating anything.
func (e *Editor) PointerUp() {
	if e.phase != PhaseDragging {
		return
	}
	if e.mode == ModePrice {
		e.dragged = nil
		if len(e.selected) > 0 {
			e.phase = PhasePriceModal
			return
		}
		e.phase = PhaseIdle
		return
	}
	for d := range e.dragged {
		if e.action == ActionBlock {
			e.blocked[d] = struct{}{}
		} else {
			delete(e.blocked, d)
		}
	}
	e.dragged = nil
	e.phase = PhaseIdle
	e.history.Commit(e.snapshot())
}

// DragAction exposes the action chosen at drag start.
func (e *Editor) DragAction() (Action, error) {
	if e.phase != PhaseDragging || e.mode != ModePaint {
		return "", ErrNotDragging
	}
	return e.action, nil
}

// ApplyCustomPrice commits the open price-modal selection as a staged
// variation draft.
func (e *Editor) ApplyCustomPrice(price money.Money, reason string) error {
	if e.phase != PhasePriceModal {
		return ErrNoPriceModal
	}
	if !price.IsPositive() {
		return availability.ErrNonPositivePrice
	}
	draft := VariationDraft{Dates: sortedDates(e.selected), Price: price, Reason: reason}
	e.drafts = append(e.drafts, draft)
	clear(e.selected)
	e.phase = PhaseIdle
	e.history.Commit(e.snapshot())
	return nil
}

// CancelPriceModal closes the modal and drops the selection uncommitted.
func (e *Editor) CancelPriceModal() {
	if e.phase != PhasePriceModal {
		return
	}
	clear(e.selected)
	e.phase = PhaseIdle
}

// QuickBlock blocks every non-booked date in the range as one committed
// mutation.
func (e *Editor) QuickBlock(r dates.DateRange) {
	e.quickApply(r, ActionBlock)
}

// QuickClear unblocks every date in the range as one committed mutation.
func (e *Editor) QuickClear(r dates.DateRange) {
	e.quickApply(r, ActionUnblock)
}

func (e *Editor) quickApply(r dates.DateRange, action Action) {
	if e.phase != PhaseIdle {
		return
	}
	for d := r.Start; d < r.End; d++ {
		if _, booked := e.booked[d]; booked {
			continue
		}
		if action == ActionBlock {
			e.blocked[d] = struct{}{}
		} else {
			delete(e.blocked, d)
		}
	}
	e.history.Commit(e.snapshot())
}

// ApplyRecurring expands a recurring block pattern over the window and
// blocks the resulting dates, committing a single snapshot. Dates covered
// by bookings are skipped, mirroring the server-side rejection rule.
func (e *Editor) ApplyRecurring(pt availability.PatternType, selectors []int, window dates.DateRange) (int, error) {
	if e.phase != PhaseIdle {
		return 0, nil
	}
	expanded, err := availability.ExpandPattern(pt, selectors, window)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, d := range expanded {
		if _, booked := e.booked[d]; booked {
			continue
		}
		if _, already := e.blocked[d]; !already {
			added++
		}
		e.blocked[d] = struct{}{}
	}
	e.history.Commit(e.snapshot())
	return added, nil
}

// Undo restores the previous snapshot into live state.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

// Redo restores the next snapshot into live state.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Blocked returns the staged blocked dates in ascending order.
func (e *Editor) Blocked() []dates.Date { return sortedDates(e.blocked) }

// Selected returns the current price-mode selection in ascending order.
func (e *Editor) Selected() []dates.Date { return sortedDates(e.selected) }

// IsBlocked reports the staged state of a single date.
func (e *Editor) IsBlocked(d dates.Date) bool {
	_, ok := e.blocked[d]
	return ok
}

// Drafts returns the staged pricing variation drafts.
func (e *Editor) Drafts() []VariationDraft {
	out := make([]VariationDraft, len(e.drafts))
	copy(out, e.drafts)
	return out
}

// MarkSaved drops staged drafts after a successful save.
func (e *Editor) MarkSaved() {
	e.drafts = nil
}

func (e *Editor) snapshot() Snapshot {
	return Snapshot{Blocked: e.blocked, Selected: e.selected}
}

func (e *Editor) restore(s Snapshot) {
	e.blocked = s.Blocked
	e.selected = s.Selected
	e.phase = PhaseIdle
	e.dragged = nil
}

func sortedDates(set map[dates.Date]struct{}) []dates.Date {
	out := make([]dates.Date, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
