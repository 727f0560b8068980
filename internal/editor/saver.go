package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"roamstay/internal/domain/shared/dates"
)

var ErrSaveInFlight = errors.New("editor: a save is already in flight")

// SavePayload is what a save call ships to the availability endpoints.
type SavePayload struct {
	ListingID string
	Blocked   []dates.Date
	Drafts    []VariationDraft
}

// SaveFunc performs the actual network call.
type SaveFunc func(ctx context.Context, payload SavePayload) error

// Saver flushes staged editor state asynchronously. Only one save may be in
// flight at a time; callers should disable the save control while Pending
// reports true. A failed save leaves the editor state untouched so the host
// can simply retry.
type Saver struct {
	mu      sync.Mutex
	pending bool

	Timeout time.Duration
	Save    SaveFunc
}

func NewSaver(save SaveFunc, timeout time.Duration) *Saver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Saver{Save: save, Timeout: timeout}
}

// Pending reports whether a save is currently in flight.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Begin launches an asynchronous save of the editor's staged state. It
// returns ErrSaveInFlight when one is already running. done is invoked from
// the save goroutine with the outcome; the UI event loop should call
// Editor.MarkSaved from done on success. Editor state is captured before
// the goroutine starts and is never touched here.
func (s *Saver) Begin(ctx context.Context, e *Editor, done func(error)) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.pending = true
	s.mu.Unlock()

	payload := SavePayload{
		ListingID: string(e.ListingID),
		Blocked:   e.Blocked(),
		Drafts:    e.Drafts(),
	}

	go func() {
		saveCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()
		err := s.Save(saveCtx, payload)

		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()

		if done != nil {
			done(err)
		}
	}()
	return nil
}
