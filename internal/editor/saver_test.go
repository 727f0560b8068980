package editor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

func TestSaverRejectsOverlappingSaves(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	saver := NewSaver(func(ctx context.Context, payload SavePayload) error {
		calls.Add(1)
		<-release
		return nil
	}, time.Second)

	e := New("lst-1", []dates.Date{day(1)}, nil, 0)
	done := make(chan error, 1)
	require.NoError(t, saver.Begin(context.Background(), e, func(err error) { done <- err }))
	assert.True(t, saver.Pending())

	assert.ErrorIs(t, saver.Begin(context.Background(), e, nil), ErrSaveInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, saver.Pending())

	// A finished save frees the slot for the next one.
	release2 := make(chan struct{})
	close(release2)
	require.NoError(t, saver.Begin(context.Background(), e, func(error) { done <- nil }))
	<-done
}

func TestSaverFailureLeavesEditorUntouched(t *testing.T) {
	boom := errors.New("persistence down")
	saver := NewSaver(func(ctx context.Context, payload SavePayload) error {
		return boom
	}, time.Second)

	e := New("lst-1", nil, nil, 0)
	e.SetMode(ModePrice)
	e.PointerDown(day(1))
	e.PointerUp()
	require.NoError(t, e.ApplyCustomPrice(money.Must(5000, "INR"), "peak"))
	e.SetMode(ModePaint)
	drag(e, 2, 3)

	blockedBefore := e.Blocked()
	done := make(chan error, 1)
	require.NoError(t, saver.Begin(context.Background(), e, func(err error) { done <- err }))
	assert.ErrorIs(t, <-done, boom)

	assert.Equal(t, blockedBefore, e.Blocked())
	assert.Len(t, e.Drafts(), 1, "failed save keeps drafts staged for retry")
}

func TestSaverAppliesTimeout(t *testing.T) {
	saver := NewSaver(func(ctx context.Context, payload SavePayload) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	e := New("lst-1", nil, nil, 0)
	done := make(chan error, 1)
	require.NoError(t, saver.Begin(context.Background(), e, func(err error) { done <- err }))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("save did not respect its timeout")
	}
}

func TestSaverCapturesPayload(t *testing.T) {
	var got SavePayload
	saver := NewSaver(func(ctx context.Context, payload SavePayload) error {
		got = payload
		return nil
	}, time.Second)

	e := New("lst-7", []dates.Date{day(4), day(2)}, nil, 0)
	done := make(chan error, 1)
	require.NoError(t, saver.Begin(context.Background(), e, func(err error) { done <- err }))
	require.NoError(t, <-done)

	assert.Equal(t, "lst-7", got.ListingID)
	assert.Equal(t, []dates.Date{day(2), day(4)}, got.Blocked)
}
