package middleware

import (
	"context"
	"sync"

	"roamstay/internal/app/commands"
)

// ListingScoped marks commands whose conflict checks must be serialized per
// listing. The booking-creation path reads the calendar and then writes; two
// concurrent requests for overlapping dates could both observe "no
// conflict", so check and insert run under the same listing lock.
type ListingScoped interface {
	ListingKey() string
}

// KeyedMutex hands out one mutex per key, created lazily.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if m, ok := k.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	k.locks[key] = m
	return m
}

// ListingLock serializes listing-scoped commands on a per-listing mutex.
// Commands without a listing key pass through untouched.
func ListingLock(locks *KeyedMutex) CommandMiddleware {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			scoped, ok := cmd.(ListingScoped)
			if !ok || scoped.ListingKey() == "" {
				return nextFn(ctx, cmd)
			}
			m := locks.Get(scoped.ListingKey())
			m.Lock()
			defer m.Unlock()
			return nextFn(ctx, cmd)
		})
	}
}
