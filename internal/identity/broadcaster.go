package identity

import (
	"sync"

	"kidpress/api/internal/store"
)

// Broadcaster is the single piece of process-wide mutable auth state: the
// current user. Sign-in and sign-out publish to it; consumers subscribe and
// must release their subscription on teardown. A nil profile means signed
// out.
type Broadcaster struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]func(*store.UserProfile)
	current *store.UserProfile
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(*store.UserProfile))}
}

// Subscribe registers fn and invokes it immediately with the current state,
// so late subscribers do not miss the signed-in user. The returned function
// removes the subscription.
func (b *Broadcaster) Subscribe(fn func(*store.UserProfile)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish replaces the current user and notifies every subscriber.
func (b *Broadcaster) Publish(user *store.UserProfile) {
	b.mu.Lock()
	b.current = user
	fns := make([]func(*store.UserProfile), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

// Current returns the last published user.
func (b *Broadcaster) Current() *store.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
