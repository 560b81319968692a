package session

import (
	"context"
	"sync"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

type EventType int

const (
	SignedIn EventType = iota + 1
	SignedOut
)

func (t EventType) String() string {
	switch t {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

type Event struct {
	Type EventType
	User models.User
}

type Listener func(ctx context.Context, e Event)

// Tracker publishes session state changes. A uid is signed in from the first
// verified request until it signs out.
type Tracker struct {
	mu        sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
	active    map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		listeners: make(map[uint64]Listener),
		active:    make(map[string]struct{}),
	}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (t *Tracker) Subscribe(fn Listener) func() {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Observe records a verified request for user, emitting SignedIn the first
// time the uid is seen.
func (t *Tracker) Observe(ctx context.Context, user models.User) {
	t.mu.Lock()
	_, known := t.active[user.UID]
	if !known {
		t.active[user.UID] = struct{}{}
	}
	t.mu.Unlock()

	if !known {
		t.emit(ctx, Event{Type: SignedIn, User: user})
	}
}

func (t *Tracker) SignOut(ctx context.Context, user models.User) {
	t.mu.Lock()
	delete(t.active, user.UID)
	t.mu.Unlock()

	t.emit(ctx, Event{Type: SignedOut, User: user})
}

func (t *Tracker) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

func (t *Tracker) emit(ctx context.Context, e Event) {
	t.mu.Lock()
	fns := make([]Listener, 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, e)
	}
}
