// Package session carries the session-lifecycle signal from the auth layer
// to subscribers such as the cart service.
package session

import (
	"sync"
	"time"
)

// EndReason says why a session ended.
type EndReason string

const (
	ReasonLogout  EndReason = "logout"
	ReasonExpired EndReason = "expired"
)

// Event describes one ended session.
type Event struct {
	Token  string
	UserID string
	Reason EndReason
	At     time.Time
}

// Listener is invoked synchronously for every ended session.
type Listener func(Event)

// Notifier fans session-ended events out to its subscribers. It is created
// by the owner of the session lifecycle and handed to subscribers at
// construction.
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a function that removes it.
func (n *Notifier) Subscribe(l Listener) (cancel func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = l
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// End delivers e to every subscriber before returning.
func (n *Notifier) End(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	n.mu.RLock()
	ls := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		ls = append(ls, l)
	}
	n.mu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}
