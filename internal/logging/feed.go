// ABOUTME: In-process fan-out of freshly written request logs.
// ABOUTME: Backs the admin UI's live log stream.

package logging

import (
	"sync"

	"github.com/2389/wpish/internal/store"
)

const subscriberBuffer = 64

// Feed broadcasts request logs to subscribers. Slow subscribers miss
// entries instead of blocking the publisher.
type Feed struct {
	mu   sync.Mutex
	subs map[chan *store.RequestLog]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan *store.RequestLog]struct{})}
}

// Subscribe returns a channel of new entries and a function that
// unsubscribes and closes it.
func (f *Feed) Subscribe() (<-chan *store.RequestLog, func()) {
	ch := make(chan *store.RequestLog, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers entry to every subscriber with room in its buffer.
func (f *Feed) Publish(entry *store.RequestLog) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
