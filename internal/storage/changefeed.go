package storage

import (
	"context"
	"sync"
)

// Feed is an in-process fan-out of "something changed" signals, used to
// drive the reactive read channels. Signals are coalesced: a subscriber
// that has not drained its channel yet will not queue further signals.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan struct{})}
}

// Notify wakes every subscriber. Never blocks.
func (f *Feed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a signal after each Notify.
// The subscription is removed when ctx is done.
func (f *Feed) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}()

	return ch
}
