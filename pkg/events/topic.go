package events

import "sync"

// DefaultBufferSize is the per-subscriber event buffer. A subscriber
// that falls this far behind is dropped.
const DefaultBufferSize = 1024

// Subscription is one subscriber's bounded view of a topic. Events()
// is closed when the subscriber unsubscribes, the topic shuts down, or
// the subscriber is dropped for falling behind.
type Subscription[T any] struct {
	ch    chan T
	once  sync.Once
	leave func()
}

// Events is the receive side of the subscription.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Close unsubscribes. Safe to call more than once and concurrently with
// a broker-side drop.
func (s *Subscription[T]) Close() {
	s.leave()
}

// Topic is a many-producer many-subscriber fan-out with per-subscriber
// bounded buffers. Publishing never blocks: a subscriber whose buffer is
// full is dropped and its channel closed.
type Topic[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription[T]
	nextID uint64
	buffer int
	closed bool
}

// NewTopic creates a topic with the given per-subscriber buffer,
// falling back to DefaultBufferSize for non-positive values.
func NewTopic[T any](buffer int) *Topic[T] {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Topic[T]{
		subs:   make(map[uint64]*Subscription[T]),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. On a closed topic the returned
// subscription is already terminated.
func (t *Topic[T]) Subscribe() *Subscription[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	sub := &Subscription[T]{ch: make(chan T, t.buffer)}
	sub.leave = func() {
		sub.once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(sub.ch)
		})
	}

	if t.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}

	t.subs[id] = sub
	return sub
}

// Publish fans the event out to every subscriber. Subscribers whose
// buffer is full are dropped; the publisher never blocks.
func (t *Topic[T]) Publish(event T) {
	t.mu.Lock()
	var dropped []*Subscription[T]
	for id, sub := range t.subs {
		select {
		case sub.ch <- event:
		default:
			delete(t.subs, id)
			dropped = append(dropped, sub)
		}
	}
	t.mu.Unlock()

	// Closing outside the map mutation keeps drop handling out of the
	// publish critical section.
	for _, sub := range dropped {
		sub.once.Do(func() { close(sub.ch) })
	}
}

// SubscriberCount reports the live subscriber count.
func (t *Topic[T]) SubscriberCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Close terminates every subscription and rejects future ones.
func (t *Topic[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	subs := make([]*Subscription[T], 0, len(t.subs))
	for id, sub := range t.subs {
		delete(t.subs, id)
		subs = append(subs, sub)
	}
	t.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}
