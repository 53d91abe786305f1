package events

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	topic := NewTopic[int](8)
	sub1 := topic.Subscribe()
	sub2 := topic.Subscribe()

	topic.Publish(1)
	topic.Publish(2)

	for _, sub := range []*Subscription[int]{sub1, sub2} {
		assert.Equal(t, 1, <-sub.Events())
		assert.Equal(t, 2, <-sub.Events())
	}
}

func TestPublishOrderPerSubscriber(t *testing.T) {
	topic := NewTopic[int](64)
	sub := topic.Subscribe()

	for i := 0; i < 50; i++ {
		topic.Publish(i)
	}

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, <-sub.Events())
	}
}

func TestSlowConsumerDropped(t *testing.T) {
	topic := NewTopic[int](4)
	slow := topic.Subscribe()
	fast := topic.Subscribe()

	// One past the buffer: the fifth publish overflows the slow
	// subscriber and closes its stream.
	for i := 0; i < 5; i++ {
		topic.Publish(i)
		// Keep the fast subscriber drained.
		<-fast.Events()
	}

	assert.Equal(t, 1, topic.SubscriberCount())

	received := 0
	for range slow.Events() {
		received++
	}
	assert.Equal(t, 4, received)

	// The surviving subscriber still gets later events.
	topic.Publish(99)
	assert.Equal(t, 99, <-fast.Events())
}

func TestPublishNeverBlocks(t *testing.T) {
	topic := NewTopic[int](1)
	_ = topic.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			topic.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	topic := NewTopic[int](8)
	sub := topic.Subscribe()
	sub.Close()
	sub.Close() // idempotent

	assert.Equal(t, 0, topic.SubscriberCount())
	topic.Publish(1)

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestCloseTerminatesSubscribers(t *testing.T) {
	topic := NewTopic[string](8)
	sub := topic.Subscribe()
	topic.Publish("last")
	topic.Close()

	assert.Equal(t, "last", <-sub.Events())
	_, open := <-sub.Events()
	assert.False(t, open)

	late := topic.Subscribe()
	_, open = <-late.Events()
	assert.False(t, open)
}

func TestConcurrentPublishers(t *testing.T) {
	topic := NewTopic[int](DefaultBufferSize)
	sub := topic.Subscribe()

	const publishers = 8
	const perPublisher = 100

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				topic.Publish(i)
			}
		}()
	}
	wg.Wait()

	buffered := len(sub.Events())
	for i := 0; i < buffered; i++ {
		<-sub.Events()
	}
	assert.Equal(t, publishers*perPublisher, buffered)
}

func TestBrokerFanOutByKind(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()

	engagements := broker.Engagements.Subscribe()
	rankings := broker.Rankings.Subscribe()

	convoyID := uuid.New()
	broker.Engagements.Publish(EngagementEvent{ConvoyID: convoyID, Hit: true})

	ev := <-engagements.Events()
	assert.Equal(t, convoyID, ev.ConvoyID)
	assert.True(t, ev.Hit)

	select {
	case <-rankings.Events():
		t.Fatal("ranking subscriber must not see engagement events")
	default:
	}
}

func TestSubscriberFiltering(t *testing.T) {
	// Filtering is the subscriber's job: both events are delivered, the
	// consumer keeps only its convoy.
	topic := NewTopic[EngagementEvent](8)
	sub := topic.Subscribe()

	c1 := uuid.New()
	c2 := uuid.New()
	topic.Publish(EngagementEvent{ConvoyID: c1})
	topic.Publish(EngagementEvent{ConvoyID: c2})
	topic.Publish(EngagementEvent{ConvoyID: c1})

	var kept []EngagementEvent
	for i := 0; i < 3; i++ {
		ev := <-sub.Events()
		if ev.ConvoyID == c1 {
			kept = append(kept, ev)
		}
	}
	require.Len(t, kept, 2)
}
