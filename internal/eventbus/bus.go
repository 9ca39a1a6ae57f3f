// Package eventbus provides the process-wide "data changed" broadcast.
//
// Components that mutate objective/KR/task data publish on the
// okr-data-changed topic after a successful write; every live
// hierarchy loader subscribes for its lifetime and reloads on receipt.
package eventbus

import "sync"

// TopicOKRDataChanged is the payloadless invalidation signal for the
// objective/key-result/task tree.
const TopicOKRDataChanged = "okr-data-changed"

// Handler is invoked for every published event on a subscribed topic.
// Handlers run on the publisher's goroutine and must not block.
type Handler func()

// Subscription identifies one active subscriber. Cancel it to release
// the handler; cancelling twice is harmless.
type Subscription struct {
	bus   *Bus
	topic string
	id    int
	once  sync.Once
}

// Cancel removes the subscription from the bus. After Cancel returns,
// no further events are delivered to the handler.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.unsubscribe(s.topic, s.id)
	})
}

// Bus is an in-process topic broadcast. Any number of subscribers may
// subscribe and unsubscribe concurrently; publishers never block on
// subscriber bookkeeping beyond the internal mutex.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[string]map[int]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{topics: make(map[string]map[int]Handler)}
}

// Subscribe registers a handler for the topic and returns the
// subscription to cancel on teardown. Leaking the subscription leaks
// the reload behavior past the consumer's lifetime, so callers pair
// Subscribe with a deferred or Close-driven Cancel.
func (b *Bus) Subscribe(topic string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[int]Handler)
	}
	b.topics[topic][id] = h

	return &Subscription{bus: b, topic: topic, id: id}
}

// Publish invokes every handler currently subscribed to the topic.
// Handlers registered or cancelled during delivery take effect on the
// next publish.
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.topics[topic]))
	for _, h := range b.topics[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}

func (b *Bus) unsubscribe(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.topics[topic], id)
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}
