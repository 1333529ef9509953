package subscription

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	TopicNewLink = "newLink"

	DefaultBufferSize = 16
)

// ErrSlowConsumer is reported by Subscription.Err after the subscriber was
// disconnected because its buffer was full when an event was published.
var ErrSlowConsumer = errors.New("subscriber disconnected: event buffer is full")

// Subscription is one consumer's view of a topic. Events arrive on Events()
// in publish order until Cancel is called or the manager evicts it.
type Subscription[T any] struct {
	topic  string
	events chan T
	remove func(*Subscription[T], error)

	mu     sync.Mutex
	closed bool
	err    error
}

func (s *Subscription[T]) Topic() string {
	return s.topic
}

func (s *Subscription[T]) Events() <-chan T {
	return s.events
}

// Err is nil while the subscription is active or after Cancel, and
// ErrSlowConsumer after an eviction.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel is idempotent.
func (s *Subscription[T]) Cancel() {
	s.remove(s, nil)
}

// offer never blocks; false means the buffer is full.
func (s *Subscription[T]) offer(event T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

func (s *Subscription[T]) close(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.err = err
	close(s.events)
	return true
}

type Config struct {
	// BufferSize is the per-subscriber queue length. Defaults to DefaultBufferSize.
	BufferSize int
	Logger     logrus.FieldLogger
	Observer   Observer
}

// SubscriptionManager is the in-process Manager.
type SubscriptionManager[T any] struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription[T]]struct{} // topic -> active subscriptions

	bufferSize int
	log        logrus.FieldLogger
	observer   Observer
}

func NewSubscriptionManager[T any](cfg Config) *SubscriptionManager[T] {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		cfg.Logger = l
	}
	return &SubscriptionManager[T]{
		subs:       make(map[string]map[*Subscription[T]]struct{}),
		bufferSize: cfg.BufferSize,
		log:        cfg.Logger.WithField("component", "subscription"),
		observer:   cfg.Observer,
	}
}

func (m *SubscriptionManager[T]) Subscribe(topic string) *Subscription[T] {
	sub := &Subscription[T]{
		topic:  topic,
		events: make(chan T, m.bufferSize),
		remove: m.remove,
	}

	m.mu.Lock()
	if m.subs[topic] == nil {
		m.subs[topic] = make(map[*Subscription[T]]struct{})
	}
	m.subs[topic][sub] = struct{}{}
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.SubscriberAdded(topic)
	}
	return sub
}

// Publish delivers event to a snapshot of the topic's subscribers taken at call time.
// Subscribers that cannot accept the event are evicted instead of blocking the caller.
func (m *SubscriptionManager[T]) Publish(topic string, event T) {
	m.mu.RLock()
	snapshot := make([]*Subscription[T], 0, len(m.subs[topic]))
	for sub := range m.subs[topic] {
		snapshot = append(snapshot, sub)
	}
	m.mu.RUnlock()

	if m.observer != nil {
		m.observer.EventPublished(topic)
	}

	for _, sub := range snapshot {
		if sub.offer(event) {
			continue
		}
		m.log.WithField("topic", topic).Warn("evicting slow subscriber")
		if m.observer != nil {
			m.observer.SubscriberEvicted(topic)
		}
		m.remove(sub, ErrSlowConsumer)
	}
}

// SubscriberCount returns the number of active subscriptions on topic.
func (m *SubscriptionManager[T]) SubscriberCount(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[topic])
}

// Close disconnects every subscriber.
func (m *SubscriptionManager[T]) Close() {
	m.mu.RLock()
	var all []*Subscription[T]
	for _, subs := range m.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	m.mu.RUnlock()

	for _, sub := range all {
		m.remove(sub, nil)
	}
}

func (m *SubscriptionManager[T]) remove(sub *Subscription[T], reason error) {
	m.mu.Lock()
	subs, ok := m.subs[sub.topic]
	if ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(m.subs, sub.topic)
		}
	}
	m.mu.Unlock()

	if sub.close(reason) && m.observer != nil {
		m.observer.SubscriberRemoved(sub.topic)
	}
}
