package mocks

import (
	"sync"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/subscription"
)

// MockNotifier delegates to a real in-process manager and keeps every published
// event so tests can assert on what was sent.
type MockNotifier struct {
	*subscription.SubscriptionManager[*model.NewLinkEvent]

	mu            sync.Mutex
	log           *CallLog
	notifications map[string][]*model.NewLinkEvent // Для отслеживания в тестах
}

func NewMockNotifier(log *CallLog) *MockNotifier {
	return &MockNotifier{
		SubscriptionManager: subscription.NewSubscriptionManager[*model.NewLinkEvent](subscription.Config{}),
		log:                 log,
		notifications:       make(map[string][]*model.NewLinkEvent),
	}
}

func (m *MockNotifier) Publish(topic string, event *model.NewLinkEvent) {
	m.log.Record("Notifier.Publish")

	m.mu.Lock()
	m.notifications[topic] = append(m.notifications[topic], event)
	m.mu.Unlock()

	m.SubscriptionManager.Publish(topic, event)
}

// Published возвращает все события, опубликованные в топик
func (m *MockNotifier) Published(topic string) []*model.NewLinkEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.NewLinkEvent(nil), m.notifications[topic]...)
}
