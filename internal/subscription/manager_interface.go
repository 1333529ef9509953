package subscription

// Manager fans events out to the live subscribers of a topic.
type Manager[T any] interface {
	Subscribe(topic string) *Subscription[T]
	Publish(topic string, event T)
}

// Observer is notified about registry changes. Implementations must be safe for concurrent use.
type Observer interface {
	SubscriberAdded(topic string)
	SubscriberRemoved(topic string)
	EventPublished(topic string)
	SubscriberEvicted(topic string)
}
