// Package events bridges the in-process subscription manager over NATS so that
// subscribers connected to any server instance see events published on all of them.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/VitaminP8/hackernews/internal/subscription"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const DefaultSubjectPrefix = "hackernews"

// NATSNotifier publishes events to NATS and feeds every event received from
// NATS, including its own, into the local manager. Local subscribers therefore
// see each event exactly once, whichever instance published it.
type NATSNotifier[T any] struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	local  subscription.Manager[T]
	prefix string
	log    logrus.FieldLogger
}

var _ subscription.Manager[struct{}] = (*NATSNotifier[struct{}])(nil)

// NewNATSNotifier connects to url with automatic reconnection and listens on "<prefix>.>".
// Extra nats.Option values can be appended.
func NewNATSNotifier[T any](url, prefix string, local subscription.Manager[T], log logrus.FieldLogger, opts ...nats.Option) (*NATSNotifier[T], error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	log = log.WithFields(logrus.Fields{"component": "nats", "prefix": prefix})

	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("Disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	n := &NATSNotifier[T]{
		conn:   nc,
		local:  local,
		prefix: prefix,
		log:    log,
	}

	n.sub, err = nc.Subscribe(prefix+".>", n.handle)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribing to %s.>: %w", prefix, err)
	}
	// Flush ensures the subscription is registered on the server before
	// returning, so that messages published on other connections are routed.
	if err := nc.Flush(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}

	log.WithField("url", nc.ConnectedUrl()).Info("Connected to NATS")
	return n, nil
}

func (n *NATSNotifier[T]) Subscribe(topic string) *subscription.Subscription[T] {
	return n.local.Subscribe(topic)
}

// Publish sends the event through NATS. If that fails the event is still
// delivered to the local subscribers.
func (n *NATSNotifier[T]) Publish(topic string, event T) {
	data, err := json.Marshal(event)
	if err != nil {
		n.log.WithError(err).WithField("topic", topic).Error("Failed to marshal event")
		n.local.Publish(topic, event)
		return
	}

	if err := n.conn.Publish(n.subject(topic), data); err != nil {
		n.log.WithError(err).WithField("topic", topic).Warn("Failed to publish to NATS, delivering locally")
		n.local.Publish(topic, event)
	}
}

// Close stops receiving from NATS and closes the connection. The local manager is left open.
func (n *NATSNotifier[T]) Close() error {
	if err := n.sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
		n.log.WithError(err).Warn("Failed to unsubscribe from NATS")
	}
	n.conn.Close()
	return nil
}

func (n *NATSNotifier[T]) subject(topic string) string {
	return n.prefix + "." + topic
}

func (n *NATSNotifier[T]) handle(msg *nats.Msg) {
	topic := strings.TrimPrefix(msg.Subject, n.prefix+".")

	var event T
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		n.log.WithError(err).WithField("subject", msg.Subject).Warn("Dropping undecodable event")
		return
	}
	n.local.Publish(topic, event)
}
