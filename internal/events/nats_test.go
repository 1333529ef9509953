package events

import (
	"testing"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/subscription"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err, "starting embedded NATS")
	srv.Start()
	t.Cleanup(srv.Shutdown)
	require.True(t, srv.ReadyForConnections(5*time.Second), "embedded NATS not ready")
	return srv.ClientURL()
}

func testLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type instance struct {
	local    *subscription.SubscriptionManager[*model.NewLinkEvent]
	notifier *NATSNotifier[*model.NewLinkEvent]
}

func newInstance(t *testing.T, url string) instance {
	t.Helper()
	local := subscription.NewSubscriptionManager[*model.NewLinkEvent](subscription.Config{Logger: testLogger()})
	notifier, err := NewNATSNotifier[*model.NewLinkEvent](url, "test", local, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { notifier.Close() })
	return instance{local: local, notifier: notifier}
}

func receive(t *testing.T, sub *subscription.Subscription[*model.NewLinkEvent]) *model.NewLinkEvent {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func assertNoEvent(t *testing.T, sub *subscription.Subscription[*model.NewLinkEvent]) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNATSNotifier_FanOutAcrossInstances(t *testing.T) {
	url := startTestNATS(t)
	a := newInstance(t, url)
	b := newInstance(t, url)

	subA := a.notifier.Subscribe(subscription.TopicNewLink)
	defer subA.Cancel()
	subB := b.notifier.Subscribe(subscription.TopicNewLink)
	defer subB.Cancel()

	link := &model.Link{ID: "1", URL: "https://graphql.org", Description: "GraphQL"}
	a.notifier.Publish(subscription.TopicNewLink, &model.NewLinkEvent{NewLink: link})

	gotA := receive(t, subA)
	gotB := receive(t, subB)
	assert.Equal(t, link, gotA.NewLink)
	assert.Equal(t, link, gotB.NewLink)

	// The publishing instance receives its own event once, through NATS.
	assertNoEvent(t, subA)
}

func TestNATSNotifier_TopicRouting(t *testing.T) {
	url := startTestNATS(t)
	a := newInstance(t, url)

	other := a.notifier.Subscribe("other")
	defer other.Cancel()
	links := a.notifier.Subscribe(subscription.TopicNewLink)
	defer links.Cancel()

	a.notifier.Publish(subscription.TopicNewLink, &model.NewLinkEvent{NewLink: &model.Link{ID: "7"}})

	assert.Equal(t, "7", receive(t, links).NewLink.ID)
	assertNoEvent(t, other)
}

func TestNATSNotifier_DropsUndecodableMessages(t *testing.T) {
	url := startTestNATS(t)
	a := newInstance(t, url)

	sub := a.notifier.Subscribe(subscription.TopicNewLink)
	defer sub.Cancel()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()
	require.NoError(t, nc.Publish("test."+subscription.TopicNewLink, []byte("not json")))
	require.NoError(t, nc.Flush())

	assertNoEvent(t, sub)
}

func TestNewNATSNotifier_ConnectFailure(t *testing.T) {
	local := subscription.NewSubscriptionManager[*model.NewLinkEvent](subscription.Config{})
	_, err := NewNATSNotifier[*model.NewLinkEvent]("nats://127.0.0.1:1", "test", local, testLogger(), nats.Timeout(200*time.Millisecond))
	assert.Error(t, err)
}
