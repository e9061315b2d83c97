package realtime

import (
	"testing"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, sub *Subscription) (*models.Message, bool) {
	t.Helper()
	select {
	case message, ok := <-sub.Events():
		return message, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil, false
	}
}

func TestHubDeliversInsertsToSessionSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sessionID := uuid.New()
	first := hub.Subscribe(sessionID)
	second := hub.Subscribe(sessionID)
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)

	message := &models.Message{ID: uuid.New(), SessionID: sessionID, Content: "hello"}
	hub.PublishMessage(message)

	got, ok := receiveEvent(t, first)
	require.True(t, ok)
	require.Equal(t, message, got)

	got, ok = receiveEvent(t, second)
	require.True(t, ok)
	require.Equal(t, message, got)
}

func TestHubScopesDeliveryToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	chatty := uuid.New()
	quiet := uuid.New()
	chattySub := hub.Subscribe(chatty)
	quietSub := hub.Subscribe(quiet)
	defer hub.Unsubscribe(chattySub)

	hub.PublishMessage(&models.Message{ID: uuid.New(), SessionID: chatty, Content: "only here"})

	_, ok := receiveEvent(t, chattySub)
	require.True(t, ok)

	select {
	case message := <-quietSub.Events():
		t.Fatalf("unexpected cross-session delivery: %+v", message)
	case <-time.After(100 * time.Millisecond):
	}
	hub.Unsubscribe(quietSub)
}

func TestHubUnsubscribeClosesEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sub := hub.Subscribe(uuid.New())
	hub.Unsubscribe(sub)

	_, ok := receiveEvent(t, sub)
	require.False(t, ok)

	// Releasing an already-released handle must not panic or block.
	hub.Unsubscribe(sub)
}

func TestHubEvictsSlowConsumers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sessionID := uuid.New()
	slow := hub.Subscribe(sessionID)
	probeSession := uuid.New()
	probe := hub.Subscribe(probeSession)
	defer hub.Unsubscribe(probe)

	// One more insert than the subscription buffer holds forces eviction.
	for i := 0; i < 33; i++ {
		hub.PublishMessage(&models.Message{ID: uuid.New(), SessionID: sessionID, Content: "backlog"})
	}

	// Inserts are processed in order; once the probe sees its message the
	// backlog has been fully delivered and the slow consumer evicted.
	hub.PublishMessage(&models.Message{ID: uuid.New(), SessionID: probeSession, Content: "probe"})
	_, ok := receiveEvent(t, probe)
	require.True(t, ok)

	received := 0
	for {
		_, ok := receiveEvent(t, slow)
		if !ok {
			break
		}
		received++
	}
	require.Equal(t, 32, received)

	// An evicted handle may still be released by its owner.
	hub.Unsubscribe(slow)
}
