package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func bareClient(hub *Hub, quizID uint, buffer int) *Client {
	return &Client{ID: "test", QuizID: quizID, hub: hub, send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "канал клиента не должен быть закрыт")
		return msg
	case <-time.After(time.Second):
		t.Fatal("сообщение не получено")
		return nil
	}
}

func TestHub_BroadcastOnlyToQuizRoom(t *testing.T) {
	// Arrange
	hub := startHub(t)
	subscriber := bareClient(hub, 1, 4)
	other := bareClient(hub, 2, 4)
	require.True(t, hub.Register(subscriber))
	require.True(t, hub.Register(other))

	// Act
	hub.PublishAttempt(&entity.QuizAttempt{ID: 7, QuizID: 1, UserID: 3, Score: 4})

	// Assert
	var event struct {
		Type string      `json:"type"`
		Data AttemptData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(receive(t, subscriber), &event))
	assert.Equal(t, EventLeaderboardUpdate, event.Type)
	assert.Equal(t, uint(7), event.Data.AttemptID)
	assert.Equal(t, 4, event.Data.Score)

	select {
	case <-other.send:
		t.Fatal("подписчик другой викторины не должен получать событие")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, hub.ClientCount())
}

func TestHub_DropsSlowClient(t *testing.T) {
	// Arrange
	hub := startHub(t)
	slow := bareClient(hub, 1, 1)
	require.True(t, hub.Register(slow))

	// Act
	require.NoError(t, hub.Broadcast(1, Event{Type: EventLeaderboardUpdate, Data: 1}))
	require.NoError(t, hub.Broadcast(1, Event{Type: EventLeaderboardUpdate, Data: 2}))

	// Assert
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond,
		"медленный клиент должен быть отключен")
	_, ok := <-slow.send
	assert.True(t, ok, "первое сообщение остается в буфере")
	_, ok = <-slow.send
	assert.False(t, ok, "канал должен быть закрыт")
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := startHub(t)
	c := bareClient(hub, 1, 1)
	require.True(t, hub.Register(c))

	hub.Unregister(c)
	hub.Unregister(c)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	assert.False(t, hub.Register(bareClient(hub, 1, 1)))
	assert.Error(t, hub.Broadcast(1, Event{Type: EventLeaderboardUpdate}))
}

func TestClient_ReceivesLeaderboardOverConnection(t *testing.T) {
	// Arrange
	hub := startHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, 3, 5).Serve()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var ack Event
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, EventSubscribed, ack.Type)

	// Act
	hub.PublishAttempt(&entity.QuizAttempt{ID: 1, QuizID: 5, UserID: 3, Score: 9, AttemptedAt: time.Now()})

	// Assert
	var update Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, EventLeaderboardUpdate, update.Type)
	data, ok := update.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(9), data["score"])
}
