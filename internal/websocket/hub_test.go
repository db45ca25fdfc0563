package websocket_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/websocket"
)

func newHubServer(t *testing.T) (*websocket.Hub, *httptest.Server) {
	t.Helper()

	hub := websocket.NewHub()
	go hub.Run()

	upgrader := gorillaWS.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.URL.Query().Get("user"))
		if err != nil {
			http.Error(w, "bad user", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := websocket.NewClient(hub, conn, userID)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))

	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})

	return hub, srv
}

func dial(t *testing.T, hub *websocket.Hub, srv *httptest.Server, userID uuid.UUID) *gorillaWS.Conn {
	t.Helper()

	before := hub.ConnectionCount(userID)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID.String()
	conn, _, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.ConnectionCount(userID) == before+1
	}, 2*time.Second, 10*time.Millisecond)

	return conn
}

func readMessage(t *testing.T, conn *gorillaWS.Conn) *websocket.Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg websocket.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func TestHub_NotifyUserReachesEveryConnection(t *testing.T) {
	hub, srv := newHubServer(t)

	alice := uuid.New()
	bob := uuid.New()

	aliceTab1 := dial(t, hub, srv, alice)
	aliceTab2 := dial(t, hub, srv, alice)
	bobConn := dial(t, hub, srv, bob)

	event := domain.ActivityEvent{
		Type:      domain.ActivityFollowed,
		Actor:     domain.UserRef{ID: bob, Username: "bob"},
		CreatedAt: time.Now(),
	}
	hub.NotifyUser(alice, event)

	for _, conn := range []*gorillaWS.Conn{aliceTab1, aliceTab2} {
		msg := readMessage(t, conn)
		assert.Equal(t, websocket.MessageTypeFollowed, msg.Type)

		var got domain.ActivityEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, bob, got.Actor.ID)
		assert.Equal(t, "bob", got.Actor.Username)
	}

	bobConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := bobConn.ReadMessage()
	assert.Error(t, err, "bob should not receive alice's events")
}

func TestHub_NotifyOfflineUserIsNoop(t *testing.T) {
	hub, _ := newHubServer(t)

	assert.NotPanics(t, func() {
		hub.NotifyUser(uuid.New(), domain.ActivityEvent{Type: domain.ActivityRecommendationLiked})
	})
}

func TestClient_PingPong(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, hub, srv, uuid.New())

	ping, err := websocket.NewMessage(websocket.MessageTypePing, struct{}{})
	require.NoError(t, err)
	data, err := json.Marshal(ping)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(gorillaWS.TextMessage, data))

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypePong, msg.Type)
}

func TestClient_UnknownMessageReturnsError(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, hub, srv, uuid.New())

	require.NoError(t, conn.WriteMessage(gorillaWS.TextMessage, []byte(`{"type":"JOIN_ROOM","payload":{}}`)))

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypeError, msg.Type)

	var payload websocket.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "UNKNOWN_MESSAGE", payload.Code)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, srv := newHubServer(t)
	user := uuid.New()
	conn := dial(t, hub, srv, user)

	conn.Close()

	assert.Eventually(t, func() bool {
		return hub.ConnectionCount(user) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesConnections(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, hub, srv, uuid.New())

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
