package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, userID)
	}))

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + strconv.FormatInt(userID, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount(userID) >= 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestPublishReachesOnlyTargets(t *testing.T) {
	hub, srv := startHub(t)
	alice := dial(t, srv, hub, 1)
	bob := dial(t, srv, hub, 2)

	hub.Publish([]int64{1, 1}, RowChange("mentorship_sessions", ActionUpdate, 42, map[string]string{"status": "accepted"}))

	var ev Event
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, alice.ReadJSON(&ev))
	assert.Equal(t, EventRowChange, ev.Type)
	assert.Equal(t, "mentorship_sessions", ev.Table)
	assert.Equal(t, ActionUpdate, ev.Action)
	assert.Equal(t, int64(42), ev.RecordID)

	// The duplicate id must not produce a second frame, and bob gets nothing
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	assert.Error(t, alice.ReadJSON(&ev))
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	assert.Error(t, bob.ReadJSON(&ev))
}

func TestPingGetsPong(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, hub, 5)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "hello"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	var ev Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventPong, ev.Type)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, hub, 9)
	assert.Equal(t, 1, hub.ClientCount(9))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(9) == 0 }, time.Second, 10*time.Millisecond)
}

func TestUpgraderOrigins(t *testing.T) {
	up := NewUpgrader([]string{"https://app.example"})

	r := httptest.NewRequest(http.MethodGet, "http://api.example/ws", nil)
	assert.True(t, up.CheckOrigin(r))

	r.Header.Set("Origin", "https://app.example")
	assert.True(t, up.CheckOrigin(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(r))

	r.Header.Set("Origin", "http://api.example")
	assert.True(t, up.CheckOrigin(r))
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// No write pump runs, so nothing drains these buffers
	slow := &Client{hub: hub, send: make(chan []byte, 1), userID: 3}
	healthy := &Client{hub: hub, send: make(chan []byte, 8), userID: 4}
	hub.register <- slow
	hub.register <- healthy
	require.Eventually(t, func() bool { return hub.ClientCount(3) == 1 && hub.ClientCount(4) == 1 }, time.Second, 10*time.Millisecond)

	ev := Notification(1, map[string]string{"title": "hello"})
	hub.Publish([]int64{3, 4}, ev)
	hub.Publish([]int64{3, 4}, ev)

	require.Eventually(t, func() bool { return hub.ClientCount(3) == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount(4))

	_, ok := <-slow.send
	assert.True(t, ok, "the frame that fit is still delivered")
	_, ok = <-slow.send
	assert.False(t, ok, "send channel is closed once the client is dropped")
	assert.Eventually(t, func() bool { return len(healthy.send) == 2 }, time.Second, 10*time.Millisecond)
}
