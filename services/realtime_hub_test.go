package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newHubServer serves websocket clients for the session named in ?sid=.
func newHubServer(t *testing.T, hub *RealtimeHub) string {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := NewWSClient(r.URL.Query().Get("sid"), conn)
		hub.Register(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(cl)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialHub(t *testing.T, base, sid string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"?sid="+sid, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesOnlyTheSession(t *testing.T) {
	hub := NewRealtimeHub(zap.NewNop())
	base := newHubServer(t, hub)
	alice := dialHub(t, base, "alice")
	dialHub(t, base, "bob")
	require.Eventually(t, func() bool {
		return hub.Connected("alice") == 1 && hub.Connected("bob") == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.Broadcast("alice", map[string]string{"kind": "meal.created"}))
	assert.Zero(t, hub.Broadcast("nobody", map[string]string{"kind": "meal.created"}))

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := alice.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"meal.created"}`, string(msg))
}

func TestBroadcastNeverWaitsOnStalledClient(t *testing.T) {
	hub := NewRealtimeHub(zap.NewNop())
	hub.writeWait = 200 * time.Millisecond
	base := newHubServer(t, hub)

	dialHub(t, base, "alice") // never reads
	dialHub(t, base, "bob")
	require.Eventually(t, func() bool {
		return hub.Connected("alice") == 1 && hub.Connected("bob") == 1
	}, time.Second, 10*time.Millisecond)

	big := map[string]string{"meal_desc": strings.Repeat("x", 1<<20)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Broadcast("alice", big)
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Broadcast blocked on a client that stopped reading")
	}

	// the stalled socket is dropped, other sessions keep theirs
	require.Eventually(t, func() bool { return hub.Connected("alice") == 0 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, hub.Connected("bob"))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewRealtimeHub(zap.NewNop())
	base := newHubServer(t, hub)
	dialHub(t, base, "alice")
	require.Eventually(t, func() bool { return hub.Connected("alice") == 1 }, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	var cl *WSClient
	for c := range hub.clients["alice"] {
		cl = c
	}
	hub.mu.RUnlock()

	hub.Unregister(cl)
	hub.Unregister(cl)
	assert.Zero(t, hub.Connected("alice"))
	assert.Zero(t, hub.Broadcast("alice", "ignored"))
}
