package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBroadcaster sets up a Broadcaster with a test HTTP server that upgrades
// connections and registers them. Returns the broadcaster and a dial function.
func testBroadcaster(t *testing.T, maxSessions int) (*Broadcaster, func() *ws.Conn) {
	t.Helper()

	broadcaster := NewBroadcaster(clockwork.NewRealClock(), maxSessions)
	t.Cleanup(func() { broadcaster.Stop() })

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		sessionID := uuid.New()
		if err := broadcaster.Register(sessionID, conn); err != nil {
			return
		}

		// Read loop to detect disconnects
		go func() {
			defer broadcaster.Unregister(sessionID)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}))
	t.Cleanup(server.Close)

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return broadcaster, dial
}

// waitForClientCount polls until the broadcaster reaches the expected count.
func waitForClientCount(b *Broadcaster, expected int) bool {
	for range 200 {
		if b.ClientCount() == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestBroadcaster_DeliversVerbatimPayload(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	conn := dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	payload := []byte(`{"temperature":36.5,"heartrate":72,"spo2":98}`)
	broadcaster.Broadcast(payload)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, payload, msg)
}

func TestBroadcaster_FanOutToAllSessions(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	conns := []*ws.Conn{dial(), dial(), dial()}
	require.True(t, waitForClientCount(broadcaster, 3))

	payload := []byte(`{"temperature":37.0,"heartrate":80,"spo2":97}`)
	broadcaster.Broadcast(payload)

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, payload, msg)
	}
}

func TestBroadcaster_DisconnectDoesNotAffectOthers(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	gone := dial()
	stays := dial()
	require.True(t, waitForClientCount(broadcaster, 2))

	gone.Close()
	require.True(t, waitForClientCount(broadcaster, 1))

	payload := []byte(`{"spo2":98}`)
	broadcaster.Broadcast(payload)

	stays.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := stays.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, payload, msg)
}

func TestBroadcaster_UnregisterIsIdempotent(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	absent := uuid.New()
	broadcaster.Unregister(absent)
	broadcaster.Unregister(absent)

	assert.True(t, waitForClientCount(broadcaster, 1))
}

func TestBroadcaster_DisconnectRacesBroadcast(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	conn := dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	// Hammer broadcasts while the client disconnects; the session must be
	// removed exactly once with no panic and no stuck state.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			broadcaster.Broadcast([]byte(`{"heartrate":70}`))
		}
	}()

	conn.Close()
	<-done

	assert.True(t, waitForClientCount(broadcaster, 0))
}

func TestBroadcaster_MaxSessions(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 1)

	dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	// Second registration is rejected by the actor; the count stays at one.
	dial()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, broadcaster.ClientCount())
}

func TestBroadcaster_StopClosesSessions(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	conn := dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	broadcaster.Stop()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestBroadcaster_NoReplayForLateJoiners(t *testing.T) {
	broadcaster, dial := testBroadcaster(t, 0)

	early := dial()
	require.True(t, waitForClientCount(broadcaster, 1))

	broadcaster.Broadcast([]byte(`{"heartrate":60}`))

	// Drain the early viewer so ordering is observable.
	early.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := early.ReadMessage()
	require.NoError(t, err)

	late := dial()
	require.True(t, waitForClientCount(broadcaster, 2))

	broadcaster.Broadcast([]byte(`{"heartrate":61}`))

	// The late joiner sees only the payload published after it registered.
	late.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := late.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"heartrate":61}`), msg)
}
