package bridge_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentumlabs/docflow/internal/bridge"
	"github.com/momentumlabs/docflow/internal/eventbus"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/collaborate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_CursorMove_FansOutExceptSender(t *testing.T) {
	bus := eventbus.NewMemory()
	hub := bridge.NewHub(bus, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/collaborate", func(w http.ResponseWriter, r *http.Request) {
		resp := hub.Serve()
		_ = resp(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	alice := dial(t, server)
	bob := dial(t, server)
	documentID := "33333333-3333-3333-3333-333333333333"

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "join-document", "documentId": documentID}))
	require.NoError(t, bob.WriteJSON(map[string]any{"type": "join-document", "documentId": documentID}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "cursor-move", "documentId": documentID, "x": 1.5, "y": 2.5}))

	_ = bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := bob.ReadMessage()
	require.NoError(t, err)

	var evt map[string]any
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "cursor-changed", evt["type"])
	assert.Equal(t, 1.5, evt["x"])

	_ = alice.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = alice.ReadMessage()
	assert.Error(t, err, "sender must not receive its own cursor-changed broadcast")
}

func TestHub_AddAnnotation_FansOutToRoom(t *testing.T) {
	bus := eventbus.NewMemory()
	hub := bridge.NewHub(bus, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/collaborate", func(w http.ResponseWriter, r *http.Request) {
		resp := hub.Serve()
		_ = resp(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	alice := dial(t, server)
	bob := dial(t, server)
	documentID := "44444444-4444-4444-4444-444444444444"

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "join-document", "documentId": documentID}))
	require.NoError(t, bob.WriteJSON(map[string]any{"type": "join-document", "documentId": documentID}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "add-annotation", "documentId": documentID, "content": "looks good"}))

	_ = bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := bob.ReadMessage()
	require.NoError(t, err)

	var evt map[string]any
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "annotation-added", evt["type"])
	assert.Equal(t, "looks good", evt["content"])
	assert.Equal(t, documentID, evt["documentId"])
}
