package wsclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSocketReceivesScopedUpdates(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/orders", r.URL.Path)
		require.Equal(t, "jeton", r.URL.Query().Get("token"))
		require.Equal(t, "o42", r.URL.Query().Get("order_id"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"order_update","data":{"id":"o42"}}`))
		conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1)

	received := make(chan []byte, 1)
	s, err := DialOrderSocket(context.Background(), wsURL, "jeton", "o42", func(raw []byte) {
		received <- raw
	})
	require.NoError(t, err)
	defer s.Close()

	select {
	case raw := <-received:
		assert.JSONEq(t, `{"type":"order_update","data":{"id":"o42"}}`, string(raw))
	case <-time.After(3 * time.Second):
		t.Fatal("mise à jour jamais reçue")
	}
}

func TestOrderSocketDialFailure(t *testing.T) {
	_, err := DialOrderSocket(context.Background(), "ws://127.0.0.1:1", "jeton", "o1", func([]byte) {})
	assert.Error(t, err)
}
