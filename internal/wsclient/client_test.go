package wsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mesob_back_end/internal/events"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(kind events.Kind, data string) events.Envelope {
	return events.Envelope{
		Type:      kind,
		Data:      json.RawMessage(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestDispatchTypedThenWildcard(t *testing.T) {
	c := New("ws://inutile", "jeton")

	var calls []string
	c.On(events.KindOrderUpdate, func(env events.Envelope) {
		calls = append(calls, "premier")
	})
	c.On(events.KindOrderUpdate, func(env events.Envelope) {
		calls = append(calls, "second")
	})
	c.On(events.KindAny, func(env events.Envelope) {
		calls = append(calls, "joker:"+string(env.Type))
	})
	c.On(events.KindPaymentUpdate, func(env events.Envelope) {
		calls = append(calls, "paiement")
	})

	c.dispatch(envelope(events.KindOrderUpdate, `{"id":"o1"}`))

	// Chaque handler exactement une fois, ordre d'enregistrement respecté,
	// le joker après les handlers typés, l'autre type jamais appelé
	assert.Equal(t, []string{"premier", "second", "joker:order_update"}, calls)
}

func TestUnsubscribe(t *testing.T) {
	c := New("ws://inutile", "jeton")

	n := 0
	off := c.On(events.KindOrderUpdate, func(events.Envelope) { n++ })
	c.dispatch(envelope(events.KindOrderUpdate, `{}`))
	off()
	c.dispatch(envelope(events.KindOrderUpdate, `{}`))

	assert.Equal(t, 1, n)
}

func TestSendWhenDisconnectedIsNoop(t *testing.T) {
	c := New("ws://inutile", "jeton")
	assert.False(t, c.IsConnected())
	// Ne doit ni paniquer ni bloquer
	c.Send(events.KindOrderUpdate, map[string]string{"id": "o1"})
}

func TestConnectAndReceive(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws", r.URL.Path)
		require.Equal(t, "jeton", r.URL.Query().Get("token"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Une frame illisible d'abord : elle doit être ignorée
		conn.WriteMessage(websocket.TextMessage, []byte("pas du json"))
		conn.WriteJSON(envelope(events.KindOrderUpdate, `{"id":"o1"}`))

		// Garder la connexion ouverte le temps du test
		conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1)
	c := New(wsURL, "jeton")
	defer c.Close()

	received := make(chan events.Envelope, 1)
	c.On(events.KindOrderUpdate, func(env events.Envelope) {
		received <- env
	})

	require.NoError(t, c.Connect(context.Background()))

	select {
	case env := <-received:
		assert.Equal(t, events.KindOrderUpdate, env.Type)
		assert.JSONEq(t, `{"id":"o1"}`, string(env.Data))
	case <-time.After(3 * time.Second):
		t.Fatal("frame jamais reçue")
	}

	// Un second Connect sur une connexion ouverte est un no-op
	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.IsConnected())
}
