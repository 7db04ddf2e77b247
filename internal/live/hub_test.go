package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient has a send channel but no connection.
func mockClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c1, c2 := mockClient(hub), mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(c1)
	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestPublish_DropsWhenBufferFull(t *testing.T) {
	// Given
	hub := NewHub(nil)
	c := mockClient(hub)
	hub.Register(c)

	// When: more messages than the buffer holds
	for i := 0; i < sendBufferSize+5; i++ {
		hub.Publish(map[string]int{"n": i})
	}

	// Then: the buffer is full and the publisher never blocked
	assert.Len(t, c.send, sendBufferSize)

	var first map[string]int
	require.NoError(t, json.Unmarshal(<-c.send, &first))
	assert.Equal(t, 0, first["n"])
}

func TestHandler_DeliversPublishedMessages(t *testing.T) {
	// Given
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	router := gin.New()
	router.GET("/ws/scans", Handler(hub, []string{"*"}))
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/ws/scans", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	// When
	hub.Publish(map[string]string{"kind": "transition", "outcome": "logged_in"})

	// Then
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"transition","outcome":"logged_in"}`, string(data))
}
