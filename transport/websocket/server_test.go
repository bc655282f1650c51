package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshambo-games/roshambo-backend/internal/entity"
	"github.com/roshambo-games/roshambo-backend/internal/registry"
	"github.com/roshambo-games/roshambo-backend/internal/service"
	"github.com/roshambo-games/roshambo-backend/internal/usecase"
)

type nopArchive struct{}

func (nopArchive) Save(_ context.Context, _ *entity.RoundRecord) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *registry.RoomRegistry) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rooms := registry.NewRoomRegistry()
	sessions := usecase.NewSessionManager(
		logger,
		rooms,
		registry.NewPlayerRegistry(),
		registry.NewTransportRegistry(),
		service.NewTokenizer("test-salt"),
		nopArchive{},
	)

	srv := New(logger, sessions)

	router := mux.NewRouter()
	router.HandleFunc("/start/{roomID}", srv.handleStart)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts, rooms
}

func dial(t *testing.T, ts *httptest.Server, roomID, query string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/start/" + roomID + "?" + query

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *entity.EventMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var message entity.EventMessage
	require.NoError(t, conn.ReadJSON(&message))

	return &message
}

func TestServer_TwoPlayerGame(t *testing.T) {
	// Given: a served room for two players
	ts, rooms := newTestServer(t)
	room := rooms.Create("lobby", 2)

	// When: player A connects
	alice := dial(t, ts, room.ID, "name=alice")

	// Then: A receives ConnectedToRoom with a credential
	connected := readEvent(t, alice)
	assert.Equal(t, entity.EventConnectedToRoom, connected.Event)
	assert.NotEmpty(t, connected.Hash)
	require.NotNil(t, connected.Room)
	assert.Len(t, connected.Room.Players, 1)

	// When: player B connects
	bob := dial(t, ts, room.ID, "name=bob")

	// Then: B is welcomed, A learns about B, both may start
	bobConnected := readEvent(t, bob)
	assert.Equal(t, entity.EventConnectedToRoom, bobConnected.Event)
	assert.Len(t, bobConnected.Room.Players, 2)

	assert.Equal(t, entity.EventNewPlayerConnected, readEvent(t, alice).Event)
	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, alice).Event)
	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, bob).Event)

	// When: A plays rock and B plays scissors
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("rock")))
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte("scissors")))

	// Then: A wins, B loses, and the next round is announced
	winEvent := readEvent(t, alice)
	assert.Equal(t, entity.EventWin, winEvent.Event)
	assert.Equal(t, entity.EventLose, readEvent(t, bob).Event)

	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, alice).Event)
	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, bob).Event)

	// And: the winner's hand is visible in the result snapshot
	require.NotNil(t, winEvent.Room)
	require.Len(t, winEvent.Room.Players, 2)
}

func TestServer_RoomNotFound(t *testing.T) {
	// Given: a server without rooms
	ts, _ := newTestServer(t)

	// When: connecting with an unknown room id
	conn := dial(t, ts, "missing-room", "name=alice")

	// Then: the connection is closed with the room-not-found code
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, usecase.CloseCodeRoomNotFound), "unexpected error: %v", err)
}

func TestServer_InvalidChoiceNotice(t *testing.T) {
	// Given: a full two-player room
	ts, rooms := newTestServer(t)
	room := rooms.Create("lobby", 2)

	alice := dial(t, ts, room.ID, "name=alice")
	assert.Equal(t, entity.EventConnectedToRoom, readEvent(t, alice).Event)
	bob := dial(t, ts, room.ID, "name=bob")
	assert.Equal(t, entity.EventConnectedToRoom, readEvent(t, bob).Event)
	assert.Equal(t, entity.EventNewPlayerConnected, readEvent(t, alice).Event)
	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, alice).Event)
	assert.Equal(t, entity.EventGameCanBeStart, readEvent(t, bob).Event)

	// When: A sends a malformed token
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("lizard")))

	// Then: A receives a personal plain-text notice and the session lives on
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, payload, err := alice.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "not valid choice", string(payload))
}
