package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/inkwellgames/lorcana-engine-go/internal/game"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

const testDecklist = `4 Brave Scout
4 Lore Seeker
4 Tower Guard
`

func testDB() *cards.Database {
	return cards.NewDatabase([]cards.Card{
		{ID: 1, Name: "Brave Scout", Type: cards.TypeCharacter, Cost: 2, Inkwell: true, Strength: 2, Willpower: 2, Lore: 1},
		{ID: 2, Name: "Lore Seeker", Type: cards.TypeCharacter, Cost: 2, Inkwell: true, Strength: 1, Willpower: 2, Lore: 3},
		{ID: 3, Name: "Tower Guard", Type: cards.TypeCharacter, Cost: 3, Inkwell: true, Strength: 1, Willpower: 4, Lore: 1,
			Keywords: []cards.Keyword{cards.KeywordBodyguard}},
	})
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger, testDB())
	recorder := game.NewReplayRecorder(logger, t.TempDir())
	srv := httptest.NewServer(New(logger, engine, recorder).Router())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	var msg serverMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func startMatch(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.WriteJSON(clientMessage{
		Type:  "new_match",
		Deck1: testDecklist,
		Deck2: testDecklist,
		Seed:  "ws-test-seed",
	}))

	started := readMessage(t, conn)
	require.Equal(t, "match_started", started.Type)
	require.NotEmpty(t, started.SessionID)

	actions := readMessage(t, conn)
	require.Equal(t, "actions", actions.Type)
	require.NotEmpty(t, actions.Actions)
	return started.SessionID
}

func TestNewMatchOverWebsocket(t *testing.T) {
	conn := dialTestServer(t)
	startMatch(t, conn)
}

func TestApplyActionOverWebsocket(t *testing.T) {
	conn := dialTestServer(t)
	startMatch(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "apply", ActionID: 0}))
	msg := readMessage(t, conn)
	assert.Equal(t, "actions", msg.Type)
	assert.False(t, msg.GameOver)
}

func TestApplyInvalidActionOverWebsocket(t *testing.T) {
	conn := dialTestServer(t)
	startMatch(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "apply", ActionID: 9999}))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "invalid action", msg.Error)
}

func TestStateSnapshotOverWebsocket(t *testing.T) {
	conn := dialTestServer(t)
	sessionID := startMatch(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "state"}))
	msg := readMessage(t, conn)
	require.Equal(t, "state", msg.Type)
	assert.Equal(t, sessionID, msg.SessionID)

	restored, err := game.DecodeState([]byte(msg.State))
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Turn)
}

func TestSaveReplayOverWebsocket(t *testing.T) {
	conn := dialTestServer(t)
	startMatch(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "apply", ActionID: 0}))
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "save_replay"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "replay_saved", msg.Type)
}

func TestMalformedMessage(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "malformed message", msg.Error)
}

func TestUnknownMessageType(t *testing.T) {
	conn := dialTestServer(t)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "teleport"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "unknown message type", msg.Error)
}
