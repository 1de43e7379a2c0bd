// Package server exposes the rules engine over a websocket connection for
// interactive play. One connection drives one match session.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inkwellgames/lorcana-engine-go/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server handles websocket play sessions.
type Server struct {
	logger   *zap.Logger
	engine   *game.Engine
	recorder *game.ReplayRecorder
}

// New creates a server. recorder may be nil to disable replay persistence.
func New(logger *zap.Logger, engine *game.Engine, recorder *game.ReplayRecorder) *Server {
	return &Server{logger: logger, engine: engine, recorder: recorder}
}

// Router returns the HTTP mux for the server.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// clientMessage is one inbound websocket frame.
type clientMessage struct {
	Type     string `json:"type"` // new_match, actions, apply, state, save_replay
	Deck1    string `json:"deck1,omitempty"`
	Deck2    string `json:"deck2,omitempty"`
	Seed     string `json:"seed,omitempty"`
	ActionID int    `json:"action_id,omitempty"`
}

// serverMessage is one outbound websocket frame.
type serverMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	Actions   []actionView  `json:"actions,omitempty"`
	State     json.RawMessage `json:"state,omitempty"`
	GameOver  bool          `json:"game_over,omitempty"`
	Winner    string        `json:"winner,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// actionView is the wire form of one legal action.
type actionView struct {
	ID          int    `json:"id"`
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Variant     string `json:"variant,omitempty"`
	Description string `json:"description"`
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	var sessionID string
	defer func() {
		if sessionID != "" {
			s.engine.Close(sessionID)
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.write(conn, serverMessage{Type: "error", Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case "new_match":
			id, err := s.engine.NewMatch(msg.Deck1, msg.Deck2, msg.Seed)
			if err != nil {
				s.write(conn, serverMessage{Type: "error", Error: err.Error()})
				continue
			}
			sessionID = id
			s.write(conn, serverMessage{Type: "match_started", SessionID: id})
			s.sendActions(conn, sessionID)

		case "actions":
			s.sendActions(conn, sessionID)

		case "apply":
			if err := s.engine.Apply(sessionID, msg.ActionID); err != nil {
				s.write(conn, serverMessage{Type: "error", Error: userError(err)})
				continue
			}
			s.sendActions(conn, sessionID)

		case "state":
			snapshot, err := s.engine.Snapshot(sessionID)
			if err != nil {
				s.write(conn, serverMessage{Type: "error", Error: err.Error()})
				continue
			}
			s.write(conn, serverMessage{Type: "state", SessionID: sessionID, State: snapshot})

		case "save_replay":
			if s.recorder == nil {
				s.write(conn, serverMessage{Type: "error", Error: "replay recording disabled"})
				continue
			}
			if err := s.recorder.Save(s.engine, sessionID); err != nil {
				s.write(conn, serverMessage{Type: "error", Error: err.Error()})
				continue
			}
			s.write(conn, serverMessage{Type: "replay_saved", SessionID: sessionID})

		default:
			s.write(conn, serverMessage{Type: "error", Error: "unknown message type"})
		}
	}
}

// sendActions sends the refreshed legal-action set and game status.
func (s *Server) sendActions(conn *websocket.Conn, sessionID string) {
	actions, err := s.engine.Actions(sessionID)
	if err != nil {
		s.write(conn, serverMessage{Type: "error", Error: err.Error()})
		return
	}
	over, _ := s.engine.IsGameOver(sessionID)
	winner, _ := s.engine.Winner(sessionID)

	views := make([]actionView, len(actions))
	for i, a := range actions {
		views[i] = actionView{
			ID:          a.ID,
			Kind:        string(a.Kind),
			Source:      a.Source,
			Target:      a.Target,
			Variant:     a.Variant,
			Description: a.Description,
		}
	}
	s.write(conn, serverMessage{
		Type:      "actions",
		SessionID: sessionID,
		Actions:   views,
		GameOver:  over,
		Winner:    string(winner),
	})
}

func (s *Server) write(conn *websocket.Conn, msg serverMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
	}
}

// userError maps player-facing rejections to short wire strings; anything
// else passes through verbatim.
func userError(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid action"
	case errors.Is(err, game.ErrGameOver):
		return "game over"
	case errors.Is(err, game.ErrIllegalTarget):
		return "illegal target"
	}
	return err.Error()
}
