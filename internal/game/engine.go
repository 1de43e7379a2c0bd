package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/deck"
)

// Engine manages live match sessions on top of the pure core functions. Each
// session owns an independent state value; the engine's lock only guards the
// session table, since states share no mutable structure.
type Engine struct {
	logger   *zap.Logger
	db       *cards.Database
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id        string
	matchupID string
	seed      string
	initial   *GameState // pristine copy for replay verification
	state     *GameState
	history   []int // applied action IDs, in order
}

// NewEngine creates an engine over a card database.
func NewEngine(logger *zap.Logger, db *cards.Database) *Engine {
	return &Engine{
		logger:   logger,
		db:       db,
		sessions: make(map[string]*session),
	}
}

// DB exposes the engine's card database.
func (e *Engine) DB() *cards.Database {
	return e.db
}

// NewMatch creates a session from two decklist texts and a shuffle seed.
// The matchup identity is the content hash of both decklists; an identical
// (matchup, seed) pair always yields an identical initial state.
func (e *Engine) NewMatch(deck1Text, deck2Text, seed string) (string, error) {
	entries1, err := deck.ParseDecklist(deck1Text)
	if err != nil {
		return "", fmt.Errorf("deck 1: %w", err)
	}
	entries2, err := deck.ParseDecklist(deck2Text)
	if err != nil {
		return "", fmt.Errorf("deck 2: %w", err)
	}
	ids1, ids2, err := deck.ShuffledPair(entries1, entries2, seed)
	if err != nil {
		return "", err
	}

	state := NewMatch(ids1, ids2)
	sess := &session{
		id:        uuid.New().String(),
		matchupID: deck.MatchupID(deck1Text, deck2Text),
		seed:      seed,
		initial:   state.Clone(),
		state:     state,
	}

	e.mu.Lock()
	e.sessions[sess.id] = sess
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("match started",
			zap.String("session_id", sess.id),
			zap.String("matchup_id", sess.matchupID),
			zap.String("seed", seed),
		)
	}
	return sess.id, nil
}

func (e *Engine) session(id string) (*session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess, nil
}

// Actions returns the current legal-action set for a session.
func (e *Engine) Actions(id string) ([]Action, error) {
	sess, err := e.session(id)
	if err != nil {
		return nil, err
	}
	return ComputeLegalActions(sess.state, e.db)
}

// Apply executes one action by ID and records it in the session history.
func (e *Engine) Apply(id string, actionID int) error {
	sess, err := e.session(id)
	if err != nil {
		return err
	}
	if err := Execute(sess.state, e.db, actionID); err != nil {
		if e.logger != nil {
			e.logger.Warn("action rejected",
				zap.String("session_id", id),
				zap.Int("action_id", actionID),
				zap.Error(err),
			)
		}
		return err
	}
	sess.history = append(sess.history, actionID)

	if e.logger != nil {
		e.logger.Debug("action applied",
			zap.String("session_id", id),
			zap.Int("action_id", actionID),
			zap.Int("turn", sess.state.Turn),
			zap.Bool("game_over", sess.state.GameOver),
		)
	}
	return nil
}

// IsGameOver reports whether the session's game has ended.
func (e *Engine) IsGameOver(id string) (bool, error) {
	sess, err := e.session(id)
	if err != nil {
		return false, err
	}
	return sess.state.GameOver, nil
}

// Winner returns the winning player, or empty if the game is still running.
func (e *Engine) Winner(id string) (PlayerID, error) {
	sess, err := e.session(id)
	if err != nil {
		return "", err
	}
	return sess.state.Winner, nil
}

// State returns an independent copy of the session state.
func (e *Engine) State(id string) (*GameState, error) {
	sess, err := e.session(id)
	if err != nil {
		return nil, err
	}
	return sess.state.Clone(), nil
}

// History returns the ordered action IDs applied so far.
func (e *Engine) History(id string) ([]int, error) {
	sess, err := e.session(id)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), sess.history...), nil
}

// Snapshot serializes the session state to its persisted document form.
func (e *Engine) Snapshot(id string) ([]byte, error) {
	sess, err := e.session(id)
	if err != nil {
		return nil, err
	}
	return EncodeState(sess.state, e.db)
}

// BuildReplay renders the session as a verifiable replay: the initial state
// document plus the action history with a checksum after every step.
func (e *Engine) BuildReplay(id string) (*Replay, error) {
	sess, err := e.session(id)
	if err != nil {
		return nil, err
	}

	initialDoc, err := Export(sess.initial, e.db)
	if err != nil {
		return nil, err
	}
	replay := &Replay{
		SessionID: sess.id,
		MatchupID: sess.matchupID,
		Seed:      sess.seed,
		Initial:   initialDoc,
	}

	state := sess.initial.Clone()
	for _, actionID := range sess.history {
		if err := Execute(state, e.db, actionID); err != nil {
			return nil, fmt.Errorf("replay step %d: %w", len(replay.Steps), err)
		}
		sum, err := Checksum(state, e.db)
		if err != nil {
			return nil, err
		}
		replay.Steps = append(replay.Steps, ReplayStep{ActionID: actionID, Checksum: sum})
	}
	return replay, nil
}

// Close removes a session.
func (e *Engine) Close(id string) {
	e.mu.Lock()
	delete(e.sessions, id)
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Debug("session closed", zap.String("session_id", id))
	}
}
