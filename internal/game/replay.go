package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

// Replay is a recorded game: the initial state document plus the ordered
// action IDs, each paired with the checksum of the state after that action.
// Replaying the IDs from the initial state must reproduce every checksum.
type Replay struct {
	SessionID string
	MatchupID string
	Seed      string
	Initial   *StateDocument
	Steps     []ReplayStep
}

// ReplayStep is one applied action and the state checksum it produced.
type ReplayStep struct {
	ActionID int
	Checksum string
}

// Verify replays the action sequence from the initial state and compares the
// checksum at every step. Any divergence is a determinism bug.
func (r *Replay) Verify(db *cards.Database) error {
	state, err := Import(r.Initial)
	if err != nil {
		return fmt.Errorf("replay initial state: %w", err)
	}
	for i, step := range r.Steps {
		if err := Execute(state, db, step.ActionID); err != nil {
			return fmt.Errorf("replay step %d (action %d): %w", i, step.ActionID, err)
		}
		sum, err := Checksum(state, db)
		if err != nil {
			return err
		}
		if sum != step.Checksum {
			return fmt.Errorf("replay step %d (action %d): checksum mismatch: got %s, recorded %s",
				i, step.ActionID, sum, step.Checksum)
		}
	}
	return nil
}

// replayFileHeader is the metadata block at the front of a replay file.
type replayFileHeader struct {
	SessionID string
	MatchupID string
	Seed      string
	SavedAt   time.Time
	Version   int
	StepCount int
}

const replayFileVersion = 1

// SaveToFile writes the replay to <dir>/<session-id>.replay as gzipped gob.
func (r *Replay) SaveToFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	file, err := os.Create(filepath.Join(dir, r.SessionID+".replay"))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	defer zw.Close()
	enc := gob.NewEncoder(zw)

	header := replayFileHeader{
		SessionID: r.SessionID,
		MatchupID: r.MatchupID,
		Seed:      r.Seed,
		SavedAt:   time.Now(),
		Version:   replayFileVersion,
		StepCount: len(r.Steps),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("encode replay header: %w", err)
	}
	if err := enc.Encode(r.Initial); err != nil {
		return fmt.Errorf("encode initial state: %w", err)
	}
	for i, step := range r.Steps {
		if err := enc.Encode(&step); err != nil {
			return fmt.Errorf("encode replay step %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay saved by SaveToFile.
func LoadReplayFromFile(dir, sessionID string) (*Replay, error) {
	file, err := os.Open(filepath.Join(dir, sessionID+".replay"))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	defer zr.Close()
	dec := gob.NewDecoder(zr)

	var header replayFileHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	if header.Version != replayFileVersion {
		return nil, fmt.Errorf("unsupported replay version %d", header.Version)
	}

	replay := &Replay{
		SessionID: header.SessionID,
		MatchupID: header.MatchupID,
		Seed:      header.Seed,
	}
	var initial StateDocument
	if err := dec.Decode(&initial); err != nil {
		return nil, fmt.Errorf("decode initial state: %w", err)
	}
	replay.Initial = &initial

	for i := 0; i < header.StepCount; i++ {
		var step ReplayStep
		if err := dec.Decode(&step); err != nil {
			return nil, fmt.Errorf("decode replay step %d: %w", i, err)
		}
		replay.Steps = append(replay.Steps, step)
	}
	return replay, nil
}

// ReplayRecorder persists finished session replays to a directory.
type ReplayRecorder struct {
	logger *zap.Logger
	mu     sync.Mutex
	dir    string
}

// NewReplayRecorder creates a recorder writing into dir.
func NewReplayRecorder(logger *zap.Logger, dir string) *ReplayRecorder {
	return &ReplayRecorder{logger: logger, dir: dir}
}

// Save builds and persists the replay for a session.
func (rr *ReplayRecorder) Save(e *Engine, sessionID string) error {
	replay, err := e.BuildReplay(sessionID)
	if err != nil {
		return err
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()
	if err := replay.SaveToFile(rr.dir); err != nil {
		return err
	}

	if rr.logger != nil {
		rr.logger.Info("saved replay",
			zap.String("session_id", sessionID),
			zap.String("matchup_id", replay.MatchupID),
			zap.Int("steps", len(replay.Steps)),
			zap.String("directory", rr.dir),
		)
	}
	return nil
}
