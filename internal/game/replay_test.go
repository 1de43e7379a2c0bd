package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// playDeterministic applies up to n actions, always choosing the lowest
// action ID, so every invocation walks the same line.
func playDeterministic(t *testing.T, e *Engine, id string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		over, err := e.IsGameOver(id)
		require.NoError(t, err)
		if over {
			return
		}
		require.NoError(t, e.Apply(id, 0))
	}
}

func TestBuildReplayAndVerify(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.NewMatch(testDecklist, testDecklist, "replay-seed")
	require.NoError(t, err)
	playDeterministic(t, e, id, 30)

	replay, err := e.BuildReplay(id)
	require.NoError(t, err)
	assert.Equal(t, id, replay.SessionID)
	assert.Equal(t, "replay-seed", replay.Seed)
	assert.Len(t, replay.Steps, 30)

	require.NoError(t, replay.Verify(e.DB()))
}

func TestVerifyDetectsTamperedChecksum(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.NewMatch(testDecklist, testDecklist, "replay-seed")
	require.NoError(t, err)
	playDeterministic(t, e, id, 10)

	replay, err := e.BuildReplay(id)
	require.NoError(t, err)
	replay.Steps[4].Checksum = "0000000000000000"

	err = replay.Verify(e.DB())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestVerifyDetectsTamperedAction(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.NewMatch(testDecklist, testDecklist, "replay-seed")
	require.NoError(t, err)
	playDeterministic(t, e, id, 10)

	replay, err := e.BuildReplay(id)
	require.NoError(t, err)
	replay.Steps[2].ActionID = 9999

	err = replay.Verify(e.DB())
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestReplayFileRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.NewMatch(testDecklist, testDecklist, "file-seed")
	require.NoError(t, err)
	playDeterministic(t, e, id, 15)

	dir := t.TempDir()
	recorder := NewReplayRecorder(zaptest.NewLogger(t), dir)
	require.NoError(t, recorder.Save(e, id))

	loaded, err := LoadReplayFromFile(dir, id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.SessionID)
	assert.Equal(t, "file-seed", loaded.Seed)
	assert.Len(t, loaded.Steps, 15)
	require.NoError(t, loaded.Verify(e.DB()))

	original, err := e.BuildReplay(id)
	require.NoError(t, err)
	assert.Equal(t, original.Steps, loaded.Steps)
	assert.Equal(t, original.MatchupID, loaded.MatchupID)
}

func TestLoadReplayMissingFile(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "missing-session")
	require.Error(t, err)
}

func TestReplayMatchesLiveChecksum(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.NewMatch(testDecklist, testDecklist, "live-seed")
	require.NoError(t, err)
	playDeterministic(t, e, id, 20)

	replay, err := e.BuildReplay(id)
	require.NoError(t, err)
	require.NotEmpty(t, replay.Steps)

	state, err := e.State(id)
	require.NoError(t, err)
	live, err := Checksum(state, e.DB())
	require.NoError(t, err)
	assert.Equal(t, live, replay.Steps[len(replay.Steps)-1].Checksum)
}
