// play-random plays a full game with a seeded random policy and reports the
// outcome. Useful for smoke-testing the rules engine and generating replays.
package main

import (
	"crypto/sha256"
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/inkwellgames/lorcana-engine-go/internal/game"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

var (
	cardsPath  = flag.String("cards", "data/cards.json", "path to card database")
	deck1Path  = flag.String("deck1", "deck1.txt", "path to player 1 decklist")
	deck2Path  = flag.String("deck2", "deck2.txt", "path to player 2 decklist")
	seed       = flag.String("seed", "default", "shuffle and policy seed")
	replayDir  = flag.String("replay-dir", "", "directory to save the replay (empty: no replay)")
	maxActions = flag.Int("max-actions", 1000, "safety cap on total actions")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := cards.Load(*cardsPath)
	if err != nil {
		logger.Fatal("failed to load card database", zap.Error(err))
	}

	deck1, err := os.ReadFile(*deck1Path)
	if err != nil {
		logger.Fatal("failed to read decklist", zap.String("path", *deck1Path), zap.Error(err))
	}
	deck2, err := os.ReadFile(*deck2Path)
	if err != nil {
		logger.Fatal("failed to read decklist", zap.String("path", *deck2Path), zap.Error(err))
	}

	engine := game.NewEngine(logger, db)
	sessionID, err := engine.NewMatch(string(deck1), string(deck2), *seed)
	if err != nil {
		logger.Fatal("failed to start match", zap.Error(err))
	}

	sum := sha256.Sum256([]byte(*seed + "_policy"))
	policy := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))

	played := 0
	for ; played < *maxActions; played++ {
		over, err := engine.IsGameOver(sessionID)
		if err != nil {
			logger.Fatal("engine error", zap.Error(err))
		}
		if over {
			break
		}

		actions, err := engine.Actions(sessionID)
		if err != nil {
			logger.Fatal("engine error", zap.Error(err))
		}
		if len(actions) == 0 {
			logger.Warn("no legal actions available, stopping")
			break
		}

		// Prefer anything over passing, so games make progress.
		choice := pick(policy, actions)
		if err := engine.Apply(sessionID, choice.ID); err != nil {
			logger.Fatal("failed to apply action",
				zap.Int("action_id", choice.ID),
				zap.String("description", choice.Description),
				zap.Error(err),
			)
		}
	}

	state, err := engine.State(sessionID)
	if err != nil {
		logger.Fatal("engine error", zap.Error(err))
	}
	logger.Info("game finished",
		zap.Bool("game_over", state.GameOver),
		zap.String("winner", string(state.Winner)),
		zap.Int("turns", state.Turn),
		zap.Int("actions", played),
		zap.Int("p1_lore", state.Players[game.Player1].Lore),
		zap.Int("p2_lore", state.Players[game.Player2].Lore),
	)

	if *replayDir != "" {
		recorder := game.NewReplayRecorder(logger, *replayDir)
		if err := recorder.Save(engine, sessionID); err != nil {
			logger.Fatal("failed to save replay", zap.Error(err))
		}
	}
}

// pick chooses a random non-pass action when one exists, otherwise passes.
func pick(policy *rand.Rand, actions []game.Action) game.Action {
	var nonPass []game.Action
	for _, a := range actions {
		if a.Kind != game.ActionPass {
			nonPass = append(nonPass, a)
		}
	}
	if len(nonPass) > 0 {
		return nonPass[policy.Intn(len(nonPass))]
	}
	return actions[policy.Intn(len(actions))]
}
