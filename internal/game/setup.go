package game

import (
	"github.com/inkwellgames/lorcana-engine-go/internal/game/rules"
)

// startingHandSize is how many cards each player draws at setup.
const startingHandSize = 7

// NewMatch creates the initial state for a match: the game singleton, the two
// players, the ten fixed step entities, the shuffled decks (top first), and
// both starting hands. The state begins at turn 1 in the first player's main
// step, so the first player never runs a turn-1 draw step.
func NewMatch(deck1, deck2 []string) *GameState {
	s := &GameState{
		Turn:         1,
		ActivePlayer: Player1,
		Players: map[PlayerID]*Player{
			Player1: {ID: Player1, InkDrops: 1},
			Player2: {ID: Player2, InkDrops: 1},
		},
		Steps:     make(map[string]Step, 10),
		Cards:     make(map[CardID]*Card),
		Abilities: make(map[AbilityID]*Ability),
		Decks: map[PlayerID][]string{
			Player1: append([]string(nil), deck1...),
			Player2: append([]string(nil), deck2...),
		},
		abilitiesBySource: make(map[CardID][]AbilityID),
	}

	for _, player := range []PlayerID{Player1, Player2} {
		for _, phase := range rules.TurnSequence {
			id := rules.StepID(string(player), phase)
			s.Steps[id] = Step{ID: id, Player: player, Phase: phase}
		}
	}
	s.CurrentStep = rules.StepID(string(Player1), rules.PhaseMain)

	for _, player := range []PlayerID{Player1, Player2} {
		for i := 0; i < startingHandSize; i++ {
			if _, ok := s.DrawCard(player); !ok {
				break
			}
		}
	}
	return s
}
