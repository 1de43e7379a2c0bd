package game

import (
	"fmt"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/rules"
)

// advanceTurn is the pass executor: it runs the rest of the active player's
// turn and the start of the opponent's, moving the current-step relation
// through end -> (handoff) -> ready -> set -> draw -> main. Deck-out during
// the draw step ends the game immediately and short-circuits the rest.
func advanceTurn(s *GameState) error {
	current := s.ActivePlayer
	next := Opponent(current)

	if err := moveToStep(s, current, rules.PhaseEnd); err != nil {
		return err
	}
	// End step is purely a transition trigger.

	// Turn handoff: the current-turn relation moves to the other player.
	s.ActivePlayer = next
	s.Turn++

	if err := moveToStep(s, next, rules.PhaseReady); err != nil {
		return err
	}
	readyStep(s, next)

	if err := moveToStep(s, next, rules.PhaseSet); err != nil {
		return err
	}
	if err := setStep(s, next); err != nil {
		return err
	}

	if err := moveToStep(s, next, rules.PhaseDraw); err != nil {
		return err
	}
	drawStep(s, next)
	if s.GameOver {
		return nil
	}

	return moveToStep(s, next, rules.PhaseMain)
}

// moveToStep points the current-step relation at one of the ten fixed steps.
func moveToStep(s *GameState, player PlayerID, phase rules.Phase) error {
	id := rules.StepID(string(player), phase)
	if _, err := s.Step(id); err != nil {
		return fmt.Errorf("advance turn: %w", err)
	}
	s.CurrentStep = id
	return nil
}

// readyStep clears exerted on all of the new active player's cards in play.
func readyStep(s *GameState, player PlayerID) {
	for _, c := range s.CardsInZone(player, ZonePlay) {
		c.Exerted = false
	}
}

// setStep restores the ink pool to the lifetime total and grants this turn's
// ink drop.
func setStep(s *GameState, player PlayerID) error {
	p, err := s.Player(player)
	if err != nil {
		return err
	}
	p.InkDrops = 1
	p.InkAvailable = p.InkTotal
	return nil
}

// drawStep draws one card. The very first player's very first turn skips the
// draw entirely; an empty deck is the deck-out loss, won by the opponent.
func drawStep(s *GameState, player PlayerID) {
	if player == Player1 && s.Turn == 1 {
		return
	}
	if _, ok := s.DrawCard(player); !ok {
		s.GameOver = true
		s.Winner = Opponent(player)
	}
}
