package game

import (
	"fmt"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

// Execute applies exactly one legal action to the state, identified by its
// ID within the current legal-action set. Player-facing rejections
// (ErrGameOver, ErrInvalidAction) happen before any mutation; once an action
// is validated it applies completely. After the mutation the state-based
// banishment check runs, and the caller recomputes the legal-action set.
func Execute(s *GameState, db *cards.Database, actionID int) error {
	if s.GameOver {
		return fmt.Errorf("execute action %d: %w", actionID, ErrGameOver)
	}

	actions, err := ComputeLegalActions(s, db)
	if err != nil {
		return err
	}
	var chosen *Action
	for i := range actions {
		if actions[i].ID == actionID {
			chosen = &actions[i]
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("execute action %d: %w", actionID, ErrInvalidAction)
	}
	return apply(s, db, *chosen)
}

// Challenge applies a challenge named by its endpoints rather than an action
// ID. A defender pruned by the Evasive or Bodyguard gates fails with
// ErrIllegalTarget; an attacker with no legal challenge at all fails with
// ErrInvalidAction.
func Challenge(s *GameState, db *cards.Database, attacker, defender CardID) error {
	if s.GameOver {
		return fmt.Errorf("challenge %s->%s: %w", attacker, defender, ErrGameOver)
	}
	actions, err := ComputeLegalActions(s, db)
	if err != nil {
		return err
	}
	attackerHasAny := false
	for _, a := range actions {
		if a.Kind != ActionChallenge || a.Source != string(attacker) {
			continue
		}
		if a.Target == string(defender) {
			return apply(s, db, a)
		}
		attackerHasAny = true
	}
	if attackerHasAny {
		return fmt.Errorf("challenge %s->%s: %w", attacker, defender, ErrIllegalTarget)
	}
	return fmt.Errorf("challenge %s->%s: %w", attacker, defender, ErrInvalidAction)
}

// apply routes a validated action to its executor, then runs the state-based
// banishment check.
func apply(s *GameState, db *cards.Database, action Action) error {
	var err error
	switch action.Kind {
	case ActionPass:
		err = advanceTurn(s)
	case ActionInk:
		err = executeInk(s, CardID(action.Source))
	case ActionPlay:
		err = executePlay(s, db, CardID(action.Source), action.Variant)
	case ActionQuest:
		err = executeQuest(s, db, CardID(action.Source))
	case ActionChallenge:
		err = executeChallenge(s, db, CardID(action.Source), CardID(action.Target))
	default:
		err = fmt.Errorf("action kind %s: %w", action.Kind, ErrInvalidAction)
	}
	if err != nil {
		return err
	}
	return checkStateBasedEffects(s, db)
}

// executeInk moves the card to the ink zone and books the resource: the ink
// drop for this turn is spent, and both the lifetime total and the available
// pool grow by one.
func executeInk(s *GameState, id CardID) error {
	card, err := s.Card(id)
	if err != nil {
		return err
	}
	player, err := s.Player(card.Owner)
	if err != nil {
		return err
	}

	card.Zone = ZoneInk
	player.InkDrops--
	player.InkTotal++
	player.InkAvailable++
	return nil
}

// executePlay pays the cost and moves the card to play, or straight to
// discard for non-permanent cards. A card entering play records the turn
// (for drying), honors the Bodyguard enters-exerted variant, and has its
// printed abilities created.
func executePlay(s *GameState, db *cards.Database, id CardID, variant string) error {
	card, err := s.Card(id)
	if err != nil {
		return err
	}
	player, err := s.Player(card.Owner)
	if err != nil {
		return err
	}
	data, ok := db.Get(card.Name)
	if !ok {
		return fmt.Errorf("card data %s: %w", card.Name, ErrNotFound)
	}

	player.InkAvailable -= data.Cost

	if data.Type == cards.TypeAction {
		card.Zone = ZoneDiscard
		return nil
	}

	card.Zone = ZonePlay
	card.EnteredPlay = s.Turn
	card.Exerted = variant == VariantExerted
	return createPrintedAbilities(s, db, card)
}

// executeQuest exerts the character and scores its lore. AddLore ends the
// game immediately at the win threshold.
func executeQuest(s *GameState, db *cards.Database, id CardID) error {
	card, err := s.Card(id)
	if err != nil {
		return err
	}
	data, ok := db.Get(card.Name)
	if !ok {
		return fmt.Errorf("card data %s: %w", card.Name, ErrNotFound)
	}

	card.Exerted = true
	return s.AddLore(card.Owner, data.Lore)
}

// executeChallenge exerts the attacker and deals damage in both directions
// simultaneously. Banishment is not interleaved here: lethal damage is
// resolved by the state-based check after both applications.
func executeChallenge(s *GameState, db *cards.Database, attackerID, defenderID CardID) error {
	attacker, err := s.Card(attackerID)
	if err != nil {
		return err
	}
	defender, err := s.Card(defenderID)
	if err != nil {
		return err
	}
	attackerData, ok := db.Get(attacker.Name)
	if !ok {
		return fmt.Errorf("card data %s: %w", attacker.Name, ErrNotFound)
	}
	defenderData, ok := db.Get(defender.Name)
	if !ok {
		return fmt.Errorf("card data %s: %w", defender.Name, ErrNotFound)
	}

	attacker.Exerted = true
	defender.Damage += attackerData.EffectiveStrength()
	attacker.Damage += defenderData.EffectiveStrength()
	return nil
}

// checkStateBasedEffects banishes every character in play whose damage has
// reached its willpower. All banishments are collected first, then applied,
// so simultaneous lethal damage removes both sides of a trade. Leaving play
// cascades the ability cleanup.
func checkStateBasedEffects(s *GameState, db *cards.Database) error {
	var banish []*Card
	for _, player := range []PlayerID{Player1, Player2} {
		for _, c := range s.CardsInZone(player, ZonePlay) {
			if c.Damage == 0 {
				continue
			}
			data, ok := db.Get(c.Name)
			if !ok {
				return fmt.Errorf("card data %s: %w", c.Name, ErrNotFound)
			}
			if data.Type != cards.TypeCharacter {
				continue
			}
			if c.Damage >= data.EffectiveWillpower() {
				banish = append(banish, c)
			}
		}
	}
	for _, c := range banish {
		c.Zone = ZoneDiscard
		removeAbilitiesFromSource(s, c.ID)
	}
	return nil
}
