package game

import (
	"fmt"
	"sort"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/rules"
)

// ActionKind classifies a legal action.
type ActionKind string

const (
	ActionPass      ActionKind = "pass"
	ActionInk       ActionKind = "ink"
	ActionPlay      ActionKind = "play"
	ActionQuest     ActionKind = "quest"
	ActionChallenge ActionKind = "challenge"
)

// VariantExerted marks the Bodyguard alternate play option: the card enters
// play exerted.
const VariantExerted = "exerted"

// Action is one currently legal action. Source and Target are entity
// identifiers: cards, players, or the game singleton depending on the kind.
type Action struct {
	ID          int
	Kind        ActionKind
	Source      string
	Target      string
	Variant     string // empty, or VariantExerted on the Bodyguard play option
	Description string
}

// ComputeLegalActions derives the full set of currently legal actions from a
// state. It is a pure function of the state: the result is sorted by
// (kind, source, target, variant) and numbered 0..N-1 so that identical
// states always produce identical numbering, regardless of how candidates
// were produced. Callers must recompute after every mutation; the set is
// never cached inside the state.
func ComputeLegalActions(s *GameState, db *cards.Database) ([]Action, error) {
	if s.GameOver {
		return nil, nil
	}

	var actions []Action
	pass, err := computePass(s)
	if err != nil {
		return nil, err
	}
	actions = append(actions, pass...)

	ink, err := computeInk(s, db)
	if err != nil {
		return nil, err
	}
	actions = append(actions, ink...)

	play, err := computePlay(s, db)
	if err != nil {
		return nil, err
	}
	actions = append(actions, play...)

	quest, err := computeQuest(s, db)
	if err != nil {
		return nil, err
	}
	actions = append(actions, quest...)

	challenge, err := computeChallenge(s, db)
	if err != nil {
		return nil, err
	}
	actions = append(actions, challenge...)

	sort.Slice(actions, func(i, j int) bool {
		a, b := actions[i], actions[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Variant < b.Variant
	})
	for i := range actions {
		actions[i].ID = i
	}
	return actions, nil
}

// computePass emits the single pass candidate during the main step.
func computePass(s *GameState) ([]Action, error) {
	phase, err := s.CurrentPhase()
	if err != nil {
		return nil, err
	}
	if phase != rules.PhaseMain {
		return nil, nil
	}
	return []Action{{
		Kind:        ActionPass,
		Source:      string(s.ActivePlayer),
		Target:      "game",
		Description: "end",
	}}, nil
}

// computeInk emits one candidate per inkwell-eligible card in the active
// player's hand while an ink drop remains this turn.
func computeInk(s *GameState, db *cards.Database) ([]Action, error) {
	player, err := s.Player(s.ActivePlayer)
	if err != nil {
		return nil, err
	}
	if player.InkDrops <= 0 {
		return nil, nil
	}

	var out []Action
	for _, c := range s.CardsInZone(s.ActivePlayer, ZoneHand) {
		data, ok := db.Get(c.Name)
		if !ok {
			return nil, fmt.Errorf("card data %s: %w", c.Name, ErrNotFound)
		}
		if !data.Inkwell {
			continue
		}
		out = append(out, Action{
			Kind:        ActionInk,
			Source:      string(c.ID),
			Target:      string(s.ActivePlayer),
			Description: fmt.Sprintf("ink:%s", c.ID),
		})
	}
	return out, nil
}

// computePlay emits one candidate per affordable card in the active player's
// hand. Bodyguard cards get a second candidate with the enters-exerted
// variant, giving the player the choice at play time.
func computePlay(s *GameState, db *cards.Database) ([]Action, error) {
	player, err := s.Player(s.ActivePlayer)
	if err != nil {
		return nil, err
	}

	var out []Action
	for _, c := range s.CardsInZone(s.ActivePlayer, ZoneHand) {
		data, ok := db.Get(c.Name)
		if !ok {
			return nil, fmt.Errorf("card data %s: %w", c.Name, ErrNotFound)
		}
		if data.Cost > player.InkAvailable {
			continue
		}
		out = append(out, Action{
			Kind:        ActionPlay,
			Source:      string(c.ID),
			Target:      string(s.ActivePlayer),
			Description: fmt.Sprintf("play:%s", c.ID),
		})
		if data.HasKeyword(cards.KeywordBodyguard) {
			out = append(out, Action{
				Kind:        ActionPlay,
				Source:      string(c.ID),
				Target:      string(s.ActivePlayer),
				Variant:     VariantExerted,
				Description: fmt.Sprintf("play:%s:exerted", c.ID),
			})
		}
	}
	return out, nil
}

// computeQuest emits one candidate per character in play, owned by the
// active player, ready, dry, and free of cannot-quest relations. Characters
// with zero lore may still quest; they just gain nothing.
func computeQuest(s *GameState, db *cards.Database) ([]Action, error) {
	var out []Action
	for _, c := range s.CardsInZone(s.ActivePlayer, ZonePlay) {
		data, ok := db.Get(c.Name)
		if !ok {
			return nil, fmt.Errorf("card data %s: %w", c.Name, ErrNotFound)
		}
		if data.Type != cards.TypeCharacter {
			continue
		}
		if c.Exerted {
			continue
		}
		if !isDry(s, c) {
			continue
		}
		if s.CantQuest(c.ID) {
			continue
		}
		out = append(out, Action{
			Kind:        ActionQuest,
			Source:      string(c.ID),
			Target:      string(s.ActivePlayer),
			Description: fmt.Sprintf("quest:%s", c.ID),
		})
	}
	return out, nil
}

// computeChallenge emits one candidate per legal (attacker, defender) pair.
// Targeting runs in two passes: first raw legality per pair (ready dry-or-Rush
// attacker, exerted defender, Evasive gate), then the Bodyguard filter per
// attacker — if any otherwise-legal target carries Bodyguard, only
// Bodyguard-carrying targets survive.
func computeChallenge(s *GameState, db *cards.Database) ([]Action, error) {
	attackers := s.CardsInZone(s.ActivePlayer, ZonePlay)
	defenders := s.CardsInZone(Opponent(s.ActivePlayer), ZonePlay)

	var out []Action
	for _, attacker := range attackers {
		data, ok := db.Get(attacker.Name)
		if !ok {
			return nil, fmt.Errorf("card data %s: %w", attacker.Name, ErrNotFound)
		}
		if data.Type != cards.TypeCharacter {
			continue
		}
		if attacker.Exerted {
			continue
		}
		if !isDry(s, attacker) && !s.HasKeyword(attacker.ID, cards.KeywordRush) {
			continue
		}

		// Pass one: raw target legality for this attacker.
		var targets []*Card
		for _, defender := range defenders {
			defenderData, ok := db.Get(defender.Name)
			if !ok {
				return nil, fmt.Errorf("card data %s: %w", defender.Name, ErrNotFound)
			}
			if defenderData.Type != cards.TypeCharacter {
				continue
			}
			if !defender.Exerted {
				continue
			}
			if s.HasKeyword(defender.ID, cards.KeywordEvasive) &&
				!s.HasKeyword(attacker.ID, cards.KeywordEvasive) &&
				!s.HasKeyword(attacker.ID, cards.KeywordAlert) {
				continue
			}
			targets = append(targets, defender)
		}

		// Pass two: an exerted Bodyguard forces targeting priority.
		hasBodyguard := false
		for _, t := range targets {
			if s.HasKeyword(t.ID, cards.KeywordBodyguard) {
				hasBodyguard = true
				break
			}
		}
		for _, t := range targets {
			if hasBodyguard && !s.HasKeyword(t.ID, cards.KeywordBodyguard) {
				continue
			}
			out = append(out, Action{
				Kind:        ActionChallenge,
				Source:      string(attacker.ID),
				Target:      string(t.ID),
				Description: fmt.Sprintf("challenge:%s->%s", attacker.ID, t.ID),
			})
		}
	}
	return out, nil
}

// isDry reports whether a card in play entered play before the current turn.
// Cards played this turn are still drying and cannot quest or challenge
// unless an effect says otherwise.
func isDry(s *GameState, c *Card) bool {
	return c.EnteredPlay < s.Turn
}
