package game

import (
	"fmt"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

// createPrintedAbilities creates ability entities for every printed keyword
// on a card entering play. Each ability carries a keyword relation to the
// card and a provenance relation back to the same card; Reckless additionally
// attaches the derived cannot-quest relation.
func createPrintedAbilities(s *GameState, db *cards.Database, card *Card) error {
	data, ok := db.Get(card.Name)
	if !ok {
		return fmt.Errorf("card data %s: %w", card.Name, ErrNotFound)
	}
	for _, kw := range data.Keywords {
		if _, err := createAbility(s, card.ID, card.ID, kw); err != nil {
			return err
		}
	}
	return nil
}

// createAbility creates one ability instance granting kw to target, sourced
// from source. Source and target are usually the same card; effects granted
// to other cards use a different source.
func createAbility(s *GameState, target, source CardID, kw cards.Keyword) (AbilityID, error) {
	// Identity: (keyword, turn created, sequence). Sequence disambiguates
	// multiple instances created the same turn.
	seq := 1
	var id AbilityID
	for {
		id = AbilityID(fmt.Sprintf("%s.t%d.%d", kw, s.Turn, seq))
		if _, exists := s.Abilities[id]; !exists {
			break
		}
		seq++
	}

	ab := &Ability{
		ID:        id,
		Keyword:   kw,
		Target:    target,
		Source:    source,
		CantQuest: kw == cards.KeywordReckless,
	}
	if err := s.addAbility(ab); err != nil {
		return "", err
	}
	return id, nil
}

// removeAbilitiesFromSource deletes every ability whose provenance points to
// the card, along with all relations those abilities carried. This is the
// only cascading deletion in the system; it runs when a card leaves play and
// must be total so no keyword relation outlives its owning ability.
func removeAbilitiesFromSource(s *GameState, source CardID) {
	for _, id := range s.abilitiesBySource[source] {
		delete(s.Abilities, id)
	}
	delete(s.abilitiesBySource, source)
}
