package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

// testCards is a small fixed card pool covering every card type and keyword.
// Stats are chosen so the combat tests have clean trades and survivals.
func testCards() *cards.Database {
	return cards.NewDatabase([]cards.Card{
		{ID: 1, Name: "Brave Scout", Type: cards.TypeCharacter, Cost: 2, Inkwell: true, Strength: 2, Willpower: 2, Lore: 1},
		{ID: 2, Name: "Lore Seeker", Type: cards.TypeCharacter, Cost: 2, Inkwell: true, Strength: 1, Willpower: 2, Lore: 3},
		{ID: 3, Name: "Swift Duelist", Type: cards.TypeCharacter, Cost: 3, Inkwell: true, Strength: 3, Willpower: 2, Lore: 1,
			Keywords: []cards.Keyword{cards.KeywordRush}},
		{ID: 4, Name: "Cloud Dancer", Type: cards.TypeCharacter, Cost: 4, Inkwell: false, Strength: 2, Willpower: 3, Lore: 2,
			Keywords: []cards.Keyword{cards.KeywordEvasive}},
		{ID: 5, Name: "Watchful Sentry", Type: cards.TypeCharacter, Cost: 4, Inkwell: true, Strength: 2, Willpower: 4, Lore: 1,
			Keywords: []cards.Keyword{cards.KeywordAlert}},
		{ID: 6, Name: "Tower Guard", Type: cards.TypeCharacter, Cost: 3, Inkwell: true, Strength: 1, Willpower: 4, Lore: 1,
			Keywords: []cards.Keyword{cards.KeywordBodyguard}},
		{ID: 7, Name: "Sky Warden", Type: cards.TypeCharacter, Cost: 5, Inkwell: false, Strength: 2, Willpower: 3, Lore: 1,
			Keywords: []cards.Keyword{cards.KeywordBodyguard, cards.KeywordEvasive}},
		{ID: 8, Name: "Raging Brute", Type: cards.TypeCharacter, Cost: 3, Inkwell: true, Strength: 4, Willpower: 3, Lore: 2,
			Keywords: []cards.Keyword{cards.KeywordReckless}},
		{ID: 9, Name: "Healing Draught", Type: cards.TypeAction, Cost: 1, Inkwell: true},
		{ID: 10, Name: "Ancient Relic", Type: cards.TypeItem, Cost: 2, Inkwell: false, Willpower: 3},
	})
}

// harness wraps a mid-game state pinned at the active player's main step,
// with helpers to stage cards in specific zones.
type harness struct {
	t      *testing.T
	db     *cards.Database
	s      *GameState
	copies map[string]int
}

// newHarness builds an empty state at turn 3, player one's main step, so
// characters staged with putInPlay are dry by default.
func newHarness(t *testing.T) *harness {
	t.Helper()
	s := NewMatch(nil, nil)
	s.Turn = 3
	return &harness{t: t, db: testCards(), s: s, copies: make(map[string]int)}
}

func (h *harness) newCard(player PlayerID, name string) *Card {
	h.t.Helper()
	if _, ok := h.db.Get(cards.Normalize(name)); !ok {
		h.t.Fatalf("unknown test card %q", name)
	}
	base := cards.Normalize(name)
	suffix := 'a' + rune(h.copies[base])
	h.copies[base]++

	c := &Card{
		ID:    CardID(fmt.Sprintf("%s.%s.%c", player, base, suffix)),
		Name:  base,
		Owner: player,
	}
	h.s.Cards[c.ID] = c
	return c
}

// putInHand stages a card in a player's hand.
func (h *harness) putInHand(player PlayerID, name string) *Card {
	h.t.Helper()
	c := h.newCard(player, name)
	c.Zone = ZoneHand
	return c
}

// putInPlay stages a dry, ready character in play with its printed abilities
// active. Tests flip Exerted or EnteredPlay on the returned card as needed.
func (h *harness) putInPlay(player PlayerID, name string) *Card {
	h.t.Helper()
	c := h.newCard(player, name)
	c.Zone = ZonePlay
	c.EnteredPlay = h.s.Turn - 1
	require.NoError(h.t, createPrintedAbilities(h.s, h.db, c))
	return c
}

// giveInk sets a player's ink pool directly.
func (h *harness) giveInk(player PlayerID, n int) {
	h.t.Helper()
	p, err := h.s.Player(player)
	require.NoError(h.t, err)
	p.InkTotal = n
	p.InkAvailable = n
}

// actions computes the current legal-action set.
func (h *harness) actions() []Action {
	h.t.Helper()
	actions, err := ComputeLegalActions(h.s, h.db)
	require.NoError(h.t, err)
	return actions
}

// findAction looks up an action by its identifying triple.
func (h *harness) findAction(kind ActionKind, source, target string) (Action, bool) {
	for _, a := range h.actions() {
		if a.Kind == kind && a.Source == source && a.Target == target && a.Variant == "" {
			return a, true
		}
	}
	return Action{}, false
}

// findVariant looks up an action including its variant tag.
func (h *harness) findVariant(kind ActionKind, source, target, variant string) (Action, bool) {
	for _, a := range h.actions() {
		if a.Kind == kind && a.Source == source && a.Target == target && a.Variant == variant {
			return a, true
		}
	}
	return Action{}, false
}

// requireAction asserts an action is currently legal and returns it.
func (h *harness) requireAction(kind ActionKind, source, target string) Action {
	h.t.Helper()
	a, ok := h.findAction(kind, source, target)
	require.True(h.t, ok, "expected legal action %s %s->%s, have %v", kind, source, target, h.actions())
	return a
}

// requireNoAction asserts an action is currently illegal.
func (h *harness) requireNoAction(kind ActionKind, source, target string) {
	h.t.Helper()
	_, ok := h.findAction(kind, source, target)
	require.False(h.t, ok, "expected no legal action %s %s->%s", kind, source, target)
}

// execute applies one found action through the validation path.
func (h *harness) execute(a Action) {
	h.t.Helper()
	require.NoError(h.t, Execute(h.s, h.db, a.ID))
}

// challengeTargets returns the legal challenge targets for an attacker.
func (h *harness) challengeTargets(attacker CardID) []string {
	var out []string
	for _, a := range h.actions() {
		if a.Kind == ActionChallenge && a.Source == string(attacker) {
			out = append(out, a.Target)
		}
	}
	return out
}
