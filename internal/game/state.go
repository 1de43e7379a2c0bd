// Package game implements the Lorcana rules engine core: the typed game
// state, legal-action computation, action execution, and the turn state
// machine. A GameState is a self-contained value; parallel exploration of
// alternative futures takes an independent Clone per branch.
package game

import (
	"fmt"
	"sort"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/rules"
)

// WinLore is the lore total that wins the game immediately.
const WinLore = 20

// PlayerID identifies one of the two players.
type PlayerID string

const (
	Player1 PlayerID = "p1"
	Player2 PlayerID = "p2"
)

// CardID identifies a card instance, e.g. "p1.tinker_bell_giant_fairy.a".
type CardID string

// AbilityID identifies an active ability instance. The ID encodes
// (keyword, turn created, sequence) so simultaneous instances stay
// distinguishable, e.g. "rush.t3.1".
type AbilityID string

// Zone is a card's current location.
type Zone string

const (
	ZoneHand    Zone = "hand"
	ZoneInk     Zone = "ink"
	ZonePlay    Zone = "play"
	ZoneDiscard Zone = "discard"
)

// Player holds one player's mutable attributes.
type Player struct {
	ID           PlayerID
	Lore         int
	InkDrops     int // ink drops remaining this turn, 0 or 1
	InkTotal     int // cards ever inked
	InkAvailable int // unexerted ink
}

// Card is one physical card once drawn. The entity persists for the rest of
// the game; only its zone changes. Owner is immutable after creation.
type Card struct {
	ID          CardID
	Name        string // normalized lookup key into the static card database
	Owner       PlayerID
	Zone        Zone
	Exerted     bool
	Damage      int
	EnteredPlay int // turn the card entered play; meaningful only while in play
}

// Ability is an active effect instance. Abilities are never mutated, only
// created when their trigger fires and deleted wholesale when the source
// card leaves play.
type Ability struct {
	ID        AbilityID
	Keyword   cards.Keyword
	Target    CardID // card the effect applies to
	Source    CardID // provenance: card whose arrival created the ability
	CantQuest bool   // derived cannot-quest relation, attached alongside Reckless
}

// Step is one of the ten fixed (player, phase) step entities. Steps are
// created at match setup and never mutated or deleted.
type Step struct {
	ID     string
	Player PlayerID
	Phase  rules.Phase
}

// GameState is the complete state of one game. All mutation goes through the
// primitives below; the legal-action set is never stored here but recomputed
// by ComputeLegalActions after every execute.
type GameState struct {
	Turn     int
	GameOver bool
	Winner   PlayerID // empty until the game ends

	ActivePlayer PlayerID // the current-turn relation
	CurrentStep  string   // the current-step relation, a Step ID

	Players   map[PlayerID]*Player
	Steps     map[string]Step
	Cards     map[CardID]*Card
	Abilities map[AbilityID]*Ability

	// Decks hold the remaining card IDs per player, top of deck first.
	// Card entities are created on draw, not pre-created for the deck.
	Decks map[PlayerID][]string

	// abilitiesBySource indexes abilities by provenance so the cascade on
	// card-leaves-play avoids a full scan. Rebuilt on Clone and decode.
	abilitiesBySource map[CardID][]AbilityID
}

// Opponent returns the other player.
func Opponent(p PlayerID) PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Player looks up a player entity.
func (s *GameState) Player(id PlayerID) (*Player, error) {
	p, ok := s.Players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Card looks up a card entity.
func (s *GameState) Card(id CardID) (*Card, error) {
	c, ok := s.Cards[id]
	if !ok {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Step looks up one of the ten fixed step entities.
func (s *GameState) Step(id string) (Step, error) {
	st, ok := s.Steps[id]
	if !ok {
		return Step{}, fmt.Errorf("step %s: %w", id, ErrNotFound)
	}
	return st, nil
}

// CurrentPhase resolves the current-step relation to its phase.
func (s *GameState) CurrentPhase() (rules.Phase, error) {
	st, err := s.Step(s.CurrentStep)
	if err != nil {
		return 0, err
	}
	return st.Phase, nil
}

// CardsInZone returns the given player's cards in a zone, sorted by ID for
// deterministic iteration.
func (s *GameState) CardsInZone(player PlayerID, zone Zone) []*Card {
	var out []*Card
	for _, c := range s.Cards {
		if c.Owner == player && c.Zone == zone {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasKeyword reports whether any active ability attaches the keyword to the
// card. This is the effect test the rules engine consults; printed keywords
// only matter once play-time ability creation has turned them into relations.
func (s *GameState) HasKeyword(card CardID, kw cards.Keyword) bool {
	for _, ab := range s.Abilities {
		if ab.Target == card && ab.Keyword == kw {
			return true
		}
	}
	return false
}

// CantQuest reports whether the card has an incoming cannot-quest relation.
func (s *GameState) CantQuest(card CardID) bool {
	for _, ab := range s.Abilities {
		if ab.Target == card && ab.CantQuest {
			return true
		}
	}
	return false
}

// MoveCard sets a card's zone.
func (s *GameState) MoveCard(id CardID, zone Zone) error {
	c, err := s.Card(id)
	if err != nil {
		return err
	}
	c.Zone = zone
	return nil
}

// DamageCard adds damage counters to a card.
func (s *GameState) DamageCard(id CardID, amount int) error {
	c, err := s.Card(id)
	if err != nil {
		return err
	}
	c.Damage += amount
	return nil
}

// AddLore adds lore to a player and checks the win condition: reaching
// WinLore ends the game immediately.
func (s *GameState) AddLore(id PlayerID, amount int) error {
	p, err := s.Player(id)
	if err != nil {
		return err
	}
	p.Lore += amount
	if p.Lore >= WinLore {
		s.GameOver = true
		s.Winner = id
	}
	return nil
}

// DrawCard moves the top deck card into the player's hand as a new Card
// entity. Returns false if the deck is empty.
func (s *GameState) DrawCard(player PlayerID) (*Card, bool) {
	deck := s.Decks[player]
	if len(deck) == 0 {
		return nil, false
	}
	id := deck[0]
	s.Decks[player] = deck[1:]

	card := &Card{
		ID:    CardID(fmt.Sprintf("%s.%s", player, id)),
		Name:  baseName(id),
		Owner: player,
		Zone:  ZoneHand,
	}
	s.Cards[card.ID] = card
	return card, true
}

// baseName strips the copy suffix: "stitch_rock_star.a" -> "stitch_rock_star".
func baseName(deckID string) string {
	for i := len(deckID) - 1; i >= 0; i-- {
		if deckID[i] == '.' {
			return deckID[:i]
		}
	}
	return deckID
}

// addAbility inserts an ability and maintains the provenance index. The ID
// must be fresh; a collision means the sequence derivation is broken.
func (s *GameState) addAbility(ab *Ability) error {
	if _, exists := s.Abilities[ab.ID]; exists {
		return fmt.Errorf("ability %s: %w", ab.ID, ErrAmbiguousRelation)
	}
	s.Abilities[ab.ID] = ab
	if s.abilitiesBySource == nil {
		s.abilitiesBySource = make(map[CardID][]AbilityID)
	}
	s.abilitiesBySource[ab.Source] = append(s.abilitiesBySource[ab.Source], ab.ID)
	return nil
}

// Clone returns a deep copy sharing no mutable structure with the receiver.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Turn:         s.Turn,
		GameOver:     s.GameOver,
		Winner:       s.Winner,
		ActivePlayer: s.ActivePlayer,
		CurrentStep:  s.CurrentStep,
		Players:      make(map[PlayerID]*Player, len(s.Players)),
		Steps:        make(map[string]Step, len(s.Steps)),
		Cards:        make(map[CardID]*Card, len(s.Cards)),
		Abilities:    make(map[AbilityID]*Ability, len(s.Abilities)),
		Decks:        make(map[PlayerID][]string, len(s.Decks)),
	}
	for id, p := range s.Players {
		cp := *p
		out.Players[id] = &cp
	}
	for id, st := range s.Steps {
		out.Steps[id] = st
	}
	for id, c := range s.Cards {
		cp := *c
		out.Cards[id] = &cp
	}
	for id, ab := range s.Abilities {
		cp := *ab
		out.Abilities[id] = &cp
	}
	for id, d := range s.Decks {
		out.Decks[id] = append([]string(nil), d...)
	}
	out.rebuildAbilityIndex()
	return out
}

// rebuildAbilityIndex reconstructs the provenance index from the ability
// table, in sorted order so index slices are deterministic.
func (s *GameState) rebuildAbilityIndex() {
	s.abilitiesBySource = make(map[CardID][]AbilityID)
	ids := make([]AbilityID, 0, len(s.Abilities))
	for id := range s.Abilities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		ab := s.Abilities[id]
		s.abilitiesBySource[ab.Source] = append(s.abilitiesBySource[ab.Source], id)
	}
}
