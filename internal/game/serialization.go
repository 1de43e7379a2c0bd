package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/rules"
)

// StateDocument is the persisted representation of a GameState: a directed
// graph of labeled nodes and labeled edges, plus the per-player deck orders.
// Action edges are included as a cached convenience; they are recomputable
// and ignored on import.
type StateDocument struct {
	Nodes []DocNode          `json:"nodes"`
	Edges []DocEdge          `json:"edges"`
	Decks map[string][]string `json:"decks"`
}

// DocNode is one entity in the persisted graph.
type DocNode struct {
	ID    string            `json:"id"`
	Kind  string            `json:"kind"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// DocEdge is one relation in the persisted graph.
type DocEdge struct {
	Source string            `json:"source"`
	Label  string            `json:"label"`
	Target string            `json:"target"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

const (
	nodeKindGame    = "game"
	nodeKindPlayer  = "player"
	nodeKindStep    = "step"
	nodeKindCard    = "card"
	nodeKindAbility = "ability"

	edgeCurrentTurn = "current_turn"
	edgeCurrentStep = "current_step"
	edgeOwnership   = "ownership"
	edgeSource      = "source"
	edgeCantQuest   = "cant_quest"
)

var actionEdgeLabels = map[string]ActionKind{
	"can_pass":      ActionPass,
	"can_ink":       ActionInk,
	"can_play":      ActionPlay,
	"can_quest":     ActionQuest,
	"can_challenge": ActionChallenge,
}

func actionLabel(kind ActionKind) string {
	return "can_" + string(kind)
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Export renders the state as a persisted graph document. The action edges
// are freshly derived from the state so the stored set can never be stale.
func Export(s *GameState, db *cards.Database) (*StateDocument, error) {
	doc := &StateDocument{Decks: make(map[string][]string, len(s.Decks))}

	doc.Nodes = append(doc.Nodes, DocNode{
		ID:   "game",
		Kind: nodeKindGame,
		Attrs: map[string]string{
			"turn":      strconv.Itoa(s.Turn),
			"game_over": boolAttr(s.GameOver),
			"winner":    string(s.Winner),
		},
	})

	playerIDs := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Slice(playerIDs, func(i, j int) bool { return playerIDs[i] < playerIDs[j] })
	for _, id := range playerIDs {
		p := s.Players[id]
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:   string(id),
			Kind: nodeKindPlayer,
			Attrs: map[string]string{
				"lore":          strconv.Itoa(p.Lore),
				"ink_drops":     strconv.Itoa(p.InkDrops),
				"ink_total":     strconv.Itoa(p.InkTotal),
				"ink_available": strconv.Itoa(p.InkAvailable),
			},
		})
	}

	stepIDs := make([]string, 0, len(s.Steps))
	for id := range s.Steps {
		stepIDs = append(stepIDs, id)
	}
	sort.Strings(stepIDs)
	for _, id := range stepIDs {
		st := s.Steps[id]
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:   id,
			Kind: nodeKindStep,
			Attrs: map[string]string{
				"player": string(st.Player),
				"step":   st.Phase.String(),
			},
		})
	}

	cardIDs := make([]CardID, 0, len(s.Cards))
	for id := range s.Cards {
		cardIDs = append(cardIDs, id)
	}
	sort.Slice(cardIDs, func(i, j int) bool { return cardIDs[i] < cardIDs[j] })
	for _, id := range cardIDs {
		c := s.Cards[id]
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:   string(id),
			Kind: nodeKindCard,
			Attrs: map[string]string{
				"label":        c.Name,
				"zone":         string(c.Zone),
				"exerted":      boolAttr(c.Exerted),
				"damage":       strconv.Itoa(c.Damage),
				"entered_play": strconv.Itoa(c.EnteredPlay),
			},
		})
		doc.Edges = append(doc.Edges, DocEdge{Source: string(id), Label: edgeOwnership, Target: string(c.Owner)})
	}

	abilityIDs := make([]AbilityID, 0, len(s.Abilities))
	for id := range s.Abilities {
		abilityIDs = append(abilityIDs, id)
	}
	sort.Slice(abilityIDs, func(i, j int) bool { return abilityIDs[i] < abilityIDs[j] })
	for _, id := range abilityIDs {
		ab := s.Abilities[id]
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:   string(id),
			Kind: nodeKindAbility,
			Attrs: map[string]string{
				"keyword": string(ab.Keyword),
			},
		})
		doc.Edges = append(doc.Edges, DocEdge{Source: string(id), Label: string(ab.Keyword), Target: string(ab.Target)})
		doc.Edges = append(doc.Edges, DocEdge{Source: string(id), Label: edgeSource, Target: string(ab.Source)})
		if ab.CantQuest {
			doc.Edges = append(doc.Edges, DocEdge{Source: string(id), Label: edgeCantQuest, Target: string(ab.Target)})
		}
	}

	doc.Edges = append(doc.Edges,
		DocEdge{Source: "game", Label: edgeCurrentTurn, Target: string(s.ActivePlayer)},
		DocEdge{Source: "game", Label: edgeCurrentStep, Target: s.CurrentStep},
	)

	actions, err := ComputeLegalActions(s, db)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		attrs := map[string]string{
			"action_id":   strconv.Itoa(a.ID),
			"description": a.Description,
		}
		if a.Variant != "" {
			attrs["variant"] = a.Variant
		}
		doc.Edges = append(doc.Edges, DocEdge{
			Source: a.Source,
			Label:  actionLabel(a.Kind),
			Target: a.Target,
			Attrs:  attrs,
		})
	}

	for id, d := range s.Decks {
		doc.Decks[string(id)] = append([]string(nil), d...)
	}
	return doc, nil
}

// Import rebuilds a GameState from a persisted document. Required-unique
// relations are validated: a missing current-turn or current-step fails with
// ErrNotFound, a duplicated one with ErrAmbiguousRelation. Action edges are
// discarded; the caller recomputes them.
func Import(doc *StateDocument) (*GameState, error) {
	s := &GameState{
		Players:           make(map[PlayerID]*Player),
		Steps:             make(map[string]Step),
		Cards:             make(map[CardID]*Card),
		Abilities:         make(map[AbilityID]*Ability),
		Decks:             make(map[PlayerID][]string),
		abilitiesBySource: make(map[CardID][]AbilityID),
	}

	for _, n := range doc.Nodes {
		switch n.Kind {
		case nodeKindGame:
			s.Turn = atoiAttr(n.Attrs, "turn")
			s.GameOver = n.Attrs["game_over"] == "1"
			s.Winner = PlayerID(n.Attrs["winner"])
		case nodeKindPlayer:
			s.Players[PlayerID(n.ID)] = &Player{
				ID:           PlayerID(n.ID),
				Lore:         atoiAttr(n.Attrs, "lore"),
				InkDrops:     atoiAttr(n.Attrs, "ink_drops"),
				InkTotal:     atoiAttr(n.Attrs, "ink_total"),
				InkAvailable: atoiAttr(n.Attrs, "ink_available"),
			}
		case nodeKindStep:
			phase, ok := rules.ParsePhase(n.Attrs["step"])
			if !ok {
				return nil, fmt.Errorf("step %s has unknown phase %q: %w", n.ID, n.Attrs["step"], ErrNotFound)
			}
			s.Steps[n.ID] = Step{ID: n.ID, Player: PlayerID(n.Attrs["player"]), Phase: phase}
		case nodeKindCard:
			s.Cards[CardID(n.ID)] = &Card{
				ID:          CardID(n.ID),
				Name:        n.Attrs["label"],
				Zone:        Zone(n.Attrs["zone"]),
				Exerted:     n.Attrs["exerted"] == "1",
				Damage:      atoiAttr(n.Attrs, "damage"),
				EnteredPlay: atoiAttr(n.Attrs, "entered_play"),
			}
		case nodeKindAbility:
			s.Abilities[AbilityID(n.ID)] = &Ability{
				ID:      AbilityID(n.ID),
				Keyword: cards.Keyword(n.Attrs["keyword"]),
			}
		default:
			return nil, fmt.Errorf("node %s has unknown kind %q: %w", n.ID, n.Kind, ErrNotFound)
		}
	}

	var sawTurn, sawStep int
	for _, e := range doc.Edges {
		if _, isAction := actionEdgeLabels[e.Label]; isAction {
			continue
		}
		switch e.Label {
		case edgeCurrentTurn:
			sawTurn++
			s.ActivePlayer = PlayerID(e.Target)
		case edgeCurrentStep:
			sawStep++
			s.CurrentStep = e.Target
		case edgeOwnership:
			card, ok := s.Cards[CardID(e.Source)]
			if !ok {
				return nil, fmt.Errorf("ownership edge from unknown card %s: %w", e.Source, ErrNotFound)
			}
			card.Owner = PlayerID(e.Target)
		case edgeSource:
			ab, ok := s.Abilities[AbilityID(e.Source)]
			if !ok {
				return nil, fmt.Errorf("source edge from unknown ability %s: %w", e.Source, ErrNotFound)
			}
			ab.Source = CardID(e.Target)
		case edgeCantQuest:
			ab, ok := s.Abilities[AbilityID(e.Source)]
			if !ok {
				return nil, fmt.Errorf("cant_quest edge from unknown ability %s: %w", e.Source, ErrNotFound)
			}
			ab.CantQuest = true
		default:
			// Keyword effect edge: ability --[keyword]--> card.
			ab, ok := s.Abilities[AbilityID(e.Source)]
			if !ok {
				return nil, fmt.Errorf("edge with unknown label %q from %s: %w", e.Label, e.Source, ErrNotFound)
			}
			ab.Target = CardID(e.Target)
		}
	}
	if sawTurn == 0 || sawStep == 0 {
		return nil, fmt.Errorf("current-turn/current-step relation missing: %w", ErrNotFound)
	}
	if sawTurn > 1 || sawStep > 1 {
		return nil, fmt.Errorf("current-turn/current-step relation duplicated: %w", ErrAmbiguousRelation)
	}
	if _, ok := s.Steps[s.CurrentStep]; !ok {
		return nil, fmt.Errorf("current step %s: %w", s.CurrentStep, ErrNotFound)
	}

	for id, d := range doc.Decks {
		s.Decks[PlayerID(id)] = append([]string(nil), d...)
	}
	s.rebuildAbilityIndex()
	return s, nil
}

func atoiAttr(attrs map[string]string, key string) int {
	n, _ := strconv.Atoi(attrs[key])
	return n
}

// EncodeState serializes a state to JSON via its persisted document form.
func EncodeState(s *GameState, db *cards.Database) ([]byte, error) {
	doc, err := Export(s, db)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeState deserializes a state from its JSON document form.
func DecodeState(data []byte) (*GameState, error) {
	var doc StateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state document: %w", err)
	}
	return Import(&doc)
}

// Checksum computes a deterministic digest of the state: a canonical sorted
// rendering of every entity, relation, and deck order, hashed with sha256.
// Two states with identical content always produce identical checksums,
// which is what the replay bit-identity contract is verified against.
func Checksum(s *GameState, db *cards.Database) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "GAME:%d|%t|%s|%s|%s\n", s.Turn, s.GameOver, s.Winner, s.ActivePlayer, s.CurrentStep)

	playerIDs := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Slice(playerIDs, func(i, j int) bool { return playerIDs[i] < playerIDs[j] })
	for _, id := range playerIDs {
		p := s.Players[id]
		fmt.Fprintf(&b, "PLAYER:%s|%d|%d|%d|%d\n", id, p.Lore, p.InkDrops, p.InkTotal, p.InkAvailable)
	}

	cardIDs := make([]CardID, 0, len(s.Cards))
	for id := range s.Cards {
		cardIDs = append(cardIDs, id)
	}
	sort.Slice(cardIDs, func(i, j int) bool { return cardIDs[i] < cardIDs[j] })
	for _, id := range cardIDs {
		c := s.Cards[id]
		fmt.Fprintf(&b, "CARD:%s|%s|%s|%s|%t|%d|%d\n", id, c.Name, c.Owner, c.Zone, c.Exerted, c.Damage, c.EnteredPlay)
	}

	abilityIDs := make([]AbilityID, 0, len(s.Abilities))
	for id := range s.Abilities {
		abilityIDs = append(abilityIDs, id)
	}
	sort.Slice(abilityIDs, func(i, j int) bool { return abilityIDs[i] < abilityIDs[j] })
	for _, id := range abilityIDs {
		ab := s.Abilities[id]
		fmt.Fprintf(&b, "ABILITY:%s|%s|%s|%s|%t\n", id, ab.Keyword, ab.Target, ab.Source, ab.CantQuest)
	}

	deckIDs := make([]PlayerID, 0, len(s.Decks))
	for id := range s.Decks {
		deckIDs = append(deckIDs, id)
	}
	sort.Slice(deckIDs, func(i, j int) bool { return deckIDs[i] < deckIDs[j] })
	for _, id := range deckIDs {
		fmt.Fprintf(&b, "DECK:%s|%s\n", id, strings.Join(s.Decks[id], ","))
	}

	actions, err := ComputeLegalActions(s, db)
	if err != nil {
		return "", err
	}
	for _, a := range actions {
		fmt.Fprintf(&b, "ACTION:%d|%s|%s|%s|%s\n", a.ID, a.Kind, a.Source, a.Target, a.Variant)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}
