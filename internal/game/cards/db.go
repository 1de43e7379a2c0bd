package cards

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Type classifies a printed card.
type Type string

const (
	TypeCharacter Type = "character"
	TypeAction    Type = "action"
	TypeItem      Type = "item"
	TypeLocation  Type = "location"
)

// Keyword is a printed keyword ability.
type Keyword string

const (
	KeywordRush      Keyword = "rush"
	KeywordEvasive   Keyword = "evasive"
	KeywordAlert     Keyword = "alert"
	KeywordBodyguard Keyword = "bodyguard"
	KeywordReckless  Keyword = "reckless"
)

// Card is the static printed data for one card. Instances in a game state
// reference this by normalized name.
type Card struct {
	ID        int
	Name      string // full printed name, e.g. "Tinker Bell - Giant Fairy"
	Type      Type
	Cost      int
	Inkwell   bool
	Strength  int
	Willpower int
	Lore      int
	Keywords  []Keyword
}

// HasKeyword reports whether the printed card carries the keyword.
func (c Card) HasKeyword(kw Keyword) bool {
	for _, k := range c.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// EffectiveStrength returns the card's strength, floored at zero.
func (c Card) EffectiveStrength() int {
	if c.Strength < 0 {
		return 0
	}
	return c.Strength
}

// EffectiveWillpower returns the card's willpower, floored at zero.
func (c Card) EffectiveWillpower() int {
	if c.Willpower < 0 {
		return 0
	}
	return c.Willpower
}

// Normalize converts a printed name to its lookup key:
// "Tinker Bell - Giant Fairy" -> "tinker_bell_giant_fairy".
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " - ", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Database indexes cards by normalized name. Different printings of the same
// card share stats and abilities, so the first match wins.
type Database struct {
	byName map[string]Card
}

// NewDatabase builds a database from a card list.
func NewDatabase(list []Card) *Database {
	db := &Database{byName: make(map[string]Card, len(list))}
	for _, c := range list {
		key := Normalize(c.Name)
		if _, exists := db.byName[key]; !exists {
			db.byName[key] = c
		}
	}
	return db
}

// Get looks up a card by normalized name.
func (db *Database) Get(name string) (Card, bool) {
	c, ok := db.byName[name]
	return c, ok
}

// Len returns the number of distinct cards in the database.
func (db *Database) Len() int {
	return len(db.byName)
}

// cardFile matches the on-disk JSON card dump.
type cardFile struct {
	Cards []cardEntry `json:"cards"`
}

type cardEntry struct {
	ID        int            `json:"id"`
	FullName  string         `json:"fullName"`
	Type      string         `json:"type"`
	Cost      int            `json:"cost"`
	Inkwell   bool           `json:"inkwell"`
	Strength  int            `json:"strength"`
	Willpower int            `json:"willpower"`
	Lore      int            `json:"lore"`
	Abilities []abilityEntry `json:"abilities"`
}

type abilityEntry struct {
	Keyword string `json:"keyword"`
}

// Load reads a card database from a JSON dump.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card database: %w", err)
	}
	var file cardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse card database: %w", err)
	}

	list := make([]Card, 0, len(file.Cards))
	for _, entry := range file.Cards {
		card := Card{
			ID:        entry.ID,
			Name:      entry.FullName,
			Type:      Type(strings.ToLower(entry.Type)),
			Cost:      entry.Cost,
			Inkwell:   entry.Inkwell,
			Strength:  entry.Strength,
			Willpower: entry.Willpower,
			Lore:      entry.Lore,
		}
		for _, ab := range entry.Abilities {
			if kw, ok := parseKeyword(ab.Keyword); ok {
				card.Keywords = append(card.Keywords, kw)
			}
		}
		list = append(list, card)
	}
	return NewDatabase(list), nil
}

func parseKeyword(s string) (Keyword, bool) {
	switch strings.ToLower(s) {
	case "rush":
		return KeywordRush, true
	case "evasive":
		return KeywordEvasive, true
	case "alert":
		return KeywordAlert, true
	case "bodyguard":
		return KeywordBodyguard, true
	case "reckless":
		return KeywordReckless, true
	}
	return "", false
}
