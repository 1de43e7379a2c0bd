// Package deck handles decklists, matchup identity, and the deterministic
// seeded shuffle that backs the replay contract: the same decklists and seed
// always produce the same initial hand/deck split.
package deck

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
)

// Entry is one decklist line: a card name and how many copies run.
type Entry struct {
	Count int
	Name  string
}

var lineRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// ParseDecklist parses decklist text in the "4 Tinker Bell - Giant Fairy"
// format. Blank lines are skipped.
func ParseDecklist(text string) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("malformed decklist line %q", line)
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("malformed count in line %q: %w", line, err)
		}
		entries = append(entries, Entry{Count: count, Name: strings.TrimSpace(m[2])})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	return entries, nil
}

// ParseDecklistFile parses a decklist from a file.
func ParseDecklistFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decklist %s: %w", path, err)
	}
	return ParseDecklist(string(data))
}

// Build expands a decklist into card IDs in decklist order. Each copy gets a
// letter suffix: "tinker_bell_giant_fairy.a", ".b", ...
func Build(entries []Entry) []string {
	var ids []string
	for _, e := range entries {
		base := cards.Normalize(e.Name)
		for i := 0; i < e.Count; i++ {
			ids = append(ids, fmt.Sprintf("%s.%c", base, 'a'+i))
		}
	}
	return ids
}

// MatchupID derives the content-hash identity for a pair of decklists. The
// identity depends only on the deck contents, not on shuffle or play order.
func MatchupID(deck1Text, deck2Text string) string {
	sum := sha256.Sum256([]byte(deck1Text + deck2Text))
	return hex.EncodeToString(sum[:])[:8]
}

// rngFor derives a stable PRNG from a seed string.
func rngFor(seed string) *rand.Rand {
	sum := sha256.Sum256([]byte(seed))
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))
}

// Shuffled expands the decklist and shuffles it deterministically from the
// seed string. The top of the resulting deck becomes the starting hand.
func Shuffled(entries []Entry, seed string) []string {
	ids := Build(entries)
	rng := rngFor(seed)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// ShuffledWithHand builds a deck whose first len(handIndices) cards are the
// chosen copies of the indexed decklist entries, with the remainder shuffled
// deterministically. handIndices index distinct decklist lines; repeated
// indices consume successive copies of the same card.
func ShuffledWithHand(entries []Entry, seed string, handIndices []int) ([]string, error) {
	copiesByName := make(map[string][]string, len(entries))
	for _, e := range entries {
		base := cards.Normalize(e.Name)
		for i := 0; i < e.Count; i++ {
			copiesByName[e.Name] = append(copiesByName[e.Name], fmt.Sprintf("%s.%c", base, 'a'+i))
		}
	}

	hand := make([]string, 0, len(handIndices))
	for _, idx := range handIndices {
		if idx < 0 || idx >= len(entries) {
			return nil, fmt.Errorf("hand index %d out of range (deck has %d unique cards)", idx, len(entries))
		}
		name := entries[idx].Name
		copies := copiesByName[name]
		if len(copies) == 0 {
			return nil, fmt.Errorf("not enough copies of %q for hand", name)
		}
		hand = append(hand, copies[0])
		copiesByName[name] = copies[1:]
	}

	var remaining []string
	for _, e := range entries {
		remaining = append(remaining, copiesByName[e.Name]...)
	}
	rng := rngFor(seed)
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	return append(hand, remaining...), nil
}

// ShuffledPair resolves a seed for both decks. A hand-spec seed pins the
// starting hands; a plain seed does a full deterministic shuffle with a
// per-player suffix so the two decks do not mirror each other.
func ShuffledPair(deck1, deck2 []Entry, seed string) (ids1, ids2 []string, err error) {
	if spec, ok := ParseSeed(seed); ok {
		ids1, err = ShuffledWithHand(deck1, seed, spec.P1Hand)
		if err != nil {
			return nil, nil, err
		}
		ids2, err = ShuffledWithHand(deck2, seed, spec.P2Hand)
		if err != nil {
			return nil, nil, err
		}
		return ids1, ids2, nil
	}
	return Shuffled(deck1, seed+"_p1"), Shuffled(deck2, seed+"_p2"), nil
}
