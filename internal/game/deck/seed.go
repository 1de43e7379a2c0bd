package deck

import "strings"

// HandSpec is a parsed hand-spec seed. The format is "xxxxxxx.xxxxxxx.xx":
// seven base-36 hand indices per player plus a two-character shuffle suffix.
type HandSpec struct {
	P1Hand []int
	P2Hand []int
}

// ParseSeed parses a hand-spec seed. A plain seed (no spec structure) returns
// false and is used for a full deterministic shuffle instead.
func ParseSeed(seed string) (HandSpec, bool) {
	parts := strings.Split(seed, ".")
	if len(parts) != 3 {
		return HandSpec{}, false
	}
	if len(parts[0]) != 7 || len(parts[1]) != 7 || len(parts[2]) != 2 {
		return HandSpec{}, false
	}

	p1, ok := parseIndices(parts[0])
	if !ok {
		return HandSpec{}, false
	}
	p2, ok := parseIndices(parts[1])
	if !ok {
		return HandSpec{}, false
	}
	return HandSpec{P1Hand: p1, P2Hand: p2}, true
}

func parseIndices(s string) ([]int, bool) {
	indices := make([]int, 0, len(s))
	for _, c := range s {
		idx, ok := charToIndex(c)
		if !ok {
			return nil, false
		}
		indices = append(indices, idx)
	}
	return indices, true
}

// charToIndex maps 0-9 to 0-9 and a-z to 10-35.
func charToIndex(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	}
	return 0, false
}
