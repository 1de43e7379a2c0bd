package rules

import "fmt"

// Phase represents one step of a Lorcana turn.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseSet
	PhaseDraw
	PhaseMain
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseReady: "ready",
	PhaseSet:   "set",
	PhaseDraw:  "draw",
	PhaseMain:  "main",
	PhaseEnd:   "end",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase_%d", int(p))
}

// ParsePhase converts a phase name back to its Phase value.
func ParsePhase(s string) (Phase, bool) {
	for p, name := range phaseNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// TurnSequence is the fixed step order within one player's turn. The end of
// one player's end step hands off to the other player's ready step.
var TurnSequence = []Phase{PhaseReady, PhaseSet, PhaseDraw, PhaseMain, PhaseEnd}

// StepID identifies one of the ten fixed (player, phase) step entities,
// e.g. "step.p1.main".
func StepID(player string, phase Phase) string {
	return fmt.Sprintf("step.%s.%s", player, phase)
}

// Next returns the phase following p within a turn, and whether the turn
// ended (p was the end step).
func Next(p Phase) (Phase, bool) {
	for i, phase := range TurnSequence {
		if phase == p {
			if i+1 < len(TurnSequence) {
				return TurnSequence[i+1], false
			}
			return PhaseReady, true
		}
	}
	return PhaseReady, true
}
