package game

import "errors"

// Player-facing rejections. These leave the state untouched.
var (
	// ErrInvalidAction is returned when a referenced action ID is not in the
	// current legal set, e.g. a stale ID after the state advanced.
	ErrInvalidAction = errors.New("invalid action")

	// ErrGameOver is returned for any execute attempt after the game ended.
	ErrGameOver = errors.New("game over")

	// ErrIllegalTarget is returned for a challenge naming a defender pruned
	// by the Bodyguard or Evasive gates.
	ErrIllegalTarget = errors.New("illegal target")
)

// Internal invariant violations. These indicate engine bugs, not player
// errors, and must propagate to the caller as fatal: continuing risks
// silently incorrect game state.
var (
	// ErrNotFound is returned when a required-unique relation or entity is
	// missing.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousRelation is returned when more than one relation exists
	// where exactly one is expected.
	ErrAmbiguousRelation = errors.New("ambiguous relation")
)
