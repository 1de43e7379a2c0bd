package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeRequiresExertedDefender(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	ready := h.putInPlay(Player2, "Lore Seeker")
	exerted := h.putInPlay(Player2, "Raging Brute")
	exerted.Exerted = true

	assert.Equal(t, []string{string(exerted.ID)}, h.challengeTargets(attacker.ID))
	h.requireNoAction(ActionChallenge, string(attacker.ID), string(ready.ID))
}

func TestChallengeRequiresReadyAttacker(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	attacker.Exerted = true
	target := h.putInPlay(Player2, "Lore Seeker")
	target.Exerted = true

	h.requireNoAction(ActionChallenge, string(attacker.ID), string(target.ID))
}

func TestFreshAttackerCannotChallenge(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	attacker.EnteredPlay = h.s.Turn
	target := h.putInPlay(Player2, "Lore Seeker")
	target.Exerted = true

	h.requireNoAction(ActionChallenge, string(attacker.ID), string(target.ID))
}

func TestRushChallengesWhileDrying(t *testing.T) {
	h := newHarness(t)
	duelist := h.putInPlay(Player1, "Swift Duelist")
	duelist.EnteredPlay = h.s.Turn
	target := h.putInPlay(Player2, "Lore Seeker")
	target.Exerted = true

	h.requireAction(ActionChallenge, string(duelist.ID), string(target.ID))

	// Rush bypasses drying only; an exerted Rush character still cannot act.
	duelist.Exerted = true
	h.requireNoAction(ActionChallenge, string(duelist.ID), string(target.ID))
}

func TestEvasiveBlocksPlainAttackers(t *testing.T) {
	h := newHarness(t)
	plain := h.putInPlay(Player1, "Brave Scout")
	evasive := h.putInPlay(Player1, "Cloud Dancer")
	alert := h.putInPlay(Player1, "Watchful Sentry")
	dancer := h.putInPlay(Player2, "Cloud Dancer")
	dancer.Exerted = true

	h.requireNoAction(ActionChallenge, string(plain.ID), string(dancer.ID))
	h.requireAction(ActionChallenge, string(evasive.ID), string(dancer.ID))
	h.requireAction(ActionChallenge, string(alert.ID), string(dancer.ID))
}

func TestExertedBodyguardRestrictsTargets(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	guard := h.putInPlay(Player2, "Tower Guard")
	guard.Exerted = true
	scout := h.putInPlay(Player2, "Lore Seeker")
	scout.Exerted = true

	assert.Equal(t, []string{string(guard.ID)}, h.challengeTargets(attacker.ID))
}

func TestReadyBodyguardDoesNotRestrict(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	h.putInPlay(Player2, "Tower Guard") // ready, so not a legal target at all
	scout := h.putInPlay(Player2, "Lore Seeker")
	scout.Exerted = true

	assert.Equal(t, []string{string(scout.ID)}, h.challengeTargets(attacker.ID))
}

func TestMultipleExertedBodyguardsAllTargetable(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	guardA := h.putInPlay(Player2, "Tower Guard")
	guardA.Exerted = true
	guardB := h.putInPlay(Player2, "Tower Guard")
	guardB.Exerted = true
	scout := h.putInPlay(Player2, "Lore Seeker")
	scout.Exerted = true

	targets := h.challengeTargets(attacker.ID)
	assert.ElementsMatch(t, []string{string(guardA.ID), string(guardB.ID)}, targets)
}

func TestEvasiveBodyguardDoesNotRestrictPlainAttacker(t *testing.T) {
	// The Bodyguard filter runs over otherwise-legal targets only. A
	// Bodyguard the attacker cannot reach (Evasive gate) does not
	// restrict targeting for that attacker.
	h := newHarness(t)
	plain := h.putInPlay(Player1, "Brave Scout")
	evasive := h.putInPlay(Player1, "Cloud Dancer")
	warden := h.putInPlay(Player2, "Sky Warden") // Bodyguard + Evasive
	warden.Exerted = true
	scout := h.putInPlay(Player2, "Lore Seeker")
	scout.Exerted = true

	assert.Equal(t, []string{string(scout.ID)}, h.challengeTargets(plain.ID))
	// An Evasive attacker can reach the warden, so for it the filter bites.
	assert.Equal(t, []string{string(warden.ID)}, h.challengeTargets(evasive.ID))
}

func TestChallengeDealsSimultaneousDamage(t *testing.T) {
	h := newHarness(t)
	scout := h.putInPlay(Player1, "Brave Scout") // 2/2
	brute := h.putInPlay(Player2, "Raging Brute") // 4/3
	brute.Exerted = true

	a := h.requireAction(ActionChallenge, string(scout.ID), string(brute.ID))
	h.execute(a)

	// The scout took lethal damage and is banished; the brute survives.
	assert.Equal(t, ZoneDiscard, scout.Zone)
	assert.Equal(t, ZonePlay, brute.Zone)
	assert.Equal(t, 2, brute.Damage)
}

func TestChallengeMutualBanish(t *testing.T) {
	h := newHarness(t)
	mine := h.putInPlay(Player1, "Brave Scout")
	theirs := h.putInPlay(Player2, "Brave Scout")
	theirs.Exerted = true

	a := h.requireAction(ActionChallenge, string(mine.ID), string(theirs.ID))
	h.execute(a)

	assert.Equal(t, ZoneDiscard, mine.Zone)
	assert.Equal(t, ZoneDiscard, theirs.Zone)
}

func TestChallengeExertsAttacker(t *testing.T) {
	h := newHarness(t)
	sentry := h.putInPlay(Player1, "Watchful Sentry") // 2/4
	scout := h.putInPlay(Player2, "Lore Seeker")      // 1/2
	scout.Exerted = true

	a := h.requireAction(ActionChallenge, string(sentry.ID), string(scout.ID))
	h.execute(a)

	assert.True(t, sentry.Exerted)
	assert.Equal(t, 1, sentry.Damage)
	assert.Equal(t, ZoneDiscard, scout.Zone)
}

func TestDamageAccumulatesAcrossChallenges(t *testing.T) {
	h := newHarness(t)
	first := h.putInPlay(Player1, "Lore Seeker")  // 1/2
	second := h.putInPlay(Player1, "Brave Scout") // 2/2
	guard := h.putInPlay(Player2, "Tower Guard")  // 1/4
	guard.Exerted = true

	h.execute(h.requireAction(ActionChallenge, string(first.ID), string(guard.ID)))
	assert.Equal(t, 1, guard.Damage)
	assert.Equal(t, ZonePlay, guard.Zone)

	h.execute(h.requireAction(ActionChallenge, string(second.ID), string(guard.ID)))
	assert.Equal(t, 3, guard.Damage)
	assert.Equal(t, ZonePlay, guard.Zone)
}

func TestBanishedCharacterLosesAbilities(t *testing.T) {
	h := newHarness(t)
	brute := h.putInPlay(Player1, "Raging Brute") // 4/3, Reckless
	duelist := h.putInPlay(Player2, "Swift Duelist")
	duelist.Exerted = true
	require.NotEmpty(t, h.s.Abilities)

	// 4 strength kills the 2-willpower duelist; its 3 strength marks but
	// does not kill the brute.
	h.execute(h.requireAction(ActionChallenge, string(brute.ID), string(duelist.ID)))

	assert.Equal(t, ZoneDiscard, duelist.Zone)
	assert.False(t, h.s.HasKeyword(duelist.ID, "rush"))
	// The surviving brute keeps its own abilities.
	assert.True(t, h.s.CantQuest(brute.ID))
}

func TestChallengeByEndpoints(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	guard := h.putInPlay(Player2, "Tower Guard")
	guard.Exerted = true
	scout := h.putInPlay(Player2, "Lore Seeker")
	scout.Exerted = true

	// The bodyguarded scout is a pruned target; naming it is an illegal
	// target, not an unknown action.
	err := Challenge(h.s, h.db, attacker.ID, scout.ID)
	require.ErrorIs(t, err, ErrIllegalTarget)
	assert.Equal(t, ZonePlay, scout.Zone)
	assert.False(t, attacker.Exerted)

	require.NoError(t, Challenge(h.s, h.db, attacker.ID, guard.ID))
	assert.True(t, attacker.Exerted)
	assert.Equal(t, 2, guard.Damage)
}

func TestChallengeByEndpointsNoTargets(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	ready := h.putInPlay(Player2, "Lore Seeker")

	err := Challenge(h.s, h.db, attacker.ID, ready.ID)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestChallengeAfterGameOver(t *testing.T) {
	h := newHarness(t)
	attacker := h.putInPlay(Player1, "Brave Scout")
	target := h.putInPlay(Player2, "Lore Seeker")
	target.Exerted = true
	h.s.GameOver = true

	err := Challenge(h.s, h.db, attacker.ID, target.ID)
	require.ErrorIs(t, err, ErrGameOver)
}
