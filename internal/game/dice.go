package game

import (
	"math/rand"
	"time"
)

// RandomSource yields a non-negative int in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// DiceRoller handles dice rolling for the game
type DiceRoller struct {
	rng RandomSource
}

// NewDiceRoller creates a dice roller over the given source. A nil source
// is replaced by one seeded from the clock.
func NewDiceRoller(src RandomSource) *DiceRoller {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DiceRoller{rng: src}
}

// NewSeededDiceRoller creates a dice roller with a deterministic sequence.
// Seed 0 seeds from the clock.
func NewSeededDiceRoller(seed int64) *DiceRoller {
	if seed == 0 {
		return NewDiceRoller(nil)
	}
	return NewDiceRoller(rand.New(rand.NewSource(seed)))
}

// Between returns a uniform integer in [lo, hi]
func (dr *DiceRoller) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + dr.rng.Intn(hi-lo+1)
}

// Chance succeeds with the given percent probability (0-100)
func (dr *DiceRoller) Chance(percent int) bool {
	return dr.rng.Intn(100) < percent
}

// Pick returns a uniform index in [0, n)
func (dr *DiceRoller) Pick(n int) int {
	return dr.rng.Intn(n)
}
