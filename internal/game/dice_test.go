package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockRandom replays scripted Intn results
type mockRandom struct {
	mock.Mock
}

func (m *mockRandom) Intn(n int) int {
	return m.Called(n).Int(0)
}

// scriptedDice expects Intn calls in order, given as (n, result) pairs
func scriptedDice(t *testing.T, pairs ...int) (*DiceRoller, *mockRandom) {
	t.Helper()
	src := new(mockRandom)
	src.Test(t)
	for i := 0; i+1 < len(pairs); i += 2 {
		src.On("Intn", pairs[i]).Return(pairs[i+1]).Once()
	}
	return NewDiceRoller(src), src
}

func TestDiceBetween(t *testing.T) {
	dice, src := scriptedDice(t, 5, 0, 5, 4, 3, 1)

	assert.Equal(t, -2, dice.Between(-2, 2))
	assert.Equal(t, 2, dice.Between(-2, 2))
	assert.Equal(t, 0, dice.Between(-1, 1))
	src.AssertExpectations(t)
}

func TestDiceBetweenEmptyRangeSkipsSource(t *testing.T) {
	dice, src := scriptedDice(t)

	assert.Equal(t, 3, dice.Between(3, 3))
	assert.Equal(t, 3, dice.Between(3, 1))
	src.AssertNotCalled(t, "Intn", mock.Anything)
}

func TestDiceChance(t *testing.T) {
	dice, _ := scriptedDice(t, 100, 9, 100, 10)

	assert.True(t, dice.Chance(10))
	assert.False(t, dice.Chance(10))
}

func TestDiceChanceBounds(t *testing.T) {
	dice := NewDiceRoller(rand.New(rand.NewSource(7)))
	for i := 0; i < 500; i++ {
		assert.False(t, dice.Chance(0))
		assert.True(t, dice.Chance(100))
	}
}

func TestDiceBetweenCoversRange(t *testing.T) {
	dice := NewSeededDiceRoller(42)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		r := dice.Between(1, 6)
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, 6)
		seen[r] = true
	}
	assert.Len(t, seen, 6)
}

func TestSeededDiceRepeatable(t *testing.T) {
	a := NewSeededDiceRoller(1234)
	b := NewSeededDiceRoller(1234)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Between(-2, 2), b.Between(-2, 2))
	}
}

func TestNewDiceRollerDefaultsSource(t *testing.T) {
	dice := NewDiceRoller(nil)
	assert.NotNil(t, dice.rng)

	r := dice.Pick(3)
	assert.GreaterOrEqual(t, r, 0)
	assert.Less(t, r, 3)
}
