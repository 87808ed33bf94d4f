package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/turtle-hero/internal/types"
)

func TestNewCharacter(t *testing.T) {
	c := NewCharacter()

	assert.Equal(t, "Tortilla", c.Name)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 50, c.MaxHealth)
	assert.Equal(t, 50, c.CurrentHealth)
	assert.Equal(t, 5, c.Strength)
	assert.Equal(t, 3, c.Agility)
	assert.Equal(t, 4, c.Defense)
	assert.Equal(t, 100, c.ExperienceToNextLevel())
	assert.Equal(t, 100.0, c.HealthPercentage())
}

func TestHealNeverExceedsMax(t *testing.T) {
	c := NewCharacter()
	c.CurrentHealth = 45

	c.Heal(20)
	assert.Equal(t, 50, c.CurrentHealth)

	c.CurrentHealth = 10
	c.Heal(-5)
	assert.Equal(t, 10, c.CurrentHealth)
	c.Heal(0)
	assert.Equal(t, 10, c.CurrentHealth)
}

func TestTakeDamage(t *testing.T) {
	tests := []struct {
		name       string
		health     int
		defense    int
		amount     int
		allowDeath bool
		want       int
	}{
		{"defense reduces damage", 50, 4, 10, true, 44},
		{"huge defense still deals 1", 50, 100, 10, true, 49},
		{"non-lethal floors at 1", 5, 0, 100, false, 1},
		{"lethal can reach exactly 0", 10, 4, 14, true, 0},
		{"lethal floors at 0", 10, 0, 100, true, 0},
		{"zero amount is a no-op", 30, 0, 0, true, 30},
		{"negative amount is a no-op", 30, 0, -3, true, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCharacter()
			c.CurrentHealth = tt.health
			c.Defense = tt.defense

			c.TakeDamage(tt.amount, tt.allowDeath)
			assert.Equal(t, tt.want, c.CurrentHealth)
		})
	}
}

func TestIsAlive(t *testing.T) {
	c := NewCharacter()
	assert.True(t, c.IsAlive())
	c.TakeDamage(1000, true)
	assert.False(t, c.IsAlive())
}

func TestAddExperienceSingleLevel(t *testing.T) {
	dice, src := scriptedDice(t, 3, 0)
	c := NewCharacter()

	assert.True(t, c.AddExperience(100, dice))
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 55, c.MaxHealth)
	assert.Equal(t, 55, c.CurrentHealth)
	assert.Equal(t, 6, c.Strength)
	assert.Equal(t, 3, c.Agility)
	assert.Equal(t, 4, c.Defense)
	src.AssertExpectations(t)
}

func TestAddExperienceMultipleLevels(t *testing.T) {
	dice, src := scriptedDice(t, 3, 1, 3, 2)
	c := NewCharacter()
	c.CurrentHealth = 10

	// 350 pays for level 1 (100) and level 2 (200), leaving 50
	assert.True(t, c.AddExperience(350, dice))
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 50, c.Experience)
	assert.Equal(t, 60, c.MaxHealth)
	assert.Equal(t, 60, c.CurrentHealth)
	assert.Equal(t, 4, c.Agility)
	assert.Equal(t, 5, c.Defense)
	src.AssertExpectations(t)
}

func TestAddExperienceBelowThreshold(t *testing.T) {
	dice, _ := scriptedDice(t)
	c := NewCharacter()

	assert.False(t, c.AddExperience(99, dice))
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 99, c.Experience)

	assert.False(t, c.AddExperience(0, dice))
	assert.False(t, c.AddExperience(-50, dice))
	assert.Equal(t, 99, c.Experience)
}

func TestAddExperienceRejectsOverflow(t *testing.T) {
	dice, _ := scriptedDice(t)
	c := NewCharacter()
	c.Experience = 50

	assert.False(t, c.AddExperience(math.MaxInt, dice))
	assert.Equal(t, 50, c.Experience)
	assert.Equal(t, 1, c.Level)

	assert.False(t, c.AddExperience(math.MaxInt-49, dice))
	assert.Equal(t, 50, c.Experience)
}

func TestLevelUpClampsLevel(t *testing.T) {
	dice, _ := scriptedDice(t, 3, 2)
	c := NewCharacter()
	c.Level = 0

	c.LevelUp(dice)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 5, c.Defense)
}

func TestLevelUpStatIsUniform(t *testing.T) {
	dice := NewSeededDiceRoller(99)
	c := NewCharacter()
	base := *c

	const levels = 3000
	for i := 0; i < levels; i++ {
		c.LevelUp(dice)
	}

	gains := []int{c.Strength - base.Strength, c.Agility - base.Agility, c.Defense - base.Defense}
	assert.Equal(t, levels, gains[0]+gains[1]+gains[2])
	for _, g := range gains {
		assert.Greater(t, g, 850)
		assert.Less(t, g, 1150)
	}
}

func TestEquipAndEffectiveStats(t *testing.T) {
	items := DefaultItemCatalog()
	sword, _ := items.Item("shell_sword")
	shell, _ := items.Item("turtle_shell")
	mushroom, _ := items.Item("mushroom_heal")

	c := NewCharacter()
	prev, err := c.Equip(sword)
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Same(t, sword, c.EquippedWeapon)
	assert.Equal(t, 7, c.EffectiveStrength())

	_, err = c.Equip(shell)
	require.NoError(t, err)
	assert.Equal(t, 7, c.EffectiveDefense())

	iron, _ := items.Item("iron_sword")
	prev, err = c.Equip(iron)
	require.NoError(t, err)
	assert.Same(t, sword, prev)
	assert.Equal(t, 9, c.EffectiveStrength())

	_, err = c.Equip(mushroom)
	assert.ErrorIs(t, err, ErrItemNotEquipable)
	_, err = c.Equip(nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestEffectiveAgilityIncludesBonuses(t *testing.T) {
	c := NewCharacter()
	c.TemporaryAgilityBonus = 3
	_, err := c.Equip(&types.Item{ID: "boots", Type: types.ItemTypeArmor, AgilityBonus: 1, MaxStack: 1})
	require.NoError(t, err)

	assert.Equal(t, 7, c.EffectiveAgility())
}

func TestFullRestoreClearsCombatModifiers(t *testing.T) {
	c := NewCharacter()
	c.CurrentHealth = 3
	c.TemporaryDefenseBonus = 2
	c.TemporaryAgilityBonus = 3

	c.FullRestore()
	assert.Equal(t, c.MaxHealth, c.CurrentHealth)
	assert.Zero(t, c.TemporaryDefenseBonus)
	assert.Zero(t, c.TemporaryAgilityBonus)
	assert.Equal(t, 4, c.EffectiveDefense())
}

func TestSetCurrentHealthClamps(t *testing.T) {
	c := NewCharacter()
	c.SetCurrentHealth(500)
	assert.Equal(t, 50, c.CurrentHealth)
	c.SetCurrentHealth(-4)
	assert.Equal(t, 0, c.CurrentHealth)
}
