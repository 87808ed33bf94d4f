package game

import (
	"math"

	"github.com/user/turtle-hero/internal/types"
)

// Character is the player's turtle hero
type Character struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`

	// Progression
	Level      int `json:"level"`
	Experience int `json:"experience"`

	// Combat stats
	MaxHealth     int `json:"maxHealth"`
	CurrentHealth int `json:"currentHealth"`
	Strength      int `json:"strength"`
	Agility       int `json:"agility"`
	Defense       int `json:"defense"`

	// Equipment points at catalog items, it is never copied per character
	EquippedWeapon *types.Item `json:"equippedWeapon,omitempty"`
	EquippedArmor  *types.Item `json:"equippedArmor,omitempty"`

	// Combat-scoped modifiers, cleared when a battle ends
	TemporaryDefenseBonus int `json:"temporaryDefenseBonus"`
	TemporaryAgilityBonus int `json:"temporaryAgilityBonus"`
}

// NewCharacter creates a level 1 character at full health
func NewCharacter() *Character {
	c := &Character{
		Name:      "Tortilla",
		Emoji:     "🐢",
		Level:     1,
		MaxHealth: 50,
		Strength:  5,
		Agility:   3,
		Defense:   4,
	}
	c.CurrentHealth = c.MaxHealth
	return c
}

// ExperienceToNextLevel is the experience needed to leave the current level
func (c *Character) ExperienceToNextLevel() int {
	return c.Level * 100
}

// EffectiveStrength is strength plus the weapon bonus
func (c *Character) EffectiveStrength() int {
	s := c.Strength
	if c.EquippedWeapon != nil {
		s += c.EquippedWeapon.StrengthBonus
	}
	return s
}

// EffectiveDefense is defense plus armor bonus plus the defend-stance bonus
func (c *Character) EffectiveDefense() int {
	d := c.Defense + c.TemporaryDefenseBonus
	if c.EquippedArmor != nil {
		d += c.EquippedArmor.DefenseBonus
	}
	return d
}

// EffectiveAgility is agility plus equipment and potion bonuses
func (c *Character) EffectiveAgility() int {
	a := c.Agility + c.TemporaryAgilityBonus
	if c.EquippedWeapon != nil {
		a += c.EquippedWeapon.AgilityBonus
	}
	if c.EquippedArmor != nil {
		a += c.EquippedArmor.AgilityBonus
	}
	return a
}

// HealthPercentage returns current health as 0-100
func (c *Character) HealthPercentage() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.CurrentHealth) / float64(c.MaxHealth) * 100
}

// SetCurrentHealth assigns health clamped to [0, MaxHealth]
func (c *Character) SetCurrentHealth(hp int) {
	c.CurrentHealth = clamp(hp, 0, c.MaxHealth)
}

// AddExperience grants xp and applies every level-up it pays for.
// Returns true if at least one level was gained. A grant that would
// overflow the experience total is ignored.
func (c *Character) AddExperience(xp int, dice *DiceRoller) bool {
	if xp <= 0 || xp > math.MaxInt-max(c.Experience, 0) {
		return false
	}
	if c.Level < 1 {
		c.Level = 1
	}

	c.Experience += xp
	leveledUp := false
	for c.Experience >= c.ExperienceToNextLevel() {
		c.LevelUp(dice)
		leveledUp = true
	}
	return leveledUp
}

// LevelUp raises the level by one, carrying leftover experience, adding
// 5 max health with a full heal and +1 to a random core stat.
func (c *Character) LevelUp(dice *DiceRoller) {
	if c.Level < 1 {
		c.Level = 1
	}

	// Threshold uses the level before the increment
	required := c.ExperienceToNextLevel()
	c.Level++
	c.Experience -= required
	if c.Experience < 0 {
		c.Experience = 0
	}

	c.MaxHealth += 5
	c.CurrentHealth = c.MaxHealth

	switch dice.Pick(3) {
	case 0:
		c.Strength++
	case 1:
		c.Agility++
	default:
		c.Defense++
	}
}

// Heal restores health up to MaxHealth
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.SetCurrentHealth(c.CurrentHealth + amount)
}

// TakeDamage reduces health by amount minus effective defense, never by
// less than 1. Unless allowDeath is set the shell keeps the hero at 1 HP.
func (c *Character) TakeDamage(amount int, allowDeath bool) {
	if amount <= 0 {
		return
	}
	c.loseHealth(max(1, amount-c.EffectiveDefense()), allowDeath)
}

// loseHealth removes exactly amount health with no defense applied
func (c *Character) loseHealth(amount int, allowDeath bool) {
	c.CurrentHealth -= amount
	floor := 0
	if !allowDeath {
		floor = 1
	}
	if c.CurrentHealth < floor {
		c.CurrentHealth = floor
	}
}

// IsAlive reports whether the character has health left
func (c *Character) IsAlive() bool {
	return c.CurrentHealth > 0
}

// FullRestore heals to max and drops combat modifiers
func (c *Character) FullRestore() {
	c.CurrentHealth = c.MaxHealth
	c.ClearCombatModifiers()
}

// ClearCombatModifiers resets everything scoped to a single battle
func (c *Character) ClearCombatModifiers() {
	c.TemporaryDefenseBonus = 0
	c.TemporaryAgilityBonus = 0
}

// Equip puts a weapon or armor into its slot, returning the item it replaced
func (c *Character) Equip(item *types.Item) (*types.Item, error) {
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.IsEquippable() {
		return nil, ErrItemNotEquipable
	}
	var previous *types.Item
	if item.Type == types.ItemTypeWeapon {
		previous, c.EquippedWeapon = c.EquippedWeapon, item
	} else {
		previous, c.EquippedArmor = c.EquippedArmor, item
	}
	return previous, nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
