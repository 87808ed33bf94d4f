package game

import (
	"slices"

	"github.com/user/turtle-hero/internal/types"
)

// Enemy is a battle-owned instance spawned from an EnemyTemplate. Mutating
// it never touches the catalog.
type Enemy struct {
	ID    string
	Name  string
	Emoji string

	MaxHealth     int
	CurrentHealth int
	Strength      int
	Agility       int
	Defense       int

	ExperienceReward int
	ItemRewards      []types.ItemReward

	HasPoisonAttack bool
	HasWebAttack    bool

	// Battle-scoped effects
	PoisonDamage  int
	AgilityDebuff int
}

// NewEnemy copies a template into a fresh full-health instance
func NewEnemy(t *types.EnemyTemplate) *Enemy {
	return &Enemy{
		ID:               t.ID,
		Name:             t.Name,
		Emoji:            t.Emoji,
		MaxHealth:        t.MaxHealth,
		CurrentHealth:    t.MaxHealth,
		Strength:         t.Strength,
		Agility:          t.Agility,
		Defense:          t.Defense,
		ExperienceReward: t.ExperienceReward,
		ItemRewards:      slices.Clone(t.ItemRewards),
		HasPoisonAttack:  t.HasPoisonAttack,
		HasWebAttack:     t.HasWebAttack,
	}
}

// IsAlive reports whether the enemy has health left
func (e *Enemy) IsAlive() bool {
	return e.CurrentHealth > 0
}

// loseHealth removes exactly amount health, stopping at 0
func (e *Enemy) loseHealth(amount int) {
	e.CurrentHealth = max(0, e.CurrentHealth-amount)
}
