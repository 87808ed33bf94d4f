package types

import (
	"fmt"

	"golang.org/x/text/cases"
)

// ItemType classifies catalog items
type ItemType int

const (
	ItemTypeConsumable ItemType = iota
	ItemTypeWeapon
	ItemTypeArmor
	ItemTypeQuest
)

var itemTypeNames = map[ItemType]string{
	ItemTypeConsumable: "Consumable",
	ItemTypeWeapon:     "Weapon",
	ItemTypeArmor:      "Armor",
	ItemTypeQuest:      "Quest",
}

var folder = cases.Fold()

func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// Valid reports whether t is one of the known item types
func (t ItemType) Valid() bool {
	_, ok := itemTypeNames[t]
	return ok
}

// MarshalText encodes the type by name so save files stay readable
func (t ItemType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown item type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts the type name in any letter case
func (t *ItemType) UnmarshalText(text []byte) error {
	parsed, err := ParseItemType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseItemType resolves a type name case-insensitively
func ParseItemType(name string) (ItemType, error) {
	folded := folder.String(name)
	for t, n := range itemTypeNames {
		if folder.String(n) == folded {
			return t, nil
		}
	}
	return ItemTypeConsumable, fmt.Errorf("unknown item type %q", name)
}

// Item is an immutable catalog entry
type Item struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description"`
	Type        ItemType `json:"type" validate:"itemtype"`

	// Combat bonuses while equipped
	StrengthBonus int `json:"strengthBonus" validate:"min=0"`
	DefenseBonus  int `json:"defenseBonus" validate:"min=0"`
	AgilityBonus  int `json:"agilityBonus" validate:"min=0"`

	// Consumable effects
	HealthRestore int `json:"healthRestore" validate:"min=0"`
	AgilityBoost  int `json:"agilityBoost" validate:"min=0"`

	MaxStack int `json:"maxStack" validate:"min=1"`
}

// IsEquippable reports whether the item goes in a weapon or armor slot
func (i *Item) IsEquippable() bool {
	return i.Type == ItemTypeWeapon || i.Type == ItemTypeArmor
}

// ItemReward is a drop table row on an enemy template
type ItemReward struct {
	ItemID     string `json:"itemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"min=1"`
	DropChance int    `json:"dropChance" validate:"min=0,max=100"`
}

// EnemyTemplate is the immutable catalog definition of an enemy
type EnemyTemplate struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Emoji string `json:"emoji"`

	MaxHealth int `json:"maxHealth" validate:"min=1"`
	Strength  int `json:"strength" validate:"min=0"`
	Agility   int `json:"agility" validate:"min=0"`
	Defense   int `json:"defense" validate:"min=0"`

	ExperienceReward int          `json:"experienceReward" validate:"min=0"`
	ItemRewards      []ItemReward `json:"itemRewards" validate:"dive"`

	HasPoisonAttack bool `json:"hasPoisonAttack"`
	HasWebAttack    bool `json:"hasWebAttack"`
}
