package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/user/turtle-hero/internal/types"
)

// ItemResolver turns item ids into catalog items
type ItemResolver interface {
	Item(id string) (*types.Item, bool)
}

// ItemCatalog holds the immutable item definitions
type ItemCatalog struct {
	items     map[string]*types.Item
	validator *Validator
}

// NewItemCatalog creates an empty item catalog
func NewItemCatalog() *ItemCatalog {
	return &ItemCatalog{
		items:     make(map[string]*types.Item),
		validator: NewValidator(),
	}
}

// DefaultItemCatalog creates a catalog holding the built-in items
func DefaultItemCatalog() *ItemCatalog {
	c := NewItemCatalog()
	for _, item := range defaultItems() {
		if err := c.Register(item); err != nil {
			panic(fmt.Sprintf("invalid built-in item %s: %v", item.ID, err))
		}
	}
	return c
}

// Register validates and stores a copy of item, replacing any entry with
// the same id. The stored copy must not be modified afterwards.
func (c *ItemCatalog) Register(item types.Item) error {
	if err := c.validator.ValidateStruct(item); err != nil {
		return fmt.Errorf("%w: item %q: %v", ErrInvalidCatalog, item.ID, err)
	}
	c.items[item.ID] = &item
	return nil
}

// Item looks up an item by id
func (c *ItemCatalog) Item(id string) (*types.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Len is the number of registered items
func (c *ItemCatalog) Len() int {
	return len(c.items)
}

// EnemyCatalog holds enemy templates and spawns battle instances
type EnemyCatalog struct {
	templates map[string]*types.EnemyTemplate
	validator *Validator
}

// NewEnemyCatalog creates an empty enemy catalog
func NewEnemyCatalog() *EnemyCatalog {
	return &EnemyCatalog{
		templates: make(map[string]*types.EnemyTemplate),
		validator: NewValidator(),
	}
}

// DefaultEnemyCatalog creates a catalog holding the built-in enemies
func DefaultEnemyCatalog() *EnemyCatalog {
	c := NewEnemyCatalog()
	for _, t := range defaultEnemies() {
		if err := c.Register(t); err != nil {
			panic(fmt.Sprintf("invalid built-in enemy %s: %v", t.ID, err))
		}
	}
	return c
}

// Register validates and stores a template
func (c *EnemyCatalog) Register(t types.EnemyTemplate) error {
	if err := c.validator.ValidateStruct(t); err != nil {
		return fmt.Errorf("%w: enemy %q: %v", ErrInvalidCatalog, t.ID, err)
	}
	t.ItemRewards = slices.Clone(t.ItemRewards)
	c.templates[t.ID] = &t
	return nil
}

// Template returns the shared template for id
func (c *EnemyCatalog) Template(id string) (*types.EnemyTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Spawn creates an independent battle instance of an enemy
func (c *EnemyCatalog) Spawn(id string) (*Enemy, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnemyNotFound, id)
	}
	return NewEnemy(t), nil
}

// IDs lists template ids in order
func (c *EnemyCatalog) IDs() []string {
	return slices.Sorted(maps.Keys(c.templates))
}

func defaultItems() []types.Item {
	return []types.Item{
		{
			ID:            "mushroom_heal",
			Name:          "Healing Mushroom",
			Emoji:         "🍄",
			Description:   "Restores 20 HP",
			Type:          types.ItemTypeConsumable,
			HealthRestore: 20,
			MaxStack:      99,
		},
		{
			ID:           "herb_agility",
			Name:         "Agility Herb",
			Emoji:        "🌿",
			Description:  "Raises agility by 3 for one battle",
			Type:         types.ItemTypeConsumable,
			AgilityBoost: 3,
			MaxStack:     99,
		},
		{
			ID:            "shell_sword",
			Name:          "Shell Sword",
			Emoji:         "🗡️🐚",
			Description:   "A sharp blade carved from a shell. +2 strength",
			Type:          types.ItemTypeWeapon,
			StrengthBonus: 2,
			MaxStack:      99,
		},
		{
			ID:            "iron_sword",
			Name:          "Iron Sword",
			Emoji:         "🗡️",
			Description:   "A reliable sword. +4 strength",
			Type:          types.ItemTypeWeapon,
			StrengthBonus: 4,
			MaxStack:      99,
		},
		{
			ID:           "turtle_shell",
			Name:         "Reinforced Shell",
			Emoji:        "🛡️",
			Description:  "A hardened shell. +3 defense",
			Type:         types.ItemTypeArmor,
			DefenseBonus: 3,
			MaxStack:     99,
		},
		{
			ID:           "iron_armor",
			Name:         "Iron Armor",
			Emoji:        "🛡️⚔️",
			Description:  "Sturdy armor. +5 defense",
			Type:         types.ItemTypeArmor,
			DefenseBonus: 5,
			MaxStack:     99,
		},
		{
			ID:          "scroll_of_wisdom",
			Name:        "Scroll of Wisdom",
			Emoji:       "📜",
			Description: "An ancient artifact that keeps the world in balance",
			Type:        types.ItemTypeQuest,
			MaxStack:    99,
		},
	}
}

func defaultEnemies() []types.EnemyTemplate {
	return []types.EnemyTemplate{
		{
			ID:               "snake_guard",
			Name:             "Snake Guard",
			Emoji:            "🐍",
			MaxHealth:        30,
			Strength:         4,
			Agility:          2,
			Defense:          2,
			ExperienceReward: 50,
			ItemRewards: []types.ItemReward{
				{ItemID: "mushroom_heal", Quantity: 1, DropChance: 50},
			},
			HasPoisonAttack: true,
		},
		{
			ID:               "scorpion_mercenary",
			Name:             "Scorpion Mercenary",
			Emoji:            "🦂",
			MaxHealth:        45,
			Strength:         6,
			Agility:          3,
			Defense:          3,
			ExperienceReward: 80,
			ItemRewards: []types.ItemReward{
				{ItemID: "mushroom_heal", Quantity: 2, DropChance: 60},
				{ItemID: "shell_sword", Quantity: 1, DropChance: 20},
			},
			HasPoisonAttack: true,
		},
		{
			ID:               "spider_illusionist",
			Name:             "Spider Illusionist",
			Emoji:            "🕷️",
			MaxHealth:        35,
			Strength:         3,
			Agility:          5,
			Defense:          2,
			ExperienceReward: 70,
			ItemRewards: []types.ItemReward{
				{ItemID: "herb_agility", Quantity: 1, DropChance: 40},
			},
			HasWebAttack: true,
		},
		{
			ID:               "lizard_traitor",
			Name:             "Lizard Traitor",
			Emoji:            "🦎",
			MaxHealth:        50,
			Strength:         5,
			Agility:          4,
			Defense:          4,
			ExperienceReward: 100,
			ItemRewards: []types.ItemReward{
				{ItemID: "mushroom_heal", Quantity: 3, DropChance: 70},
				{ItemID: "turtle_shell", Quantity: 1, DropChance: 30},
			},
		},
		{
			ID:               "snake_tyrant",
			Name:             "Snake Tyrant",
			Emoji:            "🐍👑",
			MaxHealth:        150,
			Strength:         12,
			Agility:          6,
			Defense:          8,
			ExperienceReward: 500,
			ItemRewards: []types.ItemReward{
				{ItemID: "scroll_of_wisdom", Quantity: 1, DropChance: 100},
				{ItemID: "iron_sword", Quantity: 1, DropChance: 50},
				{ItemID: "iron_armor", Quantity: 1, DropChance: 50},
			},
			HasPoisonAttack: true,
		},
	}
}
