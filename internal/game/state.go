package game

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/user/turtle-hero/internal/types"
)

// Defaults used for new games and for repairing loaded saves
const (
	DefaultLocation  = "forest"
	DefaultVersion   = "1.0.0"
	DefaultMaxHealth = 50
)

// Flags records narrative decisions by name
type Flags map[string]bool

// Has reports whether a flag is set to true
func (f Flags) Has(name string) bool {
	return f[name]
}

// Set stores a flag value
func (f Flags) Set(name string, value bool) {
	f[name] = value
}

// Names lists the flags that are set, sorted
func (f Flags) Names() []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(f)) {
		if f[name] {
			names = append(names, name)
		}
	}
	return names
}

// GameState is everything that goes into a save file
type GameState struct {
	ProfileID       string     `json:"profileId"`
	Player          *Character `json:"player"`
	Inventory       *Inventory `json:"inventory"`
	CurrentLocation string     `json:"currentLocation"`
	GameFlags       Flags      `json:"gameFlags"`
	SaveTime        time.Time  `json:"saveTime"`
	Version         string     `json:"version"`
}

// NewGameState creates the state of a fresh game
func NewGameState() *GameState {
	return &GameState{
		ProfileID:       uuid.NewString(),
		Player:          NewCharacter(),
		Inventory:       NewInventory(),
		CurrentLocation: DefaultLocation,
		GameFlags:       make(Flags),
		SaveTime:        time.Now(),
		Version:         DefaultVersion,
	}
}

// HasFlag reports whether a game flag is set
func (gs *GameState) HasFlag(name string) bool {
	return gs.GameFlags.Has(name)
}

// SetFlag sets a game flag
func (gs *GameState) SetFlag(name string, value bool) {
	if gs.GameFlags == nil {
		gs.GameFlags = make(Flags)
	}
	gs.GameFlags.Set(name, value)
}

// Reset returns the state to a new game, keeping the profile id
func (gs *GameState) Reset() {
	gs.Player = NewCharacter()
	gs.Inventory = NewInventory()
	gs.CurrentLocation = DefaultLocation
	gs.GameFlags = make(Flags)
	gs.SaveTime = time.Now()
}

// Repair fixes out-of-range values in a decoded save instead of rejecting
// it. An empty location is replaced with startLocation. Returns the keys of
// inventory stacks dropped to fit MaxSlots.
func (gs *GameState) Repair(startLocation string) (droppedStacks []string) {
	if gs.Player == nil {
		gs.Player = NewCharacter()
	}
	p := gs.Player
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	if p.MaxHealth <= 0 {
		p.MaxHealth = DefaultMaxHealth
	}
	p.SetCurrentHealth(p.CurrentHealth)

	if gs.Inventory == nil {
		gs.Inventory = NewInventory()
	}
	droppedStacks = gs.Inventory.Normalize()

	if gs.GameFlags == nil {
		gs.GameFlags = make(Flags)
	}
	if gs.CurrentLocation == "" {
		gs.CurrentLocation = startLocation
	}
	if gs.CurrentLocation == "" {
		gs.CurrentLocation = DefaultLocation
	}
	if gs.ProfileID == "" {
		gs.ProfileID = uuid.NewString()
	}
	if gs.Version == "" {
		gs.Version = DefaultVersion
	}
	return droppedStacks
}

// RelinkItems points inventory stacks and equipment back at catalog items,
// since decoding a save produces private copies. Unknown ids keep their
// decoded copy.
func (gs *GameState) RelinkItems(items ItemResolver) {
	relink := func(item *types.Item) *types.Item {
		if item == nil {
			return nil
		}
		if shared, ok := items.Item(item.ID); ok {
			return shared
		}
		return item
	}

	if gs.Player != nil {
		gs.Player.EquippedWeapon = relink(gs.Player.EquippedWeapon)
		gs.Player.EquippedArmor = relink(gs.Player.EquippedArmor)
	}
	if gs.Inventory != nil {
		for _, stack := range gs.Inventory.Items {
			if stack != nil {
				stack.Item = relink(stack.Item)
			}
		}
	}
}
