package game

import "errors"

// Common game errors. Wrap with fmt.Errorf("%w: ...", ErrXxx) for context.
var (
	// Catalog / inventory
	ErrItemNotFound     = errors.New("item not found")
	ErrEnemyNotFound    = errors.New("enemy not found")
	ErrInventoryFull    = errors.New("inventory is full")
	ErrNotEnoughItems   = errors.New("insufficient quantity")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrItemNotUsable    = errors.New("item cannot be used")
	ErrItemNotEquipable = errors.New("item cannot be equipped")

	// Battle
	ErrNoActiveBattle     = errors.New("no active battle")
	ErrBattleInProgress   = errors.New("battle already in progress")
	ErrBattleFinished     = errors.New("battle is finished")
	ErrNotPlayerTurn      = errors.New("not the player's turn")
	ErrNotEnemyTurn       = errors.New("not the enemy's turn")
	ErrBattleNotStarted   = errors.New("battle has not started")
	ErrBattleAlreadyBegun = errors.New("battle already started")

	// Dialogue
	ErrScenarioNotLoaded  = errors.New("scenario not loaded")
	ErrNoActiveDialogue   = errors.New("no active dialogue")
	ErrOptionOutOfRange   = errors.New("option out of range")
	ErrOptionUnavailable  = errors.New("option is not available")
	ErrDialogueInProgress = errors.New("dialogue already in progress")

	// Scenario files
	ErrScenarioNotFound = errors.New("scenario file not found")
	ErrScenarioParse    = errors.New("scenario parse error")
	ErrScenarioInvalid  = errors.New("scenario validation error")

	// Catalog files
	ErrInvalidCatalog = errors.New("invalid catalog")

	// Persistence
	ErrNoSave = errors.New("no save available")

	// Session
	ErrNoGame          = errors.New("no game in progress")
	ErrInvalidLocation = errors.New("invalid location")
)
