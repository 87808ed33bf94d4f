package interfaces

import "github.com/user/turtle-hero/internal/types"

// GameSession defines the operations the terminal shell drives
type GameSession interface {
	// Save slot
	NewGame() error
	LoadGame() error
	SaveGame() error
	DeleteSave() error
	SaveExists() bool

	// Exploration
	Status() (*types.PlayerStatus, error)
	MoveTo(location string) error
	UseItem(itemID string) (string, error)
	Equip(itemID string) (string, error)

	// Battle
	Enemies() []string
	StartBattle(enemyID string) (*types.BattleView, error)
	Battle() (*types.BattleView, error)
	Attack() (*types.BattleActionResult, error)
	Defend() (*types.BattleActionResult, error)
	BattleUseItem(itemID string) (*types.BattleActionResult, error)
	Flee() (*types.BattleActionResult, error)
	EnemyTurn() (*types.BattleActionResult, error)

	// Dialogue
	Scenarios() []string
	StartDialogue(scenarioID string) (*types.DialogueNode, error)
	CurrentNode() (*types.DialogueNode, error)
	AvailableOptions() ([]types.DialogueChoice, error)
	ChooseOption(index int) (*types.DialogueStep, error)
	EndDialogue() error
}
