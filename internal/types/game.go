package types

import "time"

// BattleActionType identifies what happened in a battle step
type BattleActionType string

const (
	ActionAttack  BattleActionType = "attack"
	ActionDefend  BattleActionType = "defend"
	ActionUseItem BattleActionType = "use_item"
	ActionFlee    BattleActionType = "flee"
)

// BattleActionResult describes one player or enemy action
type BattleActionResult struct {
	ActionType BattleActionType `json:"actionType"`
	Message    string           `json:"message"`
	Damage     int              `json:"damage"`
	IsCritical bool             `json:"isCritical"`
	IsFinished bool             `json:"isFinished"`
	PlayerWon  bool             `json:"playerWon"`
	Fled       bool             `json:"fled,omitempty"`

	// Set by the session on the action that ends the battle
	Outcome *BattleOutcome `json:"outcome,omitempty"`
}

// BattleReward is what a victory yields. Drops are item ids only; resolving
// them into catalog items is a separate step.
type BattleReward struct {
	Experience int          `json:"experience"`
	Drops      []ItemReward `json:"drops"`
}

// ItemGrant is a resolved drop ready to go into an inventory
type ItemGrant struct {
	Item     *Item `json:"item"`
	Quantity int   `json:"quantity"`
}

// BattleOutcome summarizes a finished battle for the shell
type BattleOutcome struct {
	PlayerWon  bool        `json:"playerWon"`
	Fled       bool        `json:"fled"`
	Experience int         `json:"experience"`
	LeveledUp  bool        `json:"leveledUp"`
	Items      []ItemGrant `json:"items"`

	// Drops that were unknown or did not fit in the inventory
	Unclaimed []string `json:"unclaimed,omitempty"`
}

// BattleView is a snapshot of the running battle
type BattleView struct {
	ID              string `json:"id"`
	EnemyID         string `json:"enemyId"`
	EnemyName       string `json:"enemyName"`
	EnemyEmoji      string `json:"enemyEmoji"`
	EnemyHealth     int    `json:"enemyHealth"`
	EnemyMaxHealth  int    `json:"enemyMaxHealth"`
	PlayerHealth    int    `json:"playerHealth"`
	PlayerMaxHealth int    `json:"playerMaxHealth"`
	Phase           string `json:"phase"`
	PlayerTurn      bool   `json:"playerTurn"`
	Turn            int    `json:"turn"`
	Poisoned        bool   `json:"poisoned"`
	Webbed          bool   `json:"webbed"`
	FleeChance      int    `json:"fleeChance"`
}

// DialogueChoice is a selectable option of the current node. Index is the
// option's position in the node.
type DialogueChoice struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// DialogueStep is the result of choosing an option
type DialogueStep struct {
	Node            *DialogueNode `json:"node,omitempty"`
	Ended           bool          `json:"ended"`
	LeveledUp       bool          `json:"leveledUp"`
	Action          string        `json:"action,omitempty"`
	ActionParameter string        `json:"actionParameter,omitempty"`
	Battle          *BattleView   `json:"battle,omitempty"`
}

// InventoryEntry is one stack as shown to the player
type InventoryEntry struct {
	Key      string `json:"key"`
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Quantity int    `json:"quantity"`
}

// PlayerStatus is a read-only snapshot of the session
type PlayerStatus struct {
	Name             string           `json:"name"`
	Level            int              `json:"level"`
	Experience       int              `json:"experience"`
	ExperienceToNext int              `json:"experienceToNext"`
	CurrentHealth    int              `json:"currentHealth"`
	MaxHealth        int              `json:"maxHealth"`
	HealthPercent    float64          `json:"healthPercent"`
	Strength         int              `json:"strength"`
	Agility          int              `json:"agility"`
	Defense          int              `json:"defense"`
	Weapon           string           `json:"weapon,omitempty"`
	Armor            string           `json:"armor,omitempty"`
	Location         string           `json:"location"`
	Inventory        []InventoryEntry `json:"inventory"`
	Flags            []string         `json:"flags"`
	InBattle         bool             `json:"inBattle"`
	InDialogue       bool             `json:"inDialogue"`
	SaveTime         time.Time        `json:"saveTime"`
}
