package types

// Condition types understood by the dialogue engine
const (
	ConditionStrength = "strength"
	ConditionAgility  = "agility"
	ConditionDefense  = "defense"
	ConditionLevel    = "level"
	ConditionHasItem  = "has_item"
	ConditionFlag     = "flag"
)

// Option action tags
const (
	ActionBattle = "battle"
	ActionShop   = "shop"
	ActionEnd    = "end"
)

// DialogueScenario is a whole conversation graph
type DialogueScenario struct {
	ID          string                   `json:"id" validate:"required"`
	Name        string                   `json:"name"`
	StartNodeID string                   `json:"startNodeId" validate:"required"`
	Nodes       map[string]*DialogueNode `json:"nodes" validate:"required,min=1"`
}

// DialogueNode is one line of dialogue with its answers
type DialogueNode struct {
	ID      string           `json:"id"`
	Speaker string           `json:"speaker"`
	Text    string           `json:"text"`
	Emoji   string           `json:"emoji,omitempty"`
	Options []DialogueOption `json:"options"`
}

// DialogueOption is a selectable answer
type DialogueOption struct {
	Text       string             `json:"text"`
	NextNodeID string             `json:"nextNodeId"`
	Condition  *DialogueCondition `json:"condition,omitempty"`
	Reward     *DialogueReward    `json:"reward,omitempty"`

	// e.g. "battle" with the enemy id as parameter
	Action          string `json:"action,omitempty"`
	ActionParameter string `json:"actionParameter,omitempty"`
}

// DialogueCondition gates an option. Value is a number for stat checks and a
// string for has_item/flag checks.
type DialogueCondition struct {
	Type     string `json:"type"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// DialogueReward is granted when an option is chosen
type DialogueReward struct {
	Experience   *int   `json:"experience,omitempty"`
	ItemID       string `json:"itemId,omitempty"`
	ItemQuantity *int   `json:"itemQuantity,omitempty"`
	Flag         string `json:"flag,omitempty"`
}
