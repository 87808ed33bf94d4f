package game

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/user/turtle-hero/internal/types"
)

var conditionFolder = cases.Fold()

// DialogueEngine holds loaded scenarios and evaluates options against the
// player's state.
type DialogueEngine struct {
	scenarios map[string]*types.DialogueScenario
	dice      *DiceRoller
}

// NewDialogueEngine creates a dialogue engine. The dice roller is used for
// level-ups granted by rewards.
func NewDialogueEngine(dice *DiceRoller) *DialogueEngine {
	if dice == nil {
		dice = NewDiceRoller(nil)
	}
	return &DialogueEngine{
		scenarios: make(map[string]*types.DialogueScenario),
		dice:      dice,
	}
}

// LoadScenario registers a scenario by id, replacing any previous one
func (de *DialogueEngine) LoadScenario(scenario *types.DialogueScenario) {
	if scenario == nil {
		return
	}
	de.scenarios[scenario.ID] = scenario
}

// Scenario returns a loaded scenario
func (de *DialogueEngine) Scenario(id string) (*types.DialogueScenario, bool) {
	s, ok := de.scenarios[id]
	return s, ok
}

// IDs lists loaded scenario ids in order
func (de *DialogueEngine) IDs() []string {
	return slices.Sorted(maps.Keys(de.scenarios))
}

// GetStartNode returns the scenario's first node
func (de *DialogueEngine) GetStartNode(scenarioID string) (*types.DialogueNode, bool) {
	scenario, ok := de.scenarios[scenarioID]
	if !ok {
		return nil, false
	}
	return de.GetNode(scenarioID, scenario.StartNodeID)
}

// GetNode looks up a node in a loaded scenario
func (de *DialogueEngine) GetNode(scenarioID, nodeID string) (*types.DialogueNode, bool) {
	scenario, ok := de.scenarios[scenarioID]
	if !ok {
		return nil, false
	}
	node, ok := scenario.Nodes[nodeID]
	if !ok || node == nil {
		return nil, false
	}
	return node, true
}

// IsOptionAvailable checks an option's condition. Options without a
// condition, and conditions of an unknown type, are always available.
func (de *DialogueEngine) IsOptionAvailable(option *types.DialogueOption, player *Character, inv *Inventory, flags Flags) bool {
	if option == nil || option.Condition == nil {
		return true
	}
	cond := option.Condition

	switch conditionFolder.String(strings.TrimSpace(cond.Type)) {
	case types.ConditionStrength:
		return checkNumeric(player.Strength, cond)
	case types.ConditionAgility:
		return checkNumeric(player.Agility, cond)
	case types.ConditionDefense:
		return checkNumeric(player.Defense, cond)
	case types.ConditionLevel:
		return checkNumeric(player.Level, cond)
	case types.ConditionHasItem:
		itemID, ok := cond.Value.(string)
		if !ok {
			return false
		}
		return checkPresence(inv.HasItem(itemID, 1), cond.Operator)
	case types.ConditionFlag:
		name, ok := cond.Value.(string)
		if !ok {
			return false
		}
		return checkPresence(flags.Has(name), cond.Operator)
	default:
		return true
	}
}

// AvailableOptions filters a node's options, keeping their original indexes
func (de *DialogueEngine) AvailableOptions(node *types.DialogueNode, player *Character, inv *Inventory, flags Flags) []int {
	if node == nil {
		return nil
	}
	var idx []int
	for i := range node.Options {
		if de.IsOptionAvailable(&node.Options[i], player, inv, flags) {
			idx = append(idx, i)
		}
	}
	return idx
}

// ApplyReward grants whatever the reward carries. Experience, item and flag
// are independent; an item id missing from the catalog is skipped.
// Returns true if the experience caused a level-up.
func (de *DialogueEngine) ApplyReward(reward *types.DialogueReward, player *Character, inv *Inventory, flags Flags, items ItemResolver) bool {
	if reward == nil {
		return false
	}

	leveledUp := false
	if reward.Experience != nil {
		leveledUp = player.AddExperience(*reward.Experience, de.dice)
	}

	if reward.ItemID != "" && reward.ItemQuantity != nil && items != nil {
		if item, ok := items.Item(reward.ItemID); ok {
			inv.AddItem(item, *reward.ItemQuantity)
		}
	}

	if reward.Flag != "" && flags != nil {
		flags.Set(reward.Flag, true)
	}
	return leveledUp
}

// checkNumeric compares a stat against the condition value. A missing or
// non-integer value, or an unknown operator, leaves the option available.
func checkNumeric(stat int, cond *types.DialogueCondition) bool {
	required, ok := conditionInt(cond.Value)
	if !ok {
		return true
	}

	switch strings.TrimSpace(cond.Operator) {
	case ">=":
		return stat >= required
	case "<=":
		return stat <= required
	case ">":
		return stat > required
	case "<":
		return stat < required
	case "==":
		return stat == required
	case "!=":
		return stat != required
	default:
		return true
	}
}

// conditionInt reads a whole number from a decoded condition value.
// Fractions, out-of-range numbers and non-numeric strings are rejected.
func conditionInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return conditionInt(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// "==" means must have, anything else means must not have
func checkPresence(present bool, operator string) bool {
	if strings.TrimSpace(operator) == "==" {
		return present
	}
	return !present
}
