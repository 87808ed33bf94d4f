package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/user/turtle-hero/internal/types"
)

// Combat tuning
const (
	PlayerCritChance   = 10
	EnemyCritChance    = 5
	WebChance          = 30
	WebAgilityDebuff   = 2
	PoisonChance       = 25
	PoisonTickDamage   = 3
	DefendBonusPercent = 50

	playerSpread = 2
	enemySpread  = 1

	fleeBaseChance = 50
	fleePerAgility = 10
	fleeMinChance  = 10
	fleeMaxChance  = 90
)

// BattleEngine resolves individual battle actions. All randomness comes
// from its dice roller.
type BattleEngine struct {
	dice   *DiceRoller
	logger *zap.Logger
}

// NewBattleEngine creates a battle engine
func NewBattleEngine(dice *DiceRoller, logger *zap.Logger) *BattleEngine {
	if dice == nil {
		dice = NewDiceRoller(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleEngine{dice: dice, logger: logger}
}

// PlayerGoesFirst compares agility, breaking ties with a coin flip
func (be *BattleEngine) PlayerGoesFirst(player *Character, enemy *Enemy) bool {
	if player.Agility > enemy.Agility {
		return true
	}
	if player.Agility < enemy.Agility {
		return false
	}
	return be.dice.Pick(2) == 1
}

// PlayerAttack hits the enemy with the player's effective strength
func (be *BattleEngine) PlayerAttack(player *Character, enemy *Enemy) *types.BattleActionResult {
	if !player.IsAlive() || !enemy.IsAlive() {
		return finishedResult(types.ActionAttack, player, enemy)
	}

	damage := max(1, player.EffectiveStrength()+be.dice.Between(-playerSpread, playerSpread)-enemy.Defense)
	isCritical := be.dice.Chance(PlayerCritChance)
	if isCritical {
		damage *= 2
	}

	// Defense is already part of damage, so the enemy loses exactly that much
	enemy.loseHealth(damage)

	result := &types.BattleActionResult{
		ActionType: types.ActionAttack,
		Damage:     damage,
		IsCritical: isCritical,
	}
	if isCritical {
		result.Message = fmt.Sprintf("💥 Critical hit! %s deals %d damage to %s!", player.Emoji, damage, enemy.Emoji)
	} else {
		result.Message = fmt.Sprintf("⚔️ %s attacks %s for %d damage!", player.Emoji, enemy.Emoji, damage)
	}

	if !enemy.IsAlive() {
		result.IsFinished = true
		result.PlayerWon = true
		result.Message += fmt.Sprintf("\n🎉 Victory! %s is defeated!", enemy.Emoji)
	}

	be.logger.Debug("Player attack",
		zap.String("enemy_id", enemy.ID),
		zap.Int("damage", damage),
		zap.Bool("critical", isCritical),
		zap.Int("enemy_health", enemy.CurrentHealth))

	return result
}

// PlayerDefend raises the player's defense by half for the rest of the battle
func (be *BattleEngine) PlayerDefend(player *Character) *types.BattleActionResult {
	if !player.IsAlive() {
		return &types.BattleActionResult{
			ActionType: types.ActionDefend,
			Message:    "The hero cannot defend!",
			IsFinished: true,
		}
	}

	player.TemporaryDefenseBonus = player.EffectiveDefense() * DefendBonusPercent / 100

	return &types.BattleActionResult{
		ActionType: types.ActionDefend,
		Message:    fmt.Sprintf("🛡️ %s takes a defensive stance! Defense raised!", player.Emoji),
	}
}

// EnemyTurn lets the enemy act: a poison tick if the player is poisoned,
// otherwise a normal attack followed by special-ability rolls.
func (be *BattleEngine) EnemyTurn(player *Character, enemy *Enemy) *types.BattleActionResult {
	if !player.IsAlive() || !enemy.IsAlive() {
		return finishedResult(types.ActionAttack, player, enemy)
	}

	if enemy.HasPoisonAttack && enemy.PoisonDamage > 0 {
		player.loseHealth(enemy.PoisonDamage, true)
		result := &types.BattleActionResult{
			ActionType: types.ActionAttack,
			Damage:     enemy.PoisonDamage,
			Message:    fmt.Sprintf("☠️ Poison deals %d damage to %s!", enemy.PoisonDamage, player.Emoji),
		}
		be.checkPlayerDefeat(player, result)
		return result
	}

	damage := max(1, enemy.Strength+be.dice.Between(-enemySpread, enemySpread)-player.EffectiveDefense())
	isCritical := be.dice.Chance(EnemyCritChance)
	if isCritical {
		damage *= 2
	}

	player.loseHealth(damage, true)

	result := &types.BattleActionResult{
		ActionType: types.ActionAttack,
		Damage:     damage,
		IsCritical: isCritical,
	}
	if isCritical {
		result.Message = fmt.Sprintf("💥 Critical hit! %s deals %d damage to %s!", enemy.Emoji, damage, player.Emoji)
	} else {
		result.Message = fmt.Sprintf("⚔️ %s attacks %s for %d damage!", enemy.Emoji, player.Emoji, damage)
	}

	if be.checkPlayerDefeat(player, result) {
		return result
	}

	if enemy.HasWebAttack && be.dice.Chance(WebChance) {
		enemy.AgilityDebuff = WebAgilityDebuff
		result.Message += fmt.Sprintf("\n🕸️ A web slows %s! Agility lowered!", player.Emoji)
	}
	if enemy.HasPoisonAttack && be.dice.Chance(PoisonChance) {
		enemy.PoisonDamage = PoisonTickDamage
		result.Message += fmt.Sprintf("\n☠️ %s is poisoned!", player.Emoji)
	}

	be.logger.Debug("Enemy turn",
		zap.String("enemy_id", enemy.ID),
		zap.Int("damage", damage),
		zap.Bool("critical", isCritical),
		zap.Int("player_health", player.CurrentHealth),
		zap.Int("poison", enemy.PoisonDamage),
		zap.Int("agility_debuff", enemy.AgilityDebuff))

	return result
}

// PlayerUseItem consumes one consumable from the inventory during battle
func (be *BattleEngine) PlayerUseItem(player *Character, inv *Inventory, itemID string) (*types.BattleActionResult, error) {
	if !player.IsAlive() {
		return &types.BattleActionResult{
			ActionType: types.ActionUseItem,
			Message:    "The hero cannot use items!",
			IsFinished: true,
		}, nil
	}

	msg, err := useConsumable(player, inv, itemID, true)
	if err != nil {
		return nil, err
	}
	return &types.BattleActionResult{
		ActionType: types.ActionUseItem,
		Message:    msg,
	}, nil
}

// PlayerFlee tries to escape. The odds grow with the player's agility
// advantage, after any web debuff.
func (be *BattleEngine) PlayerFlee(player *Character, enemy *Enemy) *types.BattleActionResult {
	if !player.IsAlive() || !enemy.IsAlive() {
		return finishedResult(types.ActionFlee, player, enemy)
	}

	chance := FleeChance(player, enemy)
	if !be.dice.Chance(chance) {
		return &types.BattleActionResult{
			ActionType: types.ActionFlee,
			Message:    fmt.Sprintf("🏃 %s tries to run but %s blocks the way!", player.Emoji, enemy.Emoji),
		}
	}
	return &types.BattleActionResult{
		ActionType: types.ActionFlee,
		Message:    fmt.Sprintf("🏃 %s escapes from %s!", player.Emoji, enemy.Emoji),
		IsFinished: true,
		Fled:       true,
	}
}

// FleeChance is the escape probability in percent
func FleeChance(player *Character, enemy *Enemy) int {
	advantage := player.EffectiveAgility() - enemy.AgilityDebuff - enemy.Agility
	return clamp(fleeBaseChance+advantage*fleePerAgility, fleeMinChance, fleeMaxChance)
}

// CalculateReward rolls the enemy's drop table. Drops are returned as ids;
// use ResolveRewards to turn them into items.
func (be *BattleEngine) CalculateReward(enemy *Enemy) *types.BattleReward {
	reward := &types.BattleReward{
		Experience: enemy.ExperienceReward,
		Drops:      make([]types.ItemReward, 0, len(enemy.ItemRewards)),
	}
	for _, entry := range enemy.ItemRewards {
		if be.dice.Chance(entry.DropChance) {
			reward.Drops = append(reward.Drops, entry)
		}
	}
	return reward
}

// ResolveRewards maps dropped item ids through the catalog. Unknown ids
// are skipped and returned separately.
func ResolveRewards(reward *types.BattleReward, resolver ItemResolver) (grants []types.ItemGrant, unknown []string) {
	for _, drop := range reward.Drops {
		item, ok := resolver.Item(drop.ItemID)
		if !ok {
			unknown = append(unknown, drop.ItemID)
			continue
		}
		grants = append(grants, types.ItemGrant{Item: item, Quantity: drop.Quantity})
	}
	return grants, unknown
}

func (be *BattleEngine) checkPlayerDefeat(player *Character, result *types.BattleActionResult) bool {
	if player.IsAlive() {
		return false
	}
	result.IsFinished = true
	result.PlayerWon = false
	result.Message += fmt.Sprintf("\n💀 %s has fallen in battle...", player.Emoji)
	return true
}

func finishedResult(action types.BattleActionType, player *Character, enemy *Enemy) *types.BattleActionResult {
	return &types.BattleActionResult{
		ActionType: action,
		Message:    "The battle is already over!",
		IsFinished: true,
		PlayerWon:  player.IsAlive() && !enemy.IsAlive(),
	}
}

// useConsumable applies an item's effects and removes one from inventory.
// Agility boosts only make sense inside a battle.
func useConsumable(player *Character, inv *Inventory, itemID string, inBattle bool) (string, error) {
	item := inv.FindItem(itemID)
	if item == nil {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if item.Type != types.ItemTypeConsumable {
		return "", fmt.Errorf("%w: %s is not consumable", ErrItemNotUsable, itemID)
	}
	if item.HealthRestore <= 0 && (item.AgilityBoost <= 0 || !inBattle) {
		return "", fmt.Errorf("%w: %s has no effect here", ErrItemNotUsable, itemID)
	}
	if !inv.RemoveItem(itemID, 1) {
		return "", fmt.Errorf("%w: %s", ErrNotEnoughItems, itemID)
	}

	msg := fmt.Sprintf("%s %s uses %s", player.Emoji, player.Name, item.Name)
	if item.HealthRestore > 0 {
		before := player.CurrentHealth
		player.Heal(item.HealthRestore)
		msg += fmt.Sprintf(" and recovers %d HP", player.CurrentHealth-before)
	}
	if inBattle && item.AgilityBoost > 0 {
		player.TemporaryAgilityBonus += item.AgilityBoost
		msg += fmt.Sprintf(" and gains %d agility", item.AgilityBoost)
	}
	return msg + "!", nil
}
