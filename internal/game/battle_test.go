package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/turtle-hero/internal/types"
)

func spawn(t *testing.T, id string) *Enemy {
	t.Helper()
	enemy, err := DefaultEnemyCatalog().Spawn(id)
	require.NoError(t, err)
	return enemy
}

func TestPlayerGoesFirstByAgility(t *testing.T) {
	dice, src := scriptedDice(t)
	engine := NewBattleEngine(dice, nil)

	player := NewCharacter()
	enemy := spawn(t, "snake_guard")

	player.Agility, enemy.Agility = 10, 1
	assert.True(t, engine.PlayerGoesFirst(player, enemy))

	player.Agility, enemy.Agility = 1, 10
	assert.False(t, engine.PlayerGoesFirst(player, enemy))

	src.AssertNotCalled(t, "Intn", 2)
}

func TestPlayerGoesFirstTieIsRandom(t *testing.T) {
	engine := NewBattleEngine(NewSeededDiceRoller(2024), nil)
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")
	player.Agility, enemy.Agility = 4, 4

	first := 0
	for i := 0; i < 200; i++ {
		if engine.PlayerGoesFirst(player, enemy) {
			first++
		}
	}
	assert.Greater(t, first, 0)
	assert.Less(t, first, 200)
}

func TestPlayerAttack(t *testing.T) {
	// spread roll 2 means +0, crit roll 50 misses
	dice, src := scriptedDice(t, 5, 2, 100, 50)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")

	result := engine.PlayerAttack(player, enemy)

	assert.Equal(t, types.ActionAttack, result.ActionType)
	assert.Equal(t, 3, result.Damage)
	assert.False(t, result.IsCritical)
	assert.False(t, result.IsFinished)
	assert.Equal(t, 27, enemy.CurrentHealth)
	assert.Equal(t, enemy.MaxHealth-enemy.CurrentHealth, result.Damage)
	src.AssertExpectations(t)
}

func TestPlayerAttackCriticalDoubles(t *testing.T) {
	dice, _ := scriptedDice(t, 5, 4, 100, 50, 5, 4, 100, 9)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()

	normal := engine.PlayerAttack(player, spawn(t, "snake_tyrant"))
	enemy := spawn(t, "snake_tyrant")
	crit := engine.PlayerAttack(player, enemy)

	require.True(t, crit.IsCritical)
	assert.Equal(t, 2*normal.Damage, crit.Damage)
	assert.Equal(t, enemy.MaxHealth-crit.Damage, enemy.CurrentHealth)
}

func TestPlayerAttackMinimumDamage(t *testing.T) {
	dice, _ := scriptedDice(t, 5, 0, 100, 99)
	engine := NewBattleEngine(dice, nil)
	enemy := spawn(t, "snake_guard")
	enemy.Defense = 1000

	result := engine.PlayerAttack(NewCharacter(), enemy)
	assert.Equal(t, 1, result.Damage)
	assert.Equal(t, 29, enemy.CurrentHealth)
}

func TestPlayerAttackVictory(t *testing.T) {
	dice, _ := scriptedDice(t, 5, 2, 100, 50)
	engine := NewBattleEngine(dice, nil)
	enemy := spawn(t, "snake_guard")
	enemy.CurrentHealth = 2

	result := engine.PlayerAttack(NewCharacter(), enemy)
	assert.True(t, result.IsFinished)
	assert.True(t, result.PlayerWon)
	assert.Equal(t, 0, enemy.CurrentHealth)
}

func TestActionsOnDeadCombatants(t *testing.T) {
	dice, src := scriptedDice(t)
	engine := NewBattleEngine(dice, nil)

	player := NewCharacter()
	enemy := spawn(t, "snake_guard")
	enemy.CurrentHealth = 0

	result := engine.PlayerAttack(player, enemy)
	assert.True(t, result.IsFinished)
	assert.True(t, result.PlayerWon)
	assert.Zero(t, result.Damage)

	enemy.CurrentHealth = 10
	player.CurrentHealth = 0
	result = engine.EnemyTurn(player, enemy)
	assert.True(t, result.IsFinished)
	assert.False(t, result.PlayerWon)
	assert.Zero(t, result.Damage)

	result = engine.PlayerDefend(player)
	assert.True(t, result.IsFinished)
	assert.Zero(t, player.TemporaryDefenseBonus)

	src.AssertNotCalled(t, "Intn", 5)
}

func TestEnemyTurnNormalAttack(t *testing.T) {
	// spread +0, no crit, no poison
	dice, src := scriptedDice(t, 3, 1, 100, 50, 100, 99)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")
	player.Defense = 1

	result := engine.EnemyTurn(player, enemy)

	assert.Equal(t, 3, result.Damage)
	assert.Equal(t, 47, player.CurrentHealth)
	assert.Equal(t, player.MaxHealth-player.CurrentHealth, result.Damage)
	assert.Zero(t, enemy.PoisonDamage)
	src.AssertExpectations(t)
}

func TestEnemyTurnMinimumAndCritical(t *testing.T) {
	// spread +1, crit roll 4 hits: max(1, 4+1-4) = 1, doubled
	dice, _ := scriptedDice(t, 3, 2, 100, 4, 100, 99)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()

	result := engine.EnemyTurn(player, spawn(t, "snake_guard"))
	assert.True(t, result.IsCritical)
	assert.Equal(t, 2, result.Damage)
	assert.Equal(t, 48, player.CurrentHealth)
}

func TestEnemyTurnInflictsPoison(t *testing.T) {
	dice, _ := scriptedDice(t, 3, 1, 100, 50, 100, 24)
	engine := NewBattleEngine(dice, nil)
	enemy := spawn(t, "snake_guard")

	engine.EnemyTurn(NewCharacter(), enemy)
	assert.Equal(t, PoisonTickDamage, enemy.PoisonDamage)
}

func TestEnemyTurnPoisonTick(t *testing.T) {
	dice, src := scriptedDice(t)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")
	enemy.PoisonDamage = 3

	result := engine.EnemyTurn(player, enemy)
	assert.Equal(t, 3, result.Damage)
	assert.Equal(t, 47, player.CurrentHealth)
	src.AssertNotCalled(t, "Intn", 3)

	player.CurrentHealth = 2
	result = engine.EnemyTurn(player, enemy)
	assert.True(t, result.IsFinished)
	assert.False(t, result.PlayerWon)
	assert.Equal(t, 0, player.CurrentHealth)
}

func TestEnemyTurnWeb(t *testing.T) {
	dice, _ := scriptedDice(t, 3, 1, 100, 50, 100, 29)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	enemy := spawn(t, "spider_illusionist")
	before := FleeChance(player, enemy)

	engine.EnemyTurn(player, enemy)
	assert.Equal(t, WebAgilityDebuff, enemy.AgilityDebuff)
	assert.Less(t, FleeChance(player, enemy), before)
}

func TestEnemyTurnKillsPlayerSkipsEffects(t *testing.T) {
	// no poison roll is scripted, so one would fail the test
	dice, src := scriptedDice(t, 3, 1, 100, 50)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	player.CurrentHealth = 1

	result := engine.EnemyTurn(player, spawn(t, "snake_guard"))
	assert.True(t, result.IsFinished)
	assert.False(t, result.PlayerWon)
	assert.Equal(t, 0, player.CurrentHealth)
	src.AssertExpectations(t)
}

func TestPlayerDefend(t *testing.T) {
	dice, _ := scriptedDice(t, 3, 2, 100, 50, 100, 99)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()

	result := engine.PlayerDefend(player)
	assert.Equal(t, types.ActionDefend, result.ActionType)
	assert.False(t, result.IsFinished)
	assert.Equal(t, 2, player.TemporaryDefenseBonus)
	assert.Equal(t, 6, player.EffectiveDefense())

	enemy := spawn(t, "snake_guard")
	enemy.Strength = 10
	result = engine.EnemyTurn(player, enemy)
	assert.Equal(t, 5, result.Damage)
}

func TestCalculateReward(t *testing.T) {
	// mushroom needs < 60, sword needs < 20
	dice, _ := scriptedDice(t, 100, 59, 100, 20)
	engine := NewBattleEngine(dice, nil)

	reward := engine.CalculateReward(spawn(t, "scorpion_mercenary"))
	assert.Equal(t, 80, reward.Experience)
	require.Len(t, reward.Drops, 1)
	assert.Equal(t, "mushroom_heal", reward.Drops[0].ItemID)
	assert.Equal(t, 2, reward.Drops[0].Quantity)
}

func TestCalculateRewardChanceBounds(t *testing.T) {
	engine := NewBattleEngine(NewSeededDiceRoller(5), nil)
	enemy := spawn(t, "snake_guard")
	enemy.ItemRewards = []types.ItemReward{
		{ItemID: "never", Quantity: 1, DropChance: 0},
		{ItemID: "always", Quantity: 1, DropChance: 100},
	}

	for i := 0; i < 100; i++ {
		reward := engine.CalculateReward(enemy)
		require.Len(t, reward.Drops, 1)
		assert.Equal(t, "always", reward.Drops[0].ItemID)
	}
}

func TestResolveRewards(t *testing.T) {
	items := DefaultItemCatalog()
	reward := &types.BattleReward{
		Experience: 10,
		Drops: []types.ItemReward{
			{ItemID: "mushroom_heal", Quantity: 2, DropChance: 50},
			{ItemID: "ghost_item", Quantity: 1, DropChance: 50},
		},
	}

	grants, unknown := ResolveRewards(reward, items)
	require.Len(t, grants, 1)
	mushroom, _ := items.Item("mushroom_heal")
	assert.Same(t, mushroom, grants[0].Item)
	assert.Equal(t, 2, grants[0].Quantity)
	assert.Equal(t, []string{"ghost_item"}, unknown)
}

func TestFleeChance(t *testing.T) {
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")
	assert.Equal(t, 60, FleeChance(player, enemy))

	player.Agility = 100
	assert.Equal(t, 90, FleeChance(player, enemy))

	player.Agility = 0
	enemy.Agility = 100
	assert.Equal(t, 10, FleeChance(player, enemy))

	spider := spawn(t, "spider_illusionist")
	player.Agility = 3
	assert.Equal(t, 30, FleeChance(player, spider))
	spider.AgilityDebuff = 2
	assert.Equal(t, 10, FleeChance(player, spider))
}

func TestPlayerFlee(t *testing.T) {
	dice, _ := scriptedDice(t, 100, 59, 100, 60)
	engine := NewBattleEngine(dice, nil)
	player := NewCharacter()
	enemy := spawn(t, "snake_guard")

	result := engine.PlayerFlee(player, enemy)
	assert.True(t, result.IsFinished)
	assert.True(t, result.Fled)
	assert.False(t, result.PlayerWon)

	result = engine.PlayerFlee(player, enemy)
	assert.False(t, result.IsFinished)
	assert.False(t, result.Fled)
}

func TestPlayerUseItem(t *testing.T) {
	items := DefaultItemCatalog()
	mushroom, _ := items.Item("mushroom_heal")
	herb, _ := items.Item("herb_agility")
	scroll, _ := items.Item("scroll_of_wisdom")

	engine := NewBattleEngine(NewSeededDiceRoller(1), nil)
	player := NewCharacter()
	player.CurrentHealth = 20
	inv := NewInventory()
	require.True(t, inv.AddItem(mushroom, 2))
	require.True(t, inv.AddItem(herb, 1))
	require.True(t, inv.AddItem(scroll, 1))

	result, err := engine.PlayerUseItem(player, inv, "mushroom_heal")
	require.NoError(t, err)
	assert.Equal(t, types.ActionUseItem, result.ActionType)
	assert.Equal(t, 40, player.CurrentHealth)
	assert.Equal(t, 1, inv.GetItemCount("mushroom_heal"))

	_, err = engine.PlayerUseItem(player, inv, "herb_agility")
	require.NoError(t, err)
	assert.Equal(t, 3, player.TemporaryAgilityBonus)
	assert.Equal(t, 6, player.EffectiveAgility())
	assert.False(t, inv.HasItem("herb_agility", 1))

	_, err = engine.PlayerUseItem(player, inv, "scroll_of_wisdom")
	assert.ErrorIs(t, err, ErrItemNotUsable)
	assert.Equal(t, 1, inv.GetItemCount("scroll_of_wisdom"))

	_, err = engine.PlayerUseItem(player, inv, "herb_agility")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAgilityHerbOutsideBattle(t *testing.T) {
	herb, _ := DefaultItemCatalog().Item("herb_agility")
	inv := NewInventory()
	require.True(t, inv.AddItem(herb, 1))

	_, err := useConsumable(NewCharacter(), inv, "herb_agility", false)
	assert.ErrorIs(t, err, ErrItemNotUsable)
	assert.Equal(t, 1, inv.GetItemCount("herb_agility"))
}
