package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/turtle-hero/internal/types"
)

// BattlePhase is the state of a battle session
type BattlePhase int

const (
	PhaseIdle BattlePhase = iota
	PhasePlayerTurn
	PhaseEnemyTurn
	PhaseFinished
)

func (p BattlePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseEnemyTurn:
		return "enemy_turn"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("BattlePhase(%d)", int(p))
	}
}

// Battle is one fight between the player and an enemy instance it owns.
// Actions must follow the phase order Idle -> PlayerTurn <-> EnemyTurn -> Finished.
type Battle struct {
	ID        string
	Player    *Character
	Enemy     *Enemy
	Inventory *Inventory
	Turn      int

	phase  BattlePhase
	engine *BattleEngine
	last   *types.BattleActionResult
	logger *zap.Logger
}

// NewBattle creates an idle battle
func NewBattle(engine *BattleEngine, player *Character, inv *Inventory, enemy *Enemy, logger *zap.Logger) *Battle {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Battle{
		ID:        id,
		Player:    player,
		Enemy:     enemy,
		Inventory: inv,
		phase:     PhaseIdle,
		engine:    engine,
		logger:    logger.With(zap.String("battle_id", id), zap.String("enemy_id", enemy.ID)),
	}
}

// Phase returns the current phase
func (b *Battle) Phase() BattlePhase {
	return b.phase
}

// Finished reports whether the battle is over
func (b *Battle) Finished() bool {
	return b.phase == PhaseFinished
}

// LastResult returns the most recent action result
func (b *Battle) LastResult() *types.BattleActionResult {
	return b.last
}

// PlayerWon reports a finished battle won by the player
func (b *Battle) PlayerWon() bool {
	return b.Finished() && b.last != nil && b.last.PlayerWon
}

// Fled reports a finished battle the player escaped from
func (b *Battle) Fled() bool {
	return b.Finished() && b.last != nil && b.last.Fled
}

// Start rolls initiative and moves to the first turn
func (b *Battle) Start() (playerFirst bool, err error) {
	if b.phase != PhaseIdle {
		return false, ErrBattleAlreadyBegun
	}
	playerFirst = b.engine.PlayerGoesFirst(b.Player, b.Enemy)
	if playerFirst {
		b.phase = PhasePlayerTurn
	} else {
		b.phase = PhaseEnemyTurn
	}
	b.Turn = 1
	b.logger.Info("Battle started",
		zap.Bool("player_first", playerFirst),
		zap.Int("player_health", b.Player.CurrentHealth),
		zap.Int("enemy_health", b.Enemy.CurrentHealth))
	return playerFirst, nil
}

// Attack performs the player's attack
func (b *Battle) Attack() (*types.BattleActionResult, error) {
	if err := b.requirePlayerTurn(); err != nil {
		return nil, err
	}
	return b.afterPlayer(b.engine.PlayerAttack(b.Player, b.Enemy)), nil
}

// Defend performs the player's defensive stance
func (b *Battle) Defend() (*types.BattleActionResult, error) {
	if err := b.requirePlayerTurn(); err != nil {
		return nil, err
	}
	return b.afterPlayer(b.engine.PlayerDefend(b.Player)), nil
}

// UseItem consumes an item as the player's action
func (b *Battle) UseItem(itemID string) (*types.BattleActionResult, error) {
	if err := b.requirePlayerTurn(); err != nil {
		return nil, err
	}
	result, err := b.engine.PlayerUseItem(b.Player, b.Inventory, itemID)
	if err != nil {
		return nil, err
	}
	return b.afterPlayer(result), nil
}

// Flee attempts to escape as the player's action
func (b *Battle) Flee() (*types.BattleActionResult, error) {
	if err := b.requirePlayerTurn(); err != nil {
		return nil, err
	}
	return b.afterPlayer(b.engine.PlayerFlee(b.Player, b.Enemy)), nil
}

// EnemyAct resolves the enemy's turn
func (b *Battle) EnemyAct() (*types.BattleActionResult, error) {
	switch b.phase {
	case PhaseIdle:
		return nil, ErrBattleNotStarted
	case PhaseFinished:
		return nil, ErrBattleFinished
	case PhasePlayerTurn:
		return nil, ErrNotEnemyTurn
	}

	result := b.engine.EnemyTurn(b.Player, b.Enemy)
	b.last = result
	if result.IsFinished {
		b.finish()
		return result, nil
	}
	b.phase = PhasePlayerTurn
	b.Turn++
	return result, nil
}

func (b *Battle) requirePlayerTurn() error {
	switch b.phase {
	case PhaseIdle:
		return ErrBattleNotStarted
	case PhaseFinished:
		return ErrBattleFinished
	case PhaseEnemyTurn:
		return ErrNotPlayerTurn
	}
	return nil
}

func (b *Battle) afterPlayer(result *types.BattleActionResult) *types.BattleActionResult {
	b.last = result
	if result.IsFinished {
		b.finish()
	} else {
		b.phase = PhaseEnemyTurn
	}
	return result
}

func (b *Battle) finish() {
	b.phase = PhaseFinished
	b.Player.ClearCombatModifiers()
	b.logger.Info("Battle finished",
		zap.Bool("player_won", b.last.PlayerWon),
		zap.Bool("fled", b.last.Fled),
		zap.Int("turns", b.Turn),
		zap.Int("player_health", b.Player.CurrentHealth))
}
