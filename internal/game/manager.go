package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/user/turtle-hero/config"
	"github.com/user/turtle-hero/internal/interfaces"
	"github.com/user/turtle-hero/internal/types"
)

// Manager owns one game session: the game state, the running battle or
// conversation, and the engines that mutate them.
type Manager struct {
	state     *GameState
	stateLock sync.RWMutex
	saves     *SaveManager
	config    config.Config
	Logger    *zap.Logger

	dice      *DiceRoller
	items     *ItemCatalog
	enemies   *EnemyCatalog
	battles   *BattleEngine
	dialogue  *DialogueEngine
	scenarios *ScenarioLoader

	battle       *Battle
	conversation *conversation
}

type conversation struct {
	scenarioID string
	nodeID     string
}

// Ensure Manager satisfies the interfaces.GameSession interface
var _ interfaces.GameSession = (*Manager)(nil)

// Option customizes a Manager
type Option func(*Manager)

// WithRandomSource replaces the seeded random source
func WithRandomSource(src RandomSource) Option {
	return func(m *Manager) {
		m.dice = NewDiceRoller(src)
	}
}

// WithItemCatalog replaces the built-in item catalog
func WithItemCatalog(c *ItemCatalog) Option {
	return func(m *Manager) {
		m.items = c
	}
}

// WithEnemyCatalog replaces the built-in enemy catalog
func WithEnemyCatalog(c *EnemyCatalog) Option {
	return func(m *Manager) {
		m.enemies = c
	}
}

// NewManager creates a session manager. Catalog overrides named in the
// config must load; scenario files that fail are logged and skipped.
func NewManager(cfg config.Config, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dice == nil {
		m.dice = NewSeededDiceRoller(cfg.Game.Seed)
	}
	if m.items == nil {
		m.items = DefaultItemCatalog()
	}
	if m.enemies == nil {
		m.enemies = DefaultEnemyCatalog()
	}

	loader := NewDataLoader("")
	if cfg.Storage.ItemsFile != "" {
		n, err := loader.LoadItems(cfg.Storage.ItemsFile, m.items)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded item catalog",
			zap.String("file", cfg.Storage.ItemsFile),
			zap.Int("items", n),
			zap.Int("catalog_size", m.items.Len()))
	}
	if cfg.Storage.EnemiesFile != "" {
		n, err := loader.LoadEnemies(cfg.Storage.EnemiesFile, m.enemies)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded enemy catalog", zap.String("file", cfg.Storage.EnemiesFile), zap.Int("enemies", n))
	}

	scenarios, err := NewScenarioLoader(cfg.Storage.ScenarioCacheSize, logger)
	if err != nil {
		return nil, err
	}
	m.scenarios = scenarios
	m.battles = NewBattleEngine(m.dice, logger)
	m.dialogue = NewDialogueEngine(m.dice)
	m.saves = NewSaveManager(cfg.SavePath(), m.startLocation(), logger)

	if cfg.Storage.ScenarioDir != "" {
		loaded, err := scenarios.LoadDir(cfg.Storage.ScenarioDir)
		switch {
		case errors.Is(err, ErrScenarioNotFound) && len(loaded) == 0:
			logger.Warn("Scenario directory not found", zap.String("dir", cfg.Storage.ScenarioDir))
		case err != nil:
			logger.Error("Some scenarios failed to load", zap.Error(err))
		}
		for _, s := range loaded {
			m.dialogue.LoadScenario(s)
		}
	}

	return m, nil
}

// LoadScenarioFile loads one scenario file into the dialogue engine
func (m *Manager) LoadScenarioFile(path string) (string, error) {
	scenario, err := m.scenarios.LoadFromFile(path)
	if err != nil {
		return "", err
	}

	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	m.dialogue.LoadScenario(scenario)
	return scenario.ID, nil
}

// NewGame starts a fresh game with the configured character defaults
func (m *Manager) NewGame() error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	state := NewGameState()
	state.Player = m.newCharacter()
	state.CurrentLocation = m.startLocation()
	if m.config.Game.Version != "" {
		state.Version = m.config.Game.Version
	}

	m.state = state
	m.battle = nil
	m.conversation = nil

	m.Logger.Info("New game started",
		zap.String("profile_id", state.ProfileID),
		zap.String("player", state.Player.Name),
		zap.String("location", state.CurrentLocation))
	return nil
}

// LoadGame replaces the session with the saved game
func (m *Manager) LoadGame() error {
	state := m.saves.LoadGame()
	if state == nil {
		return ErrNoSave
	}
	state.RelinkItems(m.items)

	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	m.state = state
	m.battle = nil
	m.conversation = nil
	return nil
}

// SaveGame writes the session to the save slot. Saving mid-battle is refused.
func (m *Manager) SaveGame() error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireGame(); err != nil {
		return err
	}
	if m.battle != nil {
		return ErrBattleInProgress
	}
	return m.saves.SaveGame(m.state)
}

// DeleteSave removes the save file
func (m *Manager) DeleteSave() error {
	return m.saves.DeleteSave()
}

// SaveExists reports whether there is a save to load
func (m *Manager) SaveExists() bool {
	return m.saves.SaveExists()
}

// State returns the live game state, or nil before a game is started
func (m *Manager) State() *GameState {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.state
}

// Status returns a snapshot of the player and session
func (m *Manager) Status() (*types.PlayerStatus, error) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	if err := m.requireGame(); err != nil {
		return nil, err
	}

	p := m.state.Player
	status := &types.PlayerStatus{
		Name:             p.Name,
		Level:            p.Level,
		Experience:       p.Experience,
		ExperienceToNext: p.ExperienceToNextLevel(),
		CurrentHealth:    p.CurrentHealth,
		MaxHealth:        p.MaxHealth,
		HealthPercent:    p.HealthPercentage(),
		Strength:         p.EffectiveStrength(),
		Agility:          p.EffectiveAgility(),
		Defense:          p.EffectiveDefense(),
		Location:         m.state.CurrentLocation,
		Inventory:        m.state.Inventory.Entries(),
		Flags:            m.state.GameFlags.Names(),
		InBattle:         m.battle != nil,
		InDialogue:       m.conversation != nil,
		SaveTime:         m.state.SaveTime,
	}
	if p.EquippedWeapon != nil {
		status.Weapon = p.EquippedWeapon.Name
	}
	if p.EquippedArmor != nil {
		status.Armor = p.EquippedArmor.Name
	}
	return status, nil
}

// MoveTo changes the current location
func (m *Manager) MoveTo(location string) error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireIdle(); err != nil {
		return err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("%w: location is empty", ErrInvalidLocation)
	}

	m.Logger.Info("Player moved",
		zap.String("from", m.state.CurrentLocation),
		zap.String("to", location))
	m.state.CurrentLocation = location
	return nil
}

// UseItem consumes a healing item outside of battle
func (m *Manager) UseItem(itemID string) (string, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireGame(); err != nil {
		return "", err
	}
	if m.battle != nil {
		return "", ErrBattleInProgress
	}
	return useConsumable(m.state.Player, m.state.Inventory, itemID, false)
}

// Equip puts a weapon or armor from the inventory into its slot. The item
// stays in the inventory.
func (m *Manager) Equip(itemID string) (string, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireGame(); err != nil {
		return "", err
	}
	if m.battle != nil {
		return "", ErrBattleInProgress
	}

	item := m.state.Inventory.FindItem(itemID)
	if item == nil {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	player := m.state.Player
	previous, err := player.Equip(item)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, itemID)
	}

	msg := fmt.Sprintf("%s %s equips %s %s", player.Emoji, player.Name, item.Emoji, item.Name)
	if previous != nil && previous.ID != item.ID {
		msg += fmt.Sprintf(" instead of %s", previous.Name)
	}
	return msg + "!", nil
}

// Enemies lists the enemy ids that can be fought
func (m *Manager) Enemies() []string {
	return m.enemies.IDs()
}

// StartBattle spawns an enemy and rolls initiative. If the enemy is faster
// the shell must call EnemyTurn first.
func (m *Manager) StartBattle(enemyID string) (*types.BattleView, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireIdle(); err != nil {
		return nil, err
	}
	return m.startBattleLocked(enemyID)
}

func (m *Manager) startBattleLocked(enemyID string) (*types.BattleView, error) {
	enemy, err := m.enemies.Spawn(enemyID)
	if err != nil {
		return nil, err
	}

	battle := NewBattle(m.battles, m.state.Player, m.state.Inventory, enemy, m.Logger)
	if _, err := battle.Start(); err != nil {
		return nil, err
	}
	m.battle = battle
	return m.battleView(), nil
}

// Battle returns a snapshot of the running battle
func (m *Manager) Battle() (*types.BattleView, error) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	if m.battle == nil {
		return nil, ErrNoActiveBattle
	}
	return m.battleView(), nil
}

// Attack performs the player's attack
func (m *Manager) Attack() (*types.BattleActionResult, error) {
	return m.battleAction((*Battle).Attack)
}

// Defend performs the player's defensive stance
func (m *Manager) Defend() (*types.BattleActionResult, error) {
	return m.battleAction((*Battle).Defend)
}

// BattleUseItem consumes an item as the player's battle action
func (m *Manager) BattleUseItem(itemID string) (*types.BattleActionResult, error) {
	return m.battleAction(func(b *Battle) (*types.BattleActionResult, error) {
		return b.UseItem(itemID)
	})
}

// Flee tries to escape the battle
func (m *Manager) Flee() (*types.BattleActionResult, error) {
	return m.battleAction((*Battle).Flee)
}

// EnemyTurn resolves the enemy's action
func (m *Manager) EnemyTurn() (*types.BattleActionResult, error) {
	return m.battleAction((*Battle).EnemyAct)
}

func (m *Manager) battleAction(act func(*Battle) (*types.BattleActionResult, error)) (*types.BattleActionResult, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if m.battle == nil {
		return nil, ErrNoActiveBattle
	}
	result, err := act(m.battle)
	if err != nil {
		return nil, err
	}
	if m.battle.Finished() {
		result.Outcome = m.settleBattle()
	}
	return result, nil
}

// settleBattle applies the consequences of the finished battle and closes it
func (m *Manager) settleBattle() *types.BattleOutcome {
	battle := m.battle
	m.battle = nil

	player := m.state.Player
	outcome := &types.BattleOutcome{
		PlayerWon: battle.PlayerWon(),
		Fled:      battle.Fled(),
	}

	switch {
	case outcome.PlayerWon:
		reward := m.battles.CalculateReward(battle.Enemy)
		grants, unknown := ResolveRewards(reward, m.items)
		for _, grant := range grants {
			if m.state.Inventory.AddItem(grant.Item, grant.Quantity) {
				outcome.Items = append(outcome.Items, grant)
			} else {
				outcome.Unclaimed = append(outcome.Unclaimed, grant.Item.ID)
			}
		}
		outcome.Unclaimed = append(outcome.Unclaimed, unknown...)
		outcome.Experience = reward.Experience
		outcome.LeveledUp = player.AddExperience(reward.Experience, m.dice)

	case outcome.Fled:
		// Nothing gained, nothing lost

	default:
		player.FullRestore()
		m.state.CurrentLocation = m.startLocation()
	}

	m.Logger.Info("Battle settled",
		zap.String("battle_id", battle.ID),
		zap.String("enemy_id", battle.Enemy.ID),
		zap.Bool("player_won", outcome.PlayerWon),
		zap.Bool("fled", outcome.Fled),
		zap.Int("experience", outcome.Experience),
		zap.Int("items", len(outcome.Items)),
		zap.Strings("unclaimed", outcome.Unclaimed),
		zap.Int("level", player.Level))
	return outcome
}

func (m *Manager) battleView() *types.BattleView {
	b := m.battle
	return &types.BattleView{
		ID:              b.ID,
		EnemyID:         b.Enemy.ID,
		EnemyName:       b.Enemy.Name,
		EnemyEmoji:      b.Enemy.Emoji,
		EnemyHealth:     b.Enemy.CurrentHealth,
		EnemyMaxHealth:  b.Enemy.MaxHealth,
		PlayerHealth:    b.Player.CurrentHealth,
		PlayerMaxHealth: b.Player.MaxHealth,
		Phase:           b.Phase().String(),
		PlayerTurn:      b.Phase() == PhasePlayerTurn,
		Turn:            b.Turn,
		Poisoned:        b.Enemy.PoisonDamage > 0,
		Webbed:          b.Enemy.AgilityDebuff > 0,
		FleeChance:      FleeChance(b.Player, b.Enemy),
	}
}

// Scenarios lists the loaded dialogue scenario ids
func (m *Manager) Scenarios() []string {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.dialogue.IDs()
}

// StartDialogue opens a scenario at its start node
func (m *Manager) StartDialogue(scenarioID string) (*types.DialogueNode, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if err := m.requireIdle(); err != nil {
		return nil, err
	}
	node, ok := m.dialogue.GetStartNode(scenarioID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotLoaded, scenarioID)
	}

	m.conversation = &conversation{scenarioID: scenarioID, nodeID: node.ID}
	m.Logger.Debug("Dialogue started",
		zap.String("scenario_id", scenarioID),
		zap.String("node_id", node.ID))
	return node, nil
}

// CurrentNode returns the node the conversation is at
func (m *Manager) CurrentNode() (*types.DialogueNode, error) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.currentNode()
}

// AvailableOptions lists the options of the current node the player can pick
func (m *Manager) AvailableOptions() ([]types.DialogueChoice, error) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	node, err := m.currentNode()
	if err != nil {
		return nil, err
	}

	var choices []types.DialogueChoice
	for _, i := range m.dialogue.AvailableOptions(node, m.state.Player, m.state.Inventory, m.state.GameFlags) {
		choices = append(choices, types.DialogueChoice{Index: i, Text: node.Options[i].Text})
	}
	return choices, nil
}

// ChooseOption picks the option at index in the current node, applies its
// reward and follows it. A battle action ends the conversation and starts
// the battle; an end action or an empty next node ends it.
func (m *Manager) ChooseOption(index int) (*types.DialogueStep, error) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	node, err := m.currentNode()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(node.Options) {
		return nil, fmt.Errorf("%w: %d", ErrOptionOutOfRange, index)
	}

	option := &node.Options[index]
	state := m.state
	if !m.dialogue.IsOptionAvailable(option, state.Player, state.Inventory, state.GameFlags) {
		return nil, fmt.Errorf("%w: %d", ErrOptionUnavailable, index)
	}

	action := conditionFolder.String(strings.TrimSpace(option.Action))
	if action == types.ActionBattle {
		if _, ok := m.enemies.Template(option.ActionParameter); !ok {
			return nil, fmt.Errorf("%w: %s", ErrEnemyNotFound, option.ActionParameter)
		}
	}

	step := &types.DialogueStep{
		Action:          option.Action,
		ActionParameter: option.ActionParameter,
	}
	step.LeveledUp = m.dialogue.ApplyReward(option.Reward, state.Player, state.Inventory, state.GameFlags, m.items)

	switch {
	case action == types.ActionBattle:
		m.conversation = nil
		step.Ended = true
		view, err := m.startBattleLocked(option.ActionParameter)
		if err != nil {
			return nil, err
		}
		step.Battle = view

	case action == types.ActionEnd || option.NextNodeID == "":
		m.conversation = nil
		step.Ended = true

	default:
		next, ok := m.dialogue.GetNode(m.conversation.scenarioID, option.NextNodeID)
		if !ok {
			m.conversation = nil
			return nil, fmt.Errorf("%w: node %s", ErrScenarioInvalid, option.NextNodeID)
		}
		m.conversation.nodeID = next.ID
		step.Node = next
	}

	m.Logger.Debug("Dialogue option chosen",
		zap.Int("index", index),
		zap.String("action", option.Action),
		zap.Bool("ended", step.Ended))
	return step, nil
}

// EndDialogue leaves the current conversation
func (m *Manager) EndDialogue() error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if m.conversation == nil {
		return ErrNoActiveDialogue
	}
	m.conversation = nil
	return nil
}

func (m *Manager) currentNode() (*types.DialogueNode, error) {
	if m.conversation == nil {
		return nil, ErrNoActiveDialogue
	}
	node, ok := m.dialogue.GetNode(m.conversation.scenarioID, m.conversation.nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotLoaded, m.conversation.scenarioID)
	}
	return node, nil
}

func (m *Manager) requireGame() error {
	if m.state == nil {
		return ErrNoGame
	}
	return nil
}

// requireIdle checks there is a game with no battle or dialogue running
func (m *Manager) requireIdle() error {
	if err := m.requireGame(); err != nil {
		return err
	}
	if m.battle != nil {
		return ErrBattleInProgress
	}
	if m.conversation != nil {
		return ErrDialogueInProgress
	}
	return nil
}

func (m *Manager) startLocation() string {
	if m.config.Game.DefaultLocation != "" {
		return m.config.Game.DefaultLocation
	}
	return DefaultLocation
}

func (m *Manager) newCharacter() *Character {
	c := NewCharacter()
	g := m.config.Game
	if g.PlayerName != "" {
		c.Name = g.PlayerName
	}
	if g.PlayerEmoji != "" {
		c.Emoji = g.PlayerEmoji
	}
	if g.PlayerMaxHealth > 0 {
		c.MaxHealth = g.PlayerMaxHealth
	}
	if g.PlayerStrength > 0 {
		c.Strength = g.PlayerStrength
	}
	if g.PlayerAgility > 0 {
		c.Agility = g.PlayerAgility
	}
	if g.PlayerDefense > 0 {
		c.Defense = g.PlayerDefense
	}
	c.CurrentHealth = c.MaxHealth
	return c
}
