package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/user/turtle-hero/internal/interfaces"
	"github.com/user/turtle-hero/internal/types"
)

const helpText = `Commands:
  new | load | save | delete       manage the game
  status | inv                     show the hero
  move <location>                  travel
  use <item> | equip <item>        use or equip an item
  enemies | fight <enemy>          start a battle
  attack | defend | item <id> | flee
  scenarios | talk <scenario>      start a dialogue
  choose <n> | leave               answer or leave a dialogue
  help | quit`

// Shell is a line-oriented front end for a game session
type Shell struct {
	session interfaces.GameSession
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// NewShell creates a shell reading commands from in
func NewShell(session interfaces.GameSession, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run reads commands until quit or end of input
func (s *Shell) Run() error {
	s.printf("🐢 Turtle Hero\n")
	if s.session.SaveExists() {
		s.printf("A saved game exists. Type 'load' to continue or 'new' to start over.\n")
	} else {
		s.printf("Type 'new' to start a game or 'help' for commands.\n")
	}

	for {
		s.printf("> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		if s.Execute(s.in.Text()) {
			return nil
		}
	}
}

// Execute runs one command line. It returns true when the shell should exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	arg := strings.Join(fields[1:], " ")

	var err error
	switch cmd {
	case "quit", "exit":
		s.printf("Goodbye!\n")
		return true
	case "help", "?":
		s.printf("%s\n", helpText)
	case "new":
		if err = s.session.NewGame(); err == nil {
			s.printf("A new adventure begins!\n")
			err = s.showStatus()
		}
	case "load":
		if err = s.session.LoadGame(); err == nil {
			s.printf("Game loaded.\n")
			err = s.showStatus()
		}
	case "save":
		if err = s.session.SaveGame(); err == nil {
			s.printf("Game saved.\n")
		}
	case "delete":
		if err = s.session.DeleteSave(); err == nil {
			s.printf("Save deleted.\n")
		}
	case "status", "inv":
		err = s.showStatus()
	case "move":
		if err = s.session.MoveTo(arg); err == nil {
			s.printf("You travel to %s.\n", arg)
		}
	case "use":
		err = s.printMessage(s.session.UseItem(arg))
	case "equip":
		err = s.printMessage(s.session.Equip(arg))
	case "enemies":
		s.printf("Enemies: %s\n", strings.Join(s.session.Enemies(), ", "))
	case "fight":
		err = s.fight(arg)
	case "attack":
		err = s.battleTurn(s.session.Attack())
	case "defend":
		err = s.battleTurn(s.session.Defend())
	case "item":
		err = s.battleTurn(s.session.BattleUseItem(arg))
	case "flee":
		err = s.battleTurn(s.session.Flee())
	case "scenarios":
		s.printf("Scenarios: %s\n", strings.Join(s.session.Scenarios(), ", "))
	case "talk":
		var node *types.DialogueNode
		if node, err = s.session.StartDialogue(arg); err == nil {
			err = s.showNode(node)
		}
	case "choose":
		err = s.choose(arg)
	case "leave":
		if err = s.session.EndDialogue(); err == nil {
			s.printf("You walk away.\n")
		}
	default:
		s.printf("Unknown command %q. Type 'help' for commands.\n", cmd)
	}

	if err != nil {
		s.logger.Debug("Command failed", zap.String("command", cmd), zap.Error(err))
		s.printf("⚠️ %v\n", err)
	}
	return false
}

func (s *Shell) fight(enemyID string) error {
	view, err := s.session.StartBattle(enemyID)
	if err != nil {
		return err
	}
	s.showBattleStart(view)
	if view.PlayerTurn {
		return nil
	}
	return s.enemyTurn()
}

// battleTurn prints the player's action and lets the enemy answer
func (s *Shell) battleTurn(result *types.BattleActionResult, err error) error {
	if err != nil {
		return err
	}
	s.showResult(result)
	if result.IsFinished {
		return nil
	}
	return s.enemyTurn()
}

func (s *Shell) enemyTurn() error {
	result, err := s.session.EnemyTurn()
	if err != nil {
		return err
	}
	s.showResult(result)
	if result.IsFinished {
		return nil
	}

	view, err := s.session.Battle()
	if err != nil {
		return err
	}
	s.printf("❤️ %d/%d   %s %d/%d\n", view.PlayerHealth, view.PlayerMaxHealth,
		view.EnemyEmoji, view.EnemyHealth, view.EnemyMaxHealth)
	return nil
}

func (s *Shell) choose(arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return errors.New("choose needs an option number")
	}

	step, err := s.session.ChooseOption(n - 1)
	if err != nil {
		return err
	}
	if step.LeveledUp {
		s.printf("⭐ Level up!\n")
	}
	switch {
	case step.Battle != nil:
		s.showBattleStart(step.Battle)
		if !step.Battle.PlayerTurn {
			return s.enemyTurn()
		}
	case step.Ended:
		s.printf("The conversation ends.\n")
	default:
		return s.showNode(step.Node)
	}
	return nil
}

func (s *Shell) showStatus() error {
	st, err := s.session.Status()
	if err != nil {
		return err
	}
	s.printf("%s Lv.%d  XP %d/%d  HP %d/%d (%.0f%%)  STR %d AGI %d DEF %d  @ %s\n",
		st.Name, st.Level, st.Experience, st.ExperienceToNext,
		st.CurrentHealth, st.MaxHealth, st.HealthPercent,
		st.Strength, st.Agility, st.Defense, st.Location)
	if st.Weapon != "" || st.Armor != "" {
		s.printf("Weapon: %s  Armor: %s\n", orNone(st.Weapon), orNone(st.Armor))
	}
	if len(st.Inventory) == 0 {
		s.printf("Inventory is empty.\n")
	}
	for _, e := range st.Inventory {
		s.printf("  %s %s x%d (%s)\n", e.Emoji, e.Name, e.Quantity, e.ItemID)
	}
	return nil
}

func (s *Shell) showBattleStart(view *types.BattleView) {
	s.printf("⚔️ %s %s appears! (%d HP)\n", view.EnemyEmoji, view.EnemyName, view.EnemyMaxHealth)
	if view.PlayerTurn {
		s.printf("You are faster and act first.\n")
	} else {
		s.printf("%s strikes first!\n", view.EnemyName)
	}
}

func (s *Shell) showResult(result *types.BattleActionResult) {
	s.printf("%s\n", result.Message)
	outcome := result.Outcome
	if outcome == nil {
		return
	}
	switch {
	case outcome.PlayerWon:
		s.printf("You gain %d experience.\n", outcome.Experience)
		for _, grant := range outcome.Items {
			s.printf("  + %s %s x%d\n", grant.Item.Emoji, grant.Item.Name, grant.Quantity)
		}
		if len(outcome.Unclaimed) > 0 {
			s.printf("  No room for: %s\n", strings.Join(outcome.Unclaimed, ", "))
		}
		if outcome.LeveledUp {
			s.printf("⭐ Level up!\n")
		}
	case outcome.Fled:
		s.printf("You live to fight another day.\n")
	default:
		s.printf("You wake up back home, fully healed.\n")
	}
}

func (s *Shell) showNode(node *types.DialogueNode) error {
	if node == nil {
		return errors.New("dialogue has no node")
	}
	s.printf("%s %s: %s\n", node.Emoji, node.Speaker, node.Text)

	choices, err := s.session.AvailableOptions()
	if err != nil {
		return err
	}
	for _, c := range choices {
		s.printf("  %d. %s\n", c.Index+1, c.Text)
	}
	return nil
}

func (s *Shell) printMessage(msg string, err error) error {
	if err != nil {
		return err
	}
	s.printf("%s\n", msg)
	return nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
