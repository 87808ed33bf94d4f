package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Game rules and new-game defaults
	Game GameConfig `json:"game" envPrefix:"TURTLEHERO_"`

	// Save file and content locations
	Storage StorageConfig `json:"storage" envPrefix:"TURTLEHERO_"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" envPrefix:"TURTLEHERO_"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Location a new game (and a defeated player) starts in
	DefaultLocation string `json:"default_location" env:"DEFAULT_LOCATION"`

	// Version string stamped into save files
	Version string `json:"version" env:"VERSION"`

	// Seed for the session random source (0 seeds from the clock)
	Seed int64 `json:"seed" env:"SEED"`

	// New character defaults
	PlayerName      string `json:"player_name" env:"PLAYER_NAME"`
	PlayerEmoji     string `json:"player_emoji"`
	PlayerMaxHealth int    `json:"player_max_health" env:"PLAYER_MAX_HEALTH"`
	PlayerStrength  int    `json:"player_strength" env:"PLAYER_STRENGTH"`
	PlayerAgility   int    `json:"player_agility" env:"PLAYER_AGILITY"`
	PlayerDefense   int    `json:"player_defense" env:"PLAYER_DEFENSE"`
}

// StorageConfig holds persistence and content paths
type StorageConfig struct {
	// Directory holding the save file (empty uses the per-user config dir)
	SaveDir string `json:"save_dir" env:"SAVE_DIR"`

	// Save file name inside SaveDir
	SaveFileName string `json:"save_file_name" env:"SAVE_FILE_NAME"`

	// Directory with dialogue scenario JSON files
	ScenarioDir string `json:"scenario_dir" env:"SCENARIO_DIR"`

	// Optional item/enemy catalog overrides
	ItemsFile   string `json:"items_file" env:"ITEMS_FILE"`
	EnemiesFile string `json:"enemies_file" env:"ENEMIES_FILE"`

	// Number of parsed scenarios kept in memory
	ScenarioCacheSize int `json:"scenario_cache_size" env:"SCENARIO_CACHE_SIZE"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `json:"level" env:"LOG_LEVEL"`

	// Log file path; empty writes to stderr
	File string `json:"file" env:"LOG_FILE"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			DefaultLocation: "forest",
			Version:         "1.0.0",
			Seed:            0,
			PlayerName:      "Tortilla",
			PlayerEmoji:     "🐢",
			PlayerMaxHealth: 50,
			PlayerStrength:  5,
			PlayerAgility:   3,
			PlayerDefense:   4,
		},
		Storage: StorageConfig{
			SaveDir:           "",
			SaveFileName:      "savegame.turtle",
			ScenarioDir:       "./assets/scenarios",
			ScenarioCacheSize: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultSaveDir returns <user config dir>/TurtleHero/Saves, falling back to
// ./saves when the platform has no per-user config directory.
func DefaultSaveDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./saves"
	}
	return filepath.Join(base, "TurtleHero", "Saves")
}

// SavePath returns the full path of the single save file
func (c Config) SavePath() string {
	dir := c.Storage.SaveDir
	if dir == "" {
		dir = DefaultSaveDir()
	}
	return filepath.Join(dir, c.Storage.SaveFileName)
}

// LoadConfig loads configuration from a file, then applies .env and
// environment overrides.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return config, err
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&config); err != nil {
		return config, err
	}

	return config, nil
}

// ApplyEnv loads a .env file when present and overlays TURTLEHERO_* variables.
func ApplyEnv(config *Config) error {
	// A missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
