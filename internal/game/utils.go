package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/user/turtle-hero/internal/types"
)

// DataLoader handles loading catalog data from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader. Relative file names are
// resolved against basePath.
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadItems reads a JSON array of items and registers each one in the
// catalog, overriding built-in entries with the same id.
func (dl *DataLoader) LoadItems(file string, catalog *ItemCatalog) (int, error) {
	var items []types.Item
	if err := dl.readJSON(file, &items); err != nil {
		return 0, fmt.Errorf("failed to load items: %w", err)
	}

	for _, item := range items {
		if err := catalog.Register(item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

// LoadEnemies reads a JSON array of enemy templates into the catalog
func (dl *DataLoader) LoadEnemies(file string, catalog *EnemyCatalog) (int, error) {
	var templates []types.EnemyTemplate
	if err := dl.readJSON(file, &templates); err != nil {
		return 0, fmt.Errorf("failed to load enemies: %w", err)
	}

	for _, t := range templates {
		if err := catalog.Register(t); err != nil {
			return 0, err
		}
	}
	return len(templates), nil
}

func (dl *DataLoader) readJSON(file string, v any) error {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dl.basePath, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, path, err)
	}
	return nil
}

type cachedScenario struct {
	modTime  time.Time
	size     int64
	scenario *types.DialogueScenario
}

// ScenarioLoader parses and validates scenario files. Parsed files are
// cached until their modification time or size changes.
type ScenarioLoader struct {
	cache     *lru.Cache[string, cachedScenario]
	validator *Validator
	logger    *zap.Logger
}

// NewScenarioLoader creates a loader caching up to size parsed files
func NewScenarioLoader(size int, logger *zap.Logger) (*ScenarioLoader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, cachedScenario](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario cache: %w", err)
	}
	return &ScenarioLoader{
		cache:     cache,
		validator: NewValidator(),
		logger:    logger,
	}, nil
}

// LoadFromFile reads one scenario file. Errors wrap ErrScenarioNotFound,
// ErrScenarioParse or ErrScenarioInvalid.
func (sl *ScenarioLoader) LoadFromFile(path string) (*types.DialogueScenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrScenarioParse, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrScenarioNotFound, path)
	}

	if cached, ok := sl.cache.Get(path); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		sl.logger.Debug("Scenario cache hit", zap.String("path", path))
		return cached.scenario, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScenarioParse, path, err)
	}
	scenario, err := sl.LoadFromJSON(data)
	if err != nil {
		sl.cache.Remove(path)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sl.cache.Add(path, cachedScenario{modTime: info.ModTime(), size: info.Size(), scenario: scenario})
	sl.logger.Info("Scenario loaded",
		zap.String("path", path),
		zap.String("scenario_id", scenario.ID),
		zap.Int("nodes", len(scenario.Nodes)))
	return scenario, nil
}

// LoadFromJSON parses and validates a scenario document. Field names match
// case-insensitively.
func (sl *ScenarioLoader) LoadFromJSON(data []byte) (*types.DialogueScenario, error) {
	var scenario types.DialogueScenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenarioParse, err)
	}
	if err := sl.ValidateScenario(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ValidateScenario checks required fields and that every node reference
// resolves. Nodes without an id take their map key.
func (sl *ScenarioLoader) ValidateScenario(scenario *types.DialogueScenario) error {
	if err := sl.validator.ValidateStruct(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrScenarioInvalid, err)
	}

	if _, ok := scenario.Nodes[scenario.StartNodeID]; !ok {
		return fmt.Errorf("%w: start node %q not found", ErrScenarioInvalid, scenario.StartNodeID)
	}

	for _, key := range slices.Sorted(maps.Keys(scenario.Nodes)) {
		node := scenario.Nodes[key]
		if node == nil {
			return fmt.Errorf("%w: node %q is empty", ErrScenarioInvalid, key)
		}
		if node.ID == "" {
			node.ID = key
		}
		for i, option := range node.Options {
			if option.NextNodeID == "" {
				continue
			}
			if _, ok := scenario.Nodes[option.NextNodeID]; !ok {
				return fmt.Errorf("%w: node %q option %d references missing node %q",
					ErrScenarioInvalid, key, i, option.NextNodeID)
			}
		}
	}
	return nil
}

// LoadDir loads every *.json file in dir in name order. Files that fail are
// skipped and their errors joined into the returned error.
func (sl *ScenarioLoader) LoadDir(dir string) ([]*types.DialogueScenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, dir)
		}
		return nil, err
	}

	var (
		scenarios []*types.DialogueScenario
		errs      []error
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		scenario, err := sl.LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			sl.logger.Error("Failed to load scenario", zap.String("file", entry.Name()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, errors.Join(errs...)
}

// CachedCount is the number of parsed files currently cached
func (sl *ScenarioLoader) CachedCount() int {
	return sl.cache.Len()
}
