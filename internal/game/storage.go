package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SaveManager persists the game state to a single save file
type SaveManager struct {
	savePath      string
	startLocation string
	stateLock     sync.RWMutex
	logger        *zap.Logger
}

// NewSaveManager creates a save manager writing to savePath. startLocation
// is used when a loaded save has no location.
func NewSaveManager(savePath, startLocation string, logger *zap.Logger) *SaveManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if startLocation == "" {
		startLocation = DefaultLocation
	}
	return &SaveManager{
		savePath:      savePath,
		startLocation: startLocation,
		logger:        logger.With(zap.String("save_path", savePath)),
	}
}

// Path returns the save file location
func (sm *SaveManager) Path() string {
	return sm.savePath
}

// SaveGame stamps the save time and writes the state. The file is replaced
// atomically so a failed write leaves the previous save intact.
func (sm *SaveManager) SaveGame(state *GameState) error {
	if state == nil {
		return ErrNoGame
	}

	sm.stateLock.Lock()
	defer sm.stateLock.Unlock()

	dir := filepath.Dir(sm.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		sm.logger.Error("Failed to create save directory", zap.Error(err))
		return fmt.Errorf("failed to create directory: %w", err)
	}

	previous := state.SaveTime
	state.SaveTime = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		state.SaveTime = previous
		sm.logger.Error("Failed to marshal game state", zap.Error(err))
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	if err := writeFileAtomic(sm.savePath, data, 0644); err != nil {
		state.SaveTime = previous
		sm.logger.Error("Failed to write game state", zap.Error(err))
		return fmt.Errorf("failed to write game state: %w", err)
	}

	sm.logger.Info("Game saved",
		zap.String("profile_id", state.ProfileID),
		zap.Int("level", state.Player.Level),
		zap.String("location", state.CurrentLocation))
	return nil
}

// LoadGame reads and repairs the saved state. It returns nil when there is
// no save or the save cannot be parsed.
func (sm *SaveManager) LoadGame() *GameState {
	sm.stateLock.RLock()
	defer sm.stateLock.RUnlock()

	data, err := os.ReadFile(sm.savePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			sm.logger.Warn("Failed to read save file", zap.Error(err))
		}
		return nil
	}

	var state GameState
	if err := json.Unmarshal(data, &state); err != nil {
		sm.logger.Warn("Save file is corrupt, ignoring it", zap.Error(err))
		return nil
	}

	if dropped := state.Repair(sm.startLocation); len(dropped) > 0 {
		sm.logger.Warn("Save holds more stacks than the inventory allows, dropping extras",
			zap.Int("max_slots", MaxSlots),
			zap.Strings("dropped", dropped))
	}
	sm.logger.Info("Game loaded",
		zap.String("profile_id", state.ProfileID),
		zap.Int("level", state.Player.Level),
		zap.Time("save_time", state.SaveTime))
	return &state
}

// SaveExists reports whether a save file is present
func (sm *SaveManager) SaveExists() bool {
	sm.stateLock.RLock()
	defer sm.stateLock.RUnlock()

	info, err := os.Stat(sm.savePath)
	return err == nil && !info.IsDir()
}

// DeleteSave removes the save file. ErrNoSave is returned if there is none.
func (sm *SaveManager) DeleteSave() error {
	sm.stateLock.Lock()
	defer sm.stateLock.Unlock()

	if err := os.Remove(sm.savePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoSave
		}
		sm.logger.Error("Failed to delete save", zap.Error(err))
		return fmt.Errorf("failed to delete save: %w", err)
	}
	sm.logger.Info("Save deleted")
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
