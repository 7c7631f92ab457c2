package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is loaded as the default when present
const DefaultConfigName = "classic"

// extensions are tried in order when resolving a config name to a file
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name. Files in the config directory
// win; otherwise names like "medium_hard" resolve to a built-in preset.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = configID(name)

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if errors.Is(err, ErrConfigNotFound) {
		config, err = presetConfig(name)
	}
	if err != nil {
		return nil, err
	}

	m.configs[name] = config
	return config, nil
}

func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	for _, ext := range extensions {
		path := filepath.Join(m.configDir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return parseConfig(data, ext)
	}
	return nil, ErrConfigNotFound
}

// parseConfig decodes and validates a config file body
func parseConfig(data []byte, ext string) (*engine.GameConfig, error) {
	var config engine.GameConfig
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

func presetConfig(name string) (*engine.GameConfig, error) {
	size, difficulty, ok := strings.Cut(name, "_")
	if !ok {
		return nil, ErrConfigNotFound
	}
	config, err := engine.Preset(size, difficulty)
	if err != nil {
		return nil, ErrConfigNotFound
	}
	return config, nil
}

// ListConfigs returns information about all available configurations:
// every valid file in the config directory followed by the built-in presets
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !isConfigExt(ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		if seen[name] {
			continue
		}

		config, err := m.LoadConfig(name)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid config")
			continue
		}

		seen[name] = true
		configs = append(configs, configInfo(entry.Name(), name, config))
	}

	for _, name := range presetNames() {
		if seen[name] {
			continue
		}
		config, err := presetConfig(name)
		if err != nil {
			continue
		}
		info := configInfo("", name, config)
		info.Builtin = true
		configs = append(configs, info)
	}

	return configs, nil
}

func configInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Rows:        config.Rows,
		Cols:        config.Cols,
		Mines:       config.Mines,
	}
}

func presetNames() []string {
	var names []string
	for size := range engine.BoardSizes {
		for difficulty := range engine.Difficulties {
			names = append(names, size+"_"+difficulty)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		sa, da, _ := strings.Cut(a, "_")
		sb, db, _ := strings.Cut(b, "_")
		if engine.BoardSizes[sa] != engine.BoardSizes[sb] {
			return engine.BoardSizes[sa] < engine.BoardSizes[sb]
		}
		return engine.Difficulties[da] < engine.Difficulties[db]
	})
	return names
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached configurations so the next load reads from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic, else the first file config, else the
// built-in classic board
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		config = m.firstFileConfig()
	}
	if config == nil {
		log.Debug().Str("dir", m.configDir).Msg("no config files found, using built-in default")
		config = m.createMinimalConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

func (m *Manager) firstFileConfig() *engine.GameConfig {
	configs, err := m.ListConfigs()
	if err != nil {
		return nil
	}
	for _, info := range configs {
		if info.Builtin {
			continue
		}
		config, err := m.LoadConfig(info.ConfigID)
		if err == nil {
			return config
		}
	}
	return nil
}

// SaveConfig saves a configuration to disk. A name ending in .yaml or .yml
// is written as YAML, anything else as JSON.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ext := filepath.Ext(name)
	if !isConfigExt(ext) {
		ext = ".json"
	}
	id := configID(name)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	var data []byte
	var err error
	if ext == ".json" {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, id+ext)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	log.Info().Str("config", id).Str("path", configPath).Msg("config saved")
	return nil
}

// createMinimalConfig creates a minimal valid configuration
func (m *Manager) createMinimalConfig() *engine.GameConfig {
	return engine.DefaultConfig()
}

func configID(name string) string {
	ext := filepath.Ext(name)
	if isConfigExt(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func isConfigExt(ext string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
