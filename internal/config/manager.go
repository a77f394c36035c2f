package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bryanchriswhite/shareframe/internal/logger"
)

// Manager handles configuration loading, mutation, and persistence.
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
	mu         sync.RWMutex
}

// NewManager creates a new configuration manager. If configFile is empty
// the default path ($HOME/.config/shareframe/config.yaml) is used, and a
// config with defaults is written on first run.
func NewManager(configFile string) (*Manager, error) {
	actualConfigPath := configFile
	if actualConfigPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(homeDir, ".config", "shareframe")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		actualConfigPath = filepath.Join(configDir, "config.yaml")
	}

	m := &Manager{
		configPath: actualConfigPath,
		viper:      viper.New(),
	}
	m.viper.SetConfigFile(actualConfigPath)
	m.viper.SetConfigType("yaml")

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.config = Defaults()
			m.syncViper()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Str("hotkey", m.config.Hotkey).
		Msg("Config loaded")

	return m, nil
}

// load reads the config file into both the typed config and viper.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	m.syncViper()
	return nil
}

// syncViper mirrors the typed config into viper for key-based access.
func (m *Manager) syncViper() {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	m.viper.Set("hotkey", cfg.Hotkey)
	m.viper.Set("frame.title", cfg.Frame.Title)
	m.viper.Set("frame.geometry.x", cfg.Frame.Geometry.X)
	m.viper.Set("frame.geometry.y", cfg.Frame.Geometry.Y)
	m.viper.Set("frame.geometry.width", cfg.Frame.Geometry.Width)
	m.viper.Set("frame.geometry.height", cfg.Frame.Geometry.Height)
	m.viper.Set("frame.alignment_opacity", cfg.Frame.AlignmentOpacity)
	m.viper.Set("api.enabled", cfg.API.Enabled)
	m.viper.Set("api.port", cfg.API.Port)
	m.viper.Set("log_level", cfg.LogLevel)
	m.viper.Set("log_pretty", cfg.LogPretty)
	m.viper.Set("snapshot_dir", cfg.SnapshotDir)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config
}

// GetConfigPath returns the path of the backing config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetViper exposes the viper instance for key-based get/set commands.
func (m *Manager) GetViper() *viper.Viper {
	return m.viper
}

// Save writes the current configuration to disk as YAML.
func (m *Manager) Save() error {
	// Re-read viper state so `config set` mutations are persisted.
	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetLogLevel overrides the log level in memory (flag override path).
func (m *Manager) SetLogLevel(level string) {
	m.mu.Lock()
	m.config.LogLevel = level
	m.mu.Unlock()
	m.viper.Set("log_level", level)
}

// SetAPIPort enables the control API on the given port in memory.
func (m *Manager) SetAPIPort(port int) {
	m.mu.Lock()
	m.config.API.Enabled = true
	m.config.API.Port = port
	m.mu.Unlock()
	m.viper.Set("api.enabled", true)
	m.viper.Set("api.port", port)
}
