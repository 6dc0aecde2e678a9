/*
Package config manages the TOML config for fstspell tools.

The file has three sections:

	[speller]  search limits passed to every suggestion request
	[server]   IPC server options
	[cli]      interactive checker options

Optional speller limits (max_weight, n_best, beam) use a negative value to
mean "no limit", since TOML has no null.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/fstspell/internal/utils"
	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/charmbracelet/log"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Speller SpellerConfig `toml:"speller"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// SpellerConfig holds search options.
type SpellerConfig struct {
	Archive            string  `toml:"archive"`
	MaxWeight          float64 `toml:"max_weight"`
	NBest              int     `toml:"n_best"`
	Beam               float64 `toml:"beam"`
	PoolStart          int     `toml:"pool_start"`
	PoolMax            int     `toml:"pool_max"`
	SeenNodeSampleRate int     `toml:"seen_node_sample_rate"`
	WithCaps           bool    `toml:"with_caps"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit      int  `toml:"max_limit"`
	MaxWordLength int  `toml:"max_word_length"`
	CacheSize     int  `toml:"cache_size"`
	EnableFilter  bool `toml:"enable_filter"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowWeights  bool `toml:"show_weights"`
	ShowCorrect  bool `toml:"show_correct"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/fstspell
// 2. ~/Library/Application Support/fstspell (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/fstspell/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	sc := speller.DefaultConfig()
	return &Config{
		Speller: SpellerConfig{
			MaxWeight:          float64(*sc.MaxWeight),
			NBest:              *sc.NBest,
			Beam:               -1,
			PoolStart:          sc.PoolStart,
			PoolMax:            sc.PoolMax,
			SeenNodeSampleRate: int(sc.SeenNodeSampleRate),
			WithCaps:           sc.WithCaps,
		},
		Server: ServerConfig{
			MaxLimit:      64,
			MaxWordLength: 64,
			CacheSize:     4096,
			EnableFilter:  true,
		},
		CLI: CliConfig{
			DefaultLimit: 5,
			ShowWeights:  false,
			ShowCorrect:  false,
		},
	}
}

// ToSpellerConfig converts the [speller] section into a search config.
func (s SpellerConfig) ToSpellerConfig() speller.Config {
	cfg := speller.DefaultConfig().WithoutLimits()
	if s.MaxWeight >= 0 {
		cfg = cfg.WithMaxWeight(transducer.Weight(s.MaxWeight))
	}
	if s.NBest >= 0 {
		cfg = cfg.WithNBest(s.NBest)
	}
	if s.Beam >= 0 {
		cfg = cfg.WithBeam(transducer.Weight(s.Beam))
	}
	return cfg.
		WithPool(max(s.PoolStart, 0), max(s.PoolMax, 0)).
		WithSampleRate(uint32(max(s.SeenNodeSampleRate, 0))).
		WithCaseHandling(s.WithCaps)
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that fails to decode is salvaged
// section by section; keys that cannot be read keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "speller"); ok {
		extractSpellerConfig(section, &config.Speller)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractSpellerConfig(data map[string]any, sp *SpellerConfig) {
	if val, ok := utils.ExtractString(data, "archive"); ok {
		sp.Archive = val
	}
	if val, ok := utils.ExtractFloat(data, "max_weight"); ok {
		sp.MaxWeight = val
	}
	if val, ok := utils.ExtractInt64(data, "n_best"); ok {
		sp.NBest = val
	}
	if val, ok := utils.ExtractFloat(data, "beam"); ok {
		sp.Beam = val
	}
	if val, ok := utils.ExtractInt64(data, "pool_start"); ok {
		sp.PoolStart = val
	}
	if val, ok := utils.ExtractInt64(data, "pool_max"); ok {
		sp.PoolMax = val
	}
	if val, ok := utils.ExtractInt64(data, "seen_node_sample_rate"); ok {
		sp.SeenNodeSampleRate = val
	}
	if val, ok := utils.ExtractBool(data, "with_caps"); ok {
		sp.WithCaps = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_weights"); ok {
		cli.ShowWeights = val
	}
	if val, ok := utils.ExtractBool(data, "show_correct"); ok {
		cli.ShowCorrect = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the speller limits and saves to file. Nil arguments keep
// the current value; negative values clear a limit.
func (c *Config) Update(configPath string, nBest *int, maxWeight, beam *float64, withCaps *bool) error {
	sp := &c.Speller
	if nBest != nil {
		sp.NBest = *nBest
	}
	if maxWeight != nil {
		sp.MaxWeight = *maxWeight
	}
	if beam != nil {
		sp.Beam = *beam
	}
	if withCaps != nil {
		sp.WithCaps = *withCaps
	}
	return SaveConfig(c, configPath)
}
