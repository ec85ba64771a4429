package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/max8938/FinalCallATC/internal/shm"
)

// EnvConfigPath names the variable the host shim reads the config path from.
const EnvConfigPath = "AF4BRIDGE_CONFIG"

var ErrInvalidConfig = errors.New("config: invalid bridge config")

// Bridge configures one bridge instance and its optional admin surface.
type Bridge struct {
	ChannelName    string        `env:"AF4BRIDGE_CHANNEL_NAME"`
	ChannelDir     string        `env:"AF4BRIDGE_CHANNEL_DIR"`
	Capacity       int           `env:"AF4BRIDGE_CAPACITY"`
	MemoryChannel  bool          `env:"AF4BRIDGE_MEMORY_CHANNEL"`
	CatalogPath    string        `env:"AF4BRIDGE_CATALOG"`
	AdminAddr      string        `env:"AF4BRIDGE_ADMIN_ADDR"`
	CorsOrigins    []string      `env:"AF4BRIDGE_CORS_ORIGINS" envSeparator:","`
	LogLevel       string        `env:"AF4BRIDGE_LOG_LEVEL"`
	LogInterval    time.Duration `env:"AF4BRIDGE_LOG_INTERVAL"`
	ReaderAttempts int           `env:"AF4BRIDGE_READER_ATTEMPTS"`
}

// DefaultBridge matches what the simulator expects: the legacy channel
// name and size, the embedded catalog, and no admin server.
func DefaultBridge() Bridge {
	return Bridge{
		ChannelName:    shm.DefaultName,
		Capacity:       shm.DefaultCapacity,
		LogLevel:       "info",
		LogInterval:    5 * time.Second,
		ReaderAttempts: shm.DefaultReadAttempts,
	}
}

type fileConfig struct {
	ChannelName    string   `toml:"channel_name"`
	ChannelDir     string   `toml:"channel_dir"`
	Capacity       int      `toml:"capacity"`
	MemoryChannel  bool     `toml:"memory_channel"`
	CatalogPath    string   `toml:"catalog"`
	AdminAddr      string   `toml:"admin_addr"`
	CorsOrigins    []string `toml:"cors_origins"`
	LogLevel       string   `toml:"log_level"`
	LogInterval    string   `toml:"log_interval"`
	ReaderAttempts int      `toml:"reader_attempts"`
}

// LoadBridge layers the file at path (optional when empty) and then the
// AF4BRIDGE_* environment over the defaults.
func LoadBridge(path string) (Bridge, error) {
	cfg := DefaultBridge()
	if strings.TrimSpace(path) != "" {
		var err error
		if cfg, err = applyFile(cfg, path); err != nil {
			return Bridge{}, err
		}
	}
	if err := parseEnv(&cfg); err != nil {
		return Bridge{}, err
	}
	cfg.CorsOrigins = normalizeOrigins(cfg.CorsOrigins)
	if err := ValidateBridge(cfg); err != nil {
		return Bridge{}, err
	}
	return cfg, nil
}

func applyFile(cfg Bridge, path string) (Bridge, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Bridge{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Bridge{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}

	if meta.IsDefined("channel_name") {
		cfg.ChannelName = strings.TrimSpace(raw.ChannelName)
	}
	if meta.IsDefined("channel_dir") {
		cfg.ChannelDir = strings.TrimSpace(raw.ChannelDir)
	}
	if meta.IsDefined("capacity") {
		cfg.Capacity = raw.Capacity
	}
	if meta.IsDefined("memory_channel") {
		cfg.MemoryChannel = raw.MemoryChannel
	}
	if meta.IsDefined("catalog") {
		cfg.CatalogPath = strings.TrimSpace(raw.CatalogPath)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.LogInterval))
		if err != nil {
			return Bridge{}, fmt.Errorf("parse log_interval: %w", err)
		}
		cfg.LogInterval = d
	}
	if meta.IsDefined("reader_attempts") {
		cfg.ReaderAttempts = raw.ReaderAttempts
	}
	return cfg, nil
}

func ValidateBridge(cfg Bridge) error {
	if strings.TrimSpace(cfg.ChannelName) == "" {
		return fmt.Errorf("%w: channel_name is required", ErrInvalidConfig)
	}
	if cfg.Capacity < shm.MinCapacity || cfg.Capacity > shm.MaxCapacity {
		return fmt.Errorf("%w: capacity %d outside [%d, %d]", ErrInvalidConfig, cfg.Capacity, shm.MinCapacity, shm.MaxCapacity)
	}
	if cfg.Capacity%8 != 0 {
		return fmt.Errorf("%w: capacity %d is not a multiple of 8", ErrInvalidConfig, cfg.Capacity)
	}
	if cfg.ReaderAttempts < 1 {
		return fmt.Errorf("%w: reader_attempts must be at least 1", ErrInvalidConfig)
	}
	if cfg.LogInterval < 0 {
		return fmt.Errorf("%w: log_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
