package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Trainer TrainerConfig `mapstructure:"trainer"`
	Planner PlannerConfig `mapstructure:"planner"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TrainerConfig holds the evolutionary training loop settings
type TrainerConfig struct {
	Agents            int      `mapstructure:"agents"`
	Layers            []int    `mapstructure:"layers"`
	Activations       []string `mapstructure:"activations"`
	Encoding          string   `mapstructure:"encoding"`
	Rounds            int      `mapstructure:"rounds"`
	MaxSteps          int      `mapstructure:"max_steps"`
	Generations       int      `mapstructure:"generations"`
	KeepProportion    float64  `mapstructure:"keep_proportion"`
	MutationRate      float64  `mapstructure:"mutation_rate"`
	MutationMagnitude float64  `mapstructure:"mutation_magnitude"`
	ReportEvery       int      `mapstructure:"report_every"`
	Workers           int      `mapstructure:"workers"`
	Seed              int64    `mapstructure:"seed"`
	RunID             string   `mapstructure:"run_id"`
	SaveBest          string   `mapstructure:"save_best"`
}

// PlannerConfig holds rollout planner settings
type PlannerConfig struct {
	SearchesPerMove int `mapstructure:"searches_per_move"`
	Depth           int `mapstructure:"depth"`
	Workers         int `mapstructure:"workers"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Planner PlannerServerConfig `mapstructure:"planner"`
}

// PlannerServerConfig holds gRPC planner server configuration
type PlannerServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window           WindowConfig `mapstructure:"window"`
	TileSize         int          `mapstructure:"tile_size"`
	AutoplayInterval int          `mapstructure:"autoplay_interval"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Trainer defaults
	v.SetDefault("trainer.agents", 1000)
	v.SetDefault("trainer.layers", []int{16, 12, 8, 4})
	v.SetDefault("trainer.activations", []string{"relu", "relu", "relu"})
	v.SetDefault("trainer.encoding", "exponents")
	v.SetDefault("trainer.rounds", 100)
	v.SetDefault("trainer.max_steps", 10000)
	v.SetDefault("trainer.generations", 10000)
	v.SetDefault("trainer.keep_proportion", 0.05)
	v.SetDefault("trainer.mutation_rate", 0.1)
	v.SetDefault("trainer.mutation_magnitude", 0.1)
	v.SetDefault("trainer.report_every", 10)
	v.SetDefault("trainer.workers", 0)
	v.SetDefault("trainer.seed", 0)
	v.SetDefault("trainer.run_id", "")
	v.SetDefault("trainer.save_best", "best")

	// Planner defaults
	v.SetDefault("planner.searches_per_move", 200)
	v.SetDefault("planner.depth", 20)
	v.SetDefault("planner.workers", 4)

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "data")

	// gRPC planner server defaults
	v.SetDefault("server.planner.host", "0.0.0.0")
	v.SetDefault("server.planner.port", 50052)
	v.SetDefault("server.planner.log_level", "info")
	v.SetDefault("server.planner.enable_reflection", true)
	v.SetDefault("server.planner.graceful_shutdown_delay", 5)

	// UI defaults
	v.SetDefault("ui.window.width", 480)
	v.SetDefault("ui.window.height", 560)
	v.SetDefault("ui.window.title", "Evolve 2048")
	v.SetDefault("ui.tile_size", 100)
	v.SetDefault("ui.autoplay_interval", 6)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/evolve2048")
	}

	v.SetEnvPrefix("E2048")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange only runs
// when the reloaded config is valid; an invalid edit keeps the previous values.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}
