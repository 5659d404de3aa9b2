package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
trainer:
  agents: 200
  layers: [16, 32, 4]
  activations: [tanh, none]
  keep_proportion: 0.1
planner:
  searches_per_move: 50
storage:
  backend: sqlite
  path: runs.db
server:
  planner:
    port: 8080
ui:
  window:
    width: 640
    height: 720
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	reset()
	err = Init(configFile)
	require.NoError(t, err)

	// Test loaded values
	c := Get()
	assert.Equal(t, 200, c.Trainer.Agents)
	assert.Equal(t, []int{16, 32, 4}, c.Trainer.Layers)
	assert.Equal(t, []string{"tanh", "none"}, c.Trainer.Activations)
	assert.Equal(t, 0.1, c.Trainer.KeepProportion)
	assert.Equal(t, 50, c.Planner.SearchesPerMove)
	assert.Equal(t, "sqlite", c.Storage.Backend)
	assert.Equal(t, "runs.db", c.Storage.Path)
	assert.Equal(t, 8080, c.Server.Planner.Port)
	assert.Equal(t, 640, c.UI.Window.Width)
	assert.Equal(t, 720, c.UI.Window.Height)
	assert.Equal(t, configFile, ConfigFilePath())

	// Untouched keys keep their defaults
	assert.Equal(t, 100, c.Trainer.Rounds)
	assert.Equal(t, 20, c.Planner.Depth)
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	// Initialize with non-existent config (should use defaults)
	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 1000, c.Trainer.Agents)
	assert.Equal(t, []int{16, 12, 8, 4}, c.Trainer.Layers)
	assert.Equal(t, []string{"relu", "relu", "relu"}, c.Trainer.Activations)
	assert.Equal(t, "exponents", c.Trainer.Encoding)
	assert.Equal(t, 10000, c.Trainer.MaxSteps)
	assert.Equal(t, 0.05, c.Trainer.KeepProportion)
	assert.Equal(t, 0.1, c.Trainer.MutationRate)
	assert.Equal(t, 0.1, c.Trainer.MutationMagnitude)
	assert.Equal(t, 200, c.Planner.SearchesPerMove)
	assert.Equal(t, 20, c.Planner.Depth)
	assert.Equal(t, "file", c.Storage.Backend)
	assert.Equal(t, 50052, c.Server.Planner.Port)
	assert.True(t, c.Server.Planner.EnableReflection)
	assert.Equal(t, "Evolve 2048", c.UI.Window.Title)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitMalformedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("trainer: [unclosed"), 0644))

	reset()
	assert.Error(t, Init(configFile))
}

func TestInitInvalidValues(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("trainer:\n  agents: 0\n"), 0644))

	reset()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trainer.agents")
}

func TestEnvironmentVariables(t *testing.T) {
	reset()

	t.Setenv("E2048_TRAINER_AGENTS", "64")
	t.Setenv("E2048_SERVER_PLANNER_PORT", "9090")
	t.Setenv("E2048_STORAGE_BACKEND", "memory")

	err := Init("")
	require.NoError(t, err)

	// Environment variables should override
	c := Get()
	assert.Equal(t, 64, c.Trainer.Agents)
	assert.Equal(t, 9090, c.Server.Planner.Port)
	assert.Equal(t, "memory", c.Storage.Backend)
}

func TestSet(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	Set("trainer.mutation_rate", 0.25)
	Set("ui.window.width", 1280)

	c := Get()
	assert.Equal(t, 0.25, c.Trainer.MutationRate)
	assert.Equal(t, 1280, c.UI.Window.Width)
}

func TestGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)
	Set("test.float", 3.14)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
	assert.Equal(t, "exponents", GetString("trainer.encoding"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
trainer:
  agents: 100
server:
  planner:
    port: 50052
`
	err := os.WriteFile(baseConfig, []byte(baseContent), 0644)
	require.NoError(t, err)

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
trainer:
  agents: 5000
server:
  planner:
    port: 8080
    log_level: "error"
`
	err = os.WriteFile(envConfig, []byte(envContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 5000, c.Trainer.Agents)             // Overridden
	assert.Equal(t, 8080, c.Server.Planner.Port)        // Overridden
	assert.Equal(t, "error", c.Server.Planner.LogLevel) // New value
	assert.Equal(t, 100, c.Trainer.Rounds)              // Default
	assert.NoError(t, LoadEnvironmentConfig(""), "empty env is a no-op")
}

func TestValidate(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	base := *Get()
	require.NoError(t, Validate(&base))

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no agents", func(c *Config) { c.Trainer.Agents = 0 }, "trainer.agents"},
		{"single layer", func(c *Config) { c.Trainer.Layers = []int{16} }, "trainer.layers"},
		{"zero width", func(c *Config) { c.Trainer.Layers = []int{16, 0, 4} }, "trainer.layers[1]"},
		{"activation count", func(c *Config) { c.Trainer.Activations = []string{"relu"} }, "trainer.activations"},
		{"unknown activation", func(c *Config) { c.Trainer.Activations = []string{"relu", "swish", "relu"} }, "trainer.activations"},
		{"unknown encoding", func(c *Config) { c.Trainer.Encoding = "pixels" }, "trainer.encoding"},
		{"input width", func(c *Config) { c.Trainer.Encoding = "one_hot" }, "trainer.layers[0]"},
		{"output width", func(c *Config) { c.Trainer.Layers = []int{16, 12, 8, 3} }, "4 outputs"},
		{"no rounds", func(c *Config) { c.Trainer.Rounds = 0 }, "trainer.rounds"},
		{"zero keep", func(c *Config) { c.Trainer.KeepProportion = 0 }, "keep_proportion"},
		{"keep above one", func(c *Config) { c.Trainer.KeepProportion = 1.5 }, "keep_proportion"},
		{"rate above one", func(c *Config) { c.Trainer.MutationRate = 2 }, "mutation_rate"},
		{"negative magnitude", func(c *Config) { c.Trainer.MutationMagnitude = -1 }, "mutation_magnitude"},
		{"no report interval", func(c *Config) { c.Trainer.ReportEvery = 0 }, "report_every"},
		{"negative workers", func(c *Config) { c.Trainer.Workers = -1 }, "trainer.workers"},
		{"no searches", func(c *Config) { c.Planner.SearchesPerMove = 0 }, "searches_per_move"},
		{"no depth", func(c *Config) { c.Planner.Depth = 0 }, "planner.depth"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"missing path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"port range", func(c *Config) { c.Server.Planner.Port = 70000 }, "server.planner.port"},
		{"log level", func(c *Config) { c.Server.Planner.LogLevel = "loud" }, "log_level"},
		{"window", func(c *Config) { c.UI.Window.Width = 0 }, "ui.window"},
		{"tile size", func(c *Config) { c.UI.TileSize = 0 }, "ui.tile_size"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Trainer.Layers = append([]int(nil), base.Trainer.Layers...)
			c.Trainer.Activations = append([]string(nil), base.Trainer.Activations...)
			tt.mutate(&c)
			err := Validate(&c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	memory := base
	memory.Storage = StorageConfig{Backend: "memory"}
	assert.NoError(t, Validate(&memory), "memory backend needs no path")
}
