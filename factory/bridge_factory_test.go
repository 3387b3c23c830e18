package factory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/qbridge"
	"github.com/opd-ai/qbridge/limits"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const line3 = `name: line3
num_qubits: 3
edges:
  - {control: 0, target: 1, error: 0.010}
  - {control: 1, target: 0, error: 0.030}
  - {control: 1, target: 2, error: 0.012}
single_qubit_errors: [0.001, 0.001, 0.002]
`

func writeBackend(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "line3.yaml")
	require.NoError(t, os.WriteFile(path, []byte(line3), 0o600))
	return path
}

// clearEnv unsets every QBRIDGE_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvMaxQubits, EnvBackendFile, EnvLogLevel, EnvMetrics} {
		t.Setenv(key, "")
	}
}

func keepLogLevel(t *testing.T) {
	t.Helper()
	level := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(level) })
}

// TestNewBridgeFactory verifies default factory creation
func TestNewBridgeFactory(t *testing.T) {
	clearEnv(t)

	factory := NewBridgeFactoryWithRegisterer(prometheus.NewRegistry())
	if factory == nil {
		t.Fatal("NewBridgeFactory returned nil")
	}

	config := factory.GetCurrentConfig()
	assert.Equal(t, limits.DefaultMaxQubits, config.MaxQubits)
	assert.Empty(t, config.BackendFile)
	assert.Equal(t, DefaultLogLevel, config.LogLevel)
	assert.True(t, config.Metrics)
}

// TestEnvironmentVariableParsing verifies environment variable handling
func TestEnvironmentVariableParsing(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(*Config) bool
	}{
		{"valid_max_qubits", EnvMaxQubits, "128", func(c *Config) bool { return c.MaxQubits == 128 }},
		{"max_qubits_upper_bound", EnvMaxQubits, "4096", func(c *Config) bool { return c.MaxQubits == 4096 }},
		{"max_qubits_too_large", EnvMaxQubits, "4097", func(c *Config) bool { return c.MaxQubits == limits.DefaultMaxQubits }},
		{"max_qubits_zero", EnvMaxQubits, "0", func(c *Config) bool { return c.MaxQubits == limits.DefaultMaxQubits }},
		{"max_qubits_garbage", EnvMaxQubits, "many", func(c *Config) bool { return c.MaxQubits == limits.DefaultMaxQubits }},
		{"backend_file", EnvBackendFile, "/etc/qbridge/device.yaml", func(c *Config) bool { return c.BackendFile == "/etc/qbridge/device.yaml" }},
		{"valid_log_level", EnvLogLevel, "debug", func(c *Config) bool { return c.LogLevel == "debug" }},
		{"invalid_log_level", EnvLogLevel, "loud", func(c *Config) bool { return c.LogLevel == DefaultLogLevel }},
		{"metrics_off", EnvMetrics, "false", func(c *Config) bool { return !c.Metrics }},
		{"metrics_garbage", EnvMetrics, "maybe", func(c *Config) bool { return c.Metrics }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.envKey, tt.envValue)

			config := createDefaultConfig()
			applyEnvironmentOverrides(config)
			if !tt.check(config) {
				t.Errorf("%s=%q produced unexpected config %+v", tt.envKey, tt.envValue, *config)
			}
		})
	}
}

func TestCreateBridgeFromEnvironment(t *testing.T) {
	clearEnv(t)
	keepLogLevel(t)
	t.Setenv(EnvMaxQubits, "3")
	t.Setenv(EnvBackendFile, writeBackend(t))
	t.Setenv(EnvLogLevel, "error")

	reg := prometheus.NewRegistry()
	factory := NewBridgeFactoryWithRegisterer(reg)
	b, err := factory.CreateBridge()
	require.NoError(t, err)

	assert.Equal(t, 3, b.MaxQubits())
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())

	_, status := b.CreateCircuit(4)
	assert.Equal(t, qbridge.StatusInvalidArgument, status)

	h, status := b.CreateCircuit(3)
	require.Equal(t, qbridge.StatusOK, status)
	// 0 and 2 are not coupled on line3
	require.Equal(t, qbridge.StatusOK, b.AddCNOT(h, 0, 2))
	require.Equal(t, qbridge.StatusOK, b.ApplyAdvancedPass(h))
	ops, _ := b.CircuitOps(h)
	assert.Greater(t, len(ops), 1, "routing should insert swaps")
	assert.Equal(t, qbridge.StatusOK, b.FreeCircuit(h))

	n, err := testutil.GatherAndCount(reg, "qbridge_calls_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestCreateBridgeSharesMetrics(t *testing.T) {
	clearEnv(t)
	keepLogLevel(t)

	reg := prometheus.NewRegistry()
	factory := NewBridgeFactoryWithRegisterer(reg)

	first, err := factory.CreateBridge()
	require.NoError(t, err)
	second, err := factory.CreateBridge()
	require.NoError(t, err, "a second bridge must not fail on duplicate registration")

	h1, _ := first.CreateCircuit(1)
	h2, _ := second.CreateCircuit(1)
	first.FreeCircuit(h1)
	second.FreeCircuit(h2)

	n, err := testutil.GatherAndCount(reg, "qbridge_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "create_circuit/ok and free_circuit/ok")
}

func TestCreateBridgeErrors(t *testing.T) {
	clearEnv(t)
	factory := NewBridgeFactoryWithRegisterer(prometheus.NewRegistry())

	_, err := factory.CreateBridgeWithConfig(&Config{MaxQubits: 0})
	assert.ErrorIs(t, err, limits.ErrQubitCount)

	_, err = factory.CreateBridgeWithConfig(&Config{MaxQubits: 8, LogLevel: "shouting"})
	assert.Error(t, err)

	_, err = factory.CreateBridgeWithConfig(&Config{MaxQubits: 8, BackendFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestCreateBridgeForTesting(t *testing.T) {
	keepLogLevel(t)
	factory := NewBridgeFactoryWithRegisterer(prometheus.NewRegistry())

	b, m, err := factory.CreateBridgeForTesting(
		WithMaxQubits(5),
		WithBackendFile(writeBackend(t)),
		WithLogLevel("panic"),
	)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 5, b.MaxQubits())
	assert.Equal(t, logrus.PanicLevel, logrus.GetLevel())

	h, _ := b.CreateCircuit(2)
	assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(`
# HELP qbridge_calls_total Boundary calls by operation and resulting status.
# TYPE qbridge_calls_total counter
qbridge_calls_total{operation="create_circuit",status="ok"} 1
`), "qbridge_calls_total"))
	b.FreeCircuit(h)

	_, _, err = factory.CreateBridgeForTesting(WithMaxQubits(limits.MaxQubits + 1))
	assert.Error(t, err)
}

func TestUpdateConfig(t *testing.T) {
	clearEnv(t)
	factory := NewBridgeFactoryWithRegisterer(prometheus.NewRegistry())

	if err := factory.UpdateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if err := factory.UpdateConfig(&Config{MaxQubits: -1}); err == nil {
		t.Error("expected error for negative MaxQubits")
	}

	update := &Config{MaxQubits: 16, Metrics: false}
	require.NoError(t, factory.UpdateConfig(update))
	update.MaxQubits = 99

	config := factory.GetCurrentConfig()
	assert.Equal(t, 16, config.MaxQubits, "factory must keep its own copy")
	assert.False(t, config.Metrics)

	config.MaxQubits = 1
	assert.Equal(t, 16, factory.GetCurrentConfig().MaxQubits, "GetCurrentConfig must return a copy")

	b, err := factory.CreateBridge()
	require.NoError(t, err)
	assert.Equal(t, 16, b.MaxQubits())
}
