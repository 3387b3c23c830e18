package factory

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/opd-ai/qbridge"
	"github.com/opd-ai/qbridge/backend"
	"github.com/opd-ai/qbridge/limits"
	"github.com/opd-ai/qbridge/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Environment variables read by NewBridgeFactory.
const (
	EnvMaxQubits   = "QBRIDGE_MAX_QUBITS"
	EnvBackendFile = "QBRIDGE_BACKEND_FILE"
	EnvLogLevel    = "QBRIDGE_LOG_LEVEL"
	EnvMetrics     = "QBRIDGE_METRICS"
)

// DefaultLogLevel is the logrus level applied when QBRIDGE_LOG_LEVEL is unset.
const DefaultLogLevel = "warn"

// Config describes how a Bridge is built.
type Config struct {
	// MaxQubits bounds circuit width, in [1, limits.MaxQubits]
	MaxQubits int
	// BackendFile is a YAML backend description; empty means all-to-all
	BackendFile string
	// LogLevel is a logrus level name; empty leaves the level untouched
	LogLevel string
	// Metrics registers Prometheus collectors with the factory's registerer
	Metrics bool
}

func (c *Config) copy() *Config {
	cp := *c
	return &cp
}

// BridgeFactory creates bridges from configuration.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type BridgeFactory struct {
	mu            sync.RWMutex
	defaultConfig *Config
	registerer    prometheus.Registerer
	metrics       *telemetry.Metrics
}

// ConfigOption is a functional option for customizing test configuration.
type ConfigOption func(*Config)

// NewBridgeFactory creates a new factory with default configuration and
// environment overrides applied. Metrics register with the default
// Prometheus registerer.
func NewBridgeFactory() *BridgeFactory {
	return NewBridgeFactoryWithRegisterer(prometheus.DefaultRegisterer)
}

// NewBridgeFactoryWithRegisterer is NewBridgeFactory with a chosen registerer.
func NewBridgeFactoryWithRegisterer(reg prometheus.Registerer) *BridgeFactory {
	defaultConfig := createDefaultConfig()
	applyEnvironmentOverrides(defaultConfig)
	logConfigurationInfo(defaultConfig)

	return &BridgeFactory{
		defaultConfig: defaultConfig,
		registerer:    reg,
	}
}

// createDefaultConfig initializes the default bridge configuration.
//
// Default Value Rationale:
//   - MaxQubits: 64 - comfortably wider than any circuit built by hand through the C surface
//   - BackendFile: none - an ideal all-to-all device needs no routing
//   - LogLevel: warn - caller mistakes are visible, per-call chatter is not
//   - Metrics: true - collectors are cheap and the host process decides whether to expose them
func createDefaultConfig() *Config {
	return &Config{
		MaxQubits: limits.DefaultMaxQubits,
		LogLevel:  DefaultLogLevel,
		Metrics:   true,
	}
}

// applyEnvironmentOverrides updates configuration based on QBRIDGE_* environment variables.
func applyEnvironmentOverrides(config *Config) {
	parseMaxQubitsSetting(config)
	parseBackendFileSetting(config)
	parseLogLevelSetting(config)
	parseMetricsSetting(config)
}

// parseMaxQubitsSetting updates MaxQubits from QBRIDGE_MAX_QUBITS. Values
// that fail to parse or fall outside [1, limits.MaxQubits] are logged and ignored.
func parseMaxQubitsSetting(config *Config) {
	maxStr := os.Getenv(EnvMaxQubits)
	if maxStr == "" {
		return
	}
	maxQubits, err := strconv.Atoi(maxStr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseMaxQubitsSetting",
			"env_var":     EnvMaxQubits,
			"value":       maxStr,
			"error":       err.Error(),
			"using_value": config.MaxQubits,
		}).Warn("Failed to parse QBRIDGE_MAX_QUBITS environment variable, using default")
		return
	}
	if maxQubits < 1 || maxQubits > limits.MaxQubits {
		logrus.WithFields(logrus.Fields{
			"function":    "parseMaxQubitsSetting",
			"env_var":     EnvMaxQubits,
			"value":       maxQubits,
			"min":         1,
			"max":         limits.MaxQubits,
			"using_value": config.MaxQubits,
		}).Warn("QBRIDGE_MAX_QUBITS value out of bounds, using default")
		return
	}
	config.MaxQubits = maxQubits
}

// parseBackendFileSetting updates BackendFile from QBRIDGE_BACKEND_FILE. The
// file is only read when a bridge is created.
func parseBackendFileSetting(config *Config) {
	if path := os.Getenv(EnvBackendFile); path != "" {
		config.BackendFile = path
	}
}

// parseLogLevelSetting updates LogLevel from QBRIDGE_LOG_LEVEL when it names a logrus level.
func parseLogLevelSetting(config *Config) {
	levelStr := os.Getenv(EnvLogLevel)
	if levelStr == "" {
		return
	}
	if _, err := logrus.ParseLevel(levelStr); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseLogLevelSetting",
			"env_var":     EnvLogLevel,
			"value":       levelStr,
			"error":       err.Error(),
			"using_value": config.LogLevel,
		}).Warn("Failed to parse QBRIDGE_LOG_LEVEL environment variable, using default")
		return
	}
	config.LogLevel = levelStr
}

// parseMetricsSetting updates Metrics from QBRIDGE_METRICS.
func parseMetricsSetting(config *Config) {
	metricsStr := os.Getenv(EnvMetrics)
	if metricsStr == "" {
		return
	}
	enabled, err := strconv.ParseBool(metricsStr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseMetricsSetting",
			"env_var":     EnvMetrics,
			"value":       metricsStr,
			"error":       err.Error(),
			"using_value": config.Metrics,
		}).Warn("Failed to parse QBRIDGE_METRICS environment variable, using default")
		return
	}
	config.Metrics = enabled
}

func logConfigurationInfo(config *Config) {
	logrus.WithFields(logrus.Fields{
		"function":     "NewBridgeFactory",
		"max_qubits":   config.MaxQubits,
		"backend_file": config.BackendFile,
		"log_level":    config.LogLevel,
		"metrics":      config.Metrics,
	}).Info("Created bridge factory with configuration")
}

// validateConfig rejects configurations no bridge can be built from.
func validateConfig(config *Config) error {
	if config.MaxQubits < 1 || config.MaxQubits > limits.MaxQubits {
		return fmt.Errorf("%w: MaxQubits %d not in [1, %d]", limits.ErrQubitCount, config.MaxQubits, limits.MaxQubits)
	}
	if config.LogLevel != "" {
		if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	return nil
}

// CreateBridge creates a bridge from the factory's current configuration.
func (f *BridgeFactory) CreateBridge() (*qbridge.Bridge, error) {
	return f.CreateBridgeWithConfig(nil)
}

// CreateBridgeWithConfig creates a bridge from config, or from the factory's
// configuration when config is nil. A non-empty LogLevel sets the process-wide
// logrus level.
func (f *BridgeFactory) CreateBridgeWithConfig(config *Config) (*qbridge.Bridge, error) {
	if config == nil {
		f.mu.RLock()
		config = f.defaultConfig.copy()
		f.mu.RUnlock()
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CreateBridgeWithConfig",
		"max_qubits":   config.MaxQubits,
		"backend_file": config.BackendFile,
		"log_level":    config.LogLevel,
		"metrics":      config.Metrics,
	}).Info("Creating circuit bridge")

	if config.LogLevel != "" {
		level, _ := logrus.ParseLevel(config.LogLevel)
		logrus.SetLevel(level)
	}

	opts := qbridge.NewOptions()
	opts.MaxQubits = config.MaxQubits

	if config.BackendFile != "" {
		target, err := backend.Load(config.BackendFile)
		if err != nil {
			return nil, err
		}
		opts.Backend = target
	}

	if config.Metrics {
		m, err := f.sharedMetrics()
		if err != nil {
			return nil, err
		}
		opts.Metrics = m
	}

	return qbridge.New(opts)
}

// sharedMetrics registers the collectors once per factory so that several
// bridges can report into the same registry.
func (f *BridgeFactory) sharedMetrics() (*telemetry.Metrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.metrics != nil {
		return f.metrics, nil
	}
	m, err := telemetry.NewMetrics(f.registerer)
	if err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			logrus.WithFields(logrus.Fields{
				"function": "sharedMetrics",
				"error":    err.Error(),
			}).Warn("Collectors already registered, bridge metrics left unexported")
			return telemetry.NewMetrics(nil)
		}
		return nil, err
	}
	f.metrics = m
	return m, nil
}

// WithMaxQubits sets the width limit for the test configuration.
func WithMaxQubits(n int) ConfigOption {
	return func(c *Config) {
		c.MaxQubits = n
	}
}

// WithBackendFile sets the backend description for the test configuration.
func WithBackendFile(path string) ConfigOption {
	return func(c *Config) {
		c.BackendFile = path
	}
}

// WithLogLevel sets the log level for the test configuration.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// CreateBridgeForTesting creates a bridge for tests. It ignores the
// environment, leaves the log level alone and attaches unregistered metrics,
// so parallel tests never collide on a registry.
func (f *BridgeFactory) CreateBridgeForTesting(opts ...ConfigOption) (*qbridge.Bridge, *telemetry.Metrics, error) {
	testConfig := &Config{
		MaxQubits: limits.DefaultMaxQubits,
	}
	for _, opt := range opts {
		opt(testConfig)
	}
	if err := validateConfig(testConfig); err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CreateBridgeForTesting",
		"max_qubits":   testConfig.MaxQubits,
		"backend_file": testConfig.BackendFile,
	}).Info("Creating circuit bridge for testing")

	if testConfig.LogLevel != "" {
		level, _ := logrus.ParseLevel(testConfig.LogLevel)
		logrus.SetLevel(level)
	}

	m, err := telemetry.NewMetrics(nil)
	if err != nil {
		return nil, nil, err
	}
	bridgeOpts := &qbridge.Options{MaxQubits: testConfig.MaxQubits, Metrics: m}
	if testConfig.BackendFile != "" {
		target, err := backend.Load(testConfig.BackendFile)
		if err != nil {
			return nil, nil, err
		}
		bridgeOpts.Backend = target
	}

	b, err := qbridge.New(bridgeOpts)
	if err != nil {
		return nil, nil, err
	}
	return b, m, nil
}

// GetCurrentConfig returns a copy of the current default configuration
func (f *BridgeFactory) GetCurrentConfig() *Config {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.defaultConfig.copy()
}

// UpdateConfig validates and replaces the factory's default configuration
func (f *BridgeFactory) UpdateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := validateConfig(config); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_max_qubits": f.defaultConfig.MaxQubits,
		"new_max_qubits": config.MaxQubits,
		"old_backend":    f.defaultConfig.BackendFile,
		"new_backend":    config.BackendFile,
	}).Info("Updating factory configuration")

	f.defaultConfig = config.copy()
	return nil
}
