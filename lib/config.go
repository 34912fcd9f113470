package lib

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/units"
)

// FILE NAMES in the data directory
const ConfigFilePath = "config.json"

// Config is the structure of the user-controlled options for an smt process: the core tree
// package itself takes none of these, they only govern the surrounding store/metrics/CLI layers.
type Config struct {
	MainConfig    // logging options
	StoreConfig   // persistence options
	MetricsConfig // telemetry options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		StoreConfig:   DefaultStoreConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{LogLevel: "info"}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// STORE CONFIG BELOW

// StoreConfig is user configuration for the backing key-value database
type StoreConfig struct {
	DataDirPath  string        `json:"dataDirPath"`  // path of the designated folder where the application stores its data
	DBName       string        `json:"dbName"`       // name of the database
	InMemory     bool          `json:"inMemory"`      // non-disk database, only for testing
	CacheSize    units.Base2Bytes `json:"cacheSize"`  // badger in-memory block cache size
	MaxProofSize units.Base2Bytes `json:"maxProofSize"` // upper bound on the size of a single compiled proof, rejected above this at the store boundary
}

// DefaultDataDirPath() is $USERHOME/.smt
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".smt")
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DataDirPath:  DefaultDataDirPath(),
		DBName:       "smt",
		InMemory:     false,
		CacheSize:    64 * units.MiB,
		MaxProofSize: 1 * units.MiB,
	}
}

// METRICS CONFIG BELOW

// MetricsConfig represents the configuration for the prometheus metrics server
type MetricsConfig struct {
	Enabled           bool   `json:"enabled"`           // if the metrics server is enabled
	PrometheusAddress string `json:"prometheusAddress"` // the address the metrics server listens on
}

// DefaultMetricsConfig() returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:           true,
		PrometheusAddress: "0.0.0.0:9090",
	}
}

// WriteToFile() saves the Config object as indented JSON to the given path
func (c Config) WriteToFile(path string) ErrorI {
	bz, err := MarshalJSONIndent(c)
	if err != nil {
		return err
	}
	if e := os.WriteFile(path, bz, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return nil
}

// NewConfigFromFile() loads a Config from a JSON file at dataDirPath/config.json, falling back to
// defaults (persisted to disk) if the file does not yet exist.
func NewConfigFromFile(dataDirPath string) (c Config, err ErrorI) {
	path := filepath.Join(dataDirPath, ConfigFilePath)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		c = DefaultConfig()
		c.StoreConfig.DataDirPath = dataDirPath
		if mkErr := os.MkdirAll(dataDirPath, os.ModePerm); mkErr != nil {
			return c, ErrWriteFile(mkErr)
		}
		return c, c.WriteToFile(path)
	}
	err = NewJSONFromFile(&c, dataDirPath, ConfigFilePath)
	return
}
