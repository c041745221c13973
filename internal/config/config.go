// Package config loads the idf configuration and installs the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census  CensusConfig  `yaml:"census" mapstructure:"census"`
	Spatial SpatialConfig `yaml:"spatial" mapstructure:"spatial"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`

	v *viper.Viper
}

// CensusConfig locates the raw INSEE person extract.
type CensusConfig struct {
	RawPath    string `yaml:"raw_path" mapstructure:"raw_path"`
	SourceURL  string `yaml:"source_url" mapstructure:"source_url"`
	Delimiter  string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding   string `yaml:"encoding" mapstructure:"encoding"`
	ZipPattern string `yaml:"zip_pattern" mapstructure:"zip_pattern"`
}

// SpatialConfig locates the IRIS reference and the départements to keep.
type SpatialConfig struct {
	CodesPath    string   `yaml:"codes_path" mapstructure:"codes_path"`
	SourceURL    string   `yaml:"source_url" mapstructure:"source_url"`
	Format       string   `yaml:"format" mapstructure:"format"`
	Sheet        string   `yaml:"sheet" mapstructure:"sheet"`
	Delimiter    string   `yaml:"delimiter" mapstructure:"delimiter"`
	Departements []string `yaml:"departements" mapstructure:"departements"`
}

// OutputConfig configures the written CSV files.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// StoreConfig configures the database backend. Driver is none, sqlite or postgres.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures downloads of the source files.
type FetchConfig struct {
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// MetricsConfig configures the Prometheus textfile written after a run.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" mapstructure:"textfile_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml (optional) and IDF_* environment
// variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path, or from ./config.yaml when path is
// empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("IDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("census.raw_path", "")
	v.SetDefault("census.delimiter", ";")
	v.SetDefault("census.encoding", "")
	v.SetDefault("census.zip_pattern", "FD_INDCVI_*.csv")
	v.SetDefault("census.source_url", "https://www.insee.fr/fr/statistiques/fichier/3625223/RP2015_INDCVIZA_csv.zip")
	v.SetDefault("spatial.source_url", "https://www.insee.fr/fr/statistiques/fichier/2017499/reference_IRIS_geo2017.zip")
	v.SetDefault("spatial.codes_path", "")
	v.SetDefault("spatial.format", "")
	v.SetDefault("spatial.sheet", "")
	v.SetDefault("spatial.delimiter", ";")
	v.SetDefault("spatial.departements", []string{"75", "77", "78", "91", "92", "93", "94", "95"})
	v.SetDefault("output.path", "")
	v.SetDefault("output.prefix", "ile_de_france_")
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("metrics.textfile_path", "")
	v.SetDefault("fetch.temp_dir", "/tmp/idf")
	v.SetDefault("fetch.user_agent", "idf/1.0")
	v.SetDefault("fetch.timeout_secs", 300)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	cfg := Config{v: v}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Viper returns the underlying settings, keyed by dotted path ("output.path").
// Pipeline stages read their configuration through it.
func (c *Config) Viper() *viper.Viper {
	if c.v == nil {
		c.v = viper.New()
	}
	return c.v
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", "none", "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q (valid: none, sqlite, postgres)", c.Store.Driver)
	}
	if (c.Store.Driver == "sqlite" || c.Store.Driver == "postgres") && c.Store.DatabaseURL == "" {
		return eris.Errorf("config: store.database_url is required for driver %s", c.Store.Driver)
	}
	switch c.Spatial.Format {
	case "", "xlsx", "csv", "shp":
	default:
		return eris.Errorf("config: unknown spatial format %q (valid: xlsx, csv, shp)", c.Spatial.Format)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
