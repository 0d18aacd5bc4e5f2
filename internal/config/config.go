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
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Oracle    OracleConfig    `yaml:"oracle" mapstructure:"oracle"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// CrawlConfig configures the crawl phase.
type CrawlConfig struct {
	Workers     int `yaml:"workers" mapstructure:"workers"`
	BatchSize   int `yaml:"batch_size" mapstructure:"batch_size"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OracleConfig configures the extraction phase.
type OracleConfig struct {
	Model               string `yaml:"model" mapstructure:"model"`
	MaxDocumentChars    int    `yaml:"max_document_chars" mapstructure:"max_document_chars"`
	RequestIntervalSecs int    `yaml:"request_interval_secs" mapstructure:"request_interval_secs"`
}

// OutputConfig configures where artifacts and summaries land.
type OutputConfig struct {
	ArtifactDir string `yaml:"artifact_dir" mapstructure:"artifact_dir"`
	SummaryPath string `yaml:"summary_path" mapstructure:"summary_path"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. anthropic.key must be registered here even though it has no
	// real default: AutomaticEnv only surfaces keys viper already knows about,
	// so without it CLINIC_ANTHROPIC_KEY would never reach Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawl.workers", 4)
	v.SetDefault("crawl.batch_size", 10)
	v.SetDefault("crawl.timeout_secs", 30)
	v.SetDefault("oracle.model", "claude-haiku-4-5-20251001")
	v.SetDefault("oracle.max_document_chars", 80000)
	v.SetDefault("oracle.request_interval_secs", 4)
	v.SetDefault("output.artifact_dir", "scraped_data")
	v.SetDefault("output.summary_path", "run_summary.yaml")
	v.SetDefault("store.path", "clinic-enrich.db")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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
