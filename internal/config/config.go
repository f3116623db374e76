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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	PubMed   PubMedConfig   `yaml:"pubmed" mapstructure:"pubmed"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PubMedConfig holds NCBI E-utilities settings and the default topic query.
type PubMedConfig struct {
	BaseURL    string   `yaml:"base_url" mapstructure:"base_url"`
	Email      string   `yaml:"email" mapstructure:"email"`
	Tool       string   `yaml:"tool" mapstructure:"tool"`
	APIKey     string   `yaml:"api_key" mapstructure:"api_key"`
	BatchSize  int      `yaml:"batch_size" mapstructure:"batch_size"`
	MonthsBack int      `yaml:"months_back" mapstructure:"months_back"`
	MaxResults int      `yaml:"max_results" mapstructure:"max_results"`
	Keywords   []string `yaml:"keywords" mapstructure:"keywords"`
}

// ExtractConfig configures lead extraction.
type ExtractConfig struct {
	DataSource       string `yaml:"data_source" mapstructure:"data_source"`
	PlaceholderTitle string `yaml:"placeholder_title" mapstructure:"placeholder_title"`
}

// EnrichConfig configures contact-identifier generation.
type EnrichConfig struct {
	ProfileURLTemplate string `yaml:"profile_url_template" mapstructure:"profile_url_template"`
}

// ScoringConfig configures the propensity scorer.
//
// ReferenceYear anchors the "recent funding" and "recent publication"
// checks. Zero means the wall-clock year at scorer construction; a fixed
// value makes scoring reproducible across runs.
type ScoringConfig struct {
	ReferenceYear int    `yaml:"reference_year" mapstructure:"reference_year"`
	WeightsFile   string `yaml:"weights_file" mapstructure:"weights_file"`
}

// PipelineConfig configures pipeline execution.
type PipelineConfig struct {
	MaxConcurrentLeads int `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultKeywords is the default PubMed topic query for 3D in-vitro
// toxicology lead discovery.
var DefaultKeywords = []string{
	"Drug-Induced Liver Injury",
	"DILI",
	"3D cell culture",
	"hepatic spheroids",
	"organ-on-chip",
	"NAM models",
	"in vitro toxicology",
	"hepatotoxicity",
	"liver organoids",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("pubmed.email", "leads@example.com")
	v.SetDefault("pubmed.tool", "leadscout")
	v.SetDefault("pubmed.batch_size", 20)
	v.SetDefault("pubmed.months_back", 24)
	v.SetDefault("pubmed.max_results", 100)
	v.SetDefault("pubmed.keywords", DefaultKeywords)
	v.SetDefault("extract.data_source", "PubMed")
	v.SetDefault("extract.placeholder_title", "Research Scientist")
	v.SetDefault("enrich.profile_url_template", "https://www.linkedin.com/in/%s")
	v.SetDefault("scoring.reference_year", 0)
	v.SetDefault("pipeline.max_concurrent_leads", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks configuration invariants before a command runs.
func (c *Config) Validate() error {
	var problems []string

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	if c.PubMed.BatchSize < 1 || c.PubMed.BatchSize > 200 {
		problems = append(problems, "pubmed.batch_size must be between 1 and 200")
	}
	if c.Pipeline.MaxConcurrentLeads < 1 || c.Pipeline.MaxConcurrentLeads > 50 {
		problems = append(problems, "pipeline.max_concurrent_leads must be between 1 and 50")
	}
	if c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
