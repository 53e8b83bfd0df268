package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	BrightData BrightDataConfig `yaml:"brightdata" mapstructure:"brightdata"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Draft      DraftConfig      `yaml:"draft" mapstructure:"draft"`
	LinkedIn   LinkedInConfig   `yaml:"linkedin" mapstructure:"linkedin"`
	Crawl      CrawlConfig      `yaml:"crawl" mapstructure:"crawl"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BrightDataConfig holds the search/scrape provider credentials.
type BrightDataConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Zone      string `yaml:"zone" mapstructure:"zone"`
	DatasetID string `yaml:"dataset_id" mapstructure:"dataset_id"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	SearchURL string `yaml:"search_url" mapstructure:"search_url"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	Model         string `yaml:"model" mapstructure:"model"`
	FallbackModel string `yaml:"fallback_model" mapstructure:"fallback_model"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	Model         string `yaml:"model" mapstructure:"model"`
	FallbackModel string `yaml:"fallback_model" mapstructure:"fallback_model"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
}

// DraftConfig selects the drafting provider and prompt defaults.
type DraftConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Tone     string `yaml:"tone" mapstructure:"tone"`
	MaxChars int    `yaml:"max_chars" mapstructure:"max_chars"`
}

// LinkedInConfig holds LinkedIn member API settings.
type LinkedInConfig struct {
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	MemberURN   string `yaml:"member_urn" mapstructure:"member_urn"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Visibility  string `yaml:"visibility" mapstructure:"visibility"`
}

// CrawlConfig configures the browser-like scraping session.
type CrawlConfig struct {
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envAliases maps config keys to the plain variable names used in .env files.
var envAliases = map[string][]string{
	"brightdata.key":        {"BRIGHTDATA_API_KEY"},
	"brightdata.zone":       {"BRIGHTDATA_API_ZONE"},
	"brightdata.dataset_id": {"BD_COMPANY_DATASET_ID"},
	"gemini.key":            {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"gemini.model":          {"GEMINI_MODEL"},
	"anthropic.key":         {"ANTHROPIC_API_KEY"},
	"linkedin.access_token": {"LINKEDIN_ACCESS_TOKEN"},
	"linkedin.member_urn":   {"LINKEDIN_MEMBER_URN"},
	"log.level":             {"LOG_LEVEL"},
}

const envPrefix = "PROSPECT"

// Load reads configuration from .env, an optional config.yaml, and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("brightdata.base_url", "https://api.brightdata.com")
	v.SetDefault("brightdata.search_url", "https://www.google.com/search")
	// The model switch only happens when gemini.model differs from
	// gemini.fallback_model.
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.fallback_model", "gemini-1.5-flash")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.fallback_model", "claude-haiku-4-5-20251001")
	v.SetDefault("draft.provider", "gemini")
	v.SetDefault("draft.tone", "professional, concise, engaging")
	v.SetDefault("draft.max_chars", 700)
	v.SetDefault("linkedin.base_url", "https://api.linkedin.com/v2")
	v.SetDefault("linkedin.visibility", "PUBLIC")
	v.SetDefault("crawl.requests_per_second", 0)
	v.SetDefault("crawl.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")

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

// Validate checks that the settings needed by the given command are present.
// Supported modes: "enrich", "contacts", "post".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "enrich":
		if c.BrightData.Key == "" {
			errs = append(errs, "brightdata.key is required (BRIGHTDATA_API_KEY)")
		}
		if c.BrightData.Zone == "" {
			errs = append(errs, "brightdata.zone is required (BRIGHTDATA_API_ZONE)")
		}
		if c.BrightData.DatasetID == "" {
			errs = append(errs, "brightdata.dataset_id is required (BD_COMPANY_DATASET_ID)")
		}
	case "contacts":
		// The crawler only needs the browser session defaults.
	case "post":
		switch c.Draft.Provider {
		case "gemini":
			if c.Gemini.Key == "" {
				errs = append(errs, "gemini.key is required (GEMINI_API_KEY or GOOGLE_API_KEY)")
			}
		case "anthropic":
			if c.Anthropic.Key == "" {
				errs = append(errs, "anthropic.key is required (ANTHROPIC_API_KEY)")
			}
		default:
			errs = append(errs, "draft.provider must be gemini or anthropic")
		}
		if c.LinkedIn.AccessToken == "" {
			errs = append(errs, "linkedin.access_token is required (LINKEDIN_ACCESS_TOKEN)")
		}
		if c.Draft.MaxChars <= 0 {
			errs = append(errs, "draft.max_chars must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
