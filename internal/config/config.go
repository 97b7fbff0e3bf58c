package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	// ReleaseClose closes the browser as soon as the run ends.
	ReleaseClose = "close"
	// ReleaseHold keeps the browser open until the process context is canceled.
	ReleaseHold = "hold"

	EnvPrefix = "FORMFILLER"
)

// providerKeyEnv maps a provider to the env var that conventionally carries its credential.
var providerKeyEnv = map[string]string{
	ProviderGemini: "GOOGLE_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
}

// providerDefaultModel is used when llm.model is left unset.
var providerDefaultModel = map[string]string{
	ProviderGemini: "gemini-2.0-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

// Config is built once per process and handed to every component explicitly.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color used for each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig selects and tunes the browser driver.
type BrowserConfig struct {
	Driver            string        `mapstructure:"driver" yaml:"driver"`
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserDataDir       string        `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	Args              []string      `mapstructure:"args" yaml:"args"`
}

// LLMConfig configures the action generator transport.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RunConfig holds per-invocation settings of the form-fill pipeline.
type RunConfig struct {
	DataFile     string `mapstructure:"data_file" yaml:"data_file"`
	ArtifactsDir string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
	Release      string `mapstructure:"release" yaml:"release"`
	DryRun       bool   `mapstructure:"dry_run" yaml:"dry_run"`
	Screenshot   bool   `mapstructure:"screenshot" yaml:"screenshot"`
	SavePrompt   bool   `mapstructure:"save_prompt" yaml:"save_prompt"`
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "form-filler")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.driver", DriverPlaywright)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_data_dir", ".playwright_data")
	v.SetDefault("browser.timeout", "60s")
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.args", []string{"--disable-blink-features=AutomationControlled"})

	// -- LLM --
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", "90s")

	// -- Run --
	v.SetDefault("run.data_file", "mock_data.json")
	v.SetDefault("run.artifacts_dir", ".")
	v.SetDefault("run.release", ReleaseClose)
	v.SetDefault("run.dry_run", false)
	v.SetDefault("run.screenshot", false)
	v.SetDefault("run.save_prompt", false)
}

// NewViper returns a viper instance with defaults and env binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads an optional YAML config file into v. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("form-filler")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// NewDefaultConfig creates a configuration populated with default values only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	cfg.LLM.Model = providerDefaultModel[cfg.LLM.Provider]
	return &cfg
}

// NewConfigFromViper unmarshals, resolves the credential and validates.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Browser.Driver = strings.ToLower(strings.TrimSpace(cfg.Browser.Driver))
	cfg.Run.Release = strings.ToLower(strings.TrimSpace(cfg.Run.Release))

	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = providerDefaultModel[cfg.LLM.Provider]
	}

	if cfg.LLM.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. It does not require a
// credential, since commands that never call the model do not need one.
func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case DriverPlaywright, DriverChromedp:
	default:
		return fmt.Errorf("browser.driver must be %q or %q, got %q", DriverPlaywright, DriverChromedp, c.Browser.Driver)
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be a positive duration")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}

	if _, ok := providerKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be a positive duration")
	}

	switch c.Run.Release {
	case ReleaseClose, ReleaseHold:
	default:
		return fmt.Errorf("run.release must be %q or %q, got %q", ReleaseClose, ReleaseHold, c.Run.Release)
	}
	return nil
}

// RequireCredential reports a setup error when no API key could be resolved.
func (c *Config) RequireCredential() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	return fmt.Errorf("no API key for provider %q: set llm.api_key, %s_LLM_API_KEY or %s",
		c.LLM.Provider, EnvPrefix, providerKeyEnv[c.LLM.Provider])
}
