package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	News    News    `mapstructure:"news"`
	Server  Server  `mapstructure:"server"`
	Mailbox Mailbox `mapstructure:"mailbox"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// News holds news acquisition configuration
type News struct {
	MaxResults int           `mapstructure:"max_results"`
	Timeout    string        `mapstructure:"timeout"`
	Language   string        `mapstructure:"language"`
	Providers  NewsProviders `mapstructure:"providers"`
}

// NewsProviders holds configuration for all news providers
type NewsProviders struct {
	NewsAPI  NewsAPIConfig  `mapstructure:"newsapi"`
	Guardian GuardianConfig `mapstructure:"guardian"`
	NewsData NewsDataConfig `mapstructure:"newsdata"`
}

// NewsAPIConfig holds NewsAPI.org configuration
type NewsAPIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GuardianConfig holds Guardian Open Platform configuration
type GuardianConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// NewsDataConfig holds NewsData.io configuration
type NewsDataConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Server holds HTTP server configuration
type Server struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Mailbox holds mailbox storage configuration
type Mailbox struct {
	Directory string `mapstructure:"directory"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".boardbrief")
		viper.SetConfigType("yaml")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvironmentVariables()

	// Enable automatic environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into struct
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Apply post-processing
	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".boardbrief")

	// AI defaults
	viper.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.gemini.max_tokens", 8192)

	// News defaults
	viper.SetDefault("news.max_results", 5)
	viper.SetDefault("news.timeout", "30s")
	viper.SetDefault("news.language", "en")

	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Mailbox defaults
	viper.SetDefault("mailbox.directory", ".boardbrief")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	// Gemini API key - support multiple formats
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	// News provider API keys
	bindEnvKeys("news.providers.newsapi.api_key", []string{
		"NEWS_API_KEY",
		"NEWSAPI_API_KEY",
	})

	bindEnvKeys("news.providers.guardian.api_key", []string{
		"GUARDIAN_API_KEY",
	})

	bindEnvKeys("news.providers.newsdata.api_key", []string{
		"NEWSDATA_API_KEY",
	})

	// General settings
	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"BOARDBRIEF_DEBUG",
	})

	bindEnvKeys("server.port", []string{
		"PORT",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	// Expand paths
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Mailbox.Directory != "" {
		config.Mailbox.Directory = expandPath(config.Mailbox.Directory)
	}

	// Validate durations
	durations := map[string]string{
		"ai.gemini.timeout": config.AI.Gemini.Timeout,
		"news.timeout":      config.News.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Convenience getters for commonly used configuration values
func GetApp() App         { return Get().App }
func GetAI() AI           { return Get().AI }
func GetNews() News       { return Get().News }
func GetServer() Server   { return Get().Server }
func GetMailbox() Mailbox { return Get().Mailbox }

func GetGeminiAPIKey() string     { return Get().AI.Gemini.APIKey }
func GetGeminiModel() string      { return Get().AI.Gemini.Model }
func GetMailboxDirectory() string { return Get().Mailbox.Directory }
func IsDebugMode() bool           { return Get().App.Debug }

// NewsTimeout returns the parsed news fetch timeout.
func NewsTimeout() time.Duration {
	if d, err := time.ParseDuration(Get().News.Timeout); err == nil {
		return d
	}
	return 30 * time.Second
}

// HasValidNewsAPI returns true if NewsAPI is properly configured
func HasValidNewsAPI() bool {
	return isValidAPIKey(Get().News.Providers.NewsAPI.APIKey)
}

// HasValidGuardian returns true if the Guardian API is properly configured
func HasValidGuardian() bool {
	return isValidAPIKey(Get().News.Providers.Guardian.APIKey)
}

// HasValidNewsData returns true if NewsData.io is properly configured
func HasValidNewsData() bool {
	return isValidAPIKey(Get().News.Providers.NewsData.APIKey)
}

// GetNewsProviderConfig returns configuration for creating a news provider
func GetNewsProviderConfig(providerType string) map[string]string {
	config := Get()

	switch providerType {
	case "newsapi":
		return map[string]string{"api_key": config.News.Providers.NewsAPI.APIKey}
	case "guardian":
		return map[string]string{"api_key": config.News.Providers.Guardian.APIKey}
	case "newsdata":
		return map[string]string{"api_key": config.News.Providers.NewsData.APIKey}
	default:
		return map[string]string{}
	}
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	// Check for common placeholder values
	placeholders := []string{
		"your-api-key", "your-newsapi-key", "your-guardian-key", "your-newsdata-key",
		"YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME", "demo",
	}

	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}

	return true
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
