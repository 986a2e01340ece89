package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	DB           DBConfig
	Redis        RedisConfig
	LLMProviders LLMProvidersConfig
	Generation   GenerationConfig
	CacheTTLs    CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LLMProvidersConfig struct {
	Gemini GeminiConfig
	Ollama OllamaConfig
}

type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	MaxRetries      int
	RetryBaseDelay  time.Duration
	Timeout         time.Duration
}

type OllamaConfig struct {
	ServerURL string
	Model     string
	Timeout   time.Duration
}

// GenerationConfig holds pipeline defaults applied when a request leaves a
// parameter unset.
type GenerationConfig struct {
	Provider       string
	QuestionCount  int
	Mode           string
	Language       string
	PromptTemplate string
	Topics         []string
}

type CacheTTLConfig struct {
	ExclusionList string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		DB: DBConfig{
			Driver:   viper.GetString("db.driver"),
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLMProviders: LLMProvidersConfig{
			Gemini: GeminiConfig{
				APIKey:          viper.GetString("llm_providers.gemini.api_key"),
				BaseURL:         viper.GetString("llm_providers.gemini.base_url"),
				Model:           viper.GetString("llm_providers.gemini.model"),
				Temperature:     viper.GetFloat64("llm_providers.gemini.temperature"),
				MaxOutputTokens: viper.GetInt("llm_providers.gemini.max_output_tokens"),
				MaxRetries:      viper.GetInt("llm_providers.gemini.max_retries"),
				RetryBaseDelay:  viper.GetDuration("llm_providers.gemini.retry_base_delay"),
				Timeout:         viper.GetDuration("llm_providers.gemini.timeout"),
			},
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("llm_providers.ollama.server_url"),
				Model:     viper.GetString("llm_providers.ollama.model"),
				Timeout:   viper.GetDuration("llm_providers.ollama.timeout"),
			},
		},
		Generation: GenerationConfig{
			Provider:       viper.GetString("generation.provider"),
			QuestionCount:  viper.GetInt("generation.question_count"),
			Mode:           viper.GetString("generation.mode"),
			Language:       viper.GetString("generation.language"),
			PromptTemplate: viper.GetString("generation.prompt_template"),
			Topics:         viper.GetStringSlice("generation.topics"),
		},
		CacheTTLs: CacheTTLConfig{
			ExclusionList: viper.GetString("cache_ttls.exclusion_list"),
		},
	}

	// Override secrets and connection targets with environment variables if set
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLMProviders.Gemini.APIKey = apiKey
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("db.driver", "oracle")
	viper.SetDefault("llm_providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("llm_providers.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("llm_providers.gemini.temperature", 0.7)
	viper.SetDefault("llm_providers.gemini.max_output_tokens", 8192)
	viper.SetDefault("llm_providers.gemini.max_retries", 3)
	viper.SetDefault("llm_providers.gemini.retry_base_delay", time.Second)
	viper.SetDefault("llm_providers.gemini.timeout", 60*time.Second)
	viper.SetDefault("llm_providers.ollama.server_url", "http://localhost:11434")
	viper.SetDefault("llm_providers.ollama.model", "llama3")
	viper.SetDefault("llm_providers.ollama.timeout", 60*time.Second)
	viper.SetDefault("generation.provider", "gemini")
	viper.SetDefault("generation.question_count", 10)
	viper.SetDefault("generation.mode", "lenient")
	viper.SetDefault("generation.language", "English")
	viper.SetDefault("cache_ttls.exclusion_list", "10m")
}

// GetDSN builds the Oracle connection string.
func (c *Config) GetDSN() string {
	return c.DB.GetDSN()
}

// GetDSN builds the Oracle connection string from the DB section.
func (c DBConfig) GetDSN() string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// ParseTTLStringOrDefault parses a duration string like "10m" or "24h",
// falling back to def when the string is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return def
	}
	return d
}
