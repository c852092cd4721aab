package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type ProviderConfig struct {
	BaseURL           string  `mapstructure:"baseURL"`
	APIKey            string  `mapstructure:"apiKey"`
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	} `mapstructure:"server"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Upstream struct {
		Timeout   time.Duration `mapstructure:"timeout"`
		Geocoding struct {
			ProviderConfig `mapstructure:",squash"`
			CountryCodes   []string `mapstructure:"countryCodes"`
		} `mapstructure:"geocoding"`
		Weather struct {
			ProviderConfig `mapstructure:",squash"`
			ForecastDays   int `mapstructure:"forecastDays"`
		} `mapstructure:"weather"`
		Events struct {
			ProviderConfig `mapstructure:",squash"`
			SearchRadiusKm int     `mapstructure:"searchRadiusKm"`
			MaxDistanceKm  float64 `mapstructure:"maxDistanceKm"`
			Limit          int     `mapstructure:"limit"`
		} `mapstructure:"events"`
		Places struct {
			ProviderConfig `mapstructure:",squash"`
			RadiusMeters   int `mapstructure:"radiusMeters"`
			Limit          int `mapstructure:"limit"`
		} `mapstructure:"places"`
	} `mapstructure:"upstream"`
	LLM   LLMConfig `mapstructure:"llm"`
	Cache struct {
		Backend string        `mapstructure:"backend"`
		TTL     time.Duration `mapstructure:"ttl"`
		Redis   struct {
			Addr      string `mapstructure:"addr"`
			Password  string `mapstructure:"password"`
			DB        int    `mapstructure:"db"`
			KeyPrefix string `mapstructure:"keyPrefix"`
		} `mapstructure:"redis"`
		Postgres struct {
			Host     string `mapstructure:"host"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			Password string `mapstructure:"password"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslMode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"cache"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
		// only enable behind a proxy that overwrites X-Forwarded-For / X-Real-IP
		TrustProxyHeaders bool `mapstructure:"trustProxyHeaders"`
	} `mapstructure:"rateLimit"`
	Observability struct {
		ServiceName    string `mapstructure:"serviceName"`
		MetricsEnabled bool   `mapstructure:"metricsEnabled"`
	} `mapstructure:"observability"`
}

type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	OpenAIKey    string        `mapstructure:"openaiKey"`
	GeminiKey    string        `mapstructure:"geminiKey"`
	BaseURL      string        `mapstructure:"baseURL"`
	Model        string        `mapstructure:"model"`
	ChatModel    string        `mapstructure:"chatModel"`
	Temperature  float32       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinKeyLength int           `mapstructure:"minKeyLength"`
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	if strings.EqualFold(c.Provider, "gemini") {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// HasCredentials reports whether a usable model credential is configured.
func (c LLMConfig) HasCredentials() bool {
	return len(c.APIKey()) > c.MinKeyLength
}

// credentials are never read from config.yml; they come from the environment.
var envBindings = map[string]string{
	"upstream.geocoding.apiKey": "OPENCAGE_KEY",
	"upstream.weather.apiKey":   "WEATHERAPI_KEY",
	"upstream.events.apiKey":    "PREDICTHQ_API_KEY",
	"upstream.places.apiKey":    "FOURSQUARE_API_KEY",
	"llm.openaiKey":             "OPENAI_API_KEY",
	"llm.geminiKey":             "GOOGLE_GEMINI_API_KEY",
	"llm.provider":              "LLM_PROVIDER",
	"llm.model":                 "LLM_MODEL",
	"llm.chatModel":             "LLM_CHAT_MODEL",
	"cache.backend":             "CACHE_BACKEND",
	"cache.redis.addr":          "REDIS_ADDR",
	"cache.redis.password":      "REDIS_PASSWORD",
	"cache.postgres.host":       "POSTGRES_HOST",
	"cache.postgres.port":       "POSTGRES_PORT",
	"cache.postgres.username":   "POSTGRES_USER",
	"cache.postgres.password":   "POSTGRES_PASSWORD",
	"cache.postgres.db":         "POSTGRES_DB",
	"server.HTTPPort":           "PORT",
	"mode":                      "APP_ENV",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s to %s: %w", key, env, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
