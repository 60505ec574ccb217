package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Storage configuration
	StorageBackend string `yaml:"storage_backend"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	EventBusName  string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	EnableAuth bool   `yaml:"enable_auth"`
	JWTSecret  string `yaml:"jwt_secret"`
	JWTIssuer  string `yaml:"jwt_issuer"`

	// Metrics
	MetricsNamespace string `yaml:"metrics_namespace"`

	// Rate limiting, requests per client per minute; 0 disables it
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Query cache lifetime; 0 disables it
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		ShutdownTimeout:    30 * time.Second,
		StorageBackend:     StorageMemory,
		AWSRegion:          "us-west-2",
		DynamoDBTable:      "mappamentis",
		EventBusName:       "mappamentis-events",
		LogLevel:           "info",
		JWTIssuer:          "mappamentis",
		MetricsNamespace:   "MappaMentis",
		RateLimitPerMinute: 0,
		EnableCORS:         true,
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file named by
// CONFIG_FILE, then environment variables, in increasing priority
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	overrideString(&c.ServerAddress, "SERVER_ADDRESS")
	overrideString(&c.Environment, "ENVIRONMENT")
	overrideDuration(&c.ShutdownTimeout, "SHUTDOWN_TIMEOUT")
	overrideString(&c.StorageBackend, "STORAGE_BACKEND")
	overrideString(&c.AWSRegion, "AWS_REGION")
	overrideString(&c.DynamoDBTable, "TABLE_NAME")
	overrideString(&c.DynamoDBTable, "DYNAMODB_TABLE")
	overrideString(&c.EventBusName, "EVENT_BUS_NAME")
	overrideBool(&c.IsLambda, "IS_LAMBDA")
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		c.IsLambda = true
	}
	overrideString(&c.LogLevel, "LOG_LEVEL")
	overrideBool(&c.EnableAuth, "ENABLE_AUTH")
	overrideString(&c.JWTSecret, "JWT_SECRET")
	overrideString(&c.JWTIssuer, "JWT_ISSUER")
	overrideString(&c.MetricsNamespace, "METRICS_NAMESPACE")
	overrideInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	overrideDuration(&c.CacheTTL, "CACHE_TTL")
	overrideBool(&c.EnableMetrics, "ENABLE_METRICS")
	overrideBool(&c.EnableTracing, "ENABLE_TRACING")
	overrideBool(&c.EnableCORS, "ENABLE_CORS")
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StorageDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.EnableAuth && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when authentication is enabled")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE cannot be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL cannot be negative")
	}

	if c.IsProduction() {
		if !c.EnableAuth {
			return fmt.Errorf("authentication must be enabled in production")
		}
		if c.StorageBackend != StorageDynamoDB {
			return fmt.Errorf("production requires the dynamodb storage backend")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func overrideString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func overrideBool(target *bool, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value == "true" || value == "1" || value == "yes"
	}
}

func overrideInt(target *int, key string) {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			*target = intVal
		}
	}
}

func overrideDuration(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			*target = d
		}
	}
}
