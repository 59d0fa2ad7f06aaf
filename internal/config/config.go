package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds unified Redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	Mode  string   `mapstructure:"mode"`
	Addrs []string `mapstructure:"addrs"`
	// Addr is an alternative single-mode address, used when Addrs is empty.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// MasterName is required in sentinel mode.
	MasterName      string `mapstructure:"master_name"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"`
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// AuthConfig holds signup policy settings.
type AuthConfig struct {
	MinPasswordLength int `mapstructure:"minPasswordLength"`
}

// EmailConfig holds verification email settings.
type EmailConfig struct {
	// Provider: "resend" or "noop".
	Provider            string `mapstructure:"provider"`
	ResendAPIKey        string `mapstructure:"resend_api_key"`
	From                string `mapstructure:"from"`
	VerificationBaseURL string `mapstructure:"verification_base_url"`
	VerificationTTLHrs  int    `mapstructure:"verification_ttl_hrs"`
	// DegradeOnDispatchFailure marks an account verified immediately when
	// the verification email cannot be sent, so notification outages never
	// block signups. Set false to keep such accounts unverified instead.
	DegradeOnDispatchFailure bool `mapstructure:"degrade_on_dispatch_failure"`
}

// PostgresConnectionString builds the PostgreSQL DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads the configuration from an optional file plus environment
// variables. Env vars are bound explicitly so the file stays optional.
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("auth.minPasswordLength", 6)
	vip.SetDefault("email.provider", "noop")
	vip.SetDefault("email.verification_ttl_hrs", 24)
	vip.SetDefault("email.degrade_on_dispatch_failure", true)

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("auth.minPasswordLength", "AUTH_MINPASSWORDLENGTH")

	vip.BindEnv("email.provider", "EMAIL_PROVIDER")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("email.verification_base_url", "EMAIL_VERIFICATION_BASE_URL")
	vip.BindEnv("email.verification_ttl_hrs", "EMAIL_VERIFICATION_TTL_HRS")
	vip.BindEnv("email.degrade_on_dispatch_failure", "EMAIL_DEGRADE_ON_DISPATCH_FAILURE")

	vip.BindEnv("server.port", "SERVER_PORT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, using environment variables/defaults.", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("Email Provider: %s", cfg.Email.Provider)
		log.Printf("Degrade On Dispatch Failure: %t", cfg.Email.DegradeOnDispatchFailure)
		log.Printf("----------------------------")
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Provider == "resend" && cfg.Email.ResendAPIKey == "" {
		return nil, fmt.Errorf("resend provider requires an API key (check RESEND_API_KEY env var)")
	}

	return &cfg, nil
}
