package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Approval workflow knobs
	ApprovalDefaultLevels      int
	ApprovalMaxDelegationDepth int
	ApprovalAutoPost           bool

	// Batch processing
	BatchWorkerLimit int

	// Recurring scheduler
	RecurringCronSpec string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "journal-engine")
	viper.SetDefault("APPROVAL_DEFAULT_LEVELS", 1)
	viper.SetDefault("APPROVAL_MAX_DELEGATION_DEPTH", 3)
	viper.SetDefault("APPROVAL_AUTO_POST", false)
	viper.SetDefault("BATCH_WORKER_LIMIT", 8)
	viper.SetDefault("RECURRING_CRON_SPEC", "0 2 * * *")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "journal-engine"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer

	cfg.ApprovalDefaultLevels = viper.GetInt("APPROVAL_DEFAULT_LEVELS")
	if cfg.ApprovalDefaultLevels < 1 {
		cfg.ApprovalDefaultLevels = 1
	}
	cfg.ApprovalMaxDelegationDepth = viper.GetInt("APPROVAL_MAX_DELEGATION_DEPTH")
	if cfg.ApprovalMaxDelegationDepth < 1 {
		cfg.ApprovalMaxDelegationDepth = 3
	}
	cfg.ApprovalAutoPost = viper.GetBool("APPROVAL_AUTO_POST")

	cfg.BatchWorkerLimit = viper.GetInt("BATCH_WORKER_LIMIT")
	if cfg.BatchWorkerLimit < 1 {
		cfg.BatchWorkerLimit = 8
	}

	cfg.RecurringCronSpec = viper.GetString("RECURRING_CRON_SPEC")

	return cfg, nil
}
