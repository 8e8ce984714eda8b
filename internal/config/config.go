package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMinIO  = "minio"
	StoragePinata = "pinata"
	StorageMemory = "memory"
)

var configFile string

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	JWTTTL        time.Duration
	GinMode       string
	HTTPAddr      string
	LogLevel      string

	ArtifactsDir  string
	StorageDriver string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	PinataJWT        string
	PinataAPIURL     string
	PinataGatewayURL string
}

// SetConfigFile points Load at an explicit config file (env, yaml or toml).
func SetConfigFile(file string) {
	configFile = file
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        v.GetDuration("JWT_TTL"),
		GinMode:       v.GetString("GIN_MODE"),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		LogLevel:      v.GetString("LOG_LEVEL"),

		ArtifactsDir:  v.GetString("ARTIFACTS_DIR"),
		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),

		MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinIOBucket:    v.GetString("MINIO_BUCKET"),
		MinIOUseSSL:    v.GetBool("MINIO_USE_SSL"),

		PinataJWT:        v.GetString("PINATA_JWT"),
		PinataAPIURL:     v.GetString("PINATA_API_URL"),
		PinataGatewayURL: strings.TrimRight(v.GetString("PINATA_GATEWAY_URL"), "/"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"db_driver":      cfg.DBDriver,
		"storage_driver": cfg.StorageDriver,
		"artifacts_dir":  cfg.ArtifactsDir,
	}).Info("config loaded")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "albaranes")
	v.SetDefault("DB_PASSWORD", "albaranes")
	v.SetDefault("DB_NAME", "albaranes")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("JWT_SECRET", "default-jwt-secret-change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ARTIFACTS_DIR", "./albaranes")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_BUCKET", "albaranes")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("PINATA_API_URL", "https://api.pinata.cloud/pinning/pinFileToIPFS")
	v.SetDefault("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.StorageDriver {
	case StorageMinIO, StorageMemory:
	case StoragePinata:
		if c.PinataJWT == "" {
			return fmt.Errorf("PINATA_JWT is required for the pinata storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	return nil
}
