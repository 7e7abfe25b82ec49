package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // "auto" (default), "alter", "drop"

	// Server
	ServerPort  string
	FrontendURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT Authentication
	JWTSecretKey string

	// Token sirène encryption key (32 bytes once decoded)
	TokenSecretKey string

	// OTP
	OtpExpirationMinutes int
	OtpMaxAttempts       int

	// SMS provider: "twilio", "africas_talking" or empty (log only)
	SmsProvider   string
	SmsAPIKey     string
	SmsAPISecret  string
	SmsFromNumber string
	SmsUsername   string

	// MQTT (siren command channel)
	MQTTBrokerURL string
	MQTTClientID  string
	MQTTUsername  string
	MQTTPassword  string
	MQTTQoS       int
	MQTTRetained  bool

	// Subscriptions
	SubscriptionPricePerYear float64

	// Storage (QR code images)
	StoragePath string

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	// Set prefix based on environment type
	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	configOnce.Do(func() {
		config = &Config{
			EnvType: envType,

			DBHost:          getEnv(prefix+"DB_HOST", "localhost"),
			DBUser:          getEnv(prefix+"DB_USER", "root"),
			DBPassword:      getEnv(prefix+"DB_PASSWORD", ""),
			DBName:          getEnv(prefix+"DB_NAME", "sirene_ecole"),
			DBPort:          getEnv(prefix+"DB_PORT", "3306"),
			DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", "auto"),

			ServerPort:  getEnv(prefix+"SERVER_PORT", "8080"),
			FrontendURL: getEnv(prefix+"FRONTEND_URL", "http://localhost:3000"),

			RedisHost:     getEnv(prefix+"REDIS_HOST", "localhost"),
			RedisPort:     getEnv(prefix+"REDIS_PORT", "6379"),
			RedisPassword: getEnv(prefix+"REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt(prefix+"REDIS_DB", 0),

			JWTSecretKey:   getEnv(prefix+"JWT_SECRET_KEY", "change-me-in-production"),
			TokenSecretKey: getEnv(prefix+"TOKEN_SECRET_KEY", ""),

			OtpExpirationMinutes: getEnvAsInt(prefix+"OTP_EXPIRATION_MINUTES", 5),
			OtpMaxAttempts:       getEnvAsInt(prefix+"OTP_MAX_ATTEMPTS", 3),

			SmsProvider:   getEnv(prefix+"SMS_PROVIDER", ""),
			SmsAPIKey:     getEnv(prefix+"SMS_API_KEY", ""),
			SmsAPISecret:  getEnv(prefix+"SMS_API_SECRET", ""),
			SmsFromNumber: getEnv(prefix+"SMS_FROM_NUMBER", ""),
			SmsUsername:   getEnv(prefix+"SMS_USERNAME", "sandbox"),

			MQTTBrokerURL: getEnv(prefix+"MQTT_BROKER_URL", ""),
			MQTTClientID:  getEnv(prefix+"MQTT_CLIENT_ID", "sirene-ecole-backend"),
			MQTTUsername:  getEnv(prefix+"MQTT_USERNAME", ""),
			MQTTPassword:  getEnv(prefix+"MQTT_PASSWORD", ""),
			MQTTQoS:       getEnvAsInt(prefix+"MQTT_QOS", 1),
			MQTTRetained:  getEnvAsBool(prefix+"MQTT_RETAINED", false),

			SubscriptionPricePerYear: getEnvAsFloat(prefix+"SUBSCRIPTION_PRICE_PER_YEAR", 50000),

			StoragePath: getEnv(prefix+"STORAGE_PATH", "storage/public"),

			DefaultAdminPassword: getEnv(prefix+"DEFAULT_ADMIN_PASSWORD", "Admin@123"),
		}
	})

	return config
}

// GetDSN returns the MySQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
