package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yukikurage/project-board-api/internal/constants"
)

type Config struct {
	Port           string
	GinMode        string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBLogLevel     string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	AllowedOrigins []string
	OpenAIAPIKey   string
}

var defaults = map[string]any{
	"PORT":            "8080",
	"GIN_MODE":        "debug",
	"DB_DRIVER":       "mysql",
	"DB_HOST":         "localhost",
	"DB_PORT":         "3306",
	"DB_USER":         "boarduser",
	"DB_PASSWORD":     "boardpassword",
	"DB_NAME":         "project_board",
	"DB_LOG_LEVEL":    "warn",
	"REDIS_HOST":      "",
	"REDIS_PORT":      "6379",
	"SESSION_SECRET":  "default-secret-key-change-me",
	"JWT_SECRET":      "default-jwt-secret-change-me",
	"TOKEN_TTL":       constants.DefaultTokenTTL.String(),
	"BCRYPT_COST":     constants.DefaultBcryptCost,
	"ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:5173",
	"OPENAI_API_KEY":  "",
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	ttl := v.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = constants.DefaultTokenTTL
	}

	cost := v.GetInt("BCRYPT_COST")
	if cost <= 0 {
		cost = constants.DefaultBcryptCost
	}

	return &Config{
		Port:           v.GetString("PORT"),
		GinMode:        v.GetString("GIN_MODE"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBLogLevel:     strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		RedisHost:      v.GetString("REDIS_HOST"),
		RedisPort:      v.GetString("REDIS_PORT"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       ttl,
		BcryptCost:     cost,
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
