package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SeedAccount holds credentials for one account created at startup.
type SeedAccount struct {
	Name     string
	Username string
	Password string
}

type Config struct {
	Host    string
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string
	DBReset    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExerciseCacheTTL time.Duration

	SeedAdmin    SeedAccount
	SeedUser     SeedAccount
	SeedDisabled SeedAccount
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		Host:       getEnv("HOST", "localhost"),
		APIPort:    getEnv("PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PW", "password"),
		DBName:     getEnv("DB_NAME", "wlog_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),
		DBReset:    getEnvAsBool("DB_RESET", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ExerciseCacheTTL: time.Duration(getEnvAsInt("EXERCISE_CACHE_TTL_SECONDS", 60)) * time.Second,

		SeedAdmin: SeedAccount{
			Name:     getEnv("ADMIN_NAME", ""),
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PW", ""),
		},
		SeedUser: SeedAccount{
			Name:     getEnv("USER_NAME", ""),
			Username: getEnv("USER_USERNAME", ""),
			Password: getEnv("USER_PW", ""),
		},
		SeedDisabled: SeedAccount{
			Name:     getEnv("DISABLED_NAME", ""),
			Username: getEnv("DISABLED_USERNAME", ""),
			Password: getEnv("DISABLED_PW", ""),
		},
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
