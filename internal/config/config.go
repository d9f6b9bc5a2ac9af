package config

import "os"

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	RedisAddr         string
	RedisPassword     string
	RedisDB           string
	FCMServiceAccount string
}

func Load() *Config {
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "stridegoals.db"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:              getEnv("PORT", "8080"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnv("REDIS_DB", "0"),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
