package config

import (
	"log"
	"os"
)

// Config holds the runtime configuration read from environment variables.
// godotenv loads a .env file in main before Load is called.
type Config struct {
	Port      string // HTTP port to listen on
	MongoURI  string // MongoDB connection string
	DBName    string // database holding the catalog collections
	JWTSecret string // secret used to sign access tokens
	RedisAddr string // optional host:port of Redis; empty disables caching
}

// Load reads the configuration from the environment. Missing required
// variables abort startup.
func Load() Config {
	return Config{
		Port:      getenvDefault("PORT", "5001"),
		MongoURI:  must("MONGO_URI"),
		DBName:    must("DATABASE_NAME"),
		JWTSecret: must("JWT_SECRET"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
