package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	MongoURI  string
	DBName    string
	JWTSecret string
	Port      string

	// Google sign-in
	GoogleClientID string

	// Bootstrap SuperAdmin account, created on first start
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig loads configuration from .env file or environment variables
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("No .env file found at %s, attempting to read from environment variables. Error: %v", path, err)
	}

	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:    getEnv("DB_NAME", "projectdesk_db"),
		JWTSecret: getEnv("JWT_SECRET", "your_very_secret_jwt_key_here_change_this_in_production"),
		Port:      getEnv("PORT", "8080"),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AdminName:     getEnv("ADMIN_NAME", "Super Admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
