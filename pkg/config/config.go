package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// EmptyChatListAsNotFound answers 404 when a user belongs to no
	// chats. Set to false to return an empty list with 200 instead.
	EmptyChatListAsNotFound bool

	// StoreTimeout bounds every Firestore operation.
	StoreTimeout time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:             getEnv("ENVIRONMENT", "development"),
		EmptyChatListAsNotFound: getEnvAsBool("CHATS_EMPTY_AS_NOT_FOUND", true),
		StoreTimeout:            time.Duration(getEnvAsInt64("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
