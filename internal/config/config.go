package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DATABASE_URL        string
	HTTP_ADDR           string
	LOG_LEVEL           string
	JWT_SECRET          string
	REFRESH_SECRET      string
	KAFKA_ADDRESS       string
	REDIS_ADDR          string
	ES_URL              string
	ES_USER             string
	ES_PASSWORD         string
	GATEWAY_URL         string
	GATEWAY_KEY_ID      string
	GATEWAY_KEY_SECRET  string
	MEDIA_URL           string
	MEDIA_API_KEY       string
	MEDIA_UPLOAD_PRESET string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		HTTP_ADDR:           os.Getenv("HTTP_ADDR"),
		LOG_LEVEL:           os.Getenv("LOG_LEVEL"),
		JWT_SECRET:          os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:      os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:       os.Getenv("KAFKA_ADDRESS"),
		REDIS_ADDR:          os.Getenv("REDIS_ADDR"),
		ES_URL:              os.Getenv("ES_URL"),
		ES_USER:             os.Getenv("ES_USER"),
		ES_PASSWORD:         os.Getenv("ES_PASSWORD"),
		GATEWAY_URL:         os.Getenv("GATEWAY_URL"),
		GATEWAY_KEY_ID:      os.Getenv("GATEWAY_KEY_ID"),
		GATEWAY_KEY_SECRET:  os.Getenv("GATEWAY_KEY_SECRET"),
		MEDIA_URL:           os.Getenv("MEDIA_URL"),
		MEDIA_API_KEY:       os.Getenv("MEDIA_API_KEY"),
		MEDIA_UPLOAD_PRESET: os.Getenv("MEDIA_UPLOAD_PRESET"),
	}

	if config.HTTP_ADDR == "" {
		config.HTTP_ADDR = ":8080"
	}

	return config, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
