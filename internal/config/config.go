package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
)

const defaultMaxUploadBytes = 10 * 1024 * 1024 // 10MB

type Config struct {
	APIKey         string
	Model          string
	Port           string
	AllowedOrigins []string
	MaxUploadBytes int64
	Env            string
	// LogFile is optional; when set, logs are also written to a rotated file.
	LogFile string
}

// Load reads the configuration from the environment. Outside production a
// .env file in the working directory is loaded first.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("[boot] .env not loaded, using system environment variables: %v", err)
		}
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Only the API key is required.
func FromEnv(getenv func(string) string) (*Config, error) {
	apiKey := getenv("API_KEY")
	if apiKey == "" {
		apiKey = getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, failures.New(failures.Configuration, "API_KEY environment variable is not set")
	}

	model := getenv("MODEL")
	if model == "" {
		model = entities.DefaultModel
	}

	port := strings.TrimPrefix(getenv("PORT"), ":")
	if port == "" {
		port = "8080"
	}

	origins := []string{"*"}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	maxUpload := int64(defaultMaxUploadBytes)
	if v := getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, failures.New(failures.Configuration, "MAX_UPLOAD_BYTES must be a positive integer, got "+strconv.Quote(v))
		}
		maxUpload = n
	}

	return &Config{
		APIKey:         apiKey,
		Model:          model,
		Port:           port,
		AllowedOrigins: origins,
		MaxUploadBytes: maxUpload,
		Env:            getenv("ENV"),
		LogFile:        strings.TrimSpace(getenv("LOG_FILE")),
	}, nil
}
