package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host     string
	Port     string
	LogLevel string
	Debug    bool

	// CORS
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// Vector store (Qdrant)
	VectorDBEndpoint   string
	VectorDBAPIKey     string
	VectorDBCollection string

	// Embeddings (OpenAI-compatible)
	EmbeddingEndpoint  string
	EmbeddingAPIKey    string
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingBatchSize int

	// LLM (OpenAI-compatible chat completions)
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Uploads
	UploadDir   string
	MaxFileSize int64

	// Optional S3 archive of processed originals
	S3ArchiveEnabled  bool
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:     getEnv("HOST", "0.0.0.0"),
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnv("DEBUG", "false") == "true",

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "http://localhost:3000"),
		AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
		AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),

		VectorDBEndpoint:   getEnv("VECTOR_DB_ENDPOINT", "http://localhost:6333"),
		VectorDBAPIKey:     getEnv("VECTOR_DB_API_KEY", ""),
		VectorDBCollection: getEnv("VECTOR_DB_COLLECTION", "documents"),

		EmbeddingEndpoint:  getEnv("EMBEDDING_ENDPOINT", "https://api.openai.com/v1"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 1536),
		EmbeddingBatchSize: getEnvInt("EMBEDDING_BATCH_SIZE", 32),

		LLMEndpoint: getEnv("LLM_ENDPOINT", "https://api.openai.com/v1"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),

		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE", 20<<20)),

		S3ArchiveEnabled:  getEnv("S3_ARCHIVE_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
	}

	if cfg.S3ArchiveEnabled && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		return nil, fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_ARCHIVE_ENABLED is true")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
