package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server  ServerConfig
	Media   MediaConfig
	Storage StorageConfig
	Jobs    JobsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// MediaConfig holds the external tool binaries and their invocation limits.
type MediaConfig struct {
	YtDlpBin    string
	FFmpegBin   string
	ToolTimeout time.Duration // per-invocation timeout; 0 = unbounded
}

// StorageConfig holds filesystem locations.
type StorageConfig struct {
	OutputDir string // durable artifact directory served via /api/download
	TempDir   string // base for per-job scratch directories; empty = os.TempDir()
	StaticDir string // frontend build output served for non-API paths
}

// JobsConfig holds job retention and eviction settings.
type JobsConfig struct {
	Retention           time.Duration
	EvictInterval       time.Duration
	DeleteAfterDownload bool
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	// Streaming responses stay open for the whole job; 0 disables the write deadline.
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Media: MediaConfig{
			YtDlpBin:    getEnv("MEDIA_YTDLP_BIN", "yt-dlp"),
			FFmpegBin:   getEnv("MEDIA_FFMPEG_BIN", "ffmpeg"),
			ToolTimeout: time.Duration(getEnvInt("MEDIA_TOOL_TIMEOUT_SEC", 0)) * time.Second,
		},
		Storage: StorageConfig{
			OutputDir: getEnv("OUTPUT_DIR", "output"),
			TempDir:   getEnv("TEMP_DIR", ""),
			StaticDir: getEnv("STATIC_DIR", "dist"),
		},
		Jobs: JobsConfig{
			Retention:           time.Duration(getEnvInt("JOBS_RETENTION_MIN", 60)) * time.Minute,
			EvictInterval:       time.Duration(getEnvInt("JOBS_EVICT_INTERVAL_MIN", 15)) * time.Minute,
			DeleteAfterDownload: getEnvBool("JOBS_DELETE_AFTER_DOWNLOAD", false),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}
