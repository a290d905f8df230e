// Package config reads runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erazemk/bookstore/internal/images"
)

// Config holds runtime settings. Flags may override any field after Load.
type Config struct {
	Port          string
	Concurrency   int
	DB            string
	MongoDatabase string
	PublicDir     string
	RequestLog    string
	LogFile       string
	S3            images.BucketConfig
}

const (
	defaultPort          = "3000"
	defaultConcurrency   = 1
	defaultDB            = "bookstore.sqlite3"
	defaultMongoDatabase = "BookStore"
	defaultPublicDir     = "public"
	defaultRequestLog    = "server.log"
	defaultBucket        = "bookstore-images"
)

// Load reads configuration from environment variables, falling back to defaults.
func Load() *Config {
	cfg := &Config{
		Port:          readEnv("PORT", defaultPort),
		Concurrency:   parseInt("WEB_CONCURRENCY", defaultConcurrency),
		DB:            readEnv("BOOKSTORE_DB", defaultDB),
		MongoDatabase: readEnv("BOOKSTORE_MONGO_DATABASE", defaultMongoDatabase),
		PublicDir:     readEnv("BOOKSTORE_PUBLIC_DIR", defaultPublicDir),
		RequestLog:    readEnv("BOOKSTORE_REQUEST_LOG", defaultRequestLog),
		LogFile:       readEnv("BOOKSTORE_LOG", ""),
		S3: images.BucketConfig{
			Endpoint:  readEnv("BOOKSTORE_S3_ENDPOINT", ""),
			AccessKey: readEnv("BOOKSTORE_S3_ACCESS_KEY", ""),
			SecretKey: readEnv("BOOKSTORE_S3_SECRET_KEY", ""),
			Bucket:    readEnv("BOOKSTORE_S3_BUCKET", defaultBucket),
			Region:    readEnv("BOOKSTORE_S3_REGION", ""),
			UseSSL:    parseBool("BOOKSTORE_S3_USE_SSL", false),
		},
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ImageDir is where uploaded images are kept on disk.
func (c *Config) ImageDir() string {
	return filepath.Join(c.PublicDir, "img")
}

// UseBucket reports whether images go to object storage instead of disk.
func (c *Config) UseBucket() bool {
	return c.S3.Endpoint != ""
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return def
}
