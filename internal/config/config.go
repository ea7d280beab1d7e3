package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
)

const (
	DefaultCvPath = "./cv.ra"
	DefaultDBPath = "./data/racv.db"
	DefaultListen = "0.0.0.0:8080"
)

// Config holds the settings shared by every racv subcommand. Flags override it.
type Config struct {
	CvPath       string
	ProtocolPath string
	DBPath       string
	Listen       string
	LogLevel     string
	RegistryPath string
}

// Load reads .env (if any) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env found, using local environment")
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		CvPath:       getenv("RACV_CV_PATH", DefaultCvPath),
		ProtocolPath: os.Getenv("RACV_PROTOCOL_PATH"),
		DBPath:       getenv("RACV_DB", DefaultDBPath),
		Listen:       getenv("RACV_LISTEN", DefaultListen),
		LogLevel:     getenv("RACV_LOG_LEVEL", "info"),
		RegistryPath: os.Getenv("RACV_REGISTRY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
