package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the runtime knobs. Every field has a default, so the app
// works with no configuration at all.
type Config struct {
	// OutputDir receives single-file conversions. Batch conversions always
	// land in a _converted directory inside their source folder.
	OutputDir string

	JPEGQuality int
	WebPQuality float32

	ThumbSize    int // bounding box in pixels for folder thumbnails
	ThumbQuality int // jpeg quality for thumbnail data URLs
	ThumbWorkers int

	// LogFile, when set, receives structured logs. The TUI owns the
	// terminal, so it never logs to stderr.
	LogFile string
}

// Load reads configuration from the environment, merging in a .env file when
// one exists. Real environment variables win over .env entries.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		OutputDir:    getEnv("IMGCONV_OUTPUT_DIR", defaultOutputDir()),
		JPEGQuality:  getEnvAsInt("IMGCONV_JPEG_QUALITY", 90),
		WebPQuality:  float32(getEnvAsInt("IMGCONV_WEBP_QUALITY", 75)),
		ThumbSize:    getEnvAsInt("IMGCONV_THUMB_SIZE", 160),
		ThumbQuality: getEnvAsInt("IMGCONV_THUMB_QUALITY", 80),
		ThumbWorkers: getEnvAsInt("IMGCONV_THUMB_WORKERS", runtime.NumCPU()),
		LogFile:      getEnv("IMGCONV_LOG", ""),
	}
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ImageConverter"
	}
	return filepath.Join(home, "Desktop", "ImageConverter")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
