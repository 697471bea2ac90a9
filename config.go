package examtrainer

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"examtrainer/quiz"
)

// Config holds all configuration for the exam trainer.
type Config struct {
	// DataDir is the root directory for exam collections. Each exam
	// gets its own subdirectory with questions and images.
	DataDir string `json:"data_dir"`

	// AttemptsDBPath is the full path to the attempt history database.
	// If empty, defaults to <DataDir>/attempts.db.
	AttemptsDBPath string `json:"attempts_db_path"`

	// ListenAddr is the HTTP server's listen address.
	ListenAddr string `json:"listen_addr"`

	// Password gates the HTTP API. Empty disables authentication.
	Password string `json:"password"`

	// QuestionsPerPage is the quiz page size.
	QuestionsPerPage int `json:"questions_per_page"`

	// PassThreshold is the pass mark in percent.
	PassThreshold float64 `json:"pass_threshold"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults. Data is
// stored under ./data by default.
func DefaultConfig() Config {
	return Config{
		DataDir:          "data",
		ListenAddr:       ":8080",
		QuestionsPerPage: quiz.DefaultQuestionsPerPage,
		PassThreshold:    quiz.DefaultPassThreshold,
		LogLevel:         "info",
	}
}

// LoadConfig reads a JSON config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv applies environment overrides, reading a .env file first
// when one exists.
func (c *Config) FromEnv() {
	godotenv.Load() // a missing .env file is fine

	if v := os.Getenv("EXAMTRAINER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("EXAMTRAINER_ATTEMPTS_DB"); v != "" {
		c.AttemptsDBPath = v
	}
	if v := os.Getenv("EXAMTRAINER_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("EXAMTRAINER_QUESTIONS_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.QuestionsPerPage = n
		}
	}
	if v := os.Getenv("EXAMTRAINER_PASS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.PassThreshold = f
		}
	}
	if v := os.Getenv("EXAMTRAINER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// ResolveAttemptsDBPath computes the final attempt database path: the
// configured one, or attempts.db under the data directory.
func (c *Config) ResolveAttemptsDBPath() string {
	if c.AttemptsDBPath != "" {
		return c.AttemptsDBPath
	}
	return filepath.Join(c.DataDir, "attempts.db")
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
