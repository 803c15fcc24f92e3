package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings is resolved once at startup and passed by value to every
// component that needs it. Precedence: flag > environment > default.
type Settings struct {
	Environment    string
	InputDir       string
	FilePattern    string
	OutputDir      string
	QuarantineDir  string
	PollInterval   time.Duration
	TaskPause      time.Duration
	RequestTimeout time.Duration
	MaxAttempts    int
	Provider       string
	APIKey         string
	APIURL         string
	ModelName      string
	LogDir         string
	HTTPPort       string
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

const (
	defaultFilePattern  = "*.pdf"
	defaultPollInterval = 5
	defaultTaskPause    = 60
	defaultTimeout      = 120
	defaultMaxAttempts  = 3
	defaultProvider     = "gemini"
	defaultGeminiURL    = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	defaultModelName    = "gemini-2.0-flash"
)

// Resolve builds the Settings from command-line arguments and the
// environment. Flag defaults come from the environment, so an explicit
// flag always wins over an environment value.
func Resolve(args []string) (Settings, error) {
	fs := flag.NewFlagSet("pdfclerk", flag.ContinueOnError)

	inputDir := fs.String("input_dir", getEnv("INPUT_DIR", ""), "Directory to monitor for incoming PDF files (env: INPUT_DIR)")
	filePattern := fs.String("file_pattern", getEnv("FILE_PATTERN", defaultFilePattern), "File pattern to match, e.g. '*.pdf' (env: FILE_PATTERN)")
	outputDir := fs.String("output_dir", getEnv("OUTPUT_DIR", ""), "Directory where processed files are saved (env: OUTPUT_DIR)")
	pollInterval := fs.Int("poll_interval", getEnvAsInt("POLL_INTERVAL", defaultPollInterval), "Polling interval in seconds (env: POLL_INTERVAL)")
	taskPause := fs.Int("task_pause_time", getEnvAsInt("TASK_PAUSE_TIME", defaultTaskPause), "Pause in seconds between processing files (env: TASK_PAUSE_TIME)")
	requestTimeout := fs.Int("request_timeout", getEnvAsInt("REQUEST_TIMEOUT", defaultTimeout), "Timeout in seconds for a single LLM request (env: REQUEST_TIMEOUT)")
	maxAttempts := fs.Int("max_attempts", getEnvAsInt("MAX_ATTEMPTS", defaultMaxAttempts), "Failed attempts before a file is quarantined (env: MAX_ATTEMPTS)")
	quarantineDir := fs.String("quarantine_dir", getEnv("QUARANTINE_DIR", ""), "Directory for files that keep failing; defaults to <input_dir>/quarantine (env: QUARANTINE_DIR)")
	provider := fs.String("provider", getEnv("LLM_PROVIDER", defaultProvider), "LLM provider: gemini, openai or anthropic (env: LLM_PROVIDER)")
	apiURL := fs.String("api_url", getEnv("LLM_API_URL", ""), "LLM API endpoint; defaults to the provider's standard endpoint (env: LLM_API_URL)")
	modelName := fs.String("model_name", getEnv("LLM_MODEL", defaultModelName), "Model name sent to the LLM API (env: LLM_MODEL)")
	logDir := fs.String("log_dir", getEnv("LOG_DIR", "logs"), "Directory for daily log files (env: LOG_DIR)")
	httpPort := fs.String("http_port", getEnv("HTTP_PORT", "8087"), "Port for the local status server (env: HTTP_PORT)")

	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	s := Settings{
		Environment:    getEnv("ENVIRONMENT", "development"),
		InputDir:       *inputDir,
		FilePattern:    *filePattern,
		OutputDir:      *outputDir,
		QuarantineDir:  *quarantineDir,
		PollInterval:   time.Duration(*pollInterval) * time.Second,
		TaskPause:      time.Duration(*taskPause) * time.Second,
		RequestTimeout: time.Duration(*requestTimeout) * time.Second,
		MaxAttempts:    *maxAttempts,
		Provider:       *provider,
		APIKey:         getEnv("GEMINI_KEY", getEnv("LLM_API_KEY", "")),
		APIURL:         *apiURL,
		ModelName:      *modelName,
		LogDir:         *logDir,
		HTTPPort:       *httpPort,
	}
	if s.QuarantineDir == "" && s.InputDir != "" {
		s.QuarantineDir = filepath.Join(s.InputDir, "quarantine")
	}
	if s.APIURL == "" {
		s.APIURL = defaultAPIURL(s.Provider)
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func defaultAPIURL(provider string) string {
	switch provider {
	case "openai":
		return "https://api.openai.com/v1/chat/completions"
	case "anthropic":
		return "https://api.anthropic.com/v1/messages"
	default:
		return defaultGeminiURL
	}
}

func (s Settings) validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("API key not provided: set GEMINI_KEY or LLM_API_KEY in the environment or .env file")
	}
	switch s.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown LLM provider %q", s.Provider)
	}
	if s.InputDir == "" {
		return fmt.Errorf("input directory not provided: use --input_dir or set INPUT_DIR")
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output directory not provided: use --output_dir or set OUTPUT_DIR")
	}
	if err := checkReadableDir(s.InputDir); err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if err := checkWritableDir(s.OutputDir); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", s.PollInterval)
	}
	if s.TaskPause < 0 {
		return fmt.Errorf("task pause time must not be negative, got %v", s.TaskPause)
	}
	if s.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", s.MaxAttempts)
	}
	return nil
}

func checkReadableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("'%s' does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory", dir)
	}
	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("'%s' is not readable: %w", dir, err)
	}
	return nil
}

func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("'%s' does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory", dir)
	}
	probe, err := os.CreateTemp(dir, ".pdfclerk-probe-*")
	if err != nil {
		return fmt.Errorf("'%s' is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
