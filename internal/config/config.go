// ABOUTME: Configuration loader for the CLI
// ABOUTME: Merges defaults, the YAML config file, .env, and environment variables

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the backend address used when nothing else is configured
const DefaultAPIURL = "http://localhost:8000"

const configFile = "config.yaml"

// Config holds all CLI settings. Precedence, lowest to highest: built-in
// defaults, the YAML config file, then environment variables (including any
// loaded from a .env file in the working directory).
type Config struct {
	APIURL             string   `yaml:"apiUrl"`
	AskTimeout         int      `yaml:"askTimeoutSeconds"`  // seconds, default 30
	AcceptedExtensions []string `yaml:"acceptedExtensions"` // default .pdf, .doc, .docx
	StrictAnalyze      bool     `yaml:"strictAnalyze"`      // fail hard instead of fallback summary
	DocumentsCacheTTL  int      `yaml:"documentsCacheTTL"`  // seconds, default 60
}

// AskTimeoutDuration returns the ask timeout as a duration
func (c *Config) AskTimeoutDuration() time.Duration {
	return time.Duration(c.AskTimeout) * time.Second
}

// DocumentsCacheDuration returns the document list cache TTL as a duration
func (c *Config) DocumentsCacheDuration() time.Duration {
	return time.Duration(c.DocumentsCacheTTL) * time.Second
}

// Load builds the effective configuration. The config file lives in the
// given directory; a missing file or .env is not an error.
func Load(configDir string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:             DefaultAPIURL,
		AskTimeout:         30,
		AcceptedExtensions: []string{".pdf", ".doc", ".docx"},
		DocumentsCacheTTL:  60,
	}

	if err := cfg.loadFile(filepath.Join(configDir, configFile)); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	if cfg.AskTimeout < 1 {
		return nil, fmt.Errorf("ask timeout must be at least 1 second, got %d", cfg.AskTimeout)
	}
	for i, ext := range cfg.AcceptedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("accepted extension %q must start with a dot", ext)
		}
		cfg.AcceptedExtensions[i] = ext
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.APIURL = getEnv("LEXIBRIDGE_API_URL", c.APIURL)
	c.AskTimeout = getEnvInt("LEXIBRIDGE_ASK_TIMEOUT", c.AskTimeout)
	c.StrictAnalyze = getEnvBool("LEXIBRIDGE_STRICT_ANALYZE", c.StrictAnalyze)
	c.DocumentsCacheTTL = getEnvInt("LEXIBRIDGE_DOCUMENTS_CACHE_TTL", c.DocumentsCacheTTL)
	if exts := getEnvStringList("LEXIBRIDGE_ACCEPTED_EXTENSIONS"); len(exts) > 0 {
		c.AcceptedExtensions = exts
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
