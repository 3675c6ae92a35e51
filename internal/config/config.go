// Package config holds the process-wide defaults for talking to the
// Heretto Deploy API: upstream base URL, auth token, default
// organisation/deployment, portal base URL and locale. Values come from
// an optional YAML file overridden by HERETTO_* environment variables;
// explicit tool arguments always win over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the production Heretto Deploy API endpoint
	DefaultAPIBaseURL = "https://deploy.heretto.com/v3"

	// DefaultLocale is used for html-strings requests when nothing else is configured
	DefaultLocale = "en"

	// DefaultRateLimit is the upstream request budget in requests per second
	DefaultRateLimit = 5.0
)

// Config carries the resolved process-wide defaults
type Config struct {
	APIBaseURL    string  `yaml:"api_base_url"`
	DeployToken   string  `yaml:"deploy_token"`
	OrgID         string  `yaml:"default_organization_id"`
	DeploymentID  string  `yaml:"default_deployment_id"`
	PortalBaseURL string  `yaml:"portal_base_url"`
	Locale        string  `yaml:"default_locale"`
	RateLimit     float64 `yaml:"rate_limit"`
}

var (
	current *Config
	mu      sync.RWMutex
	once    sync.Once
	logger  *logrus.Logger
)

// Init loads the configuration and remembers the logger for reloads.
// Call after the environment is fully populated (i.e. after godotenv).
func Init(l *logrus.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
	Reload()
}

// Get returns the current configuration snapshot. Safe for concurrent use;
// callers must treat the result as read-only.
func Get() *Config {
	once.Do(func() {
		mu.Lock()
		if current == nil {
			current = load()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Reload re-reads the config file and environment. Used at startup and by
// the file watcher when the config file changes.
func Reload() {
	cfg := load()
	mu.Lock()
	current = cfg
	mu.Unlock()
	once.Do(func() {})
}

// load builds a Config from defaults, the optional YAML file, then environment overrides
func load() *Config {
	log := currentLogger()

	cfg := &Config{
		APIBaseURL: DefaultAPIBaseURL,
		Locale:     DefaultLocale,
		RateLimit:  DefaultRateLimit,
	}

	if path := FilePath(); path != "" {
		if err := cfg.mergeFile(path); err != nil && log != nil {
			log.WithField("file", path).WithField("error", err).Warn("Failed to load config file, continuing with environment only")
		}
	}

	cfg.mergeEnv(log)
	cfg.normalise(log)
	return cfg
}

// currentLogger returns the registered logger, or nil before Init
func currentLogger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// FilePath returns the config file location, or "" when no file exists.
// HERETTO_CONFIG_FILE overrides the default ~/.heretto-mcp/config.yml.
func FilePath() string {
	if custom := os.Getenv("HERETTO_CONFIG_FILE"); custom != "" {
		return custom
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(homeDir, ".heretto-mcp", "config.yml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// mergeFile overlays values from a YAML config file onto cfg
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := expandEnv(string(data))

	var fileCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.APIBaseURL != "" {
		c.APIBaseURL = fileCfg.APIBaseURL
	}
	if fileCfg.DeployToken != "" {
		c.DeployToken = fileCfg.DeployToken
	}
	if fileCfg.OrgID != "" {
		c.OrgID = fileCfg.OrgID
	}
	if fileCfg.DeploymentID != "" {
		c.DeploymentID = fileCfg.DeploymentID
	}
	if fileCfg.PortalBaseURL != "" {
		c.PortalBaseURL = fileCfg.PortalBaseURL
	}
	if fileCfg.Locale != "" {
		c.Locale = fileCfg.Locale
	}
	if fileCfg.RateLimit > 0 {
		c.RateLimit = fileCfg.RateLimit
	}
	return nil
}

// mergeEnv overlays HERETTO_* environment variables onto cfg (env wins over file)
func (c *Config) mergeEnv(log *logrus.Logger) {
	if v := os.Getenv("HERETTO_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("HERETTO_DEPLOY_TOKEN"); v != "" {
		c.DeployToken = v
	}
	if v := os.Getenv("HERETTO_DEFAULT_ORG_ID"); v != "" {
		c.OrgID = v
	}
	if v := os.Getenv("HERETTO_DEFAULT_DEPLOYMENT_ID"); v != "" {
		c.DeploymentID = v
	}
	if v := os.Getenv("HERETTO_PORTAL_BASE_URL"); v != "" {
		c.PortalBaseURL = v
	}
	if v := os.Getenv("HERETTO_DEFAULT_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("HERETTO_RATE_LIMIT"); v != "" {
		if limit, err := strconv.ParseFloat(v, 64); err == nil && limit > 0 {
			c.RateLimit = limit
		} else if log != nil {
			log.WithField("value", v).Warn("Invalid HERETTO_RATE_LIMIT, using default")
		}
	}
}

// normalise cleans up values after merging: trailing slashes are stripped so
// URL construction stays deterministic, and an unparseable locale falls back
// to the default rather than poisoning every html-strings request.
func (c *Config) normalise(log *logrus.Logger) {
	c.APIBaseURL = strings.TrimSuffix(strings.TrimSpace(c.APIBaseURL), "/")
	c.PortalBaseURL = strings.TrimSuffix(strings.TrimSpace(c.PortalBaseURL), "/")

	if _, err := language.Parse(c.Locale); err != nil {
		if log != nil {
			log.WithField("locale", c.Locale).Warn("Invalid default locale, falling back to en")
		}
		c.Locale = DefaultLocale
	}
}

// ResolveDeployment applies the argument precedence for the deployment scope:
// explicit argument, then configured default, then failure. Error messages
// name the environment variable that would supply the missing default.
func (c *Config) ResolveDeployment(args map[string]interface{}) (string, string, error) {
	org := c.OrgID
	if v, ok := args["organization_id"].(string); ok && strings.TrimSpace(v) != "" {
		org = strings.TrimSpace(v)
	}

	dep := c.DeploymentID
	if v, ok := args["deployment_id"].(string); ok && strings.TrimSpace(v) != "" {
		dep = strings.TrimSpace(v)
	}

	if org == "" {
		return "", "", fmt.Errorf("organization_id is required (set HERETTO_DEFAULT_ORG_ID to provide a default)")
	}
	if dep == "" {
		return "", "", fmt.Errorf("deployment_id is required (set HERETTO_DEFAULT_DEPLOYMENT_ID to provide a default)")
	}
	return org, dep, nil
}

// ValidateLocale checks a caller-supplied locale tag (BCP 47)
func ValidateLocale(locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return nil
}

// expandEnv substitutes ${VAR} and ${VAR:-default} references in config file content
func expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		if hasFallback {
			return fallback
		}
		return ""
	})
}
