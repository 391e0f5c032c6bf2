package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/env"
	"github.com/abdul-hamid-achik/goalcheck/packages/http"
)

// ErrInvalid marks configuration problems. Callers map it to a dedicated
// exit code.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the goalcheck configuration
type Config struct {
	BaseURL           string            `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	Timeout           string            `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	FollowRedirects   *bool             `yaml:"followRedirects,omitempty" json:"followRedirects,omitempty"`
	MaxRedirects      int               `yaml:"maxRedirects,omitempty" json:"maxRedirects,omitempty"`
	ValidateSSL       *bool             `yaml:"validateSSL,omitempty" json:"validateSSL,omitempty"`
	Proxy             string            `yaml:"proxy,omitempty" json:"proxy,omitempty"`
	Headers           map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Variables         map[string]string `yaml:"variables,omitempty" json:"variables,omitempty"` // referenced as {{name}}
	RateLimit         float64           `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"` // requests per second, 0 = unpaced
	Cleanup           *bool             `yaml:"cleanup,omitempty" json:"cleanup,omitempty"`
	StrictSchema      *bool             `yaml:"strictSchema,omitempty" json:"strictSchema,omitempty"`
	Output            string            `yaml:"output,omitempty" json:"output,omitempty"`
	OutputFile        string            `yaml:"outputFile,omitempty" json:"outputFile,omitempty"`
	MetricsFile       string            `yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"` // Prometheus textfile
	Verbose           *bool             `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	NoColor           *bool             `yaml:"noColor,omitempty" json:"noColor,omitempty"`
	LogLevel          string            `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat         string            `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	User              User              `yaml:"user,omitempty" json:"user,omitempty"`
	DefaultCategories []string          `yaml:"defaultCategories,omitempty" json:"defaultCategories,omitempty"`
	Notify            Notify            `yaml:"notify,omitempty" json:"notify,omitempty"`
}

// User holds the credentials of the throwaway account the suite registers.
type User struct {
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Notify configures the chat notification sent after a run.
type Notify struct {
	SlackWebhook string `yaml:"slackWebhook,omitempty" json:"slackWebhook,omitempty"`
	SlackChannel string `yaml:"slackChannel,omitempty" json:"slackChannel,omitempty"`
	// When is one of always, failure, success, recovery. Empty means failure.
	When string `yaml:"when,omitempty" json:"when,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

func (c *Config) GetCleanup() bool {
	return getBool(c.Cleanup, false)
}

// GetStrictSchema reports whether list payloads are also validated against
// JSON schemas, defaulting to false
func (c *Config) GetStrictSchema() bool {
	return getBool(c.StrictSchema, false)
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	"goalcheck.yaml",
	"goalcheck.yml",
	".goalcheck.yaml",
	"goalcheck.json",
}

// LoadConfig loads configuration from path, or searches the working
// directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches dir for a config file and returns defaults when
// none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}
	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	config := DefaultConfig()
	if isJSON(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
	}

	return config, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c
	result.Headers = nil
	if len(c.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = v
		}
	}
	result.Variables = nil
	if len(c.Variables) > 0 {
		result.Variables = make(map[string]string, len(c.Variables))
		for k, v := range c.Variables {
			result.Variables[k] = v
		}
	}

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout != "" {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.MetricsFile != "" {
		result.MetricsFile = other.MetricsFile
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}
	if other.User.Email != "" {
		result.User.Email = other.User.Email
	}
	if other.User.Password != "" {
		result.User.Password = other.User.Password
	}
	if other.User.Name != "" {
		result.User.Name = other.User.Name
	}
	if len(other.DefaultCategories) > 0 {
		result.DefaultCategories = append([]string(nil), other.DefaultCategories...)
	}
	if other.Notify.SlackWebhook != "" {
		result.Notify.SlackWebhook = other.Notify.SlackWebhook
	}
	if other.Notify.SlackChannel != "" {
		result.Notify.SlackChannel = other.Notify.SlackChannel
	}
	if other.Notify.When != "" {
		result.Notify.When = other.Notify.When
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Cleanup != nil {
		result.Cleanup = other.Cleanup
	}
	if other.StrictSchema != nil {
		result.StrictSchema = other.StrictSchema
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}
	if len(other.Variables) > 0 {
		if result.Variables == nil {
			result.Variables = make(map[string]string)
		}
		for k, v := range other.Variables {
			result.Variables[k] = v
		}
	}

	return &result
}

// Resolve returns a copy of c with {{...}} references expanded in every
// string value. Variables are registered on r first so other values can
// reference them.
func (c *Config) Resolve(r *env.Resolver) *Config {
	if len(c.Variables) > 0 {
		vars := make(map[string]any, len(c.Variables))
		for k, v := range c.Variables {
			vars[k] = r.Resolve(v)
		}
		r.SetVariables(vars)
	}

	result := c.Merge(&Config{})
	result.BaseURL = strings.TrimRight(r.Resolve(c.BaseURL), "/")
	result.Proxy = r.Resolve(c.Proxy)
	result.OutputFile = r.Resolve(c.OutputFile)
	result.MetricsFile = r.Resolve(c.MetricsFile)
	result.User = User{
		Email:    r.Resolve(c.User.Email),
		Password: r.Resolve(c.User.Password),
		Name:     r.Resolve(c.User.Name),
	}
	result.Notify.SlackWebhook = r.Resolve(c.Notify.SlackWebhook)
	result.Notify.SlackChannel = r.Resolve(c.Notify.SlackChannel)
	if len(c.Headers) > 0 {
		result.Headers = r.ResolveAll(c.Headers)
	}
	return result
}

var (
	validOutputs    = []string{"console", "json", "junit", "tap", "xlsx"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
	validNotifyWhen = []string{"always", "failure", "success", "recovery"}
)

// Validate checks that the resolved configuration can drive a run.
func (c *Config) Validate() error {
	if err := http.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("%w: baseUrl: %v", ErrInvalid, err)
	}
	d, err := c.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("%w: timeout: %v", ErrInvalid, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rateLimit must not be negative", ErrInvalid)
	}
	if c.Output != "" && !contains(validOutputs, c.Output) {
		return fmt.Errorf("%w: output must be one of %s, got %q", ErrInvalid, strings.Join(validOutputs, ", "), c.Output)
	}
	if c.Output == "xlsx" && c.OutputFile == "" {
		return fmt.Errorf("%w: output xlsx requires outputFile", ErrInvalid)
	}
	if c.LogLevel != "" && !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: logLevel must be one of %s, got %q", ErrInvalid, strings.Join(validLogLevels, ", "), c.LogLevel)
	}
	if c.LogFormat != "" && !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("%w: logFormat must be one of %s, got %q", ErrInvalid, strings.Join(validLogFormats, ", "), c.LogFormat)
	}
	if c.User.Email == "" || c.User.Password == "" {
		return fmt.Errorf("%w: user email and password are required", ErrInvalid)
	}
	if len(c.DefaultCategories) == 0 {
		return fmt.Errorf("%w: defaultCategories must not be empty", ErrInvalid)
	}
	if c.Notify.When != "" && !contains(validNotifyWhen, c.Notify.When) {
		return fmt.Errorf("%w: notify.when must be one of %s, got %q", ErrInvalid, strings.Join(validNotifyWhen, ", "), c.Notify.When)
	}
	if c.Notify.SlackWebhook != "" {
		if err := http.ValidateURL(c.Notify.SlackWebhook); err != nil {
			return fmt.Errorf("%w: notify.slackWebhook: %v", ErrInvalid, err)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SaveConfig writes the configuration to path as YAML, or JSON for a .json path.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
