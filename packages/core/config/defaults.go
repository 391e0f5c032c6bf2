package config

import "time"

const (
	DefaultBaseURL      = "https://goals-twenty-six.preview.emergentagent.com"
	DefaultTimeout      = "10s"
	DefaultMaxRedirects = 10
	DefaultEmail        = "test_{{$date(20060102_150405)}}@example.com"
	DefaultPassword     = "TestPass123!"
	DefaultName         = "Test User"
	DefaultOutput       = "console"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// DefaultCategories are the categories a fresh account is expected to own.
var DefaultCategories = []string{"Health", "Professional", "Spiritual", "Hobbies"}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    DefaultMaxRedirects,
		ValidateSSL:     BoolPtr(true),
		Cleanup:         BoolPtr(false),
		Output:          DefaultOutput,
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		User: User{
			Email:    DefaultEmail,
			Password: DefaultPassword,
			Name:     DefaultName,
		},
		DefaultCategories: append([]string(nil), DefaultCategories...),
	}
}

// IsDefault reports whether c carries only default values.
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.BaseURL == d.BaseURL &&
		c.Timeout == d.Timeout &&
		c.GetFollowRedirects() == d.GetFollowRedirects() &&
		c.MaxRedirects == d.MaxRedirects &&
		c.GetValidateSSL() == d.GetValidateSSL() &&
		c.Proxy == "" &&
		len(c.Headers) == 0 &&
		len(c.Variables) == 0 &&
		c.RateLimit == 0 &&
		!c.GetCleanup() &&
		!c.GetStrictSchema() &&
		c.Output == d.Output &&
		c.OutputFile == "" &&
		c.MetricsFile == "" &&
		!c.GetVerbose() &&
		!c.GetNoColor() &&
		c.LogLevel == d.LogLevel &&
		c.LogFormat == d.LogFormat &&
		c.User == d.User &&
		equalStrings(c.DefaultCategories, d.DefaultCategories) &&
		c.Notify == d.Notify
}

// TimeoutDuration parses Timeout, falling back to the default for an empty value.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return time.ParseDuration(DefaultTimeout)
	}
	return time.ParseDuration(c.Timeout)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
