package fs

import (
	"strings"
	"time"
)

// Global
var (
	// Config is the global config
	Config = NewConfig()

	// ConfigPrefix is prepended to environment variable names which
	// override config values
	ConfigPrefix = "MYBOX_"
)

// ConfigInfo is the global config for HTTP and logging
type ConfigInfo struct {
	LogLevel           LogLevel
	UseJSONLog         bool
	ConnectTimeout     time.Duration // Connect timeout
	Timeout            time.Duration // Data channel timeout
	Dump               DumpFlags
	InsecureSkipVerify bool // Skip server certificate verification
	NoGzip             bool // Disable compression
	TPSLimit           float64
	TPSLimitBurst      int
	UserAgent          string
}

// NewConfig creates a new config with everything set to the default
// value.  These are the ultimate defaults and are overridden by the
// config module.
func NewConfig() *ConfigInfo {
	c := new(ConfigInfo)

	// Set any values which aren't the zero for the type
	c.LogLevel = LogLevelNotice
	c.ConnectTimeout = 60 * time.Second
	c.Timeout = 5 * 60 * time.Second
	c.TPSLimitBurst = 1
	c.UserAgent = "mybox/" + Version

	return c
}

// Copy returns a shallow copy of the config
func (c *ConfigInfo) Copy() *ConfigInfo {
	newConfig := *c
	return &newConfig
}

// OptionToEnv converts an option name, e.g. "otp_timeout" into an
// environment name "MYBOX_OTP_TIMEOUT"
func OptionToEnv(name string) string {
	return ConfigPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
}
