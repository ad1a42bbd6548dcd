package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("github-sign-in version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	GitHub  GitHubConfig  `mapstructure:"github"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// GitHubConfig holds the OAuth application credentials and the endpoint
// overrides. It is built once at startup and injected into the auth service;
// nothing mutates it afterwards.
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// AuthorizeURL and TokenURL default to GitHub's OAuth endpoints. An
	// override may carry its own query parameters; they are preserved when
	// the authorization URL is built.
	AuthorizeURL string `mapstructure:"authorize_url"`
	TokenURL     string `mapstructure:"token_url"`

	// APIBaseURL is the base URL for profile fetches.
	APIBaseURL string `mapstructure:"api_base_url"`

	Scopes    string `mapstructure:"scopes"`
	MountPath string `mapstructure:"mount_path"`

	// CookieSecret signs the short-lived flash cookies that carry state
	// between the authorization request and the callback.
	CookieSecret  string        `mapstructure:"cookie_secret"`
	CookieTTL     time.Duration `mapstructure:"cookie_ttl"`
	SecureCookies bool          `mapstructure:"secure_cookies"`
}

const (
	DefaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	DefaultTokenURL     = "https://github.com/login/oauth/access_token"
	DefaultAPIBaseURL   = "https://api.github.com"
	DefaultScopes       = "user:email read:user"
	DefaultMountPath    = "/github_sign_in"
)

// Load reads configuration from config.yaml, environment variables with the
// GITHUB_SIGN_IN prefix, and the given flag set (may be nil). Flags win over
// environment variables, which win over the file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("GITHUB_SIGN_IN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		if err := viper.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	// Every key needs a default so Unmarshal sees values that arrive only
	// through the environment.
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.disable_stacktrace", false)
	viper.SetDefault("github.client_id", "")
	viper.SetDefault("github.client_secret", "")
	viper.SetDefault("github.cookie_secret", "")
	viper.SetDefault("github.secure_cookies", false)
	viper.SetDefault("github.authorize_url", DefaultAuthorizeURL)
	viper.SetDefault("github.token_url", DefaultTokenURL)
	viper.SetDefault("github.api_base_url", DefaultAPIBaseURL)
	viper.SetDefault("github.scopes", DefaultScopes)
	viper.SetDefault("github.mount_path", DefaultMountPath)
	viper.SetDefault("github.cookie_ttl", 10*time.Minute)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/github-sign-in")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; env vars and flags can carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.GitHub.ClientID == "" {
		return nil, fmt.Errorf("github.client_id is required, set it in config.yaml or via GITHUB_SIGN_IN_GITHUB_CLIENT_ID")
	}
	if config.GitHub.ClientSecret == "" {
		return nil, fmt.Errorf("github.client_secret is required, set it in config.yaml or via GITHUB_SIGN_IN_GITHUB_CLIENT_SECRET")
	}
	if config.GitHub.CookieSecret == "" {
		return nil, fmt.Errorf("github.cookie_secret is required, set it in config.yaml or via GITHUB_SIGN_IN_GITHUB_COOKIE_SECRET")
	}

	return &config, nil
}
