package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type AuthConfig struct {
	SecretKey    string        `mapstructure:"secretKey"`
	TokenTTL     time.Duration `mapstructure:"tokenTTL"`
	Issuer       string        `mapstructure:"issuer"`
	CookieName   string        `mapstructure:"cookieName"`
	CookieMaxAge int           `mapstructure:"cookieMaxAge"`
	BcryptCost   int           `mapstructure:"bcryptCost"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	}
	Auth   AuthConfig `mapstructure:"auth"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

// IsProduction controls the Secure attribute on session cookies.
func (c *Config) IsProduction() bool {
	return c.Mode == "production"
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	applyEnvOverrides(&config)

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// applyEnvOverrides layers deployment-time environment variables over the
// file/embedded config. Secrets only ever come from the environment.
func applyEnvOverrides(cfg *Config) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.SecretKey = secret
	}
	ttl := os.Getenv("JWT_EXPIRES_IN")
	if ttl == "" {
		ttl = os.Getenv("JWT_EXPIRATION")
	}
	if ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
	if name := os.Getenv("COOKIE_NAME"); name != "" {
		cfg.Auth.CookieName = name
	}
	if maxAge := os.Getenv("COOKIE_MAX_AGE"); maxAge != "" {
		if n, err := strconv.Atoi(maxAge); err == nil {
			cfg.Auth.CookieMaxAge = n
		}
	}
	if cost := os.Getenv("SALT_ROUNDS"); cost != "" {
		if n, err := strconv.Atoi(cost); err == nil {
			cfg.Auth.BcryptCost = n
		}
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Mode = env
	}
}

// Validate rejects configurations that would make issued tokens forgeable or
// immediately unusable. A missing signing secret is a hard startup failure.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("config: JWT signing secret is not set (JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: token TTL must be positive")
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "_sess_auth"
	}
	if c.Auth.CookieMaxAge <= 0 {
		c.Auth.CookieMaxAge = 86400
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	return nil
}
