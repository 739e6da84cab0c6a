package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/mines"
)

type CookieOptions struct {
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"samesite"`
}

type JWTOptions struct {
	PrivateKey     string        `mapstructure:"private_key"`
	PrivateKeyFile string        `mapstructure:"private_key_file"`
	PublicKey      string        `mapstructure:"public_key"`
	PublicKeyFile  string        `mapstructure:"public_key_file"`
	TokenLifetime  time.Duration `mapstructure:"token_lifetime"`
}

type App struct {
	Addr           string        `mapstructure:"addr"`
	BasePath       string        `mapstructure:"base_path"`
	Development    bool          `mapstructure:"development"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	TimerLimit     time.Duration `mapstructure:"timer_limit"`
	DefaultPreset  string        `mapstructure:"default_preset"`

	Cookies CookieOptions `mapstructure:"cookies"`
	JWT     JWTOptions    `mapstructure:"jwt"`
}

var envs = map[string]string{
	"addr":                 "APP_ADDR",
	"base_path":            "APP_BASE_PATH",
	"development":          "DEVELOPMENT",
	"log_level":            "LOG_LEVEL",
	"log_file":             "LOG_FILE",
	"session_ttl":          "SESSION_TTL",
	"rate_limit_rps":       "RATE_LIMIT_RPS",
	"rate_limit_burst":     "RATE_LIMIT_BURST",
	"tick_interval":        "TICK_INTERVAL",
	"timer_limit":          "TIMER_LIMIT",
	"default_preset":       "DEFAULT_PRESET",
	"cookies.domain":       "COOKIES_DOMAIN",
	"cookies.secure":       "COOKIES_SECURE",
	"cookies.samesite":     "COOKIES_SAMESITE",
	"jwt.private_key":      "JWT_PRIVATE_KEY",
	"jwt.private_key_file": "JWT_PRIVATE_KEY_FILE",
	"jwt.public_key":       "JWT_PUBLIC_KEY",
	"jwt.public_key_file":  "JWT_PUBLIC_KEY_FILE",
	"jwt.token_lifetime":   "JWT_TOKEN_LIFETIME",
}

// command-line flag name -> config key
var flagKeys = map[string]string{
	"addr":        "addr",
	"development": "development",
	"log-level":   "log_level",
	"log-file":    "log_file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")
	v.SetDefault("development", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("timer_limit", 0)
	v.SetDefault("default_preset", "easy")
	v.SetDefault("cookies.domain", "")
	v.SetDefault("cookies.secure", true)
	v.SetDefault("cookies.samesite", "strict")
	v.SetDefault("jwt.token_lifetime", 24*time.Hour)
}

// Load reads defaults, then the config file at path (if any), then the
// environment, then any flags that were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*App, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("unable to bind %s: %w", env, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("unable to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var cfg App
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *App) validate() error {
	var errs []error
	if _, ok := mines.Preset(c.DefaultPreset); !ok {
		errs = append(errs, fmt.Errorf(
			"unknown DEFAULT_PRESET %q (want one of %s)",
			c.DefaultPreset, strings.Join(mines.PresetNames(), ", "),
		))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c *App) Preset() mines.Params {
	p, _ := mines.Preset(c.DefaultPreset)
	return p
}
