package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	PresenceSQLite = "sqlite"
	PresenceBolt   = "bolt"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	SessionCookie string `mapstructure:"session_cookie"`

	DatabasePath    string        `mapstructure:"database_path"`
	PresenceBackend string        `mapstructure:"presence_backend"`
	BoltPath        string        `mapstructure:"bolt_path"`
	PersistTimeout  time.Duration `mapstructure:"persist_timeout"`

	JoinRateLimit    int           `mapstructure:"join_rate_limit"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval"`

	ICEServers []ICEServer `mapstructure:"ice_servers"`
}

// RegisterFlags adds the command-line overrides understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (default config/config.$CONFIG_ENV.yaml)")
	fs.Int("port", 0, "HTTP listen port")
	fs.String("mode", "", "gin mode: debug, release or test")
	fs.String("log-level", "", "zerolog level")
	fs.String("database-path", "", "SQLite database file")
}

// Load reads defaults, then the config file, then flags. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			fileName = f.Value.String()
		}
	}

	v.SetConfigFile(fileName)

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_cookie", "huddle")
	v.SetDefault("database_path", "./data/huddle.db")
	v.SetDefault("presence_backend", PresenceSQLite)
	v.SetDefault("bolt_path", "./data/presence.db")
	v.SetDefault("persist_timeout", "3s")
	v.SetDefault("join_rate_limit", 10)
	v.SetDefault("join_rate_interval", "10s")

	v.SetEnvPrefix("HUDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, flag := range map[string]string{
			"port":          "port",
			"mode":          "mode",
			"log_level":     "log-level",
			"database_path": "database-path",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Mode == "release" && c.Secret == "" {
		errs = append(errs, errors.New("secret is required in release mode"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.PingPeriod <= 0 || c.PongWait <= c.PingPeriod {
		errs = append(errs, errors.New("pong_wait must exceed a positive ping_period"))
	}
	if c.JoinRateLimit <= 0 || c.JoinRateInterval <= 0 {
		errs = append(errs, errors.New("join rate limit and interval must be positive"))
	}
	switch c.PresenceBackend {
	case PresenceSQLite, PresenceBolt:
	default:
		errs = append(errs, fmt.Errorf("unknown presence_backend %q", c.PresenceBackend))
	}
	for i, s := range c.ICEServers {
		if len(s.URLs) == 0 {
			errs = append(errs, fmt.Errorf("ice_servers[%d] has no urls", i))
		}
	}
	return errors.Join(errs...)
}
