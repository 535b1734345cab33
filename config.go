package foundry

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tfkr-ae/foundry/carousel"
)

// EnvPrefix prefixes environment overrides, e.g. FOUNDRY_LISTEN_PORT or
// FOUNDRY_CAROUSEL_INTERVAL.
const EnvPrefix = "FOUNDRY"

// CarouselConfig is the carousel section of config.yaml. Durations are strings
// such as "3s" or "700ms".
type CarouselConfig struct {
	ItemsPerPage int    `mapstructure:"items_per_page"`
	Interval     string `mapstructure:"interval"`
	Transition   string `mapstructure:"transition"`
	Mode         string `mapstructure:"mode"`
}

// Config holds the site settings.
type Config struct {
	ListenAddress string         `mapstructure:"listen_address"` // Address the server binds to
	ListenPort    string         `mapstructure:"listen_port"`    // Port the server binds to
	Database      string         `mapstructure:"database"`       // SQLite file, relative to the config dir
	PrettyJSON    bool           `mapstructure:"pretty_json"`    // Indent every API response
	Compression   bool           `mapstructure:"compression"`    // Brotli encode responses when accepted
	FormatHTML    bool           `mapstructure:"format_html"`    // Indent the rendered pages
	TLSCertFile   string         `mapstructure:"tls_cert_file"`  // Optional certificate for TLS on the same port
	TLSKeyFile    string         `mapstructure:"tls_key_file"`   // Key matching TLSCertFile
	Carousel      CarouselConfig `mapstructure:"carousel"`
}

// DefaultConfig returns the settings written to a fresh config.yaml.
func DefaultConfig() Config {
	defaults := carousel.DefaultConfig()
	return Config{
		ListenAddress: "127.0.0.1",
		ListenPort:    "8080",
		Database:      "foundry.db",
		Compression:   true,
		FormatHTML:    true,
		Carousel: CarouselConfig{
			ItemsPerPage: defaults.ItemsPerPage,
			Interval:     defaults.Interval.String(),
			Transition:   defaults.TransitionDuration.String(),
			Mode:         defaults.Mode.String(),
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("listen_address", defaults.ListenAddress)
	v.SetDefault("listen_port", defaults.ListenPort)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("pretty_json", defaults.PrettyJSON)
	v.SetDefault("compression", defaults.Compression)
	v.SetDefault("format_html", defaults.FormatHTML)
	v.SetDefault("tls_cert_file", "")
	v.SetDefault("tls_key_file", "")
	v.SetDefault("carousel.items_per_page", defaults.Carousel.ItemsPerPage)
	v.SetDefault("carousel.interval", defaults.Carousel.Interval)
	v.SetDefault("carousel.transition", defaults.Carousel.Transition)
	v.SetDefault("carousel.mode", defaults.Carousel.Mode)
}

// ParseCarousel parses and validates the carousel section.
func (cfg Config) ParseCarousel() (carousel.Config, error) {
	interval, err := time.ParseDuration(cfg.Carousel.Interval)
	if err != nil {
		return carousel.Config{}, fmt.Errorf("parsing carousel interval: %w", err)
	}
	transition, err := time.ParseDuration(cfg.Carousel.Transition)
	if err != nil {
		return carousel.Config{}, fmt.Errorf("parsing carousel transition: %w", err)
	}
	mode, err := carousel.ParseMode(cfg.Carousel.Mode)
	if err != nil {
		return carousel.Config{}, err
	}

	c := carousel.Config{
		ItemsPerPage:       cfg.Carousel.ItemsPerPage,
		Interval:           interval,
		TransitionDuration: transition,
		Mode:               mode,
	}
	if err := c.Validate(); err != nil {
		return carousel.Config{}, err
	}
	return c, nil
}

// TLSConfig loads the configured key pair. It returns nil when TLS is not
// configured, in which case the server speaks plain HTTP only.
func (cfg Config) TLSConfig() (*tls.Config, error) {
	if cfg.TLSCertFile == "" && cfg.TLSKeyFile == "" {
		return nil, nil
	}
	if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		return nil, errors.New("tls_cert_file and tls_key_file must be set together")
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading tls key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// WithConfigDir configures the app to use the specified configuration directory.
// It creates the directory if it doesn't exist, writes config.yaml with the
// defaults on first run and adds any missing keys on later runs. A .env file in
// the directory and FOUNDRY_* environment variables override the file; those
// overrides are never written back.
func WithConfigDir(appConfigDir string) func(*App) error {
	return func(app *App) error {
		if err := os.MkdirAll(appConfigDir, 0700); err != nil {
			return fmt.Errorf("creating config dir %s: %w", appConfigDir, err)
		}
		app.ConfigDir = appConfigDir

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(appConfigDir)
		setDefaults(v)

		err := v.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config file : %w", err)
			}
			if err := v.SafeWriteConfig(); err != nil {
				return fmt.Errorf("writing config file : %w", err)
			}
		} else if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("rewriting config file : %w", err)
		}

		envFile := filepath.Join(appConfigDir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.Unmarshal(&app.Config); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}
		if _, err := app.Config.ParseCarousel(); err != nil {
			return fmt.Errorf("validating carousel config: %w", err)
		}
		return nil
	}
}
