package contact

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the SMTP submission port.
	DefaultPort = 587
	// DefaultRecipientName is who the notification is addressed to.
	DefaultRecipientName = "Konstantin Beran"
)

// ErrMissingConfig is returned when mail settings are incomplete.
var ErrMissingConfig = errors.New("mail configuration is not set")

// Config holds the mail transport settings.
type Config struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Email         string `yaml:"email"`
	Password      string `yaml:"password"`
	Recipient     string `yaml:"recipient"`
	RecipientName string `yaml:"recipient_name"`
}

// ConfigFromEnv reads HOST, EMAIL, PASSWORD, RECIPIENT_EMAIL and SMTP_PORT.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Host:          os.Getenv("HOST"),
		Port:          DefaultPort,
		Email:         os.Getenv("EMAIL"),
		Password:      os.Getenv("PASSWORD"),
		Recipient:     os.Getenv("RECIPIENT_EMAIL"),
		RecipientName: DefaultRecipientName,
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid SMTP_PORT")
		}
		cfg.Port = p
	}

	return cfg, nil
}

// LoadFile reads a yaml file over cfg. Settings the file leaves out keep
// their current value.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "failed to parse config file")
	}

	return nil
}

// Validate reports which required settings are missing.
func (cfg Config) Validate() error {
	var missing []string

	if cfg.Host == "" {
		missing = append(missing, "HOST")
	}

	if cfg.Email == "" {
		missing = append(missing, "EMAIL")
	}

	if cfg.Password == "" {
		missing = append(missing, "PASSWORD")
	}

	if cfg.Recipient == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}

	if len(missing) > 0 {
		return errors.Wrap(ErrMissingConfig, "missing "+strings.Join(missing, ", "))
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.Errorf("smtp port out of range: %d", cfg.Port)
	}

	return nil
}
