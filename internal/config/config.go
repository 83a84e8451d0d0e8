package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	IMAP IMAPConfig `mapstructure:"imap" yaml:"imap"`
	POP3 POP3Config `mapstructure:"pop3" yaml:"pop3"`
	SMTP SMTPConfig `mapstructure:"smtp" yaml:"smtp"`
	Auth AuthConfig `mapstructure:"auth" yaml:"auth"`
}

type IMAPConfig struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	TLS                bool   `mapstructure:"tls" yaml:"tls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type POP3Config struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	TLS                bool   `mapstructure:"tls" yaml:"tls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type SMTPConfig struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	TLS                bool   `mapstructure:"tls" yaml:"tls"`
	StartTLS           bool   `mapstructure:"starttls" yaml:"starttls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type AuthConfig struct {
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

const (
	imapTLSPort = 993
	imapPort    = 143
	pop3TLSPort = 995
	pop3Port    = 110
	smtpTLSPort = 465
	smtpPort    = 25
)

func DefaultConfig() Config {
	return Config{
		IMAP: IMAPConfig{Port: imapTLSPort, TLS: true},
		POP3: POP3Config{Port: pop3TLSPort, TLS: true},
		SMTP: SMTPConfig{Port: smtpTLSPort, TLS: true},
	}
}

func (c IMAPConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c POP3Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c SMTPConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// SetServer points every protocol section at the same host.
func (c *Config) SetServer(host string) {
	c.IMAP.Host = host
	c.POP3.Host = host
	c.SMTP.Host = host
}

// SetTLS toggles TLS on every section. Ports still at the default for the
// previous mode follow to the default for the new one; explicit ports stay.
func (c *Config) SetTLS(enabled bool) {
	c.IMAP.TLS = enabled
	c.POP3.TLS = enabled
	c.SMTP.TLS = enabled
	if enabled {
		swapPort(&c.IMAP.Port, imapPort, imapTLSPort)
		swapPort(&c.POP3.Port, pop3Port, pop3TLSPort)
		swapPort(&c.SMTP.Port, smtpPort, smtpTLSPort)
	} else {
		swapPort(&c.IMAP.Port, imapTLSPort, imapPort)
		swapPort(&c.POP3.Port, pop3TLSPort, pop3Port)
		swapPort(&c.SMTP.Port, smtpTLSPort, smtpPort)
	}
}

func swapPort(port *int, from, to int) {
	if *port == from {
		*port = to
	}
}

func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EMAILDUMPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("imap.host", cfg.IMAP.Host)
	v.SetDefault("imap.port", cfg.IMAP.Port)
	v.SetDefault("imap.tls", cfg.IMAP.TLS)
	v.SetDefault("imap.insecure_skip_verify", cfg.IMAP.InsecureSkipVerify)

	v.SetDefault("pop3.host", cfg.POP3.Host)
	v.SetDefault("pop3.port", cfg.POP3.Port)
	v.SetDefault("pop3.tls", cfg.POP3.TLS)
	v.SetDefault("pop3.insecure_skip_verify", cfg.POP3.InsecureSkipVerify)

	v.SetDefault("smtp.host", cfg.SMTP.Host)
	v.SetDefault("smtp.port", cfg.SMTP.Port)
	v.SetDefault("smtp.tls", cfg.SMTP.TLS)
	v.SetDefault("smtp.starttls", cfg.SMTP.StartTLS)
	v.SetDefault("smtp.insecure_skip_verify", cfg.SMTP.InsecureSkipVerify)

	v.SetDefault("auth.username", cfg.Auth.Username)
	v.SetDefault("auth.password", cfg.Auth.Password)
}

func ValidateIMAP(cfg Config) error {
	if cfg.IMAP.Host == "" {
		return fmt.Errorf("imap host is required (--server)")
	}
	return validateAuth(cfg)
}

func ValidatePOP3(cfg Config) error {
	if cfg.POP3.Host == "" {
		return fmt.Errorf("pop3 host is required (--server)")
	}
	return validateAuth(cfg)
}

func ValidateSMTP(cfg Config) error {
	if cfg.SMTP.Host == "" {
		return fmt.Errorf("smtp host is required (--server)")
	}
	return validateAuth(cfg)
}

func validateAuth(cfg Config) error {
	if cfg.Auth.Username == "" {
		return fmt.Errorf("username is required (--username)")
	}
	if cfg.Auth.Password == "" {
		return fmt.Errorf("password is required (--password)")
	}
	return nil
}
