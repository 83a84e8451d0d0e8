package config

import (
	"testing"
)

func TestLoadConfigWithEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := DefaultConfig()
	cfg.SetServer("mail.example.com")
	cfg.Auth.Username = "user@example.com"
	cfg.Auth.Password = "secret"

	if _, err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv("EMAILDUMPER_IMAP_HOST", "env.imap.local")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if loaded.IMAP.Host != "env.imap.local" {
		t.Fatalf("expected env override, got %q", loaded.IMAP.Host)
	}
	if loaded.POP3.Host != "mail.example.com" {
		t.Fatalf("expected pop3 host from file, got %q", loaded.POP3.Host)
	}
	if loaded.Auth.Username != "user@example.com" {
		t.Fatalf("expected username from file, got %q", loaded.Auth.Username)
	}
}

func TestLoadConfigPasswordFromEnvOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EMAILDUMPER_AUTH_PASSWORD", "hunter2")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.Auth.Password != "hunter2" {
		t.Fatalf("expected password from env, got %q", loaded.Auth.Password)
	}
}

func TestSetTLSSwapsDefaultPorts(t *testing.T) {
	cfg := DefaultConfig()

	cfg.SetTLS(false)
	if cfg.IMAP.Port != 143 || cfg.POP3.Port != 110 || cfg.SMTP.Port != 25 {
		t.Fatalf("expected plaintext ports, got %d/%d/%d", cfg.IMAP.Port, cfg.POP3.Port, cfg.SMTP.Port)
	}
	if cfg.IMAP.TLS || cfg.POP3.TLS || cfg.SMTP.TLS {
		t.Fatal("expected TLS disabled on all sections")
	}

	cfg.SetTLS(true)
	if cfg.IMAP.Port != 993 || cfg.POP3.Port != 995 || cfg.SMTP.Port != 465 {
		t.Fatalf("expected TLS ports, got %d/%d/%d", cfg.IMAP.Port, cfg.POP3.Port, cfg.SMTP.Port)
	}
}

func TestSetTLSKeepsExplicitPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IMAP.Port = 10993

	cfg.SetTLS(false)
	if cfg.IMAP.Port != 10993 {
		t.Fatalf("explicit port changed to %d", cfg.IMAP.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateIMAP(cfg); err == nil {
		t.Fatal("expected error for missing host")
	}

	cfg.SetServer("mail.example.com")
	if err := ValidatePOP3(cfg); err == nil {
		t.Fatal("expected error for missing username")
	}

	cfg.Auth.Username = "user"
	cfg.Auth.Password = "pass"
	if err := ValidateIMAP(cfg); err != nil {
		t.Fatalf("imap: %v", err)
	}
	if err := ValidatePOP3(cfg); err != nil {
		t.Fatalf("pop3: %v", err)
	}
	if err := ValidateSMTP(cfg); err != nil {
		t.Fatalf("smtp: %v", err)
	}
}
