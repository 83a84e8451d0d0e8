package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/secrets"
)

// resolveConfig layers the global flags over the loaded config and settles on
// a password source: flag, env/config file, keyring, then interactive prompt.
func resolveConfig(cmd *cobra.Command, opts *globalOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if cmd.Root().PersistentFlags().Changed("ssl") {
		cfg.SetTLS(opts.ssl)
	}
	if opts.server != "" {
		cfg.SetServer(opts.server)
	}
	if opts.username != "" {
		cfg.Auth.Username = opts.username
	}
	if opts.password != "" {
		cfg.Auth.Password = opts.password
		return cfg, nil
	}

	if cfg.Auth.Password != "" || cfg.Auth.Username == "" {
		return cfg, nil
	}

	password, err := secrets.GetPassword(cfg.Auth.Username)
	if err == nil {
		cfg.Auth.Password = password
		return cfg, nil
	}
	if !errors.Is(err, secrets.ErrSecretNotFound) {
		return cfg, err
	}

	password, err = promptPassword(cfg.Auth.Username)
	if err != nil {
		return cfg, err
	}
	cfg.Auth.Password = password
	return cfg, nil
}

func promptPassword(username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password provided for %q", username)
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(data), nil
}
