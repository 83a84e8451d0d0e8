package secrets

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"github.com/lmsecure/email-dumper/internal/config"
)

const keyringPasswordEnv = "EMAILDUMPER_KEYRING_PASSWORD" //nolint:gosec // env var name, not a credential

var (
	ErrSecretNotFound = errors.New("secret not found")

	errMissingUsername = errors.New("missing username")
	errMissingPassword = errors.New("missing password")

	openKeyringFunc = openKeyring
)

func openKeyring() (keyring.Keyring, error) {
	dir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:              config.AppName,
		KeychainTrustApplication: false,
		FileDir:                  dir,
		FilePasswordFunc:         filePasswordFunc(),
	}

	// Headless Linux: D-Bus SecretService hangs when gnome-keyring is
	// installed but not running, so fall straight back to the file backend.
	if runtime.GOOS == "linux" && os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

func filePasswordFunc() keyring.PromptFunc {
	if password, ok := os.LookupEnv(keyringPasswordEnv); ok {
		return keyring.FixedStringPrompt(password)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return keyring.TerminalPrompt
	}
	return func(string) (string, error) {
		return "", fmt.Errorf("no TTY for keyring passphrase; set %s", keyringPasswordEnv)
	}
}

func SetPassword(username, password string) error {
	user := normalize(username)
	if user == "" {
		return errMissingUsername
	}
	if password == "" {
		return errMissingPassword
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return err
	}

	item := keyring.Item{
		Key:   passwordKey(user),
		Data:  []byte(password),
		Label: config.AppName,
	}
	if err := ring.Set(item); err != nil {
		return fmt.Errorf("store secret: %w", err)
	}
	return nil
}

func GetPassword(username string) (string, error) {
	user := normalize(username)
	if user == "" {
		return "", errMissingUsername
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(passwordKey(user))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(item.Data), nil
}

func passwordKey(username string) string {
	return fmt.Sprintf("auth:password:%s", username)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
