package secrets

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

type fakeRing struct {
	keyring.Keyring
	items map[string][]byte
}

func (f *fakeRing) Set(item keyring.Item) error {
	f.items[item.Key] = item.Data
	return nil
}

func (f *fakeRing) Get(key string) (keyring.Item, error) {
	data, ok := f.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return keyring.Item{Key: key, Data: data}, nil
}

func withFakeRing(t *testing.T) *fakeRing {
	t.Helper()
	ring := &fakeRing{items: map[string][]byte{}}
	orig := openKeyringFunc
	openKeyringFunc = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { openKeyringFunc = orig })
	return ring
}

func TestSetGetPasswordRoundTrip(t *testing.T) {
	withFakeRing(t)

	if err := SetPassword("User@Example.com ", "hunter2"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	// Lookup is case/whitespace insensitive on the username.
	got, err := GetPassword("user@example.com")
	if err != nil {
		t.Fatalf("get password: %v", err)
	}
	if got != "hunter2" {
		t.Fatalf("expected hunter2, got %q", got)
	}
}

func TestGetPasswordNotFound(t *testing.T) {
	withFakeRing(t)

	_, err := GetPassword("nobody@example.com")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestSetPasswordValidation(t *testing.T) {
	withFakeRing(t)

	if err := SetPassword("", "x"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if err := SetPassword("user@example.com", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
