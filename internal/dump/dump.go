// Package dump holds the contract shared by the IMAP and POP3 exporters:
// the Dumper capability, the session error taxonomy, and artifact naming.
package dump

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Dumper exports every message of a mailbox under destination, one file per
// message.
type Dumper interface {
	DumpAll(destination string) error
}

var (
	// ErrAuth marks rejected credentials during session setup.
	ErrAuth = errors.New("invalid username or password")
	// ErrConnect marks a server that could not be reached at all.
	ErrConnect = errors.New("cannot reach server")
)

// AuthError wraps err so that errors.Is(err, ErrAuth) holds.
func AuthError(err error) error {
	return fmt.Errorf("%w: %v", ErrAuth, err)
}

// ConnectError wraps err, naming the address that failed.
func ConnectError(addr string, err error) error {
	return fmt.Errorf("%w %q: %v", ErrConnect, addr, err)
}

const artifactExt = ".eml"

// NewArtifactName returns a filename for one exported message. Names are
// random, so two export runs against the same mailbox never overwrite each
// other; they duplicate.
func NewArtifactName() string {
	return uuid.NewString() + artifactExt
}

func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("ensure output dir %s: %w", path, err)
	}
	return nil
}
