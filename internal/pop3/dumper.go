// Package pop3 exports the flat POP3 mailbox view. POP3 has no folders and
// no flags; every message the server counts is retrieved once, in index
// order, and written out verbatim.
package pop3

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb"
	gopop3 "github.com/knadh/go-pop3"
	"github.com/sirupsen/logrus"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/dump"
	"github.com/lmsecure/email-dumper/internal/logging"
)

// Conn is the subset of the go-pop3 connection the exporter drives.
type Conn interface {
	Stat() (int, int, error)
	RetrRaw(id int) (*bytes.Buffer, error)
	Quit() error
}

// Dialer opens an authenticated session.
type Dialer func(cfg config.Config) (Conn, error)

// Connect dials the configured POP3 server and authenticates. Dial failures
// map to dump.ErrConnect, rejected credentials to dump.ErrAuth.
func Connect(cfg config.Config) (Conn, error) {
	p := gopop3.New(gopop3.Opt{
		Host:          cfg.POP3.Host,
		Port:          cfg.POP3.Port,
		TLSEnabled:    cfg.POP3.TLS,
		TLSSkipVerify: cfg.POP3.InsecureSkipVerify,
	})

	conn, err := p.NewConn()
	if err != nil {
		return nil, dump.ConnectError(cfg.POP3.Addr(), err)
	}

	if err := conn.Auth(cfg.Auth.Username, cfg.Auth.Password); err != nil {
		_ = conn.Quit()
		return nil, dump.AuthError(err)
	}

	return conn, nil
}

type Dumper struct {
	Dial     Dialer
	Log      *logrus.Logger
	Progress io.Writer

	cfg config.Config
}

var _ dump.Dumper = (*Dumper)(nil)

func NewDumper(cfg config.Config) *Dumper {
	return &Dumper{
		Dial:     Connect,
		Log:      logging.New(),
		Progress: os.Stdout,
		cfg:      cfg,
	}
}

// DumpAll retrieves every message in the mailbox into destination. The
// destination directory is created even when the mailbox is empty.
func (d *Dumper) DumpAll(destination string) error {
	conn, err := d.Dial(d.cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Quit()
	}()

	if err := dump.EnsureDir(destination); err != nil {
		return err
	}

	count, _, err := conn.Stat()
	if err != nil {
		return fmt.Errorf("count messages: %w", err)
	}
	if count == 0 {
		return nil
	}

	bar := pb.New(count)
	bar.Output = d.Progress
	bar.Start()
	defer bar.Finish()

	for id := 1; id <= count; id++ {
		buf, err := conn.RetrRaw(id)
		if err != nil {
			d.Log.WithError(err).WithField("message", id).Warn("retrieve failed, message skipped")
			bar.Increment()
			continue
		}

		path := filepath.Join(destination, dump.NewArtifactName())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		bar.Increment()
	}

	return nil
}
