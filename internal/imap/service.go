package imap

import (
	"crypto/tls"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/dump"
)

// Client is the subset of the go-imap client the exporter drives. The
// concrete *client.Client satisfies it; tests substitute fakes.
type Client interface {
	Login(username, password string) error
	Logout() error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Unselect() error
	List(ref, name string, ch chan *imap.MailboxInfo) error
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
}

// Connector opens an authenticated session.
type Connector func(cfg config.Config) (Client, error)

// Connect dials the configured IMAP server and logs in. Dial failures map to
// dump.ErrConnect, rejected credentials to dump.ErrAuth.
func Connect(cfg config.Config) (Client, error) {
	addr := cfg.IMAP.Addr()

	var c *imapclient.Client
	var err error
	if cfg.IMAP.TLS {
		tlsConfig := &tls.Config{
			ServerName:         cfg.IMAP.Host,
			InsecureSkipVerify: cfg.IMAP.InsecureSkipVerify,
		}
		c, err = imapclient.DialTLS(addr, tlsConfig)
	} else {
		c, err = imapclient.Dial(addr)
	}
	if err != nil {
		return nil, dump.ConnectError(addr, err)
	}

	if err := c.Login(cfg.Auth.Username, cfg.Auth.Password); err != nil {
		_ = c.Logout()
		return nil, dump.AuthError(err)
	}

	return c, nil
}
