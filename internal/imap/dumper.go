package imap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cheggaaa/pb"
	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"

	"github.com/lmsecure/email-dumper/internal/config"
	"github.com/lmsecure/email-dumper/internal/dump"
	"github.com/lmsecure/email-dumper/internal/logging"
)

// Dumper exports every folder of an IMAP account. One session per operation;
// folders are walked strictly sequentially.
type Dumper struct {
	Connector Connector
	Log       *logrus.Logger
	Progress  io.Writer

	cfg config.Config
}

var _ dump.Dumper = (*Dumper)(nil)

func NewDumper(cfg config.Config) *Dumper {
	return &Dumper{
		Connector: Connect,
		Log:       logging.New(),
		Progress:  os.Stdout,
		cfg:       cfg,
	}
}

func (d *Dumper) withClient(fn func(Client) error) error {
	client, err := d.Connector(d.cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Logout()
	}()
	return fn(client)
}

// ListFolders returns the names of every folder the server lists.
func (d *Dumper) ListFolders() ([]string, error) {
	var folders []string
	err := d.withClient(func(c Client) error {
		var innerErr error
		folders, innerErr = listFolders(c)
		return innerErr
	})
	return folders, err
}

// DumpFolder exports a single folder into destination/folder.
func (d *Dumper) DumpFolder(folder, destination string) error {
	return d.withClient(func(c Client) error {
		return d.dumpFolder(c, folder, destination)
	})
}

// DumpAll exports every folder. A folder that cannot be exported is reported
// and skipped; its siblings still run.
func (d *Dumper) DumpAll(destination string) error {
	return d.withClient(func(c Client) error {
		folders, err := listFolders(c)
		if err != nil {
			return err
		}
		for _, folder := range folders {
			if err := d.dumpFolder(c, folder, destination); err != nil {
				d.Log.WithError(err).WithField("folder", folder).Warn("folder skipped")
			}
		}
		return nil
	})
}

func listFolders(c Client) ([]string, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", ch)
	}()
	folders := []string{}
	for mbox := range ch {
		folders = append(folders, mbox.Name)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (d *Dumper) dumpFolder(c Client, folder, destination string) error {
	if _, err := c.Select(folder, false); err != nil {
		return fmt.Errorf("select folder %q: %w", folder, err)
	}
	defer func() {
		_ = c.Unselect()
	}()

	uids, err := c.UidSearch(imap.NewSearchCriteria())
	if err != nil {
		return fmt.Errorf("enumerate folder %q: %w", folder, err)
	}
	if len(uids) == 0 {
		return nil
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	// Snapshot flags before any body fetch; BODY[] sets \Seen server-side.
	flags, err := fetchFlags(c, uids)
	if err != nil {
		return fmt.Errorf("fetch flags in %q: %w", folder, err)
	}

	target := filepath.Join(destination, folder)
	if err := dump.EnsureDir(target); err != nil {
		return err
	}

	bar := pb.New(len(uids))
	bar.Output = d.Progress
	bar.Start()
	defer bar.Finish()

	for _, uid := range uids {
		raw, err := fetchRaw(c, uid)
		if err != nil {
			d.Log.WithError(err).WithFields(logrus.Fields{"folder": folder, "uid": uid}).
				Warn("fetch failed, message skipped")
			bar.Increment()
			continue
		}

		if err := restoreFlags(c, uid, flags[uid]); err != nil {
			d.Log.WithError(err).WithFields(logrus.Fields{"folder": folder, "uid": uid}).
				Warn("could not restore flags")
		}

		path := filepath.Join(target, dump.NewArtifactName())
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		bar.Increment()
	}

	return nil
}

func fetchFlags(c Client, uids []uint32) (map[uint32][]string, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	ch := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, []imap.FetchItem{imap.FetchFlags, imap.FetchUid}, ch)
	}()

	flags := make(map[uint32][]string, len(uids))
	for msg := range ch {
		if msg == nil {
			continue
		}
		flags[msg.Uid] = append([]string{}, msg.Flags...)
	}
	if err := <-done; err != nil {
		return nil, err
	}
	return flags, nil
}

func fetchRaw(c Client, uid uint32) ([]byte, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, ch)
	}()

	msg := <-ch
	if err := <-done; err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %d not found", uid)
	}
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message %d has no body", uid)
	}
	return io.ReadAll(body)
}

func restoreFlags(c Client, uid uint32, flags []string) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	// \Recent is server-owned and rejected by STORE.
	values := make([]interface{}, 0, len(flags))
	for _, flag := range flags {
		if flag == imap.RecentFlag {
			continue
		}
		values = append(values, flag)
	}

	item := imap.FormatFlagsOp(imap.SetFlags, true)
	return c.UidStore(seqset, item, values, nil)
}
