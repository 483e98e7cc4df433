package inbox

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Client is the slice of IMAP the poller uses. UIDs are IMAP UIDs, not
// sequence numbers, so they stay valid across polls.
type Client interface {
	Login(user, password string) error
	SelectMailbox(name string) error
	ListUnseenUIDs() ([]uint32, error)
	FetchRaw(uid uint32) ([]byte, error)
	MarkSeen(uid uint32) error
	Close() error
}

// IMAPClient implements Client over a TLS connection.
type IMAPClient struct {
	client *client.Client
}

// DialTLS connects to addr (host:port) with a 30s command timeout.
func DialTLS(addr string) (*IMAPClient, error) {
	cl, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("IMAP connection error: %w", err)
	}
	cl.Timeout = 30 * time.Second
	return &IMAPClient{client: cl}, nil
}

func (c *IMAPClient) Login(user, password string) error {
	return c.client.Login(user, password)
}

func (c *IMAPClient) SelectMailbox(name string) error {
	_, err := c.client.Select(name, false)
	return err
}

func (c *IMAPClient) ListUnseenUIDs() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	uids, err := c.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("error searching unseen emails: %w", err)
	}
	return uids, nil
}

// FetchRaw returns the full RFC 5322 message without setting \Seen.
func (c *IMAPClient) FetchRaw(uid uint32) ([]byte, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching message UID %d: %w", uid, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("no message retrieved for UID %d", uid)
	}

	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("empty body for UID %d", uid)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("read body of UID %d: %w", uid, err)
	}
	return buf.Bytes(), nil
}

func (c *IMAPClient) MarkSeen(uid uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	return c.client.UidStore(seqSet, item, flags, nil)
}

func (c *IMAPClient) Close() error {
	return c.client.Logout()
}
