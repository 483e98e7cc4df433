package inbox

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-backend/config"
	"procurement-backend/inbound"
	"procurement-backend/models"
	"procurement-backend/services"
)

type fakeClient struct {
	messages map[uint32]string
	seen     []uint32
	fetched  []uint32
	loginErr error
	closed   bool
}

func (f *fakeClient) Login(user, password string) error { return f.loginErr }

func (f *fakeClient) SelectMailbox(string) error { return nil }

func (f *fakeClient) ListUnseenUIDs() ([]uint32, error) {
	uids := []uint32{}
	for uid := uint32(1); uid <= uint32(len(f.messages)); uid++ {
		uids = append(uids, uid)
	}
	return uids, nil
}

func (f *fakeClient) FetchRaw(uid uint32) ([]byte, error) {
	f.fetched = append(f.fetched, uid)
	raw, ok := f.messages[uid]
	if !ok {
		return nil, fmt.Errorf("no message %d", uid)
	}
	return []byte(raw), nil
}

func (f *fakeClient) MarkSeen(uid uint32) error {
	f.seen = append(f.seen, uid)
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeProcessor struct {
	known map[string]bool
	got   []inbound.Email
}

func (p *fakeProcessor) ProcessInboundReply(_ context.Context, email inbound.Email) (*models.Reply, error) {
	p.got = append(p.got, email)
	if !p.known[email.Identifier()] {
		return nil, fmt.Errorf("%w for email ID: %s", services.ErrNoMatchingSentRfp, email.Identifier())
	}
	return &models.Reply{ID: uint(len(p.got))}, nil
}

func message(inReplyTo, body string) string {
	return "From: Sales <sales@tech.example>\r\n" +
		"To: rfq@mg.example.com\r\n" +
		"Subject: Re: RFQ laptops\r\n" +
		"Message-Id: <reply-" + inReplyTo + "@tech.example>\r\n" +
		"In-Reply-To: <" + inReplyTo + "@mg.example.com>\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n"
}

func newTestPoller(c *fakeClient, proc *fakeProcessor) *Poller {
	p := NewPoller(config.IMAPConfig{Addr: "imap.example.com:993", Mailbox: "INBOX", PollInterval: time.Minute}, proc)
	p.dial = func(string) (Client, error) { return c, nil }
	return p
}

func TestPollStoresRepliesAndMarksThemSeen(t *testing.T) {
	c := &fakeClient{messages: map[uint32]string{
		1: message("known", "Price 1200 EUR per unit."),
		2: message("stranger", "Newsletter"),
	}}
	proc := &fakeProcessor{known: map[string]bool{"known@mg.example.com": true}}
	p := newTestPoller(c, proc)

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []uint32{1}, c.seen)
	require.Len(t, proc.got, 2)
	assert.Contains(t, proc.got[0].BodyPlain, "Price 1200 EUR")
	assert.True(t, c.closed)

	// unmatched message is not refetched on the next pass
	c.fetched = nil
	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []uint32{1}, c.fetched)
}

func TestPollLoginFailure(t *testing.T) {
	c := &fakeClient{loginErr: errors.New("bad credentials")}
	p := newTestPoller(c, &fakeProcessor{})

	err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imap login")
	assert.True(t, c.closed)
}

func TestPollStopsOnCanceledContext(t *testing.T) {
	c := &fakeClient{messages: map[uint32]string{1: message("known", "x")}}
	proc := &fakeProcessor{known: map[string]bool{"known@mg.example.com": true}}
	p := newTestPoller(c, proc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Poll(ctx), context.Canceled)
	assert.Empty(t, proc.got)
}
