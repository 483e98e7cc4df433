package inbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"procurement-backend/config"
	"procurement-backend/inbound"
	"procurement-backend/logging"
	"procurement-backend/metrics"
	"procurement-backend/models"
	"procurement-backend/services"
)

const sourceIMAP = "imap"

// ReplyProcessor stores a vendor reply; services.Service implements it.
type ReplyProcessor interface {
	ProcessInboundReply(ctx context.Context, email inbound.Email) (*models.Reply, error)
}

// DialFunc opens an IMAP session for one poll.
type DialFunc func(addr string) (Client, error)

// Poller reads vendor replies from a mailbox, the second inbound channel next
// to the Mailgun webhook.
type Poller struct {
	cfg       config.IMAPConfig
	dial      DialFunc
	processor ReplyProcessor

	// unmatched UIDs are left unseen for the mailbox owner and skipped until restart
	skipped map[uint32]struct{}
}

func NewPoller(cfg config.IMAPConfig, processor ReplyProcessor) *Poller {
	return &Poller{
		cfg:       cfg,
		dial:      func(addr string) (Client, error) { return DialTLS(addr) },
		processor: processor,
		skipped:   map[uint32]struct{}{},
	}
}

// Run polls until ctx is canceled. Errors are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) {
	logging.Log.WithFields(logrus.Fields{
		"mailbox":  p.cfg.Mailbox,
		"interval": p.cfg.PollInterval.String(),
	}).Info("inbox poller started")

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx); err != nil {
			logging.Log.WithError(err).Error("inbox poll failed")
		}
		select {
		case <-ctx.Done():
			logging.Log.Info("inbox poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// Poll runs one pass over the unseen messages.
func (p *Poller) Poll(ctx context.Context) error {
	c, err := p.dial(p.cfg.Addr)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logging.Log.WithError(err).Debug("imap logout failed")
		}
	}()

	if err := c.Login(p.cfg.User, p.cfg.Password); err != nil {
		return fmt.Errorf("imap login: %w", err)
	}
	if err := c.SelectMailbox(p.cfg.Mailbox); err != nil {
		return fmt.Errorf("select mailbox %q: %w", p.cfg.Mailbox, err)
	}

	uids, err := c.ListUnseenUIDs()
	if err != nil {
		return err
	}

	for _, uid := range uids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, ok := p.skipped[uid]; ok {
			continue
		}
		p.handle(ctx, c, uid)
	}
	return nil
}

func (p *Poller) handle(ctx context.Context, c Client, uid uint32) {
	log := logging.Log.WithFields(logrus.Fields{"source": sourceIMAP, "uid": uid})

	raw, err := c.FetchRaw(uid)
	if err != nil {
		log.WithError(err).Error("fetch failed")
		metrics.RecordInbound(sourceIMAP, "failed")
		return
	}

	email, err := inbound.ParseMIME(bytes.NewReader(raw))
	if err != nil {
		log.WithError(err).Warn("unparseable message skipped")
		metrics.RecordInbound(sourceIMAP, "failed")
		p.skipped[uid] = struct{}{}
		return
	}

	reply, err := p.processor.ProcessInboundReply(ctx, email)
	switch {
	case errors.Is(err, services.ErrNoMatchingSentRfp):
		log.WithField("subject", email.Subject).Debug("not a vendor reply")
		metrics.RecordInbound(sourceIMAP, "unmatched")
		p.skipped[uid] = struct{}{}
		return
	case err != nil:
		log.WithError(err).Error("processing inbound email failed")
		metrics.RecordInbound(sourceIMAP, "failed")
		return
	}

	metrics.RecordInbound(sourceIMAP, "stored")
	log.WithField("reply_id", reply.ID).Info("inbound email stored")
	if err := c.MarkSeen(uid); err != nil {
		log.WithError(err).Error("mark seen failed")
	}
}
