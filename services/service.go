package services

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"procurement-backend/llm"
	"procurement-backend/mailer"
	"procurement-backend/models"
)

var (
	ErrUserTextRequired     = errors.New("userText is required")
	ErrRfpNotFound          = errors.New("RFP not found")
	ErrVendorNotFound       = errors.New("vendor not found")
	ErrNoMatchingSentRfp    = errors.New("no matching SentRfp")
	ErrInvalidStructuredRfp = errors.New("model returned an invalid structured RFP")
	ErrInvalidEmailDraft    = errors.New("model returned an invalid RFQ email")
	ErrNoRecipients         = errors.New("at least one vendor email is required")
)

// NoRepliesMessage is returned as the comparison when no vendor has answered yet.
const NoRepliesMessage = "No vendor replies have been received yet for this RFP."

// Store is the persistence the procurement flows need. Lookups return
// gorm.ErrRecordNotFound-free sentinel errors (ErrRfpNotFound, ErrNoMatchingSentRfp, ...).
type Store interface {
	CreateRfp(ctx context.Context, rfp *models.Rfp) error
	FindRfp(ctx context.Context, id uint) (*models.Rfp, error)
	// FindRfpWithReplies preloads SentRfps and their Replies, both ordered by id.
	FindRfpWithReplies(ctx context.Context, id uint) (*models.Rfp, error)
	ListRfps(ctx context.Context, limit, offset int) ([]models.Rfp, error)

	ListVendors(ctx context.Context) ([]models.Vendor, error)
	CreateVendor(ctx context.Context, v *models.Vendor) error
	UpdateVendor(ctx context.Context, id uint, updates map[string]any) (*models.Vendor, error)

	CreateSentRfp(ctx context.Context, s *models.SentRfp) error
	FindSentRfpByMessageID(ctx context.Context, providerMessageID string) (*models.SentRfp, error)
	CreateReply(ctx context.Context, r *models.Reply) error
}

// Generator produces model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Mailer delivers one outbound email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// Sender identifies who RFQ emails come from.
type Sender struct {
	Name      string
	Company   string
	FromEmail string
}

// Service implements the procurement flows on top of a Store, a model and a mail relay.
type Service struct {
	store   Store
	llm     Generator
	mail    Mailer
	sender  Sender
	limiter *rate.Limiter
}

type Option func(*Service)

// WithSendRate paces outbound sends; perSecond <= 0 means unlimited.
func WithSendRate(perSecond float64) Option {
	return func(s *Service) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func New(store Store, gen Generator, mail Mailer, sender Sender, opts ...Option) *Service {
	s := &Service{
		store:   store,
		llm:     gen,
		mail:    mail,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
