package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"procurement-backend/llm"
	"procurement-backend/mailer"
	"procurement-backend/models"
)

// memStore is an in-memory Store used by the service tests.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	rfps     map[uint]*models.Rfp
	vendors  []models.Vendor
	sent     []models.SentRfp
	replies  []models.Reply
	failSent map[string]bool // vendor emails whose SentRfp insert fails
}

func newMemStore() *memStore {
	return &memStore{rfps: map[uint]*models.Rfp{}, failSent: map[string]bool{}}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateRfp(_ context.Context, rfp *models.Rfp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rfp.ID = m.id()
	cp := *rfp
	m.rfps[rfp.ID] = &cp
	return nil
}

func (m *memStore) FindRfp(_ context.Context, id uint) (*models.Rfp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rfp, ok := m.rfps[id]
	if !ok {
		return nil, ErrRfpNotFound
	}
	cp := *rfp
	return &cp, nil
}

func (m *memStore) FindRfpWithReplies(ctx context.Context, id uint) (*models.Rfp, error) {
	rfp, err := m.FindRfp(ctx, id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sent {
		if s.RfpID != id {
			continue
		}
		for _, r := range m.replies {
			if r.SentRfpID == s.ID {
				s.Replies = append(s.Replies, r)
			}
		}
		rfp.SentRfps = append(rfp.SentRfps, s)
	}
	return rfp, nil
}

func (m *memStore) ListRfps(_ context.Context, limit, offset int) ([]models.Rfp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Rfp
	for _, r := range m.rfps {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []models.Rfp{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListVendors(context.Context) ([]models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Vendor(nil), m.vendors...), nil
}

func (m *memStore) CreateVendor(_ context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vendors {
		if existing.Email == v.Email {
			return errors.New("duplicate vendor email")
		}
	}
	v.ID = m.id()
	m.vendors = append(m.vendors, *v)
	return nil
}

func (m *memStore) UpdateVendor(_ context.Context, id uint, updates map[string]any) (*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.vendors {
		if m.vendors[i].ID != id {
			continue
		}
		if name, ok := updates["name"].(string); ok {
			m.vendors[i].Name = name
		}
		if email, ok := updates["email"].(string); ok {
			m.vendors[i].Email = email
		}
		v := m.vendors[i]
		return &v, nil
	}
	return nil, ErrVendorNotFound
}

func (m *memStore) CreateSentRfp(_ context.Context, s *models.SentRfp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSent[s.VendorEmail] {
		return errors.New("insert failed")
	}
	s.ID = m.id()
	m.sent = append(m.sent, *s)
	return nil
}

func (m *memStore) FindSentRfpByMessageID(_ context.Context, id string) (*models.SentRfp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sent {
		if s.ProviderMessageID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrNoMatchingSentRfp
}

func (m *memStore) CreateReply(_ context.Context, r *models.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	m.replies = append(m.replies, *r)
	return nil
}

// fakeLLM answers by request purpose and records every call.
type fakeLLM struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	calls   []llm.Request
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{answers: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err := f.errs[req.Purpose]; err != nil {
		return "", err
	}
	return f.answers[req.Purpose], nil
}

func (f *fakeLLM) callsFor(purpose string) []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []llm.Request
	for _, c := range f.calls {
		if c.Purpose == purpose {
			out = append(out, c)
		}
	}
	return out
}

// fakeMailer hands out sequential message ids and fails for configured recipients.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{fail: map[string]bool{}}
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return "", errors.New("mailgun: 400 bad recipient")
	}
	f.sent = append(f.sent, msg)
	return "<msg-" + strings.SplitN(msg.To, "@", 2)[0] + "@mg.example.com>", nil
}
