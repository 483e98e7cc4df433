package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"procurement-backend/models"
	"procurement-backend/services"
)

// Store implements services.Store on GORM.
type Store struct {
	db *gorm.DB
}

var _ services.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRfp(ctx context.Context, rfp *models.Rfp) error {
	return s.db.WithContext(ctx).Create(rfp).Error
}

func (s *Store) FindRfp(ctx context.Context, id uint) (*models.Rfp, error) {
	var rfp models.Rfp
	if err := s.db.WithContext(ctx).First(&rfp, id).Error; err != nil {
		return nil, notFound(err, services.ErrRfpNotFound)
	}
	return &rfp, nil
}

func (s *Store) FindRfpWithReplies(ctx context.Context, id uint) (*models.Rfp, error) {
	var rfp models.Rfp
	err := s.db.WithContext(ctx).
		Preload("SentRfps", func(db *gorm.DB) *gorm.DB { return db.Order("sent_rfps.id") }).
		Preload("SentRfps.Replies", func(db *gorm.DB) *gorm.DB { return db.Order("replies.id") }).
		First(&rfp, id).Error
	if err != nil {
		return nil, notFound(err, services.ErrRfpNotFound)
	}
	return &rfp, nil
}

func (s *Store) ListRfps(ctx context.Context, limit, offset int) ([]models.Rfp, error) {
	rfps := []models.Rfp{}
	q := s.db.WithContext(ctx).Order("id DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rfps).Error; err != nil {
		return nil, err
	}
	return rfps, nil
}

func (s *Store) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	if err := s.db.WithContext(ctx).Order("id").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *Store) CreateVendor(ctx context.Context, v *models.Vendor) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *Store) UpdateVendor(ctx context.Context, id uint, updates map[string]any) (*models.Vendor, error) {
	db := s.db.WithContext(ctx)

	// Ensure exists
	var existing models.Vendor
	if err := db.First(&existing, id).Error; err != nil {
		return nil, notFound(err, services.ErrVendorNotFound)
	}
	if len(updates) > 0 {
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update vendor %d: %w", id, err)
		}
	}

	var out models.Vendor
	if err := db.First(&out, id).Error; err != nil {
		return nil, notFound(err, services.ErrVendorNotFound)
	}
	return &out, nil
}

func (s *Store) CreateSentRfp(ctx context.Context, sent *models.SentRfp) error {
	return s.db.WithContext(ctx).Create(sent).Error
}

// FindSentRfpByMessageID returns the first SentRfp whose provider message id
// equals providerMessageID.
func (s *Store) FindSentRfpByMessageID(ctx context.Context, providerMessageID string) (*models.SentRfp, error) {
	var sent models.SentRfp
	err := s.db.WithContext(ctx).
		Where("provider_message_id = ?", providerMessageID).
		First(&sent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w for email ID: %s", services.ErrNoMatchingSentRfp, providerMessageID)
		}
		return nil, err
	}
	return &sent, nil
}

func (s *Store) CreateReply(ctx context.Context, r *models.Reply) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// FindUserByEmail looks up an operator for login; a missing user is gorm.ErrRecordNotFound.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
