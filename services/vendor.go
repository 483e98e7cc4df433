package services

import (
	"context"
	"strings"

	"procurement-backend/models"
)

func (s *Service) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return s.store.ListVendors(ctx)
}

func (s *Service) CreateVendor(ctx context.Context, name, email string) (*models.Vendor, error) {
	v := models.Vendor{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.store.CreateVendor(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVendor applies a partial update; only keys present in updates change.
func (s *Service) UpdateVendor(ctx context.Context, id uint, updates map[string]any) (*models.Vendor, error) {
	if name, ok := updates["name"].(string); ok {
		updates["name"] = strings.TrimSpace(name)
	}
	if email, ok := updates["email"].(string); ok {
		updates["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return s.store.UpdateVendor(ctx, id, updates)
}
