package database

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"procurement-backend/models"
)

// VendorSeed is the on-disk shape of vendors.yaml.
type VendorSeed struct {
	Vendors []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"vendors"`
}

// LoadVendorSeed reads the vendor reference data from a YAML file.
func LoadVendorSeed(path string) ([]models.Vendor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVendorSeed(raw)
}

func ParseVendorSeed(raw []byte) ([]models.Vendor, error) {
	var seed VendorSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse vendor seed: %w", err)
	}

	out := make([]models.Vendor, 0, len(seed.Vendors))
	for i, v := range seed.Vendors {
		name := strings.TrimSpace(v.Name)
		email := strings.ToLower(strings.TrimSpace(v.Email))
		if name == "" || email == "" {
			return nil, fmt.Errorf("vendor at index %d needs name and email", i)
		}
		out = append(out, models.Vendor{Name: name, Email: email})
	}
	return out, nil
}

// SeedVendors upserts vendors by email. Running it twice is harmless.
func SeedVendors(db *gorm.DB, vendors []models.Vendor) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, v := range vendors {
			var row models.Vendor
			err := tx.Where("email = ?", v.Email).
				Assign(models.Vendor{Name: v.Name}).
				FirstOrCreate(&row, models.Vendor{Email: v.Email, Name: v.Name}).Error
			if err != nil {
				return fmt.Errorf("seed vendor %s: %w", v.Email, err)
			}
		}
		return nil
	})
}

// SeedOperator creates the login user if no user with that email exists.
func SeedOperator(db *gorm.DB, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	user := models.User{Name: name, Email: email}
	if err := user.SetPassword(password); err != nil {
		return false, err
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
