package models

import "time"

// Vendor is static reference data: the companies an RFP can be sent to.
type Vendor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	CreatedAt time.Time `json:"-"`
}
