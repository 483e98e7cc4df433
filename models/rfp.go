package models

import (
	"time"

	"gorm.io/datatypes"
)

// Rfp is created once per user submission and never updated afterwards.
type Rfp struct {
	ID           uint                                  `json:"id" gorm:"primaryKey"`
	OriginalText string                                `json:"originalText" gorm:"type:text;not null"`
	Structured   datatypes.JSONType[ProcurementRequest] `json:"structured" gorm:"type:jsonb"`
	CreatedAt    time.Time                             `json:"createdAt"`

	SentRfps []SentRfp `json:"sentRfps,omitempty" gorm:"foreignKey:RfpID"`
}

// SentRfp records one outbound email to one vendor. ProviderMessageID is the
// correlation key for inbound replies.
type SentRfp struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	RfpID             uint      `json:"rfpId" gorm:"not null;index"`
	VendorEmail       string    `json:"vendorEmail" gorm:"not null"`
	ProviderMessageID string    `json:"providerMessageId" gorm:"size:255;index"`
	CreatedAt         time.Time `json:"createdAt"`

	Replies []Reply `json:"replies,omitempty" gorm:"foreignKey:SentRfpID"`
}

// Reply is one inbound vendor email matched to a SentRfp. Several replies per
// SentRfp are allowed; the highest ID is the current one.
type Reply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SentRfpID uint      `json:"sentRfpId" gorm:"not null;index"`
	EmailID   string    `json:"emailId" gorm:"size:255"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	EmailBody string    `json:"emailBody" gorm:"type:text"`
	Parsed    string    `json:"parsed" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}
