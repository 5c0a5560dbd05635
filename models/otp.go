package models

import (
	"time"
)

// OTP represents a one-time password issued to a phone number. At most one
// unverified OTP exists per phone: issuing a new one deletes its predecessors.
type OTP struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"not null;index" json:"phone_number"`
	OTPCode     string    `gorm:"not null;size:10" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	IsVerified  bool      `gorm:"not null;default:false" json:"is_verified"`
	Attempts    int       `gorm:"not null;default:0" json:"attempts"`
}

// TableName specifies the table name for the OTP model
func (OTP) TableName() string {
	return "otps"
}

// GenerateOTPCode produces a random numeric code of the given length
func GenerateOTPCode(length int) (string, error) {
	return randomDigits(length)
}

// IsExpired reports whether the OTP is past its expiry timestamp
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// StatusInfo returns the diagnostic view of an OTP record. The code itself
// is never included.
func (o *OTP) StatusInfo() map[string]interface{} {
	return map[string]interface{}{
		"id":           o.ID,
		"phone_number": o.PhoneNumber,
		"created_at":   o.CreatedAt.Format(time.RFC3339),
		"expires_at":   o.ExpiresAt.Format(time.RFC3339),
		"is_verified":  o.IsVerified,
		"attempts":     o.Attempts,
		"is_expired":   o.IsExpired(),
	}
}
