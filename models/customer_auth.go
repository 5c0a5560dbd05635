package models

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

// AuthKeyLength is the fixed length of the stable customer auth key
const AuthKeyLength = 16

// CustomerAuth holds the authentication state for a customer, one-to-one
// with the customers table. AuthKey is a stable credential generated once;
// AuthToken rotates on every login and expires.
type CustomerAuth struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CustomerID     uint       `gorm:"uniqueIndex;not null" json:"customer_id"`
	Customer       Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	AuthKey        string     `gorm:"uniqueIndex;not null;size:16" json:"auth_key"`
	AuthToken      *string    `gorm:"index" json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the CustomerAuth model
func (CustomerAuth) TableName() string {
	return "customer_auth"
}

// IsTokenValid reports whether the current token exists, has not expired,
// and the record is active
func (a *CustomerAuth) IsTokenValid() bool {
	if a.AuthToken == nil || a.TokenExpiresAt == nil {
		return false
	}
	return a.IsActive && time.Now().Before(*a.TokenExpiresAt)
}

// GenerateAuthKey produces a unique 16-digit numeric key, retrying on the
// (astronomically unlikely) collision with an existing record
func GenerateAuthKey(db *gorm.DB) (string, error) {
	for i := 0; i < 10; i++ {
		key, err := randomDigits(AuthKeyLength)
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&CustomerAuth{}).Where("auth_key = ?", key).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return key, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique auth key")
}

// GenerateAuthToken produces an opaque URL-safe bearer token from 48
// cryptographically random bytes (64 characters once encoded)
func GenerateAuthToken() (string, error) {
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// randomDigits returns a string of n cryptographically random decimal digits
func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate digit: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
