package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"gorm.io/gorm"
)

// AuthenticateAfterOTP turns a verified phone number into an authenticated
// customer. A first-time caller gets a placeholder customer named from the
// phone's last four digits; when several customers share the phone, the one
// with the lowest ID wins. The whole flow runs in one transaction.
func AuthenticateAfterOTP(db *gorm.DB, phoneNumber string) (*models.Customer, string, error) {
	var customer *models.Customer
	var token string

	err := db.Transaction(func(tx *gorm.DB) error {
		customers, err := models.GetCustomersByPhone(tx, phoneNumber)
		if err != nil {
			return err
		}

		if len(customers) == 0 {
			placeholder := fmt.Sprintf("User %s", lastDigits(phoneNumber, 4))
			created, _, err := models.GetOrCreateCustomer(tx, placeholder, "", phoneNumber, "")
			if err != nil {
				return err
			}
			customer = created
		} else {
			customer = &customers[0]
		}

		auth, err := getOrCreateAuthRecord(tx, customer.ID)
		if err != nil {
			return err
		}

		minted, err := issueToken(tx, auth)
		if err != nil {
			return err
		}
		token = minted
		return nil
	})
	if err != nil {
		log.Printf("Authentication failed for %s: %v", phoneNumber, err)
		return nil, "", fmt.Errorf("authentication error: %w", err)
	}

	return customer, token, nil
}

// ValidateToken returns the customer owning an active, unexpired token, or
// nil. Validation does not extend or rotate the token.
func ValidateToken(db *gorm.DB, token string) *models.Customer {
	if token == "" {
		return nil
	}

	var auth models.CustomerAuth
	err := db.Where("auth_token = ? AND is_active = ?", token, true).First(&auth).Error
	if err != nil {
		return nil
	}
	if !auth.IsTokenValid() {
		return nil
	}

	var customer models.Customer
	if err := db.First(&customer, auth.CustomerID).Error; err != nil {
		return nil
	}
	return &customer
}

// ValidateAuthKey returns the customer owning an active 16-digit auth key,
// or nil. The key never expires and survives logout.
func ValidateAuthKey(db *gorm.DB, authKey string) *models.Customer {
	if len(authKey) != models.AuthKeyLength {
		return nil
	}

	var auth models.CustomerAuth
	err := db.Where("auth_key = ? AND is_active = ?", authKey, true).First(&auth).Error
	if err != nil {
		return nil
	}

	var customer models.Customer
	if err := db.First(&customer, auth.CustomerID).Error; err != nil {
		return nil
	}
	return &customer
}

// RefreshToken issues a new token for the customer, invalidating the
// previous one by overwriting it
func RefreshToken(db *gorm.DB, customer *models.Customer) (string, error) {
	var token string
	err := db.Transaction(func(tx *gorm.DB) error {
		auth, err := getOrCreateAuthRecord(tx, customer.ID)
		if err != nil {
			return err
		}
		minted, err := issueToken(tx, auth)
		if err != nil {
			return err
		}
		token = minted
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return token, nil
}

// RevokeToken clears the customer's token and its expiry. The auth key is
// untouched; token validation fails until a new login issues a token.
func RevokeToken(db *gorm.DB, customer *models.Customer) error {
	var auth models.CustomerAuth
	err := db.Where("customer_id = ?", customer.ID).First(&auth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return db.Model(&auth).Updates(map[string]interface{}{
		"auth_token":       nil,
		"token_expires_at": nil,
	}).Error
}

// GetAuthRecord returns the auth record for a customer, or nil when none exists
func GetAuthRecord(db *gorm.DB, customerID uint) *models.CustomerAuth {
	var auth models.CustomerAuth
	if err := db.Where("customer_id = ?", customerID).First(&auth).Error; err != nil {
		return nil
	}
	return &auth
}

// getOrCreateAuthRecord fetches the customer's auth record or creates one
// with a freshly generated auth key
func getOrCreateAuthRecord(tx *gorm.DB, customerID uint) (*models.CustomerAuth, error) {
	var auth models.CustomerAuth
	err := tx.Where("customer_id = ?", customerID).First(&auth).Error
	if err == nil {
		return &auth, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := models.GenerateAuthKey(tx)
	if err != nil {
		return nil, err
	}

	auth = models.CustomerAuth{
		CustomerID: customerID,
		AuthKey:    key,
		IsActive:   true,
	}
	if err := tx.Create(&auth).Error; err != nil {
		return nil, err
	}
	return &auth, nil
}

// issueToken mints a fresh token on the auth record, stamping expiry and
// last login
func issueToken(tx *gorm.DB, auth *models.CustomerAuth) (string, error) {
	token, err := models.GenerateAuthToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(config.GetConfig().TokenExpiryHours) * time.Hour)

	err = tx.Model(auth).Updates(map[string]interface{}{
		"auth_token":       token,
		"token_expires_at": expiresAt,
		"last_login":       now,
	}).Error
	if err != nil {
		return "", err
	}

	auth.AuthToken = &token
	auth.TokenExpiresAt = &expiresAt
	auth.LastLogin = &now
	return token, nil
}

// lastDigits returns the trailing n characters of a phone number
func lastDigits(phone string, n int) string {
	if len(phone) <= n {
		return phone
	}
	return phone[len(phone)-n:]
}
