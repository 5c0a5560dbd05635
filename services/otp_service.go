package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/utils"
	"gorm.io/gorm"
)

// Messages returned by OTP verification, in the order the checks run
const (
	otpNotFoundMessage    = "OTP not found or already verified"
	otpExpiredMessage     = "OTP has expired"
	otpTooManyMessage     = "Too many invalid attempts"
	otpInvalidCodeMessage = "Invalid OTP code"
	otpVerifiedMessage    = "OTP verified successfully"
)

// SendOTP validates and normalizes the phone number, replaces any live OTP
// for it with a fresh code, and dispatches the code through the SMS gateway.
// The designated test number receives a fixed code and skips the gateway.
func SendOTP(db *gorm.DB, phoneNumber string) (bool, string) {
	cfg := config.GetConfig()

	if !utils.ValidatePhone(phoneNumber) {
		return false, "Invalid phone number format"
	}
	normalized := utils.NormalizePhone(phoneNumber)

	isTestPhone := normalized == cfg.TestPhoneNumber

	var code string
	if isTestPhone {
		code = "123456"
	} else {
		generated, err := models.GenerateOTPCode(cfg.OTPLength)
		if err != nil {
			log.Printf("Error generating OTP code: %v", err)
			return false, "Error sending OTP"
		}
		code = generated
	}

	otp := models.OTP{
		PhoneNumber: normalized,
		OTPCode:     code,
		ExpiresAt:   time.Now().Add(time.Duration(cfg.OTPExpiryMinutes) * time.Minute),
	}

	// Replace any prior OTP for this phone in a single transaction so at
	// most one live code exists per number
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone_number = ?", normalized).Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		log.Printf("Error storing OTP for %s: %v", normalized, err)
		return false, "Error sending OTP"
	}

	if isTestPhone {
		log.Printf("Test OTP created for %s", normalized)
		return true, fmt.Sprintf("OTP sent successfully to %s", normalized)
	}

	sent, message := GetSMSService().SendOTP(normalized, code)
	if !sent {
		return false, fmt.Sprintf("Failed to send OTP: %s", message)
	}

	return true, fmt.Sprintf("OTP sent successfully to %s", normalized)
}

// VerifyOTP checks a submitted code against the live OTP for the phone
// number. The attempt counter increments on every comparison, successful or
// not; once it reaches the cap, all further attempts fail.
func VerifyOTP(db *gorm.DB, phoneNumber, otpCode string) (bool, string) {
	cfg := config.GetConfig()
	normalized := utils.NormalizePhone(phoneNumber)

	verified := false
	message := otpInvalidCodeMessage

	err := db.Transaction(func(tx *gorm.DB) error {
		var otp models.OTP
		err := tx.Where("phone_number = ? AND is_verified = ?", normalized, false).First(&otp).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			message = otpNotFoundMessage
			return nil
		}
		if err != nil {
			return err
		}

		if otp.IsExpired() {
			message = otpExpiredMessage
			return nil
		}

		if otp.Attempts >= cfg.OTPMaxAttempts {
			message = otpTooManyMessage
			return nil
		}

		// Record the attempt even when the code matches
		otp.Attempts++
		updates := map[string]interface{}{"attempts": otp.Attempts}
		if otp.OTPCode == otpCode {
			verified = true
			message = otpVerifiedMessage
			updates["is_verified"] = true
		}

		return tx.Model(&otp).Updates(updates).Error
	})
	if err != nil {
		log.Printf("Error verifying OTP for %s: %v", normalized, err)
		return false, "Error verifying OTP"
	}

	return verified, message
}

// ResendOTP re-issues an OTP, invalidating the previous code
func ResendOTP(db *gorm.DB, phoneNumber string) (bool, string) {
	return SendOTP(db, phoneNumber)
}

// GetOTPStatus returns the diagnostic view of the live OTP for a phone
// number, or false when none exists
func GetOTPStatus(db *gorm.DB, phoneNumber string) (map[string]interface{}, bool) {
	normalized := utils.NormalizePhone(phoneNumber)

	var otp models.OTP
	err := db.Where("phone_number = ? AND is_verified = ?", normalized, false).First(&otp).Error
	if err != nil {
		return nil, false
	}

	return otp.StatusInfo(), true
}

// CleanupExpiredOTPs deletes every OTP past its expiry, verified or not,
// and returns how many rows were removed
func CleanupExpiredOTPs(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.OTP{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
