package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPTableName(t *testing.T) {
	otp := OTP{}
	assert.Equal(t, "otps", otp.TableName(), "Table name should be 'otps'")
}

func TestOTPIsExpired(t *testing.T) {
	fresh := OTP{ExpiresAt: time.Now().Add(10 * time.Minute)}
	assert.False(t, fresh.IsExpired())

	stale := OTP{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, stale.IsExpired())
}

func TestOTPStatusInfoHidesCode(t *testing.T) {
	otp := OTP{
		ID:          7,
		PhoneNumber: "9876543210",
		OTPCode:     "123456",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		Attempts:    2,
	}

	info := otp.StatusInfo()
	assert.Equal(t, "9876543210", info["phone_number"])
	assert.Equal(t, 2, info["attempts"])
	assert.Equal(t, false, info["is_expired"])

	// The code must never appear in the diagnostic view
	for key, value := range info {
		assert.NotEqual(t, "123456", value, "OTP code leaked under key %q", key)
	}
	assert.NotContains(t, info, "otp_code")
}
