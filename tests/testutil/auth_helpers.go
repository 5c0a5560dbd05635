package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
	"gorm.io/gorm"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// SetMockStaffContext sets up a mock staff-authenticated context for testing
func SetMockStaffContext(c *gin.Context, staffID string, issuer string, scopes []string) {
	claims := MockValidatedClaims(staffID, issuer, scopes)
	c.Set("staff_id", staffID)
	c.Set("validated_claims", claims)
	c.Set("access_token", "test-access-token")
}

// MockStaffMiddleware returns a middleware that authenticates every request
// as the given staff member with the given scopes
func MockStaffMiddleware(staffID string, scopes []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockStaffContext(c, staffID, "https://omengineers-test.auth0.local/", scopes)
		c.Next()
	}
}

// LoginTestCustomer creates a customer and logs them in through the OTP auth
// service, returning the customer record and a live session token
func LoginTestCustomer(db *gorm.DB, name, email, phone string) (*models.Customer, string, error) {
	customer := models.Customer{Name: name, Email: email, Phone: phone}
	if err := db.Create(&customer).Error; err != nil {
		return nil, "", err
	}

	_, token, err := services.AuthenticateAfterOTP(db, phone)
	if err != nil {
		return nil, "", err
	}
	return &customer, token, nil
}
