package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
)

// PhoneRequest carries the phone number for send/resend
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number"`
}

// VerifyOTPRequest carries the phone number and submitted code
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	OTPCode     string `json:"otp_code" form:"otp_code"`
}

// SendOTP handles POST /api/v1/otp/send - issues an OTP to a phone number
func SendOTP(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.PhoneNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_PHONE",
				"message": "Phone number is required",
			},
		})
		return
	}

	db := config.GetDB()
	ok, message := services.SendOTP(db, strings.TrimSpace(req.PhoneNumber))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_SEND_FAILED",
				"message": message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// VerifyOTP handles POST /api/v1/otp/verify - checks the code and, on
// success, logs the customer in and returns their credentials
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_PARAMETERS",
				"message": "Phone number and OTP code are required",
			},
		})
		return
	}

	phoneNumber := strings.TrimSpace(req.PhoneNumber)
	otpCode := strings.TrimSpace(req.OTPCode)
	if phoneNumber == "" || otpCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_PARAMETERS",
				"message": "Phone number and OTP code are required",
			},
		})
		return
	}

	db := config.GetDB()
	ok, message := services.VerifyOTP(db, phoneNumber, otpCode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_INVALID",
				"message": message,
			},
		})
		return
	}

	customer, token, err := services.AuthenticateAfterOTP(db, phoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_FAILED",
				"message": "Authentication failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, authResponseData(customer, token))
}

// ResendOTP handles POST /api/v1/otp/resend - re-issues an OTP, replacing
// the previous code
func ResendOTP(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.PhoneNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_PHONE",
				"message": "Phone number is required",
			},
		})
		return
	}

	db := config.GetDB()
	ok, message := services.ResendOTP(db, strings.TrimSpace(req.PhoneNumber))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_SEND_FAILED",
				"message": message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// GetOTPStatus handles GET /api/v1/otp/status/:phone_number - diagnostic
// view of the live OTP for a phone number
func GetOTPStatus(c *gin.Context) {
	phoneNumber := c.Param("phone_number")

	db := config.GetDB()
	status, found := services.GetOTPStatus(db, phoneNumber)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OTP_NOT_FOUND",
				"message": "No active OTP for this phone number",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}

// RefreshToken handles POST /api/v1/otp/refresh-token - mints a fresh token
// for the authenticated customer
func RefreshToken(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Authentication required",
			},
		})
		return
	}

	db := config.GetDB()
	token, err := services.RefreshToken(db, customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVER_ERROR",
				"message": "Failed to refresh token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, authResponseData(customer, token))
}

// Logout handles POST /api/v1/otp/logout - revokes the current token.
// Succeeds even without credentials so clients can always clear state.
func Logout(c *gin.Context) {
	db := config.GetDB()

	if customer := middleware.ExtractCustomer(c); customer != nil {
		if err := services.RevokeToken(db, customer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVER_ERROR",
					"message": "Failed to log out",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// CleanupExpiredOTPs handles POST /api/v1/otp/cleanup - removes every OTP
// past its expiry
func CleanupExpiredOTPs(c *gin.Context) {
	db := config.GetDB()

	removed, err := services.CleanupExpiredOTPs(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVER_ERROR",
				"message": "Failed to clean up expired OTPs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expired OTPs cleaned up",
		"data":    gin.H{"deleted": removed},
	})
}

// authResponseData builds the standard login payload of customer identity
// plus token material
func authResponseData(customer *models.Customer, token string) gin.H {
	db := config.GetDB()
	auth := services.GetAuthRecord(db, customer.ID)

	customerData := gin.H{
		"id":         customer.ID,
		"name":       customer.Name,
		"email":      customer.Email,
		"phone":      customer.Phone,
		"auth_key":   nil,
		"last_login": nil,
	}
	authData := gin.H{
		"token":      token,
		"expires_at": nil,
	}

	if auth != nil {
		customerData["auth_key"] = auth.AuthKey
		if auth.LastLogin != nil {
			customerData["last_login"] = auth.LastLogin.Format(time.RFC3339)
		}
		if auth.TokenExpiresAt != nil {
			authData["expires_at"] = auth.TokenExpiresAt.Format(time.RFC3339)
		}
	}

	return gin.H{
		"success":  true,
		"message":  "Authentication successful",
		"customer": customerData,
		"auth":     authData,
	}
}
