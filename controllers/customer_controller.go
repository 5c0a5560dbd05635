package controllers

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
	"github.com/om-engineers/om-engineers-api/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UpdateProfileRequest represents the request body for a profile update.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// GetDashboard handles GET /api/v1/dashboard - the customer's profile plus
// their upcoming appointments
func GetDashboard(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		c.PureJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Authentication required. Please log in.",
			},
		})
		return
	}

	db := config.GetDB()
	var upcoming []models.Appointment
	err := db.Preload("Service").
		Where("customer_id = ? AND appointment_date >= ? AND status IN ?",
			customer.ID, models.Today(), []string{models.StatusPending, models.StatusConfirmed}).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&upcoming).Error
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch appointments",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success":               true,
		"customer":              customer,
		"upcoming_appointments": upcoming,
	})
}

// UpdateProfile handles PUT /api/v1/profile/:auth_key - updates the
// authenticated customer's own profile
func UpdateProfile(c *gin.Context) {
	customer, _, ok := customerForAuthKey(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	address := strings.TrimSpace(req.Address)

	if name != "" && utf8.RuneCountInString(name) < 2 {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name must be at least 2 characters long",
			},
		})
		return
	}

	if email != "" && !emailPattern.MatchString(email) {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please enter a valid email address",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = utils.SanitizeText(name)
	}
	if email != "" {
		updates["email"] = email
	}
	if address != "" {
		updates["address"] = address
	}

	db := config.GetDB()
	if len(updates) > 0 {
		if err := db.Model(customer).Updates(updates).Error; err != nil {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVER_ERROR",
					"message": "Failed to update profile",
				},
			})
			return
		}
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Profile updated successfully",
		"customer": customer,
	})
}

// GetCustomerInfo handles GET /api/v1/customers/:auth_key/info - the
// authenticated customer's profile and auth record
func GetCustomerInfo(c *gin.Context) {
	customer, authKey, ok := customerForAuthKey(c)
	if !ok {
		return
	}

	db := config.GetDB()
	auth := services.GetAuthRecord(db, customer.ID)

	authData := gin.H{"auth_key": authKey}
	if auth != nil {
		authData = gin.H{
			"auth_key":         auth.AuthKey,
			"last_login":       auth.LastLogin,
			"token_expires_at": auth.TokenExpiresAt,
			"is_active":        auth.IsActive,
		}
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success":  true,
		"customer": customer,
		"auth":     authData,
	})
}

// customerForAuthKey resolves the authenticated customer and enforces that
// the auth_key path parameter belongs to them. Writes the error response
// itself when the check fails.
func customerForAuthKey(c *gin.Context) (*models.Customer, string, bool) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		c.PureJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Authentication required. Please log in.",
			},
		})
		return nil, "", false
	}

	authKey := c.Param("auth_key")
	db := config.GetDB()
	auth := services.GetAuthRecord(db, customer.ID)
	if auth == nil || auth.AuthKey != authKey {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCESS_DENIED",
				"message": "Access denied",
			},
		})
		return nil, "", false
	}

	return customer, authKey, true
}
