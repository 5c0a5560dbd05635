package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"gorm.io/gorm"
)

// Bookings may be placed at most this many days ahead
const maxBookingDaysAhead = 90

// BookingRequest represents the request body for scheduling a service visit
type BookingRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ServiceID       uint   `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Address         string `json:"address"`
	Notes           string `json:"notes"`
}

// QuotationRequest represents the request body for requesting a quotation
type QuotationRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ServiceID     uint   `json:"service_id"`
	Description   string `json:"description"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
}

// CreateBooking handles POST /api/v1/bookings - schedules a service visit
func CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
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
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	address := strings.TrimSpace(req.Address)
	notes := strings.TrimSpace(req.Notes)

	if name == "" || email == "" || phone == "" || req.ServiceID == 0 ||
		req.AppointmentDate == "" || req.AppointmentTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please fill in all required fields",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, req.ServiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Invalid service selected",
			},
		})
		return
	}

	parsedDate, dateErr := time.Parse("2006-01-02", req.AppointmentDate)
	parsedTime, timeErr := time.Parse("15:04", req.AppointmentTime)
	if dateErr != nil || timeErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid date or time format",
			},
		})
		return
	}

	appointmentDate := models.DateOnly(parsedDate)
	today := models.Today()
	if appointmentDate.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Appointment date must be in the future",
			},
		})
		return
	}
	if appointmentDate.After(today.AddDate(0, 0, maxBookingDaysAhead)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Appointment date cannot be more than 90 days in the future",
			},
		})
		return
	}

	// Customer lookup and appointment insert commit together
	var appointment models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		customer, _, err := models.GetOrCreateCustomer(tx, name, email, phone, address)
		if err != nil {
			return err
		}

		appointment = models.Appointment{
			CustomerID:      customer.ID,
			ServiceID:       service.ID,
			AppointmentDate: appointmentDate,
			AppointmentTime: parsedTime.Format("15:04"),
			Type:            models.TypeService,
			Status:          models.StatusPending,
			Notes:           notes,
			Address:         address,
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to schedule appointment",
			},
		})
		return
	}

	if err := db.Preload("Customer").Preload("Service").First(&appointment, appointment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load appointment details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Service appointment scheduled successfully! Your appointment ID is #%d", appointment.ID),
		"data":    appointment,
	})
}

// CreateQuotation handles POST /api/v1/quotations - records a quotation
// request. Preferred date and time are optional; unusable values fall back
// to today and 10:00.
func CreateQuotation(c *gin.Context) {
	var req QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
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
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	address := strings.TrimSpace(req.Address)
	description := strings.TrimSpace(req.Description)

	if name == "" || email == "" || phone == "" || address == "" ||
		req.ServiceID == 0 || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please fill in all required fields",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, req.ServiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Invalid service selected",
			},
		})
		return
	}

	today := models.Today()
	appointmentDate := today
	if req.PreferredDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.PreferredDate); err == nil {
			appointmentDate = models.DateOnly(parsed)
			if appointmentDate.Before(today) {
				appointmentDate = today
			}
		}
	}

	appointmentTime := "10:00"
	if req.PreferredTime != "" {
		if parsed, err := time.Parse("15:04", req.PreferredTime); err == nil {
			appointmentTime = parsed.Format("15:04")
		}
	}

	var appointment models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		customer, _, err := models.GetOrCreateCustomer(tx, name, email, phone, address)
		if err != nil {
			return err
		}

		appointment = models.Appointment{
			CustomerID:      customer.ID,
			ServiceID:       service.ID,
			AppointmentDate: appointmentDate,
			AppointmentTime: appointmentTime,
			Type:            models.TypeQuotation,
			Status:          models.StatusPending,
			Notes:           fmt.Sprintf("Quotation request: %s", description),
			Address:         address,
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to submit quotation request",
			},
		})
		return
	}

	if err := db.Preload("Customer").Preload("Service").First(&appointment, appointment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load appointment details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Quotation request submitted successfully! Your request ID is #%d", appointment.ID),
		"data":    appointment,
	})
}

// GetBookingConfirmation handles GET /api/v1/bookings/:id/confirmation -
// public confirmation view of an appointment
func GetBookingConfirmation(c *gin.Context) {
	id := c.Param("id")

	db := config.GetDB()
	var appointment models.Appointment
	if err := db.Preload("Customer").Preload("Service").First(&appointment, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "APPOINTMENT_NOT_FOUND",
				"message": "Appointment not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointment,
	})
}
