package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
)

// Visit durations accepted by the slot finder, in hours. Requests outside
// this range are clamped rather than rejected.
const (
	minSlotDurationHours = 1
	maxSlotDurationHours = 9
)

var appointmentStatuses = map[string]bool{
	models.StatusPending:     true,
	models.StatusConfirmed:   true,
	models.StatusInProgress:  true,
	models.StatusCompleted:   true,
	models.StatusCancelled:   true,
	models.StatusRescheduled: true,
}

// GetAvailableSlots handles GET /api/v1/appointments/available-slots -
// free start times for a visit of the requested duration on a given day
func GetAvailableSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Date parameter is required",
			},
		})
		return
	}

	parsedDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid date format",
			},
		})
		return
	}

	targetDate := models.DateOnly(parsedDate)
	if targetDate.Before(models.Today()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Date must be in the future",
			},
		})
		return
	}

	duration := services.DefaultSlotHours
	if raw := c.Query("duration"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			duration = parsed
		}
	}
	if duration < minSlotDurationHours {
		duration = minSlotDurationHours
	}
	if duration > maxSlotDurationHours {
		duration = maxSlotDurationHours
	}

	db := config.GetDB()
	slots, err := services.AvailableSlots(db, targetDate, duration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute available slots",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"date":            dateStr,
		"available_slots": slots,
		"total_slots":     len(slots),
	})
}

// GetMyAppointments handles GET /api/v1/appointments - the authenticated
// customer's appointments, newest first, with an optional status filter
func GetMyAppointments(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Authentication required. Please log in.",
			},
		})
		return
	}

	db := config.GetDB()

	var appointments []models.Appointment
	var err error
	// Unknown status values are ignored rather than rejected
	if status := c.Query("status"); status != "" && appointmentStatuses[status] {
		err = db.Preload("Service").
			Where("customer_id = ? AND status = ?", customer.ID, status).
			Order("appointment_date DESC, appointment_time DESC").
			Find(&appointments).Error
	} else {
		appointments, err = models.GetAppointmentsByCustomer(db, customer.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch appointments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
		"total":   len(appointments),
	})
}
