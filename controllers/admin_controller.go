package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/middleware"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
	"github.com/om-engineers/om-engineers-api/utils"
	"gorm.io/gorm"
)

// Number of recent customers and appointments shown on the admin dashboard
const dashboardRecentLimit = 5

// Days covered by the upcoming appointments listing
const upcomingWindowDays = 7

// AdminCustomerRequest represents the request body for creating or updating
// a customer from the admin panel
type AdminCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AdminServiceRequest represents the request body for creating or updating
// a catalog service
type AdminServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	PriceRange  string `json:"price_range"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
}

// AdminAppointmentRequest represents the request body for creating an
// appointment from the admin panel. CustomerID selects an existing
// customer; when it is zero the name/email/phone fields are used to
// find or create one.
type AdminAppointmentRequest struct {
	CustomerID      uint   `json:"customer_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ServiceID       uint   `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	Address         string `json:"address"`
}

// AdminAppointmentActionRequest represents the request body for updating an
// appointment. Action selects the transition; the remaining fields feed
// whichever action was chosen.
type AdminAppointmentActionRequest struct {
	Action            string `json:"action"`
	ActualCost        string `json:"actual_cost"`
	TechnicianNotes   string `json:"technician_notes"`
	Reason            string `json:"reason"`
	NewDate           string `json:"new_date"`
	NewTime           string `json:"new_time"`
	Notes             string `json:"notes"`
	EstimatedCost     string `json:"estimated_cost"`
	EstimatedDuration string `json:"estimated_duration"`
}

var appointmentTypes = map[string]bool{
	models.TypeService:      true,
	models.TypeQuotation:    true,
	models.TypeConsultation: true,
}

var (
	errMissingCustomer = errors.New("customer details missing")
	errUnknownCustomer = errors.New("customer not found")
)

// ListCustomers handles GET /api/v1/admin/customers - paginated customer
// listing with optional search over name, email and phone
func ListCustomers(c *gin.Context) {
	db := config.GetDB()
	page := utils.ParsePagination(c)

	query := db.Model(&models.Customer{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count customers",
			},
		})
		return
	}

	var customers []models.Customer
	err := query.Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.PerPage).
		Find(&customers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
		"pagination": gin.H{
			"page":        page.Page,
			"per_page":    page.PerPage,
			"total":       total,
			"total_pages": page.TotalPages(total),
		},
	})
}

// CreateCustomer handles POST /api/v1/admin/customers
func CreateCustomer(c *gin.Context) {
	var req AdminCustomerRequest
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
	if name == "" || email == "" || phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name, email and phone are required",
			},
		})
		return
	}

	db := config.GetDB()
	customer := models.Customer{
		Name:    utils.SanitizeText(name),
		Email:   strings.ToLower(email),
		Phone:   phone,
		Address: strings.TrimSpace(req.Address),
	}
	if err := db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create customer",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Customer created successfully",
		"data":    customer,
	})
}

// UpdateCustomer handles PUT /api/v1/admin/customers/:id
func UpdateCustomer(c *gin.Context) {
	db := config.GetDB()

	var customer models.Customer
	if err := db.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	var req AdminCustomerRequest
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

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = utils.SanitizeText(name)
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		updates["email"] = strings.ToLower(email)
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		updates["phone"] = phone
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		updates["address"] = address
	}

	if len(updates) > 0 {
		if err := db.Model(&customer).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update customer",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer updated successfully",
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/admin/customers/:id - removes the
// customer along with their appointments and auth record in one transaction
func DeleteCustomer(c *gin.Context) {
	db := config.GetDB()

	var customer models.Customer
	if err := db.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.CustomerAuth{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted successfully",
	})
}

// ListAllServices handles GET /api/v1/admin/services - paginated catalog
// listing including inactive entries, with search and category filtering
func ListAllServices(c *gin.Context) {
	db := config.GetDB()
	page := utils.ParsePagination(c)

	query := db.Model(&models.Service{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count services",
			},
		})
		return
	}

	var catalog []models.Service
	err := query.Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.PerPage).
		Find(&catalog).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch services",
			},
		})
		return
	}

	attachIconURLs(catalog)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalog,
		"pagination": gin.H{
			"page":        page.Page,
			"per_page":    page.PerPage,
			"total":       total,
			"total_pages": page.TotalPages(total),
		},
	})
}

// CreateService handles POST /api/v1/admin/services
func CreateService(c *gin.Context) {
	var req AdminServiceRequest
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
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and category are required",
			},
		})
		return
	}

	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = models.DefaultServiceIcon
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	db := config.GetDB()
	service := models.Service{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Duration:    strings.TrimSpace(req.Duration),
		PriceRange:  strings.TrimSpace(req.PriceRange),
		Icon:        icon,
		IsActive:    isActive,
	}
	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Service created successfully",
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/admin/services/:id
func UpdateService(c *gin.Context) {
	db := config.GetDB()

	var service models.Service
	if err := db.First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	var req AdminServiceRequest
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

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		updates["description"] = description
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		updates["category"] = category
	}
	if duration := strings.TrimSpace(req.Duration); duration != "" {
		updates["duration"] = duration
	}
	if priceRange := strings.TrimSpace(req.PriceRange); priceRange != "" {
		updates["price_range"] = priceRange
	}
	if icon := strings.TrimSpace(req.Icon); icon != "" {
		updates["icon"] = icon
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&service).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update service",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service updated successfully",
		"data":    service,
	})
}

// DeleteService handles DELETE /api/v1/admin/services/:id. A service that
// appointments still reference is deactivated instead of deleted so that
// appointment history keeps resolving; an unreferenced one is removed along
// with its uploaded icon.
func DeleteService(c *gin.Context) {
	db := config.GetDB()

	var service models.Service
	if err := db.First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	var referenced int64
	err := db.Model(&models.Appointment{}).
		Where("service_id = ?", service.ID).
		Count(&referenced).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check service references",
			},
		})
		return
	}

	if referenced > 0 {
		if err := db.Model(&service).Update("is_active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to deactivate service",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Service has existing appointments and was deactivated instead of deleted",
			"deactivated": true,
		})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}

	if service.IconS3Key != nil && *service.IconS3Key != "" {
		if iconService := services.GetIconService(); iconService != nil {
			if err := iconService.DeleteIcon(*service.IconS3Key); err != nil {
				log.Printf("Failed to delete icon for service %d: %v", service.ID, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted successfully",
	})
}

// UploadServiceIcon handles POST /api/v1/admin/services/:id/icon - stores an
// icon image in S3 and records its key on the service. A previously uploaded
// icon is removed after the replacement is saved.
func UploadServiceIcon(c *gin.Context) {
	db := config.GetDB()

	var service models.Service
	if err := db.First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Icon file is required",
			},
		})
		return
	}

	iconService := services.GetIconService()
	if iconService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Icon storage is not configured",
			},
		})
		return
	}

	iconKey, err := iconService.UploadIcon(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload icon",
			},
		})
		return
	}

	previousKey := service.IconS3Key
	if err := db.Model(&service).Update("icon_s3_key", iconKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save icon reference",
			},
		})
		return
	}

	if previousKey != nil && *previousKey != "" && *previousKey != iconKey {
		if err := iconService.DeleteIcon(*previousKey); err != nil {
			log.Printf("Failed to delete replaced icon %s: %v", *previousKey, err)
		}
	}

	attachIconURL(&service)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Icon uploaded successfully",
		"data":    service,
	})
}

// ListAppointments handles GET /api/v1/admin/appointments - paginated
// listing with status, type, date and customer filters
func ListAppointments(c *gin.Context) {
	db := config.GetDB()
	page := utils.ParsePagination(c)

	query := db.Model(&models.Appointment{})
	if status := c.Query("status"); appointmentStatuses[status] {
		query = query.Where("appointments.status = ?", status)
	}
	if appointmentType := c.Query("type"); appointmentTypes[appointmentType] {
		query = query.Where("appointments.type = ?", appointmentType)
	}
	if dateParam := c.Query("date"); dateParam != "" {
		// An unparseable date filter is ignored rather than rejected
		if date, err := time.Parse("2006-01-02", dateParam); err == nil {
			query = query.Where("appointments.appointment_date = ?", models.DateOnly(date))
		}
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + q + "%"
		query = query.Joins("JOIN customers ON customers.id = appointments.customer_id").
			Where(
				"LOWER(customers.name) LIKE LOWER(?) OR LOWER(customers.email) LIKE LOWER(?) OR customers.phone LIKE ?",
				pattern, pattern, pattern,
			)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count appointments",
			},
		})
		return
	}

	var appointments []models.Appointment
	err := query.Preload("Customer").
		Preload("Service").
		Order("appointments.created_at DESC").
		Offset(page.Offset).
		Limit(page.PerPage).
		Find(&appointments).Error
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
		"pagination": gin.H{
			"page":        page.Page,
			"per_page":    page.PerPage,
			"total":       total,
			"total_pages": page.TotalPages(total),
		},
	})
}

// CreateAppointment handles POST /api/v1/admin/appointments. Unlike the
// public booking endpoint there is no future-date restriction, so staff can
// backfill past visits.
func CreateAppointment(c *gin.Context) {
	var req AdminAppointmentRequest
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

	appointmentType := req.Type
	if appointmentType == "" {
		appointmentType = models.TypeService
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !appointmentTypes[appointmentType] || !appointmentStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid appointment type or status",
			},
		})
		return
	}

	var appointment models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		customerID := req.CustomerID
		if customerID == 0 {
			name := strings.TrimSpace(req.Name)
			email := strings.TrimSpace(req.Email)
			phone := strings.TrimSpace(req.Phone)
			if name == "" || email == "" || phone == "" {
				return errMissingCustomer
			}
			customer, _, err := models.GetOrCreateCustomer(tx, utils.SanitizeText(name), email, phone, strings.TrimSpace(req.Address))
			if err != nil {
				return err
			}
			customerID = customer.ID
		} else if err := tx.First(&models.Customer{}, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUnknownCustomer
			}
			return err
		}

		appointment = models.Appointment{
			CustomerID:      customerID,
			ServiceID:       service.ID,
			AppointmentDate: models.DateOnly(parsedDate),
			AppointmentTime: parsedTime.Format("15:04"),
			Type:            appointmentType,
			Status:          status,
			Notes:           strings.TrimSpace(req.Notes),
			Address:         strings.TrimSpace(req.Address),
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errMissingCustomer):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Provide a customer_id or customer name, email and phone",
				},
			})
		case errors.Is(err, errUnknownCustomer):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CUSTOMER_NOT_FOUND",
					"message": "Customer not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to create appointment",
				},
			})
		}
		return
	}

	if err := db.Preload("Customer").Preload("Service").First(&appointment, appointment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load created appointment",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Appointment created successfully",
		"data":    appointment,
	})
}

// GetAppointment handles GET /api/v1/admin/appointments/:id
func GetAppointment(c *gin.Context) {
	db := config.GetDB()

	var appointment models.Appointment
	err := db.Preload("Customer").
		Preload("Service").
		First(&appointment, c.Param("id")).Error
	if err != nil {
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

// UpdateAppointment handles PUT /api/v1/admin/appointments/:id - dispatches
// on the action field to run a lifecycle transition or a notes update
func UpdateAppointment(c *gin.Context) {
	db := config.GetDB()

	var appointment models.Appointment
	if err := db.First(&appointment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "APPOINTMENT_NOT_FOUND",
				"message": "Appointment not found",
			},
		})
		return
	}

	var req AdminAppointmentActionRequest
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

	var message string
	var err error
	switch req.Action {
	case "confirm":
		err = appointment.Confirm(db)
		message = "Appointment confirmed successfully"
	case "start":
		err = appointment.StartService(db)
		message = "Service started"
	case "complete":
		err = appointment.Complete(db, strings.TrimSpace(req.ActualCost), strings.TrimSpace(req.TechnicianNotes))
		message = "Appointment completed successfully"
	case "cancel":
		err = appointment.Cancel(db, strings.TrimSpace(req.Reason))
		message = "Appointment cancelled"
	case "reschedule":
		if req.NewDate == "" || req.NewTime == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Please provide new date and time",
				},
			})
			return
		}
		newDate, dateErr := time.Parse("2006-01-02", req.NewDate)
		newTime, timeErr := time.Parse("15:04", req.NewTime)
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
		if models.DateOnly(newDate).Before(models.Today()) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "New appointment date must be in the future",
				},
			})
			return
		}
		err = appointment.Reschedule(db, newDate, newTime.Format("15:04"), strings.TrimSpace(req.Reason))
		message = "Appointment rescheduled successfully"
	case "update_notes":
		updates := map[string]interface{}{}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			updates["notes"] = notes
		}
		if cost := strings.TrimSpace(req.EstimatedCost); cost != "" {
			updates["estimated_cost"] = cost
		}
		if duration := strings.TrimSpace(req.EstimatedDuration); duration != "" {
			updates["estimated_duration"] = duration
		}
		if len(updates) > 0 {
			err = db.Model(&appointment).Updates(updates).Error
		}
		message = "Appointment updated successfully"
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ACTION",
				"message": "Invalid action",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update appointment",
			},
		})
		return
	}

	if err := db.Preload("Customer").Preload("Service").First(&appointment, appointment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load updated appointment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    appointment,
	})
}

// DeleteAppointment handles DELETE /api/v1/admin/appointments/:id
func DeleteAppointment(c *gin.Context) {
	db := config.GetDB()

	var appointment models.Appointment
	if err := db.First(&appointment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "APPOINTMENT_NOT_FOUND",
				"message": "Appointment not found",
			},
		})
		return
	}

	if err := db.Delete(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete appointment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment deleted successfully",
	})
}

// GetTodayAppointments handles GET /api/v1/admin/appointments/today
func GetTodayAppointments(c *gin.Context) {
	db := config.GetDB()

	appointments, err := models.GetTodayAppointments(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch today's appointments",
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

// GetUpcomingAppointments handles GET /api/v1/admin/appointments/upcoming -
// appointments from today through the next week
func GetUpcomingAppointments(c *gin.Context) {
	db := config.GetDB()

	appointments, err := models.GetUpcomingAppointments(db, upcomingWindowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch upcoming appointments",
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

// GetAdminStats handles GET /api/v1/admin/stats - appointment status
// breakdown plus table counts
func GetAdminStats(c *gin.Context) {
	db := config.GetDB()

	stats, err := services.GetAppointmentStats(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute statistics",
			},
		})
		return
	}

	counts, err := tableCounts(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count records",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
		"counts":  counts,
	})
}

// GetAdminDashboard handles GET /api/v1/admin/dashboard - the landing
// payload: statistics, today's and upcoming appointments, and the most
// recently registered customers and appointments
func GetAdminDashboard(c *gin.Context) {
	db := config.GetDB()

	stats, err := services.GetAppointmentStats(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute statistics",
			},
		})
		return
	}

	counts, err := tableCounts(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count records",
			},
		})
		return
	}

	today, err := models.GetTodayAppointments(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch today's appointments",
			},
		})
		return
	}

	upcoming, err := models.GetUpcomingAppointments(db, upcomingWindowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch upcoming appointments",
			},
		})
		return
	}

	var recentCustomers []models.Customer
	err = db.Order("created_at DESC").Limit(dashboardRecentLimit).Find(&recentCustomers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch recent customers",
			},
		})
		return
	}

	var recentAppointments []models.Appointment
	err = db.Preload("Customer").
		Preload("Service").
		Order("created_at DESC").
		Limit(dashboardRecentLimit).
		Find(&recentAppointments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch recent appointments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats":                 stats,
			"counts":                counts,
			"today_appointments":    today,
			"upcoming_appointments": upcoming,
			"recent_customers":      recentCustomers,
			"recent_appointments":   recentAppointments,
		},
	})
}

// GetStaffProfile handles GET /api/v1/admin/me - resolves the caller's
// profile from Auth0 using the bearer token that authenticated the request
func GetStaffProfile(c *gin.Context) {
	staffID, err := middleware.GetStaffID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Staff authentication required",
			},
		})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH_REQUIRED",
				"message": "Staff authentication required",
			},
		})
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		log.Printf("Failed to fetch staff profile for %s: %v", staffID, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch staff profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"staff_id": staffID,
			"email":    userInfo.Email,
			"name":     userInfo.Name,
		},
	})
}

func tableCounts(db *gorm.DB) (gin.H, error) {
	var customers, catalog, activeCatalog, appointments int64
	if err := db.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).Count(&catalog).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).Where("is_active = ?", true).Count(&activeCatalog).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Appointment{}).Count(&appointments).Error; err != nil {
		return nil, err
	}
	return gin.H{
		"customers":       customers,
		"services":        catalog,
		"active_services": activeCatalog,
		"appointments":    appointments,
	}, nil
}
