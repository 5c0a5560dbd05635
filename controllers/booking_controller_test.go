package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBookingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Customer{}, &models.Service{}, &models.Appointment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestService(t *testing.T, db *gorm.DB, name string) *models.Service {
	service := models.Service{
		Name:        name,
		Description: name + " work",
		Category:    "General",
		Icon:        models.DefaultServiceIcon,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func TestCreateBooking(t *testing.T) {
	db := setupBookingTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	service := createTestService(t, db, "Electrical Services")

	tomorrow := models.Today().AddDate(0, 0, 1).Format("2006-01-02")
	tooFar := models.Today().AddDate(0, 0, 91).Format("2006-01-02")

	tests := []struct {
		name            string
		requestBody     map[string]interface{}
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name: "Successfully create booking",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": tomorrow,
				"appointment_time": "10:00",
				"address":          "12 MG Road, Pune",
				"notes":            "Fan not working",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Booking for today is allowed",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": models.Today().Format("2006-01-02"),
				"appointment_time": "14:00",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Fail with missing phone",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"service_id":       service.ID,
				"appointment_date": tomorrow,
				"appointment_time": "10:00",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "Please fill in all required fields",
		},
		{
			name: "Fail with unknown service",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       9999,
				"appointment_date": tomorrow,
				"appointment_time": "10:00",
			},
			expectedStatus:  http.StatusNotFound,
			expectedCode:    "SERVICE_NOT_FOUND",
			expectedMessage: "Invalid service selected",
		},
		{
			name: "Fail with malformed date",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": "26-08-2026",
				"appointment_time": "10:00",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "Invalid date or time format",
		},
		{
			name: "Fail with malformed time",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": tomorrow,
				"appointment_time": "ten o'clock",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "Invalid date or time format",
		},
		{
			name: "Fail with past date",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": "2020-01-01",
				"appointment_time": "10:00",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "Appointment date must be in the future",
		},
		{
			name: "Fail with date too far ahead",
			requestBody: map[string]interface{}{
				"name":             "Asha Patil",
				"email":            "asha@example.com",
				"phone":            "9876543210",
				"service_id":       service.ID,
				"appointment_date": tooFar,
				"appointment_time": "10:00",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "Appointment date cannot be more than 90 days in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db.Exec("DELETE FROM appointments")
			db.Exec("DELETE FROM customers")

			router := setupTestRouter()
			router.POST("/bookings", CreateBooking)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
				assert.Equal(t, tt.expectedMessage, errorData["message"])
				return
			}

			assert.True(t, response["success"].(bool))
			data := response["data"].(map[string]interface{})
			assert.Equal(t, "pending", data["status"])
			assert.Equal(t, "service", data["type"])
			assert.Equal(t, float64(service.ID), data["service_id"])
			assert.Contains(t, response["message"],
				fmt.Sprintf("Your appointment ID is #%d", int(data["id"].(float64))))

			// Relations come back loaded for the confirmation view
			customerData := data["customer"].(map[string]interface{})
			assert.Equal(t, "Asha Patil", customerData["name"])
			serviceData := data["service"].(map[string]interface{})
			assert.Equal(t, "Electrical Services", serviceData["name"])
		})
	}
}

func TestCreateBookingReusesCustomer(t *testing.T) {
	db := setupBookingTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	service := createTestService(t, db, "Plumbing Services")
	tomorrow := models.Today().AddDate(0, 0, 1).Format("2006-01-02")

	router := setupTestRouter()
	router.POST("/bookings", CreateBooking)

	for _, slot := range []string{"09:00", "11:00"} {
		body, _ := json.Marshal(map[string]interface{}{
			"name":             "Ravi Kumar",
			"email":            "ravi@example.com",
			"phone":            "9812345678",
			"service_id":       service.ID,
			"appointment_date": tomorrow,
			"appointment_time": slot,
		})
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	}

	var customerCount, appointmentCount int64
	db.Model(&models.Customer{}).Count(&customerCount)
	db.Model(&models.Appointment{}).Count(&appointmentCount)
	assert.Equal(t, int64(1), customerCount)
	assert.Equal(t, int64(2), appointmentCount)
}

func TestCreateQuotation(t *testing.T) {
	db := setupBookingTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	service := createTestService(t, db, "Painting Services")

	t.Run("Successfully create quotation with preferred slot", func(t *testing.T) {
		db.Exec("DELETE FROM appointments")
		db.Exec("DELETE FROM customers")

		preferred := models.Today().AddDate(0, 0, 7).Format("2006-01-02")

		router := setupTestRouter()
		router.POST("/quotations", CreateQuotation)

		body, _ := json.Marshal(map[string]interface{}{
			"name":           "Meena Shah",
			"email":          "meena@example.com",
			"phone":          "9876501234",
			"address":        "4 Lake View, Mumbai",
			"service_id":     service.ID,
			"description":    "Full interior repaint of a 2BHK flat",
			"preferred_date": preferred,
			"preferred_time": "15:00",
		})
		req, _ := http.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		assert.True(t, response["success"].(bool))
		assert.Contains(t, response["message"], "Quotation request submitted successfully")

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "quotation", data["type"])
		assert.Equal(t, "pending", data["status"])
		assert.Equal(t, "Quotation request: Full interior repaint of a 2BHK flat", data["notes"])
		assert.Equal(t, "15:00", data["appointment_time"])
		assert.True(t, strings.HasPrefix(data["appointment_date"].(string), preferred))
	})

	t.Run("Defaults applied without preferred slot", func(t *testing.T) {
		db.Exec("DELETE FROM appointments")
		db.Exec("DELETE FROM customers")

		router := setupTestRouter()
		router.POST("/quotations", CreateQuotation)

		body, _ := json.Marshal(map[string]interface{}{
			"name":        "Meena Shah",
			"email":       "meena@example.com",
			"phone":       "9876501234",
			"address":     "4 Lake View, Mumbai",
			"service_id":  service.ID,
			"description": "Exterior touch-up",
		})
		req, _ := http.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var appointment models.Appointment
		require.NoError(t, db.First(&appointment).Error)
		assert.True(t, appointment.AppointmentDate.Equal(models.Today()))
		assert.Equal(t, "10:00", appointment.AppointmentTime)
	})

	t.Run("Past and malformed preferences fall back to defaults", func(t *testing.T) {
		db.Exec("DELETE FROM appointments")
		db.Exec("DELETE FROM customers")

		router := setupTestRouter()
		router.POST("/quotations", CreateQuotation)

		body, _ := json.Marshal(map[string]interface{}{
			"name":           "Meena Shah",
			"email":          "meena@example.com",
			"phone":          "9876501234",
			"address":        "4 Lake View, Mumbai",
			"service_id":     service.ID,
			"description":    "Balcony waterproofing",
			"preferred_date": "2020-01-01",
			"preferred_time": "late evening",
		})
		req, _ := http.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var appointment models.Appointment
		require.NoError(t, db.First(&appointment).Error)
		assert.True(t, appointment.AppointmentDate.Equal(models.Today()))
		assert.Equal(t, "10:00", appointment.AppointmentTime)
	})

	t.Run("Fail with missing address", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/quotations", CreateQuotation)

		body, _ := json.Marshal(map[string]interface{}{
			"name":        "Meena Shah",
			"email":       "meena@example.com",
			"phone":       "9876501234",
			"service_id":  service.ID,
			"description": "Exterior touch-up",
		})
		req, _ := http.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errorData["code"])
		assert.Equal(t, "Please fill in all required fields", errorData["message"])
	})

	t.Run("Fail with unknown service", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/quotations", CreateQuotation)

		body, _ := json.Marshal(map[string]interface{}{
			"name":        "Meena Shah",
			"email":       "meena@example.com",
			"phone":       "9876501234",
			"address":     "4 Lake View, Mumbai",
			"service_id":  9999,
			"description": "Exterior touch-up",
		})
		req, _ := http.NewRequest(http.MethodPost, "/quotations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "SERVICE_NOT_FOUND", errorData["code"])
	})
}

func TestGetBookingConfirmation(t *testing.T) {
	db := setupBookingTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	service := createTestService(t, db, "HVAC Services")
	customer := models.Customer{
		Name:  "Asha Patil",
		Email: "asha@example.com",
		Phone: "9876543210",
	}
	require.NoError(t, db.Create(&customer).Error)

	appointment := models.Appointment{
		CustomerID:      customer.ID,
		ServiceID:       service.ID,
		AppointmentDate: models.Today().AddDate(0, 0, 3),
		AppointmentTime: "11:00",
		Type:            models.TypeService,
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&appointment).Error)

	router := setupTestRouter()
	router.GET("/bookings/:id/confirmation", GetBookingConfirmation)

	t.Run("Confirmation for existing appointment", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/bookings/%d/confirmation", appointment.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(appointment.ID), data["id"])
		assert.Equal(t, "Asha Patil", data["customer"].(map[string]interface{})["name"])
		assert.Equal(t, "HVAC Services", data["service"].(map[string]interface{})["name"])
	})

	t.Run("Missing appointment returns 404", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/bookings/9999/confirmation", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "APPOINTMENT_NOT_FOUND", errorData["code"])
	})
}
