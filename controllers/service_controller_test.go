package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Service{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createIconFileHeader builds a multipart.FileHeader carrying the given
// content, the way an uploaded form file arrives
func createIconFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="icon"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)

	require.NotEmpty(t, form.File["icon"])
	return form.File["icon"][0]
}

func TestListServices(t *testing.T) {
	db := setupServiceTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	mock := services.NewMockIconService()
	mock.SetAsMockForTesting()

	iconKey, err := mock.UploadIcon(createIconFileHeader(t, "wiring.png", []byte("fake png content")))
	require.NoError(t, err)

	catalog := []models.Service{
		{
			Name:        "Electrical Repair",
			Description: "Complete electrical work",
			Category:    "Electrical",
			Icon:        "⚡",
			IsActive:    true,
		},
		{
			Name:        "Wiring Check",
			Description: "Safety inspection",
			Category:    "Electrical",
			Icon:        "⚡",
			IconS3Key:   &iconKey,
			IsActive:    true,
		},
		{
			Name:        "Retired Offering",
			Description: "No longer available",
			Category:    "Misc",
			IsActive:    false,
		},
	}
	for i := range catalog {
		require.NoError(t, db.Create(&catalog[i]).Error)
	}

	router := setupTestRouter()
	router.GET("/services", ListServices)

	t.Run("Lists active services with categories", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/services", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		assert.True(t, response["success"].(bool))
		assert.Equal(t, float64(2), response["total"])

		data := response["data"].([]interface{})
		require.Len(t, data, 2)
		for _, item := range data {
			assert.NotEqual(t, "Retired Offering", item.(map[string]interface{})["name"])
		}

		categories := response["categories"].([]interface{})
		assert.Equal(t, []interface{}{"Electrical"}, categories)
	})

	t.Run("Presigns uploaded icons", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/services?q=wiring", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		data := response["data"].([]interface{})
		require.Len(t, data, 1)

		item := data[0].(map[string]interface{})
		assert.Equal(t, "Wiring Check", item["name"])
		assert.Contains(t, item["icon_url"], iconKey)
	})

	t.Run("Category filter is case-insensitive", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/services?category=electrical", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(2), response["total"])
	})

	t.Run("No matches returns an empty list", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/services?q=plumbing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(0), response["total"])
		assert.Empty(t, response["data"])
	})
}

func TestGetService(t *testing.T) {
	db := setupServiceTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	active := models.Service{
		Name:        "Electrical Repair",
		Description: "Complete electrical work",
		Category:    "Electrical",
		IsActive:    true,
	}
	require.NoError(t, db.Create(&active).Error)

	siblings := []models.Service{
		{Name: "Fan Installation", Category: "Electrical", IsActive: true},
		{Name: "Inverter Setup", Category: "Electrical", IsActive: true},
		{Name: "Meter Replacement", Category: "Electrical", IsActive: true},
		{Name: "Wiring Check", Category: "Electrical", IsActive: true},
	}
	for i := range siblings {
		require.NoError(t, db.Create(&siblings[i]).Error)
	}

	inactive := models.Service{
		Name:     "Retired Offering",
		Category: "Electrical",
		IsActive: false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	router := setupTestRouter()
	router.GET("/services/:id", GetService)

	t.Run("Detail with related services", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/services/%d", active.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)

		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Electrical Repair", data["name"])

		related := response["related_services"].([]interface{})
		assert.Len(t, related, 3)
		for _, item := range related {
			assert.NotEqual(t, "Electrical Repair", item.(map[string]interface{})["name"])
		}
	})

	t.Run("Inactive service returns 404", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/services/%d", inactive.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "SERVICE_NOT_FOUND", errorData["code"])
	})

	t.Run("Unknown service returns 404", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/services/9999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetServiceCategoriesEndpoint(t *testing.T) {
	db := setupServiceTestDB(t)
	config.SetDB(db)
	setupControllerConfig()

	require.NoError(t, models.SeedDefaultServices(db))

	router := setupTestRouter()
	router.GET("/services/categories", GetServiceCategories)

	req, _ := http.NewRequest(http.MethodGet, "/services/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.True(t, response["success"].(bool))
	categories := response["data"].([]interface{})
	assert.Len(t, categories, 8)
	assert.Equal(t, "Appliances", categories[0])
	assert.Contains(t, categories, "Electrical")
	assert.Contains(t, categories, "Pest Control")
}
