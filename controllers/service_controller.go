package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
)

// relatedServiceLimit caps the related-services preview on the detail view
const relatedServiceLimit = 3

// ListServices handles GET /api/v1/services - the public catalog with
// optional category and q filters
func ListServices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))

	db := config.GetDB()
	catalog, err := models.SearchServices(db, query, category)
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

	categories, err := models.GetServiceCategories(db)
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
		"success":    true,
		"data":       catalog,
		"total":      len(catalog),
		"categories": categories,
	})
}

// GetService handles GET /api/v1/services/:id - detail of an active
// service plus a short preview of others in its category
func GetService(c *gin.Context) {
	id := c.Param("id")

	db := config.GetDB()
	var service models.Service
	err := db.Where("is_active = ?", true).First(&service, "id = ?", id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	var related []models.Service
	if service.Category != "" {
		err = db.Where("is_active = ? AND category = ? AND id <> ?",
			true, service.Category, service.ID).
			Order("name ASC").
			Limit(relatedServiceLimit).
			Find(&related).Error
		if err != nil {
			related = nil
		}
	}

	attachIconURL(&service)
	attachIconURLs(related)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"data":             service,
		"related_services": related,
	})
}

// GetServiceCategories handles GET /api/v1/services/categories - distinct
// categories of active services
func GetServiceCategories(c *gin.Context) {
	db := config.GetDB()
	categories, err := models.GetServiceCategories(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// attachIconURL fills in the presigned icon URL for a service with an
// uploaded icon. Presign failures leave the URL unset rather than failing
// the request.
func attachIconURL(service *models.Service) {
	iconService := services.GetIconService()
	if iconService == nil || service.IconS3Key == nil || *service.IconS3Key == "" {
		return
	}

	url, err := iconService.GetIconURL(*service.IconS3Key)
	if err != nil {
		log.Printf("Failed to generate icon URL for service %d: %v", service.ID, err)
		return
	}
	if url != "" {
		service.IconURL = &url
	}
}

func attachIconURLs(catalog []models.Service) {
	for i := range catalog {
		attachIconURL(&catalog[i])
	}
}
