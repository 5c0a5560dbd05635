package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/services"
)

// GetPincodeInfo handles GET /api/v1/pincode/:pincode - resolves an Indian
// PIN code to its city, state and area
func GetPincodeInfo(c *gin.Context) {
	pincode := c.Param("pincode")

	info, err := services.GetPincodeService().Lookup(pincode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPincode):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid PIN code format",
				},
			})
		case errors.Is(err, services.ErrPincodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PINCODE_NOT_FOUND",
					"message": "PIN code not found in any data source",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVER_ERROR",
					"message": "Service temporarily unavailable",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"city":    info.City,
		"state":   info.State,
		"area":    info.Area,
	})
}
