package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultPerPage is the number of rows returned per admin listing page
const DefaultPerPage = 20

// MaxPerPage caps the per_page query parameter
const MaxPerPage = 100

// Pagination holds parsed listing parameters
type Pagination struct {
	Page    int
	PerPage int
	Offset  int
}

// ParsePagination reads page and per_page query params with sane defaults
func ParsePagination(c *gin.Context) Pagination {
	page := parseInt(c.Query("page"), 1)
	perPage := parseInt(c.Query("per_page"), DefaultPerPage)

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// TotalPages returns the page count for a row total
func (p Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage != 0 {
		pages++
	}
	return pages
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
