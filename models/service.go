package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultServiceIcon is the fallback emoji shown when a service has neither
// a custom emoji nor an uploaded icon image
const DefaultServiceIcon = "🔧"

// Service represents a catalog entry for a repair or maintenance offering.
// Duration and PriceRange are free text shown to customers. Icon is a short
// emoji used in listings; IconS3Key points at an uploaded icon image in S3
// when one exists.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	Duration    string    `json:"duration"`
	PriceRange  string    `json:"price_range"`
	Icon        string    `json:"icon"`
	IconS3Key   *string   `json:"icon_s3_key,omitempty"`
	IconURL     *string   `gorm:"-" json:"icon_url,omitempty"` // computed field, presigned URL for icon
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// GetActiveServices returns all active catalog entries grouped by category
func GetActiveServices(db *gorm.DB) ([]Service, error) {
	var services []Service
	if err := db.Where("is_active = ?", true).Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// GetServiceCategories returns the distinct categories of active services
func GetServiceCategories(db *gorm.DB) ([]string, error) {
	var categories []string
	err := db.Model(&Service{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SearchServices returns active services whose name, description or
// category contains the query, case-insensitively, optionally restricted to
// an exact category
func SearchServices(db *gorm.DB, query, category string) ([]Service, error) {
	tx := db.Where("is_active = ?", true)
	if category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", category)
	}
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	// Initialized so an empty catalog serializes as [] rather than null
	services := []Service{}
	if err := tx.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// SeedDefaultServices populates the catalog with the standard offerings on
// first boot. It does nothing when any service already exists.
func SeedDefaultServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []Service{
		{
			Name:        "Electrical Repair",
			Description: "Complete electrical solutions for your home including wiring, outlets, and fixtures",
			Category:    "Electrical",
			Duration:    "2-4 hours",
			PriceRange:  "₹500 - ₹2000",
			Icon:        "⚡",
		},
		{
			Name:        "Plumbing Services",
			Description: "Professional plumbing repairs and installations for all your water-related needs",
			Category:    "Plumbing",
			Duration:    "1-3 hours",
			PriceRange:  "₹300 - ₹1500",
			Icon:        "🔧",
		},
		{
			Name:        "AC Repair & Service",
			Description: "Air conditioning repair, maintenance, and installation services",
			Category:    "HVAC",
			Duration:    "1-2 hours",
			PriceRange:  "₹800 - ₹3000",
			Icon:        "❄️",
		},
		{
			Name:        "Home Appliance Repair",
			Description: "Repair services for washing machines, refrigerators, microwaves, and more",
			Category:    "Appliances",
			Duration:    "2-3 hours",
			PriceRange:  "₹600 - ₹2500",
			Icon:        "🏠",
		},
		{
			Name:        "Carpentry Services",
			Description: "Furniture repair, custom woodwork, and carpentry solutions",
			Category:    "Carpentry",
			Duration:    "3-6 hours",
			PriceRange:  "₹1000 - ₹5000",
			Icon:        "🔨",
		},
		{
			Name:        "Painting Services",
			Description: "Interior and exterior painting services for homes and offices",
			Category:    "Painting",
			Duration:    "4-8 hours",
			PriceRange:  "₹1500 - ₹8000",
			Icon:        "🎨",
		},
		{
			Name:        "Cleaning Services",
			Description: "Deep cleaning, regular maintenance, and specialized cleaning services",
			Category:    "Cleaning",
			Duration:    "2-4 hours",
			PriceRange:  "₹800 - ₹3000",
			Icon:        "🧹",
		},
		{
			Name:        "Pest Control",
			Description: "Safe and effective pest control solutions for your home",
			Category:    "Pest Control",
			Duration:    "1-2 hours",
			PriceRange:  "₹1000 - ₹4000",
			Icon:        "🐛",
		},
	}

	for i := range defaults {
		defaults[i].IsActive = true
	}
	return db.Create(&defaults).Error
}
