package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupModelTestDB creates an in-memory database with all models migrated
func setupModelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&Customer{}, &CustomerAuth{}, &OTP{}, &Service{}, &Appointment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
