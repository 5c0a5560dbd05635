package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a customer in the system.
// Phone is the secondary lookup key used by OTP authentication; it is
// indexed but not unique (see AuthenticateAfterOTP).
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `json:"email"`
	Phone     string    `gorm:"not null;index" json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// GetCustomerByEmail returns the first customer with the given email
func GetCustomerByEmail(db *gorm.DB, email string) (*Customer, error) {
	var customer Customer
	if err := db.Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByPhone returns the first customer with the given phone number
func GetCustomerByPhone(db *gorm.DB, phone string) (*Customer, error) {
	var customer Customer
	if err := db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomersByPhone returns every customer sharing the given phone number,
// ordered by ID so callers that must pick one do so deterministically
func GetCustomersByPhone(db *gorm.DB, phone string) ([]Customer, error) {
	var customers []Customer
	if err := db.Where("phone = ?", phone).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetOrCreateCustomer finds a customer by email (when given) or phone and
// refreshes their details, or creates a new record. The boolean reports
// whether a new customer was created.
func GetOrCreateCustomer(db *gorm.DB, name, email, phone, address string) (*Customer, bool, error) {
	var existing *Customer
	if email != "" {
		if found, err := GetCustomerByEmail(db, email); err == nil {
			existing = found
		}
	}
	if existing == nil {
		if found, err := GetCustomerByPhone(db, phone); err == nil {
			existing = found
		}
	}

	if existing != nil {
		updates := map[string]interface{}{}
		if existing.Name != name {
			updates["name"] = name
		}
		if address != "" && existing.Address != address {
			updates["address"] = address
		}
		if email != "" && existing.Email != email {
			updates["email"] = email
		}
		if existing.Phone != phone {
			updates["phone"] = phone
		}

		if len(updates) > 0 {
			if err := db.Model(existing).Updates(updates).Error; err != nil {
				return existing, false, err
			}
		}
		return existing, false, nil
	}

	customer := Customer{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, false, err
	}
	return &customer, true, nil
}
