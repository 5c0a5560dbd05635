package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment status values. Transitions are not constrained at this layer;
// handlers validate input before invoking a transition method.
const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

// Appointment type values
const (
	TypeService      = "service"
	TypeQuotation    = "quotation"
	TypeConsultation = "consultation"
)

// Appointment represents a scheduled visit or quotation request.
// AppointmentDate is stored as midnight UTC; AppointmentTime is the
// zero-padded "HH:MM" start time within the working day.
type Appointment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CustomerID        uint       `gorm:"not null;index" json:"customer_id"`
	Customer          Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceID         uint       `gorm:"not null;index" json:"service_id"`
	Service           Service    `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	AppointmentDate   time.Time  `gorm:"not null;index" json:"appointment_date"`
	AppointmentTime   string     `gorm:"not null;size:5" json:"appointment_time"`
	Type              string     `gorm:"not null;default:'service'" json:"type"`
	Status            string     `gorm:"not null;default:'pending';index" json:"status"`
	Notes             string     `json:"notes"`
	Address           string     `json:"address"`
	EstimatedDuration string     `json:"estimated_duration"`
	EstimatedCost     string     `json:"estimated_cost"`
	ActualCost        string     `json:"actual_cost"`
	TechnicianNotes   string     `json:"technician_notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	CancelledAt       *time.Time `json:"cancelled_at"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// DateOnly truncates a timestamp to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns midnight UTC of the current calendar day
func Today() time.Time {
	return DateOnly(time.Now())
}

// Confirm marks the appointment as confirmed
func (a *Appointment) Confirm(db *gorm.DB) error {
	a.Status = StatusConfirmed
	return db.Model(a).Update("status", StatusConfirmed).Error
}

// StartService marks the appointment as in progress
func (a *Appointment) StartService(db *gorm.DB) error {
	a.Status = StatusInProgress
	return db.Model(a).Update("status", StatusInProgress).Error
}

// Complete marks the appointment as completed, stamping CompletedAt and
// recording the actual cost and technician notes when provided
func (a *Appointment) Complete(db *gorm.DB, actualCost, technicianNotes string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       StatusCompleted,
		"completed_at": now,
	}
	if actualCost != "" {
		updates["actual_cost"] = actualCost
	}
	if technicianNotes != "" {
		updates["technician_notes"] = technicianNotes
	}

	if err := db.Model(a).Updates(updates).Error; err != nil {
		return err
	}
	a.Status = StatusCompleted
	a.CompletedAt = &now
	if actualCost != "" {
		a.ActualCost = actualCost
	}
	if technicianNotes != "" {
		a.TechnicianNotes = technicianNotes
	}
	return nil
}

// Cancel marks the appointment as cancelled, stamping CancelledAt and
// recording the reason in the technician notes when given
func (a *Appointment) Cancel(db *gorm.DB, reason string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       StatusCancelled,
		"cancelled_at": now,
	}
	if reason != "" {
		updates["technician_notes"] = "Cancelled: " + reason
	}

	if err := db.Model(a).Updates(updates).Error; err != nil {
		return err
	}
	a.Status = StatusCancelled
	a.CancelledAt = &now
	if reason != "" {
		a.TechnicianNotes = "Cancelled: " + reason
	}
	return nil
}

// Reschedule moves the appointment to a new date and time. The status
// becomes rescheduled; it does not block further transitions.
func (a *Appointment) Reschedule(db *gorm.DB, newDate time.Time, newTime, reason string) error {
	newDate = DateOnly(newDate)
	updates := map[string]interface{}{
		"appointment_date": newDate,
		"appointment_time": newTime,
		"status":           StatusRescheduled,
	}
	if reason != "" {
		updates["technician_notes"] = "Rescheduled: " + reason
	}

	if err := db.Model(a).Updates(updates).Error; err != nil {
		return err
	}
	a.AppointmentDate = newDate
	a.AppointmentTime = newTime
	a.Status = StatusRescheduled
	if reason != "" {
		a.TechnicianNotes = "Rescheduled: " + reason
	}
	return nil
}

// GetAppointmentsByCustomer returns a customer's appointments, newest first
func GetAppointmentsByCustomer(db *gorm.DB, customerID uint) ([]Appointment, error) {
	var appointments []Appointment
	err := db.Where("customer_id = ?", customerID).
		Preload("Service").
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// GetAppointmentsByDate returns every appointment on the given calendar day
func GetAppointmentsByDate(db *gorm.DB, date time.Time) ([]Appointment, error) {
	var appointments []Appointment
	err := db.Where("appointment_date = ?", DateOnly(date)).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// GetUpcomingAppointments returns appointments within the next `days` days,
// starting today, soonest first
func GetUpcomingAppointments(db *gorm.DB, days int) ([]Appointment, error) {
	start := Today()
	end := start.AddDate(0, 0, days)

	var appointments []Appointment
	err := db.Where("appointment_date >= ? AND appointment_date <= ?", start, end).
		Preload("Customer").
		Preload("Service").
		Order("appointment_date ASC, appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// GetTodayAppointments returns today's appointments, earliest first
func GetTodayAppointments(db *gorm.DB) ([]Appointment, error) {
	var appointments []Appointment
	err := db.Where("appointment_date = ?", Today()).
		Preload("Customer").
		Preload("Service").
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
