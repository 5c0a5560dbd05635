package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/om-engineers/om-engineers-api/models"
	"gorm.io/gorm"
)

// Working-day window for slot generation. Slots start on the hour; the last
// slot must end by WorkdayEndHour.
const (
	WorkdayStartHour = 9
	WorkdayEndHour   = 18
	DefaultSlotHours = 2
)

// AppointmentStats summarizes appointment counts by status. CompletionRate
// is a percentage rounded to two decimals, zero when there are no
// appointments at all.
type AppointmentStats struct {
	Total          int64   `json:"total"`
	Pending        int64   `json:"pending"`
	Confirmed      int64   `json:"confirmed"`
	Completed      int64   `json:"completed"`
	Cancelled      int64   `json:"cancelled"`
	CompletionRate float64 `json:"completion_rate"`
}

// AvailableSlots returns the open hourly start times ("HH:MM") on a date for
// a booking of the given whole-hour duration. Every non-cancelled
// appointment on the date blocks an interval of the same duration starting
// at its own start hour, regardless of the booked service's own duration
// estimate.
func AvailableSlots(db *gorm.DB, date time.Time, durationHours int) ([]string, error) {
	if durationHours <= 0 {
		durationHours = DefaultSlotHours
	}

	appointments, err := models.GetAppointmentsByDate(db, date)
	if err != nil {
		return nil, err
	}

	type interval struct {
		start int
		end   int
	}

	var booked []interval
	for _, apt := range appointments {
		if apt.Status == models.StatusCancelled {
			continue
		}
		parsed, err := time.Parse("15:04", apt.AppointmentTime)
		if err != nil {
			log.Printf("Skipping appointment %d with unparseable time %q", apt.ID, apt.AppointmentTime)
			continue
		}
		start := parsed.Hour()
		booked = append(booked, interval{start: start, end: start + durationHours})
	}

	slots := []string{}
	for start := WorkdayStartHour; start+durationHours <= WorkdayEndHour; start++ {
		end := start + durationHours
		open := true
		for _, b := range booked {
			// [start,end) and [b.start,b.end) overlap unless one ends
			// before the other begins
			if !(end <= b.start || start >= b.end) {
				open = false
				break
			}
		}
		if open {
			slots = append(slots, fmt.Sprintf("%02d:00", start))
		}
	}

	return slots, nil
}

// GetAppointmentStats counts appointments by status across the whole table
func GetAppointmentStats(db *gorm.DB) (*AppointmentStats, error) {
	stats := &AppointmentStats{}

	if err := db.Model(&models.Appointment{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	counts := map[string]*int64{
		models.StatusPending:   &stats.Pending,
		models.StatusConfirmed: &stats.Confirmed,
		models.StatusCompleted: &stats.Completed,
		models.StatusCancelled: &stats.Cancelled,
	}
	for status, dest := range counts {
		err := db.Model(&models.Appointment{}).Where("status = ?", status).Count(dest).Error
		if err != nil {
			return nil, err
		}
	}

	if stats.Total > 0 {
		rate := float64(stats.Completed) / float64(stats.Total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}

	return stats, nil
}
