package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCanceled  AppointmentStatus = "CANCELED"
)

// Valid reports whether s is one of the known appointment statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment represents a scheduled visit between a patient and a doctor.
// Notes is nullable and may be cleared by an explicit null in a patch.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	AppointmentDate time.Time         `gorm:"not null" json:"appointmentDate"`
	Duration        int               `gorm:"default:30;not null" json:"duration"` // minutes
	ReasonForVisit  string            `gorm:"size:255" json:"reasonForVisit"`
	Notes           *string           `gorm:"type:text" json:"notes"`
	Status          AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`

	// Relations
	Patient *PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}
