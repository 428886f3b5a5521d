package models

import (
	"time"
)

// PatientProfile is the patient-side extension record, owned one-to-one by a
// User with role PATIENT.
type PatientProfile struct {
	BaseModel
	UserID                string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Address               string     `gorm:"size:255" json:"address,omitempty"`
	EmergencyContactName  string     `gorm:"size:255" json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string     `gorm:"size:50" json:"emergencyContactPhone,omitempty"`

	// Relations (not always preloaded)
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments  []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	Prescriptions []Prescription `gorm:"foreignKey:PatientID" json:"-"`
}

// DoctorProfile is the doctor-side extension record, owned one-to-one by a
// User with role DOCTOR.
type DoctorProfile struct {
	BaseModel
	UserID        string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialty     string `gorm:"size:255" json:"specialty,omitempty"`
	Credentials   string `gorm:"size:255" json:"credentials,omitempty"`
	OfficeAddress string `gorm:"size:255" json:"officeAddress,omitempty"`

	// Relations (not always preloaded)
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments  []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	Prescriptions []Prescription `gorm:"foreignKey:DoctorID" json:"-"`
}
