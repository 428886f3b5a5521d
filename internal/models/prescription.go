package models

import (
	"time"
)

// Prescription is issued by a doctor for a patient. It is always created
// against one of the doctor's own appointments, but only the patient/doctor
// pair is retained on the record itself.
type Prescription struct {
	BaseModel
	PatientID        string     `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID         string     `gorm:"size:36;index;not null" json:"doctorId"`
	Medication       string     `gorm:"size:255;not null" json:"medication"`
	Dosage           string     `gorm:"size:255;not null" json:"dosage"`
	Frequency        string     `gorm:"size:255;not null" json:"frequency"`
	StartDate        time.Time  `gorm:"not null" json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	RefillsAvailable int        `gorm:"default:0;not null" json:"refillsAvailable"`

	// Relations
	Patient *PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// Active reports whether the prescription is still active on the given day.
// The comparison is date-only: a prescription ending today is still active.
func (p *Prescription) Active(today time.Time) bool {
	if p.EndDate == nil {
		return true
	}
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, today.Location())
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return !end.Before(day)
}
