// Package repository provides explicit per-entity data access on top of the
// gorm connection. Handlers depend on these interfaces rather than on a shared
// ORM session; related records are fetched through explicit eager loads, never
// lazy traversal.
package repository

import (
	"healthsync-server/internal/models"
)

// UserRepository provides access to User rows.
type UserRepository interface {
	ByID(id string) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	// EmailTaken reports whether another user (excluding excludeID) already
	// uses the given email.
	EmailTaken(email, excludeID string) (bool, error)
	Count() (int64, error)
	ListByRole(role models.UserRole) ([]models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

// ProfileRepository resolves the role-specific profile rows owned by users.
type ProfileRepository interface {
	PatientByUserID(userID string) (*models.PatientProfile, error)
	DoctorByUserID(userID string) (*models.DoctorProfile, error)
	PatientByID(id string) (*models.PatientProfile, error)
	CreatePatient(profile *models.PatientProfile) error
	CreateDoctor(profile *models.DoctorProfile) error
}

// AppointmentRepository provides access to Appointment rows. The List methods
// eagerly load the counterpart profile and its user in one call.
type AppointmentRepository interface {
	ByID(id string) (*models.Appointment, error)
	// ByIDForDoctor finds an appointment only when it belongs to the given
	// doctor; an existing appointment owned by another doctor is not found.
	ByIDForDoctor(id, doctorID string) (*models.Appointment, error)
	ListForPatient(patientID string) ([]models.Appointment, error)
	ListForDoctor(doctorID string) ([]models.Appointment, error)
	Create(appointment *models.Appointment) error
	Save(appointment *models.Appointment) error
}

// PrescriptionRepository provides access to Prescription rows.
type PrescriptionRepository interface {
	// ListForPair returns every prescription the doctor has written for the
	// patient, across all of their appointments.
	ListForPair(patientID, doctorID string) ([]models.Prescription, error)
	ListForPatient(patientID string) ([]models.Prescription, error)
	Create(prescription *models.Prescription) error
}

// RefreshTokenRepository provides access to stored refresh tokens.
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	// FindActive returns a non-revoked token; userID may be empty to match
	// any user. When unexpired is true, expired tokens are not found.
	FindActive(token, userID string, unexpired bool) (*models.RefreshToken, error)
	Save(token *models.RefreshToken) error
}

// Store bundles the repositories behind one handle. InTx runs fn against a
// store bound to a single database transaction; any error rolls the whole
// unit of work back.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Appointments() AppointmentRepository
	Prescriptions() PrescriptionRepository
	RefreshTokens() RefreshTokenRepository
	InTx(fn func(Store) error) error
}
