package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RolePatient UserRole = "PATIENT"
	RoleDoctor  UserRole = "DOCTOR"
)

// User represents an account in the system. Role decides which profile row
// (PatientProfile or DoctorProfile) belongs to it; exactly one exists per user
// and it is created together with the user at registration.
type User struct {
	BaseModel
	Email       string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string   `gorm:"size:255" json:"-"` // Never send password in JSON
	Name        string   `gorm:"size:255" json:"name"`
	Role        UserRole `gorm:"size:20;default:'PATIENT'" json:"role"`
	PhoneNumber string   `gorm:"size:50" json:"phoneNumber,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Gender      string   `gorm:"size:20" json:"gender,omitempty"`
	Image       string   `gorm:"size:255" json:"image,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens  []RefreshToken  `gorm:"foreignKey:UserID" json:"-"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"-"`
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        UserRole  `json:"role"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		Age:         u.Age,
		Gender:      u.Gender,
		Image:       u.Image,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
