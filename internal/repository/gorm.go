package repository

import (
	"time"

	"gorm.io/gorm"

	"healthsync-server/internal/models"
)

// NewStore creates a gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) Users() UserRepository                 { return &userRepo{db: s.db} }
func (s *gormStore) Profiles() ProfileRepository           { return &profileRepo{db: s.db} }
func (s *gormStore) Appointments() AppointmentRepository   { return &appointmentRepo{db: s.db} }
func (s *gormStore) Prescriptions() PrescriptionRepository { return &prescriptionRepo{db: s.db} }
func (s *gormStore) RefreshTokens() RefreshTokenRepository { return &refreshTokenRepo{db: s.db} }

func (s *gormStore) InTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) ByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailTaken(email, excludeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("email = ? AND id != ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepo) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).Find(&users).Error
	return users, err
}

func (r *userRepo) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Save(user *models.User) error {
	return r.db.Save(user).Error
}

type profileRepo struct {
	db *gorm.DB
}

func (r *profileRepo) PatientByUserID(userID string) (*models.PatientProfile, error) {
	var profile models.PatientProfile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) DoctorByUserID(userID string) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) PatientByID(id string) (*models.PatientProfile, error) {
	var profile models.PatientProfile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) CreatePatient(profile *models.PatientProfile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepo) CreateDoctor(profile *models.DoctorProfile) error {
	return r.db.Create(profile).Error
}

type appointmentRepo struct {
	db *gorm.DB
}

func (r *appointmentRepo) ByID(id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepo) ByIDForDoctor(id, doctorID string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.First(&appointment, "id = ? AND doctor_id = ?", id, doctorID).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepo) ListForPatient(patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) ListForDoctor(doctorID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) Create(appointment *models.Appointment) error {
	return r.db.Create(appointment).Error
}

func (r *appointmentRepo) Save(appointment *models.Appointment) error {
	return r.db.Save(appointment).Error
}

type prescriptionRepo struct {
	db *gorm.DB
}

func (r *prescriptionRepo) ListForPair(patientID, doctorID string) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		Find(&prescriptions).Error
	return prescriptions, err
}

func (r *prescriptionRepo) ListForPatient(patientID string) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Find(&prescriptions).Error
	return prescriptions, err
}

func (r *prescriptionRepo) Create(prescription *models.Prescription) error {
	return r.db.Create(prescription).Error
}

type refreshTokenRepo struct {
	db *gorm.DB
}

func (r *refreshTokenRepo) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *refreshTokenRepo) FindActive(token, userID string, unexpired bool) (*models.RefreshToken, error) {
	query := r.db.Where("token = ? AND is_revoked = ?", token, false)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if unexpired {
		query = query.Where("expires_at > ?", time.Now())
	}

	var stored models.RefreshToken
	if err := query.First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *refreshTokenRepo) Save(token *models.RefreshToken) error {
	return r.db.Save(token).Error
}
