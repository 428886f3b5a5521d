package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthsync-server/internal/middleware"
	"healthsync-server/internal/models"
	"healthsync-server/internal/policy"
	"healthsync-server/internal/repository"
	"healthsync-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Store repository.Store
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(store repository.Store) *AppointmentHandler {
	return &AppointmentHandler{Store: store}
}

// CreateAppointmentRequest is the body for a patient booking for themselves.
type CreateAppointmentRequest struct {
	DoctorID        string    `json:"doctorId" binding:"required"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Duration        int       `json:"duration"`
	ReasonForVisit  string    `json:"reasonForVisit"`
	Notes           *string   `json:"notes"`
}

// CreateAppointment handles a patient booking an appointment for themselves.
// The doctor id is not verified here; the foreign key at the store enforces it.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, ok := h.patientProfile(c, userID)
	if !ok {
		return
	}

	duration := req.Duration
	if duration == 0 {
		duration = 30
	}

	appointment := models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		Duration:        duration,
		ReasonForVisit:  req.ReasonForVisit,
		Notes:           req.Notes,
		Status:          models.StatusPending,
	}

	if err := h.Store.Appointments().Create(&appointment); err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// DoctorCreateAppointmentRequest is the body for a doctor booking on behalf
// of a patient.
type DoctorCreateAppointmentRequest struct {
	PatientID       string    `json:"patientId" binding:"required"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Duration        int       `json:"duration"`
	ReasonForVisit  string    `json:"reasonForVisit"`
	Notes           *string   `json:"notes"`
}

// CreateAppointmentForPatient handles a doctor booking an appointment for a
// verified patient.
func (h *AppointmentHandler) CreateAppointmentForPatient(c *gin.Context) {
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if err := policy.CanCreateForPatient(userRole); err != nil {
		utils.Forbidden(c, err.Error())
		return
	}

	var req DoctorCreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	doctor, ok := h.doctorProfile(c, userID)
	if !ok {
		return
	}

	patient, err := h.Store.Profiles().PatientByID(req.PatientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	duration := req.Duration
	if duration == 0 {
		duration = 30
	}

	appointment := models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: req.AppointmentDate,
		Duration:        duration,
		ReasonForVisit:  req.ReasonForVisit,
		Notes:           req.Notes,
		Status:          models.StatusPending,
	}

	if err := h.Store.Appointments().Create(&appointment); err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user
// (patient or doctor), with the counterpart profile and user eagerly loaded.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error

	switch userRole {
	case models.RolePatient:
		patient, ok := h.patientProfile(c, userID)
		if !ok {
			return
		}
		appointments, err = h.Store.Appointments().ListForPatient(patient.ID)
	case models.RoleDoctor:
		doctor, ok := h.doctorProfile(c, userID)
		if !ok {
			return
		}
		appointments, err = h.Store.Appointments().ListForDoctor(doctor.ID)
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointment handles a merge-patch of an appointment: fields absent
// from the body stay untouched, a field set to null is cleared (notes only).
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	appointment, err := h.Store.Appointments().ByID(appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	callerProfileID := ""
	if userRole == models.RolePatient {
		patient, ok := h.patientProfile(c, userID)
		if !ok {
			return
		}
		callerProfileID = patient.ID
	}

	if err := policy.CanUpdateAppointment(userRole, callerProfileID, appointment); err != nil {
		utils.Forbidden(c, err.Error())
		return
	}

	if !applyAppointmentPatch(c, appointment, patch) {
		return
	}

	if err := h.Store.Appointments().Save(appointment); err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// applyAppointmentPatch writes the present patch fields onto the appointment.
// It responds with a 400 and returns false on a malformed field.
func applyAppointmentPatch(c *gin.Context, appointment *models.Appointment, patch map[string]json.RawMessage) bool {
	if raw, ok := patch["appointmentDate"]; ok {
		var date time.Time
		if err := json.Unmarshal(raw, &date); err != nil {
			utils.BadRequest(c, "Invalid appointmentDate")
			return false
		}
		appointment.AppointmentDate = date
	}
	if raw, ok := patch["duration"]; ok {
		var duration int
		if err := json.Unmarshal(raw, &duration); err != nil {
			utils.BadRequest(c, "Invalid duration")
			return false
		}
		appointment.Duration = duration
	}
	if raw, ok := patch["reasonForVisit"]; ok {
		var reason string
		if err := json.Unmarshal(raw, &reason); err != nil {
			utils.BadRequest(c, "Invalid reasonForVisit")
			return false
		}
		appointment.ReasonForVisit = reason
	}
	if raw, ok := patch["notes"]; ok {
		// A literal null clears the notes.
		var notes *string
		if err := json.Unmarshal(raw, &notes); err != nil {
			utils.BadRequest(c, "Invalid notes")
			return false
		}
		appointment.Notes = notes
	}
	if raw, ok := patch["status"]; ok {
		var status models.AppointmentStatus
		if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
			utils.BadRequest(c, "Invalid appointment status")
			return false
		}
		appointment.Status = status
	}
	return true
}

// patientProfile resolves the caller's patient profile or responds 404.
func (h *AppointmentHandler) patientProfile(c *gin.Context, userID string) (*models.PatientProfile, bool) {
	profile, err := h.Store.Profiles().PatientByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return profile, true
}

// doctorProfile resolves the caller's doctor profile or responds 404.
func (h *AppointmentHandler) doctorProfile(c *gin.Context, userID string) (*models.DoctorProfile, bool) {
	profile, err := h.Store.Profiles().DoctorByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return profile, true
}
