package handlers

import (
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

// PrescriptionHandler handles prescription related requests.
type PrescriptionHandler struct {
	Store repository.Store
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(store repository.Store) *PrescriptionHandler {
	return &PrescriptionHandler{Store: store}
}

// CreatePrescriptionRequest is the body for issuing a prescription.
type CreatePrescriptionRequest struct {
	AppointmentID    string     `json:"appointmentId" binding:"required"`
	PatientID        string     `json:"patientId" binding:"required"`
	Medication       string     `json:"medication" binding:"required"`
	Dosage           string     `json:"dosage" binding:"required"`
	Frequency        string     `json:"frequency" binding:"required"`
	StartDate        time.Time  `json:"startDate" binding:"required"`
	EndDate          *time.Time `json:"endDate"`
	RefillsAvailable int        `json:"refillsAvailable"`
	Notes            *string    `json:"notes"`
}

// CreatePrescription handles a doctor issuing a prescription against one of
// their own appointments. The appointment is looked up by id and doctor
// together, so a valid id belonging to another doctor is not found. When
// notes are supplied they overwrite the appointment's notes; prescription and
// appointment are written in one transaction.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if err := policy.CanCreatePrescription(userRole); err != nil {
		utils.Forbidden(c, err.Error())
		return
	}

	var req CreatePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	doctor, err := h.Store.Profiles().DoctorByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointment, err := h.Store.Appointments().ByIDForDoctor(req.AppointmentID, doctor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found or you don't have access")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if _, err := h.Store.Profiles().PatientByID(req.PatientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	prescription := models.Prescription{
		PatientID:        req.PatientID,
		DoctorID:         doctor.ID,
		Medication:       req.Medication,
		Dosage:           req.Dosage,
		Frequency:        req.Frequency,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		RefillsAvailable: req.RefillsAvailable,
	}

	err = h.Store.InTx(func(tx repository.Store) error {
		if err := tx.Prescriptions().Create(&prescription); err != nil {
			return err
		}
		if req.Notes != nil && *req.Notes != "" {
			appointment.Notes = req.Notes
			if err := tx.Appointments().Save(appointment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create prescription: "+err.Error())
		return
	}

	utils.Created(c, "Prescription created successfully", prescription)
}

// GetPrescriptionsForAppointment lists prescriptions reachable through an
// appointment. The result covers everything the appointment's doctor has
// written for its patient, not just this appointment; the record keeps no
// appointment id to filter by.
func (h *PrescriptionHandler) GetPrescriptionsForAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

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

	callerProfileID, ok := h.callerProfileID(c, userID, userRole)
	if !ok {
		return
	}

	if err := policy.CanViewAppointmentPrescriptions(userRole, callerProfileID, appointment); err != nil {
		utils.Forbidden(c, err.Error())
		return
	}

	prescriptions, err := h.Store.Prescriptions().ListForPair(appointment.PatientID, appointment.DoctorID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	utils.Success(c, "Prescriptions fetched successfully", prescriptions)
}

// callerProfileID resolves the caller's role-specific profile id. A missing
// profile reads as an authorization failure here, matching the shipped
// behavior of the listing endpoint.
func (h *PrescriptionHandler) callerProfileID(c *gin.Context, userID string, role models.UserRole) (string, bool) {
	if role == models.RoleDoctor {
		doctor, err := h.Store.Profiles().DoctorByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Forbidden(c, "Access denied")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return "", false
		}
		return doctor.ID, true
	}

	patient, err := h.Store.Profiles().PatientByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Forbidden(c, "Access denied")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return "", false
	}
	return patient.ID, true
}
