package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthsync-server/internal/dashboard"
	"healthsync-server/internal/middleware"
	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
	"healthsync-server/internal/utils"
)

// DashboardHandler serves the role-shaped dashboard aggregate.
type DashboardHandler struct {
	Store repository.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store repository.Store) *DashboardHandler {
	return &DashboardHandler{Store: store}
}

// GetDashboard loads the caller's full appointment (and, for patients,
// prescription) history and returns the aggregate for their role. One
// timestamp is taken up front and used for every comparison in the build.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	now := time.Now().UTC()

	switch userRole {
	case models.RolePatient:
		h.patientDashboard(c, userID, now)
	case models.RoleDoctor:
		h.doctorDashboard(c, userID, now)
	default:
		utils.BadRequest(c, "Invalid user role")
	}
}

func (h *DashboardHandler) patientDashboard(c *gin.Context, userID string, now time.Time) {
	patient, err := h.Store.Profiles().PatientByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointments, err := h.Store.Appointments().ListForPatient(patient.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	prescriptions, err := h.Store.Prescriptions().ListForPatient(patient.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	payload := dashboard.BuildPatientPayload(appointments, prescriptions, now)
	utils.Success(c, "Dashboard fetched successfully", payload)
}

func (h *DashboardHandler) doctorDashboard(c *gin.Context, userID string, now time.Time) {
	doctor, err := h.Store.Profiles().DoctorByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appointments, err := h.Store.Appointments().ListForDoctor(doctor.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	payload := dashboard.BuildDoctorPayload(appointments, now)
	utils.Success(c, "Dashboard fetched successfully", payload)
}
