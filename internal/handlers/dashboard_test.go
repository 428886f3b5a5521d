package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"healthsync-server/internal/dashboard"
	"healthsync-server/internal/models"
)

func TestGetDashboard_Patient(t *testing.T) {
	store := newMockStore()
	handler := NewDashboardHandler(store)

	future := time.Now().UTC().Add(72 * time.Hour)
	past := time.Now().UTC().Add(-72 * time.Hour)

	store.profiles.On("PatientByUserID", "user-1").
		Return(&models.PatientProfile{BaseModel: models.BaseModel{ID: "patient-1"}}, nil)
	store.appointments.On("ListForPatient", "patient-1").
		Return([]models.Appointment{
			{BaseModel: models.BaseModel{ID: "up"}, AppointmentDate: future, Status: models.StatusScheduled},
			{BaseModel: models.BaseModel{ID: "done"}, AppointmentDate: past, Status: models.StatusCompleted},
		}, nil)
	store.prescriptions.On("ListForPatient", "patient-1").
		Return([]models.Prescription{
			{BaseModel: models.BaseModel{ID: "p1"}, Medication: "Atorvastatin"},
		}, nil)

	c, w := testContext(t, http.MethodGet, nil, "user-1", models.RolePatient)

	handler.GetDashboard(c)

	require.Equal(t, http.StatusOK, w.Code)
	var payload dashboard.PatientPayload
	decodeData(t, decodeResponse(t, w), &payload)

	require.Len(t, payload.UpcomingAppointments, 1)
	assert.Equal(t, "up", payload.UpcomingAppointments[0].ID)
	require.Len(t, payload.RecentVisits, 1)
	assert.Equal(t, "done", payload.RecentVisits[0].ID)
	assert.Len(t, payload.ActivePrescriptions, 1)
	assert.Len(t, payload.AllAppointments, 2)
}

func TestGetDashboard_Doctor(t *testing.T) {
	store := newMockStore()
	handler := NewDashboardHandler(store)

	// Noon today, so the slot stays on today's calendar day no matter when
	// the test runs.
	now := time.Now().UTC()
	slot := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)

	store.profiles.On("DoctorByUserID", "doc-user").
		Return(&models.DoctorProfile{BaseModel: models.BaseModel{ID: "doctor-1"}}, nil)
	store.appointments.On("ListForDoctor", "doctor-1").
		Return([]models.Appointment{
			{BaseModel: models.BaseModel{ID: "slot"}, PatientID: "patient-1", AppointmentDate: slot, Status: models.StatusPending},
		}, nil)

	c, w := testContext(t, http.MethodGet, nil, "doc-user", models.RoleDoctor)

	handler.GetDashboard(c)

	require.Equal(t, http.StatusOK, w.Code)
	var payload dashboard.DoctorPayload
	decodeData(t, decodeResponse(t, w), &payload)

	require.Len(t, payload.TodaySchedule, 1)
	assert.Equal(t, 1, payload.Stats.TotalPatientsToday)
	assert.Equal(t, 1, payload.Stats.RecordsToReview)
	assert.Equal(t, 0, payload.Stats.PendingLabResults)
}

func TestGetDashboard_PatientProfileMissing(t *testing.T) {
	store := newMockStore()
	handler := NewDashboardHandler(store)

	store.profiles.On("PatientByUserID", "user-1").Return(nil, gorm.ErrRecordNotFound)

	c, w := testContext(t, http.MethodGet, nil, "user-1", models.RolePatient)

	handler.GetDashboard(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Patient profile not found", decodeResponse(t, w).Error)
}

func TestGetDashboard_InvalidRole(t *testing.T) {
	store := newMockStore()
	handler := NewDashboardHandler(store)

	c, w := testContext(t, http.MethodGet, nil, "user-1", models.UserRole("ADMIN"))

	handler.GetDashboard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid user role", decodeResponse(t, w).Error)
}
