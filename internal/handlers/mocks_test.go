package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
	"healthsync-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) ByID(id string) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) EmailTaken(email, excludeID string) (bool, error) {
	args := m.Called(email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) ListByRole(role models.UserRole) ([]models.User, error) {
	args := m.Called(role)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) Save(user *models.User) error {
	return m.Called(user).Error(0)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) PatientByUserID(userID string) (*models.PatientProfile, error) {
	args := m.Called(userID)
	if p := args.Get(0); p != nil {
		return p.(*models.PatientProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) DoctorByUserID(userID string) (*models.DoctorProfile, error) {
	args := m.Called(userID)
	if p := args.Get(0); p != nil {
		return p.(*models.DoctorProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) PatientByID(id string) (*models.PatientProfile, error) {
	args := m.Called(id)
	if p := args.Get(0); p != nil {
		return p.(*models.PatientProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) CreatePatient(profile *models.PatientProfile) error {
	return m.Called(profile).Error(0)
}

func (m *mockProfileRepo) CreateDoctor(profile *models.DoctorProfile) error {
	return m.Called(profile).Error(0)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) ByID(id string) (*models.Appointment, error) {
	args := m.Called(id)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ByIDForDoctor(id, doctorID string) (*models.Appointment, error) {
	args := m.Called(id, doctorID)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ListForPatient(patientID string) ([]models.Appointment, error) {
	args := m.Called(patientID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ListForDoctor(doctorID string) ([]models.Appointment, error) {
	args := m.Called(doctorID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Create(appointment *models.Appointment) error {
	return m.Called(appointment).Error(0)
}

func (m *mockAppointmentRepo) Save(appointment *models.Appointment) error {
	return m.Called(appointment).Error(0)
}

type mockPrescriptionRepo struct{ mock.Mock }

func (m *mockPrescriptionRepo) ListForPair(patientID, doctorID string) ([]models.Prescription, error) {
	args := m.Called(patientID, doctorID)
	if p := args.Get(0); p != nil {
		return p.([]models.Prescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPrescriptionRepo) ListForPatient(patientID string) ([]models.Prescription, error) {
	args := m.Called(patientID)
	if p := args.Get(0); p != nil {
		return p.([]models.Prescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPrescriptionRepo) Create(prescription *models.Prescription) error {
	return m.Called(prescription).Error(0)
}

type mockRefreshTokenRepo struct{ mock.Mock }

func (m *mockRefreshTokenRepo) Create(token *models.RefreshToken) error {
	return m.Called(token).Error(0)
}

func (m *mockRefreshTokenRepo) FindActive(token, userID string, unexpired bool) (*models.RefreshToken, error) {
	args := m.Called(token, userID, unexpired)
	if t := args.Get(0); t != nil {
		return t.(*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepo) Save(token *models.RefreshToken) error {
	return m.Called(token).Error(0)
}

// mockStore bundles the mock repositories. InTx runs the unit of work against
// the same mocks, so transactional writes are asserted like any other call.
type mockStore struct {
	users         *mockUserRepo
	profiles      *mockProfileRepo
	appointments  *mockAppointmentRepo
	prescriptions *mockPrescriptionRepo
	refreshTokens *mockRefreshTokenRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         &mockUserRepo{},
		profiles:      &mockProfileRepo{},
		appointments:  &mockAppointmentRepo{},
		prescriptions: &mockPrescriptionRepo{},
		refreshTokens: &mockRefreshTokenRepo{},
	}
}

func (s *mockStore) Users() repository.UserRepository                 { return s.users }
func (s *mockStore) Profiles() repository.ProfileRepository           { return s.profiles }
func (s *mockStore) Appointments() repository.AppointmentRepository   { return s.appointments }
func (s *mockStore) Prescriptions() repository.PrescriptionRepository { return s.prescriptions }
func (s *mockStore) RefreshTokens() repository.RefreshTokenRepository { return s.refreshTokens }

func (s *mockStore) InTx(fn func(repository.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t *testing.T) {
	t.Helper()
	s.users.AssertExpectations(t)
	s.profiles.AssertExpectations(t)
	s.appointments.AssertExpectations(t)
	s.prescriptions.AssertExpectations(t)
	s.refreshTokens.AssertExpectations(t)
}

// testContext builds a gin context carrying an authenticated caller and an
// optional JSON body.
func testContext(t *testing.T, method string, body interface{}, userID string, role models.UserRole) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, "/", &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	if userID != "" {
		c.Set("userID", userID)
	}
	if role != "" {
		c.Set("userRole", role)
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.ResponseData {
	t.Helper()
	var resp utils.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData re-marshals the envelope's data field into out.
func decodeData(t *testing.T, resp utils.ResponseData, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
