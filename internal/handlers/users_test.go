package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthsync-server/internal/models"
)

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	user := &models.User{
		BaseModel:   models.BaseModel{ID: "user-1"},
		Email:       "old@example.com",
		Name:        "Old Name",
		PhoneNumber: "555-0101",
	}
	store.users.On("ByID", "user-1").Return(user, nil)
	store.users.On("Save", mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "New Name" && u.Email == "old@example.com" && u.PhoneNumber == "555-0101"
	})).Return(nil)

	c, w := testContext(t, http.MethodPatch, map[string]interface{}{"name": "New Name"}, "user-1", models.RolePatient)

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	store.assertExpectations(t)
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Email: "old@example.com"}
	store.users.On("ByID", "user-1").Return(user, nil)
	store.users.On("EmailTaken", "taken@example.com", "user-1").Return(true, nil)

	c, w := testContext(t, http.MethodPatch, map[string]interface{}{"email": "taken@example.com"}, "user-1", models.RolePatient)

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", decodeResponse(t, w).Error)
	store.users.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdateProfile_SameEmailSkipsCheck(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Email: "me@example.com"}
	store.users.On("ByID", "user-1").Return(user, nil)
	store.users.On("Save", mock.Anything).Return(nil)

	c, w := testContext(t, http.MethodPatch, map[string]interface{}{"email": "me@example.com"}, "user-1", models.RolePatient)

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	store.users.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything)
}

func TestUpdatePassword(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}}
	require.NoError(t, user.SetPassword("current-pass"))

	store.users.On("ByID", "user-1").Return(user, nil)
	store.users.On("Save", mock.MatchedBy(func(u *models.User) bool {
		return u.CheckPassword("brand-new-pass")
	})).Return(nil)

	body := map[string]interface{}{"currentPassword": "current-pass", "newPassword": "brand-new-pass"}
	c, w := testContext(t, http.MethodPatch, body, "user-1", models.RolePatient)

	handler.UpdatePassword(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated successfully", decodeResponse(t, w).Message)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}}
	require.NoError(t, user.SetPassword("current-pass"))
	store.users.On("ByID", "user-1").Return(user, nil)

	body := map[string]interface{}{"currentPassword": "guess", "newPassword": "brand-new-pass"}
	c, w := testContext(t, http.MethodPatch, body, "user-1", models.RolePatient)

	handler.UpdatePassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Current password is incorrect", decodeResponse(t, w).Error)
	store.users.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdatePassword_TooShort(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	body := map[string]interface{}{"currentPassword": "current-pass", "newPassword": "abc"}
	c, w := testContext(t, http.MethodPatch, body, "user-1", models.RolePatient)

	handler.UpdatePassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDoctors(t *testing.T) {
	store := newMockStore()
	handler := NewUserHandler(store)

	doctor := models.User{BaseModel: models.BaseModel{ID: "doc-1"}, Email: "doc@example.com", Role: models.RoleDoctor}
	require.NoError(t, doctor.SetPassword("hidden"))
	store.users.On("ListByRole", models.RoleDoctor).Return([]models.User{doctor}, nil)

	c, w := testContext(t, http.MethodGet, nil, "user-1", models.RolePatient)

	handler.GetDoctors(c)

	require.Equal(t, http.StatusOK, w.Code)
	var doctors []models.UserSanitized
	decodeData(t, decodeResponse(t, w), &doctors)
	require.Len(t, doctors, 1)
	assert.Equal(t, "doc-1", doctors[0].ID)
	// The sanitized view never carries the password hash.
	assert.NotContains(t, w.Body.String(), "password")
}
