package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthsync-server/internal/middleware"
	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
	"healthsync-server/internal/utils"
)

// UserHandler handles user account requests.
type UserHandler struct {
	Store repository.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store repository.Store) *UserHandler {
	return &UserHandler{Store: store}
}

// UpdateProfileRequest is the body for a partial user update. Only fields
// present in the body are applied.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
}

// UpdateProfile handles updating the authenticated user's account fields.
// Changing the email to one already used by another account is a conflict.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.Store.Users().ByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := h.Store.Users().EmailTaken(*req.Email, user.ID)
		if err != nil {
			utils.InternalServerError(c, "Database error checking email: "+err.Error())
			return
		}
		if taken {
			utils.Conflict(c, "Email already in use")
			return
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if err := h.Store.Users().Save(user); err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}

// UpdatePasswordRequest is the body for a password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword handles changing the authenticated user's password after
// verifying the current one.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdatePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Store.Users().ByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.CurrentPassword) {
		utils.BadRequest(c, "Current password is incorrect")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}
	if err := h.Store.Users().Save(user); err != nil {
		utils.InternalServerError(c, "Failed to update password: "+err.Error())
		return
	}

	utils.Success(c, "Password updated successfully", nil)
}

// GetDoctors handles fetching all users with the doctor role. Accessible to
// any authenticated user, for booking appointments.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Store.Users().ListByRole(models.RoleDoctor)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, doctor := range doctors {
		sanitized[i] = doctor.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}
