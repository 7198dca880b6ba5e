package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fittrack/internal/apperrors"
	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/service"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- DTOs ---

// UserResponse excludes sensitive fields like the password hash.
type UserResponse struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Age              *int      `json:"age"`
	HeightCm         *float64  `json:"height_cm"`
	WeightKg         *float64  `json:"weight_kg"`
	OAuthProvider    string    `json:"oauth_provider"`
	CreatedAt        time.Time `json:"created_at"`
	ProfileCompleted bool      `json:"profile_completed"`
	IsAdmin          bool      `json:"is_admin"`
}

type ProfileResponse struct {
	Age              *int     `json:"age"`
	HeightCm         *float64 `json:"height_cm"`
	WeightKg         *float64 `json:"weight_kg"`
	ProfileCompleted bool     `json:"profile_completed"`
}

type UpdateProfileRequest struct {
	Age      *int     `json:"age" binding:"required"`
	HeightCm *float64 `json:"height_cm" binding:"required"`
	WeightKg *float64 `json:"weight_kg" binding:"required"`
}

// AdminUserResponse adds the derived workout count to the user projection.
type AdminUserResponse struct {
	UserResponse
	WorkoutCount int `json:"workout_count"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Age:              user.Age,
		HeightCm:         user.HeightCm,
		WeightKg:         user.WeightKg,
		OAuthProvider:    user.OAuthProvider,
		CreatedAt:        user.CreatedAt,
		ProfileCompleted: user.ProfileCompleted(),
		IsAdmin:          user.IsAdmin(),
	}
}

// --- Handler Methods ---

// Me returns the current user's projection.
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": MapUserToResponse(user)})
}

// GetProfile returns the profile fields only.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": ProfileResponse{
		Age:              user.Age,
		HeightCm:         user.HeightCm,
		WeightKg:         user.WeightKg,
		ProfileCompleted: user.ProfileCompleted(),
	}})
}

// UpdateProfile replaces age/height/weight together.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithAppError(c, apperrors.InvalidInput("age, height_cm, and weight_kg are required"))
		return
	}

	if err := h.userService.UpdateProfile(c.Request.Context(), userID, *req.Age, *req.HeightCm, *req.WeightKg); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Profile updated successfully"})
}

// AdminListUsers returns every user with a workout count. Admin only.
func (h *UserHandler) AdminListUsers(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	requester, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithAppError(c, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), requester)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": mapAdminUsers(users)})
}

func mapAdminUsers(users []repository.UserWithCount) []AdminUserResponse {
	out := make([]AdminUserResponse, len(users))
	for i, uc := range users {
		u := uc.User
		out[i] = AdminUserResponse{
			UserResponse: MapUserToResponse(&u),
			WorkoutCount: uc.WorkoutCount,
		}
	}
	return out
}
