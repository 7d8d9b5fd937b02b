package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type profileService interface {
	Profile(ctx context.Context) (models.Profile, error)
}

type passwordUpdater interface {
	UpdatePassword(ctx context.Context, req dto.PasswordUpdateRequest) error
}

// ProfileHandler serves the profile section.
type ProfileHandler struct {
	profiles  profileService
	passwords passwordUpdater
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles profileService, passwords passwordUpdater) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, passwords: passwords}
}

// Profile godoc
// @Summary Session user profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Profile(c *gin.Context) {
	profile, err := h.profiles.Profile(detached(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ProfileView{Profile: profile, FullName: profile.FullName()})
}

// UpdatePassword godoc
// @Summary Change the session user's password
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.PasswordUpdateRequest true "Passwords"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /profile/password [post]
func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	var req dto.PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please fill in all password fields."))
		return
	}
	if err := h.passwords.UpdatePassword(detached(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, map[string]string{"message": "Password updated successfully!"})
}
