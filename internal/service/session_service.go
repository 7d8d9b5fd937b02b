package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

type profileFetcher interface {
	Profile(ctx context.Context) (models.Profile, error)
}

// SessionService knows who the session belongs to.
type SessionService struct {
	role      models.Role
	studentID string
	api       profileFetcher
	logger    *zap.Logger

	mu      sync.Mutex
	profile *models.Profile
}

// SessionServiceParams groups constructor dependencies.
type SessionServiceParams struct {
	Role      models.Role
	StudentID string
	API       profileFetcher
	Logger    *zap.Logger
}

// NewSessionService constructs the service. A configured StudentID overrides
// the one reported by the profile.
func NewSessionService(params SessionServiceParams) *SessionService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{role: params.Role, studentID: params.StudentID, api: params.API, logger: logger}
}

// Role returns the session role.
func (s *SessionService) Role() models.Role {
	return s.role
}

// Profile fetches the upstream profile and remembers it.
func (s *SessionService) Profile(ctx context.Context) (models.Profile, error) {
	profile, err := s.api.Profile(ctx)
	if err != nil {
		return models.Profile{}, surfaceUpstream(s.logger, "profile", err, "Failed to load profile", "Error loading profile. Please try again.")
	}
	if profile.UserType != "" && profile.UserType != s.role {
		s.logger.Warn("profile role differs from session role", zap.String("profile_role", string(profile.UserType)), zap.String("session_role", string(s.role)))
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return profile, nil
}

// StudentID resolves the session student's id, loading the profile once if needed.
func (s *SessionService) StudentID(ctx context.Context) (string, error) {
	if s.studentID != "" {
		return s.studentID, nil
	}
	profile, err := s.cachedProfile(ctx)
	if err != nil {
		return "", err
	}
	if profile.StudentID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "session has no student id")
	}
	return profile.StudentID, nil
}

// DisplayName returns the user's full name, or "" when the profile is unavailable.
func (s *SessionService) DisplayName(ctx context.Context) string {
	profile, err := s.cachedProfile(ctx)
	if err != nil {
		return ""
	}
	return profile.FullName()
}

func (s *SessionService) cachedProfile(ctx context.Context) (models.Profile, error) {
	s.mu.Lock()
	cached := s.profile
	s.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}
	return s.Profile(ctx)
}
