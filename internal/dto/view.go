package dto

import "github.com/noah-isme/classroom-dashboard/internal/models"

// ViewState is the session's navigation state.
type ViewState struct {
	Role             models.Role                  `json:"role"`
	Section          string                       `json:"section"`
	ClassViewOpen    bool                         `json:"classViewOpen"`
	ActiveClassID    string                       `json:"activeClassId,omitempty"`
	Tab              string                       `json:"tab,omitempty"`
	Tabs             []string                     `json:"tabs"`
	Sections         []string                     `json:"sections"`
	Modals           map[string]bool              `json:"modals"`
	Forms            map[string]map[string]string `json:"forms"`
	SidebarCollapsed bool                         `json:"sidebarCollapsed"`
}

// OpenClassResult is returned when a class view opens: the new state plus the
// tab payloads the client must reload, in order.
type OpenClassResult struct {
	View   ViewState         `json:"view"`
	Class  *models.ClassRoom `json:"class,omitempty"`
	Reload []string          `json:"reload"`
}

// ClassView bundles a class with its role-specific tabs.
type ClassView struct {
	Class  models.ClassRoom `json:"class"`
	Reload []string         `json:"reload"`
}

// ExportLink is a signed download for a stored export.
type ExportLink struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// ProfileView is the profile section.
type ProfileView struct {
	models.Profile
	FullName string `json:"fullName"`
}
