package service

import (
	"strings"
	"sync"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

// Sections.
const (
	SectionDashboard   = "dashboard"
	SectionClasses     = "classes"
	SectionAssignments = "assignments"
	SectionGrades      = "grades"
	SectionCalendar    = "calendar"
	SectionProfile     = "profile"
)

// Class tabs.
const (
	TabPosts       = "posts"
	TabStudents    = "students"
	TabAssignments = "assignments"
	TabGrades      = "grades"
)

// Modals.
const (
	ModalCreateClass    = "create-class"
	ModalUploadMaterial = "upload-material"
	ModalAssignment     = "assignment"
	ModalGrading        = "grading"
	ModalSubmissions    = "submissions"
	ModalEvent          = "event"
	ModalJoinClass      = "join-class"
	ModalSubmission     = "submission"
	ModalDay            = "day"
)

type roleLayout struct {
	sections []string
	tabs     []string
	modals   []string
}

var layouts = map[models.Role]roleLayout{
	models.RoleProfessor: {
		sections: []string{SectionDashboard, SectionClasses, SectionCalendar, SectionProfile},
		tabs:     []string{TabPosts, TabStudents, TabAssignments, TabGrades},
		modals:   []string{ModalCreateClass, ModalUploadMaterial, ModalAssignment, ModalGrading, ModalSubmissions, ModalEvent},
	},
	models.RoleStudent: {
		sections: []string{SectionDashboard, SectionClasses, SectionAssignments, SectionGrades, SectionCalendar, SectionProfile},
		tabs:     []string{TabPosts, TabAssignments, TabGrades},
		modals:   []string{ModalJoinClass, ModalSubmission, ModalDay},
	},
}

// ViewService is the navigation state machine. Section visibility and class
// tab selection are independent; each modal is its own flag with a backing
// form that is cleared when the modal closes.
type ViewService struct {
	role     models.Role
	layout   roleLayout
	codeFunc func() (string, error)

	mu    sync.Mutex
	state dto.ViewState
}

// NewViewService starts on the dashboard with every modal closed.
func NewViewService(role models.Role, codeFunc func() (string, error)) *ViewService {
	if codeFunc == nil {
		codeFunc = GenerateClassCode
	}
	layout := layouts[role]
	svc := &ViewService{role: role, layout: layout, codeFunc: codeFunc}
	svc.state = dto.ViewState{
		Role:     role,
		Section:  SectionDashboard,
		Tabs:     append([]string{}, layout.tabs...),
		Sections: append([]string{}, layout.sections...),
		Modals:   make(map[string]bool, len(layout.modals)),
		Forms:    make(map[string]map[string]string, len(layout.modals)),
	}
	for _, m := range layout.modals {
		svc.state.Modals[m] = false
		svc.state.Forms[m] = map[string]string{}
	}
	return svc
}

// State returns a copy of the current state.
func (s *ViewService) State() dto.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// ShowSection hides everything else, including an open class view.
func (s *ViewService) ShowSection(section string) (dto.ViewState, error) {
	section = strings.TrimSpace(section)
	if !contains(s.layout.sections, section) {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrValidation, "unknown section "+section)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Section = section
	s.state.ClassViewOpen = false
	s.state.ActiveClassID = ""
	s.state.Tab = ""
	return s.copyState(), nil
}

// OpenClass shows the class view on its first tab and returns every tab the
// client must reload, whichever one is visible.
func (s *ViewService) OpenClass(classID string) dto.OpenClassResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Section = ""
	s.state.ClassViewOpen = true
	s.state.ActiveClassID = classID
	s.state.Tab = s.layout.tabs[0]
	return dto.OpenClassResult{View: s.copyState(), Reload: append([]string{}, s.layout.tabs...)}
}

// Back closes the class view and shows the classes section.
func (s *ViewService) Back() dto.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeClass()
	return s.copyState()
}

// CloseClass leaves the class view if classID is the open one. It is used
// after a class disappears from the snapshot.
func (s *ViewService) CloseClass(classID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ClassViewOpen && s.state.ActiveClassID == classID {
		s.closeClass()
	}
}

// ActiveClass returns the open class id, if any.
func (s *ViewService) ActiveClass() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveClassID, s.state.ClassViewOpen
}

// SelectTab switches the class tab. A class view must be open.
func (s *ViewService) SelectTab(tab string) (dto.ViewState, error) {
	if !contains(s.layout.tabs, tab) {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrValidation, "unknown tab "+tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.ClassViewOpen {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrConflict, "no class is open")
	}
	s.state.Tab = tab
	return s.copyState(), nil
}

// ToggleSidebar flips the collapsed flag.
func (s *ViewService) ToggleSidebar() dto.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SidebarCollapsed = !s.state.SidebarCollapsed
	return s.copyState()
}

// OpenModal shows a modal, seeding its form with fields. The create-class
// form always gets a freshly generated code unless one is supplied.
func (s *ViewService) OpenModal(name string, fields map[string]string) (dto.ViewState, error) {
	if !contains(s.layout.modals, name) {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown modal "+name)
	}
	form := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		form[k] = v
	}
	if name == ModalCreateClass && strings.TrimSpace(form["code"]) == "" {
		code, err := s.codeFunc()
		if err != nil {
			return dto.ViewState{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate class code")
		}
		form["code"] = code
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Modals[name] = true
	s.state.Forms[name] = form
	return s.copyState(), nil
}

// UpdateForm merges fields into an open modal's form.
func (s *ViewService) UpdateForm(name string, fields map[string]string) (dto.ViewState, error) {
	if !contains(s.layout.modals, name) {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown modal "+name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Modals[name] {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrConflict, "modal is not open")
	}
	for k, v := range fields {
		s.state.Forms[name][k] = v
	}
	return s.copyState(), nil
}

// SeedForm writes fields into a modal's form whether or not it is open.
func (s *ViewService) SeedForm(name string, fields map[string]string) {
	if !contains(s.layout.modals, name) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fields {
		s.state.Forms[name][k] = v
	}
}

// CloseModal hides a modal and resets its form.
func (s *ViewService) CloseModal(name string) (dto.ViewState, error) {
	if !contains(s.layout.modals, name) {
		return dto.ViewState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown modal "+name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Modals[name] = false
	s.state.Forms[name] = map[string]string{}
	return s.copyState(), nil
}

func (s *ViewService) closeClass() {
	s.state.ClassViewOpen = false
	s.state.ActiveClassID = ""
	s.state.Tab = ""
	s.state.Section = SectionClasses
}

func (s *ViewService) copyState() dto.ViewState {
	out := s.state
	out.Tabs = append([]string{}, s.state.Tabs...)
	out.Sections = append([]string{}, s.state.Sections...)
	out.Modals = make(map[string]bool, len(s.state.Modals))
	for k, v := range s.state.Modals {
		out.Modals[k] = v
	}
	out.Forms = make(map[string]map[string]string, len(s.state.Forms))
	for k, form := range s.state.Forms {
		cp := make(map[string]string, len(form))
		for fk, fv := range form {
			cp[fk] = fv
		}
		out.Forms[k] = cp
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
