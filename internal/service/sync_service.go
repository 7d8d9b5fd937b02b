package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/repository"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

type classroomAPI interface {
	ListClasses(ctx context.Context) ([]models.ClassRoom, error)
	CreateClass(ctx context.Context, payload repository.CreateClassPayload) (models.ClassRoom, error)
	DeleteClass(ctx context.Context, classID string) error
	PostMaterial(ctx context.Context, classID string, material models.Material) error
	CreateAssignment(ctx context.Context, classID string, assignment models.Assignment) error
	SubmitWork(ctx context.Context, classID, assignmentID string, submission models.Submission) error
	SaveGrade(ctx context.Context, classID, assignmentID, studentID string, payload repository.GradePayload) error
	JoinClass(ctx context.Context, code string) (repository.JoinResult, error)
	Unenroll(ctx context.Context, classID string) error
	UpdatePassword(ctx context.Context, current, next string) error
}

type attachmentEncoder interface {
	EncodeAll(ctx context.Context, uploads []Upload) ([]models.FileAttachment, error)
}

type sessionIdentity interface {
	Role() models.Role
	StudentID(ctx context.Context) (string, error)
	DisplayName(ctx context.Context) string
}

type viewNavigator interface {
	ActiveClass() (string, bool)
	CloseClass(classID string)
	CloseModal(name string) (dto.ViewState, error)
	SeedForm(name string, fields map[string]string)
}

// RefreshScheduler queues a background dashboard refresh.
type RefreshScheduler interface {
	ScheduleRefresh(reason string)
}

type mutationRecorder interface {
	RecordMutation(operation string)
}

// SyncService runs every mutating action: validate locally, call upstream,
// then apply the same change to the snapshot. A failed call leaves the
// snapshot untouched.
type SyncService struct {
	api         classroomAPI
	snapshot    *Snapshot
	attachments attachmentEncoder
	session     sessionIdentity
	view        viewNavigator
	refresher   RefreshScheduler
	metrics     mutationRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
	newCode     func() (string, error)

	passwordInFlight atomic.Bool
}

// SyncServiceParams groups constructor dependencies.
type SyncServiceParams struct {
	API         classroomAPI
	Snapshot    *Snapshot
	Attachments attachmentEncoder
	Session     sessionIdentity
	View        viewNavigator
	Refresher   RefreshScheduler
	Metrics     mutationRecorder
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewSyncService constructs a SyncService with defaults for optional collaborators.
func NewSyncService(params SyncServiceParams) *SyncService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	snapshot := params.Snapshot
	if snapshot == nil {
		snapshot = NewSnapshot()
	}
	return &SyncService{
		api:         params.API,
		snapshot:    snapshot,
		attachments: params.Attachments,
		session:     params.Session,
		view:        params.View,
		refresher:   params.Refresher,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
		newCode:     GenerateClassCode,
	}
}

// Snapshot exposes the backing snapshot for read-only services.
func (s *SyncService) Snapshot() *Snapshot {
	return s.snapshot
}

// LoadClasses replaces the snapshot with the upstream class list. A response
// that arrives after a newer reload started is discarded.
func (s *SyncService) LoadClasses(ctx context.Context) ([]models.ClassRoom, error) {
	gen := s.snapshot.BeginReload()
	classes, err := s.api.ListClasses(ctx)
	if err != nil {
		return nil, surfaceUpstream(s.logger, "load_classes", err, "Failed to fetch classes", "Error loading classes. Please try again.")
	}
	if !s.snapshot.Replace(gen, classes) {
		s.logger.Debug("discarded stale class reload", zap.Uint64("generation", gen))
	} else if s.view != nil {
		if active, open := s.view.ActiveClass(); open {
			if _, err := s.snapshot.Class(active); err != nil {
				s.view.CloseClass(active)
			}
		}
	}
	s.record("load_classes")
	return s.snapshot.Classes(), nil
}

// EnsureLoaded loads classes once per process.
func (s *SyncService) EnsureLoaded(ctx context.Context) error {
	if s.snapshot.Loaded() {
		return nil
	}
	_, err := s.LoadClasses(ctx)
	return err
}

// CreateClass creates a class. An empty code is never sent upstream: a fresh
// one is generated, put into the create form, and the user is asked to retry.
func (s *SyncService) CreateClass(ctx context.Context, req dto.CreateClassRequest) (models.ClassRoom, error) {
	if err := s.requireRole(models.RoleProfessor); err != nil {
		return models.ClassRoom{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.ClassRoom{}, appErrors.Clone(appErrors.ErrValidation, "Please enter a class name")
	}

	code := NormalizeClassCode(req.Code)
	if code == "" {
		generated, err := s.newCode()
		if err != nil {
			return models.ClassRoom{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate class code")
		}
		if s.view != nil {
			s.view.SeedForm(ModalCreateClass, map[string]string{"code": generated, "name": name, "description": req.Description})
		}
		return models.ClassRoom{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("Please generate a class code or enter one (generated: %s)", generated))
	}
	if !ValidClassCode(code) {
		return models.ClassRoom{}, appErrors.Clone(appErrors.ErrValidation, "Class code must be 6 letters or digits")
	}
	for _, existing := range s.snapshot.Classes() {
		if existing.Code == code {
			return models.ClassRoom{}, appErrors.Clone(appErrors.ErrValidation, "Class code is already in use")
		}
	}

	created, err := s.api.CreateClass(ctx, repository.CreateClassPayload{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Code:        code,
	})
	if err != nil {
		return models.ClassRoom{}, surfaceUpstream(s.logger, "create_class", err, "Failed to create class", "Error creating class. Please try again.")
	}
	if created.Name == "" {
		created.Name = name
	}
	if created.Code == "" {
		created.Code = code
	}
	if created.ID == "" {
		created.ID = s.newID()
	}
	created.Normalize()

	s.snapshot.Append(created)
	s.afterMutation("create_class", ModalCreateClass)
	s.logger.Info("class created", zap.String("class_id", created.ID), zap.String("code", created.Code))
	return created, nil
}

// DeleteClass deletes a class and leaves its view if it was open.
func (s *SyncService) DeleteClass(ctx context.Context, classID string) error {
	if err := s.requireRole(models.RoleProfessor); err != nil {
		return err
	}
	if _, err := s.snapshot.Class(classID); err != nil {
		return err
	}
	if err := s.api.DeleteClass(ctx, classID); err != nil {
		return surfaceUpstream(s.logger, "delete_class", err, "Failed to delete class", "Error deleting class. Please try again.")
	}
	s.snapshot.Remove(classID)
	if s.view != nil {
		s.view.CloseClass(classID)
	}
	s.afterMutation("delete_class", "")
	return nil
}

// PostMaterial posts a material with its attachments. Every file is encoded
// before the single upstream call.
func (s *SyncService) PostMaterial(ctx context.Context, classID string, req dto.MaterialRequest, uploads []Upload) (models.Material, error) {
	if err := s.requireRole(models.RoleProfessor); err != nil {
		return models.Material{}, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.ResourceLink = strings.TrimSpace(req.ResourceLink)
	if req.Title == "" {
		return models.Material{}, appErrors.Clone(appErrors.ErrValidation, "Please enter a title")
	}
	if err := s.validator.Struct(req); err != nil {
		return models.Material{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Resource link must be a valid URL")
	}
	if _, err := s.snapshot.Class(classID); err != nil {
		return models.Material{}, appErrors.Clone(appErrors.ErrNotFound, "Error: Class not found.")
	}

	material := models.Material{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		Date:        models.NewTimestamp(s.now()),
	}
	if req.Deadline != "" {
		deadline, err := models.ParseTimestamp(req.Deadline)
		if err != nil {
			return models.Material{}, appErrors.Clone(appErrors.ErrValidation, "Deadline is not a valid date")
		}
		material.Deadline = &deadline
	}
	if req.ResourceLink != "" {
		link := req.ResourceLink
		material.ResourceLink = &link
	}

	files, err := s.encode(ctx, uploads)
	if err != nil {
		return models.Material{}, err
	}
	material.Files = files

	if err := s.api.PostMaterial(ctx, classID, material); err != nil {
		return models.Material{}, surfaceUpstream(s.logger, "post_material", err, "Failed to post material", "Error posting material. Please try again.")
	}
	if err := s.snapshot.Update(classID, func(c *models.ClassRoom) error {
		c.Materials = append(c.Materials, material)
		return nil
	}); err != nil {
		return models.Material{}, err
	}
	s.afterMutation("post_material", ModalUploadMaterial)
	return material, nil
}

// CreateAssignment creates an assignment with its attachments.
func (s *SyncService) CreateAssignment(ctx context.Context, classID string, req dto.AssignmentRequest, uploads []Upload) (models.Assignment, error) {
	if err := s.requireRole(models.RoleProfessor); err != nil {
		return models.Assignment{}, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.DueDate = strings.TrimSpace(req.DueDate)
	if err := s.validator.Struct(req); err != nil {
		return models.Assignment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"Please fill in all required fields (Title, Description, Due Date)")
	}
	if _, err := s.snapshot.Class(classID); err != nil {
		return models.Assignment{}, appErrors.Clone(appErrors.ErrNotFound, "Error: Class not found.")
	}
	due, err := models.ParseTimestamp(req.DueDate)
	if err != nil {
		return models.Assignment{}, appErrors.Clone(appErrors.ErrValidation, "Due date is not a valid date")
	}

	created := models.NewTimestamp(s.now())
	assignment := models.Assignment{
		ID:           s.newID(),
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      due,
		Points:       models.Points(models.ParsePoints(req.Points.String())),
		Instructions: strings.TrimSpace(req.Instructions),
		DateCreated:  &created,
		Submissions:  []models.Submission{},
	}

	files, err := s.encode(ctx, uploads)
	if err != nil {
		return models.Assignment{}, err
	}
	assignment.Files = files

	if err := s.api.CreateAssignment(ctx, classID, assignment); err != nil {
		return models.Assignment{}, surfaceUpstream(s.logger, "create_assignment", err, "Failed to create assignment", "Error creating assignment. Please try again.")
	}
	if err := s.snapshot.Update(classID, func(c *models.ClassRoom) error {
		c.Assignments = append(c.Assignments, assignment)
		return nil
	}); err != nil {
		return models.Assignment{}, err
	}
	s.afterMutation("create_assignment", ModalAssignment)
	return assignment, nil
}

// SubmitWork records the session student's submission, replacing any earlier one.
func (s *SyncService) SubmitWork(ctx context.Context, classID, assignmentID string, req dto.SubmissionRequest, uploads []Upload) (models.Submission, error) {
	if err := s.requireRole(models.RoleStudent); err != nil {
		return models.Submission{}, err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return models.Submission{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please enter your submission")
	}
	class, err := s.snapshot.Class(classID)
	if err != nil {
		return models.Submission{}, err
	}
	if class.FindAssignment(assignmentID) < 0 {
		return models.Submission{}, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	studentID, err := s.session.StudentID(ctx)
	if err != nil {
		return models.Submission{}, err
	}

	submission := models.Submission{
		StudentID:   studentID,
		StudentName: s.session.DisplayName(ctx),
		Content:     req.Content,
		Date:        models.NewTimestamp(s.now()),
	}
	files, err := s.encode(ctx, uploads)
	if err != nil {
		return models.Submission{}, err
	}
	submission.Files = files

	if err := s.api.SubmitWork(ctx, classID, assignmentID, submission); err != nil {
		return models.Submission{}, surfaceUpstream(s.logger, "submit_work", err, "Failed to submit assignment", "Error submitting assignment. Please try again.")
	}
	if err := s.snapshot.Update(classID, func(c *models.ClassRoom) error {
		idx := c.FindAssignment(assignmentID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		c.Assignments[idx].Upsert(submission)
		return nil
	}); err != nil {
		return models.Submission{}, err
	}
	s.afterMutation("submit_work", ModalSubmission)
	return submission, nil
}

// SaveGrade grades a submission. The grade must be a whole number between
// zero and the assignment's points.
func (s *SyncService) SaveGrade(ctx context.Context, classID, assignmentID, studentID string, req dto.GradeRequest) (models.Submission, error) {
	if err := s.requireRole(models.RoleProfessor); err != nil {
		return models.Submission{}, err
	}
	class, err := s.snapshot.Class(classID)
	if err != nil {
		return models.Submission{}, err
	}
	idx := class.FindAssignment(assignmentID)
	if idx < 0 {
		return models.Submission{}, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	assignment := class.Assignments[idx]
	points := int(assignment.Points)

	grade, ok := models.ParseLeadingInt(req.Grade.String())
	if !ok || grade < 0 || grade > points {
		return models.Submission{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Please enter a valid grade between 0 and %d", points))
	}
	if assignment.SubmissionFor(studentID) < 0 {
		return models.Submission{}, appErrors.Clone(appErrors.ErrNotFound, "Submission not found.")
	}

	feedback := strings.TrimSpace(req.Feedback)
	if err := s.api.SaveGrade(ctx, classID, assignmentID, studentID, repository.GradePayload{Grade: float64(grade), Feedback: feedback}); err != nil {
		return models.Submission{}, surfaceUpstream(s.logger, "save_grade", err, "Failed to save grade", "Error saving grade. Please try again.")
	}

	var graded models.Submission
	if err := s.snapshot.Update(classID, func(c *models.ClassRoom) error {
		ai := c.FindAssignment(assignmentID)
		if ai < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		si := c.Assignments[ai].SubmissionFor(studentID)
		if si < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "Submission not found.")
		}
		g := float64(grade)
		when := models.NewTimestamp(s.now())
		sub := &c.Assignments[ai].Submissions[si]
		sub.Grade = &g
		sub.Feedback = feedback
		sub.GradedDate = &when
		graded = sub.Clone()
		return nil
	}); err != nil {
		return models.Submission{}, err
	}
	s.afterMutation("save_grade", ModalGrading)
	return graded, nil
}

// JoinOutcome is the result of joining a class.
type JoinOutcome struct {
	Message string             `json:"message"`
	Class   models.ClassRoom   `json:"class"`
	Classes []models.ClassRoom `json:"classes"`
}

// JoinClass enrolls the session student and reloads the class list.
func (s *SyncService) JoinClass(ctx context.Context, req dto.JoinClassRequest) (JoinOutcome, error) {
	if err := s.requireRole(models.RoleStudent); err != nil {
		return JoinOutcome{}, err
	}
	req.Code = NormalizeClassCode(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return JoinOutcome{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please enter a class code")
	}

	result, err := s.api.JoinClass(ctx, req.Code)
	if err != nil {
		return JoinOutcome{}, surfaceUpstream(s.logger, "join_class", err, "Failed to join class", "Error joining class. Please try again.")
	}
	s.afterMutation("join_class", ModalJoinClass)

	classes := s.reloadAfter(ctx, "join_class")
	msg := result.Message
	if msg == "" && result.Class.Name != "" {
		msg = fmt.Sprintf("Successfully joined %s!", result.Class.Name)
	}
	return JoinOutcome{Message: msg, Class: result.Class, Classes: classes}, nil
}

// Unenroll removes the session student from a class and reloads the class list.
func (s *SyncService) Unenroll(ctx context.Context, classID string) ([]models.ClassRoom, error) {
	if err := s.requireRole(models.RoleStudent); err != nil {
		return nil, err
	}
	if strings.TrimSpace(classID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Class ID is required")
	}
	if err := s.api.Unenroll(ctx, classID); err != nil {
		return nil, surfaceUpstream(s.logger, "unenroll_class", err, "Failed to unenroll from class", "Error unenrolling from class. Please try again.")
	}
	s.snapshot.Remove(classID)
	if s.view != nil {
		s.view.CloseClass(classID)
	}
	s.afterMutation("unenroll_class", "")
	return s.reloadAfter(ctx, "unenroll_class"), nil
}

// reloadAfter refreshes the class list once an enrollment change has been
// accepted upstream. A failed reload keeps the current snapshot; the change
// itself already succeeded.
func (s *SyncService) reloadAfter(ctx context.Context, action string) []models.ClassRoom {
	classes, err := s.LoadClasses(ctx)
	if err != nil {
		s.logger.Warn("class reload after enrollment change failed", zap.String("action", action), zap.Error(err))
		return s.snapshot.Classes()
	}
	return classes
}

// UpdatePassword changes the password. Only one update may be in flight.
func (s *SyncService) UpdatePassword(ctx context.Context, req dto.PasswordUpdateRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return appErrors.Clone(appErrors.ErrValidation, "Please fill in all password fields.")
	}
	if len(req.NewPassword) < 8 {
		return appErrors.Clone(appErrors.ErrValidation, "Password must be at least 8 characters long.")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "New passwords do not match.")
	}

	if !s.passwordInFlight.CompareAndSwap(false, true) {
		return appErrors.Clone(appErrors.ErrConflict, "A password update is already in progress")
	}
	defer s.passwordInFlight.Store(false)

	if err := s.api.UpdatePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
		return surfaceUpstream(s.logger, "update_password", err, "Failed to update password", "Error updating password. Please try again.")
	}
	s.logger.Info("password updated")
	return nil
}

func (s *SyncService) encode(ctx context.Context, uploads []Upload) ([]models.FileAttachment, error) {
	if len(uploads) == 0 || s.attachments == nil {
		return []models.FileAttachment{}, nil
	}
	return s.attachments.EncodeAll(ctx, uploads)
}

func (s *SyncService) requireRole(role models.Role) error {
	if s.session != nil && s.session.Role() != role {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only a %s session can do this", role))
	}
	return nil
}

func (s *SyncService) afterMutation(operation, modal string) {
	s.record(operation)
	if modal != "" && s.view != nil {
		_, _ = s.view.CloseModal(modal)
	}
	if s.refresher != nil {
		s.refresher.ScheduleRefresh(operation)
	}
}

func (s *SyncService) record(operation string) {
	if s.metrics != nil {
		s.metrics.RecordMutation(operation)
	}
}
