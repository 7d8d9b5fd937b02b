package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// UpstreamError is a non-2xx answer from the classroom API. Message holds
// the server's `error` field when it sent one.
type UpstreamError struct {
	Operation string
	Status    int
	Message   string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Operation, e.Status, e.Message)
}

// TransportError means no usable response arrived.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamObserver receives timing for every upstream call.
type UpstreamObserver interface {
	ObserveUpstream(operation string, status int, duration time.Duration)
}

// ClassroomAPIConfig locates the upstream API and the session to use.
type ClassroomAPIConfig struct {
	BaseURL    string
	CookieName string
	Cookie     string
	Timeout    time.Duration
}

// ClassroomAPI is the HTTP client for the upstream classroom REST API.
type ClassroomAPI struct {
	baseURL  string
	cookie   *http.Cookie
	client   *http.Client
	observer UpstreamObserver
	logger   *zap.Logger
}

// NewClassroomAPI builds the client. A zero timeout means requests never time out.
func NewClassroomAPI(cfg ClassroomAPIConfig, client *http.Client, observer UpstreamObserver, logger *zap.Logger) *ClassroomAPI {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &ClassroomAPI{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		client:   client,
		observer: observer,
		logger:   logger,
	}
	if cfg.Cookie != "" {
		name := cfg.CookieName
		if name == "" {
			name = "session"
		}
		api.cookie = &http.Cookie{Name: name, Value: cfg.Cookie}
	}
	return api
}

// CreateClassPayload is the body of a create-class call.
type CreateClassPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// GradePayload is the body of a grade call.
type GradePayload struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

// JoinResult is the upstream answer to a join.
type JoinResult struct {
	Message string           `json:"message"`
	Class   models.ClassRoom `json:"class"`
}

// ListClasses returns the session user's classes.
func (a *ClassroomAPI) ListClasses(ctx context.Context) ([]models.ClassRoom, error) {
	var classes []models.ClassRoom
	if err := a.do(ctx, "list_classes", http.MethodGet, "/api/professor/classes", nil, &classes); err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []models.ClassRoom{}
	}
	return classes, nil
}

// CreateClass creates a class and returns the stored copy.
func (a *ClassroomAPI) CreateClass(ctx context.Context, payload CreateClassPayload) (models.ClassRoom, error) {
	var class models.ClassRoom
	err := a.do(ctx, "create_class", http.MethodPost, "/api/professor/classes", payload, &class)
	return class, err
}

// DeleteClass deletes a class. The id travels in the path and, for servers
// that read it from the body, as class_id.
func (a *ClassroomAPI) DeleteClass(ctx context.Context, classID string) error {
	body := map[string]string{"class_id": classID}
	return a.do(ctx, "delete_class", http.MethodDelete, "/api/professor/classes/"+url.PathEscape(classID), body, nil)
}

// PostMaterial stores a material on a class.
func (a *ClassroomAPI) PostMaterial(ctx context.Context, classID string, material models.Material) error {
	path := fmt.Sprintf("/api/professor/classes/%s/materials", url.PathEscape(classID))
	return a.do(ctx, "post_material", http.MethodPost, path, material, nil)
}

// CreateAssignment stores an assignment on a class.
func (a *ClassroomAPI) CreateAssignment(ctx context.Context, classID string, assignment models.Assignment) error {
	path := fmt.Sprintf("/api/professor/classes/%s/assignments", url.PathEscape(classID))
	return a.do(ctx, "create_assignment", http.MethodPost, path, assignment, nil)
}

// SubmitWork stores the session student's submission.
func (a *ClassroomAPI) SubmitWork(ctx context.Context, classID, assignmentID string, submission models.Submission) error {
	path := fmt.Sprintf("/api/student/classes/%s/assignments/%s/submissions", url.PathEscape(classID), url.PathEscape(assignmentID))
	return a.do(ctx, "submit_work", http.MethodPost, path, submission, nil)
}

// SaveGrade grades one submission.
func (a *ClassroomAPI) SaveGrade(ctx context.Context, classID, assignmentID, studentID string, payload GradePayload) error {
	path := fmt.Sprintf("/api/professor/classes/%s/assignments/%s/submissions/%s",
		url.PathEscape(classID), url.PathEscape(assignmentID), url.PathEscape(studentID))
	return a.do(ctx, "save_grade", http.MethodPut, path, payload, nil)
}

// JoinClass enrolls the session student using a class code.
func (a *ClassroomAPI) JoinClass(ctx context.Context, code string) (JoinResult, error) {
	var result JoinResult
	err := a.do(ctx, "join_class", http.MethodPost, "/api/student/join_class", map[string]string{"code": code}, &result)
	return result, err
}

// Unenroll removes the session student from a class.
func (a *ClassroomAPI) Unenroll(ctx context.Context, classID string) error {
	return a.do(ctx, "unenroll_class", http.MethodPost, "/api/student/unenroll_class", map[string]string{"class_id": classID}, nil)
}

// UpdatePassword changes the session user's password.
func (a *ClassroomAPI) UpdatePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return a.do(ctx, "update_password", http.MethodPost, "/api/profile/update-password", body, nil)
}

// ProfessorStats fetches the professor dashboard figures.
func (a *ClassroomAPI) ProfessorStats(ctx context.Context) (models.ProfessorStats, error) {
	var stats models.ProfessorStats
	err := a.do(ctx, "professor_stats", http.MethodGet, "/api/professor/stats", nil, &stats)
	return stats, err
}

// StudentStats fetches the student dashboard figures.
func (a *ClassroomAPI) StudentStats(ctx context.Context) (models.StudentStats, error) {
	var stats models.StudentStats
	err := a.do(ctx, "student_stats", http.MethodGet, "/api/student/stats", nil, &stats)
	return stats, err
}

// Profile fetches the session user's profile.
func (a *ClassroomAPI) Profile(ctx context.Context) (models.Profile, error) {
	var profile models.Profile
	err := a.do(ctx, "profile", http.MethodGet, "/api/profile", nil, &profile)
	return profile, err
}

// Ping checks that the upstream answers at all. Any HTTP status counts.
func (a *ClassroomAPI) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return &TransportError{Operation: "ping", Err: err}
	}
	_ = resp.Body.Close()
	return nil
}

func (a *ClassroomAPI) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	reqID := requestid.FromContext(ctx)
	if reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		a.observe(op, 0, start)
		a.logger.Warn("upstream call failed", zap.String("operation", op), zap.String("method", method), zap.String("path", path), zap.String("request_id", reqID), zap.Error(err))
		return &TransportError{Operation: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	a.observe(op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := &UpstreamError{Operation: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
		a.logger.Info("upstream rejected call", zap.String("operation", op), zap.Int("status", resp.StatusCode), zap.String("request_id", reqID), zap.String("message", upstreamErr.Message))
		return upstreamErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Operation: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Operation: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (a *ClassroomAPI) observe(op string, status int, start time.Time) {
	if a.observer != nil {
		a.observer.ObserveUpstream(op, status, time.Since(start))
	}
}

// errorMessage extracts `error` from a JSON error body, or returns "".
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
