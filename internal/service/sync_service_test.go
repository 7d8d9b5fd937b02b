package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/repository"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

type fakeClassroomAPI struct {
	mu          sync.Mutex
	classes     []models.ClassRoom
	err         error
	listErr     error
	calls       map[string]int
	materials   []models.Material
	assignments []models.Assignment
	submissions []models.Submission
	grades      []repository.GradePayload
	block       chan struct{}
}

func newFakeClassroomAPI() *fakeClassroomAPI {
	return &fakeClassroomAPI{calls: map[string]int{}}
}

func (f *fakeClassroomAPI) hit(op string) error {
	f.mu.Lock()
	f.calls[op]++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeClassroomAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClassroomAPI) ListClasses(context.Context) ([]models.ClassRoom, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.classes, nil
}

func (f *fakeClassroomAPI) CreateClass(_ context.Context, p repository.CreateClassPayload) (models.ClassRoom, error) {
	if err := f.hit("create"); err != nil {
		return models.ClassRoom{}, err
	}
	return models.ClassRoom{ID: "new-class", Name: p.Name, Code: p.Code, Description: p.Description}, nil
}

func (f *fakeClassroomAPI) DeleteClass(context.Context, string) error { return f.hit("delete") }

func (f *fakeClassroomAPI) PostMaterial(_ context.Context, _ string, m models.Material) error {
	if err := f.hit("material"); err != nil {
		return err
	}
	f.materials = append(f.materials, m)
	return nil
}

func (f *fakeClassroomAPI) CreateAssignment(_ context.Context, _ string, a models.Assignment) error {
	if err := f.hit("assignment"); err != nil {
		return err
	}
	f.assignments = append(f.assignments, a)
	return nil
}

func (f *fakeClassroomAPI) SubmitWork(_ context.Context, _, _ string, s models.Submission) error {
	if err := f.hit("submit"); err != nil {
		return err
	}
	f.submissions = append(f.submissions, s)
	return nil
}

func (f *fakeClassroomAPI) SaveGrade(_ context.Context, _, _, _ string, p repository.GradePayload) error {
	if err := f.hit("grade"); err != nil {
		return err
	}
	f.grades = append(f.grades, p)
	return nil
}

func (f *fakeClassroomAPI) JoinClass(context.Context, string) (repository.JoinResult, error) {
	if err := f.hit("join"); err != nil {
		return repository.JoinResult{}, err
	}
	return repository.JoinResult{Class: models.ClassRoom{Name: "Biology"}}, nil
}

func (f *fakeClassroomAPI) Unenroll(context.Context, string) error { return f.hit("unenroll") }

func (f *fakeClassroomAPI) UpdatePassword(context.Context, string, string) error {
	return f.hit("password")
}

type fakeIdentity struct {
	role      models.Role
	studentID string
}

func (f fakeIdentity) Role() models.Role { return f.role }

func (f fakeIdentity) StudentID(context.Context) (string, error) {
	if f.studentID == "" {
		return "", appErrors.ErrUnauthorized
	}
	return f.studentID, nil
}

func (f fakeIdentity) DisplayName(context.Context) string { return "Ana" }

type countingRefresher struct {
	mu      sync.Mutex
	reasons []string
}

func (r *countingRefresher) ScheduleRefresh(reason string) {
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()
}

func newSyncForTest(role models.Role, api *fakeClassroomAPI, classes ...models.ClassRoom) (*SyncService, *ViewService, *countingRefresher) {
	snap := NewSnapshot()
	snap.Replace(snap.BeginReload(), classes)
	view := NewViewService(role, fixedCode)
	refresher := &countingRefresher{}
	svc := NewSyncService(SyncServiceParams{
		API:         api,
		Snapshot:    snap,
		Attachments: NewAttachmentService(0, nil),
		Session:     fakeIdentity{role: role, studentID: "s1"},
		View:        view,
		Refresher:   refresher,
	})
	svc.now = func() time.Time { return time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC) }
	return svc, view, refresher
}

func TestCreateClassWithEmptyCodeGeneratesOneWithoutCallingUpstream(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, view, _ := newSyncForTest(models.RoleProfessor, api)

	_, err := svc.CreateClass(context.Background(), dto.CreateClassRequest{Name: "Biology"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 0, api.count("create"))

	code := view.State().Forms[ModalCreateClass]["code"]
	assert.Len(t, code, 6)
	assert.True(t, ValidClassCode(code))
	assert.Contains(t, err.Error(), code)
}

func TestCreateClassAppendsOnSuccess(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, refresher := newSyncForTest(models.RoleProfessor, api)

	created, err := svc.CreateClass(context.Background(), dto.CreateClassRequest{Name: " Biology ", Code: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", created.Code)
	assert.Len(t, svc.Snapshot().Classes(), 1)
	assert.Equal(t, []string{"create_class"}, refresher.reasons)
}

func TestCreateClassRequiresName(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api)

	_, err := svc.CreateClass(context.Background(), dto.CreateClassRequest{Code: "ABC123"})
	require.Error(t, err)
	assert.Equal(t, "Please enter a class name", appErrors.FromError(err).Message)
	assert.Equal(t, 0, api.count("create"))
}

func TestStudentCannotCreateClass(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleStudent, api)

	_, err := svc.CreateClass(context.Background(), dto.CreateClassRequest{Name: "Biology", Code: "ABC123"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestUpstreamMessageIsSurfacedAndSnapshotUnchanged(t *testing.T) {
	api := newFakeClassroomAPI()
	api.err = &repository.UpstreamError{Operation: "create_assignment", Status: http.StatusBadRequest, Message: "Due date is in the past"}
	svc, _, refresher := newSyncForTest(models.RoleProfessor, api, gradedClass())
	before := svc.Snapshot().Version()

	_, err := svc.CreateAssignment(context.Background(), "c1", dto.AssignmentRequest{
		Title: "Lab", Description: "Write it up", DueDate: "2024-05-20",
	}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Due date is in the past", appErr.Message)

	class, err := svc.Snapshot().Class("c1")
	require.NoError(t, err)
	assert.Len(t, class.Assignments, 2)
	assert.Equal(t, before, svc.Snapshot().Version())
	assert.Empty(t, refresher.reasons)
}

func TestTransportFailureUsesGenericMessage(t *testing.T) {
	api := newFakeClassroomAPI()
	api.err = &repository.TransportError{Operation: "delete_class", Err: errors.New("connection refused")}
	svc, _, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())

	err := svc.DeleteClass(context.Background(), "c1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstreamUnavailable.Code, appErr.Code)
	assert.Equal(t, "Error deleting class. Please try again.", appErr.Message)
	assert.Len(t, svc.Snapshot().Classes(), 1)
}

func TestCreateAssignmentWithThreeFilesSavesOnce(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())
	uploads := []Upload{
		textUpload("a.txt", "alpha"),
		textUpload("b.txt", "bravo"),
		textUpload("c.txt", "charlie"),
	}

	created, err := svc.CreateAssignment(context.Background(), "c1", dto.AssignmentRequest{
		Title: "Lab", Description: "Write it up", DueDate: "2024-05-20", Points: "abc",
	}, uploads)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("assignment"))
	require.Len(t, api.assignments, 1)
	require.Len(t, api.assignments[0].Files, 3)
	assert.Equal(t, "b.txt", api.assignments[0].Files[1].Name)
	assert.Equal(t, models.Points(models.DefaultAssignmentPoints), created.Points)

	class, err := svc.Snapshot().Class("c1")
	require.NoError(t, err)
	assert.Len(t, class.Assignments, 3)
}

func TestCreateAssignmentRequiresFields(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())

	_, err := svc.CreateAssignment(context.Background(), "c1", dto.AssignmentRequest{Title: "Lab"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Please fill in all required fields (Title, Description, Due Date)", appErrors.FromError(err).Message)
	assert.Equal(t, 0, api.count("assignment"))
}

func TestFailedFileReadAbortsBeforeNetworkCall(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())
	broken := Upload{Name: "broken.bin", Open: func() (io.ReadCloser, error) { return nil, errors.New("unreadable") }}

	_, err := svc.PostMaterial(context.Background(), "c1", dto.MaterialRequest{Title: "Slides"}, []Upload{textUpload("a.txt", "alpha"), broken})
	require.Error(t, err)
	assert.Equal(t, 0, api.count("material"))
}

func TestPostMaterialMissingClass(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api)

	_, err := svc.PostMaterial(context.Background(), "nope", dto.MaterialRequest{Title: "Slides"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Error: Class not found.", appErrors.FromError(err).Message)
}

func TestSubmitWorkUpsertsByStudent(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleStudent, api, gradedClass())

	_, err := svc.SubmitWork(context.Background(), "c1", "a2", dto.SubmissionRequest{Content: "first"}, nil)
	require.NoError(t, err)
	_, err = svc.SubmitWork(context.Background(), "c1", "a2", dto.SubmissionRequest{Content: "second"}, nil)
	require.NoError(t, err)

	class, err := svc.Snapshot().Class("c1")
	require.NoError(t, err)
	a := class.Assignments[1]
	idx := a.SubmissionFor("s1")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "second", a.Submissions[idx].Content)
	assert.Len(t, a.Submissions, 2)
}

func TestSaveGradeBounds(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())

	_, err := svc.SaveGrade(context.Background(), "c1", "a2", "s2", dto.GradeRequest{Grade: "51"})
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid grade between 0 and 50", appErrors.FromError(err).Message)

	_, err = svc.SaveGrade(context.Background(), "c1", "a2", "s9", dto.GradeRequest{Grade: "10"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 0, api.count("grade"))

	graded, err := svc.SaveGrade(context.Background(), "c1", "a2", "s2", dto.GradeRequest{Grade: "45", Feedback: " good "})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 45.0, *graded.Grade)
	assert.Equal(t, "good", graded.Feedback)
	require.NotNil(t, graded.GradedDate)
	require.Len(t, api.grades, 1)
	assert.Equal(t, 45.0, api.grades[0].Grade)
}

func TestLoadClassesClosesVanishedClassView(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, view, _ := newSyncForTest(models.RoleProfessor, api, gradedClass())
	view.OpenClass("c1")

	api.classes = []models.ClassRoom{{ID: "c2", Name: "Chemistry"}}
	classes, err := svc.LoadClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	_, open := view.ActiveClass()
	assert.False(t, open)
}

func TestJoinClassReloads(t *testing.T) {
	api := newFakeClassroomAPI()
	api.classes = []models.ClassRoom{{ID: "c1", Name: "Biology"}}
	svc, _, _ := newSyncForTest(models.RoleStudent, api)

	out, err := svc.JoinClass(context.Background(), dto.JoinClassRequest{Code: " abc123 "})
	require.NoError(t, err)
	assert.Equal(t, "Successfully joined Biology!", out.Message)
	assert.Len(t, out.Classes, 1)
	assert.Equal(t, 1, api.count("list"))

	_, err = svc.JoinClass(context.Background(), dto.JoinClassRequest{Code: "  "})
	assert.Equal(t, "Please enter a class code", appErrors.FromError(err).Message)
}

func TestJoinClassKeepsSuccessWhenReloadFails(t *testing.T) {
	api := newFakeClassroomAPI()
	api.listErr = &repository.TransportError{Operation: "list_classes", Err: errors.New("connection reset")}
	svc, view, refresher := newSyncForTest(models.RoleStudent, api, models.ClassRoom{ID: "c0", Name: "History"})
	_, err := view.OpenModal(ModalJoinClass, nil)
	require.NoError(t, err)

	out, err := svc.JoinClass(context.Background(), dto.JoinClassRequest{Code: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("join"))
	assert.Equal(t, 1, api.count("list"))
	assert.Equal(t, "Successfully joined Biology!", out.Message)
	require.Len(t, out.Classes, 1)
	assert.Equal(t, "c0", out.Classes[0].ID)
	assert.False(t, view.State().Modals[ModalJoinClass])
	assert.Contains(t, refresher.reasons, "join_class")
}

func TestUnenrollDropsClassWhenReloadFails(t *testing.T) {
	api := newFakeClassroomAPI()
	api.listErr = &repository.TransportError{Operation: "list_classes", Err: errors.New("connection reset")}
	svc, _, _ := newSyncForTest(models.RoleStudent, api,
		models.ClassRoom{ID: "c0", Name: "History"}, models.ClassRoom{ID: "c1", Name: "Biology"})

	classes, err := svc.Unenroll(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("unenroll"))
	require.Len(t, classes, 1)
	assert.Equal(t, "c0", classes[0].ID)
	_, err = svc.Snapshot().Class("c1")
	assert.Error(t, err)
}

func TestUpdatePasswordValidation(t *testing.T) {
	api := newFakeClassroomAPI()
	svc, _, _ := newSyncForTest(models.RoleStudent, api)
	ctx := context.Background()

	cases := []struct {
		req  dto.PasswordUpdateRequest
		want string
	}{
		{dto.PasswordUpdateRequest{CurrentPassword: "old"}, "Please fill in all password fields."},
		{dto.PasswordUpdateRequest{CurrentPassword: "old", NewPassword: "short", ConfirmPassword: "short"}, "Password must be at least 8 characters long."},
		{dto.PasswordUpdateRequest{CurrentPassword: "old", NewPassword: "longenough", ConfirmPassword: "different1"}, "New passwords do not match."},
	}
	for _, tc := range cases {
		err := svc.UpdatePassword(ctx, tc.req)
		require.Error(t, err)
		assert.Equal(t, tc.want, appErrors.FromError(err).Message)
	}
	assert.Equal(t, 0, api.count("password"))
}

func TestUpdatePasswordRejectsConcurrentUpdate(t *testing.T) {
	api := newFakeClassroomAPI()
	api.block = make(chan struct{})
	svc, _, _ := newSyncForTest(models.RoleStudent, api)
	req := dto.PasswordUpdateRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword", ConfirmPassword: "newpassword"}

	done := make(chan error, 1)
	go func() { done <- svc.UpdatePassword(context.Background(), req) }()
	require.Eventually(t, func() bool { return api.count("password") == 1 }, time.Second, 5*time.Millisecond)

	err := svc.UpdatePassword(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.count("password"))
}

func textUpload(name, body string) Upload {
	return Upload{
		Name:        name,
		ContentType: "text/plain",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
