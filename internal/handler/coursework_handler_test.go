package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

type fakeCourseworkSync struct {
	reader     *fakeClassReader
	loads      int
	grade      dto.GradeRequest
	assignment dto.AssignmentRequest
}

func (f *fakeCourseworkSync) EnsureLoaded(context.Context) error {
	f.loads++
	f.reader.loaded = true
	return nil
}

func (f *fakeCourseworkSync) PostMaterial(context.Context, string, dto.MaterialRequest, []service.Upload) (models.Material, error) {
	return models.Material{}, nil
}

func (f *fakeCourseworkSync) CreateAssignment(_ context.Context, _ string, req dto.AssignmentRequest, _ []service.Upload) (models.Assignment, error) {
	f.assignment = req
	return models.Assignment{ID: "a9", Title: req.Title, Points: models.Points(models.ParsePoints(req.Points.String()))}, nil
}

func (f *fakeCourseworkSync) SubmitWork(context.Context, string, string, dto.SubmissionRequest, []service.Upload) (models.Submission, error) {
	return models.Submission{}, nil
}

func (f *fakeCourseworkSync) SaveGrade(_ context.Context, _, _, studentID string, req dto.GradeRequest) (models.Submission, error) {
	f.grade = req
	return models.Submission{StudentID: studentID}, nil
}

type fakeClassReader struct {
	classes []models.ClassRoom
	loaded  bool
}

func (f *fakeClassReader) Classes() []models.ClassRoom {
	if !f.loaded {
		return nil
	}
	return f.classes
}

func (f *fakeClassReader) Class(id string) (models.ClassRoom, error) {
	for _, class := range f.Classes() {
		if class.ID == id {
			return class, nil
		}
	}
	return models.ClassRoom{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

type fakeDecoder struct{}

func (fakeDecoder) Decode(att models.FileAttachment) (service.Decoded, error) {
	return service.Decoded{Name: att.Name, ContentType: att.Type, Data: []byte(att.Content)}, nil
}

type fakeSession struct {
	role      models.Role
	studentID string
}

func (f fakeSession) Role() models.Role { return f.role }

func (f fakeSession) StudentID(context.Context) (string, error) { return f.studentID, nil }

func courseworkFixture(role models.Role) (*CourseworkHandler, *fakeCourseworkSync) {
	reader := &fakeClassReader{classes: []models.ClassRoom{{
		ID:   "c1",
		Name: "Biology",
		Assignments: []models.Assignment{{
			ID:     "a1",
			Title:  "Lab",
			Points: 100,
			Submissions: []models.Submission{
				{StudentID: "s1", Files: []models.FileAttachment{{Name: "mine.txt", Type: "text/plain", Content: "mine"}}},
				{StudentID: "s2", Files: []models.FileAttachment{{Name: "theirs.txt", Type: "text/plain", Content: "theirs"}}},
			},
		}},
	}}}
	sync := &fakeCourseworkSync{reader: reader}
	return NewCourseworkHandler(sync, reader, fakeDecoder{}, fakeSession{role: role, studentID: "s1"}), sync
}

func courseworkContext(method, target, body string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Params = params
	return c, rec
}

func TestGradeAcceptsNumberOrText(t *testing.T) {
	params := gin.Params{{Key: "classId", Value: "c1"}, {Key: "assignmentId", Value: "a1"}, {Key: "studentId", Value: "s1"}}
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "number", body: `{"grade":85,"feedback":"ok"}`, want: "85"},
		{name: "text", body: `{"grade":"85","feedback":"ok"}`, want: "85"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, sync := courseworkFixture(models.RoleProfessor)
			c, rec := courseworkContext(http.MethodPut, "/grade", tc.body, params)

			handler.Grade(c)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.want, sync.grade.Grade.String())
			assert.Equal(t, "ok", sync.grade.Feedback)
		})
	}
}

func TestCreateAssignmentAcceptsNumericPoints(t *testing.T) {
	handler, sync := courseworkFixture(models.RoleProfessor)
	body := `{"title":"Lab","description":"Write it up","dueDate":"2024-05-20","points":50}`
	c, rec := courseworkContext(http.MethodPost, "/assignments", body, gin.Params{{Key: "classId", Value: "c1"}})

	handler.CreateAssignment(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "50", sync.assignment.Points.String())
}

func TestSubmissionsLoadsSnapshotFirst(t *testing.T) {
	handler, sync := courseworkFixture(models.RoleProfessor)
	c, rec := courseworkContext(http.MethodGet, "/submissions", "", gin.Params{{Key: "classId", Value: "c1"}, {Key: "assignmentId", Value: "a1"}})

	handler.Submissions(c)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, sync.loads)
}

func TestSubmissionFileOwnership(t *testing.T) {
	cases := []struct {
		name      string
		role      models.Role
		studentID string
		status    int
		body      string
	}{
		{name: "student own file", role: models.RoleStudent, studentID: "s1", status: http.StatusOK, body: "mine"},
		{name: "student other file", role: models.RoleStudent, studentID: "s2", status: http.StatusForbidden},
		{name: "professor any file", role: models.RoleProfessor, studentID: "s2", status: http.StatusOK, body: "theirs"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, sync := courseworkFixture(tc.role)
			c, rec := courseworkContext(http.MethodGet, "/file", "", gin.Params{
				{Key: "classId", Value: "c1"},
				{Key: "assignmentId", Value: "a1"},
				{Key: "studentId", Value: tc.studentID},
				{Key: "index", Value: "0"},
			})

			handler.SubmissionFile(c)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
				assert.Equal(t, 1, sync.loads)
			}
		})
	}
}
