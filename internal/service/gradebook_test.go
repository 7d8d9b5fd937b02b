package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
)

func gradePtr(v float64) *float64 { return &v }

func ts(t time.Time) models.Timestamp { return models.NewTimestamp(t) }

func gradedClass() models.ClassRoom {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	return models.ClassRoom{
		ID:   "c1",
		Name: "Biology",
		Code: "ABC123",
		Students: []models.Student{
			{ID: "s1", Name: "Ana", Email: "ana@example.com"},
			{ID: "s2", Name: "Budi", Email: "budi@example.com"},
		},
		Assignments: []models.Assignment{
			{
				ID: "a1", Title: "Essay", Points: 100, DueDate: ts(now.Add(-48 * time.Hour)),
				Submissions: []models.Submission{{StudentID: "s1", Grade: gradePtr(80)}},
			},
			{
				ID: "a2", Title: "Quiz", Points: 50, DueDate: ts(now.Add(-24 * time.Hour)),
				Submissions: []models.Submission{{StudentID: "s1", Grade: gradePtr(40)}, {StudentID: "s2"}},
			},
		},
	}
}

func TestAverageOfSumsEarnedOverPossible(t *testing.T) {
	class := gradedClass()

	score := ScoreFor(class.Assignments, "s1")
	assert.Equal(t, 120.0, score.Earned)
	assert.Equal(t, 150.0, score.Possible)
	assert.Equal(t, 2, score.GradedCount)
	assert.Equal(t, "80.00", AverageOf(score))
}

func TestAverageOfRoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, "85.33", AverageOf(dto.Score{Earned: 128, Possible: 150}))
	assert.Equal(t, "66.67", AverageOf(dto.Score{Earned: 2, Possible: 3}))
}

func TestAverageOfNotAvailableWithoutPossible(t *testing.T) {
	assert.Equal(t, dto.NotAvailable, AverageOf(dto.Score{}))

	class := gradedClass()
	assert.Equal(t, dto.NotAvailable, AverageOf(ScoreFor(class.Assignments, "s2")))
}

func TestBuildGradebook(t *testing.T) {
	class := gradedClass()
	book := BuildGradebook(&class)

	require.Len(t, book.Columns, 2)
	assert.Equal(t, "Quiz", book.Columns[1].Title)
	assert.Equal(t, 50, book.Columns[1].Points)

	require.Len(t, book.Rows, 2)
	assert.Equal(t, "80/100", book.Rows[0].Cells[0].Text)
	assert.Equal(t, "40/50", book.Rows[0].Cells[1].Text)
	assert.Equal(t, "80.00", book.Rows[0].Average)
	assert.Equal(t, "-", book.Rows[1].Cells[1].Text)
	assert.Equal(t, dto.NotAvailable, book.Rows[1].Average)

	assert.Equal(t, 2, class.Students[0].AssignmentCount)
	assert.Equal(t, "80.00", class.Students[0].AverageGrade)
	assert.Equal(t, dto.NotAvailable, class.Students[1].AverageGrade)
}

func TestProfessorAndStudentAveragesAgree(t *testing.T) {
	class := gradedClass()
	book := BuildGradebook(&class)
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

	studentView := StudentClassGrades(class, "s1", now)
	overview := StudentGradeOverview([]models.ClassRoom{class}, "s1", "", now)

	assert.Equal(t, book.Rows[0].Average, studentView.Average)
	require.Len(t, overview.Classes, 1)
	assert.Equal(t, book.Rows[0].Average, overview.Classes[0].Average)
	assert.Equal(t, book.Rows[0].Average, overview.OverallAverage)
}

func TestClassifyAssignment(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	past := ts(now.Add(-time.Hour))
	future := ts(now.Add(time.Hour))

	cases := []struct {
		name string
		a    models.Assignment
		want string
	}{
		{"pending", models.Assignment{DueDate: future}, dto.StatusPending},
		{"overdue", models.Assignment{DueDate: past}, dto.StatusOverdue},
		{"submitted late is not overdue", models.Assignment{DueDate: past, Submissions: []models.Submission{{StudentID: "s1"}}}, dto.StatusSubmitted},
		{"graded", models.Assignment{DueDate: future, Submissions: []models.Submission{{StudentID: "s1", Grade: gradePtr(0)}}}, dto.StatusGraded},
		{"other student's submission", models.Assignment{DueDate: past, Submissions: []models.Submission{{StudentID: "s2"}}}, dto.StatusOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyAssignment(tc.a, "s1", now))
		})
	}
}

func TestFilterAssignments(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	classes := []models.ClassRoom{
		{ID: "c1", Name: "Biology", Assignments: []models.Assignment{
			{ID: "late", DueDate: ts(now.Add(72 * time.Hour))},
			{ID: "overdue", DueDate: ts(now.Add(-time.Hour))},
		}},
		{ID: "c2", Name: "Math", Assignments: []models.Assignment{
			{ID: "soon", DueDate: ts(now.Add(time.Hour))},
			{ID: "done", DueDate: ts(now.Add(2 * time.Hour)), Submissions: []models.Submission{{StudentID: "s1"}}},
		}},
	}

	all, err := FilterAssignments(classes, "s1", dto.FilterAll, now)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, item := range all {
		ids = append(ids, item.Assignment.ID)
	}
	assert.Equal(t, []string{"overdue", "soon", "done", "late"}, ids)

	pending, err := FilterAssignments(classes, "s1", dto.FilterPending, now)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "soon", pending[0].Assignment.ID)
	assert.Equal(t, "Math", pending[0].ClassName)

	submitted, err := FilterAssignments(classes, "s1", dto.FilterSubmitted, now)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.NotNil(t, submitted[0].Submission)

	_, err = FilterAssignments(classes, "s1", "bogus", now)
	require.Error(t, err)
}

func TestStudentGradeOverview(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	bio := gradedClass()
	math := models.ClassRoom{ID: "c2", Name: "Math", Assignments: []models.Assignment{
		{ID: "m1", Points: 10, DueDate: ts(now.Add(time.Hour))},
		{ID: "m2", Points: 10, DueDate: ts(now.Add(-time.Hour))},
	}}

	overview := StudentGradeOverview([]models.ClassRoom{bio, math}, "s1", "", now)
	require.Len(t, overview.Classes, 1)
	assert.Equal(t, "c1", overview.Classes[0].ClassID)
	assert.Equal(t, 2, overview.Classes[0].TotalAssignments)
	assert.Equal(t, 2, overview.GradedCount)
	assert.Equal(t, 1, overview.PendingCount)

	filtered := StudentGradeOverview([]models.ClassRoom{bio, math}, "s1", "c2", now)
	assert.Empty(t, filtered.Classes)
	assert.Equal(t, "80.00", filtered.OverallAverage)

	none := StudentGradeOverview([]models.ClassRoom{math}, "s1", "", now)
	assert.Equal(t, dto.NotAvailable, none.OverallAverage)
}

func TestSortContracts(t *testing.T) {
	base := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	materials := []models.Material{
		{ID: "old", Date: ts(base)},
		{ID: "new", Date: ts(base.Add(time.Hour))},
	}
	sorted := SortMaterials(materials)
	assert.Equal(t, "new", sorted[0].ID)
	assert.Equal(t, "old", materials[0].ID)

	assignments := []models.Assignment{
		{ID: "later", DueDate: ts(base.Add(time.Hour))},
		{ID: "sooner", DueDate: ts(base)},
	}
	assert.Equal(t, "sooner", SortAssignments(assignments)[0].ID)
}

func TestListSubmissions(t *testing.T) {
	class := gradedClass()
	class.Assignments[1].Submissions = append(class.Assignments[1].Submissions, models.Submission{StudentID: "ghost"})

	list, err := ListSubmissions(class, "a2")
	require.NoError(t, err)
	require.Len(t, list.Submissions, 3)
	assert.Equal(t, "Ana", list.Submissions[0].StudentName)
	assert.Equal(t, "40/50", list.Submissions[0].GradeText)
	assert.Equal(t, "Not graded", list.Submissions[1].GradeText)
	assert.Equal(t, "Unknown Student", list.Submissions[2].StudentName)

	_, err = ListSubmissions(class, "missing")
	require.Error(t, err)
}
