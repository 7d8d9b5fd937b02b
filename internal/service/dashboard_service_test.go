package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
)

type fakeStats struct {
	professor models.ProfessorStats
	student   models.StudentStats
	err       error
	calls     int
}

func (f *fakeStats) ProfessorStats(context.Context) (models.ProfessorStats, error) {
	f.calls++
	return f.professor, f.err
}

func (f *fakeStats) StudentStats(context.Context) (models.StudentStats, error) {
	f.calls++
	return f.student, f.err
}

type memoryStatsCache struct {
	entries map[string]interface{}
}

func (m *memoryStatsCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *models.ProfessorStats:
		*d = v.(models.ProfessorStats)
	case *models.StudentStats:
		*d = v.(models.StudentStats)
	}
	return true, nil
}

func (m *memoryStatsCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.entries[key] = value
	return nil
}

var dashboardNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func dashboardClasses() []models.ClassRoom {
	created := ts(dashboardNow.Add(-72 * time.Hour))
	return []models.ClassRoom{{
		ID:       "c1",
		Name:     "Biology",
		Students: []models.Student{{ID: "s1", Name: "Ana"}, {ID: "s2", Name: "Budi"}},
		Materials: []models.Material{
			{ID: "m1", Title: "Slides", Date: ts(dashboardNow.Add(-2 * time.Hour))},
		},
		Assignments: []models.Assignment{
			{ID: "a1", Title: "Essay", Points: 100, DueDate: ts(dashboardNow.Add(48 * time.Hour)), DateCreated: &created,
				Submissions: []models.Submission{{StudentID: "s1", Date: ts(dashboardNow.Add(-1 * time.Hour))}}},
			{ID: "a2", Title: "Quiz", Points: 50, DueDate: ts(dashboardNow.Add(24 * time.Hour))},
			{ID: "a3", Title: "Report", Points: 50, DueDate: ts(dashboardNow.Add(30 * 24 * time.Hour))},
			{ID: "a4", Title: "Old", Points: 10, DueDate: ts(dashboardNow.Add(-24 * time.Hour))},
		},
	}}
}

func newDashboardForTest(role models.Role, stats *fakeStats, cache statsCache) *DashboardService {
	svc := NewDashboardService(DashboardServiceParams{
		Stats:   stats,
		Classes: staticClasses(dashboardClasses()),
		Session: fakeIdentity{role: role, studentID: "s1"},
		Cache:   cache,
	})
	svc.now = func() time.Time { return dashboardNow }
	return svc
}

func TestDashboardUsesUpstreamThenCache(t *testing.T) {
	stats := &fakeStats{professor: models.ProfessorStats{TotalClasses: 9}}
	cache := &memoryStatsCache{entries: map[string]interface{}{}}
	svc := newDashboardForTest(models.RoleProfessor, stats, cache)

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.StatsSourceUpstream, first.StatsSource)
	require.NotNil(t, first.ProfessorStats)
	assert.Equal(t, 9, first.ProfessorStats.TotalClasses)

	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.StatsSourceCache, second.StatsSource)
	assert.Equal(t, 1, stats.calls)
}

func TestDashboardFallsBackToLocalStats(t *testing.T) {
	stats := &fakeStats{err: errors.New("down")}
	svc := newDashboardForTest(models.RoleProfessor, stats, nil)

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.StatsSourceLocal, out.StatsSource)
	assert.Equal(t, models.ProfessorStats{TotalClasses: 1, TotalStudents: 2, PendingTasks: 1, UpcomingDeadlines: 2}, *out.ProfessorStats)
}

func TestLocalStudentStats(t *testing.T) {
	stats := LocalStudentStats(dashboardClasses(), "s1", dashboardNow)
	assert.Equal(t, models.StudentStats{EnrolledClasses: 1, PendingAssignments: 2, UpcomingDeadlines: 1, CompletedAssignments: 1}, stats)
}

func TestUpcomingDeadlinesSortedAndLimited(t *testing.T) {
	items := UpcomingDeadlines(dashboardClasses(), "", models.RoleProfessor, dashboardNow, 2)
	require.Len(t, items, 2)
	assert.Equal(t, "a2", items[0].AssignmentID)
	assert.Equal(t, "a1", items[1].AssignmentID)
	assert.Equal(t, 1, items[0].DaysLeft)

	student := UpcomingDeadlines(dashboardClasses(), "s1", models.RoleStudent, dashboardNow, 5)
	for _, item := range student {
		assert.NotEqual(t, "a1", item.AssignmentID)
	}
}

func TestRecentActivityNewestFirst(t *testing.T) {
	items := RecentActivity(dashboardClasses(), "", models.RoleProfessor, 10)
	require.Len(t, items, 3)
	assert.Equal(t, dto.ActivitySubmission, items[0].Kind)
	assert.Equal(t, "Ana submitted Essay", items[0].Title)
	assert.Equal(t, dto.ActivityMaterial, items[1].Kind)
	assert.Equal(t, dto.ActivityAssignmentCreated, items[2].Kind)

	assert.Len(t, RecentActivity(dashboardClasses(), "", models.RoleProfessor, 2), 2)
}

func TestDashboardRefreshWritesCache(t *testing.T) {
	stats := &fakeStats{student: models.StudentStats{EnrolledClasses: 4}}
	cache := &memoryStatsCache{entries: map[string]interface{}{}}
	svc := newDashboardForTest(models.RoleStudent, stats, cache)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, models.StudentStats{EnrolledClasses: 4}, cache.entries["stats:student"])
}
