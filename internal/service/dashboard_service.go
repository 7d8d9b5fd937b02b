package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/pkg/jobs"
)

type statsFetcher interface {
	ProfessorStats(ctx context.Context) (models.ProfessorStats, error)
	StudentStats(ctx context.Context) (models.StudentStats, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL       time.Duration
	DeadlinesLimit int
	ActivityLimit  int
}

// DashboardService composes the home section: stat cards, upcoming deadlines
// and the recent activity feed.
type DashboardService struct {
	stats   statsFetcher
	classes classSource
	session sessionIdentity
	cache   statsCache
	logger  *zap.Logger
	now     func() time.Time
	cfg     DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Stats   statsFetcher
	Classes classSource
	Session sessionIdentity
	Cache   statsCache
	Logger  *zap.Logger
	Config  DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DeadlinesLimit <= 0 {
		cfg.DeadlinesLimit = deadlinesLimit
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = activityLimit
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		stats:   params.Stats,
		classes: params.Classes,
		session: params.Session,
		cache:   params.Cache,
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Dashboard returns the home payload. Stats come from the cache, then
// upstream, then are computed from the snapshot when upstream is down.
func (s *DashboardService) Dashboard(ctx context.Context) (dto.Dashboard, error) {
	role := s.session.Role()
	now := s.now()
	classes := s.classes.Classes()
	studentID := s.studentID(ctx)

	out := dto.Dashboard{
		Role:      role,
		Deadlines: UpcomingDeadlines(classes, studentID, role, now, s.cfg.DeadlinesLimit),
		Activity:  RecentActivity(classes, studentID, role, s.cfg.ActivityLimit),
	}

	switch role {
	case models.RoleProfessor:
		stats, source := s.professorStats(ctx, classes, now)
		out.ProfessorStats = &stats
		out.StatsSource = source
	default:
		stats, source := s.studentStats(ctx, classes, studentID, now)
		out.StudentStats = &stats
		out.StatsSource = source
	}
	return out, nil
}

// Refresh pulls fresh stats from upstream into the cache.
func (s *DashboardService) Refresh(ctx context.Context) error {
	switch s.session.Role() {
	case models.RoleProfessor:
		stats, err := s.stats.ProfessorStats(ctx)
		if err != nil {
			return err
		}
		s.persistCache(ctx, s.cacheKey(), stats)
	default:
		stats, err := s.stats.StudentStats(ctx)
		if err != nil {
			return err
		}
		s.persistCache(ctx, s.cacheKey(), stats)
	}
	return nil
}

// HandleRefreshJob adapts Refresh to the jobs queue.
func (s *DashboardService) HandleRefreshJob(ctx context.Context, job jobs.Job) error {
	s.logger.Debug("refreshing dashboard stats", zap.String("job_id", job.ID), zap.Any("reason", job.Payload))
	return s.Refresh(ctx)
}

func (s *DashboardService) professorStats(ctx context.Context, classes []models.ClassRoom, now time.Time) (models.ProfessorStats, string) {
	var cached models.ProfessorStats
	if s.tryCache(ctx, &cached) {
		return cached, dto.StatsSourceCache
	}
	stats, err := s.stats.ProfessorStats(ctx)
	if err == nil {
		s.persistCache(ctx, s.cacheKey(), stats)
		return stats, dto.StatsSourceUpstream
	}
	s.logger.Warn("professor stats unavailable, computing locally", zap.Error(err))
	return LocalProfessorStats(classes, now), dto.StatsSourceLocal
}

func (s *DashboardService) studentStats(ctx context.Context, classes []models.ClassRoom, studentID string, now time.Time) (models.StudentStats, string) {
	var cached models.StudentStats
	if s.tryCache(ctx, &cached) {
		return cached, dto.StatsSourceCache
	}
	stats, err := s.stats.StudentStats(ctx)
	if err == nil {
		s.persistCache(ctx, s.cacheKey(), stats)
		return stats, dto.StatsSourceUpstream
	}
	s.logger.Warn("student stats unavailable, computing locally", zap.Error(err))
	return LocalStudentStats(classes, studentID, now), dto.StatsSourceLocal
}

func (s *DashboardService) cacheKey() string {
	return fmt.Sprintf("stats:%s", s.session.Role())
}

func (s *DashboardService) tryCache(ctx context.Context, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, s.cacheKey(), dest)
	return err == nil && hit
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DashboardService) studentID(ctx context.Context) string {
	if s.session.Role() != models.RoleStudent {
		return ""
	}
	id, err := s.session.StudentID(ctx)
	if err != nil {
		s.logger.Debug("student id unavailable for dashboard", zap.Error(err))
		return ""
	}
	return id
}

// LocalProfessorStats derives the professor cards from the snapshot.
func LocalProfessorStats(classes []models.ClassRoom, now time.Time) models.ProfessorStats {
	horizon := endOfDay(now.AddDate(0, 0, upcomingHorizon))
	stats := models.ProfessorStats{TotalClasses: len(classes)}
	for _, class := range classes {
		stats.TotalStudents += len(class.Students)
		for _, a := range class.Assignments {
			for _, sub := range a.Submissions {
				if !sub.Graded() {
					stats.PendingTasks++
				}
			}
			due := a.DueDate.Time
			if !due.Before(now) && !due.After(horizon) {
				stats.UpcomingDeadlines++
			}
		}
	}
	return stats
}

// LocalStudentStats derives the student cards from the snapshot.
func LocalStudentStats(classes []models.ClassRoom, studentID string, now time.Time) models.StudentStats {
	horizon := endOfDay(now.AddDate(0, 0, upcomingHorizon))
	stats := models.StudentStats{EnrolledClasses: len(classes)}
	for _, class := range classes {
		for i := range class.Assignments {
			a := &class.Assignments[i]
			if a.SubmissionFor(studentID) >= 0 {
				stats.CompletedAssignments++
				continue
			}
			due := a.DueDate.Time
			if due.Before(now) {
				continue
			}
			stats.PendingAssignments++
			if !due.After(horizon) {
				stats.UpcomingDeadlines++
			}
		}
	}
	return stats
}

// UpcomingDeadlines lists assignments not yet due, soonest first. A student
// only sees assignments they have not submitted.
func UpcomingDeadlines(classes []models.ClassRoom, studentID string, role models.Role, now time.Time, limit int) []dto.DeadlineItem {
	items := make([]dto.DeadlineItem, 0)
	today := startOfDay(now)
	for _, class := range classes {
		for i := range class.Assignments {
			a := &class.Assignments[i]
			if a.DueDate.Before(now) {
				continue
			}
			if role == models.RoleStudent && a.SubmissionFor(studentID) >= 0 {
				continue
			}
			items = append(items, dto.DeadlineItem{
				ClassID:      class.ID,
				ClassName:    class.Name,
				AssignmentID: a.ID,
				Title:        a.Title,
				DueDate:      a.DueDate,
				DaysLeft:     int(startOfDay(a.DueDate.Time).Sub(today).Hours() / 24),
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate.Time)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// RecentActivity builds the activity feed, newest first.
func RecentActivity(classes []models.ClassRoom, studentID string, role models.Role, limit int) []dto.ActivityItem {
	items := make([]dto.ActivityItem, 0)
	add := func(kind string, class models.ClassRoom, title string, when models.Timestamp) {
		if when.IsZero() {
			return
		}
		items = append(items, dto.ActivityItem{Kind: kind, ClassID: class.ID, ClassName: class.Name, Title: title, Date: when})
	}

	for _, class := range classes {
		for _, m := range class.Materials {
			add(dto.ActivityMaterial, class, m.Title, m.Date)
		}
		for _, a := range class.Assignments {
			if a.DateCreated != nil {
				add(dto.ActivityAssignmentCreated, class, a.Title, *a.DateCreated)
			}
			for _, sub := range a.Submissions {
				switch role {
				case models.RoleProfessor:
					name := sub.StudentName
					if name == "" {
						name = class.StudentName(sub.StudentID)
					}
					add(dto.ActivitySubmission, class, fmt.Sprintf("%s submitted %s", name, a.Title), sub.Date)
				default:
					if sub.StudentID != studentID {
						continue
					}
					add(dto.ActivitySubmission, class, a.Title, sub.Date)
					if sub.Graded() && sub.GradedDate != nil {
						add(dto.ActivityGraded, class, fmt.Sprintf("%s graded %s/%d", a.Title, formatGrade(*sub.Grade), int(a.Points)), *sub.GradedDate)
					}
				}
			}
		}
		if role == models.RoleStudent && class.EnrollmentDate != nil {
			add(dto.ActivityEnrollment, class, fmt.Sprintf("Joined %s", class.Name), *class.EnrollmentDate)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date.Time)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// StatsRefresher schedules dashboard refreshes on a jobs queue.
type StatsRefresher struct {
	queue  *jobs.Queue
	logger *zap.Logger
	newID  func() string
}

// NewStatsRefresher wraps queue. A nil queue makes ScheduleRefresh a no-op.
func NewStatsRefresher(queue *jobs.Queue, logger *zap.Logger, newID func() string) *StatsRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsRefresher{queue: queue, logger: logger, newID: newID}
}

// ScheduleRefresh enqueues one coalesced refresh job.
func (r *StatsRefresher) ScheduleRefresh(reason string) {
	if r == nil || r.queue == nil {
		return
	}
	id := ""
	if r.newID != nil {
		id = r.newID()
	}
	err := r.queue.Enqueue(jobs.Job{ID: id, Key: "dashboard-stats", Type: "stats_refresh", Payload: reason, Enqueued: time.Now()})
	if err != nil {
		r.logger.Warn("stats refresh not scheduled", zap.String("reason", reason), zap.Error(err))
	}
}
