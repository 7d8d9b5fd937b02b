package dto

import "github.com/noah-isme/classroom-dashboard/internal/models"

// Stats sources.
const (
	StatsSourceUpstream = "upstream"
	StatsSourceCache    = "cache"
	StatsSourceLocal    = "local"
)

// Activity kinds.
const (
	ActivityEnrollment        = "enrollment"
	ActivitySubmission        = "submission"
	ActivityAssignmentCreated = "assignment_created"
	ActivityMaterial          = "material"
	ActivityGraded            = "graded"
)

// DeadlineItem is an entry of the upcoming deadlines card.
type DeadlineItem struct {
	ClassID      string           `json:"classId"`
	ClassName    string           `json:"className"`
	AssignmentID string           `json:"assignmentId"`
	Title        string           `json:"title"`
	DueDate      models.Timestamp `json:"dueDate"`
	DaysLeft     int              `json:"daysLeft"`
}

// ActivityItem is an entry of the recent activity feed.
type ActivityItem struct {
	Kind      string           `json:"kind"`
	ClassID   string           `json:"classId"`
	ClassName string           `json:"className"`
	Title     string           `json:"title"`
	Date      models.Timestamp `json:"date"`
}

// Dashboard is the home section payload. Exactly one of the stats fields is set.
type Dashboard struct {
	Role           models.Role            `json:"role"`
	ProfessorStats *models.ProfessorStats `json:"professorStats,omitempty"`
	StudentStats   *models.StudentStats   `json:"studentStats,omitempty"`
	StatsSource    string                 `json:"statsSource"`
	Deadlines      []DeadlineItem         `json:"deadlines"`
	Activity       []ActivityItem         `json:"activity"`
}
