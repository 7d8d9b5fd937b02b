package dto

import "github.com/noah-isme/classroom-dashboard/internal/models"

// NotAvailable marks an average that cannot be computed.
const NotAvailable = "N/A"

// Assignment status values.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusGraded    = "graded"
	StatusOverdue   = "overdue"
)

// Filter values accepted by the student assignment list.
const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterSubmitted = "submitted"
	FilterGraded    = "graded"
	FilterOverdue   = "overdue"
)

// Score is the graded total for one student.
type Score struct {
	Earned      float64 `json:"earned"`
	Possible    float64 `json:"possible"`
	GradedCount int     `json:"gradedCount"`
}

// GradebookColumn describes one assignment column.
type GradebookColumn struct {
	AssignmentID string `json:"assignmentId"`
	Title        string `json:"title"`
	Points       int    `json:"points"`
}

// GradebookCell is one student's result on one assignment.
type GradebookCell struct {
	AssignmentID string   `json:"assignmentId"`
	Grade        *float64 `json:"grade,omitempty"`
	Points       int      `json:"points"`
	Text         string   `json:"text"`
}

// GradebookRow is one student's line in the gradebook.
type GradebookRow struct {
	StudentID string          `json:"studentId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Cells     []GradebookCell `json:"cells"`
	Average   string          `json:"average"`
}

// Gradebook is the professor grades tab.
type Gradebook struct {
	ClassID   string            `json:"classId"`
	ClassName string            `json:"className"`
	Columns   []GradebookColumn `json:"columns"`
	Rows      []GradebookRow    `json:"rows"`
}

// StudentAssignmentItem is one row of the student assignment list.
type StudentAssignmentItem struct {
	ClassID    string             `json:"classId"`
	ClassName  string             `json:"className"`
	Assignment models.Assignment  `json:"assignment"`
	Status     string             `json:"status"`
	Submission *models.Submission `json:"submission,omitempty"`
}

// StudentGradeRow is one assignment in a student's class grade view.
type StudentGradeRow struct {
	AssignmentID string           `json:"assignmentId"`
	Title        string           `json:"title"`
	DueDate      models.Timestamp `json:"dueDate"`
	Points       int              `json:"points"`
	Status       string           `json:"status"`
	Grade        *float64         `json:"grade,omitempty"`
	Feedback     string           `json:"feedback,omitempty"`
	Text         string           `json:"text"`
}

// StudentClassGrades is the student grades tab of one class.
type StudentClassGrades struct {
	ClassID   string            `json:"classId"`
	ClassName string            `json:"className"`
	Rows      []StudentGradeRow `json:"rows"`
	HasGraded bool              `json:"hasGraded"`
	Average   string            `json:"average"`
}

// ClassAverage is one class in the student grade overview.
type ClassAverage struct {
	ClassID          string `json:"classId"`
	ClassName        string `json:"className"`
	Average          string `json:"average"`
	GradedCount      int    `json:"gradedCount"`
	TotalAssignments int    `json:"totalAssignments"`
}

// GradeOverview is the student's cross-class grades page.
type GradeOverview struct {
	Classes        []ClassAverage `json:"classes"`
	OverallAverage string         `json:"overallAverage"`
	GradedCount    int            `json:"gradedCount"`
	PendingCount   int            `json:"pendingCount"`
}

// SubmissionListItem is one entry of the professor's submission list.
type SubmissionListItem struct {
	StudentID   string                  `json:"studentId"`
	StudentName string                  `json:"studentName"`
	Content     string                  `json:"content"`
	Date        models.Timestamp        `json:"date"`
	Files       []models.FileAttachment `json:"files"`
	Grade       *float64                `json:"grade,omitempty"`
	GradeText   string                  `json:"gradeText"`
	Feedback    string                  `json:"feedback,omitempty"`
	GradedDate  *models.Timestamp       `json:"gradedDate,omitempty"`
}

// SubmissionList is the "view submissions" modal.
type SubmissionList struct {
	ClassID      string               `json:"classId"`
	AssignmentID string               `json:"assignmentId"`
	Title        string               `json:"title"`
	Points       int                  `json:"points"`
	Submissions  []SubmissionListItem `json:"submissions"`
}
