package models

// ProfessorStats backs the professor dashboard cards.
type ProfessorStats struct {
	TotalClasses      int `json:"total_classes"`
	TotalStudents     int `json:"total_students"`
	PendingTasks      int `json:"pending_tasks"`
	UpcomingDeadlines int `json:"upcoming_deadlines"`
}

// StudentStats backs the student dashboard cards.
type StudentStats struct {
	EnrolledClasses      int `json:"enrolled_classes"`
	PendingAssignments   int `json:"pending_assignments"`
	UpcomingDeadlines    int `json:"upcoming_deadlines"`
	CompletedAssignments int `json:"completed_assignments"`
}
