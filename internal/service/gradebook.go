package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

const (
	unknownStudent  = "Unknown Student"
	ungradedCell    = "-"
	deadlinesLimit  = 5
	activityLimit   = 10
	upcomingHorizon = 7
)

// ScoreFor sums the points a student earned over the assignments where they
// have a graded submission.
func ScoreFor(assignments []models.Assignment, studentID string) dto.Score {
	var score dto.Score
	for _, a := range assignments {
		idx := a.SubmissionFor(studentID)
		if idx < 0 || !a.Submissions[idx].Graded() {
			continue
		}
		score.Earned += *a.Submissions[idx].Grade
		score.Possible += float64(a.Points)
		score.GradedCount++
	}
	return score
}

// AverageOf renders a score as a percentage with two decimals, or N/A when
// nothing is gradable. Every average shown anywhere goes through here.
func AverageOf(score dto.Score) string {
	if score.Possible <= 0 {
		return dto.NotAvailable
	}
	pct := math.Round(score.Earned/score.Possible*100*100) / 100
	return strconv.FormatFloat(pct, 'f', 2, 64)
}

// BuildGradebook renders the professor grade table and refreshes each
// student's derived fields in place.
func BuildGradebook(class *models.ClassRoom) dto.Gradebook {
	book := dto.Gradebook{
		ClassID:   class.ID,
		ClassName: class.Name,
		Columns:   make([]dto.GradebookColumn, 0, len(class.Assignments)),
		Rows:      make([]dto.GradebookRow, 0, len(class.Students)),
	}
	for _, a := range class.Assignments {
		book.Columns = append(book.Columns, dto.GradebookColumn{AssignmentID: a.ID, Title: a.Title, Points: int(a.Points)})
	}

	for i := range class.Students {
		student := &class.Students[i]
		row := dto.GradebookRow{
			StudentID: student.ID,
			Name:      student.Name,
			Email:     student.Email,
			Cells:     make([]dto.GradebookCell, 0, len(class.Assignments)),
		}
		for _, a := range class.Assignments {
			cell := dto.GradebookCell{AssignmentID: a.ID, Points: int(a.Points), Text: ungradedCell}
			if idx := a.SubmissionFor(student.ID); idx >= 0 && a.Submissions[idx].Graded() {
				g := *a.Submissions[idx].Grade
				cell.Grade = &g
				cell.Text = formatGrade(g) + "/" + strconv.Itoa(int(a.Points))
			}
			row.Cells = append(row.Cells, cell)
		}
		row.Average = AverageOf(ScoreFor(class.Assignments, student.ID))

		student.AssignmentCount = len(class.Assignments)
		student.AverageGrade = row.Average
		book.Rows = append(book.Rows, row)
	}
	return book
}

// ClassifyAssignment reports where a student stands on one assignment. A
// submitted assignment is never overdue.
func ClassifyAssignment(a models.Assignment, studentID string, now time.Time) string {
	if idx := a.SubmissionFor(studentID); idx >= 0 {
		if a.Submissions[idx].Graded() {
			return dto.StatusGraded
		}
		return dto.StatusSubmitted
	}
	if !a.DueDate.IsZero() && a.DueDate.Before(now) {
		return dto.StatusOverdue
	}
	return dto.StatusPending
}

// ValidFilter reports whether filter names a known assignment filter.
func ValidFilter(filter string) bool {
	switch filter {
	case dto.FilterAll, dto.FilterPending, dto.FilterSubmitted, dto.FilterGraded, dto.FilterOverdue:
		return true
	}
	return false
}

// FilterAssignments flattens every enrolled class's assignments for one
// student, keeps those matching filter and orders them soonest-due first.
func FilterAssignments(classes []models.ClassRoom, studentID, filter string, now time.Time) ([]dto.StudentAssignmentItem, error) {
	if filter == "" {
		filter = dto.FilterAll
	}
	if !ValidFilter(filter) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown assignment filter "+strconv.Quote(filter))
	}

	items := make([]dto.StudentAssignmentItem, 0)
	for _, class := range classes {
		for _, a := range class.Assignments {
			status := ClassifyAssignment(a, studentID, now)
			if filter != dto.FilterAll && filter != status {
				continue
			}
			item := dto.StudentAssignmentItem{
				ClassID:    class.ID,
				ClassName:  class.Name,
				Assignment: a.Clone(),
				Status:     status,
			}
			if idx := a.SubmissionFor(studentID); idx >= 0 {
				sub := a.Submissions[idx].Clone()
				item.Submission = &sub
			}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Assignment.DueDate.Before(items[j].Assignment.DueDate.Time)
	})
	return items, nil
}

// StudentClassGrades renders one class's grade tab for a student.
func StudentClassGrades(class models.ClassRoom, studentID string, now time.Time) dto.StudentClassGrades {
	view := dto.StudentClassGrades{
		ClassID:   class.ID,
		ClassName: class.Name,
		Rows:      make([]dto.StudentGradeRow, 0, len(class.Assignments)),
	}
	for _, a := range SortAssignments(class.Assignments) {
		row := dto.StudentGradeRow{
			AssignmentID: a.ID,
			Title:        a.Title,
			DueDate:      a.DueDate,
			Points:       int(a.Points),
			Status:       ClassifyAssignment(a, studentID, now),
			Text:         ungradedCell,
		}
		if idx := a.SubmissionFor(studentID); idx >= 0 {
			sub := a.Submissions[idx]
			row.Feedback = sub.Feedback
			if sub.Graded() {
				g := *sub.Grade
				row.Grade = &g
				row.Text = formatGrade(g) + "/" + strconv.Itoa(int(a.Points))
			}
		}
		view.Rows = append(view.Rows, row)
	}

	score := ScoreFor(class.Assignments, studentID)
	view.HasGraded = score.GradedCount > 0
	view.Average = AverageOf(score)
	return view
}

// StudentGradeOverview summarises grades across classes. Only classes with at
// least one graded assignment are listed; classFilter narrows the list but
// not the overall figures.
func StudentGradeOverview(classes []models.ClassRoom, studentID, classFilter string, now time.Time) dto.GradeOverview {
	overview := dto.GradeOverview{Classes: make([]dto.ClassAverage, 0)}
	var total dto.Score

	for _, class := range classes {
		score := ScoreFor(class.Assignments, studentID)
		total.Earned += score.Earned
		total.Possible += score.Possible
		total.GradedCount += score.GradedCount

		for _, a := range class.Assignments {
			if a.SubmissionFor(studentID) < 0 && a.DueDate.After(now) {
				overview.PendingCount++
			}
		}

		if score.GradedCount == 0 {
			continue
		}
		if classFilter != "" && classFilter != dto.FilterAll && classFilter != class.ID {
			continue
		}
		overview.Classes = append(overview.Classes, dto.ClassAverage{
			ClassID:          class.ID,
			ClassName:        class.Name,
			Average:          AverageOf(score),
			GradedCount:      score.GradedCount,
			TotalAssignments: len(class.Assignments),
		})
	}

	overview.GradedCount = total.GradedCount
	overview.OverallAverage = AverageOf(total)
	return overview
}

// SortMaterials returns materials newest first.
func SortMaterials(materials []models.Material) []models.Material {
	out := make([]models.Material, len(materials))
	for i, m := range materials {
		out[i] = m.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// SortAssignments returns assignments soonest due first.
func SortAssignments(assignments []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, len(assignments))
	for i, a := range assignments {
		out[i] = a.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate.Time)
	})
	return out
}

// ListSubmissions renders the professor's view of one assignment's submissions.
func ListSubmissions(class models.ClassRoom, assignmentID string) (dto.SubmissionList, error) {
	idx := class.FindAssignment(assignmentID)
	if idx < 0 {
		return dto.SubmissionList{}, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	a := class.Assignments[idx]

	list := dto.SubmissionList{
		ClassID:      class.ID,
		AssignmentID: a.ID,
		Title:        a.Title,
		Points:       int(a.Points),
		Submissions:  make([]dto.SubmissionListItem, 0, len(a.Submissions)),
	}
	for _, sub := range a.Submissions {
		name := class.StudentName(sub.StudentID)
		if name == "" {
			name = sub.StudentName
		}
		if name == "" {
			name = unknownStudent
		}
		item := dto.SubmissionListItem{
			StudentID:   sub.StudentID,
			StudentName: name,
			Content:     sub.Content,
			Date:        sub.Date,
			Files:       append([]models.FileAttachment{}, sub.Files...),
			GradeText:   "Not graded",
			Feedback:    sub.Feedback,
		}
		if sub.Graded() {
			g := *sub.Grade
			item.Grade = &g
			item.GradeText = formatGrade(g) + "/" + strconv.Itoa(int(a.Points))
		}
		if sub.GradedDate != nil {
			d := *sub.GradedDate
			item.GradedDate = &d
		}
		list.Submissions = append(list.Submissions, item)
	}
	return list, nil
}

func formatGrade(g float64) string {
	return strings.TrimSuffix(strings.TrimRight(strconv.FormatFloat(g, 'f', 2, 64), "0"), ".")
}

// endOfDay returns 23:59:59.999 on t's calendar day in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Millisecond*999), t.Location())
}

// startOfDay returns midnight on t's calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
