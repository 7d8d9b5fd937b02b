package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultAssignmentPoints applies when an assignment carries no usable points value.
const DefaultAssignmentPoints = 100

// ClassRoom is the session's copy of one class.
type ClassRoom struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	ProfessorName  string       `json:"professorName,omitempty"`
	EnrollmentDate *Timestamp   `json:"enrollmentDate,omitempty"`
	Students       []Student    `json:"students"`
	Materials      []Material   `json:"materials"`
	Assignments    []Assignment `json:"assignments"`
}

// UnmarshalJSON also accepts the upstream snake_case professor and enrollment fields.
func (c *ClassRoom) UnmarshalJSON(data []byte) error {
	type alias ClassRoom
	aux := struct {
		*alias
		ProfessorNameSnake  string     `json:"professor_name"`
		EnrollmentDateSnake *Timestamp `json:"enrollment_date"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ProfessorName == "" {
		c.ProfessorName = aux.ProfessorNameSnake
	}
	if c.EnrollmentDate == nil {
		c.EnrollmentDate = aux.EnrollmentDateSnake
	}
	return nil
}

// Normalize replaces missing collections with empty ones and defaults points.
func (c *ClassRoom) Normalize() {
	if c.Students == nil {
		c.Students = []Student{}
	}
	if c.Materials == nil {
		c.Materials = []Material{}
	}
	if c.Assignments == nil {
		c.Assignments = []Assignment{}
	}
	for i := range c.Materials {
		if c.Materials[i].Files == nil {
			c.Materials[i].Files = []FileAttachment{}
		}
	}
	for i := range c.Assignments {
		c.Assignments[i].Normalize()
	}
}

// Clone returns a deep copy safe to hand out of the snapshot lock.
func (c ClassRoom) Clone() ClassRoom {
	out := c
	if c.EnrollmentDate != nil {
		d := *c.EnrollmentDate
		out.EnrollmentDate = &d
	}
	out.Students = append([]Student{}, c.Students...)
	out.Materials = make([]Material, len(c.Materials))
	for i, m := range c.Materials {
		out.Materials[i] = m.Clone()
	}
	out.Assignments = make([]Assignment, len(c.Assignments))
	for i, a := range c.Assignments {
		out.Assignments[i] = a.Clone()
	}
	return out
}

// FindAssignment returns the index of the assignment with id, or -1.
func (c *ClassRoom) FindAssignment(id string) int {
	for i := range c.Assignments {
		if c.Assignments[i].ID == id {
			return i
		}
	}
	return -1
}

// FindMaterial returns the index of the material with id, or -1.
func (c *ClassRoom) FindMaterial(id string) int {
	for i := range c.Materials {
		if c.Materials[i].ID == id {
			return i
		}
	}
	return -1
}

// StudentName resolves a roster name, empty when the student is unknown.
func (c *ClassRoom) StudentName(studentID string) string {
	for _, s := range c.Students {
		if s.ID == studentID {
			return s.Name
		}
	}
	return ""
}

// Student is a roster entry. AssignmentCount and AverageGrade are derived on
// every gradebook render.
type Student struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AssignmentCount int    `json:"assignmentCount"`
	AverageGrade    string `json:"averageGrade,omitempty"`
}

// Material is a posted class resource.
type Material struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Date         Timestamp        `json:"date"`
	Deadline     *Timestamp       `json:"deadline"`
	ResourceLink *string          `json:"resourceLink"`
	Files        []FileAttachment `json:"files"`
}

// Clone deep-copies the material.
func (m Material) Clone() Material {
	out := m
	if m.Deadline != nil {
		d := *m.Deadline
		out.Deadline = &d
	}
	if m.ResourceLink != nil {
		l := *m.ResourceLink
		out.ResourceLink = &l
	}
	out.Files = append([]FileAttachment{}, m.Files...)
	return out
}

// Assignment is a piece of graded coursework.
type Assignment struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	DueDate      Timestamp        `json:"dueDate"`
	Points       Points           `json:"points"`
	Instructions string           `json:"instructions"`
	DateCreated  *Timestamp       `json:"dateCreated,omitempty"`
	Files        []FileAttachment `json:"files"`
	Submissions  []Submission     `json:"submissions"`
}

// Normalize fills missing collections and the default points value.
func (a *Assignment) Normalize() {
	if a.Files == nil {
		a.Files = []FileAttachment{}
	}
	if a.Submissions == nil {
		a.Submissions = []Submission{}
	}
	for i := range a.Submissions {
		if a.Submissions[i].Files == nil {
			a.Submissions[i].Files = []FileAttachment{}
		}
	}
	if a.Points <= 0 {
		a.Points = DefaultAssignmentPoints
	}
}

// Clone deep-copies the assignment.
func (a Assignment) Clone() Assignment {
	out := a
	if a.DateCreated != nil {
		d := *a.DateCreated
		out.DateCreated = &d
	}
	out.Files = append([]FileAttachment{}, a.Files...)
	out.Submissions = make([]Submission, len(a.Submissions))
	for i, s := range a.Submissions {
		out.Submissions[i] = s.Clone()
	}
	return out
}

// SubmissionFor returns the index of studentID's submission, or -1.
func (a *Assignment) SubmissionFor(studentID string) int {
	for i := range a.Submissions {
		if a.Submissions[i].StudentID == studentID {
			return i
		}
	}
	return -1
}

// Upsert stores sub, replacing any earlier submission from the same student.
func (a *Assignment) Upsert(sub Submission) {
	if idx := a.SubmissionFor(sub.StudentID); idx >= 0 {
		a.Submissions[idx] = sub
		return
	}
	a.Submissions = append(a.Submissions, sub)
}

// Submission is one student's work on an assignment. Grade is nil until graded.
type Submission struct {
	StudentID   string           `json:"studentId"`
	StudentName string           `json:"studentName,omitempty"`
	Content     string           `json:"content"`
	Date        Timestamp        `json:"date"`
	Files       []FileAttachment `json:"files"`
	Grade       *float64         `json:"grade,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	GradedDate  *Timestamp       `json:"gradedDate,omitempty"`
}

// Graded reports whether a grade has been recorded.
func (s Submission) Graded() bool {
	return s.Grade != nil
}

// Clone deep-copies the submission.
func (s Submission) Clone() Submission {
	out := s
	if s.Grade != nil {
		g := *s.Grade
		out.Grade = &g
	}
	if s.GradedDate != nil {
		d := *s.GradedDate
		out.GradedDate = &d
	}
	out.Files = append([]FileAttachment{}, s.Files...)
	return out
}

// FileAttachment carries a file inline as a data URL.
type FileAttachment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Points is an assignment's maximum score. It decodes from numbers or numeric
// strings; anything unparsable becomes zero and is defaulted by Normalize.
type Points int

// UnmarshalJSON implements lenient integer parsing.
func (p *Points) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*p = 0
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*p = Points(n)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*p = Points(int(f))
		return nil
	}
	*p = 0
	return nil
}

// ParseLeadingInt reads the integer prefix of raw the way browser number
// parsing does: "25pts" yields 25, "abc" yields false.
func ParseLeadingInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePoints falls back to the default for unparsable or non-positive input.
func ParsePoints(raw string) int {
	n, ok := ParseLeadingInt(raw)
	if !ok || n <= 0 {
		return DefaultAssignmentPoints
	}
	return n
}
