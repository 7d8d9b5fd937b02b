package dto

// CreateClassRequest is the create-class form.
type CreateClassRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Code        string `json:"code" form:"code"`
}

// MaterialRequest is the post-material form. Files arrive separately.
type MaterialRequest struct {
	Title        string `json:"title" form:"title" validate:"required"`
	Description  string `json:"description" form:"description"`
	Deadline     string `json:"deadline" form:"deadline"`
	ResourceLink string `json:"resourceLink" form:"resourceLink" validate:"omitempty,url"`
}

// AssignmentRequest is the create-assignment form. Points is kept as text so
// unparsable values can fall back to the default; JSON numbers are accepted.
type AssignmentRequest struct {
	Title        string     `json:"title" form:"title" validate:"required"`
	Description  string     `json:"description" form:"description" validate:"required"`
	DueDate      string     `json:"dueDate" form:"dueDate" validate:"required"`
	Points       NumberText `json:"points" form:"points"`
	Instructions string     `json:"instructions" form:"instructions"`
}

// SubmissionRequest is a student's work on an assignment.
type SubmissionRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// GradeRequest grades one submission. Grade may be a number or text so
// non-numeric input is reported as a validation error instead of a bind error.
type GradeRequest struct {
	Grade    NumberText `json:"grade" validate:"required"`
	Feedback string     `json:"feedback"`
}

// JoinClassRequest carries a class code.
type JoinClassRequest struct {
	Code string `json:"code" validate:"required"`
}

// PasswordUpdateRequest is the change-password form.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// SectionRequest switches the visible top-level section.
type SectionRequest struct {
	Section string `json:"section" binding:"required"`
}

// TabRequest switches the active class tab.
type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// NoteRequest adds a professor calendar note. Date is a calendar key or a date.
type NoteRequest struct {
	Date string `json:"date" binding:"required"`
	Text string `json:"text"`
}

// FormFieldsRequest stores in-progress modal form values.
type FormFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}
