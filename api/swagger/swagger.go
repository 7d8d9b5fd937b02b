package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Classroom Dashboard API",
        "description": "Backend-for-frontend serving one professor or student session against the classroom REST API.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "tags": [
        {"name": "Session", "description": "Navigation and modal state"},
        {"name": "Classes", "description": "Class snapshot, stream and roster"},
        {"name": "Coursework", "description": "Materials, assignments, submissions and grading"},
        {"name": "Enrollment", "description": "Student enrollments and cross-class views"},
        {"name": "Calendar", "description": "Month grid, day details and notes"},
        {"name": "Dashboard", "description": "Stats, deadlines and recent activity"},
        {"name": "Exports", "description": "Roster and gradebook CSV/PDF exports"},
        {"name": "Profile", "description": "Profile and password"},
        {"name": "Ops", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {"get": {"tags": ["Ops"], "summary": "Liveness with a metrics snapshot", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"tags": ["Ops"], "summary": "Pings upstream and redis", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}},
        "/metrics": {"get": {"tags": ["Ops"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}},

        "/api/v1/session": {"get": {"tags": ["Session"], "summary": "Current view state", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/session/section": {"post": {"tags": ["Session"], "summary": "Show a top-level section", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SectionRequest"}}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/session/back": {"post": {"tags": ["Session"], "summary": "Leave the class detail view", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/session/tab": {"post": {"tags": ["Session"], "summary": "Select a class detail tab", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TabRequest"}}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/session/sidebar": {"post": {"tags": ["Session"], "summary": "Toggle the sidebar", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/session/modals/{modal}/open": {"post": {"tags": ["Session"], "summary": "Open a modal and reset its form", "parameters": [{"$ref": "#/parameters/modal"}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/session/modals/{modal}/form": {"patch": {"tags": ["Session"], "summary": "Update form fields of an open modal", "parameters": [{"$ref": "#/parameters/modal"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/FormRequest"}}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/session/modals/{modal}/close": {"post": {"tags": ["Session"], "summary": "Close a modal", "parameters": [{"$ref": "#/parameters/modal"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},

        "/api/v1/classes": {
            "get": {"tags": ["Classes"], "summary": "List classes in the snapshot", "responses": {"200": {"$ref": "#/responses/Envelope"}}},
            "post": {"tags": ["Classes"], "summary": "Create a class (professor)", "consumes": ["application/json"], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}, "502": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/classes/reload": {"post": {"tags": ["Classes"], "summary": "Reload classes from upstream", "responses": {"200": {"$ref": "#/responses/Envelope"}, "502": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}": {
            "get": {"tags": ["Classes"], "summary": "Class detail", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["Classes"], "summary": "Delete a class (professor)", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"204": {"description": "Deleted"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/classes/{classId}/open": {"post": {"tags": ["Classes"], "summary": "Open the class detail view", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/classes/{classId}/posts": {"get": {"tags": ["Classes"], "summary": "Stream of materials, newest first", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/classes/{classId}/students": {"get": {"tags": ["Classes"], "summary": "Roster (professor)", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/classes/{classId}/assignments": {
            "get": {"tags": ["Classes"], "summary": "Assignments with submission status", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}},
            "post": {"tags": ["Coursework"], "summary": "Create an assignment (professor)", "consumes": ["multipart/form-data", "application/json"], "parameters": [{"$ref": "#/parameters/classId"}, {"in": "formData", "name": "title", "type": "string", "required": true}, {"in": "formData", "name": "description", "type": "string", "required": true}, {"in": "formData", "name": "dueDate", "type": "string", "required": true}, {"in": "formData", "name": "points", "type": "string", "description": "Number or numeric text; defaults to 100"}, {"in": "formData", "name": "instructions", "type": "string"}, {"in": "formData", "name": "files", "type": "file"}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/classes/{classId}/grades": {"get": {"tags": ["Classes"], "summary": "Gradebook with per-student averages", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/classes/{classId}/materials": {"post": {"tags": ["Coursework"], "summary": "Post a material (professor)", "consumes": ["multipart/form-data", "application/json"], "parameters": [{"$ref": "#/parameters/classId"}, {"in": "formData", "name": "title", "type": "string", "required": true}, {"in": "formData", "name": "description", "type": "string"}, {"in": "formData", "name": "deadline", "type": "string"}, {"in": "formData", "name": "resourceLink", "type": "string"}, {"in": "formData", "name": "files", "type": "file"}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}/materials/{materialId}/files/{index}": {"get": {"tags": ["Coursework"], "summary": "Download a material attachment", "produces": ["application/octet-stream"], "parameters": [{"$ref": "#/parameters/classId"}, {"in": "path", "name": "materialId", "type": "string", "required": true}, {"$ref": "#/parameters/index"}], "responses": {"200": {"description": "File body"}, "404": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}/assignments/{assignmentId}/files/{index}": {"get": {"tags": ["Coursework"], "summary": "Download an assignment attachment", "produces": ["application/octet-stream"], "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/assignmentId"}, {"$ref": "#/parameters/index"}], "responses": {"200": {"description": "File body"}, "404": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}/assignments/{assignmentId}/submissions": {
            "get": {"tags": ["Coursework"], "summary": "Submissions for an assignment (professor)", "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/assignmentId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}},
            "post": {"tags": ["Coursework"], "summary": "Submit or resubmit work (student)", "consumes": ["multipart/form-data", "application/json"], "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/assignmentId"}, {"in": "formData", "name": "content", "type": "string", "required": true}, {"in": "formData", "name": "files", "type": "file"}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/api/v1/classes/{classId}/assignments/{assignmentId}/submissions/{studentId}": {"put": {"tags": ["Coursework"], "summary": "Grade a submission (professor)", "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/assignmentId"}, {"in": "path", "name": "studentId", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}/assignments/{assignmentId}/submissions/{studentId}/files/{index}": {"get": {"tags": ["Coursework"], "summary": "Download a submission attachment", "produces": ["application/octet-stream"], "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/assignmentId"}, {"in": "path", "name": "studentId", "type": "string", "required": true}, {"$ref": "#/parameters/index"}], "responses": {"200": {"description": "File body"}, "404": {"$ref": "#/responses/Error"}}}},

        "/api/v1/classes/{classId}/export/roster": {"get": {"tags": ["Exports"], "summary": "Roster export (professor)", "produces": ["text/csv", "application/pdf"], "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/format"}], "responses": {"200": {"description": "File body"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/classes/{classId}/export/grades": {"get": {"tags": ["Exports"], "summary": "Gradebook export (professor)", "produces": ["text/csv", "application/pdf"], "parameters": [{"$ref": "#/parameters/classId"}, {"$ref": "#/parameters/format"}], "responses": {"200": {"description": "File body"}}}},
        "/api/v1/classes/{classId}/exports": {"post": {"tags": ["Exports"], "summary": "Store an export and return a signed download URL", "parameters": [{"$ref": "#/parameters/classId"}, {"in": "query", "name": "kind", "type": "string", "enum": ["roster", "grades"]}, {"$ref": "#/parameters/format"}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "503": {"$ref": "#/responses/Error"}}}},
        "/api/v1/exports/{token}": {"get": {"tags": ["Exports"], "summary": "Download a stored export", "parameters": [{"in": "path", "name": "token", "type": "string", "required": true}], "responses": {"200": {"description": "File body"}, "404": {"$ref": "#/responses/Error"}, "410": {"$ref": "#/responses/Error"}}}},

        "/api/v1/enrollments": {"post": {"tags": ["Enrollment"], "summary": "Join a class by code (student)", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/JoinClassRequest"}}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/enrollments/{classId}": {"delete": {"tags": ["Enrollment"], "summary": "Unenroll from a class (student)", "parameters": [{"$ref": "#/parameters/classId"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/assignments": {"get": {"tags": ["Enrollment"], "summary": "Assignments across classes (student)", "parameters": [{"in": "query", "name": "filter", "type": "string", "enum": ["all", "pending", "submitted", "graded", "overdue"]}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/grades": {"get": {"tags": ["Enrollment"], "summary": "Own grades across classes (student)", "parameters": [{"in": "query", "name": "classId", "type": "string"}], "responses": {"200": {"$ref": "#/responses/Envelope"}}}},

        "/api/v1/calendar": {"get": {"tags": ["Calendar"], "summary": "Current month grid", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/calendar/prev": {"post": {"tags": ["Calendar"], "summary": "Previous month", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/calendar/next": {"post": {"tags": ["Calendar"], "summary": "Next month", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/calendar/days/{dateKey}": {"get": {"tags": ["Calendar"], "summary": "Deadlines and notes for a day", "parameters": [{"in": "path", "name": "dateKey", "type": "string", "required": true, "description": "YYYY-M-D"}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},
        "/api/v1/calendar/notes": {"post": {"tags": ["Calendar"], "summary": "Add a session-local note (professor)", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarNoteRequest"}}], "responses": {"201": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}}}},

        "/api/v1/dashboard": {"get": {"tags": ["Dashboard"], "summary": "Stats, upcoming deadlines and recent activity", "responses": {"200": {"$ref": "#/responses/Envelope"}}}},
        "/api/v1/profile": {"get": {"tags": ["Profile"], "summary": "Upstream profile", "responses": {"200": {"$ref": "#/responses/Envelope"}, "502": {"$ref": "#/responses/Error"}}}},
        "/api/v1/profile/password": {"post": {"tags": ["Profile"], "summary": "Change password", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PasswordUpdateRequest"}}], "responses": {"200": {"$ref": "#/responses/Envelope"}, "400": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}}}
    },
    "parameters": {
        "classId": {"in": "path", "name": "classId", "type": "string", "required": true},
        "assignmentId": {"in": "path", "name": "assignmentId", "type": "string", "required": true},
        "index": {"in": "path", "name": "index", "type": "integer", "required": true},
        "modal": {"in": "path", "name": "modal", "type": "string", "required": true},
        "format": {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
    },
    "responses": {
        "Envelope": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "Error": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
    },
    "definitions": {
        "SectionRequest": {"type": "object", "properties": {"section": {"type": "string"}}},
        "FormRequest": {"type": "object", "properties": {"fields": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "TabRequest": {"type": "object", "properties": {"tab": {"type": "string"}}},
        "CreateClassRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "code": {"type": "string"}}},
        "GradeRequest": {"type": "object", "properties": {"grade": {"type": "string", "description": "Number or numeric text"}, "feedback": {"type": "string"}}},
        "JoinClassRequest": {"type": "object", "properties": {"code": {"type": "string"}}},
        "CalendarNoteRequest": {"type": "object", "properties": {"date": {"type": "string"}, "text": {"type": "string"}}},
        "PasswordUpdateRequest": {"type": "object", "properties": {"currentPassword": {"type": "string"}, "newPassword": {"type": "string"}, "confirmPassword": {"type": "string"}}},
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
