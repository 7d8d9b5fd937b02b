package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/middleware"
	"github.com/noah-isme/classroom-dashboard/internal/models"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Session    *SessionHandler
	Class      *ClassHandler
	Coursework *CourseworkHandler
	Enrollment *EnrollmentHandler
	Calendar   *CalendarHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
	Profile    *ProfileHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the ops endpoints at the root and the dashboard API
// under prefix. Routes for one role answer 403 to the other.
func RegisterRoutes(r *gin.Engine, prefix string, role models.Role, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.SessionRole(role), middleware.WithResponseMeta())

	professor := middleware.RequireRoles(models.RoleProfessor)
	student := middleware.RequireRoles(models.RoleStudent)

	session := api.Group("/session")
	session.GET("", h.Session.State)
	session.POST("/section", h.Session.ShowSection)
	session.POST("/back", h.Session.Back)
	session.POST("/tab", h.Session.SelectTab)
	session.POST("/sidebar", h.Session.ToggleSidebar)
	session.POST("/modals/:modal/open", h.Session.OpenModal)
	session.PATCH("/modals/:modal/form", h.Session.UpdateForm)
	session.POST("/modals/:modal/close", h.Session.CloseModal)

	classes := api.Group("/classes")
	classes.GET("", h.Class.List)
	classes.POST("/reload", h.Class.Reload)
	classes.POST("", professor, h.Class.Create)
	classes.GET("/:classId", h.Class.Get)
	classes.DELETE("/:classId", professor, h.Class.Delete)
	classes.POST("/:classId/open", h.Class.Open)
	classes.GET("/:classId/posts", h.Class.Posts)
	classes.GET("/:classId/students", professor, h.Class.Students)
	classes.GET("/:classId/assignments", h.Class.Assignments)
	classes.GET("/:classId/grades", h.Class.Grades)

	classes.POST("/:classId/materials", professor, h.Coursework.PostMaterial)
	classes.GET("/:classId/materials/:materialId/files/:index", h.Coursework.MaterialFile)
	classes.POST("/:classId/assignments", professor, h.Coursework.CreateAssignment)
	classes.GET("/:classId/assignments/:assignmentId/files/:index", h.Coursework.AssignmentFile)
	classes.GET("/:classId/assignments/:assignmentId/submissions", professor, h.Coursework.Submissions)
	classes.POST("/:classId/assignments/:assignmentId/submissions", student, h.Coursework.Submit)
	classes.PUT("/:classId/assignments/:assignmentId/submissions/:studentId", professor, h.Coursework.Grade)
	classes.GET("/:classId/assignments/:assignmentId/submissions/:studentId/files/:index", h.Coursework.SubmissionFile)

	classes.GET("/:classId/export/roster", professor, h.Export.Roster)
	classes.GET("/:classId/export/grades", professor, h.Export.Grades)
	classes.POST("/:classId/exports", professor, h.Export.Publish)
	api.GET("/exports/:token", h.Export.Download)

	api.POST("/enrollments", student, h.Enrollment.Join)
	api.DELETE("/enrollments/:classId", student, h.Enrollment.Unenroll)
	api.GET("/assignments", student, h.Enrollment.Assignments)
	api.GET("/grades", student, h.Enrollment.Grades)

	calendar := api.Group("/calendar")
	calendar.GET("", h.Calendar.Month)
	calendar.POST("/prev", h.Calendar.Prev)
	calendar.POST("/next", h.Calendar.Next)
	calendar.GET("/days/:dateKey", h.Calendar.Day)
	calendar.POST("/notes", professor, h.Calendar.AddNote)

	api.GET("/dashboard", h.Dashboard.Dashboard)

	api.GET("/profile", h.Profile.Profile)
	api.POST("/profile/password", h.Profile.UpdatePassword)
}
