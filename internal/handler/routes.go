package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Teachers     *TeacherHandler
	Courses      *CourseHandler
	Requests     *RequestHandler
	Appointments *AppointmentHandler
	Reviews      *ReviewHandler
	Parents      *ParentHandler
	Admin        *AdminHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the API under prefix and the probes at the root.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	if h.Auth != nil {
		auth := api.Group("/auth")
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register/teacher", h.Auth.RegisterTeacher)
		auth.POST("/register/parent", h.Auth.RegisterParent)
		auth.GET("/me", h.Auth.Me)
	}

	teachers := api.Group("/teachers")
	if h.Teachers != nil {
		teachers.GET("", h.Teachers.Search)
		teachers.GET("/admin/pending", h.Teachers.Pending)
		teachers.GET("/admin/all", h.Teachers.ListAll)
		teachers.GET("/admin/stats", h.Teachers.Stats)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.PUT("/:id", h.Teachers.Update)
		teachers.PUT("/:id/status", h.Teachers.SetStatus)
	}
	if h.Courses != nil {
		teachers.POST("/:id/courses", h.Courses.Create)

		courses := api.Group("/courses")
		courses.GET("/by-teacher/:teacherId", h.Courses.ListByTeacher)
		courses.GET("/:id", h.Courses.Get)
		courses.PUT("/:id", h.Courses.Update)
		courses.DELETE("/:id", h.Courses.Delete)
	}
	if h.Reviews != nil {
		teachers.POST("/:id/reviews", h.Reviews.Create)
		teachers.GET("/:id/reviews", h.Reviews.List)
	}

	if h.Requests != nil {
		requests := api.Group("/requests")
		requests.POST("", h.Requests.Create)
		requests.GET("", h.Requests.List)
		requests.GET("/pending", h.Requests.Pending)
		requests.GET("/parent/:id", h.Requests.ByParent)
		requests.GET("/teacher/:id", h.Requests.ByTeacher)
		requests.GET("/:id", h.Requests.Get)
		requests.PUT("/:id/status", h.Requests.SetStatus)
	}

	if h.Appointments != nil {
		appointments := api.Group("/appointments")
		appointments.POST("", h.Appointments.Create)
		appointments.GET("", h.Appointments.List)
		appointments.GET("/parent/:id", h.Appointments.ByParent)
		appointments.GET("/teacher/:id", h.Appointments.ByTeacher)
		appointments.GET("/:id", h.Appointments.Get)
		appointments.PUT("/:id/status", h.Appointments.SetStatus)
	}

	if h.Parents != nil {
		api.GET("/parents", h.Parents.List)
	}

	if h.Admin != nil {
		admin := api.Group("/admin")
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/stats/export", h.Admin.Export)
		admin.GET("/audit/:entity/:id", h.Admin.Audit)
		if h.Admin.archive != nil {
			admin.POST("/stats/exports", h.Admin.Archive)
			admin.GET("/stats/exports/:token", h.Admin.Download)
		}
	}
}
