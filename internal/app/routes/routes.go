package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/controllers"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// Controllers groups every HTTP handler set mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Directory    *controllers.DirectoryController
	Mentorship   *controllers.MentorshipController
	Webinar      *controllers.WebinarController
	Job          *controllers.JobController
	Forum        *controllers.ForumController
	Document     *controllers.DocumentController
	Event        *controllers.EventController
	Notification *controllers.NotificationController
	Admin        *controllers.AdminController
	Realtime     *controllers.RealtimeController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ActiveAccountRequired())

	alumniOrAdmin := authMiddleware.RoleRequired(models.RoleAlumni, models.RoleAdmin)
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	authenticated.GET("/auth/me", c.Auth.Me)
	authenticated.GET("/auth/redirect", c.Auth.Redirect)
	authenticated.GET("/ws", c.Realtime.Connect)

	profiles := authenticated.Group("/profiles")
	{
		profiles.GET("/:userId", c.Profile.GetProfile)
		profiles.PUT("/me/student", authMiddleware.RoleRequired(models.RoleStudent), c.Profile.UpdateStudent)
		profiles.PUT("/me/alumni", authMiddleware.RoleRequired(models.RoleAlumni), c.Profile.UpdateAlumni)
		profiles.POST("/me/avatar", c.Profile.UploadAvatar)
	}

	directory := authenticated.Group("/directory")
	{
		directory.GET("/alumni", c.Directory.ListAlumni)
		directory.GET("/students", alumniOrAdmin, c.Directory.ListStudents)
	}

	sessions := authenticated.Group("/sessions")
	{
		sessions.POST("", authMiddleware.RoleRequired(models.RoleStudent), c.Mentorship.RequestSession)
		sessions.GET("", c.Mentorship.ListSessions)
		sessions.GET("/:id", c.Mentorship.GetSession)
		sessions.POST("/:id/accept", c.Mentorship.AcceptSession)
		sessions.POST("/:id/cancel", c.Mentorship.CancelSession)
		sessions.POST("/:id/complete", c.Mentorship.CompleteSession)
		sessions.POST("/:id/feedback", c.Mentorship.SubmitFeedback)
	}

	webinars := authenticated.Group("/webinars")
	{
		webinars.GET("", c.Webinar.ListWebinars)
		webinars.GET("/:id", c.Webinar.GetWebinar)
		webinars.POST("/:id/register", c.Webinar.Register)
		webinars.DELETE("/:id/register", c.Webinar.Unregister)

		hosts := webinars.Group("", alumniOrAdmin)
		{
			hosts.POST("", c.Webinar.CreateWebinar)
			hosts.PUT("/:id", c.Webinar.UpdateWebinar)
			hosts.POST("/:id/cancel", c.Webinar.CancelWebinar)
			hosts.GET("/:id/registrants", c.Webinar.Registrants)
		}
	}

	jobs := authenticated.Group("/jobs")
	{
		jobs.GET("", c.Job.ListJobs)
		jobs.GET("/:id", c.Job.GetJob)
		jobs.POST("/:id/referrals", authMiddleware.RoleRequired(models.RoleStudent), c.Job.RequestReferral)

		posters := jobs.Group("", alumniOrAdmin)
		{
			posters.POST("", c.Job.CreateJob)
			posters.PUT("/:id", c.Job.UpdateJob)
			posters.POST("/:id/close", c.Job.CloseJob)
			posters.GET("/:id/referrals", c.Job.ListReferrals)
		}
	}

	referrals := authenticated.Group("/referrals")
	{
		referrals.GET("/mine", c.Job.MyReferrals)
		referrals.POST("/:id/review", alumniOrAdmin, c.Job.ReviewReferral)
	}

	forum := authenticated.Group("/forum")
	{
		forum.GET("/posts", c.Forum.ListPosts)
		forum.POST("/posts", c.Forum.CreatePost)
		forum.GET("/posts/:id", c.Forum.GetPost)
		forum.PUT("/posts/:id", c.Forum.UpdatePost)
		forum.DELETE("/posts/:id", c.Forum.DeletePost)
		forum.POST("/posts/:id/pin", adminOnly, c.Forum.PinPost)
		forum.POST("/posts/:id/replies", c.Forum.Reply)
		forum.POST("/posts/:id/like", c.Forum.ToggleLike)
		forum.DELETE("/replies/:id", c.Forum.DeleteReply)
	}

	documents := authenticated.Group("/documents")
	{
		documents.POST("", c.Document.UploadDocument)
		documents.GET("", c.Document.ListMyDocuments)
		documents.GET("/:id", c.Document.GetDocument)
		documents.DELETE("/:id", c.Document.DeleteDocument)
	}

	events := authenticated.Group("/events")
	{
		events.GET("", c.Event.ListEvents)
		events.GET("/:id", c.Event.GetEvent)
		events.POST("/:id/rsvp", c.Event.RSVP)
		events.DELETE("/:id/rsvp", c.Event.CancelRSVP)

		eventsAdmin := events.Group("", adminOnly)
		{
			eventsAdmin.POST("", c.Event.CreateEvent)
			eventsAdmin.PUT("/:id", c.Event.UpdateEvent)
			eventsAdmin.DELETE("/:id", c.Event.DeleteEvent)
		}
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", c.Notification.ListNotifications)
		notifications.GET("/unread-count", c.Notification.UnreadCount)
		notifications.POST("/read-all", c.Notification.MarkAllRead)
		notifications.POST("/:id/read", c.Notification.MarkRead)
	}

	admin := authenticated.Group("/admin", adminOnly)
	{
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/users/:userId/status", c.Admin.SetUserStatus)
		admin.POST("/alumni/:userId/verification/toggle", c.Admin.ToggleVerification)
		admin.GET("/stats", c.Admin.Stats)
		admin.GET("/documents", c.Document.ListAllDocuments)
		admin.POST("/documents/:id/review", c.Document.ReviewDocument)
	}
}
