// Package routes wires controllers onto the gin router
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/crestview/chronicle/internal/app/controllers"
	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/middleware"
	"github.com/crestview/chronicle/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	jwtService *auth.JWTService,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	noticeController *controllers.NoticeController,
	materialController *controllers.MaterialController,
	quizController *controllers.QuizController,
	discussionController *controllers.DiscussionController,
	chatController *controllers.ChatController,
	timelineController *controllers.TimelineController,
	certificateController *controllers.CertificateController,
	adminController *controllers.AdminController,
	storagePath string,
) {
	// Uploaded files are served directly off disk
	router.Static("/uploads", storagePath)

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/student/register", authController.RegisterStudent)
		authRoutes.POST("/student/login", authController.StudentLogin)
		authRoutes.POST("/staff/login", authController.StaffLogin)
		authRoutes.POST("/refresh", authController.RefreshToken)
		authRoutes.POST("/logout", authController.Logout)
		authRoutes.POST("/forgot-password", authController.ForgotPassword)
		authRoutes.POST("/reset-password", authController.ResetPassword)
	}

	// Published notices are readable without a token
	v1.GET("/notices", noticeController.ListVisible)
	v1.GET("/notices/latest", noticeController.ListLatest)
	v1.GET("/notices/:id", noticeController.GetVisible)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(middleware.JWTAuth(jwtService))
	{
		profile := authenticated.Group("/profile")
		{
			profile.GET("", authController.GetProfile)
			profile.PUT("", authController.UpdateProfile)
			profile.PUT("/avatar", authController.UpdateAvatar)
		}

		authenticated.GET("/courses", catalogController.ListCourses)
		authenticated.GET("/courses/:id", catalogController.GetCourse)
		authenticated.GET("/subjects", catalogController.ListSubjects)
		authenticated.GET("/subjects/:id", catalogController.GetSubject)

		materials := authenticated.Group("/materials")
		{
			materials.GET("", materialController.List)
			materials.GET("/:id", materialController.Get)
			materials.POST("/:id/download", materialController.RecordDownload)
		}

		quizzes := authenticated.Group("/quizzes")
		{
			quizzes.GET("", quizController.List)
			quizzes.GET("/:id", quizController.Get)
		}

		// Attempt lifecycle is student-only
		studentOnly := authenticated.Group("")
		studentOnly.Use(middleware.RoleRequired(models.RoleStudent))
		{
			studentOnly.POST("/quizzes/:id/start", quizController.StartAttempt)
			studentOnly.POST("/quizzes/:id/submit", quizController.SubmitAttempt)
			studentOnly.GET("/attempts", quizController.ListMyAttempts)
			studentOnly.GET("/attempts/:attemptId", quizController.GetAttemptResult)
			studentOnly.GET("/certificates", certificateController.ListMine)
		}

		discussions := authenticated.Group("/discussions")
		{
			discussions.POST("", discussionController.Create)
			discussions.POST("/attachments", discussionController.UploadAttachment)
			discussions.GET("", discussionController.List)
			discussions.GET("/:id", discussionController.Get)
			discussions.DELETE("/:id", discussionController.Delete)
			discussions.POST("/:id/like", discussionController.ToggleLike)
			discussions.POST("/:id/replies", discussionController.CreateReply)
			discussions.DELETE("/:id/replies/:replyId", discussionController.DeleteReply)
		}

		chat := authenticated.Group("/chat")
		{
			chat.POST("/attachments", chatController.UploadAttachment)
			chat.POST("/sessions", chatController.OpenSession)
			chat.GET("/sessions", chatController.ListSessions)
			chat.GET("/sessions/:id/messages", chatController.GetSessionMessages)
			chat.POST("/sessions/:id/messages", chatController.SendSessionMessage)
			chat.DELETE("/sessions/:id", chatController.DeleteSession)

			chat.POST("/groups", chatController.CreateGroup)
			chat.GET("/groups", chatController.ListGroups)
			chat.GET("/groups/:id", chatController.GetGroup)
			chat.POST("/groups/:id/join", chatController.JoinGroup)
			chat.POST("/groups/:id/leave", chatController.LeaveGroup)
			chat.DELETE("/groups/:id", chatController.DeleteGroup)
			chat.GET("/groups/:id/messages", chatController.GetGroupMessages)
			chat.POST("/groups/:id/messages", chatController.SendGroupMessage)

			chat.GET("/ws", chatController.ServeWS)
		}

		timeline := authenticated.Group("/timeline")
		{
			timeline.POST("", timelineController.CreatePost)
			timeline.GET("", timelineController.ListFeed)
			timeline.GET("/:id", timelineController.GetPost)
			timeline.DELETE("/:id", timelineController.DeletePost)
			timeline.POST("/:id/like", timelineController.ToggleLike)
			timeline.POST("/:id/comments", timelineController.CreateComment)
			timeline.GET("/:id/comments", timelineController.ListComments)
			timeline.DELETE("/:id/comments/:commentId", timelineController.DeleteComment)
		}

		authenticated.GET("/certificate-types", certificateController.ListTypes)
		authenticated.GET("/certificates/:id", certificateController.Get)
		authenticated.GET("/certificates/:id/download", certificateController.Render)

		// --- Staff routes (staff and admin) ---
		staff := authenticated.Group("/staff")
		staff.Use(middleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
		{
			staff.POST("/courses", catalogController.CreateCourse)
			staff.PUT("/courses/:id", catalogController.UpdateCourse)
			staff.DELETE("/courses/:id", catalogController.DeleteCourse)
			staff.POST("/subjects", catalogController.CreateSubject)
			staff.PUT("/subjects/:id", catalogController.UpdateSubject)
			staff.DELETE("/subjects/:id", catalogController.DeleteSubject)

			staff.GET("/notices", noticeController.ListAll)
			staff.GET("/notices/:id", noticeController.Get)
			staff.POST("/notices", noticeController.Create)
			staff.PUT("/notices/:id", noticeController.Update)
			staff.PUT("/notices/:id/cover", noticeController.UpdateCover)
			staff.DELETE("/notices/:id", noticeController.Delete)

			staff.POST("/materials", materialController.Create)
			staff.PUT("/materials/:id", materialController.Update)
			staff.DELETE("/materials/:id", materialController.Delete)

			staff.POST("/quizzes", quizController.Create)
			staff.PUT("/quizzes/:id", quizController.Update)
			staff.DELETE("/quizzes/:id", quizController.Delete)
			staff.POST("/quizzes/:id/questions", quizController.AddQuestion)
			staff.DELETE("/quizzes/:id/questions/:questionId", quizController.DeleteQuestion)
			staff.GET("/quizzes/:id/attempts", quizController.ListQuizAttempts)
		}

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(middleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/users", adminController.CreateStaff)
			admin.GET("/users", adminController.ListStaff)
			admin.PUT("/users/:id/status", adminController.SetUserStatus)
			admin.DELETE("/users/:id", adminController.DeleteUser)

			admin.GET("/students", adminController.ListStudents)
			admin.GET("/students/:id", adminController.GetStudent)
			admin.PUT("/students/:id/status", adminController.SetStudentStatus)
			admin.DELETE("/students/:id", adminController.DeleteStudent)
			admin.GET("/students/:id/certificates", certificateController.ListForStudent)

			admin.POST("/certificate-types", certificateController.CreateType)
			admin.DELETE("/certificate-types/:id", certificateController.DeleteType)
			admin.POST("/certificates", certificateController.Issue)
			admin.GET("/certificates", certificateController.List)
			admin.PUT("/certificates/:id", certificateController.UpdateStatus)
			admin.DELETE("/certificates/:id", certificateController.Delete)

			admin.GET("/analytics/overview", adminController.Overview)
			admin.GET("/analytics/registrations", adminController.RegistrationsPerDay)
			admin.GET("/analytics/students-per-course", adminController.StudentsPerCourse)
			admin.GET("/analytics/students-per-semester", adminController.StudentsPerSemester)
			admin.GET("/analytics/notices-by-type", adminController.NoticesByType)
			admin.GET("/analytics/quiz-averages", adminController.QuizAverages)
			admin.GET("/analytics/material-downloads", adminController.TopMaterialDownloads)
		}
	}
}
