package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/taskdeck-io/taskdeck/docs"
	"github.com/taskdeck-io/taskdeck/internal/middleware"
	"github.com/taskdeck-io/taskdeck/internal/modules/handler"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/pkg/auth"
)

type RouterDeps struct {
	Log      *zap.Logger
	Tokens   *auth.TokenService
	Accounts repo.AccountRepo

	AuthHandler         *handler.AuthHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	DocumentHandler     *handler.DocumentHandler
	CommentHandler      *handler.CommentHandler
	TimelineHandler     *handler.TimelineHandler
	NotificationHandler *handler.NotificationHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", d.AuthHandler.Register)
			authGroup.POST("/login", d.AuthHandler.Login)
			authGroup.POST("/refresh", d.AuthHandler.Refresh)
		}

		secured := v1.Group("")
		secured.Use(middleware.AccountAuth(d.Tokens, d.Accounts))

		secured.POST("/auth/logout", d.AuthHandler.Logout)

		project := secured.Group("/projects")
		{
			project.GET("", d.ProjectHandler.ListProjects)
			project.POST("", d.ProjectHandler.CreateProject)
			project.GET("/:project_id", d.ProjectHandler.GetProject)
			project.PUT("/:project_id", d.ProjectHandler.UpdateProject)
			project.DELETE("/:project_id", d.ProjectHandler.DeleteProject)
		}

		task := secured.Group("/tasks")
		{
			task.GET("", d.TaskHandler.ListTasks)
			task.POST("", d.TaskHandler.CreateTask)
			task.GET("/:task_id", d.TaskHandler.GetTask)
			task.PUT("/:task_id", d.TaskHandler.UpdateTask)
			task.DELETE("/:task_id", d.TaskHandler.DeleteTask)
		}

		document := secured.Group("/documents")
		{
			document.GET("", d.DocumentHandler.ListDocuments)
			document.POST("", d.DocumentHandler.CreateDocument)
			document.GET("/:document_id", d.DocumentHandler.GetDocument)
			document.GET("/:document_id/download", d.DocumentHandler.DownloadDocument)
			document.PUT("/:document_id", d.DocumentHandler.UpdateDocument)
			document.DELETE("/:document_id", d.DocumentHandler.DeleteDocument)
		}

		comment := secured.Group("/comments")
		{
			comment.GET("", d.CommentHandler.ListComments)
			comment.POST("", d.CommentHandler.CreateComment)
			comment.GET("/:comment_id", d.CommentHandler.GetComment)
			comment.PUT("/:comment_id", d.CommentHandler.UpdateComment)
			comment.DELETE("/:comment_id", d.CommentHandler.DeleteComment)
		}

		secured.GET("/timelines", d.TimelineHandler.ListTimelines)

		notification := secured.Group("/notifications")
		{
			notification.GET("", d.NotificationHandler.ListNotifications)
			notification.POST("/:notification_id/read", d.NotificationHandler.MarkNotificationRead)
		}
	}
	return r
}
