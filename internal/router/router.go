package router

import (
	"decisionshub/internal/handlers"
	"decisionshub/internal/middleware"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, tokens *services.TokenManager) {
	r.Use(middleware.LoadUser(tokens))

	// Handlers
	authHandler := handlers.NewAuthHandler(tokens)
	userHandler := handlers.NewUserHandler()
	decisionHandler := handlers.NewDecisionHandler()
	commentHandler := handlers.NewCommentHandler()
	historyHandler := handlers.NewHistoryHandler()
	imageHandler := handlers.NewImageHandler()

	// 公共路由 (Public Routes)
	r.POST("/users", authHandler.Register)
	r.POST("/users/token", authHandler.Login)
	r.POST("/users/access-token", authHandler.RefreshAccessToken)
	r.POST("/users/refresh-token", authHandler.RefreshRefreshToken)

	r.GET("/decisions", decisionHandler.List)
	r.GET("/comments/decision/:id", commentHandler.ListByDecision)
	r.GET("/media/decisions/:name", imageHandler.Serve)

	// 自助物理删除是唯一允许已停用账号调用的受保护接口，
	// 不挂 ActiveRequired，前提检查在 handler 里
	r.DELETE("/users/me/hard", middleware.AuthRequired(), userHandler.HardDeleteSelf)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired(), middleware.ActiveRequired())
	{
		authorized.GET("/users", userHandler.List)
		authorized.PUT("/users/change-password", authHandler.ChangePassword)
		authorized.PUT("/users/change-email", authHandler.ChangeEmail)
		authorized.DELETE("/users/account/self", userHandler.DeactivateSelf)
		authorized.DELETE("/users/:id", userHandler.Deactivate)
		authorized.DELETE("/users/:id/hard", userHandler.HardDelete)
		authorized.PUT("/users/:id/role", userHandler.UpdateRole)

		authorized.POST("/decisions", decisionHandler.Create)
		authorized.GET("/decisions/:id", decisionHandler.Detail)
		authorized.PUT("/decisions/:id", decisionHandler.Update)
		authorized.DELETE("/decisions/:id", decisionHandler.Deactivate)
		authorized.POST("/decisions/:id/rollback/:history_id", decisionHandler.Rollback)
		authorized.POST("/decisions/:id/like", decisionHandler.Like)
		authorized.POST("/decisions/:id/dislike", decisionHandler.Dislike)

		authorized.POST("/comments", commentHandler.Create)
		authorized.GET("/comments/:id/replies", commentHandler.Replies)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
		authorized.DELETE("/comments/:id/hard", commentHandler.HardDelete)
		authorized.POST("/comments/:id/like", commentHandler.Like)
		authorized.POST("/comments/:id/dislike", commentHandler.Dislike)

		authorized.GET("/decisions-history/:id", historyHandler.Get)
		authorized.DELETE("/decisions-history/:id", historyHandler.Delete)

		authorized.POST("/images", imageHandler.Upload)
	}

	// 管理员路由 (Admin Routes)
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.ActiveRequired(), middleware.AdminRequired())
	{
		admin.POST("/decisions/:id/accept", decisionHandler.Accept)
	}
}
