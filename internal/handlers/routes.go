package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/repository"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth     *AuthHandler
	Posts    *PostHandler
	Users    *UserHandler
	Admin    *AdminHandler
	Messages *MessageHandler
}

// RegisterRoutes mounts the API under /api. Writes pass through limiter when it is non-nil.
func RegisterRoutes(r gin.IRouter, h Handlers, users repository.UserRepository, limiter *middleware.RateLimiter) {
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if limiter != nil {
		throttle = limiter.Middleware()
	}
	postID := middleware.RequireIDParam("id", "post")
	userID := middleware.RequireIDParam("id", "user")

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", throttle, h.Auth.Signup)
			auth.POST("/login", throttle, h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
			auth.PATCH("/me", middleware.RequireAuth(), h.Auth.UpdateCurrentUser)
		}

		// Feed and posts; reads are open to anonymous visitors
		posts := api.Group("/posts")
		{
			posts.GET("", middleware.OptionalAuth(), h.Posts.ListFeed)
			posts.GET("/new", middleware.OptionalAuth(), h.Posts.ListNewPosts)
			posts.GET("/:id", middleware.OptionalAuth(), postID, h.Posts.GetPost)
			posts.POST("", middleware.RequireAuth(), throttle, h.Posts.CreatePost)
			posts.PATCH("/:id", middleware.RequireAuth(), postID, h.Posts.UpdatePost)
			posts.DELETE("/:id", middleware.RequireAuth(), postID, h.Posts.DeletePost)
			posts.POST("/:id/vote", middleware.RequireAuth(), throttle, postID, h.Posts.Vote)
			posts.POST("/:id/replies", middleware.RequireAuth(), throttle, postID, h.Posts.CreateReply)
			posts.POST("/:id/pin", middleware.RequireAuth(), middleware.RequireAdmin(users), postID, h.Posts.PinPost)
		}

		api.DELETE("/replies/:id", middleware.RequireAuth(), middleware.RequireIDParam("id", "reply"), h.Posts.DeleteReply)
		api.GET("/tags", h.Posts.ListTags)
		api.GET("/profiles/:username", h.Users.GetProfile)

		// User moderation (protected)
		usersGroup := api.Group("/users")
		usersGroup.Use(middleware.RequireAuth())
		{
			usersGroup.POST("/:id/report", throttle, userID, h.Users.ReportUser)
			usersGroup.POST("/:id/ban", middleware.RequireAdmin(users), userID, h.Users.BanUser)
			usersGroup.POST("/:id/unban", middleware.RequireAdmin(users), userID, h.Users.UnbanUser)
		}

		// Direct messages (protected)
		messages := api.Group("/messages")
		messages.Use(middleware.RequireAuth())
		{
			messages.GET("", h.Messages.ListConversations)
			messages.GET("/search", h.Messages.SearchRecipients)
			messages.GET("/:id", userID, h.Messages.GetThread)
			messages.POST("/:id", throttle, userID, h.Messages.SendMessage)
			messages.POST("/:id/read", userID, h.Messages.MarkRead)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin(users))
		{
			admin.GET("/reports", h.Admin.ListReports)
			admin.POST("/reports/:id/resolve", middleware.RequireIDParam("id", "report"), h.Admin.ResolveReport)
		}
	}
}
