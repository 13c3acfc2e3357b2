package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"civiclens-be/controllers"
	"civiclens-be/middlewares"
)

// IssueControllers bundles the handlers mounted under /api/issues.
type IssueControllers struct {
	Issues    *controllers.IssueController
	Lifecycle *controllers.LifecycleController
	Votes     *controllers.VoteController
	Comments  *controllers.CommentController
	Uploads   *controllers.UploadController
}

// IssueRoutes sets up the issue routes. Reads are public; every write goes
// through the auth middleware, and issue creation is additionally rate
// limited per user.
func IssueRoutes(r *gin.Engine, h IssueControllers, rdb *redis.Client, jwtSecret string, rateLimit int) {
	auth := middlewares.AuthMiddleware(jwtSecret)

	issues := r.Group("/api/issues")
	{
		issues.GET("", h.Issues.List)
		issues.GET("/recent", h.Issues.Recent)
		issues.GET("/stats", h.Issues.Stats)
		issues.GET("/mine", auth, h.Issues.Mine)
		issues.POST("", auth, middlewares.IssueRateLimiter(rdb, rateLimit), h.Issues.Create)

		issues.GET("/:id", h.Issues.Get)
		issues.POST("/:id/images", auth, h.Uploads.Attach)

		issues.POST("/:id/vote", auth, h.Votes.Cast)
		issues.GET("/:id/vote", auth, h.Votes.Mine)

		issues.PATCH("/:id/status", auth, h.Lifecycle.SetStatus)
		issues.PATCH("/:id/assign", auth, h.Lifecycle.Assign)
		issues.GET("/:id/history", h.Lifecycle.History)

		issues.GET("/:id/comments", h.Comments.List)
		issues.POST("/:id/comments", auth, h.Comments.Add)
	}
}
