package handlers

import (
	"github.com/gin-gonic/gin"

	"mingle/auth"
	"mingle/middleware"
	"mingle/websocket"
)

// NewRouter wires every endpoint. The token service is the only injected
// dependency; storage is reached through the shared pool.
func NewRouter(tokens *auth.TokenService) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	authRequired := middleware.AuthMiddleware(tokens)
	authHandler := NewAuthHandler(tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/signin", authHandler.Signin)
	}

	// Follow workflow mutations act on the target named in the path; the
	// caller identity always comes from the verified token.
	user := r.Group("/user")
	user.Use(authRequired)
	{
		user.POST("/:userId/follow-request", RequestFollow)
		user.DELETE("/:userId/follow-request", CancelFollowRequest)
		user.POST("/:userId/follow-respond/:status", RespondToFollowRequest)
	}

	users := r.Group("/users")
	{
		users.GET("", GetUsers)
		users.GET("/search", SearchUsers)
		users.GET("/:userId", GetUser)
		users.GET("/:userId/posts", GetUserPosts)
		users.GET("/:userId/followers", GetFollowers)
		users.GET("/:userId/following", GetFollowing)
		users.GET("/:userId/follow-requests", authRequired, GetFollowRequests)
		users.DELETE("/:userId/following/:targetId", authRequired, Unfollow)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", GetPosts)
		posts.GET("/:postId", GetPost)
		posts.GET("/:postId/comments", GetComments)
		posts.POST("", authRequired, CreatePost)
		posts.PATCH("/:postId", authRequired, UpdatePost)
		posts.DELETE("/:postId", authRequired, DeletePost)
		posts.POST("/:postId/like", authRequired, LikePost)
		posts.DELETE("/:postId/like", authRequired, UnlikePost)
		posts.POST("/:postId/comments", authRequired, CreateComment)
	}

	comments := r.Group("/comments")
	comments.Use(authRequired)
	{
		comments.DELETE("/:commentId", DeleteComment)
		comments.POST("/:commentId/like", LikeComment)
		comments.DELETE("/:commentId/like", UnlikeComment)
	}

	r.GET("/ws", websocket.Handler(tokens))

	return r
}
