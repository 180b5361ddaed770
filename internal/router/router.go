package router

import (
	"net/http"
	"time"

	"gatehouse/internal/auth"
	"gatehouse/internal/middleware"
	"gatehouse/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New wires every route. Page routes run the server-side guards before any
// content is produced; API routes under a session requirement return 401
// instead of redirecting.
func New(repo auth.UserRepository, authHandler *auth.Handler, usersHandler *users.Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---------------- AUTH ----------------
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/signin", authHandler.SignIn)
		authGroup.POST("/signout", authHandler.SignOut)

		protected := authGroup.Group("")
		protected.Use(middleware.Session(repo))
		{
			protected.GET("/session", authHandler.Session)
			protected.POST("/password", authHandler.SetNewPassword)
		}
	}

	// ---------------- USER MANAGEMENT ----------------
	usersGroup := r.Group("/users")
	usersGroup.Use(middleware.Session(repo))
	{
		usersGroup.GET("", usersHandler.ListUsers)
		usersGroup.DELETE("/:id", usersHandler.DeleteUser)
		usersGroup.POST("/invite", usersHandler.InviteUser)
	}

	// ---------------- PAGES ----------------
	r.GET("/signin", middleware.RequireNoSession(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"props": gin.H{}})
	})
	r.GET("/signup", middleware.RequireNoSession(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"props": gin.H{}})
	})
	r.GET("/admin", middleware.RequireSession(repo), func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"props": gin.H{"user": user}})
	})

	// ---------------- TEST MAINTENANCE ----------------
	r.POST("/api/tests/cleanup", usersHandler.Cleanup)

	return r
}
