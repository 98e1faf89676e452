package router

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/auth"
	"github.com/yukikurage/project-board-api/internal/config"
	"github.com/yukikurage/project-board-api/internal/constants"
	"github.com/yukikurage/project-board-api/internal/handlers"
	"github.com/yukikurage/project-board-api/internal/middleware"
	"github.com/yukikurage/project-board-api/internal/repository"
	"github.com/yukikurage/project-board-api/internal/services"
	"gorm.io/gorm"
)

// Build wires repositories, services and handlers on top of db.
func Build(cfg *config.Config, db *gorm.DB, store sessions.Store) (*gin.Engine, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	guard := access.NewGuard(projectRepo, membershipRepo, taskRepo)

	var suggester services.TaskSuggester
	if ai := services.NewAIService(cfg.OpenAIAPIKey); ai != nil {
		suggester = ai
	}

	authService := services.NewAuthService(userRepo, hasher, tokens)
	userService := services.NewUserService(userRepo, guard, hasher)
	projectService := services.NewProjectService(projectRepo, userRepo, guard)
	membershipService := services.NewMembershipService(membershipRepo, userRepo, guard)
	taskService := services.NewTaskService(taskRepo, projectRepo, membershipRepo, guard, suggester)

	return New(cfg, store, tokens, Handlers{
		Auth:    handlers.NewAuthHandler(authService, userService),
		Project: handlers.NewProjectHandler(projectService, membershipService),
		Task:    handlers.NewTaskHandler(taskService),
		User:    handlers.NewUserHandler(userService),
	}), nil
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Project *handlers.ProjectHandler
	Task    *handlers.TaskHandler
	User    *handlers.UserHandler
}

// New creates the gin engine with middleware and routes.
func New(cfg *config.Config, store sessions.Store, tokens *auth.TokenIssuer, h Handlers) *gin.Engine {
	r := gin.Default()

	// cors.New panics without any allowed origin.
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Board API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
	}

	projects := r.Group("/projects", requireAuth)
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:id", h.Project.GetProject)
		projects.PUT("/:id", h.Project.UpdateProject)
		projects.DELETE("/:id", h.Project.DeleteProject)
		projects.GET("/:id/invite", h.Project.ListMembers)
		projects.POST("/:id/invite", h.Project.InviteMember)
		projects.DELETE("/:id/invite", h.Project.RemoveMember)
		projects.GET("/:id/analytic", h.Project.Analytics)
	}

	tasks := r.Group("/tasks", requireAuth)
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.POST("", h.Task.CreateTask)
		tasks.POST("/generate", h.Task.GenerateTasks)
		tasks.GET("/:id", h.Task.GetTask)
		tasks.PUT("/:id", h.Task.UpdateTask)
		tasks.DELETE("/:id", h.Task.DeleteTask)
	}

	users := r.Group("/users", requireAuth)
	{
		users.GET("", h.User.ListUsers)
		users.GET("/:id", h.User.GetUser)
		users.PUT("/:id", h.User.UpdateUser)
		users.DELETE("/:id", h.User.DeleteUser)
	}

	return r
}

// NewSessionStore returns a Redis-backed store when REDIS_HOST is set and a
// signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		rs, err := redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			"", // password
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
