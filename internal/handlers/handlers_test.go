package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/auth"
	"github.com/yukikurage/project-board-api/internal/constants"
	"github.com/yukikurage/project-board-api/internal/database"
	"github.com/yukikurage/project-board-api/internal/middleware"
	"github.com/yukikurage/project-board-api/internal/repository"
	"github.com/yukikurage/project-board-api/internal/services"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens, err := auth.NewTokenIssuer("handler-secret", time.Hour)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	guard := access.NewGuard(projectRepo, membershipRepo, taskRepo)

	authService := services.NewAuthService(userRepo, hasher, tokens)
	userService := services.NewUserService(userRepo, guard, hasher)
	taskService := services.NewTaskService(taskRepo, projectRepo, membershipRepo, guard, nil)

	authHandler := NewAuthHandler(authService, userService)
	projectHandler := NewProjectHandler(services.NewProjectService(projectRepo, userRepo, guard), services.NewMembershipService(membershipRepo, userRepo, guard))
	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(userService)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("session-secret"))))
	requireAuth := middleware.RequireAuth(tokens)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", requireAuth, authHandler.Me)

	r.POST("/projects", requireAuth, projectHandler.CreateProject)
	r.GET("/projects/:id/analytic", requireAuth, projectHandler.Analytics)

	r.POST("/tasks", requireAuth, taskHandler.CreateTask)
	r.PUT("/tasks/:id", requireAuth, taskHandler.UpdateTask)
	r.POST("/tasks/generate", requireAuth, taskHandler.GenerateTasks)

	r.PUT("/users/:id", requireAuth, userHandler.UpdateUser)

	return &testServer{router: r}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// login registers a user and returns their id and token.
func (s *testServer) login(t *testing.T, email string) (string, string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/auth/register", gin.H{"email": email, "password": "password123"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/auth/login", gin.H{"email": email, "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]interface{})
	return user["id"].(string), body["token"].(string)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
