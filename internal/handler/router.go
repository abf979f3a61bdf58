package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	"github.com/yourusername/kuiz-api/internal/middleware"
)

// Route - маршрут API вместе с правилом доступа
type Route struct {
	Method   string
	Path     string
	Access   middleware.AccessRule
	Handlers []gin.HandlerFunc
}

// Handlers - набор обработчиков, из которых собирается таблица маршрутов
type Handlers struct {
	Admin   *AdminHandler
	User    *UserHandler
	Quiz    *QuizHandler
	Attempt *AttemptHandler
	WS      *WSHandler
	Health  *HealthHandler
}

// Routes возвращает таблицу маршрутов API
func Routes(h Handlers) []Route {
	var (
		public   = middleware.PublicAccess()
		anyRole  = middleware.AuthenticatedAccess()
		admin    = middleware.RoleAccess(entity.RoleAdmin)
		user     = middleware.RoleAccess(entity.RoleUser)
		accounts = middleware.RoleAccess(entity.RoleUser, entity.RoleAdmin)
		wsAccess = middleware.AccessRule{TokenQuery: "token"}

		adminID    = middleware.ExtractUintParam("id", "adminID")
		userID     = middleware.ExtractUintParam("id", "userID")
		quizID     = middleware.ExtractUintParam("id", "quizID")
		questionID = middleware.ExtractUintParam("id", "questionID")
	)

	return []Route{
		{http.MethodPost, "/api/admins/register", public, chain(h.Admin.Register)},
		{http.MethodPost, "/api/admins/login", public, chain(h.Admin.Login)},
		{http.MethodPatch, "/api/admins/:id", admin, chain(adminID, h.Admin.Update)},

		{http.MethodPost, "/api/users/register", public, chain(h.User.Register)},
		{http.MethodPost, "/api/users/login", public, chain(h.User.Login)},
		{http.MethodPost, "/api/users/change-password", public, chain(h.User.ChangePassword)},
		{http.MethodPost, "/api/users", admin, chain(h.User.Create)},
		{http.MethodGet, "/api/users", admin, chain(h.User.List)},
		{http.MethodGet, "/api/users/me", accounts, chain(h.User.Me)},
		{http.MethodPatch, "/api/users/:id", accounts, chain(userID, h.User.Update)},
		{http.MethodDelete, "/api/users/:id", admin, chain(userID, h.User.Remove)},

		{http.MethodGet, "/api/quizzes", public, chain(h.Quiz.List)},
		{http.MethodPost, "/api/quizzes", admin, chain(h.Quiz.Create)},
		{http.MethodGet, "/api/quizzes/:id", anyRole, chain(quizID, h.Quiz.Get)},
		{http.MethodPatch, "/api/quizzes/:id", admin, chain(quizID, h.Quiz.Update)},
		{http.MethodDelete, "/api/quizzes/:id", admin, chain(quizID, h.Quiz.Remove)},
		{http.MethodPost, "/api/quizzes/:id/questions", admin, chain(quizID, h.Quiz.AddQuestion)},
		{http.MethodPatch, "/api/questions/:id", admin, chain(questionID, h.Quiz.UpdateQuestion)},
		{http.MethodDelete, "/api/questions/:id", admin, chain(questionID, h.Quiz.RemoveQuestion)},

		{http.MethodPost, "/api/quizzes/:id/attempts", user, chain(quizID, h.Attempt.Attempt)},
		{http.MethodGet, "/api/quizzes/:id/attempts", anyRole, chain(quizID, h.Attempt.ListByQuiz)},
		{http.MethodGet, "/api/quizzes/:id/attempts/export", admin, chain(quizID, h.Attempt.Export)},
		{http.MethodGet, "/api/attempts/me", user, chain(h.Attempt.ListMine)},

		{http.MethodGet, "/ws/quizzes/:id/leaderboard", wsAccess, chain(quizID, h.WS.Leaderboard)},
		{http.MethodGet, "/health", public, chain(h.Health.Check)},
	}
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return handlers
}

// RegisterRoutes регистрирует маршруты, ставя проверку доступа первой в цепочке
func RegisterRoutes(r gin.IRoutes, auth *middleware.AuthMiddleware, routes []Route) {
	for _, route := range routes {
		handlers := append([]gin.HandlerFunc{auth.Gate(route.Access)}, route.Handlers...)
		r.Handle(route.Method, route.Path, handlers...)
	}
}
