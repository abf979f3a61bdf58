package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kuiz-api/internal/handler/dto"
	"github.com/yourusername/kuiz-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ChangePasswordRequest - смена пароля по email
type ChangePasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register регистрирует участника и выдает токен
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userService.Register(req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse(result))
}

// Create создает участника от имени администратора
func (h *UserHandler) Create(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAccountResponse(user))
}

// Login выполняет вход участника
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}

// ChangePassword меняет пароль участника
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangePassword(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(user))
}

// List возвращает всех участников
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// Me возвращает учетную запись владельца сессии
func (h *UserHandler) Me(c *gin.Context) {
	account, err := h.userService.Me(callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// Update частично обновляет участника
func (h *UserHandler) Update(c *gin.Context) {
	id := c.MustGet("userID").(uint)
	var req UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(id, req.patch(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(user))
}

// Remove удаляет участника
func (h *UserHandler) Remove(c *gin.Context) {
	id := c.MustGet("userID").(uint)
	if err := h.userService.Remove(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
