package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/kuiz-api/internal/handler/dto"
	"github.com/yourusername/kuiz-api/internal/service"
)

// AdminHandler обрабатывает запросы администраторов
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый обработчик администраторов
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateAccountRequest - частичное обновление учетной записи
type UpdateAccountRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (r RegisterRequest) input() service.RegisterInput {
	return service.RegisterInput{Email: r.Email, Password: r.Password, Name: r.Name}
}

func (r UpdateAccountRequest) patch() service.AccountPatch {
	return service.AccountPatch{Email: r.Email, Name: r.Name, Password: r.Password}
}

// Register регистрирует администратора
func (h *AdminHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.adminService.Register(req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse(result))
}

// Login выполняет вход администратора
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.adminService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}

// Update частично обновляет администратора
func (h *AdminHandler) Update(c *gin.Context) {
	id := c.MustGet("adminID").(uint)
	var req UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.adminService.Update(id, req.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(admin))
}
