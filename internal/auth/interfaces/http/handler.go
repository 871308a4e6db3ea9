package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcastano/cafeteriapos/internal/auth/application"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
	"github.com/dcastano/cafeteriapos/pkg/response"
)

type Handler struct {
	cmd   *application.AuthCommandService
	query *application.AuthQueryService
}

func NewHandler(cmd *application.AuthCommandService, query *application.AuthQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes authn 为 Bearer 令牌校验中间件
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", authn, h.Logout)
	g.POST("/refresh", authn, h.Refresh)
	g.POST("/me", authn, h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	user, err := h.cmd.Register(c.Request.Context(), application.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "el usuario se registró correctamente", user)
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	token, err := h.cmd.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "inicio de sesión exitoso", token)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.cmd.Logout(c.Request.Context(), middleware.RawTokenFrom(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "cierre de sesión exitoso", nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	token, err := h.cmd.Refresh(c.Request.Context(), middleware.RawTokenFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "token actualizado", token)
}

func (h *Handler) Me(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	user, err := h.query.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "usuario autenticado", user)
}
