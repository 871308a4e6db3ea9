package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authdomain "github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/internal/sales/application"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
	"github.com/dcastano/cafeteriapos/pkg/response"
)

type Handler struct {
	cmd   *application.SaleCommandService
	query *application.SaleQueryService
}

func NewHandler(cmd *application.SaleCommandService, query *application.SaleQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// saleRequest cantidad 用指针：缺失与数值校验都在销售服务内处理，
// 保持库存为零时先报 OutOfStock 的检查顺序
type saleRequest struct {
	Quantity *int `json:"cantidad"`
}

// RegisterRoutes 销售要求 sell 能力，畅销查询要求 query 能力
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	sell := middleware.RequireCapability(string(authdomain.CapabilitySell))
	r.POST("/producto/:id/venta", authn, sell, h.Sell)

	query := middleware.RequireCapability(string(authdomain.CapabilityQuery))
	r.GET("/producto/masvendido", authn, query, h.BestSelling)
}

func (h *Handler) Sell(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.New(apperrors.KindNotFound, "producto no encontrado"))
		return
	}

	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sale, err := h.cmd.RecordSale(c.Request.Context(), uint(id), quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "la venta se ha realizado con éxito", sale)
}

func (h *Handler) BestSelling(c *gin.Context) {
	best, err := h.query.BestSellingProduct(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	// 无销售记录不是错误，data 为 null
	var data any
	if best != nil {
		data = best
	}
	response.Success(c, http.StatusOK, "producto más vendido encontrado correctamente", data)
}
