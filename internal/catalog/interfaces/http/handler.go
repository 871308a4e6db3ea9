package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authdomain "github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/internal/catalog/application"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
	"github.com/dcastano/cafeteriapos/pkg/response"
)

type Handler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

func NewHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// productRequest 数值字段用指针，避免 0 被 required 误判为缺失
type productRequest struct {
	Name      *string `json:"nombre_producto" binding:"required"`
	Reference *string `json:"referencia" binding:"required"`
	Price     *int64  `json:"precio" binding:"required"`
	Weight    *int    `json:"peso" binding:"required"`
	Category  *string `json:"categoria" binding:"required"`
	Stock     *int    `json:"stock" binding:"required"`
}

func (req *productRequest) toCommand() application.ProductCommand {
	return application.ProductCommand{
		Name:      *req.Name,
		Reference: *req.Reference,
		Price:     *req.Price,
		Weight:    *req.Weight,
		Category:  *req.Category,
		Stock:     *req.Stock,
	}
}

// RegisterRoutes authn 为令牌校验中间件；商品 CRUD 要求 administer 能力，
// 库存查询要求 query 能力
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	admin := middleware.RequireCapability(string(authdomain.CapabilityAdminister))
	g := r.Group("/productos", authn, admin)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	query := middleware.RequireCapability(string(authdomain.CapabilityQuery))
	r.GET("/producto/masstock", authn, query, h.MaxStock)
}

func (h *Handler) List(c *gin.Context) {
	products, err := h.query.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "listado de productos", products)
}

func (h *Handler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	product, err := h.cmd.CreateProduct(c.Request.Context(), req.toCommand())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "producto creado correctamente", product)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "producto obtenido correctamente", product)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BindingError(err))
		return
	}

	product, err := h.cmd.UpdateProduct(c.Request.Context(), id, req.toCommand())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "producto actualizado correctamente", product)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.cmd.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "producto eliminado correctamente", product)
}

func (h *Handler) MaxStock(c *gin.Context) {
	product, err := h.query.MaxStockProduct(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	// 目录为空不是错误，data 为 null
	var data any
	if product != nil {
		data = product
	}
	response.Success(c, http.StatusOK, "producto con más stock obtenido correctamente", data)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.KindNotFound, "producto no encontrado")
	}
	return uint(id), nil
}
