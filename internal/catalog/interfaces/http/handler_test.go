package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/cafeteriapos/internal/catalog/application"
	"github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
	"github.com/dcastano/cafeteriapos/pkg/response"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[uint]*domain.Product
	nextID   uint
}

func newMemoryProductRepo(products ...*domain.Product) *memoryProductRepo {
	r := &memoryProductRepo{products: make(map[uint]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *memoryProductRepo) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *memoryProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) MaxStock(ctx context.Context) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *domain.Product
	for _, p := range r.products {
		if best == nil || p.Stock > best.Stock || (p.Stock == best.Stock && p.ID < best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

type staticSaleCounter struct{ counts map[uint]int64 }

func (f *staticSaleCounter) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	return f.counts[productID], nil
}

type adminVerifier struct{}

func (adminVerifier) Verify(ctx context.Context, token string) (*middleware.Identity, error) {
	return &middleware.Identity{
		UserID: 1, Email: "admin@cafeteria.co", Role: "ADMIN",
		Capabilities: []string{"administer", "sell", "query"},
	}, nil
}

func newTestServer(repo *memoryProductRepo, counts map[uint]int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cmd := application.NewCatalogCommandService(repo, &staticSaleCounter{counts: counts})
	query := application.NewCatalogQueryService(repo)
	NewHandler(cmd, query).RegisterRoutes(r.Group(""), middleware.Authenticated(adminVerifier{}))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-de-prueba")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

const validProductJSON = `{
	"nombre_producto": "café americano",
	"referencia": "CAF-001",
	"precio": 3500,
	"peso": 250,
	"categoria": "bebidas",
	"stock": 40
}`

func TestCreateProductEndpoint(t *testing.T) {
	repo := newMemoryProductRepo()
	r := newTestServer(repo, nil)

	w, envelope := do(t, r, http.MethodPost, "/productos", validProductJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", envelope.Status)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "café americano", data["nombre_producto"])
	assert.Equal(t, float64(3500), data["precio"])
	assert.NotZero(t, data["id"])
}

func TestCreateProductEndpointZeroValuesAccepted(t *testing.T) {
	// precio/peso/stock 为 0 是合法取值，不得被 required 规则拦下
	repo := newMemoryProductRepo()
	r := newTestServer(repo, nil)

	body := `{"nombre_producto": "muestra", "referencia": "MU-001", "precio": 0, "peso": 0, "categoria": "promociones", "stock": 0}`
	w, envelope := do(t, r, http.MethodPost, "/productos", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", envelope.Status)
}

func TestCreateProductEndpointMissingFields(t *testing.T) {
	repo := newMemoryProductRepo()
	r := newTestServer(repo, nil)

	w, envelope := do(t, r, http.MethodPost, "/productos", `{"nombre_producto": "café"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", envelope.Status)

	fields, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "field level detail expected in data")
	assert.Contains(t, fields, "referencia")
	assert.Contains(t, fields, "precio")
	assert.NotContains(t, fields, "nombre_producto")
}

func TestGetProductEndpoint(t *testing.T) {
	repo := newMemoryProductRepo(&domain.Product{ID: 3, Name: "café", Reference: "CAF-001", Price: 3000, Category: "bebidas", Stock: 10})
	r := newTestServer(repo, nil)

	w, envelope := do(t, r, http.MethodGet, "/productos/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, "café", data["nombre_producto"])

	w, envelope = do(t, r, http.MethodGet, "/productos/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", envelope.Status)

	w, _ = do(t, r, http.MethodGet, "/productos/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProductEndpoint(t *testing.T) {
	repo := newMemoryProductRepo(&domain.Product{ID: 1, Name: "café", Reference: "CAF-001", Price: 3000, Weight: 250, Category: "bebidas", Stock: 10})
	r := newTestServer(repo, nil)

	body := `{"nombre_producto": "café", "referencia": "CAF-002", "precio": 4200, "peso": 250, "categoria": "bebidas", "stock": 15}`
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w, envelope := do(t, r, method, "/productos/1", body)
		require.Equal(t, http.StatusOK, w.Code, method)
		data := envelope.Data.(map[string]any)
		assert.Equal(t, float64(4200), data["precio"], method)
	}

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, "CAF-002", stored.Reference)
}

func TestDeleteProductEndpoint(t *testing.T) {
	repo := newMemoryProductRepo(
		&domain.Product{ID: 1, Name: "café", Reference: "CAF-001", Price: 3000, Category: "bebidas", Stock: 10},
		&domain.Product{ID: 2, Name: "té", Reference: "TE-001", Price: 2500, Category: "bebidas", Stock: 8},
	)
	r := newTestServer(repo, map[uint]int64{2: 4})

	w, envelope := do(t, r, http.MethodDelete, "/productos/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", envelope.Status)

	// 有销售记录的商品拒绝删除
	w, envelope = do(t, r, http.MethodDelete, "/productos/2", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", envelope.Status)

	stored, _ := repo.GetByID(context.Background(), 2)
	assert.NotNil(t, stored)
}

func TestListProductsEndpoint(t *testing.T) {
	repo := newMemoryProductRepo(
		&domain.Product{ID: 1, Name: "café", Reference: "CAF-001", Price: 3000, Category: "bebidas", Stock: 10},
		&domain.Product{ID: 2, Name: "té", Reference: "TE-001", Price: 2500, Category: "bebidas", Stock: 8},
	)
	r := newTestServer(repo, nil)

	w, envelope := do(t, r, http.MethodGet, "/productos", "")
	require.Equal(t, http.StatusOK, w.Code)

	list, ok := envelope.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestMaxStockEndpoint(t *testing.T) {
	repo := newMemoryProductRepo()
	r := newTestServer(repo, nil)

	w, envelope := do(t, r, http.MethodGet, "/producto/masstock", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", envelope.Status)
	assert.Nil(t, envelope.Data, "empty catalog must answer with null data")

	for i, stock := range []int{5, 12, 7} {
		body := fmt.Sprintf(`{"nombre_producto": "p%d", "referencia": "R-%d", "precio": 1000, "peso": 100, "categoria": "bebidas", "stock": %d}`, i, i, stock)
		do(t, r, http.MethodPost, "/productos", body)
	}

	w, envelope = do(t, r, http.MethodGet, "/producto/masstock", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, "p1", data["nombre_producto"])
	assert.Equal(t, float64(12), data["stock"])
}
