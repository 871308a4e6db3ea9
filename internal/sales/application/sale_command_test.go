package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/internal/sales/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

// fakeSaleRepo 复刻 mysql 仓储的契约：apply 在锁持有期间执行，
// 商品修改与销售写入原子生效。
type fakeSaleRepo struct {
	mu       sync.Mutex
	products map[uint]*catalogdomain.Product
	sales    []*domain.Sale
	nextID   uint
}

func newFakeSaleRepo(products ...*catalogdomain.Product) *fakeSaleRepo {
	r := &fakeSaleRepo{products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeSaleRepo) SellWithLock(ctx context.Context, productID uint, apply func(p *catalogdomain.Product) (*domain.Sale, error)) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 与 gorm 事务一致：context 已取消则整体回滚
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	product, ok := r.products[productID]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "producto no encontrado")
	}

	copied := *product
	sale, err := apply(&copied)
	if err != nil {
		return nil, err
	}

	*product = copied
	r.nextID++
	sale.ID = r.nextID
	sale.CreatedAt = time.Now()
	r.sales = append(r.sales, sale)
	return sale, nil
}

func (r *fakeSaleRepo) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, s := range r.sales {
		if s.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSaleRepo) BestSelling(ctx context.Context) (*domain.BestSeller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := make(map[uint]int64)
	for _, s := range r.sales {
		totals[s.ProductID] += int64(s.Quantity)
	}

	var best *domain.BestSeller
	for id, total := range totals {
		if best == nil || total > best.TotalSold || (total == best.TotalSold && id < best.ProductID) {
			name := ""
			if p, ok := r.products[id]; ok {
				name = p.Name
			}
			best = &domain.BestSeller{ProductID: id, Name: name, TotalSold: total}
		}
	}
	return best, nil
}

func product(id uint, name string, price int64, stock int) *catalogdomain.Product {
	return &catalogdomain.Product{ID: id, Name: name, Reference: "REF", Price: price, Category: "bebidas", Stock: stock}
}

func TestRecordSaleSuccess(t *testing.T) {
	repo := newFakeSaleRepo(product(1, "café", 1000, 10), product(2, "té", 800, 4))
	svc := NewSaleCommandService(repo, nil)

	sale, err := svc.RecordSale(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, uint(1), sale.ProductID)
	assert.Equal(t, 3, sale.Quantity)
	assert.Equal(t, int64(3000), sale.Total)

	assert.Equal(t, 7, repo.products[1].Stock)
	assert.Equal(t, 4, repo.products[2].Stock, "other products must not change")
	assert.Len(t, repo.sales, 1)
}

func TestRecordSaleTotalFrozenAtSaleTime(t *testing.T) {
	repo := newFakeSaleRepo(product(1, "café", 500, 10))
	svc := NewSaleCommandService(repo, nil)

	sale, err := svc.RecordSale(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1000), sale.Total)

	// 之后涨价不影响已写入的总额
	repo.products[1].Price = 9999
	assert.Equal(t, int64(1000), repo.sales[0].Total)
}

func TestRecordSaleInvalidQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		repo := newFakeSaleRepo(product(1, "café", 1000, 10))
		svc := NewSaleCommandService(repo, nil)

		_, err := svc.RecordSale(context.Background(), 1, quantity)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "quantity %d", quantity)

		assert.Equal(t, 10, repo.products[1].Stock, "stock must be untouched")
		assert.Empty(t, repo.sales, "ledger must be untouched")
	}
}

func TestRecordSaleProductNotFound(t *testing.T) {
	repo := newFakeSaleRepo(product(1, "café", 1000, 10))
	svc := NewSaleCommandService(repo, nil)

	_, err := svc.RecordSale(context.Background(), 99, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, repo.sales)
}

func TestRecordSaleOutOfStock(t *testing.T) {
	// 库存为零时无论数量如何都报 OutOfStock，包括无效数量
	for _, quantity := range []int{0, 1, 5} {
		repo := newFakeSaleRepo(product(1, "café", 1000, 0))
		svc := NewSaleCommandService(repo, nil)

		_, err := svc.RecordSale(context.Background(), 1, quantity)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindOutOfStock), "quantity %d", quantity)
		assert.Empty(t, repo.sales)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	repo := newFakeSaleRepo(product(1, "café", 1000, 2))
	svc := NewSaleCommandService(repo, nil)

	_, err := svc.RecordSale(context.Background(), 1, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

	assert.Equal(t, 2, repo.products[1].Stock)
	assert.Empty(t, repo.sales)
}

func TestRecordSaleExpiredContextRollsBack(t *testing.T) {
	repo := newFakeSaleRepo(product(1, "café", 1000, 10))
	svc := NewSaleCommandService(repo, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := svc.RecordSale(ctx, 1, 2)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, 10, repo.products[1].Stock, "stock must be untouched")
	assert.Empty(t, repo.sales, "ledger must be untouched")
}

func TestRecordSaleConcurrentNeverOversells(t *testing.T) {
	const (
		initialStock = 50
		goroutines   = 30
		quantity     = 3
	)

	repo := newFakeSaleRepo(product(1, "café", 1000, initialStock))
	svc := NewSaleCommandService(repo, nil)

	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(context.Background(), 1, quantity)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))
		}
	}

	// 50/3 = 16 笔成交后剩 2，余下请求全部被拒
	assert.Equal(t, 16, succeeded)
	assert.Equal(t, initialStock-succeeded*quantity, repo.products[1].Stock)
	assert.GreaterOrEqual(t, repo.products[1].Stock, 0, "stock must never go negative")
	assert.Len(t, repo.sales, succeeded)
}
