package application

import (
	"context"

	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/internal/sales/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/metrics"
)

// SaleCommandService 销售事务服务：校验库存、扣减并登记销售，
// 两次写入在仓储的事务内原子生效。
type SaleCommandService struct {
	sales   domain.SaleRepository
	metrics *metrics.Metrics
}

// NewSaleCommandService metrics 可为 nil（测试场景）
func NewSaleCommandService(sales domain.SaleRepository, m *metrics.Metrics) *SaleCommandService {
	return &SaleCommandService{sales: sales, metrics: m}
}

// RecordSale 检查顺序与不变量：
//  1. 商品存在，否则 NotFound；
//  2. 当前库存 > 0，否则 OutOfStock（先于数量校验）；
//  3. cantidad ≥ 1，否则 ValidationFailed；
//  4. cantidad ≤ 当前库存，否则 InsufficientStock。
//
// 全部检查在行锁持有期间执行，并发销售同一商品串行化，库存永不为负。
func (s *SaleCommandService) RecordSale(ctx context.Context, productID uint, quantity int) (*domain.Sale, error) {
	sale, err := s.sales.SellWithLock(ctx, productID, func(p *catalogdomain.Product) (*domain.Sale, error) {
		if p.Stock <= 0 {
			return nil, apperrors.New(apperrors.KindOutOfStock, "no hay productos en stock para realizar la venta")
		}
		if quantity < 1 {
			return nil, apperrors.WithFields("error de validación", map[string][]string{
				"cantidad": {"debe ser un entero mayor o igual a 1"},
			})
		}
		if quantity > p.Stock {
			return nil, apperrors.New(apperrors.KindInsufficientStock, "no hay suficientes productos de este tipo")
		}

		p.Stock -= quantity
		return domain.NewSale(p, quantity), nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.SalesRejectedTotal.Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SalesTotal.Inc()
	}
	return sale, nil
}
