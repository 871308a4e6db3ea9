package application

import (
	"context"

	"github.com/dcastano/cafeteriapos/internal/sales/domain"
)

type SaleQueryService struct{ sales domain.SaleRepository }

func NewSaleQueryService(sales domain.SaleRepository) *SaleQueryService {
	return &SaleQueryService{sales: sales}
}

// BestSellingProduct 按销量汇总的最畅销商品，并列时取商品 id 最小者；
// 无销售记录返回 (nil, nil)
func (s *SaleQueryService) BestSellingProduct(ctx context.Context) (*domain.BestSeller, error) {
	return s.sales.BestSelling(ctx)
}
