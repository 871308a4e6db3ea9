package application

import (
	"context"

	"github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

type CatalogQueryService struct{ repo domain.ProductRepository }

func NewCatalogQueryService(repo domain.ProductRepository) *CatalogQueryService {
	return &CatalogQueryService{repo: repo}
}

func (s *CatalogQueryService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "producto no encontrado")
	}
	return product, nil
}

// MaxStockProduct 库存最高的商品，并列时取 id 最小者；目录为空返回 (nil, nil)
func (s *CatalogQueryService) MaxStockProduct(ctx context.Context) (*domain.Product, error) {
	return s.repo.MaxStock(ctx)
}
