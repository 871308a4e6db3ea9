package application

import (
	"context"

	"github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
)

// ProductCommand 创建/更新商品的完整字段集，所有字段必填
type ProductCommand struct {
	Name      string
	Reference string
	Price     int64
	Weight    int
	Category  string
	Stock     int
}

// SaleCounter 销售台账的只读端口，删除商品前检查是否有销售记录引用
type SaleCounter interface {
	CountByProduct(ctx context.Context, productID uint) (int64, error)
}

type CatalogCommandService struct {
	repo  domain.ProductRepository
	sales SaleCounter
}

func NewCatalogCommandService(repo domain.ProductRepository, sales SaleCounter) *CatalogCommandService {
	return &CatalogCommandService{repo: repo, sales: sales}
}

func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd ProductCommand) (*domain.Product, error) {
	if err := s.validate(ctx, cmd, 0); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:      cmd.Name,
		Reference: cmd.Reference,
		Price:     cmd.Price,
		Weight:    cmd.Weight,
		Category:  cmd.Category,
		Stock:     cmd.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogCommandService) UpdateProduct(ctx context.Context, id uint, cmd ProductCommand) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "producto no encontrado")
	}

	if err := s.validate(ctx, cmd, id); err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.Reference = cmd.Reference
	product.Price = cmd.Price
	product.Weight = cmd.Weight
	product.Category = cmd.Category
	product.Stock = cmd.Stock

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct 有销售记录引用的商品不可删除，保证台账外键始终有效
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "producto no encontrado")
	}

	count, err := s.sales.CountByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.KindConflict, "el producto tiene ventas registradas y no puede eliminarse")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return product, nil
}

// validate ignoreID 大于 0 时表示更新，名称唯一性检查跳过自身
func (s *CatalogCommandService) validate(ctx context.Context, cmd ProductCommand, ignoreID uint) error {
	fields := map[string][]string{}
	if cmd.Name == "" {
		fields["nombre_producto"] = append(fields["nombre_producto"], "el campo es obligatorio")
	}
	if cmd.Reference == "" {
		fields["referencia"] = append(fields["referencia"], "el campo es obligatorio")
	}
	if cmd.Price < 0 {
		fields["precio"] = append(fields["precio"], "debe ser mayor o igual a 0")
	}
	if cmd.Weight < 0 {
		fields["peso"] = append(fields["peso"], "debe ser mayor o igual a 0")
	}
	if cmd.Category == "" {
		fields["categoria"] = append(fields["categoria"], "el campo es obligatorio")
	}
	if cmd.Stock < 0 {
		fields["stock"] = append(fields["stock"], "debe ser mayor o igual a 0")
	}

	if cmd.Name != "" {
		existing, err := s.repo.GetByName(ctx, cmd.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != ignoreID {
			fields["nombre_producto"] = append(fields["nombre_producto"], "el nombre ya está en uso")
		}
	}

	if len(fields) > 0 {
		return apperrors.WithFields("error de validación", fields)
	}
	return nil
}
