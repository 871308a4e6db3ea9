package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
	"github.com/dcastano/cafeteriapos/internal/sales/domain"
	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/db"
)

type saleRepository struct{ db *db.DB }

func NewSaleRepository(database *db.DB) domain.SaleRepository {
	return &saleRepository{db: database}
}

// SellWithLock SELECT ... FOR UPDATE 锁定商品行，库存检查到两次写入
// 提交为一个事务；调用方断开（context 取消）时整体回滚。
func (r *saleRepository) SellWithLock(ctx context.Context, productID uint, apply func(p *catalogdomain.Product) (*domain.Sale, error)) (*domain.Sale, error) {
	var sale *domain.Sale
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var product catalogdomain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "producto no encontrado")
			}
			return err
		}

		s, err := apply(&product)
		if err != nil {
			return err
		}

		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Sale{}).
		Where("producto_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *saleRepository) BestSelling(ctx context.Context) (*domain.BestSeller, error) {
	var row domain.BestSeller
	err := r.db.WithContext(ctx).Table("ventas").
		Select("ventas.producto_id AS producto_id, productos.nombre_producto AS nombre_producto, SUM(ventas.cantidad) AS total_ventas").
		Joins("JOIN productos ON productos.id = ventas.producto_id").
		Group("ventas.producto_id, productos.nombre_producto").
		Order("total_ventas DESC, ventas.producto_id ASC").
		Limit(1).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
