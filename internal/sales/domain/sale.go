package domain

import (
	"time"

	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
)

// Sale 一次完成的销售。total_venta 按成交时的商品价格冻结，
// 写入后不再变更，记录也从不删除。
type Sale struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ProductID uint      `gorm:"column:producto_id;not null;index" json:"producto_id"`
	Quantity  int       `gorm:"column:cantidad;not null" json:"cantidad"`
	Total     int64     `gorm:"column:total_venta;not null" json:"total_venta"`
}

func (Sale) TableName() string { return "ventas" }

// NewSale 以商品当前价格计算总额
func NewSale(product *catalogdomain.Product, quantity int) *Sale {
	return &Sale{
		ProductID: product.ID,
		Quantity:  quantity,
		Total:     product.Price * int64(quantity),
	}
}

// BestSeller 最畅销商品的聚合结果
type BestSeller struct {
	ProductID uint   `gorm:"column:producto_id" json:"id"`
	Name      string `gorm:"column:nombre_producto" json:"nombre_producto"`
	TotalSold int64  `gorm:"column:total_ventas" json:"total_ventas"`
}
