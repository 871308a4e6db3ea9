package domain

import "time"

// Product 商品。precio 为最小货币单位的整数，stock 恒 ≥ 0，
// 只允许管理操作和销售扣减修改。
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
	Name      string    `gorm:"column:nombre_producto;type:varchar(255);uniqueIndex;not null" json:"nombre_producto"`
	Reference string    `gorm:"column:referencia;type:varchar(100);not null" json:"referencia"`
	Price     int64     `gorm:"column:precio;not null" json:"precio"`
	Weight    int       `gorm:"column:peso;not null" json:"peso"`
	Category  string    `gorm:"column:categoria;type:varchar(100);index" json:"categoria"`
	Stock     int       `gorm:"column:stock;not null;default:0" json:"stock"`
}

func (Product) TableName() string { return "productos" }
