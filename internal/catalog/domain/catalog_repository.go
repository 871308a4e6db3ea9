package domain

import "context"

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	// GetByID 未找到时返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*Product, error)
	// GetByName 未找到时返回 (nil, nil)
	GetByName(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	// MaxStock 返回库存最高的商品，并列时取 id 最小者；目录为空返回 (nil, nil)
	MaxStock(ctx context.Context) (*Product, error)
}
