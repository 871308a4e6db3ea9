package domain

import (
	"context"

	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
)

type SaleRepository interface {
	// SellWithLock 在单个事务内对目标商品持行级排他锁执行 apply：
	// apply 校验库存并返回待写入的销售记录，随后商品与销售在同一
	// 事务中落盘，任一写入失败则整体回滚。商品不存在返回 NotFound。
	SellWithLock(ctx context.Context, productID uint, apply func(p *catalogdomain.Product) (*Sale, error)) (*Sale, error)

	// CountByProduct 统计引用某商品的销售记录数
	CountByProduct(ctx context.Context, productID uint) (int64, error)

	// BestSelling 按商品汇总销量取最高者，并列时取商品 id 最小者；
	// 无销售记录返回 (nil, nil)
	BestSelling(ctx context.Context) (*BestSeller, error)
}
