package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/models"
)

// OrderSort is the normalized sort key applied to order listings.
type OrderSort string

const (
	SortNewest    OrderSort = "created_at DESC"
	SortOldest    OrderSort = "created_at ASC"
	SortPriceDesc OrderSort = "amount DESC, created_at DESC"
	SortPriceAsc  OrderSort = "amount ASC, created_at DESC"
)

// OrderQuery is the fully resolved order listing: status and period filters
// already expanded, user scope already narrowed to concrete ids.
type OrderQuery struct {
	UserIDs  []uint // nil means no user filter (admin, no search)
	Statuses []models.OrderStatus
	Start    *time.Time
	End      *time.Time
	Sort     OrderSort
	Offset   int
	Limit    int
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("CartItem").
		Preload("LineItems").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, q OrderQuery) (int64, []models.Order, error) {
	base := r.DB.WithContext(ctx).Model(&models.Order{})

	if q.UserIDs != nil {
		base = base.Where("user_id IN ?", q.UserIDs)
	}
	if len(q.Statuses) > 0 {
		base = base.Where("status IN ?", q.Statuses)
	}
	if q.Start != nil && q.End != nil {
		base = base.Where("created_at BETWEEN ? AND ?", *q.Start, *q.End)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	sort := q.Sort
	if sort == "" {
		sort = SortNewest
	}

	var orders []models.Order
	if err := base.
		Preload("User").
		Preload("CartItem").
		Preload("LineItems").
		Order(string(sort)).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}

	return total, orders, nil
}

// UpdateOrderStatus overwrites only the status column; amount and payment
// fields are never touched here.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SetPaymentResult(ctx context.Context, id uint, paymentID string, status models.PaymentStatus) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_id":     paymentID,
			"payment_status": status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
