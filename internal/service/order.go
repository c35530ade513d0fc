package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/payment"
	"github.com/framepix/frame_shop/internal/repo"
	"github.com/framepix/frame_shop/internal/transport"
	"github.com/framepix/frame_shop/internal/util"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrAccessDenied      = errors.New("access denied")      // 403
	ErrInvalidTransition = errors.New("invalid transition") // 409
)

// Uploader is the media-store dependency of the order flow.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	UploadFromURL(ctx context.Context, srcURL string) (string, error)
}

// Publisher emits domain events. Publish failures are logged and swallowed:
// events are observability, not state.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// transitions is the explicit state table. Delivered and Cancelled are
// terminal and accept nothing; everything else only moves forward.
var transitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.StatusPending: {
		models.StatusShipped:        true,
		models.StatusOutForDelivery: true,
		models.StatusDelivered:      true,
		models.StatusCancelled:      true,
	},
	models.StatusShipped: {
		models.StatusOutForDelivery: true,
		models.StatusDelivered:      true,
		models.StatusCancelled:      true,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered: true,
		models.StatusCancelled: true,
	},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

type OrderService struct {
	Repo     *repo.GormRepo
	Media    Uploader
	Gateway  *payment.Gateway
	Producer Publisher
}

// UploadedFile is a request-attached binary, already opened by the handler.
type UploadedFile struct {
	Filename string
	Reader   io.Reader
}

func (svc *OrderService) publish(ctx context.Context, key string, event map[string]interface{}) {
	if svc.Producer == nil {
		return
	}
	if err := svc.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

// CreateOrder persists a new order with status Pending. The source cart
// item, when referenced, is left untouched: conversion does not consume it.
func (svc *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest, userID uint, file *UploadedFile) (*models.Order, error) {
	if strings.TrimSpace(req.Delivery.Name) == "" {
		return nil, fmt.Errorf("%w: delivery name required", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	if !models.ValidProductType(req.ProductType) {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, req.ProductType)
	}

	if len(req.Items) > 0 {
		return svc.createFrameOrder(ctx, req, userID)
	}
	return svc.createSingleOrder(ctx, req, userID, file)
}

func (svc *OrderService) createSingleOrder(ctx context.Context, req transport.CreateOrderRequest, userID uint, file *UploadedFile) (*models.Order, error) {
	// image resolution order: fresh upload wins, then the cart snapshot,
	// then nothing; the result is fixed at creation and never re-derived
	var imageURL string
	switch {
	case file != nil:
		url, err := svc.Media.Upload(ctx, file.Filename, file.Reader)
		if err != nil {
			return nil, err
		}
		imageURL = url
	case req.CartItemID != nil:
		item, err := svc.Repo.GetCartItem(ctx, *req.CartItemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, *req.CartItemID)
			}
			return nil, err
		}
		imageURL = item.ImageURL
	}

	order := &models.Order{
		Kind:          models.KindSingle,
		UserID:        userID,
		CartItemID:    req.CartItemID,
		ProductType:   req.ProductType,
		DeliveryName:  req.Delivery.Name,
		Address:       req.Delivery.Address,
		Phone:         req.Delivery.Phone,
		Email:         req.Delivery.Email,
		Pincode:       req.Delivery.Pincode,
		ImageURL:      imageURL,
		Amount:        req.Amount,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := svc.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(userID), map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"amount":  order.Amount,
	})
	return order, nil
}

func (svc *OrderService) createFrameOrder(ctx context.Context, req transport.CreateOrderRequest, userID uint) (*models.Order, error) {
	items := make([]models.OrderLineItem, 0, len(req.Items))

	for i, in := range req.Items {
		if in.Title == "" || in.Shape == "" || in.Color == "" || in.Size == "" ||
			in.FrameImageURL == "" || in.PhotoImageURL == "" {
			return nil, fmt.Errorf("%w: item %d is missing a required field", ErrValidation, i)
		}

		// both images become canonical copies, decoupled from whatever
		// session storage the client uploaded to
		frameURL, err := svc.Media.UploadFromURL(ctx, in.FrameImageURL)
		if err != nil {
			return nil, err
		}
		photoURL, err := svc.Media.UploadFromURL(ctx, in.PhotoImageURL)
		if err != nil {
			return nil, err
		}

		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}

		items = append(items, models.OrderLineItem{
			Title:         in.Title,
			Shape:         in.Shape,
			Color:         in.Color,
			Size:          in.Size,
			FrameImageURL: frameURL,
			PhotoImageURL: photoURL,
			Price:         in.Price,
			Quantity:      qty,
		})
	}

	order := &models.Order{
		Kind:          models.KindLineItems,
		UserID:        userID,
		ProductType:   req.ProductType,
		DeliveryName:  req.Delivery.Name,
		Address:       req.Delivery.Address,
		Phone:         req.Delivery.Phone,
		Email:         req.Delivery.Email,
		Pincode:       req.Delivery.Pincode,
		Amount:        req.Amount,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		LineItems:     items,
		CreatedAt:     time.Now().UTC(),
	}

	if err := svc.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(userID), map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"amount":  order.Amount,
		"items":   len(items),
	})
	return order, nil
}

// ListAllOrders is the admin view across every user.
func (svc *OrderService) ListAllOrders(ctx context.Context, q transport.ListOrdersQuery) (*transport.OrdersPage, error) {
	return svc.listOrders(ctx, q, nil)
}

// ListUserOrders is scoped to one owner. A search term acts as a yes/no
// gate on the owner's name here, not a real filter: a non-matching name
// yields an empty page no matter how many orders the user owns.
func (svc *OrderService) ListUserOrders(ctx context.Context, q transport.ListOrdersQuery, userID uint) (*transport.OrdersPage, error) {
	return svc.listOrders(ctx, q, &userID)
}

func (svc *OrderService) listOrders(ctx context.Context, q transport.ListOrdersQuery, scopeUserID *uint) (*transport.OrdersPage, error) {
	offset, limit := util.Calculate(q.Page, q.Limit)
	page := q.Page
	if page < 1 {
		page = 1
	}

	empty := &transport.OrdersPage{Orders: []models.Order{}, Page: page, Limit: limit}

	var userIDs []uint
	if scopeUserID != nil {
		if q.Search != "" {
			owner, err := svc.Repo.GetUserByID(ctx, *scopeUserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return empty, nil
				}
				return nil, err
			}
			if !strings.Contains(strings.ToLower(owner.Name), strings.ToLower(q.Search)) {
				return empty, nil
			}
		}
		userIDs = []uint{*scopeUserID}
	} else if q.Search != "" {
		ids, err := svc.Repo.FindUserIDsByName(ctx, q.Search)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return empty, nil
		}
		userIDs = ids
	}

	start, end := periodRange(time.Now(), q.Period)

	total, orders, err := svc.Repo.ListOrders(ctx, repo.OrderQuery{
		UserIDs:  userIDs,
		Statuses: statusFilter(q.Status),
		Start:    start,
		End:      end,
		Sort:     sortKey(q.SortBy),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &transport.OrdersPage{
		Orders:     orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetOrder distinguishes "exists but not yours" (ErrAccessDenied) from
// "does not exist" (ErrNotFound) when a requesting user is supplied.
func (svc *OrderService) GetOrder(ctx context.Context, id uint, requestingUserID *uint) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if requestingUserID != nil && *requestingUserID != order.UserID {
		return nil, fmt.Errorf("%w: order %d", ErrAccessDenied, id)
	}
	return order, nil
}

// UpdateStatus checks the transition table before writing. A same-status
// write is a no-op, which keeps concurrent admin sessions last-write-wins
// without surfacing spurious conflicts.
func (svc *OrderService) UpdateStatus(ctx context.Context, id uint, newStatus string) (*models.Order, error) {
	next := models.OrderStatus(newStatus)
	if _, known := transitions[next]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if order.Status == next {
		return order, nil
	}
	if !transitions[order.Status][next] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if err := svc.Repo.UpdateOrderStatus(ctx, id, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	order.Status = next

	svc.publish(ctx, fmt.Sprint(order.UserID), map[string]interface{}{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  string(next),
	})
	return order, nil
}

// DeleteOrder is a hard delete with no cascade onto the source cart item.
func (svc *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := svc.Repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// CreatePayment registers a pending charge with the gateway for an order
// the caller owns.
func (svc *OrderService) CreatePayment(ctx context.Context, req transport.CreatePaymentRequest, userID uint) (*transport.CreatePaymentResponse, error) {
	order, err := svc.GetOrder(ctx, req.OrderID, &userID)
	if err != nil {
		return nil, err
	}
	if req.Amount > 0 && req.Amount != order.Amount {
		return nil, fmt.Errorf("%w: amount does not match order", ErrValidation)
	}

	gw, err := svc.Gateway.CreateOrder(ctx, order.Amount, "INR", fmt.Sprintf("order_%d", order.ID))
	if err != nil {
		return nil, err
	}

	return &transport.CreatePaymentResponse{
		GatewayOrderID: gw.ID,
		Currency:       gw.Currency,
		Amount:         gw.Amount,
	}, nil
}

// VerifyPayment checks the gateway signature and records the result. A
// payment already marked success is never downgraded, whatever arrives
// afterwards.
func (svc *OrderService) VerifyPayment(ctx context.Context, req transport.VerifyPaymentRequest, userID uint) error {
	order, err := svc.GetOrder(ctx, req.OrderID, &userID)
	if err != nil {
		return err
	}

	if err := svc.Gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature); err != nil {
		if order.PaymentStatus != models.PaymentSuccess {
			if dbErr := svc.Repo.SetPaymentResult(ctx, order.ID, req.GatewayPaymentID, models.PaymentFailed); dbErr != nil {
				logging.FromContext(ctx).Error("record failed payment", "error", dbErr)
			}
		}
		return err
	}

	if err := svc.Repo.SetPaymentResult(ctx, order.ID, req.GatewayPaymentID, models.PaymentSuccess); err != nil {
		return err
	}

	svc.publish(ctx, fmt.Sprint(order.UserID), map[string]interface{}{
		"type":      "payment_verified",
		"orderID":   order.ID,
		"paymentID": req.GatewayPaymentID,
	})
	return nil
}
