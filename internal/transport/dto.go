package transport

import (
	"github.com/framepix/frame_shop/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsAdmin      bool   `json:"is_admin"`
}

type AddToCartRequest struct {
	ProductID   *uint              `json:"product_id"`
	ProductType models.ProductType `json:"product_type"`
	Title       string             `json:"title"`
	Quantity    uint               `json:"quantity"`
	Size        string             `json:"size"`
	Thickness   string             `json:"thickness"`
	ImageURL    string             `json:"image_url"`
	Price       float64            `json:"price"`
}

type UpdateCartItemRequest struct {
	Quantity uint `json:"quantity"`
}

type ProductSizeInput struct {
	Size      string  `json:"size"`
	Thickness string  `json:"thickness"`
	Price     float64 `json:"price"`
}

type CreateProductRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ProductType models.ProductType `json:"product_type"`
	ImageURL    string             `json:"image_url"`
	Sizes       []ProductSizeInput `json:"sizes"`
}

type PatchProductRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	ProductType *models.ProductType `json:"product_type"`
	ImageURL    *string             `json:"image_url"`
	Sizes       []ProductSizeInput  `json:"sizes"`
}

type DeliveryDetails struct {
	Name    string `json:"name" form:"name"`
	Address string `json:"address" form:"address"`
	Phone   string `json:"phone" form:"phone"`
	Email   string `json:"email" form:"email"`
	Pincode string `json:"pincode" form:"pincode"`
}

// OrderLineItemInput is one frame-order line. Both URLs point at session
// uploads; the service re-uploads them to canonical storage.
type OrderLineItemInput struct {
	Title         string  `json:"title"`
	Shape         string  `json:"shape"`
	Color         string  `json:"color"`
	Size          string  `json:"size"`
	FrameImageURL string  `json:"frame_image_url"`
	PhotoImageURL string  `json:"photo_image_url"`
	Price         float64 `json:"price"`
	Quantity      uint    `json:"quantity"`
}

type CreateOrderRequest struct {
	CartItemID  *uint                `json:"cart_item_id"`
	Items       []OrderLineItemInput `json:"items"`
	ProductType models.ProductType   `json:"product_type"`
	Delivery    DeliveryDetails      `json:"delivery_details"`
	Amount      float64              `json:"amount"`
}

type ListOrdersQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	SortBy string `query:"sortBy"`
	Period string `query:"period"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// OrdersPage is the list envelope shared by the admin and user views.
type OrdersPage struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int64          `json:"totalPages"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type CreatePaymentRequest struct {
	OrderID uint    `json:"order_id"`
	Amount  float64 `json:"amount"`
}

type CreatePaymentResponse struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Currency       string `json:"currency"`
	Amount         int64  `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID          uint   `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}
