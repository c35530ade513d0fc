package models

import (
	"time"
)

// ProductType identifies which product line a catalog, cart or order row
// belongs to.
type ProductType string

const (
	TypeNewArrival         ProductType = "new_arrival"
	TypeSpecialOffer       ProductType = "special_offer"
	TypeAcrylicCustomize   ProductType = "acrylic_customize"
	TypeCanvasCustomize    ProductType = "canvas_customize"
	TypeBacklightCustomize ProductType = "backlight_customize"
	TypeFrameCustomize     ProductType = "frame_customize"
)

var productTypes = map[ProductType]bool{
	TypeNewArrival:         true,
	TypeSpecialOffer:       true,
	TypeAcrylicCustomize:   true,
	TypeCanvasCustomize:    true,
	TypeBacklightCustomize: true,
	TypeFrameCustomize:     true,
}

// customizedTypes carry the customer's own photo and have no backing
// catalog row, so CartItem.ProductID may be empty for them.
var customizedTypes = map[ProductType]bool{
	TypeAcrylicCustomize:   true,
	TypeCanvasCustomize:    true,
	TypeBacklightCustomize: true,
	TypeFrameCustomize:     true,
}

func ValidProductType(t ProductType) bool { return productTypes[t] }

func RequiresCatalogProduct(t ProductType) bool { return !customizedTypes[t] }

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderKind discriminates the two order shapes: a single cart-item order
// and a frame order holding its own line items.
type OrderKind string

const (
	KindSingle    OrderKind = "single"
	KindLineItems OrderKind = "line_items"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"-"`
	JTI       string `gorm:"index;not null"  json:"jti"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"not null"                 json:"name"`
	Description string        `json:"description"`
	ProductType ProductType   `gorm:"index;not null"           json:"product_type"`
	ImageURL    string        `json:"image_url"`
	Sizes       []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductSize is one row of a product's sizes/price list.
type ProductSize struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Size      string  `gorm:"not null"       json:"size"`
	Thickness string  `json:"thickness"`
	Price     float64 `gorm:"not null"       json:"price"`
}

type CartItem struct {
	ID          uint        `gorm:"primaryKey"     json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	ProductID   *uint       `json:"product_id"`
	ProductType ProductType `gorm:"not null"       json:"product_type"`
	Title       string      `json:"title"`
	Quantity    uint        `gorm:"default:1;check:quantity>0" json:"quantity"`
	Size        string      `json:"size"`
	Thickness   string      `json:"thickness"`
	ImageURL    string      `json:"image_url"`
	Price       float64     `gorm:"not null" json:"price"`
	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Order is the single tagged-variant order shape. Kind "single" references
// the source cart item; kind "line_items" owns embedded LineItems and keeps
// Amount denormalized as their sum so price sorting works on both shapes.
type Order struct {
	ID            uint            `gorm:"primaryKey"     json:"id"`
	Kind          OrderKind       `gorm:"not null"       json:"kind"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID"     json:"user,omitempty"`
	CartItemID    *uint           `json:"cart_item_id"`
	CartItem      *CartItem       `gorm:"foreignKey:CartItemID" json:"cart_item,omitempty"`
	ProductType   ProductType     `gorm:"not null" json:"product_type"`
	DeliveryName  string          `gorm:"not null" json:"delivery_name"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Pincode       string          `json:"pincode"`
	ImageURL      string          `json:"image_url"`
	Amount        float64         `gorm:"not null" json:"amount"`
	Status        OrderStatus     `gorm:"index;not null;default:'Pending'" json:"status"`
	PaymentID     string          `json:"payment_id"`
	PaymentStatus PaymentStatus   `gorm:"not null;default:'pending'" json:"payment_status"`
	LineItems     []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// OrderLineItem is one embedded row of a frame order. Both image URLs are
// canonical copies made at order-creation time, never the session uploads.
type OrderLineItem struct {
	ID            uint    `gorm:"primaryKey"     json:"id"`
	OrderID       uint    `gorm:"index;not null" json:"order_id"`
	Title         string  `gorm:"not null" json:"title"`
	Shape         string  `gorm:"not null" json:"shape"`
	Color         string  `gorm:"not null" json:"color"`
	Size          string  `gorm:"not null" json:"size"`
	FrameImageURL string  `gorm:"not null" json:"frame_image_url"`
	PhotoImageURL string  `gorm:"not null" json:"photo_image_url"`
	Price         float64 `json:"price"`
	Quantity      uint    `gorm:"default:1" json:"quantity"`
}
