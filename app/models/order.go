package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// transitions maps each state to the states it may move to.
// pending → confirmed (farmer accepts) or cancelled (client backs out);
// confirmed → delivered. delivered and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderDelivered},
}

// CanTransition reports whether an order in state from may move to state to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order records a purchase of one product. Product name and unit price are
// snapshotted at placement so later catalogue edits don't rewrite history.
type Order struct {
	gorm.Model
	ClientID  uint `gorm:"not null;index" json:"client_id"`
	FarmerID  uint `gorm:"not null;index" json:"farmer_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`

	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	Quantity    int     `gorm:"not null"          json:"quantity"`
	UnitPrice   float64 `gorm:"not null"          json:"unit_price"`
	TotalPrice  float64 `gorm:"not null"          json:"total_price"`

	Status          OrderStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	DeliveryAddress string      `gorm:"size:512"                               json:"delivery_address,omitempty"`

	Client  *User    `gorm:"foreignKey:ClientID"  json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}
