// Package listeners registers the application's event handlers.
package listeners

import (
	"fmt"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/pkg/event"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/notification"
)

// Register wires the order lifecycle listeners. Call once at boot.
func Register() {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		o, ok := payload.(models.Order)
		if !ok {
			return
		}
		logger.Info("event: order placed",
			"order_id", o.ID, "farmer_id", o.FarmerID, "total", o.TotalPrice)
		notification.Send(o.FarmerID, &OrderPlacedNotification{Order: o})
	})

	event.Listen(services.EventOrderCancelled, func(payload interface{}) {
		o, ok := payload.(models.Order)
		if !ok {
			return
		}
		logger.Info("event: order cancelled",
			"order_id", o.ID, "product_id", o.ProductID, "restocked", o.Quantity)
		notification.Send(o.FarmerID, &OrderCancelledNotification{Order: o})
	})

	event.Listen(services.EventOrderStatus, func(payload interface{}) {
		o, ok := payload.(models.Order)
		if !ok {
			return
		}
		logger.Info("event: order status changed",
			"order_id", o.ID, "status", o.Status)
		notification.Send(o.ClientID, &OrderStatusNotification{Order: o})
	})
}

// OrderPlacedNotification tells the farmer a new order came in.
type OrderPlacedNotification struct {
	Order models.Order
}

func (n *OrderPlacedNotification) Via() []string { return []string{"database"} }

func (n *OrderPlacedNotification) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		Type: services.EventOrderPlaced,
		Message: fmt.Sprintf("New order: %d %s of %s",
			n.Order.Quantity, unitWord(n.Order), n.Order.ProductName),
		Data: n.Order,
	}
}

// OrderCancelledNotification tells the farmer an order was called off.
type OrderCancelledNotification struct {
	Order models.Order
}

func (n *OrderCancelledNotification) Via() []string { return []string{"database"} }

func (n *OrderCancelledNotification) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		Type:    services.EventOrderCancelled,
		Message: fmt.Sprintf("Order #%d for %s was cancelled", n.Order.ID, n.Order.ProductName),
		Data:    n.Order,
	}
}

// OrderStatusNotification tells the client their order moved along.
type OrderStatusNotification struct {
	Order models.Order
}

func (n *OrderStatusNotification) Via() []string { return []string{"database"} }

func (n *OrderStatusNotification) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		Type:    services.EventOrderStatus,
		Message: fmt.Sprintf("Your order for %s is now %s", n.Order.ProductName, n.Order.Status),
		Data:    n.Order,
	}
}

func unitWord(o models.Order) string {
	if o.Quantity == 1 {
		return "unit"
	}
	return "units"
}
