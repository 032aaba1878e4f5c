package services

import (
	"errors"
	"time"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/repositories"
	"github.com/freshmandi/freshmandi/pkg/event"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/metrics"
	"github.com/freshmandi/freshmandi/pkg/orm"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"gorm.io/gorm"
)

// PopularityJobName is the queue registration name for the sold-units bump.
const PopularityJobName = "product.popularity"

// Event names fired by the order lifecycle.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
	EventOrderStatus    = "order.status_changed"
)

// OrderService owns the order lifecycle: placement reserves stock before the
// record exists, cancellation claims the transition before returning stock.
// Both rely on conditional updates in the repositories, never on in-process
// locks.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
	}
}

// PlaceOrderInput carries a purchase request.
type PlaceOrderInput struct {
	ProductID       uint   `json:"product_id"       validate:"required,gt=0"`
	Quantity        int    `json:"quantity"         validate:"required,integer,gt=0"`
	DeliveryAddress string `json:"delivery_address" validate:"nullable,max=512"`
}

// Place reserves stock first and only then writes the order record, so the
// marketplace can never sell the same units twice. If the record write
// fails, the reservation is compensated.
func (s *OrderService) Place(clientID uint, in PlaceOrderInput) (models.Order, error) {
	if in.Quantity <= 0 {
		return models.Order{}, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrProductNotFound
		}
		return models.Order{}, err
	}

	reserved, err := s.products.Reserve(in.ProductID, in.Quantity)
	if err != nil {
		return models.Order{}, err
	}
	if !reserved {
		metrics.ReservationsRejected.Inc()
		// The guard failed: either stock ran out or the product vanished
		// between the read and the reservation.
		if _, err := s.products.FindByID(in.ProductID); errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrProductNotFound
		}
		return models.Order{}, ErrInsufficientStock
	}

	order := models.Order{
		ClientID:        clientID,
		FarmerID:        product.FarmerID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		Quantity:        in.Quantity,
		UnitPrice:       product.Price,
		TotalPrice:      product.Price * float64(in.Quantity),
		Status:          models.OrderPending,
		DeliveryAddress: in.DeliveryAddress,
	}
	if err := s.orders.Create(&order); err != nil {
		// The units were reserved but the record never existed: give them back.
		if relErr := s.products.Release(in.ProductID, in.Quantity); relErr != nil {
			logger.Error("compensating release failed",
				"product_id", in.ProductID, "quantity", in.Quantity, "error", relErr)
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	event.FireAsync(EventOrderPlaced, order)
	logger.Info("order placed",
		"order_id", order.ID, "client_id", clientID,
		"product_id", product.ID, "quantity", in.Quantity, "total", order.TotalPrice)
	return order, nil
}

// Cancel backs a client out of a pending order and returns the units to
// stock. The status claim runs first, so only one caller can ever trigger
// the release. If the product was delisted in the meantime, the claim still
// succeeds and the units are dropped.
func (s *OrderService) Cancel(orderID, clientID uint) (models.Order, error) {
	rows, err := s.orders.ClaimCancel(orderID, clientID)
	if err != nil {
		return models.Order{}, err
	}
	if rows == 0 {
		if _, err := s.orders.FindForClient(orderID, clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, ErrOrderNotFound
			}
			return models.Order{}, err
		}
		// The order exists but was not pending.
		return models.Order{}, ErrInvalidState
	}

	order, err := s.orders.FindForClient(orderID, clientID)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.products.Release(order.ProductID, order.Quantity); err != nil {
		logger.Error("stock release failed",
			"order_id", orderID, "product_id", order.ProductID, "error", err)
		return models.Order{}, err
	}

	metrics.OrdersCancelled.Inc()
	event.FireAsync(EventOrderCancelled, order)
	logger.Info("order cancelled", "order_id", orderID, "client_id", clientID)
	return order, nil
}

// UpdateStatus moves an order forward on behalf of the selling farmer.
// Farmers may confirm a pending order or mark a confirmed one delivered;
// every other target is rejected.
func (s *OrderService) UpdateStatus(orderID, farmerID uint, to models.OrderStatus) (models.Order, error) {
	var from models.OrderStatus
	switch to {
	case models.OrderConfirmed:
		from = models.OrderPending
	case models.OrderDelivered:
		from = models.OrderConfirmed
	default:
		return models.Order{}, ErrInvalidStatus
	}

	rows, err := s.orders.Transition(orderID, farmerID, from, to)
	if err != nil {
		return models.Order{}, err
	}
	if rows == 0 {
		if _, err := s.orders.FindForFarmer(orderID, farmerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, ErrOrderNotFound
			}
			return models.Order{}, err
		}
		return models.Order{}, ErrInvalidState
	}

	order, err := s.orders.FindForFarmer(orderID, farmerID)
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(to)).Inc()
	event.FireAsync(EventOrderStatus, order)

	if to == models.OrderDelivered {
		job := &PopularityJob{ProductID: order.ProductID, Quantity: order.Quantity}
		if err := queue.Dispatch(PopularityJobName, job); err != nil {
			logger.Warn("popularity dispatch failed", "order_id", orderID, "error", err)
		}
	}

	logger.Info("order status changed", "order_id", orderID, "farmer_id", farmerID, "to", to)
	return order, nil
}

// GetForClient returns one of the client's orders.
func (s *OrderService) GetForClient(orderID, clientID uint) (models.Order, error) {
	order, err := s.orders.FindForClient(orderID, clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// GetForFarmer returns one order on the farmer's produce.
func (s *OrderService) GetForFarmer(orderID, farmerID uint) (models.Order, error) {
	order, err := s.orders.FindForFarmer(orderID, farmerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// ListForClient returns the client's order history.
func (s *OrderService) ListForClient(clientID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, orm.Pagination{}, ErrInvalidStatus
	}
	return s.orders.ForClient(clientID, status, page, limit)
}

// ListForFarmer returns the incoming orders on the farmer's produce.
func (s *OrderService) ListForFarmer(farmerID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, orm.Pagination{}, ErrInvalidStatus
	}
	return s.orders.ForFarmer(farmerID, status, page, limit)
}

// topProductsLimit caps the per-product breakdown in the revenue report.
const topProductsLimit = 10

// RevenueSummary is a farmer's delivered-order earnings for one period.
type RevenueSummary struct {
	Period        string                           `json:"period"`
	From          time.Time                        `json:"from"`
	Orders        int64                            `json:"orders"`
	Units         int64                            `json:"units"`
	Revenue       float64                          `json:"revenue"`
	AvgOrderValue float64                          `json:"avg_order_value"`
	TopProducts   []repositories.RevenueTopProduct `json:"top_products"`
}

// Revenue reports the farmer's delivered-order earnings. period is "week"
// (rolling seven days), "month" (since the first of the current month, the
// default), or "year" (since January 1st).
func (s *OrderService) Revenue(farmerID uint, period string) (RevenueSummary, error) {
	now := time.Now()
	var since time.Time
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month", "":
		period = "month"
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "year":
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return RevenueSummary{}, ErrInvalidPeriod
	}

	report, err := s.orders.RevenueForFarmer(farmerID, since)
	if err != nil {
		return RevenueSummary{}, err
	}
	top, err := s.orders.TopProductsForFarmer(farmerID, since, topProductsLimit)
	if err != nil {
		return RevenueSummary{}, err
	}

	summary := RevenueSummary{
		Period:      period,
		From:        since,
		Orders:      report.Orders,
		Units:       report.Units,
		Revenue:     report.Revenue,
		TopProducts: top,
	}
	if report.Orders > 0 {
		summary.AvgOrderValue = report.Revenue / float64(report.Orders)
	}
	return summary, nil
}

// PopularityJob credits delivered units to a product's popularity score.
type PopularityJob struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (j *PopularityJob) Handle() error {
	return repositories.NewProductRepository().BumpPopularity(j.ProductID, j.Quantity)
}
