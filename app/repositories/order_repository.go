package repositories

import (
	"time"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/metrics"
	"github.com/freshmandi/freshmandi/pkg/orm"
)

// OrderRepository handles database operations for Order. Status changes go
// through conditional updates so concurrent writers cannot double-apply a
// transition.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order record.
func (r *OrderRepository) Create(o *models.Order) error {
	return orm.DB().Create(o)
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).First(&o)
	return o, err
}

// FindForClient looks up an order belonging to the given client. Orders of
// other clients are indistinguishable from missing ones.
func (r *OrderRepository) FindForClient(id, clientID uint) (models.Order, error) {
	var o models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("id = ? AND client_id = ?", id, clientID).
		First(&o)
	return o, err
}

// FindForFarmer looks up an order for a product sold by the given farmer.
func (r *OrderRepository) FindForFarmer(id, farmerID uint) (models.Order, error) {
	var o models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		First(&o)
	return o, err
}

// ForClient returns the client's orders, newest first.
func (r *OrderRepository) ForClient(clientID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{}).Where("client_id = ?", clientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Order("created_at desc")

	var orders []models.Order
	pagination, err := q.GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// ForFarmer returns the orders on the farmer's produce, newest first.
func (r *OrderRepository) ForFarmer(farmerID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{}).Where("farmer_id = ?", farmerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Order("created_at desc")

	var orders []models.Order
	pagination, err := q.GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// Transition moves an order owned by farmerID from one status to another in
// a single conditional UPDATE. Zero rows affected means the order is missing,
// owned by someone else, or no longer in the from state.
func (r *OrderRepository) Transition(id, farmerID uint, from, to models.OrderStatus) (int64, error) {
	defer metrics.ObserveDBQuery("order.transition", time.Now())
	return orm.DB().Model(&models.Order{}).
		Where("id = ? AND farmer_id = ? AND status = ?", id, farmerID, from).
		Updates(map[string]interface{}{"status": to})
}

// RevenueReport aggregates a farmer's delivered orders inside a reporting
// window.
type RevenueReport struct {
	Orders  int64   `json:"orders"`
	Units   int64   `json:"units"`
	Revenue float64 `json:"revenue"`
}

// RevenueTopProduct is one row of the per-product breakdown.
type RevenueTopProduct struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int64   `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// RevenueForFarmer sums the farmer's delivered orders created since the
// cutoff.
func (r *OrderRepository) RevenueForFarmer(farmerID uint, since time.Time) (RevenueReport, error) {
	var report RevenueReport
	err := orm.DB().Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(total_price), 0) AS revenue").
		Where("farmer_id = ? AND status = ? AND created_at >= ?", farmerID, models.OrderDelivered, since).
		Scan(&report)
	return report, err
}

// TopProductsForFarmer breaks the same window down per product, highest
// revenue first.
func (r *OrderRepository) TopProductsForFarmer(farmerID uint, since time.Time, limit int) ([]RevenueTopProduct, error) {
	var rows []RevenueTopProduct
	err := orm.DB().Model(&models.Order{}).
		Select("product_id, product_name, SUM(quantity) AS units_sold, SUM(total_price) AS revenue").
		Where("farmer_id = ? AND status = ? AND created_at >= ?", farmerID, models.OrderDelivered, since).
		Group("product_id, product_name").
		Order("revenue desc").
		Limit(limit).
		Scan(&rows)
	return rows, err
}

// DeleteAllForUser removes every order the user took part in, on either
// side. Runs as part of the account deletion cascade.
func (r *OrderRepository) DeleteAllForUser(userID uint) error {
	_, err := orm.DB().
		Where("client_id = ? OR farmer_id = ?", userID, userID).
		Delete(&models.Order{})
	return err
}

// ClaimCancel atomically moves a client's pending order to cancelled.
// Exactly one concurrent caller wins the claim; the winner is the one that
// returns the stock.
func (r *OrderRepository) ClaimCancel(id, clientID uint) (int64, error) {
	defer metrics.ObserveDBQuery("order.claim_cancel", time.Now())
	return orm.DB().Model(&models.Order{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, models.OrderPending).
		Updates(map[string]interface{}{"status": models.OrderCancelled})
}
