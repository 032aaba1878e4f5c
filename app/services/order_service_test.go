package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/testkit"
)

func setupOrderDB(t *testing.T) {
	t.Helper()
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{}, &models.Order{})
}

func seedListing(t *testing.T, qty int) models.Product {
	t.Helper()
	p := models.Product{
		Name:         "Tomatoes",
		Category:     models.CategoryVegetables,
		Price:        25,
		Quantity:     qty,
		Unit:         "kg",
		FarmerID:     2,
		FarmName:     "Green Valley Farm",
		FarmLocation: "Hosur",
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func TestPlaceOrder(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{
		ProductID:       p.ID,
		Quantity:        50,
		DeliveryAddress: "12 MG Road, Koramangala",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, uint(1), order.ClientID)
	assert.Equal(t, p.FarmerID, order.FarmerID)
	assert.Equal(t, "Tomatoes", order.ProductName)
	assert.Equal(t, 25.0, order.UnitPrice)
	assert.Equal(t, 1250.0, order.TotalPrice)

	var got models.Product
	require.NoError(t, database.DB.First(&got, p.ID).Error)
	assert.Equal(t, 50, got.Quantity, "placement must reserve the units")
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 10)

	_, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 11})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var got models.Product
	require.NoError(t, database.DB.First(&got, p.ID).Error)
	assert.Equal(t, 10, got.Quantity)

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected placement must not leave an order behind")
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()

	_, err := svc.Place(1, PlaceOrderInput{ProductID: 9999, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 10)

	_, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: -3})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCancelPendingRestocks(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 30})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	var got models.Product
	require.NoError(t, database.DB.First(&got, p.ID).Error)
	assert.Equal(t, 100, got.Quantity, "cancellation must return the reserved units")
}

func TestCancelConfirmedRejected(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 30})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, p.FarmerID, models.OrderConfirmed)
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidState, "confirmed orders are past the cancellation window")

	var got models.Product
	require.NoError(t, database.DB.First(&got, p.ID).Error)
	assert.Equal(t, 70, got.Quantity, "a rejected cancellation must not restock")
}

func TestCancelTwiceRestocksOnce(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 30})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, 1)
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	var got models.Product
	require.NoError(t, database.DB.First(&got, p.ID).Error)
	assert.Equal(t, 100, got.Quantity, "the second cancel must not restock again")
}

func TestCancelWrongClient(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 30})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, 7)
	assert.ErrorIs(t, err, ErrOrderNotFound, "another client's order looks like a missing one")
}

func TestUpdateStatusLifecycle(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(order.ID, p.FarmerID, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)

	delivered, err := svc.UpdateStatus(order.ID, p.FarmerID, models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, delivered.Status)
}

func TestUpdateStatusSkippingConfirmation(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, p.FarmerID, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrInvalidState, "pending orders must be confirmed before delivery")
}

func TestUpdateStatusWrongFarmer(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, 99, models.OrderConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusUnknownTarget(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	order, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, p.FarmerID, models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(order.ID, p.FarmerID, models.OrderCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatus, "farmers cancel through the client flow, not a status update")
}

func TestListForClientFiltersStatus(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	p := seedListing(t, 100)

	first, err := svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.Place(1, PlaceOrderInput{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = svc.Cancel(first.ID, 1)
	require.NoError(t, err)

	orders, pagination, err := svc.ListForClient(1, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 2, pagination.Total)

	orders, _, err = svc.ListForClient(1, string(models.OrderCancelled), 1, 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	_, _, err = svc.ListForClient(1, "shipped", 1, 20)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRevenueAggregatesDeliveredOrders(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()
	const farmerID = 2

	seed := []models.Order{
		{ClientID: 1, FarmerID: farmerID, ProductID: 1, ProductName: "Tomatoes", Quantity: 10, UnitPrice: 25, TotalPrice: 250, Status: models.OrderDelivered},
		{ClientID: 1, FarmerID: farmerID, ProductID: 2, ProductName: "Spinach", Quantity: 4, UnitPrice: 15, TotalPrice: 60, Status: models.OrderDelivered},
		// Pending orders have not earned anything yet.
		{ClientID: 1, FarmerID: farmerID, ProductID: 1, ProductName: "Tomatoes", Quantity: 99, UnitPrice: 25, TotalPrice: 2475, Status: models.OrderPending},
		// Another farmer's sale.
		{ClientID: 1, FarmerID: 7, ProductID: 3, ProductName: "Cow Milk", Quantity: 2, UnitPrice: 60, TotalPrice: 120, Status: models.OrderDelivered},
	}
	for i := range seed {
		require.NoError(t, database.DB.Create(&seed[i]).Error)
	}
	// A sale from over a year ago falls outside every period.
	old := models.Order{ClientID: 1, FarmerID: farmerID, ProductID: 1, ProductName: "Tomatoes", Quantity: 1, UnitPrice: 25, TotalPrice: 25, Status: models.OrderDelivered}
	old.CreatedAt = time.Now().AddDate(-1, -2, 0)
	require.NoError(t, database.DB.Create(&old).Error)

	summary, err := svc.Revenue(farmerID, "year")
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Orders)
	assert.EqualValues(t, 14, summary.Units)
	assert.Equal(t, 310.0, summary.Revenue)
	assert.Equal(t, 155.0, summary.AvgOrderValue)
	require.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "Tomatoes", summary.TopProducts[0].ProductName, "best seller first")
	assert.Equal(t, 250.0, summary.TopProducts[0].Revenue)

	summary, err = svc.Revenue(farmerID, "")
	require.NoError(t, err)
	assert.Equal(t, "month", summary.Period, "period defaults to the current month")

	_, err = svc.Revenue(farmerID, "quarter")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRevenueEmptyWindow(t *testing.T) {
	setupOrderDB(t)
	svc := NewOrderService()

	summary, err := svc.Revenue(42, "week")
	require.NoError(t, err)
	assert.Zero(t, summary.Orders)
	assert.Zero(t, summary.Revenue)
	assert.Zero(t, summary.AvgOrderValue)
	assert.Empty(t, summary.TopProducts)
}
