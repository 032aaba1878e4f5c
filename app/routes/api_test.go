package routes

import (
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmandi/freshmandi/app/listeners"
	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/notification"
	"github.com/freshmandi/freshmandi/pkg/router"
	"github.com/freshmandi/freshmandi/pkg/testkit"
)

var registerListenersOnce sync.Once

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{}, &models.Order{})
	require.NoError(t, notification.UseDB(database.DB))
	registerListenersOnce.Do(listeners.Register)

	r := router.New()
	RegisterAPI(r)
	return r.Handler()
}

type apiEnvelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
}

func registerAccount(t *testing.T, h http.Handler, body map[string]interface{}) string {
	t.Helper()
	res := testkit.Do(t, h, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var env apiEnvelope
	res.JSON(t, &env)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func newFarmerToken(t *testing.T, h http.Handler) string {
	return registerAccount(t, h, map[string]interface{}{
		"name": "Ravi Kumar", "email": "ravi@example.com", "password": "secret123",
		"role": "farmer", "farm_name": "Green Valley Farm", "farm_location": "Hosur",
	})
}

func newClientToken(t *testing.T, h http.Handler) string {
	return registerAccount(t, h, map[string]interface{}{
		"name": "Arjun Shah", "email": "arjun@example.com", "password": "secret123",
		"role": "client",
	})
}

func createListing(t *testing.T, h http.Handler, farmerToken string) float64 {
	t.Helper()
	res := testkit.Do(t, h, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Tomatoes", "category": "Vegetables", "price": 25, "quantity": 100,
	}, testkit.AuthHeader(farmerToken)...)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var env apiEnvelope
	res.JSON(t, &env)
	id, ok := env.Data["id"].(float64)
	require.True(t, ok, "listing response must carry an id")
	return id
}

func TestRegisterValidation(t *testing.T) {
	h := newAPI(t)

	res := testkit.Do(t, h, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name": "X", "email": "not-an-email", "password": "short", "role": "admin",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)

	var env apiEnvelope
	res.JSON(t, &env)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "role")
}

func TestCatalogIsPublic(t *testing.T) {
	h := newAPI(t)
	farmer := newFarmerToken(t, h)
	createListing(t, h, farmer)

	res := testkit.Do(t, h, http.MethodGet, "/api/products?category=Vegetables", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Tomatoes")

	res = testkit.Do(t, h, http.MethodGet, "/api/products/categories", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Dairy")
}

func TestOrderFlowOverHTTP(t *testing.T) {
	h := newAPI(t)
	farmer := newFarmerToken(t, h)
	client := newClientToken(t, h)
	productID := createListing(t, h, farmer)

	// Place.
	res := testkit.Do(t, h, http.MethodPost, "/api/orders", map[string]interface{}{
		"product_id": productID, "quantity": 50, "delivery_address": "12 MG Road",
	}, testkit.AuthHeader(client)...)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var env apiEnvelope
	res.JSON(t, &env)
	assert.Equal(t, "pending", env.Data["status"])
	assert.Equal(t, 1250.0, env.Data["total_price"])
	orderID := int(env.Data["id"].(float64))

	// Farmer confirms, then delivers.
	res = testkit.Do(t, h, http.MethodPatch, "/api/orders/"+strconv.Itoa(orderID)+"/status",
		map[string]interface{}{"status": "confirmed"},
		testkit.AuthHeader(farmer)...)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = testkit.Do(t, h, http.MethodPatch, "/api/orders/"+strconv.Itoa(orderID)+"/status",
		map[string]interface{}{"status": "delivered"},
		testkit.AuthHeader(farmer)...)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	// Cancelling a delivered order is rejected.
	res = testkit.Do(t, h, http.MethodPost, "/api/orders/"+strconv.Itoa(orderID)+"/cancel", nil,
		testkit.AuthHeader(client)...)
	assert.Equal(t, http.StatusConflict, res.Code, res.Body.String())

	// The status changes showed up in the client's notification feed.
	assert.Eventually(t, func() bool {
		records, err := notification.ForUser(2, 0)
		return err == nil && len(records) >= 1
	}, 2*time.Second, 20*time.Millisecond, "status change must notify the client")
}

func TestOrderEndpointsRequireRole(t *testing.T) {
	h := newAPI(t)
	farmer := newFarmerToken(t, h)
	client := newClientToken(t, h)
	productID := createListing(t, h, farmer)

	// Unauthenticated.
	res := testkit.Do(t, h, http.MethodPost, "/api/orders", map[string]interface{}{
		"product_id": productID, "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Farmers cannot buy.
	res = testkit.Do(t, h, http.MethodPost, "/api/orders", map[string]interface{}{
		"product_id": productID, "quantity": 1,
	}, testkit.AuthHeader(farmer)...)
	assert.Equal(t, http.StatusForbidden, res.Code)

	// Clients cannot list produce.
	res = testkit.Do(t, h, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Spinach", "category": "Vegetables", "price": 15, "quantity": 40,
	}, testkit.AuthHeader(client)...)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestInsufficientStockConflict(t *testing.T) {
	h := newAPI(t)
	farmer := newFarmerToken(t, h)
	client := newClientToken(t, h)
	productID := createListing(t, h, farmer)

	res := testkit.Do(t, h, http.MethodPost, "/api/orders", map[string]interface{}{
		"product_id": productID, "quantity": 101,
	}, testkit.AuthHeader(client)...)
	assert.Equal(t, http.StatusConflict, res.Code, res.Body.String())
}
