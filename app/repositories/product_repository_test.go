package repositories

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/testkit"
)

func setupProductDB(t *testing.T) {
	t.Helper()
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{}, &models.Order{})
}

func seedProduct(t *testing.T, qty int) models.Product {
	t.Helper()
	p := models.Product{
		Name:     "Tomatoes",
		Category: models.CategoryVegetables,
		Price:    25,
		Quantity: qty,
		Unit:     "kg",
		FarmerID: 1,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func TestReserveDecrementsStock(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()
	p := seedProduct(t, 100)

	ok, err := repo.Reserve(p.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Quantity)
}

func TestReserveInsufficientStock(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()
	p := seedProduct(t, 10)

	ok, err := repo.Reserve(p.ID, 11)
	require.NoError(t, err)
	assert.False(t, ok, "reservation above available stock must fail")

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "failed reservation must not touch stock")
}

func TestReserveExactStock(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()
	p := seedProduct(t, 10)

	ok, err := repo.Reserve(p.ID, 10)
	require.NoError(t, err)
	assert.True(t, ok, "reserving exactly the available stock must succeed")

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	ok, err = repo.Reserve(p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stock at zero must reject further reservations")
}

func TestReserveMissingProduct(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()

	ok, err := repo.Reserve(9999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseRestoresStock(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()
	p := seedProduct(t, 50)

	ok, err := repo.Reserve(p.ID, 20)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Release(p.ID, 20))

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Quantity)
}

func TestReleaseMissingProductIsSilent(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()

	// A delisted product drops the returned units without error.
	require.NoError(t, repo.Release(9999, 5))
}

// TestConcurrentReservations hammers one product with more reservations than
// stock. The WHERE guard must let exactly `stock` of them through, and the
// final quantity must be zero. Oversell here would mean the guard leaked.
func TestConcurrentReservations(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()

	const stock = 8
	const callers = 20
	p := seedProduct(t, stock)

	var succeeded int64
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			ok, err := repo.Reserve(p.ID, 1)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt64(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(stock), succeeded, "exactly one reservation per unit of stock")

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestDeleteForFarmerOwnership(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()
	p := seedProduct(t, 5)

	rows, err := repo.DeleteForFarmer(p.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, rows, "another farmer must not be able to delete the listing")

	rows, err = repo.DeleteForFarmer(p.ID, p.FarmerID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
}

func TestCatalogFilters(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()

	products := []models.Product{
		{Name: "Tomatoes", Category: models.CategoryVegetables, Price: 25, Quantity: 100, Unit: "kg", FarmerID: 1, FarmLocation: "Hosur", DeliveryArea: "Bangalore South"},
		{Name: "Spinach", Category: models.CategoryVegetables, Price: 15, Quantity: 40, Unit: "kg", FarmerID: 1, FarmLocation: "Hosur", DeliveryArea: "Bangalore South", IsOrganic: true},
		{Name: "Alphonso Mangoes", Category: models.CategoryFruits, Price: 300, Quantity: 30, Unit: "dozen", FarmerID: 2, FarmLocation: "Nashik", DeliveryArea: "Pune", IsSeasonal: true},
	}
	for i := range products {
		require.NoError(t, database.DB.Create(&products[i]).Error)
	}

	got, _, err := repo.Catalog(CatalogFilter{Category: string(models.CategoryVegetables)})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, _, err = repo.Catalog(CatalogFilter{Organic: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Spinach", got[0].Name)

	got, _, err = repo.Catalog(CatalogFilter{Search: "mango"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alphonso Mangoes", got[0].Name)

	// Search must match regardless of the casing the client typed.
	got, _, err = repo.Catalog(CatalogFilter{Search: "MANGO"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alphonso Mangoes", got[0].Name)

	got, _, err = repo.Catalog(CatalogFilter{DeliveryArea: "Pune"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alphonso Mangoes", got[0].Name)

	got, _, err = repo.Catalog(CatalogFilter{MaxPrice: 20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Spinach", got[0].Name)

	got, _, err = repo.Catalog(CatalogFilter{MinPrice: 20})
	require.NoError(t, err)
	assert.Len(t, got, 2, "min price keeps Tomatoes and Mangoes")

	got, pagination, err := repo.Catalog(CatalogFilter{Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Spinach", got[0].Name)
	assert.Equal(t, "Alphonso Mangoes", got[2].Name)
	assert.EqualValues(t, 3, pagination.Total)

	got, _, err = repo.Catalog(CatalogFilter{Sort: "name"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alphonso Mangoes", got[0].Name)
	assert.Equal(t, "Tomatoes", got[2].Name)
}

func TestFarmerAreasAggregation(t *testing.T) {
	setupProductDB(t)
	repo := NewProductRepository()

	products := []models.Product{
		{Name: "Tomatoes", Category: models.CategoryVegetables, Price: 25, Quantity: 100, Unit: "kg", FarmerID: 1, FarmLocation: "Hosur"},
		{Name: "Spinach", Category: models.CategoryVegetables, Price: 15, Quantity: 40, Unit: "kg", FarmerID: 1, FarmLocation: "Hosur"},
		{Name: "Cow Milk", Category: models.CategoryDairy, Price: 60, Quantity: 20, Unit: "litre", FarmerID: 2, FarmLocation: "Nashik"},
	}
	for i := range products {
		require.NoError(t, database.DB.Create(&products[i]).Error)
	}

	areas, err := repo.FarmerAreas()
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Hosur", areas[0].Area)
	assert.EqualValues(t, 2, areas[0].Products)
}
