package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/testkit"
	"github.com/freshmandi/freshmandi/pkg/validate"
)

func seedFarmerAccount(t *testing.T) models.User {
	t.Helper()
	u := models.User{
		Name: "Meena Patil", Email: "meena@example.com", Password: "x",
		Role: "farmer", FarmName: "Sunrise Organics", FarmLocation: "Nashik",
		Phone: "9822011223",
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func TestCreateSnapshotsFarmDetails(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name:         "Spinach",
		Category:     "Vegetables",
		Price:        15,
		Quantity:     40,
		FarmAddress:  "Plot 12, Ozar Road",
		DeliveryArea: "Nashik City",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunrise Organics", product.FarmName)
	assert.Equal(t, "Nashik", product.FarmLocation)
	assert.Equal(t, "9822011223", product.FarmPhone, "farm phone comes from the farmer's profile")
	assert.Equal(t, "Plot 12, Ozar Road", product.FarmAddress)
	assert.Equal(t, "Nashik City", product.DeliveryArea)
	assert.Equal(t, "kg", product.Unit, "unit defaults to kg")
	assert.Equal(t, models.CategoryVegetables, product.Category)
}

// A listing announced before harvest starts at zero stock; input validation
// must not treat that as a missing quantity.
func TestCreateZeroStockPassesValidation(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	in := CreateProductInput{Name: "Strawberries", Category: "Fruits", Price: 120, Quantity: 0}
	assert.False(t, validate.HasErrors(validate.Struct(in)))

	product, err := svc.Create(farmer.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Quantity)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	_, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Honey", Category: "Sweets", Price: 200, Quantity: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUpdateOnlyTouchesProvidedFields(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Spinach", Category: "Vegetables", Price: 15, Quantity: 40,
	})
	require.NoError(t, err)

	price := 18.0
	updated, err := svc.Update(product.ID, farmer.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 18.0, updated.Price)
	assert.Equal(t, "Spinach", updated.Name)
	assert.Equal(t, 40, updated.Quantity)
}

func TestUpdateOwnershipGate(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Spinach", Category: "Vegetables", Price: 15, Quantity: 40,
	})
	require.NoError(t, err)

	price := 1.0
	_, err = svc.Update(product.ID, farmer.ID+1, UpdateProductInput{Price: &price})
	assert.ErrorIs(t, err, ErrProductNotFound, "another farmer's listing must look missing")

	err = svc.Delete(product.ID, farmer.ID+1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFavoritesRoundTrip(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	client := models.User{Name: "Arjun Shah", Email: "arjun@example.com", Password: "x", Role: "client"}
	require.NoError(t, database.DB.Create(&client).Error)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Spinach", Category: "Vegetables", Price: 15, Quantity: 40,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddFavorite(client.ID, product.ID))

	favs, err := svc.Favorites(client.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, product.ID, favs[0].ID)

	assert.ErrorIs(t, svc.AddFavorite(client.ID, 9999), ErrProductNotFound)

	require.NoError(t, svc.RemoveFavorite(client.ID, product.ID))
	require.NoError(t, svc.RemoveFavorite(client.ID, product.ID), "removing twice is a no-op")

	favs, err = svc.Favorites(client.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestViewJobBumpsCounter(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Spinach", Category: "Vegetables", Price: 15, Quantity: 40,
	})
	require.NoError(t, err)

	job := ViewJob{ProductID: product.ID}
	require.NoError(t, job.Handle())
	require.NoError(t, job.Handle())

	got, err := svc.Show(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
}

func TestPopularityJobBumpsSoldUnits(t *testing.T) {
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{})
	svc := NewProductService()
	farmer := seedFarmerAccount(t)

	product, err := svc.Create(farmer.ID, CreateProductInput{
		Name: "Spinach", Category: "Vegetables", Price: 15, Quantity: 40,
	})
	require.NoError(t, err)

	job := PopularityJob{ProductID: product.ID, Quantity: 7}
	require.NoError(t, job.Handle())

	got, err := svc.Show(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Popularity)
}
