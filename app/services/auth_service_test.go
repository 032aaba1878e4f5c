package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/auth"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/testkit"
)

func setupAuthDB(t *testing.T) {
	t.Helper()
	database.DB = testkit.OpenDB(t, &models.User{}, &models.Product{}, &models.Order{})
}

func registerFarmer(t *testing.T, svc *AuthService) models.User {
	t.Helper()
	user, _, err := svc.Register(RegisterInput{
		Name:         "Ravi Kumar",
		Email:        "ravi@example.com",
		Password:     "secret123",
		Role:         "farmer",
		FarmName:     "Green Valley Farm",
		FarmLocation: "Hosur",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterIssuesToken(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()

	user, token, err := svc.Register(RegisterInput{
		Name:     "Arjun Shah",
		Email:    "arjun@example.com",
		Password: "secret123",
		Role:     "client",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "client", claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()
	registerFarmer(t, svc)

	_, _, err := svc.Register(RegisterInput{
		Name:     "Someone Else",
		Email:    "ravi@example.com",
		Password: "secret123",
		Role:     "client",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()
	registerFarmer(t, svc)

	user, token, err := svc.Login("ravi@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "farmer", user.Role)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login("ravi@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and bad password must be indistinguishable")
}

func TestUpdateProfileOverlay(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()
	user := registerFarmer(t, svc)

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", updated.Phone)
	assert.Equal(t, "Ravi Kumar", updated.Name, "empty fields must leave existing values alone")
	assert.Equal(t, "Green Valley Farm", updated.FarmName)
}

func TestDeleteAccountRemovesListings(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()
	user := registerFarmer(t, svc)

	p := models.Product{
		Name: "Spinach", Category: models.CategoryVegetables,
		Price: 15, Quantity: 40, Unit: "kg", FarmerID: user.ID,
	}
	require.NoError(t, database.DB.Create(&p).Error)

	require.NoError(t, svc.DeleteAccount(user.ID))

	_, err := svc.Profile(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	require.NoError(t, database.DB.Model(&models.Product{}).Where("farmer_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count, "a deleted farmer's listings must disappear from the catalogue")
}

func TestDeleteAccountRemovesOrders(t *testing.T) {
	setupAuthDB(t)
	svc := NewAuthService()
	farmer := registerFarmer(t, svc)

	client := models.User{Name: "Arjun Shah", Email: "arjun@example.com", Password: "x", Role: "client"}
	require.NoError(t, database.DB.Create(&client).Error)

	orders := []models.Order{
		{ClientID: client.ID, FarmerID: farmer.ID, ProductID: 1, ProductName: "Spinach", Quantity: 2, UnitPrice: 15, TotalPrice: 30, Status: models.OrderDelivered, DeliveryAddress: "12 MG Road"},
		{ClientID: client.ID, FarmerID: farmer.ID + 100, ProductID: 2, ProductName: "Tomatoes", Quantity: 4, UnitPrice: 25, TotalPrice: 100, Status: models.OrderPending, DeliveryAddress: "12 MG Road"},
	}
	for i := range orders {
		require.NoError(t, database.DB.Create(&orders[i]).Error)
	}

	// Deleting the farmer takes their side's order with it; the client's
	// order with the other farmer stays.
	require.NoError(t, svc.DeleteAccount(farmer.ID))

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Where("farmer_id = ?", farmer.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, database.DB.Model(&models.Order{}).Where("client_id = ?", client.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Deleting the client clears the rest.
	require.NoError(t, svc.DeleteAccount(client.ID))
	require.NoError(t, database.DB.Model(&models.Order{}).Where("client_id = ?", client.ID).Count(&count).Error)
	assert.Zero(t, count)
}
