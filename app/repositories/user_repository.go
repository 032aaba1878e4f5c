package repositories

import (
	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// Delete removes the user record. Cascading cleanup of listings and
// favorites is orchestrated by the service layer.
func (r *UserRepository) Delete(id uint) error {
	_, err := orm.DB().Where("id = ?", id).Delete(&models.User{})
	return err
}

// AddFavorite links a product to the user's favorites. Adding twice is a
// no-op.
func (r *UserRepository) AddFavorite(userID, productID uint) error {
	user := models.User{}
	user.ID = userID
	product := models.Product{}
	product.ID = productID
	return database.DB.Model(&user).Association("Favorites").Append(&product)
}

// RemoveFavorite unlinks a product from the user's favorites.
func (r *UserRepository) RemoveFavorite(userID, productID uint) error {
	user := models.User{}
	user.ID = userID
	product := models.Product{}
	product.ID = productID
	return database.DB.Model(&user).Association("Favorites").Delete(&product)
}

// Favorites returns the user's favorite products.
func (r *UserRepository) Favorites(userID uint) ([]models.Product, error) {
	user := models.User{}
	user.ID = userID
	var products []models.Product
	err := database.DB.Model(&user).Association("Favorites").Find(&products)
	return products, err
}

// ClearFavorites removes every favorite link for the user.
func (r *UserRepository) ClearFavorites(userID uint) error {
	user := models.User{}
	user.ID = userID
	return database.DB.Model(&user).Association("Favorites").Clear()
}
