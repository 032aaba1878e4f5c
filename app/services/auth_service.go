package services

import (
	"errors"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/repositories"
	"github.com/freshmandi/freshmandi/pkg/auth"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"gorm.io/gorm"
)

// AuthService handles registration, login, and account lifecycle.
type AuthService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewAuthService() *AuthService {
	return &AuthService{
		users:    repositories.NewUserRepository(),
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
	}
}

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name         string  `json:"name"          validate:"required,min=2,max=100"`
	Email        string  `json:"email"         validate:"required,email"`
	Password     string  `json:"password"      validate:"required,min=6"`
	Role         string  `json:"role"          validate:"required,in=client,farmer"`
	Phone        string  `json:"phone"         validate:"nullable,digits=10"`
	DeliveryArea *string `json:"delivery_area"`
	FarmName     string  `json:"farm_name"     validate:"nullable,max=255"`
	FarmLocation string  `json:"farm_location" validate:"nullable,max=255"`
}

// Register creates the account and returns it with a signed token.
func (s *AuthService) Register(in RegisterInput) (models.User, string, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     hash,
		Role:         in.Role,
		Phone:        in.Phone,
		DeliveryArea: in.DeliveryArea,
		FarmName:     in.FarmName,
		FarmLocation: in.FarmLocation,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}

	logger.Info("account registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login checks credentials and returns the user with a signed token.
func (s *AuthService) Login(email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the account details.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateProfileInput carries editable profile fields.
type UpdateProfileInput struct {
	Name         string  `json:"name"          validate:"nullable,min=2,max=100"`
	Phone        string  `json:"phone"         validate:"nullable,digits=10"`
	DeliveryArea *string `json:"delivery_area"`
	FarmName     string  `json:"farm_name"     validate:"nullable,max=255"`
	FarmLocation string  `json:"farm_location" validate:"nullable,max=255"`
}

// UpdateProfile applies the non-empty fields of in to the account.
func (s *AuthService) UpdateProfile(userID uint, in UpdateProfileInput) (models.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return models.User{}, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.DeliveryArea != nil {
		user.DeliveryArea = in.DeliveryArea
	}
	if in.FarmName != "" {
		user.FarmName = in.FarmName
	}
	if in.FarmLocation != "" {
		user.FarmLocation = in.FarmLocation
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteAccount removes the account with its favorites, its orders on
// either side, and, for farmers, every product they listed.
func (s *AuthService) DeleteAccount(userID uint) error {
	user, err := s.Profile(userID)
	if err != nil {
		return err
	}

	if err := s.users.ClearFavorites(userID); err != nil {
		return err
	}
	if err := s.orders.DeleteAllForUser(userID); err != nil {
		return err
	}
	if user.IsFarmer() {
		if err := s.products.DeleteAllForFarmer(userID); err != nil {
			return err
		}
	}
	if err := s.users.Delete(userID); err != nil {
		return err
	}

	logger.Info("account deleted", "user_id", userID, "role", user.Role)
	return nil
}
