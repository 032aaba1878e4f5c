package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/repositories"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/orm"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"github.com/freshmandi/freshmandi/pkg/storage"
	"gorm.io/gorm"
)

// ViewJobName is the queue registration name for the product view counter.
const ViewJobName = "product.view"

// ProductService handles catalogue management and browsing.
type ProductService struct {
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewProductService() *ProductService {
	return &ProductService{
		products: repositories.NewProductRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// CreateProductInput carries a new listing's details.
type CreateProductInput struct {
	Name         string  `json:"name"          validate:"required,min=2,max=100"`
	Description  string  `json:"description"   validate:"nullable,max=2000"`
	Category     string  `json:"category"      validate:"required,in=Vegetables,Fruits,Dairy,Grains,Others"`
	Price        float64 `json:"price"         validate:"required,gt=0"`
	Quantity     int     `json:"quantity"      validate:"integer,gte=0"`
	Unit         string  `json:"unit"          validate:"nullable,max=20"`
	DeliveryArea string  `json:"delivery_area" validate:"nullable,max=255"`
	FarmAddress  string  `json:"farm_address"  validate:"nullable,max=512"`
	IsOrganic    bool    `json:"is_organic"`
	IsSeasonal   bool    `json:"is_seasonal"`
}

// Create lists a new product under the farmer's account. Farm name and
// location are snapshotted from the farmer's profile.
func (s *ProductService) Create(farmerID uint, in CreateProductInput) (models.Product, error) {
	if !models.Category(in.Category).Valid() {
		return models.Product{}, ErrInvalidCategory
	}

	farmer, err := s.users.FindByID(farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrUserNotFound
		}
		return models.Product{}, err
	}

	unit := in.Unit
	if unit == "" {
		unit = "kg"
	}

	product := models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Category:     models.Category(in.Category),
		Price:        in.Price,
		Quantity:     in.Quantity,
		Unit:         unit,
		FarmerID:     farmerID,
		FarmName:     farmer.FarmName,
		FarmLocation: farmer.FarmLocation,
		FarmAddress:  in.FarmAddress,
		FarmPhone:    farmer.Phone,
		DeliveryArea: in.DeliveryArea,
		IsOrganic:    in.IsOrganic,
		IsSeasonal:   in.IsSeasonal,
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}

	logger.Info("product listed", "product_id", product.ID, "farmer_id", farmerID)
	return product, nil
}

// UpdateProductInput carries editable listing fields. Nil pointers leave the
// field untouched; Quantity edits replace the stock level outright and are
// meant for restocking, not for order flow.
type UpdateProductInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Price        *float64 `json:"price"`
	Quantity     *int     `json:"quantity"`
	Unit         *string  `json:"unit"`
	DeliveryArea *string  `json:"delivery_area"`
	FarmAddress  *string  `json:"farm_address"`
	IsOrganic    *bool    `json:"is_organic"`
	IsSeasonal   *bool    `json:"is_seasonal"`
}

// Update edits a listing owned by the farmer.
func (s *ProductService) Update(id, farmerID uint, in UpdateProductInput) (models.Product, error) {
	product, err := s.products.FindForFarmer(id, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		if !models.Category(*in.Category).Valid() {
			return models.Product{}, ErrInvalidCategory
		}
		product.Category = models.Category(*in.Category)
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return models.Product{}, ErrInvalidQuantity
		}
		product.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return models.Product{}, ErrInvalidQuantity
		}
		product.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.DeliveryArea != nil {
		product.DeliveryArea = *in.DeliveryArea
	}
	if in.FarmAddress != nil {
		product.FarmAddress = *in.FarmAddress
	}
	if in.IsOrganic != nil {
		product.IsOrganic = *in.IsOrganic
	}
	if in.IsSeasonal != nil {
		product.IsSeasonal = *in.IsSeasonal
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Delete removes a listing owned by the farmer.
func (s *ProductService) Delete(id, farmerID uint) error {
	rows, err := s.products.DeleteForFarmer(id, farmerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Show returns one product and queues a view-count bump off the request path.
func (s *ProductService) Show(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	if err := queue.Dispatch(ViewJobName, &ViewJob{ProductID: id}); err != nil {
		logger.Warn("view count dispatch failed", "product_id", id, "error", err)
	}
	return product, nil
}

// Catalog returns the filtered public catalogue.
func (s *ProductService) Catalog(f repositories.CatalogFilter) ([]models.Product, orm.Pagination, error) {
	return s.products.Catalog(f)
}

// FarmerAreas returns the delivery-area aggregation.
func (s *ProductService) FarmerAreas() ([]repositories.FarmerArea, error) {
	return s.products.FarmerAreas()
}

// AddFavorite marks a product as a favorite of the user.
func (s *ProductService) AddFavorite(userID, productID uint) error {
	if _, err := s.products.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.users.AddFavorite(userID, productID)
}

// RemoveFavorite unmarks a favorite. Removing a product that was never a
// favorite is a no-op.
func (s *ProductService) RemoveFavorite(userID, productID uint) error {
	return s.users.RemoveFavorite(userID, productID)
}

// Favorites lists the user's favorite products.
func (s *ProductService) Favorites(userID uint) ([]models.Product, error) {
	return s.users.Favorites(userID)
}

// UploadImage stores a product image on the configured disk and records its
// path on the listing. Returns the public URL.
func (s *ProductService) UploadImage(id, farmerID uint, filename string, content []byte) (string, error) {
	product, err := s.products.FindForFarmer(id, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProductNotFound
		}
		return "", err
	}

	path := fmt.Sprintf("products/%d/image%s", product.ID, filepath.Ext(filename))
	if err := storage.Put(path, content); err != nil {
		return "", err
	}

	product.ImagePath = path
	if err := s.products.Update(&product); err != nil {
		return "", err
	}
	return storage.URL(path), nil
}

// ViewJob bumps a product's view counter in the background.
type ViewJob struct {
	ProductID uint `json:"product_id"`
}

func (j *ViewJob) Handle() error {
	return repositories.NewProductRepository().IncrementViews(j.ProductID)
}

// RegisterJobs wires the catalogue's queue jobs. Call once at boot.
func RegisterJobs() {
	queue.Register(ViewJobName, func() queue.Job { return &ViewJob{} })
	queue.Register(PopularityJobName, func() queue.Job { return &PopularityJob{} })
}
