package repositories

import (
	"strings"
	"time"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/cache"
	"github.com/freshmandi/freshmandi/pkg/metrics"
	"github.com/freshmandi/freshmandi/pkg/orm"
	"gorm.io/gorm"
)

const areasCacheKey = "freshmandi:farmer_areas"

// ProductRepository handles database operations for Product, including the
// atomic stock reservation the order path depends on.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&p)
	return p, err
}

// FindForFarmer looks up a product owned by the given farmer. Products owned
// by other farmers are indistinguishable from missing ones.
func (r *ProductRepository) FindForFarmer(id, farmerID uint) (models.Product, error) {
	var p models.Product
	err := orm.DB().Model(&models.Product{}).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		First(&p)
	return p, err
}

// Reserve atomically decrements stock by qty, but only when at least qty
// units are available. The guard lives in the UPDATE's WHERE clause, so two
// concurrent reservations can never both succeed on the last units.
// Returns false when the product is missing or stock is insufficient;
// the caller re-reads to tell those apart.
func (r *ProductRepository) Reserve(productID uint, qty int) (bool, error) {
	defer metrics.ObserveDBQuery("product.reserve", time.Now())
	rows, err := orm.DB().Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// Release returns qty units to stock. Zero rows affected means the product
// was deleted in the meantime; the units are dropped silently, which is the
// desired outcome for a delisted product.
func (r *ProductRepository) Release(productID uint, qty int) error {
	defer metrics.ObserveDBQuery("product.release", time.Now())
	_, err := orm.DB().Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	return err
}

// Create persists a new product listing.
func (r *ProductRepository) Create(p *models.Product) error {
	if err := orm.DB().Create(p); err != nil {
		return err
	}
	cache.Forget(areasCacheKey) //nolint:errcheck
	return nil
}

// Update persists changes to an existing listing.
func (r *ProductRepository) Update(p *models.Product) error {
	if err := orm.DB().Save(p); err != nil {
		return err
	}
	cache.Forget(areasCacheKey) //nolint:errcheck
	return nil
}

// DeleteForFarmer removes a listing owned by the given farmer.
// Returns the number of rows removed (0 when not found or not owned).
func (r *ProductRepository) DeleteForFarmer(id, farmerID uint) (int64, error) {
	rows, err := orm.DB().
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Delete(&models.Product{})
	if err == nil && rows > 0 {
		cache.Forget(areasCacheKey) //nolint:errcheck
	}
	return rows, err
}

// DeleteAllForFarmer removes every listing owned by farmerID.
// Used by account deletion.
func (r *ProductRepository) DeleteAllForFarmer(farmerID uint) error {
	_, err := orm.DB().Where("farmer_id = ?", farmerID).Delete(&models.Product{})
	cache.Forget(areasCacheKey) //nolint:errcheck
	return err
}

// IncrementViews bumps the product view counter. Runs as a queue job off the
// request path.
func (r *ProductRepository) IncrementViews(productID uint) error {
	_, err := orm.DB().Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	return err
}

// BumpPopularity adds qty sold units to the popularity score.
func (r *ProductRepository) BumpPopularity(productID uint, qty int) error {
	_, err := orm.DB().Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("popularity", gorm.Expr("popularity + ?", qty))
	return err
}

// CatalogFilter narrows and orders the public catalogue listing.
type CatalogFilter struct {
	Category     string
	Search       string // matches name or description, case-insensitive
	FarmerID     uint
	DeliveryArea string
	Organic      bool
	Seasonal     bool
	MinPrice     float64
	MaxPrice     float64
	Sort         string // price_asc, price_desc, rating, popular, name, newest
	Page         int
	Limit        int
}

// Catalog returns a filtered, sorted, paginated slice of the catalogue.
func (r *ProductRepository) Catalog(f CatalogFilter) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on Postgres.
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.FarmerID != 0 {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.DeliveryArea != "" {
		q = q.Where("delivery_area = ?", f.DeliveryArea)
	}
	if f.Organic {
		q = q.Where("is_organic = ?", true)
	}
	if f.Seasonal {
		q = q.Where("is_seasonal = ?", true)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("price asc")
	case "price_desc":
		q = q.Order("price desc")
	case "rating":
		q = q.Order("rating desc")
	case "popular":
		q = q.Order("popularity desc, views desc")
	case "name":
		q = q.Order("name asc")
	default:
		q = q.Order("created_at desc")
	}

	var products []models.Product
	pagination, err := q.GetWithPagination(&products, f.Page, f.Limit)
	return products, pagination, err
}

// FarmerArea is one row of the delivery-area aggregation.
type FarmerArea struct {
	Area     string `json:"area"`
	Products int64  `json:"products"`
}

// FarmerAreas aggregates the distinct farm locations with a listing count
// per area. The result changes rarely, so it is cached for five minutes.
func (r *ProductRepository) FarmerAreas() ([]FarmerArea, error) {
	var areas []FarmerArea
	if cache.Get(areasCacheKey, &areas) {
		return areas, nil
	}

	err := orm.DB().Model(&models.Product{}).
		Select("farm_location as area, COUNT(*) as products").
		Where("farm_location <> ''").
		Group("farm_location").
		Order("products desc").
		Scan(&areas)
	if err != nil {
		return nil, err
	}

	cache.Set(areasCacheKey, areas, 5*time.Minute) //nolint:errcheck
	return areas, nil
}
