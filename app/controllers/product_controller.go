package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/repositories"
	"github.com/freshmandi/freshmandi/app/resources"
	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/resource"
)

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

// ProductController serves the public catalogue and the farmer's listing
// management endpoints.
type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductService()}
}

// Index lists the catalogue with filters, sorting, and pagination.
// GET /api/products?category=&search=&farmer=&delivery_area=&organic=&seasonal=&min_price=&max_price=&sort=&page=&limit=
func (pc *ProductController) Index(c *ctx.Context) {
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	filter := repositories.CatalogFilter{
		Category:     c.Query("category"),
		Search:       c.Query("search"),
		FarmerID:     uintQuery(c, "farmer"),
		DeliveryArea: c.Query("delivery_area"),
		Organic:      c.Query("organic") == "true",
		Seasonal:     c.Query("seasonal") == "true",
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Sort:         c.Query("sort"),
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 20),
	}
	if filter.Category != "" && !models.Category(filter.Category).Valid() {
		c.Error(http.StatusUnprocessableEntity, "unknown product category")
		return
	}

	products, pagination, err := pc.service.Catalog(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resource.CollectionOf(&resources.ProductResource{}, products).
		WithPagination(pagination).
		Respond(c.W)
}

// Show returns one product.
// GET /api/products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	product, err := pc.service.Show(c.ParamUint("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resource.New(&resources.ProductResource{}, product).Respond(c.W)
}

// Categories lists the valid produce categories.
// GET /api/products/categories
func (pc *ProductController) Categories(c *ctx.Context) {
	c.Success(models.Categories())
}

// FarmerAreas returns the delivery-area aggregation.
// GET /api/products/farmer-areas
func (pc *ProductController) FarmerAreas(c *ctx.Context) {
	areas, err := pc.service.FarmerAreas()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(areas)
}

// Store lists a new product under the authenticated farmer.
// POST /api/products
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.CreateProductInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := pc.service.Create(c.UserID(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.Product(product))
}

// Update edits one of the farmer's listings.
// PUT /api/products/{id}
func (pc *ProductController) Update(c *ctx.Context) {
	var in services.UpdateProductInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := pc.service.Update(c.ParamUint("id"), c.UserID(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Product(product))
}

// Destroy removes one of the farmer's listings.
// DELETE /api/products/{id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.service.Delete(c.ParamUint("id"), c.UserID()); err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"deleted": true})
}

// UploadImage attaches an image to one of the farmer's listings.
// POST /api/products/{id}/image  (multipart field "image")
func (pc *ProductController) UploadImage(c *ctx.Context) {
	if err := c.R.ParseMultipartForm(maxImageBytes); err != nil {
		c.Error(http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.Error(http.StatusBadRequest, "unreadable image file")
		return
	}

	url, err := pc.service.UploadImage(c.ParamUint("id"), c.UserID(), header.Filename, content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"image_url": url})
}

// Favorites lists the authenticated user's favorite products.
// GET /api/favorites
func (pc *ProductController) Favorites(c *ctx.Context) {
	products, err := pc.service.Favorites(c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	resource.CollectionOf(&resources.ProductResource{}, products).Respond(c.W)
}

// AddFavorite marks a product as a favorite.
// POST /api/favorites/{id}
func (pc *ProductController) AddFavorite(c *ctx.Context) {
	if err := pc.service.AddFavorite(c.UserID(), c.ParamUint("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"favorite": true})
}

// RemoveFavorite unmarks a favorite.
// DELETE /api/favorites/{id}
func (pc *ProductController) RemoveFavorite(c *ctx.Context) {
	if err := pc.service.RemoveFavorite(c.UserID(), c.ParamUint("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"favorite": false})
}

func uintQuery(c *ctx.Context, key string) uint {
	n, _ := strconv.ParseUint(c.Query(key), 10, 32)
	return uint(n)
}
