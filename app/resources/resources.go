// Package resources defines the JSON shapes the API returns for each model.
package resources

import (
	"time"

	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/resource"
	"github.com/freshmandi/freshmandi/pkg/storage"
)

// User shapes one account for API output. The password hash never leaves
// the model, but this also keeps farm fields off client accounts and
// delivery fields off farmer accounts.
func User(u models.User) resource.Map {
	out := resource.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
	if u.Phone != "" {
		out["phone"] = u.Phone
	}
	if u.IsFarmer() {
		out["farm_name"] = u.FarmName
		out["farm_location"] = u.FarmLocation
	} else if u.DeliveryArea != nil {
		out["delivery_area"] = *u.DeliveryArea
	}
	return out
}

// Product shapes one listing for API output.
func Product(p models.Product) resource.Map {
	out := resource.Map{
		"id":            p.ID,
		"name":          p.Name,
		"description":   p.Description,
		"category":      p.Category,
		"price":         p.Price,
		"quantity":      p.Quantity,
		"unit":          p.Unit,
		"farmer_id":     p.FarmerID,
		"farm_name":     p.FarmName,
		"farm_location": p.FarmLocation,
		"is_organic":    p.IsOrganic,
		"delivery_area": p.DeliveryArea,
		"is_seasonal":   p.IsSeasonal,
		"rating":        p.Rating,
		"in_stock":      p.Quantity > 0,
		"created_at":    p.CreatedAt.Format(time.RFC3339),
	}
	if p.FarmAddress != "" {
		out["farm_address"] = p.FarmAddress
	}
	if p.FarmPhone != "" {
		out["farm_phone"] = p.FarmPhone
	}
	if p.ImagePath != "" {
		out["image_url"] = storage.URL(p.ImagePath)
	}
	return out
}

// Order shapes one order for API output.
func Order(o models.Order) resource.Map {
	return resource.Map{
		"id":               o.ID,
		"client_id":        o.ClientID,
		"farmer_id":        o.FarmerID,
		"product_id":       o.ProductID,
		"product_name":     o.ProductName,
		"quantity":         o.Quantity,
		"unit_price":       o.UnitPrice,
		"total_price":      o.TotalPrice,
		"status":           o.Status,
		"delivery_address": o.DeliveryAddress,
		"placed_at":        o.CreatedAt.Format(time.RFC3339),
		"updated_at":       o.UpdatedAt.Format(time.RFC3339),
	}
}

// ProductResource adapts Product to the resource.Transformer interface for
// collection responses.
type ProductResource struct{ resource.Base }

func (r *ProductResource) ToArray(v interface{}) resource.Map {
	return Product(v.(models.Product))
}

// OrderResource adapts Order to the resource.Transformer interface.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	return Order(v.(models.Order))
}
