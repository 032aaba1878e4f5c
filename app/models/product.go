package models

import "gorm.io/gorm"

// Category is the fixed set of produce categories.
type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryDairy      Category = "Dairy"
	CategoryGrains     Category = "Grains"
	CategoryOthers     Category = "Others"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryVegetables, CategoryFruits, CategoryDairy,
		CategoryGrains, CategoryOthers,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryDairy, CategoryGrains, CategoryOthers:
		return true
	}
	return false
}

// Product is a produce listing. Quantity is the live stock level and is only
// ever changed through the repository's atomic reserve/release operations.
type Product struct {
	gorm.Model
	Name        string   `gorm:"size:255;not null;index"       json:"name"`
	Description string   `gorm:"type:text"                     json:"description"`
	Category    Category `gorm:"size:50;not null;index"        json:"category"`
	Price       float64  `gorm:"not null"                      json:"price"`    // per unit, in rupees
	Quantity    int      `gorm:"not null;default:0"            json:"quantity"` // available stock
	Unit        string   `gorm:"size:20;not null;default:kg"   json:"unit"`

	FarmerID     uint   `gorm:"not null;index" json:"farmer_id"`
	FarmName     string `gorm:"size:255"       json:"farm_name"`
	FarmLocation string `gorm:"size:255"       json:"farm_location"`
	FarmAddress  string `gorm:"size:512"       json:"farm_address"`
	FarmPhone    string `gorm:"size:20"        json:"farm_phone"`
	DeliveryArea string `gorm:"size:255;index" json:"delivery_area"` // area this listing delivers to

	IsOrganic  bool    `gorm:"default:false" json:"is_organic"`
	IsSeasonal bool    `gorm:"default:false" json:"is_seasonal"`
	Rating     float64 `gorm:"default:0"     json:"rating"`
	Views      int     `gorm:"default:0"     json:"views"`
	Popularity int     `gorm:"default:0"     json:"popularity"` // units sold, bumped on delivery

	ImagePath string `gorm:"size:512" json:"-"`

	Farmer *User `gorm:"foreignKey:FarmerID" json:"-"`
}

// InStock reports whether at least qty units are available.
// Advisory only: the authoritative check is the conditional UPDATE in the
// repository's Reserve.
func (p *Product) InStock(qty int) bool { return p.Quantity >= qty }
