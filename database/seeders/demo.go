package seeders

import (
	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("farmers", SeedFarmers)
	Register("produce", SeedProduce)
}

// SeedFarmers inserts two demo farmer accounts and one client. Skips
// silently when the users table is already populated.
func SeedFarmers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	area := "Koramangala"
	users := []models.User{
		{Name: "Ravi Kumar", Email: "ravi@freshmandi.in", Password: hash, Role: "farmer",
			FarmName: "Green Valley Farm", FarmLocation: "Hosur"},
		{Name: "Meena Patil", Email: "meena@freshmandi.in", Password: hash, Role: "farmer",
			FarmName: "Sunrise Organics", FarmLocation: "Nashik"},
		{Name: "Arjun Shah", Email: "arjun@example.com", Password: hash, Role: "client",
			DeliveryArea: &area},
	}
	return db.Create(&users).Error
}

// SeedProduce inserts a starter catalogue for the demo farmers.
func SeedProduce(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var farmers []models.User
	if err := db.Where("role = ?", "farmer").Order("id").Limit(2).Find(&farmers).Error; err != nil {
		return err
	}
	if len(farmers) < 2 {
		return nil
	}

	products := []models.Product{
		{Name: "Tomatoes", Category: models.CategoryVegetables, Price: 25, Quantity: 120,
			Unit: "kg", FarmerID: farmers[0].ID, FarmName: farmers[0].FarmName,
			FarmLocation: farmers[0].FarmLocation, IsSeasonal: true},
		{Name: "Spinach", Category: models.CategoryVegetables, Price: 40, Quantity: 60,
			Unit: "kg", FarmerID: farmers[0].ID, FarmName: farmers[0].FarmName,
			FarmLocation: farmers[0].FarmLocation, IsOrganic: true},
		{Name: "Alphonso Mangoes", Category: models.CategoryFruits, Price: 350, Quantity: 40,
			Unit: "dozen", FarmerID: farmers[1].ID, FarmName: farmers[1].FarmName,
			FarmLocation: farmers[1].FarmLocation, IsSeasonal: true},
		{Name: "Cow Milk", Category: models.CategoryDairy, Price: 60, Quantity: 200,
			Unit: "litre", FarmerID: farmers[1].ID, FarmName: farmers[1].FarmName,
			FarmLocation: farmers[1].FarmLocation},
		{Name: "Basmati Rice", Category: models.CategoryGrains, Price: 110, Quantity: 500,
			Unit: "kg", FarmerID: farmers[1].ID, FarmName: farmers[1].FarmName,
			FarmLocation: farmers[1].FarmLocation},
	}
	return db.Create(&products).Error
}
