package migrations

import (
	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_and_products", &CreateUsersAndProducts{})
	migration.Register("20260101000001_create_orders_table", &CreateOrdersTable{})
}

// -------- 0001: users, products, favorites join --------

// CreateUsersAndProducts brings up accounts and the catalogue together: the
// favorites association ties users to products, so the join table needs both.
type CreateUsersAndProducts struct{}

func (m *CreateUsersAndProducts) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Product{})
}

func (m *CreateUsersAndProducts) Down(db *gorm.DB) error {
	for _, table := range []string{"user_favorites", "products", "users"} {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

// -------- 0002: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}
