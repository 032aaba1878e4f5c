// Package routes mounts the public API surface.
package routes

import (
	"github.com/freshmandi/freshmandi/app/controllers"
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/middleware"
	"github.com/freshmandi/freshmandi/pkg/rbac"
	"github.com/freshmandi/freshmandi/pkg/router"
)

// RegisterAPI mounts every API route on r.
func RegisterAPI(r *router.Router) {
	authC := controllers.NewAuthController()
	productC := controllers.NewProductController()
	orderC := controllers.NewOrderController()
	notifC := controllers.NewNotificationController()

	api := r.Group("/api")

	// ── Public ────────────────────────────────────────────────────────────
	api.Post("/auth/register", "auth.register", ctx.Wrap(authC.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authC.Login))

	api.Get("/products", "products.index", ctx.Wrap(productC.Index))
	api.Get("/products/categories", "products.categories", ctx.Wrap(productC.Categories))
	api.Get("/products/farmer-areas", "products.farmer_areas", ctx.Wrap(productC.FarmerAreas))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productC.Show))

	// ── Authenticated ─────────────────────────────────────────────────────
	auth := api.Group("", middleware.AuthMiddleware)

	auth.Get("/auth/profile", "auth.profile", ctx.Wrap(authC.Profile))
	auth.Put("/auth/profile", "auth.profile.update", ctx.Wrap(authC.UpdateProfile))
	auth.Delete("/auth/account", "auth.account.delete", ctx.Wrap(authC.DeleteAccount))

	auth.Get("/favorites", "favorites.index", ctx.Wrap(productC.Favorites))
	auth.Post("/favorites/{id}", "favorites.add", ctx.Wrap(productC.AddFavorite))
	auth.Delete("/favorites/{id}", "favorites.remove", ctx.Wrap(productC.RemoveFavorite))

	auth.Get("/notifications", "notifications.index", ctx.Wrap(notifC.Index))
	auth.Post("/notifications/{id}/read", "notifications.read", ctx.Wrap(notifC.MarkRead))

	auth.Get("/orders", "orders.index", ctx.Wrap(orderC.Index))
	auth.Get("/orders/{id}", "orders.show", ctx.Wrap(orderC.Show))

	// ── Client side ───────────────────────────────────────────────────────
	client := auth.Group("", rbac.HasRole(rbac.RoleClient))
	client.Post("/orders", "orders.place", ctx.Wrap(orderC.Store))
	client.Post("/orders/{id}/cancel", "orders.cancel", ctx.Wrap(orderC.Cancel))

	// ── Farmer side ───────────────────────────────────────────────────────
	farmer := auth.Group("", rbac.HasRole(rbac.RoleFarmer))
	farmer.Post("/products", "products.store", ctx.Wrap(productC.Store))
	farmer.Put("/products/{id}", "products.update", ctx.Wrap(productC.Update))
	farmer.Delete("/products/{id}", "products.destroy", ctx.Wrap(productC.Destroy))
	farmer.Post("/products/{id}/image", "products.image", ctx.Wrap(productC.UploadImage))
	farmer.Patch("/orders/{id}/status", "orders.status", ctx.Wrap(orderC.UpdateStatus))
	farmer.Get("/orders/revenue", "orders.revenue", ctx.Wrap(orderC.Revenue))
}
