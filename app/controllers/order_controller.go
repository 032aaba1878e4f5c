package controllers

import (
	"github.com/freshmandi/freshmandi/app/models"
	"github.com/freshmandi/freshmandi/app/resources"
	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/orm"
	"github.com/freshmandi/freshmandi/pkg/rbac"
	"github.com/freshmandi/freshmandi/pkg/resource"
)

// OrderController serves the order lifecycle for both sides of the market.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Store places an order for the authenticated client.
// POST /api/orders
func (oc *OrderController) Store(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := oc.service.Place(c.UserID(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.Order(order))
}

// Index lists the caller's orders: the client's purchases, or the incoming
// orders on a farmer's produce.
// GET /api/orders?status=&page=&limit=
func (oc *OrderController) Index(c *ctx.Context) {
	status := c.Query("status")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var (
		orders     []models.Order
		pagination orm.Pagination
		err        error
	)
	if c.Role() == rbac.RoleFarmer {
		orders, pagination, err = oc.service.ListForFarmer(c.UserID(), status, page, limit)
	} else {
		orders, pagination, err = oc.service.ListForClient(c.UserID(), status, page, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resource.CollectionOf(&resources.OrderResource{}, orders).
		WithPagination(pagination).
		Respond(c.W)
}

// Show returns one order visible to the caller.
// GET /api/orders/{id}
func (oc *OrderController) Show(c *ctx.Context) {
	var (
		order models.Order
		err   error
	)
	if c.Role() == rbac.RoleFarmer {
		order, err = oc.service.GetForFarmer(c.ParamUint("id"), c.UserID())
	} else {
		order, err = oc.service.GetForClient(c.ParamUint("id"), c.UserID())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Order(order))
}

// UpdateStatus moves an order forward (farmer only).
// PATCH /api/orders/{id}/status  body: {"status":"confirmed"|"delivered"}
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var in struct {
		Status string `json:"status" validate:"required,in=confirmed,delivered"`
	}
	if !c.BindJSON(&in) {
		return
	}

	order, err := oc.service.UpdateStatus(c.ParamUint("id"), c.UserID(), models.OrderStatus(in.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Order(order))
}

// Revenue reports the farmer's delivered-order earnings for a period.
// GET /api/orders/revenue?period=week|month|year
func (oc *OrderController) Revenue(c *ctx.Context) {
	summary, err := oc.service.Revenue(c.UserID(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(summary)
}

// Cancel backs the client out of a pending order.
// POST /api/orders/{id}/cancel
func (oc *OrderController) Cancel(c *ctx.Context) {
	order, err := oc.service.Cancel(c.ParamUint("id"), c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Order(order))
}
