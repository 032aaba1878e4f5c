package controllers

import (
	"github.com/freshmandi/freshmandi/pkg/ctx"
	"github.com/freshmandi/freshmandi/pkg/notification"
	"github.com/freshmandi/freshmandi/pkg/resource"
)

// NotificationController serves the in-app notification feed.
type NotificationController struct{}

func NewNotificationController() *NotificationController {
	return &NotificationController{}
}

// Index lists the caller's notifications, newest first.
// GET /api/notifications?limit=
func (nc *NotificationController) Index(c *ctx.Context) {
	records, err := notification.ForUser(c.UserID(), c.QueryInt("limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Map{"notifications": records})
}

// MarkRead stamps one notification as read.
// POST /api/notifications/{id}/read
func (nc *NotificationController) MarkRead(c *ctx.Context) {
	rows, err := notification.MarkRead(c.ParamUint("id"), c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == 0 {
		c.NotFound("notification not found")
		return
	}
	c.Success(resource.Map{"read": true})
}
