// Package notification delivers order-lifecycle notifications.
//
// Define a Notification:
//
//	type OrderPlacedNotification struct{ Order models.Order }
//	func (n *OrderPlacedNotification) Via() []string { return []string{"database"} }
//	func (n *OrderPlacedNotification) ToDatabase() notification.DatabaseData {
//	    return notification.DatabaseData{
//	        Type:    "order.placed",
//	        Message: "New order for " + n.Order.ProductName,
//	        Data:    n.Order,
//	    }
//	}
//
// Send:
//
//	notification.Send(farmer.ID, &OrderPlacedNotification{Order: order})
//
// The database channel writes to the freshmandi_notifications table, which
// backs the in-app notification feed. The webhook channel POSTs JSON to an
// external URL for farmers that integrate their own systems.
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freshmandi/freshmandi/pkg/logger"
	"gorm.io/gorm"
)

// ------------------- Channel data structs -------------------

// DatabaseData carries the data stored in the notifications table.
type DatabaseData struct {
	Type    string      // e.g. "order.placed"
	Message string      // human-readable summary
	Data    interface{} // JSON-encoded into the record
}

// WebhookData carries an arbitrary JSON payload to POST to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// ------------------- Notification interface -------------------

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names: "database", "webhook".
	Via() []string
}

// Databaseable can be implemented to store the notification in the DB.
type Databaseable interface {
	ToDatabase() DatabaseData
}

// Webhookable can be implemented to support the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

// ------------------- Database records -------------------

// Record is one stored notification, addressed to a single user.
type Record struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"size:100;not null" json:"type"`
	Message string `gorm:"size:512;not null" json:"message"`
	Data    string `gorm:"type:text" json:"data,omitempty"`

	ReadAt *time.Time `json:"read_at,omitempty"`
}

func (Record) TableName() string { return "freshmandi_notifications" }

var db *gorm.DB

// UseDB wires the database channel and migrates the notifications table.
// Call once at boot.
func UseDB(d *gorm.DB) error {
	db = d
	return d.AutoMigrate(&Record{})
}

// ForUser returns the user's notifications, newest first.
func ForUser(userID uint, limit int) ([]Record, error) {
	if db == nil {
		return nil, fmt.Errorf("notification: database not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// MarkRead stamps the user's notification as read. Zero rows affected means
// the notification is missing or addressed to someone else.
func MarkRead(id, userID uint) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("notification: database not configured")
	}
	now := time.Now()
	res := db.Model(&Record{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", &now)
	return res.RowsAffected, res.Error
}

// ------------------- Send -------------------

// Send dispatches the notification to userID through all channels returned
// by Via().
func Send(userID uint, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(userID, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync dispatches the notification in a background goroutine.
func SendAsync(userID uint, n Notification) {
	go func() {
		Send(userID, n)
	}()
}

func dispatch(userID uint, channel string, n Notification) error {
	switch channel {
	case "database":
		d, ok := n.(Databaseable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Databaseable", n)
		}
		return store(userID, d.ToDatabase())

	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(wh.ToWebhook())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

// ------------------- Database channel -------------------

func store(userID uint, d DatabaseData) error {
	if db == nil {
		return fmt.Errorf("notification: database not configured")
	}

	var data string
	if d.Data != nil {
		raw, err := json.Marshal(d.Data)
		if err != nil {
			return fmt.Errorf("notification: marshal data: %w", err)
		}
		data = string(raw)
	}

	return db.Create(&Record{
		UserID:  userID,
		Type:    d.Type,
		Message: d.Message,
		Data:    data,
	}).Error
}

// ------------------- Webhook channel -------------------

func sendWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	raw, err := json.Marshal(d.Payload)
	if err != nil {
		return fmt.Errorf("notification: webhook marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.URL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
