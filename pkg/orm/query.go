// Package orm is a thin, chainable wrapper over the shared *gorm.DB handle.
//
// Repositories go through this package instead of touching gorm directly:
//
//	var p models.Product
//	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&p)
//
// Updates returns the number of rows affected, which is what the inventory
// and order-status paths use for atomic conditional writes:
//
//	rows, err := orm.DB().Model(&models.Product{}).
//	    Where("id = ? AND quantity >= ?", id, amount).
//	    UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
package orm

import (
	"math"
	"time"

	"github.com/freshmandi/freshmandi/pkg/database"
	"gorm.io/gorm"
)

// Cacher is the read-through cache hook, wired to pkg/cache by pkg/app at
// boot (keeps orm and cache from importing each other).
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is nil until the application kernel wires it.
var CacheStore Cacher

// Pagination describes one page of a paginated result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// Raw wraps an arbitrary gorm handle (used by tests and transactions).
func Raw(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Select(columns string, args ...interface{}) *Query {
	return &Query{db: q.db.Select(columns, args...)}
}

func (q *Query) Group(name string) *Query {
	return &Query{db: q.db.Group(name)}
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Scan runs the built query into an arbitrary destination (aggregations).
func (q *Query) Scan(dest interface{}) error {
	return q.db.Scan(dest).Error
}

// GetWithPagination fills dest with one page and returns page metadata.
// page is 1-based; limit <= 0 falls back to 20.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cache is a read-through Get: on a cache hit dest is filled from the cache;
// on a miss the query runs and the result is stored under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// ── Writes ───────────────────────────────────────────────────────────────────

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies a column map to every row matching the built query and
// reports how many rows matched. RowsAffected == 0 on a conditional update
// means the guard did not hold — the caller decides what that implies.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// UpdateColumn sets a single column (no hooks, no updated_at bump by gorm
// expression values) and reports rows affected. Used with gorm.Expr for the
// atomic stock increment/decrement.
func (q *Query) UpdateColumn(column string, value interface{}) (int64, error) {
	res := q.db.UpdateColumn(column, value)
	return res.RowsAffected, res.Error
}

// Delete removes rows matching the built query and reports rows affected.
func (q *Query) Delete(v interface{}) (int64, error) {
	res := q.db.Delete(v)
	return res.RowsAffected, res.Error
}
