// Package orm is a thin query helper over GORM with offset pagination and
// optional read-through caching.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/roastery/pkg/database"
)

// Cacher is the read-through cache hook. It is assigned at boot from
// pkg/cache so neither package imports the other.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set once during startup; nil disables Query.Cache.
var CacheStore Cacher

// Pagination is the offset-based page metadata returned with every list.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// DefaultPageSize is used when the caller passes limit <= 0.
const DefaultPageSize = 5

// NewPagination normalises page/limit and computes totalPages.
func NewPagination(total int64, page, limit int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// Offset returns the row offset for this page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Query wraps a gorm.DB handle with a small chainable API.
type Query struct {
	db *gorm.DB
}

// DB returns a Query over the global database connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With returns a Query over an explicit connection (used in tests).
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Updates(v interface{}) error {
	return q.db.Updates(v).Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// GetWithPagination fills dest with one page of rows (insertion order) and
// returns the pagination metadata.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	p := NewPagination(total, page, limit)
	err := q.db.Session(&gorm.Session{}).
		Order("id ASC").Offset(p.Offset()).Limit(p.Limit).Find(dest).Error
	return p, err
}

// Cache serves dest from CacheStore when the key is warm, otherwise runs the
// query and fills the cache.
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
