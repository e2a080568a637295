// Package repositories contains the database access layer.
package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/pkg/cache"
	"github.com/shashiranjanraj/roastery/pkg/orm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

const productCacheTTL = 5 * time.Minute

func productCacheKey(id uint) string { return fmt.Sprintf("product:%d", id) }

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// NewProductRepositoryWith binds the repository to an explicit connection
// (used in tests).
func NewProductRepositoryWith(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) q() *orm.Query {
	if r.db != nil {
		return orm.With(r.db)
	}
	return orm.DB()
}

// Create persists a new product record.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := r.q().Create(product); err != nil {
		return err
	}
	_ = cache.Forget(productCacheKey(product.ID))
	return nil
}

// FindByID fetches one product. Soft-deleted rows are excluded unless
// includeDeleted is set. Live lookups are served read-through from the cache.
func (r *ProductRepository) FindByID(id uint, includeDeleted bool) (models.Product, error) {
	var product models.Product

	if includeDeleted {
		err := r.q().Model(&models.Product{}).Where("id = ?", id).First(&product)
		return product, err
	}

	err := r.q().Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Cache(productCacheKey(id), productCacheTTL, &product)
	if err != nil {
		return product, err
	}
	if product.ID == 0 {
		return product, ErrNotFound
	}
	return product, nil
}

// List returns one page of live products in insertion order.
func (r *ProductRepository) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := r.q().Model(&models.Product{}).
		Where("is_deleted = ?", false).
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// Update persists changes to an existing product and drops its cache entry.
func (r *ProductRepository) Update(product *models.Product) error {
	if err := r.q().Save(product); err != nil {
		return err
	}
	_ = cache.Forget(productCacheKey(product.ID))
	return nil
}

// SetDeleted flips the soft-delete flag without touching any other column.
func (r *ProductRepository) SetDeleted(id uint, deleted bool) error {
	err := r.q().Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": deleted})
	if err != nil {
		return err
	}
	_ = cache.Forget(productCacheKey(id))
	return nil
}
