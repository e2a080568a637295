package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/pkg/cleanup"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/orm"
	"github.com/shashiranjanraj/roastery/pkg/storage"
	"github.com/shashiranjanraj/roastery/pkg/validate"
)

// maxProductImages bounds the attachment count per product.
const maxProductImages = 3

// ProductStore is the persistence collaborator for the product workflow.
type ProductStore interface {
	Create(product *models.Product) error
	FindByID(id uint, includeDeleted bool) (models.Product, error)
	List(page, limit int) ([]models.Product, orm.Pagination, error)
	Update(product *models.Product) error
	SetDeleted(id uint, deleted bool) error
}

// AssetStore is the binary-attachment collaborator. References it hands out
// are opaque and owned by exactly one record.
type AssetStore interface {
	Save(up storage.Upload, folder string) (string, error)
	SaveAll(ups []storage.Upload, folder string) ([]string, error)
	Remove(ref string) error
	RemoveAll(refs []string)
	URL(ref string) string
}

// ProductInput carries the metadata half of a create or update request.
type ProductInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Description   string   `json:"description" validate:"required,max=1000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discountPrice" validate:"nullable,gt=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Weight        string   `json:"weight" validate:"required,in=250g,500g,1kg"`
	Type          string   `json:"type" validate:"required,in=bean,ground,kit,spice,merch,gift"`
	BrewGuide     string   `json:"brewGuide" validate:"nullable,max=1000"`
	Origin        string   `json:"origin" validate:"nullable,max=100"`
	RoastLevel    string   `json:"roastLevel" validate:"nullable,in=Light,Medium,Dark"`
	InStock       *bool    `json:"inStock" validate:"nullable,boolean"`
	IsActive      *bool    `json:"isActive" validate:"nullable,boolean"`
}

// ProductService runs the product lifecycle: validate, upload, persist, and
// compensate when a later step fails so no stored asset outlives its record.
type ProductService struct {
	repo   ProductStore
	assets AssetStore
}

func NewProductService(repo ProductStore, assets AssetStore) *ProductService {
	return &ProductService{repo: repo, assets: assets}
}

// Create validates the input, stores every image, then persists the record.
// Validation happens before any upload, so an invalid request never touches
// the asset store. A persistence failure deletes everything stored in this
// call before the error is returned.
func (s *ProductService) Create(input ProductInput, files []storage.Upload) (models.Product, error) {
	errs := s.validateInput(input)
	if len(files) == 0 {
		errs["images"] = "at least one image is required"
	} else if len(files) > maxProductImages {
		errs["images"] = fmt.Sprintf("at most %d images are allowed", maxProductImages)
	}
	if validate.HasErrors(errs) {
		return models.Product{}, NewValidationError(errs)
	}

	refs, err := s.assets.SaveAll(files, "products")
	if err != nil {
		return models.Product{}, wrapUpload(err)
	}

	product := s.apply(models.Product{Origin: "India", InStock: true}, input)
	product.SetImageRefs(refs)

	if err := s.repo.Create(&product); err != nil {
		st := cleanup.New("product.create")
		for _, ref := range refs {
			ref := ref
			st.Add("remove "+ref, func() error { return s.assets.Remove(ref) })
		}
		st.Run()
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	logger.Info("product created", "id", product.ID, "images", len(refs))
	return product, nil
}

// Update replaces metadata and, when new images are supplied, the whole image
// set. New assets are stored before the old ones are touched; the old ones
// are deleted best-effort only after the record update succeeded.
func (s *ProductService) Update(id uint, input ProductInput, files []storage.Upload) (models.Product, error) {
	product, err := s.fetch(id, false)
	if err != nil {
		return models.Product{}, err
	}

	errs := s.validateInput(input)
	if len(files) > maxProductImages {
		errs["images"] = fmt.Sprintf("at most %d images are allowed", maxProductImages)
	}
	if validate.HasErrors(errs) {
		return models.Product{}, NewValidationError(errs)
	}

	var newRefs, oldRefs []string
	if len(files) > 0 {
		newRefs, err = s.assets.SaveAll(files, "products")
		if err != nil {
			return models.Product{}, wrapUpload(err)
		}
		oldRefs = product.ImageRefs()
	}

	product = s.apply(product, input)
	if len(newRefs) > 0 {
		product.SetImageRefs(newRefs)
	}

	if err := s.repo.Update(&product); err != nil {
		s.assets.RemoveAll(newRefs)
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	if len(oldRefs) > 0 {
		st := cleanup.New("product.update")
		for _, ref := range oldRefs {
			ref := ref
			st.Add("remove "+ref, func() error { return s.assets.Remove(ref) })
		}
		st.Run()
	}

	return product, nil
}

// Get fetches one live product.
func (s *ProductService) Get(id uint) (models.Product, error) {
	return s.fetch(id, false)
}

// List returns one page of live products in insertion order.
func (s *ProductService) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	products, pagination, err := s.repo.List(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("list products: %w", err)
	}
	return products, pagination, nil
}

// Delete soft-deletes a product. Its assets stay on disk so a later restore
// brings the record back intact.
func (s *ProductService) Delete(id uint) error {
	if _, err := s.fetch(id, false); err != nil {
		return err
	}
	if err := s.repo.SetDeleted(id, true); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// Restore flips the soft-delete flag back. Restoring a live product is a
// state error, not a no-op.
func (s *ProductService) Restore(id uint) (models.Product, error) {
	product, err := s.fetch(id, true)
	if err != nil {
		return models.Product{}, err
	}
	if !product.IsDeleted {
		return models.Product{}, ErrNotDeleted
	}
	if err := s.repo.SetDeleted(id, false); err != nil {
		return models.Product{}, fmt.Errorf("restore product %d: %w", id, err)
	}
	product.IsDeleted = false
	return product, nil
}

func (s *ProductService) fetch(id uint, includeDeleted bool) (models.Product, error) {
	product, err := s.repo.FindByID(id, includeDeleted)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return product, nil
}

// validateInput runs the tag rules plus the cross-field discount check.
func (s *ProductService) validateInput(input ProductInput) map[string]string {
	errs := validate.Struct(&input)
	if _, seen := errs["discountPrice"]; !seen &&
		input.DiscountPrice != nil && *input.DiscountPrice > input.Price {
		errs["discountPrice"] = "discountPrice must not exceed price"
	}
	return errs
}

// apply copies input onto base, leaving defaults alone for fields the
// request did not send.
func (s *ProductService) apply(base models.Product, input ProductInput) models.Product {
	base.Name = input.Name
	base.Description = input.Description
	base.Price = input.Price
	base.DiscountPrice = input.DiscountPrice
	base.Stock = input.Stock
	base.Weight = input.Weight
	base.Type = input.Type
	base.BrewGuide = input.BrewGuide
	if input.Origin != "" {
		base.Origin = input.Origin
	}
	base.RoastLevel = input.RoastLevel
	if input.InStock != nil {
		base.InStock = *input.InStock
	}
	if input.IsActive != nil {
		base.IsActive = *input.IsActive
	}
	return base
}
