package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/bind"
	"github.com/shashiranjanraj/roastery/pkg/orm"
	"github.com/shashiranjanraj/roastery/pkg/response"
)

// listPayload is the body of every paginated list response.
type listPayload struct {
	Items interface{} `json:"items"`
	orm.Pagination
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Create handles POST /api/create-product (multipart: metadata + images).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	files, err := bind.Multipart(r, &input, "images")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	product, err := c.service.Create(input, files)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Created(w, product, "Product created successfully")
}

// List handles GET /api/productlist?page&limit.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	products, pagination, err := c.service.List(page, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, listPayload{Items: products, Pagination: pagination}, "Products fetched successfully")
}

// Get handles GET /api/product/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid product id")
		return
	}

	product, err := c.service.Get(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, product, "Product fetched successfully")
}

// Update handles PUT /api/product-update/{id} (multipart, images optional).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid product id")
		return
	}

	var input services.ProductInput
	files, err := bind.Multipart(r, &input, "images")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	product, err := c.service.Update(id, input, files)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, product, "Product updated successfully")
}

// Delete handles DELETE /api/product-delete/{id} (soft delete).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid product id")
		return
	}

	if err := c.service.Delete(id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, nil, "Product deleted successfully")
}

// Restore handles PATCH /api/product-restore/{id}.
func (c *ProductController) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid product id")
		return
	}

	product, err := c.service.Restore(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.Success(w, product, "Product restored successfully")
}
