package transport

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	msgNoMatchingID      = "Không có ID phù hợp"
	msgCategoryNotExist  = "Category không tồn tại"
	msgProductNotExist   = "Product không tồn tại"
	msgCategoryIncorrect = "Category không đúng"
	msgIDNotExist        = "ID không tồn tại"
)

// Price bound query parameters of the list endpoint.
const (
	minPriceParam = "price[$gte]"
	maxPriceParam = "price[$lte]"
)

// CreateProductRequest represents the product creation payload.
// Category is the exact name of an existing category.
type CreateProductRequest struct {
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
	Category string   `json:"category" validate:"required"`
}

// UpdateProductRequest represents a partial product update. Absent fields
// are left untouched.
type UpdateProductRequest struct {
	Name     *string  `json:"name" validate:"omitnil,min=1"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
	Category *string  `json:"category" validate:"omitnil,min=1"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/slug/{categorySlug}", h.GetBySlug)
		r.Get("/slug/{categorySlug}/{productSlug}", h.GetBySlug)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.SoftDelete)
	})
}

// List handles listing products filtered by name and price range
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.NewListQuery(
		q.Get("name"),
		parsePriceBound(q.Get(minPriceParam)),
		parsePriceBound(q.Get(maxPriceParam)),
	)

	products, err := h.productService.List(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithData(w, http.StatusOK, products)
}

// GetByID handles retrieving a single product. Every failure is reported as
// a missing ID.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Debug("Product lookup failed", zap.String("id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusNotFound, msgNoMatchingID)
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// GetBySlug handles retrieving the products of a category, or a single
// product when a product slug is given
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "categorySlug")
	productSlug := chi.URLParam(r, "productSlug")

	var (
		data any
		err  error
	)
	if productSlug != "" {
		data, err = h.productService.GetBySlug(r.Context(), categorySlug, productSlug)
	} else {
		data, err = h.productService.ListByCategorySlug(r.Context(), categorySlug)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotExist)
		case errors.Is(err, service.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, msgProductNotExist)
		default:
			h.logger.Error("Failed to get products by slug",
				zap.String("category_slug", categorySlug),
				zap.String("product_slug", productSlug),
				zap.Error(err),
			)
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	middleware.RespondWithData(w, http.StatusOK, data)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ErrorMessage(err))
		return
	}

	input := service.CreateProductInput{
		Name:     req.Name,
		Category: req.Category,
	}
	if req.Price != nil {
		input.Price = *req.Price
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrCategoryInvalid) {
			middleware.RespondWithError(w, http.StatusNotFound, msgCategoryIncorrect)
			return
		}

		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Product created", zap.String("id", product.ID), zap.String("slug", product.Slug))
	middleware.RespondWithData(w, http.StatusOK, product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ErrorMessage(err))
		return
	}

	product, err := h.productService.Update(r.Context(), id, service.UpdateProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, msgCategoryNotExist)
		case errors.Is(err, service.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, msgProductNotExist)
		default:
			h.logger.Error("Failed to update product", zap.String("id", id), zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	middleware.RespondWithData(w, http.StatusOK, product)
}

// SoftDelete handles flagging a product as deleted
func (h *ProductHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.productService.SoftDelete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, msgIDNotExist)
			return
		}

		h.logger.Error("Failed to delete product", zap.String("id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Product deleted", zap.String("id", id))
	middleware.RespondWithData(w, http.StatusOK, product)
}

// parsePriceBound returns nil for a missing or unusable bound.
func parsePriceBound(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
