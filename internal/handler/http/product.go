package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/svetlov/catalog/internal/repository"
	"github.com/svetlov/catalog/internal/service"
	"github.com/svetlov/catalog/pkg/httputil"
	"github.com/svetlov/catalog/pkg/pagination"
	"github.com/svetlov/catalog/pkg/validator"
)

// ProductHandler handles HTTP requests for product management.
type ProductHandler struct {
	service     *service.ProductService
	pageSize    int
	maxPageSize int
	logger      *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, pageSize, maxPageSize int, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:     svc,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, h.pageSize, h.maxPageSize)
	filter := repository.ProductFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	}

	if v := r.URL.Query().Get("category"); v != "" {
		categoryID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || categoryID < 1 {
			httputil.WriteInvalidParam(w, "category", "category must be a positive integer")
			return
		}
		filter.CategoryID = &categoryID
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(products, total, params),
	})
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var input service.UpdateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
