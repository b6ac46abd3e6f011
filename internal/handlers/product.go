package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "ecommerce-catalog/internal/middleware/auth"

	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/mykafka"
	"ecommerce-catalog/internal/slug"
	"ecommerce-catalog/internal/transport"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// GetProducts returns every visible product (active and in stock). An empty
// catalog is surfaced as 404, not as an empty success.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	if _, ok := authmw.CurrentIdentity(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var products []models.Product
	if err := h.DB.WithContext(ctx).
		Where("is_active = ? AND stock > ?", true, 0).
		Find(&products).Error; err != nil {
		l.Error("product_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	if len(products) == 0 {
		l.Warn("product_list_failed", "status", 404, "reason", "no products")
		return echo.NewHTTPError(http.StatusNotFound, "there are no products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin, authmw.RoleSupplier) {
		l.Warn("product_create_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin or supplier permission")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var category models.Category
	if err := h.DB.WithContext(ctx).First(&category, req.Category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_create_failed", "status", 404, "category_id", req.Category)
			return echo.NewHTTPError(http.StatusNotFound, "there is no category found")
		}
		l.Error("product_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	// supplier_id comes from the caller identity, never from the body.
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Slug:        slug.Make(req.Name),
		CategoryID:  category.ID,
		SupplierID:  ident.UserID,
		Rating:      0.0,
		IsActive:    true,
	}
	if err := h.DB.WithContext(ctx).Create(&product).Error; err != nil {
		l.Error("product_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	publish(c, h.Producer, topicProductEvents, strconv.FormatUint(uint64(product.ID), 10), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("product_create_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.StatusResponse{
		StatusCode:  http.StatusCreated,
		Transaction: "Successful",
	})
}

// ProductsByCategory lists visible products of the named category and its
// direct children. Exactly one level of descendants, never grandchildren.
// Unlike GetProducts, an empty result is a valid empty list.
func (h *ProductHandler) ProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category")

	categorySlug := c.Param("category_slug")

	var category models.Category
	if err := h.DB.WithContext(ctx).Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_by_category_failed", "status", 404, "category_slug", categorySlug)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("product_by_category_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	var children []models.Category
	if err := h.DB.WithContext(ctx).Where("parent_id = ?", category.ID).Find(&children).Error; err != nil {
		l.Error("product_by_category_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	categoryIDs := make([]uint, 0, len(children)+1)
	categoryIDs = append(categoryIDs, category.ID)
	for _, child := range children {
		categoryIDs = append(categoryIDs, child.ID)
	}

	products := make([]models.Product, 0)
	if err := h.DB.WithContext(ctx).
		Where("category_id IN ? AND is_active = ? AND stock > ?", categoryIDs, true, 0).
		Find(&products).Error; err != nil {
		l.Error("product_by_category_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.detail")

	productSlug := c.Param("product_slug")

	var product models.Product
	if err := h.DB.WithContext(ctx).
		Where("slug = ? AND is_active = ? AND stock > ?", productSlug, true, 0).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_detail_failed", "status", 404, "product_slug", productSlug)
			return echo.NewHTTPError(http.StatusNotFound, "there is no product found")
		}
		l.Error("product_detail_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct performs a full overwrite of the mutable fields. The rating
// field is never touched here.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin, authmw.RoleSupplier) {
		l.Warn("product_update_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin or supplier permission")
	}

	productSlug := c.Param("product_slug")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).Where("slug = ?", productSlug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_update_failed", "status", 404, "product_slug", productSlug)
			return echo.NewHTTPError(http.StatusNotFound, "there is no product found")
		}
		l.Error("product_update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	var category models.Category
	if err := h.DB.WithContext(ctx).First(&category, req.Category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_update_failed", "status", 404, "category_id", req.Category)
			return echo.NewHTTPError(http.StatusNotFound, "there is no category found")
		}
		l.Error("product_update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	product.CategoryID = category.ID
	product.Slug = slug.Make(req.Name)

	if err := h.DB.WithContext(ctx).Save(&product).Error; err != nil {
		l.Error("product_update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	publish(c, h.Producer, topicProductEvents, strconv.FormatUint(uint64(product.ID), 10), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("product_update_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, transport.StatusResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Product update is successful",
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin, authmw.RoleSupplier) {
		l.Warn("product_delete_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin or supplier permission")
	}

	productSlug := c.Param("product_slug")

	var product models.Product
	if err := h.DB.WithContext(ctx).Where("slug = ?", productSlug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_delete_failed", "status", 404, "product_slug", productSlug)
			return echo.NewHTTPError(http.StatusNotFound, "there is no product found")
		}
		l.Error("product_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	product.IsActive = false
	if err := h.DB.WithContext(ctx).Save(&product).Error; err != nil {
		l.Error("product_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	publish(c, h.Producer, topicProductEvents, strconv.FormatUint(uint64(product.ID), 10), map[string]any{
		"type":      "product_deleted",
		"productID": product.ID,
	})

	l.Info("product_delete_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, transport.StatusResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Product delete is successful",
	})
}
