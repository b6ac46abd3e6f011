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

type CategoryHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// GetCategories returns every active category. An empty list is a valid
// response here.
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	categories := make([]models.Category, 0)
	if err := h.DB.WithContext(ctx).Where("is_active = ?", true).Find(&categories).Error; err != nil {
		l.Error("category_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin) {
		l.Warn("category_create_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin permission")
	}

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	category := models.Category{
		Name:     req.Name,
		Slug:     slug.Make(req.Name),
		ParentID: req.ParentID,
		IsActive: true,
	}
	if err := h.DB.WithContext(ctx).Create(&category).Error; err != nil {
		l.Error("category_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create category")
	}

	publish(c, h.Producer, topicCategoryEvents, strconv.FormatUint(uint64(category.ID), 10), map[string]any{
		"type":       "category_created",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	l.Info("category_create_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, transport.StatusResponse{
		StatusCode:  http.StatusCreated,
		Transaction: "Successful",
	})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin) {
		l.Warn("category_update_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin permission")
	}

	categoryID, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "category_id is not an integer")
	}

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var category models.Category
	if err := h.DB.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("category_update_failed", "status", 404, "category_id", categoryID)
			return echo.NewHTTPError(http.StatusNotFound, "there is no category found")
		}
		l.Error("category_update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update category")
	}

	category.Name = req.Name
	category.Slug = slug.Make(req.Name)
	category.ParentID = req.ParentID

	if err := h.DB.WithContext(ctx).Save(&category).Error; err != nil {
		l.Error("category_update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update category")
	}

	publish(c, h.Producer, topicCategoryEvents, strconv.FormatUint(categoryID, 10), map[string]any{
		"type":       "category_updated",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	l.Info("category_update_success", "category_id", category.ID)
	return c.JSON(http.StatusOK, transport.StatusResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Category update is successful",
	})
}

// DeleteCategory marks the category inactive. There is no cascade: children
// and products keep their references.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin) {
		l.Warn("category_delete_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have admin permission")
	}

	categoryID, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "category_id is not an integer")
	}

	var category models.Category
	if err := h.DB.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("category_delete_failed", "status", 404, "category_id", categoryID)
			return echo.NewHTTPError(http.StatusNotFound, "there is no category found")
		}
		l.Error("category_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete category")
	}

	category.IsActive = false
	if err := h.DB.WithContext(ctx).Save(&category).Error; err != nil {
		l.Error("category_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete category")
	}

	publish(c, h.Producer, topicCategoryEvents, strconv.FormatUint(categoryID, 10), map[string]any{
		"type":       "category_deleted",
		"categoryID": category.ID,
	})

	l.Info("category_delete_success", "category_id", category.ID)
	return c.JSON(http.StatusOK, transport.StatusResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Category delete is successful",
	})
}
