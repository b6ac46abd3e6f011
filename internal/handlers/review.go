package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "ecommerce-catalog/internal/middleware/auth"

	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/mykafka"
	"ecommerce-catalog/internal/transport"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// GetReviews returns every active review, 404 when there are none.
func (h *ReviewHandler) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	var reviews []models.Review
	if err := h.DB.WithContext(ctx).Where("is_active = ?", true).Find(&reviews).Error; err != nil {
		l.Error("review_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list reviews")
	}
	if len(reviews) == 0 {
		l.Warn("review_list_failed", "status", 404, "reason", "no reviews")
		return echo.NewHTTPError(http.StatusNotFound, "no reviews found")
	}

	return c.JSON(http.StatusOK, reviews)
}

// ReviewsByProduct joins reviews to products by slug. An unknown product
// slug and a product without reviews are indistinguishable: both are 404.
func (h *ReviewHandler) ReviewsByProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.by_product")

	productSlug := c.Param("product_slug")

	var reviews []models.Review
	if err := h.DB.WithContext(ctx).
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.slug = ? AND reviews.is_active = ?", productSlug, true).
		Find(&reviews).Error; err != nil {
		l.Error("review_by_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list reviews")
	}
	if len(reviews) == 0 {
		l.Warn("review_by_product_failed", "status", 404, "product_slug", productSlug)
		return echo.NewHTTPError(http.StatusNotFound, "no reviews found for "+productSlug)
	}

	return c.JSON(http.StatusOK, reviews)
}

// CreateReview inserts the review and recomputes the product rating as the
// mean of all active grades, in one transaction. A failure between the two
// statements persists neither.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleCustomer) {
		l.Warn("review_create_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "only customers are able to create reviews")
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("review_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	// Rejected here, before any row is written; the storage CHECK constraint
	// is only the backstop.
	if req.Grade < 1 || req.Grade > 5 {
		l.Warn("review_create_failed", "status", 400, "reason", "grade out of range", "grade", req.Grade)
		return echo.NewHTTPError(http.StatusBadRequest, "grade must be between 1 and 5")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).
		Where("slug = ? AND is_active = ?", req.ProductSlug, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("review_create_failed", "status", 404, "product_slug", req.ProductSlug)
			return echo.NewHTTPError(http.StatusNotFound, "no product "+req.ProductSlug+" found")
		}
		l.Error("review_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create review")
	}

	review := models.Review{
		UserID:      ident.UserID,
		ProductID:   product.ID,
		Comment:     req.Comment,
		CommentDate: time.Now().UTC(),
		Grade:       req.Grade,
		IsActive:    true,
	}

	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var grades []int
		if err := tx.Model(&models.Review{}).
			Where("product_id = ? AND is_active = ?", product.ID, true).
			Pluck("grade", &grades).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("rating", meanRating(grades)).Error
	})
	if err != nil {
		l.Error("review_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create review")
	}

	publish(c, h.Producer, topicReviewEvents, strconv.FormatUint(uint64(review.ID), 10), map[string]any{
		"type":      "review_created",
		"reviewID":  review.ID,
		"productID": product.ID,
		"grade":     review.Grade,
	})

	l.Info("review_create_success", "review_id", review.ID, "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.StatusResponse{
		StatusCode:  http.StatusCreated,
		Transaction: "Successful",
	})
}

// DeleteReview marks the review inactive without recomputing the product
// rating: a deleted grade stays in the aggregate until the next review
// arrives. Known asymmetry, kept on purpose.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	ident, ok := authmw.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if !ident.HasAny(authmw.RoleAdmin) {
		l.Warn("review_delete_forbidden", "status", 403, "user_id", ident.UserID)
		return echo.NewHTTPError(http.StatusForbidden, "only admins can delete reviews")
	}

	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "review_id is not an integer")
	}

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("review_delete_failed", "status", 404, "review_id", reviewID)
			return echo.NewHTTPError(http.StatusNotFound, "no review with "+strconv.FormatUint(reviewID, 10)+" id found")
		}
		l.Error("review_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete review")
	}

	review.IsActive = false
	if err := h.DB.WithContext(ctx).Save(&review).Error; err != nil {
		l.Error("review_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete review")
	}

	publish(c, h.Producer, topicReviewEvents, strconv.FormatUint(reviewID, 10), map[string]any{
		"type":     "review_deleted",
		"reviewID": review.ID,
	})

	l.Info("review_delete_success", "review_id", review.ID)
	// The body carries 204 while the response itself is 200.
	return c.JSON(http.StatusOK, transport.StatusResponse{
		StatusCode:  http.StatusNoContent,
		Transaction: "Successful",
	})
}

// meanRating is the arithmetic mean of grades rounded to one decimal.
func meanRating(grades []int) float64 {
	if len(grades) == 0 {
		return 0
	}
	sum := 0
	for _, g := range grades {
		sum += g
	}
	mean := float64(sum) / float64(len(grades))
	return math.Round(mean*10) / 10
}
