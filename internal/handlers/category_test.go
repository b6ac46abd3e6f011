package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/transport"
)

func TestGetCategoriesReturnsOnlyActive(t *testing.T) {
	env := newTestEnv(t)

	env.seedCategory("Drinks", nil)
	inactive := env.seedCategory("Legacy", nil)
	require.NoError(t, env.DB.Model(&inactive).Update("is_active", false).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/categories", nil)
	require.NoError(t, env.Categories.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "Drinks", resp[0].Name)
	require.Equal(t, "drinks", resp[0].Slug)
}

func TestGetCategoriesEmptyListIsValid(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/categories", nil)
	require.NoError(t, env.Categories.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateCategoryRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body := transport.CreateCategoryRequest{Name: "Drinks"}
	_, c := env.doJSONRequest(http.MethodPost, "/categories", body)
	asCustomer(c)

	err := env.Categories.CreateCategory(c)
	require.Equal(t, http.StatusForbidden, httpStatus(t, err))

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.Zero(t, count, "forbidden create must not insert a row")
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	env := newTestEnv(t)

	parent := env.seedCategory("Drinks", nil)

	body := transport.CreateCategoryRequest{Name: "Herbal Tea", ParentID: &parent.ID}
	rec, c := env.doJSONRequest(http.MethodPost, "/categories", body)
	asAdmin(c)

	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Successful", resp.Transaction)

	var category models.Category
	require.NoError(t, env.DB.Where("name = ?", "Herbal Tea").First(&category).Error)
	require.Equal(t, "herbal-tea", category.Slug)
	require.NotNil(t, category.ParentID)
	require.Equal(t, parent.ID, *category.ParentID)
	require.True(t, category.IsActive)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	body := transport.CreateCategoryRequest{Name: "Renamed"}
	_, c := env.doJSONRequest(http.MethodPut, "/categories?category_id=999", body)
	asAdmin(c)

	err := env.Categories.UpdateCategory(c)
	require.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestUpdateCategoryOverwritesNameSlugParent(t *testing.T) {
	env := newTestEnv(t)

	parent := env.seedCategory("Drinks", nil)
	category := env.seedCategory("Tea", nil)

	body := transport.CreateCategoryRequest{Name: "Green Tea", ParentID: &parent.ID}
	rec, c := env.doJSONRequest(http.MethodPut, "/categories?category_id=2", body)
	asAdmin(c)

	require.NoError(t, env.Categories.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Category
	require.NoError(t, env.DB.First(&updated, category.ID).Error)
	require.Equal(t, "Green Tea", updated.Name)
	require.Equal(t, "green-tea", updated.Slug)
	require.NotNil(t, updated.ParentID)
	require.Equal(t, parent.ID, *updated.ParentID)
}

func TestDeleteCategorySoftDeletesWithoutCascade(t *testing.T) {
	env := newTestEnv(t)

	parent := env.seedCategory("Drinks", nil)
	child := env.seedCategory("Tea", &parent.ID)
	product := env.seedProduct("Green Tea", child.ID, 5, true)

	rec, c := env.doJSONRequest(http.MethodDelete, "/categories?category_id=1", nil)
	asAdmin(c)
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted models.Category
	require.NoError(t, env.DB.First(&deleted, parent.ID).Error)
	require.False(t, deleted.IsActive)

	// No cascade: child category and product stay active.
	var childAfter models.Category
	require.NoError(t, env.DB.First(&childAfter, child.ID).Error)
	require.True(t, childAfter.IsActive)

	var productAfter models.Product
	require.NoError(t, env.DB.First(&productAfter, product.ID).Error)
	require.True(t, productAfter.IsActive)
}

func TestDeleteCategoryIdempotentOnInactiveRow(t *testing.T) {
	env := newTestEnv(t)

	env.seedCategory("Drinks", nil)

	for i := 0; i < 2; i++ {
		rec, c := env.doJSONRequest(http.MethodDelete, "/categories?category_id=1", nil)
		asAdmin(c)
		require.NoError(t, env.Categories.DeleteCategory(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var category models.Category
	require.NoError(t, env.DB.First(&category, 1).Error)
	require.False(t, category.IsActive)
}

func TestDeleteCategoryUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodDelete, "/categories?category_id=1", nil)
	err := env.Categories.DeleteCategory(c)
	require.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}
