package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authmw "ecommerce-catalog/internal/middleware/auth"

	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/slug"
)

type testEnv struct {
	T          *testing.T
	E          *echo.Echo
	DB         *gorm.DB
	Auth       *AuthHandler
	Categories *CategoryHandler
	Products   *ProductHandler
	Reviews    *ReviewHandler
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, otherwise each pooled conn would see its own
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	return &testEnv{
		T:          t,
		E:          echo.New(),
		DB:         db,
		Auth:       &AuthHandler{DB: db, JWTSecret: []byte("test-secret"), TokenTTL: time.Hour},
		Categories: &CategoryHandler{DB: db},
		Products:   &ProductHandler{DB: db},
		Reviews:    &ReviewHandler{DB: db},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func asAdmin(c echo.Context) {
	authmw.SetIdentity(c, authmw.Identity{UserID: 1, Username: "admin", IsAdmin: true})
}

func asSupplier(c echo.Context) {
	authmw.SetIdentity(c, authmw.Identity{UserID: 7, Username: "supplier", IsSupplier: true})
}

func asCustomer(c echo.Context) {
	authmw.SetIdentity(c, authmw.Identity{UserID: 42, Username: "customer", IsCustomer: true})
}

func (env *testEnv) seedCategory(name string, parentID *uint) models.Category {
	env.T.Helper()
	category := models.Category{Name: name, Slug: slug.Make(name), ParentID: parentID, IsActive: true}
	require.NoError(env.T, env.DB.Create(&category).Error)
	return category
}

func (env *testEnv) seedProduct(name string, categoryID uint, stock int, active bool) models.Product {
	env.T.Helper()
	product := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       1000,
		ImageURL:    "https://img.example/" + slug.Make(name),
		Stock:       stock,
		Slug:        slug.Make(name),
		CategoryID:  categoryID,
		SupplierID:  7,
		IsActive:    active,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	if !active {
		// GORM drops zero-valued fields that carry a default tag on
		// insert, so force the column back to false.
		require.NoError(env.T, env.DB.Model(&product).Update("is_active", false).Error)
	}
	return product
}

func (env *testEnv) seedReview(productID uint, grade int, active bool) models.Review {
	env.T.Helper()
	review := models.Review{
		UserID:      42,
		ProductID:   productID,
		CommentDate: time.Now().UTC(),
		Grade:       grade,
		IsActive:    active,
	}
	require.NoError(env.T, env.DB.Create(&review).Error)
	if !active {
		// Same default-tag caveat as seedProduct.
		require.NoError(env.T, env.DB.Model(&review).Update("is_active", false).Error)
	}
	return review
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}
