// Package transport holds the request and response shapes of the HTTP API.
package transport

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
	Category    uint   `json:"category"`
}

type CreateReviewRequest struct {
	ProductSlug string  `json:"product_slug"`
	Comment     *string `json:"comment"`
	Grade       int     `json:"grade"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// StatusResponse is the mutation acknowledgement. The status_code field
// mirrors the HTTP status except on review deletion, where the original
// contract ships 204 in the body of a 200 response.
type StatusResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
}
