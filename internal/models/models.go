package models

import (
	"time"
)

// Category is a node in the self-referencing category tree. Soft deletes
// never cascade: children and products keep pointing at an inactive parent.
type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Slug     string `gorm:"index;not null"           json:"slug"`
	ParentID *uint  `gorm:"index"                    json:"parent_id"`
	IsActive bool   `gorm:"not null;default:true"    json:"is_active"`
}

// Product price is stored in minor currency units. Rating is derived from
// active review grades and is never settable through the API.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `gorm:"not null"                 json:"description"`
	Price       int     `gorm:"not null"                 json:"price"`
	ImageURL    string  `gorm:"not null"                 json:"image_url"`
	Stock       int     `gorm:"not null"                 json:"stock"`
	Slug        string  `gorm:"index;not null"           json:"slug"`
	CategoryID  uint    `gorm:"index;not null"           json:"category_id"`
	SupplierID  uint    `gorm:"index;not null"           json:"supplier_id"`
	Rating      float64 `gorm:"not null;default:0"       json:"rating"`
	IsActive    bool    `gorm:"not null;default:true"    json:"is_active"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                         json:"id"`
	UserID      uint      `gorm:"index;not null"                                   json:"user_id"`
	ProductID   uint      `gorm:"index;not null"                                   json:"product_id"`
	Comment     *string   `json:"comment"`
	CommentDate time.Time `gorm:"not null"                                         json:"comment_date"`
	Grade       int       `gorm:"not null;check:grade >= 1 AND grade <= 5"         json:"grade"`
	IsActive    bool      `gorm:"not null;default:true"                            json:"is_active"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"not null"                 json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false"   json:"is_admin"`
	IsSupplier   bool   `gorm:"not null;default:false"   json:"is_supplier"`
	IsCustomer   bool   `gorm:"not null;default:true"    json:"is_customer"`
}

// All lists every model for migration.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &Review{}}
}
