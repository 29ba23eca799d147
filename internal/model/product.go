package model

import "time"

// Product represents a storefront product. CategoryName is denormalized from
// the owning category so listings render without a join; the category rename
// coordinator keeps it in sync. ImageURL always points at a live object in
// the image store for the lifetime of the record.
type Product struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Brand        string    `json:"brand" gorm:"type:varchar(255);not null"`
	CategoryID   uint      `json:"category_id" gorm:"index;not null"`
	CategoryName string    `json:"category_name" gorm:"type:varchar(100);not null"`
	Price        float64   `json:"price" gorm:"not null"`
	Stock        int       `json:"stock" gorm:"default:0"`
	Description  string    `json:"description" gorm:"type:text"`
	ImageURL     string    `json:"image_url" gorm:"type:varchar(512);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductFilter narrows a product listing. Zero values mean "no constraint";
// Query matches name or brand as a case-insensitive substring.
type ProductFilter struct {
	CategoryID uint
	Query      string
	MinPrice   float64
	MaxPrice   float64
}
