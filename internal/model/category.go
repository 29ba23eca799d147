package model

import "time"

// Category represents a product category. Names are stored normalized
// (trimmed, upper-cased) and are unique in that form.
type Category struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
