package model

import "time"

// CartItem links a customer to a product with a quantity. One row exists per
// (customer, product) pair; adding the same product again bumps the quantity.
type CartItem struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CustomerID uint      `json:"customer_id" gorm:"index;not null"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Quantity   int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
