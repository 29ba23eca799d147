package model

import "time"

// Customer is a storefront account keyed by verified phone number.
type Customer struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);not null;unique"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	Address   string    `json:"address,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OTPChallenge is a pending phone verification. Only the SHA-256 hash of the
// code is stored; at most one challenge exists per phone at a time.
type OTPChallenge struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	Phone     string    `json:"-" gorm:"type:varchar(20);not null;unique"`
	CodeHash  string    `json:"-" gorm:"type:varchar(64);not null"`
	ExpiresAt time.Time `json:"-"`
	CreatedAt time.Time `json:"-"`
}
