package model

import "context"

// Store interfaces consumed by the service layer. The gorm-backed
// implementations live in internal/store; tests substitute in-memory fakes.
// Find methods return (nil, nil) when no row matches so that callers can
// distinguish "absent" from a storage failure.

// CategoryStore persists categories.
type CategoryStore interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id uint) (*Category, error)
	// FindByName matches the stored (normalized) name exactly.
	FindByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
}

// ProductStore persists products.
type ProductStore interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	// UpdateCategoryName rewrites the denormalized category name on every
	// product in the category in a single bulk update. Returns the number of
	// rows touched.
	UpdateCategoryName(ctx context.Context, categoryID uint, name string) (int64, error)
}

// CustomerStore persists customer accounts.
type CustomerStore interface {
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindByID(ctx context.Context, id uint) (*Customer, error)
	Create(ctx context.Context, customer *Customer) error
}

// OTPStore persists pending phone verifications.
type OTPStore interface {
	// Upsert replaces any existing challenge for the phone.
	Upsert(ctx context.Context, challenge *OTPChallenge) error
	FindByPhone(ctx context.Context, phone string) (*OTPChallenge, error)
	DeleteByPhone(ctx context.Context, phone string) error
}

// CartStore persists cart items.
type CartStore interface {
	ItemsByCustomer(ctx context.Context, customerID uint) ([]CartItem, error)
	FindByID(ctx context.Context, id uint) (*CartItem, error)
	FindByCustomerAndProduct(ctx context.Context, customerID, productID uint) (*CartItem, error)
	Create(ctx context.Context, item *CartItem) error
	Save(ctx context.Context, item *CartItem) error
	Delete(ctx context.Context, id uint) error
}
