package store

import (
	"context"
	"errors"
	"fmt"

	"agrostore/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerStore persists customer accounts in Postgres.
type CustomerStore struct {
	db *gorm.DB
}

var _ model.CustomerStore = (*CustomerStore)(nil)

// NewCustomerStore creates a CustomerStore around an open database handle.
func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return &customer, nil
}

func (s *CustomerStore) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %d: %w", id, err)
	}
	return &customer, nil
}

func (s *CustomerStore) Create(ctx context.Context, customer *model.Customer) error {
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// OTPStore persists pending phone verifications in Postgres.
type OTPStore struct {
	db *gorm.DB
}

var _ model.OTPStore = (*OTPStore)(nil)

// NewOTPStore creates an OTPStore around an open database handle.
func NewOTPStore(db *gorm.DB) *OTPStore {
	return &OTPStore{db: db}
}

// Upsert replaces any existing challenge for the phone so only the latest
// code is ever valid.
func (s *OTPStore) Upsert(ctx context.Context, challenge *model.OTPChallenge) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
	}).Create(challenge).Error
	if err != nil {
		return fmt.Errorf("failed to upsert verification challenge: %w", err)
	}
	return nil
}

func (s *OTPStore) FindByPhone(ctx context.Context, phone string) (*model.OTPChallenge, error) {
	var challenge model.OTPChallenge
	err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find verification challenge: %w", err)
	}
	return &challenge, nil
}

func (s *OTPStore) DeleteByPhone(ctx context.Context, phone string) error {
	err := s.db.WithContext(ctx).Where("phone = ?", phone).Delete(&model.OTPChallenge{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete verification challenge: %w", err)
	}
	return nil
}
