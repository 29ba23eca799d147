package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"agrostore/internal/apperr"
	"agrostore/internal/model"
	"agrostore/pkg/config"
	"agrostore/pkg/jwtutil"

	"go.uber.org/zap"
)

// SMSSender delivers a one-time code to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSMSSender writes codes to the log instead of sending them. Development
// stand-in until an SMS provider is wired up.
type LogSMSSender struct {
	Log *zap.Logger
}

func (s *LogSMSSender) Send(_ context.Context, phone, code string) error {
	s.Log.Info("OTP code issued (log delivery)",
		zap.String("phone", phone),
		zap.String("code", code))
	return nil
}

var phonePattern = regexp.MustCompile(`^\+[0-9]{8,15}$`)

// AuthService implements the phone OTP sign-in flow: request a code, verify
// it, mint a JWT for the (possibly new) customer.
type AuthService struct {
	customers model.CustomerStore
	otps      model.OTPStore
	sender    SMSSender
	jwt       *jwtutil.JWTUtil
	cfg       config.OTPConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService with injected collaborators.
func NewAuthService(customers model.CustomerStore, otps model.OTPStore, sender SMSSender, jwt *jwtutil.JWTUtil, cfg config.OTPConfig, log *zap.Logger) *AuthService {
	return &AuthService{
		customers: customers,
		otps:      otps,
		sender:    sender,
		jwt:       jwt,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// RequestOTP issues a fresh code for the phone, replacing any pending
// challenge, and hands it to the SMS sender.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return apperr.New(apperr.KindInvalidInput, "Invalid phone number format")
	}

	code, err := s.generateCode()
	if err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to generate verification code", err)
	}

	challenge := &model.OTPChallenge{
		Phone:     phone,
		CodeHash:  hashCode(code),
		ExpiresAt: s.now().Add(s.cfg.TTL),
		CreatedAt: s.now(),
	}
	if err := s.otps.Upsert(ctx, challenge); err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to store verification code", err)
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		s.log.Error("Failed to deliver verification code",
			zap.String("phone", phone),
			zap.Error(err))
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to send verification code", err)
	}

	s.log.Info("Verification code sent", zap.String("phone", phone))
	return nil
}

// VerifyOTP checks the code against the pending challenge. On success the
// challenge is consumed, the customer is found or created by phone, and a
// signed token is returned.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (string, *model.Customer, error) {
	if !phonePattern.MatchString(phone) {
		return "", nil, apperr.New(apperr.KindInvalidInput, "Invalid phone number format")
	}

	challenge, err := s.otps.FindByPhone(ctx, phone)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load verification code", err)
	}
	if challenge == nil {
		return "", nil, apperr.New(apperr.KindInvalidInput, "No verification code was requested for this phone number")
	}
	if s.now().After(challenge.ExpiresAt) {
		// Expired challenges are gone for good; the caller must request a
		// new code.
		if err := s.otps.DeleteByPhone(ctx, phone); err != nil {
			s.log.Warn("Failed to remove expired verification code",
				zap.String("phone", phone),
				zap.Error(err))
		}
		return "", nil, apperr.New(apperr.KindInvalidInput, "Verification code has expired")
	}
	if subtle.ConstantTimeCompare([]byte(challenge.CodeHash), []byte(hashCode(code))) != 1 {
		return "", nil, apperr.New(apperr.KindInvalidInput, "Invalid verification code")
	}

	if err := s.otps.DeleteByPhone(ctx, phone); err != nil {
		return "", nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to consume verification code", err)
	}

	customer, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load customer", err)
	}
	if customer == nil {
		customer = &model.Customer{Phone: phone}
		if err := s.customers.Create(ctx, customer); err != nil {
			return "", nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to create customer", err)
		}
		s.log.Info("Customer created on first sign-in",
			zap.Uint("customer_id", customer.ID),
			zap.String("phone", phone))
	}

	token, err := s.jwt.GenerateToken(customer.ID, phone)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to issue token", err)
	}

	s.log.Info("Customer signed in", zap.Uint("customer_id", customer.ID))
	return token, customer, nil
}

func (s *AuthService) generateCode() (string, error) {
	digits := s.cfg.Digits
	if digits <= 0 {
		digits = 6
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
