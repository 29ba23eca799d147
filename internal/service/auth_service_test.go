package service

import (
	"context"
	"testing"
	"time"

	"agrostore/internal/apperr"
	"agrostore/pkg/config"
	"agrostore/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (*AuthService, *fakeCustomerStore, *fakeOTPStore, *capturingSender) {
	customers := newFakeCustomerStore()
	otps := newFakeOTPStore()
	sender := &capturingSender{}
	jwt := jwtutil.New(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	svc := NewAuthService(customers, otps, sender, jwt,
		config.OTPConfig{Digits: 6, TTL: 5 * time.Minute}, zap.NewNop())
	return svc, customers, otps, sender
}

func TestRequestOTPRejectsInvalidPhone(t *testing.T) {
	svc, _, otps, _ := newAuthFixture()

	for _, phone := range []string{"", "12345", "+12", "phone", "+91 98765"} {
		err := svc.RequestOTP(context.Background(), phone)
		require.Error(t, err, phone)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
	assert.Empty(t, otps.challenges)
}

func TestRequestAndVerifyOTP(t *testing.T) {
	svc, customers, otps, sender := newAuthFixture()
	phone := "+919876543210"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	require.Len(t, sender.code, 6)
	assert.Equal(t, phone, sender.phone)

	token, customer, err := svc.VerifyOTP(context.Background(), phone, sender.code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, customer)
	assert.Equal(t, phone, customer.Phone)

	// Customer was created and the challenge consumed.
	assert.Len(t, customers.customers, 1)
	assert.Empty(t, otps.challenges)
}

func TestVerifyOTPExistingCustomerReused(t *testing.T) {
	svc, customers, _, sender := newAuthFixture()
	phone := "+919876543210"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	_, first, err := svc.VerifyOTP(context.Background(), phone, sender.code)
	require.NoError(t, err)

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	_, second, err := svc.VerifyOTP(context.Background(), phone, sender.code)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, customers.customers, 1)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, _, sender := newAuthFixture()
	phone := "+919876543210"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	wrong := "000000"
	if sender.code == wrong {
		wrong = "000001"
	}

	_, _, err := svc.VerifyOTP(context.Background(), phone, wrong)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	// The right code still works afterwards.
	_, _, err = svc.VerifyOTP(context.Background(), phone, sender.code)
	require.NoError(t, err)
}

func TestVerifyOTPWithoutRequest(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, _, err := svc.VerifyOTP(context.Background(), "+919876543210", "123456")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, otps, sender := newAuthFixture()
	phone := "+919876543210"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))

	// Jump past the TTL.
	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	_, _, err := svc.VerifyOTP(context.Background(), phone, sender.code)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Equal(t, "Verification code has expired", apperr.MessageOf(err))
	assert.Empty(t, otps.challenges)
}

func TestRequestOTPReplacesPreviousChallenge(t *testing.T) {
	svc, _, _, sender := newAuthFixture()
	phone := "+919876543210"

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	firstCode := sender.code

	require.NoError(t, svc.RequestOTP(context.Background(), phone))
	if firstCode != sender.code {
		_, _, err := svc.VerifyOTP(context.Background(), phone, firstCode)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}

	_, _, err := svc.VerifyOTP(context.Background(), phone, sender.code)
	require.NoError(t, err)
}
