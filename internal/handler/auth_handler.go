package handler

import (
	"net/http"

	"agrostore/internal/service"
	"agrostore/pkg/logger"
	"agrostore/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestOTPRequest asks for a verification code.
type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest exchanges a verification code for a token.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// AuthHandler serves the phone OTP sign-in endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RequestOTP issues a verification code for a phone number
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	log := logger.FromContext(c)

	var req RequestOTPRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	prometheus.AuthAttemptsCounter.Inc()
	if err := h.svc.RequestOTP(c.Request().Context(), req.Phone); err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Failed to issue verification code", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent successfully!"})
}

// VerifyOTP validates a code and returns a bearer token for the customer
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	log := logger.FromContext(c)

	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	prometheus.AuthAttemptsCounter.Inc()
	token, customer, err := h.svc.VerifyOTP(c.Request().Context(), req.Phone, req.Code)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Verification failed", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("Customer authenticated", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"token":    token,
		"customer": customer,
	})
}
