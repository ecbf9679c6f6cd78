package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/booking"
	"github.com/flowstate-hq/booking-api/internal/repository"
)

// OrderCreator registers an order with the payment gateway.  Satisfied
// by *payment.Client.
type OrderCreator interface {
	CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error)
}

// PaymentHandler exposes the checkout endpoints: order creation before
// the gateway widget opens, and the verify callback after payment.
type PaymentHandler struct {
	Gateway OrderCreator
	KeyID   string // public Razorpay key id handed to the checkout widget
	Booking *booking.Service
}

// CreateOrderRequest is the body of POST /v1/orders.  Amount is in
// whole rupees; the gateway is charged in paise.
type CreateOrderRequest struct {
	Amount      int64  `json:"amount"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	SessionTime string `json:"session_time"`
	EventID     uint64 `json:"event_id"`
}

// CreateOrder registers a gateway order for the requested amount and
// returns the ids the checkout widget needs.  Nothing is persisted
// here; a booking only exists after the payment is verified.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Amount <= 0 || req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount, name and email are required"})
	}

	amountPaise := req.Amount * 100
	receipt := "rcpt_" + uuid.NewString()
	notes := map[string]interface{}{
		"name":    req.Name,
		"email":   req.Email,
		"session": req.SessionTime,
	}
	orderID, err := h.Gateway.CreateOrder(amountPaise, receipt, notes)
	if err != nil {
		c.Logger().Errorf("create order failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create order"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order_id": orderID,
		"amount":   amountPaise,
		"currency": "INR",
		"key_id":   h.KeyID,
	})
}

// VerifyRequest is the body of POST /v1/payments/verify, carrying the
// gateway callback fields plus the visitor details captured on the
// booking form.
type VerifyRequest struct {
	OrderID     string `json:"razorpay_order_id"`
	PaymentID   string `json:"razorpay_payment_id"`
	Signature   string `json:"razorpay_signature"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	UserPhone   string `json:"user_phone"`
	SessionTime string `json:"session_time"`
	Amount      int64  `json:"amount"`
	EventID     uint64 `json:"event_id"`
}

// VerifyPayment runs the confirmation workflow and maps its outcomes to
// HTTP statuses.  A persisted booking is always a 201, even when the
// confirmation email could not be sent; email_sent tells the client
// which message to show.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Booking.Confirm(c.Request().Context(), booking.ConfirmRequest{
		OrderID:     req.OrderID,
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		UserPhone:   req.UserPhone,
		SessionTime: req.SessionTime,
		Amount:      req.Amount,
		EventID:     req.EventID,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
		case errors.Is(err, booking.ErrInvalidSignature):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment signature"})
		case errors.Is(err, repository.ErrEventFull):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "event is fully booked"})
		case errors.Is(err, repository.ErrDuplicateBooking):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already recorded"})
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		default:
			c.Logger().Errorf("verify payment failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm booking"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking":    res.Booking,
		"email_sent": res.EmailSent,
	})
}
