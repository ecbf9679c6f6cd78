// Package payment adapts the Razorpay gateway: order creation over the
// Orders API and local HMAC verification of checkout signatures.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client wraps a Razorpay API client plus the key secret used to verify
// payment signatures.  The secret never leaves the server; only the key
// id may be handed to the browser checkout widget.
type Client struct {
	KeyID  string
	secret string
	api    *razorpay.Client
}

// NewClient constructs a payment client.  Both credentials are
// required.
func NewClient(keyID, keySecret string) (*Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("payment: key id and secret are required")
	}
	return &Client{
		KeyID:  keyID,
		secret: keySecret,
		api:    razorpay.NewClient(keyID, keySecret),
	}, nil
}

// CreateOrder registers an order with the gateway and returns its id.
// amountPaise is the charge in the smallest currency unit; notes are
// attached to the order for reconciliation in the Razorpay dashboard.
func (c *Client) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
		"notes":    notes,
	}
	order, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("payment: create order: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("payment: order response missing id")
	}
	return id, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID|paymentID) and
// compares it to the signature supplied by the checkout callback.  Pure
// computation, no network call.  This is the sole integrity gate
// against forged payment confirmations.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	// hmac.Equal is constant time.
	return hmac.Equal([]byte(expected), []byte(signature))
}
