// Package ypay talks to the YPAY payment gateway: access-token
// exchange, credit-clearing charges, and receipt documents.
package ypay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"edeng/internal/domain"
)

const chargePrefix = "edeng-"

// AuthError is a failed access-token exchange; the whole checkout
// attempt aborts without touching the charge endpoint.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("ypay access token: status %d: %s", e.Status, e.Body)
}

// ChargeError is a rejected charge or document request. Body keeps the
// raw upstream response for diagnosis.
type ChargeError struct {
	Status int
	Body   string
}

func (e *ChargeError) Error() string {
	return fmt.Sprintf("ypay charge: status %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	siteURL      string
	http         *http.Client
}

func NewClient(baseURL, clientID, clientSecret, siteURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		siteURL:      strings.TrimRight(siteURL, "/"),
		http:         &http.Client{Timeout: 60 * time.Second},
	}
}

// PaymentRequest is what the checkout endpoint accepts from the cart.
type PaymentRequest struct {
	Amount  float64           `json:"amount"`
	Contact domain.Contact    `json:"contact"`
	Items   []domain.CartItem `json:"items"`
	// Discount is a whole-number percentage; zero means none.
	Discount float64 `json:"discount"`
	// IdempotencyKey, when the client supplies one, makes the charge
	// identifier stable across retried submissions.
	IdempotencyKey string `json:"idempotencyKey"`
}

type PaymentResult struct {
	URL              string `json:"url"`
	ChargeIdentifier string `json:"chargeIdentifier"`
}

type DocumentResult struct {
	URL          string `json:"url"`
	SerialNumber string `json:"serialNumber"`
}

func (c *Client) postJSON(ctx context.Context, path, bearer string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	status, body, err := c.postJSON(ctx, "/accessToken", "", map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("ypay access token: %w", err)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(body, &data)
	if status < 200 || status >= 300 || data.AccessToken == "" {
		return "", &AuthError{Status: status, Body: string(body)}
	}
	return data.AccessToken, nil
}

// ChargeIdentifier derives the gateway-facing charge tag. A client
// idempotency key keeps it stable across retries; otherwise each
// attempt gets a fresh one.
func ChargeIdentifier(idempotencyKey string) string {
	if idempotencyKey != "" {
		return chargePrefix + idempotencyKey
	}
	return chargePrefix + uuid.NewString()
}

func details(items []domain.CartItem, amount float64) string {
	labels := make([]string, len(items))
	for i, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		labels[i] = fmt.Sprintf("%s (x%d)", it.Label(), q)
	}
	return fmt.Sprintf("תשלום עבור: %s — סה\"כ %.2f ש\"ח", strings.Join(labels, ", "), amount)
}

type chargePayload struct {
	Payments         int               `json:"payments"`
	ChargeIdentifier string            `json:"chargeIdentifier"`
	DocType          int               `json:"docType"`
	Mail             bool              `json:"mail"`
	SignDoc          bool              `json:"signDoc"`
	Rounding         bool              `json:"rounding"`
	Details          string            `json:"details"`
	Lang             string            `json:"lang"`
	Currency         string            `json:"currency"`
	Contact          domain.Contact    `json:"contact"`
	Items            []domain.CartItem `json:"items"`
	NotifyURL        string            `json:"notifyUrl"`
	SuccessURL       string            `json:"successUrl"`
	FailureURL       string            `json:"failureUrl"`
	Discount         float64           `json:"discount,omitempty"`
	DiscountType     string            `json:"discountType,omitempty"`
}

// CreatePayment runs the two-step checkout flow: token exchange, then
// charge submission. The token failure path never reaches the charge
// endpoint. On success exactly the redirect URL and the charge
// identifier are relayed.
func (c *Client) CreatePayment(ctx context.Context, r PaymentRequest) (PaymentResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return PaymentResult{}, err
	}

	payload := chargePayload{
		Payments:         1,
		ChargeIdentifier: ChargeIdentifier(r.IdempotencyKey),
		DocType:          108, // receipt
		Mail:             true,
		SignDoc:          true,
		Rounding:         false,
		Details:          details(r.Items, r.Amount),
		Lang:             "he",
		Currency:         "ILS",
		Contact:          r.Contact,
		Items:            r.Items,
		NotifyURL:        c.siteURL + "/api/ypay/notify-admin",
		SuccessURL:       c.siteURL + "/order/success",
		FailureURL:       c.siteURL + "/order/failure",
	}
	if r.Discount > 0 {
		payload.Discount = r.Discount
		payload.DiscountType = "percent"
	}

	status, body, err := c.postJSON(ctx, "/payment", token, payload)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("ypay payment: %w", err)
	}
	var data struct {
		ResponseCode int    `json:"responseCode"`
		URL          string `json:"url"`
	}
	_ = json.Unmarshal(body, &data)
	// The gateway's own success sentinel is responseCode == 1.
	if status < 200 || status >= 300 || data.ResponseCode != 1 {
		return PaymentResult{}, &ChargeError{Status: status, Body: string(body)}
	}
	return PaymentResult{URL: data.URL, ChargeIdentifier: payload.ChargeIdentifier}, nil
}

type documentPayload struct {
	DocType  int               `json:"docType"`
	Mail     bool              `json:"mail"`
	SignDoc  bool              `json:"signDoc"`
	Lang     string            `json:"lang"`
	Currency string            `json:"currency"`
	Contact  domain.Contact    `json:"contact"`
	Items    []domain.CartItem `json:"items"`
	Methods  []documentMethod  `json:"methods"`
}

type documentMethod struct {
	Type  int     `json:"type"`
	Total float64 `json:"total"`
}

// CreateDocument generates a standalone receipt for an amount already
// charged (method type 4 = credit).
func (c *Client) CreateDocument(ctx context.Context, contact domain.Contact, items []domain.CartItem, amount float64) (DocumentResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return DocumentResult{}, err
	}

	payload := documentPayload{
		DocType:  108,
		Mail:     true,
		SignDoc:  true,
		Lang:     "he",
		Currency: "ILS",
		Contact:  contact,
		Items:    items,
		Methods:  []documentMethod{{Type: 4, Total: amount}},
	}

	status, body, err := c.postJSON(ctx, "/document", token, payload)
	if err != nil {
		return DocumentResult{}, fmt.Errorf("ypay document: %w", err)
	}
	var data struct {
		URL          string `json:"url"`
		SerialNumber string `json:"serial_number"`
	}
	_ = json.Unmarshal(body, &data)
	if status < 200 || status >= 300 || data.URL == "" {
		return DocumentResult{}, &ChargeError{Status: status, Body: string(body)}
	}
	return DocumentResult{URL: data.URL, SerialNumber: data.SerialNumber}, nil
}
